package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"docquiz/internal/cache"
	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

// PipelineService composes extraction, generation, and persistence into the
// two entry flows. Each run is strictly sequential and fail-fast: no stage is
// retried, no stage is rolled back, and no partial quiz is ever persisted.
type PipelineService interface {
	// GenerateFromText runs generation and persistence for already extracted
	// source text.
	GenerateFromText(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizSummaryResponse, error)

	// ProcessDocument runs the full pipeline: OCR extraction, generation,
	// persistence.
	ProcessDocument(ctx context.Context, req *dto.ProcessDocumentRequest) (*dto.DocumentQuizSummaryResponse, error)

	// GetQuiz returns a persisted quiz record by id.
	GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error)
}

type pipelineService struct {
	extractor domain.TextExtractor
	generator *QuizGenerator
	repo      domain.QuizRepository
	cache     domain.Cache
	quizTTL   time.Duration
}

// NewPipelineService creates the pipeline orchestrator. All collaborators are
// injected; the service holds no ambient state of its own. cacheClient may be
// nil, in which case reads always go to the repository.
func NewPipelineService(
	extractor domain.TextExtractor,
	generator *QuizGenerator,
	repo domain.QuizRepository,
	cacheClient domain.Cache,
	quizTTL time.Duration,
) PipelineService {
	return &pipelineService{
		extractor: extractor,
		generator: generator,
		repo:      repo,
		cache:     cacheClient,
		quizTTL:   quizTTL,
	}
}

func (s *pipelineService) GenerateFromText(ctx context.Context, req *dto.GenerateQuizRequest) (*dto.QuizSummaryResponse, error) {
	quizReq := &domain.QuizRequest{
		UserID:        req.UserID,
		DocumentID:    req.DocumentID,
		SourceText:    req.SourceText,
		QuestionCount: normalizeQuestionCount(req.NumberOfQuestions),
	}
	// Generate validates the request before it touches the model.
	quiz, err := s.generator.Generate(ctx, quizReq)
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, quiz); err != nil {
		return nil, err
	}

	return &dto.QuizSummaryResponse{
		Success:        true,
		QuizID:         quiz.ID,
		QuestionsCount: quiz.TotalQuestions,
	}, nil
}

func (s *pipelineService) ProcessDocument(ctx context.Context, req *dto.ProcessDocumentRequest) (*dto.DocumentQuizSummaryResponse, error) {
	// Input validation runs before any collaborator is invoked.
	if err := validateProcessDocumentRequest(req); err != nil {
		return nil, err
	}

	l := logger.Get()
	l.Info("Extracting document text",
		zap.String("document_id", req.DocumentID),
		zap.String("bucket", req.Bucket),
		zap.String("key", req.Key),
	)

	text, err := s.extractor.Extract(ctx, domain.DocumentRef{Bucket: req.Bucket, Key: req.Key})
	if err != nil {
		l.Error("Text extraction failed", zap.String("document_id", req.DocumentID), zap.Error(err))
		return nil, domain.NewExtractionError(err)
	}
	if strings.TrimSpace(text) == "" {
		// Extraction succeeding with zero usable text is a distinct caller
		// fault, not something to pass downstream.
		l.Warn("Document produced no usable text", zap.String("document_id", req.DocumentID))
		return nil, domain.NewEmptyDocumentError(req.DocumentID)
	}

	l.Info("Document text extracted",
		zap.String("document_id", req.DocumentID),
		zap.Int("extracted_text_length", len(text)),
	)

	quiz, err := s.generator.Generate(ctx, &domain.QuizRequest{
		UserID:        req.UserID,
		DocumentID:    req.DocumentID,
		SourceText:    text,
		QuestionCount: normalizeQuestionCount(req.NumberOfQuestions),
	})
	if err != nil {
		return nil, err
	}

	if err := s.persist(ctx, quiz); err != nil {
		return nil, err
	}

	return &dto.DocumentQuizSummaryResponse{
		Success:             true,
		DocumentID:          req.DocumentID,
		QuizID:              quiz.ID,
		QuestionsCount:      quiz.TotalQuestions,
		ExtractedTextLength: len(text),
	}, nil
}

func (s *pipelineService) GetQuiz(ctx context.Context, id string) (*dto.QuizResponse, error) {
	if id == "" {
		return nil, domain.NewInvalidInputError("quiz id is required")
	}

	key := cache.GenerateCacheKey("quiz", "record", id)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			var resp dto.QuizResponse
			if err := json.Unmarshal([]byte(cached), &resp); err == nil {
				return &resp, nil
			}
			// A corrupt entry is dropped and the read falls through.
			_ = s.cache.Delete(ctx, key)
		}
	}

	quiz, err := s.repo.GetByID(ctx, id)
	if err != nil {
		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, domain.NewInternalError("failed to load quiz", err)
	}

	resp := toQuizResponse(quiz)
	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			if err := s.cache.Set(ctx, key, string(payload), s.quizTTL); err != nil {
				logger.Get().Warn("Failed to cache quiz", zap.String("quiz_id", id), zap.Error(err))
			}
		}
	}
	return resp, nil
}

// persist writes the completed quiz. The write is the final stage; a failure
// here surfaces as a system fault and nothing is retried.
func (s *pipelineService) persist(ctx context.Context, quiz *domain.Quiz) error {
	if err := s.repo.Save(ctx, quiz); err != nil {
		logger.Get().Error("Quiz persistence failed", zap.String("quiz_id", quiz.ID), zap.Error(err))
		return domain.NewPersistenceError(err)
	}
	logger.Get().Info("Quiz persisted", zap.String("quiz_id", quiz.ID))
	return nil
}

func validateProcessDocumentRequest(req *dto.ProcessDocumentRequest) error {
	if req.UserID == "" {
		return domain.NewInvalidInputError("userId is required")
	}
	if req.DocumentID == "" {
		return domain.NewInvalidInputError("documentId is required")
	}
	if req.Bucket == "" || req.Key == "" {
		return domain.NewInvalidInputError("bucket and key are required")
	}
	if req.NumberOfQuestions < 0 {
		return domain.NewInvalidInputError("numberOfQuestions must be a positive integer")
	}
	return nil
}

func normalizeQuestionCount(n int) int {
	if n == 0 {
		return domain.DefaultQuestionCount
	}
	return n
}

func toQuizResponse(quiz *domain.Quiz) *dto.QuizResponse {
	return &dto.QuizResponse{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Description:    quiz.Description,
		Questions:      quiz.Questions,
		CreatedAt:      quiz.CreatedAt.Format(time.RFC3339),
		Status:         quiz.Status,
		UserID:         quiz.UserID,
		DocumentID:     quiz.DocumentID,
		TotalQuestions: quiz.TotalQuestions,
	}
}
