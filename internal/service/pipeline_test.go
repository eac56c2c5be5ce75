package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"docquiz/internal/domain"
	"docquiz/internal/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mocks ---

type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, ref domain.DocumentRef) (string, error) {
	args := m.Called(ctx, ref)
	return args.String(0), args.Error(1)
}

type MockQuizRepository struct {
	mock.Mock
}

func (m *MockQuizRepository) Save(ctx context.Context, quiz *domain.Quiz) error {
	args := m.Called(ctx, quiz)
	return args.Error(0)
}

func (m *MockQuizRepository) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Quiz), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	args := m.Called(ctx, key, value, expiration)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newTestPipeline(invoker domain.ModelInvoker, extractor domain.TextExtractor, repo domain.QuizRepository, cacheClient domain.Cache) PipelineService {
	return NewPipelineService(extractor, NewQuizGenerator(invoker, 2000), repo, cacheClient, time.Hour)
}

func TestGenerateFromText_Success(t *testing.T) {
	invoker := new(MockModelInvoker)
	invoker.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return(twoQuestionReply, nil)
	repo := new(MockQuizRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*domain.Quiz")).Return(nil)

	pipeline := newTestPipeline(invoker, new(MockTextExtractor), repo, nil)
	summary, err := pipeline.GenerateFromText(context.Background(), &dto.GenerateQuizRequest{
		UserID:            "u1",
		DocumentID:        "d1",
		SourceText:        "The sky is blue. Water boils at 100C.",
		NumberOfQuestions: 2,
	})

	require.NoError(t, err)
	assert.True(t, summary.Success)
	assert.NotEmpty(t, summary.QuizID)
	assert.Equal(t, 2, summary.QuestionsCount)
	repo.AssertExpectations(t)
}

func TestGenerateFromText_MissingUserIDSkipsAllCollaborators(t *testing.T) {
	invoker := new(MockModelInvoker)
	extractor := new(MockTextExtractor)
	repo := new(MockQuizRepository)

	pipeline := newTestPipeline(invoker, extractor, repo, nil)
	_, err := pipeline.GenerateFromText(context.Background(), &dto.GenerateQuizRequest{
		DocumentID: "d1",
		SourceText: "some text",
	})

	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidInput, err.(*domain.DomainError).Code)
	invoker.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything, mock.Anything)
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGenerateFromText_DefaultQuestionCount(t *testing.T) {
	invoker := new(MockModelInvoker)
	var seenPrompt string
	invoker.On("Invoke", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { seenPrompt = args.String(1) }).
		Return(twoQuestionReply, nil)
	repo := new(MockQuizRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	pipeline := newTestPipeline(invoker, new(MockTextExtractor), repo, nil)
	_, err := pipeline.GenerateFromText(context.Background(), &dto.GenerateQuizRequest{
		UserID:     "u1",
		DocumentID: "d1",
		SourceText: "some text",
	})

	// The reply has 2 questions but 5 were asked for, so the run fails
	// validation; what matters here is the prompt carried the default.
	require.Error(t, err)
	assert.Contains(t, seenPrompt, "create 5 quiz questions")
}

func TestGenerateFromText_SaveFailure(t *testing.T) {
	invoker := new(MockModelInvoker)
	invoker.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return(twoQuestionReply, nil)
	repo := new(MockQuizRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.New("ORA-12170: connect timeout"))

	pipeline := newTestPipeline(invoker, new(MockTextExtractor), repo, nil)
	summary, err := pipeline.GenerateFromText(context.Background(), &dto.GenerateQuizRequest{
		UserID:            "u1",
		DocumentID:        "d1",
		SourceText:        "The sky is blue.",
		NumberOfQuestions: 2,
	})

	assert.Nil(t, summary)
	require.Error(t, err)
	assert.Equal(t, domain.CodePersistenceError, err.(*domain.DomainError).Code)
}

func TestProcessDocument_Success(t *testing.T) {
	extractedText := "The sky is blue.\nWater boils at 100C."
	extractor := new(MockTextExtractor)
	extractor.On("Extract", mock.Anything, domain.DocumentRef{Bucket: "docs", Key: "uploads/u1/1-scan.png"}).
		Return(extractedText, nil)
	invoker := new(MockModelInvoker)
	invoker.On("Invoke", mock.Anything, mock.Anything, mock.Anything).Return(twoQuestionReply, nil)
	repo := new(MockQuizRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)

	pipeline := newTestPipeline(invoker, extractor, repo, nil)
	summary, err := pipeline.ProcessDocument(context.Background(), &dto.ProcessDocumentRequest{
		UserID:            "u1",
		DocumentID:        "d1",
		Bucket:            "docs",
		Key:               "uploads/u1/1-scan.png",
		NumberOfQuestions: 2,
	})

	require.NoError(t, err)
	assert.True(t, summary.Success)
	assert.Equal(t, "d1", summary.DocumentID)
	assert.Equal(t, 2, summary.QuestionsCount)
	assert.Equal(t, len(extractedText), summary.ExtractedTextLength)
}

func TestProcessDocument_EmptyDocument(t *testing.T) {
	extractor := new(MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return("  \n \t ", nil)
	invoker := new(MockModelInvoker)
	repo := new(MockQuizRepository)

	pipeline := newTestPipeline(invoker, extractor, repo, nil)
	_, err := pipeline.ProcessDocument(context.Background(), &dto.ProcessDocumentRequest{
		UserID:     "u1",
		DocumentID: "d1",
		Bucket:     "docs",
		Key:        "k",
	})

	require.Error(t, err)
	assert.Equal(t, domain.CodeEmptyDocument, err.(*domain.DomainError).Code)
	assert.True(t, err.(*domain.DomainError).IsCallerFault())
	// Nothing is forwarded to generation or persistence.
	invoker.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProcessDocument_ExtractionFailure(t *testing.T) {
	extractor := new(MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return("", errors.New("detect call failed"))
	invoker := new(MockModelInvoker)
	repo := new(MockQuizRepository)

	pipeline := newTestPipeline(invoker, extractor, repo, nil)
	_, err := pipeline.ProcessDocument(context.Background(), &dto.ProcessDocumentRequest{
		UserID:     "u1",
		DocumentID: "d1",
		Bucket:     "docs",
		Key:        "k",
	})

	require.Error(t, err)
	assert.Equal(t, domain.CodeExtractionError, err.(*domain.DomainError).Code)
	invoker.AssertNotCalled(t, "Invoke", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcessDocument_MissingRefSkipsExtraction(t *testing.T) {
	extractor := new(MockTextExtractor)

	pipeline := newTestPipeline(new(MockModelInvoker), extractor, new(MockQuizRepository), nil)
	_, err := pipeline.ProcessDocument(context.Background(), &dto.ProcessDocumentRequest{
		UserID:     "u1",
		DocumentID: "d1",
	})

	require.Error(t, err)
	assert.Equal(t, domain.CodeInvalidInput, err.(*domain.DomainError).Code)
	extractor.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestProcessDocument_ValidationFailureNothingPersisted(t *testing.T) {
	extractor := new(MockTextExtractor)
	extractor.On("Extract", mock.Anything, mock.Anything).Return("The sky is blue.", nil)
	invoker := new(MockModelInvoker)
	invoker.On("Invoke", mock.Anything, mock.Anything, mock.Anything).
		Return(`{"questions":[{"question":"Q?","options":["a","b","c","d"],"answer":5,"explanation":""}]}`, nil)
	repo := new(MockQuizRepository)

	pipeline := newTestPipeline(invoker, extractor, repo, nil)
	_, err := pipeline.ProcessDocument(context.Background(), &dto.ProcessDocumentRequest{
		UserID:            "u1",
		DocumentID:        "d1",
		Bucket:            "docs",
		Key:               "k",
		NumberOfQuestions: 1,
	})

	require.Error(t, err)
	assert.Equal(t, domain.CodeValidationError, err.(*domain.DomainError).Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestGetQuiz_CacheMissThenRepository(t *testing.T) {
	quiz := domain.NewQuiz("quiz_1", &domain.QuizRequest{UserID: "u1", DocumentID: "d1", SourceText: "t", QuestionCount: 1}, []domain.Question{
		{Prompt: "Q?", Options: []string{"a", "b", "c", "d"}, AnswerIndex: 1, Explanation: "e"},
	})

	cacheClient := new(MockCache)
	cacheClient.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrCacheMiss)
	cacheClient.On("Set", mock.Anything, mock.Anything, mock.Anything, time.Hour).Return(nil)
	repo := new(MockQuizRepository)
	repo.On("GetByID", mock.Anything, "quiz_1").Return(quiz, nil)

	pipeline := newTestPipeline(new(MockModelInvoker), new(MockTextExtractor), repo, cacheClient)
	resp, err := pipeline.GetQuiz(context.Background(), "quiz_1")

	require.NoError(t, err)
	assert.Equal(t, "quiz_1", resp.ID)
	assert.Equal(t, 1, resp.TotalQuestions)
	cacheClient.AssertExpectations(t)
	repo.AssertExpectations(t)
}

func TestGetQuiz_CacheHitSkipsRepository(t *testing.T) {
	cached, _ := json.Marshal(dto.QuizResponse{ID: "quiz_1", Status: domain.QuizStatusCompleted})

	cacheClient := new(MockCache)
	cacheClient.On("Get", mock.Anything, mock.Anything).Return(string(cached), nil)
	repo := new(MockQuizRepository)

	pipeline := newTestPipeline(new(MockModelInvoker), new(MockTextExtractor), repo, cacheClient)
	resp, err := pipeline.GetQuiz(context.Background(), "quiz_1")

	require.NoError(t, err)
	assert.Equal(t, "quiz_1", resp.ID)
	repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestGetQuiz_NotFound(t *testing.T) {
	repo := new(MockQuizRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, domain.NewQuizNotFoundError("missing"))

	pipeline := newTestPipeline(new(MockModelInvoker), new(MockTextExtractor), repo, nil)
	_, err := pipeline.GetQuiz(context.Background(), "missing")

	require.Error(t, err)
	assert.Equal(t, domain.CodeQuizNotFound, err.(*domain.DomainError).Code)
}
