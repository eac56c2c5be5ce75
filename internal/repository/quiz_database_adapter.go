package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"docquiz/internal/domain"
	"docquiz/internal/repository/models"

	"github.com/jmoiron/sqlx"
)

// QuizDatabaseAdapter implements domain.QuizRepository using sqlx.DB
type QuizDatabaseAdapter struct {
	db *sqlx.DB
}

// NewQuizDatabaseAdapter creates a new instance of QuizDatabaseAdapter
func NewQuizDatabaseAdapter(db *sqlx.DB) domain.QuizRepository {
	return &QuizDatabaseAdapter{db: db}
}

// Save upserts the quiz keyed by its id. There is no optimistic-concurrency
// check and no read-before-write; the last writer wins.
func (a *QuizDatabaseAdapter) Save(ctx context.Context, quiz *domain.Quiz) error {
	model, err := toModelQuiz(quiz)
	if err != nil {
		return fmt.Errorf("failed to map quiz %s for persistence: %w", quiz.ID, err)
	}

	query := `MERGE INTO quizzes t
	USING (SELECT :1 AS id FROM dual) s
	ON (t.id = s.id)
	WHEN MATCHED THEN UPDATE SET
		t.title = :2,
		t.description = :3,
		t.questions = :4,
		t.created_at = :5,
		t.status = :6,
		t.user_id = :7,
		t.document_id = :8,
		t.total_questions = :9
	WHEN NOT MATCHED THEN INSERT
		(id, title, description, questions, created_at, status, user_id, document_id, total_questions)
	VALUES
		(:10, :11, :12, :13, :14, :15, :16, :17, :18)`

	_, err = a.db.ExecContext(ctx, query,
		model.ID,
		model.Title, model.Description, model.Questions, model.CreatedAt,
		model.Status, model.UserID, model.DocumentID, model.TotalQuestions,
		model.ID, model.Title, model.Description, model.Questions, model.CreatedAt,
		model.Status, model.UserID, model.DocumentID, model.TotalQuestions,
	)
	if err != nil {
		return fmt.Errorf("failed to save quiz %s: %w", quiz.ID, err)
	}
	return nil
}

// GetByID retrieves a quiz by its ID.
func (a *QuizDatabaseAdapter) GetByID(ctx context.Context, id string) (*domain.Quiz, error) {
	var model models.Quiz
	query := `SELECT
		id "id",
		title "title",
		description "description",
		questions "questions",
		created_at "created_at",
		status "status",
		user_id "user_id",
		document_id "document_id",
		total_questions "total_questions"
	FROM quizzes
	WHERE id = :1`

	err := a.db.GetContext(ctx, &model, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuizNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get quiz %s: %w", id, err)
	}
	return toDomainQuiz(&model)
}

func toModelQuiz(quiz *domain.Quiz) (*models.Quiz, error) {
	questionsJSON, err := json.Marshal(quiz.Questions)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal questions: %w", err)
	}
	return &models.Quiz{
		ID:             quiz.ID,
		Title:          quiz.Title,
		Description:    quiz.Description,
		Questions:      string(questionsJSON),
		CreatedAt:      quiz.CreatedAt,
		Status:         quiz.Status,
		UserID:         quiz.UserID,
		DocumentID:     quiz.DocumentID,
		TotalQuestions: quiz.TotalQuestions,
	}, nil
}

func toDomainQuiz(model *models.Quiz) (*domain.Quiz, error) {
	var questions []domain.Question
	if err := json.Unmarshal([]byte(model.Questions), &questions); err != nil {
		return nil, fmt.Errorf("failed to unmarshal questions for quiz %s: %w", model.ID, err)
	}
	return &domain.Quiz{
		ID:             model.ID,
		Title:          model.Title,
		Description:    model.Description,
		Questions:      questions,
		CreatedAt:      model.CreatedAt,
		Status:         model.Status,
		UserID:         model.UserID,
		DocumentID:     model.DocumentID,
		TotalQuestions: model.TotalQuestions,
	}, nil
}
