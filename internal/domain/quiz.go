package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	// QuestionTypeMultipleChoice is the only question type this generation
	// path produces.
	QuestionTypeMultipleChoice = "multiple-choice"

	// QuizStatusCompleted is the only status that is ever persisted; a failed
	// generation never produces a Quiz at all.
	QuizStatusCompleted = "completed"

	// OptionsPerQuestion is fixed by the generation contract.
	OptionsPerQuestion = 4

	// DefaultQuestionCount is used when a request does not specify a count.
	DefaultQuestionCount = 5

	// Fixed presentation strings for quizzes produced from uploaded documents.
	GeneratedQuizTitle       = "Quiz from Your Document"
	GeneratedQuizDescription = "Generated from the content in your uploaded image"
)

// DocumentRef points at an uploaded document in object storage.
type DocumentRef struct {
	Bucket string
	Key    string
}

// QuizRequest is the transient input to quiz generation. It is never
// persisted as its own entity.
type QuizRequest struct {
	UserID        string
	DocumentID    string
	SourceText    string
	QuestionCount int
}

// Validate checks the request before any external call is made.
func (r *QuizRequest) Validate() error {
	if r.UserID == "" {
		return NewInvalidInputError("userId is required")
	}
	if r.DocumentID == "" {
		return NewInvalidInputError("documentId is required")
	}
	if strings.TrimSpace(r.SourceText) == "" {
		return NewInvalidInputError("sourceText is required and must not be empty")
	}
	if r.QuestionCount <= 0 {
		return NewInvalidInputError("questionCount must be a positive integer")
	}
	return nil
}

// Question is one multiple-choice quiz item. The JSON tags are the persisted
// and wire layout of a question record.
type Question struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Prompt      string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer"`
	Explanation string   `json:"explanation"`
}

// Validate checks a single question against the generation contract. The
// index is the question's position in its quiz, used to name the offender.
func (q *Question) Validate(index int) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return NewValidationError(fmt.Sprintf("question %d: question text is empty", index))
	}
	if len(q.Options) != OptionsPerQuestion {
		return NewValidationError(fmt.Sprintf("question %d: expected %d options, got %d", index, OptionsPerQuestion, len(q.Options)))
	}
	seen := make(map[string]struct{}, OptionsPerQuestion)
	for _, opt := range q.Options {
		if strings.TrimSpace(opt) == "" {
			return NewValidationError(fmt.Sprintf("question %d: options must be non-empty strings", index))
		}
		if _, dup := seen[opt]; dup {
			return NewValidationError(fmt.Sprintf("question %d: duplicate option %q", index, opt))
		}
		seen[opt] = struct{}{}
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
		return NewValidationError(fmt.Sprintf("question %d: answer index %d out of range [0,%d]", index, q.AnswerIndex, len(q.Options)-1))
	}
	return nil
}

// ValidateQuestions checks every question of a parsed model reply. Validation
// is all-or-nothing: the first violation fails the whole set, and re-running
// it over an already valid set never fails.
func ValidateQuestions(questions []Question) error {
	for i := range questions {
		if err := questions[i].Validate(i); err != nil {
			return err
		}
	}
	return nil
}

// Quiz is the persisted aggregate. The JSON tags are the persisted record
// layout. A Quiz is only ever constructed through NewQuiz, after its
// questions passed validation; UserID and DocumentID are immutable once set.
type Quiz struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Questions      []Question `json:"questions"`
	CreatedAt      time.Time  `json:"createdAt"`
	Status         string     `json:"status"`
	UserID         string     `json:"userId"`
	DocumentID     string     `json:"documentId"`
	TotalQuestions int        `json:"totalQuestions"`
}

// NewQuiz assembles a completed quiz from validated questions. Question ids
// are normalized to q1..qN by position so model-supplied ids can never
// collide, and the type discriminator is pinned.
func NewQuiz(id string, req *QuizRequest, questions []Question) *Quiz {
	for i := range questions {
		questions[i].ID = fmt.Sprintf("q%d", i+1)
		questions[i].Type = QuestionTypeMultipleChoice
	}
	return &Quiz{
		ID:             id,
		Title:          GeneratedQuizTitle,
		Description:    GeneratedQuizDescription,
		Questions:      questions,
		CreatedAt:      time.Now().UTC(),
		Status:         QuizStatusCompleted,
		UserID:         req.UserID,
		DocumentID:     req.DocumentID,
		TotalQuestions: len(questions),
	}
}
