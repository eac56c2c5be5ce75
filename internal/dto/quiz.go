package dto

import "docquiz/internal/domain"

// GenerateQuizRequest is the request body for generating a quiz from already
// extracted text.
// @Description Request body for quiz generation from source text
type GenerateQuizRequest struct {
	UserID            string `json:"userId"`
	DocumentID        string `json:"documentId"`
	SourceText        string `json:"sourceText"`
	NumberOfQuestions int    `json:"numberOfQuestions,omitempty"` // defaults to 5
}

// ProcessDocumentRequest is the request body for the full document pipeline:
// OCR extraction followed by quiz generation.
// @Description Request body for processing an uploaded document image
type ProcessDocumentRequest struct {
	UserID            string `json:"userId"`
	DocumentID        string `json:"documentId"`
	Bucket            string `json:"bucket"`
	Key               string `json:"key"`
	NumberOfQuestions int    `json:"numberOfQuestions,omitempty"`
}

// QuizSummaryResponse reports a successful generation run.
type QuizSummaryResponse struct {
	Success        bool   `json:"success"`
	QuizID         string `json:"quizId"`
	QuestionsCount int    `json:"questionsCount"`
}

// DocumentQuizSummaryResponse reports a successful document-intake run. It
// additionally carries the length of the extracted text.
type DocumentQuizSummaryResponse struct {
	Success             bool   `json:"success"`
	DocumentID          string `json:"documentId"`
	QuizID              string `json:"quizId"`
	QuestionsCount      int    `json:"questionsCount"`
	ExtractedTextLength int    `json:"extractedTextLength"`
}

// QuizResponse is the full persisted quiz record returned on reads.
type QuizResponse struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Questions      []domain.Question `json:"questions"`
	CreatedAt      string            `json:"createdAt"`
	Status         string            `json:"status"`
	UserID         string            `json:"userId"`
	DocumentID     string            `json:"documentId"`
	TotalQuestions int               `json:"totalQuestions"`
}

// UploadURLRequest asks for a time-limited write credential for an upload.
type UploadURLRequest struct {
	Key         string `json:"key"`
	ContentType string `json:"contentType,omitempty"`
	UserID      string `json:"userId"`
}

// UploadURLResponse carries the issued credential.
type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

// ErrorResponse represents an error in the API response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
