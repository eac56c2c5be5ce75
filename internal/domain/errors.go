package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Caller-fault errors: the request itself has to change
	CodeInvalidInput  ErrorCode = "INVALID_INPUT"
	CodeEmptyDocument ErrorCode = "EMPTY_DOCUMENT"

	// System-fault errors: an underlying collaborator or the model misbehaved
	CodeInternal          ErrorCode = "INTERNAL_ERROR"
	CodeExtractionError   ErrorCode = "EXTRACTION_ERROR"
	CodeGenerationError   ErrorCode = "GENERATION_ERROR"
	CodeMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	CodeValidationError   ErrorCode = "VALIDATION_ERROR"
	CodePersistenceError  ErrorCode = "PERSISTENCE_ERROR"

	CodeQuizNotFound ErrorCode = "QUIZ_NOT_FOUND"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap exposes the underlying cause to errors.Is/As chains.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// IsCallerFault reports whether the error is something the caller can fix by
// changing the request, as opposed to a failure of this system or one of its
// collaborators.
func (e *DomainError) IsCallerFault() bool {
	switch e.Code {
	case CodeInvalidInput, CodeEmptyDocument:
		return true
	}
	return false
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Helper constructors for the pipeline's failure taxonomy

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewEmptyDocumentError(documentID string) *DomainError {
	return NewError(CodeEmptyDocument, fmt.Sprintf("no text could be extracted from document %s", documentID), nil)
}

func NewExtractionError(cause error) *DomainError {
	return NewError(CodeExtractionError, "failed to extract text from document", cause)
}

func NewGenerationError(cause error) *DomainError {
	return NewError(CodeGenerationError, "failed to generate quiz with the language model", cause)
}

func NewMalformedResponseError(cause error) *DomainError {
	return NewError(CodeMalformedResponse, "model reply did not contain a parsable JSON object", cause)
}

func NewValidationError(message string) *DomainError {
	return NewError(CodeValidationError, message, nil)
}

func NewPersistenceError(cause error) *DomainError {
	return NewError(CodePersistenceError, "failed to persist quiz", cause)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(CodeQuizNotFound, fmt.Sprintf("quiz not found: %s", quizID), nil)
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}
