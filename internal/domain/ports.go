package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by Cache implementations when a key is absent.
var ErrCacheMiss = errors.New("cache: key not found")

// TextExtractor turns a stored document image into recognized text, one line
// per newline, in the order the OCR service returned them.
type TextExtractor interface {
	Extract(ctx context.Context, ref DocumentRef) (string, error)
}

// ModelInvoker performs one stateless call to a generative language model and
// returns its free-form text reply. maxTokens bounds the output budget.
type ModelInvoker interface {
	Invoke(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// QuizRepository defines the interface for quiz persistence. Save is an
// unconditional upsert keyed by Quiz.ID.
type QuizRepository interface {
	Save(ctx context.Context, quiz *Quiz) error
	GetByID(ctx context.Context, id string) (*Quiz, error)
}

// Cache defines the interface for caching operations
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}

// UploadURLIssuer issues time-limited write credentials for object storage.
// The content type is advisory; not every backend binds it into the
// credential.
type UploadURLIssuer interface {
	PresignedPut(ctx context.Context, key string, contentType string, expiry time.Duration) (string, error)
}
