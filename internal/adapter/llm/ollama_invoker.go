package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"docquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	ollamaLLM "github.com/tmc/langchaingo/llms/ollama"
)

// OllamaInvoker implements domain.ModelInvoker against a local Ollama server.
type OllamaInvoker struct {
	llm *ollamaLLM.LLM
}

// NewOllamaInvoker creates a new OllamaInvoker. It requires the Ollama server
// URL and model name.
func NewOllamaInvoker(serverURL, modelName string) (*OllamaInvoker, error) {
	if serverURL == "" {
		return nil, fmt.Errorf("ollama server URL cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("ollama model name cannot be empty")
	}

	llm, err := ollamaLLM.New(
		ollamaLLM.WithServerURL(serverURL),
		ollamaLLM.WithModel(modelName),
		ollamaLLM.WithHTTPClient(&http.Client{Timeout: 120 * time.Second}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo Ollama LLM client: %w", err)
	}
	return &OllamaInvoker{llm: llm}, nil
}

// Invoke performs a single stateless completion call with a bounded output
// token budget.
func (o *OllamaInvoker) Invoke(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reply, err := llms.GenerateFromSinglePrompt(ctx, o.llm, prompt, llms.WithMaxTokens(maxTokens))
	if err != nil {
		return "", fmt.Errorf("ollama completion failed: %w", err)
	}
	return reply, nil
}

var _ domain.ModelInvoker = (*OllamaInvoker)(nil)
