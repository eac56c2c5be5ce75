package llm

import (
	"context"
	"fmt"

	"docquiz/internal/domain"

	"github.com/tmc/langchaingo/llms"
	openaiLLM "github.com/tmc/langchaingo/llms/openai"
)

// OpenAIInvoker implements domain.ModelInvoker using the OpenAI API.
type OpenAIInvoker struct {
	llm *openaiLLM.LLM
}

// NewOpenAIInvoker creates a new OpenAIInvoker for the given API key and
// model name.
func NewOpenAIInvoker(apiKey, modelName string) (*OpenAIInvoker, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key cannot be empty")
	}
	if modelName == "" {
		return nil, fmt.Errorf("OpenAI model name cannot be empty")
	}

	llm, err := openaiLLM.New(
		openaiLLM.WithToken(apiKey),
		openaiLLM.WithModel(modelName),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create LangchainGo OpenAI LLM client: %w", err)
	}
	return &OpenAIInvoker{llm: llm}, nil
}

// Invoke performs a single stateless completion call with a bounded output
// token budget.
func (o *OpenAIInvoker) Invoke(ctx context.Context, prompt string, maxTokens int) (string, error) {
	reply, err := llms.GenerateFromSinglePrompt(ctx, o.llm, prompt, llms.WithMaxTokens(maxTokens))
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	return reply, nil
}

var _ domain.ModelInvoker = (*OpenAIInvoker)(nil)
