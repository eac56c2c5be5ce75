package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"docquiz/internal/domain"
	"docquiz/internal/logger"
	"docquiz/internal/util"

	"go.uber.org/zap"
)

// defaultMaxOutputTokens bounds the model's reply; large enough for the
// default question count with explanations.
const defaultMaxOutputTokens = 2000

// promptTemplate is the grounding-safety mechanism. The ordering is
// deliberate and load-bearing: instruction (with the exact count), output
// schema, the passage verbatim, then the grounding instruction repeated after
// the passage. Models follow instructions less reliably over long passages
// unless they are reinforced at both ends of the context.
const promptTemplate = `TASK:
You are a quiz generator. Use ONLY the text below to create %d quiz questions.
Do not invent facts not found in the passage. Base every question and answer on the provided text.

Output exactly %d questions in JSON format:
{
  "questions": [
    {
      "id": "q1",
      "type": "multiple-choice",
      "question": "string",
      "options": ["opt1","opt2","opt3","opt4"],
      "answer": 0,
      "explanation": "short explanation from passage"
    }
  ]
}

PASSAGE:
%s

IMPORTANT: Only create questions about information that is explicitly stated in the passage above. Do not add external knowledge.`

// modelReply is the JSON shape the prompt instructs the model to produce.
type modelReply struct {
	Questions []domain.Question `json:"questions"`
}

// QuizGenerator turns a QuizRequest into a validated, completed Quiz through
// a single stateless model call. A malformed or invalid reply is a terminal
// failure for the request; there is no self-repair loop.
type QuizGenerator struct {
	invoker   domain.ModelInvoker
	maxTokens int
}

// NewQuizGenerator creates a new QuizGenerator using the given model invoker.
func NewQuizGenerator(invoker domain.ModelInvoker, maxTokens int) *QuizGenerator {
	if maxTokens <= 0 {
		maxTokens = defaultMaxOutputTokens
	}
	return &QuizGenerator{invoker: invoker, maxTokens: maxTokens}
}

// Generate builds the grounded prompt, invokes the model once, parses and
// validates the reply, and assembles the Quiz. Generation is all-or-nothing:
// no partially valid quiz is ever returned.
func (g *QuizGenerator) Generate(ctx context.Context, req *domain.QuizRequest) (*domain.Quiz, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	l := logger.Get()
	l.Info("Generating quiz",
		zap.String("document_id", req.DocumentID),
		zap.String("user_id", req.UserID),
		zap.Int("question_count", req.QuestionCount),
		zap.Int("source_text_length", len(req.SourceText)),
	)

	prompt := BuildPrompt(req.SourceText, req.QuestionCount)

	reply, err := g.invoker.Invoke(ctx, prompt, g.maxTokens)
	if err != nil {
		l.Error("Model invocation failed", zap.String("document_id", req.DocumentID), zap.Error(err))
		return nil, domain.NewGenerationError(err)
	}

	payload, err := ExtractJSONObject(reply)
	if err != nil {
		l.Error("Model reply contained no JSON object", zap.String("document_id", req.DocumentID), zap.Error(err))
		return nil, err
	}

	var parsed modelReply
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		l.Error("Model reply JSON did not parse", zap.String("document_id", req.DocumentID), zap.Error(err))
		return nil, domain.NewMalformedResponseError(err)
	}

	if parsed.Questions == nil {
		return nil, domain.NewValidationError("model reply is missing the questions array")
	}
	if err := domain.ValidateQuestions(parsed.Questions); err != nil {
		l.Error("Model reply failed validation", zap.String("document_id", req.DocumentID), zap.Error(err))
		return nil, err
	}
	if len(parsed.Questions) != req.QuestionCount {
		return nil, domain.NewValidationError(fmt.Sprintf("model returned %d questions, %d were requested", len(parsed.Questions), req.QuestionCount))
	}

	quiz := domain.NewQuiz(util.NewQuizID(), req, parsed.Questions)

	l.Info("Quiz generated",
		zap.String("quiz_id", quiz.ID),
		zap.String("document_id", quiz.DocumentID),
		zap.Int("total_questions", quiz.TotalQuestions),
	)
	return quiz, nil
}

// BuildPrompt renders the grounding-constrained prompt for the given passage
// and question count.
func BuildPrompt(sourceText string, questionCount int) string {
	return fmt.Sprintf(promptTemplate, questionCount, questionCount, sourceText)
}

// ExtractJSONObject locates the JSON payload inside a free-form model reply:
// the substring from the first '{' to the last '}', inclusive. This is a
// deliberate tolerance for models that wrap JSON in prose, not an oversight.
func ExtractJSONObject(reply string) (string, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end == -1 || end < start {
		return "", domain.NewMalformedResponseError(errors.New("reply contains no JSON object delimiters"))
	}
	return reply[start : end+1], nil
}
