package handler

import (
	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler handles quiz-related HTTP requests
type QuizHandler struct {
	pipeline service.PipelineService
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(pipeline service.PipelineService) *QuizHandler {
	return &QuizHandler{pipeline: pipeline}
}

// GenerateQuiz godoc
// @Summary Generate a quiz from source text
// @Description Generates a multiple-choice quiz grounded in the supplied text and persists it
// @Tags quiz
// @Accept json
// @Produce json
// @Param request body dto.GenerateQuizRequest true "Generation Request"
// @Success 200 {object} dto.QuizSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /quizzes [post]
func (h *QuizHandler) GenerateQuiz(c *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	summary, err := h.pipeline.GenerateFromText(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}

// GetQuiz godoc
// @Summary Get a persisted quiz
// @Description Returns the full quiz record by id
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quiz, err := h.pipeline.GetQuiz(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(quiz)
}
