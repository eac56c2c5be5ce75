package handler

import (
	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles document processing HTTP requests
type DocumentHandler struct {
	pipeline service.PipelineService
}

// NewDocumentHandler creates a new DocumentHandler instance
func NewDocumentHandler(pipeline service.PipelineService) *DocumentHandler {
	return &DocumentHandler{pipeline: pipeline}
}

// ProcessDocument godoc
// @Summary Process an uploaded document into a quiz
// @Description Extracts text from the referenced document image, generates a grounded quiz, and persists it
// @Tags documents
// @Accept json
// @Produce json
// @Param request body dto.ProcessDocumentRequest true "Document Reference"
// @Success 200 {object} dto.DocumentQuizSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /documents/process [post]
func (h *DocumentHandler) ProcessDocument(c *fiber.Ctx) error {
	var req dto.ProcessDocumentRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	summary, err := h.pipeline.ProcessDocument(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
