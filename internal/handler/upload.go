package handler

import (
	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadHandler handles upload credential HTTP requests
type UploadHandler struct {
	uploads service.UploadService
}

// NewUploadHandler creates a new UploadHandler instance
func NewUploadHandler(uploads service.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

// CreateUploadURL godoc
// @Summary Issue a time-limited upload URL
// @Description Returns a presigned PUT URL namespaced under the requesting user
// @Tags uploads
// @Accept json
// @Produce json
// @Param request body dto.UploadURLRequest true "Upload Request"
// @Success 200 {object} dto.UploadURLResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /uploads/presign [post]
func (h *UploadHandler) CreateUploadURL(c *fiber.Ctx) error {
	var req dto.UploadURLRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("invalid request body")
	}

	resp, err := h.uploads.CreateUploadURL(c.Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
