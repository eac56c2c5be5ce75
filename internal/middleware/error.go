package middleware

import (
	"errors"
	"net/http"

	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler is the centralized error handling middleware. It distinguishes
// caller-fault errors (bad input, empty document) from system-fault errors so
// clients know whether to fix the request or simply retry later. Only a short
// message and an optional detail string cross the boundary; document text and
// quiz content never appear in error payloads.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		log := logger.Get()

		var domainErr *domain.DomainError
		if errors.As(err, &domainErr) {
			statusCode := mapDomainErrorToHTTPStatus(domainErr)

			if domainErr.IsCallerFault() {
				log.Warn("Request rejected",
					zap.String("path", c.Path()),
					zap.String("code", string(domainErr.Code)),
					zap.String("message", domainErr.Message),
				)
			} else {
				log.Error("Pipeline stage failed",
					zap.String("path", c.Path()),
					zap.String("code", string(domainErr.Code)),
					zap.String("message", domainErr.Message),
					zap.Int("status", statusCode),
					zap.Error(domainErr.Cause),
				)
			}

			resp := dto.ErrorResponse{Error: domainErr.Message}
			if domainErr.Cause != nil {
				resp.Details = domainErr.Cause.Error()
			}
			return c.Status(statusCode).JSON(resp)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			log.Warn("HTTP error",
				zap.Int("code", fiberErr.Code),
				zap.String("message", fiberErr.Message),
			)
			return c.Status(fiberErr.Code).JSON(dto.ErrorResponse{Error: fiberErr.Message})
		}

		log.Error("Unknown error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(http.StatusInternalServerError).JSON(dto.ErrorResponse{Error: "internal server error"})
	}
}

// mapDomainErrorToHTTPStatus maps domain errors to HTTP status codes
func mapDomainErrorToHTTPStatus(err *domain.DomainError) int {
	switch err.Code {
	case domain.CodeInvalidInput, domain.CodeEmptyDocument:
		return http.StatusBadRequest
	case domain.CodeQuizNotFound:
		return http.StatusNotFound
	case domain.CodeExtractionError, domain.CodeGenerationError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
