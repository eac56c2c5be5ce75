package service

import (
	"context"
	"fmt"
	"path"
	"time"

	"docquiz/internal/domain"
	"docquiz/internal/dto"
	"docquiz/internal/logger"

	"go.uber.org/zap"
)

// UploadService issues time-limited upload credentials for document images.
type UploadService interface {
	CreateUploadURL(ctx context.Context, req *dto.UploadURLRequest) (*dto.UploadURLResponse, error)
}

type uploadService struct {
	issuer domain.UploadURLIssuer
	expiry time.Duration
}

// NewUploadService creates an UploadService with a fixed credential validity
// window.
func NewUploadService(issuer domain.UploadURLIssuer, expiry time.Duration) UploadService {
	return &uploadService{issuer: issuer, expiry: expiry}
}

// CreateUploadURL namespaces the destination key by user and timestamp so
// uploads never collide across users or repeated uploads of the same file.
func (s *uploadService) CreateUploadURL(ctx context.Context, req *dto.UploadURLRequest) (*dto.UploadURLResponse, error) {
	if req.Key == "" {
		return nil, domain.NewInvalidInputError("key is required")
	}
	if req.UserID == "" {
		return nil, domain.NewInvalidInputError("userId is required")
	}

	objectKey := fmt.Sprintf("uploads/%s/%d-%s", req.UserID, time.Now().Unix(), path.Base(req.Key))

	uploadURL, err := s.issuer.PresignedPut(ctx, objectKey, req.ContentType, s.expiry)
	if err != nil {
		logger.Get().Error("Failed to issue upload credential",
			zap.String("user_id", req.UserID),
			zap.String("key", objectKey),
			zap.Error(err),
		)
		return nil, domain.NewInternalError("failed to generate upload URL", err)
	}

	logger.Get().Info("Issued upload credential",
		zap.String("user_id", req.UserID),
		zap.String("key", objectKey),
	)

	return &dto.UploadURLResponse{
		UploadURL: uploadURL,
		Key:       objectKey,
		ExpiresIn: int(s.expiry.Seconds()),
	}, nil
}
