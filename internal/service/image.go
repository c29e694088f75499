package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/logger"
	"github.com/pageza/foodgram/backend/internal/storage"
)

const maxImageBytes = 10 << 20

var imageExtensions = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/gif":  "gif",
	"image/webp": "webp",
}

// ImageService decodes base64 data-URI uploads and stores them
type ImageService struct {
	storage storage.Storage
}

func NewImageService(store storage.Storage) *ImageService {
	return &ImageService{storage: store}
}

// SaveDataURI stores a "data:image/<type>;base64,<payload>" upload under
// folder and returns its URL. field names the request field for errors.
func (s *ImageService) SaveDataURI(ctx context.Context, folder, field, dataURI string) (string, error) {
	header, payload, ok := strings.Cut(dataURI, ",")
	if !ok || !strings.HasPrefix(header, "data:") || !strings.HasSuffix(header, ";base64") {
		return "", newValidationError(field, "upload a valid image as a base64 data URI")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(data) == 0 {
		return "", newValidationError(field, "upload a valid image as a base64 data URI")
	}
	if len(data) > maxImageBytes {
		return "", newValidationError(field, "image is too large")
	}

	// trust the bytes, not the declared type
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", newValidationError(field, "upload a valid image; the file is not an image or is corrupted")
	}

	key := fmt.Sprintf("%s/%s.%s", folder, uuid.NewString(), ext)
	url, err := s.storage.Put(ctx, key, data, contentType)
	if err != nil {
		return "", fmt.Errorf("store image: %w", err)
	}
	return url, nil
}

// Remove deletes a stored image; failures are logged, never returned
func (s *ImageService) Remove(ctx context.Context, url string) {
	if url == "" {
		return
	}
	if err := s.storage.Delete(ctx, url); err != nil {
		logger.Logger.Warn("failed to remove stored image", zap.String("url", url), zap.Error(err))
	}
}
