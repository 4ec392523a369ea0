package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/MKhiriev/pixshare/internal/adapter"
	"github.com/MKhiriev/pixshare/internal/logger"
	"github.com/MKhiriev/pixshare/internal/store"
	"github.com/MKhiriev/pixshare/internal/utils"
	"github.com/MKhiriev/pixshare/models"
)

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/bmp":  ".bmp",
}

type imageService struct {
	images     store.ImageRepository
	blobs      adapter.BlobStore
	moderation adapter.ModerationClient
	ids        *utils.UUIDGenerator
	now        func() time.Time

	logger *logger.Logger
}

func NewImageService(images store.ImageRepository, blobs adapter.BlobStore, moderation adapter.ModerationClient, logger *logger.Logger) ImageService {
	return &imageService{
		images:     images,
		blobs:      blobs,
		moderation: moderation,
		ids:        utils.NewUUIDGenerator(),
		now:        time.Now,
		logger:     logger,
	}
}

// Upload classifies content, stores it under users/<userID>/<id><ext> and
// records its metadata. The blob is removed again if the metadata cannot be
// saved.
func (s *imageService) Upload(ctx context.Context, userID, fileName string, content []byte) (models.Image, error) {
	log := logger.FromContext(ctx)

	contentType := http.DetectContentType(content)
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	ext, ok := imageExtensions[contentType]
	if !ok || len(content) == 0 {
		return models.Image{}, ErrInvalidImage
	}

	verdict, err := s.moderation.Classify(ctx, filepath.Base(fileName), content)
	if err != nil {
		return models.Image{}, fmt.Errorf("%w: %w", ErrModerationRejected, err)
	}

	imageID := s.ids.Generate()
	path := fmt.Sprintf("users/%s/%s%s", userID, imageID, ext)

	blob, err := s.blobs.Upload(ctx, path, content, contentType)
	if errors.Is(err, adapter.ErrBlobStoreDisabled) {
		return models.Image{}, ErrUploadsDisabled
	}
	if err != nil {
		log.Err(err).Str("func", "*imageService.Upload").Str("path", path).Msg("blob upload failed")
		return models.Image{}, fmt.Errorf("blob upload failed: %w", err)
	}

	image := models.Image{
		ImageID:     imageID,
		UserID:      userID,
		Path:        blob.Path,
		URL:         blob.URL,
		ContentType: contentType,
		Category:    verdict.Category,
		Explicit:    verdict.Explicit,
		CreatedAt:   s.now().UTC(),
	}

	if err = s.images.SaveImage(ctx, image); err != nil {
		log.Err(err).Str("func", "*imageService.Upload").Str("image_id", imageID).Msg("failed to save image metadata")
		if delErr := s.blobs.Delete(ctx, path); delErr != nil {
			log.Err(delErr).Str("path", path).Msg("orphaned blob left behind")
		}
		return models.Image{}, fmt.Errorf("failed to save image: %w", err)
	}

	return image, nil
}

func (s *imageService) List(ctx context.Context, userID string) ([]models.Image, error) {
	images, err := s.images.ListImages(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	if images == nil {
		images = []models.Image{}
	}
	return images, nil
}

// Delete removes an image of userID. Images of other users look missing.
func (s *imageService) Delete(ctx context.Context, userID, imageID string) error {
	log := logger.FromContext(ctx)

	image, err := s.images.FindImage(ctx, imageID)
	if errors.Is(err, store.ErrImageNotFound) || (err == nil && image.UserID != userID) {
		return ErrImageNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find image: %w", err)
	}

	err = s.blobs.Delete(ctx, image.Path)
	if err != nil && !errors.Is(err, adapter.ErrBlobNotFound) {
		log.Err(err).Str("func", "*imageService.Delete").Str("path", image.Path).Msg("blob delete failed")
		return fmt.Errorf("blob delete failed: %w", err)
	}

	err = s.images.DeleteImage(ctx, imageID, userID)
	if errors.Is(err, store.ErrImageNotFound) {
		return ErrImageNotFound
	}
	return err
}

func (s *imageService) Raw(ctx context.Context, path string) (io.ReadCloser, string, error) {
	path = strings.TrimLeft(path, "/")
	if path == "" || strings.Contains(path, "..") {
		return nil, "", ErrImageNotFound
	}

	body, contentType, err := s.blobs.Download(ctx, path)
	switch {
	case errors.Is(err, adapter.ErrBlobNotFound), errors.Is(err, adapter.ErrBlobStoreDisabled):
		return nil, "", ErrImageNotFound
	case err != nil:
		return nil, "", fmt.Errorf("blob download failed: %w", err)
	}

	return body, contentType, nil
}
