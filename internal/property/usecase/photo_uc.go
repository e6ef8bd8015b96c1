package usecase

import (
	"context"
	"errors"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"go.uber.org/zap"
)

// PlaceholderImageURL stands in for a property photo when the upload fails.
// Listing creation proceeds with this image instead of aborting.
const PlaceholderImageURL = "https://images.unsplash.com/photo-1502672260266-1c1ef2d93688?q=80&w=1000"

type PhotoUsecase struct {
	storage domain.PhotoStorage
	repo    domain.PropertyRepository
	cache   domain.PropertyCache
	logger  *logger.Logger
}

func NewPhotoUsecase(storage domain.PhotoStorage, repo domain.PropertyRepository, cache domain.PropertyCache, log *logger.Logger) *PhotoUsecase {
	return &PhotoUsecase{
		storage: storage,
		repo:    repo,
		cache:   cache,
		logger:  log.Named("PhotoUsecase"),
	}
}

// UploadPhoto stores the image and appends its URL to the listing.
func (uc *PhotoUsecase) UploadPhoto(ctx context.Context, propertyID, fileName string, data []byte) (string, error) {
	url, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		return "", err
	}

	if err := uc.repo.AddImage(ctx, propertyID, url); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return "", ErrPropertyNotFound
		}
		return "", err
	}

	// The cached copy is stale now; drop it so the next read re-fetches.
	if err := uc.cache.InvalidateAll(ctx); err != nil {
		uc.logger.Warn("failed to invalidate property snapshot cache", zap.Error(err))
	}
	return url, nil
}

// UploadOrPlaceholder uploads the image and falls back to the placeholder URL
// on failure. Used during listing creation, where a failed upload must not
// block the listing itself.
func (uc *PhotoUsecase) UploadOrPlaceholder(ctx context.Context, fileName string, data []byte) string {
	if len(data) == 0 {
		return PlaceholderImageURL
	}
	url, err := uc.storage.Upload(ctx, fileName, data)
	if err != nil {
		uc.logger.Warn("photo upload failed, using placeholder image", zap.String("file_name", fileName), zap.Error(err))
		return PlaceholderImageURL
	}
	return url
}

// AttachPhoto uploads the image and appends the resulting URL to the listing,
// substituting the placeholder when the upload fails. The listing write is
// still strict: an AddImage failure propagates.
func (uc *PhotoUsecase) AttachPhoto(ctx context.Context, propertyID, fileName string, data []byte) (string, error) {
	url := uc.UploadOrPlaceholder(ctx, fileName, data)

	if err := uc.repo.AddImage(ctx, propertyID, url); err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return "", ErrPropertyNotFound
		}
		return "", err
	}

	if err := uc.cache.InvalidateAll(ctx); err != nil {
		uc.logger.Warn("failed to invalidate property snapshot cache", zap.Error(err))
	}
	return url, nil
}
