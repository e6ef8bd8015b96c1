package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPhotoStorage struct{ mock.Mock }

func (m *MockPhotoStorage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	args := m.Called(ctx, fileName, data)
	return args.String(0), args.Error(1)
}

func newPhotoUsecaseForTest(storage *MockPhotoStorage, repo *MockPropertyRepository, cache *MockPropertyCache) *PhotoUsecase {
	return NewPhotoUsecase(storage, repo, cache, logger.NewLogger())
}

func TestPhotoUsecase_UploadPhoto(t *testing.T) {
	ctx := context.Background()
	data := []byte("jpeg-bytes")

	t.Run("Success", func(t *testing.T) {
		storage := new(MockPhotoStorage)
		repo := new(MockPropertyRepository)
		cache := new(MockPropertyCache)
		uc := newPhotoUsecaseForTest(storage, repo, cache)

		storage.On("Upload", ctx, "room.jpg", data).Return("https://cdn/properties/1_room.jpg", nil).Once()
		repo.On("AddImage", ctx, "prop1", "https://cdn/properties/1_room.jpg").Return(nil).Once()
		cache.On("InvalidateAll", ctx).Return(nil).Once()

		url, err := uc.UploadPhoto(ctx, "prop1", "room.jpg", data)

		assert.NoError(t, err)
		assert.Equal(t, "https://cdn/properties/1_room.jpg", url)
		cache.AssertExpectations(t)
	})

	t.Run("UploadErrorPropagates", func(t *testing.T) {
		storage := new(MockPhotoStorage)
		repo := new(MockPropertyRepository)
		uc := newPhotoUsecaseForTest(storage, repo, new(MockPropertyCache))

		uploadErr := errors.New("minio unavailable")
		storage.On("Upload", ctx, "room.jpg", data).Return("", uploadErr).Once()

		_, err := uc.UploadPhoto(ctx, "prop1", "room.jpg", data)

		assert.ErrorIs(t, err, uploadErr)
		repo.AssertNotCalled(t, "AddImage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownProperty", func(t *testing.T) {
		storage := new(MockPhotoStorage)
		repo := new(MockPropertyRepository)
		uc := newPhotoUsecaseForTest(storage, repo, new(MockPropertyCache))

		storage.On("Upload", ctx, "room.jpg", data).Return("https://cdn/x.jpg", nil).Once()
		repo.On("AddImage", ctx, "missing", "https://cdn/x.jpg").Return(domain.ErrPropertyNotFound).Once()

		_, err := uc.UploadPhoto(ctx, "missing", "room.jpg", data)

		assert.ErrorIs(t, err, ErrPropertyNotFound)
	})
}

func TestPhotoUsecase_UploadOrPlaceholder(t *testing.T) {
	ctx := context.Background()

	t.Run("SuccessReturnsStorageURL", func(t *testing.T) {
		storage := new(MockPhotoStorage)
		uc := newPhotoUsecaseForTest(storage, new(MockPropertyRepository), new(MockPropertyCache))

		storage.On("Upload", ctx, "room.jpg", []byte("data")).Return("https://cdn/x.jpg", nil).Once()

		url := uc.UploadOrPlaceholder(ctx, "room.jpg", []byte("data"))

		assert.Equal(t, "https://cdn/x.jpg", url)
	})

	t.Run("UploadFailureFallsBackToPlaceholder", func(t *testing.T) {
		storage := new(MockPhotoStorage)
		uc := newPhotoUsecaseForTest(storage, new(MockPropertyRepository), new(MockPropertyCache))

		storage.On("Upload", ctx, "room.jpg", []byte("data")).Return("", errors.New("minio unavailable")).Once()

		url := uc.UploadOrPlaceholder(ctx, "room.jpg", []byte("data"))

		assert.Equal(t, PlaceholderImageURL, url)
	})

	t.Run("EmptyDataSkipsUpload", func(t *testing.T) {
		storage := new(MockPhotoStorage)
		uc := newPhotoUsecaseForTest(storage, new(MockPropertyRepository), new(MockPropertyCache))

		url := uc.UploadOrPlaceholder(ctx, "room.jpg", nil)

		assert.Equal(t, PlaceholderImageURL, url)
		storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPhotoUsecase_AttachPhoto(t *testing.T) {
	ctx := context.Background()
	data := []byte("jpeg-bytes")

	t.Run("PlaceholderStillAttachedWhenUploadFails", func(t *testing.T) {
		storage := new(MockPhotoStorage)
		repo := new(MockPropertyRepository)
		cache := new(MockPropertyCache)
		uc := newPhotoUsecaseForTest(storage, repo, cache)

		storage.On("Upload", ctx, "room.jpg", data).Return("", errors.New("minio unavailable")).Once()
		repo.On("AddImage", ctx, "prop1", PlaceholderImageURL).Return(nil).Once()
		cache.On("InvalidateAll", ctx).Return(nil).Once()

		url, err := uc.AttachPhoto(ctx, "prop1", "room.jpg", data)

		assert.NoError(t, err)
		assert.Equal(t, PlaceholderImageURL, url)
		repo.AssertExpectations(t)
	})

	t.Run("ListingWriteErrorPropagates", func(t *testing.T) {
		storage := new(MockPhotoStorage)
		repo := new(MockPropertyRepository)
		uc := newPhotoUsecaseForTest(storage, repo, new(MockPropertyCache))

		storage.On("Upload", ctx, "room.jpg", data).Return("https://cdn/x.jpg", nil).Once()
		writeErr := errors.New("mongo down")
		repo.On("AddImage", ctx, "prop1", "https://cdn/x.jpg").Return(writeErr).Once()

		_, err := uc.AttachPhoto(ctx, "prop1", "room.jpg", data)

		assert.ErrorIs(t, err, writeErr)
	})
}
