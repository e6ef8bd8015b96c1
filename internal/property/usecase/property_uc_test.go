package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockPropertyRepository struct{ mock.Mock }

func (m *MockPropertyRepository) Create(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}
func (m *MockPropertyRepository) FindByID(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) FindAll(ctx context.Context) ([]*domain.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Property, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}
func (m *MockPropertyRepository) AddImage(ctx context.Context, id, url string) error {
	args := m.Called(ctx, id, url)
	return args.Error(0)
}
func (m *MockPropertyRepository) IncrementViews(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPropertyCache struct{ mock.Mock }

func (m *MockPropertyCache) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Property), args.Error(1)
}
func (m *MockPropertyCache) SetProperty(ctx context.Context, property *domain.Property) error {
	args := m.Called(ctx, property)
	return args.Error(0)
}
func (m *MockPropertyCache) GetAll(ctx context.Context) ([]*domain.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Property), args.Error(1)
}
func (m *MockPropertyCache) SetAll(ctx context.Context, properties []*domain.Property) error {
	args := m.Called(ctx, properties)
	return args.Error(0)
}
func (m *MockPropertyCache) InvalidateAll(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	args := m.Called(ctx, subject, data)
	return args.Error(0)
}

type MockOwnerDirectory struct{ mock.Mock }

func (m *MockOwnerDirectory) GetEmail(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

type MockMailer struct{ mock.Mock }

func (m *MockMailer) SendListingCreatedEmail(toEmail, listingTitle string) error {
	args := m.Called(toEmail, listingTitle)
	return args.Error(0)
}

func validProperty() *domain.Property {
	return &domain.Property{
		OwnerID:       "owner1",
		Title:         "Cozy 2BHK near Metro",
		Type:          domain.TypeApartment,
		BHK:           2,
		Furnishing:    domain.SemiFurnished,
		Location:      "Koramangala, Bangalore",
		Price:         25000,
		AvailableFrom: time.Now(),
	}
}

func newPropertyUsecaseForTest(repo *MockPropertyRepository, cache *MockPropertyCache, pub *MockPublisher, owners *MockOwnerDirectory, mailer *MockMailer) *PropertyUsecase {
	return NewPropertyUsecase(repo, cache, pub, owners, mailer, logger.NewLogger())
}

func TestPropertyUsecase_CreateProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		cache := new(MockPropertyCache)
		pub := new(MockPublisher)
		owners := new(MockOwnerDirectory)
		mailer := new(MockMailer)
		uc := newPropertyUsecaseForTest(repo, cache, pub, owners, mailer)

		property := validProperty()
		repo.On("Create", ctx, property).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Property).ID = "prop1"
		}).Return(nil).Once()
		cache.On("InvalidateAll", ctx).Return(nil).Once()
		cache.On("SetProperty", ctx, property).Return(nil).Once()
		pub.On("Publish", ctx, "property.created", mock.Anything).Return(nil).Once()
		owners.On("GetEmail", ctx, "owner1").Return("owner@example.com", nil).Once()
		mailer.On("SendListingCreatedEmail", "owner@example.com", property.Title).Return(nil).Once()

		created, err := uc.CreateProperty(ctx, property)

		assert.NoError(t, err)
		assert.Equal(t, "prop1", created.ID)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
		pub.AssertExpectations(t)
		owners.AssertExpectations(t)
		mailer.AssertExpectations(t)
	})

	t.Run("InvalidDataRejectedBeforeStore", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		uc := newPropertyUsecaseForTest(repo, new(MockPropertyCache), new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

		property := validProperty()
		property.Title = ""

		_, err := uc.CreateProperty(ctx, property)

		assert.ErrorIs(t, err, domain.ErrInvalidPropertyData)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("WriteErrorPropagates", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		cache := new(MockPropertyCache)
		uc := newPropertyUsecaseForTest(repo, cache, new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

		storeErr := errors.New("mongo unavailable")
		repo.On("Create", ctx, mock.Anything).Return(storeErr).Once()

		_, err := uc.CreateProperty(ctx, validProperty())

		assert.ErrorIs(t, err, storeErr)
		cache.AssertNotCalled(t, "InvalidateAll", mock.Anything)
	})

	t.Run("SideEffectFailuresDoNotFailCreate", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		cache := new(MockPropertyCache)
		pub := new(MockPublisher)
		owners := new(MockOwnerDirectory)
		uc := newPropertyUsecaseForTest(repo, cache, pub, owners, new(MockMailer))

		repo.On("Create", ctx, mock.Anything).Return(nil).Once()
		cache.On("InvalidateAll", ctx).Return(errors.New("redis down")).Once()
		cache.On("SetProperty", ctx, mock.Anything).Return(errors.New("redis down")).Once()
		pub.On("Publish", ctx, "property.created", mock.Anything).Return(errors.New("nats down")).Once()
		owners.On("GetEmail", ctx, "owner1").Return("", errors.New("user not found")).Once()

		_, err := uc.CreateProperty(ctx, validProperty())

		assert.NoError(t, err)
	})
}

func TestPropertyUsecase_GetProperty(t *testing.T) {
	ctx := context.Background()

	t.Run("CacheHitSkipsRepository", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		cache := new(MockPropertyCache)
		uc := newPropertyUsecaseForTest(repo, cache, new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

		cached := validProperty()
		cached.ID = "prop1"
		cache.On("GetProperty", ctx, "prop1").Return(cached, nil).Once()
		repo.On("IncrementViews", ctx, "prop1").Return(nil).Once()

		got, err := uc.GetProperty(ctx, "prop1")

		assert.NoError(t, err)
		assert.Equal(t, cached, got)
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("CacheMissFallsThroughAndBackfills", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		cache := new(MockPropertyCache)
		uc := newPropertyUsecaseForTest(repo, cache, new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

		stored := validProperty()
		stored.ID = "prop1"
		cache.On("GetProperty", ctx, "prop1").Return(nil, nil).Once()
		repo.On("FindByID", ctx, "prop1").Return(stored, nil).Once()
		cache.On("SetProperty", ctx, stored).Return(nil).Once()
		repo.On("IncrementViews", ctx, "prop1").Return(nil).Once()

		got, err := uc.GetProperty(ctx, "prop1")

		assert.NoError(t, err)
		assert.Equal(t, stored, got)
		cache.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		cache := new(MockPropertyCache)
		uc := newPropertyUsecaseForTest(repo, cache, new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

		cache.On("GetProperty", ctx, "missing").Return(nil, nil).Once()
		repo.On("FindByID", ctx, "missing").Return(nil, domain.ErrPropertyNotFound).Once()

		_, err := uc.GetProperty(ctx, "missing")

		assert.ErrorIs(t, err, ErrPropertyNotFound)
	})
}

func TestPropertyUsecase_GetAllProperties_DegradesToEmpty(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPropertyRepository)
	cache := new(MockPropertyCache)
	uc := newPropertyUsecaseForTest(repo, cache, new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

	cache.On("GetAll", ctx).Return(nil, errors.New("redis down")).Once()
	repo.On("FindAll", ctx).Return(nil, errors.New("mongo down")).Once()

	result := uc.GetAllProperties(ctx)

	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestPropertyUsecase_GetAllProperties_CachesSnapshot(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPropertyRepository)
	cache := new(MockPropertyCache)
	uc := newPropertyUsecaseForTest(repo, cache, new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

	stored := []*domain.Property{validProperty()}
	cache.On("GetAll", ctx).Return(nil, nil).Once()
	repo.On("FindAll", ctx).Return(stored, nil).Once()
	cache.On("SetAll", ctx, stored).Return(nil).Once()

	result := uc.GetAllProperties(ctx)

	assert.Equal(t, stored, result)
	cache.AssertExpectations(t)
}

func TestPropertyUsecase_GetOwnerProperties(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsOnlyOwnersListings", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		uc := newPropertyUsecaseForTest(repo, new(MockPropertyCache), new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

		owned := []*domain.Property{validProperty()}
		repo.On("FindByOwner", ctx, "owner1").Return(owned, nil).Once()

		result := uc.GetOwnerProperties(ctx, "owner1")

		assert.Equal(t, owned, result)
	})

	t.Run("DegradesToEmptyOnError", func(t *testing.T) {
		repo := new(MockPropertyRepository)
		uc := newPropertyUsecaseForTest(repo, new(MockPropertyCache), new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

		repo.On("FindByOwner", ctx, "owner1").Return(nil, errors.New("mongo down")).Once()

		result := uc.GetOwnerProperties(ctx, "owner1")

		assert.NotNil(t, result)
		assert.Empty(t, result)
	})
}

func TestPropertyUsecase_SearchProperties(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPropertyRepository)
	cache := new(MockPropertyCache)
	uc := newPropertyUsecaseForTest(repo, cache, new(MockPublisher), new(MockOwnerDirectory), new(MockMailer))

	cheap := validProperty()
	cheap.ID = "cheap"
	cheap.Price = 8000
	pricey := validProperty()
	pricey.ID = "pricey"
	pricey.Price = 50000
	cache.On("GetAll", ctx).Return([]*domain.Property{cheap, pricey}, nil).Once()

	result := uc.SearchProperties(ctx, domain.Filter{MaxPrice: 10000})

	assert.Len(t, result, 1)
	assert.Equal(t, "cheap", result[0].ID)
}
