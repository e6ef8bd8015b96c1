package usecase

import (
	"context"
	"errors"

	"github.com/Jayeshfarkunde27/To-let/internal/platform/logger"
	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"go.uber.org/zap"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	ErrForbidden        = errors.New("user not authorized to perform this action")
)

// OwnerDirectory resolves a property owner's contact details for
// notifications.
type OwnerDirectory interface {
	GetEmail(ctx context.Context, userID string) (string, error)
}

type Mailer interface {
	SendListingCreatedEmail(toEmail, listingTitle string) error
}

type PropertyUsecase struct {
	repo      domain.PropertyRepository
	cache     domain.PropertyCache
	publisher domain.Publisher
	owners    OwnerDirectory
	mailer    Mailer
	logger    *logger.Logger
}

func NewPropertyUsecase(
	repo domain.PropertyRepository,
	cache domain.PropertyCache,
	publisher domain.Publisher,
	owners OwnerDirectory,
	mailer Mailer,
	log *logger.Logger,
) *PropertyUsecase {
	return &PropertyUsecase{
		repo:      repo,
		cache:     cache,
		publisher: publisher,
		owners:    owners,
		mailer:    mailer,
		logger:    log.Named("PropertyUsecase"),
	}
}

type propertyCreatedEvent struct {
	ID      string  `json:"id"`
	OwnerID string  `json:"owner_id"`
	Title   string  `json:"title"`
	Price   float64 `json:"price"`
}

// CreateProperty validates and persists a new listing. The write path is
// strict: any repository error propagates to the caller. Cache, event and
// email side effects are best-effort.
func (uc *PropertyUsecase) CreateProperty(ctx context.Context, property *domain.Property) (*domain.Property, error) {
	if err := property.Validate(); err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, property); err != nil {
		uc.logger.Error("failed to create property", zap.String("owner_id", property.OwnerID), zap.Error(err))
		return nil, err
	}
	uc.logger.Info("property created", zap.String("property_id", property.ID), zap.String("owner_id", property.OwnerID))

	// The cached full snapshot no longer reflects the store.
	if err := uc.cache.InvalidateAll(ctx); err != nil {
		uc.logger.Warn("failed to invalidate property snapshot cache", zap.Error(err))
	}
	if err := uc.cache.SetProperty(ctx, property); err != nil {
		uc.logger.Warn("failed to cache created property", zap.String("property_id", property.ID), zap.Error(err))
	}

	event := propertyCreatedEvent{
		ID:      property.ID,
		OwnerID: property.OwnerID,
		Title:   property.Title,
		Price:   property.Price,
	}
	if err := uc.publisher.Publish(ctx, "property.created", event); err != nil {
		uc.logger.Warn("failed to publish property.created event", zap.String("property_id", property.ID), zap.Error(err))
	}

	uc.notifyOwner(ctx, property)

	return property, nil
}

func (uc *PropertyUsecase) notifyOwner(ctx context.Context, property *domain.Property) {
	email, err := uc.owners.GetEmail(ctx, property.OwnerID)
	if err != nil {
		uc.logger.Warn("failed to resolve owner email", zap.String("owner_id", property.OwnerID), zap.Error(err))
		return
	}
	if err := uc.mailer.SendListingCreatedEmail(email, property.Title); err != nil {
		uc.logger.Warn("failed to send listing created email", zap.String("owner_id", property.OwnerID), zap.Error(err))
	}
}

// GetProperty looks the listing up in the cache first, falling back to the
// repository. A successful fetch bumps the view counter.
func (uc *PropertyUsecase) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	cached, err := uc.cache.GetProperty(ctx, id)
	if err != nil {
		uc.logger.Warn("property cache read failed", zap.String("property_id", id), zap.Error(err))
	}
	if cached != nil {
		uc.bumpViews(ctx, id)
		return cached, nil
	}

	property, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPropertyNotFound) {
			return nil, ErrPropertyNotFound
		}
		uc.logger.Error("failed to fetch property", zap.String("property_id", id), zap.Error(err))
		return nil, err
	}

	if err := uc.cache.SetProperty(ctx, property); err != nil {
		uc.logger.Warn("failed to cache property", zap.String("property_id", id), zap.Error(err))
	}
	uc.bumpViews(ctx, id)
	return property, nil
}

func (uc *PropertyUsecase) bumpViews(ctx context.Context, id string) {
	if err := uc.repo.IncrementViews(ctx, id); err != nil {
		uc.logger.Warn("failed to increment views", zap.String("property_id", id), zap.Error(err))
	}
}

// GetAllProperties returns every listing ordered by availability date,
// newest first. Read errors degrade to an empty result, never to a failure
// surfaced to the caller.
func (uc *PropertyUsecase) GetAllProperties(ctx context.Context) []*domain.Property {
	cached, err := uc.cache.GetAll(ctx)
	if err != nil {
		uc.logger.Warn("property snapshot cache read failed", zap.Error(err))
	}
	if cached != nil {
		return cached
	}

	properties, err := uc.repo.FindAll(ctx)
	if err != nil {
		uc.logger.Error("failed to fetch properties, returning empty result", zap.Error(err))
		return []*domain.Property{}
	}
	if err := uc.cache.SetAll(ctx, properties); err != nil {
		uc.logger.Warn("failed to cache property snapshot", zap.Error(err))
	}
	return properties
}

// GetOwnerProperties returns the listings owned by ownerID. Like
// GetAllProperties, infrastructure errors degrade to an empty result.
func (uc *PropertyUsecase) GetOwnerProperties(ctx context.Context, ownerID string) []*domain.Property {
	properties, err := uc.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		uc.logger.Error("failed to fetch owner properties, returning empty result",
			zap.String("owner_id", ownerID), zap.Error(err))
		return []*domain.Property{}
	}
	return properties
}

// SearchProperties applies the filter to the current listing snapshot.
func (uc *PropertyUsecase) SearchProperties(ctx context.Context, filter domain.Filter) []*domain.Property {
	return domain.ApplyFilter(uc.GetAllProperties(ctx), filter)
}
