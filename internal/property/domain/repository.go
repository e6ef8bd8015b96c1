package domain

import "context"

type PropertyRepository interface {
	// Create assigns the property its ID and persists it.
	Create(ctx context.Context, property *Property) error
	FindByID(ctx context.Context, id string) (*Property, error)
	// FindAll returns every property ordered by availability date, newest first.
	FindAll(ctx context.Context) ([]*Property, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Property, error)
	AddImage(ctx context.Context, id, url string) error
	IncrementViews(ctx context.Context, id string) error
}

// PropertyCache is a cache-aside store for fetched properties. Misses are
// reported as (nil, nil), not as errors.
type PropertyCache interface {
	GetProperty(ctx context.Context, id string) (*Property, error)
	SetProperty(ctx context.Context, property *Property) error
	GetAll(ctx context.Context) ([]*Property, error)
	SetAll(ctx context.Context, properties []*Property) error
	InvalidateAll(ctx context.Context) error
}

type PhotoStorage interface {
	Upload(ctx context.Context, fileName string, data []byte) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}
