package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"github.com/redis/go-redis/v9"
)

const (
	propertyKeyPrefix = "property:"
	allPropertiesKey  = "properties:all"
	cacheTTL          = 1 * time.Hour
)

// PropertyCache keeps recently fetched listings in Redis. The full snapshot
// under allPropertiesKey is invalidated explicitly after every write so a
// newly created listing shows up on the next read.
type PropertyCache struct {
	client *redis.Client
}

func NewPropertyCache(client *redis.Client) *PropertyCache {
	return &PropertyCache{client: client}
}

func (c *PropertyCache) GetProperty(ctx context.Context, id string) (*domain.Property, error) {
	data, err := c.client.Get(ctx, propertyKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // cache miss
	}
	if err != nil {
		return nil, err
	}
	var property domain.Property
	if err := json.Unmarshal(data, &property); err != nil {
		return nil, err
	}
	return &property, nil
}

func (c *PropertyCache) SetProperty(ctx context.Context, property *domain.Property) error {
	data, err := json.Marshal(property)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, propertyKeyPrefix+property.ID, data, cacheTTL).Err()
}

func (c *PropertyCache) GetAll(ctx context.Context) ([]*domain.Property, error) {
	data, err := c.client.Get(ctx, allPropertiesKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var properties []*domain.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (c *PropertyCache) SetAll(ctx context.Context, properties []*domain.Property) error {
	data, err := json.Marshal(properties)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, allPropertiesKey, data, cacheTTL).Err()
}

func (c *PropertyCache) InvalidateAll(ctx context.Context) error {
	return c.client.Del(ctx, allPropertiesKey).Err()
}
