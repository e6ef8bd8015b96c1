package mongodb

import (
	"fmt"
	"time"

	"github.com/Jayeshfarkunde27/To-let/internal/property/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// propertyDocument is the MongoDB representation of a domain.Property.
type propertyDocument struct {
	ID            primitive.ObjectID      `bson:"_id,omitempty"`
	OwnerID       string                  `bson:"owner_id"`
	Title         string                  `bson:"title"`
	Type          domain.PropertyType     `bson:"type"`
	BHK           int                     `bson:"bhk,omitempty"`
	Furnishing    domain.FurnishingStatus `bson:"furnishing"`
	Location      string                  `bson:"location"`
	Price         float64                 `bson:"price"`
	Maintenance   float64                 `bson:"maintenance,omitempty"`
	Deposit       float64                 `bson:"deposit"`
	AvailableFrom time.Time               `bson:"available_from"`
	Description   string                  `bson:"description"`
	Amenities     []string                `bson:"amenities,omitempty"`
	Images        []string                `bson:"images,omitempty"`
	Rating        float64                 `bson:"rating"`
	Views         int64                   `bson:"views"`
	CreatedAt     time.Time               `bson:"created_at"`
	UpdatedAt     time.Time               `bson:"updated_at"`
}

func toPropertyDocument(p *domain.Property) (*propertyDocument, error) {
	if p == nil {
		return nil, nil
	}

	var docID primitive.ObjectID
	if p.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(p.ID)
		if err != nil {
			return nil, fmt.Errorf("toPropertyDocument: invalid ID format '%s': %w", p.ID, err)
		}
	}

	return &propertyDocument{
		ID:            docID,
		OwnerID:       p.OwnerID,
		Title:         p.Title,
		Type:          p.Type,
		BHK:           p.BHK,
		Furnishing:    p.Furnishing,
		Location:      p.Location,
		Price:         p.Price,
		Maintenance:   p.Maintenance,
		Deposit:       p.Deposit,
		AvailableFrom: p.AvailableFrom,
		Description:   p.Description,
		Amenities:     p.Amenities,
		Images:        p.Images,
		Rating:        p.Rating,
		Views:         p.Views,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}, nil
}

func toDomainProperty(d *propertyDocument) *domain.Property {
	if d == nil {
		return nil
	}
	return &domain.Property{
		ID:            d.ID.Hex(),
		OwnerID:       d.OwnerID,
		Title:         d.Title,
		Type:          d.Type,
		BHK:           d.BHK,
		Furnishing:    d.Furnishing,
		Location:      d.Location,
		Price:         d.Price,
		Maintenance:   d.Maintenance,
		Deposit:       d.Deposit,
		AvailableFrom: d.AvailableFrom,
		Description:   d.Description,
		Amenities:     d.Amenities,
		Images:        d.Images,
		Rating:        d.Rating,
		Views:         d.Views,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

func toDomainProperties(docs []*propertyDocument) []*domain.Property {
	properties := make([]*domain.Property, 0, len(docs))
	for _, doc := range docs {
		properties = append(properties, toDomainProperty(doc))
	}
	return properties
}
