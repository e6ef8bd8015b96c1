package domain

import "time"

type PropertyType string

const (
	TypeRoom             PropertyType = "Room"
	TypePGHostel         PropertyType = "PG/Hostel"
	TypeApartment        PropertyType = "Apartment"
	TypeIndependentHouse PropertyType = "Independent House"
)

func (t PropertyType) Valid() bool {
	switch t {
	case TypeRoom, TypePGHostel, TypeApartment, TypeIndependentHouse:
		return true
	}
	return false
}

type FurnishingStatus string

const (
	FullyFurnished FurnishingStatus = "Fully Furnished"
	SemiFurnished  FurnishingStatus = "Semi Furnished"
	Unfurnished    FurnishingStatus = "Unfurnished"
)

func (f FurnishingStatus) Valid() bool {
	switch f {
	case FullyFurnished, SemiFurnished, Unfurnished:
		return true
	}
	return false
}

// Property is a single rentable listing. ID is assigned by the repository on
// Create and immutable afterwards. Images keeps insertion order, the first
// entry is the primary image. Price, Maintenance and Deposit are monthly INR.
type Property struct {
	ID            string
	OwnerID       string
	Title         string
	Type          PropertyType
	BHK           int // bedroom-hall-kitchen count, 0 when not applicable
	Furnishing    FurnishingStatus
	Location      string
	Price         float64
	Maintenance   float64
	Deposit       float64
	AvailableFrom time.Time
	Description   string
	Amenities     []string
	Images        []string
	Rating        float64
	Views         int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate checks the invariants enforced before a property reaches the store.
func (p *Property) Validate() error {
	if p.Title == "" || p.Location == "" || p.OwnerID == "" {
		return ErrInvalidPropertyData
	}
	if !p.Type.Valid() || !p.Furnishing.Valid() {
		return ErrInvalidPropertyData
	}
	if p.Price < 0 || p.Deposit < 0 || p.Maintenance < 0 {
		return ErrInvalidPropertyData
	}
	return nil
}
