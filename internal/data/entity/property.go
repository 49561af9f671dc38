package entity

import (
	"github.com/google/uuid"
)

type Amenity string

const (
	AmenityWiFi    Amenity = "WiFi"
	AmenityAC      Amenity = "AC"
	AmenityTV      Amenity = "TV"
	AmenityParking Amenity = "Parking"
	AmenityPool    Amenity = "Pool"
	AmenityGym     Amenity = "Gym"
)

type Location struct {
	Address string  `db:"address"`
	City    string  `db:"city"`
	State   *string `db:"state"`
	Country string  `db:"country"`
}

type Property struct {
	BaseNoDelete
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	Location      Location  `db:"-"`
	PricePerNight float64   `db:"price_per_night"`
	Amenities     []Amenity `db:"amenities"`
	Images        []string  `db:"images"`
	OwnerID       uuid.UUID `db:"owner_id"`
}

// AmenityStrings is the column form of Amenities.
func (p *Property) AmenityStrings() []string {
	out := make([]string, len(p.Amenities))
	for i, a := range p.Amenities {
		out[i] = string(a)
	}
	return out
}
