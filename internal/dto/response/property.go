package response

import (
	"time"

	"staynest/internal/data/entity"
)

type LocationResponse struct {
	Address string  `json:"address"`
	City    string  `json:"city"`
	State   *string `json:"state,omitempty"`
	Country string  `json:"country"`
}

type PropertyResponse struct {
	ID            string           `json:"id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Location      LocationResponse `json:"location"`
	PricePerNight float64          `json:"pricePerNight"`
	Amenities     []entity.Amenity `json:"amenities"`
	Images        []string         `json:"images"`
	OwnerID       string           `json:"owner"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// PropertyDetailResponse adds the dates a property is taken and its review summary.
type PropertyDetailResponse struct {
	PropertyResponse
	BookedDates []DateRangeResponse `json:"bookedDates"`
	Rating      float64             `json:"rating"`
	ReviewCount int64               `json:"reviewCount"`
}

func PropertyToResponse(p *entity.Property) PropertyResponse {
	amenities := p.Amenities
	if amenities == nil {
		amenities = []entity.Amenity{}
	}
	images := p.Images
	if images == nil {
		images = []string{}
	}

	return PropertyResponse{
		ID:          p.ID.String(),
		Title:       p.Title,
		Description: p.Description,
		Location: LocationResponse{
			Address: p.Location.Address,
			City:    p.Location.City,
			State:   p.Location.State,
			Country: p.Location.Country,
		},
		PricePerNight: p.PricePerNight,
		Amenities:     amenities,
		Images:        images,
		OwnerID:       p.OwnerID.String(),
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func PropertyToDetailResponse(p *entity.Property, active []*entity.Booking, rating float64, reviewCount int64) PropertyDetailResponse {
	booked := make([]DateRangeResponse, 0, len(active))
	for _, b := range active {
		booked = append(booked, DateRangeToResponse(b.Range()))
	}

	return PropertyDetailResponse{
		PropertyResponse: PropertyToResponse(p),
		BookedDates:      booked,
		Rating:           rating,
		ReviewCount:      reviewCount,
	}
}
