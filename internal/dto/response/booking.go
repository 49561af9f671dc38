package response

import (
	"time"

	"staynest/internal/data/entity"
	"staynest/pkg/utils"
)

type DateRangeResponse struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type BookingResponse struct {
	ID         string               `json:"id"`
	UserID     string               `json:"user"`
	PropertyID string               `json:"property"`
	StartDate  string               `json:"startDate"`
	EndDate    string               `json:"endDate"`
	Nights     int                  `json:"nights"`
	Rooms      int                  `json:"rooms"`
	People     int                  `json:"people"`
	Status     entity.BookingStatus `json:"status"`
	CreatedAt  time.Time            `json:"createdAt"`
	UpdatedAt  time.Time            `json:"updatedAt"`
}

func DateRangeToResponse(r entity.DateRange) DateRangeResponse {
	return DateRangeResponse{
		StartDate: r.Start.Format(utils.DateLayout),
		EndDate:   r.End.Format(utils.DateLayout),
	}
}

func BookingToResponse(b *entity.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID.String(),
		UserID:     b.UserID.String(),
		PropertyID: b.PropertyID.String(),
		StartDate:  b.StartDate.Format(utils.DateLayout),
		EndDate:    b.EndDate.Format(utils.DateLayout),
		Nights:     b.Range().Nights(),
		Rooms:      b.Rooms,
		People:     b.People,
		Status:     b.Status,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}

func BookingsToResponse(bookings []*entity.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, BookingToResponse(b))
	}
	return out
}
