package request

// Dates are ISO8601 calendar dates (2006-01-02) or RFC3339 timestamps.
type CreateBookingRequest struct {
	Property  string `json:"property" validate:"required,uuid"`
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Rooms     int    `json:"rooms" validate:"required,min=1"`
	People    int    `json:"people" validate:"required,min=1"`
}

type UpdateBookingRequest struct {
	StartDate string `json:"startDate" validate:"required"`
	EndDate   string `json:"endDate" validate:"required"`
	Rooms     int    `json:"rooms" validate:"required,min=1"`
	People    int    `json:"people" validate:"required,min=1"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled"`
}
