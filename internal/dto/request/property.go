package request

type LocationRequest struct {
	Address string  `json:"address" validate:"required,max=200"`
	City    string  `json:"city" validate:"required,max=100"`
	State   *string `json:"state,omitempty" validate:"omitempty,max=100"`
	Country string  `json:"country" validate:"required,max=100"`
}

type CreatePropertyRequest struct {
	Title         string          `json:"title" validate:"required,max=100"`
	Description   string          `json:"description" validate:"required,max=1000"`
	Location      LocationRequest `json:"location" validate:"required"`
	PricePerNight float64         `json:"pricePerNight" validate:"required,gte=1"`
	Amenities     []string        `json:"amenities,omitempty" validate:"omitempty,dive,oneof=WiFi AC TV Parking Pool Gym"`
	Images        []string        `json:"images,omitempty" validate:"omitempty,max=20,dive,url"`
}

// UpdatePropertyRequest is partial: nil fields are left unchanged.
type UpdatePropertyRequest struct {
	Title         *string          `json:"title,omitempty" validate:"omitempty,min=1,max=100"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,min=1,max=1000"`
	Location      *LocationRequest `json:"location,omitempty"`
	PricePerNight *float64         `json:"pricePerNight,omitempty" validate:"omitempty,gte=1"`
	Amenities     []string         `json:"amenities,omitempty" validate:"omitempty,dive,oneof=WiFi AC TV Parking Pool Gym"`
	Images        []string         `json:"images,omitempty" validate:"omitempty,max=20,dive,url"`
}

// ListPropertiesRequest is read from the query string.
type ListPropertiesRequest struct {
	PaginatedRequest
	Search    string
	City      string
	MinPrice  *float64
	MaxPrice  *float64
	Amenities []string `validate:"omitempty,dive,oneof=WiFi AC TV Parking Pool Gym"`
	Sort      string   `validate:"omitempty,oneof=nameAsc nameDesc priceAsc priceDesc"`
}
