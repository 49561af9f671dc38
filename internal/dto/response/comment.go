package response

import (
	"time"

	"staynest/internal/data/entity"
)

type CommentResponse struct {
	ID         string    `json:"id"`
	PropertyID string    `json:"property"`
	UserID     string    `json:"user"`
	Username   string    `json:"username,omitempty"`
	Text       string    `json:"text"`
	Rating     int       `json:"rating"`
	CreatedAt  time.Time `json:"createdAt"`
}

func CommentToResponse(c *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:         c.ID.String(),
		PropertyID: c.PropertyID.String(),
		UserID:     c.UserID.String(),
		Username:   c.Username,
		Text:       c.Text,
		Rating:     c.Rating,
		CreatedAt:  c.CreatedAt,
	}
}
