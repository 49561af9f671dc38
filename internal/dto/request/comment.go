package request

type CreateCommentRequest struct {
	Property string `json:"property" validate:"required,uuid"`
	Text     string `json:"text" validate:"required,max=500"`
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
}
