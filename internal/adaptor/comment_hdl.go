package adaptor

import (
	"net/http"

	"staynest/internal/dto/request"
	"staynest/internal/usecase"
	"staynest/pkg/utils"

	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

// Add handles POST /api/comments
func (h *CommentHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req request.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.Add(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "add comment")
		return
	}

	utils.ResponseCreated(w, "Comment added", comment)
}

// ListByProperty handles GET /api/comments/{propertyId}
func (h *CommentHandler) ListByProperty(w http.ResponseWriter, r *http.Request) {
	propertyID, ok := pathUUID(w, r, "id", "property")
	if !ok {
		return
	}

	comments, err := h.service.ListByProperty(r.Context(), propertyID)
	if err != nil {
		handleServiceError(h.log, w, err, "list comments")
		return
	}

	utils.ResponseSuccess(w, "Comments retrieved successfully", comments)
}

// Delete handles DELETE /api/comments/{id}
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "comment")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		handleServiceError(h.log, w, err, "delete comment")
		return
	}

	utils.ResponseSuccess(w, "Comment deleted", nil)
}
