package adaptor

import (
	"net/http"
	"strings"

	"staynest/internal/dto/request"
	"staynest/internal/usecase"
	"staynest/pkg/utils"

	"go.uber.org/zap"
)

type PropertyHandler struct {
	service usecase.PropertyService
	log     *zap.Logger
}

func NewPropertyHandler(service usecase.PropertyService, log *zap.Logger) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		log:     log.With(zap.String("handler", "property")),
	}
}

// Create handles POST /api/properties
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req request.CreatePropertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	property, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create property")
		return
	}

	utils.ResponseCreated(w, "Property created", property)
}

// List handles GET /api/properties?search=&city=&minPrice=&maxPrice=&amenities=WiFi,Pool&sort=&page=&limit=
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := &request.ListPropertiesRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("limit"), 10),
		},
		Search:    strings.TrimSpace(query.Get("search")),
		City:      strings.TrimSpace(query.Get("city")),
		MinPrice:  utils.ParseFloatPtr(query.Get("minPrice")),
		MaxPrice:  utils.ParseFloatPtr(query.Get("maxPrice")),
		Amenities: splitList(query.Get("amenities")),
		Sort:      query.Get("sort"),
	}

	properties, err := h.service.List(r.Context(), req)
	if err != nil {
		handleServiceError(h.log, w, err, "list properties")
		return
	}

	utils.ResponseSuccess(w, "Properties retrieved successfully", properties)
}

// ListMine handles GET /api/properties/host/me
func (h *PropertyHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	properties, err := h.service.ListForHost(r.Context(), actor)
	if err != nil {
		handleServiceError(h.log, w, err, "list host properties")
		return
	}

	utils.ResponseSuccess(w, "Properties retrieved successfully", properties)
}

// Get handles GET /api/properties/{id}
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "property")
	if !ok {
		return
	}

	property, err := h.service.Get(r.Context(), id)
	if err != nil {
		handleServiceError(h.log, w, err, "get property")
		return
	}

	utils.ResponseSuccess(w, "Property retrieved successfully", property)
}

// Update handles PUT /api/properties/{id}
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "property")
	if !ok {
		return
	}

	var req request.UpdatePropertyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	property, err := h.service.Update(r.Context(), actor, id, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update property")
		return
	}

	utils.ResponseSuccess(w, "Property updated", property)
}

// Delete handles DELETE /api/properties/{id}
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromRequest(w, r)
	if !ok {
		return
	}
	id, ok := pathUUID(w, r, "id", "property")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), actor, id); err != nil {
		handleServiceError(h.log, w, err, "delete property")
		return
	}

	utils.ResponseSuccess(w, "Property deleted", nil)
}

// splitList turns "WiFi, Pool" into ["WiFi" "Pool"].
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
