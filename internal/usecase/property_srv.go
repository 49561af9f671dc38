package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"staynest/internal/data/entity"
	"staynest/internal/data/repository"
	"staynest/internal/dto/request"
	"staynest/internal/dto/response"
	"staynest/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PropertyService interface {
	Create(ctx context.Context, actor Actor, req *request.CreatePropertyRequest) (*response.PropertyResponse, error)
	List(ctx context.Context, req *request.ListPropertiesRequest) (*response.PaginatedResponse[response.PropertyResponse], error)
	Get(ctx context.Context, id uuid.UUID) (*response.PropertyDetailResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req *request.UpdatePropertyRequest) (*response.PropertyResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
	ListForHost(ctx context.Context, actor Actor) ([]response.PropertyDetailResponse, error)
}

type propertyService struct {
	repo  *repository.Repository
	cache PropertyCache
	log   *zap.Logger
}

func NewPropertyService(repo *repository.Repository, cache PropertyCache, log *zap.Logger) PropertyService {
	return &propertyService{
		repo:  repo,
		cache: cache,
		log:   log.With(zap.String("service", "property")),
	}
}

func toAmenities(values []string) []entity.Amenity {
	seen := make(map[string]bool, len(values))
	out := make([]entity.Amenity, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, entity.Amenity(v))
	}
	return out
}

func (s *propertyService) Create(ctx context.Context, actor Actor, req *request.CreatePropertyRequest) (*response.PropertyResponse, error) {
	if actor.Role != entity.RoleHost && !actor.IsAdmin() {
		return nil, utils.ErrForbidden("only hosts can list properties")
	}

	req.Title = strings.TrimSpace(req.Title)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create property validation failed", zap.Any("errors", errs))
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.Property.FindByTitle(ctx, req.Title)
	if err != nil {
		return nil, utils.ErrInternal("failed to check title", err)
	}
	if existing != nil {
		return nil, utils.ErrConflict("a property with this title already exists")
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now().UTC()
	property := &entity.Property{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:       req.Title,
		Description: req.Description,
		Location: entity.Location{
			Address: req.Location.Address,
			City:    req.Location.City,
			State:   req.Location.State,
			Country: req.Location.Country,
		},
		PricePerNight: req.PricePerNight,
		Amenities:     toAmenities(req.Amenities),
		Images:        images,
		OwnerID:       actor.ID,
	}

	if err := s.repo.Property.Create(ctx, property); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrConflict("a property with this title already exists")
		}
		return nil, utils.ErrInternal("failed to create property", err)
	}

	s.log.Info("Property created",
		zap.String("property_id", property.ID.String()),
		zap.String("owner_id", actor.ID.String()))

	resp := response.PropertyToResponse(property)
	return &resp, nil
}

func (s *propertyService) List(ctx context.Context, req *request.ListPropertiesRequest) (*response.PaginatedResponse[response.PropertyResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}
	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return nil, utils.ErrValidation("minPrice must not exceed maxPrice")
	}

	limit := req.Limit()
	filter := repository.PropertyFilter{
		Search:    req.Search,
		City:      req.City,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		Amenities: req.Amenities,
		Sort:      req.Sort,
		Limit:     limit,
		Offset:    req.Offset(),
	}

	properties, err := s.repo.Property.List(ctx, filter)
	if err != nil {
		return nil, utils.ErrInternal("failed to list properties", err)
	}
	total, err := s.repo.Property.Count(ctx, filter)
	if err != nil {
		return nil, utils.ErrInternal("failed to count properties", err)
	}

	data := make([]response.PropertyResponse, 0, len(properties))
	for _, p := range properties {
		data = append(data, response.PropertyToResponse(p))
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

func (s *propertyService) Get(ctx context.Context, id uuid.UUID) (*response.PropertyDetailResponse, error) {
	key := id.String()
	if cached, ok := s.cache.Get(key); ok {
		return &cached, nil
	}
	// read before loading so a write that lands meanwhile keeps its invalidation
	gen := s.cache.Generation(key)

	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrInternal("failed to get property", err)
	}
	if property == nil {
		return nil, utils.ErrNotFound("property not found")
	}

	detail, err := s.detail(ctx, property)
	if err != nil {
		return nil, err
	}
	s.cache.SetIfCurrent(key, detail, gen)
	return &detail, nil
}

// detail assembles the booked dates and rating of a property.
func (s *propertyService) detail(ctx context.Context, property *entity.Property) (response.PropertyDetailResponse, error) {
	active, err := s.repo.Booking.FindActiveByPropertyID(ctx, property.ID)
	if err != nil {
		return response.PropertyDetailResponse{}, utils.ErrInternal("failed to get booked dates", err)
	}
	rating, count, err := s.repo.Comment.RatingSummary(ctx, property.ID)
	if err != nil {
		return response.PropertyDetailResponse{}, utils.ErrInternal("failed to get rating", err)
	}

	return response.PropertyToDetailResponse(property, active, rating, count), nil
}

func (s *propertyService) loadOwned(ctx context.Context, actor Actor, id uuid.UUID) (*entity.Property, error) {
	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrInternal("failed to get property", err)
	}
	if property == nil {
		return nil, utils.ErrNotFound("property not found")
	}
	if !CanMutateProperty(actor, property) {
		s.log.Warn("Property mutation denied",
			zap.String("property_id", id.String()),
			zap.String("actor_id", actor.ID.String()))
		return nil, utils.ErrForbidden("you can only modify your own properties")
	}
	return property, nil
}

func (s *propertyService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *request.UpdatePropertyRequest) (*response.PropertyResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}

	property, err := s.loadOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title != property.Title {
			existing, err := s.repo.Property.FindByTitle(ctx, title)
			if err != nil {
				return nil, utils.ErrInternal("failed to check title", err)
			}
			if existing != nil {
				return nil, utils.ErrConflict("a property with this title already exists")
			}
			property.Title = title
		}
	}
	if req.Description != nil {
		property.Description = *req.Description
	}
	if req.Location != nil {
		property.Location = entity.Location{
			Address: req.Location.Address,
			City:    req.Location.City,
			State:   req.Location.State,
			Country: req.Location.Country,
		}
	}
	if req.PricePerNight != nil {
		property.PricePerNight = *req.PricePerNight
	}
	if req.Amenities != nil {
		property.Amenities = toAmenities(req.Amenities)
	}
	if req.Images != nil {
		property.Images = req.Images
	}
	property.UpdatedAt = time.Now().UTC()

	if err := s.repo.Property.Update(ctx, property); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			return nil, utils.ErrConflict("a property with this title already exists")
		case errors.Is(err, repository.ErrNotFound):
			return nil, utils.ErrNotFound("property not found")
		}
		return nil, utils.ErrInternal("failed to update property", err)
	}
	invalidateProperty(s.cache, property.ID)

	resp := response.PropertyToResponse(property)
	return &resp, nil
}

func (s *propertyService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	if _, err := s.loadOwned(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Property.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrNotFound("property not found")
		}
		return utils.ErrInternal("failed to delete property", err)
	}
	invalidateProperty(s.cache, id)

	s.log.Info("Property deleted",
		zap.String("property_id", id.String()),
		zap.String("owner_id", actor.ID.String()))
	return nil
}

func (s *propertyService) ListForHost(ctx context.Context, actor Actor) ([]response.PropertyDetailResponse, error) {
	properties, err := s.repo.Property.FindByOwnerID(ctx, actor.ID)
	if err != nil {
		return nil, utils.ErrInternal("failed to list properties", err)
	}

	out := make([]response.PropertyDetailResponse, 0, len(properties))
	for _, p := range properties {
		if cached, ok := s.cache.Get(p.ID.String()); ok {
			out = append(out, cached)
			continue
		}
		detail, err := s.detail(ctx, p)
		if err != nil {
			return nil, err
		}
		out = append(out, detail)
	}
	return out, nil
}
