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

const msgAlreadyCommented = "you have already commented on this property"

type CommentService interface {
	Add(ctx context.Context, actor Actor, req *request.CreateCommentRequest) (*response.CommentResponse, error)
	ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]response.CommentResponse, error)
	Delete(ctx context.Context, actor Actor, id uuid.UUID) error
}

type commentService struct {
	repo  *repository.Repository
	cache PropertyCache
	log   *zap.Logger
}

func NewCommentService(repo *repository.Repository, cache PropertyCache, log *zap.Logger) CommentService {
	return &commentService{
		repo:  repo,
		cache: cache,
		log:   log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) requireProperty(ctx context.Context, id uuid.UUID) error {
	property, err := s.repo.Property.FindByID(ctx, id)
	if err != nil {
		return utils.ErrInternal("failed to get property", err)
	}
	if property == nil {
		return utils.ErrNotFound("property not found")
	}
	return nil
}

func (s *commentService) Add(ctx context.Context, actor Actor, req *request.CreateCommentRequest) (*response.CommentResponse, error) {
	req.Text = strings.TrimSpace(req.Text)
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create comment validation failed", zap.Any("errors", errs))
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}

	propertyID, err := utils.ParseUUID(req.Property)
	if err != nil {
		return nil, utils.ErrValidation("invalid property ID")
	}
	if err := s.requireProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	existing, err := s.repo.Comment.FindByPropertyAndUser(ctx, propertyID, actor.ID)
	if err != nil {
		return nil, utils.ErrInternal("failed to check existing comment", err)
	}
	if existing != nil {
		return nil, utils.ErrConflict(msgAlreadyCommented)
	}

	now := time.Now().UTC()
	comment := &entity.Comment{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PropertyID: propertyID,
		UserID:     actor.ID,
		Text:       req.Text,
		Rating:     req.Rating,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.ErrConflict(msgAlreadyCommented)
		}
		return nil, utils.ErrInternal("failed to create comment", err)
	}
	invalidateProperty(s.cache, propertyID)

	if user, err := s.repo.User.FindByID(ctx, actor.ID); err == nil && user != nil {
		comment.Username = user.Username
	}

	s.log.Info("Comment created",
		zap.String("comment_id", comment.ID.String()),
		zap.String("property_id", propertyID.String()),
		zap.Int("rating", comment.Rating))

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) ListByProperty(ctx context.Context, propertyID uuid.UUID) ([]response.CommentResponse, error) {
	if err := s.requireProperty(ctx, propertyID); err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByPropertyID(ctx, propertyID)
	if err != nil {
		return nil, utils.ErrInternal("failed to list comments", err)
	}

	out := make([]response.CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, response.CommentToResponse(c))
	}
	return out, nil
}

func (s *commentService) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	comment, err := s.repo.Comment.FindByID(ctx, id)
	if err != nil {
		return utils.ErrInternal("failed to get comment", err)
	}
	if comment == nil {
		return utils.ErrNotFound("comment not found")
	}
	if !CanDeleteComment(actor, comment) {
		return utils.ErrForbidden("you can only delete your own comments")
	}

	if err := s.repo.Comment.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrNotFound("comment not found")
		}
		return utils.ErrInternal("failed to delete comment", err)
	}
	invalidateProperty(s.cache, comment.PropertyID)

	s.log.Info("Comment deleted",
		zap.String("comment_id", id.String()),
		zap.String("by", actor.ID.String()))
	return nil
}
