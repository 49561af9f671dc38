package usecase

import (
	"context"
	"errors"

	"staynest/internal/data/repository"
	"staynest/internal/dto/request"
	"staynest/internal/dto/response"
	"staynest/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error)
	DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrInternal("failed to get profile", err)
	}
	if user == nil {
		return nil, utils.ErrNotFound("user not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) GetAllUsers(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.UserResponse], error) {
	if req.Page < 1 {
		req.Page = 1
	}
	limit := req.Limit()

	users, err := us.userRepo.FindAll(ctx, limit, req.Offset())
	if err != nil {
		return nil, utils.ErrInternal("failed to get users", err)
	}

	total, err := us.userRepo.CountAll(ctx)
	if err != nil {
		return nil, utils.ErrInternal("failed to count users", err)
	}

	data := make([]response.UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, response.UserToResponse(u))
	}

	return response.NewPaginatedResponse(data, req.Page, limit, total), nil
}

func (us *userService) DeleteUser(ctx context.Context, actor Actor, userID uuid.UUID) error {
	if actor.ID == userID {
		return utils.ErrValidation("administrators cannot delete themselves")
	}

	if err := us.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrNotFound("user not found")
		}
		return utils.ErrInternal("failed to delete user", err)
	}

	us.log.Info("User deleted",
		zap.String("user_id", userID.String()),
		zap.String("by", actor.ID.String()))
	return nil
}
