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

// ClientInfo is recorded on every session.
type ClientInfo struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(repo *repository.Repository, config *utils.Config, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest, client ClientInfo) (*response.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.TrimSpace(req.Username)

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}

	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.ErrInternal("failed to check email", err)
	}
	if existing != nil {
		return nil, utils.ErrConflict("email already registered")
	}

	existing, err = s.repo.User.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, utils.ErrInternal("failed to check username", err)
	}
	if existing != nil {
		return nil, utils.ErrConflict("username already taken")
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, utils.ErrInternal("failed to process password", err)
	}

	role := entity.RoleUser
	if req.Role != "" {
		role = entity.UserRole(req.Role)
	}
	avatar := utils.GenerateAvatarURL()
	if req.Avatar != nil && *req.Avatar != "" {
		avatar = *req.Avatar
	}

	now := s.now().UTC()
	user := &entity.User{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hashed,
		Role:         role,
		Avatar:       avatar,
		Phone:        req.Phone,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			switch repository.ConstraintName(err) {
			case "users_email_key":
				return nil, utils.ErrConflict("email already registered")
			case "users_username_key":
				return nil, utils.ErrConflict("username already taken")
			}
			return nil, utils.ErrConflict("email or username already registered")
		}
		return nil, utils.ErrInternal("failed to create account", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)))

	return s.issue(ctx, user, client)
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, client ClientInfo) (*response.AuthResponse, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, utils.ErrInternal("failed to find user", err)
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid credentials", zap.String("email", req.Email))
		return nil, utils.ErrUnauthorized("invalid credentials")
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return s.issue(ctx, user, client)
}

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	if err := s.repo.Session.Revoke(ctx, sessionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrUnauthorized("session already ended")
		}
		return utils.ErrInternal("failed to logout", err)
	}

	s.log.Info("User logged out", zap.String("session_id", sessionID.String()))
	return nil
}

// issue opens a session and signs a token whose jti is the session id.
func (s *authService) issue(ctx context.Context, user *entity.User, client ClientInfo) (*response.AuthResponse, error) {
	now := s.now().UTC()
	expiresAt := now.Add(time.Duration(s.config.JWT.ExpiryHours) * time.Hour)

	session := &entity.Session{
		BaseSimple: entity.BaseSimple{ID: uuid.New(), CreatedAt: now},
		UserID:     user.ID,
		UserAgent:  optional(client.UserAgent),
		IPAddress:  optional(client.IPAddress),
		ExpiresAt:  expiresAt,
	}
	if err := s.repo.Session.Create(ctx, session); err != nil {
		return nil, utils.ErrInternal("failed to create session", err)
	}

	token, err := utils.IssueToken(s.config.JWT.Secret, user.ID, session.ID, string(user.Role), user.Email, expiresAt)
	if err != nil {
		s.log.Error("Failed to sign token", zap.Error(err))
		return nil, utils.ErrInternal("failed to issue token", err)
	}

	resp := response.AuthToResponse(user, token, expiresAt)
	return &resp, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
