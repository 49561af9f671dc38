package usecase

import (
	"context"

	"staynest/internal/data/repository"
	"staynest/internal/dto/response"
	"staynest/pkg/payment"
	"staynest/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PropertyCache holds assembled property detail views keyed by property id.
type PropertyCache interface {
	Get(key string) (response.PropertyDetailResponse, bool)
	Generation(key string) uint64
	SetIfCurrent(key string, value response.PropertyDetailResponse, gen uint64) bool
	Delete(key string)
}

// PaymentGateway opens and captures orders with an external processor.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*payment.Capture, error)
}

type Service struct {
	Auth     AuthService
	User     UserService
	Property PropertyService
	Booking  BookingService
	Payment  PaymentService
	Comment  CommentService
}

func NewService(
	repo *repository.Repository,
	config *utils.Config,
	gateway PaymentGateway,
	cache PropertyCache,
	log *zap.Logger,
) *Service {
	return &Service{
		Auth:     NewAuthService(repo, config, log),
		User:     NewUserService(repo.User, log),
		Property: NewPropertyService(repo, cache, log),
		Booking:  NewBookingService(repo, cache, log),
		Payment:  NewPaymentService(repo, gateway, config.PayPal, cache, log),
		Comment:  NewCommentService(repo, cache, log),
	}
}

func invalidateProperty(cache PropertyCache, propertyID uuid.UUID) {
	cache.Delete(propertyID.String())
}
