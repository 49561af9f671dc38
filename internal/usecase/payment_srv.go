package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"staynest/internal/data/entity"
	"staynest/internal/data/repository"
	"staynest/internal/dto/request"
	"staynest/internal/dto/response"
	"staynest/pkg/payment"
	"staynest/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PaymentService interface {
	Initiate(ctx context.Context, actor Actor, req *request.CreatePaymentRequest) (*response.OrderResponse, error)
	Capture(ctx context.Context, actor Actor, req *request.CapturePaymentRequest) (*response.BookingResponse, error)
}

type paymentService struct {
	repo    *repository.Repository
	gateway PaymentGateway
	config  utils.PayPalConfig
	cache   PropertyCache
	log     *zap.Logger
	now     func() time.Time
}

func NewPaymentService(
	repo *repository.Repository,
	gateway PaymentGateway,
	config utils.PayPalConfig,
	cache PropertyCache,
	log *zap.Logger,
) PaymentService {
	return &paymentService{
		repo:    repo,
		gateway: gateway,
		config:  config,
		cache:   cache,
		log:     log.With(zap.String("service", "payment")),
		now:     time.Now,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *paymentService) Initiate(ctx context.Context, actor Actor, req *request.CreatePaymentRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}
	bookingID, err := utils.ParseUUID(req.BookingID)
	if err != nil {
		return nil, utils.ErrValidation("invalid booking ID")
	}

	booking, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return nil, utils.ErrInternal("failed to get booking", err)
	}
	if booking == nil {
		return nil, utils.ErrNotFound("booking not found")
	}
	if !CanMutateBooking(actor, booking) {
		return nil, utils.ErrForbidden("you can only pay for your own bookings")
	}
	if booking.Status != entity.BookingStatusPending {
		return nil, utils.ErrInvalidState("booking is not pending")
	}

	property, err := s.repo.Property.FindByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, utils.ErrInternal("failed to get property", err)
	}
	if property == nil {
		return nil, utils.ErrNotFound("property not found")
	}

	amount := roundCents(booking.Amount(property.PricePerNight))
	order, err := s.gateway.CreateOrder(ctx, payment.OrderRequest{
		ReferenceID: booking.ID.String(),
		Amount:      amount,
		Currency:    s.config.Currency,
	})
	if err != nil {
		return nil, utils.ErrInternal("failed to create payment order", err)
	}

	now := s.now().UTC()
	record := &entity.Payment{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingID: booking.ID,
		OrderID:   order.ID,
		Amount:    amount,
		Currency:  s.config.Currency,
		Status:    entity.PaymentStatusCreated,
	}
	if err := s.repo.Payment.Create(ctx, record); err != nil {
		return nil, utils.ErrInternal("failed to record payment", err)
	}

	s.log.Info("Payment order created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("order_id", order.ID),
		zap.Float64("amount", amount))

	links := make([]response.LinkResponse, 0, len(order.Links))
	for _, l := range order.Links {
		links = append(links, response.LinkResponse{Href: l.Href, Rel: l.Rel, Method: l.Method})
	}

	return &response.OrderResponse{
		OrderID:  order.ID,
		Amount:   amount,
		Currency: s.config.Currency,
		Links:    links,
	}, nil
}

// Capture settles an approved order and confirms its booking. The order
// must have been opened by Initiate; a booking that is already confirmed is
// returned unchanged and a cancelled one is rejected before the gateway is
// asked to move any money.
func (s *paymentService) Capture(ctx context.Context, actor Actor, req *request.CapturePaymentRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}

	record, err := s.repo.Payment.FindByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, utils.ErrInternal("failed to get payment", err)
	}
	if record == nil {
		return nil, utils.ErrNotFound("payment not found")
	}

	booking, err := s.repo.Booking.FindByID(ctx, record.BookingID)
	if err != nil {
		return nil, utils.ErrInternal("failed to get booking", err)
	}
	if booking == nil {
		return nil, utils.ErrNotFound("booking not found")
	}
	switch booking.Status {
	case entity.BookingStatusConfirmed:
		resp := response.BookingToResponse(booking)
		return &resp, nil
	case entity.BookingStatusCancelled:
		return nil, utils.ErrInvalidState(msgBookingCancelled)
	}

	capture, err := s.gateway.CaptureOrder(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, payment.ErrNotCompleted) {
			return nil, utils.ErrInvalidState("payment not completed")
		}
		return nil, utils.ErrInternal("failed to capture payment", err)
	}
	if capture.ReferenceID != "" && capture.ReferenceID != record.BookingID.String() {
		s.markFailed(ctx, req.OrderID, "order reference does not match booking")
		return nil, utils.ErrInternal("failed to capture payment",
			fmt.Errorf("order %s references %s, recorded for %s", req.OrderID, capture.ReferenceID, record.BookingID))
	}

	err = s.repo.Booking.WithPropertyLock(ctx, booking.PropertyID, func(tx repository.BookingRepository) error {
		current, err := tx.FindByID(ctx, record.BookingID)
		if err != nil {
			return utils.ErrInternal("failed to get booking", err)
		}
		if current == nil {
			return utils.ErrNotFound("booking not found")
		}

		switch current.Status {
		case entity.BookingStatusConfirmed:
			booking = current
			return nil
		case entity.BookingStatusCancelled:
			return utils.ErrInvalidState(msgBookingCancelled)
		}

		if err := ensureAvailable(ctx, tx, current.PropertyID, current.Range(), current.ID); err != nil {
			return err
		}
		if err := tx.UpdateStatus(ctx, current.ID, entity.BookingStatusConfirmed); err != nil {
			return err
		}
		current.Status = entity.BookingStatusConfirmed
		current.UpdatedAt = s.now().UTC()
		booking = current
		return nil
	})
	if err != nil {
		// money has moved; the failed row is what a refund is issued from
		s.markFailed(ctx, req.OrderID, err.Error())
		return nil, writeErr(err, "confirm booking")
	}
	invalidateProperty(s.cache, booking.PropertyID)

	if err := s.repo.Payment.UpdateStatus(ctx, req.OrderID, entity.PaymentStatusCaptured); err != nil {
		s.log.Warn("Failed to mark payment captured",
			zap.Error(err),
			zap.String("order_id", req.OrderID))
	}

	s.log.Info("Payment captured",
		zap.String("order_id", req.OrderID),
		zap.String("booking_id", booking.ID.String()),
		zap.String("actor_id", actor.ID.String()))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// markFailed flags a captured order whose booking could not be confirmed.
func (s *paymentService) markFailed(ctx context.Context, orderID, reason string) {
	s.log.Error("Captured order needs refund",
		zap.String("order_id", orderID),
		zap.String("reason", reason))
	if err := s.repo.Payment.UpdateStatus(ctx, orderID, entity.PaymentStatusFailed); err != nil {
		s.log.Warn("Failed to mark payment failed",
			zap.Error(err),
			zap.String("order_id", orderID))
	}
}
