package usecase

import (
	"context"
	"errors"
	"time"

	"staynest/internal/data/entity"
	"staynest/internal/data/repository"
	"staynest/internal/dto/request"
	"staynest/internal/dto/response"
	"staynest/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgDatesUnavailable   = "dates unavailable"
	msgBookingCancelled   = "booking is cancelled"
	msgAlreadyCancelled   = "already cancelled"
	msgConfirmedNeedsHelp = "confirmed booking requires support"
)

type BookingService interface {
	Create(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error)
	Update(ctx context.Context, actor Actor, id uuid.UUID, req *request.UpdateBookingRequest) (*response.BookingResponse, error)
	Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*response.BookingResponse, error)
	SetStatus(ctx context.Context, actor Actor, id uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)

	Get(ctx context.Context, actor Actor, id uuid.UUID) (*response.BookingResponse, error)
	ListForUser(ctx context.Context, actor Actor) ([]response.BookingResponse, error)
	ListForHost(ctx context.Context, actor Actor) ([]response.BookingResponse, error)
}

type bookingService struct {
	repo  *repository.Repository
	cache PropertyCache
	log   *zap.Logger
	now   func() time.Time
}

func NewBookingService(repo *repository.Repository, cache PropertyCache, log *zap.Logger) BookingService {
	return &bookingService{
		repo:  repo,
		cache: cache,
		log:   log.With(zap.String("service", "booking")),
		now:   time.Now,
	}
}

func parseRange(start, end string) (entity.DateRange, error) {
	s, err := utils.ParseDate(start)
	if err != nil {
		return entity.DateRange{}, utils.ErrValidation("startDate must be an ISO8601 date")
	}
	e, err := utils.ParseDate(end)
	if err != nil {
		return entity.DateRange{}, utils.ErrValidation("endDate must be an ISO8601 date")
	}

	rng, err := entity.NewDateRange(s, e)
	if err != nil {
		return entity.DateRange{}, utils.ErrValidation("%s", err.Error())
	}
	return rng, nil
}

// ensureAvailable fails with a conflict when another active booking on
// propertyID overlaps rng. Call it under the property lock.
func ensureAvailable(ctx context.Context, bookings repository.BookingRepository, propertyID uuid.UUID, rng entity.DateRange, exclude uuid.UUID) error {
	overlapping, err := bookings.FindActiveOverlapping(ctx, propertyID, rng, exclude)
	if err != nil {
		return utils.ErrInternal("failed to check availability", err)
	}
	if entity.HasConflict(overlapping, rng, exclude) {
		return utils.ErrConflict(msgDatesUnavailable)
	}
	return nil
}

// writeErr maps a failed booking write onto the error kinds clients see.
func writeErr(err error, action string) error {
	var appErr *utils.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, repository.ErrOverlap):
		return utils.ErrConflict(msgDatesUnavailable)
	case errors.Is(err, repository.ErrNotFound):
		return utils.ErrNotFound("booking not found")
	}
	return utils.ErrInternal("failed to "+action, err)
}

func (s *bookingService) findBooking(ctx context.Context, bookings repository.BookingRepository, id uuid.UUID) (*entity.Booking, error) {
	booking, err := bookings.FindByID(ctx, id)
	if err != nil {
		return nil, utils.ErrInternal("failed to get booking", err)
	}
	if booking == nil {
		return nil, utils.ErrNotFound("booking not found")
	}
	return booking, nil
}

func (s *bookingService) Create(ctx context.Context, actor Actor, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}

	rng, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	propertyID, err := utils.ParseUUID(req.Property)
	if err != nil {
		return nil, utils.ErrValidation("invalid property ID")
	}

	property, err := s.repo.Property.FindByID(ctx, propertyID)
	if err != nil {
		return nil, utils.ErrInternal("failed to get property", err)
	}
	if property == nil {
		return nil, utils.ErrNotFound("property not found")
	}

	now := s.now().UTC()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:     actor.ID,
		PropertyID: propertyID,
		StartDate:  rng.Start,
		EndDate:    rng.End,
		Rooms:      req.Rooms,
		People:     req.People,
		Status:     entity.BookingStatusPending,
	}

	err = s.repo.Booking.WithPropertyLock(ctx, propertyID, func(tx repository.BookingRepository) error {
		if err := ensureAvailable(ctx, tx, propertyID, rng, uuid.Nil); err != nil {
			return err
		}
		return tx.Create(ctx, booking)
	})
	if err != nil {
		if utils.IsKind(err, utils.KindConflict) || errors.Is(err, repository.ErrOverlap) {
			s.log.Info("Booking rejected, dates unavailable",
				zap.String("property_id", propertyID.String()),
				zap.Time("start", rng.Start),
				zap.Time("end", rng.End))
		}
		return nil, writeErr(err, "create booking")
	}
	invalidateProperty(s.cache, propertyID)

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("property_id", propertyID.String()),
		zap.String("user_id", actor.ID.String()))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Update(ctx context.Context, actor Actor, id uuid.UUID, req *request.UpdateBookingRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}

	booking, err := s.findBooking(ctx, s.repo.Booking, id)
	if err != nil {
		return nil, err
	}
	if !CanMutateBooking(actor, booking) {
		return nil, utils.ErrForbidden("you can only modify your own bookings")
	}
	if booking.Status == entity.BookingStatusCancelled {
		return nil, utils.ErrInvalidState(msgBookingCancelled)
	}

	rng, err := parseRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	err = s.repo.Booking.WithPropertyLock(ctx, booking.PropertyID, func(tx repository.BookingRepository) error {
		current, err := s.findBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Status == entity.BookingStatusCancelled {
			return utils.ErrInvalidState(msgBookingCancelled)
		}
		if err := ensureAvailable(ctx, tx, current.PropertyID, rng, current.ID); err != nil {
			return err
		}

		current.StartDate = rng.Start
		current.EndDate = rng.End
		current.Rooms = req.Rooms
		current.People = req.People
		current.UpdatedAt = s.now().UTC()
		if err := tx.Update(ctx, current); err != nil {
			return err
		}
		booking = current
		return nil
	})
	if err != nil {
		return nil, writeErr(err, "update booking")
	}
	invalidateProperty(s.cache, booking.PropertyID)

	s.log.Info("Booking updated", zap.String("booking_id", id.String()))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Cancel(ctx context.Context, actor Actor, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, s.repo.Booking, id)
	if err != nil {
		return nil, err
	}
	if !CanMutateBooking(actor, booking) {
		return nil, utils.ErrForbidden("you can only cancel your own bookings")
	}

	err = s.repo.Booking.WithPropertyLock(ctx, booking.PropertyID, func(tx repository.BookingRepository) error {
		current, err := s.findBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		switch current.Status {
		case entity.BookingStatusCancelled:
			return utils.ErrInvalidState(msgAlreadyCancelled)
		case entity.BookingStatusConfirmed:
			return utils.ErrInvalidState(msgConfirmedNeedsHelp)
		}

		if err := tx.UpdateStatus(ctx, id, entity.BookingStatusCancelled); err != nil {
			return err
		}
		current.Status = entity.BookingStatusCancelled
		current.UpdatedAt = s.now().UTC()
		booking = current
		return nil
	})
	if err != nil {
		return nil, writeErr(err, "cancel booking")
	}
	invalidateProperty(s.cache, booking.PropertyID)

	s.log.Info("Booking cancelled", zap.String("booking_id", id.String()))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

// SetStatus lets the host of the booked property move a booking between
// statuses. Moving into an active status re-checks availability.
func (s *bookingService) SetStatus(ctx context.Context, actor Actor, id uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, utils.ErrValidation("%s", utils.FormatValidationErrors(errs))
	}
	status := entity.BookingStatus(req.Status)

	booking, err := s.findBooking(ctx, s.repo.Booking, id)
	if err != nil {
		return nil, err
	}

	property, err := s.repo.Property.FindByID(ctx, booking.PropertyID)
	if err != nil {
		return nil, utils.ErrInternal("failed to get property", err)
	}
	if property == nil {
		return nil, utils.ErrNotFound("property not found")
	}
	if !CanManageBookingAsHost(actor, property) {
		return nil, utils.ErrForbidden("only the property owner can change booking status")
	}
	if booking.Status == entity.BookingStatusCancelled {
		return nil, utils.ErrInvalidState(msgBookingCancelled)
	}

	err = s.repo.Booking.WithPropertyLock(ctx, booking.PropertyID, func(tx repository.BookingRepository) error {
		current, err := s.findBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.Status == entity.BookingStatusCancelled {
			return utils.ErrInvalidState(msgBookingCancelled)
		}
		if status.Active() {
			if err := ensureAvailable(ctx, tx, current.PropertyID, current.Range(), current.ID); err != nil {
				return err
			}
		}

		if err := tx.UpdateStatus(ctx, id, status); err != nil {
			return err
		}
		current.Status = status
		current.UpdatedAt = s.now().UTC()
		booking = current
		return nil
	})
	if err != nil {
		return nil, writeErr(err, "update booking status")
	}
	invalidateProperty(s.cache, booking.PropertyID)

	s.log.Info("Booking status changed by host",
		zap.String("booking_id", id.String()),
		zap.String("status", string(status)),
		zap.String("host_id", actor.ID.String()))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.findBooking(ctx, s.repo.Booking, id)
	if err != nil {
		return nil, err
	}
	if !CanMutateBooking(actor, booking) {
		return nil, utils.ErrForbidden("you can only view your own bookings")
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) ListForUser(ctx context.Context, actor Actor) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindByUserID(ctx, actor.ID)
	if err != nil {
		return nil, utils.ErrInternal("failed to list bookings", err)
	}
	return response.BookingsToResponse(bookings), nil
}

func (s *bookingService) ListForHost(ctx context.Context, actor Actor) ([]response.BookingResponse, error) {
	properties, err := s.repo.Property.FindByOwnerID(ctx, actor.ID)
	if err != nil {
		return nil, utils.ErrInternal("failed to list properties", err)
	}

	ids := make([]uuid.UUID, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
	}

	bookings, err := s.repo.Booking.FindByPropertyIDs(ctx, ids)
	if err != nil {
		return nil, utils.ErrInternal("failed to list bookings", err)
	}
	return response.BookingsToResponse(bookings), nil
}
