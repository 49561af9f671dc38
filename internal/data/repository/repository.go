package repository

import (
	"staynest/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User     UserRepository
	Session  SessionRepository
	Property PropertyRepository
	Booking  BookingRepository
	Comment  CommentRepository
	Payment  PaymentRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		User:     NewUserRepository(db, log),
		Session:  NewSessionRepository(db, log),
		Property: NewPropertyRepository(db, log),
		Booking:  NewBookingRepository(db, log),
		Comment:  NewCommentRepository(db, log),
		Payment:  NewPaymentRepository(db, log),
	}
}
