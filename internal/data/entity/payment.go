package entity

import (
	"github.com/google/uuid"
)

type PaymentStatus string

const (
	PaymentStatusCreated  PaymentStatus = "created"
	PaymentStatusCaptured PaymentStatus = "captured"
	PaymentStatusFailed   PaymentStatus = "failed"
)

// Payment tracks one gateway order raised for a booking.
type Payment struct {
	BaseNoDelete
	BookingID uuid.UUID     `db:"booking_id"`
	OrderID   string        `db:"order_id"`
	Amount    float64       `db:"amount"`
	Currency  string        `db:"currency"`
	Status    PaymentStatus `db:"status"`
}
