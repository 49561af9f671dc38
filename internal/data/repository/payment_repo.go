package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staynest/internal/data/entity"
	"staynest/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*entity.Payment, error)

	// Business queries
	UpdateStatus(ctx context.Context, orderID string, status entity.PaymentStatus) error
}

type paymentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPaymentRepository(db database.PgxIface, log *zap.Logger) PaymentRepository {
	return &paymentRepository{
		db:  db,
		log: log.With(zap.String("repository", "payment")),
	}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, order_id, amount, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		payment.ID,
		payment.BookingID,
		payment.OrderID,
		payment.Amount,
		payment.Currency,
		payment.Status,
		payment.CreatedAt,
		payment.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create payment",
			zap.Error(err),
			zap.String("booking_id", payment.BookingID.String()),
			zap.String("order_id", payment.OrderID),
		)
		return fmt.Errorf("create payment for booking %s: %w", payment.BookingID, translatePgError(err))
	}

	return nil
}

func (r *paymentRepository) FindByOrderID(ctx context.Context, orderID string) (*entity.Payment, error) {
	query := `
		SELECT id, booking_id, order_id, amount, currency, status, created_at, updated_at
		FROM payments
		WHERE order_id = $1
	`

	var p entity.Payment
	err := r.db.QueryRow(ctx, query, orderID).Scan(
		&p.ID,
		&p.BookingID,
		&p.OrderID,
		&p.Amount,
		&p.Currency,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find payment by order ID",
			zap.Error(err),
			zap.String("order_id", orderID),
		)
		return nil, fmt.Errorf("find payment by order %s: %w", orderID, err)
	}

	return &p, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, orderID string, status entity.PaymentStatus) error {
	query := `UPDATE payments SET status = $2, updated_at = $3 WHERE order_id = $1`

	result, err := r.db.Exec(ctx, query, orderID, status, time.Now().UTC())
	if err != nil {
		r.log.Error("Failed to update payment status",
			zap.Error(err),
			zap.String("order_id", orderID),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update payment %s status to %s: %w", orderID, status, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update payment %s status: %w", orderID, ErrNotFound)
	}
	return nil
}
