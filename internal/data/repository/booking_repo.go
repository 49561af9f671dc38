package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"staynest/internal/data/entity"
	"staynest/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error)
	FindByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID) ([]*entity.Booking, error)
	Update(ctx context.Context, booking *entity.Booking) error
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error

	// Business queries
	FindActiveOverlapping(ctx context.Context, propertyID uuid.UUID, r entity.DateRange, excludeID uuid.UUID) ([]*entity.Booking, error)
	FindActiveByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*entity.Booking, error)

	// WithPropertyLock runs fn in a transaction holding an advisory lock on
	// propertyID. fn receives a repository bound to that transaction.
	WithPropertyLock(ctx context.Context, propertyID uuid.UUID, fn func(BookingRepository) error) error
}

type bookingRepository struct {
	q   database.Querier
	db  database.PgxIface // nil when bound to a transaction
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		q:   db,
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, property_id, start_date, end_date, rooms, people, status, created_at, updated_at`

func scanBooking(row rowScanner) (*entity.Booking, error) {
	var b entity.Booking
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.PropertyID,
		&b.StartDate,
		&b.EndDate,
		&b.Rooms,
		&b.People,
		&b.Status,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.Exec(ctx, query,
		booking.ID,
		booking.UserID,
		booking.PropertyID,
		booking.StartDate,
		booking.EndDate,
		booking.Rooms,
		booking.People,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("user_id", booking.UserID.String()),
			zap.String("property_id", booking.PropertyID.String()),
		)
		return fmt.Errorf("create booking for property %s: %w", booking.PropertyID, translatePgError(err))
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByUserID(ctx context.Context, userID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	return r.queryMany(ctx, query, userID)
}

func (r *bookingRepository) FindByPropertyIDs(ctx context.Context, propertyIDs []uuid.UUID) ([]*entity.Booking, error) {
	if len(propertyIDs) == 0 {
		return []*entity.Booking{}, nil
	}

	ids := make([]string, len(propertyIDs))
	for i, id := range propertyIDs {
		ids[i] = id.String()
	}

	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE property_id = ANY($1::uuid[])
		ORDER BY start_date ASC
	`
	return r.queryMany(ctx, query, ids)
}

// FindActiveOverlapping returns pending or confirmed bookings on propertyID
// whose [start, end) range intersects rng, skipping excludeID.
func (r *bookingRepository) FindActiveOverlapping(ctx context.Context, propertyID uuid.UUID, rng entity.DateRange, excludeID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE property_id = $1
		  AND status IN ('pending', 'confirmed')
		  AND start_date < $3
		  AND end_date > $2
		  AND id <> $4
	`
	return r.queryMany(ctx, query, propertyID, rng.Start, rng.End, excludeID)
}

func (r *bookingRepository) FindActiveByPropertyID(ctx context.Context, propertyID uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE property_id = $1 AND status IN ('pending', 'confirmed')
		ORDER BY start_date ASC
	`
	return r.queryMany(ctx, query, propertyID)
}

func (r *bookingRepository) queryMany(ctx context.Context, query string, args ...any) ([]*entity.Booking, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to query bookings", zap.Error(err))
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*entity.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, b)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET start_date = $2, end_date = $3, rooms = $4, people = $5,
		    status = $6, updated_at = $7
		WHERE id = $1
	`

	result, err := r.q.Exec(ctx, query,
		booking.ID,
		booking.StartDate,
		booking.EndDate,
		booking.Rooms,
		booking.People,
		booking.Status,
		booking.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID, translatePgError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %s: %w", booking.ID, ErrNotFound)
	}
	return nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.q.Exec(ctx, query, bookingID, status, time.Now().UTC())
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID, status, translatePgError(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update booking %s status: %w", bookingID, ErrNotFound)
	}
	return nil
}

func (r *bookingRepository) WithPropertyLock(ctx context.Context, propertyID uuid.UUID, fn func(BookingRepository) error) error {
	lock := func(q database.Querier) error {
		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, propertyID.String()); err != nil {
			r.log.Error("Failed to lock property",
				zap.Error(err),
				zap.String("property_id", propertyID.String()),
			)
			return fmt.Errorf("lock property %s: %w", propertyID, err)
		}
		return nil
	}

	// already inside a transaction
	if r.db == nil {
		if err := lock(r.q); err != nil {
			return err
		}
		return fn(r)
	}

	return database.InTx(ctx, r.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if err := lock(tx); err != nil {
			return err
		}
		return fn(&bookingRepository{q: tx, log: r.log})
	})
}
