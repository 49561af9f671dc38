package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Active statuses count toward the no-overlap rule.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

var ErrInvalidDateRange = errors.New("check-out date must be after check-in date")

// DateRange is a half-open interval [Start, End) of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) (DateRange, error) {
	if !start.Before(end) {
		return DateRange{}, ErrInvalidDateRange
	}
	return DateRange{Start: start, End: end}, nil
}

// Overlaps is true iff r.Start < o.End and r.End > o.Start. Ranges that only
// share a boundary day do not overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

// Nights is the exact number of days between Start and End.
func (r DateRange) Nights() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

type Booking struct {
	BaseNoDelete
	UserID     uuid.UUID     `db:"user_id"`
	PropertyID uuid.UUID     `db:"property_id"`
	StartDate  time.Time     `db:"start_date"`
	EndDate    time.Time     `db:"end_date"`
	Rooms      int           `db:"rooms"`
	People     int           `db:"people"`
	Status     BookingStatus `db:"status"`
}

func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// ConflictsWith reports whether b is active and occupies any day of r.
func (b *Booking) ConflictsWith(r DateRange) bool {
	return b.Status.Active() && b.Range().Overlaps(r)
}

// Amount is the charge for b at the given nightly price.
func (b *Booking) Amount(pricePerNight float64) float64 {
	return pricePerNight * float64(b.Range().Nights()) * float64(b.Rooms)
}

// HasConflict reports whether any booking other than exclude conflicts with r.
func HasConflict(bookings []*Booking, r DateRange, exclude uuid.UUID) bool {
	for _, b := range bookings {
		if b.ID == exclude {
			continue
		}
		if b.ConflictsWith(r) {
			return true
		}
	}
	return false
}
