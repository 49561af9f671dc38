package entity

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func rng(start, end string) DateRange {
	return DateRange{Start: day(start), End: day(end)}
}

func TestNewDateRange(t *testing.T) {
	_, err := NewDateRange(day("2024-06-05"), day("2024-06-05"))
	require.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = NewDateRange(day("2024-06-06"), day("2024-06-05"))
	require.ErrorIs(t, err, ErrInvalidDateRange)

	r, err := NewDateRange(day("2024-06-01"), day("2024-06-05"))
	require.NoError(t, err)
	assert.Equal(t, 4, r.Nights())
}

func TestDateRangeOverlaps(t *testing.T) {
	existing := rng("2024-06-01", "2024-06-05")

	tests := []struct {
		name string
		r    DateRange
		want bool
	}{
		{"partial overlap at tail", rng("2024-06-04", "2024-06-06"), true},
		{"partial overlap at head", rng("2024-05-30", "2024-06-02"), true},
		{"exact match", rng("2024-06-01", "2024-06-05"), true},
		{"contained", rng("2024-06-02", "2024-06-03"), true},
		{"containing", rng("2024-05-01", "2024-07-01"), true},
		{"touches end boundary", rng("2024-06-05", "2024-06-08"), false},
		{"ends at start boundary", rng("2024-05-01", "2024-06-01"), false},
		{"entirely after", rng("2024-07-01", "2024-07-04"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.r.Overlaps(existing))
			// overlap is symmetric
			assert.Equal(t, tt.want, existing.Overlaps(tt.r))
		})
	}
}

func TestBookingConflictsWith_IgnoresCancelled(t *testing.T) {
	b := &Booking{
		StartDate: day("2024-06-01"),
		EndDate:   day("2024-06-05"),
		Status:    BookingStatusCancelled,
	}
	assert.False(t, b.ConflictsWith(rng("2024-06-02", "2024-06-03")))

	b.Status = BookingStatusPending
	assert.True(t, b.ConflictsWith(rng("2024-06-02", "2024-06-03")))

	b.Status = BookingStatusConfirmed
	assert.True(t, b.ConflictsWith(rng("2024-06-02", "2024-06-03")))
}

func TestHasConflict_ExcludesSelf(t *testing.T) {
	self := &Booking{
		BaseNoDelete: BaseNoDelete{ID: uuid.New()},
		StartDate:    day("2024-06-01"),
		EndDate:      day("2024-06-05"),
		Status:       BookingStatusPending,
	}
	bookings := []*Booking{self}

	assert.False(t, HasConflict(bookings, rng("2024-06-02", "2024-06-06"), self.ID))
	assert.True(t, HasConflict(bookings, rng("2024-06-02", "2024-06-06"), uuid.Nil))
}

func TestBookingAmount(t *testing.T) {
	b := &Booking{
		StartDate: day("2024-07-01"),
		EndDate:   day("2024-07-04"),
		Rooms:     1,
	}
	assert.Equal(t, 300.0, b.Amount(100))

	b.Rooms = 2
	assert.Equal(t, 600.0, b.Amount(100))
}

func TestBookingStatus(t *testing.T) {
	assert.True(t, BookingStatusPending.Active())
	assert.True(t, BookingStatusConfirmed.Active())
	assert.False(t, BookingStatusCancelled.Active())
	assert.False(t, BookingStatus("expired").Active())
}
