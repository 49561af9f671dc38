package usecase

import (
	"context"
	"sync"
	"testing"

	"staynest/internal/data/entity"
	"staynest/internal/dto/request"
	"staynest/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createReq(propertyID uuid.UUID, start, end string) *request.CreateBookingRequest {
	return &request.CreateBookingRequest{
		Property:  propertyID.String(),
		StartDate: start,
		EndDate:   end,
		Rooms:     1,
		People:    2,
	}
}

func requireKind(t *testing.T, err error, kind utils.ErrorKind) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, kind, utils.KindOf(err), "error: %v", err)
}

func TestBookingCreate_OverlapRules(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		wantError bool
	}{
		{"overlaps on the fourth", "2024-06-04", "2024-06-06", true},
		{"exact match", "2024-06-01", "2024-06-05", true},
		{"contained", "2024-06-02", "2024-06-03", true},
		{"containing", "2024-05-25", "2024-06-10", true},
		{"starts on existing checkout", "2024-06-05", "2024-06-08", false},
		{"ends on existing checkin", "2024-05-01", "2024-06-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			host := f.addUser("host", entity.RoleHost)
			guest := f.addUser("guest", entity.RoleUser)
			other := f.addUser("other", entity.RoleUser)
			p := f.addProperty(host, "Lakeview Cabin", 100)
			f.addBooking(other, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusConfirmed)

			got, err := f.svc.Booking.Create(context.Background(), guest, createReq(p.ID, tt.start, tt.end))

			if tt.wantError {
				requireKind(t, err, utils.KindConflict)
				assert.Contains(t, err.Error(), "dates unavailable")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, entity.BookingStatusPending, got.Status)
			assert.Equal(t, guest.ID.String(), got.UserID)
		})
	}
}

func TestBookingCreate_CancelledBookingsDoNotBlock(t *testing.T) {
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	p := f.addProperty(host, "Lakeview Cabin", 100)
	f.addBooking(guest, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusCancelled)

	_, err := f.svc.Booking.Create(context.Background(), guest, createReq(p.ID, "2024-06-02", "2024-06-04"))
	require.NoError(t, err)
}

func TestBookingCreate_Validation(t *testing.T) {
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	p := f.addProperty(host, "Lakeview Cabin", 100)
	ctx := context.Background()

	_, err := f.svc.Booking.Create(ctx, guest, createReq(p.ID, "2024-06-05", "2024-06-05"))
	requireKind(t, err, utils.KindValidation)

	_, err = f.svc.Booking.Create(ctx, guest, createReq(p.ID, "2024-06-05", "2024-06-01"))
	requireKind(t, err, utils.KindValidation)

	_, err = f.svc.Booking.Create(ctx, guest, createReq(p.ID, "June 1st", "2024-06-05"))
	requireKind(t, err, utils.KindValidation)

	req := createReq(p.ID, "2024-06-01", "2024-06-05")
	req.Rooms = 0
	_, err = f.svc.Booking.Create(ctx, guest, req)
	requireKind(t, err, utils.KindValidation)

	_, err = f.svc.Booking.Create(ctx, guest, createReq(uuid.New(), "2024-06-01", "2024-06-05"))
	requireKind(t, err, utils.KindNotFound)
}

func TestBookingCreate_ConcurrentRequestsBookOnce(t *testing.T) {
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	p := f.addProperty(host, "Lakeview Cabin", 100)

	const n = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < n; i++ {
		guest := f.addUser(uuid.NewString()[:8], entity.RoleUser)
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Booking.Create(context.Background(), guest, createReq(p.ID, "2024-06-01", "2024-06-05"))
			if err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
	active, err := f.bookings.FindActiveByPropertyID(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}

func TestBookingUpdate(t *testing.T) {
	ctx := context.Background()
	upd := func(start, end string) *request.UpdateBookingRequest {
		return &request.UpdateBookingRequest{StartDate: start, EndDate: end, Rooms: 2, People: 3}
	}

	t.Run("does not conflict with itself", func(t *testing.T) {
		f := newFixture()
		host := f.addUser("host", entity.RoleHost)
		guest := f.addUser("guest", entity.RoleUser)
		p := f.addProperty(host, "Lakeview Cabin", 100)
		b := f.addBooking(guest, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusPending)

		got, err := f.svc.Booking.Update(ctx, guest, b.ID, upd("2024-06-02", "2024-06-06"))
		require.NoError(t, err)
		assert.Equal(t, "2024-06-02", got.StartDate)
		assert.Equal(t, "2024-06-06", got.EndDate)
		assert.Equal(t, 2, got.Rooms)
		assert.Equal(t, entity.BookingStatusPending, got.Status)
	})

	t.Run("conflicts with another active booking", func(t *testing.T) {
		f := newFixture()
		host := f.addUser("host", entity.RoleHost)
		guest := f.addUser("guest", entity.RoleUser)
		p := f.addProperty(host, "Lakeview Cabin", 100)
		b := f.addBooking(guest, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusPending)
		f.addBooking(host, p.ID, "2024-06-10", "2024-06-12", entity.BookingStatusConfirmed)

		_, err := f.svc.Booking.Update(ctx, guest, b.ID, upd("2024-06-04", "2024-06-11"))
		requireKind(t, err, utils.KindConflict)
	})

	t.Run("only the guest may update", func(t *testing.T) {
		f := newFixture()
		host := f.addUser("host", entity.RoleHost)
		guest := f.addUser("guest", entity.RoleUser)
		p := f.addProperty(host, "Lakeview Cabin", 100)
		b := f.addBooking(guest, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusPending)

		_, err := f.svc.Booking.Update(ctx, host, b.ID, upd("2024-06-02", "2024-06-06"))
		requireKind(t, err, utils.KindForbidden)
	})

	t.Run("cancelled booking cannot be updated", func(t *testing.T) {
		f := newFixture()
		host := f.addUser("host", entity.RoleHost)
		guest := f.addUser("guest", entity.RoleUser)
		p := f.addProperty(host, "Lakeview Cabin", 100)
		b := f.addBooking(guest, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusCancelled)

		_, err := f.svc.Booking.Update(ctx, guest, b.ID, upd("2024-06-02", "2024-06-06"))
		requireKind(t, err, utils.KindInvalidState)
		assert.Contains(t, err.Error(), "booking is cancelled")
	})

	t.Run("missing booking", func(t *testing.T) {
		f := newFixture()
		guest := f.addUser("guest", entity.RoleUser)
		_, err := f.svc.Booking.Update(ctx, guest, uuid.New(), upd("2024-06-02", "2024-06-06"))
		requireKind(t, err, utils.KindNotFound)
	})
}

func TestBookingCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	p := f.addProperty(host, "Lakeview Cabin", 100)

	pending := f.addBooking(guest, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusPending)
	confirmed := f.addBooking(guest, p.ID, "2024-07-01", "2024-07-05", entity.BookingStatusConfirmed)

	_, err := f.svc.Booking.Cancel(ctx, host, pending.ID)
	requireKind(t, err, utils.KindForbidden)

	got, err := f.svc.Booking.Cancel(ctx, guest, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, got.Status)

	_, err = f.svc.Booking.Cancel(ctx, guest, pending.ID)
	requireKind(t, err, utils.KindInvalidState)
	assert.Contains(t, err.Error(), "already cancelled")

	_, err = f.svc.Booking.Cancel(ctx, guest, confirmed.ID)
	requireKind(t, err, utils.KindInvalidState)
	assert.Contains(t, err.Error(), "confirmed booking requires support")
	assert.Equal(t, entity.BookingStatusConfirmed, f.bookings.status(confirmed.ID))
}

func TestBookingSetStatus(t *testing.T) {
	ctx := context.Background()
	status := func(s string) *request.UpdateBookingStatusRequest {
		return &request.UpdateBookingStatusRequest{Status: s}
	}

	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	otherHost := f.addUser("otherhost", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	p := f.addProperty(host, "Lakeview Cabin", 100)
	b := f.addBooking(guest, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusPending)

	_, err := f.svc.Booking.SetStatus(ctx, otherHost, b.ID, status("confirmed"))
	requireKind(t, err, utils.KindForbidden)

	_, err = f.svc.Booking.SetStatus(ctx, guest, b.ID, status("confirmed"))
	requireKind(t, err, utils.KindForbidden)

	_, err = f.svc.Booking.SetStatus(ctx, host, b.ID, status("expired"))
	requireKind(t, err, utils.KindValidation)

	got, err := f.svc.Booking.SetStatus(ctx, host, b.ID, status("confirmed"))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusConfirmed, got.Status)

	got, err = f.svc.Booking.SetStatus(ctx, host, b.ID, status("cancelled"))
	require.NoError(t, err)
	assert.Equal(t, entity.BookingStatusCancelled, got.Status)

	// cancelled is terminal
	for _, s := range []string{"pending", "confirmed", "cancelled"} {
		_, err = f.svc.Booking.SetStatus(ctx, host, b.ID, status(s))
		requireKind(t, err, utils.KindInvalidState)
	}
	assert.Equal(t, entity.BookingStatusCancelled, f.bookings.status(b.ID))
}

func TestBookingSetStatus_RechecksOverlap(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	p := f.addProperty(host, "Lakeview Cabin", 100)

	// inconsistent data written before the invariant was enforced
	a := f.addBooking(guest, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusConfirmed)
	b := f.addBooking(guest, p.ID, "2024-06-03", "2024-06-06", entity.BookingStatusPending)

	_, err := f.svc.Booking.SetStatus(ctx, host, b.ID, &request.UpdateBookingStatusRequest{Status: "confirmed"})
	requireKind(t, err, utils.KindConflict)
	assert.Equal(t, entity.BookingStatusPending, f.bookings.status(b.ID))
	assert.Equal(t, entity.BookingStatusConfirmed, f.bookings.status(a.ID))
}

func TestBookingQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	stranger := f.addUser("stranger", entity.RoleUser)
	p := f.addProperty(host, "Lakeview Cabin", 100)
	other := f.addProperty(stranger, "City Loft", 80)

	b := f.addBooking(guest, p.ID, "2024-06-01", "2024-06-05", entity.BookingStatusPending)
	f.addBooking(guest, other.ID, "2024-06-01", "2024-06-05", entity.BookingStatusPending)

	_, err := f.svc.Booking.Get(ctx, stranger, uuid.New())
	requireKind(t, err, utils.KindNotFound)

	_, err = f.svc.Booking.Get(ctx, stranger, b.ID)
	requireKind(t, err, utils.KindForbidden)

	got, err := f.svc.Booking.Get(ctx, guest, b.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Nights)

	mine, err := f.svc.Booking.ListForUser(ctx, guest)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	hosted, err := f.svc.Booking.ListForHost(ctx, host)
	require.NoError(t, err)
	require.Len(t, hosted, 1)
	assert.Equal(t, b.ID.String(), hosted[0].ID)

	none, err := f.svc.Booking.ListForHost(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestBookingCreate_InvalidatesPropertyDetail(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	host := f.addUser("host", entity.RoleHost)
	guest := f.addUser("guest", entity.RoleUser)
	p := f.addProperty(host, "Lakeview Cabin", 100)

	detail, err := f.svc.Property.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.BookedDates)

	_, err = f.svc.Booking.Create(ctx, guest, createReq(p.ID, "2024-06-01", "2024-06-05"))
	require.NoError(t, err)

	detail, err = f.svc.Property.Get(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, detail.BookedDates, 1)
	assert.Equal(t, "2024-06-01", detail.BookedDates[0].StartDate)
	assert.Equal(t, "2024-06-05", detail.BookedDates[0].EndDate)
}
