package usecase

import (
	"staynest/internal/data/entity"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a service operation.
type Actor struct {
	ID   uuid.UUID
	Role entity.UserRole
}

func (a Actor) IsAdmin() bool {
	return a.Role == entity.RoleAdmin
}

// CanMutateBooking: only the guest who made the booking may edit or cancel it.
func CanMutateBooking(actor Actor, booking *entity.Booking) bool {
	return actor.ID == booking.UserID
}

// CanManageBookingAsHost: only the owner of the booked property may change its status.
func CanManageBookingAsHost(actor Actor, property *entity.Property) bool {
	return actor.ID == property.OwnerID
}

func CanMutateProperty(actor Actor, property *entity.Property) bool {
	return actor.ID == property.OwnerID
}

func CanDeleteComment(actor Actor, comment *entity.Comment) bool {
	return actor.ID == comment.UserID || actor.IsAdmin()
}
