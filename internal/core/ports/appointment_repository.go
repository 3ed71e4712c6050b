package ports

import (
	"context"

	"github.com/salonbook/booking-api/internal/core/domain"
)

// AppointmentPatch carries a partial update. Nil fields are left untouched,
// never reset to a zero value.
type AppointmentPatch struct {
	ServiceID *string
	Date      *string
	Time      *string
	Status    *domain.AppointmentStatus
}

// AppointmentRepository defines persistence operations for appointments.
// The backing store holds a unique index on (user_id, date, time) scoped to
// non-cancelled documents; that index, not the in-service conflict check, is
// the authoritative double-booking guard under concurrent creates.
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	FindByID(ctx context.Context, id string) (*domain.Appointment, error)
	// FindConflict returns the non-cancelled appointment held by userID at the
	// exact (date, time) slot, or domain.ErrAppointmentNotFound.
	FindConflict(ctx context.Context, userID, date, timeOfDay string) (*domain.Appointment, error)
	// List returns a page of appointments plus the total count.
	List(ctx context.Context, skip, limit int) ([]*domain.Appointment, int64, error)
	// UpdateByID applies the patch and re-validates the document shape on
	// save, so a direct store mutation cannot bypass enum constraints.
	UpdateByID(ctx context.Context, id string, patch AppointmentPatch) (*domain.Appointment, error)
	DeleteByID(ctx context.Context, id string) error
}
