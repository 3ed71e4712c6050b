package ports

import (
	"context"

	"github.com/salonbook/booking-api/internal/core/domain"
)

// CreateAppointmentInput carries the data needed to book a slot.
type CreateAppointmentInput struct {
	ServiceID string
	Date      string // "2006-01-02"
	Time      string // "15:04", 24-hour
}

// AppointmentPatchInput is the transport-level partial update. Nil means the
// field was absent from the request. Status is a raw string so the service
// can report an enum violation as a field-level validation error.
type AppointmentPatchInput struct {
	ServiceID *string
	Date      *string
	Time      *string
	Status    *string
}

// UserSummary is the expanded owner reference in a detail view.
type UserSummary struct {
	Name  string
	Email string
}

// ServiceSummary is the expanded service reference in a detail view.
type ServiceSummary struct {
	Name  string
	Price float64
}

// AppointmentDetail is the read-side joined view of a single appointment.
type AppointmentDetail struct {
	Appointment domain.Appointment
	User        UserSummary
	Service     ServiceSummary
}

// AppointmentPage is one page of the admin listing.
type AppointmentPage struct {
	Items []*domain.Appointment
	Total int64
	Page  int
	Limit int
}

// BookingService defines the scheduling use cases. Resource-level
// authorization (admin or owner, evaluated strictly after not-found) is the
// service's responsibility; route-level RBAC happens in the transport layer.
type BookingService interface {
	Create(ctx context.Context, caller domain.Identity, in CreateAppointmentInput) (*domain.Appointment, error)
	GetByID(ctx context.Context, caller domain.Identity, id string) (*AppointmentDetail, error)
	Update(ctx context.Context, caller domain.Identity, id string, patch AppointmentPatchInput) (*domain.Appointment, error)
	List(ctx context.Context, page, limit int) (*AppointmentPage, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
}
