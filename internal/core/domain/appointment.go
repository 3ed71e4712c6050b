package domain

import (
	"errors"
	"fmt"
	"time"
)

// AppointmentStatus represents the lifecycle state of an appointment.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "Pending"
	StatusConfirmed AppointmentStatus = "Confirmed"
	StatusCancelled AppointmentStatus = "Cancelled"
)

// validTransitions defines the allowed state machine transitions.
// Confirmed and Cancelled are terminal.
var validTransitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending: {StatusConfirmed, StatusCancelled},
}

var ErrAppointmentNotFound = errors.New("appointment not found")
var ErrBookingConflict = errors.New("you already have an appointment at this time")
var ErrForbidden = errors.New("access denied")
var ErrInvalidSchedule = errors.New("invalid or past date/time")

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether a transition from s to next is valid.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Appointment is the core scheduling aggregate. Date and Time are kept as the
// caller supplied them ("2006-01-02" and "15:04") because the booking conflict
// key is the exact (UserID, Date, Time) triple.
type Appointment struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	ServiceID string            `json:"service_id"`
	Date      string            `json:"date"`
	Time      string            `json:"time"`
	Status    AppointmentStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// CanAccessAppointment is the resource-level authorization rule: admins may
// touch any appointment, everyone else only their own. Callers must resolve
// not-found before evaluating this.
func CanAccessAppointment(role Role, callerID, ownerID string) bool {
	return role == RoleAdmin || (callerID != "" && callerID == ownerID)
}

// ValidationError reports a malformed or out-of-range input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// NewValidationError builds a field-level validation failure.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
