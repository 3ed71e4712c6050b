package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
)

const (
	dateLayout     = "2006-01-02"
	scheduleLayout = "2006-01-02 15:04"
)

var timeOfDayRe = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d)$`)

// Notifier delivers appointment confirmations. Sends are fire-and-forget: a
// failure never rolls back the booking that triggered it.
type Notifier interface {
	SendAppointmentEmail(ctx context.Context, userEmail, serviceName, date, timeOfDay string) error
}

// BookingService implements the scheduling use cases: slot validation,
// per-user conflict detection and the appointment lifecycle.
type BookingService struct {
	appointments ports.AppointmentRepository
	services     ports.ServiceRepository
	users        ports.UserRepository
	notifier     Notifier
	now          func() time.Time
	log          zerolog.Logger
}

func NewBookingService(
	appointments ports.AppointmentRepository,
	services ports.ServiceRepository,
	users ports.UserRepository,
	notifier Notifier,
	log zerolog.Logger,
) *BookingService {
	return &BookingService{
		appointments: appointments,
		services:     services,
		users:        users,
		notifier:     notifier,
		now:          time.Now,
		log:          log,
	}
}

// WithClock overrides the time source. Intended for tests.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
	s.now = now
	return s
}

// Create books a slot for the caller: resolve the service, check the instant
// is in the future, reject a second non-cancelled appointment at the same
// (date, time), persist as Pending. The conflict lookup is only the fast
// path; the store's unique index settles races between concurrent creates.
func (s *BookingService) Create(ctx context.Context, caller domain.Identity, in ports.CreateAppointmentInput) (*domain.Appointment, error) {
	svc, err := s.services.FindByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	when, err := time.ParseInLocation(scheduleLayout, in.Date+" "+in.Time, time.Local)
	if err != nil || !timeOfDayRe.MatchString(in.Time) || !when.After(s.now()) {
		return nil, domain.ErrInvalidSchedule
	}

	if _, err := s.appointments.FindConflict(ctx, caller.SubjectID, in.Date, in.Time); err == nil {
		return nil, domain.ErrBookingConflict
	} else if !errors.Is(err, domain.ErrAppointmentNotFound) {
		return nil, err
	}

	now := s.now().UTC()
	created, err := s.appointments.Create(ctx, &domain.Appointment{
		UserID:    caller.SubjectID,
		ServiceID: svc.ID,
		Date:      in.Date,
		Time:      in.Time,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("appointment_id", created.ID).
		Str("user_id", caller.SubjectID).
		Str("service_id", svc.ID).
		Str("date", in.Date).
		Str("time", in.Time).
		Msg("appointment created")

	s.sendConfirmation(ctx, created, svc.Name)

	return created, nil
}

// sendConfirmation looks up the owner's email and hands the message to the
// notifier. Failures are logged and swallowed.
func (s *BookingService) sendConfirmation(ctx context.Context, a *domain.Appointment, serviceName string) {
	owner, err := s.users.FindByID(ctx, a.UserID)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", a.UserID).Msg("confirmation skipped, owner lookup failed")
		return
	}
	if err := s.notifier.SendAppointmentEmail(ctx, owner.Email, serviceName, a.Date, a.Time); err != nil {
		s.log.Warn().Err(err).Str("appointment_id", a.ID).Msg("confirmation email failed")
	}
}

// GetByID loads one appointment and expands its owner and service references
// with explicit read-side lookups. Not-found resolves before the ownership
// check, so probing callers never learn whether they would have been allowed.
func (s *BookingService) GetByID(ctx context.Context, caller domain.Identity, id string) (*ports.AppointmentDetail, error) {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessAppointment(caller.Role, caller.SubjectID, appt.UserID) {
		return nil, domain.ErrForbidden
	}

	detail := &ports.AppointmentDetail{Appointment: *appt}
	if owner, err := s.users.FindByID(ctx, appt.UserID); err == nil {
		detail.User = ports.UserSummary{Name: owner.Name, Email: owner.Email}
	} else {
		s.log.Warn().Err(err).Str("user_id", appt.UserID).Msg("owner expansion failed")
	}
	if svc, err := s.services.FindByID(ctx, appt.ServiceID); err == nil {
		detail.Service = ports.ServiceSummary{Name: svc.Name, Price: svc.Price}
	} else {
		s.log.Warn().Err(err).Str("service_id", appt.ServiceID).Msg("service expansion failed")
	}
	return detail, nil
}

// Update applies a partial patch: absent fields stay untouched. Validation
// runs before any load, the not-found check before the ownership check, and
// the store re-validates the document on save.
func (s *BookingService) Update(ctx context.Context, caller domain.Identity, id string, in ports.AppointmentPatchInput) (*domain.Appointment, error) {
	patch, err := s.validatePatch(in)
	if err != nil {
		return nil, err
	}

	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccessAppointment(caller.Role, caller.SubjectID, appt.UserID) {
		return nil, domain.ErrForbidden
	}

	if patch.Status != nil && *patch.Status != appt.Status && !appt.Status.CanTransitionTo(*patch.Status) {
		return nil, domain.NewValidationError("status", "cannot transition from "+string(appt.Status)+" to "+string(*patch.Status))
	}

	updated, err := s.appointments.UpdateByID(ctx, id, *patch)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("appointment_id", id).Str("caller_id", caller.SubjectID).Msg("appointment updated")
	return updated, nil
}

func (s *BookingService) validatePatch(in ports.AppointmentPatchInput) (*ports.AppointmentPatch, error) {
	patch := &ports.AppointmentPatch{ServiceID: in.ServiceID}

	if in.ServiceID != nil && *in.ServiceID == "" {
		return nil, domain.NewValidationError("serviceId", "must not be empty")
	}
	if in.Date != nil {
		day, err := time.ParseInLocation(dateLayout, *in.Date, time.Local)
		if err != nil {
			return nil, domain.NewValidationError("date", "must be a valid date (YYYY-MM-DD)")
		}
		now := s.now().In(time.Local)
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
		if day.Before(today) {
			return nil, domain.NewValidationError("date", "Date must not be in the past")
		}
		patch.Date = in.Date
	}
	if in.Time != nil {
		if !timeOfDayRe.MatchString(*in.Time) {
			return nil, domain.NewValidationError("time", "must match the 24-hour HH:MM format")
		}
		patch.Time = in.Time
	}
	if in.Status != nil {
		status := domain.AppointmentStatus(*in.Status)
		if !status.Valid() {
			return nil, domain.NewValidationError("status", "must be one of Pending, Confirmed, Cancelled")
		}
		patch.Status = &status
	}
	return patch, nil
}

// List returns one admin page. Pagination parameters are not validated
// strictly: a non-positive page or limit degrades to an empty page rather
// than an error.
func (s *BookingService) List(ctx context.Context, page, limit int) (*ports.AppointmentPage, error) {
	if page <= 0 || limit <= 0 {
		return &ports.AppointmentPage{Items: []*domain.Appointment{}, Page: page, Limit: limit}, nil
	}

	items, total, err := s.appointments.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	return &ports.AppointmentPage{Items: items, Total: total, Page: page, Limit: limit}, nil
}

// Delete removes one appointment with the same not-found-then-ownership
// ordering as Update.
func (s *BookingService) Delete(ctx context.Context, caller domain.Identity, id string) error {
	appt, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !domain.CanAccessAppointment(caller.Role, caller.SubjectID, appt.UserID) {
		return domain.ErrForbidden
	}

	if err := s.appointments.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("appointment_id", id).Str("caller_id", caller.SubjectID).Msg("appointment deleted")
	return nil
}
