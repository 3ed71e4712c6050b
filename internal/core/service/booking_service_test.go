package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
)

type stubAppointmentRepo struct {
	byID      map[string]*domain.Appointment
	nextID    int
	lastSkip  int
	lastLimit int
	listed    bool
}

func newStubAppointmentRepo() *stubAppointmentRepo {
	return &stubAppointmentRepo{byID: map[string]*domain.Appointment{}}
}

func (r *stubAppointmentRepo) Create(_ context.Context, a *domain.Appointment) (*domain.Appointment, error) {
	r.nextID++
	stored := *a
	stored.ID = fmt.Sprintf("appt-%d", r.nextID)
	r.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubAppointmentRepo) FindByID(_ context.Context, id string) (*domain.Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	out := *a
	return &out, nil
}

func (r *stubAppointmentRepo) FindConflict(_ context.Context, userID, date, timeOfDay string) (*domain.Appointment, error) {
	for _, a := range r.byID {
		if a.UserID == userID && a.Date == date && a.Time == timeOfDay && a.Status != domain.StatusCancelled {
			out := *a
			return &out, nil
		}
	}
	return nil, domain.ErrAppointmentNotFound
}

func (r *stubAppointmentRepo) List(_ context.Context, skip, limit int) ([]*domain.Appointment, int64, error) {
	r.listed = true
	r.lastSkip, r.lastLimit = skip, limit
	items := make([]*domain.Appointment, 0, len(r.byID))
	for _, a := range r.byID {
		out := *a
		items = append(items, &out)
	}
	return items, int64(len(r.byID)), nil
}

func (r *stubAppointmentRepo) UpdateByID(_ context.Context, id string, patch ports.AppointmentPatch) (*domain.Appointment, error) {
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAppointmentNotFound
	}
	if patch.ServiceID != nil {
		a.ServiceID = *patch.ServiceID
	}
	if patch.Date != nil {
		a.Date = *patch.Date
	}
	if patch.Time != nil {
		a.Time = *patch.Time
	}
	if patch.Status != nil {
		a.Status = *patch.Status
	}
	out := *a
	return &out, nil
}

func (r *stubAppointmentRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAppointmentNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubServiceRepo struct {
	byID   map[string]*domain.Service
	nextID int
}

func newStubServiceRepo(services ...*domain.Service) *stubServiceRepo {
	r := &stubServiceRepo{byID: map[string]*domain.Service{}}
	for _, s := range services {
		r.byID[s.ID] = s
	}
	return r
}

func (r *stubServiceRepo) FindByID(_ context.Context, id string) (*domain.Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	out := *s
	return &out, nil
}

func (r *stubServiceRepo) List(_ context.Context, skip, limit int) ([]*domain.Service, error) {
	items := make([]*domain.Service, 0, len(r.byID))
	for _, s := range r.byID {
		out := *s
		items = append(items, &out)
	}
	return items, nil
}

func (r *stubServiceRepo) Create(_ context.Context, s *domain.Service) (*domain.Service, error) {
	r.nextID++
	stored := *s
	stored.ID = fmt.Sprintf("svc-%d", r.nextID)
	r.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (r *stubServiceRepo) UpdateByID(_ context.Context, id string, patch ports.ServicePatch) (*domain.Service, error) {
	s, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrServiceNotFound
	}
	if patch.Name != nil {
		s.Name = *patch.Name
	}
	if patch.Price != nil {
		s.Price = *patch.Price
	}
	if patch.DurationMinutes != nil {
		s.DurationMinutes = *patch.DurationMinutes
	}
	out := *s
	return &out, nil
}

func (r *stubServiceRepo) DeleteByID(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrServiceNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubUserRepo struct {
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
	nextID  int
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: map[string]*domain.User{}, byEmail: map[string]*domain.User{}}
	for _, u := range users {
		r.byID[u.ID] = u
		r.byEmail[u.Email] = u
	}
	return r
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *u
	return &out, nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, ok := r.byEmail[user.Email]; ok {
		return nil, domain.ErrEmailTaken
	}
	r.nextID++
	stored := *user
	stored.ID = fmt.Sprintf("user-%d", r.nextID)
	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = &stored
	out := stored
	return &out, nil
}

type stubNotifier struct {
	emails []string
	err    error
}

func (n *stubNotifier) SendAppointmentEmail(_ context.Context, userEmail, _, _, _ string) error {
	n.emails = append(n.emails, userEmail)
	return n.err
}

type bookingFixture struct {
	svc          *BookingService
	appointments *stubAppointmentRepo
	notifier     *stubNotifier
}

// fixedNow is the reference instant for every scheduling test.
var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.Local)

func newBookingFixture() *bookingFixture {
	appointments := newStubAppointmentRepo()
	services := newStubServiceRepo(&domain.Service{ID: "svc-hair", Name: "Haircut", Price: 25, DurationMinutes: 30})
	users := newStubUserRepo(
		&domain.User{ID: "user-owner", Name: "Owner", Email: "owner@example.com", Role: domain.RoleCustomer},
		&domain.User{ID: "user-other", Name: "Other", Email: "other@example.com", Role: domain.RoleCustomer},
	)
	notifier := &stubNotifier{}
	svc := NewBookingService(appointments, services, users, notifier, zerolog.Nop()).
		WithClock(func() time.Time { return fixedNow })
	return &bookingFixture{svc: svc, appointments: appointments, notifier: notifier}
}

var (
	ownerIdent    = domain.Identity{SubjectID: "user-owner", Role: domain.RoleCustomer}
	strangerIdent = domain.Identity{SubjectID: "user-other", Role: domain.RoleCustomer}
	adminIdent    = domain.Identity{SubjectID: "user-admin", Role: domain.RoleAdmin}
	staffIdent    = domain.Identity{SubjectID: "user-staff", Role: domain.RoleStaff}
)

func TestBookingService_Create(t *testing.T) {
	fx := newBookingFixture()

	created, err := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
		ServiceID: "svc-hair", Date: "2026-03-11", Time: "14:00",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected an assigned ID")
	}
	if created.Status != domain.StatusPending {
		t.Fatalf("expected status Pending, got %q", created.Status)
	}
	if created.UserID != "user-owner" || created.ServiceID != "svc-hair" {
		t.Fatalf("unexpected ownership: %+v", created)
	}
	if len(fx.notifier.emails) != 1 || fx.notifier.emails[0] != "owner@example.com" {
		t.Fatalf("expected one confirmation to the owner, got %v", fx.notifier.emails)
	}
}

func TestBookingService_Create_UnknownService(t *testing.T) {
	fx := newBookingFixture()

	_, err := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
		ServiceID: "svc-missing", Date: "2026-03-11", Time: "14:00",
	})
	if !errors.Is(err, domain.ErrServiceNotFound) {
		t.Fatalf("expected ErrServiceNotFound, got %v", err)
	}
}

func TestBookingService_Create_RejectsPastOrMalformed(t *testing.T) {
	fx := newBookingFixture()

	cases := []struct {
		name       string
		date, slot string
	}{
		{"past day", "2026-03-09", "14:00"},
		{"past instant today", "2026-03-10", "11:00"},
		{"exactly now", "2026-03-10", "12:00"},
		{"malformed date", "11-03-2026", "14:00"},
		{"malformed time", "2026-03-11", "2pm"},
		{"hour out of range", "2026-03-11", "24:00"},
	}
	for _, tc := range cases {
		_, err := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
			ServiceID: "svc-hair", Date: tc.date, Time: tc.slot,
		})
		if !errors.Is(err, domain.ErrInvalidSchedule) {
			t.Errorf("%s: expected ErrInvalidSchedule, got %v", tc.name, err)
		}
	}
	if len(fx.notifier.emails) != 0 {
		t.Fatalf("no confirmation should be sent for rejected bookings")
	}
}

func TestBookingService_Create_Conflict(t *testing.T) {
	fx := newBookingFixture()
	in := ports.CreateAppointmentInput{ServiceID: "svc-hair", Date: "2026-03-11", Time: "14:00"}

	if _, err := fx.svc.Create(context.Background(), ownerIdent, in); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	if _, err := fx.svc.Create(context.Background(), ownerIdent, in); !errors.Is(err, domain.ErrBookingConflict) {
		t.Fatalf("expected ErrBookingConflict on double booking, got %v", err)
	}

	// a different user may hold the same slot
	if _, err := fx.svc.Create(context.Background(), strangerIdent, in); err != nil {
		t.Fatalf("other user's booking should succeed: %v", err)
	}
	// the same user may hold a different slot
	if _, err := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
		ServiceID: "svc-hair", Date: "2026-03-11", Time: "15:00",
	}); err != nil {
		t.Fatalf("booking a free slot should succeed: %v", err)
	}
}

func TestBookingService_Create_CancelledSlotReusable(t *testing.T) {
	fx := newBookingFixture()
	in := ports.CreateAppointmentInput{ServiceID: "svc-hair", Date: "2026-03-11", Time: "14:00"}

	created, err := fx.svc.Create(context.Background(), ownerIdent, in)
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}
	cancelled := string(domain.StatusCancelled)
	if _, err := fx.svc.Update(context.Background(), ownerIdent, created.ID, ports.AppointmentPatchInput{Status: &cancelled}); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if _, err := fx.svc.Create(context.Background(), ownerIdent, in); err != nil {
		t.Fatalf("cancelled appointments must not block the slot: %v", err)
	}
}

func TestBookingService_GetByID(t *testing.T) {
	fx := newBookingFixture()
	created, err := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
		ServiceID: "svc-hair", Date: "2026-03-11", Time: "14:00",
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	detail, err := fx.svc.GetByID(context.Background(), ownerIdent, created.ID)
	if err != nil {
		t.Fatalf("owner read failed: %v", err)
	}
	if detail.User.Email != "owner@example.com" {
		t.Fatalf("expected owner expansion, got %+v", detail.User)
	}
	if detail.Service.Name != "Haircut" || detail.Service.Price != 25 {
		t.Fatalf("expected service expansion, got %+v", detail.Service)
	}

	if _, err := fx.svc.GetByID(context.Background(), adminIdent, created.ID); err != nil {
		t.Fatalf("admin read failed: %v", err)
	}
	if _, err := fx.svc.GetByID(context.Background(), strangerIdent, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another customer, got %v", err)
	}
	if _, err := fx.svc.GetByID(context.Background(), staffIdent, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("staff gets no implicit access, got %v", err)
	}
}

func TestBookingService_GetByID_NotFoundBeforeOwnership(t *testing.T) {
	fx := newBookingFixture()

	// a probing caller must see not-found, never a hint about authorization
	for _, ident := range []domain.Identity{adminIdent, strangerIdent} {
		if _, err := fx.svc.GetByID(context.Background(), ident, "appt-missing"); !errors.Is(err, domain.ErrAppointmentNotFound) {
			t.Fatalf("%s: expected ErrAppointmentNotFound, got %v", ident.Role, err)
		}
	}
}

func TestBookingService_Update(t *testing.T) {
	fx := newBookingFixture()
	created, err := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
		ServiceID: "svc-hair", Date: "2026-03-11", Time: "14:00",
	})
	if err != nil {
		t.Fatalf("booking failed: %v", err)
	}

	confirmed := string(domain.StatusConfirmed)
	newTime := "15:30"
	updated, err := fx.svc.Update(context.Background(), ownerIdent, created.ID, ports.AppointmentPatchInput{
		Time: &newTime, Status: &confirmed,
	})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Time != "15:30" || updated.Status != domain.StatusConfirmed {
		t.Fatalf("patch not applied: %+v", updated)
	}
	if updated.Date != "2026-03-11" {
		t.Fatalf("absent fields must stay untouched, got date %q", updated.Date)
	}
}

func TestBookingService_Update_Validation(t *testing.T) {
	fx := newBookingFixture()
	created, _ := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
		ServiceID: "svc-hair", Date: "2026-03-11", Time: "14:00",
	})

	pastDate := "2026-03-09"
	badTime := "25:99"
	badStatus := "Done"
	emptyService := ""

	cases := []struct {
		name    string
		patch   ports.AppointmentPatchInput
		field   string
		message string
	}{
		{"past date", ports.AppointmentPatchInput{Date: &pastDate}, "date", "Date must not be in the past"},
		{"bad time", ports.AppointmentPatchInput{Time: &badTime}, "time", ""},
		{"bad status", ports.AppointmentPatchInput{Status: &badStatus}, "status", ""},
		{"empty service", ports.AppointmentPatchInput{ServiceID: &emptyService}, "serviceId", ""},
	}
	for _, tc := range cases {
		_, err := fx.svc.Update(context.Background(), ownerIdent, created.ID, tc.patch)
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("%s: expected a ValidationError, got %v", tc.name, err)
			continue
		}
		if verr.Field != tc.field {
			t.Errorf("%s: expected field %q, got %q", tc.name, tc.field, verr.Field)
		}
		if tc.message != "" && verr.Message != tc.message {
			t.Errorf("%s: expected message %q, got %q", tc.name, tc.message, verr.Message)
		}
	}
}

func TestBookingService_Update_TerminalStatus(t *testing.T) {
	fx := newBookingFixture()
	created, _ := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
		ServiceID: "svc-hair", Date: "2026-03-11", Time: "14:00",
	})

	cancelled := string(domain.StatusCancelled)
	if _, err := fx.svc.Update(context.Background(), ownerIdent, created.ID, ports.AppointmentPatchInput{Status: &cancelled}); err != nil {
		t.Fatalf("Pending to Cancelled should be allowed: %v", err)
	}

	pending := string(domain.StatusPending)
	_, err := fx.svc.Update(context.Background(), ownerIdent, created.ID, ports.AppointmentPatchInput{Status: &pending})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "status" {
		t.Fatalf("reopening a cancelled appointment should fail validation, got %v", err)
	}

	// re-asserting the current status is a no-op, not a transition
	if _, err := fx.svc.Update(context.Background(), ownerIdent, created.ID, ports.AppointmentPatchInput{Status: &cancelled}); err != nil {
		t.Fatalf("idempotent status patch should be allowed: %v", err)
	}
}

func TestBookingService_Update_Access(t *testing.T) {
	fx := newBookingFixture()
	created, _ := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
		ServiceID: "svc-hair", Date: "2026-03-11", Time: "14:00",
	})
	confirmed := string(domain.StatusConfirmed)

	if _, err := fx.svc.Update(context.Background(), strangerIdent, created.ID, ports.AppointmentPatchInput{Status: &confirmed}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another customer, got %v", err)
	}
	if _, err := fx.svc.Update(context.Background(), strangerIdent, "appt-missing", ports.AppointmentPatchInput{Status: &confirmed}); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound before the ownership check, got %v", err)
	}
	if _, err := fx.svc.Update(context.Background(), adminIdent, created.ID, ports.AppointmentPatchInput{Status: &confirmed}); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
}

func TestBookingService_List(t *testing.T) {
	fx := newBookingFixture()
	for _, slot := range []string{"14:00", "15:00", "16:00"} {
		if _, err := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
			ServiceID: "svc-hair", Date: "2026-03-11", Time: slot,
		}); err != nil {
			t.Fatalf("booking failed: %v", err)
		}
	}

	page, err := fx.svc.List(context.Background(), 2, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if page.Total != 3 || page.Page != 2 || page.Limit != 2 {
		t.Fatalf("unexpected page metadata: %+v", page)
	}
	if fx.appointments.lastSkip != 2 || fx.appointments.lastLimit != 2 {
		t.Fatalf("expected skip=2 limit=2, got skip=%d limit=%d", fx.appointments.lastSkip, fx.appointments.lastLimit)
	}
}

func TestBookingService_List_ClampsNonPositive(t *testing.T) {
	fx := newBookingFixture()

	for _, tc := range [][2]int{{0, 10}, {1, 0}, {-1, -5}} {
		page, err := fx.svc.List(context.Background(), tc[0], tc[1])
		if err != nil {
			t.Fatalf("page=%d limit=%d: unexpected error %v", tc[0], tc[1], err)
		}
		if len(page.Items) != 0 || page.Total != 0 {
			t.Fatalf("page=%d limit=%d: expected an empty page, got %+v", tc[0], tc[1], page)
		}
	}
	if fx.appointments.listed {
		t.Fatalf("the store must not be queried for a degenerate page")
	}
}

func TestBookingService_Delete(t *testing.T) {
	fx := newBookingFixture()
	created, _ := fx.svc.Create(context.Background(), ownerIdent, ports.CreateAppointmentInput{
		ServiceID: "svc-hair", Date: "2026-03-11", Time: "14:00",
	})

	if err := fx.svc.Delete(context.Background(), strangerIdent, created.ID); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for another customer, got %v", err)
	}
	if err := fx.svc.Delete(context.Background(), strangerIdent, "appt-missing"); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected ErrAppointmentNotFound before the ownership check, got %v", err)
	}
	if err := fx.svc.Delete(context.Background(), ownerIdent, created.ID); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := fx.svc.GetByID(context.Background(), ownerIdent, created.ID); !errors.Is(err, domain.ErrAppointmentNotFound) {
		t.Fatalf("expected the appointment to be gone, got %v", err)
	}
}
