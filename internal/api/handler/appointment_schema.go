package handler

import (
	"time"

	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx
// responses. Field is set for validation failures only.
type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// --- Request types ---

type createAppointmentRequest struct {
	ServiceID string `json:"serviceId" validate:"required"`
	Date      string `json:"date"      validate:"required,datetime=2006-01-02"`
	Time      string `json:"time"      validate:"required"`
}

// updateAppointmentRequest is a partial update: nil means the field was
// absent and must be left untouched.
type updateAppointmentRequest struct {
	ServiceID *string `json:"serviceId"`
	Date      *string `json:"date"`
	Time      *string `json:"time"`
	Status    *string `json:"status"`
}

// --- Response types, owned by the transport layer ---

type appointmentResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ServiceID string    `json:"service_id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toAppointmentResponse(a *domain.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:        a.ID,
		UserID:    a.UserID,
		ServiceID: a.ServiceID,
		Date:      a.Date,
		Time:      a.Time,
		Status:    string(a.Status),
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

type createAppointmentResponse struct {
	Message     string              `json:"message"`
	Appointment appointmentResponse `json:"appointment"`
}

type ownerResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type serviceSummaryResponse struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// appointmentDetailResponse is the joined single-appointment view: the owner
// and service references come expanded.
type appointmentDetailResponse struct {
	appointmentResponse
	User    ownerResponse          `json:"user"`
	Service serviceSummaryResponse `json:"service"`
}

func toAppointmentDetailResponse(d *ports.AppointmentDetail) appointmentDetailResponse {
	return appointmentDetailResponse{
		appointmentResponse: toAppointmentResponse(&d.Appointment),
		User:                ownerResponse{Name: d.User.Name, Email: d.User.Email},
		Service:             serviceSummaryResponse{Name: d.Service.Name, Price: d.Service.Price},
	}
}

type paginationResponse struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type listAppointmentsResponse struct {
	Data       []appointmentResponse `json:"data"`
	Pagination paginationResponse    `json:"pagination"`
}
