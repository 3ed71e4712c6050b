package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/salonbook/booking-api/internal/api/metrics"
	"github.com/salonbook/booking-api/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for scheduling operations.
type AppointmentHandler struct {
	service ports.BookingService
}

func NewAppointmentHandler(service ports.BookingService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// Create handles POST /v1/appointments.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "Appointment slot"
// @Success      201   {object}  createAppointmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/appointments [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.service.Create(c.Request().Context(), ident, ports.CreateAppointmentInput{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
	})
	if err != nil {
		return err
	}

	metrics.AppointmentsCreatedTotal.WithLabelValues(created.ServiceID).Inc()

	return c.JSON(http.StatusCreated, createAppointmentResponse{
		Message:     "Appointment created successfully",
		Appointment: toAppointmentResponse(created),
	})
}

// Get handles GET /v1/appointments/:id.
//
// @Summary      Get one appointment (admin or owner)
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  appointmentDetailResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/appointments/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	detail, err := h.service.GetByID(c.Request().Context(), ident, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toAppointmentDetailResponse(detail))
}

// Update handles PUT /v1/appointments/:id.
//
// @Summary      Update an appointment (admin or owner, partial)
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                    true  "Appointment ID"
// @Param        body  body      updateAppointmentRequest  true  "Fields to change"
// @Success      200   {object}  createAppointmentResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/appointments/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.service.Update(c.Request().Context(), ident, c.Param("id"), ports.AppointmentPatchInput{
		ServiceID: req.ServiceID,
		Date:      req.Date,
		Time:      req.Time,
		Status:    req.Status,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, createAppointmentResponse{
		Message:     "Appointment updated successfully",
		Appointment: toAppointmentResponse(updated),
	})
}

// List handles GET /v1/appointments (admin only).
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Rows per page"
// @Success      200    {object}  listAppointmentsResponse
// @Router       /v1/appointments [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	result, err := h.service.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	data := make([]appointmentResponse, 0, len(result.Items))
	for _, a := range result.Items {
		data = append(data, toAppointmentResponse(a))
	}

	return c.JSON(http.StatusOK, listAppointmentsResponse{
		Data: data,
		Pagination: paginationResponse{
			Total:      result.Total,
			Page:       result.Page,
			Limit:      result.Limit,
			TotalPages: totalPages(result.Total, result.Limit),
		},
	})
}

// Delete handles DELETE /v1/appointments/:id.
//
// @Summary      Delete an appointment (admin or owner)
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Appointment ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/appointments/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	ident, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), ident, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Appointment deleted successfully"})
}

// queryInt parses an integer query parameter, falling back to def on absence
// or garbage. Range clamping is the service's concern.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func totalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := total / int64(limit)
	if total%int64(limit) != 0 {
		pages++
	}
	return int(pages)
}
