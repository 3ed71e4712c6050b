package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/salonbook/booking-api/internal/api/metrics"
	"github.com/salonbook/booking-api/internal/core/domain"
)

// errorBody is the canonical error envelope for all API errors.
type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to deterministic HTTP status codes.
//   - Keeps 401 (unauthenticated) and 403 (authenticated but not allowed)
//     strictly apart.
//   - Logs unexpected errors internally and returns only a stable generic
//     message to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err, log, c)

		switch code {
		case http.StatusUnauthorized:
			metrics.AuthFailuresTotal.WithLabelValues("unauthenticated").Inc()
		case http.StatusForbidden:
			metrics.AuthFailuresTotal.WithLabelValues("forbidden").Inc()
		}
		if errors.Is(err, domain.ErrBookingConflict) {
			metrics.BookingConflictsTotal.Inc()
		}

		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorBody) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorBody{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Field-level validation failures carry the offending field.
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, errorBody{Error: ve.Message, Field: ve.Field}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, errorBody{Error: "invalid token"}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorBody{Error: "invalid credentials"}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorBody{Error: "access denied"}
	case errors.Is(err, domain.ErrAppointmentNotFound):
		return http.StatusNotFound, errorBody{Error: "appointment not found"}
	case errors.Is(err, domain.ErrServiceNotFound):
		return http.StatusNotFound, errorBody{Error: "service not found"}
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorBody{Error: "user not found"}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, errorBody{Error: "email is already in use"}
	case errors.Is(err, domain.ErrBookingConflict):
		return http.StatusConflict, errorBody{Error: "You already have an appointment at this time"}
	case errors.Is(err, domain.ErrInvalidSchedule):
		return http.StatusBadRequest, errorBody{Error: "invalid or past date/time"}
	}

	// Unexpected error (storage, signing): log the real cause, return a
	// generic message. The cause never reaches the client.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorBody{Error: "internal server error"}
}
