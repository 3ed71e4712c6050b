package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/salonbook/booking-api/internal/api/metrics"
	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
)

// ServiceHandler handles HTTP requests for the service catalog.
type ServiceHandler struct {
	catalog ports.CatalogService
}

func NewServiceHandler(catalog ports.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

type createServiceRequest struct {
	Name     string  `json:"name"     validate:"required"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
	Duration int     `json:"duration" validate:"required,gt=0"`
}

type updateServiceRequest struct {
	Name     *string  `json:"name"`
	Price    *float64 `json:"price"`
	Duration *int     `json:"duration"`
}

type serviceResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Duration int     `json:"duration"`
}

func toServiceResponse(s *domain.Service) serviceResponse {
	return serviceResponse{
		ID:       s.ID,
		Name:     s.Name,
		Price:    s.Price,
		Duration: s.DurationMinutes,
	}
}

type listServicesResponse struct {
	Data   []serviceResponse `json:"data"`
	Page   int               `json:"page"`
	Limit  int               `json:"limit"`
	Source string            `json:"source"` // "cache" or "database"
}

type serviceEnvelope struct {
	Message string          `json:"message"`
	Data    serviceResponse `json:"data"`
}

// List handles GET /v1/services.
//
// @Summary      List catalog services
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Rows per page"
// @Success      200    {object}  listServicesResponse
// @Router       /v1/services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	result, err := h.catalog.List(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	source := "database"
	if result.FromCache {
		source = "cache"
		metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.ListingCacheTotal.WithLabelValues("miss").Inc()
	}

	data := make([]serviceResponse, 0, len(result.Items))
	for _, s := range result.Items {
		data = append(data, toServiceResponse(s))
	}

	return c.JSON(http.StatusOK, listServicesResponse{
		Data:   data,
		Page:   result.Page,
		Limit:  result.Limit,
		Source: source,
	})
}

// Create handles POST /v1/services (admin only).
//
// @Summary      Create a catalog service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Service details"
// @Success      201   {object}  serviceEnvelope
// @Failure      400   {object}  errorResponse
// @Router       /v1/services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	var req createServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	created, err := h.catalog.Create(c.Request().Context(), ports.CreateServiceInput{
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.Duration,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serviceEnvelope{
		Message: "Service created successfully",
		Data:    toServiceResponse(created),
	})
}

// Update handles PUT /v1/services/:id (admin only).
//
// @Summary      Update a catalog service (partial)
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service ID"
// @Param        body  body      updateServiceRequest  true  "Fields to change"
// @Success      200   {object}  serviceEnvelope
// @Failure      404   {object}  errorResponse
// @Router       /v1/services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	var req updateServiceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	updated, err := h.catalog.Update(c.Request().Context(), c.Param("id"), ports.ServicePatchInput{
		Name:            req.Name,
		Price:           req.Price,
		DurationMinutes: req.Duration,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, serviceEnvelope{
		Message: "Service updated successfully",
		Data:    toServiceResponse(updated),
	})
}

// Delete handles DELETE /v1/services/:id (admin only).
//
// @Summary      Delete a catalog service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  errorResponse
// @Router       /v1/services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	if err := h.catalog.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Service deleted successfully"})
}
