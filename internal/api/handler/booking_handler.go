package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/metrics"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
)

// BookingHandler serves the booking endpoints: customer reservations and the
// admin lifecycle changes.
type BookingHandler struct {
	status   *service.BookingService
	bookings *service.CatalogService[domain.Booking, *domain.Booking]
}

func NewBookingHandler(status *service.BookingService, bookings *service.CatalogService[domain.Booking, *domain.Booking]) *BookingHandler {
	return &BookingHandler{status: status, bookings: bookings}
}

type createBookingRequest struct {
	PackageID  string  `json:"package_id"  validate:"required"`
	StartDate  string  `json:"start_date"  validate:"required"`
	EndDate    string  `json:"end_date"    validate:"required"`
	Guests     int     `json:"guests"      validate:"gte=1"`
	TotalPrice float64 `json:"total_price" validate:"gte=0"`
}

// Create handles POST /api/bookings. The booking belongs to the caller.
//
// @Summary      Book a package
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createBookingRequest  true  "Package, dates (YYYY-MM-DD or RFC 3339) and guests"
// @Success      201   {object}  domain.Booking
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/bookings [post]
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	start, err := parseDay("start_date", req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseDay("end_date", req.EndDate)
	if err != nil {
		return err
	}

	ctx, sess := requestScope(c)
	b, err := h.status.Create(ctx, sess, service.BookingRequest{
		PackageID:  req.PackageID,
		StartDate:  start,
		EndDate:    end,
		Guests:     req.Guests,
		TotalPrice: req.TotalPrice,
	})
	if err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("bookings", "create").Inc()
	return c.JSON(http.StatusCreated, b)
}

// parseDay accepts a calendar date or a full RFC 3339 timestamp.
func parseDay(field, raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s must be a date (YYYY-MM-DD): %w", field, domain.ErrInvalidInput)
	}
	return t, nil
}

type updateStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required"`
}

// UpdateStatus handles PATCH /api/bookings/:id/status.
//
// @Summary      Change a booking's status
// @Description  The booking owner gets a notification and an email when the status changes.
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Booking id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  domain.Booking
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/bookings/{id}/status [patch]
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	ctx, sess, err := adminScope(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	b, err := h.status.UpdateStatus(ctx, sess, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("bookings", "status").Inc()
	return c.JSON(http.StatusOK, b)
}

// Delete handles DELETE /api/bookings/:id.
//
// @Summary      Delete a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Booking id"
// @Success      200  {object}  deleteResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/bookings/{id} [delete]
func (h *BookingHandler) Delete(c echo.Context) error {
	ctx, sess := requestScope(c)
	res, err := h.bookings.Delete(ctx, sess, c.Param("id"))
	if err != nil {
		return err
	}
	if !res.Existed {
		metrics.DeleteMissingTotal.WithLabelValues("bookings").Inc()
		return fmt.Errorf("booking %s: %w", res.ID, domain.ErrNotFound)
	}
	metrics.RecordsMutatedTotal.WithLabelValues("bookings", "delete").Inc()
	return c.JSON(http.StatusOK, deleteResponse{ID: res.ID, Deleted: true})
}
