package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/views"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
)

// DashboardHandler serves the dashboard overview and the caller's notifications.
type DashboardHandler struct {
	stats         *service.DashboardService
	notifications *service.NotificationService
	collections   []string
}

// NewDashboardHandler returns the overview handlers. collections are linked
// from the overview page.
func NewDashboardHandler(stats *service.DashboardService, notifications *service.NotificationService, collections []string) *DashboardHandler {
	return &DashboardHandler{stats: stats, notifications: notifications, collections: collections}
}

type revenueResponse struct {
	TotalRevenue float64 `json:"total_revenue"`
}

// Revenue handles GET /api/dashboard/revenue.
//
// @Summary      Total completed revenue
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  revenueResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/dashboard/revenue [get]
func (h *DashboardHandler) Revenue(c echo.Context) error {
	ctx, sess := requestScope(c)
	total, err := h.stats.Revenue(ctx, sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, revenueResponse{TotalRevenue: total})
}

// Stats handles GET /api/dashboard/stats.
//
// @Summary      Dashboard statistics
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.Stats
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c echo.Context) error {
	ctx, sess := requestScope(c)
	stats, err := h.stats.Stats(ctx, sess)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, stats)
}

// Notifications handles GET /api/dashboard/notifications.
//
// @Summary      The caller's latest notifications
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Notification
// @Failure      401  {object}  errorResponse
// @Router       /api/dashboard/notifications [get]
func (h *DashboardHandler) Notifications(c echo.Context) error {
	ctx, sess := requestScope(c)
	items, err := h.notifications.ListMine(ctx, sess)
	if err != nil {
		return err
	}
	if items == nil {
		items = []domain.Notification{}
	}
	return c.JSON(http.StatusOK, items)
}

// MarkRead handles POST /api/dashboard/notifications/:id/read.
//
// @Summary      Mark a notification read
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Notification id"
// @Success      200  {object}  domain.Notification
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/dashboard/notifications/{id}/read [post]
func (h *DashboardHandler) MarkRead(c echo.Context) error {
	ctx, sess := requestScope(c)
	n, err := h.notifications.MarkRead(ctx, sess, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, n)
}

// Overview handles GET /dashboard. Signed-in users who are not admins see
// the page without statistics.
func (h *DashboardHandler) Overview(c echo.Context) error {
	ctx, sess := requestScope(c)
	view := views.DashboardView{Collections: h.collections}

	stats, err := h.stats.Stats(ctx, sess)
	switch {
	case err == nil:
		view.Stats = stats
		view.Revenue = stats.Revenue
	case errors.Is(err, domain.ErrDenied):
	default:
		return err
	}
	return c.Render(http.StatusOK, "dashboard", views.PageData(c, "dashboard.title", view))
}
