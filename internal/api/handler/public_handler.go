package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/metrics"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/views"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/i18n"
)

// PublicCatalog is what the public site reads.
type PublicCatalog struct {
	Destinations *service.CatalogService[domain.Destination, *domain.Destination]
	Packages     *service.CatalogService[domain.Package, *domain.Package]
	Promotions   *service.CatalogService[domain.Promotion, *domain.Promotion]
	Content      *service.ContentService
}

// PublicHandler serves the localized public site.
type PublicHandler struct {
	catalog PublicCatalog
	locales *i18n.Catalog
	now     func() time.Time
}

func NewPublicHandler(catalog PublicCatalog, locales *i18n.Catalog) *PublicHandler {
	return &PublicHandler{catalog: catalog, locales: locales, now: time.Now}
}

// Locale validates the :locale path parameter and stores it for the views.
func (h *PublicHandler) Locale(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		locale := c.Param("locale")
		if !h.locales.Supported(locale) {
			return fmt.Errorf("locale %q: %w", locale, domain.ErrNotFound)
		}
		c.Set(views.LocaleKey, locale)
		return next(c)
	}
}

// Root handles GET / by sending the visitor to the default locale.
func (h *PublicHandler) Root(c echo.Context) error {
	target := "/" + h.locales.Default()
	if notice := c.QueryParam("notice"); notice != "" {
		target += "?notice=" + url.QueryEscape(notice)
	}
	return c.Redirect(http.StatusFound, target)
}

// Home handles GET /:locale.
func (h *PublicHandler) Home(c echo.Context) error {
	ctx := c.Request().Context()
	byOrder := ports.Query{Sort: &ports.Sort{Field: "order"}}

	destinations, err := h.catalog.Destinations.ListPublic(ctx, byOrder)
	if err != nil {
		return err
	}
	packages, err := h.catalog.Packages.ListPublic(ctx, byOrder)
	if err != nil {
		return err
	}
	promotions, err := h.catalog.Promotions.ListPublic(ctx, ports.Query{})
	if err != nil {
		return err
	}

	view := views.HomeView{Destinations: destinations, Packages: packages, Locales: h.locales.Locales()}
	now := h.now()
	for _, p := range promotions {
		if p.Running(now) {
			view.Promotions = append(view.Promotions, p)
		}
	}
	return c.Render(http.StatusOK, "home", views.PageData(c, "home.title", view))
}

// Page handles GET /:locale/pages/:slug.
func (h *PublicHandler) Page(c echo.Context) error {
	page, err := h.catalog.Content.RenderPage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	if page.Dropped > 0 {
		metrics.BlocksDroppedTotal.Add(float64(page.Dropped))
	}

	view := views.PublicPageView{Page: page.Page}
	for _, b := range page.Blocks {
		view.Blocks = append(view.Blocks, b.Node)
	}
	data := views.PageData(c, "site.name", view)
	data.Title = page.Page.Title
	return c.Render(http.StatusOK, "page", data)
}

// Destination handles GET /:locale/destinations/:slug.
func (h *PublicHandler) Destination(c echo.Context) error {
	d, err := h.catalog.Destinations.GetPublic(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	view := views.DetailView{
		Name:        d.Name,
		Description: d.Description,
		ImageURL:    d.ImageURL,
		Facts:       []views.Fact{{Label: "field.country", Value: d.Country}},
	}
	data := views.PageData(c, "home.destinations", view)
	data.Title = d.Name
	return c.Render(http.StatusOK, "detail", data)
}

// Package handles GET /:locale/packages/:slug.
func (h *PublicHandler) Package(c echo.Context) error {
	p, err := h.catalog.Packages.GetPublic(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	view := views.DetailView{
		Name:        p.Name,
		Description: p.Description,
		Facts: []views.Fact{
			{Label: "field.price", Value: strconv.FormatFloat(p.Price, 'f', 2, 64)},
			{Label: "field.duration_days", Value: strconv.Itoa(p.DurationDays)},
		},
		Items: p.Includes,
	}
	data := views.PageData(c, "home.packages", view)
	data.Title = p.Name
	return c.Render(http.StatusOK, "detail", data)
}
