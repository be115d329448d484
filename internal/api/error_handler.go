package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/metrics"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/middleware"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/views"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"error": "<message>"} for /api routes and an HTML page otherwise.
//   - Sends denied page requests to the sign-in page instead of a 401.
func NewHTTPErrorHandler(log zerolog.Logger, signInPath string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		api := isAPI(c)
		if errors.Is(err, domain.ErrDenied) && !api {
			metrics.AccessDeniedTotal.WithLabelValues("page").Inc()
			_ = c.Redirect(http.StatusSeeOther, middleware.SignInLocation(signInPath, c.Request()))
			return
		}

		code, msg := resolveError(err, log, c)
		if code == http.StatusUnauthorized && errors.Is(err, domain.ErrDenied) {
			metrics.AccessDeniedTotal.WithLabelValues("api").Inc()
		}

		if api || c.Echo().Renderer == nil {
			_ = c.JSON(code, errorResponse{Error: msg})
			return
		}
		if err := c.Render(code, "error", views.PageData(c, "error.title", views.ErrorPage{Code: code, Message: msg})); err != nil {
			log.Error().Err(err).Msg("render error page")
			_ = c.String(code, msg)
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrDenied):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrNotFound):
		log.Debug().Str("path", c.Request().URL.Path).Msg("not found")
		return http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidBlockType),
		errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrDuplicateSlug):
		return http.StatusConflict, "slug already in use"
	case errors.Is(err, domain.ErrDuplicateSubmission):
		return http.StatusConflict, "form already submitted"
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "record already exists"
	}

	// Store failures and anything unexpected: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Str("uri", c.Request().URL.RequestURI()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

func isAPI(c echo.Context) bool {
	p := c.Request().URL.Path
	if strings.HasPrefix(p, "/api/") || p == "/api" {
		return true
	}
	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) &&
		!strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMETextHTML)
}
