package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/metrics"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
)

// RequirePage gates an HTML route. A denied caller is redirected to the
// sign-in page with a next parameter pointing back to the request.
func RequirePage(signInPath string, access service.Access) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := service.Permit(SessionFrom(c), access); err != nil {
				metrics.AccessDeniedTotal.WithLabelValues("page").Inc()
				return c.Redirect(http.StatusSeeOther, SignInLocation(signInPath, c.Request()))
			}
			return next(c)
		}
	}
}

// RequireAPI gates a JSON route. A denied caller gets 401.
func RequireAPI(access service.Access) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, err := service.Permit(SessionFrom(c), access); err != nil {
				metrics.AccessDeniedTotal.WithLabelValues("api").Inc()
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}
			return next(c)
		}
	}
}
