package handler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/middleware"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
)

// requestScope extracts what every service call needs from the request:
// its context and the optional caller session placed by middleware.Session.
func requestScope(c echo.Context) (context.Context, *domain.Session) {
	return c.Request().Context(), middleware.SessionFrom(c)
}

// adminScope is requestScope for mutating routes. A caller who is not an
// admin is denied before the request body is read.
func adminScope(c echo.Context) (context.Context, *domain.Session, error) {
	ctx, sess := requestScope(c)
	if _, err := service.Authorize(sess, domain.RoleAdmin); err != nil {
		return nil, nil, err
	}
	return ctx, sess, nil
}

// errorResponse is the JSON body the API error handler writes for every
// failed request.
type errorResponse struct {
	Error string `json:"error"`
}
