package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/metrics"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/middleware"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/views"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

// Authenticator signs users up and in.
type Authenticator interface {
	SignUp(ctx context.Context, name, email, password string) (*domain.User, error)
	SignIn(ctx context.Context, email, password string) (string, *domain.Session, error)
	TTL() time.Duration
}

type AuthHandler struct {
	auth         Authenticator
	secureCookie bool
}

// NewAuthHandler returns the sign-in handlers. secureCookie marks the session
// cookie Secure and should be set outside development.
func NewAuthHandler(auth Authenticator, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

type signInRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type signInResponse struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
}

// SignIn handles POST /api/auth/signin.
//
// @Summary      Sign in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signInRequest  true  "Credentials"
// @Success      200   {object}  signInResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/auth/signin [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req signInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, sess, err := h.signIn(c, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, signInResponse{Token: token, Session: sess})
}

type signUpRequest struct {
	Name     string `json:"name"     validate:"required,min=2"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type signUpResponse struct {
	User *domain.User `json:"user"`
}

// SignUp handles POST /api/auth/signup. New accounts are always USER.
//
// @Summary      Create a customer account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signUpRequest  true  "Name, email and password"
// @Success      201   {object}  signUpResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req signUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.auth.SignUp(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		return err
	}
	metrics.SignUpsTotal.Inc()
	return c.JSON(http.StatusCreated, signUpResponse{User: user})
}

// SignOut handles POST /api/auth/signout.
//
// @Summary      Sign out
// @Tags         auth
// @Success      204
// @Router       /api/auth/signout [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	h.clearCookie(c)
	return c.NoContent(http.StatusNoContent)
}

// SignInPage handles GET /auth/signin.
func (h *AuthHandler) SignInPage(c echo.Context) error {
	view := views.SignInView{Next: safeNext(c.QueryParam("next"))}
	return c.Render(http.StatusOK, "signin", views.PageData(c, "auth.signin.title", view))
}

// SignInForm handles POST /auth/signin.
func (h *AuthHandler) SignInForm(c echo.Context) error {
	var req signInRequest
	_ = c.Bind(&req)
	next := safeNext(c.FormValue("next"))

	fail := func(code int) error {
		view := views.SignInView{Email: req.Email, Next: next, Error: "auth.error.invalid"}
		return c.Render(code, "signin", views.PageData(c, "auth.signin.title", view))
	}
	if err := c.Validate(&req); err != nil {
		return fail(http.StatusBadRequest)
	}
	if _, _, err := h.signIn(c, req); err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return fail(http.StatusUnauthorized)
		}
		return err
	}

	if next == "" {
		next = "/dashboard"
	}
	return c.Redirect(http.StatusSeeOther, next)
}

// SignOutForm handles POST /auth/signout.
func (h *AuthHandler) SignOutForm(c echo.Context) error {
	h.clearCookie(c)
	return c.Redirect(http.StatusSeeOther, "/?notice=signedout")
}

func (h *AuthHandler) signIn(c echo.Context, req signInRequest) (string, *domain.Session, error) {
	token, sess, err := h.auth.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.SignInsTotal.WithLabelValues("rejected").Inc()
		} else {
			metrics.SignInsTotal.WithLabelValues("error").Inc()
		}
		return "", nil, err
	}
	metrics.SignInsTotal.WithLabelValues("ok").Inc()

	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.auth.TTL().Seconds()),
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
	return token, sess, nil
}

func (h *AuthHandler) clearCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// safeNext keeps only same-site relative paths.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return ""
	}
	return next
}
