package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

const (
	// SessionKey is the echo.Context key holding the resolved *domain.Session.
	SessionKey = "session"
	// SessionCookie carries the session token for browser requests.
	SessionCookie = "session"
)

// TokenParser resolves a session token.
type TokenParser interface {
	ParseToken(token string) (*domain.Session, error)
}

// Session resolves the caller's session from the session cookie or a Bearer
// token and stores it under SessionKey. It never rejects a request: an
// absent or invalid token leaves the caller anonymous.
func Session(parser TokenParser) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token := requestToken(c.Request()); token != "" {
				if s, err := parser.ParseToken(token); err == nil {
					c.Set(SessionKey, s)
				}
			}
			return next(c)
		}
	}
}

// SessionFrom returns the session stored by Session, or nil.
func SessionFrom(c echo.Context) *domain.Session {
	s, _ := c.Get(SessionKey).(*domain.Session)
	return s
}

// SignInLocation is the sign-in URL that returns to r after signing in.
// Only GET requests can be resumed.
func SignInLocation(signInPath string, r *http.Request) string {
	if r.Method != http.MethodGet {
		return signInPath
	}
	return signInPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
}

// requestToken prefers an Authorization: Bearer header over the cookie.
func requestToken(r *http.Request) string {
	if h := r.Header.Get(echo.HeaderAuthorization); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	if ck, err := r.Cookie(SessionCookie); err == nil {
		return ck.Value
	}
	return ""
}
