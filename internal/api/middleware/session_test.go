package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

type stubParser struct {
	tokens map[string]*domain.Session
	seen   []string
}

func (p *stubParser) ParseToken(token string) (*domain.Session, error) {
	p.seen = append(p.seen, token)
	if s, ok := p.tokens[token]; ok {
		return s, nil
	}
	return nil, errors.New("bad token")
}

func newParser() *stubParser {
	return &stubParser{tokens: map[string]*domain.Session{
		"admin-token": {UserID: "u1", Role: domain.RoleAdmin},
		"user-token":  {UserID: "u2", Role: domain.RoleUser},
	}}
}

func runSession(t *testing.T, p *stubParser, req *http.Request) *domain.Session {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got *domain.Session
	called := false
	h := Session(p)(func(c echo.Context) error {
		called = true
		got = SessionFrom(c)
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	return got
}

func TestSession_BearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")

	s := runSession(t, newParser(), req)
	if s == nil || s.UserID != "u1" || s.Role != domain.RoleAdmin {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestSession_Cookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "user-token"})

	s := runSession(t, newParser(), req)
	if s == nil || s.UserID != "u2" {
		t.Fatalf("unexpected session: %+v", s)
	}
}

func TestSession_HeaderWinsOverCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "user-token"})

	p := newParser()
	s := runSession(t, p, req)
	if s == nil || s.Role != domain.RoleAdmin {
		t.Fatalf("expected bearer session, got %+v", s)
	}
	if len(p.seen) != 1 || p.seen[0] != "admin-token" {
		t.Fatalf("unexpected tokens parsed: %v", p.seen)
	}
}

func TestSession_AnonymousCases(t *testing.T) {
	cases := map[string]func(r *http.Request){
		"no credentials":       func(r *http.Request) {},
		"invalid header":       func(r *http.Request) { r.Header.Set("Authorization", "Token abc") },
		"invalid bearer token": func(r *http.Request) { r.Header.Set("Authorization", "Bearer not-a-token") },
		"invalid cookie":       func(r *http.Request) { r.AddCookie(&http.Cookie{Name: SessionCookie, Value: "nope"}) },
	}
	for name, setup := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			setup(req)
			if s := runSession(t, newParser(), req); s != nil {
				t.Fatalf("expected anonymous, got %+v", s)
			}
		})
	}
}

func TestSignInLocation(t *testing.T) {
	get := httptest.NewRequest(http.MethodGet, "/dashboard/tours?page=2", nil)
	if got := SignInLocation("/auth/signin", get); got != "/auth/signin?next=%2Fdashboard%2Ftours%3Fpage%3D2" {
		t.Fatalf("unexpected location: %s", got)
	}
	post := httptest.NewRequest(http.MethodPost, "/dashboard/tours", nil)
	if got := SignInLocation("/auth/signin", post); got != "/auth/signin" {
		t.Fatalf("unexpected location: %s", got)
	}
}
