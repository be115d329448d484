package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/db/memory"
)

const testSecret = "test-secret"

func authFixture(t *testing.T) *AuthService {
	t.Helper()
	svc := NewAuthService(memory.New().Users, testSecret, time.Hour, zerolog.Nop())
	for _, in := range []RegisterInput{
		{Name: "Admin", Email: "Admin@Example.com ", Password: "correct-horse", Role: domain.RoleAdmin},
		{Name: "Guide", Email: "guide@example.com", Password: "correct-horse", Role: domain.RoleGuide},
	} {
		_, err := svc.Register(context.Background(), in)
		require.NoError(t, err)
	}
	return svc
}

func TestAuthService_SignInRoundTrip(t *testing.T) {
	svc := authFixture(t)

	token, sess, err := svc.SignIn(context.Background(), " admin@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, domain.RoleAdmin, sess.Role)
	require.Equal(t, "admin@example.com", sess.Email)

	parsed, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, sess, parsed)
}

func TestAuthService_NonAdminRolesBecomeUser(t *testing.T) {
	svc := authFixture(t)

	token, sess, err := svc.SignIn(context.Background(), "guide@example.com", "correct-horse")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, sess.Role)

	parsed, err := svc.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, parsed.Role)
}

func TestAuthService_SignInFailuresLookAlike(t *testing.T) {
	svc := authFixture(t)
	ctx := context.Background()

	cases := map[string][2]string{
		"wrong password": {"admin@example.com", "battery-staple"},
		"unknown email":  {"nobody@example.com", "correct-horse"},
		"empty email":    {"", "correct-horse"},
		"empty password": {"admin@example.com", ""},
	}
	for name, c := range cases {
		t.Run(name, func(t *testing.T) {
			token, sess, err := svc.SignIn(ctx, c[0], c[1])
			require.ErrorIs(t, err, domain.ErrInvalidCredentials)
			require.Empty(t, token)
			require.Nil(t, sess)
		})
	}
}

func TestAuthService_ParseTokenRejects(t *testing.T) {
	svc := authFixture(t)
	token, _, err := svc.SignIn(context.Background(), "admin@example.com", "correct-horse")
	require.NoError(t, err)

	other := NewAuthService(memory.New().Users, "another-secret", time.Hour, zerolog.Nop())
	_, err = other.ParseToken(token)
	require.ErrorIs(t, err, domain.ErrDenied)

	_, err = svc.ParseToken("not-a-token")
	require.ErrorIs(t, err, domain.ErrDenied)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{
		Role: domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ParseToken(signed)
	require.ErrorIs(t, err, domain.ErrDenied)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, SessionClaims{Role: domain.RoleAdmin})
	signed, err = noSubject.SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = svc.ParseToken(signed)
	require.ErrorIs(t, err, domain.ErrDenied)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	svc := authFixture(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Email: "admin@example.com", Password: "long-enough"})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = svc.Register(ctx, RegisterInput{Email: "new@example.com", Password: "short"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "new@example.com", Password: "long-enough", Role: "OWNER"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(ctx, RegisterInput{Email: "  ", Password: "long-enough"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_SignUpCreatesUser(t *testing.T) {
	svc := authFixture(t)
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "Omar", "omar@example.com", "long-enough")
	require.NoError(t, err)
	require.Equal(t, domain.RoleUser, u.Role)

	_, sess, err := svc.SignIn(ctx, "omar@example.com", "long-enough")
	require.NoError(t, err)
	require.Equal(t, u.ID, sess.UserID)

	_, err = svc.SignUp(ctx, "Admin", "admin@example.com", "long-enough")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestPrepareUser_KeepsHashOnUpdate(t *testing.T) {
	existing := &domain.User{Email: "a@example.com", PasswordHash: "stored-hash", Role: domain.RoleUser}
	edit := &domain.User{Email: " A@Example.com", Role: domain.RoleAdmin}

	require.NoError(t, PrepareUser(edit, existing))
	require.Equal(t, "stored-hash", edit.PasswordHash)
	require.Equal(t, "a@example.com", edit.Email)

	fresh := &domain.User{Email: "b@example.com"}
	require.ErrorIs(t, PrepareUser(fresh, nil), domain.ErrInvalidInput)
}
