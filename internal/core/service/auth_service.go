package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

// SessionClaims is the JWT payload carried by the session cookie or bearer token.
type SessionClaims struct {
	Role  domain.Role `json:"role"`
	Email string      `json:"email,omitempty"`
	Name  string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// AuthService signs users in and resolves session tokens.
type AuthService struct {
	users     ports.UserRepository
	jwtSecret []byte
	tokenTTL  time.Duration
	log       zerolog.Logger
}

func NewAuthService(users ports.UserRepository, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{users: users, jwtSecret: []byte(jwtSecret), tokenTTL: tokenTTL, log: log}
}

// TTL is the lifetime of issued tokens.
func (s *AuthService) TTL() time.Duration { return s.tokenTTL }

// SignIn checks credentials and issues a session token. Unknown emails and
// wrong passwords both return domain.ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (string, *domain.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.findByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	sess := user.Session()
	token, err := s.issue(sess)
	if err != nil {
		return "", nil, err
	}
	s.log.Info().Str("user_id", sess.UserID).Str("role", string(sess.Role)).Msg("user signed in")
	return token, sess, nil
}

// ParseToken validates token and returns the session it carries.
func (s *AuthService) ParseToken(token string) (*domain.Session, error) {
	claims := &SessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.jwtSecret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return nil, domain.ErrDenied
	}
	return &domain.Session{
		UserID: claims.Subject,
		Email:  claims.Email,
		Name:   claims.Name,
		Role:   claims.Role.SessionRole(),
	}, nil
}

// RegisterInput describes a user created outside the dashboard (CLI bootstrap).
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// Register creates a user. It is used by trusted callers only; dashboard
// user management goes through the users CatalogService with PrepareUser.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	if in.Role == "" {
		in.Role = domain.RoleUser
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &domain.User{
		Record:       domain.Record{ID: ulid.Make().String(), CreatedAt: now, UpdatedAt: now},
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	}
	if err := PrepareUser(user, nil); err != nil {
		return nil, err
	}

	if _, err := s.findByEmail(ctx, user.Email); err == nil {
		return nil, fmt.Errorf("email %s: %w", user.Email, domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}
	return user, nil
}

// SignUp registers a customer account from the public sign-up form. The role
// is always USER whatever the caller asks for.
func (s *AuthService) SignUp(ctx context.Context, name, email, password string) (*domain.User, error) {
	user, err := s.Register(ctx, RegisterInput{Name: name, Email: email, Password: password, Role: domain.RoleUser})
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user signed up")
	return user, nil
}

// HashPassword bcrypt-hashes a plaintext password.
func HashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", fmt.Errorf("password must be at least 8 characters: %w", domain.ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// PrepareUser normalises a user before it is written. An empty password hash
// on update keeps the stored one.
func PrepareUser(user, existing *domain.User) error {
	user.Email = normalizeEmail(user.Email)
	if user.Email == "" {
		return fmt.Errorf("email is required: %w", domain.ErrInvalidInput)
	}
	if user.Role == "" {
		user.Role = domain.RoleUser
	}
	if !user.Role.Valid() {
		return fmt.Errorf("role %q: %w", user.Role, domain.ErrInvalidInput)
	}
	if user.PasswordHash == "" {
		if existing == nil {
			return fmt.Errorf("password is required: %w", domain.ErrInvalidInput)
		}
		user.PasswordHash = existing.PasswordHash
	}
	return nil
}

func (s *AuthService) issue(sess *domain.Session) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Role:  sess.Role,
		Email: sess.Email,
		Name:  sess.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sess.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(s.jwtSecret)
}

func (s *AuthService) findByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := s.users.FindMany(ctx, ports.Query{Filter: ports.Filter{"email": email}, Limit: 1})
	if err != nil {
		s.log.Error().Err(err).Msg("failed to look up user")
		return nil, fmt.Errorf("find user: %w", err)
	}
	if len(users) == 0 {
		return nil, domain.ErrNotFound
	}
	return &users[0], nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
