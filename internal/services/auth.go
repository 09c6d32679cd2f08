package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/metrics"
	"love-manager-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const (
	roleAdmin         = "admin"
	minPasswordLength = 6
)

// AdminStore persists operator accounts
type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	// CreateFirst inserts admin only while no admin exists, atomically.
	CreateFirst(ctx context.Context, admin *models.Admin) error
	GetByUsername(ctx context.Context, username string) (*models.Admin, error)
	Count(ctx context.Context) (int, error)
}

// RevocationList remembers logged-out token ids until they expire
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// LoginResult is returned by a successful login
type LoginResult struct {
	Token    string
	Admin    *models.Admin
	Identity *models.Identity
}

// AuthService handles the admin credential check and identity tokens
type AuthService struct {
	admins    AdminStore
	revoked   RevocationList
	jwtSecret string
	ttl       time.Duration
	metrics   *metrics.Metrics
	now       func() time.Time
}

// NewAuthService creates a new auth service
func NewAuthService(admins AdminStore, revoked RevocationList, jwtSecret string, ttl time.Duration, m *metrics.Metrics) *AuthService {
	return &AuthService{
		admins:    admins,
		revoked:   revoked,
		jwtSecret: jwtSecret,
		ttl:       ttl,
		metrics:   m,
		now:       time.Now,
	}
}

// WithClock overrides the time source for token issue and validation
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Login checks the credentials and issues a token. Unknown users and wrong
// passwords both fail with errs.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	admin, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.metrics.IncrementLogin("failure")
			return nil, fmt.Errorf("invalid credentials: %w", errs.ErrUnauthorized)
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		s.metrics.IncrementLogin("failure")
		return nil, fmt.Errorf("invalid credentials: %w", errs.ErrUnauthorized)
	}

	token, identity, err := s.GenerateJWT(admin)
	if err != nil {
		return nil, err
	}
	s.metrics.IncrementLogin("success")

	return &LoginResult{Token: token, Admin: admin, Identity: identity}, nil
}

// GenerateJWT generates a JWT token for an admin
func (s *AuthService) GenerateJWT(admin *models.Admin) (string, *models.Identity, error) {
	now := s.now()
	identity := &models.Identity{
		AdminID:   admin.ID,
		Username:  admin.Username,
		Role:      admin.Role,
		TokenID:   uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
	}

	claims := jwt.MapClaims{
		"admin_id": identity.AdminID,
		"username": identity.Username,
		"role":     identity.Role,
		"jti":      identity.TokenID,
		"exp":      identity.ExpiresAt.Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, identity, nil
}

// ValidateJWT validates a JWT token and returns the identity it carries.
// Malformed, expired and revoked tokens fail with errs.ErrUnauthorized.
func (s *AuthService) ValidateJWT(ctx context.Context, tokenString string) (*models.Identity, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w: %w", errs.ErrUnauthorized, err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", errs.ErrUnauthorized)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims: %w", errs.ErrUnauthorized)
	}

	adminID, _ := claims["admin_id"].(string)
	if adminID == "" {
		return nil, fmt.Errorf("admin_id not found in token: %w", errs.ErrUnauthorized)
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)
	jti, _ := claims["jti"].(string)

	identity := &models.Identity{
		AdminID:  adminID,
		Username: username,
		Role:     role,
		TokenID:  jti,
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		identity.ExpiresAt = exp.Time
	}

	revoked, err := s.revoked.IsRevoked(ctx, jti)
	if err != nil {
		return nil, fmt.Errorf("failed to check revocation: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("token revoked: %w", errs.ErrUnauthorized)
	}

	return identity, nil
}

// Logout revokes the identity's token until it would have expired
func (s *AuthService) Logout(ctx context.Context, identity *models.Identity) error {
	if err := requireIdentity(identity); err != nil {
		return err
	}
	ttl := identity.ExpiresAt.Sub(s.now())
	if err := s.revoked.Revoke(ctx, identity.TokenID, ttl); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	log.Info().Str("admin", identity.Username).Msg("Admin logged out")
	return nil
}

// CreateAdmin creates the first admin account. Once any admin exists it
// fails with errs.ErrConflict.
func (s *AuthService) CreateAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	count, err := s.admins.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("admin already exists: %w", errs.ErrConflict)
	}

	admin, err := s.newAdmin(username, password)
	if err != nil {
		return nil, err
	}
	if err := s.admins.CreateFirst(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// EnsureAdmin creates the bootstrap account when it does not exist yet
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		return nil
	}
	_, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return fmt.Errorf("failed to look up bootstrap admin: %w", err)
	}

	admin, err := s.createAdmin(ctx, username, password)
	if err != nil {
		return err
	}
	log.Info().Str("admin", admin.Username).Msg("Bootstrap admin created")
	return nil
}

func (s *AuthService) createAdmin(ctx context.Context, username, password string) (*models.Admin, error) {
	admin, err := s.newAdmin(username, password)
	if err != nil {
		return nil, err
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// newAdmin validates the credentials and hashes the password
func (s *AuthService) newAdmin(username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, errs.Validation("username", "is required")
	}
	if len(password) < minPasswordLength {
		return nil, errs.Validation("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &models.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         roleAdmin,
		CreatedAt:    s.now(),
	}
	return admin, nil
}
