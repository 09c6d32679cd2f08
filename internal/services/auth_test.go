package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/metrics"
	"love-manager-backend/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newTestAuthService(t *testing.T) (*AuthService, *metrics.Metrics) {
	t.Helper()
	m := metrics.New()
	svc := NewAuthService(repository.NewMemoryAdminRepository(), repository.NewMemoryRevocationList(), testSecret, time.Hour, m)
	return svc, m
}

func TestLoginIssuesValidToken(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestAuthService(t)
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "hunter22"))

	result, err := svc.Login(ctx, "admin", "hunter22")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "admin", result.Admin.Username)
	assert.Equal(t, "admin", result.Admin.Role)

	identity, err := svc.ValidateJWT(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Admin.ID, identity.AdminID)
	assert.Equal(t, result.Identity.TokenID, identity.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), identity.ExpiresAt, time.Minute)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues("success")))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, m := newTestAuthService(t)
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "hunter22"))

	_, err := svc.Login(ctx, "admin", "wrong-password")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = svc.Login(ctx, "nobody", "hunter22")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues("failure")))
}

func TestValidateJWTRejects(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "hunter22"))
	result, err := svc.Login(ctx, "admin", "hunter22")
	require.NoError(t, err)

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateJWT(ctx, "not-a-token")
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewAuthService(repository.NewMemoryAdminRepository(), repository.NewMemoryRevocationList(), "other", time.Hour, nil)
		_, err := other.ValidateJWT(ctx, result.Token)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewAuthService(repository.NewMemoryAdminRepository(), repository.NewMemoryRevocationList(), testSecret, time.Hour, nil).
			WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
		_, err := later.ValidateJWT(ctx, result.Token)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("missing admin id", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"username": "admin",
			"exp":      time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = svc.ValidateJWT(ctx, signed)
		assert.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "hunter22"))
	result, err := svc.Login(ctx, "admin", "hunter22")
	require.NoError(t, err)

	identity, err := svc.ValidateJWT(ctx, result.Token)
	require.NoError(t, err)
	require.NoError(t, svc.Logout(ctx, identity))

	_, err = svc.ValidateJWT(ctx, result.Token)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	assert.ErrorIs(t, svc.Logout(ctx, nil), errs.ErrUnauthorized)
}

func TestCreateAdminOnlyWhileNoneExists(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	_, err := svc.CreateAdmin(ctx, "", "hunter22")
	assert.ErrorIs(t, err, errs.ErrValidation)
	_, err = svc.CreateAdmin(ctx, "admin", "123")
	assert.ErrorIs(t, err, errs.ErrValidation)

	admin, err := svc.CreateAdmin(ctx, "admin", "hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", admin.PasswordHash)

	_, err = svc.CreateAdmin(ctx, "second", "hunter22")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestAuthService(t)

	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "hunter22"))
	require.NoError(t, svc.EnsureAdmin(ctx, "admin", "different"))

	_, err := svc.Login(ctx, "admin", "hunter22")
	assert.NoError(t, err)
}

func TestCreateAdminConcurrentCallersGetOneAccount(t *testing.T) {
	ctx := context.Background()
	admins := repository.NewMemoryAdminRepository()
	svc := NewAuthService(admins, repository.NewMemoryRevocationList(), testSecret, time.Hour, nil)

	const n = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		created   int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.CreateAdmin(ctx, fmt.Sprintf("admin%d", i), "password1")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, errs.ErrConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, n-1, conflicts)
	count, err := admins.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
