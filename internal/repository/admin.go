package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository handles database operations for admin accounts
type AdminRepository struct {
	db *pgxpool.Pool
}

// NewAdminRepository creates a new admin repository
func NewAdminRepository(db *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create creates a new admin
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	query := `
		INSERT INTO admins (id, username, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.db.Exec(ctx, query, admin.ID, admin.Username, admin.PasswordHash, admin.Role, admin.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("admin %q already exists: %w", admin.Username, errs.ErrConflict)
		}
		return errs.Transport("failed to create admin", err)
	}
	return nil
}

// CreateFirst inserts admin only while the table is empty. The table lock
// serialises concurrent callers so at most one of them succeeds; the rest
// get errs.ErrConflict.
func (r *AdminRepository) CreateFirst(ctx context.Context, admin *models.Admin) error {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `LOCK TABLE admins IN EXCLUSIVE MODE`); err != nil {
			return errs.Transport("failed to lock admins", err)
		}

		query := `
			INSERT INTO admins (id, username, password_hash, role, created_at)
			SELECT $1, $2, $3, $4, $5
			WHERE NOT EXISTS (SELECT 1 FROM admins)
		`
		result, err := tx.Exec(ctx, query, admin.ID, admin.Username, admin.PasswordHash, admin.Role, admin.CreatedAt)
		if err != nil {
			return errs.Transport("failed to create admin", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("admin already exists: %w", errs.ErrConflict)
		}
		return nil
	})
	if err != nil && !errors.Is(err, errs.ErrConflict) && !errors.Is(err, errs.ErrTransport) {
		return errs.Transport("failed to create admin", err)
	}
	return err
}

// GetByUsername retrieves an admin by username
func (r *AdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	query := `
		SELECT id, username, password_hash, role, created_at
		FROM admins
		WHERE username = $1
	`
	var admin models.Admin
	err := r.db.QueryRow(ctx, query, username).Scan(
		&admin.ID, &admin.Username, &admin.PasswordHash, &admin.Role, &admin.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, errs.Transport("failed to get admin", err)
	}
	return &admin, nil
}

// Count returns the number of admin accounts
func (r *AdminRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, errs.Transport("failed to count admins", err)
	}
	return n, nil
}

// MemoryAdminRepository keeps admin accounts in process
type MemoryAdminRepository struct {
	mu         sync.RWMutex
	byUsername map[string]models.Admin
}

// NewMemoryAdminRepository creates an empty in-memory admin store
func NewMemoryAdminRepository() *MemoryAdminRepository {
	return &MemoryAdminRepository{byUsername: make(map[string]models.Admin)}
}

func (r *MemoryAdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[admin.Username]; ok {
		return fmt.Errorf("admin %q already exists: %w", admin.Username, errs.ErrConflict)
	}
	r.byUsername[admin.Username] = *admin
	return nil
}

// CreateFirst inserts admin only if the store is empty
func (r *MemoryAdminRepository) CreateFirst(ctx context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.byUsername) > 0 {
		return fmt.Errorf("admin already exists: %w", errs.ErrConflict)
	}
	r.byUsername[admin.Username] = *admin
	return nil
}

func (r *MemoryAdminRepository) GetByUsername(ctx context.Context, username string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.byUsername[username]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return &admin, nil
}

func (r *MemoryAdminRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUsername), nil
}
