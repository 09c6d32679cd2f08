package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const partnerColumns = `id, name, nickname, avatar, date_of_birth, anniversary_date,
	hobbies, favorite_things, notes, phone_number, address, rating, is_favorite,
	gifts, memories, status, created_at, updated_at`

// PartnerRepository handles database operations for partners. Each method is
// a single statement, so appends and field updates on one row are atomic.
type PartnerRepository struct {
	db  *pgxpool.Pool
	now func() time.Time
}

// NewPartnerRepository creates a new partner repository
func NewPartnerRepository(db *pgxpool.Pool) *PartnerRepository {
	return &PartnerRepository{db: db, now: time.Now}
}

// Insert creates a new partner
func (r *PartnerRepository) Insert(ctx context.Context, partner models.Partner) (models.Partner, error) {
	if err := partner.Validate(); err != nil {
		return models.Partner{}, err
	}

	p := partner.Clone()
	p.ID = uuid.NewString()
	now := r.now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	hobbies, favorites, gifts, memories, err := encodeCollections(p)
	if err != nil {
		return models.Partner{}, err
	}

	query := `
		INSERT INTO partners (id, name, nickname, avatar, date_of_birth, anniversary_date,
			hobbies, favorite_things, notes, phone_number, address, rating, is_favorite,
			gifts, memories, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9, $10, $11, $12, $13,
			$14::jsonb, $15::jsonb, $16, $17, $18)
		RETURNING ` + partnerColumns
	row := r.db.QueryRow(ctx, query,
		p.ID, p.Name, p.Nickname, p.Avatar, p.DateOfBirth, p.AnniversaryDate,
		hobbies, favorites, p.Notes, p.PhoneNumber, p.Address, p.Rating, p.IsFavorite,
		gifts, memories, string(p.Status), p.CreatedAt, p.UpdatedAt,
	)
	created, err := scanPartner(row)
	if err != nil {
		return models.Partner{}, wrapErr("failed to create partner", err)
	}
	return created, nil
}

// FindByID retrieves a partner by ID
func (r *PartnerRepository) FindByID(ctx context.Context, id string) (models.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE id = $1`
	p, err := scanPartner(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return models.Partner{}, wrapErr("failed to get partner", err)
	}
	return p, nil
}

// FindByStatus retrieves partners with a status, newest first
func (r *PartnerRepository) FindByStatus(ctx context.Context, status models.Status) ([]models.Partner, error) {
	query := `
		SELECT ` + partnerColumns + `
		FROM partners
		WHERE status = $1
		ORDER BY created_at DESC, seq DESC
	`
	rows, err := r.db.Query(ctx, query, string(status))
	if err != nil {
		return nil, wrapErr("failed to list partners", err)
	}
	defer rows.Close()

	partners := make([]models.Partner, 0)
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		partners = append(partners, p)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("error iterating partners", err)
	}

	return partners, nil
}

// Update writes only the fields present in patch
func (r *PartnerRepository) Update(ctx context.Context, id string, patch models.PartnerPatch) (models.Partner, error) {
	if err := patch.Validate(); err != nil {
		return models.Partner{}, err
	}

	set := newSetBuilder()
	u := patch.PartnerUpdateRequest
	if u.Name != nil {
		set.add("name", strings.TrimSpace(*u.Name))
	}
	if u.Nickname != nil {
		set.add("nickname", *u.Nickname)
	}
	if u.Avatar != nil {
		set.add("avatar", *u.Avatar)
	}
	if u.DateOfBirth != nil {
		set.add("date_of_birth", *u.DateOfBirth)
	}
	if u.AnniversaryDate != nil {
		set.add("anniversary_date", strings.TrimSpace(*u.AnniversaryDate))
	}
	if u.Hobbies != nil {
		if err := set.addJSON("hobbies", nonNilStrings(*u.Hobbies)); err != nil {
			return models.Partner{}, err
		}
	}
	if u.FavoriteThings != nil {
		if err := set.addJSON("favorite_things", nonNilStrings(*u.FavoriteThings)); err != nil {
			return models.Partner{}, err
		}
	}
	if u.Notes != nil {
		set.add("notes", *u.Notes)
	}
	if u.PhoneNumber != nil {
		set.add("phone_number", *u.PhoneNumber)
	}
	if u.Address != nil {
		set.add("address", *u.Address)
	}
	if u.Rating != nil {
		set.add("rating", *u.Rating)
	}
	if u.IsFavorite != nil {
		set.add("is_favorite", *u.IsFavorite)
	}
	if patch.Status != nil {
		set.add("status", string(*patch.Status))
	}
	set.add("updated_at", r.now().UTC())

	query := fmt.Sprintf(`UPDATE partners SET %s WHERE id = $%d RETURNING %s`,
		set.clause(), len(set.args)+1, partnerColumns)
	args := append(set.args, id)

	p, err := scanPartner(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.Partner{}, wrapErr("failed to update partner", err)
	}
	return p, nil
}

// ToggleFavorite flips is_favorite in place
func (r *PartnerRepository) ToggleFavorite(ctx context.Context, id string) (models.Partner, error) {
	query := `UPDATE partners SET is_favorite = NOT is_favorite, updated_at = $2 WHERE id = $1 RETURNING ` + partnerColumns
	p, err := scanPartner(r.db.QueryRow(ctx, query, id, r.now().UTC()))
	if err != nil {
		return models.Partner{}, wrapErr("failed to toggle favorite", err)
	}
	return p, nil
}

// AppendGift concatenates one gift onto the gifts array
func (r *PartnerRepository) AppendGift(ctx context.Context, id string, gift models.Gift) (models.Partner, error) {
	if err := gift.Validate(); err != nil {
		return models.Partner{}, err
	}
	return r.appendJSON(ctx, "gifts", id, gift)
}

// AppendMemory concatenates one memory onto the memories array
func (r *PartnerRepository) AppendMemory(ctx context.Context, id string, memory models.Memory) (models.Partner, error) {
	if err := memory.Validate(); err != nil {
		return models.Partner{}, err
	}
	return r.appendJSON(ctx, "memories", id, memory)
}

// Delete deletes a partner by ID
func (r *PartnerRepository) Delete(ctx context.Context, id string) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM partners WHERE id = $1`, id)
	if err != nil {
		return false, wrapErr("failed to delete partner", err)
	}
	return result.RowsAffected() > 0, nil
}

// Ping checks the database connection
func (r *PartnerRepository) Ping(ctx context.Context) error {
	if err := r.db.Ping(ctx); err != nil {
		return errs.Transport("failed to ping database", err)
	}
	return nil
}

func (r *PartnerRepository) appendJSON(ctx context.Context, column, id string, item any) (models.Partner, error) {
	// wrapped in an array so || appends one element instead of merging objects
	element, err := json.Marshal([]any{item})
	if err != nil {
		return models.Partner{}, fmt.Errorf("failed to encode %s: %w", column, err)
	}

	query := fmt.Sprintf(`UPDATE partners SET %[1]s = %[1]s || $2::jsonb, updated_at = $3 WHERE id = $1 RETURNING %[2]s`,
		column, partnerColumns)
	p, err := scanPartner(r.db.QueryRow(ctx, query, id, element, r.now().UTC()))
	if err != nil {
		return models.Partner{}, wrapErr("failed to append "+column, err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPartner(row rowScanner) (models.Partner, error) {
	var (
		p                                    models.Partner
		status                               string
		hobbies, favorites, gifts, memories []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Nickname, &p.Avatar, &p.DateOfBirth, &p.AnniversaryDate,
		&hobbies, &favorites, &p.Notes, &p.PhoneNumber, &p.Address, &p.Rating, &p.IsFavorite,
		&gifts, &memories, &status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return models.Partner{}, err
	}
	p.Status = models.Status(status)

	p.Hobbies, p.FavoriteThings = []string{}, []string{}
	p.Gifts, p.Memories = []models.Gift{}, []models.Memory{}
	for _, field := range []struct {
		raw  []byte
		dest any
	}{
		{hobbies, &p.Hobbies},
		{favorites, &p.FavoriteThings},
		{gifts, &p.Gifts},
		{memories, &p.Memories},
	} {
		if len(field.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(field.raw, field.dest); err != nil {
			return models.Partner{}, fmt.Errorf("failed to decode partner collections: %w", err)
		}
	}
	return p, nil
}

func encodeCollections(p models.Partner) (hobbies, favorites, gifts, memories []byte, err error) {
	if hobbies, err = json.Marshal(nonNilStrings(p.Hobbies)); err != nil {
		return
	}
	if favorites, err = json.Marshal(nonNilStrings(p.FavoriteThings)); err != nil {
		return
	}
	if p.Gifts == nil {
		p.Gifts = []models.Gift{}
	}
	if gifts, err = json.Marshal(p.Gifts); err != nil {
		return
	}
	if p.Memories == nil {
		p.Memories = []models.Memory{}
	}
	memories, err = json.Marshal(p.Memories)
	return
}

type setBuilder struct {
	columns []string
	args    []any
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

func (b *setBuilder) add(column string, value any) {
	b.args = append(b.args, value)
	b.columns = append(b.columns, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) addJSON(column string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", column, err)
	}
	b.args = append(b.args, data)
	b.columns = append(b.columns, fmt.Sprintf("%s = $%d::jsonb", column, len(b.args)))
	return nil
}

func (b *setBuilder) clause() string {
	return strings.Join(b.columns, ", ")
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// wrapErr maps pgx failures onto the error taxonomy
func wrapErr(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return errs.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23514" {
			return errs.Validation(pgErr.ConstraintName, pgErr.Message)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return errs.Transport(op, err)
}
