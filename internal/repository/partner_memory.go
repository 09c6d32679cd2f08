package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/models"

	"github.com/google/uuid"
)

type memoryRecord struct {
	partner models.Partner
	seq     int64
}

// MemoryPartnerRepository is an in-process partner store. Every operation
// holds the store lock for its whole read-modify-write, so concurrent writes
// to one record never lose each other's fields.
type MemoryPartnerRepository struct {
	mu   sync.RWMutex
	byID map[string]*memoryRecord
	seq  int64
	now  func() time.Time
}

// NewMemoryPartnerRepository creates an empty in-memory partner store
func NewMemoryPartnerRepository() *MemoryPartnerRepository {
	return &MemoryPartnerRepository{
		byID: make(map[string]*memoryRecord),
		now:  time.Now,
	}
}

// WithClock overrides the timestamp source
func (r *MemoryPartnerRepository) WithClock(now func() time.Time) *MemoryPartnerRepository {
	r.now = now
	return r
}

// Insert stores a new partner and assigns its identifier and timestamps
func (r *MemoryPartnerRepository) Insert(ctx context.Context, partner models.Partner) (models.Partner, error) {
	if err := partner.Validate(); err != nil {
		return models.Partner{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p := partner.Clone()
	p.ID = uuid.NewString()
	now := r.now()
	p.CreatedAt = now
	p.UpdatedAt = now

	r.seq++
	r.byID[p.ID] = &memoryRecord{partner: p, seq: r.seq}
	return p.Clone(), nil
}

// FindByID retrieves a partner by ID
func (r *MemoryPartnerRepository) FindByID(ctx context.Context, id string) (models.Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byID[id]
	if !ok {
		return models.Partner{}, errs.ErrNotFound
	}
	return rec.partner.Clone(), nil
}

// FindByStatus lists partners with status, newest first
func (r *MemoryPartnerRepository) FindByStatus(ctx context.Context, status models.Status) ([]models.Partner, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recs := make([]*memoryRecord, 0)
	for _, rec := range r.byID {
		if rec.partner.Status == status {
			recs = append(recs, rec)
		}
	}

	// seq breaks createdAt ties so repeated reads keep the same order
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if !a.partner.CreatedAt.Equal(b.partner.CreatedAt) {
			return a.partner.CreatedAt.After(b.partner.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]models.Partner, 0, len(recs))
	for _, rec := range recs {
		out = append(out, rec.partner.Clone())
	}
	return out, nil
}

// Update applies a partial update and returns the stored result
func (r *MemoryPartnerRepository) Update(ctx context.Context, id string, patch models.PartnerPatch) (models.Partner, error) {
	if err := patch.Validate(); err != nil {
		return models.Partner{}, err
	}
	return r.mutate(id, func(p *models.Partner) error {
		patch.Apply(p)
		return p.Validate()
	})
}

// ToggleFavorite flips isFavorite
func (r *MemoryPartnerRepository) ToggleFavorite(ctx context.Context, id string) (models.Partner, error) {
	return r.mutate(id, func(p *models.Partner) error {
		p.IsFavorite = !p.IsFavorite
		return nil
	})
}

// AppendGift adds one gift to the end of the partner's gifts
func (r *MemoryPartnerRepository) AppendGift(ctx context.Context, id string, gift models.Gift) (models.Partner, error) {
	if err := gift.Validate(); err != nil {
		return models.Partner{}, err
	}
	return r.mutate(id, func(p *models.Partner) error {
		p.Gifts = append(p.Gifts, gift)
		return nil
	})
}

// AppendMemory adds one memory to the end of the partner's memories
func (r *MemoryPartnerRepository) AppendMemory(ctx context.Context, id string, memory models.Memory) (models.Partner, error) {
	if err := memory.Validate(); err != nil {
		return models.Partner{}, err
	}
	return r.mutate(id, func(p *models.Partner) error {
		p.Memories = append(p.Memories, memory)
		return nil
	})
}

// Delete removes a partner; false means it did not exist
func (r *MemoryPartnerRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return false, nil
	}
	delete(r.byID, id)
	return true, nil
}

// Ping always succeeds
func (r *MemoryPartnerRepository) Ping(ctx context.Context) error {
	return nil
}

func (r *MemoryPartnerRepository) mutate(id string, fn func(p *models.Partner) error) (models.Partner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.byID[id]
	if !ok {
		return models.Partner{}, errs.ErrNotFound
	}

	p := rec.partner.Clone()
	if err := fn(&p); err != nil {
		return models.Partner{}, err
	}
	p.UpdatedAt = r.now()
	rec.partner = p
	return p.Clone(), nil
}
