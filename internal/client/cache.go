package client

import (
	"context"
	"sync"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// Cache mirrors one list view (approved or pending) of the server. The local
// list only changes after the server acknowledges a call, and only by
// splicing in the record the server returned. A failed call leaves it as it was.
type Cache struct {
	client    *Client
	view      models.Status
	snapshots SnapshotStore

	mu       sync.RWMutex
	partners []models.Partner
	stale    bool
}

// NewCache creates an empty cache for view. snapshots may be nil.
func NewCache(client *Client, view models.Status, snapshots SnapshotStore) (*Cache, error) {
	if view != models.StatusApproved && view != models.StatusPending {
		return nil, errs.Validation("view", "must be approved or pending")
	}
	return &Cache{
		client:    client,
		view:      view,
		snapshots: snapshots,
		partners:  []models.Partner{},
	}, nil
}

// View returns the mirrored status
func (c *Cache) View() models.Status {
	return c.view
}

// Partners returns a copy of the local list, newest first
func (c *Cache) Partners() []models.Partner {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clonePartners(c.partners)
}

// Stale reports whether the list came from a local snapshot rather than the server
func (c *Cache) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

// Reload replaces the local list with a fresh server result. When the server
// is unreachable and nothing is loaded yet, the last snapshot is shown and
// marked stale; the transport error is still returned.
func (c *Cache) Reload(ctx context.Context, token string) error {
	var (
		partners []models.Partner
		err      error
	)
	if c.view == models.StatusPending {
		partners, err = c.client.ListPending(ctx, token)
	} else {
		partners, err = c.client.ListPartners(ctx, token, models.StatusApproved)
	}
	if err != nil {
		if IsTransport(err) {
			c.fallbackToSnapshot(ctx)
		}
		return err
	}
	if partners == nil {
		partners = []models.Partner{}
	}

	c.mu.Lock()
	c.partners = clonePartners(partners)
	c.stale = false
	snapshot := clonePartners(c.partners)
	c.mu.Unlock()

	c.saveSnapshot(ctx, snapshot)
	return nil
}

// Get fetches one partner and refreshes it in the local list
func (c *Cache) Get(ctx context.Context, id string) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.GetPartner(ctx, id)
	})
}

// Create creates an approved partner
func (c *Cache) Create(ctx context.Context, token string, req models.PartnerAdminCreateRequest) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.CreatePartner(ctx, token, req)
	})
}

// Register submits a public registration
func (c *Cache) Register(ctx context.Context, req models.PartnerCreateRequest) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.Register(ctx, req)
	})
}

// Update applies a partial field update
func (c *Cache) Update(ctx context.Context, token, id string, req models.PartnerUpdateRequest) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.UpdatePartner(ctx, token, id, req)
	})
}

// ToggleFavorite flips isFavorite
func (c *Cache) ToggleFavorite(ctx context.Context, token, id string) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.ToggleFavorite(ctx, token, id)
	})
}

// Approve approves a partner
func (c *Cache) Approve(ctx context.Context, token, id string) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.Approve(ctx, token, id)
	})
}

// Reject rejects a partner
func (c *Cache) Reject(ctx context.Context, token, id string) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.Reject(ctx, token, id)
	})
}

// UpdateRating sets the rating
func (c *Cache) UpdateRating(ctx context.Context, token, id string, rating int) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.UpdateRating(ctx, token, id, rating)
	})
}

// AddGift appends a gift
func (c *Cache) AddGift(ctx context.Context, token, id string, gift models.Gift) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.AddGift(ctx, token, id, gift)
	})
}

// AddMemory appends a memory
func (c *Cache) AddMemory(ctx context.Context, token, id string, memory models.Memory) (models.Partner, error) {
	return c.apply(ctx, func() (models.Partner, error) {
		return c.client.AddMemory(ctx, token, id, memory)
	})
}

// Delete removes a partner on the server, then locally
func (c *Cache) Delete(ctx context.Context, token, id string) error {
	if err := c.client.DeletePartner(ctx, token, id); err != nil {
		return err
	}

	c.mu.Lock()
	c.partners = removeByID(c.partners, id)
	snapshot := clonePartners(c.partners)
	c.mu.Unlock()

	c.saveSnapshot(ctx, snapshot)
	return nil
}

// apply awaits call without holding the lock, then reconciles its result
func (c *Cache) apply(ctx context.Context, call func() (models.Partner, error)) (models.Partner, error) {
	p, err := call()
	if err != nil {
		return models.Partner{}, err
	}

	c.mu.Lock()
	c.partners = c.reconcile(c.partners, p)
	snapshot := clonePartners(c.partners)
	c.mu.Unlock()

	c.saveSnapshot(ctx, snapshot)
	return p, nil
}

// reconcile splices p into list: replaced by id, inserted in createdAt-desc
// order, or removed when its status no longer matches the view.
func (c *Cache) reconcile(list []models.Partner, p models.Partner) []models.Partner {
	if p.Status != c.view {
		return removeByID(list, p.ID)
	}

	for i := range list {
		if list[i].ID == p.ID {
			list[i] = p.Clone()
			return list
		}
	}

	// new records go ahead of older ones and of equal-timestamp ones
	pos := len(list)
	for i := range list {
		if !list[i].CreatedAt.After(p.CreatedAt) {
			pos = i
			break
		}
	}
	list = append(list, models.Partner{})
	copy(list[pos+1:], list[pos:])
	list[pos] = p.Clone()
	return list
}

func (c *Cache) fallbackToSnapshot(ctx context.Context) {
	if c.snapshots == nil {
		return
	}

	c.mu.RLock()
	empty := len(c.partners) == 0
	c.mu.RUnlock()
	if !empty {
		return
	}

	snapshot, err := c.snapshots.Load(ctx, c.view)
	if err != nil {
		log.Warn().Err(err).Str("view", string(c.view)).Msg("Failed to load partner snapshot")
		return
	}
	if len(snapshot) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.partners) == 0 {
		c.partners = snapshot
		c.stale = true
		log.Warn().Str("view", string(c.view)).Int("count", len(snapshot)).Msg("Showing stale partner snapshot")
	}
}

func (c *Cache) saveSnapshot(ctx context.Context, partners []models.Partner) {
	if c.snapshots == nil {
		return
	}
	if err := c.snapshots.Save(ctx, c.view, partners); err != nil {
		log.Warn().Err(err).Str("view", string(c.view)).Msg("Failed to save partner snapshot")
	}
}

func removeByID(list []models.Partner, id string) []models.Partner {
	for i := range list {
		if list[i].ID == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func clonePartners(in []models.Partner) []models.Partner {
	out := make([]models.Partner, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}
