package services

//go:generate mockgen -source=partner.go -destination=mocks/mock_partner_store.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/metrics"
	"love-manager-backend/internal/models"
	"love-manager-backend/internal/timeline"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PartnerStore persists partner records. Every method is atomic per record.
// Absent records yield errs.ErrNotFound, except Delete which reports false.
type PartnerStore interface {
	Insert(ctx context.Context, partner models.Partner) (models.Partner, error)
	FindByID(ctx context.Context, id string) (models.Partner, error)
	FindByStatus(ctx context.Context, status models.Status) ([]models.Partner, error)
	Update(ctx context.Context, id string, patch models.PartnerPatch) (models.Partner, error)
	ToggleFavorite(ctx context.Context, id string) (models.Partner, error)
	AppendGift(ctx context.Context, id string, gift models.Gift) (models.Partner, error)
	AppendMemory(ctx context.Context, id string, memory models.Memory) (models.Partner, error)
	Delete(ctx context.Context, id string) (bool, error)
	Ping(ctx context.Context) error
}

// PartnerService owns the approval state machine and the two create paths.
// Mutating methods take the caller's identity explicitly; nil means
// anonymous and fails with errs.ErrUnauthorized before the store is touched.
type PartnerService struct {
	store    PartnerStore
	notifier Notifier
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	now      func() time.Time
}

// NewPartnerService creates a new partner service
func NewPartnerService(store PartnerStore, notifier Notifier, m *metrics.Metrics) *PartnerService {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &PartnerService{
		store:    store,
		notifier: notifier,
		metrics:  m,
		tracer:   otel.Tracer("love-manager-backend/services"),
		now:      time.Now,
	}
}

// WithClock overrides the time source used for derived views
func (s *PartnerService) WithClock(now func() time.Time) *PartnerService {
	s.now = now
	return s
}

// Register persists a public registration. Status is always pending.
func (s *PartnerService) Register(ctx context.Context, req models.PartnerCreateRequest) (p models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.Register")
	defer func() { finishSpan(span, err) }()

	if err := req.Validate(); err != nil {
		return models.Partner{}, err
	}

	p, err = s.store.Insert(ctx, models.NewPartner(req.PartnerProfile, models.StatusPending))
	if err != nil {
		return models.Partner{}, err
	}
	span.SetAttributes(attribute.String("partner.id", p.ID))
	s.metrics.IncrementRegistered()

	log.Info().Str("partner_id", p.ID).Msg("Partner registered, awaiting approval")
	s.notifier.NotifyRegistration(ctx, p)
	return p, nil
}

// CreateApproved persists an admin-authored partner. Status is always approved.
func (s *PartnerService) CreateApproved(ctx context.Context, identity *models.Identity, req models.PartnerAdminCreateRequest) (p models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.CreateApproved")
	defer func() { finishSpan(span, err) }()

	if err := requireIdentity(identity); err != nil {
		return models.Partner{}, err
	}
	if err := req.Validate(); err != nil {
		return models.Partner{}, err
	}

	candidate := models.NewPartner(req.PartnerProfile, models.StatusApproved)
	if req.Rating != nil {
		candidate.Rating = *req.Rating
	}
	candidate.IsFavorite = req.IsFavorite
	if req.Gifts != nil {
		candidate.Gifts = append(candidate.Gifts, req.Gifts...)
	}
	if req.Memories != nil {
		candidate.Memories = append(candidate.Memories, req.Memories...)
	}

	p, err = s.store.Insert(ctx, candidate)
	if err != nil {
		return models.Partner{}, err
	}
	span.SetAttributes(attribute.String("partner.id", p.ID))
	s.metrics.IncrementCreated()

	log.Info().Str("partner_id", p.ID).Str("admin", identity.Username).Msg("Partner created")
	return p, nil
}

// Approve moves a partner to approved. Approving an approved partner is a no-op.
func (s *PartnerService) Approve(ctx context.Context, identity *models.Identity, id string) (models.Partner, error) {
	return s.transition(ctx, "partners.Approve", identity, id, models.StatusApproved)
}

// Reject moves a partner to rejected. Rejecting a rejected partner is a no-op.
func (s *PartnerService) Reject(ctx context.Context, identity *models.Identity, id string) (models.Partner, error) {
	return s.transition(ctx, "partners.Reject", identity, id, models.StatusRejected)
}

func (s *PartnerService) transition(ctx context.Context, spanName string, identity *models.Identity, id string, target models.Status) (p models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("partner.id", id)))
	defer func() { finishSpan(span, err) }()

	if err := requireIdentity(identity); err != nil {
		return models.Partner{}, err
	}

	current, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Partner{}, err
	}
	if current.Status == target {
		return current, nil
	}
	if current.Status != models.StatusPending {
		log.Warn().
			Str("partner_id", id).
			Str("from", string(current.Status)).
			Str("to", string(target)).
			Str("admin", identity.Username).
			Msg("Admin overriding terminal status")
	}

	p, err = s.store.Update(ctx, id, models.PartnerPatch{Status: &target})
	if err != nil {
		return models.Partner{}, err
	}
	s.metrics.IncrementTransition(string(target))

	log.Info().Str("partner_id", id).Str("status", string(target)).Msg("Partner status changed")
	return p, nil
}

// ListApproved returns approved partners, newest first
func (s *PartnerService) ListApproved(ctx context.Context) (partners []models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.ListApproved")
	defer func() { finishSpan(span, err) }()

	return s.store.FindByStatus(ctx, models.StatusApproved)
}

// ListPending returns partners awaiting approval, newest first
func (s *PartnerService) ListPending(ctx context.Context, identity *models.Identity) ([]models.Partner, error) {
	return s.ListByStatus(ctx, identity, models.StatusPending)
}

// ListByStatus lists partners with status. Only the approved view is public.
func (s *PartnerService) ListByStatus(ctx context.Context, identity *models.Identity, status models.Status) (partners []models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.ListByStatus", trace.WithAttributes(attribute.String("partner.status", string(status))))
	defer func() { finishSpan(span, err) }()

	if !status.Valid() {
		return nil, errs.Validation("status", "must be one of pending, approved, rejected")
	}
	if status != models.StatusApproved {
		if err := requireIdentity(identity); err != nil {
			return nil, err
		}
	}
	return s.store.FindByStatus(ctx, status)
}

// Get returns one partner
func (s *PartnerService) Get(ctx context.Context, id string) (p models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.Get", trace.WithAttributes(attribute.String("partner.id", id)))
	defer func() { finishSpan(span, err) }()

	return s.store.FindByID(ctx, id)
}

// Update applies a partial field update. Status and collections cannot be
// changed this way.
func (s *PartnerService) Update(ctx context.Context, identity *models.Identity, id string, req models.PartnerUpdateRequest) (p models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.Update", trace.WithAttributes(attribute.String("partner.id", id)))
	defer func() { finishSpan(span, err) }()

	if err := requireIdentity(identity); err != nil {
		return models.Partner{}, err
	}
	if err := req.Validate(); err != nil {
		return models.Partner{}, err
	}
	if req.Empty() {
		return s.store.FindByID(ctx, id)
	}

	p, err = s.store.Update(ctx, id, models.PartnerPatch{PartnerUpdateRequest: req})
	if err != nil {
		return models.Partner{}, err
	}
	log.Info().Str("partner_id", id).Msg("Partner updated")
	return p, nil
}

// UpdateRating sets the rating; out-of-range values leave the record untouched
func (s *PartnerService) UpdateRating(ctx context.Context, identity *models.Identity, id string, rating int) (p models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.UpdateRating", trace.WithAttributes(
		attribute.String("partner.id", id),
		attribute.Int("partner.rating", rating),
	))
	defer func() { finishSpan(span, err) }()

	if err := requireIdentity(identity); err != nil {
		return models.Partner{}, err
	}
	if err := models.ValidateRating(rating); err != nil {
		s.metrics.IncrementRatingRejection()
		return models.Partner{}, err
	}

	patch := models.PartnerPatch{}
	patch.Rating = &rating
	return s.store.Update(ctx, id, patch)
}

// ToggleFavorite flips isFavorite
func (s *PartnerService) ToggleFavorite(ctx context.Context, identity *models.Identity, id string) (p models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.ToggleFavorite", trace.WithAttributes(attribute.String("partner.id", id)))
	defer func() { finishSpan(span, err) }()

	if err := requireIdentity(identity); err != nil {
		return models.Partner{}, err
	}
	return s.store.ToggleFavorite(ctx, id)
}

// AddGift appends one gift
func (s *PartnerService) AddGift(ctx context.Context, identity *models.Identity, id string, gift models.Gift) (p models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.AddGift", trace.WithAttributes(attribute.String("partner.id", id)))
	defer func() { finishSpan(span, err) }()

	if err := requireIdentity(identity); err != nil {
		return models.Partner{}, err
	}
	if err := gift.Validate(); err != nil {
		return models.Partner{}, err
	}

	p, err = s.store.AppendGift(ctx, id, gift)
	if err != nil {
		return models.Partner{}, err
	}
	s.metrics.IncrementAppend("gift")
	return p, nil
}

// AddMemory appends one memory
func (s *PartnerService) AddMemory(ctx context.Context, identity *models.Identity, id string, memory models.Memory) (p models.Partner, err error) {
	ctx, span := s.tracer.Start(ctx, "partners.AddMemory", trace.WithAttributes(attribute.String("partner.id", id)))
	defer func() { finishSpan(span, err) }()

	if err := requireIdentity(identity); err != nil {
		return models.Partner{}, err
	}
	if err := memory.Validate(); err != nil {
		return models.Partner{}, err
	}

	p, err = s.store.AppendMemory(ctx, id, memory)
	if err != nil {
		return models.Partner{}, err
	}
	s.metrics.IncrementAppend("memory")
	return p, nil
}

// Delete removes a partner
func (s *PartnerService) Delete(ctx context.Context, identity *models.Identity, id string) (err error) {
	ctx, span := s.tracer.Start(ctx, "partners.Delete", trace.WithAttributes(attribute.String("partner.id", id)))
	defer func() { finishSpan(span, err) }()

	if err := requireIdentity(identity); err != nil {
		return err
	}

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errs.ErrNotFound
	}
	log.Info().Str("partner_id", id).Str("admin", identity.Username).Msg("Partner deleted")
	return nil
}

// Summary computes the derived display facts for a partner at the service clock
func (s *PartnerService) Summary(ctx context.Context, id string) (timeline.Summary, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return timeline.Summary{}, err
	}
	summary, err := timeline.Summarize(p, s.now())
	if err != nil {
		return timeline.Summary{}, fmt.Errorf("failed to summarize partner %s: %w", id, err)
	}
	return summary, nil
}

// Ping checks the partner store
func (s *PartnerService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func requireIdentity(identity *models.Identity) error {
	if identity == nil || identity.AdminID == "" {
		return errs.ErrUnauthorized
	}
	return nil
}

func finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
