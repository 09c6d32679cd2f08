package services

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/metrics"
	"love-manager-backend/internal/models"
	"love-manager-backend/internal/repository"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
)

type recordingNotifier struct {
	mu       sync.Mutex
	partners []models.Partner
}

func (n *recordingNotifier) NotifyRegistration(_ context.Context, p models.Partner) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.partners = append(n.partners, p)
}

type PartnerServiceSuite struct {
	suite.Suite
	ctx      context.Context
	admin    *models.Identity
	notifier *recordingNotifier
	metrics  *metrics.Metrics
	service  *PartnerService
}

func TestPartnerServiceSuite(t *testing.T) {
	suite.Run(t, new(PartnerServiceSuite))
}

func (s *PartnerServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.admin = &models.Identity{AdminID: "admin-1", Username: "admin", Role: "admin"}
	s.notifier = &recordingNotifier{}
	s.metrics = metrics.New()
	s.service = NewPartnerService(repository.NewMemoryPartnerRepository(), s.notifier, s.metrics)
}

func (s *PartnerServiceSuite) register(name string) models.Partner {
	p, err := s.service.Register(s.ctx, models.PartnerCreateRequest{
		PartnerProfile: models.PartnerProfile{Name: name, Avatar: "https://img/avatar.jpg", AnniversaryDate: "2024-06-01"},
	})
	s.Require().NoError(err)
	return p
}

func (s *PartnerServiceSuite) createApproved(name string) models.Partner {
	p, err := s.service.CreateApproved(s.ctx, s.admin, models.PartnerAdminCreateRequest{
		PartnerProfile: models.PartnerProfile{Name: name, Avatar: "https://img/avatar.jpg", AnniversaryDate: "2023-02-14"},
	})
	s.Require().NoError(err)
	return p
}

func ids(partners []models.Partner) []string {
	out := make([]string, 0, len(partners))
	for _, p := range partners {
		out = append(out, p.ID)
	}
	return out
}

func (s *PartnerServiceSuite) TestRegisterApproveScenario() {
	p := s.register("An")
	s.Equal(models.StatusPending, p.Status)
	s.NotEmpty(p.ID)

	pending, err := s.service.ListPending(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Contains(ids(pending), p.ID)

	approved, err := s.service.Approve(s.ctx, s.admin, p.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, approved.Status)

	list, err := s.service.ListApproved(s.ctx)
	s.Require().NoError(err)
	s.Contains(ids(list), p.ID)

	pending, err = s.service.ListPending(s.ctx, s.admin)
	s.Require().NoError(err)
	s.NotContains(ids(pending), p.ID)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.PartnersRegistered))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.Transitions.WithLabelValues("approved")))
}

func (s *PartnerServiceSuite) TestRegisterIgnoresClientStatus() {
	var req models.PartnerCreateRequest
	payload := `{"name":"An","avatar":"https://img/avatar.jpg","anniversaryDate":"2024-06-01","status":"approved","rating":1}`
	s.Require().NoError(json.Unmarshal([]byte(payload), &req))

	p, err := s.service.Register(s.ctx, req)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, p.Status)
	s.Equal(models.DefaultRating, p.Rating)
}

func (s *PartnerServiceSuite) TestRegisterValidatesBeforePersisting() {
	_, err := s.service.Register(s.ctx, models.PartnerCreateRequest{
		PartnerProfile: models.PartnerProfile{Name: "An", Avatar: "https://img/avatar.jpg"},
	})
	s.ErrorIs(err, errs.ErrValidation)

	pending, err := s.service.ListPending(s.ctx, s.admin)
	s.Require().NoError(err)
	s.Empty(pending)
	s.Empty(s.notifier.partners)
}

func (s *PartnerServiceSuite) TestRegisterNotifies() {
	p := s.register("An")

	s.Require().Len(s.notifier.partners, 1)
	s.Equal(p.ID, s.notifier.partners[0].ID)
}

func (s *PartnerServiceSuite) TestCreateApproved() {
	rating := 4
	p, err := s.service.CreateApproved(s.ctx, s.admin, models.PartnerAdminCreateRequest{
		PartnerProfile: models.PartnerProfile{Name: "Binh", Avatar: "https://img/avatar.jpg", AnniversaryDate: "2023-02-14"},
		Rating:         &rating,
		IsFavorite:     true,
		Gifts:          []models.Gift{{Name: "Ring", Date: "2023-02-14"}},
	})
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, p.Status)
	s.Equal(4, p.Rating)
	s.True(p.IsFavorite)
	s.Len(p.Gifts, 1)
	s.Empty(s.notifier.partners)
}

func (s *PartnerServiceSuite) TestCreateApprovedRequiresIdentity() {
	_, err := s.service.CreateApproved(s.ctx, nil, models.PartnerAdminCreateRequest{
		PartnerProfile: models.PartnerProfile{Name: "Binh", Avatar: "https://img/avatar.jpg", AnniversaryDate: "2023-02-14"},
	})
	s.ErrorIs(err, errs.ErrUnauthorized)
}

func (s *PartnerServiceSuite) TestApproveAndRejectAreIdempotent() {
	a := s.register("A")
	first, err := s.service.Approve(s.ctx, s.admin, a.ID)
	s.Require().NoError(err)
	second, err := s.service.Approve(s.ctx, s.admin, a.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, second.Status)
	s.Equal(first.UpdatedAt, second.UpdatedAt)

	r := s.register("R")
	_, err = s.service.Reject(s.ctx, s.admin, r.ID)
	s.Require().NoError(err)
	again, err := s.service.Reject(s.ctx, s.admin, r.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusRejected, again.Status)

	s.Equal(1.0, testutil.ToFloat64(s.metrics.Transitions.WithLabelValues("rejected")))
}

func (s *PartnerServiceSuite) TestAdminOverrideBetweenTerminalStates() {
	p := s.register("An")
	_, err := s.service.Reject(s.ctx, s.admin, p.ID)
	s.Require().NoError(err)

	approved, err := s.service.Approve(s.ctx, s.admin, p.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, approved.Status)
}

func (s *PartnerServiceSuite) TestApproveMissing() {
	_, err := s.service.Approve(s.ctx, s.admin, "missing")
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *PartnerServiceSuite) TestListOrderingNewestFirst() {
	var created []string
	for _, name := range []string{"one", "two", "three"} {
		created = append(created, s.createApproved(name).ID)
		time.Sleep(time.Millisecond)
	}

	list, err := s.service.ListApproved(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{created[2], created[1], created[0]}, ids(list))
}

func (s *PartnerServiceSuite) TestListByStatus() {
	_, err := s.service.ListByStatus(s.ctx, nil, models.StatusApproved)
	s.NoError(err)

	_, err = s.service.ListByStatus(s.ctx, nil, models.StatusRejected)
	s.ErrorIs(err, errs.ErrUnauthorized)

	_, err = s.service.ListPending(s.ctx, nil)
	s.ErrorIs(err, errs.ErrUnauthorized)

	_, err = s.service.ListByStatus(s.ctx, s.admin, models.Status("archived"))
	s.ErrorIs(err, errs.ErrValidation)
}

func (s *PartnerServiceSuite) TestUpdateRatingOutOfRangeKeepsPrior() {
	p := s.createApproved("An")

	_, err := s.service.UpdateRating(s.ctx, s.admin, p.ID, 7)
	s.ErrorIs(err, errs.ErrValidation)
	_, err = s.service.UpdateRating(s.ctx, s.admin, p.ID, 0)
	s.ErrorIs(err, errs.ErrValidation)

	got, err := s.service.Get(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(5, got.Rating)
	s.Equal(2.0, testutil.ToFloat64(s.metrics.RatingRejections))

	updated, err := s.service.UpdateRating(s.ctx, s.admin, p.ID, 2)
	s.Require().NoError(err)
	s.Equal(2, updated.Rating)
}

func (s *PartnerServiceSuite) TestAddGiftsInOrder() {
	p := s.createApproved("An")
	g1 := models.Gift{Name: "Book", Date: "2024-07-01"}
	g2 := models.Gift{Name: "Scarf", Date: "2024-12-24", Occasion: "Christmas"}

	_, err := s.service.AddGift(s.ctx, s.admin, p.ID, g1)
	s.Require().NoError(err)
	got, err := s.service.AddGift(s.ctx, s.admin, p.ID, g2)
	s.Require().NoError(err)
	s.Equal([]models.Gift{g1, g2}, got.Gifts)

	m := models.Memory{Title: "Beach", Date: "2024-08-01", ImageURL: "https://img/1.jpg"}
	got, err = s.service.AddMemory(s.ctx, s.admin, p.ID, m)
	s.Require().NoError(err)
	s.Equal([]models.Memory{m}, got.Memories)
	s.Equal([]models.Gift{g1, g2}, got.Gifts)

	s.Equal(2.0, testutil.ToFloat64(s.metrics.Appends.WithLabelValues("gift")))
}

func (s *PartnerServiceSuite) TestUpdate() {
	p := s.createApproved("An")

	nickname := "Bé"
	updated, err := s.service.Update(s.ctx, s.admin, p.ID, models.PartnerUpdateRequest{Nickname: &nickname})
	s.Require().NoError(err)
	s.Equal("Bé", updated.Nickname)
	s.Equal(models.StatusApproved, updated.Status)

	same, err := s.service.Update(s.ctx, s.admin, p.ID, models.PartnerUpdateRequest{})
	s.Require().NoError(err)
	s.Equal(updated, same)

	empty := ""
	_, err = s.service.Update(s.ctx, s.admin, p.ID, models.PartnerUpdateRequest{Name: &empty})
	s.ErrorIs(err, errs.ErrValidation)

	_, err = s.service.Update(s.ctx, s.admin, "missing", models.PartnerUpdateRequest{Nickname: &nickname})
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *PartnerServiceSuite) TestToggleFavoriteAndDelete() {
	p := s.createApproved("An")

	toggled, err := s.service.ToggleFavorite(s.ctx, s.admin, p.ID)
	s.Require().NoError(err)
	s.True(toggled.IsFavorite)

	s.Require().NoError(s.service.Delete(s.ctx, s.admin, p.ID))
	s.ErrorIs(s.service.Delete(s.ctx, s.admin, p.ID), errs.ErrNotFound)

	_, err = s.service.Get(s.ctx, p.ID)
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *PartnerServiceSuite) TestSummary() {
	s.service.WithClock(func() time.Time {
		return time.Date(2025, time.July, 6, 0, 0, 0, 0, time.UTC)
	})
	p := s.register("An")

	summary, err := s.service.Summary(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("1 năm 1 tháng 5 ngày", summary.TimeTogether.Label)
	s.Equal(330, summary.DaysUntilAnniversary)
	s.False(summary.IsAnniversaryToday)
}

func (s *PartnerServiceSuite) TestAvatarRequired() {
	_, err := s.service.Register(s.ctx, models.PartnerCreateRequest{
		PartnerProfile: models.PartnerProfile{Name: "An", AnniversaryDate: "2024-06-01"},
	})
	s.ErrorIs(err, errs.ErrValidation)

	p := s.register("Binh")
	blank := ""
	_, err = s.service.Update(s.ctx, s.admin, p.ID, models.PartnerUpdateRequest{Avatar: &blank})
	s.ErrorIs(err, errs.ErrValidation)

	stored, err := s.service.Get(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal("https://img/avatar.jpg", stored.Avatar)
}
