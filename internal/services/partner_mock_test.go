package services

import (
	"context"
	"errors"
	"testing"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/models"
	"love-manager-backend/internal/services/mocks"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

// PartnerServiceMockSuite drives the service against a mocked store to
// check what reaches the store and how store failures surface.
type PartnerServiceMockSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockPartnerStore
	service *PartnerService
	admin   *models.Identity
}

func TestPartnerServiceMockSuite(t *testing.T) {
	suite.Run(t, new(PartnerServiceMockSuite))
}

func (s *PartnerServiceMockSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockPartnerStore(s.ctrl)
	s.service = NewPartnerService(s.store, nil, nil)
	s.admin = &models.Identity{AdminID: "admin-1", Username: "admin"}
}

func (s *PartnerServiceMockSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *PartnerServiceMockSuite) TestAnonymousMutationsNeverReachStore() {
	ctx := context.Background()
	rating := 3
	name := "x"

	calls := map[string]func() error{
		"create": func() error {
			_, err := s.service.CreateApproved(ctx, nil, models.PartnerAdminCreateRequest{
				PartnerProfile: models.PartnerProfile{Name: "An", Avatar: "https://img/avatar.jpg", AnniversaryDate: "2024-06-01"},
			})
			return err
		},
		"approve": func() error { _, err := s.service.Approve(ctx, nil, "p1"); return err },
		"reject":  func() error { _, err := s.service.Reject(ctx, nil, "p1"); return err },
		"update": func() error {
			_, err := s.service.Update(ctx, nil, "p1", models.PartnerUpdateRequest{Name: &name})
			return err
		},
		"rating":   func() error { _, err := s.service.UpdateRating(ctx, nil, "p1", rating); return err },
		"favorite": func() error { _, err := s.service.ToggleFavorite(ctx, nil, "p1"); return err },
		"gift": func() error {
			_, err := s.service.AddGift(ctx, nil, "p1", models.Gift{Name: "g", Date: "2024-01-01"})
			return err
		},
		"memory": func() error {
			_, err := s.service.AddMemory(ctx, nil, "p1", models.Memory{Title: "m", Date: "2024-01-01"})
			return err
		},
		"delete":  func() error { return s.service.Delete(ctx, nil, "p1") },
		"pending": func() error { _, err := s.service.ListPending(ctx, nil); return err },
		"empty identity": func() error {
			_, err := s.service.Approve(ctx, &models.Identity{}, "p1")
			return err
		},
	}

	for name, call := range calls {
		s.Run(name, func() {
			s.ErrorIs(call(), errs.ErrUnauthorized)
		})
	}
}

func (s *PartnerServiceMockSuite) TestInvalidRatingNeverReachesStore() {
	_, err := s.service.UpdateRating(context.Background(), s.admin, "p1", 7)
	s.ErrorIs(err, errs.ErrValidation)
}

func (s *PartnerServiceMockSuite) TestTransportFailureSurfaces() {
	ctx := context.Background()
	down := errs.Transport("failed to get partner", errors.New("connection refused"))

	s.store.EXPECT().FindByID(gomock.Any(), "p1").Return(models.Partner{}, down)

	_, err := s.service.Approve(ctx, s.admin, "p1")
	s.ErrorIs(err, errs.ErrTransport)
}

func (s *PartnerServiceMockSuite) TestApproveWritesOnlyStatus() {
	ctx := context.Background()
	pending := models.Partner{ID: "p1", Name: "An", Status: models.StatusPending}

	s.store.EXPECT().FindByID(gomock.Any(), "p1").Return(pending, nil)
	s.store.EXPECT().
		Update(gomock.Any(), "p1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, patch models.PartnerPatch) (models.Partner, error) {
			s.Require().NotNil(patch.Status)
			s.Equal(models.StatusApproved, *patch.Status)
			s.True(patch.PartnerUpdateRequest.Empty())
			out := pending
			out.Status = models.StatusApproved
			return out, nil
		})

	p, err := s.service.Approve(ctx, s.admin, "p1")
	s.Require().NoError(err)
	s.Equal(models.StatusApproved, p.Status)
}

func (s *PartnerServiceMockSuite) TestApproveAlreadyApprovedSkipsWrite() {
	approved := models.Partner{ID: "p1", Status: models.StatusApproved}
	s.store.EXPECT().FindByID(gomock.Any(), "p1").Return(approved, nil)

	p, err := s.service.Approve(context.Background(), s.admin, "p1")
	s.Require().NoError(err)
	s.Equal(approved, p)
}

func (s *PartnerServiceMockSuite) TestDeleteStoreFailure() {
	s.store.EXPECT().Delete(gomock.Any(), "p1").Return(false, errs.Transport("failed to delete partner", errors.New("timeout")))

	err := s.service.Delete(context.Background(), s.admin, "p1")
	s.ErrorIs(err, errs.ErrTransport)
}
