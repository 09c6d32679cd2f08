package repository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"love-manager-backend/internal/errs"
	"love-manager-backend/internal/models"

	"github.com/stretchr/testify/suite"
)

type MemoryPartnerRepositorySuite struct {
	suite.Suite
	ctx   context.Context
	clock time.Time
	repo  *MemoryPartnerRepository
}

func TestMemoryPartnerRepositorySuite(t *testing.T) {
	suite.Run(t, new(MemoryPartnerRepositorySuite))
}

func (s *MemoryPartnerRepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)
	s.repo = NewMemoryPartnerRepository().WithClock(func() time.Time { return s.clock })
}

func (s *MemoryPartnerRepositorySuite) insert(name string, status models.Status) models.Partner {
	p, err := s.repo.Insert(s.ctx, models.NewPartner(models.PartnerProfile{
		Name:            name,
		Avatar:          "https://img/avatar.jpg",
		AnniversaryDate: "2024-06-01",
	}, status))
	s.Require().NoError(err)
	return p
}

func (s *MemoryPartnerRepositorySuite) TestInsertAssignsIdentity() {
	p := s.insert("An", models.StatusPending)

	s.NotEmpty(p.ID)
	s.Equal(s.clock, p.CreatedAt)
	s.Equal(s.clock, p.UpdatedAt)

	found, err := s.repo.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p, found)
}

func (s *MemoryPartnerRepositorySuite) TestInsertRejectsInvalid() {
	bad := models.NewPartner(models.PartnerProfile{Name: "An", Avatar: "https://img/avatar.jpg", AnniversaryDate: "2024-06-01"}, models.StatusPending)
	bad.Rating = 9

	_, err := s.repo.Insert(s.ctx, bad)
	s.ErrorIs(err, errs.ErrValidation)

	list, err := s.repo.FindByStatus(s.ctx, models.StatusPending)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *MemoryPartnerRepositorySuite) TestFindByIDMissing() {
	_, err := s.repo.FindByID(s.ctx, "nope")
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *MemoryPartnerRepositorySuite) TestFindByStatusOrdersNewestFirst() {
	first := s.insert("First", models.StatusApproved)
	s.clock = s.clock.Add(time.Minute)
	second := s.insert("Second", models.StatusApproved)
	// same timestamp as second
	third := s.insert("Third", models.StatusApproved)
	s.insert("Pending", models.StatusPending)

	list, err := s.repo.FindByStatus(s.ctx, models.StatusApproved)
	s.Require().NoError(err)
	s.Require().Len(list, 3)
	s.Equal([]string{third.ID, second.ID, first.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	again, err := s.repo.FindByStatus(s.ctx, models.StatusApproved)
	s.Require().NoError(err)
	s.Equal(list, again)
}

func (s *MemoryPartnerRepositorySuite) TestUpdatePartial() {
	p := s.insert("An", models.StatusPending)
	s.clock = s.clock.Add(time.Hour)

	nickname := "Bé"
	updated, err := s.repo.Update(s.ctx, p.ID, models.PartnerPatch{
		PartnerUpdateRequest: models.PartnerUpdateRequest{Nickname: &nickname},
	})
	s.Require().NoError(err)
	s.Equal("Bé", updated.Nickname)
	s.Equal("An", updated.Name)
	s.Equal(p.CreatedAt, updated.CreatedAt)
	s.Equal(s.clock, updated.UpdatedAt)
}

func (s *MemoryPartnerRepositorySuite) TestUpdateRejectsOutOfRangeRating() {
	p := s.insert("An", models.StatusApproved)

	seven := 7
	_, err := s.repo.Update(s.ctx, p.ID, models.PartnerPatch{
		PartnerUpdateRequest: models.PartnerUpdateRequest{Rating: &seven},
	})
	s.ErrorIs(err, errs.ErrValidation)

	found, err := s.repo.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(models.DefaultRating, found.Rating)
}

func (s *MemoryPartnerRepositorySuite) TestUpdateMissing() {
	name := "x"
	_, err := s.repo.Update(s.ctx, "nope", models.PartnerPatch{
		PartnerUpdateRequest: models.PartnerUpdateRequest{Name: &name},
	})
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *MemoryPartnerRepositorySuite) TestToggleFavorite() {
	p := s.insert("An", models.StatusApproved)

	toggled, err := s.repo.ToggleFavorite(s.ctx, p.ID)
	s.Require().NoError(err)
	s.True(toggled.IsFavorite)

	toggled, err = s.repo.ToggleFavorite(s.ctx, p.ID)
	s.Require().NoError(err)
	s.False(toggled.IsFavorite)
}

func (s *MemoryPartnerRepositorySuite) TestAppendPreservesOrder() {
	p := s.insert("An", models.StatusApproved)
	g1 := models.Gift{Name: "Book", Date: "2024-07-01"}
	g2 := models.Gift{Name: "Scarf", Date: "2024-12-24", Price: "200k"}

	_, err := s.repo.AppendGift(s.ctx, p.ID, g1)
	s.Require().NoError(err)
	got, err := s.repo.AppendGift(s.ctx, p.ID, g2)
	s.Require().NoError(err)
	s.Equal([]models.Gift{g1, g2}, got.Gifts)

	m := models.Memory{Title: "Beach", Date: "2024-08-01"}
	got, err = s.repo.AppendMemory(s.ctx, p.ID, m)
	s.Require().NoError(err)
	s.Equal([]models.Memory{m}, got.Memories)
	s.Len(got.Gifts, 2)
}

func (s *MemoryPartnerRepositorySuite) TestAppendValidatesAndMissing() {
	p := s.insert("An", models.StatusApproved)

	_, err := s.repo.AppendGift(s.ctx, p.ID, models.Gift{Name: "No date"})
	s.ErrorIs(err, errs.ErrValidation)

	_, err = s.repo.AppendMemory(s.ctx, "nope", models.Memory{Title: "t", Date: "2024-01-01"})
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *MemoryPartnerRepositorySuite) TestReturnedRecordsAreCopies() {
	p := s.insert("An", models.StatusApproved)
	p.Gifts = append(p.Gifts, models.Gift{Name: "Leak", Date: "2024-01-01"})

	found, err := s.repo.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Empty(found.Gifts)
}

func (s *MemoryPartnerRepositorySuite) TestDelete() {
	p := s.insert("An", models.StatusApproved)

	deleted, err := s.repo.Delete(s.ctx, p.ID)
	s.Require().NoError(err)
	s.True(deleted)

	deleted, err = s.repo.Delete(s.ctx, p.ID)
	s.Require().NoError(err)
	s.False(deleted)

	_, err = s.repo.FindByID(s.ctx, p.ID)
	s.ErrorIs(err, errs.ErrNotFound)
}

func (s *MemoryPartnerRepositorySuite) TestConcurrentAppendsAndUpdatesKeepEveryChange() {
	p := s.insert("An", models.StatusApproved)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(3)
		go func(i int) {
			defer wg.Done()
			_, err := s.repo.AppendGift(s.ctx, p.ID, models.Gift{Name: fmt.Sprintf("gift-%d", i), Date: "2024-01-01"})
			s.NoError(err)
		}(i)
		go func(i int) {
			defer wg.Done()
			_, err := s.repo.AppendMemory(s.ctx, p.ID, models.Memory{Title: fmt.Sprintf("memory-%d", i), Date: "2024-01-01"})
			s.NoError(err)
		}(i)
		go func(i int) {
			defer wg.Done()
			notes := fmt.Sprintf("note-%d", i)
			_, err := s.repo.Update(s.ctx, p.ID, models.PartnerPatch{
				PartnerUpdateRequest: models.PartnerUpdateRequest{Notes: &notes},
			})
			s.NoError(err)
		}(i)
	}
	wg.Wait()

	found, err := s.repo.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Len(found.Gifts, n)
	s.Len(found.Memories, n)
	s.Contains(found.Notes, "note-")
}
