package models

import (
	"strings"

	"love-manager-backend/internal/errs"
)

// PartnerProfile is the profile payload shared by both create paths
type PartnerProfile struct {
	Name            string   `json:"name"`
	Nickname        string   `json:"nickname"`
	Avatar          string   `json:"avatar"`
	DateOfBirth     string   `json:"dateOfBirth"`
	AnniversaryDate string   `json:"anniversaryDate"`
	Hobbies         []string `json:"hobbies"`
	FavoriteThings  []string `json:"favoriteThings"`
	Notes           string   `json:"notes"`
	PhoneNumber     string   `json:"phoneNumber"`
	Address         string   `json:"address"`
}

// PartnerCreateRequest is the public registration payload. It carries no
// status, rating or collections; the server assigns all of them.
type PartnerCreateRequest struct {
	PartnerProfile
}

// PartnerAdminCreateRequest is the admin-authored create payload
type PartnerAdminCreateRequest struct {
	PartnerProfile
	Rating     *int     `json:"rating"`
	IsFavorite bool     `json:"isFavorite"`
	Gifts      []Gift   `json:"gifts"`
	Memories   []Memory `json:"memories"`
}

// PartnerUpdateRequest is a partial admin field update. nil = leave unchanged.
// Status and the gift/memory collections are not part of it.
type PartnerUpdateRequest struct {
	Name            *string   `json:"name"`
	Nickname        *string   `json:"nickname"`
	Avatar          *string   `json:"avatar"`
	DateOfBirth     *string   `json:"dateOfBirth"`
	AnniversaryDate *string   `json:"anniversaryDate"`
	Hobbies         *[]string `json:"hobbies"`
	FavoriteThings  *[]string `json:"favoriteThings"`
	Notes           *string   `json:"notes"`
	PhoneNumber     *string   `json:"phoneNumber"`
	Address         *string   `json:"address"`
	Rating          *int      `json:"rating"`
	IsFavorite      *bool     `json:"isFavorite"`
}

// PartnerPatch is the store-level partial update. Status is only set by the
// lifecycle transitions.
type PartnerPatch struct {
	PartnerUpdateRequest
	Status *Status
}

// RatingRequest is the body of PATCH /partners/{id}/rating
type RatingRequest struct {
	Rating *int `json:"rating"`
}

// Validate checks the registration rule set
func (r PartnerCreateRequest) Validate() error {
	return r.PartnerProfile.validate()
}

// Validate checks the admin create rule set
func (r PartnerAdminCreateRequest) Validate() error {
	if err := r.PartnerProfile.validate(); err != nil {
		return err
	}
	if r.Rating != nil {
		if err := ValidateRating(*r.Rating); err != nil {
			return err
		}
	}
	for _, g := range r.Gifts {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	for _, m := range r.Memories {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks only the fields present in the update
func (r PartnerUpdateRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errs.Validation("name", "must not be empty")
	}
	if r.Avatar != nil && strings.TrimSpace(*r.Avatar) == "" {
		return errs.Validation("avatar", "must not be empty")
	}
	if r.AnniversaryDate != nil {
		if err := validateAnniversary(*r.AnniversaryDate); err != nil {
			return err
		}
	}
	if r.Rating != nil {
		if err := ValidateRating(*r.Rating); err != nil {
			return err
		}
	}
	return nil
}

// Empty reports whether the update changes nothing
func (r PartnerUpdateRequest) Empty() bool {
	return r == PartnerUpdateRequest{}
}

// Validate checks the update fields and the status value
func (p PartnerPatch) Validate() error {
	if err := p.PartnerUpdateRequest.Validate(); err != nil {
		return err
	}
	if p.Status != nil && !p.Status.Valid() {
		return errs.Validation("status", "must be one of pending, approved, rejected")
	}
	return nil
}

// Apply writes the present fields onto partner
func (p PartnerPatch) Apply(partner *Partner) {
	u := p.PartnerUpdateRequest
	if u.Name != nil {
		partner.Name = strings.TrimSpace(*u.Name)
	}
	if u.Nickname != nil {
		partner.Nickname = *u.Nickname
	}
	if u.Avatar != nil {
		partner.Avatar = *u.Avatar
	}
	if u.DateOfBirth != nil {
		partner.DateOfBirth = *u.DateOfBirth
	}
	if u.AnniversaryDate != nil {
		partner.AnniversaryDate = strings.TrimSpace(*u.AnniversaryDate)
	}
	if u.Hobbies != nil {
		partner.Hobbies = nonNil(*u.Hobbies)
	}
	if u.FavoriteThings != nil {
		partner.FavoriteThings = nonNil(*u.FavoriteThings)
	}
	if u.Notes != nil {
		partner.Notes = *u.Notes
	}
	if u.PhoneNumber != nil {
		partner.PhoneNumber = *u.PhoneNumber
	}
	if u.Address != nil {
		partner.Address = *u.Address
	}
	if u.Rating != nil {
		partner.Rating = *u.Rating
	}
	if u.IsFavorite != nil {
		partner.IsFavorite = *u.IsFavorite
	}
	if p.Status != nil {
		partner.Status = *p.Status
	}
}

// NewPartner builds an unsaved partner from a profile with the model defaults
func NewPartner(profile PartnerProfile, status Status) Partner {
	return Partner{
		Name:            strings.TrimSpace(profile.Name),
		Nickname:        profile.Nickname,
		Avatar:          profile.Avatar,
		DateOfBirth:     profile.DateOfBirth,
		AnniversaryDate: strings.TrimSpace(profile.AnniversaryDate),
		Hobbies:         nonNil(profile.Hobbies),
		FavoriteThings:  nonNil(profile.FavoriteThings),
		Notes:           profile.Notes,
		PhoneNumber:     profile.PhoneNumber,
		Address:         profile.Address,
		Rating:          DefaultRating,
		Gifts:           []Gift{},
		Memories:        []Memory{},
		Status:          status,
	}
}

// Validate enforces the write-time invariants of a stored partner
func (p Partner) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errs.Validation("name", "is required")
	}
	if strings.TrimSpace(p.Avatar) == "" {
		return errs.Validation("avatar", "is required")
	}
	if err := validateAnniversary(p.AnniversaryDate); err != nil {
		return err
	}
	if err := ValidateRating(p.Rating); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return errs.Validation("status", "must be one of pending, approved, rejected")
	}
	for _, g := range p.Gifts {
		if err := g.Validate(); err != nil {
			return err
		}
	}
	for _, m := range p.Memories {
		if err := m.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the required gift fields
func (g Gift) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return errs.Validation("gift.name", "is required")
	}
	if strings.TrimSpace(g.Date) == "" {
		return errs.Validation("gift.date", "is required")
	}
	return nil
}

// Validate checks the required memory fields
func (m Memory) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return errs.Validation("memory.title", "is required")
	}
	if strings.TrimSpace(m.Date) == "" {
		return errs.Validation("memory.date", "is required")
	}
	return nil
}

// ValidateRating enforces 1 <= rating <= 5
func ValidateRating(rating int) error {
	if rating < MinRating || rating > MaxRating {
		return errs.Validation("rating", "must be between 1 and 5")
	}
	return nil
}

func (p PartnerProfile) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errs.Validation("name", "is required")
	}
	if strings.TrimSpace(p.Avatar) == "" {
		return errs.Validation("avatar", "is required")
	}
	return validateAnniversary(p.AnniversaryDate)
}

func validateAnniversary(s string) error {
	if strings.TrimSpace(s) == "" {
		return errs.Validation("anniversaryDate", "is required")
	}
	if _, err := ParseDate(s, nil); err != nil {
		return errs.Validation("anniversaryDate", err.Error())
	}
	return nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string{}, in...)
}
