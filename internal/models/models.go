package models

import (
	"time"
)

// Status is the moderation state of a partner profile
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// Partner represents a tracked relationship profile
type Partner struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Nickname        string    `json:"nickname,omitempty"`
	Avatar          string    `json:"avatar"`
	DateOfBirth     string    `json:"dateOfBirth,omitempty"`
	AnniversaryDate string    `json:"anniversaryDate"`
	Hobbies         []string  `json:"hobbies"`
	FavoriteThings  []string  `json:"favoriteThings"`
	Notes           string    `json:"notes,omitempty"`
	PhoneNumber     string    `json:"phoneNumber,omitempty"`
	Address         string    `json:"address,omitempty"`
	Rating          int       `json:"rating"`
	IsFavorite      bool      `json:"isFavorite"`
	Gifts           []Gift    `json:"gifts"`
	Memories        []Memory  `json:"memories"`
	Status          Status    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// Gift is embedded in a partner; it has no identity beyond its position
type Gift struct {
	Name     string `json:"name"`
	Date     string `json:"date"`
	Price    string `json:"price,omitempty"`
	Occasion string `json:"occasion,omitempty"`
	Note     string `json:"note,omitempty"`
}

// Memory is embedded in a partner
type Memory struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
}

// Admin is an operator account checked by the credential service
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the authenticated capability threaded into mutating calls
type Identity struct {
	AdminID   string
	Username  string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// Clone returns a deep copy so callers never share slices with a store
func (p Partner) Clone() Partner {
	out := p
	out.Hobbies = append([]string{}, p.Hobbies...)
	out.FavoriteThings = append([]string{}, p.FavoriteThings...)
	out.Gifts = append([]Gift{}, p.Gifts...)
	out.Memories = append([]Memory{}, p.Memories...)
	return out
}
