// Package timeline computes the display facts derived from a partner's
// anniversary date. Every function is pure: the same (partner, now) always
// yields the same result, so server and clients can share it.
package timeline

import (
	"fmt"
	"math"
	"strings"
	"time"

	"love-manager-backend/internal/models"
)

const (
	day          = 24 * time.Hour
	daysPerYear  = 365
	daysPerMonth = 30
)

// Span is an approximate elapsed time: 365-day years, then 30-day months,
// then the remaining days.
type Span struct {
	Years  int `json:"years"`
	Months int `json:"months"`
	Days   int `json:"days"`
}

// TotalDays folds the span back into days
func (s Span) TotalDays() int {
	return s.Years*daysPerYear + s.Months*daysPerMonth + s.Days
}

// String renders the non-zero components, e.g. "1 năm 1 tháng 5 ngày".
// An all-zero span renders as "0 ngày".
func (s Span) String() string {
	parts := make([]string, 0, 3)
	if s.Years > 0 {
		parts = append(parts, fmt.Sprintf("%d năm", s.Years))
	}
	if s.Months > 0 {
		parts = append(parts, fmt.Sprintf("%d tháng", s.Months))
	}
	if s.Days > 0 {
		parts = append(parts, fmt.Sprintf("%d ngày", s.Days))
	}
	if len(parts) == 0 {
		return "0 ngày"
	}
	return strings.Join(parts, " ")
}

// DaysUntilAnniversary returns how many calendar days remain until the next
// occurrence of the anniversary's month and day. 0 means today. A Feb 29
// anniversary falls on Mar 1 in non-leap years.
func DaysUntilAnniversary(anniversaryDate string, now time.Time) (int, error) {
	anniversary, err := models.ParseDate(anniversaryDate, now.Location())
	if err != nil {
		return 0, err
	}

	today := startOfDay(now)
	next := time.Date(now.Year(), anniversary.Month(), anniversary.Day(), 0, 0, 0, 0, now.Location())
	if next.Before(today) {
		next = time.Date(now.Year()+1, anniversary.Month(), anniversary.Day(), 0, 0, 0, 0, now.Location())
	}

	return calendarDays(today, next), nil
}

// TimeTogether returns the elapsed span between the anniversary and now,
// in either direction.
func TimeTogether(anniversaryDate string, now time.Time) (Span, error) {
	anniversary, err := models.ParseDate(anniversaryDate, now.Location())
	if err != nil {
		return Span{}, err
	}

	diff := now.Sub(anniversary)
	if diff < 0 {
		diff = -diff
	}
	total := int(math.Ceil(float64(diff) / float64(day)))
	return Decompose(total), nil
}

// Decompose splits a day count into the 365/30-day approximation
func Decompose(totalDays int) Span {
	if totalDays < 0 {
		totalDays = -totalDays
	}
	rem := totalDays % daysPerYear
	return Span{
		Years:  totalDays / daysPerYear,
		Months: rem / daysPerMonth,
		Days:   rem % daysPerMonth,
	}
}

// calendarDays counts the days between two dates on the civil calendar, so a
// DST change in between never adds or drops a day.
func calendarDays(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a) / day)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
