package timeline

import (
	"time"

	"love-manager-backend/internal/models"
)

// Summary bundles the derived facts shown on a partner card
type Summary struct {
	DaysUntilAnniversary int         `json:"daysUntilAnniversary"`
	IsAnniversaryToday   bool        `json:"isAnniversaryToday"`
	TimeTogether         SpanSummary `json:"timeTogether"`
	GiftCount            int         `json:"giftCount"`
	MemoryCount          int         `json:"memoryCount"`
}

// SpanSummary is a Span plus its rendered label
type SpanSummary struct {
	Span
	Label string `json:"label"`
}

// Summarize computes every derived fact for p at now
func Summarize(p models.Partner, now time.Time) (Summary, error) {
	days, err := DaysUntilAnniversary(p.AnniversaryDate, now)
	if err != nil {
		return Summary{}, err
	}
	span, err := TimeTogether(p.AnniversaryDate, now)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		DaysUntilAnniversary: days,
		IsAnniversaryToday:   days == 0,
		TimeTogether:         SpanSummary{Span: span, Label: span.String()},
		GiftCount:            len(p.Gifts),
		MemoryCount:          len(p.Memories),
	}, nil
}
