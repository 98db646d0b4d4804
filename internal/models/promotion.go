package models

import "time"

// Promotion is a marketing promotion as it crosses the persistence boundary.
type Promotion struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url,omitempty"` // blob filename in the image container
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	IsActive    bool      `json:"is_active"`
}

func (p Promotion) HasImage() bool {
	return p.ImageURL != nil && *p.ImageURL != ""
}

// ActiveAt reports whether the promotion is switched on and t falls within [StartDate, EndDate].
func (p Promotion) ActiveAt(t time.Time) bool {
	return p.IsActive && !t.Before(p.StartDate) && !t.After(p.EndDate)
}
