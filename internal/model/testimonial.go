package model

import "time"

const (
	MinRating = 1
	MaxRating = 5

	// DefaultOccasion is preselected on the home page review form.
	DefaultOccasion = "Wedding Celebration"
)

// Testimonial is a customer review. Reviews submitted from the home page
// start unapproved and appear publicly once an admin approves them.
type Testimonial struct {
	ID         string     `json:"_id,omitempty"`
	Name       string     `json:"name"`
	Message    string     `json:"message"`
	Rating     int        `json:"rating"`
	Occasion   string     `json:"occasion,omitempty"`
	IsApproved bool       `json:"isApproved"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
}

func (t Testimonial) RecordID() string { return t.ID }

// ApprovedOnly filters out testimonials still awaiting moderation.
func ApprovedOnly(ts []Testimonial) []Testimonial {
	out := make([]Testimonial, 0, len(ts))
	for _, t := range ts {
		if t.IsApproved {
			out = append(out, t)
		}
	}
	return out
}

// FallbackTestimonials are shown on the home page when the backend
// cannot be reached.
func FallbackTestimonials() []Testimonial {
	return []Testimonial{
		{Name: "Rahul S.", Message: "Transformed our wedding hall into a floral paradise.", Rating: 5, IsApproved: true},
		{Name: "Priya P.", Message: "The car decoration was so elegant and fresh.", Rating: 5, IsApproved: true},
	}
}

// Occasions are the choices offered on the review form. Picking "Other"
// asks for a free-text occasion.
var Occasions = []string{DefaultOccasion, "Engagement Ceremony", "Luxury Car Decoration", "Other"}
