package models

import "time"

// MaxScore and MinScore bound a grade entry on the 0.0–5.0 scale.
const (
	MinScore = 0.0
	MaxScore = 5.0

	// DefaultPassingThreshold is the minimum average needed to pass a subject.
	DefaultPassingThreshold = 3.0
)

// GradeEntry is one scored evaluation item within a subject.
type GradeEntry struct {
	ID    string  `json:"id"`
	Name  string  `json:"name" validate:"notblank,max=60"`
	Score float64 `json:"score" validate:"score"`

	// CreatedAt is nil when the stored document carries no usable instant.
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}
