package models

// Subject is an academic course tracked by the user.
type Subject struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"notblank,max=60"`
	Instructor string `json:"instructor" validate:"notblank,max=60"`
	// Term is the academic year-half, e.g. "2025-1".
	Term        string `json:"term" validate:"notblank,max=60"`
	Color       string `json:"color,omitempty"`
	BorderColor string `json:"borderColor,omitempty"`

	// ColorIndex is the creation-order index the colour was drawn from. It is
	// nil for legacy records that were created before colours were persisted.
	ColorIndex *int `json:"colorIndex,omitempty"`
}

// HasColor reports whether a palette colour has already been persisted.
func (s Subject) HasColor() bool {
	return s.ColorIndex != nil && s.Color != ""
}
