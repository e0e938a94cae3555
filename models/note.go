package models

// Note is a free-form study note card.
type Note struct {
	ID           string `json:"id"`
	Title        string `json:"title" validate:"notblank,max=100"`
	SubjectLabel string `json:"subjectLabel" validate:"notblank,max=60"`
	Content      string `json:"content" validate:"notblank,max=10000"`
	Color        string `json:"color"`
	BorderColor  string `json:"borderColor"`

	// CreatedAt is a display string (dd/mm/yyyy) fixed at creation time.
	CreatedAt string `json:"createdAt"`
}
