package models

// Color is a visual identity pair used by subject and note cards.
type Color struct {
	Fill   string `json:"color"`
	Border string `json:"borderColor"`
}
