package models

// SubjectSummary is a subject card of the dashboard. Until the subject's
// grades have loaded, Loaded is false, Grades is empty and Required is
// omitted.
type SubjectSummary struct {
	Subject  Subject      `json:"subject"`
	Loaded   bool         `json:"loaded"`
	Grades   []GradeEntry `json:"grades"`
	Average  string       `json:"average"`
	BarColor string       `json:"barColor"`
	Required Requirement  `json:"required,omitzero"`
}

// Requirement is the wire form of the score needed on the next evaluation.
type Requirement struct {
	Outcome string `json:"outcome"`
	Score   string `json:"score,omitempty"`
}

// Dashboard is the derived view pushed to the UI layer.
type Dashboard struct {
	Greeting        string           `json:"greeting"`
	Loaded          bool             `json:"loaded"`
	Subjects        []SubjectSummary `json:"subjects"`
	OverallAverage  string           `json:"overallAverage"`
	ActiveReminders []Reminder       `json:"activeReminders"`
	Badge           string           `json:"badge"`
	MarkedDays      []string         `json:"markedDays"`
	Notes           []Note           `json:"notes"`
}
