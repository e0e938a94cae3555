package models

// MutationResponse is the body returned by every state-changing endpoint.
type MutationResponse struct {
	// Status is "committed" or "cancelled".
	Status    string `json:"status"`
	Value     any    `json:"value,omitempty"`
	Message   string `json:"message,omitempty"`
	SignedOut bool   `json:"signedOut,omitempty"`
}

// ErrorResponse describes a failed request.
type ErrorResponse struct {
	Kind    string `json:"kind"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// PromptResponse is returned with 428 Precondition Required when a mutation
// needs an answer the request did not carry.
type PromptResponse struct {
	Prompt Prompt `json:"prompt"`
	// Header is the request header that carries the answer on retry.
	Header string `json:"header"`
}

// Notifications is the payload of the notification panel.
type Notifications struct {
	Active []Reminder `json:"active"`
	Count  int        `json:"count"`
	Badge  string     `json:"badge"`
}

// PasswordReset carries the e-mail a reset link is requested for.
type PasswordReset struct {
	Email string `json:"email"`
}

// PasswordResetConfirm carries a reset token and the new password.
type PasswordResetConfirm struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// Toggle is the body of boolean switch endpoints.
type Toggle struct {
	Enabled bool `json:"enabled"`
}

// CompletedToggle is the body of PATCH /reminders/{id}/completed.
type CompletedToggle struct {
	Completed bool `json:"completed"`
}

// ColorChoice is the body of PATCH /notes/{id}/color.
type ColorChoice struct {
	Index int `json:"index"`
}
