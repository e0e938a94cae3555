package models

// PromptKind distinguishes the questions an account mutation may ask.
type PromptKind string

const (
	// PromptConfirm asks a yes/no question before an edit or delete.
	PromptConfirm PromptKind = "confirm"
	// PromptCredential asks for the current password before a sensitive change.
	PromptCredential PromptKind = "credential"
)

// Prompt describes a pending question for the user.
type Prompt struct {
	Kind    PromptKind `json:"kind"`
	Message string     `json:"message"`
}
