package models

// ReminderInput is a reminder as typed by the user: the due instant is split
// into a calendar date and a wall-clock time.
type ReminderInput struct {
	Title       string           `json:"title" validate:"notblank,max=60"`
	Description string           `json:"description" validate:"notblank,max=300"`
	Category    ReminderCategory `json:"category" validate:"category"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string           `json:"time" validate:"required,datetime=15:04"`
}

// EmailChange carries a new sign-in e-mail.
type EmailChange struct {
	Email string `json:"email" validate:"required,mail"`
}

// PhoneChange carries a new phone number.
type PhoneChange struct {
	PhoneNumber string `json:"phoneNumber" validate:"required,phone"`
}

// PasswordChange carries a new password.
type PasswordChange struct {
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ProfileUpdate carries the profile fields that need no re-authentication.
type ProfileUpdate struct {
	DisplayName             string                  `json:"displayName" validate:"max=80"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
}
