package models

import "strings"

// NotificationPreferences holds the user's opt-ins per channel.
type NotificationPreferences struct {
	Email     bool `json:"email"`
	Push      bool `json:"push"`
	Reminders bool `json:"reminders"`
}

// Profile is the single per-user profile and security-settings document.
type Profile struct {
	DisplayName             string                  `json:"displayName" validate:"max=80"`
	Email                   string                  `json:"email"`
	PhoneNumber             string                  `json:"phoneNumber"`
	TwoFactorEnabled        bool                    `json:"twoFactorEnabled"`
	AvatarURL               string                  `json:"avatarUrl"`
	NotificationPreferences NotificationPreferences `json:"notificationPreferences"`
}

// FirstName returns the first word of DisplayName, or "Usuario" when the
// profile has no name yet.
func (p Profile) FirstName() string {
	if fields := strings.Fields(p.DisplayName); len(fields) > 0 {
		return fields[0]
	}
	return "Usuario"
}
