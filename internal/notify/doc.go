// Package notify decides which reminders are due and keeps the
// notification badge current as reminders change and time passes.
package notify
