package gateway

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-study-keeper/internal/dates"
	"github.com/MKhiriev/go-study-keeper/internal/documents"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

// reminderFields limits validation of edited reminders to their shape; an
// edited reminder may keep a due date that has already passed.
var reminderFields = []string{"Title", "Description", "Category", "Date", "Time"}

func (g *Gateway) getReminder(ctx context.Context, id string) (models.Reminder, error) {
	doc, err := g.store.Get(ctx, models.RemindersPath(g.userID), id)
	if err != nil {
		return models.Reminder{}, err
	}
	return documents.Reminder(doc)
}

func reminderFromInput(in models.ReminderInput) (models.Reminder, error) {
	due, ok := dates.Normalize(dates.Combine(in.Date, in.Time))
	if !ok {
		return models.Reminder{}, &validators.FieldError{Field: "date", Message: "is not a valid date", Err: validators.ErrInvalidDate}
	}
	return models.Reminder{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Category:    in.Category,
		Due:         &due,
	}, nil
}

// CreateReminder adds a reminder due at the given local date and time,
// which must not be in the past.
func (g *Gateway) CreateReminder(ctx context.Context, in models.ReminderInput) (Result[models.Reminder], error) {
	var reminder models.Reminder

	status, err := g.run(ctx, MutationReminder, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, in); err != nil {
				return err
			}
			var err error
			reminder, err = reminderFromInput(in)
			return err
		},
		commit: func(ctx context.Context) error {
			data, err := documents.EncodeReminder(reminder)
			if err != nil {
				return err
			}
			doc, err := g.store.Create(ctx, models.RemindersPath(g.userID), "", data)
			if err != nil {
				return err
			}
			reminder.ID = doc.ID
			return nil
		},
		success: "Reminder added",
	})
	return finish(status, err, &reminder)
}

// UpdateReminder replaces the text, category and due instant of a
// reminder. Its completion flag is kept.
func (g *Gateway) UpdateReminder(ctx context.Context, id string, in models.ReminderInput) (Result[models.Reminder], error) {
	var reminder models.Reminder

	status, err := g.run(ctx, MutationReminder, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, in, reminderFields...); err != nil {
				return err
			}
			current, err := g.getReminder(ctx, id)
			if err != nil {
				return err
			}
			if reminder, err = reminderFromInput(in); err != nil {
				return err
			}
			reminder.ID, reminder.Completed = id, current.Completed
			return nil
		},
		confirm: "Save the changes to this reminder?",
		commit: func(ctx context.Context) error {
			data, err := documents.EncodeReminder(reminder)
			if err != nil {
				return err
			}
			_, err = g.store.Update(ctx, models.RemindersPath(g.userID), id, data)
			return err
		},
		success: "Reminder updated",
	})
	return finish(status, err, &reminder)
}

// SetReminderCompleted flips the completion flag without asking.
func (g *Gateway) SetReminderCompleted(ctx context.Context, id string, completed bool) (Result[models.Reminder], error) {
	var reminder models.Reminder

	status, err := g.run(ctx, MutationReminder, plan{
		validate: func(ctx context.Context) error {
			var err error
			reminder, err = g.getReminder(ctx, id)
			return err
		},
		commit: func(ctx context.Context) error {
			reminder.Completed = completed
			data, err := documents.EncodeReminder(reminder)
			if err != nil {
				return err
			}
			_, err = g.store.Update(ctx, models.RemindersPath(g.userID), id, data)
			return err
		},
	})
	return finish(status, err, &reminder)
}

// DeleteReminder removes a reminder.
func (g *Gateway) DeleteReminder(ctx context.Context, id string) (Result[string], error) {
	status, err := g.run(ctx, MutationReminder, plan{
		validate: func(ctx context.Context) error {
			_, err := g.getReminder(ctx, id)
			return err
		},
		confirm: "Delete this reminder?",
		commit: func(ctx context.Context) error {
			return g.store.Delete(ctx, models.RemindersPath(g.userID), id)
		},
		success: "Reminder deleted",
	})
	return finish(status, err, &id)
}
