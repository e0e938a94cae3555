package gateway

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-study-keeper/internal/documents"
	"github.com/MKhiriev/go-study-keeper/internal/palette"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

// noteDateLayout is the display format of a note's creation date.
const noteDateLayout = "02/01/2006"

func (g *Gateway) getNote(ctx context.Context, id string) (models.Note, error) {
	doc, err := g.store.Get(ctx, models.NotesPath(g.userID), id)
	if err != nil {
		return models.Note{}, err
	}
	return documents.Note(doc)
}

func trimNote(n *models.Note) {
	n.Title = strings.TrimSpace(n.Title)
	n.SubjectLabel = strings.TrimSpace(n.SubjectLabel)
	n.Content = strings.TrimSpace(n.Content)
}

// CreateNote adds a note coloured by the number of notes that already
// exist.
func (g *Gateway) CreateNote(ctx context.Context, in models.Note) (Result[models.Note], error) {
	var out models.Note
	note := in
	trimNote(&note)

	status, err := g.run(ctx, MutationNote, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, note); err != nil {
				return err
			}
			existing, err := g.store.List(ctx, models.NotesPath(g.userID))
			if err != nil {
				return err
			}
			c := palette.Note(len(existing))
			note.Color, note.BorderColor = c.Fill, c.Border
			note.CreatedAt = g.now().Format(noteDateLayout)
			return nil
		},
		commit: func(ctx context.Context) error {
			note.ID = ""
			data, err := documents.EncodeNote(note)
			if err != nil {
				return err
			}
			doc, err := g.store.Create(ctx, models.NotesPath(g.userID), "", data)
			if err != nil {
				return err
			}
			out = note
			out.ID = doc.ID
			return nil
		},
		success: "Note saved",
	})
	return finish(status, err, &out)
}

// UpdateNote changes the title, subject and content of a note.
func (g *Gateway) UpdateNote(ctx context.Context, in models.Note) (Result[models.Note], error) {
	var out models.Note
	note := in
	trimNote(&note)

	status, err := g.run(ctx, MutationNote, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, note); err != nil {
				return err
			}
			current, err := g.getNote(ctx, note.ID)
			if err != nil {
				return err
			}
			note.Color, note.BorderColor, note.CreatedAt = current.Color, current.BorderColor, current.CreatedAt
			return nil
		},
		confirm: "Save the changes to this note?",
		commit: func(ctx context.Context) error {
			data, err := documents.EncodeNote(note)
			if err != nil {
				return err
			}
			if _, err := g.store.Update(ctx, models.NotesPath(g.userID), note.ID, data); err != nil {
				return err
			}
			out = note
			return nil
		},
		success: "Note updated",
	})
	return finish(status, err, &out)
}

// RecolorNote moves a note to another slot of the note palette. Like a
// checkbox, it is applied without asking.
func (g *Gateway) RecolorNote(ctx context.Context, id string, index int) (Result[models.Note], error) {
	var note models.Note

	status, err := g.run(ctx, MutationNote, plan{
		validate: func(ctx context.Context) error {
			if index < 0 || index >= palette.NoteSize {
				return &validators.FieldError{Field: "colorIndex", Message: "is not a palette colour", Err: validators.ErrInvalidColor}
			}
			var err error
			note, err = g.getNote(ctx, id)
			return err
		},
		commit: func(ctx context.Context) error {
			c := palette.Note(index)
			note.Color, note.BorderColor = c.Fill, c.Border
			data, err := documents.EncodeNote(note)
			if err != nil {
				return err
			}
			_, err = g.store.Update(ctx, models.NotesPath(g.userID), id, data)
			return err
		},
	})
	return finish(status, err, &note)
}

// DeleteNote removes a note.
func (g *Gateway) DeleteNote(ctx context.Context, id string) (Result[string], error) {
	status, err := g.run(ctx, MutationNote, plan{
		validate: func(ctx context.Context) error {
			_, err := g.getNote(ctx, id)
			return err
		},
		confirm: "Delete this note? This cannot be undone.",
		commit: func(ctx context.Context) error {
			return g.store.Delete(ctx, models.NotesPath(g.userID), id)
		},
		success: "Note deleted",
	})
	return finish(status, err, &id)
}
