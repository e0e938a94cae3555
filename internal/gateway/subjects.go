package gateway

import (
	"context"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-study-keeper/internal/documents"
	"github.com/MKhiriev/go-study-keeper/internal/palette"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

func (g *Gateway) listSubjects(ctx context.Context) ([]models.Subject, error) {
	docs, err := g.store.List(ctx, models.SubjectsPath(g.userID))
	if err != nil {
		return nil, err
	}

	subjects := make([]models.Subject, 0, len(docs))
	for _, doc := range docs {
		s, err := documents.Subject(doc)
		if err != nil {
			g.log.Warn().Err(err).Str("id", doc.ID).Msg("skipping malformed subject")
			continue
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

func (g *Gateway) getSubject(ctx context.Context, id string) (models.Subject, error) {
	doc, err := g.store.Get(ctx, models.SubjectsPath(g.userID), id)
	if err != nil {
		return models.Subject{}, err
	}
	return documents.Subject(doc)
}

func trimSubject(s *models.Subject) {
	s.Name = strings.TrimSpace(s.Name)
	s.Instructor = strings.TrimSpace(s.Instructor)
	s.Term = strings.TrimSpace(s.Term)
}

// CreateSubject adds a subject. Its colour is drawn once from the palette
// at max(colorIndex)+1 and never changes afterwards.
func (g *Gateway) CreateSubject(ctx context.Context, in models.Subject) (Result[models.Subject], error) {
	var out models.Subject
	subject := in
	trimSubject(&subject)

	status, err := g.run(ctx, MutationSubject, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, subject); err != nil {
				return err
			}
			existing, err := g.listSubjects(ctx)
			if err != nil {
				return err
			}
			if err := validators.CheckDuplicateName(subject.Name, existing, ""); err != nil {
				return err
			}
			palette.Assign(&subject, palette.NextSubjectIndex(existing))
			return nil
		},
		commit: func(ctx context.Context) error {
			subject.ID = ""
			data, err := documents.EncodeSubject(subject)
			if err != nil {
				return err
			}
			doc, err := g.store.Create(ctx, models.SubjectsPath(g.userID), "", data)
			if err != nil {
				return err
			}
			out = subject
			out.ID = doc.ID
			return nil
		},
		success: "Subject added",
	})
	return finish(status, err, &out)
}

// UpdateSubject changes the name, instructor and term of a subject. The
// colour is kept.
func (g *Gateway) UpdateSubject(ctx context.Context, in models.Subject) (Result[models.Subject], error) {
	var out models.Subject
	subject := in
	trimSubject(&subject)

	status, err := g.run(ctx, MutationSubject, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, subject); err != nil {
				return err
			}
			current, err := g.getSubject(ctx, subject.ID)
			if err != nil {
				return err
			}
			existing, err := g.listSubjects(ctx)
			if err != nil {
				return err
			}
			if err := validators.CheckDuplicateName(subject.Name, existing, subject.ID); err != nil {
				return err
			}
			subject.Color, subject.BorderColor, subject.ColorIndex = current.Color, current.BorderColor, current.ColorIndex
			return nil
		},
		confirm: fmt.Sprintf("Save the changes to %q?", subject.Name),
		commit: func(ctx context.Context) error {
			data, err := documents.EncodeSubject(subject)
			if err != nil {
				return err
			}
			if _, err := g.store.Update(ctx, models.SubjectsPath(g.userID), subject.ID, data); err != nil {
				return err
			}
			out = subject
			return nil
		},
		success: "Subject updated",
	})
	return finish(status, err, &out)
}

// DeleteSubject removes a subject together with its grades.
func (g *Gateway) DeleteSubject(ctx context.Context, id string) (Result[string], error) {
	status, err := g.run(ctx, MutationSubject, plan{
		validate: func(ctx context.Context) error {
			_, err := g.getSubject(ctx, id)
			return err
		},
		confirm: "Delete this subject and all of its grades? This cannot be undone.",
		commit: func(ctx context.Context) error {
			return g.store.Delete(ctx, models.SubjectsPath(g.userID), id)
		},
		success: "Subject deleted",
	})
	return finish(status, err, &id)
}

// BackfillSubjectColors gives every subject without a stored colour one,
// in name order, after the highest index in use. It returns the number of
// subjects updated.
func (g *Gateway) BackfillSubjectColors(ctx context.Context) (Result[int], error) {
	var missing []models.Subject
	var updated int

	status, err := g.run(ctx, MutationBackfill, plan{
		validate: func(ctx context.Context) error {
			subjects, err := g.listSubjects(ctx)
			if err != nil {
				return err
			}
			missing = palette.Backfill(subjects)
			return nil
		},
		commit: func(ctx context.Context) error {
			for _, s := range missing {
				data, err := documents.EncodeSubject(s)
				if err != nil {
					return err
				}
				if _, err := g.store.Update(ctx, models.SubjectsPath(g.userID), s.ID, data); err != nil {
					return err
				}
				updated++
			}
			return nil
		},
	})
	return finish(status, err, &updated)
}
