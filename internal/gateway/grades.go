package gateway

import (
	"context"
	"strings"

	"github.com/MKhiriev/go-study-keeper/internal/documents"
	"github.com/MKhiriev/go-study-keeper/models"
)

func (g *Gateway) getGrade(ctx context.Context, subjectID, id string) (models.GradeEntry, error) {
	doc, err := g.store.Get(ctx, models.GradesPath(g.userID, subjectID), id)
	if err != nil {
		return models.GradeEntry{}, err
	}
	return documents.Grade(doc)
}

// AddGrade records a grade for a subject, stamped with the current instant.
func (g *Gateway) AddGrade(ctx context.Context, subjectID string, in models.GradeEntry) (Result[models.GradeEntry], error) {
	var out models.GradeEntry
	entry := in
	entry.Name = strings.TrimSpace(entry.Name)

	status, err := g.run(ctx, MutationGrade, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, entry); err != nil {
				return err
			}
			_, err := g.getSubject(ctx, subjectID)
			return err
		},
		commit: func(ctx context.Context) error {
			now := g.now()
			entry.CreatedAt = &now
			data, err := documents.EncodeGrade(entry)
			if err != nil {
				return err
			}
			doc, err := g.store.Create(ctx, models.GradesPath(g.userID, subjectID), "", data)
			if err != nil {
				return err
			}
			out = entry
			out.ID = doc.ID
			return nil
		},
		success: "Grade added",
	})
	return finish(status, err, &out)
}

// UpdateGrade changes the name and score of a grade. The creation instant
// is kept.
func (g *Gateway) UpdateGrade(ctx context.Context, subjectID string, in models.GradeEntry) (Result[models.GradeEntry], error) {
	var out models.GradeEntry
	entry := in
	entry.Name = strings.TrimSpace(entry.Name)

	status, err := g.run(ctx, MutationGrade, plan{
		validate: func(ctx context.Context) error {
			if err := g.validate(ctx, entry); err != nil {
				return err
			}
			current, err := g.getGrade(ctx, subjectID, entry.ID)
			if err != nil {
				return err
			}
			entry.CreatedAt = current.CreatedAt
			return nil
		},
		confirm: "Save the changes to this grade?",
		commit: func(ctx context.Context) error {
			data, err := documents.EncodeGrade(entry)
			if err != nil {
				return err
			}
			if _, err := g.store.Update(ctx, models.GradesPath(g.userID, subjectID), entry.ID, data); err != nil {
				return err
			}
			out = entry
			return nil
		},
		success: "Grade updated",
	})
	return finish(status, err, &out)
}

// DeleteGrade removes one grade.
func (g *Gateway) DeleteGrade(ctx context.Context, subjectID, id string) (Result[string], error) {
	status, err := g.run(ctx, MutationGrade, plan{
		validate: func(ctx context.Context) error {
			_, err := g.getGrade(ctx, subjectID, id)
			return err
		},
		confirm: "Delete this grade?",
		commit: func(ctx context.Context) error {
			return g.store.Delete(ctx, models.GradesPath(g.userID, subjectID), id)
		},
		success: "Grade deleted",
	})
	return finish(status, err, &id)
}
