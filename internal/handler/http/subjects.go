package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-study-keeper/internal/service"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/models"
)

const (
	subjectIDParam = "subjectID"
	gradeIDParam   = "gradeID"
)

// listSubjects returns the subject cards with their grades and averages.
func (h *Handler) listSubjects(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ready(r, sess)

	utils.WriteJSON(w, sess.Dashboard().Subjects, http.StatusOK)
}

// subjectSummary finds the card of the subject in the URL.
func (h *Handler) subjectSummary(w http.ResponseWriter, r *http.Request) (models.SubjectSummary, bool) {
	sess, ok := h.session(w, r)
	if !ok {
		return models.SubjectSummary{}, false
	}
	ready(r, sess)

	id := chi.URLParam(r, subjectIDParam)
	for _, s := range sess.Dashboard().Subjects {
		if s.Subject.ID == id {
			return s, true
		}
	}
	writeError(w, r, store.ErrDocumentNotFound)
	return models.SubjectSummary{}, false
}

func (h *Handler) getSubject(w http.ResponseWriter, r *http.Request) {
	if summary, ok := h.subjectSummary(w, r); ok {
		utils.WriteJSON(w, summary, http.StatusOK)
	}
}

func (h *Handler) requiredScore(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.subjectSummary(w, r)
	if !ok {
		return
	}
	if !summary.Loaded {
		writeError(w, r, service.ErrGradesLoading)
		return
	}
	utils.WriteJSON(w, summary.Required, http.StatusOK)
}

func (h *Handler) listGrades(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.subjectSummary(w, r)
	if !ok {
		return
	}
	if !summary.Loaded {
		writeError(w, r, service.ErrGradesLoading)
		return
	}
	utils.WriteJSON(w, summary.Grades, http.StatusOK)
}

func (h *Handler) createSubject(w http.ResponseWriter, r *http.Request) {
	var in models.Subject
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.CreateSubject(r.Context(), in)
	writeMutation(w, r, p, res, err, http.StatusCreated)
}

func (h *Handler) updateSubject(w http.ResponseWriter, r *http.Request) {
	var in models.Subject
	if !decode(w, r, &in) {
		return
	}
	in.ID = chi.URLParam(r, subjectIDParam)
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.UpdateSubject(r.Context(), in)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) deleteSubject(w http.ResponseWriter, r *http.Request) {
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.DeleteSubject(r.Context(), chi.URLParam(r, subjectIDParam))
	writeMutation(w, r, p, res, err, http.StatusOK)
}

// backfillColors persists palette colours on subjects that predate them.
func (h *Handler) backfillColors(w http.ResponseWriter, r *http.Request) {
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.BackfillSubjectColors(r.Context())
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) addGrade(w http.ResponseWriter, r *http.Request) {
	var in models.GradeEntry
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.AddGrade(r.Context(), chi.URLParam(r, subjectIDParam), in)
	writeMutation(w, r, p, res, err, http.StatusCreated)
}

func (h *Handler) updateGrade(w http.ResponseWriter, r *http.Request) {
	var in models.GradeEntry
	if !decode(w, r, &in) {
		return
	}
	in.ID = chi.URLParam(r, gradeIDParam)
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.UpdateGrade(r.Context(), chi.URLParam(r, subjectIDParam), in)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) deleteGrade(w http.ResponseWriter, r *http.Request) {
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.DeleteGrade(r.Context(), chi.URLParam(r, subjectIDParam), chi.URLParam(r, gradeIDParam))
	writeMutation(w, r, p, res, err, http.StatusOK)
}
