package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-study-keeper/internal/palette"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/models"
)

const noteIDParam = "noteID"

func (h *Handler) listNotes(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ready(r, sess)

	utils.WriteJSON(w, sess.Dashboard().Notes, http.StatusOK)
}

// notePalette lists the colours a note can be recoloured to, by index.
func (h *Handler) notePalette(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, palette.Notes(), http.StatusOK)
}

func (h *Handler) createNote(w http.ResponseWriter, r *http.Request) {
	var in models.Note
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.CreateNote(r.Context(), in)
	writeMutation(w, r, p, res, err, http.StatusCreated)
}

func (h *Handler) updateNote(w http.ResponseWriter, r *http.Request) {
	var in models.Note
	if !decode(w, r, &in) {
		return
	}
	in.ID = chi.URLParam(r, noteIDParam)
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.UpdateNote(r.Context(), in)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) recolorNote(w http.ResponseWriter, r *http.Request) {
	var in models.ColorChoice
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.RecolorNote(r.Context(), chi.URLParam(r, noteIDParam), in.Index)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) deleteNote(w http.ResponseWriter, r *http.Request) {
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.DeleteNote(r.Context(), chi.URLParam(r, noteIDParam))
	writeMutation(w, r, p, res, err, http.StatusOK)
}
