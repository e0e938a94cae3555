package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/models"
)

const reminderIDParam = "reminderID"

func (h *Handler) listReminders(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ready(r, sess)

	reminders := sess.State().Reminders.Items
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	utils.WriteJSON(w, reminders, http.StatusOK)
}

// reminderCategories lists the accepted categories in display order.
func (h *Handler) reminderCategories(w http.ResponseWriter, _ *http.Request) {
	utils.WriteJSON(w, models.ReminderCategories, http.StatusOK)
}

func (h *Handler) createReminder(w http.ResponseWriter, r *http.Request) {
	var in models.ReminderInput
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.CreateReminder(r.Context(), in)
	writeMutation(w, r, p, res, err, http.StatusCreated)
}

func (h *Handler) updateReminder(w http.ResponseWriter, r *http.Request) {
	var in models.ReminderInput
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.UpdateReminder(r.Context(), chi.URLParam(r, reminderIDParam), in)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) setReminderCompleted(w http.ResponseWriter, r *http.Request) {
	var in models.CompletedToggle
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.SetReminderCompleted(r.Context(), chi.URLParam(r, reminderIDParam), in.Completed)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) deleteReminder(w http.ResponseWriter, r *http.Request) {
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.DeleteReminder(r.Context(), chi.URLParam(r, reminderIDParam))
	writeMutation(w, r, p, res, err, http.StatusOK)
}
