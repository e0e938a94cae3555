package http

import (
	"context"
	"net/http"
	"time"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/notify"
	"github.com/MKhiriev/go-study-keeper/internal/service"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/models"
)

// readyTimeout bounds how long a read waits for a freshly opened session to
// load. After it the partial view is returned with Loaded=false.
const readyTimeout = 3 * time.Second

const dashboardEvent = "dashboard"

// ready waits for the first load of sess. A timeout is not an error.
func ready(r *http.Request, sess *service.Session) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if err := sess.Ready(ctx); err != nil {
		logger.FromRequest(r).Debug().Err(err).Msg("session not loaded yet")
	}
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ready(r, sess)

	utils.WriteJSON(w, sess.Dashboard(), http.StatusOK)
}

func (h *Handler) notifications(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ready(r, sess)

	active := sess.ActiveReminders()
	if active == nil {
		active = []models.Reminder{}
	}
	utils.WriteJSON(w, models.Notifications{
		Active: active,
		Count:  len(active),
		Badge:  notify.Badge(len(active)),
	}, http.StatusOK)
}

// stream pushes the dashboard as server-sent events: the current one first,
// then one after every change. Bursts are coalesced to the latest dashboard.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if _, ok := w.(http.Flusher); !ok {
		log.Error().Str("func", "*Handler.stream").Msg("response writer does not support flushing")
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	updates := make(chan models.Dashboard, 1)
	stop := sess.Watch(func(d models.Dashboard) {
		for {
			select {
			case updates <- d:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	})
	defer stop()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := utils.WriteEvent(w, dashboardEvent, sess.Dashboard()); err != nil {
		log.Err(err).Str("func", "*Handler.stream").Msg("error writing event")
		return
	}

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Msg("dashboard stream closed by client")
			return
		case d := <-updates:
			if err := utils.WriteEvent(w, dashboardEvent, d); err != nil {
				log.Err(err).Str("func", "*Handler.stream").Msg("error writing event")
				return
			}
		}
	}
}
