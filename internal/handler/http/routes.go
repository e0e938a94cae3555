package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MKhiriev/go-study-keeper/internal/files"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)

	router.Route("/api", func(r chi.Router) {
		// server-sent events are flushed per event and bypass compression
		r.With(h.auth).Get("/stream", h.stream)

		r.Group(func(r chi.Router) {
			r.Use(withGZip)

			// routes without authorization
			r.Post("/user/register", h.register)
			r.Post("/user/login", h.login)
			r.Post("/user/password-reset", h.passwordReset)
			r.Post("/user/password-reset/confirm", h.passwordResetConfirm)
			r.Get("/version", h.getServerVersion)

			r.Group(func(r chi.Router) {
				r.Use(h.auth)

				r.Post("/user/logout", h.logout)

				r.Get("/dashboard", h.dashboard)
				r.Get("/notifications", h.notifications)

				r.Route("/subjects", func(r chi.Router) {
					r.Get("/", h.listSubjects)
					r.Post("/", h.createSubject)
					r.Post("/colors/backfill", h.backfillColors)

					r.Route("/{subjectID}", func(r chi.Router) {
						r.Get("/", h.getSubject)
						r.Put("/", h.updateSubject)
						r.Delete("/", h.deleteSubject)
						r.Get("/required-score", h.requiredScore)

						r.Get("/grades", h.listGrades)
						r.Post("/grades", h.addGrade)
						r.Put("/grades/{gradeID}", h.updateGrade)
						r.Delete("/grades/{gradeID}", h.deleteGrade)
					})
				})

				r.Route("/notes", func(r chi.Router) {
					r.Get("/", h.listNotes)
					r.Post("/", h.createNote)
					r.Get("/palette", h.notePalette)
					r.Put("/{noteID}", h.updateNote)
					r.Patch("/{noteID}/color", h.recolorNote)
					r.Delete("/{noteID}", h.deleteNote)
				})

				r.Route("/reminders", func(r chi.Router) {
					r.Get("/", h.listReminders)
					r.Post("/", h.createReminder)
					r.Get("/categories", h.reminderCategories)
					r.Put("/{reminderID}", h.updateReminder)
					r.Patch("/{reminderID}/completed", h.setReminderCompleted)
					r.Delete("/{reminderID}", h.deleteReminder)
				})

				r.Route("/profile", func(r chi.Router) {
					r.Get("/", h.getProfile)
					r.Put("/", h.updateProfile)
					r.Put("/email", h.changeEmail)
					r.Put("/phone", h.changePhone)
					r.Put("/password", h.changePassword)
					r.Put("/two-factor", h.setTwoFactor)
					r.Post("/avatar", h.uploadAvatar)
				})

				r.Delete("/account", h.deleteAccount)
			})
		})
	})

	// avatars stored on local disk
	if h.filesDir != "" {
		fs := http.StripPrefix(files.LocalURLPrefix, http.FileServer(http.Dir(h.filesDir)))
		router.Handle(files.LocalURLPrefix+"*", fs)
	}

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
