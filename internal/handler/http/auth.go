package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/service"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if !decode(w, r, &user) {
		return
	}

	registeredUser, err := h.services.AuthService.RegisterUser(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "*Handler.register").Msg("user registration failed")
		writeError(w, r, err)
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, registeredUser)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		writeError(w, r, err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var user models.User
	if !decode(w, r, &user) {
		return
	}

	foundUser, err := h.services.AuthService.Login(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNoUserWasFound) || errors.Is(err, service.ErrWrongPassword):
			log.Err(err).Msg("no user was found/wrong password")
			writeError(w, r, service.ErrWrongPassword)
		default:
			log.Err(err).Msg("user login failed")
			writeError(w, r, err)
		}
		return
	}

	log.Debug().Int64("id", foundUser.UserID).Msg("user successfully logged in")

	token, err := h.services.AuthService.CreateToken(ctx, foundUser)
	if err != nil {
		log.Err(err).Msg("creation of token failed")
		writeError(w, r, err)
		return
	}

	w.Header().Set("Authorization", fmt.Sprintf("Bearer %s", token.SignedString))
	w.WriteHeader(http.StatusOK)
}

// logout invalidates every token of the user and closes the live session.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.AuthService.SignOut(r.Context(), id); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.logout").Msg("sign-out failed")
		writeError(w, r, err)
		return
	}
	h.services.Sessions.Drop(id)

	w.WriteHeader(http.StatusNoContent)
}

// passwordReset mails a reset link. The answer does not reveal whether the
// address is registered.
func (h *Handler) passwordReset(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordReset
	if !decode(w, r, &req) {
		return
	}

	p := newHeaderPrompter(r)
	res, err := h.services.Sessions.Anonymous(p).SendPasswordReset(r.Context(), req.Email)
	writeMutation(w, r, p, res, err, http.StatusAccepted)
}

// passwordResetConfirm stores the new password carried with a reset token.
func (h *Handler) passwordResetConfirm(w http.ResponseWriter, r *http.Request) {
	var req models.PasswordResetConfirm
	if !decode(w, r, &req) {
		return
	}

	if err := h.services.AuthService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "*Handler.passwordResetConfirm").Msg("password reset failed")
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
