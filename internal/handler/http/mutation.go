package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/MKhiriev/go-study-keeper/internal/gateway"
	"github.com/MKhiriev/go-study-keeper/internal/service"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/models"
)

// session returns the live session of the signed-in user. On failure the
// error response has already been written.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*service.Session, bool) {
	id, err := userID(r)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}

	sess, err := h.services.Sessions.Acquire(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return nil, false
	}
	return sess, true
}

// gateway returns a mutation gateway of the signed-in user answering its
// prompts from the request headers.
func (h *Handler) gateway(w http.ResponseWriter, r *http.Request) (*gateway.Gateway, *headerPrompter, bool) {
	sess, ok := h.session(w, r)
	if !ok {
		return nil, nil, false
	}
	p := newHeaderPrompter(r)
	return sess.Gateway(p), p, true
}

// decode reads the JSON body into dst, answering 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := utils.DecodeJSON(r, dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, utils.ErrEmptyBody):
		writeError(w, r, err)
	default:
		writeError(w, r, fmt.Errorf("%w: %w", ErrInvalidJSON, err))
	}
	return false
}

// writeMutation writes the outcome of a gateway mutation. A cancelled
// mutation always answers 200; committed ones answer status.
func writeMutation[T any](w http.ResponseWriter, r *http.Request, p *headerPrompter, res gateway.Result[T], err error, status int) {
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := models.MutationResponse{Status: res.Status.String(), SignedOut: res.SignedOut}
	if res.Status == gateway.StatusCancelled {
		utils.WriteJSON(w, resp, http.StatusOK)
		return
	}

	resp.Value = res.Value
	resp.Message = p.message()
	utils.WriteJSON(w, resp, status)
}
