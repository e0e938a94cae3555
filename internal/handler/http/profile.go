package http

import (
	"io"
	"mime"
	"net/http"

	"github.com/MKhiriev/go-study-keeper/internal/gateway"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/models"
)

const avatarField = "avatar"

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	ready(r, sess)

	profile := sess.State().Profile
	if profile == nil {
		writeError(w, r, store.ErrDocumentNotFound)
		return
	}
	utils.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var in models.ProfileUpdate
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.UpdateProfile(r.Context(), in)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) changeEmail(w http.ResponseWriter, r *http.Request) {
	var in models.EmailChange
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.ChangeEmail(r.Context(), in)
	h.dropIfSignedOut(r, res.SignedOut)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) changePhone(w http.ResponseWriter, r *http.Request) {
	var in models.PhoneChange
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.ChangePhone(r.Context(), in)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var in models.PasswordChange
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.ChangePassword(r.Context(), in)
	h.dropIfSignedOut(r, res.SignedOut)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

func (h *Handler) setTwoFactor(w http.ResponseWriter, r *http.Request) {
	var in models.Toggle
	if !decode(w, r, &in) {
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.SetTwoFactor(r.Context(), in.Enabled)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

// uploadAvatar accepts either a multipart form with an "avatar" file or the
// raw image as the request body. The content type is sniffed from the bytes.
func (h *Handler) uploadAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	image, err := readAvatar(r)
	if err != nil {
		log.Err(err).Str("func", "*Handler.uploadAvatar").Msg("error reading upload")
		writeError(w, r, err)
		return
	}
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.UploadAvatar(r.Context(), http.DetectContentType(image), image)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

// readAvatar reads at most one byte more than the gateway accepts, so an
// oversized upload is still reported as too large.
func readAvatar(r *http.Request) ([]byte, error) {
	const limit = gateway.MaxAvatarSize + 1

	body := io.Reader(r.Body)
	if mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mediaType == "multipart/form-data" {
		file, _, err := r.FormFile(avatarField)
		if err != nil {
			return nil, ErrInvalidUpload
		}
		defer file.Close()
		body = file
	}

	image, err := io.ReadAll(io.LimitReader(body, limit))
	if err != nil {
		return nil, err
	}
	if len(image) == 0 {
		return nil, ErrInvalidUpload
	}
	return image, nil
}

func (h *Handler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	g, p, ok := h.gateway(w, r)
	if !ok {
		return
	}

	res, err := g.DeleteAccount(r.Context())
	h.dropIfSignedOut(r, res.SignedOut)
	writeMutation(w, r, p, res, err, http.StatusOK)
}

// dropIfSignedOut closes the live session once a mutation ended it.
func (h *Handler) dropIfSignedOut(r *http.Request, signedOut bool) {
	if !signedOut {
		return
	}
	if id, err := userID(r); err == nil {
		h.services.Sessions.Drop(id)
	}
}
