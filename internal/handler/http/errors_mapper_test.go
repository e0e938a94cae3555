package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-keeper/internal/gateway"
	"github.com/MKhiriev/go-study-keeper/internal/service"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"prompt", &PromptRequiredError{Header: confirmHeader}, http.StatusPreconditionRequired},
		{"validation kind", &gateway.Error{Kind: gateway.KindValidation}, http.StatusUnprocessableEntity},
		{"auth challenge", &gateway.Error{Kind: gateway.KindAuthChallenge}, http.StatusForbidden},
		{"conflict", &gateway.Error{Kind: gateway.KindConflict}, http.StatusConflict},
		{"permission", &gateway.Error{Kind: gateway.KindPermission}, http.StatusForbidden},
		{"transient", &gateway.Error{Kind: gateway.KindTransientStore}, http.StatusServiceUnavailable},
		{"stale session", &gateway.Error{Kind: gateway.KindStaleSession}, http.StatusUnauthorized},
		{"unknown kind", &gateway.Error{Kind: gateway.KindUnknown}, http.StatusInternalServerError},
		{"bare field error", &validators.FieldError{Field: "email", Err: validators.ErrInvalidEmail}, http.StatusUnprocessableEntity},
		{"wrapped sentinel", fmt.Errorf("lookup: %w", store.ErrLoginAlreadyExists), http.StatusConflict},
		{"token", service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},
		{"empty body", utils.ErrEmptyBody, http.StatusBadRequest},
		{"bad json", fmt.Errorf("%w: %w", ErrInvalidJSON, errors.New("unexpected EOF")), http.StatusBadRequest},
		{"closed", service.ErrSessionsClosed, http.StatusServiceUnavailable},
		{"anything else", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestErrorResponse_HidesInternalDetails(t *testing.T) {
	got := errorResponse(errors.New("pq: password authentication failed"), http.StatusInternalServerError)

	assert.Equal(t, "unknown", got.Kind)
	assert.Equal(t, http.StatusText(http.StatusInternalServerError), got.Message)
}

func TestErrorResponse_GatewayFields(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &gateway.Error{Kind: gateway.KindValidation, Field: "name", Msg: "is required"})

	got := errorResponse(err, statusFromError(err))

	assert.Equal(t, models.ErrorResponse{Kind: "validation", Field: "name", Message: "is required"}, got)
}

func TestWriteError_Prompt(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/notes/n1", nil)

	writeError(rec, req, &PromptRequiredError{Prompt: confirmPrompt, Header: confirmHeader})

	require.Equal(t, http.StatusPreconditionRequired, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"prompt":{"kind":"confirm","message":"¿Eliminar?"},"header":"X-Confirm"}`, rec.Body.String())
}
