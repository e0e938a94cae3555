package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-study-keeper/internal/gateway"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/service"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

var errorStatusMap = map[error]int{
	ErrEmptyAuthorizationHeader:   http.StatusUnauthorized,
	ErrInvalidAuthorizationHeader: http.StatusUnauthorized,
	ErrEmptyToken:                 http.StatusUnauthorized,
	ErrNoSession:                  http.StatusUnauthorized,
	ErrInvalidJSON:                http.StatusBadRequest,
	ErrInvalidUpload:              http.StatusBadRequest,
	utils.ErrEmptyBody:            http.StatusBadRequest,

	service.ErrInvalidDataProvided:     http.StatusBadRequest,
	service.ErrWrongPassword:           http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrVersionIsNotSpecified:   http.StatusBadRequest,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,
	service.ErrSessionsClosed:          http.StatusServiceUnavailable,
	service.ErrGradesLoading:           http.StatusServiceUnavailable,

	store.ErrLoginAlreadyExists: http.StatusConflict,
	store.ErrNoUserWasFound:     http.StatusUnauthorized,
	store.ErrDocumentNotFound:   http.StatusNotFound,
	store.ErrDocumentExists:     http.StatusConflict,
	store.ErrPermissionDenied:   http.StatusForbidden,
	store.ErrTransient:          http.StatusServiceUnavailable,
}

var kindStatusMap = map[gateway.Kind]int{
	gateway.KindValidation:     http.StatusUnprocessableEntity,
	gateway.KindAuthChallenge:  http.StatusForbidden,
	gateway.KindConflict:       http.StatusConflict,
	gateway.KindPermission:     http.StatusForbidden,
	gateway.KindTransientStore: http.StatusServiceUnavailable,
	gateway.KindStaleSession:   http.StatusUnauthorized,
	gateway.KindUnknown:        http.StatusInternalServerError,
}

func statusFromError(err error) int {
	var promptErr *PromptRequiredError
	if errors.As(err, &promptErr) {
		return http.StatusPreconditionRequired
	}

	var gatewayErr *gateway.Error
	if errors.As(err, &gatewayErr) {
		return kindStatusMap[gatewayErr.Kind]
	}

	var fieldErr *validators.FieldError
	if errors.As(err, &fieldErr) {
		return http.StatusUnprocessableEntity
	}

	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// errorResponse builds the JSON body for err. Internal failures never leak
// their message.
func errorResponse(err error, status int) models.ErrorResponse {
	var gatewayErr *gateway.Error
	if errors.As(err, &gatewayErr) {
		return models.ErrorResponse{Kind: gatewayErr.Kind.String(), Field: gatewayErr.Field, Message: gatewayErr.Msg}
	}

	var fieldErr *validators.FieldError
	if errors.As(err, &fieldErr) {
		return models.ErrorResponse{Kind: gateway.KindValidation.String(), Field: fieldErr.Field, Message: fieldErr.Message}
	}

	switch status {
	case http.StatusInternalServerError:
		return models.ErrorResponse{Kind: gateway.KindUnknown.String(), Message: http.StatusText(status)}
	case http.StatusUnauthorized:
		return models.ErrorResponse{Kind: gateway.KindStaleSession.String(), Message: err.Error()}
	case http.StatusConflict:
		return models.ErrorResponse{Kind: gateway.KindConflict.String(), Message: err.Error()}
	case http.StatusForbidden:
		return models.ErrorResponse{Kind: gateway.KindPermission.String(), Message: err.Error()}
	case http.StatusServiceUnavailable:
		return models.ErrorResponse{Kind: gateway.KindTransientStore.String(), Message: err.Error()}
	default:
		return models.ErrorResponse{Kind: "bad_request", Message: err.Error()}
	}
}

// writeError answers the request with the status and body derived from err.
// An unanswered prompt is sent back as 428 with the question.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)

	var promptErr *PromptRequiredError
	if errors.As(err, &promptErr) {
		log.Debug().Str("header", promptErr.Header).Str("prompt", string(promptErr.Prompt.Kind)).Msg("answer required")
		utils.WriteJSON(w, models.PromptResponse{Prompt: promptErr.Prompt, Header: promptErr.Header}, http.StatusPreconditionRequired)
		return
	}

	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		log.Err(err).Int("status", status).Msg("request failed")
	} else {
		log.Warn().Err(err).Int("status", status).Msg("request rejected")
	}

	utils.WriteJSON(w, errorResponse(err, status), status)
}
