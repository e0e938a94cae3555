package adapter

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-study-keeper/models"
)

var statusErrors = map[int]error{
	http.StatusBadRequest:           ErrBadRequest,
	http.StatusUnauthorized:         ErrUnauthorized,
	http.StatusForbidden:            ErrForbidden,
	http.StatusNotFound:             ErrNotFound,
	http.StatusConflict:             ErrConflict,
	http.StatusPreconditionRequired: ErrPromptRequired,
	http.StatusUnprocessableEntity:  ErrValidation,
	http.StatusServiceUnavailable:   ErrUnavailable,
	http.StatusInternalServerError:  ErrInternalServerError,
}

// mapHTTPError turns a non-2xx response into a sentinel error carrying the
// server's message.
func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	msg := errorMessage(resp.Body())
	if msg == "" {
		msg = http.StatusText(code)
	}

	if sentinel, ok := statusErrors[code]; ok {
		return fmt.Errorf("%w: %s", sentinel, msg)
	}
	return fmt.Errorf("http %d: %s", code, msg)
}

func errorMessage(body []byte) string {
	var er models.ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Message != "" {
		if er.Field != "" {
			return er.Field + ": " + er.Message
		}
		return er.Message
	}

	var pr models.PromptResponse
	if err := json.Unmarshal(body, &pr); err == nil && pr.Header != "" {
		return fmt.Sprintf("%s (answer with %s)", pr.Prompt.Message, pr.Header)
	}

	return strings.TrimSpace(string(body))
}
