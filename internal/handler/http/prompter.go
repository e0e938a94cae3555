package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/MKhiriev/go-study-keeper/models"
)

const (
	confirmHeader    = "X-Confirm"
	credentialHeader = "X-Credential"
)

// headerPrompter answers gateway prompts from request headers. X-Confirm
// holds one answer per confirmation, in the order they are asked; a list
// may be split across comma-separated values or repeated headers.
// X-Credential holds the current password; an empty value cancels.
type headerPrompter struct {
	confirms      []string
	credential    string
	hasCredential bool

	messages []string
}

func newHeaderPrompter(r *http.Request) *headerPrompter {
	p := &headerPrompter{}
	for _, v := range r.Header.Values(confirmHeader) {
		for _, answer := range strings.Split(v, ",") {
			if answer = strings.TrimSpace(answer); answer != "" {
				p.confirms = append(p.confirms, answer)
			}
		}
	}
	if values, ok := r.Header[http.CanonicalHeaderKey(credentialHeader)]; ok && len(values) > 0 {
		p.credential = values[0]
		p.hasCredential = true
	}
	return p
}

func (p *headerPrompter) Confirm(_ context.Context, prompt models.Prompt) (bool, error) {
	if len(p.confirms) == 0 {
		return false, &PromptRequiredError{Prompt: prompt, Header: confirmHeader}
	}
	answer := p.confirms[0]
	p.confirms = p.confirms[1:]

	switch strings.ToLower(answer) {
	case "yes", "y", "true", "1", "si", "sí":
		return true, nil
	default:
		return false, nil
	}
}

func (p *headerPrompter) Credential(_ context.Context, prompt models.Prompt) (models.Credential, bool, error) {
	if !p.hasCredential {
		return models.Credential{}, false, &PromptRequiredError{Prompt: prompt, Header: credentialHeader}
	}
	if p.credential == "" {
		return models.Credential{}, false, nil
	}
	return models.Credential{Password: p.credential}, true, nil
}

func (p *headerPrompter) Inform(_ context.Context, message string) {
	p.messages = append(p.messages, message)
}

// message returns the last success message, if any.
func (p *headerPrompter) message() string {
	if len(p.messages) == 0 {
		return ""
	}
	return p.messages[len(p.messages)-1]
}
