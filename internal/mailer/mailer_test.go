package mailer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
)

func TestNew_FallsBackToLog(t *testing.T) {
	m := New(config.Mail{Domain: "mg.example"}, logger.Nop())
	_, ok := m.(*LogMailer)
	assert.True(t, ok)

	assert.NoError(t, m.SendPasswordReset(context.Background(), "ana@uni.edu", "https://x/reset?token=t"))
}

func TestMailgun_SendPasswordReset(t *testing.T) {
	var (
		mu   sync.Mutex
		path string
		to   string
		text string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		path = r.URL.Path
		to = r.FormValue("to")
		text = r.FormValue("text")
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"<1@mg.example>","message":"Queued. Thank you."}`))
	}))
	defer srv.Close()

	m := NewMailgun("mg.example", "key-test", "no-reply@mg.example")
	m.SetAPIBase(srv.URL + "/v3")

	err := m.SendPasswordReset(context.Background(), "ana@uni.edu", "https://study.example/reset?token=abc")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, strings.HasSuffix(path, "/mg.example/messages"), path)
	assert.Equal(t, "ana@uni.edu", to)
	assert.Contains(t, text, "https://study.example/reset?token=abc")
}

func TestMailgun_SendFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"forbidden"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	m := NewMailgun("mg.example", "bad-key", "no-reply@mg.example")
	m.SetAPIBase(srv.URL + "/v3")

	assert.Error(t, m.SendPasswordReset(context.Background(), "ana@uni.edu", "link"))
}
