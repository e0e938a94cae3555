package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/mock"
	"github.com/MKhiriev/go-study-keeper/internal/service"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

const (
	testUser  int64 = 42
	testToken       = "good-token"
)

var testNow = time.Date(2025, 6, 1, 10, 30, 0, 0, time.Local)

type fixture struct {
	router   http.Handler
	auth     *mock.MockAuthService
	appInfo  *mock.MockAppInfoService
	store    *mock.MockDocumentStore
	files    *mock.MockFileStorage
	sessions *service.Sessions
}

// newFixture собирает роутер с живыми сессиями поверх моков хранилища и
// сервиса аутентификации. Все коллекции пользователя пусты.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		auth:    mock.NewMockAuthService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
		store:   mock.NewMockDocumentStore(ctrl),
		files:   mock.NewMockFileStorage(ctrl),
	}
	f.store.EXPECT().List(gomock.Any(), gomock.Any()).Return([]models.Document{}, nil).AnyTimes()
	f.auth.EXPECT().ParseToken(gomock.Any(), testToken).Return(models.Token{UserID: testUser}, nil).AnyTimes()

	now := func() time.Time { return testNow }
	f.sessions = service.NewSessions(service.SessionDeps{
		Store:     f.store,
		Feed:      store.NewLocalFeed(),
		Auth:      f.auth,
		Files:     f.files,
		Validator: validators.NewStudyValidator(now),
		Threshold: models.DefaultPassingThreshold,
		Log:       logger.Nop(),
		Now:       now,
	})
	t.Cleanup(f.sessions.Close)

	h := NewHandler(&service.Services{
		AuthService:    f.auth,
		AppInfoService: f.appInfo,
		Sessions:       f.sessions,
		Threshold:      models.DefaultPassingThreshold,
	}, t.TempDir(), logger.Nop())
	f.router = h.Init()
	return f
}

// do sends a request through the full router. body is JSON-encoded unless
// it is already a string.
func (f *fixture) do(t *testing.T, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		var buf bytes.Buffer
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
		reader = &buf
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func authed(extra ...string) map[string]string {
	h := map[string]string{"Authorization": "Bearer " + testToken}
	for i := 0; i+1 < len(extra); i += 2 {
		h[extra[i]] = extra[i+1]
	}
	return h
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// ── NewHandler ───────────────────────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()
	h := NewHandler(svc, "/var/avatars", log)

	require.NotNil(t, h)
	assert.Same(t, svc, h.services)
	assert.Equal(t, "/var/avatars", h.filesDir)
	assert.Equal(t, log, h.logger)
}

// ── version ──────────────────────────────────────────────────────────────────

func TestGetServerVersion(t *testing.T) {
	f := newFixture(t)
	f.appInfo.EXPECT().GetAppVersion(gomock.Any()).Return(models.VersionInfo{Version: "1.4.0", Commit: "abc123"})

	rec := f.do(t, http.MethodGet, "/api/version", nil, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[models.VersionInfo](t, rec)
	assert.Equal(t, "1.4.0", got.Version)
	assert.Equal(t, "abc123", got.Commit)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader))
}

// ── routing ──────────────────────────────────────────────────────────────────

func TestInit_ProtectedRoutesRequireToken(t *testing.T) {
	f := newFixture(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/dashboard"},
		{http.MethodGet, "/api/stream"},
		{http.MethodGet, "/api/notifications"},
		{http.MethodGet, "/api/subjects/"},
		{http.MethodPost, "/api/subjects/"},
		{http.MethodPut, "/api/subjects/s1/"},
		{http.MethodGet, "/api/subjects/s1/required-score"},
		{http.MethodPost, "/api/subjects/s1/grades"},
		{http.MethodDelete, "/api/subjects/s1/grades/g1"},
		{http.MethodPatch, "/api/notes/n1/color"},
		{http.MethodPatch, "/api/reminders/r1/completed"},
		{http.MethodPut, "/api/profile/email"},
		{http.MethodPost, "/api/profile/avatar"},
		{http.MethodDelete, "/api/account"},
		{http.MethodPost, "/api/user/logout"},
	}

	for _, rt := range routes {
		t.Run(rt.method+" "+rt.path, func(t *testing.T) {
			rec := f.do(t, rt.method, rt.path, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestInit_UnknownRouteIsNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/nothing-here", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// неподдерживаемый метод не раскрывает существование маршрута
	rec = f.do(t, http.MethodPatch, "/api/version", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInit_ServesLocalFiles(t *testing.T) {
	dir := t.TempDir()
	h := NewHandler(&service.Services{}, dir, logger.Nop())
	require.NoError(t, writeFile(dir+"/avatars/1.png", "png-bytes"))

	rec := httptest.NewRecorder()
	h.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/files/avatars/1.png", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())
}

// ── session helpers ──────────────────────────────────────────────────────────

func TestSession_ClosedSessionsAnswerUnavailable(t *testing.T) {
	f := newFixture(t)
	f.sessions.Close()

	rec := f.do(t, http.MethodGet, "/api/dashboard", nil, authed())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestDashboard_EmptyUser(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/dashboard", nil, authed())

	require.Equal(t, http.StatusOK, rec.Code)
	d := decodeBody[models.Dashboard](t, rec)
	assert.True(t, d.Loaded)
	assert.Equal(t, "Usuario", d.Greeting)
	assert.Equal(t, "-", d.OverallAverage)
	assert.Empty(t, d.Subjects)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestNotifications_Empty(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/notifications", nil, authed())

	require.Equal(t, http.StatusOK, rec.Code)
	n := decodeBody[models.Notifications](t, rec)
	assert.Equal(t, 0, n.Count)
	assert.Empty(t, n.Badge)
	assert.NotNil(t, n.Active)
}

func TestProfile_MissingIsNotFound(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/profile/", nil, authed())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStaticLists(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/reminders/categories", nil, authed())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"Exam", "Homework", "Presentation", "Administrative"}, decodeBody[[]string](t, rec))

	rec = f.do(t, http.MethodGet, "/api/notes/palette", nil, authed())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody[[]models.Color](t, rec))
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
