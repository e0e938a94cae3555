package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-study-keeper/internal/documents"
	"github.com/MKhiriev/go-study-keeper/internal/gateway"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/mock"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/models"
)

const sessionUser int64 = 21

// docsByPath is a mutable in-memory answer for DocumentStore.List.
type docsByPath struct {
	mu   sync.Mutex
	docs map[string][]models.Document
}

func (d *docsByPath) list(_ context.Context, path string) ([]models.Document, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.Document(nil), d.docs[path]...), nil
}

func (d *docsByPath) set(path string, docs ...models.Document) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.docs[path] = docs
}

type sessionFixture struct {
	sessions *Sessions
	docs     *docsByPath
	feed     *store.LocalFeed
	clock    *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
	return c.now
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	docs := &docsByPath{docs: make(map[string][]models.Document)}
	st := mock.NewMockDocumentStore(ctrl)
	st.EXPECT().List(gomock.Any(), gomock.Any()).DoAndReturn(docs.list).AnyTimes()

	clock := &fakeClock{now: time.Date(2025, 6, 1, 8, 0, 0, 0, time.Local)}
	feed := store.NewLocalFeed()
	sessions := NewSessions(SessionDeps{
		Store:     st,
		Feed:      feed,
		Auth:      mock.NewMockAuthenticator(ctrl),
		Files:     mock.NewMockFileStorage(ctrl),
		Threshold: 3.0,
		Log:       logger.Nop(),
		Now:       clock.Now,
	})
	t.Cleanup(sessions.Close)

	return &sessionFixture{sessions: sessions, docs: docs, feed: feed, clock: clock}
}

func reminderDoc(t *testing.T, id string, due time.Time) models.Document {
	t.Helper()
	data, err := documents.EncodeReminder(models.Reminder{Title: id, Category: models.CategoryExam, Due: &due})
	require.NoError(t, err)
	return models.Document{Path: models.RemindersPath(sessionUser), ID: id, UserID: sessionUser, Data: data}
}

func profileDoc(t *testing.T, name string) models.Document {
	t.Helper()
	data, err := documents.EncodeProfile(models.Profile{DisplayName: name})
	require.NoError(t, err)
	return models.Document{Path: models.ProfilePath(sessionUser), ID: models.ProfileDocID, UserID: sessionUser, Data: data}
}

func waitReady(t *testing.T, sess *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, sess.Ready(ctx))
}

func TestSessions_AcquireReusesSession(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, err := f.sessions.Acquire(ctx, sessionUser)
	require.NoError(t, err)
	second, err := f.sessions.Acquire(ctx, sessionUser)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, f.sessions.Len())
	assert.Equal(t, sessionUser, first.UserID())
}

func TestSession_DashboardAfterLoad(t *testing.T) {
	f := newSessionFixture(t)
	f.docs.set(models.ProfilePath(sessionUser), profileDoc(t, "Lucía Gómez"))
	f.docs.set(models.RemindersPath(sessionUser),
		reminderDoc(t, "past", f.clock.Now().Add(-time.Hour)),
		reminderDoc(t, "future", f.clock.Now().Add(time.Hour)),
	)

	sess, err := f.sessions.Acquire(context.Background(), sessionUser)
	require.NoError(t, err)
	waitReady(t, sess)

	assert.Eventually(t, func() bool {
		d := sess.Dashboard()
		return d.Loaded && d.Greeting == "Lucía" && d.Badge == "1"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Len(t, sess.ActiveReminders(), 1)
}

func TestSession_WatchSeesChangesAndTicks(t *testing.T) {
	f := newSessionFixture(t)
	sess, err := f.sessions.Acquire(context.Background(), sessionUser)
	require.NoError(t, err)
	waitReady(t, sess)

	updates := make(chan models.Dashboard, 16)
	stop := sess.Watch(func(d models.Dashboard) {
		select {
		case updates <- d:
		default:
		}
	})
	defer stop()

	// новое напоминание приходит через фид изменений
	f.docs.set(models.RemindersPath(sessionUser), reminderDoc(t, "soon", f.clock.Now().Add(30*time.Minute)))
	require.NoError(t, f.feed.Publish(context.Background(), models.RemindersPath(sessionUser)))

	waitFor(t, updates, func(d models.Dashboard) bool {
		return len(d.MarkedDays) == 1 && d.Badge == ""
	})

	// через час напоминание становится активным без изменения данных
	f.sessions.Tick(f.clock.Advance(time.Hour))
	waitFor(t, updates, func(d models.Dashboard) bool {
		return d.Badge == "1"
	})
}

func waitFor(t *testing.T, updates <-chan models.Dashboard, ok func(models.Dashboard) bool) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case d := <-updates:
			if ok(d) {
				return
			}
		case <-deadline:
			t.Fatal("dashboard update did not arrive")
		}
	}
}

func TestSessions_EvictIdle(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	watched, err := f.sessions.Acquire(ctx, sessionUser)
	require.NoError(t, err)
	stop := watched.Watch(func(models.Dashboard) {})

	_, err = f.sessions.Acquire(ctx, sessionUser+1)
	require.NoError(t, err)

	now := f.clock.Advance(time.Hour)
	assert.Equal(t, 1, f.sessions.EvictIdle(now, 30*time.Minute), "сессия с подписчиком не вытесняется")
	assert.Equal(t, 1, f.sessions.Len())

	stop()
	assert.Equal(t, 0, f.sessions.EvictIdle(now, 30*time.Minute), "простой считается с момента отписки")
	assert.Equal(t, 1, f.sessions.EvictIdle(f.clock.Advance(time.Hour), 30*time.Minute))
	assert.Equal(t, 0, f.sessions.Len())
}

func TestSession_GatewaySharesStateMachine(t *testing.T) {
	f := newSessionFixture(t)
	sess, err := f.sessions.Acquire(context.Background(), sessionUser)
	require.NoError(t, err)

	a := sess.Gateway(nil)
	b := sess.Gateway(nil)
	assert.Equal(t, gateway.StateIdle, a.State(gateway.MutationSubject))
	assert.Equal(t, a.State(gateway.MutationNote), b.State(gateway.MutationNote))
}

func TestSessions_DropAndClose(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.sessions.Acquire(ctx, sessionUser)
	require.NoError(t, err)
	f.sessions.Drop(sessionUser)
	assert.Equal(t, 0, f.sessions.Len())

	f.sessions.Close()
	_, err = f.sessions.Acquire(ctx, sessionUser)
	assert.ErrorIs(t, err, ErrSessionsClosed)
}
