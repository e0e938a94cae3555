package service

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-study-keeper/internal/gateway"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/notify"
	"github.com/MKhiriev/go-study-keeper/internal/realtime"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/validators"
	"github.com/MKhiriev/go-study-keeper/models"
)

// SessionDeps are shared by every live session.
type SessionDeps struct {
	Store     store.DocumentStore
	Feed      store.ChangeFeed
	Auth      gateway.Authenticator
	Files     gateway.FileStorage
	Validator validators.Validator
	// Threshold is the passing average used by the dashboard.
	Threshold float64
	Log       *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Sessions keeps one live session per signed-in user: a realtime mirror of
// the user's collections, the reminder tracker fed by it and the mutation
// state machine shared by all of the user's requests.
type Sessions struct {
	deps SessionDeps

	mu     sync.Mutex
	live   map[int64]*Session
	closed bool
}

// NewSessions constructs an empty session set.
func NewSessions(deps SessionDeps) *Sessions {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	return &Sessions{deps: deps, live: make(map[int64]*Session)}
}

// Acquire returns the live session of userID, opening it on first use.
func (s *Sessions) Acquire(ctx context.Context, userID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionsClosed
	}
	if sess, ok := s.live[userID]; ok {
		sess.touch(s.deps.Now())
		return sess, nil
	}

	sess := newSession(userID, s.deps)
	if err := sess.sync.SetUser(ctx, userID); err != nil {
		sess.close()
		return nil, err
	}
	s.live[userID] = sess

	logger.FromContext(ctx).Info().Int64("user_id", userID).Msg("live session opened")
	return sess, nil
}

// Drop closes the live session of userID, if any. Watchers receive no more
// updates.
func (s *Sessions) Drop(userID int64) {
	s.mu.Lock()
	sess, ok := s.live[userID]
	delete(s.live, userID)
	s.mu.Unlock()

	if ok {
		sess.close()
	}
}

// Tick re-evaluates the active reminders of every live session at now.
func (s *Sessions) Tick(now time.Time) {
	for _, sess := range s.snapshot() {
		sess.tracker.Tick(now)
	}
}

// EvictIdle closes sessions unused since now-ttl that have no watchers. It
// returns the number of sessions closed.
func (s *Sessions) EvictIdle(now time.Time, ttl time.Duration) int {
	var idle []*Session

	s.mu.Lock()
	for id, sess := range s.live {
		if sess.idleSince(now, ttl) {
			idle = append(idle, sess)
			delete(s.live, id)
		}
	}
	s.mu.Unlock()

	for _, sess := range idle {
		sess.close()
		s.deps.Log.Debug().Int64("user_id", sess.userID).Msg("idle live session evicted")
	}
	return len(idle)
}

// Anonymous returns a gateway for mutations that need no signed-in user,
// such as requesting a password reset.
func (s *Sessions) Anonymous(p gateway.Prompter) *gateway.Gateway {
	return gateway.New(0, gateway.Dependencies{
		Store:     s.deps.Store,
		Auth:      s.deps.Auth,
		Files:     s.deps.Files,
		Validator: s.deps.Validator,
		Prompter:  p,
		Log:       s.deps.Log,
		Now:       s.deps.Now,
	})
}

// Len returns the number of live sessions.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

// Close closes every session. Acquire fails afterwards.
func (s *Sessions) Close() {
	s.mu.Lock()
	s.closed = true
	live := s.live
	s.live = make(map[int64]*Session)
	s.mu.Unlock()

	for _, sess := range live {
		sess.close()
	}
}

func (s *Sessions) snapshot() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Session, 0, len(s.live))
	for _, sess := range s.live {
		out = append(out, sess)
	}
	return out
}

// Session is the live state of one signed-in user.
type Session struct {
	userID  int64
	deps    SessionDeps
	sync    *realtime.Sync
	tracker *notify.Tracker
	machine *gateway.Machine

	mu       sync.Mutex
	state    realtime.State
	lastUsed time.Time
	watchers map[int]func(models.Dashboard)
	nextID   int
	closed   bool
}

func newSession(userID int64, deps SessionDeps) *Session {
	now := deps.Now()
	sess := &Session{
		userID:   userID,
		deps:     deps,
		sync:     realtime.NewSync(deps.Store, deps.Feed, deps.Log),
		tracker:  notify.NewTracker(now),
		machine:  gateway.NewMachine(),
		lastUsed: now,
		watchers: make(map[int]func(models.Dashboard)),
	}

	// Every applied snapshot feeds the tracker, and every tracker update
	// (snapshot or clock tick) is pushed to watchers.
	sess.sync.OnChange(func(state realtime.State) {
		sess.mu.Lock()
		sess.state = state
		sess.mu.Unlock()
		sess.tracker.SetReminders(state.Reminders.Items)
	})
	sess.tracker.OnUpdate(func(active []models.Reminder) {
		sess.broadcast(active)
	})
	return sess
}

// UserID returns the owner of the session.
func (s *Session) UserID() int64 {
	return s.userID
}

// Gateway returns a mutation gateway for one request, asking p.
func (s *Session) Gateway(p gateway.Prompter) *gateway.Gateway {
	s.touch(s.deps.Now())
	return gateway.New(s.userID, gateway.Dependencies{
		Store:     s.deps.Store,
		Auth:      s.deps.Auth,
		Files:     s.deps.Files,
		Validator: s.deps.Validator,
		Prompter:  p,
		Machine:   s.machine,
		Log:       s.deps.Log.WithUser(s.userID),
		Now:       s.deps.Now,
	})
}

// Ready waits until the user's collections have loaded once.
func (s *Session) Ready(ctx context.Context) error {
	return s.sync.Ready(ctx)
}

// State returns the mirrored collections.
func (s *Session) State() realtime.State {
	s.touch(s.deps.Now())
	return s.sync.Snapshot()
}

// ActiveReminders returns the reminders that are due and not completed.
func (s *Session) ActiveReminders() []models.Reminder {
	return s.tracker.Active()
}

// Dashboard derives the current dashboard.
func (s *Session) Dashboard() models.Dashboard {
	return BuildDashboard(s.State(), s.tracker.Active(), s.deps.Threshold)
}

// Watch calls fn with a fresh dashboard after every change until the
// returned function is called. fn must not block.
func (s *Session) Watch(fn func(models.Dashboard)) (stop func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.lastUsed = s.deps.Now()
		s.mu.Unlock()
	}
}

func (s *Session) broadcast(active []models.Reminder) {
	s.mu.Lock()
	if s.closed || len(s.watchers) == 0 {
		s.mu.Unlock()
		return
	}
	dashboard := BuildDashboard(s.state, active, s.deps.Threshold)
	fns := make([]func(models.Dashboard), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(dashboard)
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastUsed = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time, ttl time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watchers) == 0 && now.Sub(s.lastUsed) >= ttl
}

func (s *Session) close() {
	s.mu.Lock()
	s.closed = true
	s.watchers = make(map[int]func(models.Dashboard))
	s.mu.Unlock()

	s.sync.Close()
}
