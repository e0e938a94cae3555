package realtime

import (
	"context"
	"sync"

	"golang.org/x/text/collate"

	"github.com/MKhiriev/go-study-keeper/internal/documents"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/models"
)

// Sync mirrors the collections of one signed-in user.
//
// Every subscription opened by SetUser is tagged with the epoch it was
// opened in. Switching users bumps the epoch, so snapshots of the previous
// user that are still in flight are discarded instead of overwriting the
// new user's views.
//
// Listeners registered with OnChange are called with a copy of the state
// after every applied snapshot, one at a time and in apply order. They must
// not call SetUser or Close.
type Sync struct {
	reg *Registry
	log *logger.Logger

	// delivery serializes apply and listener notification.
	delivery sync.Mutex

	mu        sync.Mutex
	epoch     uint64
	state     State
	top       []*Handle
	children  map[string]*Handle
	ready     chan struct{}
	readyDone bool
	listeners map[int]func(State)
	nextID    int
	collator  *collate.Collator
	closed    bool
}

// NewSync constructs a signed-out Sync reading from src and reloading on
// feed notifications.
func NewSync(src Source, feed Feed, log *logger.Logger) *Sync {
	return &Sync{
		reg:       NewRegistry(src, feed, log),
		log:       log,
		state:     emptyState(0),
		children:  make(map[string]*Handle),
		ready:     make(chan struct{}),
		listeners: make(map[int]func(State)),
		collator:  newCollator(),
	}
}

// SetUser switches the mirrored user. Every previous subscription is torn
// down before new ones are opened. userID 0 signs out: nothing is
// subscribed and every view reports not loaded.
func (s *Sync) SetUser(ctx context.Context, userID int64) error {
	s.delivery.Lock()
	defer s.delivery.Unlock()

	s.mu.Lock()
	s.epoch++
	s.teardownLocked()
	s.state = emptyState(userID)
	s.ready = make(chan struct{})
	s.readyDone = false

	var err error
	if userID != 0 && !s.closed {
		if err = s.openLocked(ctx, s.epoch, userID); err != nil {
			s.teardownLocked()
			s.state = emptyState(0)
		}
	}
	state := s.state.clone()
	fns := s.listenersLocked()
	s.mu.Unlock()

	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "*Sync.SetUser").Int64("user_id", userID).Msg("error opening subscriptions")
	}
	for _, fn := range fns {
		fn(state)
	}
	return err
}

func (s *Sync) openLocked(ctx context.Context, epoch uint64, userID int64) error {
	collections := []struct {
		path  string
		apply func(models.Snapshot) bool
	}{
		{models.SubjectsPath(userID), s.applySubjects},
		{models.RemindersPath(userID), s.applyReminders},
		{models.NotesPath(userID), s.applyNotes},
		{models.ProfilePath(userID), s.applyProfile},
	}

	for _, c := range collections {
		h, err := s.reg.Subscribe(ctx, userID, c.path, s.deliver(epoch, c.apply))
		if err != nil {
			return err
		}
		s.top = append(s.top, h)
	}
	return nil
}

func (s *Sync) teardownLocked() {
	for _, h := range s.top {
		h.Close()
	}
	s.top = nil
	for id, h := range s.children {
		h.Close()
		delete(s.children, id)
	}
}

// deliver wraps apply so that it only runs for the epoch it was opened in.
func (s *Sync) deliver(epoch uint64, apply func(models.Snapshot) bool) func(models.Snapshot) {
	return func(snap models.Snapshot) {
		s.delivery.Lock()
		defer s.delivery.Unlock()

		s.mu.Lock()
		if s.closed || epoch != s.epoch || !apply(snap) {
			s.mu.Unlock()
			return
		}
		state := s.state.clone()
		if !s.readyDone && state.Loaded() {
			s.readyDone = true
			close(s.ready)
		}
		fns := s.listenersLocked()
		s.mu.Unlock()

		for _, fn := range fns {
			fn(state)
		}
	}
}

func (s *Sync) applySubjects(snap models.Snapshot) bool {
	subjects := decodeAll(s.log, snap.Documents, documents.Subject)
	sortSubjects(s.collator, subjects)
	s.state.Subjects = loaded(subjects)

	want := subjectIDs(subjects)
	for id, h := range s.children {
		if _, ok := want[id]; !ok {
			h.Close()
			delete(s.children, id)
			delete(s.state.Grades, id)
		}
	}

	userID := s.state.UserID
	ctx := s.log.WithContext(context.Background())
	for id := range want {
		if _, ok := s.children[id]; ok {
			continue
		}

		var h *Handle
		subjectID := id
		apply := func(snap models.Snapshot) bool {
			if s.children[subjectID] != h {
				return false
			}
			entries := decodeAll(s.log, snap.Documents, documents.Grade)
			sortGrades(entries)
			s.state.Grades[subjectID] = loaded(entries)
			return true
		}

		var err error
		h, err = s.reg.Subscribe(ctx, userID, models.GradesPath(userID, subjectID), s.deliver(s.epoch, apply))
		if err != nil {
			s.log.Err(err).Str("func", "*Sync.applySubjects").Str("subject_id", subjectID).Msg("error subscribing to grades")
			continue
		}
		s.children[subjectID] = h
	}
	return true
}

func (s *Sync) applyReminders(snap models.Snapshot) bool {
	reminders := decodeAll(s.log, snap.Documents, documents.Reminder)
	sortReminders(reminders)
	s.state.Reminders = loaded(reminders)
	return true
}

func (s *Sync) applyNotes(snap models.Snapshot) bool {
	s.state.Notes = loaded(decodeAll(s.log, snap.Documents, documents.Note))
	return true
}

func (s *Sync) applyProfile(snap models.Snapshot) bool {
	s.state.Profile = nil
	s.state.ProfileLoaded = true
	for _, doc := range snap.Documents {
		if doc.ID != models.ProfileDocID {
			continue
		}
		p, err := documents.Profile(doc)
		if err != nil {
			s.log.Warn().Err(err).Str("func", "*Sync.applyProfile").Msg("skipping malformed profile")
			break
		}
		s.state.Profile = &p
	}
	return true
}

// decodeAll decodes every document, skipping the malformed ones.
func decodeAll[T any](log *logger.Logger, docs []models.Document, decode func(models.Document) (T, error)) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		v, err := decode(doc)
		if err != nil {
			log.Warn().Err(err).Str("func", "decodeAll").
				Str("path", doc.Path).Str("id", doc.ID).
				Msg("skipping malformed document")
			continue
		}
		out = append(out, v)
	}
	return out
}

func (s *Sync) listenersLocked() []func(State) {
	fns := make([]func(State), 0, len(s.listeners))
	for id := 0; id < s.nextID; id++ {
		if fn, ok := s.listeners[id]; ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

// OnChange registers fn until the returned function is called.
func (s *Sync) OnChange(fn func(State)) (remove func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Snapshot returns a copy of the current state.
func (s *Sync) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// UserID returns the mirrored user, 0 when signed out.
func (s *Sync) UserID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.UserID
}

// Ready blocks until every collection of the current user, including the
// grades of each subject, has been loaded once.
func (s *Sync) Ready(ctx context.Context) error {
	s.mu.Lock()
	userID, ready := s.state.UserID, s.ready
	s.mu.Unlock()

	if userID == 0 {
		return ErrSignedOut
	}
	select {
	case <-ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signs out and releases the registry. A closed Sync ignores
// SetUser.
func (s *Sync) Close() {
	s.delivery.Lock()
	defer s.delivery.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	s.epoch++
	s.teardownLocked()
	s.state = emptyState(0)
	s.reg.Close()
}
