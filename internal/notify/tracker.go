package notify

import (
	"slices"
	"sync"
	"time"

	"github.com/MKhiriev/go-study-keeper/models"
)

// Tracker holds the active reminders of one user. It recomputes when the
// reminder collection changes and on every clock tick, both through
// [ActiveReminders], so the two triggers can never disagree.
type Tracker struct {
	// delivery keeps recomputation and callback delivery in one order, so
	// the last callback always carries the latest result.
	delivery sync.Mutex

	mu        sync.Mutex
	reminders []models.Reminder
	now       time.Time
	active    []models.Reminder
	onUpdate  func(active []models.Reminder)
}

// NewTracker constructs a Tracker evaluated at now.
func NewTracker(now time.Time) *Tracker {
	return &Tracker{now: now, active: []models.Reminder{}}
}

// OnUpdate registers fn to be called after every recomputation, one call
// at a time and in recomputation order. Only one callback is kept. fn must
// not call SetReminders or Tick.
func (t *Tracker) OnUpdate(fn func(active []models.Reminder)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onUpdate = fn
}

// SetReminders replaces the reminder collection and recomputes.
func (t *Tracker) SetReminders(reminders []models.Reminder) {
	t.delivery.Lock()
	defer t.delivery.Unlock()

	t.mu.Lock()
	t.reminders = slices.Clone(reminders)
	t.recomputeLocked()
}

// Tick advances the evaluation instant and recomputes.
func (t *Tracker) Tick(now time.Time) {
	t.delivery.Lock()
	defer t.delivery.Unlock()

	t.mu.Lock()
	t.now = now
	t.recomputeLocked()
}

// recomputeLocked must be entered with t.delivery and t.mu held. It
// releases t.mu before calling the callback.
func (t *Tracker) recomputeLocked() {
	active := ActiveReminders(t.reminders, t.now)
	t.active = active
	fn := t.onUpdate
	t.mu.Unlock()

	if fn != nil {
		fn(slices.Clone(active))
	}
}

// Active returns a copy of the active reminders.
func (t *Tracker) Active() []models.Reminder {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.active)
}

// Count returns the number of active reminders.
func (t *Tracker) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.active)
}

// Badge returns the badge text for the current count.
func (t *Tracker) Badge() string {
	return Badge(t.Count())
}
