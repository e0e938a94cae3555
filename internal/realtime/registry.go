package realtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/MKhiriev/go-study-keeper/internal/logger"
	"github.com/MKhiriev/go-study-keeper/internal/store"
	"github.com/MKhiriev/go-study-keeper/internal/utils"
	"github.com/MKhiriev/go-study-keeper/models"
)

// Source loads the current content of a collection.
type Source interface {
	List(ctx context.Context, path string) ([]models.Document, error)
}

// Feed announces collections that changed.
type Feed interface {
	Subscribe(fn func(path string)) (unsubscribe func())
}

const (
	loadRetries     = 3
	loadBackoffBase = 50 * time.Millisecond
	// reloadDelay is how long a subscription waits before loading again
	// after every retry of a load has failed.
	reloadDelay = 500 * time.Millisecond
)

type subKey struct {
	userID int64
	path   string
}

// Registry delivers collection snapshots to subscribers. There is at most
// one live subscription per (user, path); subscribing again replaces it.
//
// Each subscription is served by its own goroutine. Change notifications
// that arrive while a snapshot is loading are coalesced into one reload, so
// subscribers always converge on the latest state.
type Registry struct {
	src  Source
	feed Feed
	log  *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	subs   map[subKey]*subscription
	unfeed func()
	closed bool
}

// NewRegistry constructs a Registry. feed may be nil, in which case only the
// initial snapshot is delivered.
func NewRegistry(src Source, feed Feed, log *logger.Logger) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		src:    src,
		feed:   feed,
		log:    log,
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[subKey]*subscription),
	}
}

// Handle cancels one subscription.
type Handle struct {
	reg *Registry
	sub *subscription
}

// Close stops the subscription. It is idempotent and never blocks; a
// delivery already running may finish, later ones are dropped.
func (h *Handle) Close() {
	if h == nil {
		return
	}
	h.reg.remove(h.sub)
}

type subscription struct {
	key      subKey
	onChange func(models.Snapshot)
	kick     chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	closed   atomic.Bool
	seq      uint64
}

func (s *subscription) stop() {
	if s.closed.CompareAndSwap(false, true) {
		s.cancel()
	}
}

// notify schedules a reload without blocking.
func (s *subscription) notify() {
	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Subscribe opens a live subscription to the collection at path on behalf of
// userID. onChange receives the initial snapshot and one snapshot per
// subsequent change, in order, never concurrently.
func (r *Registry) Subscribe(ctx context.Context, userID int64, path string, onChange func(models.Snapshot)) (*Handle, error) {
	if owner, ok := models.OwnerOf(path); !ok || userID <= 0 || owner != userID {
		return nil, ErrInvalidSubscription
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, ErrRegistryClosed
	}

	key := subKey{userID: userID, path: path}
	if prev, ok := r.subs[key]; ok {
		prev.stop()
		delete(r.subs, key)
	}

	subCtx, cancel := context.WithCancel(logger.FromContext(ctx).WithContext(r.ctx))
	sub := &subscription{
		key:      key,
		onChange: onChange,
		kick:     make(chan struct{}, 1),
		ctx:      utils.WithUserID(subCtx, userID),
		cancel:   cancel,
	}
	r.subs[key] = sub

	if r.unfeed == nil && r.feed != nil {
		r.unfeed = r.feed.Subscribe(r.changed)
	}

	go r.serve(sub)
	sub.notify()

	return &Handle{reg: r, sub: sub}, nil
}

func (r *Registry) remove(sub *subscription) {
	sub.stop()

	r.mu.Lock()
	if cur, ok := r.subs[sub.key]; ok && cur == sub {
		delete(r.subs, sub.key)
	}
	r.mu.Unlock()
}

// changed is the feed callback.
func (r *Registry) changed(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, sub := range r.subs {
		if key.path == path {
			sub.notify()
		}
	}
}

func (r *Registry) serve(sub *subscription) {
	var reload *time.Timer
	defer func() {
		if reload != nil {
			reload.Stop()
		}
	}()

	for {
		select {
		case <-sub.ctx.Done():
			return
		case <-sub.kick:
		}

		docs, err := r.load(sub.ctx, sub.key.path)
		if err != nil {
			if sub.ctx.Err() != nil {
				return
			}
			r.log.Err(err).Str("func", "*Registry.serve").Str("path", sub.key.path).
				Dur("retry_in", reloadDelay).Msg("error loading snapshot")
			// a failed load is retried without waiting for the next change
			if reload == nil {
				reload = time.AfterFunc(reloadDelay, sub.notify)
			} else {
				reload.Reset(reloadDelay)
			}
			continue
		}

		if sub.closed.Load() {
			return
		}
		sub.seq++
		sub.onChange(models.Snapshot{Path: sub.key.path, Seq: sub.seq, Documents: docs})
	}
}

// load lists path, retrying transient store failures with exponential backoff.
func (r *Registry) load(ctx context.Context, path string) ([]models.Document, error) {
	var docs []models.Document
	backoff := retry.WithMaxRetries(loadRetries, retry.NewExponential(loadBackoffBase))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var err error
		docs, err = r.src.List(ctx, path)
		if errors.Is(err, store.ErrTransient) {
			return retry.RetryableError(err)
		}
		return err
	})
	return docs, err
}

// Len returns the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// Close stops every subscription and detaches from the feed.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	for key, sub := range r.subs {
		sub.stop()
		delete(r.subs, key)
	}
	if r.unfeed != nil {
		r.unfeed()
		r.unfeed = nil
	}
	r.cancel()
}
