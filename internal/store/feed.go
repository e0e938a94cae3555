package store

import (
	"context"
	"sync"
)

// LocalFeed is an in-process [ChangeFeed]. Subscribers are called
// synchronously in registration order and must not block.
type LocalFeed struct {
	mu     sync.RWMutex
	nextID int
	subs   map[int]func(path string)
}

// NewLocalFeed constructs an empty [LocalFeed].
func NewLocalFeed() *LocalFeed {
	return &LocalFeed{subs: make(map[int]func(string))}
}

// Publish delivers path to every current subscriber.
func (f *LocalFeed) Publish(_ context.Context, path string) error {
	f.broadcast(path)
	return nil
}

func (f *LocalFeed) broadcast(path string) {
	f.mu.RLock()
	fns := make([]func(string), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.RUnlock()

	for _, fn := range fns {
		fn(path)
	}
}

// Subscribe registers fn until the returned function is called. The
// returned function is idempotent.
func (f *LocalFeed) Subscribe(fn func(path string)) func() {
	f.mu.Lock()
	id := f.nextID
	f.nextID++
	f.subs[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, id)
			f.mu.Unlock()
		})
	}
}

// Close drops every subscriber.
func (f *LocalFeed) Close() error {
	f.mu.Lock()
	f.subs = make(map[int]func(string))
	f.mu.Unlock()
	return nil
}
