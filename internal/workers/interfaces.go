// Package workers runs the background jobs of the server: the clock that
// re-evaluates active reminders and the reaper that closes idle live
// sessions. The Workers aggregate starts and stops them together.
package workers

import (
	"context"
	"time"
)

// Worker is a background job. Run starts it and returns immediately; the job
// stops when ctx is cancelled or Stop is called.
type Worker interface {
	Run(ctx context.Context)
	Stop()
}

// SessionSet is the part of the live session set the workers drive.
type SessionSet interface {
	Tick(now time.Time)
	EvictIdle(now time.Time, ttl time.Duration) int
}
