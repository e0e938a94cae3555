// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-study-keeper/internal/config"
	"github.com/MKhiriev/go-study-keeper/internal/logger"
)

// orderWorker records Run and Stop calls into a shared log.
type orderWorker struct {
	id  int
	log *[]string
}

func (o *orderWorker) Run(context.Context) {
	*o.log = append(*o.log, "run", string(rune('0'+o.id)))
}

func (o *orderWorker) Stop() {
	*o.log = append(*o.log, "stop", string(rune('0'+o.id)))
}

// fakeSessions counts clock callbacks.
type fakeSessions struct {
	mu      sync.Mutex
	ticks   int
	evicted int
	ttls    []time.Duration
}

func (f *fakeSessions) Tick(time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticks++
}

func (f *fakeSessions) EvictIdle(_ time.Time, ttl time.Duration) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evicted++
	f.ttls = append(f.ttls, ttl)
	return 1
}

func (f *fakeSessions) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ticks, f.evicted
}

func TestWorkers_RunAndStopOrder(t *testing.T) {
	var log []string
	ws := &Workers{workers: []Worker{
		&orderWorker{id: 1, log: &log},
		&orderWorker{id: 2, log: &log},
	}}

	ws.Run(context.Background())
	ws.Stop()

	assert.Equal(t, []string{"run", "1", "run", "2", "stop", "2", "stop", "1"}, log)
}

func TestWorkers_Empty(t *testing.T) {
	ws := &Workers{}

	// пустой список не должен паниковать
	ws.Run(context.Background())
	ws.Stop()
}

func TestNewWorkers_DrivesSessions(t *testing.T) {
	sessions := &fakeSessions{}
	ws := NewWorkers(sessions, config.Workers{
		ClockInterval:  5 * time.Millisecond,
		SessionIdleTTL: 10 * time.Millisecond,
	}, logger.Nop())
	require.Len(t, ws.workers, 2)

	ws.Run(context.Background())
	defer ws.Stop()

	assert.Eventually(t, func() bool {
		ticks, evicted := sessions.counts()
		return ticks >= 2 && evicted >= 1
	}, 2*time.Second, 5*time.Millisecond)

	sessions.mu.Lock()
	assert.Equal(t, 10*time.Millisecond, sessions.ttls[0])
	sessions.mu.Unlock()
}

func TestReminderClock_StopsWithContext(t *testing.T) {
	sessions := &fakeSessions{}
	c := NewReminderClock(sessions, 5*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	c.Run(ctx)
	assert.Eventually(t, func() bool {
		ticks, _ := sessions.counts()
		return ticks > 0
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	c.Stop()

	ticks, _ := sessions.counts()
	time.Sleep(20 * time.Millisecond)
	after, _ := sessions.counts()
	assert.Equal(t, ticks, after, "после остановки тиков быть не должно")
}

func TestSessionReaper_Stop(t *testing.T) {
	sessions := &fakeSessions{}
	r := NewSessionReaper(sessions, time.Hour, logger.Nop())

	r.Run(context.Background())
	assert.True(t, r.clock.Running())
	r.Stop()
	assert.False(t, r.clock.Running())

	_, evicted := sessions.counts()
	assert.Zero(t, evicted)
}
