// Package readiness tracks whether the document engine has come up.
//
// The gateway process starts accepting HTTP traffic immediately; the monitor
// polls the engine in the background and flips the shared state exactly once,
// either to Ready or to Failed. Request middleware reads the state and never
// writes it.
package readiness

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"tikagate/internal/config"
	"tikagate/internal/domain"
	"tikagate/internal/port"
)

// StateObserver receives the terminal state when the monitor transitions.
type StateObserver func(domain.ServiceState)

// Monitor polls the engine until it answers, then parks. The zero state is
// Starting; transitions are one-shot, so a Ready engine is never demoted even
// if it later goes down. Per-request failures surface through the forwarding
// path instead.
type Monitor struct {
	engine    port.DocumentEngine
	interval  time.Duration
	attempts  int
	log       *logrus.Entry
	observers []StateObserver

	state atomic.Int32
}

// NewMonitor creates a monitor for the given engine. Observers are invoked
// from the polling goroutine on the single state transition.
func NewMonitor(engine port.DocumentEngine, cfg *config.TikaConfig, log *logrus.Entry, observers ...StateObserver) *Monitor {
	interval := cfg.ProbeInterval
	if interval == 0 {
		interval = 2 * time.Second
	}
	attempts := cfg.ProbeAttempts
	if attempts == 0 {
		attempts = 30
	}
	m := &Monitor{
		engine:    engine,
		interval:  interval,
		attempts:  attempts,
		log:       log,
		observers: observers,
	}
	m.state.Store(int32(domain.StateStarting))
	return m
}

// Start runs the probe loop until the engine answers, the attempt budget is
// exhausted, or ctx is canceled. It is meant to run in its own goroutine and
// returns after the first terminal transition.
func (m *Monitor) Start(ctx context.Context) {
	m.log.WithFields(logrus.Fields{
		"interval": m.interval.String(),
		"attempts": m.attempts,
	}).Info("readiness: waiting for engine")

	for attempt := 1; attempt <= m.attempts; attempt++ {
		if m.engine.Probe(ctx) {
			m.transition(domain.StateReady)
			m.log.WithField("attempt", attempt).Info("readiness: engine is ready")
			return
		}
		m.log.WithFields(logrus.Fields{
			"attempt":  attempt,
			"attempts": m.attempts,
		}).Debug("readiness: engine not ready yet")

		if attempt == m.attempts {
			break
		}
		select {
		case <-ctx.Done():
			m.log.Info("readiness: shutting down before engine became ready")
			return
		case <-time.After(m.interval):
		}
	}

	m.transition(domain.StateFailed)
	m.log.WithField("attempts", m.attempts).Error("readiness: engine failed to become ready")
}

// State returns the current engine state.
func (m *Monitor) State() domain.ServiceState {
	return domain.ServiceState(m.state.Load())
}

// Ready reports whether the engine has been confirmed reachable.
func (m *Monitor) Ready() bool {
	return m.State() == domain.StateReady
}

func (m *Monitor) transition(next domain.ServiceState) {
	if !m.state.CompareAndSwap(int32(domain.StateStarting), int32(next)) {
		return
	}
	for _, observe := range m.observers {
		observe(next)
	}
}
