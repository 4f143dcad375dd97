// Package engine provides the turn-based simulation loop: players act
// in rotation, and a completed rotation advances the year.
package engine

import (
	"log/slog"
	"sync"
	"time"
)

// Engine drives the simulation forward, one player turn per step.
// Speed and the running flag are shared with the HTTP command plane,
// so they live behind the mutex.
type Engine struct {
	Interval time.Duration // Base turn interval (default 1 second)

	// OnTurn runs each step. Returning false leaves the turn open
	// (e.g. a force-vote ballot is still pending) and the step is
	// retried on the next interval.
	OnTurn func() bool

	mu      sync.Mutex
	speed   float64 // Multiplier: 1.0 = real-time, 0 = paused
	running bool
}

// NewEngine creates a simulation engine with default settings.
func NewEngine() *Engine {
	return &Engine{
		Interval: time.Second,
		speed:    1.0,
	}
}

// Speed returns the current speed multiplier.
func (e *Engine) Speed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.speed
}

// SetSpeed changes the speed multiplier. Zero pauses the loop.
func (e *Engine) SetSpeed(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speed = v
}

func (e *Engine) isRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Run starts the turn loop. Blocks until Stop() is called.
func (e *Engine) Run() {
	e.mu.Lock()
	e.running = true
	e.mu.Unlock()
	slog.Info("turn engine started", "speed", e.Speed())

	for e.isRunning() {
		speed := e.Speed()
		if speed <= 0 {
			// Paused — sleep briefly and check again.
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()

		if e.OnTurn != nil {
			e.OnTurn()
		}

		// Sleep for the remainder of the interval, adjusted for speed.
		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("turn engine stopped")
}

// Stop halts the turn loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}
