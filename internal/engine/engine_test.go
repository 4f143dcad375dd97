package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpeedAccessors(t *testing.T) {
	e := NewEngine()
	assert.Equal(t, 1.0, e.Speed())

	e.SetSpeed(4)
	assert.Equal(t, 4.0, e.Speed())
}

func TestRunStopsWhenAsked(t *testing.T) {
	e := NewEngine()
	e.Interval = time.Millisecond

	turns := 0
	e.OnTurn = func() bool {
		turns++
		e.Stop()
		return true
	}

	finished := make(chan struct{})
	go func() {
		e.Run()
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(5 * time.Second):
		t.Fatal("engine kept running after Stop")
	}
	assert.Equal(t, 1, turns)
}
