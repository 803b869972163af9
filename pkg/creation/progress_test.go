package creation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulatedProgress(t *testing.T) {
	assert.Zero(t, SimulatedProgress(0))
	assert.Zero(t, SimulatedProgress(-time.Second))

	// Monotonically increasing, always below 100.
	previous := 0.0
	for _, elapsed := range []time.Duration{
		time.Second,
		5 * time.Second,
		10 * time.Second,
		30 * time.Second,
	} {
		estimate := SimulatedProgress(elapsed)
		assert.Greater(t, estimate, previous, "estimate must keep climbing at %v", elapsed)
		assert.Less(t, estimate, 100.0, "estimate must never reach 100 at %v", elapsed)
		previous = estimate
	}

	// Fast early: over half done within the first ten seconds.
	assert.Greater(t, SimulatedProgress(10*time.Second), 50.0)
	// Long waits pin at the cap.
	assert.Equal(t, 99.0, SimulatedProgress(time.Hour))
}
