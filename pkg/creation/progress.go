package creation

import (
	"math"
	"time"
)

// progressTimeConstant controls how quickly the simulated estimate
// climbs. Generation typically takes 20-60s; with an 8s constant the
// bar reaches ~70% at 10s and crawls from there.
const progressTimeConstant = 8 * time.Second

// SimulatedProgress maps elapsed wall time to a cosmetic completion
// percentage. The generation API gives no real progress signal, so the
// estimate rises quickly at first and asymptotically approaches, but
// never reaches, 100. Completion snaps the bar to 100.
func SimulatedProgress(elapsed time.Duration) float64 {
	if elapsed <= 0 {
		return 0
	}
	estimate := 100 * (1 - math.Exp(-elapsed.Seconds()/progressTimeConstant.Seconds()))
	if estimate > 99 {
		return 99
	}
	return estimate
}
