package status

import (
	"math"
	"sync/atomic"
)

// Gauge is a float metric cell such as fps or frame delta
type Gauge struct {
	bits atomic.Uint64
}

func (g *Gauge) Set(v float64) {
	g.bits.Store(math.Float64bits(v))
}

func (g *Gauge) Value() float64 {
	return math.Float64frombits(g.bits.Load())
}

// Smooth folds sample into an exponential moving average with weight alpha
// An unset gauge takes the first sample as-is
func (g *Gauge) Smooth(sample, alpha float64) float64 {
	for {
		old := g.bits.Load()
		next := sample
		if old != 0 {
			cur := math.Float64frombits(old)
			next = cur + alpha*(sample-cur)
		}
		if g.bits.CompareAndSwap(old, math.Float64bits(next)) {
			return next
		}
	}
}
