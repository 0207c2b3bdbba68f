package connection

import (
	"math"

	"github.com/lixenwraith/particlefield/parameter"
	"github.com/lixenwraith/particlefield/particle"
	"github.com/lixenwraith/particlefield/vmath"
)

// Edge links two live particles closer than the connection threshold
// A < B always holds; the pair is unordered
type Edge struct {
	A, B int
	// Strength is 1 - distance/maxDistance, in [0,1]
	Strength float64
}

// Window returns how many forward neighbors in store order each particle is checked against
// Monotonic in frequency; at n-1 the scan degenerates to full pairwise
func Window(frequency float64, n int) int {
	if !(frequency > 0) || n < 2 {
		return 0
	}
	w := math.Ceil(frequency * parameter.ConnectionWindowScale)
	if w >= float64(n-1) {
		return n - 1
	}
	return int(w)
}

// BuildEdges returns this frame's edges, cost is O(n × Window(frequency, n))
func BuildEdges(ps []particle.Particle, maxDistance, frequency float64) []Edge {
	return appendEdges(nil, ps, maxDistance, frequency)
}

// Builder reuses one edge buffer across frames
// The slice returned by Build is valid until the next Build call
type Builder struct {
	buf []Edge
}

// Build computes edges into the reused buffer
func (b *Builder) Build(ps []particle.Particle, maxDistance, frequency float64) []Edge {
	b.buf = appendEdges(b.buf[:0], ps, maxDistance, frequency)
	return b.buf
}

func appendEdges(dst []Edge, ps []particle.Particle, maxDistance, frequency float64) []Edge {
	window := Window(frequency, len(ps))
	if window == 0 || !(maxDistance > 0) {
		return dst
	}

	maxSq := maxDistance * maxDistance
	n := len(ps)
	for i := 0; i < n-1; i++ {
		pi := ps[i].Pos
		end := min(i+window, n-1)
		for j := i + 1; j <= end; j++ {
			dsq := vmath.V2FDistSq(pi, ps[j].Pos)
			if dsq > maxSq {
				continue
			}
			dst = append(dst, Edge{
				A:        i,
				B:        j,
				Strength: vmath.Clamp01(1 - math.Sqrt(dsq)/maxDistance),
			})
		}
	}
	return dst
}
