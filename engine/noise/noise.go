package noise

import (
	"fmt"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/ojrac/opensimplex-go"
)

// Backend names accepted by New.
const (
	BackendSimplex = "simplex"
	BackendPerlin  = "perlin"
	BackendFlat    = "flat"
)

// Noise2 samples a deterministic 2D scalar field. Values lie roughly in [-1, 1].
type Noise2 func(x, y float64) float64

// Flat is the zero field.
func Flat(x, y float64) float64 { return 0 }

// NewSimplex returns OpenSimplex noise for the given seed.
func NewSimplex(seed int64) Noise2 {
	n := opensimplex.New(seed)
	return n.Eval2
}

// NewPerlin returns three-octave Perlin noise for the given seed.
func NewPerlin(seed int64) Noise2 {
	p := perlin.NewPerlin(2, 2, 3, seed)
	return p.Noise2D
}

// New builds the named backend. An unknown name is an error; callers that
// must not fail can wrap the result of a failed lookup with Safe(nil).
func New(backend string, seed int64) (Noise2, error) {
	switch backend {
	case BackendSimplex, "":
		return NewSimplex(seed), nil
	case BackendPerlin:
		return NewPerlin(seed), nil
	case BackendFlat:
		return Flat, nil
	default:
		return nil, fmt.Errorf("unknown noise backend %q", backend)
	}
}

// Safe wraps fn so that it never fails: a nil function, a panic, or a
// non-finite sample all read as 0 (flat ground).
func Safe(fn Noise2) Noise2 {
	if fn == nil {
		return Flat
	}
	return func(x, y float64) (v float64) {
		defer func() {
			if recover() != nil {
				v = 0
			}
		}()
		v = fn(x, y)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}
}
