package water

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// ModEnv is the environment visible to modulation expressions.
type ModEnv struct {
	Time   float64 // seconds since start
	Millis float64
}

func (ModEnv) Sin(x float64) float64           { return math.Sin(x) }
func (ModEnv) Cos(x float64) float64           { return math.Cos(x) }
func (ModEnv) Abs(x float64) float64           { return math.Abs(x) }
func (ModEnv) Clamp(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) }

// Modulated parameter names.
const (
	ParamWaveHeight = "wave_height"
	ParamWaveSpeed  = "wave_speed"
	ParamOpacity    = "opacity"
)

type modulation struct {
	param   string
	src     string
	program *vm.Program
	last    float64
	valid   bool
	warned  bool
}

// Modulator drives water parameters from expressions of time, evaluated
// once per frame.
type Modulator struct {
	mods []*modulation
}

// NewModulator compiles one expression per parameter name. Empty sources are
// skipped.
func NewModulator(exprs map[string]string) (*Modulator, error) {
	names := make([]string, 0, len(exprs))
	for name := range exprs {
		names = append(names, name)
	}
	sort.Strings(names)

	m := &Modulator{}
	for _, name := range names {
		src := exprs[name]
		if src == "" {
			continue
		}
		switch name {
		case ParamWaveHeight, ParamWaveSpeed, ParamOpacity:
		default:
			return nil, fmt.Errorf("modulate %q: unknown parameter", name)
		}
		prog, err := Compile(src)
		if err != nil {
			return nil, fmt.Errorf("modulate %q: %w", name, err)
		}
		m.mods = append(m.mods, &modulation{param: name, src: src, program: prog})
	}
	return m, nil
}

// Compile checks an expression against ModEnv and requires a numeric result.
func Compile(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(ModEnv{}), expr.AsFloat64())
}

// Len reports how many parameters are modulated.
func (m *Modulator) Len() int {
	if m == nil {
		return 0
	}
	return len(m.mods)
}

// Apply evaluates every expression at t seconds and writes the results into
// p. A parameter whose expression fails keeps its last good value, or the
// value already in p if it never succeeded.
func (m *Modulator) Apply(p *Params, t float64) {
	if m == nil {
		return
	}
	env := ModEnv{Time: t, Millis: t * 1000}
	for _, mod := range m.mods {
		v, err := mod.eval(env)
		if err != nil {
			if !mod.warned {
				slog.Warn("water modulation failed", "param", mod.param, "expr", mod.src, "error", err)
				mod.warned = true
			}
			if !mod.valid {
				continue
			}
			v = mod.last
		}
		switch mod.param {
		case ParamWaveHeight:
			p.WaveHeight = v
		case ParamWaveSpeed:
			p.WaveSpeed = v
		case ParamOpacity:
			p.Opacity = v
		}
	}
}

func (mod *modulation) eval(env ModEnv) (float64, error) {
	out, err := vm.Run(mod.program, env)
	if err != nil {
		return 0, err
	}
	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("result %T is not a number", out)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("result %v is not finite", v)
	}
	mod.last = v
	mod.valid = true
	return v, nil
}
