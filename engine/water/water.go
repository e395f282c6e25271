// Package water animates the lake surface: a vertex stage that ripples a flat
// grid and a fragment stage that colours it with moving caustics and sparkle.
// The fragment stage is implemented twice, in Go here and in water.kage for
// the GPU; both must stay in step.
package water

import (
	_ "embed"
	"math"

	"github.com/1siamBot/peaceful-valley/engine/render3d"
)

// ShaderSource is the Kage fragment shader.
//
//go:embed water.kage
var ShaderSource []byte

// Params are the tunable surface settings, written once per frame.
type Params struct {
	ColorA     render3d.Color3 // shallow
	ColorB     render3d.Color3 // mid
	ColorC     render3d.Color3 // deep / caustic tint
	Opacity    float64
	WaveHeight float64
	WaveSpeed  float64
}

func DefaultParams() Params {
	return Params{
		ColorA:     render3d.Hex(0x4a9eff),
		ColorB:     render3d.Hex(0x1e88e5),
		ColorC:     render3d.Hex(0x0d47a1),
		Opacity:    0.75,
		WaveHeight: 0.15,
		WaveSpeed:  1.2,
	}
}

// RGBA is an unclamped straight-alpha colour. Sparkle may push RGB above 1.
type RGBA struct {
	R, G, B, A float64
}

// layerPhase holds each layer's time-phase multiplier of the base speed.
var layerPhase = [3]float64{1, 0.7, 1.3}

// waveLayers returns the three travelling sinusoids at plane coordinates (x, y).
func waveLayers(x, y, t, speed float64) [3]float64 {
	ts := t * speed
	return [3]float64{
		math.Sin(x*0.8+ts*layerPhase[0]) * 0.1,
		math.Cos(y*0.6+ts*layerPhase[1]) * 0.08,
		math.Sin((x+y)*0.4+ts*layerPhase[2]) * 0.06,
	}
}

// Wave is the sum of the three layers. Its magnitude never exceeds 0.24.
func Wave(x, y, t, speed float64) float64 {
	l := waveLayers(x, y, t, speed)
	return l[0] + l[1] + l[2]
}

// Displace returns the displaced height of a plane vertex and the raw wave
// value, which the fragment stage uses for depth colouring.
func Displace(pos render3d.Vec3, t float64, p Params) (z, wave float64) {
	wave = Wave(pos.X, pos.Y, t, p.WaveSpeed)
	return pos.Z + wave*p.WaveHeight, wave
}

// Caustic is the weighted blend of three moving interference patterns, in [0, 1].
func Caustic(u, v, t float64) float64 {
	c1 := math.Sin(u*25+t*2)*0.5 + 0.5
	c2 := math.Cos(v*18-t*1.5)*0.5 + 0.5
	c3 := math.Sin((u+v)*12+t*1.8)*0.5 + 0.5
	return c1*0.4 + c2*0.3 + c3*0.3
}

// Sparkle is a thresholded highlight in [0, 1].
func Sparkle(u, v, t float64) float64 {
	return render3d.Smoothstep(0.8, 1.0, math.Sin(u*50+t*3)*math.Sin(v*50+t*2.5))
}

// Shade is the fragment stage for a surface point with texture coordinate
// (u, v) and interpolated wave value.
func Shade(u, v, wave, t float64, p Params) RGBA {
	caustic := Caustic(u, v, t)
	base := p.ColorA.Lerp(p.ColorB, wave*0.5+0.5)
	c := base.Lerp(p.ColorC, caustic*0.3)
	s := Sparkle(u, v, t) * 0.2
	return RGBA{
		R: c.R + s,
		G: c.G + s,
		B: c.B + s,
		A: p.Opacity + caustic*0.1,
	}
}
