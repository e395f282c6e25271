package render3d

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec3 is a 3D vector
type Vec3 struct {
	X, Y, Z float64
}

func V3(x, y, z float64) Vec3 { return Vec3{x, y, z} }

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func (v Vec3) Dot(o Vec3) float64   { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-10 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{v.X + (o.X-v.X)*t, v.Y + (o.Y-v.Y)*t, v.Z + (o.Z-v.Z)*t}
}

func (v Vec3) mgl() mgl64.Vec3 { return mgl64.Vec3{v.X, v.Y, v.Z} }

// Vec4 for homogeneous coords
type Vec4 struct {
	X, Y, Z, W float64
}

// Mat4 is a 4x4 matrix (column-major, same layout as mgl64.Mat4)
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4(mgl64.Ident4())
}

func Mat4Translate(tx, ty, tz float64) Mat4 {
	return Mat4(mgl64.Translate3D(tx, ty, tz))
}

func Mat4Scale(sx, sy, sz float64) Mat4 {
	return Mat4(mgl64.Scale3D(sx, sy, sz))
}

func Mat4RotateX(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DX(angle))
}

func Mat4RotateY(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DY(angle))
}

func Mat4RotateZ(angle float64) Mat4 {
	return Mat4(mgl64.HomogRotate3DZ(angle))
}

// Mat4Perspective builds a right-handed projection; fovY is in degrees.
func Mat4Perspective(fovY, aspect, near, far float64) Mat4 {
	return Mat4(mgl64.Perspective(mgl64.DegToRad(fovY), aspect, near, far))
}

// Mat4LookAt creates a view matrix
func Mat4LookAt(eye, center, up Vec3) Mat4 {
	return Mat4(mgl64.LookAtV(eye.mgl(), center.mgl(), up.mgl()))
}

// Mul multiplies two matrices
func (a Mat4) Mul(b Mat4) Mat4 {
	return Mat4(mgl64.Mat4(a).Mul4(mgl64.Mat4(b)))
}

// MulVec4 multiplies matrix by vec4
func (m Mat4) MulVec4(v Vec4) Vec4 {
	r := mgl64.Mat4(m).Mul4x1(mgl64.Vec4{v.X, v.Y, v.Z, v.W})
	return Vec4{r[0], r[1], r[2], r[3]}
}

// TransformPoint transforms a 3D point (w=1) including the perspective divide
func (m Mat4) TransformPoint(v Vec3) Vec3 {
	r := m.MulVec4(Vec4{v.X, v.Y, v.Z, 1})
	if r.W != 0 {
		return Vec3{r.X / r.W, r.Y / r.W, r.Z / r.W}
	}
	return Vec3{r.X, r.Y, r.Z}
}

// TransformDir transforms a direction (w=0)
func (m Mat4) TransformDir(v Vec3) Vec3 {
	r := m.MulVec4(Vec4{v.X, v.Y, v.Z, 0})
	return Vec3{r.X, r.Y, r.Z}
}

// Color3 is a linear RGB colour. Channels may exceed 1 before display.
type Color3 struct {
	R, G, B float64
}

// Hex converts a 0xRRGGBB literal.
func Hex(rgb uint32) Color3 {
	return Color3{
		R: float64(rgb>>16&0xff) / 255,
		G: float64(rgb>>8&0xff) / 255,
		B: float64(rgb&0xff) / 255,
	}
}

// ParseHex parses "#RRGGBB" or "RRGGBB".
func ParseHex(s string) (Color3, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(trimmed) != 6 {
		return Color3{}, fmt.Errorf("colour %q: want 6 hex digits", s)
	}
	v, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return Color3{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return Hex(uint32(v)), nil
}

// String formats the colour as #rrggbb, clamping each channel.
func (c Color3) String() string {
	cl := c.Clamp()
	return fmt.Sprintf("#%02x%02x%02x",
		uint8(math.Round(cl.R*255)), uint8(math.Round(cl.G*255)), uint8(math.Round(cl.B*255)))
}

func (c Color3) Scale(s float64) Color3 {
	return Color3{c.R * s, c.G * s, c.B * s}
}

// Add sums channels without clamping.
func (c Color3) Add(o Color3) Color3 {
	return Color3{c.R + o.R, c.G + o.G, c.B + o.B}
}

func (c Color3) Mul(o Color3) Color3 {
	return Color3{c.R * o.R, c.G * o.G, c.B * o.B}
}

// Lerp mixes c toward o by t (GLSL mix).
func (c Color3) Lerp(o Color3, t float64) Color3 {
	return Color3{c.R + (o.R-c.R)*t, c.G + (o.G-c.G)*t, c.B + (o.B-c.B)*t}
}

// Clamp limits every channel to [0,1].
func (c Color3) Clamp() Color3 {
	return Color3{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Smoothstep is the GLSL smoothstep.
func Smoothstep(edge0, edge1, x float64) float64 {
	t := clamp01((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
