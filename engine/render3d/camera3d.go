package render3d

import "math"

// CameraPreset is a stored eye/target pair.
type CameraPreset struct {
	Position Vec3
	Target   Vec3
}

// Presets bound to the number keys 1-5.
var Presets = map[int]CameraPreset{
	1: {Position: V3(0, 30, 60), Target: V3(0, 12, -10)},    // wide valley
	2: {Position: V3(-40, 35, -30), Target: V3(-30, 15, -45)}, // glacier and mountain
	3: {Position: V3(35, 32, -12), Target: V3(0, 12, -20)},   // tree slope
	4: {Position: V3(0, 45, 0), Target: V3(0, 12, -10)},      // aerial
	5: {Position: V3(-20, 22, 20), Target: V3(0, 12, -10)},   // hut
}

// Camera3D is a perspective camera that always looks at Target, with an
// optional auto-orbit around it.
type Camera3D struct {
	Position Vec3
	Target   Vec3

	FOV       float64 // vertical, degrees
	Near, Far float64

	// Screen dimensions
	ScreenW, ScreenH int

	AutoRotate bool
	// OrbitPeriod is the number of seconds per full auto-orbit.
	OrbitPeriod float64
	// Damping eases the eye toward its goal after a preset jump.
	Damping float64

	goal     Vec3
	viewProj Mat4
	dirty    bool
}

// NewCamera3D creates the valley camera
func NewCamera3D(screenW, screenH int) *Camera3D {
	c := &Camera3D{
		Position:    V3(0, 25, 40),
		Target:      V3(0, 12, -10),
		FOV:         60,
		Near:        0.1,
		Far:         500,
		ScreenW:     screenW,
		ScreenH:     screenH,
		OrbitPeriod: 30,
		Damping:     0.07,
		dirty:       true,
	}
	c.goal = c.Position
	return c
}

// SetScreen updates the viewport size.
func (c *Camera3D) SetScreen(w, h int) {
	if w == c.ScreenW && h == c.ScreenH {
		return
	}
	c.ScreenW, c.ScreenH = w, h
	c.dirty = true
}

// Move translates the eye; the target stays put.
func (c *Camera3D) Move(dx, dy, dz float64) {
	c.Position = c.Position.Add(V3(dx, dy, dz))
	c.goal = c.Position
	c.dirty = true
}

// ApplyPreset jumps the target and eases the eye toward the preset position.
func (c *Camera3D) ApplyPreset(n int) bool {
	p, ok := Presets[n]
	if !ok {
		return false
	}
	c.goal = p.Position
	c.Target = p.Target
	c.dirty = true
	return true
}

// ToggleAutoRotate flips auto-orbit and reports the new state.
func (c *Camera3D) ToggleAutoRotate() bool {
	c.AutoRotate = !c.AutoRotate
	return c.AutoRotate
}

// Update advances damping and auto-orbit by dt seconds.
func (c *Camera3D) Update(dt float64) {
	if d := c.goal.Sub(c.Position); d.Len() > 1e-4 {
		k := c.Damping
		if k <= 0 || k > 1 {
			k = 1
		}
		c.Position = c.Position.Add(d.Scale(k))
		c.dirty = true
	}
	if c.AutoRotate && c.OrbitPeriod > 0 {
		angle := 2 * math.Pi * dt / c.OrbitPeriod
		c.Position = orbitY(c.Position, c.Target, angle)
		c.goal = orbitY(c.goal, c.Target, angle)
		c.dirty = true
	}
}

func orbitY(p, center Vec3, angle float64) Vec3 {
	s, co := math.Sin(angle), math.Cos(angle)
	dx, dz := p.X-center.X, p.Z-center.Z
	return V3(center.X+dx*co+dz*s, p.Y, center.Z-dx*s+dz*co)
}

func (c *Camera3D) update() {
	if !c.dirty {
		return
	}
	c.dirty = false

	aspect := 1.0
	if c.ScreenH > 0 {
		aspect = float64(c.ScreenW) / float64(c.ScreenH)
	}
	view := Mat4LookAt(c.Position, c.Target, V3(0, 1, 0))
	proj := Mat4Perspective(c.FOV, aspect, c.Near, c.Far)
	c.viewProj = proj.Mul(view)
}

// ViewProj returns the combined view-projection matrix
func (c *Camera3D) ViewProj() Mat4 {
	c.update()
	return c.viewProj
}

// Project converts a world point to screen pixels. depth is the clip-space
// w (distance along the view axis); ok is false for points behind the eye.
func (c *Camera3D) Project(p Vec3) (sx, sy, depth float64, ok bool) {
	clip := c.ViewProj().MulVec4(Vec4{p.X, p.Y, p.Z, 1})
	if clip.W <= c.Near {
		return 0, 0, clip.W, false
	}
	ndcX := clip.X / clip.W
	ndcY := clip.Y / clip.W
	sx = (ndcX*0.5 + 0.5) * float64(c.ScreenW)
	sy = (1 - (ndcY*0.5 + 0.5)) * float64(c.ScreenH)
	return sx, sy, clip.W, true
}

// Basis returns the camera's right and up vectors in world space.
func (c *Camera3D) Basis() (right, up Vec3) {
	forward := c.Target.Sub(c.Position).Normalize()
	right = forward.Cross(V3(0, 1, 0)).Normalize()
	if right.Len() == 0 {
		right = V3(1, 0, 0)
	}
	up = right.Cross(forward).Normalize()
	return right, up
}

// Orbit swings the eye around the target by yaw and pitch radians. Pitch is
// kept short of the poles.
func (c *Camera3D) Orbit(yaw, pitch float64) {
	off := c.Position.Sub(c.Target)
	dist := off.Len()
	if dist == 0 {
		return
	}
	az := math.Atan2(off.X, off.Z) - yaw
	el := math.Asin(math.Max(-1, math.Min(1, off.Y/dist))) + pitch
	el = math.Max(-1.45, math.Min(1.45, el))
	c.Position = c.Target.Add(V3(
		dist*math.Cos(el)*math.Sin(az),
		dist*math.Sin(el),
		dist*math.Cos(el)*math.Cos(az),
	))
	c.goal = c.Position
	c.dirty = true
}

// Zoom scales the eye's distance to the target, clamped to [MinDistance, MaxDistance].
func (c *Camera3D) Zoom(factor float64) {
	off := c.Position.Sub(c.Target)
	dist := off.Len()
	if dist == 0 || factor <= 0 {
		return
	}
	nd := math.Max(MinDistance, math.Min(MaxDistance, dist*factor))
	c.Position = c.Target.Add(off.Scale(nd / dist))
	c.goal = c.Position
	c.dirty = true
}

// Zoom limits.
const (
	MinDistance = 5.0
	MaxDistance = 250.0
)
