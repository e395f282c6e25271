package render3d

import (
	"math"
	"slices"
)

// screenMargin is how far past the viewport a vertex may land before the
// triangle counts as off screen.
const screenMargin = 100

// ScreenVertex is a projected, lit and fogged vertex in pixels.
type ScreenVertex struct {
	X, Y  float64
	Color Color3
	Alpha float64
	// Custom carries per-vertex shader inputs: u, v, wave, fog factor.
	Custom [4]float64
}

// ScreenTriangle is a triangle ready for the rasteriser.
type ScreenTriangle struct {
	V     [3]ScreenVertex
	Depth float64 // mean clip w, larger is farther
	// Shaded triangles are drawn with the custom fragment stage instead of
	// flat vertex colours.
	Shaded bool
}

// QueueStats counts what the last frame submitted.
type QueueStats struct {
	Submitted int
	Culled    int
}

// Queue collects triangles for one frame and orders them for the painter's
// algorithm: opaque first, then translucent, each back to front.
type Queue struct {
	Opaque      []ScreenTriangle
	Translucent []ScreenTriangle
	Stats       QueueStats

	cam *Camera3D
	ls  *LightingSetup
}

// Begin clears the queue for a new frame.
func (q *Queue) Begin(cam *Camera3D, ls *LightingSetup) {
	q.cam = cam
	q.ls = ls
	q.Opaque = q.Opaque[:0]
	q.Translucent = q.Translucent[:0]
	q.Stats = QueueStats{}
}

// project returns false when the vertex is behind the eye.
func (q *Queue) project(p Vec3) (ScreenVertex, float64, bool) {
	sx, sy, w, ok := q.cam.Project(p)
	return ScreenVertex{X: sx, Y: sy}, w, ok
}

func (q *Queue) offScreen(vs *[3]ScreenVertex) bool {
	w := float64(q.cam.ScreenW)
	h := float64(q.cam.ScreenH)
	for _, v := range vs {
		if v.X >= -screenMargin && v.X <= w+screenMargin && v.Y >= -screenMargin && v.Y <= h+screenMargin {
			return false
		}
	}
	return true
}

// AddMesh lights, fogs and projects every triangle of a world-space mesh.
// Faces are lit from whichever side faces the eye.
func (q *Queue) AddMesh(m *Mesh3D) {
	if m == nil || len(m.Triangles) == 0 || m.Alpha <= 0 {
		return
	}
	translucent := m.Alpha < 1
	eye := q.cam.Position

	for _, tri := range m.Triangles {
		var st ScreenTriangle
		visible := true
		for i := 0; i < 3; i++ {
			v := tri.V[i]
			sv, w, ok := q.project(v.Pos)
			if !ok {
				visible = false
				break
			}
			c := v.Color
			if !m.Unlit {
				n := v.Normal
				if n.Dot(eye.Sub(v.Pos)) < 0 {
					n = n.Scale(-1)
				}
				c = q.ls.ComputeLighting(n, c)
			}
			sv.Color = q.ls.Fog.Apply(c, w)
			sv.Alpha = m.Alpha
			st.V[i] = sv
			st.Depth += w / 3
		}
		if !visible || q.offScreen(&st.V) {
			q.Stats.Culled++
			continue
		}
		q.push(st, translucent)
	}
}

// AddShaded queues a translucent triangle for the custom fragment stage.
// custom holds u, v and wave per vertex; the fog factor is filled in here.
func (q *Queue) AddShaded(pos [3]Vec3, custom [3][3]float64) {
	var st ScreenTriangle
	st.Shaded = true
	for i := 0; i < 3; i++ {
		sv, w, ok := q.project(pos[i])
		if !ok {
			q.Stats.Culled++
			return
		}
		sv.Custom = [4]float64{custom[i][0], custom[i][1], custom[i][2], q.ls.Fog.Factor(w)}
		sv.Alpha = 1
		st.V[i] = sv
		st.Depth += w / 3
	}
	if q.offScreen(&st.V) {
		q.Stats.Culled++
		return
	}
	q.push(st, true)
}

// AddColored queues a translucent triangle with per-vertex straight-alpha
// colours, fogged by distance.
func (q *Queue) AddColored(pos [3]Vec3, col [3]Color3, alpha [3]float64) {
	var st ScreenTriangle
	for i := 0; i < 3; i++ {
		sv, w, ok := q.project(pos[i])
		if !ok {
			q.Stats.Culled++
			return
		}
		sv.Color = q.ls.Fog.Apply(col[i].Clamp(), w)
		sv.Alpha = clamp01(alpha[i])
		st.V[i] = sv
		st.Depth += w / 3
	}
	if q.offScreen(&st.V) {
		q.Stats.Culled++
		return
	}
	q.push(st, true)
}

func (q *Queue) push(st ScreenTriangle, translucent bool) {
	q.Stats.Submitted++
	if translucent {
		q.Translucent = append(q.Translucent, st)
	} else {
		q.Opaque = append(q.Opaque, st)
	}
}

// Sort orders both lists far to near. Equal depths keep submission order.
func (q *Queue) Sort() {
	farFirst := func(a, b ScreenTriangle) int {
		switch {
		case a.Depth > b.Depth:
			return -1
		case a.Depth < b.Depth:
			return 1
		}
		return 0
	}
	slices.SortStableFunc(q.Opaque, farFirst)
	slices.SortStableFunc(q.Translucent, farFirst)
}

// SunScreen projects a point far along the sun direction from the eye. ok is
// false when the sun is behind the camera or below the horizon.
func (q *Queue) SunScreen() (x, y float64, ok bool) {
	dir := q.ls.Sun.Direction()
	if dir.Y <= 0 {
		return 0, 0, false
	}
	dist := math.Min(q.cam.Far*0.8, 400)
	sx, sy, _, ok := q.cam.Project(q.cam.Position.Add(dir.Scale(dist)))
	return sx, sy, ok
}
