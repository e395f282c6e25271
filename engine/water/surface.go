package water

import (
	"github.com/1siamBot/peaceful-valley/engine/render3d"
	"github.com/1siamBot/peaceful-valley/engine/terrain"
)

// SurfaceVertex is one displaced vertex in world space, ready for the
// fragment stage.
type SurfaceVertex struct {
	Pos  render3d.Vec3
	U, V float64
	Wave float64
}

// Surface is a flat plane of water placed in the world. The underlying grid
// is never modified; each frame's displacement lives in the vertex buffer.
type Surface struct {
	Grid   *terrain.Grid
	Offset render3d.Vec3

	stretch float64
	buf     []SurfaceVertex
}

// NewSurface builds a width × depth plane. The grid is square, so the y
// axis is stretched to depth/width when laid out in the world.
func NewSurface(width, depth float64, segments int, offset render3d.Vec3) *Surface {
	s := &Surface{
		Grid:   terrain.NewGrid(width, segments),
		Offset: offset,
	}
	s.buf = make([]SurfaceVertex, s.Grid.Count())
	if width > 0 {
		s.stretch = depth / width
	}
	return s
}

// Vertices displaces every grid vertex for time t (seconds). The returned
// slice is reused on the next call.
func (s *Surface) Vertices(t float64, p Params) []SurfaceVertex {
	stretch := s.stretch
	if stretch == 0 {
		stretch = 1
	}
	for i := range s.buf {
		pos := s.Grid.Position(i)
		pos.Y *= stretch
		z, wave := Displace(pos, t, p)
		u, v := s.Grid.UV(i)
		s.buf[i] = SurfaceVertex{
			Pos:  render3d.V3(pos.X, z, -pos.Y).Add(s.Offset),
			U:    u,
			V:    v,
			Wave: wave,
		}
	}
	return s.buf
}

// Indices returns the triangle list shared by every frame.
func (s *Surface) Indices() []int { return s.Grid.Indices() }
