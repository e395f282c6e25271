package terrain

import "github.com/1siamBot/peaceful-valley/engine/render3d"

// Grid is a flat square mesh of (Segments+1)² vertices centred on the origin.
// Rows run from y = +Size/2 down to -Size/2, columns from x = -Size/2 to
// +Size/2. x and y are fixed at construction; z (height), normals and
// colours are written by the generator.
type Grid struct {
	Size     float64
	Segments int

	pos     []render3d.Vec3
	normals []render3d.Vec3
	colors  []render3d.Color3
	uvs     [][2]float64
	indices []int
}

// NewGrid builds a flat grid with every normal pointing +Z.
func NewGrid(size float64, segments int) *Grid {
	if segments < 1 {
		segments = 1
	}
	stride := segments + 1
	n := stride * stride
	g := &Grid{
		Size:     size,
		Segments: segments,
		pos:      make([]render3d.Vec3, n),
		normals:  make([]render3d.Vec3, n),
		colors:   make([]render3d.Color3, n),
		uvs:      make([][2]float64, n),
		indices:  make([]int, 0, segments*segments*6),
	}

	half := size / 2
	step := size / float64(segments)
	for row := 0; row < stride; row++ {
		y := half - float64(row)*step
		for col := 0; col < stride; col++ {
			i := row*stride + col
			g.pos[i] = render3d.V3(float64(col)*step-half, y, 0)
			g.normals[i] = render3d.V3(0, 0, 1)
			g.colors[i] = render3d.Color3{R: 1, G: 1, B: 1}
			g.uvs[i] = [2]float64{
				float64(col) / float64(segments),
				1 - float64(row)/float64(segments),
			}
		}
	}

	for row := 0; row < segments; row++ {
		for col := 0; col < segments; col++ {
			a := row*stride + col
			b := (row+1)*stride + col
			c := b + 1
			d := a + 1
			g.indices = append(g.indices, a, b, d, b, c, d)
		}
	}
	return g
}

// Count returns the number of vertices.
func (g *Grid) Count() int { return len(g.pos) }

// Stride is the number of vertices per row.
func (g *Grid) Stride() int { return g.Segments + 1 }

func (g *Grid) X(i int) float64       { return g.pos[i].X }
func (g *Grid) Y(i int) float64       { return g.pos[i].Y }
func (g *Grid) Z(i int) float64       { return g.pos[i].Z }
func (g *Grid) SetZ(i int, z float64) { g.pos[i].Z = z }

func (g *Grid) Position(i int) render3d.Vec3      { return g.pos[i] }
func (g *Grid) Normal(i int) render3d.Vec3        { return g.normals[i] }
func (g *Grid) Color(i int) render3d.Color3       { return g.colors[i] }
func (g *Grid) SetColor(i int, c render3d.Color3) { g.colors[i] = c }
func (g *Grid) UV(i int) (u, v float64)           { return g.uvs[i][0], g.uvs[i][1] }
func (g *Grid) Indices() []int                    { return g.indices }

// Heights copies out the z of every vertex in row-major order.
func (g *Grid) Heights() []float64 {
	out := make([]float64, len(g.pos))
	for i, p := range g.pos {
		out[i] = p.Z
	}
	return out
}

// ComputeNormals recomputes every vertex normal as the area-weighted average
// of its incident face normals. Call it once, after all heights are final.
func (g *Grid) ComputeNormals() {
	for i := range g.normals {
		g.normals[i] = render3d.Vec3{}
	}
	for t := 0; t+2 < len(g.indices); t += 3 {
		ia, ib, ic := g.indices[t], g.indices[t+1], g.indices[t+2]
		a, b, c := g.pos[ia], g.pos[ib], g.pos[ic]
		// The unnormalised cross product has length 2×area.
		fn := b.Sub(a).Cross(c.Sub(a))
		g.normals[ia] = g.normals[ia].Add(fn)
		g.normals[ib] = g.normals[ib].Add(fn)
		g.normals[ic] = g.normals[ic].Add(fn)
	}
	for i, n := range g.normals {
		g.normals[i] = n.Normalize()
	}
}

// Mesh converts the grid into world-space triangles. The plane is laid flat:
// grid x → world x, grid y → world -z, grid z (height) → world y; offset
// is added afterwards.
func (g *Grid) Mesh(offset render3d.Vec3) *render3d.Mesh3D {
	mesh := render3d.NewMesh()
	mesh.Triangles = make([]render3d.Triangle3D, 0, len(g.indices)/3)
	vert := func(i int) render3d.Vertex3D {
		p, n := g.pos[i], g.normals[i]
		return render3d.Vertex3D{
			Pos:    render3d.V3(p.X, p.Z, -p.Y).Add(offset),
			Normal: render3d.V3(n.X, n.Z, -n.Y),
			Color:  g.colors[i],
		}
	}
	for t := 0; t+2 < len(g.indices); t += 3 {
		mesh.AddTriangle(vert(g.indices[t]), vert(g.indices[t+1]), vert(g.indices[t+2]))
	}
	return mesh
}
