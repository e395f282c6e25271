package render3d

import "math"

// Vertex3D is a vertex with position, normal, and color
type Vertex3D struct {
	Pos    Vec3
	Normal Vec3
	Color  Color3
}

// Triangle3D is three vertices
type Triangle3D struct {
	V [3]Vertex3D
}

// Centroid returns the mean of the three positions.
func (t Triangle3D) Centroid() Vec3 {
	return t.V[0].Pos.Add(t.V[1].Pos).Add(t.V[2].Pos).Scale(1.0 / 3.0)
}

// Mesh3D is a collection of triangles
type Mesh3D struct {
	Triangles []Triangle3D
	// Alpha below 1 marks the mesh as translucent; it is drawn after opaque meshes.
	Alpha float64
	// Unlit meshes keep their vertex colours; only fog applies.
	Unlit bool
}

func NewMesh() *Mesh3D { return &Mesh3D{Alpha: 1} }

func (m *Mesh3D) AddTriangle(v0, v1, v2 Vertex3D) {
	m.Triangles = append(m.Triangles, Triangle3D{V: [3]Vertex3D{v0, v1, v2}})
}

func (m *Mesh3D) AddQuad(v0, v1, v2, v3 Vertex3D) {
	m.AddTriangle(v0, v1, v2)
	m.AddTriangle(v0, v2, v3)
}

func (m *Mesh3D) Transform(mat Mat4) *Mesh3D {
	out := &Mesh3D{Triangles: make([]Triangle3D, len(m.Triangles)), Alpha: m.Alpha, Unlit: m.Unlit}
	for i, tri := range m.Triangles {
		for j := 0; j < 3; j++ {
			out.Triangles[i].V[j] = tri.V[j]
			out.Triangles[i].V[j].Pos = mat.TransformPoint(tri.V[j].Pos)
			out.Triangles[i].V[j].Normal = mat.TransformDir(tri.V[j].Normal).Normalize()
		}
	}
	return out
}

func (m *Mesh3D) Append(other *Mesh3D) {
	m.Triangles = append(m.Triangles, other.Triangles...)
}

func (m *Mesh3D) SetColor(c Color3) {
	for i := range m.Triangles {
		for j := 0; j < 3; j++ {
			m.Triangles[i].V[j].Color = c
		}
	}
}

// --- Primitive generators ---

func MakeBox(w, h, d float64, c Color3) *Mesh3D {
	m := NewMesh()
	hw, hh, hd := w/2, h/2, d/2

	v := [8]Vec3{
		{-hw, -hh, -hd}, {hw, -hh, -hd}, {hw, hh, -hd}, {-hw, hh, -hd},
		{-hw, -hh, hd}, {hw, -hh, hd}, {hw, hh, hd}, {-hw, hh, hd},
	}

	faces := [][4]int{
		{1, 0, 3, 2}, // front
		{4, 5, 6, 7}, // back
		{0, 4, 7, 3}, // left
		{5, 1, 2, 6}, // right
		{7, 6, 2, 3}, // top
		{0, 1, 5, 4}, // bottom
	}
	normals := []Vec3{
		{0, 0, -1}, {0, 0, 1}, {-1, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, -1, 0},
	}

	for fi, f := range faces {
		n := normals[fi]
		m.AddQuad(
			Vertex3D{Pos: v[f[0]], Normal: n, Color: c},
			Vertex3D{Pos: v[f[1]], Normal: n, Color: c},
			Vertex3D{Pos: v[f[2]], Normal: n, Color: c},
			Vertex3D{Pos: v[f[3]], Normal: n, Color: c},
		)
	}
	return m
}

func MakeCylinder(radius, height float64, segments int, c Color3) *Mesh3D {
	m := NewMesh()
	if segments < 6 {
		segments = 6
	}
	hh := height / 2
	top := V3(0, hh, 0)
	bot := V3(0, -hh, 0)

	for i := 0; i < segments; i++ {
		a0 := float64(i) / float64(segments) * 2 * math.Pi
		a1 := float64(i+1) / float64(segments) * 2 * math.Pi
		x0, z0 := radius*math.Cos(a0), radius*math.Sin(a0)
		x1, z1 := radius*math.Cos(a1), radius*math.Sin(a1)

		p0t := V3(x0, hh, z0)
		p1t := V3(x1, hh, z1)
		p0b := V3(x0, -hh, z0)
		p1b := V3(x1, -hh, z1)

		n0 := V3(x0, 0, z0).Normalize()
		n1 := V3(x1, 0, z1).Normalize()

		m.AddQuad(
			Vertex3D{Pos: p0b, Normal: n0, Color: c},
			Vertex3D{Pos: p0t, Normal: n0, Color: c},
			Vertex3D{Pos: p1t, Normal: n1, Color: c},
			Vertex3D{Pos: p1b, Normal: n1, Color: c},
		)

		topN := V3(0, 1, 0)
		m.AddTriangle(
			Vertex3D{Pos: top, Normal: topN, Color: c},
			Vertex3D{Pos: p1t, Normal: topN, Color: c},
			Vertex3D{Pos: p0t, Normal: topN, Color: c},
		)

		botN := V3(0, -1, 0)
		m.AddTriangle(
			Vertex3D{Pos: bot, Normal: botN, Color: c},
			Vertex3D{Pos: p0b, Normal: botN, Color: c},
			Vertex3D{Pos: p1b, Normal: botN, Color: c},
		)
	}
	return m
}

func MakeRoof(w, h, d, peakH float64, c Color3) *Mesh3D {
	m := NewMesh()
	hw, hd := w/2, d/2

	r0 := V3(-hw, h+peakH, 0)
	r1 := V3(hw, h+peakH, 0)
	e0 := V3(-hw, h, -hd)
	e1 := V3(hw, h, -hd)
	e2 := V3(hw, h, hd)
	e3 := V3(-hw, h, hd)

	fn := V3(0, hd, -peakH).Normalize()
	m.AddQuad(
		Vertex3D{Pos: e1, Normal: fn, Color: c},
		Vertex3D{Pos: e0, Normal: fn, Color: c},
		Vertex3D{Pos: r0, Normal: fn, Color: c},
		Vertex3D{Pos: r1, Normal: fn, Color: c},
	)

	bn := V3(0, hd, peakH).Normalize()
	m.AddQuad(
		Vertex3D{Pos: e3, Normal: bn, Color: c},
		Vertex3D{Pos: e2, Normal: bn, Color: c},
		Vertex3D{Pos: r1, Normal: bn, Color: c},
		Vertex3D{Pos: r0, Normal: bn, Color: c},
	)

	gn1 := V3(-1, 0, 0)
	m.AddTriangle(
		Vertex3D{Pos: e0, Normal: gn1, Color: c},
		Vertex3D{Pos: e3, Normal: gn1, Color: c},
		Vertex3D{Pos: r0, Normal: gn1, Color: c},
	)
	gn2 := V3(1, 0, 0)
	m.AddTriangle(
		Vertex3D{Pos: e1, Normal: gn2, Color: c},
		Vertex3D{Pos: r1, Normal: gn2, Color: c},
		Vertex3D{Pos: e2, Normal: gn2, Color: c},
	)
	return m
}

// MakeCone builds a cone centred on the origin, tip pointing +Y.
func MakeCone(radius, height float64, segments int, c Color3) *Mesh3D {
	m := NewMesh()
	if segments < 4 {
		segments = 4
	}
	hh := height / 2
	tip := V3(0, hh, 0)
	bot := V3(0, -hh, 0)

	for i := 0; i < segments; i++ {
		a0 := float64(i) / float64(segments) * 2 * math.Pi
		a1 := float64(i+1) / float64(segments) * 2 * math.Pi
		x0, z0 := radius*math.Cos(a0), radius*math.Sin(a0)
		x1, z1 := radius*math.Cos(a1), radius*math.Sin(a1)

		p0b := V3(x0, -hh, z0)
		p1b := V3(x1, -hh, z1)

		slopeY := radius / height
		n0 := V3(x0, slopeY*radius, z0).Normalize()
		n1 := V3(x1, slopeY*radius, z1).Normalize()
		nTip := n0.Add(n1).Scale(0.5).Normalize()

		m.AddTriangle(
			Vertex3D{Pos: p0b, Normal: n0, Color: c},
			Vertex3D{Pos: tip, Normal: nTip, Color: c},
			Vertex3D{Pos: p1b, Normal: n1, Color: c},
		)

		botN := V3(0, -1, 0)
		m.AddTriangle(
			Vertex3D{Pos: bot, Normal: botN, Color: c},
			Vertex3D{Pos: p0b, Normal: botN, Color: c},
			Vertex3D{Pos: p1b, Normal: botN, Color: c},
		)
	}
	return m
}

// MakeSphere builds a UV sphere with the given ring and segment counts.
func MakeSphere(radius float64, segments, rings int, c Color3) *Mesh3D {
	m := NewMesh()
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}
	point := func(seg, ring int) Vec3 {
		theta := float64(ring) / float64(rings) * math.Pi
		phi := float64(seg) / float64(segments) * 2 * math.Pi
		return V3(math.Sin(theta)*math.Cos(phi), math.Cos(theta), math.Sin(theta)*math.Sin(phi))
	}
	vert := func(n Vec3) Vertex3D {
		return Vertex3D{Pos: n.Scale(radius), Normal: n, Color: c}
	}
	for r := 0; r < rings; r++ {
		for s := 0; s < segments; s++ {
			n00 := point(s, r)
			n10 := point(s+1, r)
			n01 := point(s, r+1)
			n11 := point(s+1, r+1)
			if r > 0 {
				m.AddTriangle(vert(n00), vert(n10), vert(n01))
			}
			if r < rings-1 {
				m.AddTriangle(vert(n10), vert(n11), vert(n01))
			}
		}
	}
	return m
}

// MakeTube sweeps a circle of the given radius along path.
func MakeTube(path []Vec3, radius float64, radial int, c Color3) *Mesh3D {
	m := NewMesh()
	if len(path) < 2 {
		return m
	}
	if radial < 3 {
		radial = 3
	}
	rings := make([][]Vertex3D, len(path))
	for i, p := range path {
		var tangent Vec3
		switch {
		case i == 0:
			tangent = path[1].Sub(path[0])
		case i == len(path)-1:
			tangent = path[i].Sub(path[i-1])
		default:
			tangent = path[i+1].Sub(path[i-1])
		}
		tangent = tangent.Normalize()
		ref := V3(0, 1, 0)
		if math.Abs(tangent.Dot(ref)) > 0.99 {
			ref = V3(1, 0, 0)
		}
		side := tangent.Cross(ref).Normalize()
		up := side.Cross(tangent).Normalize()
		ring := make([]Vertex3D, radial)
		for k := 0; k < radial; k++ {
			a := float64(k) / float64(radial) * 2 * math.Pi
			n := side.Scale(math.Cos(a)).Add(up.Scale(math.Sin(a)))
			ring[k] = Vertex3D{Pos: p.Add(n.Scale(radius)), Normal: n, Color: c}
		}
		rings[i] = ring
	}
	for i := 0; i < len(rings)-1; i++ {
		for k := 0; k < radial; k++ {
			k1 := (k + 1) % radial
			m.AddQuad(rings[i][k], rings[i+1][k], rings[i+1][k1], rings[i][k1])
		}
	}
	return m
}
