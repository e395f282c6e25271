package render3d

// Particle is a single camera-facing point sprite in 3D space
type Particle struct {
	Pos   Vec3
	Color Color3
	Size  float64
}

// ParticleSystem collects particles for one frame and turns them into quads.
type ParticleSystem struct {
	Particles []Particle
	Alpha     float64
}

func NewParticleSystem(alpha float64) *ParticleSystem {
	return &ParticleSystem{Alpha: alpha}
}

// Reset drops the previous frame's particles, keeping capacity.
func (ps *ParticleSystem) Reset() {
	ps.Particles = ps.Particles[:0]
}

// Add queues a particle for this frame.
func (ps *ParticleSystem) Add(p Particle) {
	ps.Particles = append(ps.Particles, p)
}

// GenerateParticleMeshes creates billboard quads facing the camera basis.
func (ps *ParticleSystem) GenerateParticleMeshes(right, up Vec3) *Mesh3D {
	mesh := NewMesh()
	mesh.Alpha = ps.Alpha
	mesh.Unlit = true
	normal := up.Cross(right).Normalize()

	for _, p := range ps.Particles {
		hs := p.Size / 2
		r := right.Scale(hs)
		u := up.Scale(hs)
		v0 := Vertex3D{Pos: p.Pos.Sub(r).Sub(u), Normal: normal, Color: p.Color}
		v1 := Vertex3D{Pos: p.Pos.Add(r).Sub(u), Normal: normal, Color: p.Color}
		v2 := Vertex3D{Pos: p.Pos.Add(r).Add(u), Normal: normal, Color: p.Color}
		v3 := Vertex3D{Pos: p.Pos.Sub(r).Add(u), Normal: normal, Color: p.Color}
		mesh.AddQuad(v0, v1, v2, v3)
	}
	return mesh
}
