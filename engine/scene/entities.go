package scene

import (
	"math"
	"math/rand/v2"

	"github.com/1siamBot/peaceful-valley/engine/core"
	"github.com/1siamBot/peaceful-valley/engine/render3d"
)

// Animation constants are per 60 Hz step, scaled by Frame.Delta.
const stepsPerSecond = 60

// Wrap bounds on the XZ plane.
const (
	BirdBounds = 50.0
	DustBounds = 60.0
)

// Bird is one member of the flock.
type Bird struct {
	Pos       render3d.Vec3
	Speed     float64
	Direction float64
	Altitude  float64
	Size      float64
	Yaw       float64
	Pitch     float64
	Scale     float64
}

// Phoenix circles the valley.
type Phoenix struct {
	Pos       render3d.Vec3
	Speed     float64
	Direction float64
	Altitude  float64
	WingFlap  float64
	Pitch     float64
	Roll      float64
}

// DustMote is a slow floating particle.
type DustMote struct {
	Pos       render3d.Vec3
	Speed     float64
	Direction float64
	Altitude  float64
	Drift     float64
}

// CloudRing spins in place.
type CloudRing struct {
	Pos           render3d.Vec3
	Scale         float64
	RotationSpeed float64 // radians per step
	Yaw           float64
}

// wrap sends a coordinate that left [-bound, bound] to the opposite edge.
func wrap(v, bound float64) float64 {
	switch {
	case v > bound:
		return -bound
	case v < -bound:
		return bound
	}
	return v
}

// --- Flock ---

// Flock animates birds with wandering headings.
type Flock struct {
	Birds []Bird
	rng   *rand.Rand
}

// NewFlock scatters n birds over x,z ∈ [-30,30), y ∈ [15,35).
func NewFlock(n int, rng *rand.Rand) *Flock {
	f := &Flock{Birds: make([]Bird, n), rng: rng}
	for i := range f.Birds {
		pos := render3d.V3(rng.Float64()*60-30, rng.Float64()*20+15, rng.Float64()*60-30)
		f.Birds[i] = Bird{
			Pos:       pos,
			Speed:     0.02 + rng.Float64()*0.03,
			Direction: rng.Float64() * 2 * math.Pi,
			Altitude:  pos.Y,
			Size:      0.4 + rng.Float64()*0.3,
			Scale:     1,
		}
	}
	return f
}

func (f *Flock) Priority() int { return 10 }

func (f *Flock) Update(fr core.Frame) {
	steps := fr.Delta * stepsPerSecond
	if steps == 0 {
		return
	}
	ms := fr.Millis
	for i := range f.Birds {
		b := &f.Birds[i]
		fi := float64(i)
		b.Direction += (f.rng.Float64() - 0.5) * 0.02 * steps
		b.Pos.X += math.Cos(b.Direction) * b.Speed * steps
		b.Pos.Z += math.Sin(b.Direction) * b.Speed * steps
		b.Pos.Y = b.Altitude + math.Sin(ms*0.001+fi)*0.5
		b.Yaw += 0.02 * steps
		b.Pitch = math.Sin(ms*0.002+fi) * 0.1
		b.Scale = 1 + math.Sin(ms*0.003+fi)*0.1
		b.Pos.X = wrap(b.Pos.X, BirdBounds)
		b.Pos.Z = wrap(b.Pos.Z, BirdBounds)
	}
}

// --- Phoenix ---

// PhoenixFlight circles a single phoenix around (0, -20).
type PhoenixFlight struct {
	Phoenix Phoenix
	Radius  float64
	CenterZ float64
}

func NewPhoenixFlight() *PhoenixFlight {
	return &PhoenixFlight{
		Phoenix: Phoenix{Pos: render3d.V3(0, 35, -20), Speed: 0.05, Altitude: 35},
		Radius:  15,
		CenterZ: -20,
	}
}

func (p *PhoenixFlight) Priority() int { return 10 }

func (p *PhoenixFlight) Update(fr core.Frame) {
	steps := fr.Delta * stepsPerSecond
	if steps == 0 {
		return
	}
	ph := &p.Phoenix
	ph.Direction += ph.Speed * steps
	ph.WingFlap += 0.1 * steps
	ph.Pos.X = math.Cos(ph.Direction) * p.Radius
	ph.Pos.Z = math.Sin(ph.Direction)*p.Radius + p.CenterZ
	ph.Pos.Y = ph.Altitude + math.Sin(ph.WingFlap)*2
	ph.Pitch = math.Sin(ph.WingFlap) * 0.3
	ph.Roll = math.Sin(ph.WingFlap*0.5) * 0.2
}

// --- Dust ---

// Dust animates floating motes.
type Dust struct {
	Motes []DustMote
}

// NewDust scatters n motes over x,z ∈ [-50,50), y ∈ [5,35).
func NewDust(n int, rng *rand.Rand) *Dust {
	d := &Dust{Motes: make([]DustMote, n)}
	for i := range d.Motes {
		pos := render3d.V3(rng.Float64()*100-50, rng.Float64()*30+5, rng.Float64()*100-50)
		d.Motes[i] = DustMote{
			Pos:       pos,
			Speed:     0.01 + rng.Float64()*0.02,
			Direction: rng.Float64() * 2 * math.Pi,
			Altitude:  pos.Y,
			Drift:     rng.Float64() * 0.01,
		}
	}
	return d
}

func (d *Dust) Priority() int { return 20 }

func (d *Dust) Update(fr core.Frame) {
	steps := fr.Delta * stepsPerSecond
	if steps == 0 {
		return
	}
	for i := range d.Motes {
		m := &d.Motes[i]
		m.Direction += m.Drift * steps
		m.Pos.X += math.Cos(m.Direction) * m.Speed * steps
		m.Pos.Z += math.Sin(m.Direction) * m.Speed * steps
		m.Pos.Y = m.Altitude + math.Sin(fr.Millis*0.0005+float64(i))
		m.Pos.X = wrap(m.Pos.X, DustBounds)
		m.Pos.Z = wrap(m.Pos.Z, DustBounds)
	}
}

// --- Clouds ---

// Clouds spins the cloud rings.
type Clouds struct {
	Rings []CloudRing
}

// DefaultCloudRings are the three rings over the valley.
func DefaultCloudRings() []CloudRing {
	return []CloudRing{
		{Pos: render3d.V3(0, 60, -30), Scale: 8, RotationSpeed: 0.002},
		{Pos: render3d.V3(-20, 55, -40), Scale: 6, RotationSpeed: -0.001},
		{Pos: render3d.V3(25, 65, -25), Scale: 4, RotationSpeed: 0.0015},
	}
}

func (c *Clouds) Priority() int { return 30 }

func (c *Clouds) Update(fr core.Frame) {
	steps := fr.Delta * stepsPerSecond
	for i := range c.Rings {
		c.Rings[i].Yaw += c.Rings[i].RotationSpeed * steps
	}
}
