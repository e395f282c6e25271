package scene

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/1siamBot/peaceful-valley/engine/config"
	"github.com/1siamBot/peaceful-valley/engine/core"
	"github.com/1siamBot/peaceful-valley/engine/render3d"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Terrain.Segments = 16
	return cfg
}

// missingProps fails for the names in missing and defers to ProceduralProps otherwise.
type missingProps struct {
	missing map[string]bool
}

func (m missingProps) Prop(name string) (*render3d.Mesh3D, error) {
	if m.missing[name] {
		return nil, errors.New("asset not found")
	}
	return ProceduralProps{}.Prop(name)
}

func TestProceduralPropsKnownNames(t *testing.T) {
	for _, name := range []string{PropMaple, PropPine, PropHut, PropMountain, PropGrass, PropCloudRing} {
		m, err := ProceduralProps{}.Prop(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if len(m.Triangles) == 0 {
			t.Fatalf("%s: empty mesh", name)
		}
	}
	if _, err := (ProceduralProps{}).Prop("fern"); err == nil {
		t.Fatal("unknown prop should fail")
	}
}

func TestBuild(t *testing.T) {
	bus := core.NewEventBus()
	var built int
	bus.On(core.EvtSceneBuilt, func(core.Event) { built++ })

	s, err := Build(context.Background(), smallConfig(), ProceduralProps{}, bus)
	if err != nil {
		t.Fatal(err)
	}
	bus.Dispatch()
	if built != 1 {
		t.Fatalf("scene built events = %d", built)
	}

	// terrain, glacier, river, baked props
	if len(s.Static) < 4 {
		t.Fatalf("static meshes = %d", len(s.Static))
	}
	if s.TerrainStats.Vertices != 17*17 {
		t.Fatalf("terrain vertices = %d", s.TerrainStats.Vertices)
	}
	if len(s.Flock.Birds) != 12 || len(s.Dust.Motes) != 50 || s.Phoenix == nil || s.Clouds == nil {
		t.Fatal("animated entities missing")
	}
	if len(s.Skipped) != 0 {
		t.Fatalf("skipped = %v", s.Skipped)
	}
}

func TestBuildParallelMatchesSequential(t *testing.T) {
	seq, err := Build(context.Background(), smallConfig(), ProceduralProps{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cfg := smallConfig()
	cfg.Terrain.Workers = 4
	par, err := Build(context.Background(), cfg, ProceduralProps{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < seq.Terrain.Count(); i++ {
		if seq.Terrain.Z(i) != par.Terrain.Z(i) || seq.Terrain.Color(i) != par.Terrain.Color(i) {
			t.Fatalf("vertex %d differs", i)
		}
	}
}

func TestBuildSkipsMissingProps(t *testing.T) {
	bus := core.NewEventBus()
	var skipped []string
	bus.On(core.EvtPropSkipped, func(e core.Event) { skipped = append(skipped, e.Payload.(string)) })

	src := missingProps{missing: map[string]bool{PropHut: true, PropCloudRing: true}}
	s, err := Build(context.Background(), smallConfig(), src, bus)
	if err != nil {
		t.Fatal(err)
	}
	bus.Dispatch()

	if len(s.Skipped) != 2 || len(skipped) != 2 {
		t.Fatalf("skipped = %v, events = %v", s.Skipped, skipped)
	}
	if s.Clouds != nil {
		t.Fatal("clouds should be absent without a cloud ring mesh")
	}
}

func TestUpdateAppliesModulation(t *testing.T) {
	s, err := Build(context.Background(), smallConfig(), ProceduralProps{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.Update(core.Frame{Tick: 1, Elapsed: 2, Millis: 2000, Delta: 1.0 / 60})
	if want := 0.15 + math.Sin(1.6)*0.05; math.Abs(s.WaterParams.WaveHeight-want) > 1e-12 {
		t.Fatalf("WaveHeight = %v, want %v", s.WaterParams.WaveHeight, want)
	}
	if want := 1.2 + math.Sin(1.0)*0.3; math.Abs(s.WaterParams.WaveSpeed-want) > 1e-12 {
		t.Fatalf("WaveSpeed = %v, want %v", s.WaterParams.WaveSpeed, want)
	}
	if s.Time() != 2 {
		t.Fatalf("Time = %v", s.Time())
	}

	right, up := render3d.V3(1, 0, 0), render3d.V3(0, 1, 0)
	// birds, phoenix, three cloud rings, dust
	if got := len(s.Dynamic(right, up)); got != 6 {
		t.Fatalf("dynamic meshes = %d, want 6", got)
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		v, bound, want float64
	}{
		{50.1, 50, -50},
		{-50.1, 50, 50},
		{49, 50, 49},
		{50, 50, 50},
		{61, 60, -60},
	}
	for _, tt := range tests {
		if got := wrap(tt.v, tt.bound); got != tt.want {
			t.Errorf("wrap(%v, %v) = %v, want %v", tt.v, tt.bound, got, tt.want)
		}
	}
}

func TestFlockStaysInBounds(t *testing.T) {
	f := NewFlock(12, rand.New(rand.NewPCG(1, 2)))
	for i := range f.Birds {
		f.Birds[i].Speed = 5 // cross the bounds quickly
	}
	for step := 0; step < 500; step++ {
		f.Update(core.Frame{Elapsed: float64(step) / 60, Millis: float64(step) * 1000 / 60, Delta: 1.0 / 60})
		for i, b := range f.Birds {
			if math.Abs(b.Pos.X) > BirdBounds || math.Abs(b.Pos.Z) > BirdBounds {
				t.Fatalf("step %d: bird %d escaped to %v", step, i, b.Pos)
			}
			if math.Abs(b.Pos.Y-b.Altitude) > 0.5+1e-12 {
				t.Fatalf("bird %d bobbed too far", i)
			}
		}
	}
}

func TestDustStaysInBounds(t *testing.T) {
	d := NewDust(50, rand.New(rand.NewPCG(3, 4)))
	for i := range d.Motes {
		d.Motes[i].Speed = 4
	}
	for step := 0; step < 500; step++ {
		d.Update(core.Frame{Millis: float64(step) * 16, Delta: 1.0 / 60})
		for i, m := range d.Motes {
			if math.Abs(m.Pos.X) > DustBounds || math.Abs(m.Pos.Z) > DustBounds {
				t.Fatalf("step %d: mote %d escaped to %v", step, i, m.Pos)
			}
		}
	}
}

func TestDustFollowsHeading(t *testing.T) {
	start := DustMote{Speed: 0.02, Direction: 0.5, Altitude: 10, Drift: 0.01}
	d := &Dust{Motes: []DustMote{start}}

	d.Update(core.Frame{Millis: 1000})
	if d.Motes[0] != start {
		t.Fatalf("zero-delta frame moved mote to %+v", d.Motes[0])
	}

	d.Update(core.Frame{Millis: 1000, Delta: 1.0 / stepsPerSecond})
	m := d.Motes[0]
	dir := start.Direction + start.Drift
	want := render3d.V3(math.Cos(dir)*start.Speed, start.Altitude+math.Sin(0.5), math.Sin(dir)*start.Speed)
	if math.Abs(m.Direction-dir) > 1e-12 {
		t.Fatalf("direction = %v, want %v", m.Direction, dir)
	}
	if m.Pos.Sub(want).Len() > 1e-9 {
		t.Fatalf("position = %v, want %v", m.Pos, want)
	}
}

func TestPhoenixCircles(t *testing.T) {
	p := NewPhoenixFlight()
	for step := 0; step < 200; step++ {
		p.Update(core.Frame{Delta: 1.0 / 60})
		ph := p.Phoenix
		r := math.Hypot(ph.Pos.X, ph.Pos.Z-p.CenterZ)
		if math.Abs(r-15) > 1e-9 {
			t.Fatalf("radius = %v", r)
		}
		if ph.Pos.Y < 33-1e-9 || ph.Pos.Y > 37+1e-9 {
			t.Fatalf("altitude = %v", ph.Pos.Y)
		}
	}
}

func TestPausedFrameFreezesEntities(t *testing.T) {
	f := NewFlock(3, rand.New(rand.NewPCG(5, 6)))
	before := append([]Bird(nil), f.Birds...)
	f.Update(core.Frame{Millis: 1234})
	for i := range before {
		if before[i] != f.Birds[i] {
			t.Fatal("zero-delta frame moved a bird")
		}
	}
}

func TestPlacementsDeterministic(t *testing.T) {
	a := Placements(rand.New(rand.NewPCG(7, 7)))
	b := Placements(rand.New(rand.NewPCG(7, 7)))
	if len(a) != 8+6+4+8 {
		t.Fatalf("placements = %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("placement %d differs", i)
		}
	}
}
