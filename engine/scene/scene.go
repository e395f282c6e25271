// Package scene assembles the valley: terrain, lake, glacier and meltwater
// river, props, and the animated flock, phoenix, dust and clouds.
package scene

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/1siamBot/peaceful-valley/engine/config"
	"github.com/1siamBot/peaceful-valley/engine/core"
	"github.com/1siamBot/peaceful-valley/engine/noise"
	"github.com/1siamBot/peaceful-valley/engine/render3d"
	"github.com/1siamBot/peaceful-valley/engine/terrain"
	"github.com/1siamBot/peaceful-valley/engine/water"
)

// Fixed scene layout.
var (
	WaterOffset    = render3d.V3(0, 2.1, -14)
	GlacierPos     = render3d.V3(-36, 19, -46)
	HutPos         = render3d.V3(24, 2.2, -18)
	MountainPos    = render3d.V3(-25, 0, -70)
	RiverPoints    = []render3d.Vec3{{X: -36, Y: 3, Z: -46}, {X: -28, Y: 2, Z: -38}, {X: -14, Y: 2, Z: -23}, {X: -3, Y: 2, Z: -17}, {X: 5, Y: 2, Z: -8}}
	glacierColor   = render3d.Hex(0xe6f4fa)
	riverColor     = render3d.Hex(0x7fd8fa)
	birdColor      = render3d.Color3{}
	phoenixColor   = render3d.Hex(0xff4500)
	dustColor      = render3d.Hex(0xffffff)
	dustSize       = 0.15
	waterWidth     = 46.0
	waterDepth     = 48.0
	waterSegments  = 64
	riverDivisions = 30
)

// Scene is the assembled valley plus its animation state.
type Scene struct {
	Terrain      *terrain.Grid
	TerrainStats terrain.Stats
	Water        *water.Surface
	WaterParams  water.Params // this frame's parameters, after modulation
	Lighting     render3d.LightingSetup
	DayCycle     bool

	// Static holds meshes that never move, already in world space.
	Static []*render3d.Mesh3D

	Flock   *Flock
	Phoenix *PhoenixFlight
	Dust    *Dust
	Clouds  *Clouds

	// Skipped lists props the source could not provide.
	Skipped []string

	baseWater   water.Params
	modulator   *water.Modulator
	scheduler   *core.Scheduler
	birdMesh    *render3d.Mesh3D
	phoenixMesh *render3d.Mesh3D
	cloudMesh   *render3d.Mesh3D
	particles   *render3d.ParticleSystem
	frame       core.Frame
}

// Build generates the terrain and places everything described by cfg.
// events may be nil.
func Build(ctx context.Context, cfg *config.Config, props PropSource, events *core.EventBus) (*Scene, error) {
	fn, err := cfg.NoiseField()
	if err != nil {
		slog.Warn("noise backend unavailable, using flat ground", "noise", cfg.Noise, "error", err)
		fn = noise.Flat
	}

	grid := terrain.NewGrid(cfg.Terrain.Size, cfg.Terrain.Segments)
	hp := cfg.HeightParams()
	var stats terrain.Stats
	if workers := cfg.Terrain.Workers; workers > 0 {
		stats, err = terrain.GenerateParallel(ctx, grid, fn, hp, min(workers, runtime.GOMAXPROCS(0)))
		if err != nil {
			return nil, fmt.Errorf("generate terrain: %w", err)
		}
	} else {
		stats = terrain.Generate(grid, fn, hp)
	}

	mod, err := water.NewModulator(cfg.Water.Modulate)
	if err != nil {
		return nil, fmt.Errorf("water modulation: %w", err)
	}

	s := &Scene{
		Terrain:      grid,
		TerrainStats: stats,
		Water:        water.NewSurface(waterWidth, waterDepth, waterSegments, WaterOffset),
		WaterParams:  cfg.WaterParams(),
		Lighting:     render3d.DefaultLighting(),
		DayCycle:     cfg.Scene.DayCycle,
		baseWater:    cfg.WaterParams(),
		modulator:    mod,
		scheduler:    core.NewScheduler(),
		particles:    render3d.NewParticleSystem(0.6),
	}

	s.Static = append(s.Static, grid.Mesh(render3d.Vec3{}), makeGlacier(), makeRiver())

	rng := rand.New(rand.NewPCG(uint64(cfg.Seed), uint64(cfg.Seed)^0x9e3779b97f4a7c15))
	if cfg.Scene.Props {
		s.placeProps(props, rng, events)
	}

	s.Flock = NewFlock(cfg.Scene.Birds, rng)
	s.scheduler.AddSystem(s.Flock)
	s.birdMesh = render3d.MakeSphere(0.5, 8, 8, birdColor)
	s.birdMesh.Alpha = 0.9
	s.birdMesh.Unlit = true

	if cfg.Scene.Phoenix {
		s.Phoenix = NewPhoenixFlight()
		s.scheduler.AddSystem(s.Phoenix)
		s.phoenixMesh = render3d.MakeCone(0.8, 2, 8, phoenixColor)
		s.phoenixMesh.Unlit = true
	}

	s.Dust = NewDust(cfg.Scene.DustMotes, rng)
	s.scheduler.AddSystem(s.Dust)

	if cfg.Scene.Props {
		if m, err := s.prop(props, PropCloudRing, events); err == nil {
			s.cloudMesh = m
			s.Clouds = &Clouds{Rings: DefaultCloudRings()}
			s.scheduler.AddSystem(s.Clouds)
		}
	}

	slog.Info("scene built",
		"vertices", stats.Vertices,
		"snow", stats.Snow,
		"rock", stats.Rock,
		"grass", stats.Grass,
		"static_meshes", len(s.Static),
		"skipped_props", len(s.Skipped),
	)
	if events != nil {
		events.Emit(core.Event{Type: core.EvtSceneBuilt, Payload: stats})
	}
	return s, nil
}

func makeGlacier() *render3d.Mesh3D {
	cone := render3d.MakeCone(10, 18, 40, glacierColor)
	m := cone.Transform(render3d.Mat4Translate(GlacierPos.X, GlacierPos.Y, GlacierPos.Z).
		Mul(render3d.Mat4RotateX(math.Pi * 0.13)))
	m.Alpha = 0.85
	return m
}

func makeRiver() *render3d.Mesh3D {
	path := render3d.CatmullRom(RiverPoints, riverDivisions)
	m := render3d.MakeTube(path, 2.7, 7, riverColor)
	m.Alpha = 0.62
	return m
}

// prop fetches a prop mesh, recording and announcing failures.
func (s *Scene) prop(src PropSource, name string, events *core.EventBus) (*render3d.Mesh3D, error) {
	m, err := src.Prop(name)
	if err != nil {
		slog.Warn("failed to load prop", "prop", name, "error", err)
		s.Skipped = append(s.Skipped, name)
		if events != nil {
			events.Emit(core.Event{Type: core.EvtPropSkipped, Payload: name})
		}
		return nil, err
	}
	return m, nil
}

// Placements returns the static prop layout for a seeded rng.
func Placements(rng *rand.Rand) []Placement {
	var out []Placement
	out = append(out, scatterTrees(rng, PropMaple, 8, 1, 1, 2.1)...)
	out = append(out, scatterTrees(rng, PropPine, 6, -1, 1, 2.1)...)

	out = append(out,
		Placement{Name: PropMountain, Position: MountainPos, Scale: render3d.V3(10, 10, 10), RotY: math.Pi * 0.12},
		Placement{Name: PropMaple, Position: render3d.V3(8, 2.1, -6), Scale: render3d.V3(2.2, 2.6, 2.2), RotY: rng.Float64() * 2 * math.Pi},
		Placement{Name: PropPine, Position: render3d.V3(-12, 2.1, -4), Scale: render3d.V3(2.0, 2.4, 2.0), RotY: rng.Float64() * 2 * math.Pi},
		Placement{Name: PropHut, Position: HutPos, Scale: render3d.V3(2.2, 2.2, 2.2), RotY: math.Pi * 0.15},
	)

	for i := 0; i < 8; i++ {
		a := rng.Float64() * 2 * math.Pi
		r := 10 + rng.Float64()*40
		sc := 0.7 + rng.Float64()*0.7
		out = append(out, Placement{
			Name:     PropGrass,
			Position: render3d.V3(math.Cos(a)*r, 2.05, math.Sin(a)*r),
			Scale:    render3d.V3(sc, sc, sc),
			RotY:     rng.Float64() * 2 * math.Pi,
		})
	}
	return out
}

// scatterTrees places count trees on an arc around the valley, biased to
// one side by xBias.
func scatterTrees(rng *rand.Rand, name string, count int, xBias, zBias, yStart float64) []Placement {
	out := make([]Placement, 0, count)
	offset := 0.8
	if xBias > 0 {
		offset = 0.2
	}
	for i := 0; i < count; i++ {
		angle := math.Pi * (rng.Float64()*0.5 + offset)
		radius := 38 + rng.Float64()*33
		x := math.Cos(angle)*radius*xBias + (rng.Float64()-0.5)*8
		z := math.Sin(angle)*radius*zBias + (rng.Float64()-0.5)*6
		y := yStart + (rng.Float64()-0.5)*2
		sc := 1.3 + rng.Float64()*0.8
		out = append(out, Placement{
			Name:     name,
			Position: render3d.V3(x, y, z),
			Scale:    render3d.V3(sc, sc+(rng.Float64()-0.5)*0.7, sc),
			RotY:     rng.Float64() * 2 * math.Pi,
		})
	}
	return out
}

// placeProps bakes every placement into one opaque and one translucent mesh.
func (s *Scene) placeProps(src PropSource, rng *rand.Rand, events *core.EventBus) {
	cache := make(map[string]*render3d.Mesh3D)
	failed := make(map[string]bool)
	opaque := render3d.NewMesh()
	translucent := render3d.NewMesh()
	translucent.Alpha = 0

	for _, pl := range Placements(rng) {
		if failed[pl.Name] {
			continue
		}
		m, ok := cache[pl.Name]
		if !ok {
			var err error
			m, err = s.prop(src, pl.Name, events)
			if err != nil {
				failed[pl.Name] = true
				continue
			}
			cache[pl.Name] = m
		}
		placed := m.Transform(pl.Matrix())
		if m.Alpha < 1 {
			translucent.Append(placed)
			translucent.Alpha = math.Max(translucent.Alpha, m.Alpha)
		} else {
			opaque.Append(placed)
		}
	}
	if len(opaque.Triangles) > 0 {
		s.Static = append(s.Static, opaque)
	}
	if len(translucent.Triangles) > 0 {
		s.Static = append(s.Static, translucent)
	}
}

// Update advances every animated system and the per-frame parameters.
func (s *Scene) Update(f core.Frame) {
	s.frame = f
	s.scheduler.Tick(f)

	s.WaterParams = s.baseWater
	s.modulator.Apply(&s.WaterParams, f.Elapsed)

	if s.DayCycle {
		s.Lighting.UpdateSun(f.Millis)
	}
}

// Time is the elapsed scene time in seconds.
func (s *Scene) Time() float64 { return s.frame.Elapsed }

// Dynamic returns this frame's moving meshes in world space. right and up
// orient the dust billboards toward the camera.
func (s *Scene) Dynamic(right, up render3d.Vec3) []*render3d.Mesh3D {
	var out []*render3d.Mesh3D

	if s.Flock != nil && len(s.Flock.Birds) > 0 {
		birds := render3d.NewMesh()
		birds.Alpha = s.birdMesh.Alpha
		birds.Unlit = true
		for _, b := range s.Flock.Birds {
			k := b.Size * b.Scale
			mat := render3d.Mat4Translate(b.Pos.X, b.Pos.Y, b.Pos.Z).
				Mul(render3d.Mat4RotateY(b.Yaw)).
				Mul(render3d.Mat4RotateX(b.Pitch)).
				Mul(render3d.Mat4Scale(k, k, k))
			birds.Append(s.birdMesh.Transform(mat))
		}
		out = append(out, birds)
	}

	if s.Phoenix != nil {
		ph := s.Phoenix.Phoenix
		mat := render3d.Mat4Translate(ph.Pos.X, ph.Pos.Y, ph.Pos.Z).
			Mul(render3d.Mat4RotateX(ph.Pitch)).
			Mul(render3d.Mat4RotateZ(ph.Roll))
		out = append(out, s.phoenixMesh.Transform(mat))
	}

	if s.Clouds != nil {
		for _, r := range s.Clouds.Rings {
			mat := render3d.Mat4Translate(r.Pos.X, r.Pos.Y, r.Pos.Z).
				Mul(render3d.Mat4RotateY(r.Yaw)).
				Mul(render3d.Mat4Scale(r.Scale, r.Scale, r.Scale))
			out = append(out, s.cloudMesh.Transform(mat))
		}
	}

	if s.Dust != nil && len(s.Dust.Motes) > 0 {
		s.particles.Reset()
		for _, m := range s.Dust.Motes {
			s.particles.Add(render3d.Particle{Pos: m.Pos, Color: dustColor, Size: dustSize})
		}
		out = append(out, s.particles.GenerateParticleMeshes(right, up))
	}
	return out
}
