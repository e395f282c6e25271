package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1siamBot/peaceful-valley/engine/config"
	"github.com/1siamBot/peaceful-valley/engine/core"
	"github.com/1siamBot/peaceful-valley/engine/input"
	"github.com/1siamBot/peaceful-valley/engine/render"
	"github.com/1siamBot/peaceful-valley/engine/render3d"
	"github.com/1siamBot/peaceful-valley/engine/scene"
)

const (
	moveSpeed   = 14.0  // world units per second
	liftSpeed   = 8.4   // world units per second
	orbitPerPx  = 0.005 // radians per dragged pixel
	zoomPerStep = 0.9
)

// Game implements ebiten.Game interface
type Game struct {
	scene    *scene.Scene
	renderer *render.Renderer
	hud      *render.HUD
	input    *input.InputState
	clock    *core.Clock
	events   *core.EventBus

	preset int
	frame  core.Frame
}

func NewGame(ctx context.Context, cfg *config.Config) (*Game, error) {
	events := core.NewEventBus()
	s, err := scene.Build(ctx, cfg, scene.ProceduralProps{}, events)
	if err != nil {
		return nil, err
	}

	g := &Game{
		scene:    s,
		renderer: render.NewRenderer(cfg.Window.Width, cfg.Window.Height, cfg.Water.Shader),
		hud:      render.NewHUD(),
		input:    input.NewInputState(),
		clock:    core.NewClock(),
		events:   events,
		preset:   1,
	}
	g.renderer.Camera.ApplyPreset(g.preset)
	g.renderer.Camera.AutoRotate = cfg.Scene.AutoRotate
	if g.renderer.ShaderErr != nil {
		events.Emit(core.Event{Type: core.EvtShaderFallback, Payload: g.renderer.ShaderErr})
	}
	g.subscribe()
	return g, nil
}

func (g *Game) subscribe() {
	logEvent := func(e core.Event) {
		slog.Info("event", "type", e.Type, "tick", e.Tick, "payload", e.Payload)
	}
	for _, t := range []core.EventType{
		core.EvtPresetApplied,
		core.EvtAutoRotateToggled,
		core.EvtPauseToggled,
		core.EvtShaderFallback,
		core.EvtSceneBuilt,
	} {
		g.events.On(t, logEvent)
	}
	g.events.On(core.EvtPropSkipped, func(e core.Event) {
		slog.Warn("prop skipped", "prop", e.Payload)
	})
}

func (g *Game) Update() error {
	g.input.Update()
	in := g.input.Intent()

	if in.TogglePause {
		g.emit(core.EvtPauseToggled, g.clock.TogglePause())
	}
	if in.ToggleHUD {
		g.hud.Toggle()
	}

	g.frame = g.clock.Advance()
	g.handleCamera(in, g.frame.Delta)
	g.scene.Update(g.frame)
	g.events.Dispatch()
	return nil
}

func (g *Game) handleCamera(in input.Intent, dt float64) {
	cam := g.renderer.Camera

	if in.Preset != 0 && cam.ApplyPreset(in.Preset) {
		g.preset = in.Preset
		g.emit(core.EvtPresetApplied, in.Preset)
	}
	if in.ToggleRotate {
		g.emit(core.EvtAutoRotateToggled, cam.ToggleAutoRotate())
	}

	if in.Forward != 0 || in.Strafe != 0 || in.Lift != 0 {
		forward := cam.Target.Sub(cam.Position)
		forward.Y = 0
		forward = forward.Normalize()
		right := forward.Cross(render3d.V3(0, 1, 0)).Normalize()
		// Movement follows wall time so the camera still works while paused.
		tick := 1.0 / float64(ebiten.TPS())
		step := forward.Scale(in.Forward).Add(right.Scale(in.Strafe)).Scale(moveSpeed * tick).
			Add(render3d.V3(0, in.Lift*liftSpeed*tick, 0))
		cam.Move(step.X, step.Y, step.Z)
	}
	if in.OrbitDX != 0 || in.OrbitDY != 0 {
		cam.Orbit(in.OrbitDX*orbitPerPx, in.OrbitDY*orbitPerPx)
	}
	if in.Zoom != 0 {
		cam.Zoom(math.Pow(zoomPerStep, in.Zoom))
	}
	cam.Update(dt)
}

func (g *Game) emit(t core.EventType, payload any) {
	g.events.Emit(core.Event{Type: t, Tick: g.frame.Tick, Payload: payload})
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.scene)

	stats := g.renderer.Stats()
	g.hud.Draw(screen, render.Status{
		FPS:        ebiten.ActualFPS(),
		Tick:       g.frame.Tick,
		Paused:     g.clock.Paused,
		AutoRotate: g.renderer.Camera.AutoRotate,
		Preset:     g.preset,
		Shader:     g.renderer.ShaderActive(),
		Terrain:    g.scene.TerrainStats,
		Triangles:  stats.Submitted,
		Culled:     stats.Culled,
		Skipped:    g.scene.Skipped,
	})
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.renderer.Camera.SetScreen(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func run(args []string) error {
	fs := flag.NewFlagSet("valley", flag.ContinueOnError)
	writeConfig := fs.String("write-config", "", "write the default configuration to this path and exit")
	cfg, err := config.Parse(fs, args)
	if err != nil {
		return err
	}
	if *writeConfig != "" {
		return config.WriteDefault(*writeConfig)
	}

	level, _ := cfg.Level()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	g, err := NewGame(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("build scene: %w", err)
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(g)
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("valley exited", "error", err)
		os.Exit(1)
	}
}
