package render

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/1siamBot/peaceful-valley/engine/terrain"
)

const (
	hudPadding    = 8
	hudLineHeight = 16
	hudWidth      = 300
)

var (
	hudBackground = color.RGBA{10, 20, 30, 150}
	hudText       = color.RGBA{230, 236, 240, 255}
	hudDim        = color.RGBA{170, 185, 195, 255}
)

// Status is what the overlay reports each frame.
type Status struct {
	FPS        float64
	Tick       uint64
	Paused     bool
	AutoRotate bool
	Preset     int
	Shader     bool
	Terrain    terrain.Stats
	Triangles  int
	Culled     int
	Skipped    []string
}

// Lines formats the status for display.
func (s Status) Lines() []string {
	water := "shader"
	if !s.Shader {
		water = "cpu"
	}
	state := "running"
	if s.Paused {
		state = "paused"
	}
	lines := []string{
		fmt.Sprintf("Peaceful Valley  %.0f fps  tick %d  %s", s.FPS, s.Tick, state),
		fmt.Sprintf("view %d  auto-rotate %t  water %s", s.Preset, s.AutoRotate, water),
		fmt.Sprintf("terrain %d verts  grass %d  rock %d  snow %d",
			s.Terrain.Vertices, s.Terrain.Grass, s.Terrain.Rock, s.Terrain.Snow),
		fmt.Sprintf("triangles %d  culled %d", s.Triangles, s.Culled),
	}
	if len(s.Skipped) > 0 {
		lines = append(lines, fmt.Sprintf("missing props: %v", s.Skipped))
	}
	return lines
}

// HUD draws the status panel and key help.
type HUD struct {
	Visible bool
}

func NewHUD() *HUD { return &HUD{Visible: true} }

// Toggle flips visibility and reports the new state.
func (h *HUD) Toggle() bool {
	h.Visible = !h.Visible
	return h.Visible
}

func (h *HUD) Draw(screen *ebiten.Image, st Status) {
	if h == nil || !h.Visible {
		return
	}
	face := basicfont.Face7x13
	lines := st.Lines()
	help := "WASD/QE move  drag orbit  wheel zoom  1-5 views  R rotate  P pause  H hide"

	panelH := float32(hudPadding*2 + hudLineHeight*(len(lines)+1))
	vector.DrawFilledRect(screen, hudPadding, hudPadding, hudWidth+200, panelH, hudBackground, false)

	y := hudPadding*2 + 10
	for _, line := range lines {
		text.Draw(screen, line, face, hudPadding*2, y, hudText)
		y += hudLineHeight
	}
	text.Draw(screen, help, face, hudPadding*2, y, hudDim)
}
