// Package render draws a valley scene with Ebitengine.
package render

import (
	"fmt"
	"image/color"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/1siamBot/peaceful-valley/engine/render3d"
	"github.com/1siamBot/peaceful-valley/engine/scene"
	"github.com/1siamBot/peaceful-valley/engine/water"
)

// maxBatchVertices keeps batched indices within uint16.
const maxBatchVertices = 65000

var (
	skyTop    = render3d.Hex(0x5b9fd6)
	sunColor  = color.RGBA{255, 250, 200, 255}
	sunHalo   = color.RGBA{255, 245, 190, 60}
	skyBands  = 32
	sunRadius = float32(18)
)

// Renderer projects the scene and rasterises it back to front.
type Renderer struct {
	Camera *render3d.Camera3D
	// ShaderErr is set when the water shader could not be built; water is
	// then shaded on the CPU.
	ShaderErr error

	whiteImg *ebiten.Image
	water    *ebiten.Shader
	queue    render3d.Queue
	vertices []ebiten.Vertex
	indices  []uint16
	uniforms map[string]any
}

// NewRenderer creates the renderer. With useShader false, or when the water
// shader fails to compile, water is shaded per vertex on the CPU.
func NewRenderer(screenW, screenH int, useShader bool) *Renderer {
	r := &Renderer{
		Camera:   render3d.NewCamera3D(screenW, screenH),
		uniforms: make(map[string]any, 6),
	}

	// Solid source for coloured triangles
	r.whiteImg = ebiten.NewImage(4, 4)
	r.whiteImg.Fill(color.White)

	if useShader {
		sh, err := ebiten.NewShader(water.ShaderSource)
		if err != nil {
			r.ShaderErr = fmt.Errorf("compile water shader: %w", err)
			slog.Warn("water shader unavailable, shading on the CPU", "error", err)
		} else {
			r.water = sh
		}
	}
	return r
}

// ShaderActive reports whether water uses the GPU fragment stage.
func (r *Renderer) ShaderActive() bool { return r.water != nil }

// Stats returns the triangle counts of the last frame.
func (r *Renderer) Stats() render3d.QueueStats { return r.queue.Stats }

// Draw renders one frame of s.
func (r *Renderer) Draw(screen *ebiten.Image, s *scene.Scene) {
	r.drawSky(screen, &s.Lighting)

	q := &r.queue
	q.Begin(r.Camera, &s.Lighting)
	for _, m := range s.Static {
		q.AddMesh(m)
	}
	for _, m := range s.Dynamic(r.Camera.Basis()) {
		q.AddMesh(m)
	}
	r.queueWater(s)
	r.setWaterUniforms(s.Time(), s.WaterParams, s.Lighting.Fog.Color)
	q.Sort()

	for _, t := range q.Opaque {
		r.add(screen, t)
	}
	r.flush(screen, false)

	shaded := false
	for _, t := range q.Translucent {
		if t.Shaded != shaded {
			r.flush(screen, shaded)
			shaded = t.Shaded
		}
		r.add(screen, t)
	}
	r.flush(screen, shaded)
}

// drawSky fills a gradient from zenith blue down to the fog colour, then the
// sun disc when it is in view.
func (r *Renderer) drawSky(screen *ebiten.Image, ls *render3d.LightingSetup) {
	w := r.Camera.ScreenW
	h := r.Camera.ScreenH
	bandH := h / skyBands
	if bandH < 1 {
		bandH = 1
	}
	for i := 0; i < skyBands; i++ {
		c := skyTop.Lerp(ls.Fog.Color, float64(i)/float64(skyBands-1))
		by := i * bandH
		bh := bandH
		if i == skyBands-1 {
			bh = h - by
		}
		vector.DrawFilledRect(screen, 0, float32(by), float32(w), float32(bh), toRGBA(c, 1), false)
	}

	r.queue.Begin(r.Camera, ls)
	if x, y, ok := r.queue.SunScreen(); ok {
		vector.DrawFilledCircle(screen, float32(x), float32(y), sunRadius*2.2, sunHalo, true)
		vector.DrawFilledCircle(screen, float32(x), float32(y), sunRadius, sunColor, true)
	}
}

func (r *Renderer) queueWater(s *scene.Scene) {
	t := s.Time()
	p := s.WaterParams
	verts := s.Water.Vertices(t, p)
	idx := s.Water.Indices()

	if r.water != nil {
		for i := 0; i+2 < len(idx); i += 3 {
			a, b, c := verts[idx[i]], verts[idx[i+1]], verts[idx[i+2]]
			r.queue.AddShaded(
				[3]render3d.Vec3{a.Pos, b.Pos, c.Pos},
				[3][3]float64{{a.U, a.V, a.Wave}, {b.U, b.V, b.Wave}, {c.U, c.V, c.Wave}},
			)
		}
		return
	}

	for i := 0; i+2 < len(idx); i += 3 {
		var pos [3]render3d.Vec3
		var col [3]render3d.Color3
		var alpha [3]float64
		for k := 0; k < 3; k++ {
			v := verts[idx[i+k]]
			sh := water.Shade(v.U, v.V, v.Wave, t, p)
			pos[k] = v.Pos
			col[k] = render3d.Color3{R: sh.R, G: sh.G, B: sh.B}
			alpha[k] = sh.A
		}
		r.queue.AddColored(pos, col, alpha)
	}
}

func (r *Renderer) add(screen *ebiten.Image, t render3d.ScreenTriangle) {
	base := uint16(len(r.vertices))
	for _, v := range t.V {
		r.vertices = append(r.vertices, ebiten.Vertex{
			DstX:    float32(v.X),
			DstY:    float32(v.Y),
			SrcX:    1,
			SrcY:    1,
			ColorR:  float32(v.Color.R),
			ColorG:  float32(v.Color.G),
			ColorB:  float32(v.Color.B),
			ColorA:  float32(v.Alpha),
			Custom0: float32(v.Custom[0]),
			Custom1: float32(v.Custom[1]),
			Custom2: float32(v.Custom[2]),
			Custom3: float32(v.Custom[3]),
		})
	}
	r.indices = append(r.indices, base, base+1, base+2)

	if len(r.vertices) >= maxBatchVertices {
		r.flush(screen, t.Shaded)
	}
}

func (r *Renderer) flush(screen *ebiten.Image, shaded bool) {
	if len(r.vertices) == 0 {
		return
	}
	if shaded {
		op := &ebiten.DrawTrianglesShaderOptions{Uniforms: r.uniforms}
		screen.DrawTrianglesShader(r.vertices, r.indices, r.water, op)
	} else {
		screen.DrawTriangles(r.vertices, r.indices, r.whiteImg, nil)
	}
	r.vertices = r.vertices[:0]
	r.indices = r.indices[:0]
}

// setWaterUniforms loads this frame's water parameters into the shader.
func (r *Renderer) setWaterUniforms(t float64, p water.Params, fog render3d.Color3) {
	r.uniforms["Time"] = float32(t)
	r.uniforms["ColorA"] = vec3(p.ColorA)
	r.uniforms["ColorB"] = vec3(p.ColorB)
	r.uniforms["ColorC"] = vec3(p.ColorC)
	r.uniforms["Opacity"] = float32(p.Opacity)
	r.uniforms["FogColor"] = vec3(fog)
}

func vec3(c render3d.Color3) []float32 {
	return []float32{float32(c.R), float32(c.G), float32(c.B)}
}

func toRGBA(c render3d.Color3, a float64) color.RGBA {
	c = c.Clamp()
	return color.RGBA{uint8(c.R * 255), uint8(c.G * 255), uint8(c.B * 255), uint8(a * 255)}
}
