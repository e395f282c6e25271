package scene

import (
	"fmt"
	"math"

	"github.com/1siamBot/peaceful-valley/engine/render3d"
)

// Prop names understood by ProceduralProps.
const (
	PropMaple     = "maple_tree"
	PropPine      = "pine_tree"
	PropHut       = "winter_hut"
	PropMountain  = "great_mountain"
	PropGrass     = "grass_clump"
	PropCloudRing = "cloud_ring"
)

// PropSource resolves a prop name to a mesh in model space, base at y=0.
type PropSource interface {
	Prop(name string) (*render3d.Mesh3D, error)
}

// ProceduralProps builds low-poly stand-ins for every prop in code.
type ProceduralProps struct{}

var (
	barkColor    = render3d.Color3{R: 0.4, G: 0.25, B: 0.1}
	mapleLeaf    = render3d.Hex(0xc8553d)
	mapleLeafLit = render3d.Hex(0xe07a3a)
	pineNeedle   = render3d.Hex(0x2f6b3a)
	hutWall      = render3d.Hex(0x7a5234)
	hutSnow      = render3d.Hex(0xf2f6fa)
	hutDoor      = render3d.Hex(0x3d2817)
	rockGray     = render3d.Hex(0x6f7378)
	grassBlade   = render3d.Hex(0x5fa35a)
	cloudWhite   = render3d.Hex(0xf4f8fb)
)

func (ProceduralProps) Prop(name string) (*render3d.Mesh3D, error) {
	switch name {
	case PropMaple:
		return makeMaple(), nil
	case PropPine:
		return makePine(), nil
	case PropHut:
		return makeHut(), nil
	case PropMountain:
		return makeMountain(), nil
	case PropGrass:
		return makeGrassClump(), nil
	case PropCloudRing:
		return makeCloudRing(), nil
	}
	return nil, fmt.Errorf("prop %q: not found", name)
}

// --- Trees ---

func makeMaple() *render3d.Mesh3D {
	m := render3d.NewMesh()

	trunk := render3d.MakeCylinder(0.18, 1.6, 6, barkColor)
	m.Append(trunk.Transform(render3d.Mat4Translate(0, 0.8, 0)))

	// Canopy (three overlapping blobs)
	blobs := []struct {
		x, y, z, r float64
		c          render3d.Color3
	}{
		{0, 2.2, 0, 0.95, mapleLeaf},
		{0.55, 1.9, 0.2, 0.65, mapleLeafLit},
		{-0.45, 2.0, -0.3, 0.7, mapleLeaf},
	}
	for _, b := range blobs {
		s := render3d.MakeSphere(b.r, 8, 6, b.c)
		m.Append(s.Transform(render3d.Mat4Translate(b.x, b.y, b.z)))
	}
	return m
}

func makePine() *render3d.Mesh3D {
	m := render3d.NewMesh()

	trunk := render3d.MakeCylinder(0.12, 0.8, 6, barkColor)
	m.Append(trunk.Transform(render3d.Mat4Translate(0, 0.4, 0)))

	// Stacked tiers, narrowing upward
	for i := 0; i < 3; i++ {
		fi := float64(i)
		r := 0.9 - fi*0.22
		h := 1.2 - fi*0.15
		y := 0.8 + fi*0.6 + h/2
		tier := render3d.MakeCone(r, h, 7, pineNeedle.Scale(1+fi*0.08))
		m.Append(tier.Transform(render3d.Mat4Translate(0, y, 0)))
	}
	return m
}

// --- Structures ---

func makeHut() *render3d.Mesh3D {
	m := render3d.NewMesh()

	walls := render3d.MakeBox(1.6, 0.9, 1.2, hutWall)
	m.Append(walls.Transform(render3d.Mat4Translate(0, 0.45, 0)))

	roof := render3d.MakeRoof(1.8, 0.9, 1.4, 0.6, hutSnow)
	m.Append(roof)

	door := render3d.MakeBox(0.3, 0.55, 0.04, hutDoor)
	m.Append(door.Transform(render3d.Mat4Translate(0, 0.275, 0.62)))

	chimney := render3d.MakeBox(0.18, 0.5, 0.18, rockGray)
	m.Append(chimney.Transform(render3d.Mat4Translate(0.5, 1.3, -0.2)))

	return m
}

func makeMountain() *render3d.Mesh3D {
	m := render3d.NewMesh()

	body := render3d.MakeCone(3.2, 4.5, 9, rockGray)
	m.Append(body.Transform(render3d.Mat4Translate(0, 2.25, 0)))

	shoulder := render3d.MakeCone(2.0, 3.0, 8, rockGray.Scale(0.9))
	m.Append(shoulder.Transform(render3d.Mat4Translate(1.8, 1.5, 0.6)))

	// Snow cap over the upper third
	snowCap := render3d.MakeCone(1.15, 1.62, 9, hutSnow)
	m.Append(snowCap.Transform(render3d.Mat4Translate(0, 4.5-0.81+0.02, 0)))

	return m
}

func makeGrassClump() *render3d.Mesh3D {
	m := render3d.NewMesh()
	for i := 0; i < 5; i++ {
		a := float64(i) / 5 * 2 * math.Pi
		h := 0.45 + 0.1*float64(i%3)
		blade := render3d.MakeCone(0.06, h, 4, grassBlade.Scale(0.9+0.05*float64(i%3)))
		tilt := render3d.Mat4RotateZ(0.25 * math.Cos(a)).Mul(render3d.Mat4RotateX(0.25 * math.Sin(a)))
		mat := render3d.Mat4Translate(0.12*math.Cos(a), h/2, 0.12*math.Sin(a)).Mul(tilt)
		m.Append(blade.Transform(mat))
	}
	return m
}

// makeCloudRing is a loop of puffs of radius ~1 lying in the XZ plane.
func makeCloudRing() *render3d.Mesh3D {
	m := render3d.NewMesh()
	const puffs = 10
	for i := 0; i < puffs; i++ {
		a := float64(i) / puffs * 2 * math.Pi
		r := 0.28 + 0.08*float64(i%3)
		puff := render3d.MakeSphere(r, 7, 5, cloudWhite)
		m.Append(puff.Transform(render3d.Mat4Translate(math.Cos(a), 0.05*float64(i%2), math.Sin(a))))
	}
	m.Alpha = 0.9
	return m
}

// Placement positions a named prop in the world.
type Placement struct {
	Name     string
	Position render3d.Vec3
	Scale    render3d.Vec3
	RotY     float64
}

// Matrix returns the model-to-world transform (translate · rotateY · scale).
func (p Placement) Matrix() render3d.Mat4 {
	return render3d.Mat4Translate(p.Position.X, p.Position.Y, p.Position.Z).
		Mul(render3d.Mat4RotateY(p.RotY)).
		Mul(render3d.Mat4Scale(p.Scale.X, p.Scale.Y, p.Scale.Z))
}
