package render3d

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func nearVec(a, b Vec3) bool { return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z) }

func TestMatrixOrder(t *testing.T) {
	// Translate · Scale applies the scale first.
	m := Mat4Translate(1, 0, 0).Mul(Mat4Scale(2, 2, 2))
	if got := m.TransformPoint(V3(1, 0, 0)); !nearVec(got, V3(3, 0, 0)) {
		t.Fatalf("T·S = %v", got)
	}
	if got := Mat4RotateY(math.Pi / 2).TransformPoint(V3(1, 0, 0)); !nearVec(got, V3(0, 0, -1)) {
		t.Fatalf("RotateY = %v", got)
	}
	if got := Mat4Translate(5, 5, 5).TransformDir(V3(0, 1, 0)); !nearVec(got, V3(0, 1, 0)) {
		t.Fatalf("TransformDir moved a direction: %v", got)
	}
	if got := Mat4Identity().TransformPoint(V3(1, 2, 3)); !nearVec(got, V3(1, 2, 3)) {
		t.Fatalf("identity = %v", got)
	}
}

func TestVecHelpers(t *testing.T) {
	if got := V3(1, 0, 0).Cross(V3(0, 1, 0)); got != V3(0, 0, 1) {
		t.Fatalf("x × y = %v", got)
	}
	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Fatalf("zero normalize = %v", got)
	}
	if got := V3(3, 4, 0).Len(); got != 5 {
		t.Fatalf("len = %v", got)
	}
}

func TestParseHex(t *testing.T) {
	c, err := ParseHex("#4a9eff")
	if err != nil {
		t.Fatal(err)
	}
	if c != Hex(0x4a9eff) {
		t.Fatalf("ParseHex = %v", c)
	}
	if got := c.String(); got != "#4a9eff" {
		t.Fatalf("String = %q", got)
	}
	if _, err := ParseHex("1e88e5"); err != nil {
		t.Fatalf("bare hex: %v", err)
	}
	for _, bad := range []string{"", "#12345", "#zzzzzz", "#1234567"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) should fail", bad)
		}
	}
}

func TestColorHelpers(t *testing.T) {
	c := Color3{R: 1.5, G: -0.2, B: 0.5}.Clamp()
	if c != (Color3{R: 1, G: 0, B: 0.5}) {
		t.Fatalf("Clamp = %v", c)
	}
	if got := Hex(0x000000).Lerp(Hex(0xffffff), 0.5); !near(got.R, 0.5) {
		t.Fatalf("Lerp = %v", got)
	}
	if got := Smoothstep(0, 1, 0.5); got != 0.5 {
		t.Fatalf("Smoothstep mid = %v", got)
	}
	if Smoothstep(0.8, 1, 0.5) != 0 || Smoothstep(0.8, 1, 2) != 1 {
		t.Fatal("Smoothstep should clamp")
	}
}

func TestCatmullRomPassesThroughControlPoints(t *testing.T) {
	pts := []Vec3{{0, 0, 0}, {1, 2, 0}, {3, 1, 1}, {4, 4, 2}, {6, 0, 0}}
	for i, p := range pts {
		got := CatmullRomPoint(pts, float64(i)/float64(len(pts)-1))
		if !nearVec(got, p) {
			t.Fatalf("point %d = %v, want %v", i, got, p)
		}
	}

	path := CatmullRom(pts, 30)
	if len(path) != 31 {
		t.Fatalf("samples = %d", len(path))
	}
	if path[0] != pts[0] || !nearVec(path[30], pts[4]) {
		t.Fatal("path should start and end on the control points")
	}
	if got := CatmullRom(pts, 0); len(got) != 2 {
		t.Fatalf("divisions clamp: %d samples", len(got))
	}
	if got := CatmullRomPoint(nil, 0.5); got != (Vec3{}) {
		t.Fatalf("empty = %v", got)
	}
}

func TestMeshTransformKeepsMaterial(t *testing.T) {
	m := MakeBox(2, 2, 2, Hex(0xff0000))
	if len(m.Triangles) != 12 {
		t.Fatalf("box triangles = %d", len(m.Triangles))
	}
	m.Alpha = 0.5
	m.Unlit = true
	out := m.Transform(Mat4Translate(0, 10, 0))
	if out.Alpha != 0.5 || !out.Unlit {
		t.Fatal("Transform dropped material flags")
	}
	if c := out.Triangles[0].Centroid(); c.Y < 9 || c.Y > 11 {
		t.Fatalf("centroid = %v", c)
	}
	if m.Triangles[0].V[0].Pos.Y > 1 {
		t.Fatal("Transform mutated the source mesh")
	}
}

func TestPrimitivesNonEmpty(t *testing.T) {
	c := Hex(0x808080)
	meshes := map[string]*Mesh3D{
		"cylinder": MakeCylinder(1, 2, 8, c),
		"roof":     MakeRoof(2, 1, 2, 0.5, c),
		"cone":     MakeCone(1, 2, 8, c),
		"sphere":   MakeSphere(1, 8, 6, c),
		"tube":     MakeTube([]Vec3{{0, 0, 0}, {0, 0, 5}, {3, 0, 8}}, 0.5, 6, c),
	}
	for name, m := range meshes {
		if len(m.Triangles) == 0 {
			t.Errorf("%s is empty", name)
		}
	}
	if got := MakeTube([]Vec3{{0, 0, 0}}, 1, 6, c); len(got.Triangles) != 0 {
		t.Fatal("single-point tube should be empty")
	}
}

func TestParticleQuads(t *testing.T) {
	ps := NewParticleSystem(0.6)
	ps.Add(Particle{Pos: V3(0, 0, 0), Color: Hex(0xffffff), Size: 1})
	ps.Add(Particle{Pos: V3(5, 0, 0), Color: Hex(0xffffff), Size: 1})
	m := ps.GenerateParticleMeshes(V3(1, 0, 0), V3(0, 1, 0))
	if len(m.Triangles) != 4 || m.Alpha != 0.6 || !m.Unlit {
		t.Fatalf("particles: %d triangles, alpha %v, unlit %v", len(m.Triangles), m.Alpha, m.Unlit)
	}
	ps.Reset()
	if len(ps.GenerateParticleMeshes(V3(1, 0, 0), V3(0, 1, 0)).Triangles) != 0 {
		t.Fatal("Reset should drop particles")
	}
}
