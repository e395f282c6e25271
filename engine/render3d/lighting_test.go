package render3d

import (
	"math"
	"testing"
)

func TestFogFactor(t *testing.T) {
	f := Fog{Color: Hex(0xa9dbe9), Near: 25, Far: 180}
	tests := []struct {
		dist, want float64
	}{
		{0, 0},
		{25, 0},
		{102.5, 0.5},
		{180, 1},
		{1000, 1},
	}
	for _, tt := range tests {
		if got := f.Factor(tt.dist); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Factor(%v) = %v, want %v", tt.dist, got, tt.want)
		}
	}
	if got := f.Apply(Hex(0x000000), 1000); got != f.Color {
		t.Fatalf("fully fogged = %v", got)
	}
	if (Fog{Near: 10, Far: 10}).Factor(50) != 0 {
		t.Fatal("degenerate fog range should be clear")
	}
}

func TestComputeLightingFacesSun(t *testing.T) {
	ls := DefaultLighting()
	base := Hex(0x808080)
	toSun := ls.Sun.Direction()
	lit := ls.ComputeLighting(toSun, base)
	away := ls.ComputeLighting(toSun.Scale(-1), base)
	if lit.R <= away.R {
		t.Fatalf("sunlit %v should be brighter than shadowed %v", lit, away)
	}
	if lit.R > 1 || lit.G > 1 || lit.B > 1 {
		t.Fatalf("lighting not clamped: %v", lit)
	}
	if black := ls.ComputeLighting(toSun, Color3{}); black != (Color3{}) {
		t.Fatalf("black stays black, got %v", black)
	}
}

func TestUpdateSunArc(t *testing.T) {
	ls := DefaultLighting()
	ls.UpdateSun(0)
	if !nearVec(ls.Sun.Position, V3(110, 80, 0)) {
		t.Fatalf("sun at t=0: %v", ls.Sun.Position)
	}
	quarter := math.Pi / 2 / 0.00009
	ls.UpdateSun(quarter)
	if !nearVec(ls.Sun.Position, V3(0, 190, 46)) {
		t.Fatalf("sun at quarter arc: %v", ls.Sun.Position)
	}
}
