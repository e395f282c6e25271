package render3d

import "math"

// DirectionalLight represents a sun-like light
type DirectionalLight struct {
	Position  Vec3 // light shines from Position toward the origin
	Color     Color3
	Intensity float64
}

// Direction returns the normalized direction TO the light (from surface).
func (d DirectionalLight) Direction() Vec3 {
	return d.Position.Normalize()
}

// AmbientLight provides fill lighting
type AmbientLight struct {
	Color     Color3
	Intensity float64
}

// HemisphereLight blends a sky and a ground colour by how much a surface faces up.
type HemisphereLight struct {
	Sky       Color3
	Ground    Color3
	Intensity float64
}

// Fog fades colours linearly toward Color between Near and Far.
type Fog struct {
	Color     Color3
	Near, Far float64
}

// Factor returns the fog blend for a view distance, 0 = clear.
func (f Fog) Factor(dist float64) float64 {
	if f.Far <= f.Near {
		return 0
	}
	return clamp01((dist - f.Near) / (f.Far - f.Near))
}

// Apply blends c toward the fog colour.
func (f Fog) Apply(c Color3, dist float64) Color3 {
	return c.Lerp(f.Color, f.Factor(dist))
}

// LightingSetup contains the scene lighting
type LightingSetup struct {
	Sun     DirectionalLight
	Ambient AmbientLight
	Hemi    HemisphereLight
	Fog     Fog
}

// DefaultLighting returns the valley's daylight rig.
func DefaultLighting() LightingSetup {
	return LightingSetup{
		Sun: DirectionalLight{
			Position:  V3(56, 110, 42),
			Color:     Hex(0xfffaa8),
			Intensity: 1.4,
		},
		Ambient: AmbientLight{
			Color:     Hex(0xffffff),
			Intensity: 0.5,
		},
		Hemi: HemisphereLight{
			Sky:       Hex(0xb9eaff),
			Ground:    Hex(0x395379),
			Intensity: 0.48,
		},
		Fog: Fog{
			Color: Hex(0xa9dbe9),
			Near:  25,
			Far:   180,
		},
	}
}

// UpdateSun moves the sun along its day arc for the elapsed time in milliseconds.
func (ls *LightingSetup) UpdateSun(ms float64) {
	angle := math.Mod(ms*0.00009, 2*math.Pi)
	ls.Sun.Position = V3(
		110*math.Cos(angle),
		110*math.Sin(angle)+80,
		46*math.Sin(angle),
	)
}

// ComputeLighting calculates the lit color for a surface
func (ls *LightingSetup) ComputeLighting(normal Vec3, baseColor Color3) Color3 {
	ambient := baseColor.Mul(ls.Ambient.Color).Scale(ls.Ambient.Intensity)

	up := 0.5*normal.Y + 0.5
	hemi := baseColor.Mul(ls.Hemi.Ground.Lerp(ls.Hemi.Sky, up)).Scale(ls.Hemi.Intensity)

	// Diffuse (Lambert) - sun
	ndotl := math.Max(0, normal.Dot(ls.Sun.Direction()))
	diffuse := baseColor.Mul(ls.Sun.Color).Scale(ndotl * ls.Sun.Intensity)

	return ambient.Add(hemi).Add(diffuse).Clamp()
}
