package render3d

import "math"

// CatmullRomPoint evaluates a uniform Catmull-Rom spline through points at
// t in [0,1]. End segments reuse the end points as their outer neighbours.
func CatmullRomPoint(points []Vec3, t float64) Vec3 {
	n := len(points)
	switch n {
	case 0:
		return Vec3{}
	case 1:
		return points[0]
	}
	p := float64(n-1) * math.Max(0, math.Min(1, t))
	seg := int(math.Floor(p))
	if seg >= n-1 {
		seg = n - 2
	}
	w := p - float64(seg)

	at := func(i int) Vec3 {
		if i < 0 {
			i = 0
		}
		if i > n-1 {
			i = n - 1
		}
		return points[i]
	}
	p0, p1, p2, p3 := at(seg-1), at(seg), at(seg+1), at(seg+2)

	w2 := w * w
	w3 := w2 * w
	c0 := -0.5*w3 + w2 - 0.5*w
	c1 := 1.5*w3 - 2.5*w2 + 1
	c2 := -1.5*w3 + 2*w2 + 0.5*w
	c3 := 0.5*w3 - 0.5*w2
	return p0.Scale(c0).Add(p1.Scale(c1)).Add(p2.Scale(c2)).Add(p3.Scale(c3))
}

// CatmullRom samples divisions+1 evenly spaced (in t) points along the spline.
func CatmullRom(points []Vec3, divisions int) []Vec3 {
	if divisions < 1 {
		divisions = 1
	}
	out := make([]Vec3, divisions+1)
	for i := range out {
		out[i] = CatmullRomPoint(points, float64(i)/float64(divisions))
	}
	return out
}
