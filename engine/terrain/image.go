package terrain

import (
	"image"
	"image/color"
)

// HeightImage renders the grid's heights as 16-bit greyscale, row 0 at the
// top. Heights are normalised to the grid's own min and max.
func HeightImage(g *Grid) *image.Gray16 {
	n := g.Stride()
	img := image.NewGray16(image.Rect(0, 0, n, n))
	if g.Count() == 0 {
		return img
	}
	lo, hi := g.Z(0), g.Z(0)
	for i := 1; i < g.Count(); i++ {
		lo = min(lo, g.Z(i))
		hi = max(hi, g.Z(i))
	}
	span := hi - lo
	for i := 0; i < g.Count(); i++ {
		var v uint16
		if span > 0 {
			v = uint16((g.Z(i) - lo) / span * 0xffff)
		}
		img.SetGray16(i%n, i/n, color.Gray16{Y: v})
	}
	return img
}

// ColorImage renders the vertex colours, row 0 at the top.
func ColorImage(g *Grid) *image.RGBA {
	n := g.Stride()
	img := image.NewRGBA(image.Rect(0, 0, n, n))
	for i := 0; i < g.Count(); i++ {
		c := g.Color(i).Clamp()
		img.SetRGBA(i%n, i/n, color.RGBA{
			R: uint8(c.R*255 + 0.5),
			G: uint8(c.G*255 + 0.5),
			B: uint8(c.B*255 + 0.5),
			A: 255,
		})
	}
	return img
}
