package stdimg

import (
	"image"

	"github.com/Fepozopo/localeq/pkg/enhance"
)

// Is16Bit reports whether img carries more than 8 bits per sample, in which
// case its luminance is processed as a 16-bit plane.
func Is16Bit(img image.Image) bool {
	switch img.(type) {
	case *image.Gray16, *image.RGBA64, *image.NRGBA64:
		return true
	}
	return false
}

// luminance16 returns Rec.709 luminance of premultiplied 16-bit components.
func luminance16(r, g, b uint32) uint16 {
	y := 0.2126*float64(r) + 0.7152*float64(g) + 0.0722*float64(b)
	return uint16(clampInt(int(y+0.5), 0, 65535))
}

// GrayPlane returns the 8-bit luminance of img as a plane. An *image.Gray
// source is wrapped without copying, so the plane shares its pixels.
func GrayPlane(img image.Image) *enhance.Plane[uint8] {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	if g, ok := img.(*image.Gray); ok {
		return &enhance.Plane[uint8]{
			Width:      b.Dx(),
			Height:     b.Dy(),
			Stride:     g.Stride,
			StartIndex: g.PixOffset(b.Min.X, b.Min.Y),
			Data:       g.Pix,
		}
	}
	p := enhance.NewPlane[uint8](b.Dx(), b.Dy())
	if n, ok := img.(*image.NRGBA); ok {
		for y := 0; y < p.Height; y++ {
			row := p.Row(y)
			for x := range row {
				i := n.PixOffset(b.Min.X+x, b.Min.Y+y)
				r := float64(n.Pix[i+0])
				g := float64(n.Pix[i+1])
				b_ := float64(n.Pix[i+2])
				row[x] = uint8(clampFloatToUint8(0.2126*r + 0.7152*g + 0.0722*b_))
			}
		}
		return p
	}
	for y := 0; y < p.Height; y++ {
		row := p.Row(y)
		for x := range row {
			r, g, b_, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = uint8(luminance16(r, g, b_) >> 8)
		}
	}
	return p
}

// Gray16Plane returns the 16-bit luminance of img as a freshly allocated plane.
func Gray16Plane(img image.Image) *enhance.Plane[uint16] {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	p := enhance.NewPlane[uint16](b.Dx(), b.Dy())
	if g, ok := img.(*image.Gray16); ok {
		for y := 0; y < p.Height; y++ {
			row := p.Row(y)
			for x := range row {
				i := g.PixOffset(b.Min.X+x, b.Min.Y+y)
				row[x] = uint16(g.Pix[i])<<8 | uint16(g.Pix[i+1])
			}
		}
		return p
	}
	for y := 0; y < p.Height; y++ {
		row := p.Row(y)
		for x := range row {
			r, g, b_, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			row[x] = luminance16(r, g, b_)
		}
	}
	return p
}

// PlaneToGray copies an 8-bit plane into a new *image.Gray.
func PlaneToGray(p *enhance.Plane[uint8]) *image.Gray {
	out := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height && p.Width > 0; y++ {
		copy(out.Pix[out.PixOffset(0, y):], p.Row(y))
	}
	return out
}

// PlaneToGray16 copies a 16-bit plane into a new *image.Gray16.
func PlaneToGray16(p *enhance.Plane[uint16]) *image.Gray16 {
	out := image.NewGray16(image.Rect(0, 0, p.Width, p.Height))
	for y := 0; y < p.Height && p.Width > 0; y++ {
		for x, v := range p.Row(y) {
			i := out.PixOffset(x, y)
			out.Pix[i+0] = uint8(v >> 8)
			out.Pix[i+1] = uint8(v)
		}
	}
	return out
}

// Grayscale converts img to its Rec.709 luminance, keeping 16-bit precision
// for 16-bit sources.
func Grayscale(img image.Image) image.Image {
	if img == nil {
		return nil
	}
	if Is16Bit(img) {
		return PlaneToGray16(Gray16Plane(img))
	}
	return PlaneToGray(GrayPlane(img))
}
