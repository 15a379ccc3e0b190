package stdimg

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Fepozopo/localeq/pkg/enhance"
)

// ComputeHistogram computes the 8-bit luminance histogram of src folded into
// `bins` bins (e.g., 256).
func ComputeHistogram(src image.Image, bins int) []int {
	if src == nil {
		return nil
	}
	if bins <= 0 || bins > 256 {
		bins = 256
	}
	full := make([]int, 256)
	if err := enhance.Histogram(GrayPlane(src), full); err != nil {
		return nil
	}
	if bins == 256 {
		return full
	}
	hist := make([]int, bins)
	for level, n := range full {
		hist[level*bins/256] += n
	}
	return hist
}

// Equalize performs global histogram equalization of the luminance of src.
// 16-bit sources are equalized over 65536 levels.
func Equalize(src image.Image) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	if Is16Bit(src) {
		in := Gray16Plane(src)
		out := enhance.NewPlane[uint16](in.Width, in.Height)
		s := enhance.NewScratch(enhance.Levels[uint16]())
		if err := enhance.Equalize(in, s.Histogram, s.Transform, out); err != nil {
			return nil, fmt.Errorf("equalize: %w", err)
		}
		return PlaneToGray16(out), nil
	}
	in := GrayPlane(src)
	out := enhance.NewPlane[uint8](in.Width, in.Height)
	s := enhance.NewScratch(256)
	if err := enhance.Equalize(in, s.Histogram, s.Transform, out); err != nil {
		return nil, fmt.Errorf("equalize: %w", err)
	}
	return PlaneToGray(out), nil
}

// RenderHistogramImage renders hist as dark bars on a white background with
// the peak count printed in the top-left corner.
func RenderHistogramImage(hist []int, width, height int) *image.NRGBA {
	if width <= 0 {
		width = 512
	}
	if height <= 0 {
		height = 120
	}
	out := image.NewNRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i+0] = 255
		out.Pix[i+1] = 255
		out.Pix[i+2] = 255
		out.Pix[i+3] = 255
	}
	bins := len(hist)
	if bins == 0 {
		return out
	}
	maxv := 1
	for _, v := range hist {
		maxv = max(maxv, v)
	}

	for x := 0; x < width; x++ {
		bin := clampInt(int(math.Floor(float64(x)*float64(bins)/float64(width))), 0, bins-1)
		h := int(math.Round(float64(hist[bin]) / float64(maxv) * float64(height-1)))
		for y := 0; y < h; y++ {
			i := out.PixOffset(x, height-1-y)
			out.Pix[i+0] = 40
			out.Pix[i+1] = 40
			out.Pix[i+2] = 40
		}
	}

	d := &font.Drawer{
		Dst:  out,
		Src:  image.NewUniform(color.NRGBA{R: 200, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(4), Y: fixed.I(13)},
	}
	d.DrawString(fmt.Sprintf("max %d", maxv))
	return out
}
