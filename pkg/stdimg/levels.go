package stdimg

import (
	"fmt"
	"image"

	"github.com/Fepozopo/localeq/pkg/enhance"
)

// Normalize stretches the luminance extremes of src to the full range. A flat
// image is returned unchanged.
func Normalize(src image.Image) (image.Image, error) {
	return remapLuminance(src, "normalize", stretchTable)
}

// Negate inverts the luminance of src.
func Negate(src image.Image) (image.Image, error) {
	return remapLuminance(src, "negate", func(_, transform []int) {
		maxLevel := len(transform) - 1
		for v := range transform {
			transform[v] = maxLevel - v
		}
	})
}

// stretchTable maps the occupied level range [lo,hi] of hist linearly onto
// [0,maxLevel].
func stretchTable(hist, transform []int) {
	maxLevel := len(hist) - 1
	lo, hi := 0, maxLevel
	for lo < maxLevel && hist[lo] == 0 {
		lo++
	}
	for hi > 0 && hist[hi] == 0 {
		hi--
	}
	for v := range transform {
		switch {
		case hi <= lo:
			transform[v] = v
		case v <= lo:
			transform[v] = 0
		case v >= hi:
			transform[v] = maxLevel
		default:
			transform[v] = (v - lo) * maxLevel / (hi - lo)
		}
	}
}

// remapLuminance fills a lookup table from the luminance histogram of src and
// applies it with enhance.ApplyTransform.
func remapLuminance(src image.Image, name string, build func(hist, transform []int)) (image.Image, error) {
	if src == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	if Is16Bit(src) {
		out, err := remapPlane(Gray16Plane(src), build)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		return PlaneToGray16(out), nil
	}
	out, err := remapPlane(GrayPlane(src), build)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return PlaneToGray(out), nil
}

func remapPlane[T enhance.Sample](in *enhance.Plane[T], build func(hist, transform []int)) (*enhance.Plane[T], error) {
	s := enhance.NewScratch(enhance.Levels[T]())
	if err := enhance.Histogram(in, s.Histogram); err != nil {
		return nil, err
	}
	build(s.Histogram, s.Transform)
	out := enhance.NewPlane[T](in.Width, in.Height)
	if err := enhance.ApplyTransform(in, s.Transform, 0, out); err != nil {
		return nil, err
	}
	return out, nil
}
