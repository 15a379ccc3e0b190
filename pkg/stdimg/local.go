package stdimg

import (
	"context"
	"fmt"
	"image"
	"strings"

	"github.com/Fepozopo/localeq/pkg/enhance"
	"github.com/Fepozopo/localeq/pkg/enhance/parallel"
)

// LocalMode selects the local equalization variant.
type LocalMode string

const (
	// ModeAuto runs the composite driver: inner region plus border sweeps,
	// or the naive variant when the image is smaller than the window.
	ModeAuto     LocalMode = "auto"
	// ModeNaive recomputes every window from scratch.
	ModeNaive    LocalMode = "naive"
	// ModeInner equalizes only pixels whose window fits inside the image;
	// the border keeps the input luminance.
	ModeInner    LocalMode = "inner"
	// ModeParallel spreads the composite driver over goroutines.
	ModeParallel LocalMode = "parallel"
)

// LocalModes lists the accepted mode names in help order.
var LocalModes = []LocalMode{ModeAuto, ModeNaive, ModeInner, ModeParallel}

// ParseLocalMode parses a mode name. The empty string maps to ModeAuto.
func ParseLocalMode(s string) (LocalMode, error) {
	if s == "" {
		return ModeAuto, nil
	}
	m := LocalMode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range LocalModes {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown local mode %q (want auto, naive, inner or parallel)", s)
}

// EqualizeLocal equalizes the luminance of img over (2*radius+1) square
// windows. 16-bit sources yield *image.Gray16, everything else *image.Gray.
// workers only applies to ModeParallel; <= 0 uses GOMAXPROCS.
func EqualizeLocal(ctx context.Context, img image.Image, radius int, mode LocalMode, workers int) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	if Is16Bit(img) {
		out, err := runLocal(ctx, Gray16Plane(img), radius, mode, workers)
		if err != nil {
			return nil, err
		}
		return PlaneToGray16(out), nil
	}
	out, err := runLocal(ctx, GrayPlane(img), radius, mode, workers)
	if err != nil {
		return nil, err
	}
	return PlaneToGray(out), nil
}

func runLocal[T enhance.Sample](ctx context.Context, in *enhance.Plane[T], radius int, mode LocalMode, workers int) (*enhance.Plane[T], error) {
	levels := enhance.Levels[T]()
	out := enhance.NewPlane[T](in.Width, in.Height)
	s := enhance.NewScratch(levels)

	var err error
	switch mode {
	case ModeAuto, "":
		err = enhance.EqualizeLocal(in, radius, out, s.Histogram, s.Transform)
	case ModeNaive:
		err = enhance.EqualizeLocalNaive(in, radius, out, s.Histogram)
	case ModeInner:
		for y := 0; y < in.Height; y++ {
			copy(out.Row(y), in.Row(y))
		}
		err = enhance.EqualizeLocalInner(in, radius, out, s.Histogram)
	case ModeParallel:
		err = parallel.EqualizeLocal(ctx, in, radius, out, parallel.Options{Workers: workers, Levels: levels})
	default:
		return nil, fmt.Errorf("unknown local mode %q", mode)
	}
	if err != nil {
		return nil, fmt.Errorf("equalizeLocal (%s): %w", mode, err)
	}
	return out, nil
}
