package enhance

import "fmt"

// EqualizeLocalNaive equalizes every pixel of in against the histogram of its
// own window, recomputed from scratch. Near a border the window is shifted
// inward so it keeps its full width; only when the image is narrower than the
// window on an axis does it shrink to the image extent on that axis.
//
// This handles any image and radius and is the reference the faster variants
// are measured against. Cost is O(W*H*area).
func EqualizeLocalNaive[T Sample](in *Plane[T], radius int, out *Plane[T], hist []int) error {
	if err := CheckLocal(in, radius, out, hist); err != nil {
		return err
	}
	radius = ClampRadius(in, radius)
	maxLevel := len(hist) - 1
	for y := 0; y < in.Height; y++ {
		y0, y1 := clampWindow(y, radius, in.Height)
		for x := 0; x < in.Width; x++ {
			x0, x1 := clampWindow(x, radius, in.Width)
			win := Rect{X0: x0, Y0: y0, X1: x1, Y1: y1}
			localHistogram(in, win, hist)
			sum := countUpTo(hist, in.level(in.At(x, y)))
			out.Set(x, y, out.sample(sum*maxLevel/win.Area()))
		}
	}
	return nil
}

// clampWindow returns the [lo,hi) extent of the window centered on c along an
// axis of the given size.
func clampWindow(c, radius, size int) (int, int) {
	width := 2*radius + 1
	lo := c - radius
	hi := c + radius + 1
	if lo < 0 {
		lo, hi = 0, min(width, size)
	} else if hi > size {
		hi = size
		lo = max(hi-width, 0)
	}
	return lo, hi
}

// ClampRadius limits radius to the longer side of in. Any larger radius
// selects the same windows, and the clamped window width cannot overflow.
func ClampRadius[T Sample](in *Plane[T], radius int) int {
	return min(radius, max(in.Width, in.Height))
}

// CheckLocal validates the arguments shared by every local equalization
// variant: a non-negative radius, well-formed planes of the same shape that do
// not share storage, and a histogram long enough for every input sample.
func CheckLocal[T Sample](in *Plane[T], radius int, out *Plane[T], hist []int) error {
	if radius < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRadius, radius)
	}
	if err := in.validate(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if err := out.validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if !in.SameShape(out) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, in.Width, in.Height, out.Width, out.Height)
	}
	if overlaps(in, out) {
		return ErrAliased
	}
	if err := checkHistogram[T](hist); err != nil {
		return err
	}
	if err := checkSamples(in, in.Bounds(), len(hist)); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	return nil
}

// checkWindowFits rejects planes smaller than a full window on either axis.
func checkWindowFits[T Sample](in *Plane[T], radius int) error {
	width := 2*ClampRadius(in, radius) + 1
	if in.Width < width || in.Height < width {
		return fmt.Errorf("%w: %dx%d plane smaller than %dx%d window", ErrInvalidGeometry, in.Width, in.Height, width, width)
	}
	return nil
}

func checkTransform(hist, transform []int) error {
	if len(transform) != len(hist) {
		return fmt.Errorf("%w: transform %d, histogram %d", ErrHistogramSize, len(transform), len(hist))
	}
	return nil
}
