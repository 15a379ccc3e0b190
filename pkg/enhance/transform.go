package enhance

import "fmt"

// ApplyTransform replaces every sample v of in with transform[v-in.MinValue]
// plus offset and stores it in out. Signed formats pass their minimum value as
// offset to shift table levels back into the sample range; unsigned formats
// pass 0.
//
// The mapping is elementwise, so in and out may be the same plane.
func ApplyTransform[T Sample](in *Plane[T], transform []int, offset int, out *Plane[T]) error {
	if err := in.validate(); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if err := out.validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if !in.SameShape(out) {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrShapeMismatch, in.Width, in.Height, out.Width, out.Height)
	}
	if len(transform) == 0 {
		return fmt.Errorf("%w: empty transform", ErrHistogramSize)
	}
	if err := checkSamples(in, in.Bounds(), len(transform)); err != nil {
		return fmt.Errorf("input: %w", err)
	}
	if in.Width == 0 {
		return nil
	}
	for y := 0; y < in.Height; y++ {
		src := in.Row(y)
		dst := out.Row(y)
		for x, v := range src {
			dst[x] = T(transform[in.level(v)] + offset)
		}
	}
	return nil
}

// EqualizeTransform turns a histogram into a global equalization table:
// transform[i] = cum[i] * maxLevel / total, with maxLevel = len(hist)-1.
func EqualizeTransform(hist, transform []int) error {
	if err := CumulativeTransform(hist, transform); err != nil {
		return err
	}
	total := transform[len(transform)-1]
	if total == 0 {
		return fmt.Errorf("%w: empty histogram", ErrInvalidGeometry)
	}
	maxLevel := len(hist) - 1
	for i, c := range transform {
		transform[i] = c * maxLevel / total
	}
	return nil
}

// Equalize applies global histogram equalization: the histogram of the whole
// plane is turned into a lookup table and applied with ApplyTransform.
func Equalize[T Sample](in *Plane[T], hist, transform []int, out *Plane[T]) error {
	if err := Histogram(in, hist); err != nil {
		return err
	}
	if err := EqualizeTransform(hist, transform); err != nil {
		return err
	}
	return ApplyTransform(in, transform, out.MinValue, out)
}
