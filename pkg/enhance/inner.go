package enhance

import "fmt"

// EqualizeLocalInner equalizes the pixels whose window lies entirely inside
// the image, radius <= x < W-radius and radius <= y < H-radius. Pixels closer
// to the border are not written.
//
// The histogram is seeded once per row and then slid right one column at a
// time, so each step costs O(window height) histogram updates plus an
// O(levels) cumulative sum instead of an O(area) recount.
//
// The plane must be at least 2*radius+1 pixels on both axes.
func EqualizeLocalInner[T Sample](in *Plane[T], radius int, out *Plane[T], hist []int) error {
	if in == nil {
		return fmt.Errorf("input: %w: nil plane", ErrInvalidGeometry)
	}
	return EqualizeLocalInnerRows(in, radius, 0, in.Height, out, hist)
}

// EqualizeLocalInnerRows is EqualizeLocalInner restricted to the rows
// [y0, y1). Rows outside the inner region are skipped, so disjoint row ranges
// can be processed independently and together cover the inner region.
func EqualizeLocalInnerRows[T Sample](in *Plane[T], radius, y0, y1 int, out *Plane[T], hist []int) error {
	if err := CheckLocal(in, radius, out, hist); err != nil {
		return err
	}
	if err := checkWindowFits(in, radius); err != nil {
		return err
	}
	if y0 < 0 || y1 > in.Height || y0 > y1 {
		return fmt.Errorf("%w: rows [%d,%d) outside height %d", ErrInvalidGeometry, y0, y1, in.Height)
	}

	width := 2*radius + 1
	area := width * width
	maxLevel := len(hist) - 1

	for y := max(y0, radius); y < min(y1, in.Height-radius); y++ {
		localHistogram(in, Rect{X0: 0, Y0: y - radius, X1: width, Y1: y + radius + 1}, hist)
		sum := countUpTo(hist, in.level(in.At(radius, y)))
		out.Set(radius, y, out.sample(sum*maxLevel/area))

		for x := radius + 1; x < in.Width-radius; x++ {
			leaving := x - radius - 1
			entering := x + radius
			for v := y - radius; v <= y+radius; v++ {
				hist[in.level(in.At(leaving, v))]--
				hist[in.level(in.At(entering, v))]++
			}
			sum = countUpTo(hist, in.level(in.At(x, y)))
			out.Set(x, y, out.sample(sum*maxLevel/area))
		}
	}
	return nil
}
