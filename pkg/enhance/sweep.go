package enhance

import "fmt"

// EqualizeLocalRow equalizes the band of rows [startY, startY+radius) across
// the full image width, border columns included.
//
// Every row of the band shares one vertical histogram window,
// [startY, startY+2*radius+1), moved up when it would pass the bottom edge.
// The window is seeded at the left edge and equalizes columns 0..radius,
// slides right one column at a time through the interior, and is reseeded at
// the right edge for the last radius+1 columns. For the top band (startY = 0)
// and the bottom band (startY = H-radius) the result equals
// EqualizeLocalNaive.
//
// The plane must be at least 2*radius+1 pixels on both axes. hist and
// transform must have the same length.
func EqualizeLocalRow[T Sample](in *Plane[T], radius, startY int, out *Plane[T], hist, transform []int) error {
	if err := checkSweep(in, radius, out, hist, transform); err != nil {
		return err
	}
	if startY < 0 || startY >= in.Height {
		return fmt.Errorf("%w: band start row %d outside height %d", ErrInvalidGeometry, startY, in.Height)
	}
	sweep(in, out, radius, startY, false, hist, transform)
	return nil
}

// EqualizeLocalCol is EqualizeLocalRow with the axes swapped: it equalizes the
// band of columns [startX, startX+radius) over the full image height, with
// the horizontal window [startX, startX+2*radius+1) moved left at the right
// edge and reseeded at the top and bottom ends of the sweep.
func EqualizeLocalCol[T Sample](in *Plane[T], radius, startX int, out *Plane[T], hist, transform []int) error {
	if err := checkSweep(in, radius, out, hist, transform); err != nil {
		return err
	}
	if startX < 0 || startX >= in.Width {
		return fmt.Errorf("%w: band start column %d outside width %d", ErrInvalidGeometry, startX, in.Width)
	}
	sweep(in, out, radius, startX, true, hist, transform)
	return nil
}

func checkSweep[T Sample](in *Plane[T], radius int, out *Plane[T], hist, transform []int) error {
	if err := CheckLocal(in, radius, out, hist); err != nil {
		return err
	}
	if err := checkWindowFits(in, radius); err != nil {
		return err
	}
	return checkTransform(hist, transform)
}

// sweepTable, when set, receives every cumulative table a sweep builds.
var sweepTable func(transform []int)

// sweep runs a band sweep. Coordinates are named along the sweep (u) and
// across it (v); a row sweep has u = x, v = y and transposed swaps them.
func sweep[T Sample](in, out *Plane[T], radius, start int, transposed bool, hist, transform []int) {
	length, depth := in.Width, in.Height
	at := func(p *Plane[T], u, v int) int { return p.Index(u, v) }
	if transposed {
		length, depth = in.Height, in.Width
		at = func(p *Plane[T], u, v int) int { return p.Index(v, u) }
	}

	width := 2*radius + 1
	area := width * width
	maxLevel := len(hist) - 1

	// histogram window across the band, kept inside the image
	hist0, hist1 := start, start+width
	if hist1 > depth {
		hist1 = depth
		hist0 = hist1 - width
	}
	band0, band1 := start, min(start+radius, depth)

	window := func(u0, u1 int) Rect {
		if transposed {
			return Rect{X0: hist0, Y0: u0, X1: hist1, Y1: u1}
		}
		return Rect{X0: u0, Y0: hist0, X1: u1, Y1: hist1}
	}
	equalize := func(u0, u1 int) {
		for v := band0; v < band1; v++ {
			for u := u0; u < u1; u++ {
				level := in.level(in.Data[at(in, u, v)])
				out.Data[at(out, u, v)] = out.sample(transform[level] * maxLevel / area)
			}
		}
	}

	rebuild := func() {
		cumulative(hist, transform)
		if sweepTable != nil {
			sweepTable(transform)
		}
	}

	localHistogram(in, window(0, width), hist)
	rebuild()
	equalize(0, radius+1)

	for u := radius + 1; u < length-radius-1; u++ {
		leaving := u - radius - 1
		entering := u + radius
		for v := hist0; v < hist1; v++ {
			hist[in.level(in.Data[at(in, leaving, v)])]--
			hist[in.level(in.Data[at(in, entering, v)])]++
		}
		rebuild()
		equalize(u, u+1)
	}

	localHistogram(in, window(length-width, length), hist)
	rebuild()
	equalize(length-radius-1, length)
}
