package enhance

// EqualizeLocal equalizes every pixel of in against its (2*radius+1) window
// and writes the result to out. The output equals EqualizeLocalNaive.
//
// Planes smaller than the window on either axis go through the naive variant.
// Otherwise the interior is handled by EqualizeLocalInner and the four border
// bands by row sweeps at the top and bottom and column sweeps at the left and
// right. Corner pixels are written by both a row and a column sweep with the
// same value.
func EqualizeLocal[T Sample](in *Plane[T], radius int, out *Plane[T], hist, transform []int) error {
	if err := CheckLocal(in, radius, out, hist); err != nil {
		return err
	}
	radius = ClampRadius(in, radius)
	width := 2*radius + 1
	if in.Width < width || in.Height < width {
		return EqualizeLocalNaive(in, radius, out, hist)
	}
	if err := checkTransform(hist, transform); err != nil {
		return err
	}
	if err := EqualizeLocalInner(in, radius, out, hist); err != nil {
		return err
	}
	if radius == 0 {
		return nil
	}
	if err := EqualizeLocalRow(in, radius, 0, out, hist, transform); err != nil {
		return err
	}
	if err := EqualizeLocalRow(in, radius, in.Height-radius, out, hist, transform); err != nil {
		return err
	}
	if err := EqualizeLocalCol(in, radius, 0, out, hist, transform); err != nil {
		return err
	}
	return EqualizeLocalCol(in, radius, in.Width-radius, out, hist, transform)
}
