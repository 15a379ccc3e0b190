// Package enhance implements local (adaptive) histogram equalization over
// single-channel integer planes.
//
// Every output pixel is mapped through the cumulative histogram of a
// (2*radius+1) square window around it:
//
//	out = cum[level(in)] * maxLevel / area
//
// where maxLevel is len(histogram)-1. Three variants share that mapping:
//
//   - EqualizeLocalNaive recomputes the window histogram for every pixel and
//     handles any image size, clamping windows at the borders.
//   - EqualizeLocalInner only visits pixels whose window never clips and
//     slides the histogram one column at a time.
//   - EqualizeLocalRow and EqualizeLocalCol sweep a border band, reseeding the
//     histogram at both ends of the band.
//
// EqualizeLocal combines them into a full-image result identical to the naive
// variant. All routines are synchronous and keep no state between calls; the
// caller owns every buffer, including histogram and transform scratch space.
//
// Example:
//
//	in := enhance.NewPlane[uint8](640, 480)
//	out := enhance.NewPlane[uint8](640, 480)
//	s := enhance.NewScratch(enhance.Levels[uint8]())
//	if err := enhance.EqualizeLocal(in, 8, out, s.Histogram, s.Transform); err != nil {
//	    return err
//	}
package enhance
