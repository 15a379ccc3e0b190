package enhance

import "fmt"

// Scratch holds the histogram and transform buffers a local equalization
// needs. Contents are overwritten by every call; a Scratch may be reused
// across calls but not shared between goroutines.
type Scratch struct {
	Histogram []int
	Transform []int
}

// NewScratch allocates scratch buffers for the given number of levels.
func NewScratch(levels int) *Scratch {
	return &Scratch{
		Histogram: make([]int, levels),
		Transform: make([]int, levels),
	}
}

// ComputeHistogram zeroes hist and counts the samples of in inside win.
func ComputeHistogram[T Sample](in *Plane[T], win Rect, hist []int) error {
	if err := in.validate(); err != nil {
		return err
	}
	if err := checkHistogram[T](hist); err != nil {
		return err
	}
	if !win.In(in.Bounds()) {
		return fmt.Errorf("%w: window %v outside %dx%d plane", ErrInvalidGeometry, win, in.Width, in.Height)
	}
	if err := checkSamples(in, win, len(hist)); err != nil {
		return err
	}
	localHistogram(in, win, hist)
	return nil
}

// Histogram computes the histogram of the whole plane.
func Histogram[T Sample](in *Plane[T], hist []int) error {
	return ComputeHistogram(in, in.Bounds(), hist)
}

// CumulativeTransform fills transform with the running sum of hist.
func CumulativeTransform(hist, transform []int) error {
	if len(hist) == 0 || len(transform) != len(hist) {
		return fmt.Errorf("%w: histogram %d, transform %d", ErrHistogramSize, len(hist), len(transform))
	}
	cumulative(hist, transform)
	return nil
}

func localHistogram[T Sample](in *Plane[T], win Rect, hist []int) {
	clear(hist)
	if win.Empty() {
		return
	}
	for y := win.Y0; y < win.Y1; y++ {
		index := in.Index(win.X0, y)
		end := index + win.Dx()
		for ; index < end; index++ {
			hist[in.level(in.Data[index])]++
		}
	}
}

func cumulative(hist, transform []int) {
	sum := 0
	for i, n := range hist {
		sum += n
		transform[i] = sum
	}
}

// countUpTo returns the number of samples at or below level.
func countUpTo(hist []int, level int) int {
	sum := 0
	for _, n := range hist[:level+1] {
		sum += n
	}
	return sum
}

// checkSamples returns ErrSampleRange for the first sample inside win whose
// level falls outside [0, levels). A plane at its type's full level count and
// default MinValue cannot hold such a sample and is not scanned.
func checkSamples[T Sample](in *Plane[T], win Rect, levels int) error {
	if levels == Levels[T]() && in.MinValue == DefaultMinValue[T]() {
		return nil
	}
	if win.Empty() {
		return nil
	}
	for y := win.Y0; y < win.Y1; y++ {
		index := in.Index(win.X0, y)
		for x, v := range in.Data[index : index+win.Dx()] {
			if level := in.level(v); level < 0 || level >= levels {
				return fmt.Errorf("%w: sample %d at (%d,%d) is level %d of %d", ErrSampleRange, v, win.X0+x, y, level, levels)
			}
		}
	}
	return nil
}

func checkHistogram[T Sample](hist []int) error {
	if len(hist) == 0 || len(hist) > maxLevels[T]() {
		return fmt.Errorf("%w: %d levels for a %d-bit sample", ErrHistogramSize, len(hist), BitDepth[T]())
	}
	return nil
}
