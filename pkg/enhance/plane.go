package enhance

import (
	"fmt"
	"unsafe"
)

// Plane is a single-channel view into a strided sample buffer. Pixel (x, y)
// lives at Data[StartIndex + y*Stride + x], so a Plane may describe a
// sub-region of a larger backing buffer.
//
// MinValue is the sample value that maps to histogram bin 0. Equalized output
// levels are shifted back by the output plane's MinValue.
type Plane[T Sample] struct {
	Width      int
	Height     int
	Stride     int
	StartIndex int
	Data       []T
	MinValue   int
}

// NewPlane allocates a zeroed, tightly packed plane.
func NewPlane[T Sample](width, height int) *Plane[T] {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Plane[T]{
		Width:    width,
		Height:   height,
		Stride:   width,
		Data:     make([]T, width*height),
		MinValue: DefaultMinValue[T](),
	}
}

// Index returns the position of pixel (x, y) in Data.
func (p *Plane[T]) Index(x, y int) int {
	if debugBounds && (x < 0 || x >= p.Width || y < 0 || y >= p.Height) {
		panic(fmt.Sprintf("enhance: pixel (%d,%d) outside %dx%d plane", x, y, p.Width, p.Height))
	}
	return p.StartIndex + y*p.Stride + x
}

// At returns the sample at (x, y).
func (p *Plane[T]) At(x, y int) T {
	return p.Data[p.Index(x, y)]
}

// Set stores v at (x, y).
func (p *Plane[T]) Set(x, y int, v T) {
	p.Data[p.Index(x, y)] = v
}

// Row returns the samples of row y, limited to the plane width.
func (p *Plane[T]) Row(y int) []T {
	start := p.Index(0, y)
	return p.Data[start : start+p.Width]
}

// Bounds returns the rectangle covering the whole plane.
func (p *Plane[T]) Bounds() Rect {
	return Rect{X1: p.Width, Y1: p.Height}
}

// SubPlane returns a view of r sharing p's buffer.
func (p *Plane[T]) SubPlane(r Rect) (*Plane[T], error) {
	if !r.In(p.Bounds()) {
		return nil, fmt.Errorf("%w: sub-region %v outside %dx%d plane", ErrInvalidGeometry, r, p.Width, p.Height)
	}
	return &Plane[T]{
		Width:      r.Dx(),
		Height:     r.Dy(),
		Stride:     p.Stride,
		StartIndex: p.StartIndex + r.Y0*p.Stride + r.X0,
		Data:       p.Data,
		MinValue:   p.MinValue,
	}, nil
}

// Clone returns a tightly packed copy of p.
func (p *Plane[T]) Clone() *Plane[T] {
	c := NewPlane[T](p.Width, p.Height)
	c.MinValue = p.MinValue
	if p.Width == 0 {
		return c
	}
	for y := 0; y < p.Height; y++ {
		copy(c.Row(y), p.Row(y))
	}
	return c
}

// SameShape reports whether p and o have the same width and height.
func (p *Plane[T]) SameShape(o *Plane[T]) bool {
	return p.Width == o.Width && p.Height == o.Height
}

func (p *Plane[T]) level(v T) int {
	return int(v) - p.MinValue
}

func (p *Plane[T]) sample(level int) T {
	return T(level + p.MinValue)
}

// validate checks that the declared geometry fits inside Data.
func (p *Plane[T]) validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil plane", ErrInvalidGeometry)
	}
	if p.Width < 0 || p.Height < 0 || p.StartIndex < 0 {
		return fmt.Errorf("%w: negative dimension or offset", ErrInvalidGeometry)
	}
	if p.Stride < p.Width {
		return fmt.Errorf("%w: stride %d smaller than width %d", ErrInvalidGeometry, p.Stride, p.Width)
	}
	if p.Width == 0 || p.Height == 0 {
		return nil
	}
	if end := p.StartIndex + (p.Height-1)*p.Stride + p.Width; end > len(p.Data) {
		return fmt.Errorf("%w: %dx%d plane needs %d samples, buffer has %d", ErrInvalidGeometry, p.Width, p.Height, end, len(p.Data))
	}
	return nil
}

// span returns the part of Data addressed by the plane.
func (p *Plane[T]) span() []T {
	if p.Width == 0 || p.Height == 0 {
		return nil
	}
	return p.Data[p.StartIndex : p.StartIndex+(p.Height-1)*p.Stride+p.Width]
}

// overlaps reports whether the addressed spans of a and b share memory. Two
// interleaved views of one buffer are reported as overlapping even when their
// pixels are disjoint.
func overlaps[T Sample](a, b *Plane[T]) bool {
	sa, sb := a.span(), b.span()
	if len(sa) == 0 || len(sb) == 0 {
		return false
	}
	var zero T
	size := unsafe.Sizeof(zero)
	a0 := uintptr(unsafe.Pointer(unsafe.SliceData(sa)))
	b0 := uintptr(unsafe.Pointer(unsafe.SliceData(sb)))
	a1 := a0 + uintptr(len(sa))*size
	b1 := b0 + uintptr(len(sb))*size
	return a0 < b1 && b0 < a1
}

// Rect is a half-open window [X0,X1) x [Y0,Y1).
type Rect struct {
	X0, Y0 int
	X1, Y1 int
}

// Dx returns the window width.
func (r Rect) Dx() int { return r.X1 - r.X0 }

// Dy returns the window height.
func (r Rect) Dy() int { return r.Y1 - r.Y0 }

// Area returns the number of pixels inside the window.
func (r Rect) Area() int { return r.Dx() * r.Dy() }

// Empty reports whether the window contains no pixels.
func (r Rect) Empty() bool { return r.X0 >= r.X1 || r.Y0 >= r.Y1 }

// In reports whether r lies inside b. An empty r is inside any b.
func (r Rect) In(b Rect) bool {
	if r.Empty() {
		return r.X0 >= b.X0 && r.Y0 >= b.Y0 && r.X0 <= b.X1 && r.Y0 <= b.Y1
	}
	return r.X0 >= b.X0 && r.Y0 >= b.Y0 && r.X1 <= b.X1 && r.Y1 <= b.Y1
}

func (r Rect) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.X0, r.X1, r.Y0, r.Y1)
}
