package enhance

import (
	"math"
	"unsafe"
)

// Sample is the set of integer pixel types a Plane can hold.
type Sample interface {
	~uint8 | ~uint16 | ~int8 | ~int16 | ~int32
}

// BitDepth returns the storage size of T in bits.
func BitDepth[T Sample]() int {
	var zero T
	return int(unsafe.Sizeof(zero)) * 8
}

// Signed reports whether T is a signed integer type.
func Signed[T Sample]() bool {
	var zero T
	return zero-1 < 0
}

// Levels returns the number of intensity levels T can represent, which is the
// natural histogram length for the type. It returns 0 for 32-bit samples, whose
// histogram length must be chosen by the caller.
func Levels[T Sample]() int {
	bits := BitDepth[T]()
	if bits > 16 {
		return 0
	}
	return 1 << bits
}

// maxLevels is the upper bound on a histogram length for T.
func maxLevels[T Sample]() int {
	if n := Levels[T](); n > 0 {
		return n
	}
	return math.MaxInt32
}

// DefaultMinValue is the sample value mapped to histogram bin 0 for T: zero for
// unsigned types and the type minimum for 8 and 16 bit signed types. 32-bit
// planes default to zero and are expected to set Plane.MinValue explicitly.
func DefaultMinValue[T Sample]() int {
	bits := BitDepth[T]()
	if !Signed[T]() || bits > 16 {
		return 0
	}
	return -(1 << (bits - 1))
}
