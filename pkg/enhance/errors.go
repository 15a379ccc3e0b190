package enhance

import "errors"

var (
	// ErrInvalidRadius is returned for a negative window radius.
	ErrInvalidRadius = errors.New("enhance: invalid radius")
	// ErrInvalidGeometry is returned when a plane, window or band does not fit
	// the requirements of the requested mode.
	ErrInvalidGeometry = errors.New("enhance: invalid geometry")
	// ErrShapeMismatch is returned when input and output planes differ in size.
	ErrShapeMismatch = errors.New("enhance: input and output shapes differ")
	// ErrHistogramSize is returned for scratch buffers of an unusable length.
	ErrHistogramSize = errors.New("enhance: invalid histogram size")
	// ErrAliased is returned when input and output share storage.
	ErrAliased = errors.New("enhance: input and output share storage")
	// ErrSampleRange is returned when a sample maps to a level outside the
	// histogram, for instance a 12-bit histogram over a plane holding 5000.
	ErrSampleRange = errors.New("enhance: sample outside histogram range")
)
