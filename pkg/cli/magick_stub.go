//go:build !imagick

package cli

import (
	"errors"
	"image"
)

var errNoFallback = errors.New("unsupported format (rebuild with -tags imagick for ImageMagick decoding)")

func decodeFallback(data []byte) (image.Image, string, error) {
	return nil, "", errNoFallback
}
