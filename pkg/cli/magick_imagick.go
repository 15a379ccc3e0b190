//go:build imagick

package cli

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"gopkg.in/gographics/imagick.v3/imagick"
)

// decodeFallback decodes formats the Go decoders do not know (RAW, HEIC,
// PSD, ...) through ImageMagick by converting them to a temporary PNG.
func decodeFallback(data []byte) (image.Image, string, error) {
	imagick.Initialize()
	defer imagick.Terminate()

	mw := imagick.NewMagickWand()
	defer mw.Destroy()
	if err := mw.ReadImageBlob(data); err != nil {
		return nil, "", fmt.Errorf("imagick read: %w", err)
	}
	format := strings.ToLower(mw.GetImageFormat())
	if err := mw.SetImageFormat("PNG"); err != nil {
		return nil, "", fmt.Errorf("imagick convert: %w", err)
	}

	tmp, err := os.CreateTemp("", "localeq-*.png")
	if err != nil {
		return nil, "", err
	}
	tmp.Close()
	defer os.Remove(tmp.Name())
	if err := mw.WriteImage(tmp.Name()); err != nil {
		return nil, "", fmt.Errorf("imagick write: %w", err)
	}

	f, err := os.Open(tmp.Name())
	if err != nil {
		return nil, "", err
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("decode imagick output: %w", err)
	}
	return img, format, nil
}
