package stdimg

import (
	"context"
	"fmt"
	"image"
	"strconv"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ApplyCommandStdlib applies a command to img and returns a new image. It is
// ApplyCommandContext with a background context.
func ApplyCommandStdlib(img image.Image, commandName string, args []string) (image.Image, error) {
	return ApplyCommandContext(context.Background(), img, commandName, args)
}

// ApplyCommandContext applies one of the commands listed in Commands.
// identify returns a nil image; the caller prints the image info itself.
func ApplyCommandContext(ctx context.Context, img image.Image, commandName string, args []string) (image.Image, error) {
	if img == nil {
		return nil, fmt.Errorf("source image is nil")
	}
	switch commandName {
	case "grayscale":
		return Grayscale(img), nil

	case "equalize":
		return Equalize(img)

	case "normalize":
		return Normalize(img)

	case "negate":
		return Negate(img)

	case "equalizeLocal":
		// equalizeLocal <radius> [mode] [workers]
		if len(args) < 1 || len(args) > 3 {
			return nil, fmt.Errorf("equalizeLocal requires 1 to 3 args: radius [mode] [workers]")
		}
		radius, err := strconv.Atoi(args[0])
		if err != nil {
			return nil, fmt.Errorf("invalid radius: %w", err)
		}
		if radius < 0 {
			return nil, fmt.Errorf("radius must be >= 0, got %d", radius)
		}
		mode := ModeAuto
		if len(args) >= 2 {
			if mode, err = ParseLocalMode(args[1]); err != nil {
				return nil, err
			}
		}
		workers := 0
		if len(args) == 3 && args[2] != "" {
			if workers, err = strconv.Atoi(args[2]); err != nil {
				return nil, fmt.Errorf("invalid workers: %w", err)
			}
		}
		return EqualizeLocal(ctx, img, radius, mode, workers)

	case "histogram":
		// histogram [bins]
		bins := 256
		if len(args) >= 1 && args[0] != "" {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return nil, fmt.Errorf("invalid bins: %w", err)
			}
			if v < 1 || v > 256 {
				return nil, fmt.Errorf("bins must be in [1,256], got %d", v)
			}
			bins = v
		}
		return RenderHistogramImage(ComputeHistogram(img, bins), 512, 120), nil

	case "identify":
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported command: %s", commandName)
	}
}
