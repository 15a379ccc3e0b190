package cli

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Fepozopo/localeq/pkg/stdimg"
)

// stdin is shared by every prompt so buffered input is not lost between
// readers.
var stdin = bufio.NewReader(os.Stdin)

// PromptLine displays a prompt and reads a full line of input from the user.
// The returned string is trimmed of surrounding whitespace (including the newline).
func PromptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := stdin.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// PromptLineOrFzf reads a full line from stdin and treats a single "/" as a
// request to pick a file with fzf. If fzf is unavailable or the selection is
// cancelled the prompt is shown again.
func PromptLineOrFzf(prompt string) (string, error) {
	input, err := PromptLine(prompt)
	if err != nil {
		return "", err
	}
	if input == "/" {
		sel, selErr := SelectFileWithFzf(".")
		if selErr == nil && sel != "" {
			fmt.Printf(" [fzf] %s\n", sel)
			return sel, nil
		}
		return PromptLine(prompt)
	}
	return input, nil
}

// sniffFormat detects the container format from the file signature.
func sniffFormat(b []byte) string {
	switch {
	case len(b) >= 3 && bytes.Equal(b[:3], []byte{0xFF, 0xD8, 0xFF}):
		return "jpeg"
	case len(b) >= 8 && bytes.Equal(b[:8], []byte("\x89PNG\r\n\x1a\n")):
		return "png"
	case len(b) >= 6 && (bytes.Equal(b[:6], []byte("GIF87a")) || bytes.Equal(b[:6], []byte("GIF89a"))):
		return "gif"
	case len(b) >= 4 && (bytes.Equal(b[:4], []byte("II*\x00")) || bytes.Equal(b[:4], []byte("MM\x00*"))):
		return "tiff"
	case len(b) >= 2 && bytes.Equal(b[:2], []byte("BM")):
		return "bmp"
	case len(b) >= 12 && bytes.Equal(b[:4], []byte("RIFF")) && bytes.Equal(b[8:12], []byte("WEBP")):
		return "webp"
	}
	return ""
}

// LoadImage loads a file from disk into an image.Image and reports its format.
// PNG, JPEG, GIF, TIFF, BMP and WebP are decoded in Go; anything else goes
// through decodeFallback, which is only functional in imagick builds.
func LoadImage(path string) (image.Image, string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	img, format, err := image.Decode(bytes.NewReader(b))
	if err == nil {
		return img, format, nil
	}
	log.WithFields(logrus.Fields{"path": path, "sniffed": sniffFormat(b)}).Debugf("go decoders failed: %v", err)
	img, format, ferr := decodeFallback(b)
	if ferr != nil {
		return nil, "", fmt.Errorf("decode %s: %w (fallback: %v)", path, err, ferr)
	}
	return img, format, nil
}

// SaveImage saves an image.Image to disk using the format inferred from the
// filename extension. PNG and TIFF keep 16-bit samples.
func SaveImage(path string, img image.Image) error {
	if img == nil {
		return fmt.Errorf("no image to save")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encodeByExt(f, strings.ToLower(filepath.Ext(path)), img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func encodeByExt(f io.Writer, ext string, img image.Image) error {
	switch ext {
	case ".jpg", ".jpeg":
		return jpeg.Encode(f, img, &jpeg.Options{Quality: 92})
	case ".gif":
		return gif.Encode(f, img, nil)
	case ".tif", ".tiff":
		return tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	case ".bmp":
		return bmp.Encode(f, img)
	default:
		// default to PNG
		return png.Encode(f, img)
	}
}

// GetImageInfoImage returns a short info string for an image.Image
func GetImageInfoImage(img image.Image) (string, error) {
	if img == nil {
		return "", fmt.Errorf("nil image")
	}
	b := img.Bounds()
	kind := "color"
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		kind = "gray"
	}
	depth := 8
	if stdimg.Is16Bit(img) {
		depth = 16
	}
	return fmt.Sprintf("Type: %s, Depth: %d-bit, Width: %d, Height: %d", kind, depth, b.Dx(), b.Dy()), nil
}
