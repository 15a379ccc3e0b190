package cli

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"os"
	"strings"
	"testing"
)

// inlineTerminal makes detection pick the inline protocol only.
func inlineTerminal(t *testing.T) {
	t.Setenv("TERM_PROGRAM", "WezTerm")
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("KITTY_WINDOW_ID", "")
	t.Setenv("KONSOLE_VERSION", "")
	previewBackend = ""
}

// captureStdout runs fn with os.Stdout redirected and returns what it wrote.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe failed: %v", err)
	}
	os.Stdout = w
	done := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.String()
	}()
	fn()
	w.Close()
	os.Stdout = oldStdout
	return <-done
}

// TestPreviewInlineSequence verifies that PreviewImage emits an inline-image OSC
// sequence when TERM_PROGRAM indicates an inline-capable terminal.
func TestPreviewInlineSequence(t *testing.T) {
	inlineTerminal(t)
	img := image.NewGray(image.Rect(0, 0, 2, 2))
	img.SetGray(1, 1, color.Gray{Y: 200})

	out := captureStdout(t, func() {
		if err := PreviewImage(img, "png"); err != nil {
			t.Errorf("PreviewImage error: %v", err)
		}
	})
	if !strings.Contains(out, "\x1b]1337;File=name=preview.png") {
		t.Fatalf("expected inline 1337 sequence in output, got: %q", out)
	}
}

// TestPreviewEncodesJPEG ensures that when format=="jpeg" the embedded payload
// begins with the JPEG SOI marker.
func TestPreviewEncodesJPEG(t *testing.T) {
	inlineTerminal(t)
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(0, 0, color.RGBA{10, 20, 30, 255})

	out := captureStdout(t, func() {
		if err := PreviewImage(img, "jpeg"); err != nil {
			t.Errorf("PreviewImage error: %v", err)
		}
	})
	idx := strings.Index(out, ":")
	if idx < 0 {
		t.Fatalf("no ':' found in output: %q", out)
	}
	payload := out[idx+1:]
	if bi := strings.Index(payload, "\a"); bi >= 0 {
		payload = payload[:bi]
	}
	dec, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("base64 decode failed: %v", err)
	}
	if len(dec) < 2 || dec[0] != 0xFF || dec[1] != 0xD8 {
		t.Fatalf("expected JPEG SOI bytes, got: %x", dec[:min(len(dec), 4)])
	}
}

func TestComputePreviewSize(t *testing.T) {
	for _, tc := range []struct {
		w, h       int
		cols, rows int
	}{
		{2, 2, minCols, minRows},
		{4000, 1000, maxCols, 10},
		{100, 10000, minCols, maxRows},
		{320, 320, 40, 20},
	} {
		got := computePreviewSize(image.NewGray(image.Rect(0, 0, tc.w, tc.h)))
		if got.Cols != tc.cols || got.Rows != tc.rows {
			t.Fatalf("%dx%d: got %dx%d cells, want %dx%d", tc.w, tc.h, got.Cols, got.Rows, tc.cols, tc.rows)
		}
		if got.PixelWidth != got.Cols*cellW || got.PixelHeight != got.Rows*cellH {
			t.Fatalf("pixel size does not follow cell size: %+v", got)
		}
	}
}

func TestFitPreviewDownscales(t *testing.T) {
	big := image.NewGray16(image.Rect(0, 0, 2000, 1000))
	size := computePreviewSize(big)
	out := fitPreview(big, size)
	b := out.Bounds()
	if b.Dx() > size.PixelWidth || b.Dy() > size.PixelHeight {
		t.Fatalf("preview %v does not fit %dx%d", b, size.PixelWidth, size.PixelHeight)
	}
	if _, ok := out.(*image.Gray); !ok {
		t.Fatalf("gray source should preview as gray, got %T", out)
	}

	small := image.NewGray(image.Rect(0, 0, 10, 10))
	if fitPreview(small, computePreviewSize(small)) != image.Image(small) {
		t.Fatalf("small image should be returned unchanged")
	}
}

func TestPreviewOrderOverride(t *testing.T) {
	inlineTerminal(t)
	t.Setenv("NO_CHAFA", "1")
	t.Setenv("SIXEL_PREVIEW", "")
	t.Setenv("WT_SESSION", "")
	previewBackend = "kitty"
	defer func() { previewBackend = "" }()

	order := previewOrder()
	if len(order) < 2 || order[0].name != "kitty" || order[1].name != "inline" {
		names := []string{}
		for _, p := range order {
			names = append(names, p.name)
		}
		t.Fatalf("unexpected order %v", names)
	}
}
