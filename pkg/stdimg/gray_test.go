package stdimg

import (
	"image"
	"image/color"
	"testing"
)

func TestGrayPlaneSharesPixels(t *testing.T) {
	base := image.NewGray(image.Rect(0, 0, 10, 8))
	sub := base.SubImage(image.Rect(2, 3, 7, 8)).(*image.Gray)
	p := GrayPlane(sub)
	if p.Width != 5 || p.Height != 5 || p.Stride != 10 {
		t.Fatalf("unexpected geometry %dx%d stride %d", p.Width, p.Height, p.Stride)
	}
	p.Set(0, 0, 77)
	if v := base.GrayAt(2, 3).Y; v != 77 {
		t.Fatalf("plane write not visible in source image, got %d", v)
	}
}

func TestGrayPlaneLuminance(t *testing.T) {
	src := makeSolidNRGBA(2, 2, color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	p := GrayPlane(src)
	// 0.2126 * 255
	if v := p.At(1, 1); v != 54 {
		t.Fatalf("expected red luminance 54, got %d", v)
	}
	if GrayPlane(nil) != nil {
		t.Fatalf("expected nil plane for nil image")
	}
}

func TestGray16RoundTrip(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 3, 2))
	vals := []uint16{0, 1, 255, 256, 40000, 65535}
	for i, v := range vals {
		src.SetGray16(i%3, i/3, color.Gray16{Y: v})
	}
	p := Gray16Plane(src)
	for i, v := range vals {
		if got := p.At(i%3, i/3); got != v {
			t.Fatalf("sample %d: got %d, want %d", i, got, v)
		}
	}
	back := PlaneToGray16(p)
	for i := range src.Pix {
		if back.Pix[i] != src.Pix[i] {
			t.Fatalf("round trip changed byte %d", i)
		}
	}
}

func TestGrayscaleKeepsDepth(t *testing.T) {
	if _, ok := Grayscale(image.NewNRGBA64(image.Rect(0, 0, 2, 2))).(*image.Gray16); !ok {
		t.Fatalf("16-bit source should stay 16-bit")
	}
	if _, ok := Grayscale(image.NewRGBA(image.Rect(0, 0, 2, 2))).(*image.Gray); !ok {
		t.Fatalf("8-bit source should become *image.Gray")
	}
}

func TestParseLocalMode(t *testing.T) {
	for in, want := range map[string]LocalMode{"": ModeAuto, "Naive": ModeNaive, " inner ": ModeInner, "parallel": ModeParallel} {
		got, err := ParseLocalMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseLocalMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseLocalMode("sweep"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}
