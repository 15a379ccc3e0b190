package stdimg

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"strings"
	"testing"
)

func makeSolidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = c.A
		}
	}
	return img
}

// makeRamp returns a horizontal gray ramp spanning [lo,hi].
func makeRamp(w, h int, lo, hi uint8) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: lo + uint8(int(hi-lo)*x/max(w-1, 1))})
		}
	}
	return img
}

func TestEqualizeLocalCommand(t *testing.T) {
	src := makeRamp(40, 30, 100, 140)
	for _, mode := range []string{"auto", "naive", "parallel"} {
		outImg, err := ApplyCommandStdlib(src, "equalizeLocal", []string{"3", mode, "2"})
		if err != nil {
			t.Fatalf("equalizeLocal %s failed: %v", mode, err)
		}
		out, ok := outImg.(*image.Gray)
		if !ok {
			t.Fatalf("expected *image.Gray output from equalizeLocal %s", mode)
		}
		if out.Bounds() != src.Bounds() {
			t.Fatalf("equalizeLocal %s output bounds mismatch", mode)
		}
		// the narrow input range is stretched: the last column of a ramp
		// is the brightest pixel of its window
		if v := out.GrayAt(39, 15).Y; v != 255 {
			t.Fatalf("%s: expected right edge at 255, got %d", mode, v)
		}
		if v := out.GrayAt(0, 15).Y; v > 50 {
			t.Fatalf("%s: expected dark left edge, got %d", mode, v)
		}
		if os.Getenv("LOCALEQ_SAVE_TEST_OUTPUT") == "1" {
			f, _ := os.Create("equalize_local_" + mode + "_out.png")
			png.Encode(f, out)
			f.Close()
		}
	}
}

func TestEqualizeLocalModesAgree(t *testing.T) {
	src := makeSolidNRGBA(25, 19, color.NRGBA{R: 10, G: 200, B: 90, A: 255})
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+1] = uint8((i * 37) % 251)
	}
	ref, err := ApplyCommandStdlib(src, "equalizeLocal", []string{"4", "naive"})
	if err != nil {
		t.Fatal(err)
	}
	want := ref.(*image.Gray)
	for _, mode := range []string{"auto", "parallel"} {
		got, err := ApplyCommandStdlib(src, "equalizeLocal", []string{"4", mode, "3"})
		if err != nil {
			t.Fatal(err)
		}
		g := got.(*image.Gray)
		for i := range want.Pix {
			if g.Pix[i] != want.Pix[i] {
				t.Fatalf("%s differs from naive at %d: %d vs %d", mode, i, g.Pix[i], want.Pix[i])
			}
		}
	}
}

func TestEqualizeLocalInnerKeepsBorder(t *testing.T) {
	src := makeRamp(20, 20, 0, 200)
	outImg, err := ApplyCommandStdlib(src, "equalizeLocal", []string{"3", "inner"})
	if err != nil {
		t.Fatal(err)
	}
	out := outImg.(*image.Gray)
	for x := 0; x < 20; x++ {
		if out.GrayAt(x, 0) != src.GrayAt(x, 0) {
			t.Fatalf("inner mode changed border pixel (%d,0)", x)
		}
	}
}

func TestEqualizeLocalCommand16Bit(t *testing.T) {
	src := image.NewGray16(image.Rect(0, 0, 12, 12))
	for y := 0; y < 12; y++ {
		for x := 0; x < 12; x++ {
			src.SetGray16(x, y, color.Gray16{Y: uint16(1000 + 10*x + y)})
		}
	}
	outImg, err := ApplyCommandStdlib(src, "equalizeLocal", []string{"2"})
	if err != nil {
		t.Fatal(err)
	}
	out, ok := outImg.(*image.Gray16)
	if !ok {
		t.Fatalf("expected *image.Gray16 output, got %T", outImg)
	}
	if v := out.Gray16At(11, 11).Y; v != 65535 {
		t.Fatalf("expected brightest pixel at 65535, got %d", v)
	}
}

func TestEqualizeLocalCommandArgs(t *testing.T) {
	src := makeRamp(8, 8, 0, 255)
	for _, tc := range []struct {
		args []string
		want string
	}{
		{nil, "requires"},
		{[]string{"x"}, "invalid radius"},
		{[]string{"-1"}, "radius must be"},
		{[]string{"2", "fast"}, "unknown local mode"},
		{[]string{"2", "parallel", "many"}, "invalid workers"},
	} {
		_, err := ApplyCommandStdlib(src, "equalizeLocal", tc.args)
		if err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("args %v: expected error containing %q, got %v", tc.args, tc.want, err)
		}
	}
}

func TestEqualizeGlobalCommand(t *testing.T) {
	src := makeSolidNRGBA(4, 4, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
	outImg, err := ApplyCommandStdlib(src, "equalize", nil)
	if err != nil {
		t.Fatal(err)
	}
	out := outImg.(*image.Gray)
	for _, v := range out.Pix {
		if v != 255 {
			t.Fatalf("uniform image should equalize to 255, got %d", v)
		}
	}
}

func TestHistogramCommand(t *testing.T) {
	src := makeRamp(64, 4, 0, 255)
	hist := ComputeHistogram(src, 16)
	if len(hist) != 16 {
		t.Fatalf("expected 16 bins, got %d", len(hist))
	}
	total := 0
	for _, n := range hist {
		total += n
	}
	if total != 64*4 {
		t.Fatalf("histogram counts %d pixels, want %d", total, 64*4)
	}

	outImg, err := ApplyCommandStdlib(src, "histogram", []string{"16"})
	if err != nil {
		t.Fatal(err)
	}
	if outImg.Bounds().Dx() != 512 || outImg.Bounds().Dy() != 120 {
		t.Fatalf("unexpected histogram image size %v", outImg.Bounds())
	}
	if _, err := ApplyCommandStdlib(src, "histogram", []string{"0"}); err == nil {
		t.Fatalf("expected error for zero bins")
	}
}

func TestIdentifyAndUnknown(t *testing.T) {
	src := makeRamp(3, 3, 0, 255)
	out, err := ApplyCommandStdlib(src, "identify", nil)
	if err != nil || out != nil {
		t.Fatalf("identify: expected nil image and nil error, got %v, %v", out, err)
	}
	if _, err := ApplyCommandStdlib(src, "blur", nil); err == nil {
		t.Fatalf("expected error for unsupported command")
	}
	if _, err := ApplyCommandStdlib(nil, "equalize", nil); err == nil {
		t.Fatalf("expected error for nil image")
	}
}

func TestCommandsRegistryMatchesEngine(t *testing.T) {
	src := makeRamp(16, 16, 0, 255)
	for _, c := range Commands {
		var args []string
		for _, a := range c.Args {
			if a.Required {
				args = append(args, a.Default)
			}
		}
		if _, err := ApplyCommandStdlib(src, c.Name, args); err != nil {
			t.Fatalf("registered command %s failed with defaults %v: %v", c.Name, args, err)
		}
	}
	if _, ok := Lookup("equalizeLocal"); !ok {
		t.Fatalf("Lookup did not find equalizeLocal")
	}
}
