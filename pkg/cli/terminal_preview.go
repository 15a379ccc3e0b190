package cli

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
)

// Terminal preview for kitty, iTerm2-style inline images, sixel and chafa.
//
// Backends are tried in the order inline, kitty, sixel, chafa, restricted to
// the ones the terminal appears to support. PREVIEW_BACKEND moves one backend
// to the front of the list. Escape sequences go to stdout; diagnostics go to
// the logger at debug level when PREVIEW_DEBUG is set.

var (
	previewDebug   bool
	previewBackend string
)

// ConfigurePreview applies the preview settings from cfg.
func ConfigurePreview(cfg Config) {
	previewDebug = cfg.PreviewDebug
	previewBackend = cfg.PreviewBackend
}

func debugf(format string, args ...interface{}) {
	if previewDebug {
		log.WithField("component", "preview").Debugf(format, args...)
	}
}

func isKitty() bool {
	// ghostty and konsole speak the kitty graphics protocol too
	if os.Getenv("KITTY_WINDOW_ID") != "" || os.Getenv("KONSOLE_VERSION") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "kitty") || strings.Contains(term, "ghost")
}

func isInlineImageCapable() bool {
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "Warp", "Hyper", "vscode", "VSCode", "Tabby", "Bobcat":
		debugf("TERM_PROGRAM indicates inline-capable: %s", os.Getenv("TERM_PROGRAM"))
		return true
	}
	if os.Getenv("ITERM_SESSION_ID") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	for _, s := range []string{"wez", "warp", "tabby", "vscode"} {
		if strings.Contains(term, s) {
			debugf("TERM suggests inline-capable: %s", term)
			return true
		}
	}
	return false
}

// isSixelCapable is a heuristic; SIXEL_PREVIEW=1 forces it.
func isSixelCapable() bool {
	if os.Getenv("SIXEL_PREVIEW") == "1" || os.Getenv("WT_SESSION") != "" {
		return true
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return strings.Contains(term, "foot") || strings.Contains(term, "st") || strings.Contains(term, "linux")
}

func hasChafa() bool {
	if os.Getenv("NO_CHAFA") == "1" {
		return false
	}
	if os.Getenv("CHAFAPREVIEW") == "1" {
		return true
	}
	_, err := exec.LookPath("chafa")
	return err == nil
}

type previewer struct {
	name    string
	aliases []string
	detect  func() bool
	send    func(data []byte, format string, size PreviewSize) error
}

var previewers = []previewer{
	{name: "inline", aliases: []string{"iterm", "wezterm"}, detect: isInlineImageCapable, send: sendInlineImage},
	{name: "kitty", detect: isKitty, send: sendKittyImage},
	{name: "sixel", detect: isSixelCapable, send: sendSixelImage},
	{name: "chafa", detect: hasChafa, send: sendChafaImage},
}

func (p previewer) matches(name string) bool {
	if p.name == name {
		return true
	}
	for _, a := range p.aliases {
		if a == name {
			return true
		}
	}
	return false
}

// PreviewSupported returns true if the running environment likely supports a terminal inline preview.
func PreviewSupported() bool {
	for _, p := range previewers {
		if p.detect() {
			debugf("PreviewSupported -> true (%s)", p.name)
			return true
		}
	}
	return false
}

// PreviewImage downscales img to the preview area, encodes it and sends it
// to the terminal. format is "png" or "jpeg"; anything else means PNG. Kitty
// always receives PNG.
func PreviewImage(img image.Image, format string) error {
	if img == nil {
		return fmt.Errorf("nil image")
	}
	size := computePreviewSize(img)
	img = fitPreview(img, size)

	f := strings.ToLower(format)
	if previewBackend == "kitty" || (previewBackend == "" && isKitty()) {
		f = "png"
	}
	var buf bytes.Buffer
	if f == "jpeg" || f == "jpg" {
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 92}); err != nil {
			return fmt.Errorf("jpeg encode failed: %w", err)
		}
		f = "jpeg"
	} else {
		if err := png.Encode(&buf, img); err != nil {
			return fmt.Errorf("png encode failed: %w", err)
		}
		f = "png"
	}
	return previewBytes(buf.Bytes(), f, size)
}

// PreviewSize conveys a target placement for terminal preview backends.
type PreviewSize struct {
	Cols        int // terminal character columns
	Rows        int // terminal character rows
	PixelWidth  int // approximate pixel width (Cols * cellWidth)
	PixelHeight int // approximate pixel height (Rows * cellHeight)
}

const (
	cellW   = 8
	cellH   = 16
	minCols = 6
	minRows = 3
	maxCols = 80
	maxRows = 40
)

// computePreviewSize maps an image's pixel dimensions into a character cell
// area, preserving the aspect ratio and never scaling up.
func computePreviewSize(img image.Image) PreviewSize {
	w := max(img.Bounds().Dx(), 1)
	h := max(img.Bounds().Dy(), 1)
	scale := math.Min(1.0, math.Min(float64(maxCols*cellW)/float64(w), float64(maxRows*cellH)/float64(h)))

	cols := int(math.Round(float64(w) * scale / cellW))
	rows := int(math.Round(float64(h) * scale / cellH))
	cols = min(max(cols, minCols), maxCols)
	rows = min(max(rows, minRows), maxRows)
	return PreviewSize{
		Cols:        cols,
		Rows:        rows,
		PixelWidth:  cols * cellW,
		PixelHeight: rows * cellH,
	}
}

// fitPreview downscales img with Catmull-Rom so it fits in the preview
// area. Images that already fit are returned unchanged.
func fitPreview(img image.Image, size PreviewSize) image.Image {
	b := img.Bounds()
	if b.Dx() <= size.PixelWidth && b.Dy() <= size.PixelHeight {
		return img
	}
	scale := math.Min(float64(size.PixelWidth)/float64(b.Dx()), float64(size.PixelHeight)/float64(b.Dy()))
	w := max(int(math.Round(float64(b.Dx())*scale)), 1)
	h := max(int(math.Round(float64(b.Dy())*scale)), 1)

	var dst draw.Image
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		dst = image.NewGray(image.Rect(0, 0, w, h))
	default:
		dst = image.NewNRGBA(image.Rect(0, 0, w, h))
	}
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	debugf("downscaled preview %dx%d -> %dx%d", b.Dx(), b.Dy(), w, h)
	return dst
}

// previewBytes tries each applicable backend in turn and returns the last
// error if none succeeds.
func previewBytes(blob []byte, format string, size PreviewSize) error {
	if len(blob) == 0 {
		return fmt.Errorf("empty image blob")
	}
	var lastErr error
	for _, p := range previewOrder() {
		err := p.send(blob, format, size)
		if err == nil {
			return nil
		}
		debugf("%s preview failed: %v", p.name, err)
		lastErr = fmt.Errorf("%s preview failed: %w", p.name, err)
	}
	if lastErr == nil {
		return fmt.Errorf("no preview protocol matched")
	}
	return lastErr
}

// previewOrder returns the backends to try: the PREVIEW_BACKEND override
// first, whether detected or not, then every detected backend.
func previewOrder() []previewer {
	var order []previewer
	if previewBackend != "" {
		found := false
		for _, p := range previewers {
			if p.matches(previewBackend) {
				order = append(order, p)
				found = true
			}
		}
		if !found {
			debugf("unknown PREVIEW_BACKEND value: %s", previewBackend)
		}
	}
	for _, p := range previewers {
		if len(order) > 0 && order[0].name == p.name {
			continue
		}
		if p.detect() {
			order = append(order, p)
		}
	}
	return order
}

// postImageNewlines returns how many lines to advance after an image so the
// prompt lands just under it.
func postImageNewlines(rows int) int {
	switch {
	case rows <= 2:
		return 1
	case rows <= 6:
		return 2
	case rows <= 20:
		return 3
	}
	return 4
}

func advance(rows int) {
	for i := 0; i < postImageNewlines(rows); i++ {
		fmt.Println()
	}
}

// sendKittyImage transmits PNG bytes with the kitty graphics protocol in
// base64 chunks of at most 4096 bytes. The first chunk carries the placement;
// q=2 suppresses terminal responses.
func sendKittyImage(data []byte, format string, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	enc := base64.StdEncoding.EncodeToString(data)
	const chunkSize = 4096
	debugf("kitty: %d bytes, placement %dx%d", len(data), size.Cols, size.Rows)

	for pos := 0; pos < len(enc); pos += chunkSize {
		end := min(pos+chunkSize, len(enc))
		more := 0
		if end < len(enc) {
			more = 1
		}
		var seq string
		if pos == 0 {
			seq = fmt.Sprintf("\x1b_Ga=T,f=100,t=d,q=2,c=%d,r=%d,m=%d;%s\x1b\\", size.Cols, size.Rows, more, enc[pos:end])
		} else {
			seq = fmt.Sprintf("\x1b_Gm=%d;%s\x1b\\", more, enc[pos:end])
		}
		if _, err := os.Stdout.WriteString(seq); err != nil {
			return err
		}
	}
	advance(size.Rows)
	return nil
}

// sendInlineImage emits the iTerm2-style OSC 1337 inline file sequence.
func sendInlineImage(data []byte, format string, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	name := "preview.png"
	if strings.HasPrefix(format, "j") {
		name = "preview.jpg"
	}
	meta := fmt.Sprintf("size=%d;", len(data))
	if size.PixelWidth > 0 && size.PixelHeight > 0 {
		meta += fmt.Sprintf("width=%dpx;height=%dpx;", size.PixelWidth, size.PixelHeight)
	}
	seq := "\x1b]1337;File=name=" + name + ";inline=1;" + meta + ":" + base64.StdEncoding.EncodeToString(data) + "\a"
	n, err := os.Stdout.WriteString(seq)
	debugf("inline: wrote %d bytes (err=%v)", n, err)
	if err != nil {
		return err
	}
	advance(0)
	return nil
}

// sendSixelImage pipes the encoded image through img2sixel.
func sendSixelImage(data []byte, format string, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	if err := runRenderer(data, "img2sixel", "-"); err != nil {
		return err
	}
	advance(0)
	return nil
}

// sendChafaImage renders the image with chafa block symbols. CHAFA_FILL and
// CHAFA_SYMBOLS override the defaults.
func sendChafaImage(data []byte, format string, size PreviewSize) error {
	if len(data) == 0 {
		return fmt.Errorf("no data")
	}
	if os.Getenv("NO_CHAFA") == "1" {
		return fmt.Errorf("chafa usage disabled via NO_CHAFA=1")
	}
	fill, symbols := "block", "block"
	if v := os.Getenv("CHAFA_FILL"); v != "" {
		fill = v
	}
	if v := os.Getenv("CHAFA_SYMBOLS"); v != "" {
		symbols = v
	}
	args := []string{"--fill=" + fill, "--symbols=" + symbols, "-s", fmt.Sprintf("%dx%d", size.Cols, size.Rows), "-"}
	if err := runRenderer(data, "chafa", args...); err != nil {
		return err
	}
	advance(size.Rows)
	return nil
}

// runRenderer runs an external renderer with data on stdin and the terminal
// on stdout.
func runRenderer(data []byte, name string, args ...string) error {
	if _, err := exec.LookPath(name); err != nil {
		return fmt.Errorf("%s not found in PATH: %w", name, err)
	}
	cmd := exec.Command(name, args...)
	cmd.Stdin = bytes.NewReader(data)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		log.WithFields(logrus.Fields{"renderer": name, "bytes": len(data)}).Debug("renderer failed")
		return fmt.Errorf("%s failed: %w", name, err)
	}
	return nil
}
