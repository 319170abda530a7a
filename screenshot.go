package arbor

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Screenshot renders the tree's current frame headlessly and writes it as a
// PNG named <timestamp>_<label>.png inside dir. The image is w x h pixels
// and the tree is drawn at the bounds of its last layout. It returns the
// written path.
func (t *Tree[ID]) Screenshot(st *State, dir, label string, w, h int) (string, error) {
	r, err := NewImageRenderer(w, h)
	if err != nil {
		return "", err
	}
	t.Draw(st, r)

	path, err := screenshotPath(dir, label)
	if err != nil {
		return "", err
	}
	if err := r.SavePNG(path); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	if st.debug {
		_, _ = fmt.Fprintf(os.Stderr, "[arbor] screenshot: %s\n", path)
	}
	return path, nil
}

// SaveScreenshot writes img as a PNG named <timestamp>_<label>.png inside
// dir, creating dir if needed. Hosts that render on the GPU use it to store
// frames read back from the screen.
func SaveScreenshot(dir, label string, img image.Image) (string, error) {
	path, err := screenshotPath(dir, label)
	if err != nil {
		return "", err
	}
	if err := writePNG(path, img); err != nil {
		return "", fmt.Errorf("screenshot: %w", err)
	}
	return path, nil
}

// screenshotPath creates dir if needed and returns the timestamped file
// name for label inside it.
func screenshotPath(dir, label string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: mkdir %s: %w", dir, err)
	}
	stamp := time.Now().Format("20060102_150405")
	return filepath.Join(dir, fmt.Sprintf("%s_%s.png", stamp, sanitizeLabel(label))), nil
}

// writePNG encodes an image to a PNG file at the given path.
func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
