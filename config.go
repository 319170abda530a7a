package arbor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the metrics, interaction tuning, and colors of a tree.
type Config struct {
	Spacing  float64 `yaml:"spacing"`   // vertical gap between rows
	Indent   float64 `yaml:"indent"`    // horizontal offset per depth level
	PaddingX float64 `yaml:"padding_x"` // left/right padding
	PaddingY float64 `yaml:"padding_y"` // top/bottom padding

	LineHeight    float64 `yaml:"line_height"`    // minimum row height and drop preview height
	ArrowWidth    float64 `yaml:"arrow_width"`    // expand/collapse arrow column
	ArrowPad      float64 `yaml:"arrow_pad"`      // arrow glyph inset
	ContentGap    float64 `yaml:"content_gap"`    // gap between the arrow column and content
	HandleWidth   float64 `yaml:"handle_width"`   // hover zone of the drag handle
	HandleStripe  float64 `yaml:"handle_stripe"`  // drawn width of the drag handle
	DragThreshold float64 `yaml:"drag_threshold"` // pointer travel before a drag starts
	HitTolerance  float64 `yaml:"hit_tolerance"`  // vertical slack when hit-testing drop targets

	// GapAnimation is the duration, in seconds, of the drop preview gap
	// opening. Zero opens the gap instantly.
	GapAnimation float64 `yaml:"gap_animation"`

	Style Style `yaml:"style"`
}

// DefaultConfig returns the stock metrics.
func DefaultConfig() Config {
	return Config{
		Spacing:       4,
		Indent:        20,
		PaddingX:      10,
		PaddingY:      5,
		LineHeight:    32,
		ArrowWidth:    16,
		ArrowPad:      4,
		ContentGap:    14,
		HandleWidth:   24,
		HandleStripe:  2,
		DragThreshold: 5,
		HitTolerance:  2,
		Style:         DefaultStyle(),
	}
}

// LoadConfig reads a YAML config file. Fields missing from the file keep
// their defaults; a missing file yields DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), fmt.Errorf("read config %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML on top of DefaultConfig.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse config: %w", err)
	}
	if cfg.DragThreshold < 0 {
		return DefaultConfig(), fmt.Errorf("parse config: negative drag_threshold %v", cfg.DragThreshold)
	}
	return cfg, nil
}

// Style holds the colors the tree paints with.
type Style struct {
	Text                Color `yaml:"text"`
	SelectionBackground Color `yaml:"selection_background"`
	SelectionBorder     Color `yaml:"selection_border"`
	FocusBorder         Color `yaml:"focus_border"`
	Arrow               Color `yaml:"arrow"`
	Line                Color `yaml:"line"`
	AcceptDrop          Color `yaml:"accept_drop"`
	DenyDrop            Color `yaml:"deny_drop"`
}

// DefaultStyle returns the light stock palette.
func DefaultStyle() Style {
	return Style{
		Text:                Color{0, 0, 0, 1},
		SelectionBackground: Color{0, 0, 0, 0.05},
		SelectionBorder:     Color{0, 0.5, 1, 1},
		FocusBorder:         Color{0, 0.5, 1, 0.5},
		Arrow:               Color{0.3, 0.3, 0.3, 1},
		Line:                Color{0.3, 0.3, 0.3, 1},
		AcceptDrop:          Color{0, 0.8, 0, 1},
		DenyDrop:            Color{1, 0, 0, 1},
	}
}

// UnmarshalYAML accepts colors as a 4-element [r, g, b, a] list or a map
// with r/g/b/a keys.
func (c *Color) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.SequenceNode {
		var v []float64
		if err := node.Decode(&v); err != nil {
			return err
		}
		if len(v) != 3 && len(v) != 4 {
			return fmt.Errorf("line %d: color needs 3 or 4 components, got %d", node.Line, len(v))
		}
		c.R, c.G, c.B, c.A = v[0], v[1], v[2], 1
		if len(v) == 4 {
			c.A = v[3]
		}
		return nil
	}
	var m struct {
		R, G, B float64
		A       *float64
	}
	if err := node.Decode(&m); err != nil {
		return err
	}
	c.R, c.G, c.B, c.A = m.R, m.G, m.B, 1
	if m.A != nil {
		c.A = *m.A
	}
	return nil
}
