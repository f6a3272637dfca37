package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/ByLCY/adframe/autofit"
	"github.com/ByLCY/adframe/layout"
	"github.com/ByLCY/adframe/qa"
)

// Common errors
var (
	ErrInvalid       = errors.New("invalid configuration")
	ErrUnknownField  = errors.New("unknown field in configuration")
	ErrUnknownFormat = errors.New("unsupported configuration format")
)

// ConfigError represents a configuration error with context.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("config error: %s", e.Message)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

func invalid(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...), Err: ErrInvalid}
}

// Config holds the tunables of the autofit engine, the overlay renderer and the QA scorer.
type Config struct {
	Autofit AutofitConfig `toml:"autofit" yaml:"autofit" json:"autofit"`
	Overlay OverlayConfig `toml:"overlay" yaml:"overlay" json:"overlay"`
	QA      QAConfig      `toml:"qa" yaml:"qa" json:"qa"`
}

// AutofitConfig configures text fitting.
type AutofitConfig struct {
	// LineHeight is the line height multiplier.
	LineHeight float64 `toml:"line-height" yaml:"line-height" json:"lineHeight"`

	// Measure selects the measurement binding: "font" or "fixed".
	Measure string `toml:"measure" yaml:"measure" json:"measure"`

	// FixedAdvance is the per-rune advance ratio used by the "fixed" binding.
	FixedAdvance float64 `toml:"fixed-advance" yaml:"fixed-advance" json:"fixedAdvance"`
}

// OverlayConfig configures the guide renderer and the fallback compositor.
type OverlayConfig struct {
	Font      string  `toml:"font" yaml:"font" json:"font"`
	SafeZone  bool    `toml:"safe-zone" yaml:"safe-zone" json:"safeZone"`
	FillAlpha int     `toml:"fill-alpha" yaml:"fill-alpha" json:"fillAlpha"`
	StrokePx  float64 `toml:"stroke-px" yaml:"stroke-px" json:"strokePx"`
	LabelPx   float64 `toml:"label-px" yaml:"label-px" json:"labelPx"`
	TextColor string  `toml:"text-color" yaml:"text-color" json:"textColor"`
}

// QAConfig configures reserved-zone scoring.
type QAConfig struct {
	Threshold float64  `toml:"threshold" yaml:"threshold" json:"threshold"`
	Weight    float64  `toml:"weight" yaml:"weight" json:"weight"`
	PassScore float64  `toml:"pass-score" yaml:"pass-score" json:"passScore"`
	Zones     []string `toml:"zones" yaml:"zones" json:"zones,omitempty"`
	Workers   int      `toml:"workers" yaml:"workers" json:"workers"`
}

// Measure bindings.
const (
	MeasureFont  = "font"
	MeasureFixed = "fixed"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Autofit: AutofitConfig{
			LineHeight:   autofit.DefaultLineHeight,
			Measure:      MeasureFont,
			FixedAdvance: 0.55,
		},
		Overlay: OverlayConfig{
			SafeZone:  true,
			FillAlpha: 64,
			StrokePx:  3,
			TextColor: "#FFFFFF",
		},
		QA: QAConfig{
			Threshold: qa.DefaultThreshold,
			Weight:    qa.DefaultWeight,
			PassScore: qa.DefaultPassScore,
		},
	}
}

// Load reads a TOML (.toml) or YAML (.yaml/.yml) file on top of Default and validates it.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return Parse(data, "toml")
	case ".yaml", ".yml":
		return Parse(data, "yaml")
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Parse decodes data in the given format ("toml" or "yaml") on top of Default and validates it.
// Unknown keys are rejected.
func Parse(data []byte, format string) (Config, error) {
	cfg := Default()
	switch format {
	case "toml":
		md, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("failed to parse TOML config: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, &ConfigError{Field: undecoded[0].String(), Message: "unexpected field", Err: ErrUnknownField}
		}
	case "yaml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			if strings.Contains(err.Error(), "not found in type") {
				return Config{}, &ConfigError{Message: err.Error(), Err: ErrUnknownField}
			}
			return Config{}, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and zone names.
func (c *Config) Validate() error {
	if c.Autofit.LineHeight <= 0 || c.Autofit.LineHeight > 5 {
		return invalid("autofit.line-height", "must be in (0, 5], got %g", c.Autofit.LineHeight)
	}
	switch c.Autofit.Measure {
	case MeasureFont, MeasureFixed:
	default:
		return invalid("autofit.measure", "must be %q or %q, got %q", MeasureFont, MeasureFixed, c.Autofit.Measure)
	}
	if c.Autofit.FixedAdvance <= 0 {
		return invalid("autofit.fixed-advance", "must be positive, got %g", c.Autofit.FixedAdvance)
	}
	if c.Overlay.FillAlpha < 0 || c.Overlay.FillAlpha > 255 {
		return invalid("overlay.fill-alpha", "must be in [0, 255], got %d", c.Overlay.FillAlpha)
	}
	if c.Overlay.StrokePx < 0 || c.Overlay.LabelPx < 0 {
		return invalid("overlay", "stroke-px and label-px must not be negative")
	}
	if _, err := ParseHexColor(c.Overlay.TextColor); err != nil {
		return invalid("overlay.text-color", "%v", err)
	}
	if c.QA.Threshold < 0 || c.QA.Threshold > 1 {
		return invalid("qa.threshold", "must be in [0, 1], got %g", c.QA.Threshold)
	}
	if c.QA.Weight <= 0 {
		return invalid("qa.weight", "must be positive, got %g", c.QA.Weight)
	}
	if c.QA.PassScore < 0 || c.QA.PassScore > 100 {
		return invalid("qa.pass-score", "must be in [0, 100], got %g", c.QA.PassScore)
	}
	if c.QA.Workers < 0 {
		return invalid("qa.workers", "must not be negative, got %d", c.QA.Workers)
	}
	if _, err := c.QA.ZoneNames(); err != nil {
		return err
	}
	return nil
}

// ZoneNames resolves the configured QA zones. An empty list means the scorer default.
func (q QAConfig) ZoneNames() ([]layout.ZoneName, error) {
	out := make([]layout.ZoneName, 0, len(q.Zones))
	for _, raw := range q.Zones {
		name, ok := layout.ParseZoneName(raw)
		if !ok {
			return nil, invalid("qa.zones", "unknown zone %q", raw)
		}
		out = append(out, name)
	}
	return out, nil
}

// Options converts the QA section into scorer options.
func (q QAConfig) Options() []qa.Option {
	opts := []qa.Option{qa.WithThreshold(q.Threshold), qa.WithWeight(q.Weight)}
	if zones, err := q.ZoneNames(); err == nil && len(zones) > 0 {
		opts = append(opts, qa.WithZones(zones...))
	}
	return opts
}
