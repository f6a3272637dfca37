package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"

	"github.com/ByLCY/adframe/autofit"
	"github.com/ByLCY/adframe/binding"
	"github.com/ByLCY/adframe/config"
	"github.com/ByLCY/adframe/layout"
	canvasrenderer "github.com/ByLCY/adframe/renderer/canvas"
)

// stdio is the path that stands for stdin/stdout.
const stdio = "-"

// readInput reads path, or stdin when path is "-".
func readInput(in io.Reader, path string) ([]byte, error) {
	if path == stdio {
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// writeOutput writes data to path, or to out when path is empty or "-".
func writeOutput(out io.Writer, path string, data []byte) error {
	if path == "" || path == stdio {
		_, err := out.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// readLayout loads a layout document. Documents that cannot be used fall back
// to the 1:1 default, which is logged as a warning.
func readLayout(ctx context.Context, in io.Reader, path string) (layout.Layout, error) {
	data, err := readInput(in, path)
	if err != nil {
		return layout.Layout{}, err
	}
	l, origin := layout.LoadLayout(data)
	logger := loggerFromContext(ctx)
	switch origin {
	case layout.OriginFallback:
		logger.Warn("layout not recognised, using default", "path", path)
	case layout.OriginV1:
		logger.Info("migrated v1 layout", "path", path)
	default:
		logger.Debug("loaded layout", "path", path, "canvas", fmt.Sprintf("%dx%d", l.Canvas.Width, l.Canvas.Height))
	}
	return l, nil
}

func encodeJSON(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// loadImage decodes a PNG, JPEG or WebP file honouring EXIF orientation.
func loadImage(path string) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open image %s: %w", path, err)
	}
	return img, nil
}

// readCopy loads a copy document and resolves its ${path} placeholders against
// the optional data document. Unresolved placeholders are logged and kept.
func readCopy(ctx context.Context, in io.Reader, copyPath, dataPath string) (binding.Copy, error) {
	data, err := readInput(in, copyPath)
	if err != nil {
		return nil, err
	}
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse copy %s: %w", copyPath, err)
	}

	var values any
	if dataPath != "" {
		buf, err := os.ReadFile(dataPath)
		if err != nil {
			return nil, fmt.Errorf("read data %s: %w", dataPath, err)
		}
		if err := json.Unmarshal(buf, &values); err != nil {
			return nil, fmt.Errorf("parse data %s: %w", dataPath, err)
		}
	}

	texts, missing, err := binding.ResolveCopy(raw, values)
	if err != nil {
		return nil, err
	}
	logger := loggerFromContext(ctx)
	for zone, paths := range missing {
		logger.Warn("unresolved placeholders", "zone", zone, "paths", paths)
	}
	return texts, nil
}

// rendererOptions maps the overlay section onto canvas renderer options.
func rendererOptions(cfg config.Config) (canvasrenderer.Options, error) {
	col, err := config.ParseHexColor(cfg.Overlay.TextColor)
	if err != nil {
		return canvasrenderer.Options{}, err
	}
	return canvasrenderer.Options{
		FontPath:     cfg.Overlay.Font,
		ShowSafeZone: cfg.Overlay.SafeZone,
		FillAlpha:    uint8(cfg.Overlay.FillAlpha),
		StrokePx:     cfg.Overlay.StrokePx,
		LabelPx:      cfg.Overlay.LabelPx,
		TextColor:    col,
		LineHeight:   cfg.Autofit.LineHeight,
	}, nil
}

// newRenderer builds a canvas renderer from cfg.
func newRenderer(cfg config.Config) (*canvasrenderer.Renderer, error) {
	opts, err := rendererOptions(cfg)
	if err != nil {
		return nil, err
	}
	return canvasrenderer.NewRendererWithOptions(opts), nil
}

// reportFont logs a font fallback. Fonts load lazily, so call it after drawing.
func reportFont(ctx context.Context, r *canvasrenderer.Renderer, cfg config.Config) {
	if err := r.FontErr(); err != nil {
		loggerFromContext(ctx).Warn("font unavailable, using built-in", "font", cfg.Overlay.Font, "err", err)
	}
}

// measurerFor selects the measurement binding named by the autofit section.
func measurerFor(cfg config.Config, r *canvasrenderer.Renderer) autofit.Measurer {
	if cfg.Autofit.Measure == config.MeasureFixed {
		return autofit.FixedAdvance(cfg.Autofit.FixedAdvance)
	}
	return r
}
