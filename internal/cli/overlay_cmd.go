package cli

import (
	"fmt"
	"image"
	"strings"

	"github.com/spf13/cobra"

	canvasrenderer "github.com/ByLCY/adframe/renderer/canvas"
)

const (
	formatPNG = "png"
	formatSVG = "svg"
)

func newOverlayCmd() *cobra.Command {
	var (
		format   string
		basePath string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "overlay <layout.json>",
		Short: "Render the zone guide for a layout",
		Long: `Render the zone guide for a layout.

Each zone is drawn as a translucent filled rectangle with an outline and its
name, in a fixed colour per zone, with the safe zone as a dashed outline.
The output has exactly the canvas dimensions. With --base the guide is
composited over an image (resized to the canvas when needed).`,
		Example: `  adframe overlay layout.json -o guide.png
  adframe overlay layout.json --format svg -o guide.svg
  adframe overlay layout.json --base generated.webp -o check.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			prog := newProgress(loggerFromContext(ctx))

			format = strings.ToLower(format)
			if format != formatPNG && format != formatSVG {
				return fmt.Errorf("unsupported format %q: want png or svg", format)
			}
			if format == formatSVG && basePath != "" {
				return fmt.Errorf("--base requires png output")
			}

			l, err := readLayout(ctx, cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			r, err := newRenderer(cfg)
			if err != nil {
				return err
			}

			var data []byte
			switch {
			case format == formatSVG:
				data, err = r.RenderSVG(l)
			case basePath != "":
				var base image.Image
				if base, err = loadImage(basePath); err != nil {
					return err
				}
				img, gerr := r.Guide(base, l)
				if gerr != nil {
					return gerr
				}
				data, err = canvasrenderer.EncodePNG(img)
			default:
				data, err = r.Render(l)
			}
			if err != nil {
				return err
			}
			reportFont(ctx, r, cfg)
			prog.done("rendered overlay", "format", format, "size", fmt.Sprintf("%dx%d", l.Canvas.Width, l.Canvas.Height))
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", formatPNG, "output format: png or svg")
	cmd.Flags().StringVar(&basePath, "base", "", "image to draw the guide over")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newComposeCmd() *cobra.Command {
	var (
		basePath string
		copyPath string
		dataPath string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "compose <layout.json>",
		Short: "Draw fitted copy over an image",
		Long: `Draw fitted copy over an image.

This is the fallback used when a generated image paints over its text zones:
each zone's copy is autofitted with the configured font and drawn over the
base image, aligned per zone and centred vertically. Without --base the copy
is drawn on a transparent canvas.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)
			prog := newProgress(logger)

			l, err := readLayout(ctx, cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			texts, err := readCopy(ctx, cmd.InOrStdin(), copyPath, dataPath)
			if err != nil {
				return err
			}
			var base image.Image
			if basePath != "" {
				if base, err = loadImage(basePath); err != nil {
					return err
				}
			}
			r, err := newRenderer(cfg)
			if err != nil {
				return err
			}

			img, results, err := r.Compose(base, l, texts)
			if err != nil {
				return err
			}
			reportFont(ctx, r, cfg)
			for name, res := range results {
				logger.Debug("fitted zone", "zone", name, "fontPx", res.FontSizePx, "lines", len(res.Lines), "belowMin", res.BelowMin)
			}

			data, err := canvasrenderer.EncodePNG(img)
			if err != nil {
				return err
			}
			prog.done("composed copy", "zones", len(results))
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().StringVar(&basePath, "base", "", "image to draw over (PNG, JPEG or WebP)")
	cmd.Flags().StringVar(&copyPath, "copy", "", "copy document (JSON zone → text)")
	cmd.Flags().StringVar(&dataPath, "data", "", "data document for ${path} placeholders")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("copy")
	return cmd
}
