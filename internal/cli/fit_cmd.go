package cli

import (
	"github.com/spf13/cobra"

	"github.com/ByLCY/adframe/autofit"
	"github.com/ByLCY/adframe/config"
	"github.com/ByLCY/adframe/layout"
)

// fitEntry is one zone of the fit command's JSON output.
type fitEntry struct {
	Zone   layout.ZoneName `json:"zone"`
	Box    layout.PxBox    `json:"box"`
	Text   string          `json:"text"`
	Result autofit.Result  `json:"result"`
}

func newFitCmd() *cobra.Command {
	var (
		copyPath string
		dataPath string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "fit <layout.json>",
		Short: "Fit copy into the layout's text zones",
		Long: `Fit copy into the layout's text zones.

For every zone in the copy document, picks the largest font size and wrap
that fit the zone's inner box within its line limit. Copy is never
truncated; zones that needed a size below their preferred minimum are
reported with belowMin.`,
		Example: `  adframe fit layout.json --copy copy.json
  adframe fit layout.json --copy copy.json --data offer.json -c adframe.toml`,
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
			r, err := newRenderer(cfg)
			if err != nil {
				return err
			}
			m := measurerFor(cfg, r)

			var entries []fitEntry
			for _, name := range l.Zones() {
				text, ok := texts[name]
				if !ok {
					continue
				}
				zone, ok := l.Text(name)
				if !ok {
					continue
				}
				res, box := autofit.FitZone(text, zone, l.Canvas, m, cfg.Autofit.LineHeight)
				if res.BelowMin {
					logger.Warn("copy below preferred size", "zone", name, "fontPx", res.FontSizePx, "minFontPx", zone.MinFontPx)
				}
				entries = append(entries, fitEntry{Zone: name, Box: box, Text: text, Result: res})
			}
			if cfg.Autofit.Measure == config.MeasureFont {
				reportFont(ctx, r, cfg)
			}

			data, err := encodeJSON(entries)
			if err != nil {
				return err
			}
			prog.done("fitted copy", "zones", len(entries))
			return writeOutput(cmd.OutOrStdout(), out, data)
		},
	}
	cmd.Flags().StringVar(&copyPath, "copy", "", "copy document (JSON zone → text)")
	cmd.Flags().StringVar(&dataPath, "data", "", "data document for ${path} placeholders")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	_ = cmd.MarkFlagRequired("copy")
	return cmd
}
