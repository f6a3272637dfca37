package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ByLCY/adframe/layout"
	"github.com/ByLCY/adframe/qa"
)

// errBelowPass is returned when at least one image fails the pass score.
var errBelowPass = errors.New("images below pass score")

// scoreResult is one image of the score command's JSON output.
type scoreResult struct {
	Name   string    `json:"name"`
	Passed bool      `json:"passed"`
	Error  string    `json:"error,omitempty"`
	Report qa.Report `json:"report"`
}

// scoreOutput is the score command's JSON document.
type scoreOutput struct {
	RunID     string        `json:"runId"`
	PassScore float64       `json:"passScore"`
	Results   []scoreResult `json:"results"`
}

func newScoreCmd() *cobra.Command {
	var (
		asJSON  bool
		workers int
		pass    float64
		zones   []string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "score <layout.json> <image>...",
		Short: "Score generated images for detail inside reserved zones",
		Long: `Score generated images for detail inside reserved zones.

Each reserved zone (every zone in the layout unless --zones is given) is
cropped from the image, converted to greyscale and measured: standard deviation above the
threshold costs points. Scores run from 0 to 100. Images that cannot be
decoded score 0. The command fails when any image scores below the pass
score.`,
		Example: `  adframe score layout.json out/*.png
  adframe score layout.json a.webp b.webp --json --pass 80 --zones headline,cta`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFromContext(ctx)
			runID := uuid.NewString()
			logger := loggerFromContext(ctx).With("run", runID[:8])
			prog := newProgress(logger)

			l, err := readLayout(ctx, cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("pass") {
				cfg.QA.PassScore = pass
			}
			if cmd.Flags().Changed("workers") {
				cfg.QA.Workers = workers
			}
			if cmd.Flags().Changed("zones") {
				cfg.QA.Zones = zones
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			candidates := make([]qa.Candidate, 0, len(args)-1)
			for _, path := range args[1:] {
				data, err := os.ReadFile(path)
				if err != nil {
					logger.Warn("cannot read image", "path", path, "err", err)
				}
				candidates = append(candidates, qa.Candidate{Name: path, Data: data})
			}
			logger.Debug("scoring", "images", len(candidates), "workers", cfg.QA.Workers)

			items, err := qa.ScoreAll(ctx, candidates, l, cfg.QA.Workers, cfg.QA.Options()...)
			if err != nil {
				return err
			}

			doc := scoreOutput{RunID: runID, PassScore: cfg.QA.PassScore}
			failed := 0
			for _, it := range items {
				res := scoreResult{Name: it.Name, Passed: it.Passed(cfg.QA.PassScore), Report: qa.FailClosed(it.Report, it.Err)}
				if it.Err != nil {
					res.Error = it.Err.Error()
					logger.Warn("image unavailable", "name", it.Name, "err", it.Err)
				}
				if !res.Passed {
					failed++
				}
				doc.Results = append(doc.Results, res)
			}
			prog.done("scored images", "images", len(items), "failed", failed)

			if asJSON {
				data, err := encodeJSON(doc)
				if err != nil {
					return err
				}
				if err := writeOutput(cmd.OutOrStdout(), out, data); err != nil {
					return err
				}
			} else {
				printScoreReport(cmd.OutOrStdout(), doc, l)
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", errBelowPass, failed, len(items))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "parallel decoders (default GOMAXPROCS)")
	cmd.Flags().Float64Var(&pass, "pass", qa.DefaultPassScore, "minimum passing score")
	cmd.Flags().StringSliceVar(&zones, "zones", nil, "zones to score (default all present zones)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "JSON output file (with --json)")
	return cmd
}

// printScoreReport renders the run header and one table row per image.
func printScoreReport(w io.Writer, doc scoreOutput, l layout.Layout) {
	fmt.Fprintln(w, StyleTitle.Render("Reserved-zone QA"))
	printKeyValue(w, "Run", doc.RunID)
	printKeyValue(w, "Canvas", fmt.Sprintf("%dx%d (%s)", l.Canvas.Width, l.Canvas.Height, l.Canvas.AspectRatio))
	printKeyValue(w, "Pass score", fmt.Sprintf("%.0f", doc.PassScore))
	fmt.Fprintln(w)

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	rows := make([][]string, 0, len(doc.Results))
	for _, r := range doc.Results {
		rows = append(rows, []string{r.Name, fmt.Sprintf("%.1f", r.Report.Score), verdict(r.Passed), worstZones(r)})
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Image", "Score", "Result", "Penalized zones").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 3 {
				return StyleDim
			}
			return lipgloss.NewStyle()
		})
	fmt.Fprintln(w, t.Render())
}

// worstZones lists zones that cost points, or the error for unavailable images.
func worstZones(r scoreResult) string {
	if r.Error != "" {
		return "unavailable"
	}
	var parts []string
	for _, z := range r.Report.Zones {
		if z.Penalty > 0 {
			parts = append(parts, fmt.Sprintf("%s −%.1f", z.Zone, z.Penalty))
		}
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, ", ")
}
