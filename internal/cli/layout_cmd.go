package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/adframe/dsl"
	"github.com/ByLCY/adframe/layout"
)

func newLayoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Create, migrate, edit and resolve layouts",
	}
	cmd.AddCommand(newLayoutDefaultCmd())
	cmd.AddCommand(newLayoutMigrateCmd())
	cmd.AddCommand(newLayoutEditCmd())
	cmd.AddCommand(newLayoutResolveCmd())
	return cmd
}

func newLayoutDefaultCmd() *cobra.Command {
	var (
		ratio string
		size  string
		out   string
	)
	cmd := &cobra.Command{
		Use:   "default",
		Short: "Write the default layout for an aspect ratio",
		Long: fmt.Sprintf(`Write the default layout for an aspect ratio (%s).

With --size WxH the closest preset ratio is chosen instead.`, strings.Join(layout.AspectRatios(), ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if size != "" {
				var w, h int
				if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil {
					return fmt.Errorf("invalid --size %q: want WxH", size)
				}
				ratio = layout.RatioForSize(w, h)
			}
			l := layout.CreateDefaultLayout(ratio)
			loggerFromContext(cmd.Context()).Debug("default layout", "ratio", l.Canvas.AspectRatio)
			data, err := layout.EncodeLayout(l)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, append(data, '\n'))
		},
	}
	cmd.Flags().StringVarP(&ratio, "ratio", "r", layout.RatioSquare, "aspect ratio preset")
	cmd.Flags().StringVar(&size, "size", "", "pick the preset closest to WxH pixels")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newLayoutMigrateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "migrate <layout.json>",
		Short: "Upgrade a layout document to the current schema",
		Long: `Upgrade a layout document to the current schema.

v1 documents keep headline, subtext and cta exactly and gain hero, logo,
badge and legal defaults for their ratio. Unusable input yields the 1:1
default. All geometry is clamped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLayout(cmd.Context(), cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			data, err := layout.EncodeLayout(l)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, append(data, '\n'))
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newLayoutEditCmd() *cobra.Command {
	var (
		scriptPath string
		exprs      []string
		snap       bool
		out        string
	)
	cmd := &cobra.Command{
		Use:   "edit <layout.json>",
		Short: "Apply move/resize/nudge statements to a layout",
		Long: `Apply an edit script to a layout.

Statements, one per line or separated by ';':

  move <zone> to <x> <y>
  resize <zone> to <w> <h>
  nudge <zone> by <dx> <dy>
  snap on|off

Values are fractions of the canvas unless suffixed with px or %.`,
		Example: `  adframe layout edit layout.json -e "move headline to 0.1 0.1" -e "nudge cta by 0 -8"
  adframe layout edit layout.json --script edits.txt --snap -o edited.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if scriptPath == "" && len(exprs) == 0 {
				return fmt.Errorf("nothing to apply: pass --script or -e")
			}
			l, err := readLayout(ctx, cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			source := strings.Join(exprs, "\n")
			if scriptPath != "" {
				data, err := readInput(cmd.InOrStdin(), scriptPath)
				if err != nil {
					return err
				}
				source = string(data) + "\n" + source
			}
			script, err := dsl.ParseString(source)
			if err != nil {
				return err
			}
			loggerFromContext(ctx).Debug("parsed edit script", "statements", len(script.Statements))

			edited, err := layout.ApplyScript(l, script, layout.EditOptions{Snap: snap})
			if err != nil {
				return err
			}
			data, err := layout.EncodeLayout(edited)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, append(data, '\n'))
		},
	}
	cmd.Flags().StringVarP(&scriptPath, "script", "s", "", "edit script file")
	cmd.Flags().StringArrayVarP(&exprs, "expr", "e", nil, "edit statement (repeatable)")
	cmd.Flags().BoolVar(&snap, "snap", false, "snap edited boxes to the canvas grid")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func newLayoutResolveCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "resolve <layout.json>",
		Short: "Print the pixel boxes of every zone and the safe zone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLayout(cmd.Context(), cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			res := layout.Resolve(l)
			if out != "" && out != stdio {
				return layout.WriteDebugJSON(res, out)
			}
			data, err := encodeJSON(res)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), "", data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}
