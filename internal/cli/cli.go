// Package cli implements the adframe command-line interface.
//
// Commands operate on files: layouts as JSON, images as PNG/JPEG/WebP and
// copy as JSON. Output goes to the path given with --out, or to stdout.
//
// # Commands
//
//   - layout default|migrate|edit|resolve: create, upgrade, edit and inspect layouts
//   - fit: run the autofit engine for every text zone with copy
//   - overlay: render the zone guide (PNG or SVG), optionally over an image
//   - compose: draw fitted copy over a generated image
//   - score: reserved-zone QA for one or more generated images
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ByLCY/adframe/config"
)

const appName = "adframe"

var (
	version = "dev" // semantic version
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the adframe CLI with ctx and returns an error if any command fails.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// newRootCmd builds the command tree. Command output goes to out, logs to logOut.
func newRootCmd(out, logOut io.Writer) *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          appName,
		Short:        "adframe lays out, checks and composites marketing copy on generated images",
		Long:         `adframe manages normalized ad layouts, fits copy into reserved zones without overflow, renders zone guides and scores generated images for detail painted where text must go.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(logOut, level)
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if configPath != "" {
				logger.Debug("loaded config", "path", configPath)
			}
			ctx := withLogger(cmd.Context(), logger)
			cmd.SetContext(withConfig(ctx, cfg))
			return nil
		},
	}

	root.SetOut(out)
	root.SetErr(logOut)
	root.SetVersionTemplate(fmt.Sprintf("%s %s\ncommit: %s\nbuilt: %s\n", appName, version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML or YAML config file")

	root.AddCommand(newLayoutCmd())
	root.AddCommand(newFitCmd())
	root.AddCommand(newOverlayCmd())
	root.AddCommand(newComposeCmd())
	root.AddCommand(newScoreCmd())
	return root
}

// cfgKey is the context key for the loaded configuration.
type cfgKey struct{}

func withConfig(ctx context.Context, cfg config.Config) context.Context {
	return context.WithValue(ctx, cfgKey{}, cfg)
}

// configFromContext returns the loaded configuration, or the defaults.
func configFromContext(ctx context.Context) config.Config {
	if cfg, ok := ctx.Value(cfgKey{}).(config.Config); ok {
		return cfg
	}
	return config.Default()
}
