package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersion injects build metadata, typically from ldflags in main.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the labelpress CLI. The context bounds every command;
// canceling it (Ctrl-C in main) stops servers and interactive flows.
func Execute(ctx context.Context) error {
	var (
		verbose    bool
		configPath string
	)
	cfg := defaultConfig()

	root := &cobra.Command{
		Use:   "labelpress",
		Short: "Labelpress lays out dot-exact labels for thermal printers",
		Long: `Labelpress turns label templates into printer-ready artifacts. Geometry is
authored in millimeters, snapped to the printer's dot grid, corrected by
per-station calibration and emitted as integer dot plans, PDFs or PNGs.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			loaded, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("labelpress %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a labelpress.toml")

	root.AddCommand(newRenderCmd(&cfg))
	root.AddCommand(newCheckCmd())
	root.AddCommand(newCalibrateCmd(&cfg))
	root.AddCommand(newOverridesCmd(&cfg))
	root.AddCommand(newServeCmd(&cfg))

	return root.ExecuteContext(ctx)
}
