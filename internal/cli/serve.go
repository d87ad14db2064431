package cli

import (
	"github.com/spf13/cobra"

	"github.com/spoolworks/labelpress/calstore"
	"github.com/spoolworks/labelpress/internal/httpapi"
	canvasrenderer "github.com/spoolworks/labelpress/render/canvas"
)

func newServeCmd(cfg *Config) *cobra.Command {
	var (
		listen   string
		imageDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the print-station HTTP service",
		Long: `Serve exposes rendering, layout checking and calibration management
over HTTP for unattended stations. Overrides are persisted in the
configured SQLite database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if listen == "" {
				listen = cfg.Listen
			}
			if imageDir == "" {
				imageDir = cfg.ImageDir
			}
			logger := loggerFromContext(cmd.Context())

			store, err := calstore.OpenSQLite(cfg.CalibrationDB)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			srv, err := httpapi.NewServer(httpapi.Options{
				Store:    store,
				Renderer: canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: imageDir}),
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			logger.Info("listening", "addr", listen, "calibration_db", cfg.CalibrationDB)
			return srv.ListenAndServe(cmd.Context(), listen)
		},
	}

	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address (defaults to the configured one)")
	cmd.Flags().StringVar(&imageDir, "images", "", "base directory for relative image sources")
	return cmd
}
