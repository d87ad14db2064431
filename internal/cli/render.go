package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spoolworks/labelpress/calibration"
	"github.com/spoolworks/labelpress/calstore"
	"github.com/spoolworks/labelpress/layout"
	canvasrenderer "github.com/spoolworks/labelpress/render/canvas"
)

// renderOpts holds the command line flags for the render command.
type renderOpts struct {
	record   string   // JSON file with field values
	sets     []string // --set key=value overlays
	station  string   // station id for calibration lookup
	format   string   // plan, pdf or png
	output   string   // output path
	imageDir string   // base for relative image paths
}

// newRenderCmd creates the render command. It resolves a template against a
// data record and the station's calibration, then emits the dot plan as JSON
// or paints it to PDF/PNG.
func newRenderCmd(cfg *Config) *cobra.Command {
	opts := renderOpts{format: "plan"}

	cmd := &cobra.Command{
		Use:   "render <template.json>",
		Short: "Resolve a template into a dot-exact plan, PDF or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.station == "" {
				opts.station = cfg.StationID
			}
			if opts.imageDir == "" {
				opts.imageDir = cfg.ImageDir
			}
			if err := validateRenderFormat(opts.format); err != nil {
				return err
			}
			return runRender(cmd.Context(), cfg, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.record, "record", "r", "", "JSON file with field values for bind expressions")
	cmd.Flags().StringArrayVar(&opts.sets, "set", nil, "set one record field (key=value, repeatable)")
	cmd.Flags().StringVarP(&opts.station, "station", "s", "", "station id for calibration lookup (default: config station_id)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: plan (default), pdf, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout for plan, template name otherwise)")
	cmd.Flags().StringVar(&opts.imageDir, "images", "", "directory for relative image paths (default: template directory)")
	return cmd
}

func validateRenderFormat(f string) error {
	switch f {
	case "plan", "pdf", "png":
		return nil
	}
	return fmt.Errorf("invalid format: %s (must be 'plan', 'pdf' or 'png')", f)
}

func runRender(ctx context.Context, cfg *Config, path string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)

	l, err := loadLayout(path)
	if err != nil {
		return err
	}
	rec, err := loadRecord(opts.record)
	if err != nil {
		return err
	}
	rec, err = applySets(rec, opts.sets)
	if err != nil {
		return err
	}

	override := calibration.Identity(opts.station, l.Meta.ID)
	if opts.station != "" {
		store, err := calstore.OpenSQLite(cfg.CalibrationDB)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		stored, ok, err := store.Get(ctx, opts.station, l.Meta.ID)
		if err != nil {
			return err
		}
		if ok {
			override = stored
			logger.Debug("using stored calibration",
				"station", opts.station, "scale_x", stored.ScaleX, "scale_y", stored.ScaleY)
		} else {
			logger.Warn("no calibration stored for this station, rendering uncalibrated",
				"station", opts.station, "profile", l.Meta.ID)
		}
	}

	baseDir := opts.imageDir
	if baseDir == "" {
		baseDir = filepath.Dir(path)
	}
	renderer := canvasrenderer.NewRendererWithOptions(canvasrenderer.Options{BaseDir: baseDir})

	plan, err := layout.Resolve(l, rec, override, renderer)
	if err != nil {
		return err
	}
	for _, f := range plan.Findings {
		logger.Warn(f.Message, "element", f.ElementID, "code", f.Code, "severity", f.Severity)
	}

	if opts.format == "plan" {
		if opts.output == "" {
			return layout.WritePlan(os.Stdout, plan)
		}
		out, err := os.Create(opts.output)
		if err != nil {
			return err
		}
		defer func() { _ = out.Close() }()
		if err := layout.WritePlan(out, plan); err != nil {
			return err
		}
		logger.Infof("Generated %s", opts.output)
		return nil
	}

	var data []byte
	if opts.format == "pdf" {
		data, err = renderer.Render(plan)
	} else {
		data, err = renderer.RenderPNG(plan)
	}
	if err != nil {
		return err
	}

	outPath := opts.output
	if outPath == "" {
		outPath = strings.TrimSuffix(path, filepath.Ext(path)) + "." + opts.format
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	logger.Infof("Generated %s (%d bytes)", outPath, len(data))
	return nil
}
