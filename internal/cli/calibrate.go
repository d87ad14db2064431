package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/spoolworks/labelpress/calibration"
	"github.com/spoolworks/labelpress/calstore"
	"github.com/spoolworks/labelpress/layout"
	canvasrenderer "github.com/spoolworks/labelpress/render/canvas"
)

type calibrateOpts struct {
	// station being calibrated; falls back to the config file
	station string
	// write the printable reference sheet PDF and exit
	sheetPath string
	// "h,v" or "h,v,dx,dy" in mm, skips the interactive wizard
	measurements string
}

func newCalibrateCmd(cfg *Config) *cobra.Command {
	var opts calibrateOpts

	cmd := &cobra.Command{
		Use:   "calibrate <template.json>",
		Short: "Calibrate this station against a printed reference sheet",
		Long: `Calibrate walks one station through drift correction for one stock:
print the reference sheet, measure its rulers and corner targets with a
caliper, and save the resulting override. Use --sheet first to produce
the printable PDF, then run again without it to enter measurements.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.station == "" {
				opts.station = cfg.StationID
			}
			if opts.station == "" {
				return fmt.Errorf("a station id is required (--station or station_id in %s)", defaultConfigFile)
			}
			return runCalibrate(cmd.Context(), cfg, args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.station, "station", "s", "", "station identifier to calibrate")
	cmd.Flags().StringVar(&opts.sheetPath, "sheet", "", "write the printable reference sheet to this PDF file and exit")
	cmd.Flags().StringVarP(&opts.measurements, "measurements", "m", "", `measured "h,v" or "h,v,dx,dy" in mm, skips the interactive wizard`)
	return cmd
}

func runCalibrate(ctx context.Context, cfg *Config, path string, opts *calibrateOpts) error {
	logger := loggerFromContext(ctx)

	l, err := loadLayout(path)
	if err != nil {
		return err
	}
	sheet, err := calibration.BuildSheet(l.Meta)
	if err != nil {
		return err
	}

	if opts.sheetPath != "" {
		return writeSheet(logger, sheet, opts.station, opts.sheetPath)
	}

	store, err := calstore.OpenSQLite(cfg.CalibrationDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	wiz, err := calibration.NewWizard(store, opts.station, l.Meta.ID)
	if err != nil {
		return err
	}
	wiz.Expected = sheet.Expected

	if opts.measurements != "" {
		m, err := parseMeasurements(opts.measurements)
		if err != nil {
			return err
		}
		if err := wiz.MarkGenerated(); err != nil {
			return err
		}
		if err := wiz.Enter(m); err != nil {
			return err
		}
		o, err := wiz.Save(ctx)
		if err != nil {
			return err
		}
		logger.Info("saved calibration override",
			"station", o.StationID, "profile", o.ProfileID,
			"scale_x", o.ScaleX, "scale_y", o.ScaleY,
			"offset_x_mm", o.OffsetXMm, "offset_y_mm", o.OffsetYMm)
		return nil
	}

	p := tea.NewProgram(newWizardModel(ctx, wiz), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	fm, ok := finalModel.(wizardModel)
	if !ok || !fm.saved {
		logger.Warn("calibration abandoned, nothing was saved")
		return nil
	}
	logger.Info("saved calibration override",
		"station", fm.override.StationID, "profile", fm.override.ProfileID,
		"scale_x", fm.override.ScaleX, "scale_y", fm.override.ScaleY,
		"offset_x_mm", fm.override.OffsetXMm, "offset_y_mm", fm.override.OffsetYMm)
	return nil
}

// writeSheet renders the reference layout with the identity override. The
// printed sheet has to expose the station's raw drift, so any stored
// correction must not leak into it.
func writeSheet(logger *log.Logger, sheet calibration.Sheet, station, outPath string) error {
	r := canvasrenderer.NewRenderer()
	plan, err := layout.Resolve(sheet.Layout, nil, calibration.Identity(station, sheet.Layout.Meta.ID), r)
	if err != nil {
		return err
	}
	data, err := r.Render(plan)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}
	logger.Infof("Generated %s (%d bytes)", outPath, len(data))
	logger.Info("measure the printed rulers before entering the wizard",
		"horizontal_mm", sheet.Expected.HorizontalMm,
		"vertical_mm", sheet.Expected.VerticalMm)
	return nil
}

// parseMeasurements reads the non-interactive measurement flag. Corner
// offsets default to zero when only the two ruler lengths are given.
func parseMeasurements(s string) (calibration.Measurement, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 && len(parts) != 4 {
		return calibration.Measurement{}, fmt.Errorf(`invalid --measurements %q, want "h,v" or "h,v,dx,dy" in mm`, s)
	}
	vals := make([]float64, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return calibration.Measurement{}, fmt.Errorf("invalid --measurements %q: %q is not a number", s, strings.TrimSpace(p))
		}
		vals[i] = v
	}
	m := calibration.Measurement{HorizontalMm: vals[0], VerticalMm: vals[1]}
	if len(vals) == 4 {
		m.CornerOffsetXMm = vals[2]
		m.CornerOffsetYMm = vals[3]
	}
	return m, nil
}
