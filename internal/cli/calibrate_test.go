package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/spoolworks/labelpress/calibration"
	"github.com/spoolworks/labelpress/calstore"
)

func TestParseMeasurements(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		want    calibration.Measurement
		wantErr bool
	}{
		{name: "rulers only", in: "50.5,20", want: calibration.Measurement{HorizontalMm: 50.5, VerticalMm: 20}},
		{name: "with offsets", in: " 50.5, 20, 0.6, -0.4 ", want: calibration.Measurement{HorizontalMm: 50.5, VerticalMm: 20, CornerOffsetXMm: 0.6, CornerOffsetYMm: -0.4}},
		{name: "too few", in: "50.5", wantErr: true},
		{name: "three values", in: "50.5,20,0.6", wantErr: true},
		{name: "not a number", in: "a,b", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseMeasurements(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseMeasurements(%q) must fail", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseMeasurements(%q): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("parseMeasurements(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func quietContext() context.Context {
	return withLogger(context.Background(), newLogger(io.Discard, log.InfoLevel))
}

func TestRunCalibrateNonInteractive(t *testing.T) {
	cfg := defaultConfig()
	cfg.CalibrationDB = filepath.Join(t.TempDir(), "cal.db")
	tmpl := writeTemplate(t, cleanTemplateJSON)

	// The 29mm stock shortens both reference rulers to 20mm.
	opts := &calibrateOpts{station: "kiosk-7", measurements: "20.2,20.2,0.6,-0.4"}
	if err := runCalibrate(quietContext(), &cfg, tmpl, opts); err != nil {
		t.Fatalf("runCalibrate: %v", err)
	}

	store, err := calstore.OpenSQLite(cfg.CalibrationDB)
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer func() { _ = store.Close() }()

	o, ok, err := store.Get(context.Background(), "kiosk-7", "shelf-29x90")
	if err != nil || !ok {
		t.Fatalf("Get: ok = %v, err = %v", ok, err)
	}
	if o.ScaleX != 1.01 || o.ScaleY != 1.01 {
		t.Errorf("scales = %g, %g, want 1.01 against the shortened 20mm rulers", o.ScaleX, o.ScaleY)
	}
	if o.OffsetXMm != 0.6 || o.OffsetYMm != -0.4 {
		t.Errorf("offsets = %g, %g", o.OffsetXMm, o.OffsetYMm)
	}
	if o.UpdatedAt.IsZero() {
		t.Error("UpdatedAt was not stamped")
	}
}

func TestRunCalibrateRejectsMalformedMeasurements(t *testing.T) {
	cfg := defaultConfig()
	cfg.CalibrationDB = filepath.Join(t.TempDir(), "cal.db")

	opts := &calibrateOpts{station: "kiosk-7", measurements: "20.2"}
	if err := runCalibrate(quietContext(), &cfg, writeTemplate(t, cleanTemplateJSON), opts); err == nil {
		t.Fatal("malformed --measurements must fail")
	}
}

func TestRunCalibrateWritesSheet(t *testing.T) {
	dir := t.TempDir()
	cfg := defaultConfig()
	cfg.CalibrationDB = filepath.Join(dir, "cal.db")
	sheetPath := filepath.Join(dir, "reference.pdf")

	opts := &calibrateOpts{station: "kiosk-7", sheetPath: sheetPath}
	if err := runCalibrate(quietContext(), &cfg, writeTemplate(t, cleanTemplateJSON), opts); err != nil {
		t.Fatalf("runCalibrate --sheet: %v", err)
	}

	data, err := os.ReadFile(sheetPath)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("reference sheet does not look like a PDF")
	}
	if _, err := os.Stat(cfg.CalibrationDB); !os.IsNotExist(err) {
		t.Error("writing the sheet must not touch the calibration store")
	}
}
