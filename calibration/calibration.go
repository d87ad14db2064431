// Package calibration corrects per-station print drift. A printed reference
// sheet is measured by hand, the measurements become a bounded affine
// override for that (station, profile) pair, and every later render applies
// the override before geometry is snapped to the dot grid.
package calibration

import (
	"context"
	"math"
	"time"

	"github.com/spoolworks/labelpress/template"
)

// Reference ruler defaults and correction bounds. Scales clamp to the
// mechanical tolerance of small thermal printers; offsets clamp to a range
// that cannot push a label off its stock. Out-of-range measurements are
// operator error (wrong unit, wrong edge) and clamping them beats rejecting
// them on an unattended kiosk.
const (
	DefaultExpectedHorizontalMm = 50.0
	DefaultExpectedVerticalMm   = 20.0

	MinScale    = 0.98
	MaxScale    = 1.02
	MaxOffsetMm = 2.0
)

// Expected is the nominal ruler geometry printed on a calibration sheet.
// Small stocks cannot fit the defaults, so the sheet builder shortens the
// rulers and records the lengths actually printed here.
type Expected struct {
	HorizontalMm float64 `json:"horizontal_mm"`
	VerticalMm   float64 `json:"vertical_mm"`
}

// DefaultExpected returns the stock ruler lengths.
func DefaultExpected() Expected {
	return Expected{HorizontalMm: DefaultExpectedHorizontalMm, VerticalMm: DefaultExpectedVerticalMm}
}

// Measurement is what the operator reads off the printed sheet with a
// caliper: the two ruler lengths and the corner target drift.
type Measurement struct {
	HorizontalMm    float64 `json:"horizontal_mm"`
	VerticalMm      float64 `json:"vertical_mm"`
	CornerOffsetXMm float64 `json:"corner_offset_x_mm"`
	CornerOffsetYMm float64 `json:"corner_offset_y_mm"`
}

// Validate rejects measurements no ruler can produce. Offsets may be
// negative (drift toward the edge) but must be finite.
func (m Measurement) Validate() error {
	if !(m.HorizontalMm > 0) || math.IsInf(m.HorizontalMm, 0) {
		return template.NewFieldError("horizontal_mm", m.HorizontalMm, "must be a positive length")
	}
	if !(m.VerticalMm > 0) || math.IsInf(m.VerticalMm, 0) {
		return template.NewFieldError("vertical_mm", m.VerticalMm, "must be a positive length")
	}
	if math.IsNaN(m.CornerOffsetXMm) || math.IsInf(m.CornerOffsetXMm, 0) {
		return template.NewFieldError("corner_offset_x_mm", m.CornerOffsetXMm, "must be a finite offset")
	}
	if math.IsNaN(m.CornerOffsetYMm) || math.IsInf(m.CornerOffsetYMm, 0) {
		return template.NewFieldError("corner_offset_y_mm", m.CornerOffsetYMm, "must be a finite offset")
	}
	return nil
}

// Override is the persisted correction for one (station, profile) pair.
type Override struct {
	StationID string    `json:"station_id"`
	ProfileID string    `json:"profile_id"`
	ScaleX    float64   `json:"scale_x"`
	ScaleY    float64   `json:"scale_y"`
	OffsetXMm float64   `json:"offset_x_mm"`
	OffsetYMm float64   `json:"offset_y_mm"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// Identity is the no-correction override applied when a station has never
// been calibrated.
func Identity(stationID, profileID string) Override {
	return Override{StationID: stationID, ProfileID: profileID, ScaleX: 1, ScaleY: 1}
}

// ApplyPoint maps a nominal position to the corrected one, in mm. The
// result still passes through grid snapping, so corrected geometry stays
// dot-exact.
func (o Override) ApplyPoint(xMm, yMm float64) (float64, float64) {
	return xMm*o.ScaleX + o.OffsetXMm, yMm*o.ScaleY + o.OffsetYMm
}

// ApplySize scales an extent. Offsets shift the origin only; applying them
// to widths would grow every element by the corner drift.
func (o Override) ApplySize(wMm, hMm float64) (float64, float64) {
	return wMm * o.ScaleX, hMm * o.ScaleY
}

// Compute derives the override for a measurement against the expected ruler
// geometry. The measurement is validated, never rejected for magnitude:
// scaling factors and offsets clamp to their bounds instead.
func Compute(stationID, profileID string, exp Expected, m Measurement) (Override, error) {
	if err := m.Validate(); err != nil {
		return Override{}, err
	}
	if !(exp.HorizontalMm > 0) {
		return Override{}, template.NewFieldError("expected.horizontal_mm", exp.HorizontalMm, "must be a positive length")
	}
	if !(exp.VerticalMm > 0) {
		return Override{}, template.NewFieldError("expected.vertical_mm", exp.VerticalMm, "must be a positive length")
	}
	return Override{
		StationID: stationID,
		ProfileID: profileID,
		ScaleX:    clamp(m.HorizontalMm/exp.HorizontalMm, MinScale, MaxScale),
		ScaleY:    clamp(m.VerticalMm/exp.VerticalMm, MinScale, MaxScale),
		OffsetXMm: clamp(m.CornerOffsetXMm, -MaxOffsetMm, MaxOffsetMm),
		OffsetYMm: clamp(m.CornerOffsetYMm, -MaxOffsetMm, MaxOffsetMm),
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Store persists overrides keyed by (station, profile). Put upserts;
// concurrent calibrations of the same station race on last write wins.
type Store interface {
	Put(ctx context.Context, o Override) error
	Get(ctx context.Context, stationID, profileID string) (Override, bool, error)
	List(ctx context.Context) ([]Override, error)
	Delete(ctx context.Context, stationID, profileID string) error
}
