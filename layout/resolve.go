package layout

import (
	"fmt"

	"github.com/spoolworks/labelpress/autofit"
	"github.com/spoolworks/labelpress/barcode"
	"github.com/spoolworks/labelpress/binding"
	"github.com/spoolworks/labelpress/calibration"
	"github.com/spoolworks/labelpress/fonts"
	"github.com/spoolworks/labelpress/template"
)

// DefaultFontSizePt is used when a text element's style names no size.
const DefaultFontSizePt = 10.0

// Measurer provides deterministic text metrics for a named face. The
// renderer that paints the plan must implement it over the same embedded
// fonts, otherwise the fitting decision here and the pixels there diverge.
type Measurer interface {
	WidthMm(face string, sizePt float64, text string) float64
	LineHeightMm(face string, sizePt float64) float64
}

// boundMeasurer fixes the face so the autofit resolver stays font-agnostic.
type boundMeasurer struct {
	m    Measurer
	face string
}

func (b boundMeasurer) WidthMm(text string, sizePt float64) float64 {
	return b.m.WidthMm(b.face, sizePt, text)
}

func (b boundMeasurer) LineHeightMm(sizePt float64) float64 {
	return b.m.LineHeightMm(b.face, sizePt)
}

// Resolve turns a template into a dot-exact plan for one station. The
// pipeline per element: resolve bound text, snap the nominal box to the dot
// grid, fit text inside the nominal box, apply the station's calibration,
// then convert to integer dots.
//
// Text is fitted before calibration on purpose: the fitting decision must be
// identical on every station, calibration only moves where the result lands.
// A zero Override means uncalibrated and is treated as identity.
//
// Checker findings ride along in the plan; only malformed input, unknown
// fonts/symbologies and failing bind expressions are hard errors.
func Resolve(l *template.Layout, rec binding.Record, o calibration.Override, m Measurer) (*Plan, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}
	if o.ScaleX == 0 && o.ScaleY == 0 {
		o = calibration.Identity(o.StationID, o.ProfileID)
	}

	grid := NewGrid(l.Meta.DPI)
	plan := &Plan{
		Profile:    l.Meta,
		StationID:  o.StationID,
		WidthDots:  grid.MmToDots(l.Meta.WidthMm),
		HeightDots: grid.MmToDots(l.Meta.HeightMm),
		DotMm:      grid.DotMm(),
		Elements:   make([]PlacedElement, 0, len(l.Elements)),
		Findings:   Check(l),
	}

	for i := range l.Elements {
		el := &l.Elements[i]
		placed, err := resolveElement(grid, rec, o, m, el, i)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", elementID(el, i), err)
		}
		plan.Elements = append(plan.Elements, placed)
	}
	return plan, nil
}

func resolveElement(grid Grid, rec binding.Record, o calibration.Override, m Measurer, el *template.Element, idx int) (PlacedElement, error) {
	// Snap the nominal box first so fitting sees the geometry that will
	// actually print.
	x := grid.SnapMm(el.XMm)
	y := grid.SnapMm(el.YMm)
	w := grid.SnapSizeMm(el.WMm)
	h := grid.SnapSizeMm(el.HMm)

	value, err := resolveValue(el, rec)
	if err != nil {
		return PlacedElement{}, err
	}

	placed := PlacedElement{ID: elementID(el, idx), Type: el.Type}

	switch el.Type {
	case template.ElementText:
		if m == nil {
			return PlacedElement{}, fmt.Errorf("text needs a measurer to fit")
		}
		style, overflow := textPolicy(el)
		face := fonts.Resolve(style.Font, style.Weight)
		if _, err := fonts.Load(face); err != nil {
			return PlacedElement{}, err
		}
		fit := autofit.Resolve(boundMeasurer{m: m, face: face}, autofit.Box{WMm: w, HMm: h}, value, autofit.Options{
			Mode:     autofit.Mode(overflow.Mode),
			SizePt:   style.SizePt,
			MinPt:    overflow.MinFontSizePt,
			MaxPt:    style.SizePt,
			MaxLines: overflow.MaxLines,
			PtPerDot: grid.PtPerDot(),
			TolMm:    grid.HalfDotMm(),
		})
		placed.Lines = fit.Lines
		placed.Font = face
		placed.FontSizePt = fit.SizePt
		placed.LineHeightDots = grid.MmToDots(m.LineHeightMm(face, fit.SizePt))
		placed.Align = style.Align
		if placed.Align == "" {
			placed.Align = "left"
		}
		placed.Truncated = fit.Truncated

	case template.ElementBarcode:
		if value == "" {
			return PlacedElement{}, fmt.Errorf("barcode needs static text or a bind expression for its value")
		}
		spec, known := barcode.SpecFor(el.Barcode.Symbology)
		if !known {
			return PlacedElement{}, fmt.Errorf("unknown symbology %q", el.Barcode.Symbology)
		}
		placed.Symbology = spec.Symbology
		placed.BarcodeValue = value

		moduleMm := el.Barcode.ModuleWidthMm
		if moduleMm <= 0 {
			moduleMm = float64(spec.MinModuleDots) * grid.DotMm()
		}
		placed.ModuleDots = grid.MmToDots(grid.ModuleMmFromDesired(moduleMm))
		if placed.ModuleDots < 1 {
			placed.ModuleDots = 1
		}
		quietMm := el.Barcode.QuietZoneMm
		if quietMm <= 0 {
			quietMm = spec.MinQuietZoneMm
		}
		placed.QuietZoneDots = grid.MmToDots(grid.QuietZoneMmFromDesired(quietMm))

	case template.ElementImage:
		placed.ImageSrc = el.Image.Src
		placed.ImageFit = el.Image.Fit
		if placed.ImageFit == "" {
			placed.ImageFit = "contain"
		}

	case template.ElementBox:
		if el.Box != nil {
			placed.StrokeDots = grid.MmToDots(el.Box.StrokeWidthMm)
			placed.Fill = el.Box.Fill
		}
	}

	// Calibration maps the nominal geometry onto this station's mechanics;
	// the final rounding keeps the corrected geometry dot-exact.
	cx, cy := o.ApplyPoint(x, y)
	cw, ch := o.ApplySize(w, h)
	placed.XDots = grid.MmToDots(cx)
	placed.YDots = grid.MmToDots(cy)
	placed.WDots = grid.MmToDots(cw)
	placed.HDots = grid.MmToDots(ch)

	return placed, nil
}

// resolveValue picks the element's content: a bind expression wins over
// static text.
func resolveValue(el *template.Element, rec binding.Record) (string, error) {
	if el.Bind == "" {
		return el.Text, nil
	}
	value, err := binding.Resolve(el.Bind, rec)
	if err != nil {
		return "", err
	}
	return value, nil
}

// textPolicy normalizes the optional style/overflow blocks to the same
// defaults the codec applies, so hand-built layouts resolve like decoded
// ones.
func textPolicy(el *template.Element) (template.Style, template.Overflow) {
	var style template.Style
	var overflow template.Overflow
	if el.Style != nil {
		style = *el.Style
	}
	if el.Overflow != nil {
		overflow = *el.Overflow
	}
	if style.SizePt <= 0 {
		style.SizePt = DefaultFontSizePt
	}
	if overflow.Mode == "" {
		overflow.Mode = template.OverflowShrinkToFit
	}
	if overflow.MinFontSizePt <= 0 {
		overflow.MinFontSizePt = template.DefaultMinFontSizePt
	}
	if overflow.MaxLines <= 0 {
		overflow.MaxLines = template.DefaultMaxLines
	}
	return style, overflow
}

func elementID(el *template.Element, idx int) string {
	if el.ID != "" {
		return el.ID
	}
	return fmt.Sprintf("el-%d", idx+1)
}
