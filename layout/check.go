package layout

import (
	"fmt"
	"math"

	"github.com/spoolworks/labelpress/barcode"
	"github.com/spoolworks/labelpress/binding"
	"github.com/spoolworks/labelpress/template"
)

// Severity grades a finding. Advisory findings describe reduced print
// fidelity the designer may consciously accept; blocking findings describe
// layouts that cannot render at all. Nothing here stops a save either way,
// the caller decides what to do with the list.
type Severity string

const (
	SeverityAdvisory Severity = "advisory"
	SeverityBlocking Severity = "blocking"
)

// Finding is one checker observation about a layout.
type Finding struct {
	Severity  Severity `json:"severity"`
	Code      string   `json:"code"`
	ElementID string   `json:"element_id,omitempty"`
	Field     string   `json:"field,omitempty"`
	Message   string   `json:"message"`
}

// Finding codes emitted by Check.
const (
	CodeProfile            = "profile"
	CodeElement            = "element"
	CodeOffCanvas          = "off_canvas"
	CodeInMargin           = "in_margin"
	CodeOffGrid            = "off_grid"
	CodeEmptyText          = "empty_text"
	CodeFontSize           = "font_size"
	CodeBindExpr           = "bind_expr"
	CodeBarcodeSymbology   = "barcode_symbology"
	CodeBarcodeHeight      = "barcode_height"
	CodeBarcodeModule      = "barcode_module"
	CodeBarcodeModuleWidth = "barcode_module_narrow"
	CodeBarcodeQuietZone   = "barcode_quiet_zone"
)

// snapEpsilonMm is the drift below which geometry counts as on-grid.
// Well under any dot size, well over float noise.
const snapEpsilonMm = 0.001

// Check inspects a layout against its profile's dot grid and reports every
// deviation it can find. It never mutates the layout and never fails: a
// structurally broken input becomes a blocking finding, everything else is
// advisory. Findings come out in element order so repeated runs compare
// byte-for-byte.
func Check(l *template.Layout) []Finding {
	var findings []Finding

	if err := l.Meta.Validate(); err != nil {
		return append(findings, Finding{
			Severity: SeverityBlocking,
			Code:     CodeProfile,
			Message:  err.Error(),
		})
	}
	grid := NewGrid(l.Meta.DPI)

	for i := range l.Elements {
		el := &l.Elements[i]
		if err := el.Validate(); err != nil {
			findings = append(findings, Finding{
				Severity:  SeverityBlocking,
				Code:      CodeElement,
				ElementID: el.ID,
				Message:   err.Error(),
			})
			continue
		}
		findings = append(findings, checkBounds(l.Meta, el)...)
		findings = append(findings, checkGrid(grid, el)...)
		switch el.Type {
		case template.ElementText:
			findings = append(findings, checkText(el)...)
		case template.ElementBarcode:
			findings = append(findings, checkBarcode(grid, el)...)
		}
	}
	return findings
}

// HasBlocking reports whether any finding makes the layout unrenderable.
func HasBlocking(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityBlocking {
			return true
		}
	}
	return false
}

func checkBounds(profile template.PrinterProfile, el *template.Element) []Finding {
	var findings []Finding
	if el.XMm < 0 || el.YMm < 0 ||
		el.XMm+el.WMm > profile.WidthMm+snapEpsilonMm ||
		el.YMm+el.HMm > profile.HeightMm+snapEpsilonMm {
		return append(findings, Finding{
			Severity:  SeverityAdvisory,
			Code:      CodeOffCanvas,
			ElementID: el.ID,
			Message: fmt.Sprintf("element extends outside the %gx%gmm stock",
				profile.WidthMm, profile.HeightMm),
		})
	}
	if m := profile.MarginMm; m > 0 {
		if el.XMm < m-snapEpsilonMm || el.YMm < m-snapEpsilonMm ||
			el.XMm+el.WMm > profile.WidthMm-m+snapEpsilonMm ||
			el.YMm+el.HMm > profile.HeightMm-m+snapEpsilonMm {
			findings = append(findings, Finding{
				Severity:  SeverityAdvisory,
				Code:      CodeInMargin,
				ElementID: el.ID,
				Message:   fmt.Sprintf("element enters the %gmm print margin", m),
			})
		}
	}
	return findings
}

func checkGrid(grid Grid, el *template.Element) []Finding {
	var findings []Finding
	offGrid := func(field string, raw, snapped float64) {
		if math.Abs(raw-snapped) <= snapEpsilonMm {
			return
		}
		findings = append(findings, Finding{
			Severity:  SeverityAdvisory,
			Code:      CodeOffGrid,
			ElementID: el.ID,
			Field:     field,
			Message: fmt.Sprintf("%s=%gmm is not dot-aligned at %ddpi (nearest %gmm)",
				field, raw, grid.DPI(), snapped),
		})
	}
	offGrid("x_mm", el.XMm, grid.SnapMm(el.XMm))
	offGrid("y_mm", el.YMm, grid.SnapMm(el.YMm))
	offGrid("w_mm", el.WMm, grid.SnapSizeMm(el.WMm))
	offGrid("h_mm", el.HMm, grid.SnapSizeMm(el.HMm))
	return findings
}

func checkText(el *template.Element) []Finding {
	var findings []Finding
	if el.Text == "" && el.Bind == "" {
		findings = append(findings, Finding{
			Severity:  SeverityAdvisory,
			Code:      CodeEmptyText,
			ElementID: el.ID,
			Message:   "text element has neither static text nor a bind expression",
		})
	}
	if el.Bind != "" {
		if _, err := binding.Parse(el.Bind); err != nil {
			findings = append(findings, Finding{
				Severity:  SeverityBlocking,
				Code:      CodeBindExpr,
				ElementID: el.ID,
				Field:     "bind",
				Message:   err.Error(),
			})
		}
	}
	if el.Style != nil && el.Overflow != nil &&
		el.Style.SizePt > 0 && el.Overflow.MinFontSizePt > el.Style.SizePt {
		findings = append(findings, Finding{
			Severity:  SeverityAdvisory,
			Code:      CodeFontSize,
			ElementID: el.ID,
			Field:     "min_font_size_pt",
			Message: fmt.Sprintf("minimum font size %gpt exceeds the element's %gpt",
				el.Overflow.MinFontSizePt, el.Style.SizePt),
		})
	}
	return findings
}

func checkBarcode(grid Grid, el *template.Element) []Finding {
	var findings []Finding
	spec, known := barcode.SpecFor(el.Barcode.Symbology)
	if !known {
		return append(findings, Finding{
			Severity:  SeverityBlocking,
			Code:      CodeBarcodeSymbology,
			ElementID: el.ID,
			Field:     "symbology",
			Message:   fmt.Sprintf("unknown symbology %q", el.Barcode.Symbology),
		})
	}
	if el.HMm < spec.MinHeightMm-snapEpsilonMm {
		findings = append(findings, Finding{
			Severity:  SeverityAdvisory,
			Code:      CodeBarcodeHeight,
			ElementID: el.ID,
			Field:     "h_mm",
			Message: fmt.Sprintf("%gmm is below the %gmm scan-safe minimum for %s",
				el.HMm, spec.MinHeightMm, spec.Symbology),
		})
	}
	if desired := el.Barcode.ModuleWidthMm; desired > 0 {
		exact := grid.ModuleMmFromDesired(desired)
		if math.Abs(desired-exact) > snapEpsilonMm {
			findings = append(findings, Finding{
				Severity:  SeverityAdvisory,
				Code:      CodeBarcodeModule,
				ElementID: el.ID,
				Field:     "module_width_mm",
				Message: fmt.Sprintf("%gmm falls between dots at %ddpi and will blur (nearest exact %gmm)",
					desired, grid.DPI(), exact),
			})
		}
		if minMm := float64(spec.MinModuleDots) * grid.DotMm(); exact < minMm-snapEpsilonMm {
			findings = append(findings, Finding{
				Severity:  SeverityAdvisory,
				Code:      CodeBarcodeModuleWidth,
				ElementID: el.ID,
				Field:     "module_width_mm",
				Message: fmt.Sprintf("module narrower than %d dots prints unreliably for %s",
					spec.MinModuleDots, spec.Symbology),
			})
		}
	}
	if quiet := el.Barcode.QuietZoneMm; quiet > 0 && quiet < spec.MinQuietZoneMm-snapEpsilonMm {
		findings = append(findings, Finding{
			Severity:  SeverityAdvisory,
			Code:      CodeBarcodeQuietZone,
			ElementID: el.ID,
			Field:     "quiet_zone_mm",
			Message: fmt.Sprintf("%gmm quiet zone is below the %gmm minimum for %s",
				quiet, spec.MinQuietZoneMm, spec.Symbology),
		})
	}
	return findings
}
