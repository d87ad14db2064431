package layout

import (
	"encoding/json"
	"io"

	"github.com/spoolworks/labelpress/template"
)

// PlacedElement is one element after resolution: bound, fitted, calibrated
// and snapped. All geometry is integer printer dots; any engine that paints
// it reproduces the same pixels.
type PlacedElement struct {
	ID   string               `json:"id"`
	Type template.ElementType `json:"type"`

	XDots int `json:"x_dots"`
	YDots int `json:"y_dots"`
	WDots int `json:"w_dots"`
	HDots int `json:"h_dots"`

	// Text elements carry the committed fitting decision.
	Lines          []string `json:"lines,omitempty"`
	Font           string   `json:"font,omitempty"`
	FontSizePt     float64  `json:"font_size_pt,omitempty"`
	LineHeightDots int      `json:"line_height_dots,omitempty"`
	Align          string   `json:"align,omitempty"`
	Truncated      bool     `json:"truncated,omitempty"`

	// Barcode elements carry the value and dot-exact symbol geometry for
	// the external symbol renderer.
	Symbology     string `json:"symbology,omitempty"`
	BarcodeValue  string `json:"barcode_value,omitempty"`
	ModuleDots    int    `json:"module_dots,omitempty"`
	QuietZoneDots int    `json:"quiet_zone_dots,omitempty"`

	ImageSrc string `json:"image_src,omitempty"`
	ImageFit string `json:"image_fit,omitempty"`

	StrokeDots int    `json:"stroke_dots,omitempty"`
	Fill       string `json:"fill,omitempty"`
}

// Plan is a fully resolved layout: the geometry a renderer paints plus the
// checker findings observed on the way. Plans are self-describing so an
// unattended print pipeline needs no access to the original template.
type Plan struct {
	Profile    template.PrinterProfile `json:"profile"`
	StationID  string                  `json:"station_id,omitempty"`
	WidthDots  int                     `json:"width_dots"`
	HeightDots int                     `json:"height_dots"`
	DotMm      float64                 `json:"dot_mm"`

	Elements []PlacedElement `json:"elements"`
	Findings []Finding       `json:"findings,omitempty"`
}

// WritePlan emits the plan as indented JSON.
func WritePlan(w io.Writer, p *Plan) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(p)
}
