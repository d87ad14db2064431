// Package template defines the label template value objects consumed by the
// layout engine: printer profiles, placeable elements and the layout that
// groups them. Templates are authored elsewhere (design surface, JSON files)
// and are read-only here.
package template

// ElementType identifies what an element paints.
type ElementType string

const (
	ElementText    ElementType = "text"
	ElementBarcode ElementType = "barcode"
	ElementImage   ElementType = "image"
	ElementBox     ElementType = "box"
)

// OverflowMode selects how text behaves when it does not fit its box.
type OverflowMode string

const (
	OverflowShrinkToFit OverflowMode = "shrink_to_fit"
	OverflowWrapLines   OverflowMode = "wrap_lines"
	OverflowEllipsis    OverflowMode = "ellipsis"
)

// PrinterProfile describes one physical label stock. It defines the
// coordinate universe (mm) and the dot grid (dpi) for every template that
// targets it. Immutable once referenced by a layout.
type PrinterProfile struct {
	ID         string  `json:"id"`
	WidthMm    float64 `json:"width_mm"`
	HeightMm   float64 `json:"height_mm"`
	DPI        int     `json:"dpi"`
	MarginMm   float64 `json:"margin_mm"`
	Background string  `json:"background,omitempty"` // #rgb/#rrggbb, empty = white
}

// Style carries text presentation. Size is in points; geometry stays mm.
type Style struct {
	Font   string  `json:"font,omitempty"`
	SizePt float64 `json:"size_pt,omitempty"`
	Weight string  `json:"weight,omitempty"` // regular/medium/bold
	Align  string  `json:"align,omitempty"`  // left/center/right
}

// Overflow is the per-element text fitting policy.
type Overflow struct {
	Mode          OverflowMode `json:"mode,omitempty"`
	MinFontSizePt float64      `json:"min_font_size_pt,omitempty"`
	MaxLines      int          `json:"max_lines,omitempty"`
}

// Barcode holds the symbology parameters of a barcode element. The symbol
// itself is painted by an external renderer; this engine only sizes it.
type Barcode struct {
	Symbology     string  `json:"symbology"`
	ModuleWidthMm float64 `json:"module_width_mm,omitempty"`
	QuietZoneMm   float64 `json:"quiet_zone_mm,omitempty"`
}

// Image references a raster asset placed on the label.
type Image struct {
	Src string `json:"src"`
	Fit string `json:"fit,omitempty"` // contain/stretch
}

// Box is a plain rectangle, stroked and optionally filled.
type Box struct {
	StrokeWidthMm float64 `json:"stroke_width_mm,omitempty"`
	Fill          string  `json:"fill,omitempty"`
}

// Element is one placeable unit on a label. Position and extent are in mm,
// measured from the label's top-left corner. The id is stable within an
// editing session but not globally unique across templates.
type Element struct {
	ID   string      `json:"id"`
	Type ElementType `json:"type"`

	XMm float64 `json:"x_mm"`
	YMm float64 `json:"y_mm"`
	WMm float64 `json:"w_mm"`
	HMm float64 `json:"h_mm"`

	// Text holds static content; Bind, when set, is resolved against a data
	// record at render time and wins over Text.
	Text string `json:"text,omitempty"`
	Bind string `json:"bind,omitempty"`

	Style    *Style    `json:"style,omitempty"`
	Overflow *Overflow `json:"overflow,omitempty"`
	Barcode  *Barcode  `json:"barcode,omitempty"`
	Image    *Image    `json:"image,omitempty"`
	Box      *Box      `json:"box,omitempty"`
}

// Layout is a complete label template: profile metadata plus an ordered
// element list. Element order is paint order (later elements draw on top).
type Layout struct {
	Meta     PrinterProfile `json:"meta"`
	Elements []Element      `json:"elements"`
}

// Clone returns a deep copy. Resolvers work on copies so the input layout is
// never mutated.
func (l *Layout) Clone() *Layout {
	out := &Layout{Meta: l.Meta, Elements: make([]Element, len(l.Elements))}
	for i, el := range l.Elements {
		copied := el
		if el.Style != nil {
			s := *el.Style
			copied.Style = &s
		}
		if el.Overflow != nil {
			o := *el.Overflow
			copied.Overflow = &o
		}
		if el.Barcode != nil {
			b := *el.Barcode
			copied.Barcode = &b
		}
		if el.Image != nil {
			img := *el.Image
			copied.Image = &img
		}
		if el.Box != nil {
			bx := *el.Box
			copied.Box = &bx
		}
		out.Elements[i] = copied
	}
	return out
}
