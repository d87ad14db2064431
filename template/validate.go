package template

import (
	"fmt"
	"math"
)

// DPI sanity window. Thermal and label printers live between 152 and 600;
// the window is wider so office printers and test fixtures still pass.
const (
	MinDPI = 72
	MaxDPI = 1200
)

// Validate reports the first hard failure in the profile, or nil.
func (p PrinterProfile) Validate() error {
	if !(p.WidthMm > 0) || math.IsInf(p.WidthMm, 0) {
		return NewFieldError("width_mm", p.WidthMm, "must be a positive finite length")
	}
	if !(p.HeightMm > 0) || math.IsInf(p.HeightMm, 0) {
		return NewFieldError("height_mm", p.HeightMm, "must be a positive finite length")
	}
	if p.DPI < MinDPI || p.DPI > MaxDPI {
		return NewFieldError("dpi", p.DPI, fmt.Sprintf("must be between %d and %d", MinDPI, MaxDPI))
	}
	if p.MarginMm < 0 || math.IsNaN(p.MarginMm) || math.IsInf(p.MarginMm, 0) {
		return NewFieldError("margin_mm", p.MarginMm, "must be a non-negative finite length")
	}
	if 2*p.MarginMm >= p.WidthMm || 2*p.MarginMm >= p.HeightMm {
		return NewFieldError("margin_mm", p.MarginMm, "leaves no printable area")
	}
	if p.Background != "" {
		if _, err := ParseColor(p.Background); err != nil {
			return NewFieldError("background", p.Background, "unparseable color")
		}
	}
	return nil
}

// Validate reports the first hard failure in the element, or nil.
func (e Element) Validate() error {
	switch e.Type {
	case ElementText, ElementBarcode, ElementImage, ElementBox:
	default:
		return NewFieldError("type", string(e.Type), "unknown element type")
	}
	if e.XMm < 0 || math.IsNaN(e.XMm) {
		return NewFieldError("x_mm", e.XMm, "must be >= 0")
	}
	if e.YMm < 0 || math.IsNaN(e.YMm) {
		return NewFieldError("y_mm", e.YMm, "must be >= 0")
	}
	if !(e.WMm > 0) || math.IsInf(e.WMm, 0) {
		return NewFieldError("w_mm", e.WMm, "must be a positive finite length")
	}
	if !(e.HMm > 0) || math.IsInf(e.HMm, 0) {
		return NewFieldError("h_mm", e.HMm, "must be a positive finite length")
	}
	switch e.Type {
	case ElementText:
		if e.Style != nil && e.Style.SizePt < 0 {
			return NewFieldError("style.size_pt", e.Style.SizePt, "must be >= 0")
		}
		if e.Overflow != nil {
			if e.Overflow.MinFontSizePt < 0 {
				return NewFieldError("overflow.min_font_size_pt", e.Overflow.MinFontSizePt, "must be >= 0")
			}
			if e.Overflow.MaxLines < 0 {
				return NewFieldError("overflow.max_lines", e.Overflow.MaxLines, "must be >= 0")
			}
		}
	case ElementBarcode:
		if e.Barcode == nil || e.Barcode.Symbology == "" {
			return NewFieldError("barcode.symbology", "", "barcode element requires a symbology")
		}
		if e.Barcode.ModuleWidthMm < 0 {
			return NewFieldError("barcode.module_width_mm", e.Barcode.ModuleWidthMm, "must be >= 0")
		}
		if e.Barcode.QuietZoneMm < 0 {
			return NewFieldError("barcode.quiet_zone_mm", e.Barcode.QuietZoneMm, "must be >= 0")
		}
	case ElementImage:
		if e.Image == nil || e.Image.Src == "" {
			return NewFieldError("image.src", "", "image element requires a src")
		}
	case ElementBox:
		if e.Box != nil && e.Box.Fill != "" {
			if _, err := ParseColor(e.Box.Fill); err != nil {
				return NewFieldError("box.fill", e.Box.Fill, "unparseable color")
			}
		}
	}
	return nil
}

// Validate reports the first hard failure in the layout, or nil. Element
// errors are prefixed with the element id so the offending field is
// addressable from the design surface.
func (l *Layout) Validate() error {
	if l == nil {
		return fmt.Errorf("template: layout is nil")
	}
	if err := l.Meta.Validate(); err != nil {
		return fmt.Errorf("meta: %w", err)
	}
	for i, el := range l.Elements {
		if err := el.Validate(); err != nil {
			id := el.ID
			if id == "" {
				id = fmt.Sprintf("#%d", i)
			}
			return fmt.Errorf("element %s: %w", id, err)
		}
	}
	return nil
}
