package calibration

import (
	"fmt"
	"math"

	"github.com/spoolworks/labelpress/template"
)

// Sheet is a printable calibration reference: a regular layout carrying two
// rulers and four corner targets, plus the nominal ruler lengths an operator
// compares the print against. Because it is an ordinary layout it rides the
// same resolve and render path as production labels, so it inherits the
// station's current drift exactly.
type Sheet struct {
	Expected Expected
	Layout   *template.Layout
}

const (
	targetMm    = 2.0
	rulerBarMm  = 1.2
	tickMm      = 0.4
	tickLenMm   = 2.4
	labelPt     = 6.0
	minRulerMm  = 10.0
	rulerStepMm = 5.0
)

// BuildSheet lays out the calibration sheet for a profile. Rulers default
// to 50mm horizontal and 20mm vertical and shrink in 5mm steps on stocks
// too small to hold them; a stock that cannot fit even a 10mm ruler cannot
// be calibrated.
func BuildSheet(profile template.PrinterProfile) (Sheet, error) {
	if err := profile.Validate(); err != nil {
		return Sheet{}, err
	}
	inset := profile.MarginMm
	if inset < 1 {
		inset = 1
	}
	usableW := profile.WidthMm - 2*inset
	usableH := profile.HeightMm - 2*inset

	expH := rulerLength(usableW, DefaultExpectedHorizontalMm)
	// The vertical ruler sits below the horizontal one and its label and
	// must clear the bottom corner targets.
	expV := rulerLength(usableH-14.5, DefaultExpectedVerticalMm)
	if expH <= 0 || expV <= 0 {
		return Sheet{}, fmt.Errorf("calibration: profile %s (%gx%gmm) is too small for reference rulers", profile.ID, profile.WidthMm, profile.HeightMm)
	}

	ink := "#000000"
	right := profile.WidthMm - inset - targetMm
	bottom := profile.HeightMm - inset - targetMm

	box := func(id string, x, y, w, h float64) template.Element {
		return template.Element{
			ID: id, Type: template.ElementBox,
			XMm: x, YMm: y, WMm: w, HMm: h,
			Box: &template.Box{Fill: ink},
		}
	}
	label := func(id, text string, x, y, w float64) template.Element {
		return template.Element{
			ID: id, Type: template.ElementText,
			XMm: x, YMm: y, WMm: w, HMm: 3.5,
			Text:  text,
			Style: &template.Style{SizePt: labelPt},
		}
	}

	layout := &template.Layout{
		Meta: profile,
		Elements: []template.Element{
			box("cal-target-tl", inset, inset, targetMm, targetMm),
			box("cal-target-tr", right, inset, targetMm, targetMm),
			box("cal-target-bl", inset, bottom, targetMm, targetMm),
			box("cal-target-br", right, bottom, targetMm, targetMm),

			box("cal-ruler-h", inset, inset+4, expH, rulerBarMm),
			box("cal-ruler-h-tick-l", inset, inset+5.4, tickMm, tickLenMm),
			box("cal-ruler-h-tick-r", inset+expH-tickMm, inset+5.4, tickMm, tickLenMm),
			label("cal-label-h", fmt.Sprintf("H %.0f MM", expH), inset, inset+8.2, usableW),

			box("cal-ruler-v", inset, inset+12, rulerBarMm, expV),
			box("cal-ruler-v-tick-t", inset+1.6, inset+12, tickLenMm, tickMm),
			box("cal-ruler-v-tick-b", inset+1.6, inset+12+expV-tickMm, tickLenMm, tickMm),
			label("cal-label-v", fmt.Sprintf("V %.0f MM", expV), inset+4.5, inset+13, usableW-4.5),
		},
	}
	template.ApplyDefaults(layout)

	return Sheet{
		Expected: Expected{HorizontalMm: expH, VerticalMm: expV},
		Layout:   layout,
	}, nil
}

// rulerLength picks the longest 5mm multiple that fits in availableMm,
// capped at the nominal default. Rulers shorter than 10mm are useless for a
// caliper and report zero.
func rulerLength(availableMm, defaultMm float64) float64 {
	l := math.Floor(availableMm/rulerStepMm) * rulerStepMm
	if l > defaultMm {
		l = defaultMm
	}
	if l < minRulerMm {
		return 0
	}
	return l
}
