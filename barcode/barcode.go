// Package barcode holds the per-symbology print constraints used to judge
// whether a placed barcode element can still be scanned. The constraints are
// lookup constants, not measurements: rendering the symbol itself is someone
// else's job, this package only answers "how small is too small".
package barcode

import (
	"sort"
	"strings"
)

// Spec is the scan-safety floor for one symbology.
type Spec struct {
	// Symbology is the canonical lowercase name.
	Symbology string

	// MinHeightMm is the shortest bar (or 2D side) a handheld scanner
	// reads reliably.
	MinHeightMm float64

	// MinQuietZoneMm is the blank margin required around the symbol.
	MinQuietZoneMm float64

	// MinModuleDots is the narrowest element in printer dots below which
	// thermal heads bleed adjacent bars together.
	MinModuleDots int
}

// specs follows GS1 general specification floors where one exists and the
// common thermal-printing rule of thumb (two dots per module, three for
// retail point-of-sale symbols) where it does not.
var specs = map[string]Spec{
	"code128":    {Symbology: "code128", MinHeightMm: 6.35, MinQuietZoneMm: 2.54, MinModuleDots: 2},
	"code39":     {Symbology: "code39", MinHeightMm: 6.35, MinQuietZoneMm: 2.54, MinModuleDots: 2},
	"ean13":      {Symbology: "ean13", MinHeightMm: 18.28, MinQuietZoneMm: 3.63, MinModuleDots: 3},
	"ean8":       {Symbology: "ean8", MinHeightMm: 14.58, MinQuietZoneMm: 2.31, MinModuleDots: 3},
	"upca":       {Symbology: "upca", MinHeightMm: 18.28, MinQuietZoneMm: 2.97, MinModuleDots: 3},
	"itf":        {Symbology: "itf", MinHeightMm: 12.7, MinQuietZoneMm: 5.08, MinModuleDots: 2},
	"qr":         {Symbology: "qr", MinHeightMm: 10.0, MinQuietZoneMm: 1.0, MinModuleDots: 2},
	"datamatrix": {Symbology: "datamatrix", MinHeightMm: 8.0, MinQuietZoneMm: 1.0, MinModuleDots: 2},
}

// SpecFor looks up the constraints for a symbology name. Names are matched
// case-insensitively with separators stripped, so "Code-128" and "code128"
// resolve to the same entry.
func SpecFor(symbology string) (Spec, bool) {
	s, ok := specs[Normalize(symbology)]
	return s, ok
}

// MinimumHeightMm is a convenience for the most commonly consulted floor.
func MinimumHeightMm(symbology string) (float64, bool) {
	s, ok := SpecFor(symbology)
	return s.MinHeightMm, ok
}

// Normalize maps a user-entered symbology name to its canonical table key.
func Normalize(symbology string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(symbology)) {
		switch r {
		case '-', '_', ' ', '.':
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Known lists the supported symbology names, sorted.
func Known() []string {
	names := make([]string, 0, len(specs))
	for name := range specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
