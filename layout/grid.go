package layout

import "math"

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm

	MmPerInch = 25.4
)

// Grid is the dot grid of one printer profile. A dot is the smallest
// addressable printed unit; every resolved coordinate must land on a dot
// boundary so edges do not blur across dots. All methods are pure.
type Grid struct {
	dpi int
}

// NewGrid builds the grid for a printer running at dpi dots per inch.
// Callers validate the DPI through the printer profile; the grid itself
// assumes a sane positive value.
func NewGrid(dpi int) Grid { return Grid{dpi: dpi} }

// DPI returns the grid's dots per inch.
func (g Grid) DPI() int { return g.dpi }

// DotMm returns the size of one dot in mm.
func (g Grid) DotMm() float64 { return MmPerInch / float64(g.dpi) }

// HalfDotMm is the tolerance used for "close enough to the grid" checks.
func (g Grid) HalfDotMm() float64 { return g.DotMm() / 2 }

// PtPerDot returns the font-size increment equal to one dot, in points.
// Font sizes quantized to this lattice rasterize without fractional dots.
func (g Grid) PtPerDot() float64 { return 72.0 / float64(g.dpi) }

// MmToDots converts mm to the nearest whole dot. Monotonic, and the inverse
// of DotsToMm within half a dot.
func (g Grid) MmToDots(mm float64) int {
	return int(math.Round(mm / g.DotMm()))
}

// DotsToMm converts a dot count back to mm.
func (g Grid) DotsToMm(dots int) float64 {
	return float64(dots) * g.DotMm()
}

// SnapMm rounds a position to the nearest dot multiple. Centered rounding:
// the snapped value may move in either direction but never by more than half
// a dot. Idempotent.
func (g Grid) SnapMm(x float64) float64 {
	dot := g.DotMm()
	return math.Round(x/dot) * dot
}

// SnapSizeMm rounds an extent to the dot grid with a half-up bias, so the
// snapped size is never shorter than the nominal size by more than half a
// dot. Positive extents are floored at one dot to keep geometry
// non-degenerate.
func (g Grid) SnapSizeMm(w float64) float64 {
	dot := g.DotMm()
	snapped := math.Floor(w/dot+0.5) * dot
	if snapped <= 0 && w > 0 {
		return dot
	}
	return snapped
}

// ModuleMmFromDesired returns the nearest dot-exact barcode module width.
// Module widths between dots blur on thermal heads; the checker flags
// modules that end up below the symbology minimum.
func (g Grid) ModuleMmFromDesired(desiredMm float64) float64 {
	dot := g.DotMm()
	return math.Round(desiredMm/dot) * dot
}

// QuietZoneMmFromDesired returns the nearest dot-exact quiet zone width.
func (g Grid) QuietZoneMmFromDesired(desiredMm float64) float64 {
	dot := g.DotMm()
	return math.Round(desiredMm/dot) * dot
}
