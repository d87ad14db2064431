package layout

import (
	"math"
	"testing"
)

// TestDotsRoundTrip verifies MmToDots(DotsToMm(n)) == n for whole dots at
// several printer resolutions.
func TestDotsRoundTrip(t *testing.T) {
	for _, dpi := range []int{152, 203, 300, 600} {
		g := NewGrid(dpi)
		for _, n := range []int{0, 1, 2, 3, 7, 29, 118, 300, 1063, 4096} {
			mm := g.DotsToMm(n)
			if back := g.MmToDots(mm); back != n {
				t.Fatalf("dpi=%d: round trip %d dots -> %gmm -> %d dots", dpi, n, mm, back)
			}
		}
	}
}

// TestMmToDotsWithinHalfDot checks the converter's accuracy contract:
// converting back never moves a coordinate by more than half a dot.
func TestMmToDotsWithinHalfDot(t *testing.T) {
	g := NewGrid(300)
	half := g.HalfDotMm()
	for _, mm := range []float64{0, 0.01, 0.042, 1, 2.5, 28.999, 50, 89.958} {
		dots := g.MmToDots(mm)
		back := g.DotsToMm(dots)
		if diff := math.Abs(back - mm); diff > half+1e-12 {
			t.Fatalf("mm=%g: |%g - %g| = %g exceeds half dot %g", mm, back, mm, diff, half)
		}
	}
}

// TestMmToDotsMonotonic samples a fine sweep and asserts the conversion
// never decreases as mm grows.
func TestMmToDotsMonotonic(t *testing.T) {
	g := NewGrid(203)
	prev := g.MmToDots(0)
	for i := 1; i <= 2000; i++ {
		mm := float64(i) * 0.013
		dots := g.MmToDots(mm)
		if dots < prev {
			t.Fatalf("MmToDots not monotonic at mm=%g: %d < %d", mm, dots, prev)
		}
		prev = dots
	}
}

// TestSnapMmIdempotent snapping an already snapped position is a no-op.
func TestSnapMmIdempotent(t *testing.T) {
	g := NewGrid(300)
	for _, x := range []float64{0, 0.02, 0.5, 1.27, 3.14159, 10, 29.3, 88.9} {
		once := g.SnapMm(x)
		twice := g.SnapMm(once)
		if once != twice {
			t.Fatalf("SnapMm not idempotent at %g: %g then %g", x, once, twice)
		}
		if diff := math.Abs(once - x); diff > g.HalfDotMm()+1e-12 {
			t.Fatalf("SnapMm moved %g by %g, more than half a dot", x, diff)
		}
	}
}

// TestSnapSizeMmBias sizes snap half-up and positive extents never collapse
// to zero.
func TestSnapSizeMmBias(t *testing.T) {
	g := NewGrid(300)
	dot := g.DotMm()

	// Exactly half a dot rounds up to a whole dot.
	if got := g.SnapSizeMm(dot / 2); math.Abs(got-dot) > 1e-12 {
		t.Fatalf("half-dot size snapped to %g, want %g", got, dot)
	}
	// A sliver of a size still produces one dot.
	if got := g.SnapSizeMm(dot / 10); math.Abs(got-dot) > 1e-12 {
		t.Fatalf("sliver size snapped to %g, want one dot %g", got, dot)
	}
	// Snapped sizes are fixed points.
	for _, w := range []float64{0.1, 0.2, 1, 5.5, 12.7, 40} {
		s := g.SnapSizeMm(w)
		if again := g.SnapSizeMm(s); math.Abs(again-s) > 1e-12 {
			t.Fatalf("SnapSizeMm not a fixed point at %g: %g then %g", w, s, again)
		}
		// Never shorter than nominal by more than half a dot.
		if s < w-g.HalfDotMm()-1e-12 {
			t.Fatalf("snapped size %g shortens nominal %g by more than half a dot", s, w)
		}
	}
}

// TestModuleFixedPoint ModuleMmFromDesired output is its own fixed point and
// stays within half a dot of the desired width.
func TestModuleFixedPoint(t *testing.T) {
	for _, dpi := range []int{203, 300, 600} {
		g := NewGrid(dpi)
		for _, desired := range []float64{0.02, 0.1, 0.25, 0.33, 0.5, 1.0} {
			m := g.ModuleMmFromDesired(desired)
			if again := g.ModuleMmFromDesired(m); math.Abs(again-m) > 1e-12 {
				t.Fatalf("dpi=%d desired=%g: module %g is not a fixed point (%g)", dpi, desired, m, again)
			}
			if diff := math.Abs(m - desired); diff > g.HalfDotMm()+1e-12 {
				t.Fatalf("dpi=%d desired=%g: module %g off by %g, more than half a dot", dpi, desired, m, diff)
			}
		}
	}
}

// TestQuietZoneSnap quiet zones land on the grid like modules do.
func TestQuietZoneSnap(t *testing.T) {
	g := NewGrid(300)
	for _, desired := range []float64{1.0, 2.0, 2.54, 3.3} {
		q := g.QuietZoneMmFromDesired(desired)
		dots := q / g.DotMm()
		if math.Abs(dots-math.Round(dots)) > 1e-9 {
			t.Fatalf("quiet zone %g is not a whole number of dots (%g)", q, dots)
		}
	}
}

// TestPtPerDot spot-checks the font quantization increment.
func TestPtPerDot(t *testing.T) {
	if got := NewGrid(300).PtPerDot(); math.Abs(got-0.24) > 1e-12 {
		t.Fatalf("300dpi PtPerDot = %g, want 0.24", got)
	}
	if got := NewGrid(72).PtPerDot(); math.Abs(got-1.0) > 1e-12 {
		t.Fatalf("72dpi PtPerDot = %g, want 1", got)
	}
}
