package autofit

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

// fixedMeasurer prices every rune at the same fraction of the font size, in
// mm. Glyph-independent widths keep the expected wrap points computable by
// hand.
type fixedMeasurer struct {
	runeFactor float64
	lineFactor float64
}

func (f fixedMeasurer) WidthMm(text string, sizePt float64) float64 {
	return float64(len([]rune(text))) * sizePt * f.runeFactor
}

func (f fixedMeasurer) LineHeightMm(sizePt float64) float64 {
	return sizePt * f.lineFactor
}

var stub = fixedMeasurer{runeFactor: 0.18, lineFactor: 0.42}

const (
	ptPerDot300 = 72.0 / 300.0
	halfDot300  = 25.4 / 300.0 / 2.0
)

func TestShrinkConverges(t *testing.T) {
	// One line of 10pt-ish height at 300 dpi, text too wide to fit at the
	// 12pt ceiling.
	box := Box{WMm: 30, HMm: 10 * 0.352777}
	opts := Options{
		Mode:     ModeShrinkToFit,
		MinPt:    6,
		MaxPt:    12,
		MaxLines: 1,
		PtPerDot: ptPerDot300,
		TolMm:    halfDot300,
	}
	res := Resolve(stub, box, "PRODUCT NAME EXAMPLE", opts)

	if math.Abs(res.SizePt-8.16) > 1e-9 {
		t.Fatalf("SizePt = %v, want 8.16", res.SizePt)
	}
	if len(res.Lines) != 1 || res.Truncated {
		t.Fatalf("Lines = %q truncated=%v, want one full line", res.Lines, res.Truncated)
	}
	steps := res.SizePt / ptPerDot300
	if math.Abs(steps-math.Round(steps)) > 1e-9 {
		t.Fatalf("SizePt %v is not a multiple of %v", res.SizePt, ptPerDot300)
	}
	if w := stub.WidthMm(res.Lines[0], res.SizePt); w > box.WMm+halfDot300 {
		t.Fatalf("committed line overflows: %vmm in %vmm box", w, box.WMm)
	}
	if h := stub.LineHeightMm(res.SizePt); h > box.HMm+halfDot300 {
		t.Fatalf("committed line too tall: %vmm in %vmm box", h, box.HMm)
	}
}

func TestShrinkIsDeterministic(t *testing.T) {
	box := Box{WMm: 30, HMm: 10 * 0.352777}
	opts := Options{
		Mode:     ModeShrinkToFit,
		MinPt:    6,
		MaxPt:    12,
		MaxLines: 1,
		PtPerDot: ptPerDot300,
		TolMm:    halfDot300,
	}
	first := Resolve(stub, box, "PRODUCT NAME EXAMPLE", opts)
	for i := 0; i < 50; i++ {
		if got := Resolve(stub, box, "PRODUCT NAME EXAMPLE", opts); !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, got, first)
		}
	}
}

func TestShrinkReachesCeilingWhenEverythingFits(t *testing.T) {
	opts := Options{
		Mode:     ModeShrinkToFit,
		MinPt:    6,
		MaxPt:    12,
		MaxLines: 1,
		PtPerDot: ptPerDot300,
		TolMm:    halfDot300,
	}
	res := Resolve(stub, Box{WMm: 100, HMm: 100}, "OK", opts)
	if math.Abs(res.SizePt-12) > 1e-9 {
		t.Fatalf("SizePt = %v, want the 12pt ceiling", res.SizePt)
	}
}

func TestShrinkStopsAtFloorAndTruncates(t *testing.T) {
	opts := Options{
		Mode:     ModeShrinkToFit,
		MinPt:    6,
		MaxPt:    12,
		MaxLines: 1,
		PtPerDot: ptPerDot300,
		TolMm:    halfDot300,
	}
	res := Resolve(stub, Box{WMm: 8, HMm: 3}, "FAR TOO LONG FOR THIS BOX", opts)
	if math.Abs(res.SizePt-6) > 1e-9 {
		t.Fatalf("SizePt = %v, want the 6pt floor", res.SizePt)
	}
	if !res.Truncated || len(res.Lines) != 1 {
		t.Fatalf("want a single truncated line, got %q truncated=%v", res.Lines, res.Truncated)
	}
}

func TestWrapLinesTruncatesAtMaxLines(t *testing.T) {
	opts := Options{
		Mode:     ModeWrapLines,
		SizePt:   9.6,
		MaxLines: 2,
		PtPerDot: ptPerDot300,
		TolMm:    halfDot300,
	}
	res := Resolve(stub, Box{WMm: 20, HMm: 100}, "ALPHA BETA GAMMA DELTA EPSILON", opts)
	if math.Abs(res.SizePt-9.6) > 1e-9 {
		t.Fatalf("SizePt = %v, want the fixed 9.6", res.SizePt)
	}
	want := []string{"ALPHA BETA ", "GAMMA DELTA"}
	if !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("Lines = %q, want %q", res.Lines, want)
	}
	if !res.Truncated {
		t.Fatal("dropped a line without reporting truncation")
	}
}

func TestEllipsisMarksTruncatedLine(t *testing.T) {
	opts := Options{
		Mode:     ModeEllipsis,
		SizePt:   9.6,
		MaxLines: 1,
		PtPerDot: ptPerDot300,
		TolMm:    halfDot300,
	}
	res := Resolve(stub, Box{WMm: 20, HMm: 100}, "ALPHA BETA GAMMA DELTA EPSILON", opts)
	if len(res.Lines) != 1 || !res.Truncated {
		t.Fatalf("want one truncated line, got %q truncated=%v", res.Lines, res.Truncated)
	}
	if !strings.HasSuffix(res.Lines[0], "…") {
		t.Fatalf("line %q does not end in an ellipsis", res.Lines[0])
	}
	if w := stub.WidthMm(res.Lines[0], res.SizePt); w > 20 {
		t.Fatalf("elided line still overflows: %vmm", w)
	}
}

func TestWrapHonorsExplicitNewlines(t *testing.T) {
	opts := Options{Mode: ModeWrapLines, SizePt: 9.6, PtPerDot: ptPerDot300}
	res := Resolve(stub, Box{WMm: 200, HMm: 200}, "FIRST\r\nSECOND", opts)
	want := []string{"FIRST", "SECOND"}
	if !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("Lines = %q, want %q", res.Lines, want)
	}
	if res.Truncated {
		t.Fatal("nothing was dropped, truncated must be false")
	}
}

func TestWrapSplitsOverlongToken(t *testing.T) {
	opts := Options{Mode: ModeWrapLines, SizePt: 9.6, PtPerDot: ptPerDot300}
	res := Resolve(stub, Box{WMm: 10, HMm: 200}, "ABCDEFGHIJKL", opts)
	want := []string{"ABCDE", "FGHIJ", "KL"}
	if !reflect.DeepEqual(res.Lines, want) {
		t.Fatalf("Lines = %q, want %q", res.Lines, want)
	}
	for _, line := range res.Lines {
		if w := stub.WidthMm(line, res.SizePt); w > 10 {
			t.Fatalf("chunk %q overflows: %vmm", line, w)
		}
	}
}

func TestEmptyTextKeepsOneLineSlot(t *testing.T) {
	opts := Options{
		Mode:     ModeShrinkToFit,
		MinPt:    6,
		MaxPt:    12,
		PtPerDot: ptPerDot300,
		TolMm:    halfDot300,
	}
	res := Resolve(stub, Box{WMm: 30, HMm: 30}, "", opts)
	if !reflect.DeepEqual(res.Lines, []string{""}) {
		t.Fatalf("Lines = %q, want a single empty line", res.Lines)
	}
	if math.Abs(res.SizePt-12) > 1e-9 {
		t.Fatalf("SizePt = %v, want 12", res.SizePt)
	}
}

func TestSnapPtFloorsAtOneIncrement(t *testing.T) {
	if got := snapPt(0.05, ptPerDot300); math.Abs(got-ptPerDot300) > 1e-9 {
		t.Fatalf("snapPt(0.05) = %v, want one lattice step %v", got, ptPerDot300)
	}
	if got := snapPt(7.5, 0); got != 7.5 {
		t.Fatalf("snapPt without a lattice = %v, want passthrough", got)
	}
}
