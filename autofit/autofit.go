// Package autofit picks the font size and line split at which text fits its
// box. The resolver must reach the same decision in an interactive preview
// and in an unattended print pipeline, so it is a pure function over an
// injected metrics provider: no clocks, no globals, no project imports.
// Identical inputs always produce an identical Result.
package autofit

import "math"

// Measurer provides deterministic text metrics for one font face. Both
// methods take the candidate size in points and answer in mm. The same
// Measurer implementation must back preview and print for parity to hold,
// which is why rendered artifacts embed their fonts instead of relying on
// system substitution.
type Measurer interface {
	WidthMm(text string, sizePt float64) float64
	LineHeightMm(sizePt float64) float64
}

// Mode selects the overflow policy.
type Mode string

const (
	ModeShrinkToFit Mode = "shrink_to_fit"
	ModeWrapLines   Mode = "wrap_lines"
	ModeEllipsis    Mode = "ellipsis"
)

// Iterations bounds the bisection. Seven halvings of a point-size bracket
// converge below the point-per-dot lattice step for every supported DPI.
const Iterations = 7

const ellipsis = "…"

// Box is the target extent in mm.
type Box struct {
	WMm float64
	HMm float64
}

// Options configures one resolution.
type Options struct {
	Mode Mode

	// SizePt is the fixed size for wrap_lines/ellipsis. Shrink uses the
	// [MinPt, MaxPt] bracket instead.
	SizePt float64
	MinPt  float64
	MaxPt  float64

	// MaxLines caps the line count; 0 means unlimited.
	MaxLines int

	// PtPerDot is the font-size lattice (72/dpi). Every returned size is a
	// multiple of it so glyphs rasterize on whole dots.
	PtPerDot float64

	// TolMm absorbs snapping oscillation in fit tests. Callers pass half a
	// dot.
	TolMm float64
}

// Result is the committed fitting decision.
type Result struct {
	SizePt    float64  `json:"size_pt"`
	Lines     []string `json:"lines"`
	Truncated bool     `json:"truncated,omitempty"`
}

// Resolve runs the overflow policy for text in box and commits a size and
// line split. It never fails: degenerate inputs fall through to the smallest
// expressible size rather than erroring, because a fitting decision is
// required wherever a label is painted.
func Resolve(m Measurer, box Box, text string, opts Options) Result {
	switch opts.Mode {
	case ModeWrapLines:
		return fixed(m, box, text, opts, false)
	case ModeEllipsis:
		return fixed(m, box, text, opts, true)
	default:
		return shrink(m, box, text, opts)
	}
}

// shrink bisects [MinPt, MaxPt] for the largest lattice-snapped size that
// fits. The bracket narrows on raw midpoints while trials are snapped, so
// the search cannot oscillate around a lattice boundary.
func shrink(m Measurer, box Box, text string, opts Options) Result {
	lo := opts.MinPt
	hi := opts.MaxPt
	if hi < lo {
		lo, hi = hi, lo
	}
	if hi <= 0 {
		hi = opts.SizePt
	}
	if hi <= 0 {
		hi = 12
	}
	if lo <= 0 {
		lo = math.Min(1, hi)
	}

	best := snapPt(lo, opts.PtPerDot)
	for i := 0; i < Iterations; i++ {
		mid := (lo + hi) / 2
		trial := snapPt(mid, opts.PtPerDot)
		if fits(m, box, text, trial, opts) {
			best = trial
			lo = mid
		} else {
			hi = mid
		}
	}

	lines := wrapText(m, text, best, box.WMm)
	truncated := false
	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		lines = lines[:opts.MaxLines]
		truncated = true
	}
	return Result{SizePt: best, Lines: lines, Truncated: truncated}
}

// fixed renders at the given size and only wraps/truncates.
func fixed(m Measurer, box Box, text string, opts Options, withEllipsis bool) Result {
	size := opts.SizePt
	if size <= 0 {
		size = opts.MaxPt
	}
	if size <= 0 {
		size = 12
	}
	size = snapPt(size, opts.PtPerDot)

	lines := wrapText(m, text, size, box.WMm)
	truncated := false
	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		lines = lines[:opts.MaxLines]
		truncated = true
		if withEllipsis && len(lines) > 0 {
			lines[len(lines)-1] = truncateWithEllipsis(m, lines[len(lines)-1], size, box.WMm)
		}
	}
	return Result{SizePt: size, Lines: lines, Truncated: truncated}
}

// fits wraps text at sizePt and tests the result against the box, allowing
// TolMm of slack in both axes.
func fits(m Measurer, box Box, text string, sizePt float64, opts Options) bool {
	lines := wrapText(m, text, sizePt, box.WMm)
	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		return false
	}
	for _, line := range lines {
		if m.WidthMm(line, sizePt) > box.WMm+opts.TolMm {
			return false
		}
	}
	height := float64(len(lines)) * m.LineHeightMm(sizePt)
	return height <= box.HMm+opts.TolMm
}

// truncateWithEllipsis trims line until it fits widthMm with a terminal
// ellipsis appended.
func truncateWithEllipsis(m Measurer, line string, sizePt, widthMm float64) string {
	if m.WidthMm(line+ellipsis, sizePt) <= widthMm {
		return line + ellipsis
	}
	runes := []rune(line)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := trimTrailingSpace(string(runes)) + ellipsis
		if m.WidthMm(candidate, sizePt) <= widthMm {
			return candidate
		}
	}
	return ellipsis
}

func trimTrailingSpace(s string) string {
	end := len(s)
	for end > 0 && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}
	return s[:end]
}

// snapPt snaps a candidate size to the nearest PtPerDot multiple, flooring
// at one increment so sizes stay positive.
func snapPt(pt, ptPerDot float64) float64 {
	if ptPerDot <= 0 {
		return pt
	}
	snapped := math.Round(pt/ptPerDot) * ptPerDot
	if snapped <= 0 {
		snapped = ptPerDot
	}
	return snapped
}
