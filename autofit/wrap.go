package autofit

import (
	"math"
	"strings"
	"unicode/utf8"
)

// wrapText splits text into lines no wider than widthMm at sizePt. Breaks
// are greedy at whitespace boundaries; a single token wider than the box is
// split mid-token. Explicit newlines always break. Tokenization never
// consults the measurer, so the split is stable across metric providers
// that agree on widths.
func wrapText(m Measurer, text string, sizePt, widthMm float64) []string {
	limit := widthMm
	if limit <= 0 {
		limit = math.MaxFloat64
	}

	var lines []string
	var current strings.Builder
	currentWidth := 0.0

	emit := func(force bool) {
		if current.Len() == 0 {
			if force {
				lines = append(lines, "")
			}
			return
		}
		lines = append(lines, current.String())
		current.Reset()
		currentWidth = 0
	}
	push := func(chunk string, chunkWidth float64) {
		if currentWidth > 0 && currentWidth+chunkWidth > limit {
			emit(false)
		}
		current.WriteString(chunk)
		currentWidth += chunkWidth
	}

	for _, token := range tokenize(text) {
		if token == "\n" {
			emit(true)
			continue
		}
		tokenWidth := m.WidthMm(token, sizePt)
		if tokenWidth <= limit {
			push(token, tokenWidth)
			continue
		}
		for _, chunk := range splitToken(m, token, sizePt, limit) {
			push(chunk, m.WidthMm(chunk, sizePt))
		}
	}
	emit(lines == nil)
	return lines
}

// tokenize cuts text into newline markers, whitespace runs, and word runs.
// Carriage returns are dropped so CRLF input wraps like LF input.
func tokenize(text string) []string {
	var tokens []string
	var current strings.Builder
	currentIsSpace := false

	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for _, r := range text {
		switch r {
		case '\r':
			continue
		case '\n':
			flush()
			tokens = append(tokens, "\n")
		case ' ', '\t':
			if !currentIsSpace {
				flush()
			}
			currentIsSpace = true
			current.WriteRune(r)
		default:
			if currentIsSpace {
				flush()
			}
			currentIsSpace = false
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// splitToken chops one oversized token into chunks that each fit limit. At
// least one rune goes into every chunk, so splitting always terminates even
// when a single glyph is wider than the box.
func splitToken(m Measurer, token string, sizePt, limit float64) []string {
	var parts []string
	var current strings.Builder
	for _, r := range token {
		current.WriteRune(r)
		if m.WidthMm(current.String(), sizePt) > limit && utf8.RuneCountInString(current.String()) > 1 {
			s := current.String()
			_, size := utf8.DecodeLastRuneInString(s)
			parts = append(parts, s[:len(s)-size])
			current.Reset()
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
