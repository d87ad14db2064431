package template

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// Fitting defaults applied by Decode when the authoring surface left the
// overflow policy (or parts of it) empty.
const (
	DefaultMinFontSizePt = 4.0
	DefaultMaxLines      = 1
)

// Decode reads a layout from JSON, fills element defaults and validates the
// hard-failure tier. Soft constraint findings are not produced here; see the
// layout package checker.
func Decode(r io.Reader) (*Layout, error) {
	var l Layout
	if err := json.NewDecoder(r).Decode(&l); err != nil {
		return nil, fmt.Errorf("template: decode: %w", err)
	}
	ApplyDefaults(&l)
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("template: %w", err)
	}
	return &l, nil
}

// Encode writes the layout as indented JSON.
func Encode(w io.Writer, l *Layout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("template: encode: %w", err)
	}
	return nil
}

// ApplyDefaults backfills missing element ids and normalizes the text
// fitting policy so downstream code never branches on nil/zero policy.
func ApplyDefaults(l *Layout) {
	for i := range l.Elements {
		el := &l.Elements[i]
		if el.ID == "" {
			el.ID = uuid.NewString()
		}
		if el.Type != ElementText {
			continue
		}
		if el.Overflow == nil {
			el.Overflow = &Overflow{}
		}
		if el.Overflow.Mode == "" {
			el.Overflow.Mode = OverflowShrinkToFit
		}
		if el.Overflow.MinFontSizePt <= 0 {
			el.Overflow.MinFontSizePt = DefaultMinFontSizePt
		}
		if el.Overflow.MaxLines <= 0 {
			el.Overflow.MaxLines = DefaultMaxLines
		}
		if el.Style == nil {
			el.Style = &Style{}
		}
	}
}
