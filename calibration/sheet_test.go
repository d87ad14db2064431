package calibration

import (
	"strings"
	"testing"

	"github.com/spoolworks/labelpress/template"
)

var shelfProfile = template.PrinterProfile{
	ID: "shelf-29x90", WidthMm: 29, HeightMm: 90, DPI: 300, MarginMm: 2,
}

func TestBuildSheetShrinksRulersToStock(t *testing.T) {
	sheet, err := BuildSheet(shelfProfile)
	if err != nil {
		t.Fatalf("build sheet: %v", err)
	}
	// 25mm of usable width cannot hold the 50mm default ruler.
	if sheet.Expected.HorizontalMm != 25 {
		t.Fatalf("horizontal ruler = %vmm, want 25", sheet.Expected.HorizontalMm)
	}
	if sheet.Expected.VerticalMm != 20 {
		t.Fatalf("vertical ruler = %vmm, want the 20 default", sheet.Expected.VerticalMm)
	}
}

func TestBuildSheetLayoutIsPrintable(t *testing.T) {
	sheet, err := BuildSheet(shelfProfile)
	if err != nil {
		t.Fatalf("build sheet: %v", err)
	}
	if err := sheet.Layout.Validate(); err != nil {
		t.Fatalf("sheet layout does not validate: %v", err)
	}

	seen := map[string]bool{}
	targets, rulers, labels := 0, 0, 0
	for _, el := range sheet.Layout.Elements {
		if seen[el.ID] {
			t.Fatalf("duplicate element id %q", el.ID)
		}
		seen[el.ID] = true

		if el.XMm < 0 || el.YMm < 0 ||
			el.XMm+el.WMm > shelfProfile.WidthMm ||
			el.YMm+el.HMm > shelfProfile.HeightMm {
			t.Fatalf("element %s leaves the stock: x=%v y=%v w=%v h=%v", el.ID, el.XMm, el.YMm, el.WMm, el.HMm)
		}

		switch {
		case strings.HasPrefix(el.ID, "cal-target-"):
			targets++
		case strings.HasPrefix(el.ID, "cal-ruler-"):
			rulers++
		case strings.HasPrefix(el.ID, "cal-label-"):
			labels++
			if el.Type != template.ElementText || el.Text == "" {
				t.Fatalf("label %s has no text", el.ID)
			}
		}
	}
	if targets != 4 {
		t.Fatalf("sheet has %d corner targets, want 4", targets)
	}
	if rulers != 6 {
		t.Fatalf("sheet has %d ruler parts, want 2 bars + 4 ticks", rulers)
	}
	if labels != 2 {
		t.Fatalf("sheet has %d labels, want 2", labels)
	}
}

func TestBuildSheetHorizontalBarSpansExpected(t *testing.T) {
	sheet, err := BuildSheet(shelfProfile)
	if err != nil {
		t.Fatalf("build sheet: %v", err)
	}
	for _, el := range sheet.Layout.Elements {
		switch el.ID {
		case "cal-ruler-h":
			if el.WMm != sheet.Expected.HorizontalMm {
				t.Fatalf("horizontal bar is %vmm, expected length says %vmm", el.WMm, sheet.Expected.HorizontalMm)
			}
		case "cal-ruler-v":
			if el.HMm != sheet.Expected.VerticalMm {
				t.Fatalf("vertical bar is %vmm, expected length says %vmm", el.HMm, sheet.Expected.VerticalMm)
			}
		}
	}
}

func TestBuildSheetRejectsTinyStock(t *testing.T) {
	tiny := template.PrinterProfile{ID: "tag-8x12", WidthMm: 8, HeightMm: 12, DPI: 203, MarginMm: 1}
	if _, err := BuildSheet(tiny); err == nil {
		t.Fatal("stock too small for a 10mm ruler must be rejected")
	}
}
