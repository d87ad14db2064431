package canvasrenderer

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func paintRGBA(t *testing.T, symbology, value string, w, h, module, quiet int) *image.RGBA {
	t.Helper()
	img, err := Placeholder{}.Paint(symbology, value, w, h, module, quiet)
	if err != nil {
		t.Fatalf("paint: %v", err)
	}
	rgba, ok := img.(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA, got %T", img)
	}
	return rgba
}

func isWhite(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r == 0xffff && g == 0xffff && b == 0xffff
}

func TestPlaceholderIsDeterministic(t *testing.T) {
	a := paintRGBA(t, "code128", "4006381333931", 120, 40, 2, 10)
	b := paintRGBA(t, "code128", "4006381333931", 120, 40, 2, 10)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("same inputs painted different pixels")
	}
	c := paintRGBA(t, "code128", "4006381333932", 120, 40, 2, 10)
	if bytes.Equal(a.Pix, c.Pix) {
		t.Fatal("different values painted identical pixels")
	}
}

func TestPlaceholderKeepsLinearQuietZone(t *testing.T) {
	const w, h, module, quiet = 120, 40, 2, 10
	img := paintRGBA(t, "code128", "12345", w, h, module, quiet)

	for y := 0; y < h; y++ {
		for x := 0; x < quiet; x++ {
			if !isWhite(img.At(x, y)) {
				t.Fatalf("left quiet zone painted at (%d,%d)", x, y)
			}
			if !isWhite(img.At(w-1-x, y)) {
				t.Fatalf("right quiet zone painted at (%d,%d)", w-1-x, y)
			}
		}
	}
	// First module column is always dark and spans the full height.
	if isWhite(img.At(quiet, 0)) || isWhite(img.At(quiet, h-1)) {
		t.Fatal("first bar missing or not full height")
	}
}

func TestPlaceholderMatrixKeepsQuietZoneAllAround(t *testing.T) {
	const w, h, module, quiet = 60, 60, 2, 6
	img := paintRGBA(t, "qr", "https://example.test/p/1", w, h, module, quiet)

	for i := 0; i < quiet; i++ {
		for x := 0; x < w; x++ {
			if !isWhite(img.At(x, i)) || !isWhite(img.At(x, h-1-i)) {
				t.Fatalf("vertical quiet zone painted at row %d", i)
			}
		}
	}
	if isWhite(img.At(quiet, quiet)) {
		t.Fatal("matrix corner module should be dark")
	}
}

func TestPlaceholderModuleColumnsAreModuleWide(t *testing.T) {
	const w, h, module, quiet = 40, 20, 4, 0
	img := paintRGBA(t, "code39", "AB-12", w, h, module, quiet)

	// Every dot inside one module column has the same ink.
	for col := 0; col*module < w; col++ {
		first := isWhite(img.At(col*module, h/2))
		for dx := 1; dx < module; dx++ {
			if isWhite(img.At(col*module+dx, h/2)) != first {
				t.Fatalf("column %d changes ink mid-module", col)
			}
		}
	}
}

func TestPlaceholderRejectsEmptyBox(t *testing.T) {
	if _, err := (Placeholder{}).Paint("code128", "1", 0, 40, 2, 0); err == nil {
		t.Fatal("expected error for zero width")
	}
	if _, err := (Placeholder{}).Paint("code128", "1", 40, 0, 2, 0); err == nil {
		t.Fatal("expected error for zero height")
	}
}

func TestPlaceholderAllQuietZoneStaysBlank(t *testing.T) {
	img := paintRGBA(t, "code128", "1", 10, 10, 2, 5)
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			if !isWhite(img.At(x, y)) {
				t.Fatalf("expected blank symbol, ink at (%d,%d)", x, y)
			}
		}
	}
}
