package canvasrenderer

import (
	"fmt"
	"hash/fnv"
	"image"
	"image/draw"
)

// BarcodePainter rasterizes one symbol onto a widthDots x heightDots grid.
// Module and quiet zone widths arrive pre-snapped to whole dots; painters
// must not rescale them. The print pipeline injects a painter backed by a
// real symbol generator, while Placeholder serves previews and tests.
type BarcodePainter interface {
	Paint(symbology, value string, widthDots, heightDots, moduleDots, quietZoneDots int) (image.Image, error)
}

// Placeholder draws a stand-in pattern derived from a hash of the value. The
// pattern is stable across runs so previews stay byte-for-byte reproducible,
// and it honors the module and quiet zone geometry so operators can judge
// placement before a symbol generator is wired in.
type Placeholder struct{}

var _ BarcodePainter = Placeholder{}

func (Placeholder) Paint(symbology, value string, widthDots, heightDots, moduleDots, quietZoneDots int) (image.Image, error) {
	if widthDots < 1 || heightDots < 1 {
		return nil, fmt.Errorf("barcode box is %dx%d dots", widthDots, heightDots)
	}
	if moduleDots < 1 {
		moduleDots = 1
	}
	if quietZoneDots < 0 {
		quietZoneDots = 0
	}

	img := image.NewRGBA(image.Rect(0, 0, widthDots, heightDots))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	h := fnv.New64a()
	_, _ = h.Write([]byte(symbology))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(value))
	seed := h.Sum64()

	innerW := widthDots - 2*quietZoneDots
	if is2D(symbology) {
		// Matrix symbols keep the quiet zone on all four sides.
		innerH := heightDots - 2*quietZoneDots
		if innerW >= moduleDots && innerH >= moduleDots {
			paintGrid(img, seed, quietZoneDots, innerW, innerH, moduleDots)
		}
		return img, nil
	}
	// Linear symbols reserve the quiet zone horizontally only; bars span the
	// full box height.
	if innerW >= moduleDots {
		paintStripes(img, seed, quietZoneDots, innerW, heightDots, moduleDots)
	}
	return img, nil
}

// paintStripes emits module-wide columns. The first and last columns are
// always dark so the symbol extent stays visible.
func paintStripes(img *image.RGBA, seed uint64, quiet, innerW, barHeight, module int) {
	cols := innerW / module
	for col := 0; col < cols; col++ {
		dark := col == 0 || col == cols-1 || seed>>(uint(col)%64)&1 == 1
		if !dark {
			continue
		}
		fillRect(img, quiet+col*module, 0, module, barHeight)
	}
}

// paintGrid emits a module grid for matrix symbologies. The top row and left
// column are always dark, echoing finder patterns.
func paintGrid(img *image.RGBA, seed uint64, quiet, innerW, innerH, module int) {
	cols := innerW / module
	rows := innerH / module
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			dark := row == 0 || col == 0 || seed>>(uint(row*31+col)%64)&1 == 1
			if !dark {
				continue
			}
			fillRect(img, quiet+col*module, quiet+row*module, module, module)
		}
	}
}

func fillRect(img *image.RGBA, x0, y0, w, h int) {
	r := image.Rect(x0, y0, x0+w, y0+h).Intersect(img.Bounds())
	draw.Draw(img, r, image.Black, image.Point{}, draw.Src)
}

func is2D(symbology string) bool {
	switch symbology {
	case "qr", "datamatrix":
		return true
	}
	return false
}
