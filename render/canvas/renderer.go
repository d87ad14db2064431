// Package canvasrenderer paints resolved plans with github.com/tdewolff/canvas.
// It doubles as the layout engine's text measurer: fitting and painting share
// one set of font metrics, which is what keeps preview and print pixels in
// agreement.
package canvasrenderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	xdraw "golang.org/x/image/draw"

	"github.com/spoolworks/labelpress/fonts"
	"github.com/spoolworks/labelpress/layout"
	"github.com/spoolworks/labelpress/render"
	"github.com/spoolworks/labelpress/template"
)

// Renderer draws plans via github.com/tdewolff/canvas. Safe for concurrent
// use; the font family cache is the only shared state.
type Renderer struct {
	baseDir string
	painter BarcodePainter

	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var (
	_ render.Renderer = (*Renderer)(nil)
	_ layout.Measurer = (*Renderer)(nil)
)

// Options configures the canvas renderer.
type Options struct {
	// BaseDir roots relative image paths. Empty forbids path lookups.
	BaseDir string

	// Painter generates barcode symbol rasters. Nil selects the
	// deterministic placeholder painter.
	Painter BarcodePainter
}

// NewRenderer creates a renderer with the placeholder barcode painter.
func NewRenderer() *Renderer { return NewRendererWithOptions(Options{}) }

// NewRendererWithOptions creates a renderer with injected collaborators.
func NewRendererWithOptions(opts Options) *Renderer {
	painter := opts.Painter
	if painter == nil {
		painter = Placeholder{}
	}
	return &Renderer{
		baseDir:      opts.BaseDir,
		painter:      painter,
		fontFamilies: map[string]*canvas.FontFamily{},
	}
}

// WidthMm implements layout.Measurer over the embedded faces. Face names are
// validated during resolution, so an unknown face here measures as zero
// rather than failing mid-paint.
func (r *Renderer) WidthMm(face string, sizePt float64, text string) float64 {
	f, err := r.face(face, sizePt)
	if err != nil {
		return 0
	}
	return f.TextWidth(text)
}

// LineHeightMm implements layout.Measurer.
func (r *Renderer) LineHeightMm(face string, sizePt float64) float64 {
	f, err := r.face(face, sizePt)
	if err != nil {
		return 0
	}
	return f.Metrics().LineHeight
}

// Render produces a single-page PDF with the fonts embedded.
func (r *Renderer) Render(plan *layout.Plan) ([]byte, error) {
	c, err := r.draw(plan)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	writer := pdf.New(&buf, plan.Profile.WidthMm, plan.Profile.HeightMm, nil)
	c.RenderTo(writer)
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPNG rasterizes at the plan's native grid, one pixel per printer dot.
func (r *Renderer) RenderPNG(plan *layout.Plan) ([]byte, error) {
	c, err := r.draw(plan)
	if err != nil {
		return nil, err
	}
	img := rasterizer.Draw(c, canvas.DPMM(1.0/plan.DotMm), canvas.DefaultColorSpace)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *Renderer) draw(plan *layout.Plan) (*canvas.Canvas, error) {
	if plan == nil {
		return nil, fmt.Errorf("nothing to render")
	}
	if plan.DotMm <= 0 {
		return nil, fmt.Errorf("plan has no dot grid")
	}

	c := canvas.New(plan.Profile.WidthMm, plan.Profile.HeightMm)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, like the plan

	if err := r.drawBackground(ctx, plan); err != nil {
		return nil, err
	}
	for i := range plan.Elements {
		el := &plan.Elements[i]
		var err error
		switch el.Type {
		case template.ElementBox:
			err = r.drawBox(ctx, plan, el)
		case template.ElementImage:
			err = r.drawImage(ctx, plan, el)
		case template.ElementBarcode:
			err = r.drawBarcode(ctx, plan, el)
		case template.ElementText:
			err = r.drawText(ctx, plan, el)
		}
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", el.ID, err)
		}
	}
	return c, nil
}

func (r *Renderer) drawBackground(ctx *canvas.Context, plan *layout.Plan) error {
	var fill color.Color = canvas.White
	if plan.Profile.Background != "" {
		col, err := template.ParseColor(plan.Profile.Background)
		if err != nil {
			return fmt.Errorf("background: %w", err)
		}
		fill = colorOf(col)
	}
	ctx.SetFillColor(fill)
	ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	ctx.DrawPath(0, 0, canvas.Rectangle(plan.Profile.WidthMm, plan.Profile.HeightMm))
	return nil
}

func (r *Renderer) drawBox(ctx *canvas.Context, plan *layout.Plan, el *layout.PlacedElement) error {
	strokeMm := float64(el.StrokeDots) * plan.DotMm
	if el.Fill == "" && strokeMm <= 0 {
		return nil
	}
	if el.Fill != "" {
		col, err := template.ParseColor(el.Fill)
		if err != nil {
			return fmt.Errorf("fill: %w", err)
		}
		ctx.SetFillColor(colorOf(col))
	} else {
		ctx.SetFillColor(color.RGBA{0, 0, 0, 0})
	}
	if strokeMm > 0 {
		ctx.SetStrokeColor(canvas.Black)
		ctx.SetStrokeWidth(strokeMm)
	} else {
		ctx.SetStrokeColor(color.RGBA{0, 0, 0, 0})
	}
	x, y, w, h := rectMm(plan, el)
	ctx.DrawPath(x, y, canvas.Rectangle(w, h))
	return nil
}

func (r *Renderer) drawText(ctx *canvas.Context, plan *layout.Plan, el *layout.PlacedElement) error {
	face, err := r.face(el.Font, el.FontSizePt)
	if err != nil {
		return err
	}

	x, y, w, _ := rectMm(plan, el)
	var align canvas.TextAlign
	var anchorX float64
	switch strings.ToLower(el.Align) {
	case "center":
		align = canvas.Center
		anchorX = x + w/2
	case "right", "end":
		align = canvas.Right
		anchorX = x + w
	default:
		align = canvas.Left
		anchorX = x
	}

	lineHeightMm := float64(el.LineHeightDots) * plan.DotMm
	metrics := face.Metrics()
	cursorY := y
	for _, line := range el.Lines {
		if line != "" {
			textLine := canvas.NewTextLine(face, line, align)
			ctx.DrawText(anchorX, cursorY+metrics.Ascent, textLine)
		}
		cursorY += lineHeightMm
	}
	return nil
}

func (r *Renderer) drawBarcode(ctx *canvas.Context, plan *layout.Plan, el *layout.PlacedElement) error {
	img, err := r.painter.Paint(el.Symbology, el.BarcodeValue, el.WDots, el.HDots, el.ModuleDots, el.QuietZoneDots)
	if err != nil {
		return err
	}
	if img == nil {
		return nil
	}
	x, y, _, _ := rectMm(plan, el)
	ctx.DrawImage(x, y, img, canvas.DPMM(1.0/plan.DotMm))
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, plan *layout.Plan, el *layout.PlacedElement) error {
	src, err := r.loadImage(el.ImageSrc)
	if err != nil {
		return err
	}
	if el.WDots < 1 || el.HDots < 1 {
		return nil
	}
	fitted := fitImage(src, el.WDots, el.HDots, el.ImageFit)
	x, y, _, _ := rectMm(plan, el)
	ctx.DrawImage(x, y, fitted, canvas.DPMM(1.0/plan.DotMm))
	return nil
}

func (r *Renderer) loadImage(src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("image has no src")
	}
	if r.baseDir == "" && !filepath.IsAbs(src) {
		return nil, fmt.Errorf("relative image path %q needs a base directory", src)
	}
	path := src
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.baseDir, path)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", src, err)
	}
	defer func() { _ = file.Close() }()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", src, err)
	}
	return img, nil
}

// fitImage resamples src onto a widthDots x heightDots raster so the placed
// image occupies whole printer dots. contain letterboxes preserving aspect
// ratio, stretch fills the box.
func fitImage(src image.Image, widthDots, heightDots int, fit string) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, widthDots, heightDots))
	if fit == "stretch" {
		xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
		return dst
	}
	sw := src.Bounds().Dx()
	sh := src.Bounds().Dy()
	if sw < 1 || sh < 1 {
		return dst
	}
	scale := float64(widthDots) / float64(sw)
	if s := float64(heightDots) / float64(sh); s < scale {
		scale = s
	}
	tw := int(float64(sw) * scale)
	th := int(float64(sh) * scale)
	if tw < 1 {
		tw = 1
	}
	if th < 1 {
		th = 1
	}
	x0 := (widthDots - tw) / 2
	y0 := (heightDots - th) / 2
	xdraw.ApproxBiLinear.Scale(dst, image.Rect(x0, y0, x0+tw, y0+th), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func (r *Renderer) face(name string, sizePt float64) (*canvas.FontFace, error) {
	family, err := r.family(name)
	if err != nil {
		return nil, err
	}
	return family.Face(sizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal), nil
}

func (r *Renderer) family(name string) (*canvas.FontFamily, error) {
	if name == "" {
		name = fonts.Default
	}
	r.fontMu.Lock()
	defer r.fontMu.Unlock()

	if family, ok := r.fontFamilies[name]; ok {
		return family, nil
	}
	data, err := fonts.Load(name)
	if err != nil {
		return nil, err
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load font %s: %w", name, err)
	}
	r.fontFamilies[name] = family
	return family, nil
}

func rectMm(plan *layout.Plan, el *layout.PlacedElement) (x, y, w, h float64) {
	return float64(el.XDots) * plan.DotMm,
		float64(el.YDots) * plan.DotMm,
		float64(el.WDots) * plan.DotMm,
		float64(el.HDots) * plan.DotMm
}

func colorOf(c template.Color) color.Color {
	return canvas.RGBA(float64(c.R)/255.0, float64(c.G)/255.0, float64(c.B)/255.0, 1.0)
}
