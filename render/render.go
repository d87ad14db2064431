// Package render declares the artifact boundary. A Renderer turns a resolved
// plan into printable bytes; implementations live in subpackages so the
// layout engine never links a rasterizer it does not use.
package render

import "github.com/spoolworks/labelpress/layout"

// Renderer produces print artifacts from resolved plans. Render returns a
// vector artifact (PDF) with fonts embedded; RenderPNG rasterizes at the
// plan's native DPI, one pixel per printer dot, for previews and direct
// thermal output.
type Renderer interface {
	Render(plan *layout.Plan) ([]byte, error)
	RenderPNG(plan *layout.Plan) ([]byte, error)
}
