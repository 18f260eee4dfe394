package field

import (
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
	"github.com/tdewolff/canvas/renderers/svg"
)

// PolarVectorRenderer renders a bearing histogram as vector graphics
// (SVG, or PNG via the rasterizer). Same wedge layout as PolarRenderer:
// bucket 0 starts at the top and buckets grow counter-clockwise.
type PolarVectorRenderer struct {
	Hist       *BearingHistogram
	Radius     float64 // wedge radius in canvas units
	Padding    float64 // padding around the circle
	Resolution canvas.Resolution
}

// NewPolarVectorRenderer creates a vector renderer with default settings.
func NewPolarVectorRenderer(hist *BearingHistogram) *PolarVectorRenderer {
	return &PolarVectorRenderer{
		Hist:       hist,
		Radius:     100.0,
		Padding:    20.0,
		Resolution: canvas.DPI(300),
	}
}

// canvasRenderer is the subset of the canvas renderer API shared by the
// svg and rasterizer backends.
type canvasRenderer interface {
	RenderPath(path *canvas.Path, style canvas.Style, m canvas.Matrix)
}

// RenderToSVG writes the heat-map as an SVG to the provided writer.
func (r *PolarVectorRenderer) RenderToSVG(w io.Writer) error {
	size := 2 * (r.Radius + r.Padding)
	svgRenderer := svg.New(w, size, size, nil)
	r.renderToCanvas(svgRenderer, size)
	return svgRenderer.Close()
}

// RenderToPNG writes the heat-map as a rasterized PNG to the provided writer.
func (r *PolarVectorRenderer) RenderToPNG(w io.Writer) error {
	size := 2 * (r.Radius + r.Padding)
	rast := rasterizer.New(size, size, r.Resolution, canvas.DefaultColorSpace)
	r.renderToCanvas(rast, size)
	return png.Encode(w, rast)
}

// renderToCanvas draws the wedges onto a canvas renderer (shared logic
// for SVG and PNG).
func (r *PolarVectorRenderer) renderToCanvas(renderer canvasRenderer, size float64) {
	// White background.
	bgStyle := canvas.DefaultStyle
	bgStyle.Fill = canvas.Paint{Color: canvas.White}
	renderer.RenderPath(canvas.Rectangle(size, size), bgStyle, canvas.Identity)

	cx := size / 2
	cy := size / 2

	max := r.Hist.Max()
	slice := r.Hist.SliceDegrees

	for i, v := range r.Hist.Buckets {
		shade := 0.0
		if max > 0 {
			shade = v / max
		}
		c := uint8(shade * 255)

		wedgeStyle := canvas.DefaultStyle
		wedgeStyle.Fill = canvas.Paint{Color: color.RGBA{0, c, c, 255}}
		wedgeStyle.Stroke = canvas.Paint{Color: canvas.Transparent}

		startDeg := float64(i)*slice + 90
		endDeg := float64(i+1)*slice + 90
		renderer.RenderPath(r.wedgePath(cx, cy, startDeg, endDeg), wedgeStyle, canvas.Identity)
	}

	// Outline circle on top of the wedges.
	outlineStyle := canvas.DefaultStyle
	outlineStyle.Fill = canvas.Paint{Color: canvas.Transparent}
	outlineStyle.Stroke = canvas.Paint{Color: canvas.Black}
	outlineStyle.StrokeWidth = 1.0

	outline := canvas.Circle(r.Radius)
	outline = outline.Translate(cx, cy)
	renderer.RenderPath(outline, outlineStyle, canvas.Identity)
}

// wedgePath builds a filled circular sector from startDeg to endDeg
// (CCW, degrees from +x). The arc is approximated with short chords.
func (r *PolarVectorRenderer) wedgePath(cx, cy, startDeg, endDeg float64) *canvas.Path {
	p := &canvas.Path{}
	p.MoveTo(cx, cy)

	const stepDeg = 2.0
	for deg := startDeg; deg < endDeg; deg += stepDeg {
		rad := deg * math.Pi / 180
		p.LineTo(cx+r.Radius*math.Cos(rad), cy+r.Radius*math.Sin(rad))
	}
	endRad := endDeg * math.Pi / 180
	p.LineTo(cx+r.Radius*math.Cos(endRad), cy+r.Radius*math.Sin(endRad))
	p.Close()

	return p
}
