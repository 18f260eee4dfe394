package field

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/paulmach/orb"
)

// PolarRenderer renders a bearing histogram as a polar heat-map: one
// angular wedge per bucket, shaded by accumulated time relative to the
// maximum bucket. Bucket 0 is drawn starting at the top of the circle
// (the robot-forward direction), matching the +90° plot offset.
type PolarRenderer struct {
	Hist   *BearingHistogram
	Size   int // output image is Size x Size pixels
	Margin int // pixels between the circle and the image edge
}

// NewPolarRenderer creates a polar renderer with default settings.
func NewPolarRenderer(hist *BearingHistogram) *PolarRenderer {
	return &PolarRenderer{
		Hist:   hist,
		Size:   800,
		Margin: 60,
	}
}

// Render draws the heat-map into a new RGBA image. When every bucket is
// zero the wedges render at zero intensity instead of dividing by zero.
func (r *PolarRenderer) Render() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.Size, r.Size))

	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < r.Size; y++ {
		for x := 0; x < r.Size; x++ {
			img.SetRGBA(x, y, white)
		}
	}

	cx := float64(r.Size) / 2
	cy := float64(r.Size) / 2
	radius := float64(r.Size)/2 - float64(r.Margin)

	max := r.Hist.Max()
	slice := r.Hist.SliceDegrees

	for y := 0; y < r.Size; y++ {
		for x := 0; x < r.Size; x++ {
			dx := float64(x) - cx
			dy := cy - float64(y) // image y grows downward
			if dx*dx+dy*dy > radius*radius {
				continue
			}

			// Angle in plot convention: CCW from +x, then shifted so
			// bucket 0 spans [90°, 90°+slice) at the top of the circle.
			deg := math.Atan2(dy, dx) * 180 / math.Pi
			deg = deg - 90
			for deg < 0 {
				deg += 360
			}

			idx := int(math.Floor(deg / slice))
			if idx >= len(r.Hist.Buckets) {
				continue
			}

			shade := 0.0
			if max > 0 {
				shade = r.Hist.Buckets[idx] / max
			}
			c := uint8(shade * 255)
			img.SetRGBA(x, y, color.RGBA{0, c, c, 255})
		}
	}

	r.drawAxisLabels(img, cx, cy, radius)
	drawLabel(img, 10, r.Size-10,
		fmt.Sprintf("max %.1fs per %.0f° slice", max, slice),
		color.RGBA{0, 0, 0, 255})

	return img
}

// drawAxisLabels marks the four cardinal relative bearings. 0° is the
// robot's forward direction at the top; angles grow CCW.
func (r *PolarRenderer) drawAxisLabels(img *image.RGBA, cx, cy, radius float64) {
	black := color.RGBA{0, 0, 0, 255}
	offset := 14.0

	labels := []struct {
		text string
		deg  float64 // relative bearing
	}{
		{"0°", 0},
		{"90°", 90},
		{"180°", 180},
		{"270°", 270},
	}

	for _, l := range labels {
		rad := (l.deg + 90) * math.Pi / 180
		lx := cx + (radius+offset)*math.Cos(rad)
		ly := cy - (radius+offset)*math.Sin(rad)
		drawLabel(img, int(lx)-8, int(ly)+4, l.text, black)
	}
}

// SavePNG renders the heat-map and writes it to a PNG file.
func (r *PolarRenderer) SavePNG(path string) error {
	img := r.Render()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// trajectoryColors are the polyline colors for the field overview,
// assigned round-robin per trajectory.
var trajectoryColors = []color.RGBA{
	{220, 60, 40, 255},  // red
	{40, 100, 220, 255}, // blue
	{30, 150, 60, 255},  // green
	{200, 140, 20, 255}, // amber
}

// FieldRenderer draws a top-down overview of the field: tag poses with
// heading ticks plus the trajectory paths.
type FieldRenderer struct {
	Layout       *FieldLayout
	Tags         []TagPose2D
	Trajectories []*TrajectoryFile
	Width        int // output width in pixels; height follows the aspect
	Margin       int
}

// NewFieldRenderer creates a field overview renderer with defaults.
func NewFieldRenderer(layout *FieldLayout, trajectories []*TrajectoryFile) *FieldRenderer {
	return &FieldRenderer{
		Layout:       layout,
		Tags:         ProjectTags(layout),
		Trajectories: trajectories,
		Width:        1000,
		Margin:       40,
	}
}

// bounds returns the world extent to draw: the declared field dimensions
// when present, otherwise the bounding box of tags and trajectories.
func (r *FieldRenderer) bounds() orb.Bound {
	if r.Layout.Field != nil {
		return orb.Bound{
			Min: orb.Point{0, 0},
			Max: orb.Point{r.Layout.Field.Length, r.Layout.Field.Width},
		}
	}

	var mp orb.MultiPoint
	for _, tag := range r.Tags {
		mp = append(mp, orb.Point{tag.Pose.X, tag.Pose.Y})
	}
	for _, tf := range r.Trajectories {
		mp = append(mp, SamplesToLineString(tf.Trajectory.Samples)...)
	}
	if len(mp) == 0 {
		return orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{1, 1}}
	}
	return mp.Bound()
}

// Render draws the field overview into a new RGBA image.
func (r *FieldRenderer) Render() *image.RGBA {
	b := r.bounds()
	extentX := b.Max[0] - b.Min[0]
	extentY := b.Max[1] - b.Min[1]
	if extentX <= 0 {
		extentX = 1
	}
	if extentY <= 0 {
		extentY = 1
	}

	scale := float64(r.Width-2*r.Margin) / extentX
	height := int(extentY*scale) + 2*r.Margin

	img := image.NewRGBA(image.Rect(0, 0, r.Width, height))
	white := color.RGBA{255, 255, 255, 255}
	for y := 0; y < height; y++ {
		for x := 0; x < r.Width; x++ {
			img.SetRGBA(x, y, white)
		}
	}

	// World to image: y flipped so +y (field left) is up.
	toImage := func(p Pose2D) (float64, float64) {
		ix := (p.X-b.Min[0])*scale + float64(r.Margin)
		iy := float64(height) - ((p.Y-b.Min[1])*scale + float64(r.Margin))
		return ix, iy
	}

	// Field border.
	border := color.RGBA{120, 120, 120, 255}
	tl := Pose2D{X: b.Min[0], Y: b.Max[1]}
	tr := Pose2D{X: b.Max[0], Y: b.Max[1]}
	bl := Pose2D{X: b.Min[0], Y: b.Min[1]}
	br := Pose2D{X: b.Max[0], Y: b.Min[1]}
	x0, y0 := toImage(tl)
	x1, y1 := toImage(tr)
	x2, y2 := toImage(br)
	x3, y3 := toImage(bl)
	drawLine(img, x0, y0, x1, y1, border)
	drawLine(img, x1, y1, x2, y2, border)
	drawLine(img, x2, y2, x3, y3, border)
	drawLine(img, x3, y3, x0, y0, border)

	// Trajectory paths.
	for i, tf := range r.Trajectories {
		c := trajectoryColors[i%len(trajectoryColors)]
		samples := tf.Trajectory.Samples
		for j := 1; j < len(samples); j++ {
			px, py := toImage(samples[j-1].Pose())
			qx, qy := toImage(samples[j].Pose())
			drawLine(img, px, py, qx, qy, c)
		}
	}

	// Tags: filled marker plus a heading tick showing the face normal.
	tagColor := color.RGBA{40, 40, 40, 255}
	tickLen := 0.35 * scale
	for _, tag := range r.Tags {
		tx, ty := toImage(tag.Pose)
		fillRect(img, int(tx)-3, int(ty)-3, int(tx)+3, int(ty)+3, tagColor)
		ex := tx + tickLen*math.Cos(tag.Pose.Heading)
		ey := ty - tickLen*math.Sin(tag.Pose.Heading)
		drawLine(img, tx, ty, ex, ey, tagColor)
		drawLabel(img, int(tx)+6, int(ty)-6, fmt.Sprintf("%d", tag.ID), tagColor)
	}

	return img
}

// SavePNG renders the field overview and writes it to a PNG file.
func (r *FieldRenderer) SavePNG(path string) error {
	img := r.Render()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding PNG: %w", err)
	}
	return nil
}

// drawLine draws a straight line by stepping along its longest axis.
func drawLine(img *image.RGBA, x0, y0, x1, y1 float64, c color.RGBA) {
	dx := x1 - x0
	dy := y1 - y0
	steps := int(math.Max(math.Abs(dx), math.Abs(dy)))
	if steps == 0 {
		img.SetRGBA(int(x0), int(y0), c)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		img.SetRGBA(int(x0+t*dx), int(y0+t*dy), c)
	}
}

// fillRect fills an axis-aligned rectangle, clipped to the image.
func fillRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	r := img.Bounds()
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if x >= r.Min.X && x < r.Max.X && y >= r.Min.Y && y < r.Max.Y {
				img.SetRGBA(x, y, c)
			}
		}
	}
}

// drawLabel renders text at the given baseline position.
func drawLabel(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(text)
}
