// Package plot renders frame visualizations to static images with
// gonum/plot. It is the non-interactive counterpart of the echarts backend,
// useful for reports and golden-image comparisons.
package plot

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/scene.report/internal/scene/vis"
)

// namedColors covers the non-hex color names the default palette uses.
var namedColors = map[string]color.RGBA{
	"gray":   {R: 0x80, G: 0x80, B: 0x80, A: 0xFF},
	"red":    {R: 0xFF, A: 0xFF},
	"yellow": {R: 0xFF, G: 0xFF, A: 0xFF},
	"blue":   {B: 0xFF, A: 0xFF},
	"green":  {G: 0x80, A: 0xFF},
}

// parseColor turns a display color ("#RRGGBB" or a known name) into an RGBA
// value, defaulting to black for anything it cannot parse.
func parseColor(s string) color.RGBA {
	if c, ok := namedColors[s]; ok {
		return c
	}
	if len(s) == 7 && s[0] == '#' {
		r, errR := strconv.ParseUint(s[1:3], 16, 8)
		g, errG := strconv.ParseUint(s[3:5], 16, 8)
		b, errB := strconv.ParseUint(s[5:7], 16, 8)
		if errR == nil && errG == nil && errB == nil {
			return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xFF}
		}
	}
	return color.RGBA{A: 0xFF}
}

// RenderFrame writes one frame's visualization as a square PNG image.
func RenderFrame(w io.Writer, title string, fv vis.FrameVisualization) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (m)"
	p.Y.Label.Text = "Y (m)"

	for _, lane := range fv.Lanes {
		if err := addOutline(p, lane.Xs, lane.Ys, lane.Color, true); err != nil {
			return err
		}
	}
	for _, cw := range fv.Crosswalks {
		if err := addOutline(p, cw.Xs, cw.Ys, cw.Color, true); err != nil {
			return err
		}
	}
	for _, tr := range fv.Trajectories {
		if err := addOutline(p, tr.Xs, tr.Ys, tr.Color, false); err != nil {
			return err
		}
	}
	for _, a := range fv.Agents {
		if err := addOutline(p, a.Xs[:], a.Ys[:], a.Color, true); err != nil {
			return err
		}
	}
	if err := addOutline(p, fv.Ego.Xs[:], fv.Ego.Ys[:], fv.Ego.Color, true); err != nil {
		return err
	}

	wt, err := p.WriterTo(9*vg.Inch, 9*vg.Inch, "png")
	if err != nil {
		return fmt.Errorf("render frame image: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write frame image: %w", err)
	}
	return nil
}

// addOutline adds one polyline to the plot; closed outlines repeat their
// first point.
func addOutline(p *plot.Plot, xs, ys []float64, displayColor string, closed bool) error {
	if len(xs) == 0 {
		return nil
	}
	pts := make(plotter.XYs, 0, len(xs)+1)
	for i := range xs {
		pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
	}
	if closed {
		pts = append(pts, plotter.XY{X: xs[0], Y: ys[0]})
	}

	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("build outline: %w", err)
	}
	l.Width = vg.Points(1.5)
	l.Color = parseColor(displayColor)
	p.Add(l)
	return nil
}
