// Package echarts renders frame visualizations as interactive HTML pages
// using go-echarts. It is one rendering backend over the conversion output;
// the model itself stays backend-agnostic.
package echarts

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/scene.report/internal/scene/vis"
)

// RenderFrame writes one frame's visualization as a standalone HTML page.
// Every lane, crosswalk, box and trajectory becomes a line series in its
// resolved display color.
func RenderFrame(w io.Writer, title string, frameIndex int, fv vis.FrameVisualization) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: fmt.Sprintf("frame=%d agents=%d lanes=%d", frameIndex, len(fv.Agents), len(fv.Lanes))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "X (m)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Y (m)", NameLocation: "middle", NameGap: 30}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
	)

	for i, lane := range fv.Lanes {
		addOutline(line, fmt.Sprintf("lane_%d", i), lane.Xs, lane.Ys, lane.Color, true)
	}
	for i, cw := range fv.Crosswalks {
		addOutline(line, fmt.Sprintf("crosswalk_%d", i), cw.Xs, cw.Ys, cw.Color, true)
	}
	for _, tr := range fv.Trajectories {
		addOutline(line, fmt.Sprintf("%s_%d", tr.LegendLabel, tr.TrackID), tr.Xs, tr.Ys, tr.Color, false)
	}
	for _, a := range fv.Agents {
		addOutline(line, fmt.Sprintf("agent_%d", a.TrackID), a.Xs[:], a.Ys[:], a.Color, true)
	}
	addOutline(line, "ego", fv.Ego.Xs[:], fv.Ego.Ys[:], fv.Ego.Color, true)

	page := components.NewPage()
	page.AddCharts(line)
	return page.Render(w)
}

// addOutline appends one polyline series. Closed outlines repeat their first
// point so the polygon is drawn shut.
func addOutline(line *charts.Line, name string, xs, ys []float64, color string, closed bool) {
	if len(xs) == 0 {
		return
	}
	data := make([]opts.LineData, 0, len(xs)+1)
	for i := range xs {
		data = append(data, opts.LineData{Value: []interface{}{xs[i], ys[i]}})
	}
	if closed {
		data = append(data, opts.LineData{Value: []interface{}{xs[0], ys[0]}})
	}
	line.AddSeries(name, data,
		charts.WithLineStyleOpts(opts.LineStyle{Color: color, Width: 2}),
		charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
	)
}
