package analysis

import (
	"fmt"
	"io"
	"math"

	"github.com/edp1096/acfit/pkg/util"
	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
)

// PlotResponses renders magnitude and phase of every node relative to the
// input as an HTML page. The sink node is drawn with a heavier line.
func (s *Solution) PlotResponses(w io.Writer, sink string) error {
	if _, err := s.Voltage(sink); err != nil {
		return err
	}

	xAxis := make([]string, len(s.Frequencies))
	for i, f := range s.Frequencies {
		xAxis[i] = util.FormatFrequency(f)
	}

	magLine := newResponseLine("Magnitude", fmt.Sprintf("%s input at %s", s.Input, s.InputNode), "dB")
	phaseLine := newResponseLine("Phase", fmt.Sprintf("%s input at %s", s.Input, s.InputNode), "deg")
	magLine.SetXAxis(xAxis)
	phaseLine.SetXAxis(xAxis)

	for _, node := range s.Nodes {
		resp, err := s.Response(s.InputNode, node)
		if err != nil {
			return err
		}

		var seriesOpts []charts.SeriesOpts
		if node == sink {
			seriesOpts = append(seriesOpts, charts.WithLineStyleOpts(opts.LineStyle{Width: 3}))
		}

		magLine.AddSeries(node, lineData(resp.DBMagnitude()), seriesOpts...)
		phaseLine.AddSeries(node, lineData(resp.Phase()), seriesOpts...)
	}

	page := components.NewPage()
	page.PageTitle = "AC response"
	page.AddCharts(magLine, phaseLine)

	return page.Render(w)
}

func newResponseLine(title, subtitle, unit string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme: types.ThemeWesteros,
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithLegendOpts(opts.Legend{
			Type:   "scroll",
			Orient: "vertical",
			Right:  "10",
			Top:    "20",
			Bottom: "20",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: "Hz",
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:  unit,
			Scale: opts.Bool(true),
		}),
		charts.WithDataZoomOpts(opts.DataZoom{
			Type:       "inside",
			Start:      0,
			End:        100,
			XAxisIndex: []int{0},
		}),
		charts.WithAnimation(false),
	)
	return line
}

// lineData drops non-finite points; echarts cannot draw them.
func lineData(values []float64) []opts.LineData {
	items := make([]opts.LineData, len(values))
	for i, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			items[i] = opts.LineData{Value: "-"}
			continue
		}
		items[i] = opts.LineData{Value: v}
	}
	return items
}
