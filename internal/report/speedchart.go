package report

import (
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/trackreplay/internal/session"
	"github.com/banshee-data/trackreplay/internal/telemetry"
	"github.com/banshee-data/trackreplay/internal/units"
)

const echartsAssetsPrefix = "https://go-echarts.github.io/go-echarts-assets/assets/"

// MaxChartPoints caps the samples charted per session.
const MaxChartPoints = 2000

// WriteSpeedChart renders an HTML page with speed against session time for
// every session, plus a bar chart of mean and max speed.
func WriteSpeedChart(w io.Writer, sessions []session.Session, from, to string) error {
	label := units.Label(to)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Speed comparison", Theme: "dark", Width: "1200px", Height: "600px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: "Speed", Subtitle: fmt.Sprintf("sessions=%d", len(sessions))}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "Time (s)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: fmt.Sprintf("Speed (%s)", label)}),
	)
	for _, s := range sessions {
		pts := telemetry.Thin(s.Data, MaxChartPoints)
		data := make([]opts.LineData, len(pts))
		for i, p := range pts {
			data[i] = opts.LineData{Value: []interface{}{p.RelTime, units.Convert(p.Telemetry.Speed, from, to)}}
		}
		line.AddSeries(s.Name, data,
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: s.Color}),
		)
	}

	summaries := Summarize(sessions, from, to)
	names := make([]string, len(summaries))
	means := make([]opts.BarData, len(summaries))
	maxes := make([]opts.BarData, len(summaries))
	for i, sum := range summaries {
		names[i] = sum.Name
		means[i] = opts.BarData{Value: math.Round(sum.MeanSpeed*10) / 10}
		maxes[i] = opts.BarData{Value: math.Round(sum.MaxSpeed*10) / 10}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "1200px", Height: "400px", AssetsHost: echartsAssetsPrefix}),
		charts.WithTitleOpts(opts.Title{Title: fmt.Sprintf("Mean / max speed (%s)", label)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	bar.SetXAxis(names).
		AddSeries("mean", means, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"})).
		AddSeries("max", maxes, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))

	page := components.NewPage()
	page.SetAssetsHost(echartsAssetsPrefix)
	page.AddCharts(line, bar)
	if err := page.Render(w); err != nil {
		return fmt.Errorf("render speed chart: %w", err)
	}
	return nil
}
