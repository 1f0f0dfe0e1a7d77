package analytics

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// Chart titles.
const (
	TitleHistogram = "Distribution of Integrity Scores"
	TitleByType    = "Asset Volume by Channel"
	TitleScatter   = "Outlier Detection Map"
)

// NoDataMessage replaces the charts when there is nothing to plot.
const NoDataMessage = "No data available for analytics yet."

const (
	pageTitle      = "BIS Live Insights"
	histogramColor = "#636EFA"
)

const emptyPage = `<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>%s</title></head>
<body><p>%s</p></body>
</html>
`

// Render writes an HTML page with the three insight charts for r, or a
// short notice when r is empty.
func Render(w io.Writer, r Report) error {
	if r.Empty() {
		_, err := fmt.Fprintf(w, emptyPage, pageTitle, NoDataMessage)
		return err
	}
	page := components.NewPage()
	page.PageTitle = pageTitle
	page.AddCharts(histogramChart(r), typeChart(r), scatterChart(r))
	return page.Render(w)
}

func histogramChart(r Report) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: TitleHistogram}),
		charts.WithXAxisOpts(opts.XAxis{Name: "BIS Score"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Assets"}),
	)

	labels := make([]string, len(r.Histogram))
	data := make([]opts.BarData, len(r.Histogram))
	for i, b := range r.Histogram {
		labels[i] = b.Label()
		data[i] = opts.BarData{Value: b.Count, ItemStyle: &opts.ItemStyle{Color: histogramColor}}
	}
	bar.SetXAxis(labels).AddSeries("Assets", data)
	return bar
}

func typeChart(r Report) *charts.Pie {
	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: TitleByType}))

	data := make([]opts.PieData, len(r.ByType))
	for i, tc := range r.ByType {
		data[i] = opts.PieData{Name: tc.Type, Value: tc.Count}
	}
	pie.AddSeries("Channel", data).
		SetSeriesOptions(charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "75%"}}))
	return pie
}

func scatterChart(r Report) *charts.Scatter {
	sc := charts.NewScatter()
	sc.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: TitleScatter}),
		charts.WithXAxisOpts(opts.XAxis{Name: "visual", Type: "value", Min: 0, Max: 100}),
		charts.WithYAxisOpts(opts.YAxis{Name: "compliance", Type: "value", Min: 0, Max: 100}),
	)

	// One series per type, in first-seen order, so the legend colours by channel.
	series := map[string][]opts.ScatterData{}
	for _, p := range r.Points {
		series[p.Type] = append(series[p.Type], opts.ScatterData{
			Name:       p.ID + ": " + p.Content,
			Value:      []int{p.Visual, p.Compliance},
			SymbolSize: symbolSize(p.Composite),
		})
	}
	for _, tc := range r.ByType {
		sc.AddSeries(tc.Type, series[tc.Type])
	}
	return sc
}

// symbolSize scales a composite score to a marker diameter.
func symbolSize(composite int) int {
	return 6 + composite/5
}
