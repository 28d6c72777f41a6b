package shockweb

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/banshee-data/shock.report/internal/shockdata"
)

// handlePositionChart renders a position-vs-time line chart (HTML) of the
// current upload using go-echarts, one series per channel.
// Query params:
//   - start, end (optional; seconds, default 0..configured window)
func (ws *WebServer) handlePositionChart(w http.ResponseWriter, r *http.Request) {
	u := ws.latestUpload()
	if u == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no upload processed yet")
		return
	}

	start, end := ws.windowBounds(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	table := u.Table.Window(start, end)

	x := make([]string, table.Rows())
	for i, ts := range table.Time {
		x[i] = strconv.FormatFloat(ts, 'f', 3, 64)
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Shock Position", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Shock Position (%gs to %gs)", start, end),
			Subtitle: fmt.Sprintf("upload=%s rows=%d", u.ID, table.Rows()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (s)", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Position", NameLocation: "middle", NameGap: 40}),
	)

	// An empty window still renders: the page shows an empty chart rather
	// than an error when the bounds select no rows.
	line.SetXAxis(x)
	for c := 0; c < table.Channels(); c++ {
		data := make([]opts.LineData, table.Rows())
		for i, v := range table.Pos[c] {
			data[i] = opts.LineData{Value: v}
		}
		line.AddSeries(fmt.Sprintf("Pos_%d", c+1), data)
	}

	var buf bytes.Buffer
	if err := line.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// handleVelocityChart renders overlaid per-channel velocity histograms (HTML)
// over shared bin edges for the current upload.
// Query params:
//   - start, end (optional; seconds)
//   - bins (optional; default from tuning, clamped to 1..500)
func (ws *WebServer) handleVelocityChart(w http.ResponseWriter, r *http.Request) {
	u := ws.latestUpload()
	if u == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no upload processed yet")
		return
	}

	start, end := ws.windowBounds(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	bins := ws.tuning.GetHistogramBins()
	if b := r.URL.Query().Get("bins"); b != "" {
		if v, err := strconv.Atoi(b); err == nil && v >= 1 && v <= 500 {
			bins = v
		}
	}

	table := u.Table.Window(start, end)
	hist := shockdata.VelocityHistograms(table, bins)

	x := make([]string, 0, bins)
	for _, center := range hist.BinCenters() {
		x = append(x, strconv.FormatFloat(center, 'f', 1, 64))
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Shock Velocities", Width: "1200px", Height: "600px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    fmt.Sprintf("Histogram of Shock Velocities (%gs to %gs)", start, end),
			Subtitle: fmt.Sprintf("upload=%s bins=%d rows=%d", u.ID, bins, table.Rows()),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Velocity", NameLocation: "middle", NameGap: 30}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frequency", NameLocation: "middle", NameGap: 40}),
	)

	bar.SetXAxis(x)
	for _, series := range hist.Series {
		data := make([]opts.BarData, len(series.Counts))
		for i, count := range series.Counts {
			data[i] = opts.BarData{Value: count}
		}
		bar.AddSeries(series.Channel, data)
	}

	var buf bytes.Buffer
	if err := bar.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render histogram chart: %v", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
