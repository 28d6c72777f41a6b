// Command shock-plot renders a shock log to PNG files without the web UI:
// a position-vs-time chart and a velocity distribution chart per run.
package main

import (
	"encoding/base64"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/shock.report/internal/shockdata"
)

var channelColors = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 255},
	{R: 0xff, G: 0x7f, B: 0x0e, A: 255},
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 255},
	{R: 0xd6, G: 0x27, B: 0x28, A: 255},
}

func main() {
	input := flag.String("i", "", "input shock log (.txt, whitespace-delimited)")
	outDir := flag.String("o", "plots", "output directory")
	start := flag.Float64("start", 0, "window start (seconds)")
	end := flag.Float64("end", 10, "window end (seconds)")
	bins := flag.Int("bins", shockdata.DefaultHistogramBins, "velocity histogram bins")
	flag.Parse()

	if *input == "" {
		log.Fatal("input file is required (-i)")
	}

	raw, err := os.ReadFile(*input)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *input, err)
	}

	// Frame the file the way a browser upload would so the same parser runs.
	payload := "data:text/plain;base64," + base64.StdEncoding.EncodeToString(raw)
	table, err := shockdata.Parse(payload)
	if err != nil {
		log.Fatalf("failed to parse %s: %v", *input, err)
	}

	window := table.Window(*start, *end)
	log.Printf("parsed %d rows (%d in window %gs..%gs)", table.Rows(), window.Rows(), *start, *end)

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("failed to create output dir: %v", err)
	}

	posFile := filepath.Join(*outDir, "position.png")
	if err := savePositionPlot(window, *start, *end, posFile); err != nil {
		log.Fatalf("position plot: %v", err)
	}
	log.Printf("wrote %s", posFile)

	velFile := filepath.Join(*outDir, "velocity_hist.png")
	if err := saveVelocityPlot(window, *bins, *start, *end, velFile); err != nil {
		log.Fatalf("velocity plot: %v", err)
	}
	log.Printf("wrote %s", velFile)
}

func savePositionPlot(t *shockdata.Table, start, end float64, path string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("Shock Position (%gs to %gs)", start, end)
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Position"

	for c := 0; c < t.Channels(); c++ {
		pts := make(plotter.XYs, t.Rows())
		for i := range pts {
			pts[i] = plotter.XY{X: t.Time[i], Y: t.Pos[c][i]}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = channelColors[c%len(channelColors)]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("Pos_%d", c+1), line)
	}

	p.Legend.Top = true
	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}

func saveVelocityPlot(t *shockdata.Table, bins int, start, end float64, path string) error {
	hist := shockdata.VelocityHistograms(t, bins)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Shock Velocity Distribution (%gs to %gs)", start, end)
	p.X.Label.Text = "Velocity"
	p.Y.Label.Text = "Frequency"

	centers := hist.BinCenters()
	for i, series := range hist.Series {
		if len(series.Counts) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(series.Counts))
		for n, count := range series.Counts {
			pts[n] = plotter.XY{X: centers[n], Y: count}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		line.Color = channelColors[i%len(channelColors)]
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(series.Channel, line)
	}

	p.Legend.Top = true
	return p.Save(14*vg.Inch, 6*vg.Inch, path)
}
