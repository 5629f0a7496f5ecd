// Copyright (c) The cs244b-project37m Authors. All rights reserved.
// Licensed under the MIT License.

// Command chartgen renders the CSV files written by a parallelism sweep as
// one SVG chart per execution-time policy.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"maps"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/perf/benchmath"
	"golang.org/x/perf/benchunit"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// referenceTime is the measured sequential execution time of the reference
// block, drawn as a horizontal line on every chart.
const referenceTime = 125.0

const confidence = 0.95

type seriesPoints struct {
	plotter.YErrorBars
	Labels []string
}

func (sp seriesPoints) Label(i int) string {
	return sp.Labels[i]
}

var _ plotter.XYLabeller = seriesPoints{}

type series struct {
	TimePolicy      string
	SelectionPolicy string
	Points          seriesPoints
}

type chart struct {
	Title          string
	YAxisLabel     string
	XAxisLabel     string
	XTickPositions []float64
	Series         []*series
	FileBasename   string
}

// Data is the summary of every trial run at one parallelism.
type Data struct {
	Sample  *benchmath.Sample
	Summary benchmath.Summary
}

func main() {
	outDir := flag.String("out", "charts", "directory to write charts to")
	labels := flag.Bool("labels", false, "annotate each point with its median and interval")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: chartgen [-out dir] [simulations-dir]\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	inDir := "simulations"
	switch flag.NArg() {
	case 0:
	case 1:
		inDir = flag.Arg(0)
	default:
		flag.Usage()
		os.Exit(2)
	}

	paths, err := filepath.Glob(filepath.Join(inDir, "*.csv"))
	if err != nil {
		log.Fatal(err)
	}
	if len(paths) == 0 {
		log.Fatalf("no CSV files in %s", inDir)
	}
	slices.Sort(paths)

	seriesByTimePolicy := make(map[string][]*series)
	for _, path := range paths {
		s, err := loadSeries(path)
		if err != nil {
			log.Fatalf("Error loading %s: %v", path, err)
		}
		seriesByTimePolicy[s.TimePolicy] = append(seriesByTimePolicy[s.TimePolicy], s)
	}

	for _, timePolicy := range slices.Sorted(maps.Keys(seriesByTimePolicy)) {
		all := seriesByTimePolicy[timePolicy]
		ticks := make(map[float64]struct{})
		for _, s := range all {
			for _, xy := range s.Points.XYs {
				ticks[xy.X] = struct{}{}
			}
		}
		c := &chart{
			Title:          fmt.Sprintf("Simulated Block Execution Time (%s)", displayName(timePolicy)),
			XAxisLabel:     "Parallelism",
			YAxisLabel:     "Simulated Time",
			XTickPositions: slices.Sorted(maps.Keys(ticks)),
			Series:         all,
			FileBasename:   timePolicy,
		}
		if err := plotLines(c, *outDir, *labels); err != nil {
			log.Fatalf("Error creating chart: %v", err)
		}
	}

	fmt.Printf("Charts generated successfully in the '%s' directory.\n", *outDir)
}

// loadSeries reads one "<time policy>-<selection policy>.csv" file and
// summarizes its trials per parallelism.
func loadSeries(path string) (*series, error) {
	name := strings.TrimSuffix(filepath.Base(path), ".csv")
	timePolicy, selectionPolicy, ok := strings.Cut(name, "-")
	if !ok {
		return nil, fmt.Errorf("file name %q is not <time policy>-<selection policy>.csv", name)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	valuesByParallelism, err := readSamples(f)
	if err != nil {
		return nil, err
	}

	s := &series{TimePolicy: timePolicy, SelectionPolicy: selectionPolicy}
	thresholds := benchmath.DefaultThresholds
	for _, p := range slices.Sorted(maps.Keys(valuesByParallelism)) {
		data := &Data{Sample: benchmath.NewSample(valuesByParallelism[p], &thresholds)}
		for _, w := range data.Sample.Warnings {
			log.Printf("%s: parallelism %d: %v", name, p, w)
		}
		data.Summary = benchmath.AssumeNothing.Summary(data.Sample, confidence)
		clampSummary(data)
		if data.Summary.Center <= 0 {
			// Nothing to draw on a log scale.
			continue
		}
		s.Points.XYs = append(s.Points.XYs, plotter.XY{X: float64(p), Y: data.Summary.Center})
		s.Points.YErrors = append(s.Points.YErrors, struct{ Low, High float64 }{
			Low:  data.Summary.Center - data.Summary.Lo,
			High: data.Summary.Hi - data.Summary.Center,
		})
		s.Points.Labels = append(s.Points.Labels, formatSummary(&data.Summary, benchunit.Decimal))
	}
	return s, nil
}

func readSamples(r io.Reader) (map[int][]float64, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if header[0] != "parallelism" || header[1] != "time" {
		return nil, fmt.Errorf("unexpected header %q", header)
	}
	values := make(map[int][]float64)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			return values, nil
		}
		if err != nil {
			return nil, err
		}
		p, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("parsing parallelism: %w", err)
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing time: %w", err)
		}
		values[p] = append(values[p], t)
	}
}

// clampSummary bounds the confidence interval by the observed extremes. Small
// samples have no interval at the requested confidence.
func clampSummary(data *Data) {
	values := data.Sample.Values
	lo, hi := slices.Min(values), slices.Max(values)
	if math.IsNaN(data.Summary.Lo) || data.Summary.Lo < lo {
		data.Summary.Lo = lo
	}
	if math.IsNaN(data.Summary.Hi) || data.Summary.Hi > hi {
		data.Summary.Hi = hi
	}
}

func displayName(policy string) string {
	words := strings.Split(policy, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func setupPlot(c *chart) *plot.Plot {
	p := plot.New()

	p.Title.Text = c.Title
	p.X.Label.Text = c.XAxisLabel
	p.Y.Label.Text = c.YAxisLabel

	p.Title.TextStyle.Color = color.Gray{128}
	p.X.Color = color.Gray{128}
	p.Y.Color = color.Gray{128}
	p.X.Label.TextStyle.Color = color.Gray{128}
	p.Y.Label.TextStyle.Color = color.Gray{128}
	p.X.Tick.Color = color.Gray{128}
	p.Y.Tick.Color = color.Gray{128}
	p.X.Tick.Label.Color = color.Gray{128}
	p.Y.Tick.Label.Color = color.Gray{128}
	p.Legend.TextStyle.Color = color.Gray{128}

	p.X.Scale = plot.LogScale{}
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}

	xTicks := make([]plot.Tick, len(c.XTickPositions))
	for i, x := range c.XTickPositions {
		xTicks[i] = plot.Tick{Value: x, Label: strconv.FormatFloat(x, 'g', -1, 64)}
	}
	p.X.Tick.Marker = plot.ConstantTicks(xTicks)

	p.Legend.Top = true
	p.Legend.Padding = 1 * vg.Millimeter
	p.BackgroundColor = color.Transparent

	return p
}

func plotLines(c *chart, outDir string, withLabels bool) error {
	p := setupPlot(c)

	// Paired is defined for three to twelve colors.
	palette, err := brewer.GetPalette(brewer.TypeQualitative, "Paired", min(max(len(c.Series), 3), 12))
	if err != nil {
		return err
	}
	colors := palette.Colors()

	reference := plotter.NewFunction(func(float64) float64 { return referenceTime })
	reference.Color = color.Gray{160}
	reference.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(reference)
	p.Legend.Add(fmt.Sprintf("Sequential (%g)", referenceTime), reference)

	for i, s := range c.Series {
		if len(s.Points.XYs) == 0 {
			continue
		}
		lineColor := colors[i%len(colors)]

		line, points, err := plotter.NewLinePoints(s.Points.XYs)
		if err != nil {
			return err
		}
		line.Color = lineColor
		points.Color = lineColor
		points.Shape = draw.CircleGlyph{}

		errorBars, err := plotter.NewYErrorBars(s.Points)
		if err != nil {
			return err
		}
		errorBars.Color = lineColor
		errorBars.Width = 0.2 * vg.Millimeter

		p.Add(line, points, errorBars)
		p.Legend.Add(displayName(s.SelectionPolicy), line, points)

		if withLabels {
			labels, err := plotter.NewLabels(s.Points)
			if err != nil {
				return err
			}
			for j := range labels.TextStyle {
				labels.TextStyle[j].Color = lineColor
				labels.TextStyle[j].Font.Size *= 0.7
			}
			labels.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(4)}
			p.Add(labels)
		}
	}

	return savePlot(c, p, outDir)
}

func savePlot(c *chart, p *plot.Plot, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	return p.Save(9*vg.Inch, 6*vg.Inch, filepath.Join(outDir, c.FileBasename+".svg"))
}

func formatRatio(n, d float64) string {
	switch {
	case d == 0:
		if n == 0 {
			return "0%"
		}
		return fmt.Sprintf("%.2g", n)
	case math.Abs(n/d) < 1:
		return fmt.Sprintf("%.2g%%", math.Round(100*n/d))
	default:
		return fmt.Sprintf("%.2gx", n/d)
	}
}

func formatSummary(s *benchmath.Summary, class benchunit.Class) string {
	center := benchunit.Scale(s.Center, class)
	plus := formatRatio(s.Hi-s.Center, s.Center)
	minus := formatRatio(s.Center-s.Lo, s.Center)
	if plus == minus {
		return fmt.Sprintf("%s ±%s", center, plus)
	}
	return fmt.Sprintf("%s +%s -%s", center, plus, minus)
}
