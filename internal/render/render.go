// Package render is the presentation collaborator: it turns the pure
// ComparisonData assembled by the comparator into PNG charts. All chart
// math (colors, markers, bar offsets) arrives precomputed; this package
// only maps it onto the plotting library.
package render

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/SashaGoldin/ml-experiments/internal/comparator"
)

// #region palette
// palette maps the comparator's "C{i}" keys onto the conventional default
// color cycle.
var palette = []color.RGBA{
	{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}, // C0
	{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff}, // C1
	{R: 0x2c, G: 0xa0, B: 0x2c, A: 0xff}, // C2
	{R: 0xd6, G: 0x27, B: 0x28, A: 0xff}, // C3
	{R: 0x94, G: 0x67, B: 0xbd, A: 0xff}, // C4
	{R: 0x8c, G: 0x56, B: 0x4b, A: 0xff}, // C5
}

func paletteColor(key string) color.RGBA {
	var idx int
	if _, err := fmt.Sscanf(key, "C%d", &idx); err != nil || idx < 0 {
		idx = 0
	}
	return palette[idx%len(palette)]
}

// glyphFor maps the comparator's marker codes onto glyph drawers.
func glyphFor(marker string) draw.GlyphDrawer {
	switch marker {
	case ".":
		return draw.CircleGlyph{}
	case "*":
		return draw.CrossGlyph{}
	case "d":
		return draw.PyramidGlyph{}
	case "s":
		return draw.BoxGlyph{}
	case "p":
		return draw.TriangleGlyph{}
	case "x":
		return draw.PlusGlyph{}
	default:
		return draw.RingGlyph{}
	}
}

// #endregion palette

// #region comparison
// Comparison renders the train-curves plot and the held-out bar chart into
// outDir, returning the two file paths.
func Comparison(data *comparator.ComparisonData, outDir string) (string, string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", "", fmt.Errorf("create output dir: %w", err)
	}

	trainPath := filepath.Join(outDir, "train_metrics.png")
	if err := trainPlot(data, trainPath); err != nil {
		return "", "", err
	}
	testPath := filepath.Join(outDir, "test_metrics.png")
	if err := testPlot(data, testPath); err != nil {
		return "", "", err
	}
	return trainPath, testPath, nil
}

// #endregion comparison

// #region train-plot
// trainPlot draws one line per (run, metric) curve, with the curve's glyph
// stamped every MarkEvery epochs.
func trainPlot(data *comparator.ComparisonData, path string) error {
	p := plot.New()
	p.Title.Text = "Train metrics"
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = "Metric value"
	p.Add(plotter.NewGrid())

	for _, curve := range data.TrainCurves {
		xys := make(plotter.XYs, len(curve.Epochs))
		for i, e := range curve.Epochs {
			xys[i] = plotter.XY{X: float64(e), Y: curve.Values[i]}
		}

		line, err := plotter.NewLine(xys)
		if err != nil {
			return fmt.Errorf("line %s/%s: %w", curve.Run, curve.Metric, err)
		}
		line.LineStyle.Color = paletteColor(curve.Color)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s %s", curve.Run, curve.Metric), line)

		every := curve.MarkEvery
		if every < 1 {
			every = 1
		}
		marks := make(plotter.XYs, 0, len(xys)/every+1)
		for i := 0; i < len(xys); i += every {
			marks = append(marks, xys[i])
		}
		scatter, err := plotter.NewScatter(marks)
		if err != nil {
			return fmt.Errorf("marks %s/%s: %w", curve.Run, curve.Metric, err)
		}
		scatter.GlyphStyle.Color = paletteColor(curve.Color)
		scatter.GlyphStyle.Shape = glyphFor(curve.Marker)
		scatter.GlyphStyle.Radius = vg.Points(float64(curve.MarkerSize) / 2)
		p.Add(scatter)
	}

	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// #endregion train-plot

// #region test-plot
// testPlot draws the grouped held-out bars: one group per metric, one bar
// per run, offsets taken from the comparator's layout.
func testPlot(data *comparator.ComparisonData, path string) error {
	p := plot.New()
	p.Title.Text = "Test metrics"
	p.Y.Label.Text = "Metric value"
	p.Add(plotter.NewGrid())

	barUnit := vg.Points(24)
	for j, run := range data.RunNames {
		values := make(plotter.Values, len(data.TestBars.Groups))
		var offset float64
		var barColor color.RGBA
		for i, group := range data.TestBars.Groups {
			bar := group.Bars[j]
			values[i] = bar.Value
			offset = bar.Offset
			barColor = paletteColor(bar.Color)
		}

		width := barUnit * vg.Length(data.TestBars.BarWidth)
		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return fmt.Errorf("bars %s: %w", run, err)
		}
		bars.Color = barColor
		bars.LineStyle.Width = 0
		bars.Offset = barUnit * vg.Length(offset)
		p.Add(bars)
		p.Legend.Add(run, bars)
	}

	p.NominalX(data.MetricNames...)
	if err := p.Save(8*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// #endregion test-plot
