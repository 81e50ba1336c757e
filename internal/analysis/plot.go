package analysis

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"modelbias/internal/data"
)

const (
	DefaultMinAUC = 0.9
	DefaultBins   = 10
)

// HistogramSink renders a histogram of values over the x range [min, max].
type HistogramSink interface {
	Histogram(values []float64, min, max float64) error
}

// PNGFile renders the histogram to a PNG file at Path.
type PNGFile struct {
	Path  string
	Bins  int
	Title string
}

func (s PNGFile) Histogram(values []float64, min, max float64) error {
	p, err := newHistogram(values, min, max, s.Bins, s.Title)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, s.Path)
}

// PNGWriter renders the histogram as PNG bytes to W.
type PNGWriter struct {
	W     io.Writer
	Bins  int
	Title string
}

func (s PNGWriter) Histogram(values []float64, min, max float64) error {
	p, err := newHistogram(values, min, max, s.Bins, s.Title)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(6*vg.Inch, 4*vg.Inch, "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(s.W)
	return err
}

func newHistogram(values []float64, min, max float64, bins int, title string) (*plot.Plot, error) {
	if bins <= 0 {
		bins = DefaultBins
	}
	if title == "" {
		title = "Model family AUC"
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "AUC"
	p.Y.Label.Text = "Models"
	if len(values) > 0 {
		h, err := plotter.NewHist(plotter.Values(values), bins)
		if err != nil {
			return nil, fmt.Errorf("histogram: %w", err)
		}
		p.Add(h)
	}
	p.X.Min = min
	p.X.Max = max
	return p, nil
}

// PlotModelFamilyAUC computes the family statistics, prints them to out and
// hands the AUCs to sink with the x axis clamped to [minAUC, 1].
func PlotModelFamilyAUC(t *data.Table, modelNames []string, labelCol string, minAUC float64, out io.Writer, sink HistogramSink) (FamilyAUC, error) {
	res, err := ModelFamilyAUC(t, modelNames, labelCol)
	if err != nil {
		return FamilyAUC{}, err
	}
	fmt.Fprintf(out, "mean AUC: %v\n", res.Mean)
	fmt.Fprintf(out, "median: %v\n", res.Median)
	fmt.Fprintf(out, "stddev: %v\n", res.Std)
	if sink != nil {
		if err := sink.Histogram(res.AUCs, minAUC, 1.0); err != nil {
			return res, fmt.Errorf("render histogram: %w", err)
		}
	}
	return res, nil
}
