package plot

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/edp1096/acfit/pkg/fitting"
	gplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	// MeasuredColor is #f0a963.
	MeasuredColor  = color.RGBA{R: 0xf0, G: 0xa9, B: 0x63, A: 0xff}
	SimulatedColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
)

type Options struct {
	Width  vg.Length // default 10in
	Height vg.Length // default 8in
	Format string    // png, svg, pdf, jpg, tif, eps; default png
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 10 * vg.Inch
	}
	if o.Height <= 0 {
		o.Height = 8 * vg.Inch
	}
	if o.Format == "" {
		o.Format = "png"
	}
	o.Format = strings.ToLower(o.Format)
	return o
}

// Figure is the 2x2 comparison grid: magnitude and phase on top, their
// residuals below.
type Figure struct {
	opts  Options
	plots [][]*gplot.Plot
}

func NewFigure(c *fitting.Comparison, opts Options) (*Figure, error) {
	if c == nil {
		return nil, fmt.Errorf("no comparison to plot")
	}
	if c.Measured.Len() == 0 {
		return nil, fmt.Errorf("no data points to plot")
	}
	opts = opts.withDefaults()

	measured := c.Measured
	simulated := c.Simulated

	mag, err := bodePlot("Magnitude vs Frequency", "Magnitude (dB)",
		measured.Frequencies, measured.MagnitudeDB, simulated.Frequencies, simulated.MagnitudeDB)
	if err != nil {
		return nil, fmt.Errorf("magnitude plot: %w", err)
	}
	phase, err := bodePlot("Phase vs Frequency", "Phase (degrees)",
		measured.Frequencies, measured.PhaseDeg, simulated.Frequencies, simulated.PhaseDeg)
	if err != nil {
		return nil, fmt.Errorf("phase plot: %w", err)
	}
	magRes, err := residualPlot("Magnitude Residuals", "Magnitude (dB)", measured.Frequencies, c.MagnitudeResidual)
	if err != nil {
		return nil, fmt.Errorf("magnitude residual plot: %w", err)
	}
	phaseRes, err := residualPlot("Phase Residuals", "Phase (degrees)", measured.Frequencies, c.PhaseResidual)
	if err != nil {
		return nil, fmt.Errorf("phase residual plot: %w", err)
	}

	return &Figure{
		opts: opts,
		plots: [][]*gplot.Plot{
			{mag, phase},
			{magRes, phaseRes},
		},
	}, nil
}

// WriteTo renders the figure in the configured format.
func (f *Figure) WriteTo(w io.Writer) (int64, error) {
	canvas, err := draw.NewFormattedCanvas(f.opts.Width, f.opts.Height, f.opts.Format)
	if err != nil {
		return 0, err
	}

	tiles := draw.Tiles{
		Rows:      2,
		Cols:      2,
		PadX:      vg.Millimeter * 4,
		PadY:      vg.Millimeter * 4,
		PadTop:    vg.Millimeter * 2,
		PadBottom: vg.Millimeter * 2,
		PadLeft:   vg.Millimeter * 2,
		PadRight:  vg.Millimeter * 2,
	}

	dc := draw.New(canvas)
	canvases := gplot.Align(f.plots, tiles, dc)
	for j := range f.plots {
		for i := range f.plots[j] {
			f.plots[j][i].Draw(canvases[j][i])
		}
	}

	return canvas.WriteTo(w)
}

// Save writes the figure to path, taking the format from the extension.
func (f *Figure) Save(path string) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if ext == "" {
		return fmt.Errorf("no file extension in %q", path)
	}
	f.opts.Format = ext

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	_, err = f.WriteTo(file)
	if err != nil {
		file.Close()
		os.Remove(path)
		return fmt.Errorf("rendering %s: %w", path, err)
	}
	return file.Close()
}

func (f *Figure) Format() string {
	return f.opts.Format
}

// ContentType is the MIME type of the configured format.
func (f *Figure) ContentType() string {
	switch f.opts.Format {
	case "png":
		return "image/png"
	case "svg":
		return "image/svg+xml"
	case "pdf":
		return "application/pdf"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "tif", "tiff":
		return "image/tiff"
	case "eps":
		return "application/postscript"
	}
	return "application/octet-stream"
}

func newLogPlot(title, yLabel string) *gplot.Plot {
	p := gplot.New()
	p.Title.Text = title
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = yLabel
	p.X.Scale = gplot.LogScale{}
	p.X.Tick.Marker = gplot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())
	return p
}

func bodePlot(title, yLabel string, measuredX, measuredY, simulatedX, simulatedY []float64) (*gplot.Plot, error) {
	p := newLogPlot(title, yLabel)
	p.Legend.Top = true

	measured, err := newLine(measuredX, measuredY, MeasuredColor)
	if err != nil {
		return nil, err
	}
	simulated, err := newLine(simulatedX, simulatedY, SimulatedColor)
	if err != nil {
		return nil, err
	}

	p.Add(measured, simulated)
	p.Legend.Add("Original Data", measured)
	p.Legend.Add("Simulated Data", simulated)
	return p, nil
}

func residualPlot(title, yLabel string, x, residual []float64) (*gplot.Plot, error) {
	p := newLogPlot(title, yLabel)

	line, err := newLine(x, residual, MeasuredColor)
	if err != nil {
		return nil, err
	}
	p.Add(line)
	return p, nil
}

func newLine(x, y []float64, c color.Color) (*plotter.Line, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("%d x values for %d y values", len(x), len(y))
	}

	xys := make(plotter.XYs, len(x))
	for i := range x {
		// Log axis
		if x[i] <= 0 {
			return nil, fmt.Errorf("non-positive frequency %g", x[i])
		}
		if math.IsInf(y[i], 0) || math.IsNaN(y[i]) {
			return nil, fmt.Errorf("non-finite value at %g Hz", x[i])
		}
		xys[i].X = x[i]
		xys[i].Y = y[i]
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)
	return line, nil
}
