package plot

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/edp1096/acfit/pkg/fitting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/plot/vg"
)

func sampleComparison() *fitting.Comparison {
	freqs := []float64{0.01, 1, 100, 1e4, 1e5}
	return &fitting.Comparison{
		Measured: fitting.Series{
			Frequencies: freqs,
			MagnitudeDB: []float64{0, -0.1, -3, -20, -40},
			PhaseDeg:    []float64{0, -5, -45, -85, -90},
		},
		Simulated: fitting.Series{
			Frequencies: freqs,
			MagnitudeDB: []float64{0, 0, -3.01, -20.1, -40.2},
			PhaseDeg:    []float64{0, -4, -45, -84, -89},
		},
		MagnitudeResidual: []float64{0, -0.1, 0.01, 0.1, 0.2},
		PhaseResidual:     []float64{0, -1, 0, -1, -1},
	}
}

func TestFigurePNG(t *testing.T) {
	fig, err := NewFigure(sampleComparison(), Options{Width: 4 * vg.Inch, Height: 3 * vg.Inch})
	require.NoError(t, err)
	assert.Equal(t, "png", fig.Format())
	assert.Equal(t, "image/png", fig.ContentType())

	var buf bytes.Buffer
	n, err := fig.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestFigureSVG(t *testing.T) {
	fig, err := NewFigure(sampleComparison(), Options{Format: "SVG"})
	require.NoError(t, err)

	var buf bytes.Buffer
	_, err = fig.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "<svg")
	assert.Contains(t, buf.String(), "Magnitude Residuals")
}

func TestFigureSave(t *testing.T) {
	fig, err := NewFigure(sampleComparison(), Options{})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fig1.pdf")
	require.NoError(t, fig.Save(path))
	assert.Equal(t, "application/pdf", fig.ContentType())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	assert.Error(t, fig.Save(filepath.Join(t.TempDir(), "fig1")))
	assert.Error(t, fig.Save(filepath.Join(t.TempDir(), "fig1.bmp")))
}

func TestFigureRejectsUnplottableData(t *testing.T) {
	c := sampleComparison()
	c.Simulated.MagnitudeDB[2] = math.Inf(-1)
	_, err := NewFigure(c, Options{})
	assert.Error(t, err)

	c = sampleComparison()
	c.Measured.Frequencies[0] = 0
	_, err = NewFigure(c, Options{})
	assert.Error(t, err)

	_, err = NewFigure(&fitting.Comparison{}, Options{})
	assert.Error(t, err)

	_, err = NewFigure(nil, Options{})
	assert.Error(t, err)
}
