package fitting

import (
	"errors"
	"fmt"
	"math"

	"github.com/edp1096/acfit/pkg/analysis"
	"gonum.org/v1/gonum/floats"
)

var ErrLengthMismatch = errors.New("measured and simulated data differ in length")

// Residual returns measured - simulated element-wise.
func Residual(measured, simulated []float64) ([]float64, error) {
	if len(measured) != len(simulated) {
		return nil, fmt.Errorf("%w: %d measured, %d simulated", ErrLengthMismatch, len(measured), len(simulated))
	}

	res := make([]float64, len(measured))
	floats.SubTo(res, measured, simulated)
	return res, nil
}

// Series is one Bode data set.
type Series struct {
	Frequencies []float64
	MagnitudeDB []float64
	PhaseDeg    []float64
}

func (s Series) Len() int {
	return len(s.Frequencies)
}

type Comparison struct {
	Measured          Series
	Simulated         Series
	MagnitudeResidual []float64
	PhaseResidual     []float64
}

// Compare pairs measured samples with the simulated response point by point.
// Both must have the same number of points.
func Compare(measured []MeasuredSample, simulated *analysis.Response) (*Comparison, error) {
	if simulated == nil {
		return nil, fmt.Errorf("no simulated response")
	}

	c := &Comparison{
		Measured: Series{
			Frequencies: Frequencies(measured),
			MagnitudeDB: Magnitudes(measured),
			PhaseDeg:    Phases(measured),
		},
		Simulated: Series{
			Frequencies: simulated.Frequencies,
			MagnitudeDB: simulated.DBMagnitude(),
			PhaseDeg:    simulated.Phase(),
		},
	}

	var err error
	c.MagnitudeResidual, err = Residual(c.Measured.MagnitudeDB, c.Simulated.MagnitudeDB)
	if err != nil {
		return nil, fmt.Errorf("magnitude residual: %w", err)
	}
	c.PhaseResidual, err = Residual(c.Measured.PhaseDeg, c.Simulated.PhaseDeg)
	if err != nil {
		return nil, fmt.Errorf("phase residual: %w", err)
	}

	return c, nil
}

// RMS of a residual. Empty input gives 0.
func RMS(residual []float64) float64 {
	if len(residual) == 0 {
		return 0
	}
	return floats.Norm(residual, 2) / math.Sqrt(float64(len(residual)))
}

// MaxAbs is the largest absolute residual.
func MaxAbs(residual []float64) float64 {
	maxAbs := 0.0
	for _, v := range residual {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}
	return maxAbs
}

func (c *Comparison) MagnitudeRMS() float64    { return RMS(c.MagnitudeResidual) }
func (c *Comparison) PhaseRMS() float64        { return RMS(c.PhaseResidual) }
func (c *Comparison) MagnitudeMaxAbs() float64 { return MaxAbs(c.MagnitudeResidual) }
func (c *Comparison) PhaseMaxAbs() float64     { return MaxAbs(c.PhaseResidual) }
