package device

import (
	"math"

	"github.com/edp1096/acfit/pkg/matrix"
)

// CurrentSource is a small-signal AC current stimulus. Current flows from
// the first node through the source into the second node.
type CurrentSource struct {
	BaseDevice
	acMag   float64
	acPhase float64 // degree
}

func NewACCurrentSource(name string, nodeNames []string, acMag, acPhase float64) *CurrentSource {
	return &CurrentSource{
		BaseDevice: NewBaseDevice(name, acMag, nodeNames),
		acMag:      acMag,
		acPhase:    acPhase,
	}
}

func (i *CurrentSource) GetType() string { return "I" }

func (i *CurrentSource) Phasor() complex128 {
	phaseRad := i.acPhase * math.Pi / 180.0
	return complex(i.acMag*math.Cos(phaseRad), i.acMag*math.Sin(phaseRad))
}

func (i *CurrentSource) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	n1, n2 := i.Nodes[0], i.Nodes[1]
	phasor := i.Phasor()

	if n1 != 0 {
		matrix.AddComplexRHS(n1, -real(phasor), -imag(phasor))
	}
	if n2 != 0 {
		matrix.AddComplexRHS(n2, real(phasor), imag(phasor))
	}

	return nil
}
