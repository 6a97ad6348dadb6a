package device

import (
	"math"

	"github.com/edp1096/acfit/pkg/matrix"
)

// VoltageSource is a small-signal AC voltage stimulus.
type VoltageSource struct {
	BaseDevice
	acMag   float64
	acPhase float64 // degree
	// Branch index for MNA
	branchIdx int
}

var _ BranchDevice = (*VoltageSource)(nil)

func NewACVoltageSource(name string, nodeNames []string, acMag, acPhase float64) *VoltageSource {
	return &VoltageSource{
		BaseDevice: NewBaseDevice(name, acMag, nodeNames),
		acMag:      acMag,
		acPhase:    acPhase,
	}
}

func (v *VoltageSource) GetType() string { return "V" }

// Phasor returns the complex source value.
func (v *VoltageSource) Phasor() complex128 {
	phaseRad := v.acPhase * math.Pi / 180.0
	return complex(v.acMag*math.Cos(phaseRad), v.acMag*math.Sin(phaseRad))
}

func (v *VoltageSource) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	n1, n2 := v.Nodes[0], v.Nodes[1]
	bIdx := v.branchIdx

	// v1 - v2 = V
	stampBranchIncidence(matrix, n1, n2, bIdx)

	phasor := v.Phasor()
	matrix.AddComplexRHS(bIdx, real(phasor), imag(phasor))
	return nil
}

func (v *VoltageSource) BranchIndex() int {
	return v.branchIdx
}

func (v *VoltageSource) SetBranchIndex(idx int) {
	v.branchIdx = idx
}
