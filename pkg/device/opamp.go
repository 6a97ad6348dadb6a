package device

import (
	"fmt"

	"github.com/edp1096/acfit/pkg/matrix"
)

// OpAmp is a voltage-controlled voltage source from (in+ - in-) to the
// output, with infinite input impedance and zero output impedance.
// Nodes: non-inverting input, inverting input, output.
type OpAmp struct {
	BaseDevice
	Model     OpAmpModel
	branchIdx int
}

var _ BranchDevice = (*OpAmp)(nil)

func NewOpAmp(name string, nodeNames []string, model OpAmpModel) *OpAmp {
	return &OpAmp{
		BaseDevice: NewBaseDevice(name, model.A0, nodeNames),
		Model:      model,
	}
}

func (o *OpAmp) GetType() string { return "OP" }

func (o *OpAmp) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(o.Nodes) != 3 {
		return fmt.Errorf("op-amp %s: requires exactly 3 nodes", o.Name)
	}
	if o.branchIdx <= 0 {
		return fmt.Errorf("op-amp %s: branch index not assigned", o.Name)
	}

	np, nn, nout := o.Nodes[0], o.Nodes[1], o.Nodes[2]
	bIdx := o.branchIdx
	a := o.Model.Gain(status.Frequency)

	if nout != 0 {
		matrix.AddElement(nout, bIdx, 1)
		matrix.AddElement(bIdx, nout, 1)
	}
	// vout - A*(vp - vn) = 0
	if np != 0 {
		matrix.AddComplexElement(bIdx, np, -real(a), -imag(a))
	}
	if nn != 0 {
		matrix.AddComplexElement(bIdx, nn, real(a), imag(a))
	}

	return nil
}

func (o *OpAmp) BranchIndex() int {
	return o.branchIdx
}

func (o *OpAmp) SetBranchIndex(idx int) {
	o.branchIdx = idx
}
