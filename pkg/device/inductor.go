package device

import (
	"fmt"

	"github.com/edp1096/acfit/pkg/matrix"
)

// Inductor is stamped in impedance form with its own branch current,
// so it stays solvable at f = 0.
type Inductor struct {
	BaseDevice
	branchIdx int
}

var _ BranchDevice = (*Inductor)(nil)

func NewInductor(name string, nodeNames []string, value float64) *Inductor {
	return &Inductor{BaseDevice: NewBaseDevice(name, value, nodeNames)}
}

func (l *Inductor) GetType() string { return "L" }

func (l *Inductor) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(l.Nodes) != 2 {
		return fmt.Errorf("inductor %s: requires exactly 2 nodes", l.Name)
	}
	if l.branchIdx <= 0 {
		return fmt.Errorf("inductor %s: branch index not assigned", l.Name)
	}

	n1, n2 := l.Nodes[0], l.Nodes[1]
	bIdx := l.branchIdx

	// v1 - v2 - jωL*i = 0
	stampBranchIncidence(matrix, n1, n2, bIdx)
	matrix.AddComplexElement(bIdx, bIdx, 0, -status.Omega()*l.Value)

	return nil
}

// BranchIndex getter
func (l *Inductor) BranchIndex() int {
	return l.branchIdx
}

// BranchIndex setter
func (l *Inductor) SetBranchIndex(idx int) {
	l.branchIdx = idx
}
