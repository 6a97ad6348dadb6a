package device

import (
	"math"

	"github.com/edp1096/acfit/pkg/matrix"
)

type Device interface {
	GetName() string
	GetType() string
	GetNodeNames() []string
	GetNodes() []int
	Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error
	SetNodes(nodes []int)
}

// BranchDevice is a device that owns an extra MNA row for its branch current.
type BranchDevice interface {
	Device
	BranchIndex() int
	SetBranchIndex(idx int)
}

type BaseDevice struct {
	Name      string
	Nodes     []int
	Value     float64
	NodeNames []string
}

type CircuitStatus struct {
	Frequency float64 // AC frequency
}

// Omega returns the angular frequency.
func (s *CircuitStatus) Omega() float64 {
	return 2 * math.Pi * s.Frequency
}

func (d *BaseDevice) GetName() string {
	return d.Name
}

func (d *BaseDevice) GetNodes() []int {
	return d.Nodes
}

func (d *BaseDevice) GetNodeNames() []string {
	return d.NodeNames
}

func (d *BaseDevice) GetValue() float64 {
	return d.Value
}

func (d *BaseDevice) SetNodes(nodes []int) {
	d.Nodes = nodes
}

func NewBaseDevice(name string, value float64, nodeNames []string) BaseDevice {
	return BaseDevice{
		Name:      name,
		Value:     value,
		NodeNames: nodeNames,
		Nodes:     make([]int, len(nodeNames)),
	}
}

// stampAdmittance loads y between n1 and n2. Ground (0) rows are skipped.
func stampAdmittance(matrix matrix.DeviceMatrix, n1, n2 int, y complex128) {
	g, b := real(y), imag(y)
	if n1 != 0 {
		matrix.AddComplexElement(n1, n1, g, b)
		if n2 != 0 {
			matrix.AddComplexElement(n1, n2, -g, -b)
		}
	}
	if n2 != 0 {
		matrix.AddComplexElement(n2, n2, g, b)
		if n1 != 0 {
			matrix.AddComplexElement(n2, n1, -g, -b)
		}
	}
}

// stampBranchIncidence couples a branch current to its two terminal nodes.
func stampBranchIncidence(matrix matrix.DeviceMatrix, n1, n2, bIdx int) {
	if n1 != 0 {
		matrix.AddElement(n1, bIdx, 1)
		matrix.AddElement(bIdx, n1, 1)
	}
	if n2 != 0 {
		matrix.AddElement(n2, bIdx, -1)
		matrix.AddElement(bIdx, n2, -1)
	}
}
