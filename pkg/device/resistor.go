package device

import (
	"fmt"

	"github.com/edp1096/acfit/pkg/matrix"
)

type Resistor struct {
	BaseDevice
}

func NewResistor(name string, nodeNames []string, value float64) *Resistor {
	return &Resistor{BaseDevice: NewBaseDevice(name, value, nodeNames)}
}

func (r *Resistor) GetType() string { return "R" }

func (r *Resistor) Stamp(matrix matrix.DeviceMatrix, status *CircuitStatus) error {
	if len(r.Nodes) != 2 {
		return fmt.Errorf("resistor %s: requires exactly 2 nodes", r.Name)
	}
	if r.Value == 0 {
		return fmt.Errorf("resistor %s: zero resistance", r.Name)
	}

	g := 1.0 / r.Value // Conductance. G = 1/R
	stampAdmittance(matrix, r.Nodes[0], r.Nodes[1], complex(g, 0))

	return nil
}
