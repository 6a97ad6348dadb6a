package netlist

import (
	"fmt"
)

// CircuitBuilder receives one construction call per component. Values and
// node names are passed through unparsed.
type CircuitBuilder interface {
	AddResistor(name, value, node1, node2 string) error
	AddCapacitor(name, value, node1, node2 string) error
	AddInductor(name, value, node1, node2 string) error
	AddLibraryOpAmp(name, model, node1, node2, node3 string) error
}

// Build issues the component statements of d against b in source order and
// stops at the first error.
func Build(d *Description, b CircuitBuilder) error {
	for _, stmt := range d.Components {
		if err := apply(stmt, b); err != nil {
			return fmt.Errorf("line %d: %w", stmt.LineNumber, err)
		}
	}
	return nil
}

func apply(stmt Statement, b CircuitBuilder) error {
	nodes := stmt.Nodes()

	switch stmt.Kind {
	case Resistor:
		return b.AddResistor(stmt.Name(), stmt.Value(), nodes[0], nodes[1])
	case Capacitor:
		return b.AddCapacitor(stmt.Name(), stmt.Value(), nodes[0], nodes[1])
	case Inductor:
		return b.AddInductor(stmt.Name(), stmt.Value(), nodes[0], nodes[1])
	case OpAmp:
		return b.AddLibraryOpAmp(stmt.Name(), stmt.Model(), nodes[0], nodes[1], nodes[2])
	}

	return fmt.Errorf("%s statement is not a component", stmt.Kind)
}
