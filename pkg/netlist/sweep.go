package netlist

import (
	"errors"
)

var (
	ErrNoFrequencySweep = errors.New("no valid frequency sweep (freq <start> <stop> <count>) defined")
	ErrNoTestPoint      = errors.New("no valid test point (test <input> <output>) defined")
)

// Sweep is everything the analysis needs besides the circuit itself.
type Sweep struct {
	Frequencies []float64
	InputNode   string
	OutputNode  string
}

// Configure derives the analysis sweep from d. A missing sweep or test
// point is fatal to a run.
func Configure(d *Description) (*Sweep, error) {
	if d.Sweep == nil || !d.Sweep.Valid() {
		return nil, ErrNoFrequencySweep
	}
	if d.TestPoint == nil {
		return nil, ErrNoTestPoint
	}

	return &Sweep{
		Frequencies: d.Sweep.Frequencies(),
		InputNode:   d.TestPoint.InputNode,
		OutputNode:  d.TestPoint.OutputNode,
	}, nil
}
