package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/edp1096/acfit/internal/consts"
	"github.com/edp1096/acfit/pkg/circuit"
	"github.com/edp1096/acfit/pkg/device"
	"github.com/rs/zerolog/log"
)

var ErrReservedName = errors.New("component name is reserved")

// InputType selects the stimulus applied at the input node.
type InputType int

const (
	InputVoltage InputType = iota
	InputCurrent
)

func (t InputType) String() string {
	switch t {
	case InputVoltage:
		return "voltage"
	case InputCurrent:
		return "current"
	}
	return fmt.Sprintf("InputType(%d)", int(t))
}

func ParseInputType(s string) (InputType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "voltage", "v":
		return InputVoltage, nil
	case "current", "i":
		return InputCurrent, nil
	}
	return 0, fmt.Errorf("unknown input type %q", s)
}

type ACAnalysis struct {
	BaseAnalysis
	frequencies []float64
	input       InputType
	inputNode   string
}

func NewAC(frequencies []float64, input InputType, node string) *ACAnalysis {
	return &ACAnalysis{
		BaseAnalysis: *NewBaseAnalysis(),
		frequencies:  frequencies,
		input:        input,
		inputNode:    node,
	}
}

// Setup attaches a unit stimulus between ground and the input node, then
// freezes the circuit topology.
func (ac *ACAnalysis) Setup(ckt *circuit.Circuit) error {
	var err error

	if len(ac.frequencies) == 0 {
		return fmt.Errorf("no frequencies to analyse")
	}
	for _, f := range ac.frequencies {
		if f <= 0 {
			return fmt.Errorf("invalid frequency %g", f)
		}
	}
	if consts.IsGround(ac.inputNode) {
		return fmt.Errorf("input node cannot be ground")
	}
	if !ckt.HasNode(ac.inputNode) {
		return fmt.Errorf("input node %q not found in circuit", ac.inputNode)
	}

	if _, taken := ckt.GetDevice(consts.InputSource); taken {
		return fmt.Errorf("%w: %q is the name of the analysis input source, rename the component", ErrReservedName, consts.InputSource)
	}

	ac.Circuit = ckt

	nodes := []string{ac.inputNode, consts.GroundNode}
	switch ac.input {
	case InputVoltage:
		err = ckt.AddDevice(device.NewACVoltageSource(consts.InputSource, nodes, 1, 0))
	case InputCurrent:
		nodes[0], nodes[1] = nodes[1], nodes[0]
		err = ckt.AddDevice(device.NewACCurrentSource(consts.InputSource, nodes, 1, 0))
	default:
		err = fmt.Errorf("unsupported input type %v", ac.input)
	}
	if err != nil {
		return fmt.Errorf("adding input source: %w", err)
	}

	err = ckt.Setup()
	if err != nil {
		return fmt.Errorf("circuit setup error: %w", err)
	}

	return nil
}

func (ac *ACAnalysis) Execute() error {
	if ac.Circuit == nil {
		return fmt.Errorf("circuit not set")
	}

	log.Debug().
		Str("circuit", ac.Circuit.Name()).
		Str("input", ac.input.String()).
		Str("node", ac.inputNode).
		Int("points", len(ac.frequencies)).
		Msg("Running AC analysis")

	mat := ac.Circuit.GetMatrix()
	for _, freq := range ac.frequencies {
		status := &device.CircuitStatus{Frequency: freq}

		err := mat.Clear()
		if err != nil {
			return fmt.Errorf("clearing matrix at f=%g: %w", freq, err)
		}
		err = ac.Circuit.Stamp(status)
		if err != nil {
			return fmt.Errorf("stamping error at f=%g: %w", freq, err)
		}

		err = mat.Solve()
		if err != nil {
			return fmt.Errorf("matrix solve error at f=%g: %w", freq, err)
		}

		solution := make(map[string]complex128)

		// Node voltage
		for name, nodeIdx := range ac.Circuit.GetNodeMap() {
			solution[fmt.Sprintf("V(%s)", name)] = mat.GetComplexSolution(nodeIdx)
		}

		// Branch current
		for name, bIdx := range ac.Circuit.GetBranchMap() {
			solution[fmt.Sprintf("I(%s)", name)] = mat.GetComplexSolution(bIdx)
		}

		ac.StoreACResult(freq, solution)
	}

	return nil
}

// Solution packages the stored phasors for response queries.
func (ac *ACAnalysis) Solution() *Solution {
	freqs := make([]float64, len(ac.frequencies))
	copy(freqs, ac.frequencies)

	return &Solution{
		Frequencies: freqs,
		Input:       ac.input,
		InputNode:   ac.inputNode,
		Nodes:       ac.Circuit.GetNodeNames(),
		phasors:     ac.GetPhasors(),
	}
}

// Calculate runs a small-signal AC analysis of ckt over frequencies with a
// unit stimulus of the given type applied at node.
func Calculate(ckt *circuit.Circuit, frequencies []float64, input InputType, node string) (*Solution, error) {
	var err error

	ac := NewAC(frequencies, input, node)
	err = ac.Setup(ckt)
	if err != nil {
		return nil, err
	}
	err = ac.Execute()
	if err != nil {
		return nil, err
	}

	return ac.Solution(), nil
}
