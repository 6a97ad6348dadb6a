package analysis

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/edp1096/acfit/internal/consts"
)

// Solution holds the node voltages of an AC analysis, one phasor per
// frequency point.
type Solution struct {
	Frequencies []float64
	Input       InputType
	InputNode   string
	Nodes       []string
	phasors     map[string][]complex128
}

// Voltage returns the phasors of a node. Ground yields zeros.
func (s *Solution) Voltage(node string) ([]complex128, error) {
	if consts.IsGround(node) {
		return make([]complex128, len(s.Frequencies)), nil
	}
	v, ok := s.phasors[fmt.Sprintf("V(%s)", node)]
	if !ok {
		return nil, fmt.Errorf("node %q not found in solution", node)
	}
	return v, nil
}

// Current returns the branch current phasors of a named device.
func (s *Solution) Current(name string) ([]complex128, error) {
	i, ok := s.phasors[fmt.Sprintf("I(%s)", name)]
	if !ok {
		return nil, fmt.Errorf("branch current of %q not found in solution", name)
	}
	return i, nil
}

// Response is the transfer function from source to sink. With a voltage
// input it is V(sink)/V(source); with a current input it is the
// transimpedance V(sink)/I_in and source must name the input.
func (s *Solution) Response(source, sink string) (*Response, error) {
	out, err := s.Voltage(sink)
	if err != nil {
		return nil, err
	}

	values := make([]complex128, len(out))
	switch s.Input {
	case InputVoltage:
		if consts.IsGround(source) {
			return nil, fmt.Errorf("response source cannot be ground")
		}
		in, err := s.Voltage(source)
		if err != nil {
			return nil, err
		}
		for i := range out {
			values[i] = out[i] / in[i]
		}

	case InputCurrent:
		if source != s.InputNode && source != consts.InputSource {
			return nil, fmt.Errorf("current input is applied at %q, not %q", s.InputNode, source)
		}
		// Unit stimulus
		copy(values, out)

	default:
		return nil, fmt.Errorf("unsupported input type %v", s.Input)
	}

	freqs := make([]float64, len(s.Frequencies))
	copy(freqs, s.Frequencies)

	return &Response{
		Source:      source,
		Sink:        sink,
		Frequencies: freqs,
		Values:      values,
	}, nil
}

type Response struct {
	Source      string
	Sink        string
	Frequencies []float64
	Values      []complex128
}

func (r *Response) Magnitude() []float64 {
	mag := make([]float64, len(r.Values))
	for i, v := range r.Values {
		mag[i] = cmplx.Abs(v)
	}
	return mag
}

// DBMagnitude returns 20·log10|H|. A zero response maps to -Inf.
func (r *Response) DBMagnitude() []float64 {
	db := make([]float64, len(r.Values))
	for i, v := range r.Values {
		db[i] = 20 * math.Log10(cmplx.Abs(v))
	}
	return db
}

// Phase returns the phase in degrees within (-180, 180].
func (r *Response) Phase() []float64 {
	phase := make([]float64, len(r.Values))
	for i, v := range r.Values {
		phase[i] = cmplx.Phase(v) * 180.0 / math.Pi
		if phase[i] == -180 {
			phase[i] = 180
		}
	}
	return phase
}

func (r *Response) Len() int {
	return len(r.Values)
}
