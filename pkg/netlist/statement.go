package netlist

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type Kind int

const (
	Ignored Kind = iota
	Invalid
	Resistor
	Capacitor
	Inductor
	OpAmp
	FrequencySweepKind
	TestPointKind
)

var kindNames = map[Kind]string{
	Ignored:            "ignored",
	Invalid:            "invalid",
	Resistor:           "resistor",
	Capacitor:          "capacitor",
	Inductor:           "inductor",
	OpAmp:              "op-amp",
	FrequencySweepKind: "freq",
	TestPointKind:      "test",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsComponent reports whether statements of this kind add a circuit element.
func (k Kind) IsComponent() bool {
	return k == Resistor || k == Capacitor || k == Inductor || k == OpAmp
}

// Statement is one classified line of a circuit description.
//
// Fields hold the raw tokens of the statement:
//
//	r|c|l:  [type, name, value, node1, node2]
//	op:     [op, name, model, in+, in-, out]
//	freq:   [freq, startExp, stopExp, count]
//	test:   [test, input, output]
type Statement struct {
	Kind       Kind
	Fields     []string
	Line       string
	LineNumber int
	Reason     string // set for Invalid

	sweep *FrequencySweep
	test  *TestPoint
}

func (s Statement) Name() string {
	if s.Kind.IsComponent() {
		return s.Fields[1]
	}
	return ""
}

// Value is the unparsed component value, e.g. "1k".
func (s Statement) Value() string {
	switch s.Kind {
	case Resistor, Capacitor, Inductor:
		return s.Fields[2]
	}
	return ""
}

func (s Statement) Model() string {
	if s.Kind == OpAmp {
		return s.Fields[2]
	}
	return ""
}

func (s Statement) Nodes() []string {
	switch s.Kind {
	case Resistor, Capacitor, Inductor:
		return s.Fields[3:5]
	case OpAmp:
		return s.Fields[3:6]
	case TestPointKind:
		return s.Fields[1:3]
	}
	return nil
}

func (s Statement) Sweep() *FrequencySweep {
	return s.sweep
}

func (s Statement) TestPoint() *TestPoint {
	return s.test
}

// Sweep limits. Larger counts would allocate unbounded memory and
// exponents outside the range overflow or underflow float64.
const (
	MaxPointCount = 1000000
	MinExponent   = -300
	MaxExponent   = 300
)

// FrequencySweep is a log-spaced sweep from 10^StartExponent to
// 10^StopExponent Hz.
type FrequencySweep struct {
	StartExponent int
	StopExponent  int
	PointCount    int
}

// Valid reports whether the sweep can be generated.
func (f FrequencySweep) Valid() bool {
	return f.PointCount >= 1 && f.PointCount <= MaxPointCount &&
		f.StartExponent >= MinExponent && f.StopExponent <= MaxExponent &&
		f.StartExponent <= f.StopExponent
}

// Frequencies returns PointCount log-spaced points, both endpoints included.
// An invalid sweep yields nil.
func (f FrequencySweep) Frequencies() []float64 {
	if !f.Valid() {
		return nil
	}
	start := math.Pow(10, float64(f.StartExponent))
	if f.PointCount == 1 {
		return []float64{start}
	}

	stop := math.Pow(10, float64(f.StopExponent))
	freqs := make([]float64, f.PointCount)
	floats.LogSpan(freqs, start, stop)
	// exp(log(x)) is not exact
	freqs[0], freqs[len(freqs)-1] = start, stop
	return freqs
}

func (f FrequencySweep) String() string {
	return fmt.Sprintf("freq %d %d %d", f.StartExponent, f.StopExponent, f.PointCount)
}

type TestPoint struct {
	InputNode  string
	OutputNode string
}

// Diagnostic reports a line that was skipped because it was malformed.
type Diagnostic struct {
	LineNumber int
	Line       string
	Reason     string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("Ignoring line: %s (%s)", d.Line, d.Reason)
}

// Description is the parsed form of a whole circuit description.
type Description struct {
	Components  []Statement
	Sweep       *FrequencySweep
	TestPoint   *TestPoint
	Diagnostics []Diagnostic
}
