package device

import (
	"fmt"
	"math"
	"math/cmplx"
	"sort"
	"strings"
)

// OpAmpModel is the small-signal description of an op-amp's open-loop gain.
type OpAmpModel struct {
	Name  string
	A0    float64   // DC open-loop gain (V/V)
	GBW   float64   // Gain-bandwidth product (Hz)
	Delay float64   // Pure delay (s)
	Poles []float64 // Extra real poles (Hz)
	Zeros []float64 // Extra real zeros (Hz)
}

// Gain returns A(jω) at frequency f.
//
//	A(f) = A0 / (1 + j f A0/GBW) · exp(-j2πf·Delay) · Π(1 + jf/z) / Π(1 + jf/p)
func (m OpAmpModel) Gain(f float64) complex128 {
	gain := complex(m.A0, 0)
	if m.GBW > 0 {
		gain /= complex(1, f*m.A0/m.GBW)
	}
	if m.Delay != 0 {
		gain *= cmplx.Exp(complex(0, -2*math.Pi*f*m.Delay))
	}
	for _, z := range m.Zeros {
		gain *= complex(1, f/z)
	}
	for _, p := range m.Poles {
		gain /= complex(1, f/p)
	}
	return gain
}

func (m OpAmpModel) Validate() error {
	if m.A0 <= 0 {
		return fmt.Errorf("op-amp model %s: a0 must be positive", m.Name)
	}
	if m.GBW < 0 || m.Delay < 0 {
		return fmt.Errorf("op-amp model %s: gbw and delay must not be negative", m.Name)
	}
	for _, f := range append(append([]float64{}, m.Poles...), m.Zeros...) {
		if f <= 0 {
			return fmt.Errorf("op-amp model %s: pole/zero frequencies must be positive", m.Name)
		}
	}
	return nil
}

// OpAmpLibrary maps upper-cased model names to models.
type OpAmpLibrary map[string]OpAmpModel

// Typical datasheet figures.
var builtinOpAmps = []OpAmpModel{
	{Name: "AD797", A0: 2e7, GBW: 110e6, Delay: 2e-9},
	{Name: "AD829", A0: 1e5, GBW: 500e6, Delay: 1e-9},
	{Name: "LF356", A0: 2e5, GBW: 5e6, Delay: 20e-9},
	{Name: "LT1124", A0: 1.5e7, GBW: 12.5e6, Delay: 10e-9},
	{Name: "NE5534", A0: 1e5, GBW: 10e6, Delay: 10e-9},
	{Name: "OP07", A0: 5e5, GBW: 0.6e6, Delay: 0},
	{Name: "OP27", A0: 1.8e6, GBW: 8e6, Delay: 10e-9},
	{Name: "TL071", A0: 2e5, GBW: 3e6, Delay: 20e-9},
}

// DefaultOpAmpLibrary returns a fresh copy of the built-in models.
func DefaultOpAmpLibrary() OpAmpLibrary {
	lib := make(OpAmpLibrary, len(builtinOpAmps))
	for _, m := range builtinOpAmps {
		lib[m.Name] = m
	}
	return lib
}

// Add registers or replaces a model.
func (lib OpAmpLibrary) Add(m OpAmpModel) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.Name = strings.ToUpper(m.Name)
	lib[m.Name] = m
	return nil
}

func (lib OpAmpLibrary) Get(name string) (OpAmpModel, error) {
	m, ok := lib[strings.ToUpper(name)]
	if !ok {
		return OpAmpModel{}, fmt.Errorf("op-amp model %q not found in library", name)
	}
	return m, nil
}

func (lib OpAmpLibrary) Names() []string {
	names := make([]string, 0, len(lib))
	for name := range lib {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
