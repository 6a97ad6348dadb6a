package analysis

import (
	"math"
	"math/cmplx"

	"github.com/edp1096/acfit/pkg/circuit"
)

type Analysis interface {
	Setup(ckt *circuit.Circuit) error
	Execute() error
	GetResults() map[string][]float64
}

type BaseAnalysis struct {
	Circuit *circuit.Circuit
	results map[string][]float64    // key: variable name, value: result by frequency
	phasors map[string][]complex128 // raw complex values, same keys without suffix
}

func NewBaseAnalysis() *BaseAnalysis {
	return &BaseAnalysis{
		results: make(map[string][]float64),
		phasors: make(map[string][]complex128),
	}
}

func (a *BaseAnalysis) StoreACResult(freq float64, solution map[string]complex128) {
	// Frequency
	a.results["FREQ"] = append(a.results["FREQ"], freq)

	for name, value := range solution {
		a.phasors[name] = append(a.phasors[name], value)

		// Magnitude
		magName := name + "_MAG"
		a.results[magName] = append(a.results[magName], cmplx.Abs(value))

		// Phase - degree
		phaseName := name + "_PHASE"
		a.results[phaseName] = append(a.results[phaseName], cmplx.Phase(value)*180.0/math.Pi)
	}
}

func (a *BaseAnalysis) GetResults() map[string][]float64 {
	return a.results
}

func (a *BaseAnalysis) GetPhasors() map[string][]complex128 {
	return a.phasors
}
