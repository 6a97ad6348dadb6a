package matrix

import (
	"fmt"

	"github.com/edp1096/sparse"
	"github.com/rs/zerolog/log"
)

// CircuitMatrix is a complex MNA system with 1-based row/column indexing.
// Index 0 is the ground row and is never stored.
type CircuitMatrix struct {
	Size     int
	matrix   *sparse.Matrix
	rhs      []float64 // interleaved: rhs[2*i] real, rhs[2*i+1] imag
	solution []float64
	config   *sparse.Configuration
}

func NewMatrix(size int) (*CircuitMatrix, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid matrix size: %d", size)
	}

	config := &sparse.Configuration{
		Real:                    true,
		Complex:                 true,
		SeparatedComplexVectors: false,
		Expandable:              true,
		Translate:               false,
		ModifiedNodal:           true,
		TiesMultiplier:          5,
		PrinterWidth:            140,
		Annotate:                0,
	}

	m := &CircuitMatrix{
		Size:   size,
		config: config,
		rhs:    make([]float64, 2*(size+1)),
	}
	if err := m.create(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *CircuitMatrix) create() error {
	mat, err := sparse.Create(int64(m.Size), m.config)
	if err != nil {
		return fmt.Errorf("creating sparse matrix: %w", err)
	}

	// Diagonals always exist so pivot search never meets a missing one.
	for i := 1; i <= m.Size; i++ {
		mat.GetElement(int64(i), int64(i))
	}
	m.matrix = mat

	return nil
}

func (m *CircuitMatrix) AddElement(i, j int, value float64) {
	m.AddComplexElement(i, j, value, 0)
}

func (m *CircuitMatrix) AddComplexElement(i, j int, real, imag float64) {
	if i <= 0 || j <= 0 || i > m.Size || j > m.Size {
		log.Warn().Int("i", i).Int("j", j).Int("size", m.Size).Msg("Matrix index out of bounds")
		return
	}

	element := m.matrix.GetElement(int64(i), int64(j))
	element.Real += real
	element.Imag += imag
}

func (m *CircuitMatrix) AddRHS(i int, value float64) {
	m.AddComplexRHS(i, value, 0)
}

func (m *CircuitMatrix) AddComplexRHS(i int, real, imag float64) {
	if i <= 0 || i > m.Size {
		log.Warn().Int("i", i).Int("size", m.Size).Msg("RHS index out of bounds")
		return
	}

	m.rhs[2*i] += real
	m.rhs[2*i+1] += imag
}

// Clear drops all stamps. The sparse matrix is rebuilt so the pivot order
// is chosen again for every frequency point.
func (m *CircuitMatrix) Clear() error {
	if m.matrix != nil {
		m.matrix.Destroy()
	}
	for i := range m.rhs {
		m.rhs[i] = 0
	}
	m.solution = nil

	return m.create()
}

func (m *CircuitMatrix) Solve() error {
	var err error

	err = m.matrix.Factor()
	if err != nil {
		return fmt.Errorf("matrix factorization failed: %w", err)
	}

	m.solution, _, err = m.matrix.SolveComplex(m.rhs, nil)
	if err != nil {
		return fmt.Errorf("matrix solve failed: %w", err)
	}

	return nil
}

func (m *CircuitMatrix) GetComplexSolution(i int) complex128 {
	if i <= 0 || i > m.Size || m.solution == nil {
		return 0
	}
	return complex(m.solution[2*i], m.solution[2*i+1])
}

func (m *CircuitMatrix) RHS() []float64 {
	return m.rhs
}

func (m *CircuitMatrix) Destroy() {
	if m.matrix != nil {
		m.matrix.Destroy()
		m.matrix = nil
	}
}
