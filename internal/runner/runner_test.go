package runner

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/edp1096/acfit/internal/config"
	"github.com/edp1096/acfit/internal/storage"
	"github.com/edp1096/acfit/pkg/circuit"
	"github.com/edp1096/acfit/pkg/device"
	"github.com/edp1096/acfit/pkg/fitting"
	"github.com/edp1096/acfit/pkg/netlist"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rcCircuit = `# first-order low-pass
r R1 1k in out
c C1 1u out gnd
freq 0 4 9
test in out
`

// AD829 two-stage filter
const twoStage = `op op1 AD829 n4 n2 n5
r r1 1k n1 n2
r r2 1k n3 n4
r r3 1k n4 gnd
r r4 1k n2 n5
c c1 5p n2 n5
c c2 5p gnd n4
op op2 AD829 gnd n7 n8
r r5 1k n5 n6
r r6 100k n5 n7
r r7 1k n7 n8
c c3 2.2n n6 n7
c c4 5p n7 n8
freq -2 5 100
test n1 n8
`

func spyRunner(calls *int) *Runner {
	r := New(device.DefaultOpAmpLibrary())
	next := r.NewCircuit
	r.NewCircuit = func(name string) *circuit.Circuit {
		*calls++
		return next(name)
	}
	return r
}

func TestMissingSweepAbortsBeforeSolver(t *testing.T) {
	calls := 0
	r := spyRunner(&calls)

	_, err := r.Run(context.Background(), Input{Circuit: "r R1 1k a b\ntest a b\nfreq 1 2"})
	assert.ErrorIs(t, err, netlist.ErrNoFrequencySweep)

	_, err = r.Run(context.Background(), Input{Circuit: "r R1 1k a b\nfreq 1 2 3"})
	assert.ErrorIs(t, err, netlist.ErrNoTestPoint)

	// An oversized sweep is dropped like any malformed freq line.
	_, err = r.Run(context.Background(), Input{Circuit: "r R1 1k a gnd\nfreq 0 1 9000000000000000000\ntest a a"})
	assert.ErrorIs(t, err, netlist.ErrNoFrequencySweep)

	assert.Zero(t, calls)
}

func TestRunLowPass(t *testing.T) {
	calls := 0
	r := spyRunner(&calls)

	res, err := r.Run(context.Background(), Input{Circuit: rcCircuit})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)

	_, err = uuid.Parse(res.ID)
	assert.NoError(t, err)
	assert.Len(t, res.Description.Components, 2)
	assert.Len(t, res.Sweep.Frequencies, 9)
	assert.Nil(t, res.Comparison)
	assert.Nil(t, res.Measured)

	db := res.Response.DBMagnitude()
	require.Len(t, db, 9)
	assert.InDelta(t, 0, db[0], 0.01)
	// 10 kHz is about 36 dB above the 159 Hz corner
	assert.InDelta(t, -36, db[8], 0.1)
}

func TestRunWithMeasuredData(t *testing.T) {
	r := New(device.DefaultOpAmpLibrary())

	var sb strings.Builder
	sb.WriteString("# f mag phase\n")
	for i := 0; i < 9; i++ {
		f := math.Pow(10, float64(i)/2)
		fmt.Fprintf(&sb, "%g %g %g\n", f, -1.0, -10.0)
	}
	measured := sb.String()

	res, err := r.Run(context.Background(), Input{Circuit: rcCircuit, Measured: &measured})
	require.NoError(t, err)
	require.NotNil(t, res.Comparison)
	assert.Len(t, res.Measured, 9)
	assert.Len(t, res.Comparison.MagnitudeResidual, 9)
	assert.InDelta(t, -1-res.Comparison.Simulated.MagnitudeDB[0], res.Comparison.MagnitudeResidual[0], 1e-9)

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)
	key, err := r.StoreFigure(context.Background(), res, store)
	require.NoError(t, err)
	assert.Equal(t, "figures/"+res.ID+".png", key)
}

func TestRunLengthMismatch(t *testing.T) {
	r := New(device.DefaultOpAmpLibrary())
	measured := "1 0 0\n10 0 0\n"

	_, err := r.Run(context.Background(), Input{Circuit: rcCircuit, Measured: &measured})
	assert.ErrorIs(t, err, fitting.ErrLengthMismatch)

	// The simulated response survives a failed comparison.
	res, err := r.Simulate(context.Background(), rcCircuit)
	require.NoError(t, err)
	err = r.Compare(res, strings.NewReader(measured))
	assert.ErrorIs(t, err, fitting.ErrLengthMismatch)
	assert.NotNil(t, res.Response)
	assert.Nil(t, res.Comparison)
}

func TestRunReportsDiagnosticsAndSkipsLines(t *testing.T) {
	r := New(device.DefaultOpAmpLibrary())

	res, err := r.Run(context.Background(), Input{Circuit: "r R9 1k\n" + rcCircuit})
	require.NoError(t, err)
	require.Len(t, res.Description.Diagnostics, 1)
	assert.Equal(t, 1, res.Description.Diagnostics[0].LineNumber)
	assert.Len(t, res.Description.Components, 2)
}

func TestRunSolverErrors(t *testing.T) {
	r := New(device.DefaultOpAmpLibrary())

	_, err := r.Run(context.Background(), Input{Circuit: "r R1 1q a b\nfreq 0 1 2\ntest a b"})
	assert.ErrorContains(t, err, "line 1")

	_, err = r.Run(context.Background(), Input{Circuit: "op U1 LM000 a b c\nfreq 0 1 2\ntest a c"})
	assert.ErrorContains(t, err, "LM000")

	_, err = r.Run(context.Background(), Input{Circuit: "r R1 1k a b\nfreq 0 1 2\ntest x b"})
	assert.Error(t, err)

	_, err = r.Run(context.Background(), Input{Circuit: "r R1 1k a b\nfreq 0 1 2\ntest a y"})
	assert.Error(t, err)
}

func TestRunTwoStageFilter(t *testing.T) {
	r := New(device.DefaultOpAmpLibrary())

	res, err := r.Run(context.Background(), Input{Circuit: twoStage})
	require.NoError(t, err)
	assert.Len(t, res.Response.Values, 100)
	for _, db := range res.Response.DBMagnitude() {
		assert.False(t, math.IsNaN(db))
	}
}

func TestRunCancelled(t *testing.T) {
	calls := 0
	r := spyRunner(&calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Run(ctx, Input{Circuit: rcCircuit})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestFromConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile(filepath.Join(".", "acfit.yaml"), []byte("analysis:\n  input_type: current\n"), 0o644))

	cfg, err := config.Load("", nil)
	require.NoError(t, err)

	r, err := FromConfig(cfg)
	require.NoError(t, err)

	res, err := r.Run(context.Background(), Input{Circuit: "r R1 1k in gnd\nfreq 1 1 1\ntest in in"})
	require.NoError(t, err)
	assert.InDelta(t, 60, res.Response.DBMagnitude()[0], 1e-6)

	cfg.Analysis.InputType = "bogus"
	_, err = FromConfig(cfg)
	assert.Error(t, err)
}

func TestFigureWithoutMeasuredData(t *testing.T) {
	r := New(device.DefaultOpAmpLibrary())
	res, err := r.Run(context.Background(), Input{Circuit: rcCircuit})
	require.NoError(t, err)

	_, err = r.Figure(res)
	assert.Error(t, err)
}
