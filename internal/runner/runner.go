package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/edp1096/acfit/internal/config"
	"github.com/edp1096/acfit/internal/storage"
	"github.com/edp1096/acfit/pkg/analysis"
	"github.com/edp1096/acfit/pkg/circuit"
	"github.com/edp1096/acfit/pkg/device"
	"github.com/edp1096/acfit/pkg/fitting"
	"github.com/edp1096/acfit/pkg/netlist"
	"github.com/edp1096/acfit/pkg/plot"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot/vg"
)

var _ netlist.CircuitBuilder = (*circuit.Circuit)(nil)

// CircuitFactory creates the solver circuit for a run.
type CircuitFactory func(name string) *circuit.Circuit

type Input struct {
	Circuit  string
	Measured *string // optional lab data
}

type Result struct {
	ID          string
	Description *netlist.Description
	Sweep       *netlist.Sweep
	Solution    *analysis.Solution
	Response    *analysis.Response
	Measured    []fitting.MeasuredSample
	Comparison  *fitting.Comparison // nil without measured data
}

// Runner turns a circuit description into a simulated response and,
// with measured data, a comparison. A Runner is safe for concurrent use
// as long as its fields are not modified.
type Runner struct {
	InputType   analysis.InputType
	PlotOptions plot.Options
	NewCircuit  CircuitFactory
}

func New(models device.OpAmpLibrary) *Runner {
	return &Runner{
		InputType: analysis.InputVoltage,
		NewCircuit: func(name string) *circuit.Circuit {
			ckt := circuit.New(name)
			ckt.SetModels(models)
			return ckt
		},
	}
}

// FromConfig builds a Runner from the analysis, plot and op-amp settings.
func FromConfig(cfg *config.Config) (*Runner, error) {
	models, err := cfg.OpAmpLibrary()
	if err != nil {
		return nil, fmt.Errorf("op-amp library: %w", err)
	}
	input, err := analysis.ParseInputType(cfg.Analysis.InputType)
	if err != nil {
		return nil, err
	}

	r := New(models)
	r.InputType = input
	r.PlotOptions = plot.Options{
		Width:  vg.Length(cfg.Plot.Width) * vg.Inch,
		Height: vg.Length(cfg.Plot.Height) * vg.Inch,
	}
	return r, nil
}

// Run simulates in.Circuit and, with measured data, compares against it.
// A missing sweep or test point fails before any circuit is created.
func (r *Runner) Run(ctx context.Context, in Input) (*Result, error) {
	res, err := r.Simulate(ctx, in.Circuit)
	if err != nil {
		return nil, err
	}

	if in.Measured != nil {
		if err := r.Compare(res, strings.NewReader(*in.Measured)); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// Simulate parses, builds and runs the AC analysis. The returned Result
// has no measured data yet.
func (r *Runner) Simulate(ctx context.Context, circuitText string) (*Result, error) {
	res := &Result{ID: uuid.NewString()}
	logger := log.With().Str("run", res.ID).Logger()

	desc, err := netlist.ParseReader(strings.NewReader(circuitText))
	if err != nil {
		return nil, err
	}
	res.Description = desc

	for _, d := range desc.Diagnostics {
		logger.Warn().Int("line", d.LineNumber).Msg(d.String())
	}

	res.Sweep, err = netlist.Configure(desc)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ckt := r.NewCircuit(res.ID)
	defer ckt.Destroy()

	err = netlist.Build(desc, ckt)
	if err != nil {
		return nil, fmt.Errorf("building circuit: %w", err)
	}

	logger.Info().
		Int("components", len(desc.Components)).
		Int("points", len(res.Sweep.Frequencies)).
		Str("input", res.Sweep.InputNode).
		Str("output", res.Sweep.OutputNode).
		Msg("Running AC analysis")

	res.Solution, err = analysis.Calculate(ckt, res.Sweep.Frequencies, r.InputType, res.Sweep.InputNode)
	if err != nil {
		return nil, fmt.Errorf("AC analysis: %w", err)
	}

	res.Response, err = res.Solution.Response(res.Sweep.InputNode, res.Sweep.OutputNode)
	if err != nil {
		return nil, fmt.Errorf("response %s -> %s: %w", res.Sweep.InputNode, res.Sweep.OutputNode, err)
	}

	return res, nil
}

// Compare loads measured data and fills res.Measured and res.Comparison.
// On error res keeps its simulated response.
func (r *Runner) Compare(res *Result, measured io.Reader) error {
	samples, err := fitting.LoadMeasured(measured)
	if err != nil {
		return err
	}

	c, err := fitting.Compare(samples, res.Response)
	if err != nil {
		return err
	}
	res.Measured, res.Comparison = samples, c

	log.Info().
		Str("run", res.ID).
		Float64("magnitude_rms_db", c.MagnitudeRMS()).
		Float64("phase_rms_deg", c.PhaseRMS()).
		Msg("Compared against measured data")
	return nil
}

// Figure renders the comparison figure of a run.
func (r *Runner) Figure(res *Result) (*plot.Figure, error) {
	if res.Comparison == nil {
		return nil, fmt.Errorf("run %s has no measured data to compare", res.ID)
	}
	return plot.NewFigure(res.Comparison, r.PlotOptions)
}

// StoreFigure renders the comparison figure and saves it under
// figures/<run-id>.<ext>. It returns the key.
func (r *Runner) StoreFigure(ctx context.Context, res *Result, store storage.ArtifactStore) (string, error) {
	fig, err := r.Figure(res)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if _, err := fig.WriteTo(&buf); err != nil {
		return "", fmt.Errorf("rendering figure: %w", err)
	}

	key := storage.FigureKey(res.ID, fig.Format())
	loc, err := store.Save(ctx, key, fig.ContentType(), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return "", err
	}

	log.Info().Str("run", res.ID).Str("location", loc).Msg("Figure stored")
	return key, nil
}
