package handlers

import (
	"context"
	"errors"
	"math"

	"github.com/danielgtaylor/huma/v2"
	"github.com/edp1096/acfit/internal/runner"
	"github.com/edp1096/acfit/internal/storage"
	"github.com/rs/zerolog/log"
)

// SimulationHandler handles simulation requests
type SimulationHandler struct {
	runner *runner.Runner
	store  storage.ArtifactStore // may be nil
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(r *runner.Runner, store storage.ArtifactStore) *SimulationHandler {
	return &SimulationHandler{runner: r, store: store}
}

// CreateSimulation runs one description and returns the response between its test nodes
func (h *SimulationHandler) CreateSimulation(ctx context.Context, req *CreateSimulationRequest) (*CreateSimulationResponse, error) {
	res, err := h.runner.Run(ctx, runner.Input{
		Circuit:  req.Body.Circuit,
		Measured: req.Body.Measured,
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, huma.Error503ServiceUnavailable("Simulation cancelled", err)
		}
		log.Warn().Err(err).Msg("Simulation failed")
		return nil, huma.Error422UnprocessableEntity(err.Error(), err)
	}

	resp := &CreateSimulationResponse{}
	resp.Body.ID = res.ID
	resp.Body.Input = res.Sweep.InputNode
	resp.Body.Output = res.Sweep.OutputNode
	resp.Body.Frequencies = res.Response.Frequencies
	resp.Body.MagnitudeDB = res.Response.DBMagnitude()
	resp.Body.PhaseDeg = res.Response.Phase()

	if !allFinite(resp.Body.MagnitudeDB) {
		return nil, huma.Error422UnprocessableEntity("Response is zero at some frequencies; check the test nodes")
	}

	resp.Body.Diagnostics = make([]string, 0, len(res.Description.Diagnostics))
	for _, d := range res.Description.Diagnostics {
		resp.Body.Diagnostics = append(resp.Body.Diagnostics, d.String())
	}

	if c := res.Comparison; c != nil {
		if !allFinite(c.MagnitudeResidual) || !allFinite(c.PhaseResidual) {
			return nil, huma.Error422UnprocessableEntity("Residuals are not finite; check the measured data")
		}
		resp.Body.Residuals = &Residuals{
			MagnitudeDB:  c.MagnitudeResidual,
			PhaseDeg:     c.PhaseResidual,
			MagnitudeRMS: c.MagnitudeRMS(),
			PhaseRMS:     c.PhaseRMS(),
		}

		if h.store != nil {
			key, err := h.runner.StoreFigure(ctx, res, h.store)
			if err != nil {
				return nil, huma.Error500InternalServerError("Failed to store figure", err)
			}
			resp.Body.FigureKey = &key
		}
	}

	log.Info().Str("run", res.ID).Int("points", len(resp.Body.Frequencies)).Msg("Simulation completed")
	return resp, nil
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}
