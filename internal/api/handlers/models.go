package handlers

// CreateSimulationRequest carries a circuit description and optional lab data
type CreateSimulationRequest struct {
	Body struct {
		Circuit  string  `json:"circuit" minLength:"1" required:"true" doc:"Circuit description (r/c/l/op/freq/test lines)"`
		Measured *string `json:"measured,omitempty" required:"false" doc:"Measured data rows: frequency magnitude_dB phase_deg"`
	}
}

// Residuals summarises a comparison against measured data
type Residuals struct {
	MagnitudeDB  []float64 `json:"magnitude_db" doc:"Measured minus simulated magnitude in dB"`
	PhaseDeg     []float64 `json:"phase_deg" doc:"Measured minus simulated phase in degrees"`
	MagnitudeRMS float64   `json:"magnitude_rms" doc:"RMS of the magnitude residual"`
	PhaseRMS     float64   `json:"phase_rms" doc:"RMS of the phase residual"`
}

// CreateSimulationResponse is the simulated response between the test nodes
type CreateSimulationResponse struct {
	Body struct {
		ID          string     `json:"id" doc:"Run identifier"`
		Input       string     `json:"input" doc:"Input node"`
		Output      string     `json:"output" doc:"Output node"`
		Frequencies []float64  `json:"frequencies" doc:"Frequencies in Hz"`
		MagnitudeDB []float64  `json:"magnitude_db" doc:"Simulated magnitude in dB"`
		PhaseDeg    []float64  `json:"phase_deg" doc:"Simulated phase in degrees"`
		Diagnostics []string   `json:"diagnostics" doc:"Skipped description lines"`
		Residuals   *Residuals `json:"residuals,omitempty" doc:"Present when measured data was supplied"`
		FigureKey   *string    `json:"figure_key,omitempty" doc:"Storage key of the comparison figure"`
	}
}
