package main

import (
	"fmt"
	"io"

	"github.com/edp1096/acfit/internal/runner"
	"github.com/edp1096/acfit/pkg/util"
)

func printResults(w io.Writer, res *runner.Result) {
	resp := res.Response
	db := resp.DBMagnitude()
	phase := resp.Phase()

	fmt.Fprintln(w, "\nAnalysis Results:")
	fmt.Fprintln(w, "================")
	fmt.Fprintf(w, "\nAC Analysis Results (%d frequency points), H = V(%s)/V(%s):\n", resp.Len(), resp.Sink, resp.Source)

	c := res.Comparison
	if c == nil {
		fmt.Fprintln(w, "Frequency      Response (dB/Phase)")
		fmt.Fprintln(w, "----------------------------------------")
	} else {
		fmt.Fprintln(w, "Frequency      Response (dB/Phase)          Measured (dB/Phase)          Residual (dB/Phase)")
		fmt.Fprintln(w, "--------------------------------------------------------------------------------------------")
	}

	for i, freq := range resp.Frequencies {
		fmt.Fprintf(w, "%-13s", util.FormatFrequency(freq))
		fmt.Fprintf(w, "  %s", util.FormatMagnitudePhase("H", db[i], phase[i]))
		if c != nil {
			fmt.Fprintf(w, "  %s", util.FormatMagnitudePhase("M", c.Measured.MagnitudeDB[i], c.Measured.PhaseDeg[i]))
			fmt.Fprintf(w, "  %s", util.FormatMagnitudePhase("R", c.MagnitudeResidual[i], c.PhaseResidual[i]))
		}
		fmt.Fprintln(w)
	}

	if c != nil {
		fmt.Fprintf(w, "\nResidual RMS: %s dB, %s deg (max %s dB, %s deg)\n",
			util.FormatDecibel(c.MagnitudeRMS()), util.FormatPhase(c.PhaseRMS()),
			util.FormatDecibel(c.MagnitudeMaxAbs()), util.FormatPhase(c.PhaseMaxAbs()))
	}
}
