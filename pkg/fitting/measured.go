package fitting

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// MeasuredSample is one row of lab data.
type MeasuredSample struct {
	Frequency    float64
	MagnitudeDB  float64
	PhaseDegrees float64
}

// LoadMeasured reads "<frequency> <magnitude dB> <phase deg>" rows.
// Comments (#) and blank lines are skipped, rows with another field count
// are dropped silently and rows that are not numeric (NaN and Inf
// included) are dropped with a warning. Only read errors are returned.
func LoadMeasured(r io.Reader) ([]MeasuredSample, error) {
	samples := make([]MeasuredSample, 0)

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Fields(line)
		if len(parts) != 3 {
			continue
		}

		var values [3]float64
		var err error
		for i, part := range parts {
			values[i], err = strconv.ParseFloat(part, 64)
			if err == nil && (math.IsNaN(values[i]) || math.IsInf(values[i], 0)) {
				err = fmt.Errorf("non-finite value %q", part)
			}
			if err != nil {
				break
			}
		}
		if err != nil {
			log.Warn().Err(err).Int("line", lineNumber).Str("content", line).Msg("Skipping measured data row")
			continue
		}

		samples = append(samples, MeasuredSample{
			Frequency:    values[0],
			MagnitudeDB:  values[1],
			PhaseDegrees: values[2],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading measured data: %w", err)
	}

	return samples, nil
}

func LoadMeasuredFile(path string) ([]MeasuredSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening measured data: %w", err)
	}
	defer f.Close()

	return LoadMeasured(f)
}

func Frequencies(samples []MeasuredSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Frequency
	}
	return out
}

func Magnitudes(samples []MeasuredSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.MagnitudeDB
	}
	return out
}

func Phases(samples []MeasuredSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.PhaseDegrees
	}
	return out
}
