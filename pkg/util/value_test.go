package util

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"1k", 1e3},
		{"5p", 5e-12},
		{"2.2nF", 2.2e-9},
		{"10meg", 10e6},
		{"1M", 1e6},
		{"3m", 3e-3},
		{"4.7u", 4.7e-6},
		{"4.7µ", 4.7e-6},
		{"100", 100},
		{"1e3", 1e3},
		{"-2.5", -2.5},
		{"50Ohm", 50},
		{"1mH", 1e-3},
		{"1G", 1e9},
		{"3f", 3e-15},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseValue(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, math.Abs(tt.want)*1e-12)
		})
	}
}

func TestParseValueInvalid(t *testing.T) {
	for _, in := range []string{"", "k", "1x", "abc", "1kk"} {
		_, err := ParseValue(in)
		assert.Error(t, err, in)
	}
}

func TestFormatters(t *testing.T) {
	assert.Equal(t, "  1.000 kHz", FormatFrequency(1e3))
	assert.Equal(t, " 10.000 mHz", FormatFrequency(0.01))
	assert.Equal(t, "    -inf", FormatDecibel(math.Inf(-1)))
	assert.Equal(t, "out=  -20.00dB<  90.0deg", FormatMagnitudePhase("out", -20, 90))
	assert.Equal(t, "4.700 kOhm", FormatValueFactor(4700, "Ohm"))
}
