package netlist

import (
	"math"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestParsingLine(t *testing.T) {
	Convey("Given a well-formed component line", t, func() {
		stmt := ParseLine("  r R1 1k n1 n2  ")

		Convey("It should be a resistor with verbatim fields", func() {
			So(stmt.Kind, ShouldEqual, Resistor)
			So(stmt.Name(), ShouldEqual, "R1")
			So(stmt.Value(), ShouldEqual, "1k")
			So(stmt.Nodes(), ShouldResemble, []string{"n1", "n2"})
			So(stmt.Line, ShouldEqual, "r R1 1k n1 n2")
		})
	})

	Convey("Given an op-amp line", t, func() {
		stmt := ParseLine("op op1 ad829 gnd n2 n3")

		Convey("It should carry model and three nodes", func() {
			So(stmt.Kind, ShouldEqual, OpAmp)
			So(stmt.Name(), ShouldEqual, "op1")
			So(stmt.Model(), ShouldEqual, "ad829")
			So(stmt.Nodes(), ShouldResemble, []string{"gnd", "n2", "n3"})
		})
	})

	Convey("Given component lines with extra tokens", t, func() {
		Convey("The extra tokens are dropped", func() {
			So(ParseLine("c C1 5p n2 gnd # load").Fields, ShouldResemble, []string{"c", "C1", "5p", "n2", "gnd"})
			So(ParseLine("op U1 OP27 a b c d").Fields, ShouldHaveLength, 6)
		})
	})

	Convey("Given component lines that are too short", t, func() {
		Convey("They should be invalid with a reason", func() {
			op := ParseLine("op op1 ad829 gnd n2")
			So(op.Kind, ShouldEqual, Invalid)
			So(op.Reason, ShouldEqual, "Invalid format for op-amp")

			r := ParseLine("r R1 1k n1")
			So(r.Kind, ShouldEqual, Invalid)
			So(r.Reason, ShouldEqual, "Invalid format for resistor/capacitor/inductor")

			So(ParseLine("l").Kind, ShouldEqual, Invalid)
		})
	})

	Convey("Given prefixed lines whose first token is not a keyword", t, func() {
		Convey("They should be ignored", func() {
			So(ParseLine("opamp U1 AD829 a b c").Kind, ShouldEqual, Ignored)
			So(ParseLine("res R1 1k n1 n2").Kind, ShouldEqual, Ignored)
		})
	})

	Convey("Given freq lines", t, func() {
		Convey("A well-formed one is a sweep", func() {
			stmt := ParseLine("freq -2 5 100")
			So(stmt.Kind, ShouldEqual, FrequencySweepKind)
			So(*stmt.Sweep(), ShouldResemble, FrequencySweep{StartExponent: -2, StopExponent: 5, PointCount: 100})
		})

		Convey("Malformed ones are silently ignored", func() {
			for _, line := range []string{
				"freq 1 2",
				"freq 1 2 3 4",
				"freq a 2 3",
				"freq 1 2 0",
				"freq 3 1 10",
				"frequency 1 2 3",
				"freq 1.5 2 3",
				"freq 0 1 1000001",
				"freq 0 1 9000000000000000000",
				"freq 0 400 10",
				"freq -400 0 10",
			} {
				So(ParseLine(line).Kind, ShouldEqual, Ignored)
			}
		})
	})

	Convey("Given test lines", t, func() {
		Convey("Exactly three tokens make a test point", func() {
			stmt := ParseLine("test n1 n3")
			So(stmt.Kind, ShouldEqual, TestPointKind)
			So(*stmt.TestPoint(), ShouldResemble, TestPoint{InputNode: "n1", OutputNode: "n3"})
		})

		Convey("Anything else is ignored", func() {
			So(ParseLine("test n1").Kind, ShouldEqual, Ignored)
			So(ParseLine("test n1 n2 n3").Kind, ShouldEqual, Ignored)
			So(ParseLine("testing n1 n2").Kind, ShouldEqual, Ignored)
		})
	})

	Convey("Given comments, blanks and unknown prefixes", t, func() {
		Convey("They are ignored", func() {
			So(ParseLine("").Kind, ShouldEqual, Ignored)
			So(ParseLine("# comment").Kind, ShouldEqual, Ignored)
			So(ParseLine("v V1 1 n1 gnd").Kind, ShouldEqual, Ignored)
			So(ParseLine("R R1 1k n1 n2").Kind, ShouldEqual, Ignored)
		})
	})
}

func TestParsingDescription(t *testing.T) {
	Convey("Given the round-trip description", t, func() {
		d := Parse("r R1 1k n1 n2\nc C1 5p n2 gnd\nfreq -2 5 100\ntest n1 n2\n")

		Convey("It should hold two components, a sweep and a test point", func() {
			So(d.Components, ShouldHaveLength, 2)
			So(d.Components[0].Kind, ShouldEqual, Resistor)
			So(d.Components[0].LineNumber, ShouldEqual, 1)
			So(d.Components[1].Kind, ShouldEqual, Capacitor)
			So(d.Components[1].LineNumber, ShouldEqual, 2)
			So(*d.Sweep, ShouldResemble, FrequencySweep{StartExponent: -2, StopExponent: 5, PointCount: 100})
			So(*d.TestPoint, ShouldResemble, TestPoint{InputNode: "n1", OutputNode: "n2"})
			So(d.Diagnostics, ShouldBeEmpty)
		})
	})

	Convey("Given short component lines", t, func() {
		d := Parse("r R1 1k\nop U1 AD829 a b\nr R2 1k a b")

		Convey("Each yields exactly one diagnostic and no statement", func() {
			So(d.Components, ShouldHaveLength, 1)
			So(d.Diagnostics, ShouldHaveLength, 2)
			So(d.Diagnostics[0].String(), ShouldEqual, "Ignoring line: r R1 1k (Invalid format for resistor/capacitor/inductor)")
			So(d.Diagnostics[1].LineNumber, ShouldEqual, 2)
			So(d.Diagnostics[1].String(), ShouldEqual, "Ignoring line: op U1 AD829 a b (Invalid format for op-amp)")
		})
	})

	Convey("Given several freq and test lines", t, func() {
		d := Parse("freq 1 2\nfreq 0 3 4\nfreq 1 6 7\ntest a\ntest a b\ntest c d")

		Convey("The first well-formed ones win", func() {
			So(d.Sweep.PointCount, ShouldEqual, 4)
			So(d.TestPoint.InputNode, ShouldEqual, "a")
			So(d.TestPoint.OutputNode, ShouldEqual, "b")
		})
	})

	Convey("Given a reader", t, func() {
		d, err := ParseReader(strings.NewReader("l L1 10u a b\r\ntest a b\r\n"))

		Convey("Lines are parsed the same way", func() {
			So(err, ShouldBeNil)
			So(d.Components, ShouldHaveLength, 1)
			So(d.Components[0].Nodes(), ShouldResemble, []string{"a", "b"})
			So(d.TestPoint, ShouldNotBeNil)
		})
	})
}

func TestFrequencies(t *testing.T) {
	Convey("Given a sweep from 10^-2 to 10^5 with 100 points", t, func() {
		freqs := FrequencySweep{StartExponent: -2, StopExponent: 5, PointCount: 100}.Frequencies()

		Convey("It should be log-spaced and non-decreasing with exact endpoints", func() {
			So(freqs, ShouldHaveLength, 100)
			So(freqs[0], ShouldEqual, 1e-2)
			So(freqs[99], ShouldEqual, 1e5)
			for i := 1; i < len(freqs); i++ {
				So(freqs[i], ShouldBeGreaterThanOrEqualTo, freqs[i-1])
			}
			ratio := freqs[1] / freqs[0]
			So(freqs[50]/freqs[49], ShouldAlmostEqual, ratio, 1e-9)
			So(ratio, ShouldAlmostEqual, math.Pow(10, 7.0/99), 1e-9)
		})
	})

	Convey("Given a single-point sweep", t, func() {
		Convey("It yields the start frequency", func() {
			So(FrequencySweep{StartExponent: 3, StopExponent: 3, PointCount: 1}.Frequencies(), ShouldResemble, []float64{1e3})
			So(FrequencySweep{StartExponent: 1, StopExponent: 4, PointCount: 1}.Frequencies(), ShouldResemble, []float64{10})
		})
	})

	Convey("Given a sweep outside the limits", t, func() {
		Convey("It yields nothing instead of allocating", func() {
			So(FrequencySweep{StartExponent: 0, StopExponent: 1, PointCount: math.MaxInt}.Frequencies(), ShouldBeNil)
			So(FrequencySweep{StartExponent: 0, StopExponent: 1, PointCount: MaxPointCount + 1}.Frequencies(), ShouldBeNil)
			So(FrequencySweep{StartExponent: 0, StopExponent: 1, PointCount: MaxPointCount}.Valid(), ShouldBeTrue)
		})
	})
}
