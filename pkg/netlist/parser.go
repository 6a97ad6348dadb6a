package netlist

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

const (
	reasonOpAmp     = "Invalid format for op-amp"
	reasonComponent = "Invalid format for resistor/capacitor/inductor"
)

var componentKinds = map[string]Kind{
	"r":  Resistor,
	"c":  Capacitor,
	"l":  Inductor,
	"op": OpAmp,
}

// ParseLine classifies a single line. Prefixes are matched case-sensitively
// in the order op, r/c/l, freq, test.
func ParseLine(line string) Statement {
	line = strings.TrimSpace(line)
	stmt := Statement{Kind: Ignored, Line: line}
	tokens := strings.Fields(line)

	switch {
	case strings.HasPrefix(line, "op"):
		return parseComponent(stmt, tokens, "op", 6, reasonOpAmp)

	case strings.HasPrefix(line, "r"):
		return parseComponent(stmt, tokens, "r", 5, reasonComponent)
	case strings.HasPrefix(line, "c"):
		return parseComponent(stmt, tokens, "c", 5, reasonComponent)
	case strings.HasPrefix(line, "l"):
		return parseComponent(stmt, tokens, "l", 5, reasonComponent)

	case strings.HasPrefix(line, "freq"):
		return parseFreq(stmt, tokens)

	case strings.HasPrefix(line, "test"):
		return parseTest(stmt, tokens)
	}

	return stmt
}

func parseComponent(stmt Statement, tokens []string, keyword string, minTokens int, reason string) Statement {
	if len(tokens) < minTokens {
		stmt.Kind = Invalid
		stmt.Reason = reason
		return stmt
	}
	// e.g. "resistor R1 ..." or "opamp ..."
	if tokens[0] != keyword {
		return stmt
	}

	stmt.Kind = componentKinds[keyword]
	stmt.Fields = tokens[:minTokens]
	return stmt
}

// parseFreq never reports; a malformed sweep is dropped silently.
func parseFreq(stmt Statement, tokens []string) Statement {
	if len(tokens) != 4 || tokens[0] != "freq" {
		return stmt
	}

	values := make([]int, 3)
	for i, tok := range tokens[1:] {
		v, err := strconv.Atoi(tok)
		if err != nil {
			return stmt
		}
		values[i] = v
	}

	sweep := &FrequencySweep{
		StartExponent: values[0],
		StopExponent:  values[1],
		PointCount:    values[2],
	}
	if !sweep.Valid() {
		return stmt
	}

	stmt.Kind = FrequencySweepKind
	stmt.Fields = tokens
	stmt.sweep = sweep
	return stmt
}

func parseTest(stmt Statement, tokens []string) Statement {
	if len(tokens) != 3 || tokens[0] != "test" {
		return stmt
	}

	stmt.Kind = TestPointKind
	stmt.Fields = tokens
	stmt.test = &TestPoint{InputNode: tokens[1], OutputNode: tokens[2]}
	return stmt
}

// Parse classifies every line of text. Components keep source order; the
// first valid freq and test lines win and later ones are not inspected.
func Parse(text string) *Description {
	d, _ := ParseReader(strings.NewReader(text))
	return d
}

// ParseReader is Parse over a stream. Only read errors are returned.
func ParseReader(r io.Reader) (*Description, error) {
	d := &Description{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		d.add(lineNumber, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return d, fmt.Errorf("reading circuit description: %w", err)
	}

	return d, nil
}

func (d *Description) add(lineNumber int, line string) {
	// Only the first sweep and test point are inspected.
	trimmed := strings.TrimSpace(line)
	if d.Sweep != nil && strings.HasPrefix(trimmed, "freq") {
		return
	}
	if d.TestPoint != nil && strings.HasPrefix(trimmed, "test") {
		return
	}

	stmt := ParseLine(line)
	stmt.LineNumber = lineNumber

	switch {
	case stmt.Kind == Invalid:
		d.Diagnostics = append(d.Diagnostics, Diagnostic{
			LineNumber: lineNumber,
			Line:       stmt.Line,
			Reason:     stmt.Reason,
		})
	case stmt.Kind.IsComponent():
		d.Components = append(d.Components, stmt)
	case stmt.Kind == FrequencySweepKind:
		d.Sweep = stmt.Sweep()
	case stmt.Kind == TestPointKind:
		d.TestPoint = stmt.TestPoint()
	}
}
