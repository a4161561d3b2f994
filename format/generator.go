// Package format reads and writes automata in the standard text format:
//
//	q0,q1,q2        states
//	0,1             inputs
//	q1              accepting states
//	q0              start state
//	q0,0->q2        transitions, one per line
//
// A transition may list several targets separated by commas, "#" stands for no
// target and "$" marks an epsilon transition. Commas, semicolons, newlines and
// backslashes inside names are escaped with a backslash.
package format

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mfroeh/gofa/automaton"
)

type formatError struct {
	inner   error
	message string
}

func (f formatError) Error() string {
	return f.message
}

func (f formatError) Unwrap() error {
	return f.inner
}

func newFormatError(line int, str string, inner error) formatError {
	return formatError{message: fmt.Sprintf("format error at line %d: %s", line+1, str), inner: inner}
}

const noTarget = "#"

// Standard is the generator of the standard format. Sections are separated by
// Separator, a newline when zero.
type Standard struct {
	Separator byte
	// Epsilon marks epsilon transitions, automaton.DefaultEpsilon when empty.
	Epsilon string
}

// Semicolon is the single line flavor of the standard format.
var Semicolon = Standard{Separator: ';'}

var _ automaton.Generator = Standard{}

func (g Standard) separator() byte {
	if g.Separator == 0 {
		return '\n'
	}
	return g.Separator
}

func (g Standard) Scan(text string) (automaton.Description, error) {
	lines := splitEscaped(text, g.separator())
	for i := range lines {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	if len(lines) < 4 {
		return automaton.Description{}, newFormatError(len(lines), "expected states, inputs, accepting states and start state", nil)
	}

	desc := automaton.Description{
		States:    fields(lines[0]),
		Inputs:    fields(lines[1]),
		Accepting: fields(lines[2]),
		Epsilon:   g.Epsilon,
	}

	start := fields(lines[3])
	if len(start) != 1 {
		return automaton.Description{}, newFormatError(3, fmt.Sprintf("expected one start state, got %d", len(start)), nil)
	}
	desc.Start = start[0]

	for i, line := range lines[4:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := scanTransition(line)
		if err != nil {
			return automaton.Description{}, newFormatError(i+4, fmt.Sprintf("transition %q", line), err)
		}
		desc.Transitions = append(desc.Transitions, t)
	}
	return desc, nil
}

func scanTransition(line string) (automaton.Transition, error) {
	arrow := indexUnescaped(line, "->")
	if arrow == -1 {
		return automaton.Transition{}, errors.New("missing '->'")
	}

	left := splitEscaped(line[:arrow], ',')
	if len(left) != 2 {
		return automaton.Transition{}, errors.New("expected 'state,symbol' before '->'")
	}

	t := automaton.Transition{From: unescape(left[0]), Symbol: unescape(left[1])}
	for _, to := range splitEscaped(line[arrow+2:], ',') {
		if to == "" || to == noTarget {
			continue
		}
		t.To = append(t.To, unescape(to))
	}
	return t, nil
}

// fields splits a comma separated list, dropping empty entries.
func fields(s string) []string {
	var out []string
	for _, f := range splitEscaped(s, ',') {
		if f == "" {
			continue
		}
		out = append(out, unescape(f))
	}
	return out
}

// splitEscaped splits s at every sep not preceded by a backslash. Escapes are
// kept in the pieces.
func splitEscaped(s string, sep byte) []string {
	var (
		out  []string
		last int
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case sep:
			out = append(out, s[last:i])
			last = i + 1
		}
	}
	return append(out, s[last:])
}

func indexUnescaped(s, sub string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if strings.HasPrefix(s[i:], sub) {
			return i
		}
	}
	return -1
}

func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	b := strings.Builder{}
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func escape(s string) string {
	b := strings.Builder{}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case ',', ';', '\\', '#':
			b.WriteByte('\\')
			b.WriteByte(s[i])
		case '-':
			if i+1 < len(s) && s[i+1] == '>' {
				b.WriteByte('\\')
			}
			b.WriteByte(s[i])
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
