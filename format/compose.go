package format

import (
	"slices"
	"strings"

	"github.com/mfroeh/gofa/automaton"
)

// Automaton is what the compositor needs to know about an automaton. *DFA,
// *NFA and *EpsilonNFA all satisfy it.
type Automaton interface {
	Kind() automaton.Kind
	Epsilon() string
	Inputs() []string
	States() []*automaton.State
	AcceptedStates() []*automaton.State
	Start() *automaton.State
	ByID(id automaton.StateID) *automaton.State
}

// Compose writes a in the standard format, newline separated. Transitions are
// listed with states and symbols sorted, and targets resolved to live states.
func Compose(a Automaton) string {
	return Standard{}.Compose(a)
}

func (g Standard) Compose(a Automaton) string {
	var names, accepted []string
	for _, s := range a.States() {
		names = append(names, escape(s.Name))
	}
	for _, s := range a.AcceptedStates() {
		accepted = append(accepted, escape(s.Name))
	}
	var inputs []string
	for _, symbol := range a.Inputs() {
		inputs = append(inputs, escape(symbol))
	}

	lines := []string{
		strings.Join(names, ","),
		strings.Join(inputs, ","),
		strings.Join(accepted, ","),
		escape(a.Start().Name),
	}
	for _, s := range a.States() {
		for _, symbol := range s.Symbols() {
			lines = append(lines, escape(s.Name)+","+escape(symbol)+"->"+strings.Join(targetNames(a, s, symbol), ","))
		}
	}
	return strings.Join(lines, string(g.separator()))
}

func targetNames(a Automaton, s *automaton.State, symbol string) []string {
	var names []string
	for _, id := range s.Forward(symbol) {
		name := escape(a.ByID(id).Name)
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return []string{noTarget}
	}
	slices.Sort(names)
	return names
}
