package automaton

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type function struct {
	ends    []StateID
	symbols []string
}

func TestAddFunction(t *testing.T) {
	tests := map[string]struct {
		givenFunctions []function
		wantSymbols    []string
		wantForward    map[string][]StateID
	}{
		"single function": {
			givenFunctions: []function{
				{ends: []StateID{1}, symbols: []string{"a"}},
			},
			wantSymbols: []string{"a"},
			wantForward: map[string][]StateID{"a": {1}},
		},
		"ends are merged into a sorted set": {
			givenFunctions: []function{
				{ends: []StateID{3, 1}, symbols: []string{"a"}},
				{ends: []StateID{2, 1}, symbols: []string{"a"}},
			},
			wantSymbols: []string{"a"},
			wantForward: map[string][]StateID{"a": {1, 2, 3}},
		},
		"every symbol gets every end": {
			givenFunctions: []function{
				{ends: []StateID{0, 2}, symbols: []string{"b", "a"}},
			},
			wantSymbols: []string{"a", "b"},
			wantForward: map[string][]StateID{"a": {0, 2}, "b": {0, 2}},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := newState(0, "s", 0)

			// when
			for _, f := range tt.givenFunctions {
				s.AddFunction(f.ends, f.symbols...)
			}

			// then
			if d := cmp.Diff(tt.wantSymbols, s.Symbols()); d != "" {
				t.Errorf("got symbols diff (-want +got):\n%s", d)
			}
			gotForward := make(map[string][]StateID)
			for _, symbol := range s.Symbols() {
				gotForward[symbol] = s.Forward(symbol)
			}
			if d := cmp.Diff(tt.wantForward, gotForward); d != "" {
				t.Errorf("got forward diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestForwardUndefinedSymbol(t *testing.T) {
	s := newState(0, "s", 0)
	s.AddFunction([]StateID{1}, "a")

	if got := s.Forward("b"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
	if s.Has("b") {
		t.Error("state should not have a transition on b")
	}
}

func TestForwardReturnsCopy(t *testing.T) {
	s := newState(0, "s", 0)
	s.AddFunction([]StateID{1}, "a")

	s.Forward("a")[0] = 7

	if d := cmp.Diff([]StateID{1}, s.Forward("a")); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}

func TestDirectReach(t *testing.T) {
	s := newState(0, "s", 0)
	s.AddFunction([]StateID{2, 0}, "a")
	s.AddFunction([]StateID{3}, "b")
	s.AddFunction([]StateID{1, 2}, DefaultEpsilon)

	if d := cmp.Diff([]StateID{0, 1, 2, 3}, s.DirectReach()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}

func TestStateOrder(t *testing.T) {
	a, b := newState(1, "a", 0), newState(0, "b", 1)

	if !a.Less(b) || b.Less(a) {
		t.Error("states should be ordered by name")
	}
	if !b.Accepting() || a.Accepting() {
		t.Error("only states with a nonzero value should accept")
	}
}
