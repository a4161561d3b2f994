package automaton

import (
	"maps"
	"slices"
	"strings"
)

// StateID indexes a state inside the arena of the automaton that owns it.
// IDs are stable for the lifetime of that automaton, even after the state has
// been merged away by minimization (the alias table redirects it).
type StateID int

const noState StateID = -1

// State holds a name, an accept weight and a transition table. A State with a
// Value of 0 is not accepting. Targets are stored as sets of IDs, so a DFA
// state is simply a state whose sets all have a single element.
type State struct {
	ID    StateID
	Name  string
	Value int

	transitions map[string][]StateID
}

func newState(id StateID, name string, value int) *State {
	return &State{
		ID:          id,
		Name:        name,
		Value:       value,
		transitions: make(map[string][]StateID),
	}
}

func (s *State) Accepting() bool {
	return s.Value != 0
}

// Forward returns the targets of symbol, or nil if there are none.
func (s *State) Forward(symbol string) []StateID {
	return slices.Clone(s.transitions[symbol])
}

// AddFunction adds a transition for every (symbol, end) pair, merging into
// existing target sets.
func (s *State) AddFunction(ends []StateID, symbols ...string) {
	for _, symbol := range symbols {
		targets := s.transitions[symbol]
		for _, end := range ends {
			targets = insertID(targets, end)
		}
		s.transitions[symbol] = targets
	}
}

// Symbols returns the symbols this state has transitions on, sorted.
func (s *State) Symbols() []string {
	return slices.Sorted(maps.Keys(s.transitions))
}

func (s *State) Has(symbol string) bool {
	_, ok := s.transitions[symbol]
	return ok
}

// DirectReach returns every state reachable with a single transition on any
// symbol, epsilon included.
func (s *State) DirectReach() []StateID {
	var reach []StateID
	for _, targets := range s.transitions {
		for _, t := range targets {
			reach = insertID(reach, t)
		}
	}
	return reach
}

func (s *State) Less(other *State) bool {
	return s.Name < other.Name
}

func (s *State) String() string {
	return s.Name
}

func (s *State) clone() *State {
	c := newState(s.ID, s.Name, s.Value)
	for symbol, targets := range s.transitions {
		c.transitions[symbol] = slices.Clone(targets)
	}
	return c
}

// insertID adds id to the sorted set ids.
func insertID(ids []StateID, id StateID) []StateID {
	i, found := slices.BinarySearch(ids, id)
	if found {
		return ids
	}
	return slices.Insert(ids, i, id)
}

func compareByName(a, b *State) int {
	return strings.Compare(a.Name, b.Name)
}
