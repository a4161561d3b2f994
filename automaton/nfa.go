package automaton

import (
	"fmt"
	"slices"

	"github.com/bits-and-blooms/bitset"
)

// NFA is a non-deterministic finite automaton. Its simulation tracks a set of
// current states; a symbol without a transition simply contributes nothing.
type NFA struct {
	*FA
	current []StateID
}

func NewNFA(desc Description) (*NFA, error) {
	fa, err := buildFA(KindNFA, desc, false)
	if err != nil {
		return nil, err
	}
	return newNFA(fa), nil
}

func newNFA(fa *FA) *NFA {
	fa.kind = KindNFA
	return &NFA{FA: fa, current: []StateID{fa.resolve(fa.start)}}
}

func (n *NFA) Step(symbol string) error {
	if !n.hasInput(symbol) {
		return fmt.Errorf("%w: %q in this %s", ErrUnknownInput, symbol, n.kind)
	}
	var next []StateID
	for _, id := range n.current {
		for _, t := range n.ByID(id).transitions[symbol] {
			next = insertID(next, n.resolve(t))
		}
	}
	n.current = next
	return nil
}

// Current returns the current states sorted by name.
func (n *NFA) Current() []*State {
	states := make([]*State, 0, len(n.current))
	for _, id := range n.current {
		states = append(states, n.ByID(id))
	}
	slices.SortFunc(states, compareByName)
	return states
}

func (n *NFA) Accepted() bool {
	for _, id := range n.current {
		if n.ByID(id).Accepting() {
			return true
		}
	}
	return false
}

func (n *NFA) Reset() {
	n.current = []StateID{n.resolve(n.start)}
}

func (n *NFA) currentNames() []string {
	return n.namesOf(n.current)
}

func (n *NFA) Enter(symbols ...string) ([]*State, error) {
	_, err := n.process(n, symbols)
	return n.Current(), err
}

func (n *NFA) Record(symbols ...string) (Run, error) {
	return n.process(n, symbols)
}

func (n *NFA) Output(symbols ...string) (bool, error) {
	_, err := n.process(n, symbols)
	return n.Accepted(), err
}

func (n *NFA) Clone() *NFA {
	return &NFA{FA: n.FA.clone(), current: slices.Clone(n.current)}
}

// EpsilonNFA is an NFA that may also move on the epsilon marker without
// consuming input. The current set is always closed over epsilon moves.
type EpsilonNFA struct {
	NFA
}

func NewEpsilonNFA(desc Description) (*EpsilonNFA, error) {
	fa, err := buildFA(KindEpsilonNFA, desc, true)
	if err != nil {
		return nil, err
	}
	return newEpsilonNFA(fa), nil
}

func newEpsilonNFA(fa *FA) *EpsilonNFA {
	fa.kind = KindEpsilonNFA
	e := &EpsilonNFA{NFA{FA: fa}}
	e.Reset()
	return e
}

// EpsilonClosure returns every state reachable from ids through zero or more
// epsilon transitions.
func (e *EpsilonNFA) EpsilonClosure(ids ...StateID) []StateID {
	visited := bitset.New(uint(len(e.states)))
	work := make([]StateID, 0, len(ids))
	for _, id := range ids {
		id = e.resolve(id)
		if !visited.Test(uint(id)) {
			visited.Set(uint(id))
			work = append(work, id)
		}
	}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		for _, next := range e.states[id].transitions[e.epsilon] {
			next = e.resolve(next)
			if !visited.Test(uint(next)) {
				visited.Set(uint(next))
				work = append(work, next)
			}
		}
	}
	return bitsetIDs(visited)
}

func (e *EpsilonNFA) Step(symbol string) error {
	e.current = e.EpsilonClosure(e.current...)
	if err := e.NFA.Step(symbol); err != nil {
		return err
	}
	e.current = e.EpsilonClosure(e.current...)
	return nil
}

func (e *EpsilonNFA) Accepted() bool {
	for _, id := range e.EpsilonClosure(e.current...) {
		if e.states[id].Accepting() {
			return true
		}
	}
	return false
}

func (e *EpsilonNFA) Reset() {
	e.current = e.EpsilonClosure(e.start)
}

func (e *EpsilonNFA) Enter(symbols ...string) ([]*State, error) {
	e.current = e.EpsilonClosure(e.current...)
	_, err := e.process(e, symbols)
	return e.Current(), err
}

func (e *EpsilonNFA) Record(symbols ...string) (Run, error) {
	e.current = e.EpsilonClosure(e.current...)
	return e.process(e, symbols)
}

func (e *EpsilonNFA) Output(symbols ...string) (bool, error) {
	e.current = e.EpsilonClosure(e.current...)
	_, err := e.process(e, symbols)
	return e.Accepted(), err
}

func (e *EpsilonNFA) Clone() *EpsilonNFA {
	return &EpsilonNFA{*e.NFA.Clone()}
}
