package automaton

import (
	"fmt"
	"slices"
	"strings"
)

// DFA is a deterministic finite automaton. Every state has exactly one
// transition for every input symbol.
type DFA struct {
	*FA
	current StateID
}

func NewDFA(desc Description) (*DFA, error) {
	fa, err := buildFA(KindDFA, desc, false)
	if err != nil {
		return nil, err
	}
	return newDFA(fa)
}

func newDFA(fa *FA) (*DFA, error) {
	fa.kind = KindDFA
	if err := checkDFAStructure(fa); err != nil {
		return nil, err
	}
	return &DFA{FA: fa, current: fa.start}, nil
}

func checkDFAStructure(fa *FA) error {
	for _, s := range fa.States() {
		if len(s.transitions) != len(fa.inputs) {
			return newStructureError(fa.kind, ErrStructure,
				"state %q has %d transitions for %d inputs", s.Name, len(s.transitions), len(fa.inputs))
		}
		for symbol, targets := range s.transitions {
			if len(fa.resolveAll(targets)) != 1 {
				return newStructureError(fa.kind, ErrStructure,
					"state %q has %d targets on %q", s.Name, len(targets), symbol)
			}
		}
	}
	return nil
}

func (d *DFA) next(from StateID, symbol string) (StateID, bool) {
	targets := d.resolveAll(d.ByID(from).transitions[symbol])
	if len(targets) != 1 {
		return noState, false
	}
	return targets[0], true
}

// Next returns the state from moves to on symbol without touching the
// simulation.
func (d *DFA) Next(from *State, symbol string) (*State, bool) {
	id, ok := d.next(from.ID, symbol)
	if !ok {
		return nil, false
	}
	return d.states[id], true
}

// IsDead reports whether s is a non-accepting state that every symbol maps
// back to itself.
func (d *DFA) IsDead(s *State) bool {
	if s.Accepting() {
		return false
	}
	for _, symbol := range d.inputs {
		if next, ok := d.next(s.ID, symbol); !ok || next != d.resolve(s.ID) {
			return false
		}
	}
	return true
}

func (d *DFA) Step(symbol string) error {
	if !d.hasInput(symbol) {
		return fmt.Errorf("%w: %q in this %s", ErrUnknownInput, symbol, d.kind)
	}
	next, ok := d.next(d.current, symbol)
	if !ok {
		return fmt.Errorf("%w: %q has no single transition on %q", ErrStructure, d.Current().Name, symbol)
	}
	d.current = next
	return nil
}

func (d *DFA) Current() *State {
	return d.ByID(d.current)
}

func (d *DFA) Accepted() bool {
	return d.Current().Accepting()
}

func (d *DFA) Reset() {
	d.current = d.resolve(d.start)
}

func (d *DFA) currentNames() []string {
	return []string{d.Current().Name}
}

// Enter feeds symbols to the automaton and returns the state it ends in.
func (d *DFA) Enter(symbols ...string) (*State, error) {
	_, err := d.process(d, symbols)
	return d.Current(), err
}

// Record is Enter, returning the snapshot of every step.
func (d *DFA) Record(symbols ...string) (Run, error) {
	return d.process(d, symbols)
}

// Output is Enter, returning whether the automaton ended in an accepting state.
func (d *DFA) Output(symbols ...string) (bool, error) {
	_, err := d.process(d, symbols)
	return d.Accepted(), err
}

// Accepts walks symbols from the start state without changing the
// simulation. Unknown symbols reject.
func (d *DFA) Accepts(symbols ...string) bool {
	id := d.resolve(d.start)
	for _, symbol := range symbols {
		if !d.hasInput(symbol) {
			return false
		}
		next, ok := d.next(id, symbol)
		if !ok {
			return false
		}
		id = next
	}
	return d.states[id].Accepting()
}

type statePair struct {
	a, b StateID
}

// Distinguish merges equivalent states using the table-filling method. Pairs
// with the same accept value start out as candidates; a pass drops every pair
// whose successors on some symbol differ and are no longer candidates. The
// first pass that drops nothing ends the loop and every remaining pair is
// equivalent. Of two equivalent states the one with the smaller name
// survives. The merged (removed, survivor) names are returned sorted.
func (d *DFA) Distinguish() [][2]string {
	states := d.States()
	table := make(map[statePair]struct{})
	for i, p := range states {
		for _, q := range states[i+1:] {
			if p.Value == q.Value {
				table[statePair{p.ID, q.ID}] = struct{}{}
			}
		}
	}

	inTable := func(x, y StateID) bool {
		if _, ok := table[statePair{x, y}]; ok {
			return true
		}
		_, ok := table[statePair{y, x}]
		return ok
	}

	for {
		removed := 0
		for _, symbol := range d.inputs {
			for pair := range table {
				p, _ := d.next(pair.a, symbol)
				q, _ := d.next(pair.b, symbol)
				if p != q && !inTable(p, q) {
					delete(table, pair)
					removed++
				}
			}
		}
		if removed == 0 {
			break
		}
	}

	survivors := make(map[StateID]*State)
	for pair := range table {
		small, large := d.states[pair.a], d.states[pair.b]
		if r, ok := survivors[large.ID]; !ok || small.Name < r.Name {
			survivors[large.ID] = small
		}
	}

	merged := make([][2]string, 0, len(survivors))
	for id, survivor := range survivors {
		merged = append(merged, [2]string{d.states[id].Name, survivor.Name})
		d.setAlias(id, survivor.ID)
		d.states[id] = nil
	}
	slices.SortFunc(merged, func(x, y [2]string) int {
		return strings.Compare(x[0], y[0])
	})

	d.rewriteTargets()
	d.current = d.resolve(d.current)
	return merged
}

// Minimize removes unreachable states, then merges equivalent ones.
func (d *DFA) Minimize() {
	d.Reachable()
	d.Distinguish()
}

func (d *DFA) Clone() *DFA {
	return &DFA{FA: d.FA.clone(), current: d.current}
}
