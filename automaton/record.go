package automaton

import "fmt"

// Steppable is implemented by every automaton that consumes one symbol at a
// time.
type Steppable interface {
	Step(symbol string) error
	Accepted() bool
	Reset()
}

// EpsilonClosing is implemented by automata with epsilon transitions.
type EpsilonClosing interface {
	EpsilonClosure(ids ...StateID) []StateID
}

// Snapshot is the state of a simulation after one step.
type Snapshot struct {
	Current  []string
	Accepted bool
}

func (s Snapshot) String() string {
	return fmt.Sprintf("%v %t", s.Current, s.Accepted)
}

// Run holds one snapshot before any input and one after every consumed
// symbol.
type Run []Snapshot

type simulation interface {
	Steppable
	currentNames() []string
}

// process feeds symbols to m and records the snapshots. A failing step ends
// the run; what was recorded up to that point is kept.
func (fa *FA) process(m simulation, symbols []string) (Run, error) {
	run := Run{{Current: m.currentNames(), Accepted: m.Accepted()}}
	var err error
	for _, symbol := range symbols {
		if err = m.Step(symbol); err != nil {
			break
		}
		run = append(run, Snapshot{Current: m.currentNames(), Accepted: m.Accepted()})
	}
	fa.records = append(fa.records, run)
	return run, err
}
