package automaton

import "fmt"

// Composition follows Thompson's construction. Operands are copied into a new
// arena with their names prefixed ("l.", "r.", "k."), so the same automaton
// can be used any number of times inside a larger expression and the operands
// are never modified.

// Symbols returns an epsilon NFA accepting exactly one of symbols.
func Symbols(epsilon string, symbols ...string) *EpsilonNFA {
	fa := newFA(KindEpsilonNFA, epsilon)
	from := fa.mustAddState("s0", 0)
	to := fa.mustAddState("s1", 1)
	fa.start = from
	for _, symbol := range symbols {
		if symbol == fa.epsilon {
			panic(fmt.Sprintf("automaton: symbol %q is the epsilon marker", symbol))
		}
		fa.addInput(symbol)
		fa.states[from].AddFunction([]StateID{to}, symbol)
	}
	return newEpsilonNFA(fa)
}

// Epsilon returns an epsilon NFA accepting only the empty string.
func Epsilon(epsilon string) *EpsilonNFA {
	fa := newFA(KindEpsilonNFA, epsilon)
	fa.start = fa.mustAddState("s0", 1)
	return newEpsilonNFA(fa)
}

// Union accepts the language of a or of b (A + B).
func Union(a, b *EpsilonNFA) *EpsilonNFA {
	fa := newFA(KindEpsilonNFA, a.epsilon)
	start := fa.mustAddState("start", 0)
	end := fa.mustAddState("end", 1)
	fa.start = start

	for _, operand := range []struct {
		e      *EpsilonNFA
		prefix string
	}{{a, "l."}, {b, "r."}} {
		ids := fa.absorb(operand.e.FA, operand.prefix)
		fa.states[start].AddFunction([]StateID{ids[operand.e.resolve(operand.e.start)]}, fa.epsilon)
		for _, s := range operand.e.AcceptedStates() {
			copied := fa.states[ids[s.ID]]
			copied.Value = 0
			copied.AddFunction([]StateID{end}, fa.epsilon)
		}
	}
	return newEpsilonNFA(fa)
}

// Concat accepts a word of a followed by a word of b (A * B).
func Concat(a, b *EpsilonNFA) *EpsilonNFA {
	fa := newFA(KindEpsilonNFA, a.epsilon)
	left := fa.absorb(a.FA, "l.")
	right := fa.absorb(b.FA, "r.")
	fa.start = left[a.resolve(a.start)]

	bridge := right[b.resolve(b.start)]
	for _, s := range a.AcceptedStates() {
		copied := fa.states[left[s.ID]]
		copied.Value = 0
		copied.AddFunction([]StateID{bridge}, fa.epsilon)
	}
	return newEpsilonNFA(fa)
}

// Kleene accepts zero or more repetitions of e.
func (e *EpsilonNFA) Kleene() *EpsilonNFA {
	fa := newFA(KindEpsilonNFA, e.epsilon)
	start := fa.mustAddState("start", 0)
	end := fa.mustAddState("end", 1)
	fa.start = start

	ids := fa.absorb(e.FA, "k.")
	inner := ids[e.resolve(e.start)]
	fa.states[start].AddFunction([]StateID{end, inner}, fa.epsilon)
	for _, s := range e.AcceptedStates() {
		copied := fa.states[ids[s.ID]]
		copied.Value = 0
		copied.AddFunction([]StateID{end, inner}, fa.epsilon)
	}
	return newEpsilonNFA(fa)
}

// Plus accepts one or more repetitions of e.
func (e *EpsilonNFA) Plus() *EpsilonNFA {
	return Concat(e, e.Kleene())
}

// Optional accepts e or the empty string.
func (e *EpsilonNFA) Optional() *EpsilonNFA {
	return Union(e, Epsilon(e.epsilon))
}

// absorb copies the live states of src into fa under prefix and returns the
// mapping from src IDs to the new IDs. Epsilon transitions are translated to
// the epsilon marker of fa.
func (fa *FA) absorb(src *FA, prefix string) map[StateID]StateID {
	ids := make(map[StateID]StateID)
	live := src.States()
	for _, s := range live {
		ids[s.ID] = fa.mustAddState(prefix+s.Name, s.Value)
	}
	for _, s := range live {
		copied := fa.states[ids[s.ID]]
		for symbol, targets := range s.transitions {
			ends := make([]StateID, 0, len(targets))
			for _, t := range src.resolveAll(targets) {
				ends = append(ends, ids[t])
			}
			if symbol == src.epsilon {
				symbol = fa.epsilon
			}
			copied.AddFunction(ends, symbol)
		}
	}
	for _, symbol := range src.inputs {
		fa.addInput(symbol)
	}
	return ids
}

func (fa *FA) mustAddState(name string, value int) StateID {
	id, err := fa.addState(name, value)
	if err != nil {
		panic(err)
	}
	return id
}
