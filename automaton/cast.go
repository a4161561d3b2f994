package automaton

import (
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// EpsilonNFAToNFA removes the epsilon transitions of e. A state moves on a
// symbol to the closure of everything its own closure moves to, and the start
// state accepts if its closure contains an accepting state. e is not
// modified.
func EpsilonNFAToNFA(e *EpsilonNFA) *NFA {
	src := e.Clone()
	work := src.FA.clone()

	live := work.States()
	tables := make(map[StateID]map[string][]StateID, len(live))
	for _, s := range live {
		closure := src.EpsilonClosure(s.ID)
		table := make(map[string][]StateID)
		for _, symbol := range src.inputs {
			var caught []StateID
			for _, c := range closure {
				for _, t := range src.states[c].transitions[symbol] {
					caught = insertID(caught, src.resolve(t))
				}
			}
			if len(caught) > 0 {
				table[symbol] = src.EpsilonClosure(caught...)
			}
		}
		tables[s.ID] = table
	}
	for _, s := range live {
		s.transitions = tables[s.ID]
	}

	start := work.Start()
	if !start.Accepting() {
		for _, c := range src.EpsilonClosure(src.start) {
			if src.states[c].Accepting() {
				start.Value = src.states[c].Value
				break
			}
		}
	}
	return newNFA(work)
}

// deadStateName is the name of the state standing for the empty set in
// NFAToDFA.
const deadStateName = "empty"

// NFAToDFA determinizes n by subset construction. Every reachable set of n's
// states becomes one state named after its members joined by "+"; the empty
// set becomes a non-accepting dead state looping on every symbol, so the
// result is total. A set keeps its member's name when it has one member.
// Other names taken by a state of n or an earlier set get "'" appended until
// they are free. n is not modified.
func NFAToDFA(n *NFA) (*DFA, error) {
	src := n.FA.clone()
	fa := newFA(KindDFA, src.epsilon)
	for _, symbol := range src.inputs {
		fa.addInput(symbol)
	}

	type composite struct {
		members *bitset.BitSet
		id      StateID
	}
	created := make(map[string]StateID)
	var queue []composite

	materialize := func(members *bitset.BitSet) (StateID, error) {
		key := members.String()
		if id, ok := created[key]; ok {
			return id, nil
		}

		ids := bitsetIDs(members)
		var name string
		value := 0
		switch len(ids) {
		case 0:
			name = freeName(deadStateName, src, fa)
		case 1:
			name = src.ByID(ids[0]).Name
		default:
			name = freeName(strings.Join(src.namesOf(ids), "+"), src, fa)
		}
		for _, id := range ids {
			if src.states[id].Accepting() {
				value = src.states[id].Value
				break
			}
		}

		id, err := fa.addState(name, value)
		if err != nil {
			return noState, err
		}
		created[key] = id
		queue = append(queue, composite{members: members, id: id})
		return id, nil
	}

	initial := bitset.New(uint(len(src.states)))
	initial.Set(uint(src.resolve(src.start)))
	start, err := materialize(initial)
	if err != nil {
		return nil, err
	}
	fa.start = start

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, symbol := range src.inputs {
			next := bitset.New(uint(len(src.states)))
			for _, member := range bitsetIDs(c.members) {
				for _, t := range src.states[member].transitions[symbol] {
					next.Set(uint(src.resolve(t)))
				}
			}
			target, err := materialize(next)
			if err != nil {
				return nil, err
			}
			fa.states[c.id].AddFunction([]StateID{target}, symbol)
		}
	}
	return newDFA(fa)
}

// EpsilonNFAToDFA removes epsilon transitions, then determinizes.
func EpsilonNFAToDFA(e *EpsilonNFA) (*DFA, error) {
	return NFAToDFA(EpsilonNFAToNFA(e))
}

func freeName(name string, src, dst *FA) string {
	for {
		_, inSrc := src.names[name]
		_, inDst := dst.names[name]
		if !inSrc && !inDst {
			return name
		}
		name += "'"
	}
}
