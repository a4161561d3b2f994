package automaton

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// FA is the part shared by every automaton kind: the state arena, the input
// alphabet, the start state, the alias table filled by minimization and the
// recorded runs. It knows nothing about how a symbol is consumed.
type FA struct {
	kind    Kind
	states  []*State // nil once a state has been removed
	names   map[string]StateID
	inputs  []string // sorted set
	epsilon string
	start   StateID
	alias   map[StateID]StateID
	records []Run
}

func newFA(kind Kind, epsilon string) *FA {
	if epsilon == "" {
		epsilon = DefaultEpsilon
	}
	return &FA{
		kind:    kind,
		names:   make(map[string]StateID),
		epsilon: epsilon,
		start:   noState,
		alias:   make(map[StateID]StateID),
	}
}

// buildFA validates desc and builds the arena. Epsilon transitions are only
// accepted when allowEpsilon is set.
func buildFA(kind Kind, desc Description, allowEpsilon bool) (*FA, error) {
	fa := newFA(kind, desc.Epsilon)

	accepting := make(map[string]bool, len(desc.Accepting))
	for _, name := range desc.Accepting {
		accepting[name] = true
	}

	for _, name := range desc.States {
		if name == "" {
			return nil, newStructureError(kind, ErrStructure, "empty state name")
		}
		value := 0
		if accepting[name] {
			value = 1
		}
		if _, err := fa.addState(name, value); err != nil {
			return nil, err
		}
	}

	for _, name := range desc.Accepting {
		if _, ok := fa.names[name]; !ok {
			return nil, newStructureError(kind, ErrUnknownState, "accepting state %q", name)
		}
	}

	for _, symbol := range desc.Inputs {
		if allowEpsilon && symbol == fa.epsilon {
			continue
		}
		fa.addInput(symbol)
	}

	start, ok := fa.names[desc.Start]
	if !ok {
		return nil, newStructureError(kind, ErrUnknownState, "start state %q", desc.Start)
	}
	fa.start = start

	for _, t := range desc.Transitions {
		from, ok := fa.names[t.From]
		if !ok {
			return nil, newStructureError(kind, ErrUnknownState, "transition from %q", t.From)
		}
		isEpsilon := allowEpsilon && t.Symbol == fa.epsilon
		if !isEpsilon && !fa.hasInput(t.Symbol) {
			return nil, newStructureError(kind, ErrUnknownInput, "transition %s,%s", t.From, t.Symbol)
		}
		ends := make([]StateID, 0, len(t.To))
		for _, to := range t.To {
			end, ok := fa.names[to]
			if !ok {
				return nil, newStructureError(kind, ErrUnknownState, "transition %s,%s->%s", t.From, t.Symbol, to)
			}
			ends = append(ends, end)
		}
		fa.states[from].AddFunction(ends, t.Symbol)
	}
	return fa, nil
}

func (fa *FA) addState(name string, value int) (StateID, error) {
	if _, ok := fa.names[name]; ok {
		return noState, newStructureError(fa.kind, ErrNameCollision, "state %q defined twice", name)
	}
	id := StateID(len(fa.states))
	fa.states = append(fa.states, newState(id, name, value))
	fa.names[name] = id
	return id, nil
}

func (fa *FA) addInput(symbol string) {
	i, found := slices.BinarySearch(fa.inputs, symbol)
	if !found {
		fa.inputs = slices.Insert(fa.inputs, i, symbol)
	}
}

func (fa *FA) hasInput(symbol string) bool {
	_, found := slices.BinarySearch(fa.inputs, symbol)
	return found
}

func (fa *FA) Kind() Kind {
	return fa.kind
}

func (fa *FA) Epsilon() string {
	return fa.epsilon
}

// Inputs returns the input alphabet, sorted. Epsilon is never part of it.
func (fa *FA) Inputs() []string {
	return slices.Clone(fa.inputs)
}

// Len returns the number of live states.
func (fa *FA) Len() int {
	n := 0
	for _, s := range fa.states {
		if s != nil {
			n++
		}
	}
	return n
}

// States returns the live states sorted by name.
func (fa *FA) States() []*State {
	states := make([]*State, 0, len(fa.states))
	for _, s := range fa.states {
		if s != nil {
			states = append(states, s)
		}
	}
	slices.SortFunc(states, compareByName)
	return states
}

// State looks a state up by name. Names of merged states resolve to the state
// that replaced them.
func (fa *FA) State(name string) (*State, bool) {
	id, ok := fa.names[name]
	if !ok {
		return nil, false
	}
	s := fa.states[fa.resolve(id)]
	return s, s != nil
}

// ByID returns the live state id resolves to.
func (fa *FA) ByID(id StateID) *State {
	return fa.states[fa.resolve(id)]
}

func (fa *FA) Start() *State {
	return fa.ByID(fa.start)
}

func (fa *FA) AcceptedStates() []*State {
	var accepted []*State
	for _, s := range fa.States() {
		if s.Accepting() {
			accepted = append(accepted, s)
		}
	}
	return accepted
}

// Alias returns the name of the live state that name currently stands for.
func (fa *FA) Alias(name string) (string, bool) {
	s, ok := fa.State(name)
	if !ok {
		return "", false
	}
	return s.Name, true
}

func (fa *FA) setAlias(removed, survivor StateID) {
	fa.alias[removed] = survivor
}

// resolve follows the alias table to the live representative of id,
// compressing the path on the way back.
func (fa *FA) resolve(id StateID) StateID {
	root := id
	for steps := 0; ; steps++ {
		next, ok := fa.alias[root]
		if !ok {
			break
		}
		if steps > len(fa.alias) {
			panic(fmt.Sprintf("automaton: alias chain starting at %q does not terminate", fa.nameOf(id)))
		}
		root = next
	}
	for id != root {
		next := fa.alias[id]
		fa.alias[id] = root
		id = next
	}
	return root
}

func (fa *FA) resolveAll(ids []StateID) []StateID {
	var resolved []StateID
	for _, id := range ids {
		resolved = insertID(resolved, fa.resolve(id))
	}
	return resolved
}

func (fa *FA) nameOf(id StateID) string {
	for name, other := range fa.names {
		if other == id {
			return name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func (fa *FA) namesOf(ids []StateID) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		names = append(names, fa.ByID(id).Name)
	}
	slices.Sort(names)
	return names
}

// IndirectReach returns every state reachable from id over any symbol,
// including id itself.
func (fa *FA) IndirectReach(id StateID) []StateID {
	visited := bitset.New(uint(len(fa.states)))
	work := []StateID{fa.resolve(id)}
	visited.Set(uint(work[0]))
	for len(work) > 0 {
		s := fa.states[work[len(work)-1]]
		work = work[:len(work)-1]
		for _, next := range s.DirectReach() {
			next = fa.resolve(next)
			if !visited.Test(uint(next)) {
				visited.Set(uint(next))
				work = append(work, next)
			}
		}
	}
	return bitsetIDs(visited)
}

// Reachable removes every state that cannot be reached from the start state.
// The names of removed states become free again.
func (fa *FA) Reachable() {
	keep := bitset.New(uint(len(fa.states)))
	for _, id := range fa.IndirectReach(fa.start) {
		keep.Set(uint(id))
	}
	for id, s := range fa.states {
		if s != nil && !keep.Test(uint(id)) {
			fa.states[id] = nil
		}
	}
	for name, id := range fa.names {
		if fa.states[fa.resolve(id)] == nil {
			delete(fa.names, name)
		}
	}
}

// rewriteTargets points every stored transition at a live state.
func (fa *FA) rewriteTargets() {
	for _, s := range fa.states {
		if s == nil {
			continue
		}
		for symbol, targets := range s.transitions {
			s.transitions[symbol] = fa.resolveAll(targets)
		}
	}
	fa.start = fa.resolve(fa.start)
}

// Rename gives the live state old a new name. Every holder of the state's ID
// sees the new name.
func (fa *FA) Rename(old, name string) error {
	if name == "" {
		return newStructureError(fa.kind, ErrStructure, "empty state name")
	}
	id, ok := fa.names[old]
	if !ok || fa.states[id] == nil {
		return newStructureError(fa.kind, ErrUnknownState, "rename %q", old)
	}
	if _, taken := fa.names[name]; taken {
		return newStructureError(fa.kind, ErrNameCollision, "rename %q to %q", old, name)
	}
	delete(fa.names, old)
	fa.names[name] = id
	fa.states[id].Name = name
	return nil
}

// Relabel renames the live states to prefix0, prefix1, ... in breadth first
// order from the start state, following symbols in sorted order. States the
// start cannot reach are numbered last, by name. Names of merged states are
// dropped, so only the new labels resolve afterwards.
func (fa *FA) Relabel(prefix string) {
	var order []StateID
	seen := bitset.New(uint(len(fa.states)))
	queue := []StateID{fa.resolve(fa.start)}
	seen.Set(uint(queue[0]))
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		order = append(order, id)
		s := fa.states[id]
		for _, symbol := range s.Symbols() {
			for _, next := range fa.resolveAll(s.transitions[symbol]) {
				if !seen.Test(uint(next)) {
					seen.Set(uint(next))
					queue = append(queue, next)
				}
			}
		}
	}
	for _, s := range fa.States() {
		if !seen.Test(uint(s.ID)) {
			order = append(order, s.ID)
		}
	}

	clear(fa.names)
	for i, id := range order {
		name := fmt.Sprintf("%s%d", prefix, i)
		fa.states[id].Name = name
		fa.names[name] = id
	}
}

// Functions lists the transition table one function per line, states sorted
// by name and targets resolved through the alias table.
func (fa *FA) Functions() string {
	var lines []string
	for _, s := range fa.States() {
		for _, symbol := range s.Symbols() {
			targets := fa.resolveAll(s.transitions[symbol])
			if len(targets) == 0 {
				continue
			}
			lines = append(lines, fmt.Sprintf("%s,%s->%s", s.Name, symbol, strings.Join(fa.namesOf(targets), ",")))
		}
	}
	return strings.Join(lines, "\n")
}

func (fa *FA) String() string {
	var names, accepted []string
	for _, s := range fa.States() {
		names = append(names, s.Name)
		if s.Accepting() {
			accepted = append(accepted, s.Name)
		}
	}

	b := strings.Builder{}
	fmt.Fprintf(&b, "%s {\n", fa.kind)
	fmt.Fprintf(&b, "\tQ={%s}\n", strings.Join(names, ","))
	fmt.Fprintf(&b, "\tΣ={%s}\n", strings.Join(fa.inputs, ","))
	b.WriteString("\tδ={")
	if functions := fa.Functions(); functions != "" {
		b.WriteString("\n\t\t")
		b.WriteString(strings.ReplaceAll(functions, "\n", "\n\t\t"))
		b.WriteString("\n\t")
	}
	b.WriteString("}\n")
	fmt.Fprintf(&b, "\tq0=%s\n", fa.Start().Name)
	fmt.Fprintf(&b, "\tF={%s}\n", strings.Join(accepted, ","))
	b.WriteString("}")
	return b.String()
}

// Records returns every run recorded so far, oldest first.
func (fa *FA) Records() []Run {
	return slices.Clone(fa.records)
}

func (fa *FA) clone() *FA {
	c := &FA{
		kind:    fa.kind,
		states:  make([]*State, len(fa.states)),
		names:   make(map[string]StateID, len(fa.names)),
		inputs:  slices.Clone(fa.inputs),
		epsilon: fa.epsilon,
		start:   fa.start,
		alias:   make(map[StateID]StateID, len(fa.alias)),
	}
	for i, s := range fa.states {
		if s != nil {
			c.states[i] = s.clone()
		}
	}
	for name, id := range fa.names {
		c.names[name] = id
	}
	for removed, survivor := range fa.alias {
		c.alias[removed] = survivor
	}
	return c
}

func bitsetIDs(b *bitset.BitSet) []StateID {
	ids := make([]StateID, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		ids = append(ids, StateID(i))
	}
	return ids
}
