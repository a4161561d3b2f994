package automaton

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// binaryDescription accepts every word over {0,1} containing "01".
func binaryDescription() Description {
	return Description{
		States:    []string{"q0", "q1", "q2"},
		Inputs:    []string{"0", "1"},
		Accepting: []string{"q1"},
		Start:     "q0",
		Transitions: []Transition{
			{From: "q0", Symbol: "0", To: []string{"q2"}},
			{From: "q0", Symbol: "1", To: []string{"q0"}},
			{From: "q2", Symbol: "1", To: []string{"q1"}},
			{From: "q2", Symbol: "0", To: []string{"q2"}},
			{From: "q1", Symbol: "0", To: []string{"q1"}},
			{From: "q1", Symbol: "1", To: []string{"q1"}},
		},
	}
}

// redundantDescription accepts every word of length two or more over {a,b}.
// p1 and p2 are equivalent and p4 is unreachable.
func redundantDescription() Description {
	return Description{
		States:    []string{"p0", "p1", "p2", "p3", "p4"},
		Inputs:    []string{"a", "b"},
		Accepting: []string{"p3", "p4"},
		Start:     "p0",
		Transitions: []Transition{
			{From: "p0", Symbol: "a", To: []string{"p1"}},
			{From: "p0", Symbol: "b", To: []string{"p2"}},
			{From: "p1", Symbol: "a", To: []string{"p3"}},
			{From: "p1", Symbol: "b", To: []string{"p3"}},
			{From: "p2", Symbol: "a", To: []string{"p3"}},
			{From: "p2", Symbol: "b", To: []string{"p3"}},
			{From: "p3", Symbol: "a", To: []string{"p3"}},
			{From: "p3", Symbol: "b", To: []string{"p3"}},
			{From: "p4", Symbol: "a", To: []string{"p4"}},
			{From: "p4", Symbol: "b", To: []string{"p4"}},
		},
	}
}

func mustDFA(t *testing.T, desc Description) *DFA {
	t.Helper()
	d, err := NewDFA(desc)
	if err != nil {
		t.Fatalf("failed to build DFA: %v", err)
	}
	return d
}

func TestDFAEnter(t *testing.T) {
	tests := map[string]struct {
		givenSymbols []string
		wantState    string
		wantAccepted bool
	}{
		"no input stays in start": {
			wantState: "q0",
		},
		"101 ends accepted": {
			givenSymbols: []string{"1", "0", "1"},
			wantState:    "q1",
			wantAccepted: true,
		},
		"0 ends rejected": {
			givenSymbols: []string{"0"},
			wantState:    "q2",
		},
		"accepting state is a trap": {
			givenSymbols: []string{"0", "1", "1", "0", "0"},
			wantState:    "q1",
			wantAccepted: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			dfa := mustDFA(t, binaryDescription())

			// when
			got, err := dfa.Enter(tt.givenSymbols...)

			// then
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d := cmp.Diff(tt.wantState, got.Name); d != "" {
				t.Errorf("got state diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantAccepted, dfa.Accepted()); d != "" {
				t.Errorf("got accepted diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestDFAOutputAndReset(t *testing.T) {
	dfa := mustDFA(t, binaryDescription())

	accepted, err := dfa.Output("0", "1")
	if err != nil || !accepted {
		t.Fatalf("got %t, %v, want accepted", accepted, err)
	}

	dfa.Reset()
	if got := dfa.Current().Name; got != "q0" {
		t.Errorf("got %q after reset, want q0", got)
	}

	accepted, _ = dfa.Output("1")
	if accepted {
		t.Error(`"1" should be rejected`)
	}
}

func TestDFARecord(t *testing.T) {
	dfa := mustDFA(t, binaryDescription())

	// when
	got, err := dfa.Record("1", "0", "1")

	// then
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Run{
		{Current: []string{"q0"}},
		{Current: []string{"q0"}},
		{Current: []string{"q2"}},
		{Current: []string{"q1"}, Accepted: true},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]Run{want}, dfa.Records()); d != "" {
		t.Errorf("got records diff (-want +got):\n%s", d)
	}
}

func TestDFARecordStopsOnUnknownInput(t *testing.T) {
	dfa := mustDFA(t, binaryDescription())

	got, err := dfa.Record("0", "2", "1")

	if !errors.Is(err, ErrUnknownInput) {
		t.Fatalf("got error %v, want %v", err, ErrUnknownInput)
	}
	want := Run{
		{Current: []string{"q0"}},
		{Current: []string{"q2"}},
	}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
	if got := dfa.Current().Name; got != "q2" {
		t.Errorf("got current %q, want q2", got)
	}
}

func TestNewDFAErrors(t *testing.T) {
	tests := map[string]struct {
		givenChange func(*Description)
		wantErr     error
	}{
		"missing transition": {
			givenChange: func(desc *Description) { desc.Transitions = desc.Transitions[1:] },
			wantErr:     ErrStructure,
		},
		"two targets": {
			givenChange: func(desc *Description) { desc.Transitions[0].To = []string{"q1", "q2"} },
			wantErr:     ErrStructure,
		},
		"no target": {
			givenChange: func(desc *Description) { desc.Transitions[0].To = nil },
			wantErr:     ErrStructure,
		},
		"unknown target": {
			givenChange: func(desc *Description) { desc.Transitions[0].To = []string{"q9"} },
			wantErr:     ErrUnknownState,
		},
		"unknown input": {
			givenChange: func(desc *Description) { desc.Transitions[0].Symbol = "2" },
			wantErr:     ErrUnknownInput,
		},
		"unknown start": {
			givenChange: func(desc *Description) { desc.Start = "q9" },
			wantErr:     ErrUnknownState,
		},
		"unknown accepting state": {
			givenChange: func(desc *Description) { desc.Accepting = append(desc.Accepting, "q9") },
			wantErr:     ErrUnknownState,
		},
		"duplicate state": {
			givenChange: func(desc *Description) { desc.States = append(desc.States, "q1") },
			wantErr:     ErrNameCollision,
		},
		"epsilon is no input of a DFA": {
			givenChange: func(desc *Description) { desc.Transitions[0].Symbol = DefaultEpsilon },
			wantErr:     ErrUnknownInput,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			desc := binaryDescription()
			tt.givenChange(&desc)

			// when
			_, err := NewDFA(desc)

			// then
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("got error %v, want %v", err, tt.wantErr)
			}
			var structureErr *StructureError
			if !errors.As(err, &structureErr) {
				t.Errorf("got %T, want *StructureError", err)
			}
		})
	}
}

func TestDFAString(t *testing.T) {
	dfa := mustDFA(t, binaryDescription())

	want := `DFA {
	Q={q0,q1,q2}
	Σ={0,1}
	δ={
		q0,0->q2
		q0,1->q0
		q1,0->q1
		q1,1->q1
		q2,0->q2
		q2,1->q1
	}
	q0=q0
	F={q1}
}`
	if d := cmp.Diff(want, dfa.String()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}

func TestDistinguish(t *testing.T) {
	dfa := mustDFA(t, redundantDescription())

	// when
	got := dfa.Distinguish()

	// then
	want := [][2]string{{"p2", "p1"}, {"p4", "p3"}}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("got merged diff (-want +got):\n%s", d)
	}
	if name, _ := dfa.Alias("p2"); name != "p1" {
		t.Errorf("got alias %q for p2, want p1", name)
	}
	if name, _ := dfa.Alias("p4"); name != "p3" {
		t.Errorf("got alias %q for p4, want p3", name)
	}
}

func TestMinimize(t *testing.T) {
	dfa := mustDFA(t, redundantDescription())

	// when
	dfa.Minimize()

	// then
	want := strings.Join([]string{
		"p0,a->p1",
		"p0,b->p1",
		"p1,a->p3",
		"p1,b->p3",
		"p3,a->p3",
		"p3,b->p3",
	}, "\n")
	if d := cmp.Diff(want, dfa.Functions()); d != "" {
		t.Errorf("got functions diff (-want +got):\n%s", d)
	}
	if _, ok := dfa.State("p4"); ok {
		t.Error("unreachable state p4 should be gone")
	}
	if s, ok := dfa.State("p2"); !ok || s.Name != "p1" {
		t.Errorf("p2 should resolve to p1, got %v", s)
	}

	accepted, err := dfa.Output("b", "a")
	if err != nil || !accepted {
		t.Errorf(`got %t, %v for "ba", want accepted`, accepted, err)
	}
}

func TestMinimizeKeepsCurrentState(t *testing.T) {
	dfa := mustDFA(t, redundantDescription())
	if _, err := dfa.Enter("b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dfa.Minimize()

	if got := dfa.Current().Name; got != "p1" {
		t.Errorf("got current %q, want p1", got)
	}
}

func TestMinimizeAlreadyMinimal(t *testing.T) {
	dfa := mustDFA(t, binaryDescription())
	before := dfa.Functions()

	dfa.Minimize()

	if d := cmp.Diff(before, dfa.Functions()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}

// randomDFA builds a total DFA over {a,b} with n states named s00, s01, ...
func randomDFA(rnd *rand.Rand, n int) Description {
	desc := Description{Inputs: []string{"a", "b"}, Start: "s00"}
	for i := range n {
		name := fmt.Sprintf("s%02d", i)
		desc.States = append(desc.States, name)
		if rnd.IntN(3) == 0 {
			desc.Accepting = append(desc.Accepting, name)
		}
		for _, symbol := range desc.Inputs {
			desc.Transitions = append(desc.Transitions, Transition{
				From:   name,
				Symbol: symbol,
				To:     []string{fmt.Sprintf("s%02d", rnd.IntN(n))},
			})
		}
	}
	return desc
}

func randomWord(rnd *rand.Rand, inputs []string, maxLen int) []string {
	word := make([]string, rnd.IntN(maxLen+1))
	for i := range word {
		word[i] = inputs[rnd.IntN(len(inputs))]
	}
	return word
}

func TestMinimizeRandomDFAs(t *testing.T) {
	rnd := rand.New(rand.NewPCG(3, 5))

	for i := range 50 {
		t.Run(fmt.Sprintf("dfa %d", i), func(t *testing.T) {
			original := mustDFA(t, randomDFA(rnd, 2+rnd.IntN(10)))
			minimized := original.Clone()

			// when
			minimized.Minimize()

			// then
			if minimized.Len() > original.Len() {
				t.Fatalf("minimization grew the automaton from %d to %d states", original.Len(), minimized.Len())
			}
			for range 200 {
				word := randomWord(rnd, original.Inputs(), 12)
				if original.Accepts(word...) != minimized.Accepts(word...) {
					t.Fatalf("languages differ on %v:\n%s\n%s", word, original, minimized)
				}
			}

			before := minimized.Len()
			minimized.Minimize()
			if minimized.Len() != before {
				t.Errorf("second minimization changed the state count from %d to %d", before, minimized.Len())
			}
		})
	}
}

func TestDFANotMinimalBeforeMinimize(t *testing.T) {
	dfa := mustDFA(t, redundantDescription())
	c := dfa.Clone()

	c.Minimize()

	if dfa.Len() != 5 || c.Len() != 3 {
		t.Errorf("got %d and %d states, want 5 and 3", dfa.Len(), c.Len())
	}
}

func TestIsDead(t *testing.T) {
	desc := binaryDescription()
	desc.States = append(desc.States, "trap")
	desc.Transitions = append(desc.Transitions,
		Transition{From: "trap", Symbol: "0", To: []string{"trap"}},
		Transition{From: "trap", Symbol: "1", To: []string{"trap"}},
	)
	dfa := mustDFA(t, desc)

	for name, want := range map[string]bool{"q0": false, "q1": false, "q2": false, "trap": true} {
		s, _ := dfa.State(name)
		if got := dfa.IsDead(s); got != want {
			t.Errorf("IsDead(%s) = %t, want %t", name, got, want)
		}
	}
}

func TestRename(t *testing.T) {
	dfa := mustDFA(t, binaryDescription())
	if _, err := dfa.Enter("0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := dfa.Rename("q2", "seen0"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := dfa.Current().Name; got != "seen0" {
		t.Errorf("got current %q, want seen0", got)
	}
	if _, ok := dfa.State("q2"); ok {
		t.Error("old name should be gone")
	}
	if err := dfa.Rename("q0", "q1"); !errors.Is(err, ErrNameCollision) {
		t.Errorf("got error %v, want %v", err, ErrNameCollision)
	}
	if err := dfa.Rename("q9", "x"); !errors.Is(err, ErrUnknownState) {
		t.Errorf("got error %v, want %v", err, ErrUnknownState)
	}
}

func TestRelabel(t *testing.T) {
	dfa := mustDFA(t, binaryDescription())

	dfa.Relabel("s")

	want := strings.Join([]string{
		"s0,0->s1",
		"s0,1->s0",
		"s1,0->s1",
		"s1,1->s2",
		"s2,0->s2",
		"s2,1->s2",
	}, "\n")
	if d := cmp.Diff(want, dfa.Functions()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
	if d := cmp.Diff([]string{"s2"}, names(dfa.AcceptedStates())); d != "" {
		t.Errorf("got accepted diff (-want +got):\n%s", d)
	}
}

func TestRelabelAfterMinimize(t *testing.T) {
	dfa := mustDFA(t, redundantDescription())
	dfa.Minimize()

	// when
	dfa.Relabel("q")

	// then
	for _, name := range []string{"p0", "p1", "p2", "p3", "p4"} {
		if s, ok := dfa.State(name); ok {
			t.Errorf("old name %s still resolves to %s", name, s.Name)
		}
	}
	if d := cmp.Diff([]string{"q0", "q1", "q2"}, names(dfa.States())); d != "" {
		t.Errorf("got states diff (-want +got):\n%s", d)
	}
	if err := dfa.Rename("q0", "p4"); err != nil {
		t.Errorf("got error %v, want none", err)
	}
}

func TestReachableFreesNames(t *testing.T) {
	dfa := mustDFA(t, redundantDescription())

	dfa.Reachable()

	if _, ok := dfa.State("p4"); ok {
		t.Error("unreachable state p4 should be gone")
	}
	if err := dfa.Rename("p0", "p4"); err != nil {
		t.Fatalf("got error %v, want none", err)
	}
	if got := dfa.Start().Name; got != "p4" {
		t.Errorf("got start %q, want p4", got)
	}
}

func TestIndirectReach(t *testing.T) {
	dfa := mustDFA(t, redundantDescription())
	p1, _ := dfa.State("p1")

	got := dfa.namesOf(dfa.IndirectReach(p1.ID))

	if d := cmp.Diff([]string{"p1", "p3"}, got); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}

func TestDFACloneIsIndependent(t *testing.T) {
	dfa := mustDFA(t, redundantDescription())
	c := dfa.Clone()

	c.Minimize()
	if _, err := c.Enter("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if dfa.Len() != 5 {
		t.Errorf("got %d states in the original, want 5", dfa.Len())
	}
	if got := dfa.Current().Name; got != "p0" {
		t.Errorf("got original current %q, want p0", got)
	}
	if len(dfa.Records()) != 0 {
		t.Error("original should have no records")
	}
}

func names(states []*State) []string {
	var out []string
	for _, s := range states {
		out = append(out, s.Name)
	}
	return out
}
