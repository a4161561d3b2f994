package automaton

// Kind names the flavor of an automaton. It shows up in dumps and errors.
type Kind string

const (
	KindDFA        Kind = "DFA"
	KindNFA        Kind = "NFA"
	KindEpsilonNFA Kind = "EpsilonNFA"
)

// DefaultEpsilon is the epsilon marker of the standard text format.
const DefaultEpsilon = "$"

// Transition is one line of a transition table: From on Symbol goes to every
// state in To.
type Transition struct {
	From   string
	Symbol string
	To     []string
}

// Description is an already parsed automaton. Producing one from text is the
// job of a Generator.
type Description struct {
	States      []string
	Inputs      []string
	Accepting   []string
	Start       string
	Transitions []Transition
	// Epsilon marks epsilon transitions, DefaultEpsilon when empty.
	Epsilon string
}

// Generator turns the text of some automaton format into a Description.
type Generator interface {
	Scan(text string) (Description, error)
}

func DFAFromText(text string, g Generator) (*DFA, error) {
	desc, err := g.Scan(text)
	if err != nil {
		return nil, err
	}
	return NewDFA(desc)
}

func NFAFromText(text string, g Generator) (*NFA, error) {
	desc, err := g.Scan(text)
	if err != nil {
		return nil, err
	}
	return NewNFA(desc)
}

func EpsilonNFAFromText(text string, g Generator) (*EpsilonNFA, error) {
	desc, err := g.Scan(text)
	if err != nil {
		return nil, err
	}
	return NewEpsilonNFA(desc)
}
