package regex

import (
	"strings"

	"github.com/mfroeh/gofa/automaton"
)

// epsilon marks epsilon transitions in assembled automata. It is two bytes
// long, so it can never collide with a pattern byte.
const epsilon = "ε"

// Operator is a node of the parsed pattern. Nodes are immutable; MinLength and
// Assemble only depend on the subtree.
type Operator interface {
	// MinLength is the length of the shortest accepted text.
	MinLength() int
	// Assemble builds an epsilon NFA for the subtree.
	Assemble() *automaton.EpsilonNFA
	String() string
}

type Single struct {
	Char byte
}

type Concatenation struct {
	Items []Operator
}

type Alternation struct {
	Items []Operator
}

type KleeneStar struct {
	Item Operator
}

type KleenePlus struct {
	Item Operator
}

type QuestionMark struct {
	Item Operator
}

// Collation matches one character of any of its ranges.
type Collation struct {
	Ranges []charRange
}

// Empty matches only the empty text, as in "()" or "a|".
type Empty struct{}

type charRange struct {
	from byte
	to   byte
}

func (s Single) MinLength() int { return 1 }

func (s Single) Assemble() *automaton.EpsilonNFA {
	return automaton.Symbols(epsilon, string([]byte{s.Char}))
}

func (s Single) String() string {
	return quoteChar(s.Char)
}

func (c Concatenation) MinLength() int {
	n := 0
	for _, op := range c.Items {
		n += op.MinLength()
	}
	return n
}

func (c Concatenation) Assemble() *automaton.EpsilonNFA {
	result := c.Items[0].Assemble()
	for _, op := range c.Items[1:] {
		result = automaton.Concat(result, op.Assemble())
	}
	return result
}

func (c Concatenation) String() string {
	b := strings.Builder{}
	for _, op := range c.Items {
		if _, ok := op.(Alternation); ok {
			b.WriteString("(" + op.String() + ")")
			continue
		}
		b.WriteString(op.String())
	}
	return b.String()
}

func (a Alternation) MinLength() int {
	n := a.Items[0].MinLength()
	for _, op := range a.Items[1:] {
		n = min(n, op.MinLength())
	}
	return n
}

func (a Alternation) Assemble() *automaton.EpsilonNFA {
	result := a.Items[0].Assemble()
	for _, op := range a.Items[1:] {
		result = automaton.Union(result, op.Assemble())
	}
	return result
}

func (a Alternation) String() string {
	choices := make([]string, len(a.Items))
	for i, op := range a.Items {
		choices[i] = op.String()
	}
	return strings.Join(choices, "|")
}

func (k KleeneStar) MinLength() int { return 0 }

func (k KleeneStar) Assemble() *automaton.EpsilonNFA {
	return k.Item.Assemble().Kleene()
}

func (k KleeneStar) String() string {
	return atom(k.Item) + "*"
}

func (k KleenePlus) MinLength() int { return k.Item.MinLength() }

func (k KleenePlus) Assemble() *automaton.EpsilonNFA {
	return k.Item.Assemble().Plus()
}

func (k KleenePlus) String() string {
	return atom(k.Item) + "+"
}

func (q QuestionMark) MinLength() int { return 0 }

func (q QuestionMark) Assemble() *automaton.EpsilonNFA {
	return q.Item.Assemble().Optional()
}

func (q QuestionMark) String() string {
	return atom(q.Item) + "?"
}

func (c Collation) MinLength() int { return 1 }

func (c Collation) Assemble() *automaton.EpsilonNFA {
	return automaton.Symbols(epsilon, c.symbols()...)
}

func (c Collation) symbols() []string {
	var seen [256]bool
	var symbols []string
	for _, r := range c.Ranges {
		for ch := int(r.from); ch <= int(r.to); ch++ {
			if !seen[ch] {
				seen[ch] = true
				symbols = append(symbols, string([]byte{byte(ch)}))
			}
		}
	}
	return symbols
}

func (c Collation) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	for _, r := range c.Ranges {
		b.WriteString(quoteChar(r.from) + "-" + quoteChar(r.to))
	}
	b.WriteByte(']')
	return b.String()
}

func (Empty) MinLength() int { return 0 }

func (Empty) Assemble() *automaton.EpsilonNFA {
	return automaton.Epsilon(epsilon)
}

func (Empty) String() string {
	return "()"
}

// atom wraps op in a group when a postfix quantifier would otherwise bind to
// only part of it.
func atom(op Operator) string {
	switch op.(type) {
	case Single, Collation, Empty:
		return op.String()
	}
	return "(" + op.String() + ")"
}

func quoteChar(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\f':
		return `\f`
	case '\v':
		return `\v`
	case '(', ')', '\\':
		return `\` + string([]byte{c})
	}
	if isMeta(c) {
		return `\` + string([]byte{c})
	}
	return string([]byte{c})
}
