package regex

// Patterns are compiled all the way to a minimal DFA:
// pattern -> operator tree -> epsilon NFA -> NFA -> DFA -> minimized DFA.
// Supported are literals, escapes, grouping, alternation, the quantifiers
// '*', '+' and '?', collations like [a-zA-Z] and the perl classes \d, \w, \s
// and their negations.

import (
	"fmt"

	"github.com/mfroeh/gofa/automaton"
)

// Regex is a compiled pattern. It is immutable and safe for concurrent use.
type Regex struct {
	pattern string
	root    Operator
	dfa     *automaton.DFA
	valid   [256]bool
	dead    map[automaton.StateID]bool
}

func Compile(re string) (Regex, error) {
	root, err := parse(re)
	if err != nil {
		return Regex{}, fmt.Errorf("failed to construct regex from %q: %w", re, err)
	}

	dfa, err := automaton.EpsilonNFAToDFA(root.Assemble())
	if err != nil {
		return Regex{}, fmt.Errorf("failed to determinize %q: %w", re, err)
	}
	dfa.Minimize()
	dfa.Relabel("q")

	compiled := Regex{
		pattern: re,
		root:    root,
		dfa:     dfa,
		dead:    make(map[automaton.StateID]bool),
	}
	for _, symbol := range dfa.Inputs() {
		compiled.valid[symbol[0]] = true
	}
	for _, s := range dfa.States() {
		if dfa.IsDead(s) {
			compiled.dead[s.ID] = true
		}
	}
	return compiled, nil
}

func MustCompile(re string) Regex {
	compiled, err := Compile(re)
	if err != nil {
		panic(err)
	}
	return compiled
}

// Check reports whether the whole of text is in the language of the pattern.
// A byte the pattern never mentions rejects right away.
func (re Regex) Check(text string) bool {
	s := re.dfa.Start()
	for i := 0; i < len(text); i++ {
		if !re.valid[text[i]] {
			return false
		}
		next, ok := re.dfa.Next(s, text[i:i+1])
		if !ok {
			return false
		}
		s = next
	}
	return s.Accepting()
}

// ValidCharacters returns the alphabet of the compiled automaton, sorted.
func (re Regex) ValidCharacters() []byte {
	var chars []byte
	for c, ok := range re.valid {
		if ok {
			chars = append(chars, byte(c))
		}
	}
	return chars
}

func (re Regex) MinLength() int {
	return re.root.MinLength()
}

func (re Regex) String() string {
	return re.pattern
}

// Tree returns the parsed operator tree.
func (re Regex) Tree() Operator {
	return re.root
}

// Automaton returns a copy of the minimized DFA.
func (re Regex) Automaton() *automaton.DFA {
	return re.dfa.Clone()
}

// FindAllIndex returns the [start, end) offsets of up to n leftmost longest,
// non-empty matches in s. To return all matches pass an n of -1.
func (re Regex) FindAllIndex(s string, n int) [][]int {
	var matches [][]int
	for i := 0; i < len(s); {
		if n != -1 && len(matches) >= n {
			break
		}
		end := re.longestMatch(s, i)
		if end <= i {
			i++
			continue
		}
		matches = append(matches, []int{i, end})
		i = end
	}
	return matches
}

// FindAll is FindAllIndex returning the matched text.
func (re Regex) FindAll(s string, n int) []string {
	var matches []string
	for _, m := range re.FindAllIndex(s, n) {
		matches = append(matches, s[m[0]:m[1]])
	}
	return matches
}

// longestMatch returns the end of the longest match starting at i, or -1.
func (re Regex) longestMatch(s string, i int) int {
	state := re.dfa.Start()
	end := -1
	if state.Accepting() {
		end = i
	}
	for j := i; j < len(s); j++ {
		if !re.valid[s[j]] {
			break
		}
		next, ok := re.dfa.Next(state, s[j:j+1])
		if !ok || re.dead[next.ID] {
			break
		}
		state = next
		if state.Accepting() {
			end = j + 1
		}
	}
	return end
}
