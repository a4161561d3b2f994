package regex

import (
	"errors"
	"fmt"
	"slices"
)

var (
	ErrUnbalanced  = errors.New("unbalanced parentheses")
	ErrBracket     = errors.New("malformed collation")
	ErrMissingDash = errors.New("collation is missing the '-' character")
	ErrQuantifier  = errors.New("quantifier without operand")
	ErrTooDeep     = errors.New("groups nested too deeply")
)

// maxGroupDepth bounds the recursion of the group extraction.
const maxGroupDepth = 1000

type parserError struct {
	inner   error
	message string
}

func (p parserError) Error() string {
	return p.message
}

func (p parserError) Unwrap() error {
	return p.inner
}

func newParserError(i int, str string, inner error) parserError {
	if inner != nil {
		str = fmt.Sprintf("%s: %v", str, inner)
	}
	return parserError{message: fmt.Sprintf("parser error at %d: %s", i, str), inner: inner}
}

type tokenKind int

const (
	literal tokenKind = iota
	meta
	class
	group
)

// token is one element of the bracket extraction: a data byte, an unescaped
// meta character, a perl character class or a parenthesized sub list.
type token struct {
	kind   tokenKind
	char   byte
	ranges []charRange
	group  []token
	pos    int
}

func isMeta(c byte) bool {
	switch c {
	case '|', '*', '+', '?', '[', ']', '-':
		return true
	}
	return false
}

func parse(re string) (Operator, error) {
	tokens, _, err := extractGroups(re, 0, 0)
	if err != nil {
		return nil, err
	}
	return process(tokens)
}

// extractGroups turns re[i:] into a token list, recursing into every
// parenthesized group. Escapes are resolved here, so escaped meta characters
// are plain data from now on. It returns the index after the group.
func extractGroups(re string, i int, depth int) ([]token, int, error) {
	if depth > maxGroupDepth {
		return nil, i, newParserError(i, "too many nested groups", ErrTooDeep)
	}

	var tokens []token
	for i < len(re) {
		c := re[i]
		switch {
		case c == '(':
			sub, j, err := extractGroups(re, i+1, depth+1)
			if err != nil {
				return nil, j, err
			}
			tokens = append(tokens, token{kind: group, group: sub, pos: i})
			i = j
			continue
		case c == ')':
			if depth == 0 {
				return nil, i, newParserError(i, "unexpected ')'", ErrUnbalanced)
			}
			return tokens, i + 1, nil
		case c == '\\':
			if i+1 >= len(re) {
				return nil, i, newParserError(i, "unexpected EOS", nil)
			}
			if ranges := parsePerlCharSet(re, i); ranges != nil {
				tokens = append(tokens, token{kind: class, ranges: ranges, pos: i})
			} else {
				tokens = append(tokens, token{kind: literal, char: escapedChar(re[i+1]), pos: i})
			}
			i += 2
			continue
		case isMeta(c):
			tokens = append(tokens, token{kind: meta, char: c, pos: i})
		default:
			tokens = append(tokens, token{kind: literal, char: c, pos: i})
		}
		i++
	}

	if depth > 0 {
		return nil, i, newParserError(i, "did not find closing ')'", ErrUnbalanced)
	}
	return tokens, i, nil
}

// item is either a token still waiting to be resolved or a finished operator.
type item struct {
	tok token
	op  Operator
}

func (it item) isMeta(c byte) bool {
	return it.op == nil && it.tok.kind == meta && it.tok.char == c
}

// process resolves a token list into a single operator. Precedence, from
// tightest: collations, groups, postfix quantifiers, concatenation,
// alternation.
func process(tokens []token) (Operator, error) {
	items, err := collate(tokens)
	if err != nil {
		return nil, err
	}
	if items, err = resolveGroups(items); err != nil {
		return nil, err
	}
	if items, err = toUnary(items); err != nil {
		return nil, err
	}
	return alternate(concatenate(items)), nil
}

// collate replaces every [x-y...] run by a Collation and every remaining data
// token by a Single.
func collate(tokens []token) ([]item, error) {
	var items []item
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch {
		case t.kind == meta && t.char == '[':
			end := slices.IndexFunc(tokens[i+1:], func(t token) bool { return t.kind == meta && t.char == ']' })
			if end == -1 {
				return nil, newParserError(t.pos, "did not find closing ']'", ErrBracket)
			}
			c, err := parseCollation(tokens[i+1:i+1+end], t.pos)
			if err != nil {
				return nil, err
			}
			items = append(items, item{op: c})
			i += end + 1
		case t.kind == meta && (t.char == ']' || t.char == '-'):
			items = append(items, item{op: Single{Char: t.char}})
		case t.kind == literal:
			items = append(items, item{op: Single{Char: t.char}})
		case t.kind == class:
			items = append(items, item{op: Collation{Ranges: t.ranges}})
		default:
			items = append(items, item{tok: t})
		}
	}
	return items, nil
}

// parseCollation reads the inside of a bracket: a list of x-y ranges and perl
// classes.
func parseCollation(tokens []token, pos int) (Collation, error) {
	if len(tokens) == 0 {
		return Collation{}, newParserError(pos, "empty collation", ErrBracket)
	}

	var ranges []charRange
	for i := 0; i < len(tokens); {
		t := tokens[i]
		switch t.kind {
		case class:
			ranges = append(ranges, t.ranges...)
			i++
			continue
		case group:
			return Collation{}, newParserError(t.pos, "group inside collation, escape '(' and ')'", ErrBracket)
		}

		if i+2 >= len(tokens) || !isDash(tokens[i+1]) || !isCollationChar(tokens[i+2]) {
			return Collation{}, newParserError(t.pos, "collation parsing failed", ErrMissingDash)
		}
		from, to := t.char, tokens[i+2].char
		if from > to {
			return Collation{}, newParserError(t.pos, fmt.Sprintf("invalid range %q-%q", from, to), ErrBracket)
		}
		ranges = append(ranges, charRange{from: from, to: to})
		i += 3
	}
	return Collation{Ranges: ranges}, nil
}

func isDash(t token) bool {
	return t.kind == meta && t.char == '-'
}

func isCollationChar(t token) bool {
	return t.kind == literal || t.kind == meta
}

func resolveGroups(items []item) ([]item, error) {
	out := make([]item, len(items))
	for i, it := range items {
		if it.op == nil && it.tok.kind == group {
			op, err := process(it.tok.group)
			if err != nil {
				return nil, err
			}
			it = item{op: op}
		}
		out[i] = it
	}
	return out, nil
}

// toUnary binds every postfix quantifier to the operand right before it.
func toUnary(items []item) ([]item, error) {
	var out []item
	for _, it := range items {
		var wrap func(Operator) Operator
		switch {
		case it.isMeta('*'):
			wrap = func(op Operator) Operator { return KleeneStar{Item: op} }
		case it.isMeta('+'):
			wrap = func(op Operator) Operator { return KleenePlus{Item: op} }
		case it.isMeta('?'):
			wrap = func(op Operator) Operator { return QuestionMark{Item: op} }
		default:
			out = append(out, it)
			continue
		}

		if len(out) == 0 || out[len(out)-1].op == nil {
			return nil, newParserError(it.tok.pos, fmt.Sprintf("nothing to repeat before %q", it.tok.char), ErrQuantifier)
		}
		out[len(out)-1].op = wrap(out[len(out)-1].op)
	}
	return out, nil
}

// concatenate joins every run of adjacent operands, leaving the '|' tokens
// between them. Each returned slice is one alternative.
func concatenate(items []item) [][]Operator {
	alternatives := [][]Operator{nil}
	for _, it := range items {
		if it.isMeta('|') {
			alternatives = append(alternatives, nil)
			continue
		}
		last := len(alternatives) - 1
		alternatives[last] = append(alternatives[last], it.op)
	}
	return alternatives
}

func alternate(alternatives [][]Operator) Operator {
	choices := make([]Operator, 0, len(alternatives))
	for _, operands := range alternatives {
		switch len(operands) {
		case 0:
			choices = append(choices, Empty{})
		case 1:
			choices = append(choices, operands[0])
		default:
			choices = append(choices, Concatenation{Items: operands})
		}
	}
	if len(choices) == 1 {
		return choices[0]
	}
	return Alternation{Items: choices}
}

// supported: \w, \W, \d, \D, \s, \S
func parsePerlCharSet(re string, i int) []charRange {
	if i+1 < len(re) {
		s := re[i : i+2]
		switch s {
		case `\w`, `\W`:
			ranges := []charRange{
				{from: 'a', to: 'z'},
				{from: 'A', to: 'Z'},
				{from: '0', to: '9'},
				{from: '_', to: '_'},
			}
			if s == `\W` {
				return negateCharRanges(ranges)
			}
			return ranges
		case `\d`, `\D`:
			ranges := []charRange{
				{from: '0', to: '9'},
			}
			if s == `\D` {
				return negateCharRanges(ranges)
			}
			return ranges
		case `\s`, `\S`:
			ranges := []charRange{
				{from: ' ', to: ' '},
				{from: '\t', to: '\t'},
				{from: '\r', to: '\r'},
				{from: '\n', to: '\n'},
				{from: '\v', to: '\v'},
				{from: '\f', to: '\f'},
			}
			if s == `\S` {
				return negateCharRanges(ranges)
			}
			return ranges
		}
	}

	return nil
}

// negateCharRanges returns the complement of ranges within ASCII.
func negateCharRanges(ranges []charRange) []charRange {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b charRange) int {
		return int(a.from) - int(b.from)
	})

	var newRanges []charRange
	from := 0
	for _, r := range sorted {
		if int(r.from) > from {
			newRanges = append(newRanges, charRange{from: byte(from), to: r.from - 1})
		}
		from = max(from, int(r.to)+1)
	}
	if from <= asciiMax {
		newRanges = append(newRanges, charRange{from: byte(from), to: asciiMax})
	}
	return newRanges
}

const asciiMax = 0x7f

// parse an ASCII escape sequence from c if there is one (e.g. '\t', '\n', ...)
// if c isn't an ASCII escape sequence, return c
// should be called if the character preceding c in the input string is '\'
// https://en.wikipedia.org/wiki/Escape_sequences_in_C
func escapedChar(c byte) byte {
	switch c {
	case 'a':
		return '\a'
	case 'b':
		return '\b'
	case 'e':
		return 0x1b
	case 'f':
		return '\f'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 't':
		return '\t'
	case 'v':
		return '\v'
	}
	return c
}
