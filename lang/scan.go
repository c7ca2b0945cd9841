package lang

import (
	"strconv"
	"strings"
)

// operatorChars are the characters that may begin or continue an operator.
// A '+' or '-' following one of them (or an opening bracket, comma, or the
// start of input) is a unary sign rather than a binary operator.
const operatorChars = "+-*/%&|~!<>=?:(,["

// extract replaces every single-quoted string literal in src with a slot
// placeholder $$N and records the literal text in c.slots. A backslash
// escapes a quote or another backslash inside a literal.
//
// extract also verifies that round and square brackets outside literals are
// balanced and properly nested.
func (c *call) extract(src string) (string, error) {
	var (
		out   strings.Builder
		stack []int // offsets of unmatched opening brackets
	)

	out.Grow(len(src))

	for i := 0; i < len(src); i++ {
		ch := src[i]

		switch ch {
		case '(', '[':
			stack = append(stack, i)

		case ')', ']':
			want := byte('(')
			if ch == ']' {
				want = '['
			}

			if len(stack) == 0 || src[stack[len(stack)-1]] != want {
				return "", newParseError(c.src, i, "unbalanced "+strconv.QuoteRune(rune(ch)))
			}

			stack = stack[:len(stack)-1]

		case '\'':
			start := i

			var (
				lit    strings.Builder
				closed bool
			)

			for i++; i < len(src) && !closed; i++ {
				switch src[i] {
				case '\\':
					if i+1 < len(src) && (src[i+1] == '\'' || src[i+1] == '\\') {
						i++
					}

					lit.WriteByte(src[i])

				case '\'':
					closed = true

				default:
					lit.WriteByte(src[i])
				}
			}

			if !closed {
				return "", newParseError(c.src, start, "unterminated string literal")
			}

			i-- // the loop increment moved past the closing quote

			c.slots = append(c.slots, lit.String())
			out.WriteString("$$")
			out.WriteString(strconv.Itoa(len(c.slots) - 1))

			continue
		}

		out.WriteByte(ch)
	}

	if len(stack) > 0 {
		return "", newParseError(c.src, stack[len(stack)-1], "unbalanced "+strconv.QuoteRune(rune(src[stack[len(stack)-1]])))
	}

	return out.String(), nil
}

// matchOpen returns the offset of the bracket opening the group closed at
// s[i], or -1.
func matchOpen(s string, i int) int {
	depth := 0

	for j := i; j >= 0; j-- {
		switch s[j] {
		case ')', ']':
			depth++
		case '(', '[':
			depth--
			if depth == 0 {
				return j
			}
		}
	}

	return -1
}

// matchClose returns the offset of the bracket closing the group opened at
// s[i], or -1.
func matchClose(s string, i int) int {
	depth := 0

	for j := i; j < len(s); j++ {
		switch s[j] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth == 0 {
				return j
			}
		}
	}

	return -1
}

// indexTop returns the offset of the first occurrence of ch in s outside any
// bracket group, or -1.
func indexTop(s string, ch byte) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ch:
			return i
		case '(', '[':
			if j := matchClose(s, i); j > 0 {
				i = j
			}
		}
	}

	return -1
}

// splitTop splits s around every occurrence of sep outside bracket groups.
// An empty or blank s yields no parts.
func splitTop(s string, sep byte) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var parts []string

	for {
		i := indexTop(s, sep)
		if i < 0 {
			return append(parts, strings.TrimSpace(s))
		}

		parts = append(parts, strings.TrimSpace(s[:i]))
		s = s[i+1:]
	}
}

// wrapped reports whether s is entirely enclosed by one pair of parentheses.
func wrapped(s string) bool {
	return len(s) >= 2 && s[0] == '(' && matchClose(s, 0) == len(s)-1
}

// splitOperator finds the rightmost binary operator in s outside bracket
// groups. Without precedence, a-b-c groups as (a-b)-c and 1+2*3 as (1+2)*3.
func splitOperator(s string) (op string, at int, ok bool) {
	for i := len(s) - 1; i >= 0; i-- {
		ch := s[i]

		switch ch {
		case ')', ']':
			i = matchOpen(s, i)

		case '=':
			if i > 0 && strings.IndexByte("!<>=", s[i-1]) >= 0 {
				return s[i-1 : i+1], i - 1, true
			}

			return "=", i, true

		case '&', '|':
			if i > 0 && s[i-1] == ch {
				return s[i-1 : i+1], i - 1, true
			}

			return string(ch), i, true

		case '+', '-':
			if isUnary(s, i) {
				continue
			}

			return string(ch), i, true

		case '*', '/', '%', '~', '<', '>':
			return string(ch), i, true
		}
	}

	return "", -1, false
}

// isUnary reports whether the sign at s[i] applies to the operand on its
// right only.
func isUnary(s string, i int) bool {
	j := strings.LastIndexFunc(s[:i], func(r rune) bool { return r != ' ' && r != '\t' })

	return j < 0 || strings.IndexByte(operatorChars, s[j]) >= 0
}

// splitTernary splits "cond ? then : else" at the first '?' outside bracket
// groups and its matching ':'.
func splitTernary(s string) (cond, then, other string, ok bool) {
	q := indexTop(s, '?')
	if q < 0 {
		return "", "", "", false
	}

	depth := 0

	for i := q + 1; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			if j := matchClose(s, i); j > 0 {
				i = j
			}
		case '?':
			depth++
		case ':':
			if depth == 0 {
				return s[:q], s[q+1 : i], s[i+1:], true
			}

			depth--
		}
	}

	return s[:q], s[q+1:], "", true
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isUpper(ch byte) bool { return ch >= 'A' && ch <= 'Z' }

func isIdentByte(ch byte, first bool) bool {
	switch {
	case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		return true
	case isDigit(ch):
		return !first
	default:
		return false
	}
}

// isIdent reports whether s is a valid identifier.
func isIdent(s string) bool {
	if s == "" {
		return false
	}

	for i := range len(s) {
		if !isIdentByte(s[i], i == 0) {
			return false
		}
	}

	return true
}

// identLen returns the length of the identifier prefix of s.
func identLen(s string) int {
	n := 0
	for n < len(s) && isIdentByte(s[n], n == 0) {
		n++
	}

	return n
}
