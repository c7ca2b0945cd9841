package lang

import "strings"

// FormatString expands every {{expr}} in tmpl with the textual form of expr
// evaluated against bound. Text outside the braces is copied unchanged.
func (e *Evaluator) FormatString(tmpl string, bound any) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	var sb strings.Builder

	rest := tmpl
	for {
		open := strings.Index(rest, "{{")
		if open < 0 {
			sb.WriteString(rest)

			return sb.String(), nil
		}

		end := closeBraces(rest[open+2:])
		if end < 0 {
			return "", newParseError(tmpl, len(tmpl)-len(rest)+open, "unterminated {{")
		}

		sb.WriteString(rest[:open])

		v, err := e.Evaluate(rest[open+2:open+2+end], bound)
		if err != nil {
			return "", err
		}

		sb.WriteString(Text(v))
		rest = rest[open+2+end+2:]
	}
}

// closeBraces returns the offset of the first "}}" in s that is not inside a
// single-quoted literal, or -1. When a literal is left open the first "}}"
// is used, so evaluation reports the unterminated literal.
func closeBraces(s string) int {
	quoted := false

	for i := 0; i < len(s); i++ {
		switch {
		case quoted && s[i] == '\\':
			i++
		case s[i] == '\'':
			quoted = !quoted
		case !quoted && strings.HasPrefix(s[i:], "}}"):
			return i
		}
	}

	if quoted {
		return strings.Index(s, "}}")
	}

	return -1
}
