package repl

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/areport/lang"
)

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // qualified function name, for example "Math.max"
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// isNameRune reports whether r may appear in a qualified function name.
func isNameRune(r rune) bool {
	return r == '.' || r == '_' ||
		(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// detectFunctionCall reports whether the cursor is inside the parameter list
// of a call and, if so, the function name and the index of the argument
// under the cursor. Brackets and quoted text inside the list are skipped
// when counting arguments.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(cursor, len(input))

	// Scan backward for the unmatched '(' enclosing the cursor.
	open := -1
	depth := 0

scan:
	for i := cursor; i > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:i])
		i -= size

		switch r {
		case ')', ']':
			depth++
		case '(', '[':
			if depth == 0 {
				if r == '(' {
					open = i
				}

				break scan
			}

			depth--
		}
	}

	if open == -1 {
		return functionCall{}
	}

	nameStart := open

	for nameStart > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:nameStart])
		if !isNameRune(r) {
			break
		}

		nameStart -= size
	}

	name := strings.Trim(input[nameStart:open], ".")
	if name == "" {
		return functionCall{}
	}

	argIndex := 0
	depth = 0
	quoted := false

	for i, r := range input[open+1 : cursor] {
		switch {
		case r == '\'' && (i == 0 || input[open+i] != '\\'):
			quoted = !quoted
		case quoted:
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			depth--
		case r == ',' && depth == 0:
			argIndex++
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// paramNames returns display names for the parameters of f: arg1..argN for
// required arguments, [argK] for optional ones, and ...args when the count
// is unbounded.
func paramNames(f lang.Func) []string {
	n := max(f.MinArgs, f.MaxArgs)
	params := make([]string, 0, n+1)

	for i := range n {
		name := "arg" + strconv.Itoa(i+1)
		if i >= f.MinArgs {
			name = "[" + name + "]"
		}

		params = append(params, name)
	}

	if f.MaxArgs < 0 {
		params = append(params, "...args")
	}

	return params
}

// signature returns the call signature of the registered function name and
// its parameter names, or "" if name is not a registered function.
func (s *session) signature(name string) (string, []string) {
	f, ok := s.registry.Func(name)
	if !ok {
		return "", nil
	}

	params := paramNames(f)

	return name + "(" + strings.Join(params, ", ") + ")", params
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	openParen := strings.Index(signature, "(")
	if openParen == -1 || !strings.HasSuffix(signature, ")") {
		return signatureStyle.Render(signature)
	}

	funcName := signature[:openParen]

	if len(params) == 0 {
		return signatureNameStyle.Render(funcName) +
			signatureStyle.Render("()")
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(funcName))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// A variadic parameter stays highlighted for every later argument.
		variadic := strings.HasPrefix(param, "...")

		if currentArgIdx == i || (variadic && currentArgIdx > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
