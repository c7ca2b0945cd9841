package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
)

// ctrlCommands are the available control-mode commands.
var ctrlCommands = []string{"help", "list", "set", "edit", "clear", "quit"}

// keywords complete at the top level alongside variables and classes.
var keywords = []string{"true", "false", "null"}

// isWordBoundary reports whether r delimits a completion word: whitespace,
// the member-access dot, a quote, or an operator or bracket of the
// expression language.
func isWordBoundary(r rune) bool {
	switch r {
	case '.', ' ', '\t', '\'',
		'(', ')', '[', ']',
		'+', '-', '*', '/', '%',
		'<', '>', '=', '!', '~',
		'&', '|', ',', '?', ':':
		return true
	}

	return false
}

// wordBounds returns the word at the cursor and its byte boundaries within
// input. The word is empty when the cursor sits on a boundary.
func wordBounds(input string, cursor int) (word string, start, end int) {
	cursor = min(cursor, len(input))

	for start = cursor; start > 0; {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	for end = cursor; end < len(input); {
		r, size := utf8.DecodeRuneInString(input[end:])
		if isWordBoundary(r) {
			break
		}

		end += size
	}

	return input[start:end], start, end
}

// parentPath returns the member-access chain leading up to the word that
// starts at wordStart. For input "1 + dept.head.na" and the word "na", the
// parent path is "dept.head". Top-level words have an empty parent.
func parentPath(input string, wordStart int) string {
	prefix := input[:wordStart]
	if !strings.HasSuffix(prefix, ".") {
		return ""
	}

	prefix = strings.TrimRight(prefix, ".")
	pos := len(prefix)

	for pos > 0 {
		r, size := utf8.DecodeLastRuneInString(prefix[:pos])
		if r != '.' && isWordBoundary(r) {
			break
		}

		pos -= size
	}

	return strings.TrimSpace(prefix[pos:])
}

// childCandidates returns the completions valid after parent. An empty
// parent yields the variables in scope, the registered classes and the
// keywords. A class name yields its members. Any other parent is evaluated
// and its map keys or struct fields are returned.
func (s *session) childCandidates(parent string) []string {
	if parent == "" {
		names := s.variables()
		names = append(names, s.classes()...)

		return append(names, keywords...)
	}

	if s.registry.HasClass(parent) {
		return s.members(parent)
	}

	v, err := s.evaluate(parent)
	if err != nil {
		return nil
	}

	return s.properties(v)
}

// computeMatches calculates the fuzzy match results for the word at the
// cursor, ranked best first, along with the word boundaries. An empty word at
// the top level yields no matches so the hint stays visible; an empty word
// after a dot yields every member so the user can browse them.
func (m model) computeMatches() (
	matches fuzzy.Matches,
	parent string,
	wordStart, wordEnd int,
) {
	input := m.input.Value()

	word, wordStart, wordEnd := wordBounds(input, m.input.Position())

	var candidates []string

	if m.mode == modeCtrl {
		if word == "" {
			return nil, "", wordStart, wordEnd
		}

		candidates = ctrlCommands
	} else {
		parent = parentPath(input, wordStart)
		candidates = m.session.childCandidates(parent)

		if word == "" {
			if parent == "" || len(candidates) == 0 {
				return nil, parent, wordStart, wordEnd
			}

			matches = make(fuzzy.Matches, len(candidates))
			for i, c := range candidates {
				matches[i] = fuzzy.Match{Str: c, Index: i}
			}

			return matches, parent, wordStart, wordEnd
		}
	}

	if len(candidates) == 0 {
		return nil, parent, wordStart, wordEnd
	}

	return fuzzy.Find(word, candidates), parent, wordStart, wordEnd
}

// renderCandidateBar builds the single-line completion bar, ellipsized to
// fit within width. Matched characters are highlighted, and the selected
// candidate uses the selected style while tab-cycling. Candidates for which
// isFunc reports true are suffixed with "()".
func renderCandidateBar(
	matches fuzzy.Matches,
	suggIdx int,
	tabActive bool,
	width int,
	isFunc func(string) bool,
) string {
	if len(matches) == 0 || width <= 0 {
		return ""
	}

	const sep = "  "

	sepWidth := lipgloss.Width(sep)
	ellipsis := hintStyle.Render("...")
	ellipsisWidth := lipgloss.Width(ellipsis)

	var b strings.Builder

	used := 0

	for i, match := range matches {
		rendered := renderCandidate(match, tabActive && i == suggIdx, isFunc(match.Str))

		entryWidth := lipgloss.Width(rendered)
		if i > 0 {
			entryWidth += sepWidth
		}

		if used+entryWidth+ellipsisWidth > width && i > 0 {
			b.WriteString(sep)
			b.WriteString(ellipsis)

			break
		}

		if i > 0 {
			b.WriteString(sep)
		}

		b.WriteString(rendered)

		used += entryWidth
	}

	return b.String()
}

// renderCandidate renders a single candidate with matched characters
// highlighted.
func renderCandidate(match fuzzy.Match, selected, function bool) string {
	baseStyle := suggestionStyle
	highlightStyle := matchStyle

	if selected {
		baseStyle = selectedStyle
		highlightStyle = selectedMatchStyle
	}

	matched := make(map[int]bool, len(match.MatchedIndexes))
	for _, idx := range match.MatchedIndexes {
		matched[idx] = true
	}

	var b strings.Builder

	for i, r := range match.Str {
		if matched[i] {
			b.WriteString(highlightStyle.Render(string(r)))
		} else {
			b.WriteString(baseStyle.Render(string(r)))
		}
	}

	if function {
		b.WriteString(baseStyle.Render("()"))
	}

	return b.String()
}

// preview returns a one-line summary of a variable's value for the list
// command.
func preview(v any) string {
	const limit = 40

	text, err := FormatResult(v)
	if err != nil {
		return "<" + err.Error() + ">"
	}

	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) > limit {
		return string([]rune(text)[:limit-3]) + "..."
	}

	return text
}
