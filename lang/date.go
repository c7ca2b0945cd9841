package lang

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// dateTokens maps runs of pattern letters to Go reference layout elements.
// Longer runs are listed first for each letter; every letter has a run of 1.
// Fraction layouts keep their leading dot because Go only recognizes
// fractional seconds after one.
//
//nolint:gochecknoglobals
var dateTokens = map[byte][]struct {
	run    int
	layout string
}{
	'y': {{4, "2006"}, {2, "06"}, {1, "2006"}},
	'M': {{4, "January"}, {3, "Jan"}, {2, "01"}, {1, "1"}},
	'd': {{2, "02"}, {1, "2"}},
	'H': {{2, "15"}, {1, "15"}},
	'h': {{2, "03"}, {1, "3"}},
	'm': {{2, "04"}, {1, "4"}},
	's': {{2, "05"}, {1, "5"}},
	'S': {{3, ".000"}, {2, ".00"}, {1, ".0"}},
	'E': {{4, "Monday"}, {1, "Mon"}},
	'a': {{1, "PM"}},
	'z': {{1, "MST"}},
	'Z': {{1, "-0700"}},
	'X': {{3, "Z07:00"}, {1, "Z0700"}},
}

// literalMark stands in for literal text in layouts handed to [time.Parse].
// It contains no layout element.
const literalMark = "\x00"

//nolint:gochecknoglobals
var patternCache sync.Map

// dateSegment is one piece of a [DatePattern]: either a Go layout element or
// literal text.
type dateSegment struct {
	text    string
	literal bool
}

// DatePattern is a date pattern in the common letter notation
// (yyyy-MM-dd HH:mm:ss) compiled into layout elements and literal text.
// Text in single quotes is literal, and two adjacent quotes are one literal
// quote. Characters that are not pattern letters are literal as well.
type DatePattern []dateSegment

// CompileDatePattern returns the compiled form of pattern.
func CompileDatePattern(pattern string) DatePattern {
	if v, ok := patternCache.Load(pattern); ok {
		return v.(DatePattern) //nolint:forcetypeassert
	}

	var (
		segs DatePattern
		lit  strings.Builder
	)

	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, dateSegment{text: lit.String(), literal: true})
			lit.Reset()
		}
	}

	for i := 0; i < len(pattern); {
		ch := pattern[i]

		if ch == '\'' {
			if i+1 < len(pattern) && pattern[i+1] == '\'' {
				lit.WriteByte('\'')

				i += 2

				continue
			}

			end := strings.IndexByte(pattern[i+1:], '\'')
			if end < 0 {
				lit.WriteString(pattern[i+1:])

				break
			}

			lit.WriteString(pattern[i+1 : i+1+end])
			i += end + 2

			continue
		}

		n := 1
		for i+n < len(pattern) && pattern[i+n] == ch {
			n++
		}

		tokens, ok := dateTokens[ch]
		if !ok {
			lit.WriteString(pattern[i : i+n])
			i += n

			continue
		}

		flush()

		// The longest token not exceeding the run stands for the whole run.
		for _, tok := range tokens {
			if tok.run <= n {
				segs = append(segs, dateSegment{text: tok.layout})

				break
			}
		}

		i += n
	}

	flush()
	patternCache.Store(pattern, segs)

	return segs
}

// Format returns t formatted by p. Each layout element is formatted on its
// own so literal text is never read as a layout element.
func (p DatePattern) Format(t time.Time) string {
	var sb strings.Builder

	for _, s := range p {
		if s.literal {
			sb.WriteString(s.text)

			continue
		}

		out := t.Format(s.text)
		if strings.HasPrefix(s.text, ".") {
			out = out[1:]
		}

		sb.WriteString(out)
	}

	return sb.String()
}

// Parse parses value as formatted by p in loc. Literal text must appear in
// value in pattern order.
func (p DatePattern) Parse(value string, loc *time.Location) (time.Time, error) {
	var layout, input strings.Builder

	rest := value

	for i, s := range p {
		if !s.literal {
			layout.WriteString(s.text)

			continue
		}

		text := s.text
		// The separator before a fraction belongs to the fraction element.
		if i+1 < len(p) && !p[i+1].literal && strings.HasPrefix(p[i+1].text, ".") &&
			strings.HasSuffix(text, ".") {
			text = text[:len(text)-1]
		}

		if text == "" {
			continue
		}

		at := strings.Index(rest, text)
		if at < 0 {
			return time.Time{}, ErrInvalidPattern.With(
				slog.String("literal", text), slog.String("value", value))
		}

		input.WriteString(rest[:at])
		input.WriteString(literalMark)
		layout.WriteString(literalMark)

		rest = rest[at+len(text):]
	}

	input.WriteString(rest)

	t, err := time.ParseInLocation(layout.String(), input.String(), loc)
	if err != nil {
		return time.Time{}, ErrInvalidPattern.Wrap(err).With(slog.String("value", value))
	}

	return t, nil
}
