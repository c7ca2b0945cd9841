package report

import (
	"time"

	"github.com/ardnew/areport/area"
	"github.com/ardnew/areport/lang"
)

//nolint:gochecknoglobals
var dateInputs = []string{time.RFC3339, time.DateTime, time.DateOnly}

// present applies a field's display rules to v: dates are formatted with
// DatePattern, then Enum replaces the text of the value.
func present(f *area.Field, v any) any {
	if f.DatePattern != "" {
		if t, ok := asTime(v); ok {
			v = lang.CompileDatePattern(f.DatePattern).Format(t)
		}
	}

	if len(f.Enum) > 0 {
		if s, ok := f.Enum[lang.Text(v)]; ok {
			v = s
		}
	}

	return v
}

func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		for _, layout := range dateInputs {
			if p, err := time.Parse(layout, t); err == nil {
				return p, true
			}
		}
	}

	return time.Time{}, false
}
