package lang

import (
	"errors"
	"testing"
	"time"
)

func TestDatePatternFormat(t *testing.T) {
	ts := time.Date(2024, 3, 9, 7, 5, 4, 120_000_000, time.UTC)

	tests := []struct {
		pattern string
		want    string
	}{
		{"yyyy-MM-dd", "2024-03-09"},
		{"dd/MM/yy", "09/03/24"},
		{"d MMM yyyy", "9 Mar 2024"},
		{"MMMM", "March"},
		{"EEE, d MMM", "Sat, 9 Mar"},
		{"EEEE", "Saturday"},
		{"HH:mm:ss", "07:05:04"},
		{"h:mm a", "7:05 AM"},
		{"ss.SSS", "04.120"},
		{"SSS", "120"},
		{"'week of' yyyy", "week of 2024"},
		{"yyyy''MM", "2024'03"},
		{"'Q1' yyyy", "Q1 2024"},
		{"'Monday:' dd", "Monday: 09"},
		{"'Jan PM 2006' MM", "Jan PM 2006 03"},
		{"yyyy-MM-dd'T'HH:mm", "2024-03-09T07:05"},
		{"'unterminated yyyy", "unterminated yyyy"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			if got := CompileDatePattern(tt.pattern).Format(ts); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDatePatternParse(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
		want    time.Time
	}{
		{"yyyy-MM-dd", "2024-03-09", time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"dd/MM/yyyy HH:mm", "09/03/2024 07:05", time.Date(2024, 3, 9, 7, 5, 0, 0, time.UTC)},
		{"'Q1' yyyy-MM", "Q1 2024-02", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{"'Monday:' dd MMM yyyy", "Monday: 05 Mar 2024", time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
		{"HH:mm:ss.SSS", "07:05:04.120", time.Date(0, 1, 1, 7, 5, 4, 120_000_000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := CompileDatePattern(tt.pattern).Parse(tt.value, time.UTC)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestDatePatternParseErrors(t *testing.T) {
	tests := []struct {
		pattern string
		value   string
	}{
		{"'Q1' yyyy", "Q2 2024"},
		{"yyyy-MM-dd", "2024/03/09"},
		{"yyyy", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			_, err := CompileDatePattern(tt.pattern).Parse(tt.value, time.UTC)
			if !errors.Is(err, ErrInvalidPattern) {
				t.Errorf("expected ErrInvalidPattern, got %v", err)
			}
		})
	}
}
