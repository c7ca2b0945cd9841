package pkg

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"testing"
)

func TestName(t *testing.T) {
	expected := "areport"
	if Name != expected {
		t.Errorf("Expected Name to be %q, got %q", expected, Name)
	}
}

func TestDescription(t *testing.T) {
	expected := "Declarative tabular report builder"
	if Description != expected {
		t.Errorf("Expected Description to be %q, got %q", expected, Description)
	}
}

func TestVersion(t *testing.T) {
	// Version is embedded from VERSION file, so it should not be empty.
	buf, err := os.ReadFile("VERSION")
	if err != nil {
		t.Fatalf("Failed to read VERSION file: %v", err)
	}

	if content := strings.TrimSpace(string(buf)); Version != content {
		t.Errorf("Expected Version to be %q, got %q", content, Version)
	}
}

func TestAuthor(t *testing.T) {
	if len(Author) == 0 {
		t.Error("Expected Author to have at least one entry")
	}

	// Test if a known author is present
	if len(Author) > 0 {
		expectedName := "ardnew"
		expectedEmail := "andrew@ardnew.com"

		if !slices.ContainsFunc(Author, func(a AuthorInfo) bool {
			return a.Name == expectedName && a.Email == expectedEmail
		}) {
			t.Errorf("Expected Author to contain %q, %q", expectedName, expectedEmail)
		}
	}
}

func TestAuthorStruct(t *testing.T) {
	// Test that Author slice has the expected structure
	for i, author := range Author {
		if author.Name == "" && author.Email == "" {
			t.Errorf("Author[%d] must define at least Name or Email", i)
		}
	}
}

func TestErrorChain(t *testing.T) {
	cause := os.ErrNotExist
	err := ErrReadInput.Wrap(cause)

	if got, want := err.Error(), "failed to read input: file does not exist"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	if !errors.Is(err, ErrReadInput) {
		t.Error("expected wrapped error to match its sentinel")
	}

	if errors.Is(err, ErrWriteOutput) {
		t.Error("expected wrapped error not to match an unrelated sentinel")
	}

	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected wrapped error to match its cause")
	}

	if len(ErrReadInput) != 1 {
		t.Errorf("expected sentinel to remain unmodified, got %d errors", len(ErrReadInput))
	}
}

func TestUnwrapErrors(t *testing.T) {
	inner := errors.New("inner")
	outer := fmt.Errorf("outer: %w", inner)

	chain := UnwrapErrors(outer)
	if len(chain) != 2 || chain[0] != inner || chain[1] != outer {
		t.Errorf("expected [inner outer], got %v", []error(chain))
	}

	if UnwrapErrors(nil) != nil {
		t.Error("expected nil chain for nil error")
	}
}
