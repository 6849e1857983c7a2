package ux

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	sferrors "github.com/felixgeelhaar/stepflow/internal/errors"
)

func TestNewErrorWithSuggestion(t *testing.T) {
	if NewErrorWithSuggestion(nil, "x") != nil {
		t.Fatal("nil error should stay nil")
	}

	err := NewErrorWithSuggestion(errors.New("something failed"), "try this fix")
	if !strings.Contains(err.Error(), "Suggestion: try this fix") {
		t.Errorf("missing suggestion: %s", err)
	}

	plain := NewErrorWithSuggestion(errors.New("something failed"), "")
	if plain.Error() != "something failed" {
		t.Errorf("Error() = %q", plain.Error())
	}
}

func TestEnhanceError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		wantSuggestion string
	}{
		{"permission denied", errors.New("open .stepflow/state.json: permission denied"), "writable"},
		{"disk full", errors.New("write: no space left on device"), "--retention"},
		{"missing shell", errors.New(`exec: "zsh": executable file not found in $PATH`), "shell"},
		{"unknown error unchanged", errors.New("boom"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnhanceError(tt.err)
			var withSuggestion *ErrorWithSuggestion
			if tt.wantSuggestion == "" {
				if errors.As(got, &withSuggestion) {
					t.Fatalf("unexpected suggestion: %s", got)
				}
				return
			}
			if !errors.As(got, &withSuggestion) {
				t.Fatalf("expected a suggestion, got %v", got)
			}
			if !strings.Contains(withSuggestion.Suggestion, tt.wantSuggestion) {
				t.Errorf("suggestion %q should mention %q", withSuggestion.Suggestion, tt.wantSuggestion)
			}
			if !errors.Is(got, tt.err) {
				t.Error("enhanced error should unwrap to the original")
			}
		})
	}
}

func TestEnhanceError_KeepsCodedSuggestions(t *testing.T) {
	coded := sferrors.NewSnapshotWriteError("state.json", errors.New("permission denied"))
	if got := EnhanceError(coded); got != error(coded) {
		t.Errorf("coded error with suggestions should be returned unchanged, got %v", got)
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil, "ctx") != nil {
		t.Fatal("nil error should stay nil")
	}
	cause := errors.New("boom")
	got := FormatError(cause, "loading")
	if got.Error() != "loading: boom" {
		t.Errorf("FormatError() = %q", got)
	}
	if !errors.Is(got, cause) {
		t.Error("FormatError should wrap")
	}
	if FormatError(cause, "") != cause {
		t.Error(fmt.Sprintf("empty context should return the error, got %v", FormatError(cause, "")))
	}
}
