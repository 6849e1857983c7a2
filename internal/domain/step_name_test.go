package domain

import (
	"strings"
	"testing"
)

func TestNewStepName(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "simple", value: "build", wantErr: false},
		{name: "with dots and underscores", value: "test.unit_fast", wantErr: false},
		{name: "mixed case and digits", value: "Deploy2Prod", wantErr: false},
		{name: "spaces allowed", value: "lint all", wantErr: false},
		{name: "max length", value: strings.Repeat("a", 100), wantErr: false},
		{name: "empty", value: "", wantErr: true},
		{name: "too long", value: strings.Repeat("a", 101), wantErr: true},
		{name: "dot", value: ".", wantErr: true},
		{name: "dot dot", value: "..", wantErr: true},
		{name: "slash", value: "a/b", wantErr: true},
		{name: "backslash", value: `a\b`, wantErr: true},
		{name: "leading hyphen", value: "-rf", wantErr: true},
		{name: "nul byte", value: "a\x00b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewStepName(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewStepName(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
				return
			}
			if !tt.wantErr && got.String() != tt.value {
				t.Errorf("NewStepName(%q) = %q", tt.value, got)
			}
		})
	}
}
