package logging

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewReturnsLogger(t *testing.T) {
	for _, format := range []string{"json", "text", ""} {
		if l := New(slog.LevelInfo, format); l == nil || l.Logger == nil {
			t.Errorf("New(info, %q) returned nil logger", format)
		}
	}
}

func TestFieldHelpers(t *testing.T) {
	if attr := Account("1234"); attr.Key != FieldAccount || attr.Value.String() != "1234" {
		t.Errorf("Account() = %v", attr)
	}
	if attr := PanelID(42); attr.Key != FieldPanelID || attr.Value.Int64() != 42 {
		t.Errorf("PanelID() = %v", attr)
	}
	if attr := Fault("parse_fault"); attr.Key != FieldFault {
		t.Errorf("Fault() = %v", attr)
	}
}
