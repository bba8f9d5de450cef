package protocol

import (
	"errors"
	"testing"
	"time"

	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

func TestParseSIA(t *testing.T) {
	msg := []byte(`["1234"]120000,010124|BA1`)

	parsed, err := Decode(msg)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if parsed.Protocol != models.ProtocolSIA {
		t.Errorf("Protocol = %v, want SIA", parsed.Protocol)
	}
	if parsed.Account != "1234" {
		t.Errorf("Account = %q, want %q", parsed.Account, "1234")
	}
	if parsed.Code != "B" {
		t.Errorf("Code = %q, want %q", parsed.Code, "B")
	}
	if parsed.Qualifier != "A" {
		t.Errorf("Qualifier = %q, want %q", parsed.Qualifier, "A")
	}
	if parsed.ZoneOrUser != "1" {
		t.Errorf("ZoneOrUser = %q, want %q", parsed.ZoneOrUser, "1")
	}

	if parsed.PanelTime == nil {
		t.Fatal("PanelTime = nil, want parsed timestamp")
	}
	want := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	if !parsed.PanelTime.Equal(want) {
		t.Errorf("PanelTime = %v, want %v", parsed.PanelTime, want)
	}
}

func TestParseSIAEmptyZone(t *testing.T) {
	parsed, err := Decode([]byte(`["77"]080000,060715|AT`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if parsed.Code != "A" || parsed.Qualifier != "T" {
		t.Errorf("code/qualifier = %q/%q, want A/T", parsed.Code, parsed.Qualifier)
	}
	if parsed.ZoneOrUser != "" {
		t.Errorf("ZoneOrUser = %q, want empty", parsed.ZoneOrUser)
	}
}

func TestParseSIAShortEventData(t *testing.T) {
	_, err := Decode([]byte(`["1234"]120000,010124|B`))

	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Decode() error = %v, want *ParseError", err)
	}
	if parseErr.Protocol != models.ProtocolSIA {
		t.Errorf("ParseError.Protocol = %v, want SIA", parseErr.Protocol)
	}
}

func TestParseSIABadTimestampFallsBack(t *testing.T) {
	parsed, err := Decode([]byte(`["1234"]notatime|BA1`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if parsed.PanelTime != nil {
		t.Errorf("PanelTime = %v, want nil for unparseable token", parsed.PanelTime)
	}
	if parsed.Code != "B" || parsed.Qualifier != "A" || parsed.ZoneOrUser != "1" {
		t.Errorf("event data mangled: %+v", parsed)
	}
}
