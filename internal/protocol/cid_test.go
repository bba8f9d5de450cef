package protocol

import (
	"errors"
	"testing"

	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

func TestParseCID(t *testing.T) {
	// account 1234, new event (1), burglary (131), group 01, zone 015
	parsed, err := Decode([]byte("1234181131010158$"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}

	if parsed.Protocol != models.ProtocolCID {
		t.Errorf("Protocol = %v, want CID", parsed.Protocol)
	}
	if parsed.Account != "1234" {
		t.Errorf("Account = %q, want %q", parsed.Account, "1234")
	}
	if parsed.Qualifier != "1" {
		t.Errorf("Qualifier = %q, want %q", parsed.Qualifier, "1")
	}
	if parsed.Code != "131" {
		t.Errorf("Code = %q, want %q", parsed.Code, "131")
	}
	if parsed.ZoneOrUser != "015" {
		t.Errorf("ZoneOrUser = %q, want %q", parsed.ZoneOrUser, "015")
	}
	if parsed.PanelTime != nil {
		t.Errorf("PanelTime = %v, want nil (CID carries no timestamp)", parsed.PanelTime)
	}
}

func TestParseCIDRestore(t *testing.T) {
	parsed, err := Decode([]byte("1234183131010156$"))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if parsed.Qualifier != "3" {
		t.Errorf("Qualifier = %q, want %q", parsed.Qualifier, "3")
	}
}

func TestParseCIDFaults(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{"bad checksum", "1234181131010159$"},
		{"invalid qualifier", "1234182131010157$"},
		{"non-digit payload", "123418abcdefghij$"},
		{"wrong length", "123418113$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.msg))

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("Decode(%q) error = %v, want *ParseError", tt.msg, err)
			}
			if parseErr.Protocol != models.ProtocolCID {
				t.Errorf("ParseError.Protocol = %v, want CID", parseErr.Protocol)
			}
		})
	}
}

func TestCIDChecksum(t *testing.T) {
	checksum, err := CIDChecksum("123418113101015")
	if err != nil {
		t.Fatalf("CIDChecksum() error = %v", err)
	}
	if checksum != '8' {
		t.Errorf("CIDChecksum() = %q, want '8'", checksum)
	}

	// Round trip: a simulator-built frame must parse.
	frame := "123418113101015" + string(checksum) + "$"
	if _, err := Decode([]byte(frame)); err != nil {
		t.Errorf("Decode(%q) error = %v", frame, err)
	}
}

func TestCIDChecksumRejectsBadBody(t *testing.T) {
	if _, err := CIDChecksum("123"); err == nil {
		t.Error("CIDChecksum() accepted short body")
	}
	if _, err := CIDChecksum("12341811310101x"); err == nil {
		t.Error("CIDChecksum() accepted non-digit body")
	}
}
