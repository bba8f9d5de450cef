package protocol

import (
	"fmt"
	"regexp"

	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

// CID frame: <AAAA>18<Q><EEE><GG><ZZZ><S>$
//
//	AAAA  4-digit account
//	18    message-type literal (Contact ID)
//	Q     event qualifier: 1 new event, 3 restore, 6 previously reported
//	EEE   3-digit event code
//	GG    2-digit group or partition
//	ZZZ   3-digit zone or user
//	S     checksum digit: the sum of all 16 digits, with 0 valued as 10,
//	      must be divisible by 15
//
// Classification is deliberately loose (the original receivers accepted any
// payload between the type literal and '$'); the parser enforces the full
// layout, so a malformed-but-CID-shaped frame surfaces as a parse fault
// rather than an unrecognized message.
var cidPattern = regexp.MustCompile(`^\d{4}18[^$]+\$$`)

const cidFrameLen = 17 // 16 digits plus the trailing '$'

func parseCID(msg []byte) (*ParsedMessage, error) {
	if len(msg) != cidFrameLen {
		return nil, &ParseError{
			Protocol: models.ProtocolCID,
			Reason:   fmt.Sprintf("frame length %d, want %d", len(msg), cidFrameLen),
		}
	}

	digits := msg[:16]
	for _, b := range digits {
		if b < '0' || b > '9' {
			return nil, &ParseError{Protocol: models.ProtocolCID, Reason: "non-digit in frame body"}
		}
	}

	if !cidChecksumValid(digits) {
		return nil, &ParseError{Protocol: models.ProtocolCID, Reason: "checksum mismatch"}
	}

	qualifier := digits[6]
	switch qualifier {
	case '1', '3', '6':
	default:
		return nil, &ParseError{
			Protocol: models.ProtocolCID,
			Reason:   fmt.Sprintf("invalid qualifier %q", string(qualifier)),
		}
	}

	return &ParsedMessage{
		Protocol:   models.ProtocolCID,
		Account:    string(digits[0:4]),
		Qualifier:  string(qualifier),
		Code:       string(digits[7:10]),
		ZoneOrUser: string(digits[12:15]),
	}, nil
}

// cidChecksumValid implements the Contact ID mod-15 check: every digit
// contributes its value, except '0' which contributes 10.
func cidChecksumValid(digits []byte) bool {
	sum := 0
	for _, b := range digits {
		if b == '0' {
			sum += 10
		} else {
			sum += int(b - '0')
		}
	}
	return sum%15 == 0
}

// CIDChecksum computes the checksum digit for the 15 digits of a frame body
// (account, type literal, qualifier, event code, group, zone). Used by the
// panel simulator to emit valid frames.
func CIDChecksum(body string) (byte, error) {
	if len(body) != 15 {
		return 0, fmt.Errorf("cid body length %d, want 15", len(body))
	}
	sum := 0
	for _, b := range []byte(body) {
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("non-digit %q in cid body", string(b))
		}
		if b == '0' {
			sum += 10
		} else {
			sum += int(b - '0')
		}
	}
	for c := byte('0'); c <= '9'; c++ {
		v := int(c - '0')
		if c == '0' {
			v = 10
		}
		if (sum+v)%15 == 0 {
			return c, nil
		}
	}
	return 0, fmt.Errorf("no checksum digit satisfies mod-15 for body %q", body)
}
