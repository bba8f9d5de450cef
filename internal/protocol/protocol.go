// Package protocol classifies and decodes alarm-panel wire formats.
//
// Two formats are supported: SIA (bracketed account, timestamp, pipe-delimited
// event payload) and Ameritech Contact ID (fixed-layout numeric frame ending
// in '$'). Detection is structural: each format is a (pattern, parser) pair
// and candidates are tried in a fixed order, SIA first. Adding a format means
// appending a pair; nothing upstream changes.
package protocol

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

// Ack is the single acknowledgment byte written back to a panel once a
// message has completed processing. It confirms receipt, not validity.
const Ack byte = 0x06

// ErrUnrecognized is returned when a message matches no known wire format.
var ErrUnrecognized = errors.New("message matches no known protocol")

// ParseError reports a message that classified as a protocol but whose field
// extraction failed. The message is dropped; the connection still ACKs it so
// the panel does not retransmit a frame it cannot be taught to reformat.
type ParseError struct {
	Protocol models.Protocol
	Reason   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parse fault: %s", e.Protocol, e.Reason)
}

// ParsedMessage is the decoded form of one wire frame, before panel
// resolution and persistence.
type ParsedMessage struct {
	Protocol   models.Protocol
	Account    string
	Qualifier  string
	Code       string
	ZoneOrUser string
	// PanelTime is the panel-supplied timestamp, nil when the format does
	// not carry one (CID) or the token failed to parse.
	PanelTime *time.Time
}

type matcher struct {
	protocol models.Protocol
	pattern  *regexp.Regexp
	parse    func(msg []byte) (*ParsedMessage, error)
}

// Matchers are ordered; the first structural match wins.
var matchers = []matcher{
	{models.ProtocolSIA, siaPattern, parseSIA},
	{models.ProtocolCID, cidPattern, parseCID},
}

// Classify determines the wire protocol of a complete framed message.
// The second return value is false when no format matches.
func Classify(msg []byte) (models.Protocol, bool) {
	for _, m := range matchers {
		if m.pattern.Match(msg) {
			return m.protocol, true
		}
	}
	return "", false
}

// Decode classifies and parses a framed message. It returns ErrUnrecognized
// when no format matches and a *ParseError when a matched format fails field
// extraction.
func Decode(msg []byte) (*ParsedMessage, error) {
	for _, m := range matchers {
		if m.pattern.Match(msg) {
			return m.parse(msg)
		}
	}
	return nil, ErrUnrecognized
}
