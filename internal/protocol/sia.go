package protocol

import (
	"regexp"
	"time"

	"github.com/sentryline-systems/sentryline-receiver/internal/models"
)

// SIA frame: ["<account>"]<HHMMSS,MMDDYY>|<code><qualifier><zone_or_user>
// The account is the bracket-quoted token; everything after the mandatory
// '|' is event data whose first two characters are the code/qualifier pair.
var siaPattern = regexp.MustCompile(`^\["([^"]+)"\]([^|]+)\|(.+)$`)

// siaTimeLayout matches the HHMMSS,MMDDYY wire token.
const siaTimeLayout = "150405,010206"

func parseSIA(msg []byte) (*ParsedMessage, error) {
	groups := siaPattern.FindSubmatch(msg)
	if groups == nil {
		return nil, &ParseError{Protocol: models.ProtocolSIA, Reason: "frame does not match SIA layout"}
	}

	account := string(groups[1])
	timeToken := string(groups[2])
	eventData := string(groups[3])

	if len(eventData) < 2 {
		return nil, &ParseError{Protocol: models.ProtocolSIA, Reason: "event data shorter than code/qualifier pair"}
	}

	parsed := &ParsedMessage{
		Protocol:   models.ProtocolSIA,
		Account:    account,
		Code:       eventData[0:1],
		Qualifier:  eventData[1:2],
		ZoneOrUser: eventData[2:],
	}

	// A bad clock token is not worth dropping an intact alarm over; the
	// event falls back to receipt time and keeps the raw frame for audit.
	if t, err := time.ParseInLocation(siaTimeLayout, timeToken, time.UTC); err == nil {
		parsed.PanelTime = &t
	}

	return parsed, nil
}
