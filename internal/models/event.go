package models

import "time"

// Protocol identifies the wire format a message arrived in.
type Protocol string

const (
	ProtocolSIA Protocol = "SIA"
	ProtocolCID Protocol = "CID"
)

// Event is a normalized alarm event as produced by the protocol parsers and
// persisted by the event store. Timestamp is the panel-supplied time when the
// wire format carries one, otherwise the receipt time; ReceivedAt is always
// the receipt time. PanelTime is nil when the wire format carried no usable
// clock, so consumers can tell the two apart even when they coincide.
type Event struct {
	ID         string     `json:"id"`
	PanelID    int64      `json:"panel_id"`
	Account    string     `json:"account"`
	Protocol   Protocol   `json:"protocol"`
	Qualifier  string     `json:"qualifier"`
	Code       string     `json:"code"`
	ZoneOrUser string     `json:"zone_or_user,omitempty"`
	RawMessage string     `json:"raw_message"`
	Timestamp  time.Time  `json:"timestamp"`
	PanelTime  *time.Time `json:"panel_time,omitempty"`
	ReceivedAt time.Time  `json:"received_at"`
}
