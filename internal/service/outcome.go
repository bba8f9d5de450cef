package service

// Outcome is the terminal result of processing one framed message.
type Outcome int

const (
	// OutcomeStored: the event was persisted (and broadcast).
	OutcomeStored Outcome = iota
	// OutcomeUnrecognized: the message matched no known protocol.
	OutcomeUnrecognized
	// OutcomeParseFault: classified but field extraction failed.
	OutcomeParseFault
	// OutcomeUnregistered: the account resolves to no registered panel.
	OutcomeUnregistered
	// OutcomeRateLimited: the account exceeded its message budget.
	OutcomeRateLimited
	// OutcomeStoreFault: persistence failed; the only outcome that
	// withholds the ACK, leaving the panel's retransmit as the recovery
	// path for a transient storage outage.
	OutcomeStoreFault
)

// Ack reports whether the connection should acknowledge the message. The
// receiver ACKs receipt, not validity: every definitive rejection is still
// acknowledged so panels do not endlessly retransmit messages they cannot be
// taught to reformat.
func (o Outcome) Ack() bool {
	return o != OutcomeStoreFault
}

func (o Outcome) String() string {
	switch o {
	case OutcomeStored:
		return "stored"
	case OutcomeUnrecognized:
		return "unrecognized"
	case OutcomeParseFault:
		return "parse_fault"
	case OutcomeUnregistered:
		return "unregistered"
	case OutcomeRateLimited:
		return "rate_limited"
	case OutcomeStoreFault:
		return "store_fault"
	default:
		return "unknown"
	}
}
