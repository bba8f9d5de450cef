package broadcast

// Subject constants for the alarm message bus.
// Follow the pattern: {domain}.{action}.{resource}
const (
	// SubjectEventsStored carries every event the receiver persists, so the
	// web and reporting tiers can consume without touching the receiver.
	SubjectEventsStored = "alarms.events.stored"
)
