package payment

// EventKind is the closed set of gateway event kinds the core reacts to.
// Everything the gateway emits beyond completed and expired collapses into
// EventKindOther and is acknowledged without action.
type EventKind string

const (
	EventKindCompleted EventKind = "completed"
	EventKindExpired   EventKind = "expired"
	EventKindOther     EventKind = "other"
)

// Event is a verified gateway event correlated back to a local order.
// Events only exist after signature verification has succeeded.
type Event struct {
	// ID is the gateway's own event identifier, kept for logging
	ID string
	// Kind is the dispatch tag
	Kind EventKind
	// Token correlates the event to a local order. Zero for EventKindOther
	// payloads that carry no usable metadata.
	Token CorrelationToken
}
