package events

import "time"

// Event type codes published on the bus.
const (
	TypeLinkClassified   = "LINK_CLASSIFIED"
	TypeDocumentsReady   = "DOCUMENTS_READY"
	TypeSessionFinalized = "SESSION_FINALIZED"
)

// Event is the contract every published event satisfies.
type Event interface {
	// EventType returns the unique code for this event (e.g., "LINK_CLASSIFIED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is a ready-made Event implementation for the common case of a
// typed payload map.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// NewLinkClassified builds the event emitted after a link lands in the log.
func NewLinkClassified(userID, subject, link string, total int) BaseEvent {
	return BaseEvent{
		Type: TypeLinkClassified,
		Data: map[string]interface{}{
			"user_id": userID,
			"subject": subject,
			"link":    link,
			"total":   total,
		},
		OccurredAt: time.Now(),
	}
}

// NewDocumentsReady builds the event emitted when a generation or edit round
// produces documents.
func NewDocumentsReady(sessionID, userID string, revisions int) BaseEvent {
	return BaseEvent{
		Type: TypeDocumentsReady,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"user_id":    userID,
			"revisions":  revisions,
		},
		OccurredAt: time.Now(),
	}
}

// NewSessionFinalized builds the event emitted when a session reaches its
// terminal stage.
func NewSessionFinalized(sessionID, userID string) BaseEvent {
	return BaseEvent{
		Type: TypeSessionFinalized,
		Data: map[string]interface{}{
			"session_id": sessionID,
			"user_id":    userID,
		},
		OccurredAt: time.Now(),
	}
}
