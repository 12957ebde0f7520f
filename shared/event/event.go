// Package event holds the post-commit events returned by mutating operations.
// Operations only describe what happened; dispatching is left to the caller.
package event

import (
	"time"
)

type Type string

const (
	BookingCreated    Type = "booking.created"
	BookingCheckedIn  Type = "booking.checked_in"
	BookingCheckedOut Type = "booking.checked_out"
	BookingCancelled  Type = "booking.cancelled"
	BookingNoShow     Type = "booking.no_show"
	BookingCompleted  Type = "booking.completed"
	RoomStatusChanged Type = "room.status_changed"
	RoomAssigned      Type = "room.assigned"
	RoomUnassigned    Type = "room.unassigned"
	FolioClosed       Type = "folio.closed"
)

type Event struct {
	Type       Type           `json:"type"`
	TenantID   string         `json:"tenant_id"`
	EntityID   string         `json:"entity_id"`
	ActorID    string         `json:"actor_id"`
	Payload    map[string]any `json:"payload,omitempty"`
	OccurredAt time.Time      `json:"occurred_at"`
}

func New(eventType Type, tenantID, entityID, actorID string, occurredAt time.Time, payload map[string]any) Event {
	return Event{
		Type:       eventType,
		TenantID:   tenantID,
		EntityID:   entityID,
		ActorID:    actorID,
		Payload:    payload,
		OccurredAt: occurredAt,
	}
}

// Key partitions events of one tenant and entity onto the same stream position.
func (e Event) Key() string {
	return e.TenantID + ":" + e.EntityID
}
