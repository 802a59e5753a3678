package model

import "time"

// AuditEvent is a mutation trail entry. Events are queued to Redis by the
// request path and persisted asynchronously by the audit worker.
type AuditEvent struct {
	EventID   string    `json:"event_id"`
	ActorID   int       `json:"actor_id"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	EntityID  int       `json:"entity_id"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// AuditLog is a persisted audit event with its storage identity.
type AuditLog struct {
	ID int `json:"id"`
	AuditEvent
}
