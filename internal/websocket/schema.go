package websocket

import "time"

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionPing Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError Event = "error"
	EventFeed  Event = "attendance_feed"
	EventPong  Event = "pong"
)

// AttendanceFeedEvent is broadcast on a class group's feed channel each
// time a batch attendance upsert commits.
type AttendanceFeedEvent struct {
	ClassGroupID int       `json:"class_group_id"`
	SessionDate  string    `json:"session_date"`
	Created      int       `json:"created"`
	Updated      int       `json:"updated"`
	Failed       int       `json:"failed"`
	At           time.Time `json:"at"`
}

// FeedResponse wraps a feed event for delivery to a subscriber.
type FeedResponse struct {
	Event Event               `json:"event"`
	Feed  AttendanceFeedEvent `json:"feed"`
}

type ErrorResponse struct {
	Event Event  `json:"event"`
	Error string `json:"error"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
