package models

import "time"

// Event types recognized by the analytics log.
const (
	EventView     = "view"
	EventUse      = "use"
	EventFavorite = "favorite"
	EventSearch   = "search"
)

// NormalizeEventType maps an arbitrary action string onto one of the
// recognized event types, defaulting to view.
func NormalizeEventType(action string) string {
	switch action {
	case EventUse, EventFavorite, EventSearch:
		return action
	default:
		return EventView
	}
}

// Event is a single append-only analytics record. Events are inserted and
// aggregated, never updated or deleted.
type Event struct {
	ID        string
	ToolID    string
	UserID    string
	IP        string
	UserAgent string
	EventType string
	Timestamp time.Time
}
