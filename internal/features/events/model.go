package events

import "time"

type Type string

const (
	Fetched     Type = "fetched"
	FetchFailed Type = "fetch_failed"
	Deprecated  Type = "deprecated"
	Closed      Type = "closed"
)

// Event tells a browser that something happened to one of its views and it
// should re-read the snapshot.
type Event struct {
	Type      Type      `json:"type"`
	ViewID    string    `json:"view_id"`
	ErrorText string    `json:"error_text,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher is what the report service needs from the hub.
type Publisher interface {
	Publish(e Event)
	Close(viewID string)
}

// ViewGuard decides whether userID may stream events for viewID.
type ViewGuard interface {
	Authorize(viewID, userID string) error
}
