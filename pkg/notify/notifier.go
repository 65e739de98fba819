// Package notify publishes ingestion events to the message broker. Delivery
// is best-effort and at-most-once: a notification failure must never affect
// the pipeline's file state, so callers log and move on.
package notify

import "time"

const EventFileUploaded = "file_uploaded"

// Event describes one successfully ingested file. It is transient, nothing
// persists it once it has been handed to a Notifier.
type Event struct {
	Event     string    `json:"event"`
	FileName  string    `json:"file_name"`
	ServerID  int       `json:"server_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewFileUploadedEvent(fileName string, serverID int) Event {
	return Event{
		Event:     EventFileUploaded,
		FileName:  fileName,
		ServerID:  serverID,
		Timestamp: time.Now().UTC(),
	}
}

type Notifier interface {
	Publish(event Event) error
}
