package ws

import (
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type ItemAddedEvent struct {
	Type      string `json:"type"`
	ItemKind  string `json:"item_kind"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}

type SyncCompletedEvent struct {
	Type      string `json:"type"`
	Created   int    `json:"created"`
	Updated   int    `json:"updated"`
	Deleted   int    `json:"deleted"`
	Timestamp string `json:"timestamp"`
}

var defaultHub atomic.Pointer[Hub]

func SetDefaultHub(h *Hub) {
	defaultHub.Store(h)
}

// NotifyItemAdded tells the user's open connections that a new achievement
// landed on their resumes. Safe to call before a hub is installed.
func NotifyItemAdded(userID uuid.UUID, itemKind string, title string) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := ItemAddedEvent{
		Type:      "item_added",
		ItemKind:  itemKind,
		Title:     title,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Send(userID, b)
}

func NotifySyncCompleted(userID uuid.UUID, created, updated, deleted int) {
	h := defaultHub.Load()
	if h == nil {
		return
	}

	evt := SyncCompletedEvent{
		Type:      "sync_completed",
		Created:   created,
		Updated:   updated,
		Deleted:   deleted,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Send(userID, b)
}
