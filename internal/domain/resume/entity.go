package resume

import (
	"time"

	"github.com/google/uuid"
)

type Resume struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Title        string     `json:"title"`
	Headline     string     `json:"headline,omitempty"`
	Summary      string     `json:"summary,omitempty"`
	Visibility   string     `json:"visibility"`
	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
