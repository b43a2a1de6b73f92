// Package event records things that happen at an instant inside a space.
package event

import (
	"time"

	"spacetime-server/internal/instant"
	"spacetime-server/internal/space"

	"github.com/google/uuid"
)

type Event struct {
	ID        uuid.UUID       `json:"id"`
	SpaceID   space.ID        `json:"space_id"`
	Title     string          `json:"title"`
	At        instant.Instant `json:"at"`
	CreatedAt time.Time       `json:"created_at"`
}

type CreateRequest struct {
	SpaceID space.ID `json:"space_id"`
	Title   string   `json:"title"`
	// At is an extended RFC 3339 timestamp, a YYYY-MM-DD date or an exact
	// nanosecond count since the epoch.
	At string `json:"at"`
}
