package domain

import (
	"time"

	"github.com/google/uuid"
)

// Comment is one entry in an election's discussion. Threading is one
// level deep: a reply to a reply is reattached to the thread root.
type Comment struct {
	ID         uuid.UUID  `json:"id"`
	ElectionID uuid.UUID  `json:"election_id"`
	AuthorID   uuid.UUID  `json:"author_id"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	Body       string     `json:"body"`
	CreatedAt  time.Time  `json:"created_at"`
	Replies    []*Comment `json:"replies,omitempty"`
}
