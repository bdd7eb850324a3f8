package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type NotificationKind string

const (
	NotifyDelegationReceived NotificationKind = "delegation.received"
	NotifyDelegationRevoked  NotificationKind = "delegation.revoked"
	NotifyElectionVoted      NotificationKind = "election.voted"
)

type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Payload   json.RawMessage  `json:"payload,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}
