package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Vote is an anonymous ledger record. It carries no voter identity;
// the link to a user exists only through the voter registry.
type Vote struct {
	ID         uuid.UUID       `json:"id"`
	ElectionID uuid.UUID       `json:"election_id"`
	Value      string          `json:"vote_value"`
	Weight     int             `json:"vote_weight"`
	VotedAt    time.Time       `json:"voted_at"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}

// VoterRegistryEntry binds a user to their vote record for an election.
// Unique per (election_id, voter_id); this is the one-vote-per-user
// enforcement point.
type VoterRegistryEntry struct {
	ID         uuid.UUID `json:"id"`
	ElectionID uuid.UUID `json:"election_id"`
	VoterID    uuid.UUID `json:"voter_id"`
	VoteID     uuid.UUID `json:"vote_id"`
	VotedAt    time.Time `json:"voted_at"`
}
