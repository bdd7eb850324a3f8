package domain

import (
	"time"

	"github.com/google/uuid"
)

// Delegation is a one-hop delegator -> delegate pointer. A delegator has
// at most one active row at any time; revocation deactivates rather than
// deletes so the history survives.
type Delegation struct {
	ID          uuid.UUID `json:"id"`
	DelegatorID uuid.UUID `json:"delegator_id"`
	DelegateID  uuid.UUID `json:"delegate_id"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Eligibility is the outcome of an eligibility check. Reason is set when
// Eligible is false.
type Eligibility struct {
	Eligible bool   `json:"canVote"`
	Reason   string `json:"reason,omitempty"`
}
