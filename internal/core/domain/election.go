package domain

import (
	"time"

	"github.com/google/uuid"
)

type RestrictionType string

const (
	RestrictionOpen      RestrictionType = "open"
	RestrictionEmailList RestrictionType = "email-list"
	RestrictionDomain    RestrictionType = "domain"
	RestrictionPhoneList RestrictionType = "phone-list"
	RestrictionCountry   RestrictionType = "country"
	RestrictionWorldID   RestrictionType = "worldid"
)

type VotingModel string

const (
	ModelDirect    VotingModel = "direct"
	ModelLiquid    VotingModel = "liquid"
	ModelQuadratic VotingModel = "quadratic"
	ModelWeighted  VotingModel = "weighted"
)

type BallotType string

const (
	BallotSingle   BallotType = "single"
	BallotMultiple BallotType = "multiple"
	BallotRanked   BallotType = "ranked"
)

type WinningCriteria string

const (
	CriteriaPlurality     WinningCriteria = "plurality"
	CriteriaMajority      WinningCriteria = "majority"
	CriteriaSupermajority WinningCriteria = "supermajority"
)

type ElectionStatus string

const (
	StatusActive    ElectionStatus = "active"
	StatusCompleted ElectionStatus = "completed"
)

// IdentityConfig restricts who may vote. AllowList holds emails, domains,
// phone numbers or country codes depending on RestrictionType.
type IdentityConfig struct {
	RestrictionType RestrictionType `json:"restriction_type"`
	AllowList       []string        `json:"allow_list,omitempty"`
}

type VotingConfig struct {
	Model           VotingModel     `json:"model"`
	BallotType      BallotType      `json:"ballot_type"`
	WinningCriteria WinningCriteria `json:"winning_criteria"`
}

type Election struct {
	ID            uuid.UUID      `json:"id"`
	CreatorID     uuid.UUID      `json:"creator_id"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Identity      IdentityConfig `json:"identity_config"`
	Voting        VotingConfig   `json:"voting_config"`
	BallotOptions []string       `json:"ballot_options"`
	StartDate     *time.Time     `json:"start_date,omitempty"`
	EndDate       *time.Time     `json:"end_date,omitempty"`
	IsOngoing     bool           `json:"is_ongoing"`
	IsPublic      bool           `json:"is_public"`
	Status        ElectionStatus `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}

// AcceptingVotes reports whether new votes or updates are allowed at t.
// An ongoing election always accepts; otherwise the time window and
// status decide.
func (e *Election) AcceptingVotes(t time.Time) bool {
	if e.IsOngoing {
		return true
	}
	if e.Status == StatusCompleted {
		return false
	}
	if e.StartDate != nil && t.Before(*e.StartDate) {
		return false
	}
	if e.EndDate != nil && t.After(*e.EndDate) {
		return false
	}
	return true
}
