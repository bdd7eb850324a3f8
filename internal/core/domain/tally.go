package domain

import "github.com/google/uuid"

// OptionTally is one aggregation row: total stored weight for a distinct
// ballot value. Weight is summed, not row-counted, so delegated power is
// not silently dropped.
type OptionTally struct {
	Value   string `json:"vote_value"`
	Weight  int64  `json:"vote_count"`
	Ballots int64  `json:"ballots"`
}

type Winner struct {
	Value  string `json:"value"`
	Weight int64  `json:"weight"`
	// Certain is false while the winning criteria is not met yet
	// (e.g. a majority election where the leader holds under half).
	Certain bool `json:"certain"`
}

type RankedRound struct {
	Round      int              `json:"round"`
	Tallies    map[string]int64 `json:"tallies"`
	Eliminated string           `json:"eliminated,omitempty"`
}

type RankedResult struct {
	Winner         string        `json:"winner"`
	Rounds         []RankedRound `json:"rounds"`
	FinalVoteCount int64         `json:"final_vote_count"`
	TotalBallots   int64         `json:"total_ballots"`
}

type TallyResult struct {
	ElectionID   uuid.UUID        `json:"election_id"`
	Totals       map[string]int64 `json:"totals"`
	TotalWeight  int64            `json:"total_weight"`
	TotalBallots int64            `json:"total_ballots"`
	Winner       *Winner          `json:"winner,omitempty"`
	Ranked       *RankedResult    `json:"ranked,omitempty"`
}
