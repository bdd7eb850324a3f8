package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type tallyService struct {
	electionRepo ports.ElectionRepository
	voteRepo     ports.VoteRepository
	resultRepo   ports.ResultRepository
}

// NewTallyService builds the tally service. resultRepo may be nil; with
// one, closed elections read the frozen snapshot instead of
// re-aggregating the ledger.
func NewTallyService(electionRepo ports.ElectionRepository, voteRepo ports.VoteRepository, resultRepo ports.ResultRepository) ports.TallyService {
	return &tallyService{
		electionRepo: electionRepo,
		voteRepo:     voteRepo,
		resultRepo:   resultRepo,
	}
}

// ComputeResults aggregates the votes for an election. Weights are
// summed per distinct value; ranked ballots additionally run
// instant-runoff elimination rounds.
func (s *tallyService) ComputeResults(ctx context.Context, electionID uuid.UUID) (*domain.TallyResult, error) {
	election, err := s.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		return nil, err
	}

	tallies, err := s.loadTallies(ctx, election)
	if err != nil {
		return nil, err
	}

	result := &domain.TallyResult{
		ElectionID: electionID,
		Totals:     make(map[string]int64),
	}
	for _, t := range tallies {
		if t.Value == "" {
			continue
		}
		result.Totals[t.Value] = t.Weight
		result.TotalWeight += t.Weight
		result.TotalBallots += t.Ballots
	}

	if election.Voting.BallotType == domain.BallotRanked {
		votes, err := s.voteRepo.ListVotes(ctx, electionID)
		if err != nil {
			return nil, fmt.Errorf("failed to list ballots: %w", err)
		}
		result.Ranked = runInstantRunoff(election.BallotOptions, votes)
		// Stored values are full preference lists, so the winner comes
		// from the elimination rounds, not from the raw aggregate.
		if result.Ranked.Winner != "" {
			result.Winner = &domain.Winner{
				Value:   result.Ranked.Winner,
				Weight:  result.Ranked.FinalVoteCount,
				Certain: true,
			}
		}
		return result, nil
	}

	// Options nobody picked still show up with a zero count.
	for _, opt := range election.BallotOptions {
		if _, ok := result.Totals[opt]; !ok {
			result.Totals[opt] = 0
		}
	}
	result.Winner = determineWinner(result.Totals, result.TotalWeight, election.Voting.WinningCriteria)

	return result, nil
}

// loadTallies picks the aggregation source. A closed single-choice
// election with a stored snapshot is served from it; everything else
// aggregates the live ledger. Ranked elections always aggregate live
// because the elimination rounds need the full ballots anyway.
func (s *tallyService) loadTallies(ctx context.Context, election *domain.Election) ([]domain.OptionTally, error) {
	useSnapshot := s.resultRepo != nil &&
		election.Voting.BallotType != domain.BallotRanked &&
		!election.AcceptingVotes(time.Now())
	if useSnapshot {
		snapshot, err := s.resultRepo.GetSnapshot(ctx, election.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load result snapshot: %w", err)
		}
		if len(snapshot) > 0 {
			return snapshot, nil
		}
	}

	tallies, err := s.voteRepo.AggregateByValue(ctx, election.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate votes: %w", err)
	}
	return tallies, nil
}

// determineWinner applies the winning criteria over the aggregate. The
// leader is reported either way; Certain tells whether the criteria is
// already met. Ties resolve to the lexicographically smallest value so
// results are reproducible.
func determineWinner(totals map[string]int64, totalWeight int64, criteria domain.WinningCriteria) *domain.Winner {
	var leader string
	var best int64 = -1
	for value, weight := range totals {
		if weight > best || (weight == best && value < leader) {
			leader = value
			best = weight
		}
	}
	if best < 0 {
		return nil
	}

	winner := &domain.Winner{Value: leader, Weight: best}
	switch criteria {
	case domain.CriteriaMajority:
		winner.Certain = best*2 > totalWeight
	case domain.CriteriaSupermajority:
		winner.Certain = totalWeight > 0 && best*3 >= totalWeight*2
	default: // plurality
		winner.Certain = best > 0
	}
	return winner
}

type rankedBallot struct {
	prefs  []string
	weight int64
}

// runInstantRunoff tallies first-remaining-preference weight per round,
// eliminating the weakest option until one holds over half of the
// still-active ballot weight or only one remains. Elimination ties break
// to the lexicographically smallest option.
func runInstantRunoff(options []string, votes []*domain.Vote) *domain.RankedResult {
	result := &domain.RankedResult{Rounds: []domain.RankedRound{}}

	ballots := make([]rankedBallot, 0, len(votes))
	for _, v := range votes {
		prefs := parseRankedValue(v.Value)
		if len(prefs) == 0 {
			continue
		}
		ballots = append(ballots, rankedBallot{prefs: prefs, weight: int64(v.Weight)})
		result.TotalBallots++
	}

	remaining := make(map[string]bool, len(options))
	for _, opt := range options {
		remaining[opt] = true
	}

	for round := 1; len(remaining) > 0; round++ {
		tallies := make(map[string]int64, len(remaining))
		for opt := range remaining {
			tallies[opt] = 0
		}

		var active int64
		for _, b := range ballots {
			for _, pref := range b.prefs {
				if remaining[pref] {
					tallies[pref] += b.weight
					active += b.weight
					break
				}
			}
		}

		leader, leaderWeight := maxOption(tallies)
		if leaderWeight*2 > active && active > 0 || len(remaining) == 1 {
			result.Rounds = append(result.Rounds, domain.RankedRound{Round: round, Tallies: tallies})
			result.Winner = leader
			result.FinalVoteCount = leaderWeight
			return result
		}
		if active == 0 {
			// No ballot ranks any remaining option; nothing to decide.
			result.Rounds = append(result.Rounds, domain.RankedRound{Round: round, Tallies: tallies})
			return result
		}

		eliminated := minOption(tallies)
		delete(remaining, eliminated)
		result.Rounds = append(result.Rounds, domain.RankedRound{
			Round:      round,
			Tallies:    tallies,
			Eliminated: eliminated,
		})
	}

	return result
}

func parseRankedValue(value string) []string {
	parts := strings.Split(value, ",")
	prefs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			prefs = append(prefs, p)
		}
	}
	return prefs
}

func maxOption(tallies map[string]int64) (string, int64) {
	var leader string
	var best int64 = -1
	for opt, w := range tallies {
		if w > best || (w == best && opt < leader) {
			leader = opt
			best = w
		}
	}
	return leader, best
}

func minOption(tallies map[string]int64) string {
	var weakest string
	var worst int64 = -1
	for opt, w := range tallies {
		if worst < 0 || w < worst || (w == worst && opt < weakest) {
			weakest = opt
			worst = w
		}
	}
	return weakest
}
