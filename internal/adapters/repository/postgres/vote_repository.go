package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

const uniqueViolation = "23505"

type voteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) ports.VoteRepository {
	return &voteRepository{
		db: db,
	}
}

// CreateVoteWithRegistry inserts the anonymous vote row and the registry
// entry binding the voter to it in one transaction. The registry's
// unique (election_id, voter_id) key serializes concurrent first votes;
// losing the race surfaces as domain.ErrAlreadyVoted.
func (r *voteRepository) CreateVoteWithRegistry(ctx context.Context, vote *domain.Vote, voterID uuid.UUID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	insertVote := `
		INSERT INTO anonymous_votes (id, election_id, vote_value, vote_weight, voted_at, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err = tx.ExecContext(ctx, insertVote,
		vote.ID, vote.ElectionID, vote.Value, vote.Weight, vote.VotedAt, nullableJSON(vote.Metadata),
	)
	if err != nil {
		return fmt.Errorf("failed to insert vote: %w", err)
	}

	insertRegistry := `
		INSERT INTO voter_registry (election_id, voter_id, vote_id, voted_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = tx.ExecContext(ctx, insertRegistry, vote.ElectionID, voterID, vote.ID, vote.VotedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrAlreadyVoted
		}
		return fmt.Errorf("failed to insert registry entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit vote: %w", err)
	}
	return nil
}

func (r *voteRepository) UpdateVote(ctx context.Context, voteID uuid.UUID, value string, weight int, votedAt time.Time) error {
	query := `
		UPDATE anonymous_votes
		SET vote_value = $2, vote_weight = $3, voted_at = $4
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, voteID, value, weight, votedAt)
	if err != nil {
		return fmt.Errorf("failed to update vote: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return domain.ErrVoteNotFound
	}
	return nil
}

func (r *voteRepository) GetVote(ctx context.Context, voteID uuid.UUID) (*domain.Vote, error) {
	query := `
		SELECT id, election_id, vote_value, vote_weight, voted_at, metadata
		FROM anonymous_votes
		WHERE id = $1
	`
	vote := &domain.Vote{}
	var metadata sql.NullString
	err := r.db.QueryRowContext(ctx, query, voteID).Scan(
		&vote.ID, &vote.ElectionID, &vote.Value, &vote.Weight, &vote.VotedAt, &metadata,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVoteNotFound
		}
		return nil, fmt.Errorf("failed to get vote: %w", err)
	}
	if metadata.Valid {
		vote.Metadata = []byte(metadata.String)
	}
	return vote, nil
}

func (r *voteRepository) GetRegistryEntry(ctx context.Context, electionID, voterID uuid.UUID) (*domain.VoterRegistryEntry, error) {
	query := `
		SELECT id, election_id, voter_id, vote_id, voted_at
		FROM voter_registry
		WHERE election_id = $1 AND voter_id = $2
	`
	entry := &domain.VoterRegistryEntry{}
	err := r.db.QueryRowContext(ctx, query, electionID, voterID).Scan(
		&entry.ID, &entry.ElectionID, &entry.VoterID, &entry.VoteID, &entry.VotedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get registry entry: %w", err)
	}
	return entry, nil
}

// AggregateByValue sums stored weight per distinct value. Null or empty
// values (no votes yet) are excluded from the mapping.
func (r *voteRepository) AggregateByValue(ctx context.Context, electionID uuid.UUID) ([]domain.OptionTally, error) {
	query := `
		SELECT vote_value, SUM(vote_weight), COUNT(*)
		FROM anonymous_votes
		WHERE election_id = $1 AND vote_value IS NOT NULL AND vote_value <> ''
		GROUP BY vote_value
		ORDER BY vote_value
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate votes: %w", err)
	}
	defer rows.Close()

	var tallies []domain.OptionTally
	for rows.Next() {
		var t domain.OptionTally
		if err := rows.Scan(&t.Value, &t.Weight, &t.Ballots); err != nil {
			return nil, fmt.Errorf("failed to scan tally: %w", err)
		}
		tallies = append(tallies, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating tallies: %w", err)
	}
	return tallies, nil
}

func (r *voteRepository) ListVotes(ctx context.Context, electionID uuid.UUID) ([]*domain.Vote, error) {
	query := `
		SELECT id, election_id, vote_value, vote_weight, voted_at, metadata
		FROM anonymous_votes
		WHERE election_id = $1
		ORDER BY voted_at
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []*domain.Vote
	for rows.Next() {
		vote := &domain.Vote{}
		var metadata sql.NullString
		err := rows.Scan(&vote.ID, &vote.ElectionID, &vote.Value, &vote.Weight, &vote.VotedAt, &metadata)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		if metadata.Valid {
			vote.Metadata = []byte(metadata.String)
		}
		votes = append(votes, vote)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating votes: %w", err)
	}
	return votes, nil
}

func nullableJSON(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
