package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type resultRepository struct {
	db *sql.DB
}

func NewResultRepository(db *sql.DB) ports.ResultRepository {
	return &resultRepository{
		db: db,
	}
}

func (r *resultRepository) SnapshotVotes(ctx context.Context, electionID uuid.UUID) error {
	query := `
		INSERT INTO election_results (election_id, vote_value, vote_weight, ballots, last_updated_at)
		SELECT election_id, vote_value, SUM(vote_weight), COUNT(*), NOW()
		FROM anonymous_votes
		WHERE election_id = $1 AND vote_value IS NOT NULL AND vote_value <> ''
		GROUP BY election_id, vote_value
		ON CONFLICT (election_id, vote_value) DO UPDATE
		SET vote_weight = EXCLUDED.vote_weight,
		    ballots = EXCLUDED.ballots,
		    last_updated_at = NOW();
	`

	_, err := r.db.ExecContext(ctx, query, electionID)
	if err != nil {
		return fmt.Errorf("failed to snapshot votes for election %s: %w", electionID, err)
	}

	return nil
}

func (r *resultRepository) GetSnapshot(ctx context.Context, electionID uuid.UUID) ([]domain.OptionTally, error) {
	query := `
		SELECT vote_value, vote_weight, ballots
		FROM election_results
		WHERE election_id = $1
		ORDER BY vote_value
	`
	rows, err := r.db.QueryContext(ctx, query, electionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch result snapshot: %w", err)
	}
	defer rows.Close()

	var snapshot []domain.OptionTally
	for rows.Next() {
		var tally domain.OptionTally
		if err := rows.Scan(&tally.Value, &tally.Weight, &tally.Ballots); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot row: %w", err)
		}
		snapshot = append(snapshot, tally)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating snapshot: %w", err)
	}

	return snapshot, nil
}
