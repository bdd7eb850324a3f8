package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type electionRepository struct {
	db *sql.DB
}

func NewElectionRepository(db *sql.DB) ports.ElectionRepository {
	return &electionRepository{
		db: db,
	}
}

const electionColumns = `
	id, creator_id, title, description,
	restriction_type, allow_list,
	voting_model, ballot_type, winning_criteria, ballot_options,
	start_date, end_date, is_ongoing, is_public, status, created_at
`

func (r *electionRepository) Save(ctx context.Context, election *domain.Election) error {
	query := `
		INSERT INTO elections (
			id, creator_id, title, description,
			restriction_type, allow_list,
			voting_model, ballot_type, winning_criteria, ballot_options,
			start_date, end_date, is_ongoing, is_public, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err := r.db.ExecContext(ctx, query,
		election.ID, election.CreatorID, election.Title, election.Description,
		election.Identity.RestrictionType, pq.Array(election.Identity.AllowList),
		election.Voting.Model, election.Voting.BallotType, election.Voting.WinningCriteria,
		pq.Array(election.BallotOptions),
		election.StartDate, election.EndDate, election.IsOngoing, election.IsPublic, election.Status,
	)
	if err != nil {
		return fmt.Errorf("failed to insert election: %w", err)
	}
	return nil
}

func (r *electionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections WHERE id = $1`
	election, err := r.scanElection(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrElectionNotFound
		}
		return nil, fmt.Errorf("failed to get election: %w", err)
	}
	return election, nil
}

func (r *electionRepository) GetAll(ctx context.Context) ([]*domain.Election, error) {
	query := `SELECT ` + electionColumns + ` FROM elections ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all elections: %w", err)
	}
	defer rows.Close()

	return r.scanElections(rows)
}

func (r *electionRepository) ListPublic(ctx context.Context, limit, offset int) ([]*domain.Election, error) {
	query := `
		SELECT ` + electionColumns + `
		FROM elections
		WHERE is_public = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list public elections: %w", err)
	}
	defer rows.Close()

	return r.scanElections(rows)
}

func (r *electionRepository) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*domain.Election, error) {
	query := `
		SELECT ` + electionColumns + `
		FROM elections
		WHERE creator_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list elections by creator: %w", err)
	}
	defer rows.Close()

	return r.scanElections(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *electionRepository) scanElection(row rowScanner) (*domain.Election, error) {
	var election domain.Election
	var allowList, ballotOptions pq.StringArray
	err := row.Scan(
		&election.ID, &election.CreatorID, &election.Title, &election.Description,
		&election.Identity.RestrictionType, &allowList,
		&election.Voting.Model, &election.Voting.BallotType, &election.Voting.WinningCriteria,
		&ballotOptions,
		&election.StartDate, &election.EndDate, &election.IsOngoing, &election.IsPublic,
		&election.Status, &election.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	election.Identity.AllowList = allowList
	election.BallotOptions = ballotOptions
	return &election, nil
}

func (r *electionRepository) scanElections(rows *sql.Rows) ([]*domain.Election, error) {
	var elections []*domain.Election
	for rows.Next() {
		election, err := r.scanElection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan election: %w", err)
		}
		elections = append(elections, election)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating elections: %w", err)
	}
	return elections, nil
}
