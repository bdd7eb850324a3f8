package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type delegationRepository struct {
	db *sql.DB
}

func NewDelegationRepository(db *sql.DB) ports.DelegationRepository {
	return &delegationRepository{
		db: db,
	}
}

// SwitchActive runs deactivate-all then upsert-activate in a single
// transaction, so a delegator never observably holds zero or two active
// delegations across the switch.
func (r *delegationRepository) SwitchActive(ctx context.Context, delegatorID, delegateID uuid.UUID) (*domain.Delegation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	deactivate := `
		UPDATE delegations
		SET active = false, updated_at = NOW()
		WHERE delegator_id = $1 AND active = true AND delegate_id <> $2
	`
	if _, err := tx.ExecContext(ctx, deactivate, delegatorID, delegateID); err != nil {
		return nil, fmt.Errorf("failed to deactivate delegations: %w", err)
	}

	upsert := `
		INSERT INTO delegations (delegator_id, delegate_id, active)
		VALUES ($1, $2, true)
		ON CONFLICT (delegator_id, delegate_id) DO UPDATE
		SET active = true, updated_at = NOW()
		RETURNING id, delegator_id, delegate_id, active, created_at, updated_at
	`
	delegation := &domain.Delegation{}
	err = tx.QueryRowContext(ctx, upsert, delegatorID, delegateID).Scan(
		&delegation.ID, &delegation.DelegatorID, &delegation.DelegateID,
		&delegation.Active, &delegation.CreatedAt, &delegation.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert delegation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delegation switch: %w", err)
	}

	return delegation, nil
}

func (r *delegationRepository) Deactivate(ctx context.Context, delegatorID uuid.UUID) error {
	query := `
		UPDATE delegations
		SET active = false, updated_at = NOW()
		WHERE delegator_id = $1 AND active = true
	`
	if _, err := r.db.ExecContext(ctx, query, delegatorID); err != nil {
		return fmt.Errorf("failed to deactivate delegation: %w", err)
	}
	return nil
}

func (r *delegationRepository) GetActiveByDelegator(ctx context.Context, delegatorID uuid.UUID) (*domain.Delegation, error) {
	query := `
		SELECT id, delegator_id, delegate_id, active, created_at, updated_at
		FROM delegations
		WHERE delegator_id = $1 AND active = true
	`
	delegation := &domain.Delegation{}
	err := r.db.QueryRowContext(ctx, query, delegatorID).Scan(
		&delegation.ID, &delegation.DelegatorID, &delegation.DelegateID,
		&delegation.Active, &delegation.CreatedAt, &delegation.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get active delegation: %w", err)
	}
	return delegation, nil
}

func (r *delegationRepository) ListActiveByDelegate(ctx context.Context, delegateID uuid.UUID) ([]*domain.Delegation, error) {
	query := `
		SELECT id, delegator_id, delegate_id, active, created_at, updated_at
		FROM delegations
		WHERE delegate_id = $1 AND active = true
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query, delegateID)
	if err != nil {
		return nil, fmt.Errorf("failed to list delegations: %w", err)
	}
	defer rows.Close()

	var delegations []*domain.Delegation
	for rows.Next() {
		delegation := &domain.Delegation{}
		err := rows.Scan(
			&delegation.ID, &delegation.DelegatorID, &delegation.DelegateID,
			&delegation.Active, &delegation.CreatedAt, &delegation.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan delegation: %w", err)
		}
		delegations = append(delegations, delegation)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delegations: %w", err)
	}
	return delegations, nil
}
