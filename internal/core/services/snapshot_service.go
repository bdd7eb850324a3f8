package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

type snapshotService struct {
	electionRepo ports.ElectionRepository
	resultRepo   ports.ResultRepository
}

func NewSnapshotService(electionRepo ports.ElectionRepository, resultRepo ports.ResultRepository) ports.SnapshotService {
	return &snapshotService{
		electionRepo: electionRepo,
		resultRepo:   resultRepo,
	}
}

// SnapshotAll re-aggregates every election's ledger into the persisted
// results table, one goroutine per election.
func (s *snapshotService) SnapshotAll(ctx context.Context) error {
	elections, err := s.electionRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all elections: %w", err)
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(elections))

	for _, election := range elections {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			if err := s.resultRepo.SnapshotVotes(ctx, id); err != nil {
				errChan <- fmt.Errorf("failed to snapshot election %s: %w", id, err)
			}
		}(election.ID)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return err
		}
	}

	return nil
}
