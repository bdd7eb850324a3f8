package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/domain"
	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

// LiveResults projects ledger changes into recomputed tallies and fans
// them out to per-election subscribers. Only ongoing elections get a
// live channel; everything else computes once on read.
type LiveResults struct {
	electionRepo ports.ElectionRepository
	tally        ports.TallyService
	bus          ports.VoteEventBus

	mu     sync.Mutex
	nextID int
	subs   map[uuid.UUID]map[int]chan *domain.TallyResult
}

func NewLiveResults(electionRepo ports.ElectionRepository, tally ports.TallyService, bus ports.VoteEventBus) *LiveResults {
	return &LiveResults{
		electionRepo: electionRepo,
		tally:        tally,
		bus:          bus,
		subs:         make(map[uuid.UUID]map[int]chan *domain.TallyResult),
	}
}

// Run consumes vote events until ctx is cancelled. Meant to run in its
// own goroutine from main.
func (p *LiveResults) Run(ctx context.Context) {
	events, cancel := p.bus.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			p.project(ctx, event.ElectionID)
		}
	}
}

// SubscribeResults registers a viewer for an ongoing election. The first
// tally is pushed immediately so the viewer does not wait for the next
// vote.
func (p *LiveResults) SubscribeResults(ctx context.Context, electionID uuid.UUID) (<-chan *domain.TallyResult, func(), error) {
	election, err := p.electionRepo.GetByID(ctx, electionID)
	if err != nil {
		return nil, nil, err
	}
	if !election.IsOngoing {
		return nil, nil, fmt.Errorf("%w: live results are only available for ongoing elections", domain.ErrElectionClosed)
	}

	ch := make(chan *domain.TallyResult, 1)

	p.mu.Lock()
	p.nextID++
	id := p.nextID
	if p.subs[electionID] == nil {
		p.subs[electionID] = make(map[int]chan *domain.TallyResult)
	}
	p.subs[electionID][id] = ch
	p.mu.Unlock()

	if result, err := p.tally.ComputeResults(ctx, electionID); err == nil {
		ch <- result
	}

	cancel := func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if viewers, ok := p.subs[electionID]; ok {
			if sub, ok := viewers[id]; ok {
				delete(viewers, id)
				close(sub)
			}
			if len(viewers) == 0 {
				delete(p.subs, electionID)
			}
		}
	}

	return ch, cancel, nil
}

func (p *LiveResults) project(ctx context.Context, electionID uuid.UUID) {
	p.mu.Lock()
	hasViewers := len(p.subs[electionID]) > 0
	p.mu.Unlock()
	if !hasViewers {
		return
	}

	result, err := p.tally.ComputeResults(ctx, electionID)
	if err != nil {
		log.Printf("failed to recompute results for election %s: %v", electionID, err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.subs[electionID] {
		// Latest result wins; a slow viewer has its stale entry replaced.
		select {
		case ch <- result:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- result:
			default:
			}
		}
	}
}
