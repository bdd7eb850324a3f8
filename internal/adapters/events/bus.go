// Package events carries ledger change signals between the vote service
// and the live results projector inside one process.
package events

import (
	"sync"

	"github.com/DemocracyEarth/vote-forge-planet-sub000/internal/core/ports"
)

const subscriberBuffer = 16

type Bus struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan ports.VoteEvent
}

func NewBus() *Bus {
	return &Bus{
		subs: make(map[int]chan ports.VoteEvent),
	}
}

// Publish never blocks; a subscriber that falls behind loses events.
// Events carry no delta, so a dropped one costs at most a recompute.
func (b *Bus) Publish(event ports.VoteEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (b *Bus) Subscribe() (<-chan ports.VoteEvent, func()) {
	ch := make(chan ports.VoteEvent, subscriberBuffer)

	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}
