// Package memory contains the in-memory publisher used in tests and
// as the fallback when no Pub/Sub topic is configured.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Record captures one Publish call.
type Record struct {
	Topic   string
	Payload any
}

// Publisher keeps published run announcements in memory for inspection.
type Publisher struct {
	mu      sync.RWMutex
	records []Record
}

// New returns an empty Publisher.
func New() *Publisher {
	return &Publisher{}
}

// Publish appends the payload and returns a sequence-numbered ID.
func (p *Publisher) Publish(_ context.Context, topic string, payload any) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, Record{Topic: topic, Payload: payload})
	return fmt.Sprintf("mem-%d", len(p.records)), nil
}

// Messages returns a copy of the recorded publishes in arrival order.
func (p *Publisher) Messages() []Record {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Record, len(p.records))
	copy(out, p.records)
	return out
}
