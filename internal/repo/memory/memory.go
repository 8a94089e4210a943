package memory

import (
	"context"
	"sync"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
	"github.com/hamed0406/sentinel/internal/repo"
)

var _ repo.TargetStore = (*Store)(nil)
var _ repo.OutcomeStore = (*Store)(nil)

type Store struct {
	mu       sync.RWMutex
	targets  map[domain.TargetID]*domain.Target
	outcomes []*domain.Outcome
}

func New() *Store {
	return &Store{
		targets:  make(map[domain.TargetID]*domain.Target),
		outcomes: make([]*domain.Outcome, 0, 128),
	}
}

func (m *Store) Add(ctx context.Context, t *domain.Target) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID == "" {
		t.ID = domain.TargetID(time.Now().UTC().Format("20060102T150405.000000000"))
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	m.targets[t.ID] = t
	return nil
}

func (m *Store) List(ctx context.Context) ([]domain.Target, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Target, 0, len(m.targets))
	for _, t := range m.targets {
		out = append(out, *t)
	}
	return out, nil
}

func (m *Store) GetByID(ctx context.Context, id domain.TargetID) (*domain.Target, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.targets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (m *Store) Append(ctx context.Context, o *domain.Outcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *o
	m.outcomes = append(m.outcomes, &cp)
	return nil
}

func (m *Store) LastByTarget(ctx context.Context, id domain.TargetID) (*domain.Outcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for i := len(m.outcomes) - 1; i >= 0; i-- {
		if m.outcomes[i].TargetID == id {
			cp := *m.outcomes[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Store) ListByTarget(ctx context.Context, id domain.TargetID, limit int) ([]domain.Outcome, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.Outcome
	for i := len(m.outcomes) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if m.outcomes[i].TargetID == id {
			out = append(out, *m.outcomes[i])
		}
	}
	return out, nil
}

func (m *Store) AverageLatency(ctx context.Context, id domain.TargetID, window time.Duration) (*float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cutoff := time.Now().UTC().Add(-window)
	var sum float64
	var n int
	for _, o := range m.outcomes {
		if o.TargetID != id || o.LatencyMS == nil || o.ProducedAt.Before(cutoff) {
			continue
		}
		sum += *o.LatencyMS
		n++
	}
	if n == 0 {
		return nil, nil
	}
	avg := sum / float64(n)
	return &avg, nil
}
