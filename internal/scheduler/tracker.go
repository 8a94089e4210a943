package scheduler

import (
	"sync"

	"github.com/hamed0406/sentinel/internal/domain"
)

// Tracker remembers the last observed status per target for the lifetime
// of the engine. It is not persisted: after a restart the first outcome
// for every target can never register as a transition.
type Tracker struct {
	mu   sync.Mutex
	last map[domain.TargetID]domain.Status
}

func NewTracker() *Tracker {
	return &Tracker{last: make(map[domain.TargetID]domain.Status)}
}

// Observe records the new status and reports whether it differs from a
// previously remembered one. The very first observation for a target is
// never a change.
func (tr *Tracker) Observe(id domain.TargetID, st domain.Status) (old domain.Status, changed bool) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	old, seen := tr.last[id]
	tr.last[id] = st
	return old, seen && old != st
}
