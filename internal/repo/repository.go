package repo

import (
	"context"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
)

// Ports (interfaces) — swap in any DB adapter later.
type TargetStore interface {
	Add(ctx context.Context, t *domain.Target) error
	List(ctx context.Context) ([]domain.Target, error)
	GetByID(ctx context.Context, id domain.TargetID) (*domain.Target, error)
}

type OutcomeStore interface {
	Append(ctx context.Context, o *domain.Outcome) error
	LastByTarget(ctx context.Context, id domain.TargetID) (*domain.Outcome, error)
	ListByTarget(ctx context.Context, id domain.TargetID, limit int) ([]domain.Outcome, error)
	// AverageLatency returns the mean measured latency over the trailing
	// window, or nil when the target has no usable history yet.
	AverageLatency(ctx context.Context, id domain.TargetID, window time.Duration) (*float64, error)
}
