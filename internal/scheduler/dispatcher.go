package scheduler

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/sentinel/internal/domain"
	"github.com/hamed0406/sentinel/internal/probe"
)

// Dispatcher fans a batch of target checks out concurrently and returns
// exactly one Outcome per target. A panicking probe is downgraded to a
// synthetic DOWN outcome so one misbehaving check never drops or corrupts
// the result for any other target.
type Dispatcher struct {
	Logger      *zap.Logger
	Checker     probe.Checker
	Concurrency int
}

func NewDispatcher(logger *zap.Logger, checker probe.Checker, concurrency int) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Dispatcher{Logger: logger, Checker: checker, Concurrency: concurrency}
}

// Run checks all targets and returns their outcomes. Outcomes carry their
// target id, so callers must not rely on ordering.
func (d *Dispatcher) Run(ctx context.Context, targets []domain.Target) []domain.Outcome {
	outcomes := make([]domain.Outcome, len(targets))

	g := new(errgroup.Group)
	g.SetLimit(d.Concurrency)
	for i, t := range targets {
		i, t := i, t
		g.Go(func() error {
			outcomes[i] = d.CheckSafe(ctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// CheckSafe runs one probe and converts a panic into a DOWN outcome.
func (d *Dispatcher) CheckSafe(ctx context.Context, t domain.Target) (out domain.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			d.Logger.Error("probe_panic",
				zap.String("target_id", string(t.ID)),
				zap.String("kind", string(t.Kind)),
				zap.Any("panic", r),
			)
			out = domain.Outcome{
				TargetID:   t.ID,
				Status:     domain.StatusDown,
				PacketLoss: 100,
				Message:    fmt.Sprintf("probe failure: %v", r),
				ProducedAt: time.Now().UTC(),
			}
		}
	}()
	return d.Checker.Check(ctx, t)
}
