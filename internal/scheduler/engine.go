package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sentinel/internal/domain"
	"github.com/hamed0406/sentinel/internal/repo"
)

// AlertSink receives engine events. Implementations are fire-and-forget:
// delivery failures must be handled (logged) inside the sink, never
// surfaced back into the loop.
type AlertSink interface {
	StatusChange(ctx context.Context, t domain.Target, oldStatus, newStatus domain.Status, message string)
	LatencyAnomaly(ctx context.Context, t domain.Target, baselineMS, currentMS float64)
}

// AnomalyConfig tunes the latency-spike detector. The defaults are tuning
// choices, not protocol requirements, so they stay configurable.
type AnomalyConfig struct {
	Window        time.Duration // trailing window for the baseline average
	MinBaselineMS float64       // baseline below this is noise, never alerts
	SpikeFactor   float64       // current must exceed baseline x factor
	MinCurrentMS  float64       // current below this is never an anomaly
}

func DefaultAnomalyConfig() AnomalyConfig {
	return AnomalyConfig{
		Window:        24 * time.Hour,
		MinBaselineMS: 10,
		SpikeFactor:   3,
		MinCurrentMS:  50,
	}
}

// Spike reports whether the current latency counts as an anomaly against
// the baseline average.
func (c AnomalyConfig) Spike(baselineMS, currentMS float64) bool {
	return baselineMS > c.MinBaselineMS &&
		currentMS > baselineMS*c.SpikeFactor &&
		currentMS > c.MinCurrentMS
}

// Engine owns the polling loop: each tick it lists the configured targets,
// dispatches the whole batch, then post-processes outcomes sequentially
// (persist, transition alerting, anomaly detection). A failing tick is
// logged and the loop continues on schedule.
type Engine struct {
	Logger     *zap.Logger
	Targets    repo.TargetStore
	Outcomes   repo.OutcomeStore
	Alerts     AlertSink
	Dispatcher *Dispatcher
	Interval   time.Duration
	Anomaly    AnomalyConfig

	tracker *Tracker
}

func NewEngine(
	logger *zap.Logger,
	ts repo.TargetStore,
	out repo.OutcomeStore,
	alerts AlertSink,
	dispatcher *Dispatcher,
	interval time.Duration,
	anomaly AnomalyConfig,
) *Engine {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if anomaly.Window <= 0 {
		anomaly = DefaultAnomalyConfig()
	}
	return &Engine{
		Logger:     logger,
		Targets:    ts,
		Outcomes:   out,
		Alerts:     alerts,
		Dispatcher: dispatcher,
		Interval:   interval,
		Anomaly:    anomaly,
		tracker:    NewTracker(),
	}
}

// Run starts the loop: an immediate pass, then one per interval. The batch
// is awaited before sleeping, so ticks never overlap. Stops when ctx is
// cancelled.
func (e *Engine) Run(ctx context.Context) {
	t := time.NewTicker(e.Interval)
	defer t.Stop()

	e.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			e.Logger.Info("engine_stopped")
			return
		case <-t.C:
			e.runOnce(ctx)
		}
	}
}

func (e *Engine) runOnce(ctx context.Context) {
	targets, err := e.Targets.List(ctx)
	if err != nil {
		e.Logger.Warn("engine_list_targets_error", zap.Error(err))
		return
	}
	if len(targets) == 0 {
		return
	}

	byID := make(map[domain.TargetID]domain.Target, len(targets))
	for _, t := range targets {
		byID[t.ID] = t
	}

	outcomes := e.Dispatcher.Run(ctx, targets)

	for _, out := range outcomes {
		t, ok := byID[out.TargetID]
		if !ok {
			continue
		}
		e.process(ctx, t, out)
		e.detectAnomaly(ctx, t, out)
	}

	e.Logger.Info("engine_tick_done", zap.Int("targets", len(targets)))
}

// process persists the outcome and fires a transition alert when the
// status differs from the remembered one. This is the only trigger point
// for status-change alerts.
func (e *Engine) process(ctx context.Context, t domain.Target, out domain.Outcome) {
	if err := e.Outcomes.Append(ctx, &out); err != nil {
		e.Logger.Warn("engine_append_error",
			zap.String("target_id", string(t.ID)),
			zap.Error(err),
		)
	}

	old, changed := e.tracker.Observe(out.TargetID, out.Status)
	if changed {
		e.Logger.Info("status_change",
			zap.String("target_id", string(t.ID)),
			zap.String("old", string(old)),
			zap.String("new", string(out.Status)),
		)
		e.Alerts.StatusChange(ctx, t, old, out.Status, out.Message)
	}
}

// detectAnomaly compares an UP outcome's latency against the trailing
// average from storage. Runs on the loop's sequential post-pass only.
func (e *Engine) detectAnomaly(ctx context.Context, t domain.Target, out domain.Outcome) {
	if out.Status != domain.StatusUp || out.LatencyMS == nil {
		return
	}
	baseline, err := e.Outcomes.AverageLatency(ctx, out.TargetID, e.Anomaly.Window)
	if err != nil {
		e.Logger.Warn("engine_baseline_error",
			zap.String("target_id", string(t.ID)),
			zap.Error(err),
		)
		return
	}
	if baseline == nil || !e.Anomaly.Spike(*baseline, *out.LatencyMS) {
		return
	}
	e.Logger.Warn("latency_spike",
		zap.String("target_id", string(t.ID)),
		zap.Float64("baseline_ms", *baseline),
		zap.Float64("current_ms", *out.LatencyMS),
	)
	e.Alerts.LatencyAnomaly(ctx, t, *baseline, *out.LatencyMS)
}

// CheckOne runs a single on-demand check outside the polling cadence,
// sharing the probes and the transition tracking with the loop.
func (e *Engine) CheckOne(ctx context.Context, t domain.Target) domain.Outcome {
	out := e.Dispatcher.CheckSafe(ctx, t)
	e.process(ctx, t, out)
	return out
}
