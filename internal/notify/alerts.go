package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/sentinel/internal/domain"
)

// Alerts formats engine events and pushes them through a Notifier.
// Sends are best effort: failures are logged and never returned, so a
// broken webhook cannot reach back into the scheduler loop.
type Alerts struct {
	Notifier Notifier
	Logger   *zap.Logger
}

func NewAlerts(n Notifier, logger *zap.Logger) *Alerts {
	return &Alerts{Notifier: n, Logger: logger}
}

func (a *Alerts) StatusChange(ctx context.Context, t domain.Target, oldStatus, newStatus domain.Status, message string) {
	title := "🔴 " + displayName(t) + " is DOWN"
	switch newStatus {
	case domain.StatusUp:
		title = "🟢 " + displayName(t) + " recovered"
	case domain.StatusUnknown:
		title = "⚪ " + displayName(t) + " status unknown"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Target: %s\n", t.Address)
	fmt.Fprintf(&b, "Status: %s → %s\n", strings.ToUpper(string(oldStatus)), strings.ToUpper(string(newStatus)))
	if message != "" {
		fmt.Fprintf(&b, "Detail: %s\n", message)
	}
	fmt.Fprintf(&b, "Time: %s", time.Now().UTC().Format(time.RFC3339))

	a.send(ctx, title, b.String())
}

func (a *Alerts) LatencyAnomaly(ctx context.Context, t domain.Target, baselineMS, currentMS float64) {
	title := "⚠️ Latency anomaly on " + displayName(t)
	text := fmt.Sprintf(
		"Target: %s\nCurrent: %.0f ms\nBaseline: %.0f ms (possible DDoS or saturation)",
		t.Address, currentMS, baselineMS,
	)
	a.send(ctx, title, text)
}

func (a *Alerts) send(ctx context.Context, title, text string) {
	if a.Notifier == nil {
		return
	}
	if err := a.Notifier.Send(ctx, title, text); err != nil {
		a.Logger.Warn("alert_send_failed", zap.String("title", title), zap.Error(err))
	}
}

func displayName(t domain.Target) string {
	if t.Name != "" {
		return t.Name
	}
	return t.Address
}
