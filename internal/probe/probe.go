package probe

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
)

// Checker performs a single check for a target and folds every failure
// into the returned Outcome. Implementations never return errors and
// never block past their own timeouts.
type Checker interface {
	Check(ctx context.Context, t domain.Target) domain.Outcome
}

// Registry dispatches a check to the concrete checker for the target's
// kind. An unregistered kind yields an UNKNOWN outcome rather than an
// error, so a misconfigured target can never break a batch.
type Registry struct {
	checkers map[domain.TargetKind]Checker
}

func NewRegistry(checkers map[domain.TargetKind]Checker) *Registry {
	return &Registry{checkers: checkers}
}

// Defaults builds a registry covering every target kind with production
// tuning: 10s HTTP/TLS fetches, 2s port connects, 2s per ICMP packet.
func Defaults() *Registry {
	return NewRegistry(map[domain.TargetKind]Checker{
		domain.KindHTTP:       NewHTTPChecker(10 * time.Second),
		domain.KindICMP:       NewICMPChecker(4, 2*time.Second),
		domain.KindTLS:        NewTLSChecker(10 * time.Second),
		domain.KindPort:       NewPortChecker(2 * time.Second),
		domain.KindCrawlAudit: NewCrawlChecker(0, 0),
		domain.KindTyposquat:  NewTyposquatChecker(0),
		domain.KindEcoAudit:   NewEcoChecker(10 * time.Second),
	})
}

func (r *Registry) Check(ctx context.Context, t domain.Target) domain.Outcome {
	c, ok := r.checkers[t.Kind]
	if !ok {
		return outcome(t, domain.StatusUnknown, nil, 0, "unknown target kind: "+string(t.Kind))
	}
	return c.Check(ctx, t)
}

func outcome(t domain.Target, st domain.Status, latency *float64, loss float64, msg string) domain.Outcome {
	return domain.Outcome{
		TargetID:   t.ID,
		Status:     st,
		LatencyMS:  latency,
		PacketLoss: loss,
		Message:    msg,
		ProducedAt: time.Now().UTC(),
	}
}

func down(t domain.Target, msg string, loss float64) domain.Outcome {
	return outcome(t, domain.StatusDown, nil, loss, msg)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

// ensureScheme prefixes addresses that lack a URL scheme.
func ensureScheme(addr, scheme string) string {
	if strings.Contains(addr, "://") {
		return addr
	}
	return scheme + "://" + addr
}

// hostOnly strips scheme, path and port from an address, leaving the bare
// hostname for DNS, ICMP and socket-level probes.
func hostOnly(addr string) string {
	raw := strings.TrimSpace(addr)
	if strings.Contains(raw, "://") {
		if u, err := url.Parse(raw); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
		raw = raw[strings.Index(raw, "://")+3:]
	}
	raw = strings.SplitN(raw, "/", 2)[0]
	if h, _, ok := strings.Cut(raw, ":"); ok && h != "" {
		return h
	}
	return raw
}
