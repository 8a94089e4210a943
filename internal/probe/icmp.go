package probe

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/hamed0406/sentinel/internal/domain"
)

// ICMPChecker sends a small burst of unprivileged echo requests and
// reports average round-trip time and measured packet loss.
type ICMPChecker struct {
	Count         int
	PacketTimeout time.Duration
}

func NewICMPChecker(count int, packetTimeout time.Duration) *ICMPChecker {
	if count < 1 {
		count = 4
	}
	if packetTimeout <= 0 {
		packetTimeout = 2 * time.Second
	}
	return &ICMPChecker{Count: count, PacketTimeout: packetTimeout}
}

func (c *ICMPChecker) Check(ctx context.Context, t domain.Target) domain.Outcome {
	host := hostOnly(t.Address)

	p, err := probing.NewPinger(host)
	if err != nil {
		return down(t, err.Error(), 100)
	}
	p.Count = c.Count
	p.Interval = 100 * time.Millisecond
	p.Timeout = time.Duration(c.Count) * c.PacketTimeout
	p.SetPrivileged(false)

	if err := p.RunWithContext(ctx); err != nil {
		return down(t, err.Error(), 100)
	}

	stats := p.Statistics()
	if stats.PacketsRecv == 0 {
		return outcome(t, domain.StatusDown, nil, stats.PacketLoss, "host unreachable")
	}
	lat := float64(stats.AvgRtt) / float64(time.Millisecond)
	msg := fmt.Sprintf("%d/%d replies from %s", stats.PacketsRecv, stats.PacketsSent, stats.Addr)
	return outcome(t, domain.StatusUp, &lat, stats.PacketLoss, msg)
}
