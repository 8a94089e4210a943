package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
	"github.com/hamed0406/sentinel/internal/typo"
)

// TyposquatChecker scans look-alike spellings of the target domain for
// live DNS registrations. Any resolving mimic means DOWN.
type TyposquatChecker struct {
	Radar *typo.Radar
}

func NewTyposquatChecker(maxVariants int) *TyposquatChecker {
	return &TyposquatChecker{Radar: typo.NewRadar(maxVariants)}
}

func (c *TyposquatChecker) Check(ctx context.Context, t domain.Target) domain.Outcome {
	start := time.Now()
	scanned, active, err := c.Radar.Scan(ctx, t.Address)
	latency := msSince(start)
	if err != nil {
		return down(t, err.Error(), 0)
	}
	if len(active) > 0 {
		msg := "potential mimic domains detected: " + strings.Join(active, ", ")
		return outcome(t, domain.StatusDown, &latency, 0, msg)
	}
	msg := fmt.Sprintf("radar clear: scanned %d variations, no mimics active", scanned)
	return outcome(t, domain.StatusUp, &latency, 0, msg)
}
