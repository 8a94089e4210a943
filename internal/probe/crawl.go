package probe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hamed0406/sentinel/internal/crawler"
	"github.com/hamed0406/sentinel/internal/domain"
)

// CrawlChecker runs the bounded security crawler against a web target.
// Any confirmed finding means DOWN; a clean run is UP with a coverage
// summary.
type CrawlChecker struct {
	Auditor *crawler.Auditor
}

func NewCrawlChecker(maxPages, maxDepth int) *CrawlChecker {
	return &CrawlChecker{
		Auditor: crawler.New(crawler.Options{MaxPages: maxPages, MaxDepth: maxDepth}),
	}
}

func (c *CrawlChecker) Check(ctx context.Context, t domain.Target) domain.Outcome {
	start := time.Now()
	res, err := c.Auditor.Audit(ctx, t.Address)
	latency := msSince(start)
	if err != nil {
		return down(t, err.Error(), 0)
	}
	if len(res.Findings) > 0 {
		msg := "vulnerabilities detected: " + strings.Join(res.Findings, ", ")
		return outcome(t, domain.StatusDown, &latency, 0, msg)
	}
	msg := fmt.Sprintf("secure: audited %d locations, no leaks found", res.Audited)
	return outcome(t, domain.StatusUp, &latency, 0, msg)
}
