package probe

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/sentinel/internal/domain"
)

// wellKnownPorts are always scanned, in addition to any baseline ports the
// target declares.
var wellKnownPorts = []int{
	21, 22, 23, 25, 53, 80, 110, 143, 443, 445,
	1433, 3306, 3389, 5432, 8080, 8443,
}

// PortChecker scans well-known plus baseline ports with short concurrent
// connect attempts. With a baseline configured, any open port outside it
// means DOWN (intrusion/misconfiguration signal); without one the probe is
// purely informational and always UP.
type PortChecker struct {
	DialTimeout time.Duration
	Ports       []int
	Concurrency int
}

func NewPortChecker(dialTimeout time.Duration) *PortChecker {
	return &PortChecker{
		DialTimeout: dialTimeout,
		Ports:       wellKnownPorts,
		Concurrency: 16,
	}
}

func (c *PortChecker) Check(ctx context.Context, t domain.Target) domain.Outcome {
	host := hostOnly(t.Address)
	baseline := parsePorts(t.ExpectedPorts)

	scan := make([]int, 0, len(c.Ports)+len(baseline))
	seen := make(map[int]bool, len(c.Ports)+len(baseline))
	for _, p := range append(append([]int{}, c.Ports...), baseline...) {
		if !seen[p] {
			seen[p] = true
			scan = append(scan, p)
		}
	}

	start := time.Now()
	var (
		mu   sync.Mutex
		open []int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Concurrency)
	for _, port := range scan {
		port := port
		g.Go(func() error {
			d := net.Dialer{Timeout: c.DialTimeout}
			conn, err := d.DialContext(gctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
			if err == nil {
				conn.Close()
				mu.Lock()
				open = append(open, port)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Ints(open)
	latency := msSince(start)

	if len(baseline) > 0 {
		allowed := make(map[int]bool, len(baseline))
		for _, p := range baseline {
			allowed[p] = true
		}
		var unexpected []int
		for _, p := range open {
			if !allowed[p] {
				unexpected = append(unexpected, p)
			}
		}
		if len(unexpected) > 0 {
			return outcome(t, domain.StatusDown, &latency, 0,
				"unexpected open ports: "+joinPorts(unexpected))
		}
		return outcome(t, domain.StatusUp, &latency, 0,
			fmt.Sprintf("%d ports open, matching baseline", len(open)))
	}

	list := joinPorts(open)
	if list == "" {
		list = "none"
	}
	return outcome(t, domain.StatusUp, &latency, 0, "open ports: "+list)
}

// parsePorts reads a comma-separated baseline list, ignoring junk entries.
func parsePorts(s string) []int {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if p, err := strconv.Atoi(part); err == nil && p > 0 && p < 65536 {
			out = append(out, p)
		}
	}
	return out
}

func joinPorts(ports []int) string {
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, ",")
}
