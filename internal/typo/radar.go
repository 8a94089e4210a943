package typo

import (
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Radar resolves generated domain variants concurrently and reports the
// ones that are live. Lookup is injectable for tests; the default uses the
// OS resolver.
type Radar struct {
	MaxVariants int
	Timeout     time.Duration
	Concurrency int
	Lookup      func(ctx context.Context, host string) ([]net.IPAddr, error)
}

func NewRadar(maxVariants int) *Radar {
	if maxVariants <= 0 {
		maxVariants = 50
	}
	return &Radar{
		MaxVariants: maxVariants,
		Timeout:     3 * time.Second,
		Concurrency: 16,
		Lookup:      net.DefaultResolver.LookupIPAddr,
	}
}

// Scan generates variants of addr and returns how many were checked plus
// the subset that resolved ("active mimics"), sorted for stable output.
func (r *Radar) Scan(ctx context.Context, addr string) (scanned int, active []string, err error) {
	variants, err := Variants(addr, r.MaxVariants)
	if err != nil {
		return 0, nil, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)
	for _, v := range variants {
		v := v
		g.Go(func() error {
			lctx, cancel := context.WithTimeout(gctx, r.Timeout)
			defer cancel()
			if ips, err := r.Lookup(lctx, v); err == nil && len(ips) > 0 {
				mu.Lock()
				active = append(active, v)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	sort.Strings(active)
	return len(variants), active, nil
}
