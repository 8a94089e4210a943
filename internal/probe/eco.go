package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
)

// EcoChecker measures raw transferred bytes (transport decompression off so
// the wire size is what we see) and grades transfer efficiency. It is
// advisory: the outcome is always UP unless the fetch itself fails.
type EcoChecker struct {
	Client *http.Client
}

func NewEcoChecker(timeout time.Duration) *EcoChecker {
	return &EcoChecker{
		Client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{DisableCompression: true},
		},
	}
}

func (c *EcoChecker) Check(ctx context.Context, t domain.Target) domain.Outcome {
	target := ensureScheme(t.Address, "https")

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return down(t, "eco audit failed: "+err.Error(), 0)
	}
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	resp, err := c.Client.Do(req)
	if err != nil {
		return down(t, "eco audit failed: "+err.Error(), 0)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return down(t, "eco audit failed: "+err.Error(), 0)
	}
	latency := msSince(start)

	sizeKB := float64(len(body)) / 1024
	co2Grams := float64(len(body)) / (1024 * 1024) * 0.8

	compression := resp.Header.Get("Content-Encoding")
	if compression == "" {
		compression = "none"
	}
	compressed := compression == "gzip" || compression == "br" || compression == "deflate"

	score := 100
	if sizeKB > 2000 {
		score -= 30
	} else if sizeKB > 1000 {
		score -= 15
	}
	if !compressed {
		score -= 20
	}
	if latency > 1000 {
		score -= 10
	}

	var advice string
	switch {
	case score < 40:
		advice = "extremely inefficient: huge page size and no compression detected"
	case score < 70:
		advice = "moderate efficiency: consider optimizing assets and enabling gzip/brotli"
	default:
		advice = "eco-friendly: page is lightweight and well-compressed"
	}

	msg := fmt.Sprintf("ECO_DATA|Score:%d|Size:%.0fKB|CO2:%.4fg|Comp:%s|Advice:%s",
		score, sizeKB, co2Grams, compression, advice)
	return outcome(t, domain.StatusUp, &latency, 0, msg)
}
