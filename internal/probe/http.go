package probe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
)

// HTTPChecker issues a GET and verifies reachability (2xx/3xx) plus,
// when the target carries a content baseline, body integrity against the
// expected SHA-256 digest (defacement detection).
type HTTPChecker struct {
	Client *http.Client
}

func NewHTTPChecker(timeout time.Duration) *HTTPChecker {
	return &HTTPChecker{Client: &http.Client{Timeout: timeout}}
}

func (h *HTTPChecker) Check(ctx context.Context, t domain.Target) domain.Outcome {
	target := ensureScheme(t.Address, "http")

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return down(t, err.Error(), 100)
	}
	resp, err := h.Client.Do(req)
	if err != nil {
		return down(t, "connection error: "+err.Error(), 100)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	latency := msSince(start)
	if err != nil {
		return down(t, "read body: "+err.Error(), 100)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return outcome(t, domain.StatusDown, &latency, 100, resp.Status)
	}

	if t.ExpectedDigest != "" {
		sum := sha256.Sum256(body)
		if hex.EncodeToString(sum[:]) != strings.ToLower(strings.TrimSpace(t.ExpectedDigest)) {
			return outcome(t, domain.StatusDown, &latency, 0, "integrity check failed: content changed")
		}
	}
	return outcome(t, domain.StatusUp, &latency, 0, resp.Status)
}
