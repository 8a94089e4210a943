package domain

import (
	"fmt"
	"strings"
	"time"
)

type TargetID string

// TargetKind selects which probe runs against a target. The set is closed:
// adding a kind means registering a checker for it in the probe registry.
type TargetKind string

const (
	KindHTTP       TargetKind = "http"
	KindICMP       TargetKind = "icmp"
	KindTLS        TargetKind = "tls"
	KindPort       TargetKind = "port"
	KindCrawlAudit TargetKind = "crawl_audit"
	KindTyposquat  TargetKind = "typosquat"
	KindEcoAudit   TargetKind = "eco_audit"
)

// Kinds lists every supported target kind.
func Kinds() []TargetKind {
	return []TargetKind{
		KindHTTP, KindICMP, KindTLS, KindPort,
		KindCrawlAudit, KindTyposquat, KindEcoAudit,
	}
}

// ParseKind validates a user-supplied kind string.
func ParseKind(s string) (TargetKind, error) {
	k := TargetKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown target kind %q", s)
}

type Status string

const (
	StatusUp      Status = "up"
	StatusDown    Status = "down"
	StatusUnknown Status = "unknown"
)

// Target is a configured endpoint/host/domain to be checked.
// ExpectedDigest and ExpectedPorts are kind-specific baselines: a hex
// SHA-256 of the expected body for HTTP targets, and a comma-separated
// port list for port-scan targets.
type Target struct {
	ID             TargetID   `json:"id"`
	Name           string     `json:"name"`
	Kind           TargetKind `json:"kind"`
	Address        string     `json:"address"`
	ExpectedDigest string     `json:"expected_digest,omitempty"`
	ExpectedPorts  string     `json:"expected_ports,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Outcome is the normalized result of one probe invocation. LatencyMS is
// nil when the probe could not measure anything; the TLS probe reuses the
// field to carry days-until-expiry. An Outcome is immutable once produced.
type Outcome struct {
	TargetID   TargetID  `json:"target_id"`
	Status     Status    `json:"status"`
	LatencyMS  *float64  `json:"latency_ms"`
	PacketLoss float64   `json:"packet_loss"`
	Message    string    `json:"message,omitempty"`
	ProducedAt time.Time `json:"produced_at"`
}
