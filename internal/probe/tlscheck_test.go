package probe

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
)

func tlsTarget() domain.Target {
	return domain.Target{ID: "T1", Kind: domain.KindTLS, Address: "example.com"}
}

func TestCertOutcome_ExpiredIsDown(t *testing.T) {
	now := time.Now().UTC()
	out := certOutcome(tlsTarget(), now.Add(-24*time.Hour), now)
	if out.Status != domain.StatusDown {
		t.Fatalf("want down for expired cert, got %+v", out)
	}
	if out.LatencyMS == nil || *out.LatencyMS != 0 {
		t.Fatalf("expired cert should carry latency 0, got %v", out.LatencyMS)
	}
	if !strings.Contains(out.Message, "expired") {
		t.Fatalf("unexpected message: %q", out.Message)
	}
}

func TestCertOutcome_ThreeDaysIsCritical(t *testing.T) {
	now := time.Now().UTC()
	out := certOutcome(tlsTarget(), now.Add(3*24*time.Hour+time.Hour), now)
	if out.Status != domain.StatusDown {
		t.Fatalf("want down under a week, got %+v", out)
	}
	if !strings.Contains(out.Message, "critical") {
		t.Fatalf("want critical message, got %q", out.Message)
	}
	if out.LatencyMS == nil || *out.LatencyMS != 3 {
		t.Fatalf("latency should carry days remaining, got %v", out.LatencyMS)
	}
}

func TestCertOutcome_TwentyDaysIsWarning(t *testing.T) {
	now := time.Now().UTC()
	out := certOutcome(tlsTarget(), now.Add(20*24*time.Hour+time.Hour), now)
	if out.Status != domain.StatusUp {
		t.Fatalf("want up under a month, got %+v", out)
	}
	if !strings.Contains(out.Message, "warning") {
		t.Fatalf("want warning message, got %q", out.Message)
	}
}

func TestCertOutcome_HundredDaysIsClean(t *testing.T) {
	now := time.Now().UTC()
	out := certOutcome(tlsTarget(), now.Add(100*24*time.Hour), now)
	if out.Status != domain.StatusUp {
		t.Fatalf("want up, got %+v", out)
	}
	if strings.Contains(out.Message, "warning") || strings.Contains(out.Message, "critical") {
		t.Fatalf("want no warning for 100 days, got %q", out.Message)
	}
	if out.LatencyMS == nil || *out.LatencyMS != 100 {
		t.Fatalf("latency should carry days remaining, got %v", out.LatencyMS)
	}
}

func TestTLSChecker_ConnectFailureIsDown(t *testing.T) {
	chk := NewTLSChecker(300 * time.Millisecond)
	chk.Port = "1" // nothing listens there

	out := chk.Check(context.Background(), domain.Target{
		ID: "T1", Kind: domain.KindTLS, Address: "127.0.0.1",
	})
	if out.Status != domain.StatusDown {
		t.Fatalf("want down on connect failure, got %+v", out)
	}
	if out.Message == "" {
		t.Fatalf("want error detail in message")
	}
}
