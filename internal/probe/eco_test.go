package probe

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
)

func TestEcoChecker_SmallCompressedPageScoresHigh(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		_, _ = w.Write([]byte("tiny"))
	}))
	defer s.Close()

	chk := NewEcoChecker(2 * time.Second)
	out := chk.Check(context.Background(), domain.Target{ID: "T1", Kind: domain.KindEcoAudit, Address: s.URL})
	if out.Status != domain.StatusUp {
		t.Fatalf("eco audit is advisory, want up, got %+v", out)
	}
	if !strings.Contains(out.Message, "Score:100") {
		t.Fatalf("want perfect score, got %q", out.Message)
	}
	if !strings.Contains(out.Message, "Comp:gzip") {
		t.Fatalf("want compression reported, got %q", out.Message)
	}
	if !strings.Contains(out.Message, "eco-friendly") {
		t.Fatalf("want eco-friendly advice, got %q", out.Message)
	}
}

func TestEcoChecker_HeavyUncompressedPageScoresLow(t *testing.T) {
	heavy := bytes.Repeat([]byte("x"), 2100*1024) // just over 2 MB
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(heavy)
	}))
	defer s.Close()

	chk := NewEcoChecker(10 * time.Second)
	out := chk.Check(context.Background(), domain.Target{ID: "T1", Kind: domain.KindEcoAudit, Address: s.URL})
	if out.Status != domain.StatusUp {
		t.Fatalf("want up, got %+v", out)
	}
	// 100 - 30 (size) - 20 (uncompressed) = 50, minus 10 more if slow.
	if !strings.Contains(out.Message, "Score:50") && !strings.Contains(out.Message, "Score:40") {
		t.Fatalf("want degraded score, got %q", out.Message)
	}
	if !strings.Contains(out.Message, "Comp:none") {
		t.Fatalf("want no compression reported, got %q", out.Message)
	}
}

func TestEcoChecker_NetworkFailureIsDown(t *testing.T) {
	chk := NewEcoChecker(300 * time.Millisecond)
	out := chk.Check(context.Background(), domain.Target{
		ID: "T1", Kind: domain.KindEcoAudit, Address: "http://127.0.0.1:1",
	})
	if out.Status != domain.StatusDown {
		t.Fatalf("want down on network failure, got %+v", out)
	}
	if !strings.Contains(out.Message, "eco audit failed") {
		t.Fatalf("unexpected message: %q", out.Message)
	}
}
