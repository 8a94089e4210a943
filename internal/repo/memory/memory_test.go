package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hamed0406/sentinel/internal/domain"
)

func addOutcome(t *testing.T, s *Store, id domain.TargetID, latency float64, age time.Duration) {
	t.Helper()
	lat := latency
	o := &domain.Outcome{
		TargetID:   id,
		Status:     domain.StatusUp,
		LatencyMS:  &lat,
		ProducedAt: time.Now().UTC().Add(-age),
	}
	if err := s.Append(context.Background(), o); err != nil {
		t.Fatalf("Append: %v", err)
	}
}

func TestStore_AddAssignsIDAndTimestamp(t *testing.T) {
	s := New()
	tgt := &domain.Target{Name: "web", Kind: domain.KindHTTP, Address: "example.com"}
	if err := s.Add(context.Background(), tgt); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if tgt.ID == "" {
		t.Fatalf("want generated ID")
	}
	if tgt.CreatedAt.IsZero() {
		t.Fatalf("want CreatedAt set")
	}

	got, err := s.GetByID(context.Background(), tgt.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil || got.Name != "web" {
		t.Fatalf("GetByID returned %+v", got)
	}

	all, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("want 1 target, got %d", len(all))
	}
}

func TestStore_GetByIDMissing(t *testing.T) {
	s := New()
	got, err := s.GetByID(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got != nil {
		t.Fatalf("want nil for unknown id, got %+v", got)
	}
}

func TestStore_GetByIDReturnsCopy(t *testing.T) {
	s := New()
	tgt := &domain.Target{Name: "web", Kind: domain.KindHTTP, Address: "example.com"}
	if err := s.Add(context.Background(), tgt); err != nil {
		t.Fatalf("Add: %v", err)
	}
	got, _ := s.GetByID(context.Background(), tgt.ID)
	got.Name = "mutated"
	again, _ := s.GetByID(context.Background(), tgt.ID)
	if again.Name != "web" {
		t.Fatalf("caller mutation leaked into store: %+v", again)
	}
}

func TestStore_LastByTarget(t *testing.T) {
	s := New()
	addOutcome(t, s, "A", 10, time.Minute)
	addOutcome(t, s, "B", 20, time.Minute)
	addOutcome(t, s, "A", 30, 0)

	last, err := s.LastByTarget(context.Background(), "A")
	if err != nil {
		t.Fatalf("LastByTarget: %v", err)
	}
	if last == nil || *last.LatencyMS != 30 {
		t.Fatalf("want most recent A outcome, got %+v", last)
	}

	none, err := s.LastByTarget(context.Background(), "C")
	if err != nil {
		t.Fatalf("LastByTarget: %v", err)
	}
	if none != nil {
		t.Fatalf("want nil for no history, got %+v", none)
	}
}

func TestStore_ListByTargetNewestFirstWithLimit(t *testing.T) {
	s := New()
	addOutcome(t, s, "A", 1, 3*time.Minute)
	addOutcome(t, s, "A", 2, 2*time.Minute)
	addOutcome(t, s, "A", 3, time.Minute)
	addOutcome(t, s, "B", 99, 0)

	got, err := s.ListByTarget(context.Background(), "A", 2)
	if err != nil {
		t.Fatalf("ListByTarget: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 outcomes, got %d", len(got))
	}
	if *got[0].LatencyMS != 3 || *got[1].LatencyMS != 2 {
		t.Fatalf("want newest first, got %v then %v", *got[0].LatencyMS, *got[1].LatencyMS)
	}

	all, _ := s.ListByTarget(context.Background(), "A", 0)
	if len(all) != 3 {
		t.Fatalf("limit 0 should return full history, got %d", len(all))
	}
}

func TestStore_AverageLatencyWindow(t *testing.T) {
	s := New()
	addOutcome(t, s, "A", 10, time.Minute)
	addOutcome(t, s, "A", 30, time.Minute)
	addOutcome(t, s, "A", 1000, 48*time.Hour) // outside the window

	// nil latency rows are not part of the average
	if err := s.Append(context.Background(), &domain.Outcome{
		TargetID:   "A",
		Status:     domain.StatusDown,
		ProducedAt: time.Now().UTC(),
	}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	avg, err := s.AverageLatency(context.Background(), "A", 24*time.Hour)
	if err != nil {
		t.Fatalf("AverageLatency: %v", err)
	}
	if avg == nil || *avg != 20 {
		t.Fatalf("want avg 20 over in-window rows, got %v", avg)
	}
}

func TestStore_AverageLatencyNoHistory(t *testing.T) {
	s := New()
	avg, err := s.AverageLatency(context.Background(), "A", time.Hour)
	if err != nil {
		t.Fatalf("AverageLatency: %v", err)
	}
	if avg != nil {
		t.Fatalf("want nil baseline with no history, got %v", *avg)
	}
}
