package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		if err != nil {
			t.Fatalf("ParseKind(%q): %v", k, err)
		}
		if got != k {
			t.Fatalf("ParseKind(%q) = %q", k, got)
		}
	}

	if _, err := ParseKind(" HTTP "); err != nil {
		t.Fatalf("expected case/space tolerant parse, got %v", err)
	}
	if _, err := ParseKind("ftp"); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestOutcome_JSONRoundTrip(t *testing.T) {
	lat := 123.45
	want := Outcome{
		TargetID:   TargetID("T1"),
		Status:     StatusUp,
		LatencyMS:  &lat,
		PacketLoss: 0,
		Message:    "200 OK",
		ProducedAt: time.Date(2025, 8, 18, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(want)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Outcome
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if got.TargetID != want.TargetID || got.Status != want.Status ||
		got.Message != want.Message || !got.ProducedAt.Equal(want.ProducedAt) {
		t.Fatalf("mismatch after round-trip:\nwant=%+v\ngot =%+v", want, got)
	}
	if got.LatencyMS == nil || *got.LatencyMS != lat {
		t.Fatalf("latency mismatch: %v", got.LatencyMS)
	}
}

func TestOutcome_NilLatencySurvivesJSON(t *testing.T) {
	b, err := json.Marshal(Outcome{TargetID: "T2", Status: StatusDown, PacketLoss: 100})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got Outcome
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.LatencyMS != nil {
		t.Fatalf("expected nil latency, got %v", *got.LatencyMS)
	}
}
