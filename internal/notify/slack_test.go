package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSlack_OK(t *testing.T) {
	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		got = payload["text"]
		w.WriteHeader(200)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	if s == nil {
		t.Fatal("expected slack client")
	}
	err := s.Send(context.Background(), "Title", "Hello")
	if err != nil {
		t.Fatalf("send err: %v", err)
	}
	if got == "" || got[0] != '*' { // starts with "*Title*"
		t.Fatalf("payload not as expected: %q", got)
	}
}

func TestSlack_Non2xx(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer ts.Close()

	s := NewSlack(ts.URL)
	err := s.Send(context.Background(), "X", "Y")
	if err == nil {
		t.Fatalf("expected error on non-2xx")
	}
}

func TestSlack_EmptyWebhookDisabled(t *testing.T) {
	if s := NewSlack(""); s != nil {
		t.Fatalf("empty webhook should disable slack, got %+v", s)
	}
}

func TestMulti_FirstErrorWinsButAllSend(t *testing.T) {
	var calls int
	ok := notifierFunc(func(ctx context.Context, title, text string) error {
		calls++
		return nil
	})
	bad := notifierFunc(func(ctx context.Context, title, text string) error {
		calls++
		return errors.New("boom")
	})

	m := Multi{bad, ok, nil}
	err := m.Send(context.Background(), "t", "x")
	if err == nil || err.Error() != "boom" {
		t.Fatalf("want first error, got %v", err)
	}
	if calls != 2 {
		t.Fatalf("all non-nil notifiers must be tried, got %d calls", calls)
	}
}

type notifierFunc func(ctx context.Context, title, text string) error

func (f notifierFunc) Send(ctx context.Context, title, text string) error {
	return f(ctx, title, text)
}
