package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestPresentedKey(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer abc123")
	if got := presentedKey(r); got != "abc123" {
		t.Fatalf("bearer key = %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-API-Key", "xyz")
	if got := presentedKey(r); got != "xyz" {
		t.Fatalf("header key = %q", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	if got := presentedKey(r); got != "" {
		t.Fatalf("empty request key = %q", got)
	}
}

func TestRequireAny_DisabledWhenNoKeys(t *testing.T) {
	h := RequireAny(Keys{})(okHandler())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("no keys configured should pass through, got %d", rec.Code)
	}
}

func TestRequireAny_AcceptsPublicAndAdmin(t *testing.T) {
	keys := Keys{Public: []string{"p"}, Admin: []string{"a"}}
	h := RequireAny(keys)(okHandler())

	for _, key := range []string{"p", "a"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-API-Key", key)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("key %q: want 200, got %d", key, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "wrong")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong key: want 401, got %d", rec.Code)
	}
}

func TestRequireAdmin_RejectsPublicKey(t *testing.T) {
	keys := Keys{Public: []string{"p"}, Admin: []string{"a"}}
	h := RequireAdmin(keys)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "p")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("public key on admin route: want 403, got %d", rec.Code)
	}

	req.Header.Set("X-API-Key", "a")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin key: want 200, got %d", rec.Code)
	}
}

func TestRateLimit_BurstThenDeny(t *testing.T) {
	h := RateLimit(60, 3)(okHandler())

	var denied int
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusTooManyRequests {
			denied++
		}
	}
	if denied == 0 {
		t.Fatalf("burst of 3 should deny some of 5 rapid requests")
	}
}

func TestRateLimit_SeparateBucketsPerClient(t *testing.T) {
	h := RateLimit(60, 1)(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	if rec.Code != http.StatusOK {
		t.Fatalf("first client first request: want 200, got %d", rec.Code)
	}

	// a different key gets its own bucket even from the same address
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.1:1234"
	second.Header.Set("X-API-Key", "other")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, second)
	if rec.Code != http.StatusOK {
		t.Fatalf("distinct key should not share the exhausted bucket, got %d", rec.Code)
	}
}
