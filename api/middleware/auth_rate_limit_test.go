package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeRateLimiter struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newFakeRateLimiter() *fakeRateLimiter {
	return &fakeRateLimiter{counts: map[string]int64{}}
}

func (f *fakeRateLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[scope]++
	count := f.counts[scope]
	return count <= limit, count, nil
}

func loginRequest(username string) *http.Request {
	body := `{"username":"` + username + `","password":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.RemoteAddr = "1.2.3.4:5678"
	return req
}

func TestAuthRateLimitPassesBodyThroughUnderLimit(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 2)
	handler := AuthRateLimit(policy, newFakeRateLimiter(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The username check consumes the body; the handler must still be
		// able to read it in full.
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), `"username":"storekeeper"`) {
			t.Fatalf("body not replayable downstream: %s", body)
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("storekeeper"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestAuthRateLimitBlocksRepeatedUsername(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, newFakeRateLimiter(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Username matching is case-insensitive, so mixed-case retries share
	// one counter.
	for _, name := range []string{"Blocked", "blocked"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, loginRequest(name))
		if rec.Code != http.StatusOK {
			t.Fatalf("attempt for %q = %d, want 200", name, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("BLOCKED"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt = %d, want 429", rec.Code)
	}

	var payload struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode 429 body: %v", err)
	}
	if payload.Success || payload.Message == "" {
		t.Fatalf("unexpected 429 payload: %+v", payload)
	}
}

func TestAuthRateLimitBlocksRepeatedIP(t *testing.T) {
	policy := NewAuthRateLimitPolicy("register", time.Minute, 1, 0)
	handler := AuthRateLimit(policy, newFakeRateLimiter(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Different usernames, same IP.
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("first"))
	if rec.Code != http.StatusOK {
		t.Fatalf("first attempt = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("second"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second attempt = %d, want 429", rec.Code)
	}
}

func TestAuthRateLimitDisabledPolicyIsPassthrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 10, 10)
	called := false
	handler := AuthRateLimit(policy, newFakeRateLimiter(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, loginRequest("anyone"))
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("disabled policy should pass through, called=%v status=%d", called, rec.Code)
	}
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "9.9.9.9:1000"
	req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
	if got := clientIP(req); got != "10.0.0.1" {
		t.Fatalf("clientIP = %q, want 10.0.0.1", got)
	}

	req.Header.Del("X-Forwarded-For")
	if got := clientIP(req); got != "9.9.9.9" {
		t.Fatalf("clientIP = %q, want 9.9.9.9", got)
	}
}
