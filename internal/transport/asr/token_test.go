package asr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestCachedTokenSourceFetchesAndCaches(t *testing.T) {
	t.Parallel()

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"abc123"}`))
	}))
	defer server.Close()

	src := NewCachedTokenSource(server.URL)

	token, err := src.Token(context.Background())
	if err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	if token != "abc123" {
		t.Fatalf("unexpected token: %q", token)
	}

	if _, err := src.Token(context.Background()); err != nil {
		t.Fatalf("second Token call failed: %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Fatalf("expected cached token to avoid a second fetch, got %d calls", calls)
	}
}

func TestCachedTokenSourceRejectsEmptyToken(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"token":""}`))
	}))
	defer server.Close()

	src := NewCachedTokenSource(server.URL)
	if _, err := src.Token(context.Background()); err == nil {
		t.Fatalf("expected error for empty token")
	}
}

func TestCachedTokenSourceRejectsNonOKStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	src := NewCachedTokenSource(server.URL)
	if _, err := src.Token(context.Background()); err == nil {
		t.Fatalf("expected error for non-200 response")
	}
}

func TestCachedTokenSourceRequiresBaseURL(t *testing.T) {
	t.Parallel()

	src := NewCachedTokenSource("")
	if _, err := src.Token(context.Background()); err == nil {
		t.Fatalf("expected error for missing base URL")
	}
}
