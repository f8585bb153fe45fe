package slack

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func TestNotify_PostsBlocks(t *testing.T) {
	t.Parallel()

	var got atomic.Pointer[string]
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s := string(body)
		got.Store(&s)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := New(srv.URL, nil)
	n.Notify(context.Background(), "Critical Safety auto-dismissed.")

	body := got.Load()
	if body == nil {
		t.Fatal("webhook not called")
	}

	var msg map[string]any
	if err := json.Unmarshal([]byte(*body), &msg); err != nil {
		t.Fatalf("unmarshal webhook body: %v", err)
	}
	blocks, ok := msg["blocks"].([]any)
	if !ok || len(blocks) != 2 {
		t.Fatalf("blocks = %v, want 2 blocks", msg["blocks"])
	}
	if !strings.Contains(*body, "Critical Safety auto-dismissed.") {
		t.Error("notice text missing from payload")
	}
	if !strings.Contains(*body, "opsdeck") {
		t.Error("context footer missing from payload")
	}
}

func TestNotify_NoopWithoutWebhook(t *testing.T) {
	t.Parallel()

	n := New("", nil)
	// must not panic or block
	n.Notify(context.Background(), "ignored")
}

func TestNotify_SwallowsServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := New(srv.URL, nil)
	// errors are logged, not returned or panicked
	n.Notify(context.Background(), "still fine")
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", maxTextLen+100)
	got := truncate(long, maxTextLen)
	if len(got) != maxTextLen {
		t.Errorf("len = %d, want %d", len(got), maxTextLen)
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("expected ellipsis suffix")
	}
	if truncate("short", maxTextLen) != "short" {
		t.Error("short strings must pass through")
	}
}
