package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(nil)
	err := n.Notify(context.Background(), Event{
		Type:     EventImageProcessed,
		Message:  "processed",
		Severity: SeverityInfo,
	})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}
}

func TestWebhookNotifier(t *testing.T) {
	var received Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &received); err != nil {
			t.Errorf("unmarshal: %v", err)
		}
		if got := r.Header.Get("X-Token"); got != "secret" {
			t.Errorf("X-Token = %q, want %q", got, "secret")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, map[string]string{"X-Token": "secret"})
	event := Event{
		Type:      EventBatchCompleted,
		BatchID:   "batch-1",
		Message:   "done",
		Severity:  SeverityInfo,
		Timestamp: time.Now(),
	}
	if err := n.Notify(context.Background(), event); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if received.Type != EventBatchCompleted || received.BatchID != "batch-1" {
		t.Errorf("received = %+v", received)
	}
}

func TestWebhookNotifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, nil)
	if err := n.Notify(context.Background(), Event{Type: EventBatchFailed}); err == nil {
		t.Error("5xx response should be an error")
	}
}

type failingNotifier struct{ calls int }

func (f *failingNotifier) Notify(ctx context.Context, event Event) error {
	f.calls++
	return errors.New("boom")
}

func TestMultiNotifierContinuesPastFailures(t *testing.T) {
	a := &failingNotifier{}
	b := &failingNotifier{}

	n := NewMultiNotifier(a, b)
	if err := n.Notify(context.Background(), Event{Type: EventImageFailed}); err != nil {
		t.Fatalf("Notify: %v", err)
	}
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls = %d, %d; want 1, 1", a.calls, b.calls)
	}
}

func TestNotifierContext(t *testing.T) {
	ctx := context.Background()
	if got := NotifierFromContext(ctx); got != nil {
		t.Errorf("empty context should have no notifier, got %T", got)
	}

	n := NopNotifier{}
	ctx = WithNotifier(ctx, n)
	if got := NotifierFromContext(ctx); got != n {
		t.Errorf("NotifierFromContext = %v, want the injected notifier", got)
	}
}
