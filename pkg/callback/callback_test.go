package callback

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/logdna/ansible-logdna/internal/model"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOGDNA_APPNAME", "LOGDNA_ENDPOINT", "LOGDNA_HOST", "LOGDNA_TIMEOUT",
		"LOGDNA_INGESTION_KEY", "LOGDNA_DISABLE_LOGLEVELS", "LOGDNA_HOSTNAME",
		"LOGDNA_USE_TARGET_HOST_FOR_HOSTNAME", "LOGDNA_IGNORE_STATUS_NAMES",
		"LOGDNA_IGNORE_ACTION_NAMES", "LOGDNA_IGNORE_ROLE_NAMES",
		"LOGDNA_IGNORE_PLAY_NAMES", "LOGDNA_IP_ADDRESS", "LOGDNA_MAC_ADDRESS",
		"LOGDNA_TAGS", "LOGDNA_LOG_FORMAT", "LOGDNA_GZIP", "LOGDNA_LOG_LEVEL",
		"LOGDNA_CONFIG_FILE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func okResult() TaskResult {
	return TaskResult{
		UUID: "task-1",
		Host: "web01",
		Role: "nginx",
		TaskFields: map[string]any{
			"action": "shell",
			"name":   "Install nginx",
		},
		Result: map[string]any{"changed": true},
	}
}

func TestCallbackEndToEnd(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGDNA_INGESTION_KEY", "key-123")

	var (
		requests int
		body     []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cb, err := New(
		WithBaseURL(srv.URL+"/logs/ingest"),
		WithClock(func() time.Time { return clock }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if cb.Disabled() {
		t.Fatal("callback with ingestion key must not be disabled")
	}

	cb.PlaybookStart("site.yml")
	cb.TaskStart("task-1")
	if err := cb.RunnerOK(context.Background(), okResult()); err != nil {
		t.Fatalf("RunnerOK: %v", err)
	}

	if requests != 1 {
		t.Fatalf("requests = %d, want 1", requests)
	}

	var p model.Payload
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("bad payload: %v", err)
	}
	want := "status=OK action=shell changed=true play=site.yml role=nginx host=web01 name=Install nginx"
	if p.Lines[0].Line != want {
		t.Errorf("line = %q\nwant %q", p.Lines[0].Line, want)
	}
}

func TestCallbackDisabledWithoutKey(t *testing.T) {
	clearEnv(t)

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	cb, err := New(WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !cb.Disabled() {
		t.Fatal("callback without ingestion key must report disabled")
	}

	cb.PlaybookStart("site.yml")
	cb.TaskStart("task-1")
	for _, hook := range []func(context.Context, TaskResult) error{
		cb.RunnerOK, cb.RunnerFailed, cb.RunnerSkipped, cb.RunnerUnreachable,
	} {
		if err := hook(context.Background(), okResult()); err != nil {
			t.Fatalf("disabled hook returned %v", err)
		}
	}
	if requests != 0 {
		t.Errorf("requests = %d, disabled callback must never POST", requests)
	}
}

func TestCallbackStatuses(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGDNA_INGESTION_KEY", "key-123")

	var bodies [][]byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		bodies = append(bodies, body)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	cb, err := New(WithBaseURL(srv.URL + "/logs/ingest"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	cb.TaskStart("task-1")
	hooks := []struct {
		call  func(context.Context, TaskResult) error
		level string
	}{
		{cb.RunnerOK, "INFO"},
		{cb.RunnerFailed, "ERROR"},
		{cb.RunnerSkipped, "WARN"},
		{cb.RunnerUnreachable, "WARN"},
	}
	for _, h := range hooks {
		if err := h.call(ctx, okResult()); err != nil {
			t.Fatalf("hook: %v", err)
		}
	}

	if len(bodies) != len(hooks) {
		t.Fatalf("requests = %d, want %d", len(bodies), len(hooks))
	}
	for i, h := range hooks {
		var p model.Payload
		if err := json.Unmarshal(bodies[i], &p); err != nil {
			t.Fatalf("bad payload: %v", err)
		}
		if p.Lines[0].Level != h.level {
			t.Errorf("hook %d level = %q, want %q", i, p.Lines[0].Level, h.level)
		}
	}
}

func TestCallbackIgnoreListSuppresses(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGDNA_INGESTION_KEY", "key-123")
	t.Setenv("LOGDNA_IGNORE_ACTION_NAMES", "shell")

	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer srv.Close()

	cb, err := New(WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cb.TaskStart("task-1")
	if err := cb.RunnerOK(context.Background(), okResult()); err != nil {
		t.Fatalf("RunnerOK: %v", err)
	}
	if requests != 0 {
		t.Errorf("requests = %d, ignored action must be suppressed", requests)
	}
}

func TestCallbackMACDisabledSentinel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOGDNA_INGESTION_KEY", "key-123")
	t.Setenv("LOGDNA_MAC_ADDRESS", "disabled")

	var body []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.WriteHeader(200)
	}))
	defer srv.Close()

	cb, err := New(WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cb.TaskStart("task-1")
	if err := cb.RunnerOK(context.Background(), okResult()); err != nil {
		t.Fatalf("RunnerOK: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(body, &decoded); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	lines := decoded["lines"].([]any)
	line := lines[0].(map[string]any)
	if _, ok := line["mac"]; ok {
		t.Error("mac key must be absent when the override is the disable sentinel")
	}
}
