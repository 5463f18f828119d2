// Package stream consumes ansible-runner style JSONL job events and
// drives the router. Each line is one event envelope:
//
//	{"uuid": "...", "event": "runner_on_ok", "event_data": {...}}
//
// Unknown event types are skipped after a cheap sniff of the event field,
// without paying for a full decode.
package stream

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	json "github.com/goccy/go-json"
	"github.com/valyala/fastjson"

	"github.com/logdna/ansible-logdna/internal/format"
	"github.com/logdna/ansible-logdna/internal/model"
	"github.com/logdna/ansible-logdna/internal/router"
)

// maxLineSize bounds a single event line. Result payloads routinely carry
// gathered facts, so the limit is generous.
const maxLineSize = 4 << 20

var statusByEvent = map[string]model.Status{
	"runner_on_ok":          model.StatusOK,
	"runner_on_failed":      model.StatusFailed,
	"runner_on_skipped":     model.StatusSkipped,
	"runner_on_unreachable": model.StatusUnreachable,
}

// jobEvent is the envelope emitted per event by the runner.
type jobEvent struct {
	UUID      string    `json:"uuid"`
	Event     string    `json:"event"`
	EventData eventData `json:"event_data"`
}

type eventData struct {
	Playbook   string         `json:"playbook"`
	Play       string         `json:"play"`
	Task       string         `json:"task"`
	TaskUUID   string         `json:"task_uuid"`
	TaskAction string         `json:"task_action"`
	TaskArgs   map[string]any `json:"task_args"`
	Role       string         `json:"role"`
	Host       string         `json:"host"`
	Result     map[string]any `json:"res"`
}

// Reader feeds decoded job events into a Router.
type Reader struct {
	src     io.Reader
	router  *router.Router
	parsers fastjson.ParserPool
}

// New creates a Reader over src.
func New(src io.Reader, rt *router.Router) *Reader {
	return &Reader{src: src, router: rt}
}

// Run reads events until src is exhausted or ctx is cancelled. Delivery
// failures are logged and skipped: log shipping is best-effort relative
// to the run producing the events. A template error aborts immediately
// since every subsequent event would fail the same way.
func (r *Reader) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(r.src)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		eventType, ok := r.sniffEvent(line)
		if !ok {
			slog.Debug("skipping undecodable line")
			continue
		}

		if err := r.dispatch(ctx, eventType, line); err != nil {
			var fe *format.FormatError
			if errors.As(err, &fe) {
				return err
			}
			slog.Error("delivery failed", "event", eventType, "error", err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stream: %w", err)
	}
	return nil
}

// sniffEvent extracts the event type without a full decode.
func (r *Reader) sniffEvent(line []byte) (string, bool) {
	p := r.parsers.Get()
	defer r.parsers.Put(p)

	v, err := p.ParseBytes(line)
	if err != nil {
		return "", false
	}
	return string(v.GetStringBytes("event")), true
}

func (r *Reader) dispatch(ctx context.Context, eventType string, line []byte) error {
	status, terminal := statusByEvent[eventType]

	switch {
	case eventType == "playbook_on_start":
		var ev jobEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("stream: decode %s: %w", eventType, err)
		}
		r.router.PlaybookStart(ev.EventData.Playbook)

	case eventType == "playbook_on_task_start" || eventType == "playbook_on_handler_task_start":
		var ev jobEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("stream: decode %s: %w", eventType, err)
		}
		r.router.TaskStart(taskUUID(ev))

	case terminal:
		var ev jobEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return fmt.Errorf("stream: decode %s: %w", eventType, err)
		}
		return r.router.TaskResult(ctx, model.Event{
			Status: status,
			UUID:   taskUUID(ev),
			Host:   ev.EventData.Host,
			Role:   ev.EventData.Role,
			TaskFields: map[string]any{
				"action": ev.EventData.TaskAction,
				"name":   ev.EventData.Task,
				"args":   ev.EventData.TaskArgs,
			},
			Result: ev.EventData.Result,
		})
	}
	// Other event types (play starts, stats, verbose output) are not ours.
	return nil
}

// taskUUID prefers the event_data task UUID; some runner versions only
// set the envelope UUID.
func taskUUID(ev jobEvent) string {
	if ev.EventData.TaskUUID != "" {
		return ev.EventData.TaskUUID
	}
	return ev.UUID
}
