// Package router maps orchestration lifecycle callbacks onto the delivery
// pipeline: filter, metadata assembly, line formatting, ingestion.
package router

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/logdna/ansible-logdna/internal/filter"
	"github.com/logdna/ansible-logdna/internal/format"
	"github.com/logdna/ansible-logdna/internal/ingest"
	"github.com/logdna/ansible-logdna/internal/meta"
	"github.com/logdna/ansible-logdna/internal/model"
)

// Settings wires a Router. Client may be nil, which disables delivery
// while keeping the callbacks safe to invoke.
type Settings struct {
	Session       *model.Session
	Filter        *filter.Filter
	Meta          *meta.Builder
	Client        *ingest.Client
	AppName       string
	Template      string // empty selects format.DefaultTemplate
	Hostname      string // override; empty means the session hostname
	UseTargetHost bool
	DisableLevels bool
	IP            string // empty omits the field from outbound records
	MAC           string
	Now           func() time.Time // nil means time.Now
}

// Router tracks per-task start times and ships each terminal task result.
// The orchestration engine delivers callbacks sequentially, so Router does
// no locking; guard it externally before driving it from multiple
// goroutines.
type Router struct {
	settings Settings
	template string
	now      func() time.Time

	// starts maps task UUID to start time. Entries are written once and
	// never evicted; the map grows for the life of the process, matching
	// the upstream callback's behavior.
	starts map[string]time.Time
}

// New creates a Router from the given settings.
func New(s Settings) *Router {
	tmpl := s.Template
	if tmpl == "" {
		tmpl = format.DefaultTemplate
	}
	now := s.Now
	if now == nil {
		now = time.Now
	}
	return &Router{
		settings: s,
		template: tmpl,
		now:      now,
		starts:   make(map[string]time.Time),
	}
}

// PlaybookStart records the playbook name on the session. Called again
// for subsequent playbooks in the same process, it replaces the value.
func (r *Router) PlaybookStart(path string) {
	if path == "" {
		return
	}
	r.settings.Session.Playbook = filepath.Base(path)
}

// TaskStart records the start time for a task. Also used for handler
// tasks; overwriting an existing entry is permitted.
func (r *Router) TaskStart(uuid string) {
	r.starts[uuid] = r.now()
}

// TaskResult runs the pipeline for one terminal task outcome. It returns
// a *format.FormatError for a bad template and a delivery error for a
// failed POST; suppressed and disabled events return nil without any
// network activity.
func (r *Router) TaskResult(ctx context.Context, ev model.Event) error {
	if r.settings.Client == nil {
		return nil
	}
	if r.settings.Filter.Suppress(ev.Action(), ev.Role, r.settings.Session.Playbook, ev.Status) {
		return nil
	}

	now := r.now()

	var execSeconds float64
	if start, ok := r.starts[ev.UUID]; ok {
		execSeconds = now.Sub(start).Seconds()
	} else {
		slog.Warn("task result without recorded start time", "uuid", ev.UUID)
	}

	m := r.settings.Meta.Build(ev, execSeconds)

	line, err := format.Render(r.template, format.Fields{
		Action:   metaString(taskField(m, "action")),
		Changed:  metaString(m["ansible_changed"]),
		Host:     metaString(m["ansible_host"]),
		Playbook: metaString(m["ansible_playbook"]),
		Role:     metaString(m["ansible_role"]),
		Status:   metaString(m["ansible_status"]),
		Name:     ev.Name(),
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	rec := model.Line{
		App:       r.settings.AppName,
		IP:        r.settings.IP,
		Line:      line,
		MAC:       r.settings.MAC,
		Meta:      m,
		Timestamp: meta.Timestamp(ev.Result, now),
	}
	if !r.settings.DisableLevels {
		rec.Level = ev.Status.Level()
	}

	return r.settings.Client.Send(ctx, r.hostnameFor(ev), now, rec)
}

// hostnameFor picks the hostname query parameter for one event: the
// per-event target host when configured, else the static override, else
// the cached local hostname.
func (r *Router) hostnameFor(ev model.Event) string {
	if r.settings.UseTargetHost && ev.Host != "" {
		return ev.Host
	}
	if r.settings.Hostname != "" {
		return r.settings.Hostname
	}
	return r.settings.Session.Hostname
}

// taskField reads one field of the pruned task mapping.
func taskField(m map[string]any, key string) any {
	task, ok := m["ansible_task"].(map[string]any)
	if !ok {
		return nil
	}
	return task[key]
}

// metaString renders a metadata value for template substitution. Absent
// values render as empty, booleans as true/false.
func metaString(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
