// Package meta assembles the sanitized metadata mapping attached to each
// shipped log line.
package meta

import (
	"time"

	"github.com/logdna/ansible-logdna/internal/model"
)

// Builder assembles outbound metadata for events of one session. It
// updates the session's sticky check-mode and engine-version flags as a
// side effect of building.
type Builder struct {
	session *model.Session
}

// NewBuilder returns a Builder bound to the given session.
func NewBuilder(s *model.Session) *Builder {
	return &Builder{session: s}
}

// Build produces the metadata mapping for one event. execSeconds is the
// elapsed execution time computed by the caller. The result is recursively
// pruned of empty values.
func (b *Builder) Build(ev model.Event, execSeconds float64) map[string]any {
	args := ev.Args()
	if v, ok := args["_ansible_check_mode"].(bool); ok && v {
		b.session.CheckMode = true
	}
	if v, ok := args["_ansible_version"].(string); ok && v != "" {
		b.session.Version = v
	}

	m := map[string]any{
		"ansible_changed":        ev.Result["changed"],
		"ansible_check_mode":     b.session.CheckMode,
		"ansible_host":           ev.Host,
		"ansible_playbook":       b.session.Playbook,
		"ansible_result":         ev.Result,
		"ansible_role":           ev.Role,
		"ansible_session":        b.session.ID,
		"ansible_status":         string(ev.Status),
		"ansible_task":           ev.TaskFields,
		"ansible_version":        b.session.Version,
		"ansible_execution_time": execSeconds,
		"system_host":            b.session.Hostname,
		"system_ip":              b.session.IP,
		"system_user":            b.session.User,
		"uuid":                   ev.UUID,
	}

	pruned, _ := Prune(m).(map[string]any)
	return pruned
}

// Timestamp returns the target-reported ISO-8601 time from the result's
// gathered facts when present, otherwise now rendered as UTC ISO-8601.
func Timestamp(result map[string]any, now time.Time) string {
	if facts, ok := result["ansible_facts"].(map[string]any); ok {
		if dt, ok := facts["ansible_date_time"].(map[string]any); ok {
			if iso, ok := dt["iso8601"].(string); ok && iso != "" {
				return iso
			}
		}
	}
	return now.UTC().Format("2006-01-02T15:04:05Z")
}

// Prune returns a copy of v with empty values removed at every depth.
// Empty means nil, empty string, false, numeric zero, or an empty mapping
// or sequence; a mapping or sequence that becomes empty after pruning is
// itself removed. Pruning is idempotent. Scalars pass through unchanged.
func Prune(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			p := Prune(val)
			if !isEmpty(p) {
				out[k] = p
			}
		}
		return out
	case []any:
		out := make([]any, 0, len(t))
		for _, val := range t {
			p := Prune(val)
			if !isEmpty(p) {
				out = append(out, p)
			}
		}
		return out
	default:
		return v
	}
}

func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	}
	return false
}
