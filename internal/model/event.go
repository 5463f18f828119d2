package model

// Status is the terminal outcome of a task run as reported by the
// orchestration engine.
type Status string

const (
	StatusOK          Status = "OK"
	StatusFailed      Status = "FAILED"
	StatusSkipped     Status = "SKIPPED"
	StatusUnreachable Status = "UNREACHABLE"
)

// Level maps a status to the ingestion log level.
func (s Status) Level() string {
	switch s {
	case StatusOK:
		return "INFO"
	case StatusSkipped, StatusUnreachable:
		return "WARN"
	case StatusFailed:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is a single task result. TaskFields and Result carry whatever
// nested structure the orchestration engine produced; neither shape is
// under this adapter's control.
type Event struct {
	Status     Status
	UUID       string         // unique task identifier
	Host       string         // target host the action ran against
	Role       string         // role the task belongs to, empty if none
	TaskFields map[string]any // full task-field mapping (name, action, args, ...)
	Result     map[string]any // raw result payload
}

// Action returns the task action name, if present.
func (e Event) Action() string {
	v, _ := e.TaskFields["action"].(string)
	return v
}

// Name returns the task name, if present.
func (e Event) Name() string {
	v, _ := e.TaskFields["name"].(string)
	return v
}

// Args returns the task argument mapping, if present.
func (e Event) Args() map[string]any {
	v, _ := e.TaskFields["args"].(map[string]any)
	return v
}
