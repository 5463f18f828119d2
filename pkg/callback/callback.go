package callback

import (
	"context"
	"fmt"
	"time"

	"github.com/logdna/ansible-logdna/internal/config"
	"github.com/logdna/ansible-logdna/internal/model"
	"github.com/logdna/ansible-logdna/internal/router"
)

// TaskResult is a single task outcome handed to the terminal hooks.
// TaskFields and Result may carry arbitrary nested structure; the adapter
// never assumes a schema for either.
type TaskResult struct {
	UUID       string
	Host       string
	Role       string
	TaskFields map[string]any
	Result     map[string]any
}

type options struct {
	baseURL string
	now     func() time.Time
}

// Option configures a Callback.
type Option func(*options)

// WithBaseURL overrides the ingestion URL assembled from the configured
// host and endpoint. Intended for tests and on-prem ingestion gateways.
func WithBaseURL(u string) Option {
	return func(o *options) { o.baseURL = u }
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Callback ships task results to the LogDNA ingestion API. Create one per
// process with New and drive it from the orchestration engine's lifecycle
// hooks. Hooks must be invoked sequentially.
type Callback struct {
	router   *router.Router
	disabled bool
}

// New builds a fully wired Callback from the LOGDNA_* environment (and
// optional config file). Host identity is probed once here. When no
// ingestion key is configured the callback disables itself, warns once,
// and every hook becomes a no-op; the host process keeps running.
func New(opts ...Option) (*Callback, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("callback: %w", err)
	}

	return &Callback{
		router:   router.NewFromConfig(cfg, o.baseURL, o.now),
		disabled: cfg.Disabled(),
	}, nil
}

// Disabled reports whether delivery is switched off for lack of an
// ingestion key.
func (c *Callback) Disabled() bool { return c.disabled }

// PlaybookStart records the playbook now running. Subsequent calls within
// the same process replace the value.
func (c *Callback) PlaybookStart(path string) {
	c.router.PlaybookStart(path)
}

// TaskStart records the start time for a task.
func (c *Callback) TaskStart(taskUUID string) {
	c.router.TaskStart(taskUUID)
}

// HandlerTaskStart records the start time for a handler task.
func (c *Callback) HandlerTaskStart(taskUUID string) {
	c.router.TaskStart(taskUUID)
}

// RunnerOK ships a successful task result.
func (c *Callback) RunnerOK(ctx context.Context, res TaskResult) error {
	return c.result(ctx, model.StatusOK, res)
}

// RunnerFailed ships a failed task result.
func (c *Callback) RunnerFailed(ctx context.Context, res TaskResult) error {
	return c.result(ctx, model.StatusFailed, res)
}

// RunnerSkipped ships a skipped task result.
func (c *Callback) RunnerSkipped(ctx context.Context, res TaskResult) error {
	return c.result(ctx, model.StatusSkipped, res)
}

// RunnerUnreachable ships an unreachable-host task result.
func (c *Callback) RunnerUnreachable(ctx context.Context, res TaskResult) error {
	return c.result(ctx, model.StatusUnreachable, res)
}

func (c *Callback) result(ctx context.Context, status model.Status, res TaskResult) error {
	return c.router.TaskResult(ctx, model.Event{
		Status:     status,
		UUID:       res.UUID,
		Host:       res.Host,
		Role:       res.Role,
		TaskFields: res.TaskFields,
		Result:     res.Result,
	})
}
