// Package queue implements the in-process durable job queue backing the
// notification and appointment pipelines. Work is organized into named
// lanes; each lane owns a bounded buffer and a fixed worker pool, so a
// burst on one lane cannot starve another. Delivery is at-least-once
// with exponential backoff retries, therefore handlers must be
// idempotent. A job that exhausts its attempt cap is dropped with an
// error log entry.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"interpreting/internal/pkg/errs"
)

const (
	defaultConcurrency = 4
	defaultMaxAttempts = 5
	defaultBackoff     = 200 * time.Millisecond
	defaultBufferSize  = 1024
)

var (
	// ErrQueueStopped is returned when enqueueing after Shutdown.
	ErrQueueStopped = errors.New("queue manager is stopped")

	// ErrUnknownJob is returned when enqueueing a job name no handler
	// was registered for.
	ErrUnknownJob = errors.New("no handler registered for job")
)

// Lane configures one named work lane.
type Lane struct {
	// Name identifies the lane; job registrations bind to it.
	Name string

	// Concurrency is the worker pool size. Lanes whose jobs must not
	// interleave run at concurrency 1.
	Concurrency int

	// MaxAttempts caps delivery attempts per job before it is dropped.
	MaxAttempts int

	// Backoff is the first retry delay; it doubles per attempt.
	Backoff time.Duration
}

func (l Lane) withDefaults() Lane {
	if l.Concurrency <= 0 {
		l.Concurrency = defaultConcurrency
	}
	if l.MaxAttempts <= 0 {
		l.MaxAttempts = defaultMaxAttempts
	}
	if l.Backoff <= 0 {
		l.Backoff = defaultBackoff
	}
	return l
}

// Handler processes one job payload. Returning an error triggers a
// retry until the lane's attempt cap.
type Handler func(ctx context.Context, payload []byte) error

type job struct {
	name    string
	payload []byte
}

type lane struct {
	config Lane
	jobs   chan job
}

type registration struct {
	lane    *lane
	handler Handler
}

// Manager owns the lanes and routes enqueued jobs to their registered
// handlers. Register all jobs before Start; Enqueue is safe from any
// goroutine between Start and Shutdown.
type Manager struct {
	lanes    map[string]*lane
	handlers map[string]registration
	logger   *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool
}

// NewManager creates a manager over the given lanes. Lane names must be
// unique and non-empty; zero lane settings fall back to defaults.
func NewManager(logger *slog.Logger, lanes ...Lane) (*Manager, error) {
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}
	if len(lanes) == 0 {
		return nil, errs.NewValueIsRequiredError("lanes")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		lanes:    make(map[string]*lane, len(lanes)),
		handlers: make(map[string]registration),
		logger:   logger.With("component", "queue"),
		ctx:      ctx,
		cancel:   cancel,
	}

	for _, config := range lanes {
		if config.Name == "" {
			cancel()
			return nil, errs.NewValueIsRequiredError("lane name")
		}
		if _, exists := m.lanes[config.Name]; exists {
			cancel()
			return nil, errs.NewValueIsInvalidError("lane " + config.Name + " is duplicated")
		}
		m.lanes[config.Name] = &lane{
			config: config.withDefaults(),
			jobs:   make(chan job, defaultBufferSize),
		}
	}

	return m, nil
}

// Register binds a raw handler to a job name on the given lane.
func (m *Manager) Register(jobName, laneName string, handler Handler) error {
	if jobName == "" {
		return errs.NewValueIsRequiredError("job name")
	}
	if handler == nil {
		return errs.NewValueIsRequiredError("handler")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return errors.New("register after start")
	}
	target, ok := m.lanes[laneName]
	if !ok {
		return errs.NewObjectNotFoundError("lane", laneName)
	}
	if _, exists := m.handlers[jobName]; exists {
		return errs.NewValueIsInvalidError("job " + jobName + " is already registered")
	}

	m.handlers[jobName] = registration{lane: target, handler: handler}
	return nil
}

// RegisterJSON binds a typed handler to a job name: payloads are decoded
// from JSON into P before the handler runs. A payload that does not
// decode is dropped immediately, retries cannot fix it.
func RegisterJSON[P any](m *Manager, jobName, laneName string, handler func(ctx context.Context, payload P) error) error {
	if handler == nil {
		return errs.NewValueIsRequiredError("handler")
	}

	return m.Register(jobName, laneName, func(ctx context.Context, raw []byte) error {
		var payload P
		if err := json.Unmarshal(raw, &payload); err != nil {
			m.logger.Error("dropping undecodable job payload",
				"job", jobName, "error", err)
			return nil
		}
		return handler(ctx, payload)
	})
}

// Start launches the worker pools. Must be called exactly once, after
// all registrations.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return errors.New("queue manager already started")
	}
	if m.stopped {
		return ErrQueueStopped
	}
	m.started = true

	for _, l := range m.lanes {
		for i := 0; i < l.config.Concurrency; i++ {
			m.wg.Add(1)
			go m.worker(l)
		}
	}
	return nil
}

// Enqueue serializes the payload to JSON and queues the job on its
// registered lane. Blocks while the lane buffer is full; fails once the
// manager is stopped or the context is done.
func (m *Manager) Enqueue(ctx context.Context, jobName string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal job %s: %w", jobName, err)
	}

	m.mu.RLock()
	reg, ok := m.handlers[jobName]
	stopped := m.stopped
	m.mu.RUnlock()

	if stopped {
		return ErrQueueStopped
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, jobName)
	}

	select {
	case reg.lane.jobs <- job{name: jobName, payload: raw}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-m.ctx.Done():
		return ErrQueueStopped
	}
}

// Shutdown stops intake and waits for in-flight jobs until the context
// expires. Buffered jobs that have not started are abandoned; the queue
// is at-least-once, not exactly-once, and upstream sweeps regenerate
// what matters.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return nil
	}
	m.stopped = true
	m.mu.Unlock()

	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) worker(l *lane) {
	defer m.wg.Done()

	for {
		select {
		case <-m.ctx.Done():
			return
		case j := <-l.jobs:
			m.process(l, j)
		}
	}
}

func (m *Manager) process(l *lane, j job) {
	m.mu.RLock()
	reg, ok := m.handlers[j.name]
	m.mu.RUnlock()
	if !ok {
		return
	}

	backoff := l.config.Backoff
	for attempt := 1; ; attempt++ {
		err := reg.handler(m.ctx, j.payload)
		if err == nil {
			return
		}
		if attempt >= l.config.MaxAttempts {
			m.logger.Error("dropping job after attempt cap",
				"job", j.name, "lane", l.config.Name,
				"attempts", attempt, "error", err)
			return
		}

		m.logger.Warn("job failed, retrying",
			"job", j.name, "lane", l.config.Name,
			"attempt", attempt, "backoff", backoff, "error", err)

		select {
		case <-m.ctx.Done():
			return
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}
