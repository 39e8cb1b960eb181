// Package engine executes an ordered sequence of task handles.
//
// The Engine is the execution collaborator of a network: it receives task
// handles already linearized by the network's sequencer and runs them one
// after another. Each task sees the outputs of every task executed before it.
//
// # Events
//
// Every run records run.started, task.started, task.completed or
// task.failed and run.completed events on its session. Agents add
// model.call, tool.call and tool.response events in between. Task outputs
// are written to session state under "task:<name>:output".
//
// # Failures
//
// The first failing task stops the run. Run returns the outputs produced so
// far together with a *TaskError naming the task. Nothing is retried.
//
// # Concurrency
//
// Tasks of one run never overlap. Independent runs may execute
// concurrently up to Config.MaxConcurrentRuns; each run owns its own
// RunContext, session and model call budget.
package engine

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/hupe1980/agentnet/core"
	"github.com/hupe1980/agentnet/logging"
	"github.com/hupe1980/agentnet/session"
)

// Config holds operational limits.
type Config struct {
	// MaxConcurrentRuns bounds runs executing at the same time. 0 means
	// unlimited.
	MaxConcurrentRuns int
	// MaxModelCalls bounds model calls per run. 0 means unlimited.
	MaxModelCalls int
	// TaskTimeout bounds a single task. 0 disables the timeout.
	TaskTimeout time.Duration
}

// DefaultConfig provides the default limits.
var DefaultConfig = Config{
	MaxConcurrentRuns: 10,
}

// Options configures an Engine.
type Options struct {
	Config Config

	// SessionStore records the events of every run. Defaults to an
	// in-memory store.
	SessionStore core.SessionStore

	// Callbacks are invoked at run and task lifecycle points.
	Callbacks *CallbackManager

	Logger logging.Logger
}

// Request describes one run.
type Request struct {
	// RunID identifies the run; generated when empty.
	RunID     string
	NetworkID string
	// Tasks are executed in the given order.
	Tasks []core.Task
}

// Result is the outcome of a run.
type Result struct {
	RunID    string
	Outputs  []core.TaskOutput
	Started  time.Time
	Finished time.Time
}

// Duration returns the wall time of the run.
func (r *Result) Duration() time.Duration { return r.Finished.Sub(r.Started) }

// TaskError reports the task that stopped a run.
type TaskError struct {
	Task  string
	Agent string
	Err   error
}

func (e *TaskError) Error() string {
	return fmt.Sprintf("task %s (agent %s) failed: %v", e.Task, e.Agent, e.Err)
}

func (e *TaskError) Unwrap() error { return e.Err }

// Engine runs ordered task sequences.
type Engine struct {
	config       Config
	sessionStore core.SessionStore
	callbacks    *CallbackManager
	logger       logging.Logger

	sem chan struct{}

	activeMu sync.Mutex
	active   map[string]context.CancelFunc
}

// New creates an Engine.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config:       DefaultConfig,
		SessionStore: session.NewInMemoryStore(),
		Logger:       logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	var sem chan struct{}
	if opts.Config.MaxConcurrentRuns > 0 {
		sem = make(chan struct{}, opts.Config.MaxConcurrentRuns)
	}

	return &Engine{
		config:       opts.Config,
		sessionStore: opts.SessionStore,
		callbacks:    opts.Callbacks,
		logger:       opts.Logger,
		sem:          sem,
		active:       make(map[string]context.CancelFunc),
	}
}

// SessionStore returns the store receiving run events.
func (e *Engine) SessionStore() core.SessionStore { return e.sessionStore }

// Run executes req.Tasks in order and blocks until the run finished, failed
// or ctx was cancelled.
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if err := validate(req.Tasks); err != nil {
		return nil, err
	}

	if err := e.acquire(ctx); err != nil {
		return nil, err
	}
	defer e.release()

	runID := req.RunID
	if runID == "" {
		runID = core.NewID()
	}

	runCtxBase, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := e.track(runID, cancel); err != nil {
		return nil, err
	}
	defer e.untrack(runID)

	runCtx, err := core.NewRunContext(runCtxBase, runID, func(o *core.RunOptions) {
		o.NetworkID = req.NetworkID
		o.SessionStore = e.sessionStore
		o.MaxModelCalls = e.config.MaxModelCalls
		o.Logger = e.logger
	})
	if err != nil {
		return nil, err
	}

	res := &Result{RunID: runCtx.RunID, Started: time.Now()}

	start := core.NewEvent(runCtx.RunID, core.EventRunStarted, "engine")
	start.StateDelta = map[string]any{
		"run:network_id": req.NetworkID,
		"run:tasks":      taskNames(req.Tasks),
	}
	e.emit(runCtx, start)

	e.logger.Info("engine.run.start", "run_id", runCtx.RunID, "network_id", req.NetworkID, "tasks", len(req.Tasks))

	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackBeforeRun, &CallbackContext{RunContext: runCtx, Event: &start}); err != nil {
		res.Finished = time.Now()
		return res, fmt.Errorf("before run callback: %w", err)
	}

	for _, t := range req.Tasks {
		out, err := e.runTask(runCtx, t, res.Outputs)
		if err != nil {
			res.Finished = time.Now()
			return res, err
		}

		res.Outputs = append(res.Outputs, out)
	}

	res.Finished = time.Now()

	done := core.NewEvent(runCtx.RunID, core.EventRunCompleted, "engine")
	done.StateDelta = map[string]any{"run:duration_ms": res.Duration().Milliseconds()}
	e.emit(runCtx, done)

	if err := e.callbacks.ExecuteCallbacks(ctx, CallbackAfterRun, &CallbackContext{RunContext: runCtx, Event: &done}); err != nil {
		e.logger.Warn("engine.callback.after_run.error", "run_id", runCtx.RunID, "error", err.Error())
	}

	e.logger.Info("engine.run.complete", "run_id", runCtx.RunID, "duration_ms", res.Duration().Milliseconds())

	return res, nil
}

func (e *Engine) runTask(runCtx *core.RunContext, t core.Task, prior []core.TaskOutput) (core.TaskOutput, error) {
	name, agentName := t.Name(), t.Agent().Name()

	fail := func(err error) (core.TaskOutput, error) {
		taskErr := &TaskError{Task: name, Agent: agentName, Err: err}

		ev := core.NewErrorEvent(runCtx.RunID, core.EventTaskFailed, agentName, err)
		ev.StateDelta = map[string]any{"run:failed_task": name}
		e.emit(runCtx, ev)

		e.logger.Error("engine.task.error", "run_id", runCtx.RunID, "task", name, "agent", agentName, "error", err.Error())

		cbErr := e.callbacks.ExecuteCallbacks(runCtx.Context, CallbackOnError, &CallbackContext{
			RunContext: runCtx,
			Event:      &ev,
			TaskName:   name,
			AgentName:  agentName,
			Err:        taskErr,
		})
		if cbErr != nil {
			e.logger.Warn("engine.callback.on_error.error", "run_id", runCtx.RunID, "error", cbErr.Error())
		}

		return core.TaskOutput{}, taskErr
	}

	if err := runCtx.Err(); err != nil {
		return fail(err)
	}

	started := core.NewEvent(runCtx.RunID, core.EventTaskStarted, agentName)
	started.StateDelta = map[string]any{"run:current_task": name}
	e.emit(runCtx, started)

	if err := e.callbacks.ExecuteCallbacks(runCtx.Context, CallbackBeforeTask, &CallbackContext{
		RunContext: runCtx,
		Event:      &started,
		TaskName:   name,
		AgentName:  agentName,
	}); err != nil {
		return fail(fmt.Errorf("before task callback: %w", err))
	}

	taskCtx := runCtx
	if e.config.TaskTimeout > 0 {
		ctx, cancel := context.WithTimeout(runCtx.Context, e.config.TaskTimeout)
		defer cancel()
		taskCtx = runCtx.WithContext(ctx)
	}

	e.logger.Debug("engine.task.start", "run_id", runCtx.RunID, "task", name, "agent", agentName)

	start := time.Now()

	out, err := t.Execute(taskCtx, slices.Clone(prior))
	if err != nil {
		return fail(err)
	}

	if out.TaskName == "" {
		out.TaskName = name
	}

	if out.AgentName == "" {
		out.AgentName = agentName
	}

	if out.Duration == 0 {
		out.Duration = time.Since(start)
	}

	completed := core.NewMessageEvent(runCtx.RunID, core.EventTaskCompleted, agentName, out.Raw)
	completed.StateDelta = map[string]any{fmt.Sprintf("task:%s:output", name): out.Value()}
	e.emit(runCtx, completed)

	e.logger.Info("engine.task.complete", "run_id", runCtx.RunID, "task", name, "agent", agentName, "duration_ms", out.Duration.Milliseconds())

	if err := e.callbacks.ExecuteCallbacks(runCtx.Context, CallbackAfterTask, &CallbackContext{
		RunContext: runCtx,
		Event:      &completed,
		TaskName:   name,
		AgentName:  agentName,
		Output:     &out,
	}); err != nil {
		e.logger.Warn("engine.callback.after_task.error", "run_id", runCtx.RunID, "task", name, "error", err.Error())
	}

	return out, nil
}

// Cancel stops an active run. It reports whether the run was found.
func (e *Engine) Cancel(runID string) bool {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	cancel, ok := e.active[runID]
	if ok {
		cancel()
	}

	return ok
}

// ActiveRuns returns the ids of runs currently executing.
func (e *Engine) ActiveRuns() []string {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	ids := make([]string, 0, len(e.active))
	for id := range e.active {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

func (e *Engine) emit(runCtx *core.RunContext, ev core.Event) {
	if err := runCtx.Emit(ev); err != nil {
		e.logger.Warn("engine.event.persist.error", "run_id", runCtx.RunID, "type", ev.Type, "error", err.Error())
	}
}

func (e *Engine) acquire(ctx context.Context) error {
	if e.sem == nil {
		return nil
	}

	select {
	case e.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Engine) release() {
	if e.sem != nil {
		<-e.sem
	}
}

func (e *Engine) track(runID string, cancel context.CancelFunc) error {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	if _, ok := e.active[runID]; ok {
		return fmt.Errorf("%w: run %q is already active", core.ErrAlreadyExists, runID)
	}

	e.active[runID] = cancel

	return nil
}

func (e *Engine) untrack(runID string) {
	e.activeMu.Lock()
	defer e.activeMu.Unlock()

	delete(e.active, runID)
}

func validate(tasks []core.Task) error {
	seen := make(map[string]struct{}, len(tasks))

	for i, t := range tasks {
		if t == nil {
			return fmt.Errorf("%w: task %d is nil", core.ErrInvalidArgument, i)
		}

		if t.Agent() == nil {
			return fmt.Errorf("%w: task %s has no agent", core.ErrInvalidArgument, t.Name())
		}

		if _, dup := seen[t.Name()]; dup {
			return fmt.Errorf("%w: task %s appears twice", core.ErrInvalidArgument, t.Name())
		}

		seen[t.Name()] = struct{}{}
	}

	return nil
}

func taskNames(tasks []core.Task) []string {
	names := make([]string, len(tasks))
	for i, t := range tasks {
		names[i] = t.Name()
	}
	return names
}
