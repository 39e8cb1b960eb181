package engine

import (
	"context"
	"fmt"

	"github.com/hupe1980/agentnet/core"
)

// CallbackType names a lifecycle point of a run where callbacks execute.
//
// Callbacks run synchronously. A callback returning an error from a Before*
// hook aborts the run; errors from After* and OnError hooks are logged.
type CallbackType string

const (
	// CallbackBeforeRun fires once before the first task.
	CallbackBeforeRun CallbackType = "before_run"

	// CallbackAfterRun fires once after the last task completed.
	CallbackAfterRun CallbackType = "after_run"

	// CallbackBeforeTask fires before each task executes.
	CallbackBeforeTask CallbackType = "before_task"

	// CallbackAfterTask fires after each task completed successfully.
	CallbackAfterTask CallbackType = "after_task"

	// CallbackOnError fires when a task fails.
	CallbackOnError CallbackType = "on_error"
)

// CallbackContext describes the lifecycle point a callback is invoked for.
type CallbackContext struct {
	// RunContext is the scope of the run being executed.
	RunContext *core.RunContext

	// Event is the event emitted at this point, if any.
	Event *core.Event

	// TaskName and AgentName are empty for run level callbacks.
	TaskName  string
	AgentName string

	CallbackType CallbackType

	// Output is set for CallbackAfterTask.
	Output *core.TaskOutput

	// Err is set for CallbackOnError.
	Err error

	// Metadata provides extensible storage for custom callback data.
	Metadata map[string]any
}

// Callback is an execution lifecycle hook.
//
// Implementations should be fast since they block the run, and must not
// panic.
type Callback interface {
	// Type returns the lifecycle point this callback handles.
	Type() CallbackType

	// Execute performs the callback logic.
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback wraps a function as a callback.
//
//	cb := NewFunctionCallback(CallbackAfterTask, func(ctx context.Context, cc *CallbackContext) error {
//	    log.Printf("task %s finished in %s", cc.TaskName, cc.Output.Duration)
//	    return nil
//	})
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback creates a function based callback.
func NewFunctionCallback(
	callbackType CallbackType,
	fn func(ctx context.Context, callbackCtx *CallbackContext) error,
) *FunctionCallback {
	return &FunctionCallback{
		callbackType: callbackType,
		fn:           fn,
	}
}

// Type returns the callback type this function handles.
func (c *FunctionCallback) Type() CallbackType {
	return c.callbackType
}

// Execute calls the wrapped function.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// CallbackManager routes lifecycle points to registered callbacks.
//
// Callbacks run in registration order; the first error stops the chain.
// Registration is not synchronised and should complete before runs start.
type CallbackManager struct {
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{
		callbacks: make(map[CallbackType][]Callback),
	}
}

// RegisterCallback adds a callback for its type.
func (cm *CallbackManager) RegisterCallback(callback Callback) {
	callbackType := callback.Type()
	cm.callbacks[callbackType] = append(cm.callbacks[callbackType], callback)
}

// ExecuteCallbacks runs every callback registered for callbackType.
func (cm *CallbackManager) ExecuteCallbacks(
	ctx context.Context,
	callbackType CallbackType,
	callbackCtx *CallbackContext,
) error {
	if cm == nil {
		return nil
	}

	callbacks, exists := cm.callbacks[callbackType]
	if !exists {
		return nil
	}

	callbackCtx.CallbackType = callbackType

	for _, callback := range callbacks {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}

// LoggingCallback formats lifecycle points into one line messages.
//
//	callback := NewLoggingCallback(CallbackAfterTask, func(msg string) {
//	    log.Printf("[ENGINE] %s", msg)
//	})
type LoggingCallback struct {
	callbackType CallbackType
	logger       func(message string)
}

// NewLoggingCallback creates a logging callback.
func NewLoggingCallback(callbackType CallbackType, logger func(message string)) *LoggingCallback {
	return &LoggingCallback{
		callbackType: callbackType,
		logger:       logger,
	}
}

// Type returns the callback type this logger handles.
func (c *LoggingCallback) Type() CallbackType {
	return c.callbackType
}

// Execute logs the lifecycle point.
func (c *LoggingCallback) Execute(_ context.Context, callbackCtx *CallbackContext) error {
	if c.logger == nil {
		return nil
	}

	runID := ""
	if callbackCtx.RunContext != nil {
		runID = callbackCtx.RunContext.RunID
	}

	msg := fmt.Sprintf("[%s] run=%s task=%s agent=%s", c.callbackType, runID, callbackCtx.TaskName, callbackCtx.AgentName)
	if callbackCtx.Err != nil {
		msg += " error=" + callbackCtx.Err.Error()
	}

	c.logger(msg)

	return nil
}
