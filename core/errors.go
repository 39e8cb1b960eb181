package core

import "errors"

// Error taxonomy shared across packages. Callers match with errors.Is; packages
// wrap these with additional detail using fmt.Errorf("%w: ...").
var (
	// ErrNotFound reports an unknown node id, template resource or constructor.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists reports a duplicate registration.
	ErrAlreadyExists = errors.New("already exists")
	// ErrPreconditionFailed reports an operation attempted out of order, e.g.
	// instantiating a task before its agent.
	ErrPreconditionFailed = errors.New("precondition failed")
	// ErrCycleDetected reports a dependency cycle among task nodes.
	ErrCycleDetected = errors.New("cycle detected")
	// ErrInvalidArgument reports malformed input such as an empty id.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrLimitExceeded reports that a run exhausted its model call budget.
	ErrLimitExceeded = errors.New("limit exceeded")
)
