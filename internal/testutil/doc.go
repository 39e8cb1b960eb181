// Package testutil contains fixtures shared by tests: stub agent and task
// handles, a fluent factory registry builder and event/session builders.
// They are not intended for production usage.
package testutil
