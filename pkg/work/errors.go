package work

import "strconv"

// ConfigError is returned when a provided configuration can not be parsed
// or does not describe a runnable setup.
type ConfigError struct {
	msg string
}

func (e *ConfigError) Error() string {
	return "ConfigError: " + e.msg
}

// NewConfigError constructs a ConfigError from a given msg.
func NewConfigError(msg string) *ConfigError {
	return &ConfigError{msg}
}

// TaskError represents a fault inside a compute function, either a returned
// error or a recovered panic. It is attached to the task's Result rather than
// dropped, so sinks still receive one result per submitted task.
type TaskError struct {
	ID    ID
	cause error
}

// Error returns a string description of a TaskError.
func (e *TaskError) Error() string {
	return "TaskError: task (" + strconv.Itoa(e.ID.Job) + "," + strconv.Itoa(e.ID.Index) + "): " + e.cause.Error()
}

// Unwrap returns the underlying fault.
func (e *TaskError) Unwrap() error {
	return e.cause
}

// NewTaskError constructs a TaskError for the given task id and cause.
func NewTaskError(id ID, cause error) *TaskError {
	return &TaskError{id, cause}
}

// DrainTimeoutError is returned when draining a sink gave up before the
// expected number of results arrived. It usually means a worker died or the
// expected count does not match what was actually submitted.
type DrainTimeoutError struct {
	Expected int
	Received int
}

func (e *DrainTimeoutError) Error() string {
	return "DrainTimeoutError: expected " + strconv.Itoa(e.Expected) +
		" results, received " + strconv.Itoa(e.Received)
}

// NewDrainTimeoutError constructs a DrainTimeoutError from the expected and
// received result counts.
func NewDrainTimeoutError(expected, received int) *DrainTimeoutError {
	return &DrainTimeoutError{expected, received}
}
