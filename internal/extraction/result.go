// Package extraction runs the four-stage AI pipeline that turns raw
// announcement text into a structured, validated, normalized extraction.
package extraction

// Result is the outcome of one pipeline stage: a value or a failure reason.
// Stage failures are data, not control flow — the orchestrator decides per
// stage whether a failure degrades or aborts.
type Result[T any] struct {
	value T
	err   error
}

// Ok wraps a successful stage output.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Fail wraps a stage failure.
func Fail[T any](err error) Result[T] {
	return Result[T]{err: err}
}

// Failed reports whether the stage failed.
func (r Result[T]) Failed() bool {
	return r.err != nil
}

// Value returns the stage output; only meaningful when !Failed().
func (r Result[T]) Value() T {
	return r.value
}

// Err returns the failure reason, or nil.
func (r Result[T]) Err() error {
	return r.err
}
