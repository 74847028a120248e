package domain

import "fmt"

// ValidationError reports malformed caller input. Handlers map it to a
// 400 response; it never crashes the process.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// StoreError wraps a failure of the durability layer (unreachable
// database, constraint violation, query failure). Handlers map it to a
// 500 response. Not retried.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store: %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }
