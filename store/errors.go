package store

import "fmt"

// StoreError represents errors from local store operations
type StoreError struct {
	Op     string // Operation that failed
	Entity string // Optional: entity kind if relevant
	Err    error  // Underlying error
}

func (e *StoreError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("store %s failed for %s: %v", e.Op, e.Entity, e.Err)
	}
	return fmt.Sprintf("store %s failed: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
