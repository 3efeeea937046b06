package costing

import "fmt"

// DataLoadError reports a failed or structurally invalid bulk fetch. The
// whole request failed; callers may retry it.
type DataLoadError struct {
	Op  string
	Err error
}

func (e *DataLoadError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("data load failed: %v", e.Err)
	}
	return fmt.Sprintf("data load failed (%s): %v", e.Op, e.Err)
}

func (e *DataLoadError) Unwrap() error { return e.Err }

// Retryable is always true: a failed load leaves no state behind.
func (e *DataLoadError) Retryable() bool { return true }
