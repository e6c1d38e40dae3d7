package treemovie

import "fmt"

// ValidationError reports a payload that violates the dataset contracts.
// It is fatal for the dataset: the core refuses to render and surfaces the
// message to the host UI.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid dataset: %s: %s", e.Field, e.Reason)
}

// LayoutError reports a degenerate tree encountered during layout. The layout
// engine renders what is valid and reports the anomaly through diagnostics.
type LayoutError struct {
	Frame  int
	Reason string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("layout: frame %d: %s", e.Frame, e.Reason)
}

// CacheConsistencyError is raised when the rendered element count disagrees
// with the target layout at the end of a transition. It is self-healing: the
// controller clears all caches and performs an instant render.
type CacheConsistencyError struct {
	Frame    int
	Rendered int
	Expected int
}

func (e *CacheConsistencyError) Error() string {
	return fmt.Sprintf("cache consistency: frame %d: rendered %d elements, expected %d", e.Frame, e.Rendered, e.Expected)
}

// InterruptError marks a transition that was superseded before completing.
// Callers catch it silently.
type InterruptError struct {
	Slot string
}

func (e *InterruptError) Error() string {
	return fmt.Sprintf("transition %q superseded", e.Slot)
}

// NumericError reports a NaN angle or radius. The offending value is replaced
// with 0 and the element is re-rendered in full on the next tick.
type NumericError struct {
	Key   string
	Field string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("numeric: element %q: %s is NaN", e.Key, e.Field)
}
