package panel

import (
	"errors"
	"fmt"
)

// ErrClosed is returned by operations invoked on a panel after Close.
var ErrClosed = errors.New("panel closed")

// RenderError records a content failure. The panel chrome keeps working;
// only the body shows a placeholder.
type RenderError struct {
	PanelID string
	Title   string
	Cause   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %q: %v", e.Title, e.Cause)
}

func (e *RenderError) Unwrap() error { return e.Cause }

// panicError carries a recovered panic value from a content renderer.
type panicError struct {
	value any
}

func (e *panicError) Error() string { return fmt.Sprintf("panic: %v", e.value) }
