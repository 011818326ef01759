// internal/layout/errors.go
package layout

import "fmt"

// RenderError reports a missing or unusable resource, or a layout the device
// cannot print. No bytes are produced when one is returned.
type RenderError struct {
	Resource string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Resource, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func renderErrorf(resource, format string, args ...interface{}) *RenderError {
	return &RenderError{Resource: resource, Err: fmt.Errorf(format, args...)}
}
