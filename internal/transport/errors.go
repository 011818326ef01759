// internal/transport/errors.go
package transport

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a transport failure
type ErrorKind string

const (
	KindNotFound ErrorKind = "not_found"
	KindBusy     ErrorKind = "busy"
	KindWrite    ErrorKind = "write"
)

// Sentinels for errors.Is matching on a TransportError kind
var (
	ErrNotFound = errors.New("queue not found")
	ErrBusy     = errors.New("queue busy")
	ErrWrite    = errors.New("write failed")
)

// TransportError is the only error Send returns. Callers may retry any kind;
// the transport itself never does.
type TransportError struct {
	Kind  ErrorKind
	Queue string
	Err   error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("queue %q: %s", e.Queue, e.Kind)
	}
	return fmt.Sprintf("queue %q: %s: %v", e.Queue, e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel of the error kind
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Kind == KindNotFound
	case ErrBusy:
		return e.Kind == KindBusy
	case ErrWrite:
		return e.Kind == KindWrite
	}
	return false
}

func newError(kind ErrorKind, queue string, err error) *TransportError {
	return &TransportError{Kind: kind, Queue: queue, Err: err}
}
