package finance

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork is a transient failure: transport error, timeout, or a
	// server side error. The request may be retried later.
	ErrNetwork = errors.New("network error")

	// ErrAuthExpired means the session token was rejected. Nothing should be
	// retried until the user authenticates again.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrValidation means the server rejected the payload itself.
	ErrValidation = errors.New("validation error")
)

type Kind int

const (
	KindNetwork Kind = iota
	KindAuth
	KindValidation
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// Error is returned by every Client call that reached (or tried to reach)
// the server and failed.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}

	switch {
	case e.Field != "":
		return fmt.Sprintf("%s: %s error on field %q: %s", e.Op, e.Kind, e.Field, msg)
	case e.Status != 0:
		return fmt.Sprintf("%s: %s error (status %d): %s", e.Op, e.Kind, e.Status, msg)
	default:
		return fmt.Sprintf("%s: %s error: %s", e.Op, e.Kind, msg)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrAuthExpired:
		return e.Kind == KindAuth
	case ErrValidation:
		return e.Kind == KindValidation
	}
	return false
}

// KindOf classifies err. Errors that did not come from this package are
// treated as network failures.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindNetwork
}

func kindForStatus(status int) Kind {
	switch {
	case status == 401 || status == 403:
		return KindAuth
	case status == 408 || status == 429 || status >= 500:
		return KindNetwork
	default:
		return KindValidation
	}
}
