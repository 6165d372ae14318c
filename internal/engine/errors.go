package engine

import (
	"errors"
	"fmt"

	"github.com/mmynk/bonuswiser/internal/bundle"
	"github.com/mmynk/bonuswiser/internal/lock"
	"github.com/mmynk/bonuswiser/internal/storage"
)

// Error kinds. Every error returned by the engine matches exactly one of them
// with errors.Is.
var (
	// ErrValidation: the request breaks a rule and nothing was changed.
	ErrValidation = errors.New("validation error")

	// ErrConflict: the request lost a race or targets a redeemed group.
	ErrConflict = errors.New("conflict")

	// ErrNotFound: unknown customer or group.
	ErrNotFound = errors.New("not found")

	// ErrPersistence: the store failed.
	ErrPersistence = errors.New("persistence error")
)

// Error carries a message meant to be shown to the caller verbatim.
type Error struct {
	Kind  error
	Msg   string
	Cause error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.Kind }

func validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Msg: fmt.Sprintf(format, args...)}
}

func conflictf(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Msg: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Msg: fmt.Sprintf(format, args...)}
}

// translate maps errors from lower layers onto the engine's kinds.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var engineErr *Error
	if errors.As(err, &engineErr) {
		return err
	}

	switch {
	case errors.Is(err, bundle.ErrInvalid):
		return &Error{Kind: ErrValidation, Msg: err.Error(), Cause: err}
	case errors.Is(err, storage.ErrBelowThreshold):
		return &Error{Kind: ErrValidation, Msg: err.Error(), Cause: err}
	case errors.Is(err, storage.ErrNotFound):
		return &Error{Kind: ErrNotFound, Msg: err.Error(), Cause: err}
	case errors.Is(err, storage.ErrConflict):
		return &Error{Kind: ErrConflict, Msg: err.Error(), Cause: err}
	case errors.Is(err, lock.ErrTimeout):
		return &Error{Kind: ErrConflict, Msg: "customer is busy, try again", Cause: err}
	default:
		return &Error{Kind: ErrPersistence, Msg: err.Error(), Cause: err}
	}
}

// KindOf names the kind of an engine error, for logs and metrics.
func KindOf(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}
