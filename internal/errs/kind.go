package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind is the stable failure code exposed to callers of the data-access layer.
type Kind string

const (
	KindValidation Kind = "VALIDATION"
	KindInvalidID  Kind = "INVALID_ID"
	KindDuplicate  Kind = "DUPLICATE"
	KindNotFound   Kind = "NOT_FOUND"
	KindStorage    Kind = "STORAGE_ERROR"
)

// HTTPStatus returns the HTTP-equivalent status for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindInvalidID:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindInvalidID:
		return ErrInvalidID
	case KindDuplicate:
		return ErrAlreadyExists
	case KindNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

// Error is a failure value tagged with its kind at the point of origin.
// Msg is safe to show to end users; Err carries the diagnostic chain.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return e.Msg
	case e.Msg == "":
		return e.Err.Error()
	default:
		return e.Msg + ": " + e.Err.Error()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes a tagged error match the sentinel of its kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// New builds a tagged failure.
func New(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// Validation reports an entity rule violation with a user-facing message.
func Validation(format string, args ...any) error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// NotFound reports a missing record of the named entity.
func NotFound(entity string) error {
	return &Error{Kind: KindNotFound, Msg: entity + " not found", Err: ErrNotFound}
}

// InvalidID reports a malformed external identifier; cause is the codec's parse error.
func InvalidID(raw string, cause error) error {
	if cause == nil {
		return &Error{Kind: KindInvalidID, Msg: "invalid identifier format", Err: fmt.Errorf("%w: %q", ErrInvalidID, raw)}
	}
	return &Error{Kind: KindInvalidID, Msg: "invalid identifier format", Err: fmt.Errorf("%w: %q: %v", ErrInvalidID, raw, cause)}
}

// Classify maps a failure onto the taxonomy. Markers are checked in a fixed
// priority order: duplicate, validation, invalid id, not found; anything else
// is a storage error.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAlreadyExists):
		return KindDuplicate
	case errors.Is(err, ErrValidation), errors.Is(err, ErrMissingField), errors.Is(err, ErrTypeMismatch):
		return KindValidation
	case errors.Is(err, ErrInvalidID):
		return KindInvalidID
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	default:
		return KindStorage
	}
}

// Message returns the user-facing message for err. Duplicate, invalid id and
// storage failures get fixed texts so backend internals never reach end users.
func Message(err error) string {
	k := Classify(err)
	switch k {
	case KindDuplicate:
		return "record already exists"
	case KindInvalidID:
		return "invalid identifier format"
	case KindStorage, "":
		return "internal storage error"
	}
	var e *Error
	if errors.As(err, &e) && e.Msg != "" {
		return e.Msg
	}
	if k == KindNotFound {
		return "record not found"
	}
	return err.Error()
}
