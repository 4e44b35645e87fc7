package controllers

import "fmt"

// Kind classifies every failure the files controller can return.
type Kind int

const (
	KindMissingArgument Kind = iota + 1
	KindFileNotFound
	KindFileDeleted
	KindAlreadyDeleted
	KindMissingAccessToken
	KindInvalidToken
	KindInvalidAccessValue
	KindStorageFailure
)

func (k Kind) String() string {
	switch k {
	case KindMissingArgument:
		return "missing_argument"
	case KindFileNotFound:
		return "file_not_found"
	case KindFileDeleted:
		return "file_deleted"
	case KindAlreadyDeleted:
		return "already_deleted"
	case KindMissingAccessToken:
		return "missing_access_token"
	case KindInvalidToken:
		return "invalid_token"
	case KindInvalidAccessValue:
		return "invalid_access_value"
	case KindStorageFailure:
		return "storage_failure"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error is returned by every FilesController operation that fails. Value
// carries the offending input for KindInvalidAccessValue; Err carries the
// underlying cause for KindStorageFailure.
type Error struct {
	Kind  Kind
	Value string
	Err   error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindMissingArgument:
		return "one argument is missing"
	case KindFileNotFound:
		return "file does not exist"
	case KindFileDeleted:
		return "file has been deleted"
	case KindAlreadyDeleted:
		return "file already deleted"
	case KindMissingAccessToken:
		return "missing access token"
	case KindInvalidToken:
		return "token is not verified"
	case KindInvalidAccessValue:
		return "access value not public or private, value received: " + e.Value
	case KindStorageFailure:
		if e.Err != nil {
			return "storage failure: " + e.Err.Error()
		}
		return "storage failure"
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so errors.Is(err, ErrInvalidToken)
// works regardless of Value or Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrMissingArgument    = &Error{Kind: KindMissingArgument}
	ErrFileNotFound       = &Error{Kind: KindFileNotFound}
	ErrFileDeleted        = &Error{Kind: KindFileDeleted}
	ErrAlreadyDeleted     = &Error{Kind: KindAlreadyDeleted}
	ErrMissingAccessToken = &Error{Kind: KindMissingAccessToken}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken}
	ErrInvalidAccessValue = &Error{Kind: KindInvalidAccessValue}
	ErrStorageFailure     = &Error{Kind: KindStorageFailure}
)

func storageFailure(err error) *Error {
	return &Error{Kind: KindStorageFailure, Err: err}
}
