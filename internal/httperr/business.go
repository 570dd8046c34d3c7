package httperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// BusinessError is a rule violation the caller can act on. Message is safe
// to show to end users.
type BusinessError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e BusinessError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

func ErrBusiness(kind Kind, code, message string) error {
	return BusinessError{Kind: kind, Code: code, Message: message}
}

func Validationf(code, format string, args ...any) error {
	return BusinessError{Kind: KindValidation, Code: code, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(code, format string, args ...any) error {
	return BusinessError{Kind: KindNotFound, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(code, format string, args ...any) error {
	return BusinessError{Kind: KindConflict, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(code, format string, args ...any) error {
	return BusinessError{Kind: KindForbidden, Code: code, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(code, format string, args ...any) error {
	return BusinessError{Kind: KindUnauthorized, Code: code, Message: fmt.Sprintf(format, args...)}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf returns the kind of a business error, or 0 for anything else.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return 0
}
