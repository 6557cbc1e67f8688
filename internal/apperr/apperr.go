// Package apperr defines the typed error taxonomy of the core services.
// Handlers translate kinds into HTTP statuses; services never return raw
// infrastructure errors to the boundary through this package.
package apperr

import "errors"

// Kind classifies a domain failure.
type Kind int

const (
	KindUnknown           Kind = iota
	KindNotFound               // entity id unknown
	KindInvalidTransition      // lifecycle rule violated
	KindForbidden              // role lacks permission
	KindConflict               // e.g. table occupied, duplicate name
	KindValidation             // empty/malformed input
)

// Error is the error value returned by all core services on a rejected
// operation. Rejections are all-or-nothing: no state is mutated.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func NotFound(msg string) *Error          { return &Error{Kind: KindNotFound, Msg: msg} }
func InvalidTransition(msg string) *Error { return &Error{Kind: KindInvalidTransition, Msg: msg} }
func Forbidden(msg string) *Error         { return &Error{Kind: KindForbidden, Msg: msg} }
func Conflict(msg string) *Error          { return &Error{Kind: KindConflict, Msg: msg} }
func Validation(msg string) *Error        { return &Error{Kind: KindValidation, Msg: msg} }

// KindOf extracts the Kind from err, or KindUnknown for foreign errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, k Kind) bool { return KindOf(err) == k }
