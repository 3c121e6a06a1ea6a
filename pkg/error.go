package pkg

import (
	"log/slog"
	"strings"
)

// Error is an error kind with optional structured context.
//
// Each failure mode is declared once as a package-level sentinel via
// [NewError]. Derived errors created with [Error.With] and [Error.Wrap]
// remember their sentinel, so callers can branch on cause with errors.Is
// against the sentinel while logs still carry the full attribute context.
//
// Error implements error, errors.Unwrap, errors.Is matching, and
// slog.LogValuer.
type Error struct {
	msg   string
	base  *Error      // sentinel this error derives from (nil for sentinels)
	err   error       // wrapped cause (for errors.Unwrap)
	attrs []slog.Attr // attributes for structured logging
}

// NewError declares a new error kind with the given message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Error implements the error interface.
//
// The message is composed from whichever of the kind message and the
// wrapped cause are present, joined with ": ".
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether e derives from target, letting errors.Is match a
// derived error against its declared sentinel.
func (e *Error) Is(target error) bool {
	if e == target {
		return true
	}

	if e.base != nil {
		return e.base.Is(target)
	}

	return false
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+2)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Attrs returns the structured attributes attached to e.
func (e *Error) Attrs() []slog.Attr { return e.attrs }

// With returns a derived error carrying additional attributes.
// The receiver is not modified.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		base:  e.sentinel(),
		err:   e.err,
		attrs: newAttrs,
	}
}

// Wrap returns a derived error with err as its cause.
// The receiver is not modified.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		base:  e.sentinel(),
		err:   err,
		attrs: e.attrs,
	}
}

// sentinel resolves the originally declared error kind.
func (e *Error) sentinel() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}
