// Package apperr carries the error taxonomy surfaced by usecases: not-found,
// invalid-input, conflict and internal. Handlers map kinds onto HTTP status
// codes; usecases never substitute defaults for an error condition.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalidInput
	KindConflict
)

type Error struct {
	kind Kind
	msg  string
	err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.msg, e.err)
	}
	return e.msg
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.err
}

func (e *Error) Kind() Kind {
	if e == nil {
		return KindInternal
	}
	return e.kind
}

func NotFound(msg string) *Error     { return &Error{kind: KindNotFound, msg: msg} }
func InvalidInput(msg string) *Error { return &Error{kind: KindInvalidInput, msg: msg} }
func Conflict(msg string) *Error     { return &Error{kind: KindConflict, msg: msg} }

func Internal(msg string, err error) *Error {
	return &Error{kind: KindInternal, msg: msg, err: err}
}

// KindOf classifies any error; non-apperr errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind()
	}
	return KindInternal
}

func IsNotFound(err error) bool     { return KindOf(err) == KindNotFound }
func IsInvalidInput(err error) bool { return KindOf(err) == KindInvalidInput }
func IsConflict(err error) bool     { return KindOf(err) == KindConflict }
