// Package liberr provides the core's error taxonomy: a numeric CodeError
// classification, parent-error chaining, and compatibility with errors.Is /
// errors.As. It is a trimmed analogue of nabbar-golib/errors, scoped to
// what the engine's error taxonomy (spec §7) actually needs.
package liberr

import (
	"strings"
)

// Error extends the standard error interface with code classification and
// parent-error hierarchy.
type Error interface {
	error

	// IsCode reports whether this error's own code equals code.
	IsCode(code CodeError) bool
	// HasCode reports whether this error or any parent carries code.
	HasCode(code CodeError) bool
	// Code returns this error's own code.
	Code() CodeError

	// Add appends parents to this error's parent chain.
	Add(parents ...error)
	// HasParent reports whether this error has at least one parent.
	HasParent() bool
	// GetParent returns the parent chain, optionally including this error
	// itself as the first element.
	GetParent(withSelf bool) []error

	// Unwrap exposes the parent chain for errors.Is / errors.As.
	Unwrap() []error
}

type ers struct {
	code CodeError
	msg  string
	parents []error
}

func newError(code CodeError, msg string, parents ...error) Error {
	e := &ers{code: code, msg: msg}
	e.Add(parents...)
	return e
}

func (e *ers) Error() string {
	if e.msg == NullMessage {
		return UnknownMessage
	}
	return e.msg
}

func (e *ers) IsCode(code CodeError) bool {
	return e.code == code
}

func (e *ers) HasCode(code CodeError) bool {
	if e.IsCode(code) {
		return true
	}
	for _, p := range e.parents {
		if pe, ok := p.(Error); ok && pe.HasCode(code) {
			return true
		}
	}
	return false
}

func (e *ers) Code() CodeError { return e.code }

func (e *ers) Add(parents ...error) {
	for _, p := range parents {
		if p == nil {
			continue
		}
		e.parents = append(e.parents, p)
	}
}

func (e *ers) HasParent() bool { return len(e.parents) > 0 }

func (e *ers) GetParent(withSelf bool) []error {
	res := make([]error, 0, len(e.parents)+1)
	if withSelf {
		res = append(res, &ers{code: e.code, msg: e.msg})
	}
	res = append(res, e.parents...)
	return res
}

func (e *ers) Unwrap() []error { return e.parents }

// Is reports whether target matches this error by code, or (if target
// carries no code) by message equality; it is consulted by errors.Is.
func (e *ers) Is(target error) bool {
	if other, ok := target.(*ers); ok {
		if other.code != UnknownError || e.code != UnknownError {
			return e.code == other.code
		}
		return strings.EqualFold(e.msg, other.msg)
	}
	return strings.EqualFold(e.Error(), target.Error())
}
