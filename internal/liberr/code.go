package liberr

import (
	"sort"
	"strconv"
)

// CodeError is a numeric error classification, similar in spirit to HTTP
// status codes: each core package owns a reserved range and registers a
// message function for it with RegisterIdFctMessage.
type CodeError uint16

const (
	// UnknownError is the fallback code for an error with no registered range.
	UnknownError CodeError = 0
	// UnknownMessage is the message used when no message function matches.
	UnknownMessage = "unknown error"
	// NullMessage is returned by a message function that has nothing to say
	// about a given code.
	NullMessage = ""
)

// Package code ranges. Each core package reserves the hundred codes starting
// at its constant and defines its own iota block from there (see e.g.
// graph/errors.go, engine/errors.go).
const (
	MinPkgPacket     CodeError = 100
	MinPkgPort       CodeError = 200
	MinPkgConnection CodeError = 300
	MinPkgComponent  CodeError = 400
	MinPkgRegistry   CodeError = 500
	MinPkgGraph      CodeError = 600
	MinPkgEngine     CodeError = 700
	MinPkgMonitor    CodeError = 800

	MinAvailable CodeError = 1000
)

func (c CodeError) Uint16() uint16 { return uint16(c) }
func (c CodeError) Int() int       { return int(c) }
func (c CodeError) String() string { return strconv.Itoa(c.Int()) }

// Error builds a new Error value carrying this code, optionally wrapping
// parent errors.
func (c CodeError) Error(parents ...error) Error {
	return newError(c, c.Message(), parents...)
}

// IfError builds a new Error value carrying this code only if at least one
// of the given errors is non-nil; otherwise it returns nil. Mirrors the
// teacher's CodeError.IfError used throughout config/component code to
// conditionally wrap a possibly-nil underlying error.
func (c CodeError) IfError(errs ...error) Error {
	var any bool
	for _, e := range errs {
		if e != nil {
			any = true
			break
		}
	}
	if !any {
		return nil
	}
	return newError(c, c.Message(), errs...)
}

// Message resolves the message registered for this code by the package that
// owns its range, falling back to UnknownMessage.
func (c CodeError) Message() string {
	if f, ok := idMsgFct[findRange(c)]; ok {
		if m := f(c); m != NullMessage {
			return m
		}
	}
	return UnknownMessage
}

var idMsgFct = make(map[CodeError]Message)

// Message is a function a package registers to resolve its own codes to
// human-readable strings.
type Message func(code CodeError) string

// RegisterIdFctMessage registers the message function owning the range that
// starts at minCode. Each core package calls this once from an init().
func RegisterIdFctMessage(minCode CodeError, fct Message) {
	idMsgFct[minCode] = fct
}

// ExistInMapMessage reports whether a range owner is already registered for
// minCode; used by package init()s to detect range collisions early.
func ExistInMapMessage(minCode CodeError) bool {
	_, ok := idMsgFct[minCode]
	return ok
}

func findRange(code CodeError) CodeError {
	var (
		keys []int
		best CodeError
	)
	for k := range idMsgFct {
		keys = append(keys, k.Int())
	}
	sort.Ints(keys)
	for _, k := range keys {
		c := CodeError(k)
		if c <= code && c > best {
			best = c
		}
	}
	return best
}
