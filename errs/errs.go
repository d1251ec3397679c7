// Package errs is the error taxonomy shared by the parser, compiler and
// runtime: a handful of sentinel kinds plus the four location wrappers
// (ParseError, LineError, CompileError, RuntimeError) that every diagnostic
// is reported through.
package errs

import (
	"errors"

	"github.com/mmyjona/cvm/translate"
)

var f = translate.From

var (
	// Parse errors (§7 Parse)
	ErrUnrecognizedNumber      = errors.New(f("unrecognized number"))
	ErrNumberTooLarge          = errors.New(f("number too large"))
	ErrUnrecognizedRegister    = errors.New(f("unrecognized register"))
	ErrUnrecognizedEnvironment = errors.New(f("unrecognized environment"))
	ErrUnrecognizedEscape      = errors.New(f("unrecognized escape"))
	ErrUnrecognizedInstruction = errors.New(f("unrecognized instruction"))
	ErrUnrecognizedCommand     = errors.New(f("unrecognized command"))
	ErrUnrecognizedDataIndex   = errors.New(f("unrecognized data index"))
	ErrUnrecognizedExpression  = errors.New(f("unrecognized expression"))

	// Symbol resolution errors (§7 Symbol resolution)
	ErrUndefinedType      = errors.New(f("undefined type"))
	ErrUndefinedFunction  = errors.New(f("undefined function"))
	ErrDuplicateType      = errors.New(f("type name duplicate"))
	ErrDuplicateFunction  = errors.New(f("func name duplicate"))
	ErrDuplicateDataIndex = errors.New(f("data index duplicate"))

	// Runtime errors (§7 Runtime)
	ErrMalformedInstruction = errors.New(f("malformed runtime instruction"))
	ErrOutOfMemory          = errors.New(f("out of memory"))
)

// ParseError reports a single parse-time diagnostic: the line it was found
// on, and the offending token, if any. Parsing continues after one of these
// is recorded so later errors in the same file can also be surfaced.
type ParseError struct {
	Line  int
	Token string
	Err   error
}

func (e ParseError) Error() string {
	if e.Token != "" {
		return f("Parse Error for '%v' at '%v' in line(%v).", e.Err, e.Token, e.Line)
	}
	return f("Parse Error for '%v' in line(%v).", e.Err, e.Line)
}

func (e ParseError) Unwrap() error {
	return e.Err
}

// LineError reports a parse-time diagnostic with no specific error kind and
// no offending token, such as a line that matches no known section or
// instruction syntax at all.
type LineError struct {
	Line int
}

func (e LineError) Error() string {
	return f("Parse Error in line(%v).", e.Line)
}

// CompileError reports a symbol-resolution failure while lowering one
// function's instruction structure to its runtime form. Compile errors abort
// the run.
type CompileError struct {
	Func string
	Err  error
}

func (e CompileError) Error() string {
	return f("Compile Error for '%v' in func '%v'.", e.Err, e.Func)
}

func (e CompileError) Unwrap() error {
	return e.Err
}

// RuntimeError reports a fatal failure while executing a compiled
// instruction. Runtime errors abort the run.
type RuntimeError struct {
	PC  int
	Err error
}

func (e RuntimeError) Error() string {
	return f("Runtime Error for '%v' at pc(%v).", e.Err, e.PC)
}

func (e RuntimeError) Unwrap() error {
	return e.Err
}
