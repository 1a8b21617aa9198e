package compiler

import (
	"fmt"

	"github.com/kaubo-lang/kaubo/lang/token"
)

// ErrorKind classifies a compile-time failure. Unlike the advisory type
// checker, every ErrorKind here stops compilation: these are structural
// violations the VM could not safely execute around.
type ErrorKind string

const (
	ErrTooManyLocals       ErrorKind = "too_many_locals"
	ErrTooManyConstants    ErrorKind = "too_many_constants"
	ErrVarAlreadyExists    ErrorKind = "variable_already_exists"
	ErrUnimplemented       ErrorKind = "unimplemented"
	ErrInvalidOperator     ErrorKind = "invalid_operator"
	ErrUnresolvedName      ErrorKind = "unresolved_name"
	ErrInvalidAssignTarget ErrorKind = "invalid_assign_target"
	ErrJumpTooFar          ErrorKind = "jump_too_far"
)

// Error is a structural compile error.
type Error struct {
	Kind    ErrorKind
	Pos     token.Pos
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Pos, e.Kind, e.Message)
}

func errAt(kind ErrorKind, pos token.Pos, format string, args ...any) *Error {
	return &Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}
