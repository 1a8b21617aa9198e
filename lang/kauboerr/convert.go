package kauboerr

import (
	"errors"

	"github.com/kaubo-lang/kaubo/internal/vfs"
	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/lexer"
	"github.com/kaubo-lang/kaubo/lang/parser"
	"github.com/kaubo-lang/kaubo/lang/resolver"
	"github.com/kaubo-lang/kaubo/lang/vm"
)

// FromLex converts a lang/lexer.Error into the unified report.
func FromLex(err *lexer.Error) *KauboError {
	return &KauboError{
		Phase:   PhaseLex,
		Line:    err.Pos.Line,
		Column:  err.Pos.Col,
		Kind:    string(err.Kind),
		Message: err.Msg,
	}
}

// FromParse converts a lang/parser.Error into the unified report.
func FromParse(err *parser.Error) *KauboError {
	return &KauboError{
		Phase:   PhaseParse,
		Line:    err.Location.Pos.Line,
		Column:  err.Location.Pos.Col,
		Kind:    string(err.Kind),
		Message: err.Error(),
	}
}

// FromResolve converts any of the resolver's error types into the
// unified report. Resolver errors are module-id anchored rather than
// line/column anchored, so Line/Column stay zero.
func FromResolve(err error) *KauboError {
	var notFound *resolver.NotFoundError
	var readErr *resolver.ReadError
	var parseErr *resolver.ParseError
	var cycle *resolver.CircularDependencyError
	var vfsNotFound *vfs.NotFoundError

	switch {
	case errors.As(err, &notFound):
		return &KauboError{Phase: PhaseResolve, Kind: "NotFound", Message: err.Error(), Details: notFound.ImportPath}
	case errors.As(err, &readErr):
		return &KauboError{Phase: PhaseResolve, Kind: "ReadError", Message: err.Error()}
	case errors.As(err, &parseErr):
		return &KauboError{Phase: PhaseResolve, Kind: "ParseError", Message: err.Error()}
	case errors.As(err, &cycle):
		return &KauboError{Phase: PhaseResolve, Kind: "CircularDependency", Message: err.Error()}
	case errors.As(err, &vfsNotFound):
		return &KauboError{Phase: PhaseResolve, Kind: "NotFound", Message: err.Error()}
	default:
		return &KauboError{Phase: PhaseResolve, Kind: "Unknown", Message: err.Error()}
	}
}

// FromCompile converts a lang/compiler.Error into the unified report.
func FromCompile(err *compiler.Error) *KauboError {
	return &KauboError{
		Phase:   PhaseCompile,
		Line:    err.Pos.Line,
		Column:  err.Pos.Col,
		Kind:    string(err.Kind),
		Message: err.Message,
	}
}

// FromRuntime converts a lang/vm.RuntimeError into the unified report.
// The type checker's Warning is advisory and never reaches this
// converter: it is logged, not propagated as a KauboError.
func FromRuntime(err *vm.RuntimeError) *KauboError {
	return &KauboError{
		Phase:   PhaseRuntime,
		Line:    int(err.Line),
		Kind:    "RuntimeError",
		Message: err.Message,
	}
}
