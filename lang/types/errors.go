package types

import (
	"fmt"

	"github.com/kaubo-lang/kaubo/lang/token"
)

// WarningKind classifies an advisory type warning.
type WarningKind string

const (
	WarnMismatch      WarningKind = "type_mismatch"
	WarnUndefinedName WarningKind = "undefined_name"
	WarnArity         WarningKind = "arity_mismatch"
	WarnNotCallable   WarningKind = "not_callable"
	WarnNotIndexable  WarningKind = "not_indexable"
	WarnUnknownMember WarningKind = "unknown_member"
)

// Warning is a single advisory finding. Warnings never prevent
// compilation; the compiler runs unconditionally once type checking
// completes.
type Warning struct {
	Kind    WarningKind
	Pos     token.Pos
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %s", w.Pos, w.Kind, w.Message)
}

func mismatch(pos token.Pos, want, got *Type, context string) Warning {
	return Warning{
		Kind:    WarnMismatch,
		Pos:     pos,
		Message: fmt.Sprintf("%s: expected %s, found %s", context, want, got),
	}
}
