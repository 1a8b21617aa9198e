package lexer

import (
	"fmt"

	"github.com/kaubo-lang/kaubo/lang/token"
)

// ErrorKind enumerates the lex-phase error taxonomy.
type ErrorKind string

const (
	InvalidChar        ErrorKind = "InvalidChar"
	UnterminatedString ErrorKind = "UnterminatedString"
	InvalidNumber      ErrorKind = "InvalidNumber"
	InvalidUtf8        ErrorKind = "InvalidUtf8"
)

// Error is a lex-phase error with a source position. Bad UTF-8 is not
// reported as an Error (it is logged as a warning and substituted with
// U+FFFD); Error is for conditions that actually abort tokenizing
// a single token.
type Error struct {
	Kind ErrorKind
	Pos  token.Pos
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[%s] lex error: %s", e.Pos, e.Msg)
}
