// Package parser implements the recursive-descent, Pratt-style expression
// parser. Structure (a small driver loop over a token
// slice, structured errors with a closed Kind enumeration) is adapted from
// mna-nenuphar/lang/parser.
package parser

import (
	"fmt"

	"github.com/kaubo-lang/kaubo/lang/token"
)

// ErrorKind enumerates the parse-phase error taxonomy.
type ErrorKind string

const (
	UnexpectedToken             ErrorKind = "UnexpectedToken"
	MissingRightParen           ErrorKind = "MissingRightParen"
	MissingRightBracket         ErrorKind = "MissingRightBracket"
	MissingRightCurly           ErrorKind = "MissingRightCurly"
	InvalidNumberFormat         ErrorKind = "InvalidNumberFormat"
	UnexpectedEndOfInput        ErrorKind = "UnexpectedEndOfInput"
	ExpectedIdentifier          ErrorKind = "ExpectedIdentifier"
	ExpectedCommaOrPipeInLambda ErrorKind = "ExpectedCommaOrPipeInLambda"
	ExpectedIdentifierAfterDot  ErrorKind = "ExpectedIdentifierAfterDot"
	Custom                      ErrorKind = "Custom"
)

// LocationKind distinguishes the four ways a parse error can be anchored.
type LocationKind int

const (
	At LocationKind = iota
	After
	Eof
	Unknown
)

// Location anchors an Error to a position in the source.
type Location struct {
	Kind LocationKind
	Pos  token.Pos
}

// Error is a structured parser error. The parser does not attempt recovery:
// the first error encountered is returned.
type Error struct {
	Kind     ErrorKind
	Location Location
	Found    string
	Expected []string
	Msg      string
}

func (e *Error) Error() string {
	switch e.Kind {
	case UnexpectedToken:
		return fmt.Sprintf("[%s] unexpected token %s, expected one of %v", e.Location.Pos, e.Found, e.Expected)
	default:
		if e.Msg != "" {
			return fmt.Sprintf("[%s] %s", e.Location.Pos, e.Msg)
		}
		return fmt.Sprintf("[%s] parse error: %s", e.Location.Pos, e.Kind)
	}
}
