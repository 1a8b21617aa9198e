package lexer

import "github.com/kaubo-lang/kaubo/lang/token"

// Token is a single lexical token with its original text (when meaningful)
// and its source span.
type Token struct {
	Kind token.Kind
	Text string
	Span token.Span

	// Populated only for the corresponding Kind.
	IntVal    int64
	FloatVal  float64
	StringVal string
}
