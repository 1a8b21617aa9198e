package lexer

import (
	"github.com/kaubo-lang/kaubo/internal/logging"
	"github.com/kaubo-lang/kaubo/lang/charstream"
	"github.com/kaubo-lang/kaubo/lang/token"
)

// ScanAll is a convenience helper that feeds all of src, closes the stream,
// and drains every token (mirroring mna-nenuphar's ScanFiles helper). It is
// what most callers outside of a genuinely incremental feed loop want.
func ScanAll(src []byte, log logging.Logger) ([]Token, error) {
	cs := charstream.New(log)
	if err := cs.Feed(src); err != nil {
		return nil, err
	}
	cs.Close()

	l := New(cs)
	var toks []Token
	for {
		tok, status, err := l.NextToken()
		if err != nil {
			return toks, err
		}
		if status == NeedMore {
			// the stream is closed, so NeedMore here would mean a logic bug in
			// the scanner rather than a real need for more input.
			return toks, &Error{Kind: InvalidUtf8, Msg: "scanner requested more input from a closed stream"}
		}
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, nil
}
