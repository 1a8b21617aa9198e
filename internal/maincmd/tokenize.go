package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/kaubo-lang/kaubo/lang/kauboerr"
	"github.com/kaubo-lang/kaubo/lang/lexer"
)

func (c *Cmd) Tokenize(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return TokenizeFile(stdio, args[0])
}

// TokenizeFile scans one file and prints its tokens, one per line, as
// "pos kind [literal]".
func TokenizeFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	toks, err := lexer.ScanAll(src, nil)
	for _, tok := range toks {
		fmt.Fprintf(stdio.Stdout, "%s: %s", tok.Span.Start, tok.Kind)
		if tok.Text != "" {
			fmt.Fprintf(stdio.Stdout, " %q", tok.Text)
		}
		fmt.Fprintln(stdio.Stdout)
	}
	if err != nil {
		var lerr *lexer.Error
		if le, ok := err.(*lexer.Error); ok {
			lerr = le
			fmt.Fprintln(stdio.Stderr, kauboerr.FromLex(lerr).CLI())
		} else {
			fmt.Fprintln(stdio.Stderr, err)
		}
		return err
	}
	return nil
}
