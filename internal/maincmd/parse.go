package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/kauboerr"
	"github.com/kaubo-lang/kaubo/lang/parser"
)

func (c *Cmd) Parse(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return ParseFile(stdio, args[0])
}

// ParseFile parses one file and prints its AST using the package's
// printer.
func ParseFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	chunk, err := parser.Parse(path, src)
	if err != nil {
		if perr, ok := err.(*parser.Error); ok {
			fmt.Fprintln(stdio.Stderr, kauboerr.FromParse(perr).CLI())
		} else {
			fmt.Fprintln(stdio.Stderr, err)
		}
		return err
	}
	fmt.Fprintln(stdio.Stdout, ast.Print(chunk))
	return nil
}
