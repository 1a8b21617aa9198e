package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/kaubo-lang/kaubo/lang/parser"
	"github.com/kaubo-lang/kaubo/lang/types"
)

func (c *Cmd) Check(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return CheckFile(stdio, args[0])
}

// CheckFile parses one file and runs the advisory type checker over it,
// printing every warning. Warnings never fail the command: a non-nil
// return here only happens if the file cannot be read or parsed.
func CheckFile(stdio mainer.Stdio, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	chunk, err := parser.Parse(path, src)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	warnings := types.Check(chunk)
	for _, w := range warnings {
		fmt.Fprintln(stdio.Stdout, w.String())
	}
	if len(warnings) == 0 {
		fmt.Fprintln(stdio.Stdout, "no warnings")
	}
	return nil
}
