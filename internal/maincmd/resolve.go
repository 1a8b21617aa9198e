package maincmd

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/kaubo-lang/kaubo/internal/manifest"
	"github.com/kaubo-lang/kaubo/internal/vfs"
	"github.com/kaubo-lang/kaubo/lang/kauboerr"
	"github.com/kaubo-lang/kaubo/lang/resolver"
)

func (c *Cmd) Resolve(ctx context.Context, stdio mainer.Stdio, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	return ResolveProject(stdio, root)
}

// ResolveProject reads root's package.json, resolves the entry module's
// whole import graph, and prints every module in dependency order.
func ResolveProject(stdio mainer.Stdio, root string) error {
	fs := vfs.NewDisk(root)
	m, err := manifest.Load(fs, "/package.json")
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	entryID := entryModuleID(m.Entry)
	units, err := resolver.New(fs).ResolveEntry(entryID)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, kauboerr.FromResolve(err).CLI())
		return err
	}
	for _, u := range units {
		fmt.Fprintf(stdio.Stdout, "%s (%s)", u.ModuleID, u.FilePath)
		if len(u.Deps) > 0 {
			fmt.Fprintf(stdio.Stdout, " deps=%v", u.Deps)
		}
		fmt.Fprintln(stdio.Stdout)
	}
	return nil
}

// entryModuleID converts a manifest entry path ("main.kaubo" or
// "pkg/main.kaubo") into the dotted module id the resolver expects.
func entryModuleID(entryPath string) string {
	trimmed := entryPath[:len(entryPath)-len(filepath.Ext(entryPath))]
	id := ""
	for _, r := range trimmed {
		if r == '/' || r == '\\' {
			id += "."
		} else {
			id += string(r)
		}
	}
	return id
}
