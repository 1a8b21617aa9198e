package maincmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mna/mainer"

	"github.com/kaubo-lang/kaubo/internal/logging"
	"github.com/kaubo-lang/kaubo/internal/manifest"
	"github.com/kaubo-lang/kaubo/internal/vfs"
	"github.com/kaubo-lang/kaubo/lang/binary"
	"github.com/kaubo-lang/kaubo/lang/value"
)

func (c *Cmd) Build(ctx context.Context, stdio mainer.Stdio, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}
	return BuildProject(stdio, root, c.DumpBytecode, c.EmitBinary)
}

// BuildProject resolves root's project, compiles its whole import graph,
// and, when emitBinary is set, writes one .kaubod container per module
// next to the project root. It never runs any code.
func BuildProject(stdio mainer.Stdio, root string, dumpBytecode, emitBinary bool) error {
	level := logging.Warn
	log := logging.New(level, nil, logging.WriterSink{W: stdio.Stderr})

	fs := vfs.NewDisk(root)
	m, err := manifest.Load(fs, "/package.json")
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	overlay, err := manifest.LoadEnvOverlay()
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	overlay.Apply(m)

	pipeline := NewPipeline(fs, log)
	entryID := entryModuleID(m.Entry)

	heap := value.NewHeap()
	units, err := pipeline.CompileEntry(heap, entryID)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	for _, w := range Warnings(units) {
		fmt.Fprintln(stdio.Stdout, w)
	}
	if dumpBytecode {
		dumpUnits(stdio, units)
	}

	if !emitBinary {
		return nil
	}

	for _, u := range units {
		outPath := filepath.Join(root, u.ModuleID+".kaubod")
		f, err := os.Create(outPath)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		err = binary.Write(f, heap, u.ModuleID, u.Chunk, u.Exports, u.Imports)
		closeErr := f.Close()
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		if closeErr != nil {
			fmt.Fprintln(stdio.Stderr, closeErr)
			return closeErr
		}
		fmt.Fprintf(stdio.Stdout, "wrote %s\n", outPath)
	}
	return nil
}
