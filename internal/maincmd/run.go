package maincmd

import (
	"context"
	"fmt"

	"github.com/mna/mainer"

	"github.com/kaubo-lang/kaubo/internal/logging"
	"github.com/kaubo-lang/kaubo/internal/manifest"
	"github.com/kaubo-lang/kaubo/internal/vfs"
	"github.com/kaubo-lang/kaubo/lang/value"
)

func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	level := logging.Warn
	if c.Verbose {
		level = logging.Debug
	}
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

	if c.CompileOnly {
		units, err := pipeline.CompileEntry(value.NewHeap(), entryID)
		if err != nil {
			fmt.Fprintln(stdio.Stderr, err)
			return err
		}
		for _, w := range Warnings(units) {
			fmt.Fprintln(stdio.Stdout, w)
		}
		if c.DumpBytecode {
			dumpUnits(stdio, units)
		}
		return nil
	}

	_, units, err := pipeline.Run(entryID, stdio.Stdout)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	if c.DumpBytecode {
		dumpUnits(stdio, units)
	}
	return nil
}
