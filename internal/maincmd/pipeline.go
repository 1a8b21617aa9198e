// Package maincmd wires together every core package behind the staged
// driver the CLI and the project's own tests share: resolve -> type-check
// -> compile -> run (with an optional binary write/read side-branch). The
// command-dispatch shape (a Cmd struct with one method per subcommand,
// found by reflection) follows mna-nenuphar's maincmd.go; the staged
// Pipeline type below is new, grounded on kaubo-orchestrator/src/pass.rs's
// sequenced-stage idea from the original implementation, scaled down to
// exactly the stages Kaubo needs rather than a generalized plugin registry.
package maincmd

import (
	"fmt"
	"io"

	"github.com/kaubo-lang/kaubo/internal/logging"
	"github.com/kaubo-lang/kaubo/internal/vfs"
	"github.com/kaubo-lang/kaubo/lang/compiler"
	"github.com/kaubo-lang/kaubo/lang/kauboerr"
	"github.com/kaubo-lang/kaubo/lang/resolver"
	"github.com/kaubo-lang/kaubo/lang/stdlib"
	"github.com/kaubo-lang/kaubo/lang/types"
	"github.com/kaubo-lang/kaubo/lang/value"
	"github.com/kaubo-lang/kaubo/lang/vm"
)

// CompiledUnit is one module after resolution, type-checking and
// compilation, still in the resolver's dependency-first topological order.
type CompiledUnit struct {
	ModuleID string
	Chunk    *compiler.Chunk
	Exports  []compiler.ExportSlot
	Imports  []string
	Warnings []types.Warning
}

// Pipeline drives the whole entry-module-to-running-VM path over one
// project's virtual file system.
type Pipeline struct {
	FS  vfs.FS
	Log logging.Logger
}

// NewPipeline creates a Pipeline backed by fs. A nil log installs a
// silent logger (a Warn-level Facade with no sinks).
func NewPipeline(fs vfs.FS, log logging.Logger) *Pipeline {
	if log == nil {
		log = logging.New(logging.Warn, nil)
	}
	return &Pipeline{FS: fs, Log: log}
}

// CompileEntry resolves entryModuleID's whole import graph and compiles
// every unit, in dependency-first order. Compilation failures stop the
// pipeline immediately; type-check warnings never do (they are attached
// to each unit for the caller to surface or ignore).
func (p *Pipeline) CompileEntry(heap *value.Heap, entryModuleID string) ([]*CompiledUnit, error) {
	units, err := resolver.New(p.FS).ResolveEntry(entryModuleID)
	if err != nil {
		return nil, kauboerr.FromResolve(err)
	}

	out := make([]*CompiledUnit, 0, len(units))
	for _, u := range units {
		warnings := types.Check(u.AST)
		for _, w := range warnings {
			p.Log.Warn("type check", logging.F("module", u.ModuleID), logging.F("pos", w.Pos.String()), logging.F("message", w.Message))
		}

		chunk, exports, cerr := compiler.Compile(heap, u.ModuleID, u.AST)
		if cerr != nil {
			var ce *compiler.Error
			if ok := asCompilerError(cerr, &ce); ok {
				return nil, kauboerr.FromCompile(ce)
			}
			return nil, cerr
		}
		out = append(out, &CompiledUnit{
			ModuleID: u.ModuleID,
			Chunk:    chunk,
			Exports:  exports,
			Imports:  u.Deps,
			Warnings: warnings,
		})
	}
	return out, nil
}

func asCompilerError(err error, target **compiler.Error) bool {
	ce, ok := err.(*compiler.Error)
	if ok {
		*target = ce
	}
	return ok
}

// Run compiles entryModuleID's whole import graph and executes it to
// completion on a fresh VM, registering the `std` module before running
// any user code and each dependency's module value before its dependents
// run (the resolver already hands units back in dependency-first order,
// so a single pass suffices).
func (p *Pipeline) Run(entryModuleID string, stdout io.Writer) (value.Value, []*CompiledUnit, error) {
	heap := value.NewHeap()
	units, err := p.CompileEntry(heap, entryModuleID)
	if err != nil {
		return value.Null(), nil, err
	}

	machine := vm.New(heap, vm.WithStdout(stdout), vm.WithLogger(p.Log))
	machine.RegisterModule("std", stdlib.New(machine))

	var result value.Value
	for _, u := range units {
		result, err = machine.RunModule(u.ModuleID, u.Chunk)
		if err != nil {
			var rerr *vm.RuntimeError
			if ok := asRuntimeError(err, &rerr); ok {
				return value.Null(), units, kauboerr.FromRuntime(rerr)
			}
			return value.Null(), units, err
		}
	}
	return result, units, nil
}

func asRuntimeError(err error, target **vm.RuntimeError) bool {
	re, ok := err.(*vm.RuntimeError)
	if ok {
		*target = re
	}
	return ok
}

// Warnings flattens every compiled unit's type-check warnings in
// compilation order, formatted as "module: pos: kind: message".
func Warnings(units []*CompiledUnit) []string {
	var out []string
	for _, u := range units {
		for _, w := range u.Warnings {
			out = append(out, fmt.Sprintf("%s: %s", u.ModuleID, w.String()))
		}
	}
	return out
}
