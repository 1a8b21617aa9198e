// Package resolver implements the multi-file module resolver: it
// turns import paths into VFS file paths, detects import cycles, and
// produces compile units in topological order (dependencies before
// dependents). The depth-first walk with an explicit "currently resolving"
// stack for cycle detection is adapted from the general approach to
// stack-tracked recursive walks in mna-nenuphar/lang/resolver, even though
// that resolver solves a different problem (binding
// scopes) — this package resolves the *import graph*, not symbol bindings.
package resolver

import (
	"errors"
	"strings"

	"github.com/kaubo-lang/kaubo/internal/vfs"
	"github.com/kaubo-lang/kaubo/lang/ast"
	"github.com/kaubo-lang/kaubo/lang/parser"
)

// CompileUnit is a single resolved, parsed module ready for compilation.
type CompileUnit struct {
	ModuleID string
	FilePath string
	AST      *ast.Chunk
	Source   string
	Deps     []string
}

// Resolver walks the import graph starting from an entry module and
// produces compile units in topological post-order.
type Resolver struct {
	fs    vfs.FS
	cache map[string]*CompileUnit
}

// New creates a Resolver backed by fs.
func New(fs vfs.FS) *Resolver {
	return &Resolver{fs: fs, cache: make(map[string]*CompileUnit)}
}

// IsBuiltin reports whether a module id is `std` or `std.*`, which are
// resolved at VM start rather than at file-load time.
func IsBuiltin(moduleID string) bool {
	return moduleID == "std" || strings.HasPrefix(moduleID, "std.")
}

// ModulePath converts a dotted module id into its VFS path: dots
// become slashes and ".kaubo" is appended.
func ModulePath(moduleID string) string {
	return "/" + strings.ReplaceAll(moduleID, ".", "/") + ".kaubo"
}

// ResolveEntry resolves the entry module and its whole transitive import
// graph, returning compile units in topological order (the entry unit last).
func (r *Resolver) ResolveEntry(entryModuleID string) ([]*CompileUnit, error) {
	var order []*CompileUnit
	var stack []string
	onStack := make(map[string]bool)

	var visit func(moduleID string) error
	visit = func(moduleID string) error {
		if IsBuiltin(moduleID) {
			return nil
		}
		if _, ok := r.cache[moduleID]; ok {
			return nil // already fully resolved and emitted
		}
		if onStack[moduleID] {
			chain := append(append([]string{}, stack...), moduleID)
			return &CircularDependencyError{Chain: chain}
		}

		stack = append(stack, moduleID)
		onStack[moduleID] = true
		defer func() {
			stack = stack[:len(stack)-1]
			delete(onStack, moduleID)
		}()

		path := ModulePath(moduleID)
		raw, err := r.fs.ReadFile(path)
		if err != nil {
			var nf *vfs.NotFoundError
			if errors.As(err, &nf) {
				return &NotFoundError{ImportPath: moduleID, TriedPaths: []string{path}}
			}
			return &ReadError{Path: path, Message: err.Error()}
		}

		chunk, perr := parser.Parse(path, raw)
		if perr != nil {
			return &ParseError{Path: path, Message: perr.Error()}
		}

		deps := topLevelImports(chunk)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		unit := &CompileUnit{
			ModuleID: moduleID,
			FilePath: path,
			AST:      chunk,
			Source:   string(raw),
			Deps:     deps,
		}
		r.cache[moduleID] = unit
		order = append(order, unit)
		return nil
	}

	if err := visit(entryModuleID); err != nil {
		return nil, err
	}
	return order, nil
}

// topLevelImports scans a chunk's top-level statements for import
// declarations and returns the dotted module paths they reference.
func topLevelImports(chunk *ast.Chunk) []string {
	var deps []string
	if chunk.Block == nil {
		return deps
	}
	for _, s := range chunk.Block.Stmts {
		if imp, ok := s.(*ast.ImportStmt); ok {
			deps = append(deps, imp.Path)
		}
	}
	return deps
}
