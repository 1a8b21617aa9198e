package resolver

import (
	"fmt"
	"strings"
)

// NotFoundError is returned when a module id cannot be located in the VFS.
type NotFoundError struct {
	ImportPath string
	TriedPaths []string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("module %q not found (tried %s)", e.ImportPath, strings.Join(e.TriedPaths, ", "))
}

// ReadError wraps a VFS read failure for a resolved module path.
type ReadError struct {
	Path    string
	Message string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %s: %s", e.Path, e.Message)
}

// ParseError wraps a parser failure for a resolved module path.
type ParseError struct {
	Path    string
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s: %s", e.Path, e.Message)
}

// CircularDependencyError reports an import cycle as the resolution stack
// at the moment a module is re-entered: every module id from the entry
// module down, followed by the re-entered id.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular import: %s", strings.Join(e.Chain, " -> "))
}
