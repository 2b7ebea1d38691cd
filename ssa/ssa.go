// Package ssa is a library to build and work with SSA.
// For most part the package contains helper or wrapper functions to use the
// packages in Go project's extra tools.
//
// In particular, the SSA IR is from golang.org/x/tools/go/ssa, and its basic
// blocks are the input of the loop analyses in this module.
//
package ssa

import (
	"go/token"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/ssa"
)

var (
	ErrNoMainPkgs  = errors.New("no main packages found")
	ErrFuncMissing = errors.New("function not found")
)

// Info holds the results of a SSA build for analysis.
// To populate this structure, the 'build' subpackage should be used.
//
type Info struct {
	IgnoredPkgs []string // Record of ignored package during the build process.

	FSet *token.FileSet  // FileSet for parsed source files.
	Prog *ssa.Program    // SSA IR for whole program.
	Pkgs []*ssa.Package  // Packages built from the given sources.

	Logger *zap.SugaredLogger // Build logger.
}
