package ssa

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

// FindFunc parses path (e.g. "github.com/nickng/boil/ssa".MainPkgs) and
// returns Function body in SSA IR.
// A path without package (e.g. main) is looked up in the built packages.
func (info *Info) FindFunc(path string) (*ssa.Function, error) {
	pkgPath, fnName := parseFuncPath(path)
	for _, f := range info.Functions() {
		if f.Name() != fnName {
			continue
		}
		if pkgPath == "" || (f.Pkg != nil && (f.Pkg.Pkg.Path() == pkgPath || f.Pkg.Pkg.Name() == pkgPath)) {
			return f, nil
		}
	}
	return nil, errors.Wrapf(ErrFuncMissing, "%s", path)
}

// parseFuncPath splits path to package and function segments.
// Does not handle complex functions with receivers.
func parseFuncPath(path string) (pkgPath, fnName string) {
	if len(path) < 1 {
		return "", ""
	}
	switch path[0] {
	case '(':
		regex := regexp.MustCompile(`\((?P<pkg>[^)]+)\).(?P<fn>.+)`)
		submatches := regex.FindStringSubmatch(path)
		if len(submatches) >= 3 {
			return submatches[1], submatches[2]
		}
	case '"':
		regex := regexp.MustCompile(`"(?P<pkg>[^"]+)".(?P<fn>.+)`)
		submatches := regex.FindStringSubmatch(path)
		if len(submatches) >= 3 {
			return submatches[1], submatches[2]
		}
	default:
		parts := strings.Split(path, ".")
		if len(parts) >= 2 {
			return parts[0], parts[1]
		}
	}
	return "", path
}
