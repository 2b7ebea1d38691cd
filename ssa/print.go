package ssa

import (
	"io"
	"sort"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// Functions returns the functions with a body defined in the built packages,
// including anonymous functions, sorted by position.
// Synthetic functions (wrappers, package initialisers) are left out.
func (info *Info) Functions() []*ssa.Function {
	built := make(map[*ssa.Package]bool)
	for _, pkg := range info.Pkgs {
		built[pkg] = true
	}
	var funcs []*ssa.Function
	for f := range ssautil.AllFunctions(info.Prog) {
		if f.Synthetic != "" || len(f.Blocks) == 0 {
			continue
		}
		if pkg := f.Pkg; pkg == nil || !built[pkg] {
			continue
		}
		funcs = append(funcs, f)
	}
	sortFuncs(funcs)
	return funcs
}

// sortFuncs orders funcs by position, then by name.
func sortFuncs(funcs []*ssa.Function) {
	sort.Slice(funcs, func(i, j int) bool {
		if funcs[i].Pos() != funcs[j].Pos() {
			return funcs[i].Pos() < funcs[j].Pos()
		}
		return funcs[i].String() < funcs[j].String()
	})
}

// WriteTo writes Functions of the built packages to w in human readable SSA
// IR instruction format.
func (info *Info) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, f := range info.Functions() {
		written, err := f.WriteTo(w)
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// WriteFunc writes the Function found at path to w in human readable SSA IR
// instruction format.
func (info *Info) WriteFunc(w io.Writer, path string) (int64, error) {
	f, err := info.FindFunc(path)
	if err != nil {
		return 0, err
	}
	return f.WriteTo(w)
}
