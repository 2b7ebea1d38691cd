package build

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"

	"github.com/nickng/boil/ssa"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
	gossa "golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// ErrLoad is returned when the source cannot be loaded or type checked.
var ErrLoad = errors.New("cannot load source")

// loadMode is the go/packages mode needed to build SSA from syntax.
const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedImports | packages.NeedTypes | packages.NeedTypesSizes |
	packages.NeedSyntax | packages.NeedTypesInfo

// buildMode is the SSA builder mode.
const buildMode = gossa.GlobalDebug | gossa.BareInits

type Configurer interface {
	Builder
	Default() Configurer
	AddBadPkg(pkg, reason string) Configurer
	WithLogger(l *zap.SugaredLogger) Configurer
}

// Config represents a build configuration.
type Config struct {
	badPkgs map[string]string

	logger *zap.SugaredLogger // Build log.

	src interface{} // src points to the program source.
}

func newConfig(src interface{}) *Config {
	return &Config{
		badPkgs: make(map[string]string),
		logger:  zap.NewNop().Sugar(),
		src:     src,
	}
}

// WithLogger adds build log to config.
func (c *Config) WithLogger(l *zap.SugaredLogger) Configurer {
	if l != nil {
		c.logger = l
	}
	return c
}

// AddBadPkg marks a package 'bad' to avoid building.
func (c *Config) AddBadPkg(pkg, reason string) Configurer {
	c.badPkgs[pkg] = reason
	return c
}

// Default returns a default configuration for static analysis.
func (c *Config) Default() Configurer {
	return c.
		AddBadPkg("reflect", "Reflection is not supported").
		AddBadPkg("runtime", "Runtime is ignored for static analysis")
}

func (c *Config) Build() (*ssa.Info, error) {
	switch src := c.src.(type) {
	case *FileSrc:
		return c.buildFiles(src)
	case *CachedSrc:
		return c.buildReader(src)
	}
	return nil, errors.Errorf("unknown source type %T", c.src)
}

func (c *Config) buildFiles(src *FileSrc) (*ssa.Info, error) {
	if len(src.Files) == 0 {
		return nil, errors.Wrap(ErrLoad, "no files given")
	}
	lconf := &packages.Config{Mode: loadMode}
	lpkgs, err := packages.Load(lconf, src.Files...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load packages")
	}
	var errs []string
	packages.Visit(lpkgs, nil, func(p *packages.Package) {
		for _, e := range p.Errors {
			errs = append(errs, e.Error())
		}
	})
	if len(errs) > 0 {
		return nil, errors.Wrap(ErrLoad, strings.Join(errs, "; "))
	}
	c.logger.Infof("Program loaded and type checked: %d package(s)", len(lpkgs))

	prog, pkgs := ssautil.Packages(lpkgs, buildMode)
	info := &ssa.Info{
		FSet:   prog.Fset,
		Prog:   prog,
		Logger: c.logger,
	}
	for _, pkg := range pkgs {
		if pkg == nil {
			continue
		}
		if reason, badPkg := c.badPkgs[pkg.Pkg.Name()]; badPkg {
			c.logger.Infof("Skip package: %s (%s)", pkg.Pkg.Name(), reason)
			info.IgnoredPkgs = append(info.IgnoredPkgs, pkg.Pkg.Name())
			continue
		}
		pkg.Build()
		info.Pkgs = append(info.Pkgs, pkg)
	}
	return info, nil
}

func (c *Config) buildReader(src *CachedSrc) (*ssa.Info, error) {
	if src.err != nil {
		return nil, src.err
	}
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "tmp.go", src.NewReader(), parser.ParseComments)
	if err != nil {
		return nil, errors.Wrap(ErrLoad, err.Error())
	}
	name := file.Name.Name
	if reason, badPkg := c.badPkgs[name]; badPkg {
		return nil, errors.Wrapf(ErrLoad, "package %s is marked bad (%s)", name, reason)
	}

	tconf := &types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, _, err := ssautil.BuildPackage(tconf, fset, types.NewPackage(name, name), []*ast.File{file}, buildMode)
	if err != nil {
		return nil, errors.Wrap(ErrLoad, err.Error())
	}
	c.logger.Infof("Program loaded and type checked: %s", name)

	info := &ssa.Info{
		FSet:   fset,
		Prog:   pkg.Prog,
		Pkgs:   []*gossa.Package{pkg},
		Logger: c.logger,
	}
	// Imported packages are created from type information only.
	for _, p := range pkg.Prog.AllPackages() {
		if _, badPkg := c.badPkgs[p.Pkg.Name()]; badPkg {
			info.IgnoredPkgs = append(info.IgnoredPkgs, p.Pkg.Name())
		}
	}
	return info, nil
}
