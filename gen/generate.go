package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/kbukum/atlas/logger"
)

// Options configures Generate.
type Options struct {
	// Dir is the directory packages are loaded from. Empty means the
	// current directory.
	Dir string
	// Patterns are package patterns as accepted by go list. Empty means ".".
	Patterns []string
	// Interfaces restricts generation to the named interfaces.
	Interfaces []string
	// Output overrides the generated file name. Only valid with one package.
	Output string
	// BuildTags are passed to the loader.
	BuildTags []string
}

// Output is one rendered file.
type Output struct {
	Path    string
	Package string
	Source  []byte
}

// Types are checked from source so a stale generated file only produces
// errors that loadErrors can skip.
const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
	packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo

// Generate loads the packages matched by opts and renders one typed facade
// file per package. Nothing is written; see Write.
func Generate(ctx context.Context, opts Options) ([]Output, error) {
	log := logger.Get("facadegen")

	patterns := opts.Patterns
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     opts.Dir,
		Tests:   false,
	}
	if len(opts.BuildTags) > 0 {
		cfg.BuildFlags = []string{"-tags=" + strings.Join(opts.BuildTags, ",")}
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if err := loadErrors(pkgs, opts.Output); err != nil {
		return nil, err
	}
	if opts.Output != "" && len(pkgs) > 1 {
		return nil, fmt.Errorf("output file set but %d packages matched", len(pkgs))
	}

	var outputs []Output
	for _, pkg := range pkgs {
		if pkg.PkgPath == FacadeImport {
			return nil, fmt.Errorf("cannot generate facades inside %s", FacadeImport)
		}
		file, err := NewInspector(pkg.Types).Inspect(opts.Interfaces)
		if err != nil {
			return nil, err
		}
		if len(file.Interfaces) == 0 {
			log.Warn("no interfaces found", logger.Fields("package", pkg.PkgPath))
			continue
		}

		path := outputPath(pkg, opts.Output)
		src, err := Render(path, file)
		if err != nil {
			return nil, err
		}
		log.Debug("facades rendered", logger.Fields(
			"package", pkg.PkgPath,
			"interfaces", len(file.Interfaces),
			"file", path,
		))
		outputs = append(outputs, Output{Path: path, Package: pkg.PkgPath, Source: src})
	}
	return outputs, nil
}

// loadErrors reports the first load error, ignoring type errors inside a
// previously generated file, which is about to be replaced.
func loadErrors(pkgs []*packages.Package, override string) error {
	for _, pkg := range pkgs {
		generated := filepath.Base(outputPath(pkg, override))
		for _, e := range pkg.Errors {
			if e.Kind == packages.TypeError && strings.Contains(e.Pos, generated) {
				continue
			}
			return fmt.Errorf("loading %s: %w", pkg.PkgPath, e)
		}
	}
	return nil
}

func outputPath(pkg *packages.Package, override string) string {
	dir := "."
	if len(pkg.GoFiles) > 0 {
		dir = filepath.Dir(pkg.GoFiles[0])
	}
	if override != "" {
		if filepath.IsAbs(override) {
			return override
		}
		return filepath.Join(dir, override)
	}
	return filepath.Join(dir, pkg.Name+"_facade.go")
}

// Write writes every output to its path.
func Write(outputs []Output) error {
	for _, o := range outputs {
		if err := os.WriteFile(o.Path, o.Source, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", o.Path, err)
		}
	}
	return nil
}
