package gen

import (
	"go/ast"
	"go/importer"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
	"testing"
)

const sample = `package shop

import (
	"context"
	"time"
)

type Item struct{ ID int }

type Repository interface {
	Count() int
	Format(format string, args ...any) string
	Load(ctx context.Context, id int) (*Item, error)
	Save(item Item) error
	Touch()
	Window() (time.Time, time.Time, error)
}

type Clock interface {
	Now() time.Time
}

type Box[T any] interface {
	Get() T
}

type notAnInterface struct{}
`

func checkSample(t *testing.T) *types.Package {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "shop.go", sample, 0)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	conf := types.Config{Importer: importer.ForCompiler(fset, "source", nil)}
	pkg, err := conf.Check("example.com/shop", fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatalf("type check: %v", err)
	}
	return pkg
}

func TestInspect_AllInterfaces(t *testing.T) {
	file, err := NewInspector(checkSample(t)).Inspect(nil)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if file.Package != "shop" {
		t.Errorf("expected package shop, got %q", file.Package)
	}
	var names []string
	for _, i := range file.Interfaces {
		names = append(names, i.Name)
	}
	if strings.Join(names, ",") != "Clock,Repository" {
		t.Errorf("expected Clock and Repository (generic Box skipped), got %v", names)
	}

	var paths []string
	for _, imp := range file.Imports {
		paths = append(paths, imp.Path)
	}
	if strings.Join(paths, ",") != "context,github.com/kbukum/atlas/facade,time" {
		t.Errorf("unexpected imports %v", paths)
	}
}

func TestInspect_Methods(t *testing.T) {
	file, err := NewInspector(checkSample(t)).Inspect([]string{"Repository"})
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	methods := map[string]Method{}
	for _, m := range file.Interfaces[0].Methods {
		methods[m.Name] = m
	}

	tests := []struct {
		name      string
		signature string
		invoke    string
	}{
		{"Count", "() int", `"Count"`},
		{"Format", "(p0 string, p1 ...any) string", `"Format", p0, p1`},
		{"Load", "(p0 context.Context, p1 int) (*Item, error)", `"Load", p0, p1`},
		{"Save", "(p0 Item) error", `"Save", p0`},
		{"Touch", "()", `"Touch"`},
		{"Window", "() (time.Time, time.Time, error)", `"Window"`},
	}
	for _, tt := range tests {
		m, ok := methods[tt.name]
		if !ok {
			t.Errorf("missing method %s", tt.name)
			continue
		}
		if got := m.Signature(); got != tt.signature {
			t.Errorf("%s: signature %q, want %q", tt.name, got, tt.signature)
		}
		if got := m.InvokeArgs(); got != tt.invoke {
			t.Errorf("%s: invoke args %q, want %q", tt.name, got, tt.invoke)
		}
	}
}

func TestInspect_Errors(t *testing.T) {
	pkg := checkSample(t)
	if _, err := NewInspector(pkg).Inspect([]string{"Missing"}); err == nil {
		t.Error("expected error for unknown type")
	}
	if _, err := NewInspector(pkg).Inspect([]string{"notAnInterface"}); err == nil {
		t.Error("expected error for struct type")
	}
	if _, err := NewInspector(pkg).Inspect([]string{"Box"}); err == nil {
		t.Error("expected error for generic interface")
	}
}

func TestRender(t *testing.T) {
	file, err := NewInspector(checkSample(t)).Inspect(nil)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	src, err := Render("shop_facade.go", file)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := string(src)

	if _, err := parser.ParseFile(token.NewFileSet(), "shop_facade.go", src, 0); err != nil {
		t.Fatalf("generated source does not parse: %v\n%s", err, out)
	}
	for _, want := range []string{
		"// Code generated by facadegen",
		"DO NOT EDIT.",
		"package shop",
		`"github.com/kbukum/atlas/facade"`,
		"type repositoryFacade struct{ p *facade.Proxy }",
		"func (f *repositoryFacade) Count() int {",
		`out := facade.Must(f.p.Invoke("Count"))`,
		"return facade.Result[int](out, 0)",
		`out := facade.Must(f.p.Invoke("Format", p0, p1))`,
		`out, err := f.p.Invoke("Load", p0, p1)`,
		"var r0 *Item",
		"return r0, err",
		"return facade.Result[*Item](out, 0), nil",
		`_, err := f.p.Invoke("Save", p0)`,
		`facade.Must(f.p.Invoke("Touch"))`,
		"return facade.Result[time.Time](out, 0), facade.Result[time.Time](out, 1), nil",
		"facade.Implement(func(p *facade.Proxy) Clock { return &clockFacade{p} })",
		"facade.Implement(func(p *facade.Proxy) Repository { return &repositoryFacade{p} })",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in generated source:\n%s", want, out)
		}
	}
}

func TestInterfaceImpl(t *testing.T) {
	if got := (Interface{Name: "Greeter"}).Impl(); got != "greeterFacade" {
		t.Errorf("expected greeterFacade, got %q", got)
	}
}

func TestQualify_AliasesClashingNames(t *testing.T) {
	in := NewInspector(types.NewPackage("example.com/a", "a"))
	first := in.qualify(types.NewPackage("example.com/x/log", "log"))
	second := in.qualify(types.NewPackage("example.com/y/log", "log"))
	again := in.qualify(types.NewPackage("example.com/x/log", "log"))
	if first != "log" || second != "log2" || again != "log" {
		t.Errorf("unexpected qualifiers %q %q %q", first, second, again)
	}
}
