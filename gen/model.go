package gen

import (
	"fmt"
	"go/types"
	"sort"
	"strings"
)

// FacadeImport is the import path of the facade package.
const FacadeImport = "github.com/kbukum/atlas/facade"

// File is the model of one generated file.
type File struct {
	Package    string
	Imports    []Import
	Interfaces []Interface
}

// Import is one import of a generated file.
type Import struct {
	Name string // empty unless the package is aliased
	Path string
}

// Interface is an interface to generate a typed facade for.
type Interface struct {
	Name    string
	Methods []Method
}

// Impl returns the name of the generated struct.
func (i Interface) Impl() string {
	return strings.ToLower(i.Name[:1]) + i.Name[1:] + "Facade"
}

// Method is one interface method.
type Method struct {
	Name         string
	Params       []string // parameter types; a variadic tail is "...T"
	Results      []string // result types without the trailing error
	ReturnsError bool
}

// Signature returns the parameter and result lists, e.g.
// "(p0 string, p1 ...any) (int, error)".
func (m Method) Signature() string {
	params := make([]string, len(m.Params))
	for i, t := range m.Params {
		params[i] = fmt.Sprintf("p%d %s", i, t)
	}
	results := append([]string(nil), m.Results...)
	if m.ReturnsError {
		results = append(results, "error")
	}

	sig := "(" + strings.Join(params, ", ") + ")"
	switch len(results) {
	case 0:
	case 1:
		sig += " " + results[0]
	default:
		sig += " (" + strings.Join(results, ", ") + ")"
	}
	return sig
}

// InvokeArgs returns the arguments of the Proxy.Invoke call. A variadic
// tail is passed as one slice.
func (m Method) InvokeArgs() string {
	args := []string{fmt.Sprintf("%q", m.Name)}
	for i := range m.Params {
		args = append(args, fmt.Sprintf("p%d", i))
	}
	return strings.Join(args, ", ")
}

// Inspector builds File models from type-checked packages.
type Inspector struct {
	pkg     *types.Package
	imports map[string]string // path -> name used in the file
	names   map[string]string // name -> path
}

// NewInspector creates an Inspector for interfaces declared in pkg.
func NewInspector(pkg *types.Package) *Inspector {
	in := &Inspector{
		pkg:     pkg,
		imports: make(map[string]string),
		names:   make(map[string]string),
	}
	in.use(FacadeImport, "facade")
	return in
}

// Inspect returns the model of the named interfaces, or of every
// non-generic interface type declared in the package when names is empty.
func (in *Inspector) Inspect(names []string) (*File, error) {
	scope := in.pkg.Scope()
	if len(names) == 0 {
		for _, n := range scope.Names() {
			if isInterface(scope.Lookup(n)) {
				names = append(names, n)
			}
		}
	}

	file := &File{Package: in.pkg.Name()}
	for _, n := range names {
		obj := scope.Lookup(n)
		if obj == nil {
			return nil, fmt.Errorf("%s: no type %s", in.pkg.Path(), n)
		}
		if !isInterface(obj) {
			return nil, fmt.Errorf("%s.%s is not a non-generic interface type", in.pkg.Path(), n)
		}
		file.Interfaces = append(file.Interfaces, in.inspect(obj.(*types.TypeName)))
	}

	for path, name := range in.imports {
		imp := Import{Path: path}
		if name != lastElem(path) {
			imp.Name = name
		}
		file.Imports = append(file.Imports, imp)
	}
	sort.Slice(file.Imports, func(i, j int) bool { return file.Imports[i].Path < file.Imports[j].Path })
	return file, nil
}

func isInterface(obj types.Object) bool {
	tn, ok := obj.(*types.TypeName)
	if !ok || tn.IsAlias() {
		return false
	}
	named, ok := tn.Type().(*types.Named)
	if !ok || named.TypeParams().Len() > 0 {
		return false
	}
	_, ok = named.Underlying().(*types.Interface)
	return ok
}

func (in *Inspector) inspect(tn *types.TypeName) Interface {
	iface := tn.Type().Underlying().(*types.Interface)
	out := Interface{Name: tn.Name()}
	for i := 0; i < iface.NumMethods(); i++ {
		fn := iface.Method(i)
		out.Methods = append(out.Methods, in.method(fn.Name(), fn.Type().(*types.Signature)))
	}
	return out
}

func (in *Inspector) method(name string, sig *types.Signature) Method {
	m := Method{Name: name}
	params := sig.Params()
	for i := 0; i < params.Len(); i++ {
		t := params.At(i).Type()
		if sig.Variadic() && i == params.Len()-1 {
			m.Params = append(m.Params, "..."+in.typeString(t.(*types.Slice).Elem()))
			continue
		}
		m.Params = append(m.Params, in.typeString(t))
	}

	results := sig.Results()
	n := results.Len()
	if n > 0 && isError(results.At(n-1).Type()) {
		m.ReturnsError = true
		n--
	}
	for i := 0; i < n; i++ {
		m.Results = append(m.Results, in.typeString(results.At(i).Type()))
	}
	return m
}

func isError(t types.Type) bool {
	return types.Identical(t, types.Universe.Lookup("error").Type())
}

func (in *Inspector) typeString(t types.Type) string {
	return types.TypeString(t, in.qualify)
}

func (in *Inspector) qualify(p *types.Package) string {
	if p == in.pkg {
		return ""
	}
	if name, ok := in.imports[p.Path()]; ok {
		return name
	}
	name := p.Name()
	for i := 2; ; i++ {
		if _, taken := in.names[name]; !taken {
			break
		}
		name = fmt.Sprintf("%s%d", p.Name(), i)
	}
	in.use(p.Path(), name)
	return name
}

func (in *Inspector) use(path, name string) {
	in.imports[path] = name
	in.names[name] = path
}

func lastElem(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
