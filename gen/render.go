package gen

import (
	"bytes"
	"fmt"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/kbukum/atlas/version"
)

var fileTemplate = template.Must(template.New("facade").Parse(`// Code generated by facadegen {{.Version}}. DO NOT EDIT.

package {{.File.Package}}

import (
{{- range .File.Imports}}
	{{if .Name}}{{.Name}} {{end}}"{{.Path}}"
{{- end}}
)
{{range $iface := .File.Interfaces}}
type {{$iface.Impl}} struct{ p *facade.Proxy }
{{range $iface.Methods}}
func (f *{{$iface.Impl}}) {{.Name}}{{.Signature}} {
{{- if .ReturnsError}}
{{- if .Results}}
	out, err := f.p.Invoke({{.InvokeArgs}})
	if err != nil {
{{- range $i, $t := .Results}}
		var r{{$i}} {{$t}}
{{- end}}
		return {{range $i, $t := .Results}}r{{$i}}, {{end}}err
	}
	return {{range $i, $t := .Results}}facade.Result[{{$t}}](out, {{$i}}), {{end}}nil
{{- else}}
	_, err := f.p.Invoke({{.InvokeArgs}})
	return err
{{- end}}
{{- else}}
{{- if .Results}}
	out := facade.Must(f.p.Invoke({{.InvokeArgs}}))
	return {{range $i, $t := .Results}}{{if $i}}, {{end}}facade.Result[{{$t}}](out, {{$i}}){{end}}
{{- else}}
	facade.Must(f.p.Invoke({{.InvokeArgs}}))
{{- end}}
{{- end}}
}
{{end}}
{{- end}}
func init() {
{{- range .File.Interfaces}}
	facade.Implement(func(p *facade.Proxy) {{.Name}} { return &{{.Impl}}{p} })
{{- end}}
}
`))

// Render renders f as formatted Go source. filename is used in error
// messages only.
func Render(filename string, f *File) ([]byte, error) {
	var buf bytes.Buffer
	err := fileTemplate.Execute(&buf, struct {
		Version string
		File    *File
	}{version.Short(), f})
	if err != nil {
		return nil, fmt.Errorf("rendering %s: %w", filename, err)
	}

	src, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("formatting %s: %w\n%s", filename, err, buf.Bytes())
	}
	return src, nil
}
