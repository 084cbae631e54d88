package generator

import (
	"bytes"
	"embed"
	"strings"
	"text/template"

	"golang.org/x/tools/imports"

	"github.com/ariel-frischer/contractkit/internal/errors"
)

// Autogenerated artifact names.
const (
	ConfigFile     = "config_autogen.go"
	IOTypesFile    = "io_types_autogen.go"
	ValidatorsFile = "validators_autogen.go"
	PipelineFile   = "pipeline_autogen.go"
	CLIFile        = "cli_autogen.go"
	ReadmeFile     = "README_autogen.md"
)

// Hand-written files the generator never touches.
const (
	PipelineImplFile = "pipeline.go"
	ManualFile       = "manual.go"
	DocFile          = "doc.go"
)

// artifacts in render and commit order.
var artifacts = []struct {
	name     string
	template string
}{
	{ConfigFile, "config.go.tmpl"},
	{IOTypesFile, "io_types.go.tmpl"},
	{ValidatorsFile, "validators.go.tmpl"},
	{PipelineFile, "pipeline.go.tmpl"},
	{CLIFile, "cli.go.tmpl"},
	{ReadmeFile, "readme.md.tmpl"},
}

// AutogenFiles returns the autogenerated file names in commit order.
func AutogenFiles() []string {
	out := make([]string, len(artifacts))
	for i, a := range artifacts {
		out[i] = a.name
	}
	return out
}

// ManualFiles returns the hand-written file names, sorted.
func ManualFiles() []string {
	return []string{DocFile, ManualFile, PipelineImplFile}
}

func isAutogen(name string) bool {
	for _, a := range artifacts {
		if a.name == name {
			return true
		}
	}
	return false
}

func isManual(name string) bool {
	for _, m := range ManualFiles() {
		if m == name {
			return true
		}
	}
	return false
}

//go:embed templates/*.tmpl
var templateFS embed.FS

var templates = template.Must(template.New("contractkit").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.tmpl"))

var formatOptions = &imports.Options{
	FormatOnly: true,
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
}

// renderedFile is one artifact rendered in memory.
type renderedFile struct {
	name string
	data []byte
}

// render executes every template. Go output is gofmt-formatted; a
// formatting failure means the templates produced invalid Go.
func render(m *model) ([]renderedFile, error) {
	out := make([]renderedFile, 0, len(artifacts))
	for _, a := range artifacts {
		var buf bytes.Buffer
		if err := templates.ExecuteTemplate(&buf, a.template, m); err != nil {
			return nil, errors.Wrapf(err, "rendering %s", a.name)
		}
		data := append(bytes.TrimRight(buf.Bytes(), "\n"), '\n')
		if strings.HasSuffix(a.name, ".go") {
			formatted, err := imports.Process(a.name, data, formatOptions)
			if err != nil {
				return nil, errors.Wrapf(err, "formatting %s for module %s", a.name, m.Abbr)
			}
			data = formatted
		}
		out = append(out, renderedFile{name: a.name, data: data})
	}
	return out, nil
}
