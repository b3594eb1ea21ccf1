package render

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"
)

//go:embed templates/*.tpl
var builtinFiles embed.FS

func init() {
	if !pongo2.FilterExists("single_line") {
		pongo2.RegisterFilter("single_line", filterSingleLine)
	}
}

// filterSingleLine replaces newlines with its parameter, the formatter's
// line break, so that a value fits in one Markdown table row.
func filterSingleLine(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	linebreak := " "
	if param != nil && !param.IsNil() {
		linebreak = param.String()
	}
	s := strings.ReplaceAll(in.String(), "\r", "")
	return pongo2.AsValue(strings.ReplaceAll(s, "\n", linebreak)), nil
}

// Template is a parsed documentation template.
type Template struct {
	tpl *pongo2.Template
}

// BuiltinTemplate returns the table template shipped for format.
func BuiltinTemplate(format Format) (*Template, error) {
	sub, err := fs.Sub(builtinFiles, "templates")
	if err != nil {
		return nil, err
	}
	name := "table." + format.Extension() + ".tpl"
	log.Debugf("loading internal template %s", name)
	return load(pongo2.NewFSLoader(sub), name)
}

// LoadTemplate parses the template file at path. Templates it includes
// or extends are resolved relative to its directory.
func LoadTemplate(path string) (*Template, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve template path: %w", err)
	}
	loader, err := pongo2.NewLocalFileSystemLoader(filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("create template loader: %w", err)
	}
	log.Debugf("loading template from %s", abs)
	return load(loader, filepath.Base(abs))
}

func load(loader pongo2.TemplateLoader, name string) (*Template, error) {
	set := pongo2.NewSet("confdoc", loader)
	set.Options.TrimBlocks = true
	set.Options.LStripBlocks = true
	tpl, err := set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("load template %q: %w", name, err)
	}
	return &Template{tpl: tpl}, nil
}

// Execute writes the documentation of options to w. The template sees
// options, format (HTML or MD) and nl, the formatter's line break.
func (t *Template) Execute(w io.Writer, f Formatter, options []Documented) error {
	ctx := pongo2.Context{
		"options": options,
		"format":  string(f.Format()),
		"nl":      f.Linebreak(),
	}
	if err := t.tpl.ExecuteWriter(ctx, w); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	return nil
}
