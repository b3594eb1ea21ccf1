// Package lsp serves the properties of a workspace to editors: hovering
// a property declaration shows its environment variable and default,
// and advisories are published as diagnostics.
package lsp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/confdoc/config"
	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
	"github.com/dhamidi/confdoc/java/sources"
	"github.com/dhamidi/confdoc/project"
	"github.com/dhamidi/confdoc/property"
	"github.com/dhamidi/confdoc/render"
)

var log = commonlog.GetLogger("confdoc.lsp")

// Workspace holds the parsed sources of a project and the properties
// found in them after the latest analysis.
type Workspace struct {
	rootDir string
	options *config.Options

	mu       sync.Mutex
	codebase *java.Codebase
	srcDirs  []string
	docs     []render.Documented
	byFile   map[string][]*property.Record
	diags    map[string][]diagnostic.Diagnostic
	// published remembers files that had diagnostics so that they can
	// be cleared once fixed.
	published map[string]bool
}

func NewWorkspace(rootDir string, opts *config.Options) *Workspace {
	if opts == nil {
		opts = config.Default()
	}
	return &Workspace{
		rootDir:   rootDir,
		options:   opts,
		codebase:  java.NewCodebase(nil),
		srcDirs:   []string{rootDir},
		published: make(map[string]bool),
	}
}

// RootDir returns the directory the workspace was opened on.
func (w *Workspace) RootDir() string { return w.rootDir }

// SourceDirs returns the directories scanned for Java files.
func (w *Workspace) SourceDirs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.srcDirs...)
}

// ScanAll loads every source of the project and analyzes it. A project
// layout is detected when possible; otherwise the whole root is scanned.
func (w *Workspace) ScanAll(ctx context.Context) error {
	srcDirs := []string{w.rootDir}
	classpath := append([]string(nil), w.options.Classpath...)
	if proj, err := project.Detect(w.rootDir); err == nil {
		srcDirs = proj.SourceDirs()
		classpath = append(classpath, proj.Classpath()...)
	} else {
		log.Debugf("no project layout in %s, scanning everything: %s", w.rootDir, err)
	}

	var cp *java.Classpath
	if len(classpath) > 0 {
		var err error
		if cp, err = java.OpenClasspath(classpath...); err != nil {
			log.Warningf("classpath unavailable: %s", err)
			cp = nil
		}
	}

	cb := java.NewCodebase(cp)
	res, err := sources.New(cb).Load(ctx, srcDirs...)
	if err != nil {
		return fmt.Errorf("scan workspace: %w", err)
	}
	for _, msg := range res.Errors {
		log.Warningf("%s", msg)
	}

	w.mu.Lock()
	if old := w.codebase.Classpath(); old != nil {
		old.Close()
	}
	w.codebase = cb
	w.srcDirs = srcDirs
	w.mu.Unlock()
	return w.Analyze(ctx)
}

// UpdateFile replaces the content of one file and re-analyzes.
func (w *Workspace) UpdateFile(ctx context.Context, path string, content []byte) error {
	w.mu.Lock()
	w.codebase.AddSource(path, content)
	w.mu.Unlock()
	return w.Analyze(ctx)
}

// SetContent replaces the content of one file without re-analyzing.
func (w *Workspace) SetContent(path string, content []byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.codebase.AddSource(path, content)
}

// RemoveFile drops a deleted file and re-analyzes.
func (w *Workspace) RemoveFile(ctx context.Context, path string) error {
	w.mu.Lock()
	w.codebase.RemoveFile(path)
	w.mu.Unlock()
	return w.Analyze(ctx)
}

// Analyze collects the properties of the current sources. A fatal
// configuration error becomes a diagnostic of its own and leaves the
// workspace without properties.
func (w *Workspace) Analyze(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sink := diagnostic.NewSink(log, w.codebase)
	records, err := property.Collect(ctx, w.codebase, sink, w.options.CollectOptions())
	var fatal *diagnostic.FatalError
	switch {
	case errors.As(err, &fatal):
		records = nil
	case err != nil:
		return err
	}

	gen := render.NewGenerator(render.NewFormatter(render.Markdown, false), sink, property.NewEvaluator(w.codebase))
	w.docs = gen.DocumentAll(records)

	w.byFile = make(map[string][]*property.Record)
	for _, r := range records {
		if r.Decl.IsZero() {
			continue
		}
		file := r.Decl.Pos().File
		w.byFile[file] = append(w.byFile[file], r)
	}

	w.diags = make(map[string][]diagnostic.Diagnostic)
	for _, f := range w.codebase.Files() {
		for _, e := range f.Errors {
			w.diags[f.Path] = append(w.diags[f.Path], diagnostic.Diagnostic{
				Severity: diagnostic.Error,
				Subject:  diagnostic.At(e.Pos, ""),
				Message:  e.Message,
			})
		}
	}
	for _, d := range sink.Diagnostics() {
		file := d.Subject.Pos.File
		if file == "" {
			continue
		}
		w.diags[file] = append(w.diags[file], d)
	}
	log.Debugf("analyzed %d files: %d properties", len(w.codebase.Files()), len(w.docs))
	return nil
}

// Diagnostics returns the diagnostics per file, including an empty list
// for every file that had diagnostics before and has none now.
func (w *Workspace) Diagnostics() map[string][]diagnostic.Diagnostic {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make(map[string][]diagnostic.Diagnostic, len(w.diags))
	for file := range w.published {
		out[file] = nil
	}
	w.published = make(map[string]bool, len(w.diags))
	for file, ds := range w.diags {
		out[file] = append([]diagnostic.Diagnostic(nil), ds...)
		w.published[file] = true
	}
	return out
}

// Documented returns the rendered properties of the latest analysis.
func (w *Workspace) Documented() []render.Documented {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]render.Documented(nil), w.docs...)
}

// Hover is the description of a property declaration.
type Hover struct {
	Text string
	Pos  java.Pos
	Name string
}

// Hover describes the property declared at the 1-based line and column
// of path, if any. The column may point anywhere inside the name.
func (w *Workspace) Hover(path string, line, column int) (Hover, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, r := range w.byFile[path] {
		pos := r.Decl.Pos()
		name := r.Decl.Name()
		if pos.Line != line || column < pos.Column || column > pos.Column+len(name) {
			continue
		}
		var doc *render.Documented
		for i := range w.docs {
			if w.docs[i].Record == r {
				doc = &w.docs[i]
				break
			}
		}
		return Hover{Text: hoverText(r, doc), Pos: pos, Name: name}, true
	}
	return Hover{}, false
}

func hoverText(r *property.Record, doc *render.Documented) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s**", r.Name)
	var flags []string
	if r.Required {
		flags = append(flags, "required")
	}
	if r.Deprecated {
		flags = append(flags, "deprecated")
	}
	if doc == nil {
		flags = append(flags, "hidden")
	}
	if len(flags) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(flags, ", "))
	}
	sb.WriteString("\n\n")
	if r.HasDefault {
		fmt.Fprintf(&sb, "Default: `%s`\n\n", r.Default)
	} else {
		sb.WriteString("No default\n\n")
	}
	if doc != nil && doc.Description != "" {
		sb.WriteString(strings.ReplaceAll(doc.Description, "<br>", "  \n"))
		sb.WriteString("\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}
