// Package sources loads Java source files from directories and source
// archives into a codebase.
package sources

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dhamidi/confdoc/java"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("confdoc.sources")

// Result summarizes a load.
type Result struct {
	Files  []*java.File
	Errors []string
}

// SyntaxErrors returns the syntax errors of every loaded file.
func (r *Result) SyntaxErrors() []java.SyntaxError {
	var out []java.SyntaxError
	for _, f := range r.Files {
		out = append(out, f.Errors...)
	}
	return out
}

// Loader adds Java sources to a codebase.
type Loader struct {
	codebase *java.Codebase
	progress func(done, total int)
}

type Option func(*Loader)

// WithProgress registers a callback invoked after every file.
func WithProgress(fn func(done, total int)) Option {
	return func(l *Loader) {
		l.progress = fn
	}
}

func New(cb *java.Codebase, opts ...Option) *Loader {
	l := &Loader{codebase: cb}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

type source struct {
	name string
	read func() ([]byte, error)
}

// Load walks each path: directories recursively for .java files, and
// .jar or .zip archives for .java entries, including archives nested
// inside them. Unreadable entries are reported in the result and
// skipped; the context is checked between files.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Result, error) {
	res := &Result{}
	var srcs []source
	var archives []io.Closer
	defer func() {
		for _, a := range archives {
			a.Close()
		}
	}()

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("load sources: %w", err)
		}
		switch {
		case info.IsDir():
			found, errs := walkDirectory(path)
			srcs = append(srcs, found...)
			res.Errors = append(res.Errors, errs...)
		case isArchive(path):
			zr, err := zip.OpenReader(path)
			if err != nil {
				return nil, fmt.Errorf("open source archive %s: %w", path, err)
			}
			archives = append(archives, zr)
			found, errs := archiveSources(path, &zr.Reader)
			srcs = append(srcs, found...)
			res.Errors = append(res.Errors, errs...)
		case strings.HasSuffix(path, ".java"):
			srcs = append(srcs, fileSource(path))
		default:
			return nil, fmt.Errorf("load sources: %s is neither a directory, a .java file nor a source archive", path)
		}
	}

	for i, src := range srcs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := src.read()
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("read %s: %v", src.name, err))
			continue
		}
		f := l.codebase.AddSource(src.name, data)
		for _, e := range f.Errors {
			log.Debugf("%s", e.Error())
		}
		res.Files = append(res.Files, f)
		if l.progress != nil {
			l.progress(i+1, len(srcs))
		}
	}
	log.Infof("loaded %d java files", len(res.Files))
	return res, nil
}

func fileSource(path string) source {
	return source{name: path, read: func() ([]byte, error) { return os.ReadFile(path) }}
}

func walkDirectory(root string) ([]source, []string) {
	var srcs []source
	var errs []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			errs = append(errs, fmt.Sprintf("walk %s: %v", p, err))
			return nil
		}
		if !d.IsDir() && isJavaSource(p) {
			srcs = append(srcs, fileSource(p))
		}
		return nil
	})
	if err != nil {
		errs = append(errs, fmt.Sprintf("walk %s: %v", root, err))
	}
	return srcs, errs
}

func archiveSources(name string, zr *zip.Reader) ([]source, []string) {
	var srcs []source
	var errs []string
	files := append([]*zip.File(nil), zr.File...)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	for _, f := range files {
		if f.FileInfo().IsDir() {
			continue
		}
		entry := name + "!/" + f.Name
		switch {
		case isJavaSource(f.Name):
			srcs = append(srcs, source{name: entry, read: zipReader(f)})
		case isArchive(f.Name):
			data, err := zipReader(f)()
			if err != nil {
				errs = append(errs, fmt.Sprintf("read %s: %v", entry, err))
				continue
			}
			inner, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
			if err != nil {
				errs = append(errs, fmt.Sprintf("open %s as zip: %v", entry, err))
				continue
			}
			found, innerErrs := archiveSources(entry, inner)
			srcs = append(srcs, found...)
			errs = append(errs, innerErrs...)
		}
	}
	return srcs, errs
}

func zipReader(f *zip.File) func() ([]byte, error) {
	return func() ([]byte, error) {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return io.ReadAll(rc)
	}
}

func isJavaSource(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, ".java") && base != "module-info.java" && base != "package-info.java"
}

func isArchive(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jar" || ext == ".zip"
}
