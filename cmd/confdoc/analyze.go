package main

import (
	"context"
	"fmt"

	"github.com/dhamidi/confdoc/config"
	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
	"github.com/dhamidi/confdoc/java/sources"
	"github.com/dhamidi/confdoc/project"
	"github.com/dhamidi/confdoc/property"
)

// analysis is the outcome of loading and scanning a set of sources.
type analysis struct {
	codebase *java.Codebase
	sink     *diagnostic.Sink
	records  []*property.Record
}

func (a *analysis) Close() error {
	if cp := a.codebase.Classpath(); cp != nil {
		return cp.Close()
	}
	return nil
}

// analyze loads the sources under paths, or those of the project in the
// working directory when paths is empty, and collects their properties.
func analyze(ctx context.Context, opts *config.Options, paths []string) (*analysis, error) {
	classpath := append([]string(nil), opts.Classpath...)
	if len(paths) == 0 {
		proj, err := project.Load()
		if err != nil {
			return nil, err
		}
		log.Infof("detected %s project with %d modules", proj.Layout, len(proj.Modules))
		paths = proj.SourceDirs()
		classpath = append(classpath, proj.Classpath()...)
	}

	var cp *java.Classpath
	if len(classpath) > 0 {
		var err error
		cp, err = java.OpenClasspath(classpath...)
		if err != nil {
			return nil, fmt.Errorf("open classpath: %w", err)
		}
	}

	cb := java.NewCodebase(cp)
	a := &analysis{codebase: cb, sink: diagnostic.NewSink(log, cb)}
	loader := sources.New(cb, sources.WithProgress(func(done, total int) {
		log.Debugf("parsed %d/%d files", done, total)
	}))
	res, err := loader.Load(ctx, paths...)
	if err != nil {
		a.Close()
		return nil, err
	}
	for _, msg := range res.Errors {
		log.Warningf("%s", msg)
	}
	for _, e := range res.SyntaxErrors() {
		a.sink.Warn(diagnostic.At(e.Pos, ""), "Syntax error, declarations may be missing: "+e.Message)
	}

	a.records, err = property.Collect(ctx, cb, a.sink, opts.CollectOptions())
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}
