package sources

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/confdoc/java"
	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func zipBytes(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "com", "a", "A.java"), "package com.a;\nclass A {}")
	writeFile(t, filepath.Join(dir, "com", "a", "package-info.java"), "package com.a;")
	writeFile(t, filepath.Join(dir, "com", "b", "B.java"), "package com.b;\nclass B { int x = ; }")
	writeFile(t, filepath.Join(dir, "README.md"), "# not java")

	cb := java.NewCodebase(nil)
	var calls int
	res, err := New(cb, WithProgress(func(done, total int) { calls++ })).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(res.Files) != 2 || calls != 2 {
		t.Fatalf("files = %d, progress calls = %d", len(res.Files), calls)
	}
	if cb.Class("com.a.A") == nil || cb.Class("com.b.B") == nil {
		t.Error("expected both classes to be loaded")
	}
	if len(res.SyntaxErrors()) == 0 {
		t.Error("expected the syntax error of B.java to be reported")
	}
}

func TestLoadArchive(t *testing.T) {
	dir := t.TempDir()
	inner := zipBytes(t, map[string][]byte{
		"lib/Inner.java": []byte("package lib;\nclass Inner {}"),
	})
	archive := filepath.Join(dir, "sources.zip")
	if err := os.WriteFile(archive, zipBytes(t, map[string][]byte{
		"app/App.java":   []byte("package app;\nclass App {}"),
		"deps/lib.jar":   inner,
		"META-INF/x.txt": []byte("x"),
		"broken/bad.jar": []byte("not a zip"),
	}), 0o644); err != nil {
		t.Fatal(err)
	}

	cb := java.NewCodebase(nil)
	res, err := New(cb).Load(context.Background(), archive)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var names []string
	for _, f := range res.Files {
		names = append(names, f.Path)
	}
	want := []string{archive + "!/app/App.java", archive + "!/deps/lib.jar!/lib/Inner.java"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	if len(res.Errors) != 1 {
		t.Errorf("expected one error for the broken jar, got %v", res.Errors)
	}
}

func TestLoadCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "A.java"), "class A {}")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New(java.NewCodebase(nil)).Load(ctx, dir); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestLoadMissingPath(t *testing.T) {
	if _, err := New(java.NewCodebase(nil)).Load(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("expected error for missing path")
	}
}
