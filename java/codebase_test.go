package java

import (
	"archive/zip"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/dhamidi/confdoc/classfile"
	"github.com/dhamidi/confdoc/classfile/classfiletest"
	"github.com/google/go-cmp/cmp"
)

func newTestCodebase(t *testing.T, cp *Classpath, files map[string]string) *Codebase {
	t.Helper()
	cb := NewCodebase(cp)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		f := cb.AddSource(name, []byte(files[name]))
		if len(f.Errors) != 0 {
			t.Fatalf("%s: unexpected syntax errors: %v", name, f.Errors)
		}
	}
	return cb
}

func TestCodebaseIndex(t *testing.T) {
	cb := newTestCodebase(t, nil, map[string]string{
		"a/Outer.java": "package a;\nclass Outer { static class Inner { class Deep {} } }",
		"b/Other.java": "package b;\nclass Other {}",
	})

	var names []string
	for _, c := range cb.Classes() {
		names = append(names, c.QualifiedName())
	}
	want := []string{"a.Outer", "a.Outer.Inner", "a.Outer.Inner.Deep", "b.Other"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
	if cb.Class("a.Outer.Inner.Deep") == nil {
		t.Error("nested classes must be indexed")
	}
	if diff := cmp.Diff([]string{"a", "b"}, cb.Packages()); diff != "" {
		t.Errorf("packages mismatch (-want +got):\n%s", diff)
	}

	cb.AddSource("a/Outer.java", []byte("package a;\nclass Renamed {}"))
	if cb.Class("a.Outer") != nil || cb.Class("a.Renamed") == nil {
		t.Error("re-adding a file must replace its classes")
	}
	if len(cb.Files()) != 2 {
		t.Errorf("files = %d, want 2", len(cb.Files()))
	}

	cb.RemoveFile("b/Other.java")
	if cb.Class("b.Other") != nil {
		t.Error("removed file must drop its classes")
	}

	if line, ok := cb.SourceLine("a/Outer.java", 2); !ok || line != "class Renamed {}" {
		t.Errorf("SourceLine = %q, %v", line, ok)
	}
	if _, ok := cb.SourceLine("missing.java", 1); ok {
		t.Error("expected miss for unknown file")
	}
}

func TestResolveType(t *testing.T) {
	cb := newTestCodebase(t, nil, map[string]string{
		"app/Props.java": `package app;
import java.time.Duration;
import lib.*;
import other.Named;
class Props {
    static class Pool {}
    class Ref { Pool pool; }
}`,
		"app/Mode.java": "package app;\nenum Mode { A }",
		"lib/Tool.java": "package lib;\npublic class Tool { public static class Part {} }",
	})
	props := cb.Class("app.Props")
	ref := cb.Class("app.Props.Ref")

	tests := []struct {
		from   *Class
		name   string
		want   string
		source bool
		ok     bool
	}{
		{ref, "Pool", "app.Props.Pool", true, true},
		{ref, "Props", "app.Props", true, true},
		{props, "Mode", "app.Mode", true, true},
		{props, "Tool", "lib.Tool", true, true},
		{props, "Tool.Part", "lib.Tool.Part", true, true},
		{props, "Duration", "java.time.Duration", false, true},
		{props, "Named", "other.Named", false, true},
		{props, "String", "java.lang.String", false, true},
		{props, "Integer[]", "java.lang.Integer", false, true},
		{props, "java.util.List", "java.util.List", false, true},
		{props, "Unknown", "Unknown", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := cb.ResolveType(tt.from, tt.name)
			if ok != tt.ok || got.Name != tt.want || (got.Class != nil) != tt.source {
				t.Errorf("ResolveType(%q) = %+v, %v", tt.name, got, ok)
			}
		})
	}

	if r, _ := cb.ResolveType(props, "Mode"); !r.IsEnum() {
		t.Error("Mode must resolve to an enum")
	}
	if r, _ := cb.ResolveType(props, "java.util.concurrent.TimeUnit"); !r.IsEnum() {
		t.Error("TimeUnit must be a known enum")
	}
}

func TestResolveStaticImport(t *testing.T) {
	cb := newTestCodebase(t, nil, map[string]string{
		"app/A.java": `package app;
import static app.Limits.MAX;
import static app.Other.*;
class A {}`,
		"app/Limits.java": "package app;\nclass Limits { static final int MAX = 3; }",
		"app/Other.java":  "package app;\nclass Other { static final int MIN = 1; }",
	})
	a := cb.Class("app.A")

	if ref, ok := cb.ResolveStaticImport(a, "MAX"); !ok || ref.Name != "app.Limits" {
		t.Errorf("MAX owner = %+v, %v", ref, ok)
	}
	if ref, ok := cb.ResolveStaticImport(a, "MIN"); !ok || ref.Name != "app.Other" {
		t.Errorf("MIN owner = %+v, %v", ref, ok)
	}
	if _, ok := cb.ResolveStaticImport(a, "NONE"); ok {
		t.Error("expected miss for unknown member")
	}
}

func TestLookupField(t *testing.T) {
	cb := newTestCodebase(t, nil, map[string]string{
		"p/Outer.java": `package p;
class Outer {
    static final String A = "a";
    static class Mid {
        static final String B = "b";
        static class Leaf { static final String C = "c"; }
    }
}`,
	})
	mid := cb.Class("p.Outer.Mid")
	for _, name := range []string{"A", "B", "C"} {
		if LookupField(mid, name) == nil {
			t.Errorf("field %s not visible from Mid", name)
		}
	}
	if LookupField(mid, "D") != nil {
		t.Error("expected nil for unknown field")
	}
}

func writeJar(t *testing.T, path string, classes ...*classfiletest.Builder) {
	t.Helper()
	out, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Close()
	zw := zip.NewWriter(out)
	for _, b := range classes {
		w, err := zw.Create(b.Name() + ".class")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(b.Bytes()); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestClasspath(t *testing.T) {
	dir := t.TempDir()
	classes := filepath.Join(dir, "classes")
	if err := os.MkdirAll(filepath.Join(classes, "com", "lib"), 0o755); err != nil {
		t.Fatal(err)
	}
	limits := classfiletest.New("com/lib/Limits").
		Constant("NAME", "Ljava/lang/String;", "lib").
		Constant("MAX", "I", int32(10)).
		Constant("RATIO", "D", 0.25).
		Constant("HUGE", "D", 1e10).
		Constant("ON", "Z", true).
		Field(classfile.AccPrivate|classfile.AccStatic, "hidden", "I")
	if err := os.WriteFile(filepath.Join(classes, "com", "lib", "Limits.class"), limits.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	jar := filepath.Join(dir, "lib.jar")
	writeJar(t, jar,
		classfiletest.New("com/lib/Level").Enum("LOW", "HIGH"),
		classfiletest.New("com/lib/Outer$Inner").Constant("X", "J", int64(7)),
	)

	cp, err := OpenClasspath(classes, jar, filepath.Join(dir, "missing.jar"))
	if err != nil {
		t.Fatalf("OpenClasspath: %v", err)
	}
	defer cp.Close()

	tests := []struct {
		class, field string
		want         string
		ok           bool
	}{
		{"com/lib/Limits", "NAME", "lib", true},
		{"com/lib/Limits", "MAX", "10", true},
		{"com/lib/Limits", "RATIO", "0.25", true},
		{"com/lib/Limits", "HUGE", "1.0E10", true},
		{"com/lib/Limits", "ON", "true", true},
		{"com/lib/Limits", "hidden", "", false},
		{"com/lib/Level", "HIGH", "HIGH", true},
		{"com/lib/Outer$Inner", "X", "7", true},
		{"java/lang/Integer", "MAX_VALUE", "2147483647", true},
		{"com/lib/Missing", "X", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.class+"."+tt.field, func(t *testing.T) {
			got, ok := cp.StaticConstant(tt.class, tt.field)
			if ok != tt.ok || got != tt.want {
				t.Errorf("StaticConstant = %q, %v; want %q, %v", got, ok, tt.want, tt.ok)
			}
		})
	}

	cb := NewCodebase(cp)
	ref, ok := cb.ResolveType(nil, "com.lib.Outer.Inner")
	if !ok || ref.Compiled == nil || ref.BinaryName() != "com/lib/Outer$Inner" {
		t.Errorf("nested classpath type = %+v, %v", ref, ok)
	}
	if ref, _ := cb.ResolveType(nil, "com.lib.Level"); !ref.IsEnum() {
		t.Error("Level must be an enum")
	}

	var nilCP *Classpath
	if nilCP.Has("com/lib/Limits") {
		t.Error("nil classpath must find nothing")
	}
	if v, ok := nilCP.StaticConstant("java/lang/Long", "MAX_VALUE"); !ok || v != "9223372036854775807" {
		t.Errorf("nil classpath platform constant = %q, %v", v, ok)
	}
}

func TestFormatConstant(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"s", "s"},
		{int32(-3), "-3"},
		{int64(1) << 40, "1099511627776"},
		{float32(1.5), "1.5"},
		{float64(100), "100.0"},
		{1e7, "1.0E7"},
		{1.25e-5, "1.25E-5"},
		{0.001, "0.001"},
		{float64(0), "0.0"},
		{false, "false"},
	}
	for _, tt := range tests {
		if got := FormatConstant(tt.in); got != tt.want {
			t.Errorf("FormatConstant(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
