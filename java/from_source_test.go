package java

import (
	"testing"

	"github.com/dhamidi/confdoc/java/javadoc"
	"github.com/google/go-cmp/cmp"
)

const serverSource = `package com.example.config;

import java.time.Duration;
import java.util.*;
import org.springframework.boot.context.properties.ConfigurationProperties;
import static com.example.Defaults.PORT;

/**
 * Server settings.
 */
@ConfigurationProperties(prefix = "server")
public class ServerProperties {
    /** The port. */
    private int port = 8080;

    private String host = "local" + "host", name;

    private int[] weights;

    private static final long TIMEOUT = -5L;

    public ServerProperties(String host, @Name("p") int port) {
        this.host = host;
        port = port;
        weights = null;
    }

    public int getPort() { return port; }

    public void setPort(int port) { this.port = port; }

    public static class Ssl {
        private boolean enabled;
    }

    enum Mode { /** Fast. */ FAST, SLOW }
}
`

func TestParseFileModel(t *testing.T) {
	f := ParseFile("ServerProperties.java", []byte(serverSource))
	if len(f.Errors) != 0 {
		t.Fatalf("unexpected syntax errors: %v", f.Errors)
	}
	if f.Unit.Package != "com.example.config" {
		t.Errorf("package = %q", f.Unit.Package)
	}

	wantImports := []Import{
		{Name: "java.time.Duration"},
		{Name: "java.util", OnDemand: true},
		{Name: "org.springframework.boot.context.properties.ConfigurationProperties"},
		{Name: "com.example.Defaults.PORT", Static: true},
	}
	if diff := cmp.Diff(wantImports, f.Unit.Imports); diff != "" {
		t.Errorf("imports mismatch (-want +got):\n%s", diff)
	}

	if len(f.Classes) != 1 {
		t.Fatalf("expected one top-level class, got %d", len(f.Classes))
	}
	c := f.Classes[0]
	if c.QualifiedName() != "com.example.config.ServerProperties" {
		t.Errorf("QualifiedName() = %q", c.QualifiedName())
	}
	if got := javadoc.PlainText(c.Doc); got != "Server settings." {
		t.Errorf("class doc = %q", got)
	}

	cp := c.Annotations.Find("org.springframework.boot.context.properties.ConfigurationProperties")
	if cp == nil {
		t.Fatal("expected @ConfigurationProperties")
	}
	if v, ok := cp.String("prefix"); !ok || v != "server" {
		t.Errorf("prefix = %q, %v", v, ok)
	}

	t.Run("fields", func(t *testing.T) {
		var names []string
		for _, f := range c.Fields {
			names = append(names, f.Name)
		}
		want := []string{"port", "host", "name", "weights", "TIMEOUT"}
		if diff := cmp.Diff(want, names); diff != "" {
			t.Fatalf("fields mismatch (-want +got):\n%s", diff)
		}

		port := c.Field("port")
		if port.Type.Name != "int" || !port.Type.IsPrimitive() {
			t.Errorf("port type = %v", port.Type)
		}
		if lit, ok := port.Init.(*Literal); !ok || lit.Value != "8080" || lit.Kind != LiteralInt {
			t.Errorf("port init = %#v", port.Init)
		}
		if got := javadoc.PlainText(port.Doc); got != "The port." {
			t.Errorf("port doc = %q", got)
		}
		if port.Pos.Line != 14 {
			t.Errorf("port line = %d", port.Pos.Line)
		}

		if c.Field("name").Init != nil {
			t.Error("name must have no initializer")
		}
		if got := c.Field("host").Init.Source(); got != `"local" + "host"` {
			t.Errorf("host init = %q", got)
		}
		if !c.Field("weights").Type.IsArray() {
			t.Error("weights must be an array")
		}

		timeout := c.Field("TIMEOUT")
		if !timeout.Static || !timeout.Final {
			t.Error("TIMEOUT must be static final")
		}
		if lit, ok := timeout.Init.(*Literal); !ok || lit.Value != "-5L" {
			t.Errorf("TIMEOUT init = %#v", timeout.Init)
		}
	})

	t.Run("constructor", func(t *testing.T) {
		if len(c.Constructors) != 1 {
			t.Fatalf("expected one constructor, got %d", len(c.Constructors))
		}
		ctor := c.Constructors[0]
		if ctor.Synthetic || ctor.Compact {
			t.Error("explicit constructor must not be synthetic")
		}
		if p := ctor.Param("port"); p == nil || !p.Annotations.Has("Name") {
			t.Errorf("port parameter = %+v", p)
		}
		if !ctor.AssignsDirectly("host", "host") {
			t.Errorf("assignments = %+v", ctor.Assignments)
		}
		if ctor.AssignsDirectly("port", "port") {
			t.Error("port = port only assigns the parameter to itself")
		}
		if ctor.AssignsDirectly("weights", "weights") {
			t.Error("weights is not assigned from a parameter")
		}
	})

	t.Run("nested", func(t *testing.T) {
		ssl := c.NestedClass("Ssl")
		if ssl == nil || !ssl.Static || ssl.Outer != c {
			t.Fatalf("Ssl = %+v", ssl)
		}
		if ssl.BinaryName() != "com/example/config/ServerProperties$Ssl" {
			t.Errorf("BinaryName() = %q", ssl.BinaryName())
		}
		mode := c.NestedClass("Mode")
		if mode == nil || !mode.IsEnum() {
			t.Fatalf("Mode = %+v", mode)
		}
		fast := mode.Field("FAST")
		if fast == nil || !fast.EnumConstant {
			t.Fatalf("FAST = %+v", fast)
		}
		if got := javadoc.PlainText(fast.Doc); got != "Fast." {
			t.Errorf("FAST doc = %q", got)
		}
	})
}

func TestParseFileRecord(t *testing.T) {
	src := `package p;
/**
 * Pool.
 * @param size the size
 */
public record Pool(@DefaultValue("5") int size, java.util.List<String> names) {
    public Pool {
        names = java.util.List.copyOf(names);
    }
}`
	f := ParseFile("Pool.java", []byte(src))
	if len(f.Errors) != 0 {
		t.Fatalf("unexpected syntax errors: %v", f.Errors)
	}
	c := f.Classes[0]
	if !c.IsRecord() {
		t.Fatalf("kind = %s", c.Kind)
	}
	comps := c.Components()
	if len(comps) != 2 || comps[0].Name != "size" || comps[1].Type.String() != "java.util.List<String>" {
		t.Fatalf("components = %+v", comps)
	}
	if !comps[0].Annotations.Has("DefaultValue") {
		t.Error("size must keep its annotation")
	}
	if len(c.Constructors) != 1 || !c.Constructors[0].Compact {
		t.Fatalf("constructors = %+v", c.Constructors)
	}
	ctor := c.Constructors[0]
	if len(ctor.Params) != 2 || !ctor.AssignsDirectly("size", "size") {
		t.Errorf("compact constructor params = %+v", ctor.Params)
	}
}

func TestParseFileRecordCanonicalConstructor(t *testing.T) {
	src := `/**
 * Point.
 * @param x the x
 */
record Point(int x, int y) {
    Point(int x) { this(x, 0); }
}`
	c := ParseFile("Point.java", []byte(src)).Classes[0]
	if len(c.Constructors) != 2 {
		t.Fatalf("expected explicit and canonical constructors, got %d", len(c.Constructors))
	}
	canonical := c.Constructors[1]
	if !canonical.Synthetic || len(canonical.Params) != 2 {
		t.Fatalf("canonical = %+v", canonical)
	}
	if doc := canonical.Params[0].ParamDoc(); doc == nil || javadoc.NodesText(doc.Description) != "the x" {
		t.Errorf("x param doc = %+v", doc)
	}
}

func TestParseFileSyntaxErrors(t *testing.T) {
	f := ParseFile("Broken.java", []byte("package p;\nclass Broken { int x = ; }\nclass Ok { int y; }"))
	if len(f.Errors) == 0 {
		t.Fatal("expected syntax errors")
	}
	if f.Errors[0].Pos.File != "Broken.java" || f.Errors[0].Pos.Line != 2 {
		t.Errorf("error position = %v", f.Errors[0].Pos)
	}
	var names []string
	for _, c := range f.Classes {
		names = append(names, c.Name)
	}
	if diff := cmp.Diff([]string{"Broken", "Ok"}, names); diff != "" {
		t.Errorf("classes mismatch (-want +got):\n%s", diff)
	}
	if line, ok := f.Line(2); !ok || line != "class Broken { int x = ; }" {
		t.Errorf("Line(2) = %q, %v", line, ok)
	}
}

func TestParseExpression(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"a\tb"`, "*java.Literal"},
		{`Duration.ofSeconds(30)`, "*java.Call"},
		{`TimeUnit.SECONDS`, "*java.MemberAccess"},
		{`{"a", "b"}`, "*java.NewArray"},
		{`new String[] {"a"}`, "*java.NewArray"},
		{`new StringBuilder()`, "*java.NewObject"},
		{`(long) 5`, "*java.Cast"},
		{`(MAX)`, "*java.Identifier"},
		{`a ? b : c`, "*java.Raw"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			e, err := ParseExpression(tt.src)
			if err != nil {
				t.Fatalf("ParseExpression: %v", err)
			}
			if got := typeName(e); got != tt.want {
				t.Errorf("type = %s, want %s", got, tt.want)
			}
		})
	}

	e, _ := ParseExpression(`"a\tb"`)
	if lit := e.(*Literal); lit.Value != "a\tb" {
		t.Errorf("unescaped value = %q", lit.Value)
	}

	if _, err := ParseExpression(`1 +`); err == nil {
		t.Error("expected error for incomplete expression")
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *Literal:
		return "*java.Literal"
	case *Identifier:
		return "*java.Identifier"
	case *MemberAccess:
		return "*java.MemberAccess"
	case *Call:
		return "*java.Call"
	case *NewArray:
		return "*java.NewArray"
	case *NewObject:
		return "*java.NewObject"
	case *Cast:
		return "*java.Cast"
	case *Raw:
		return "*java.Raw"
	}
	return "?"
}
