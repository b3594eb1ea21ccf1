package javadoc

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseSimpleText(t *testing.T) {
	doc := Parse("/** Simple text. */")

	want := []Node{Text{Content: "Simple text."}}
	if diff := cmp.Diff(want, doc.Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
	if len(doc.BlockTags) != 0 {
		t.Errorf("expected no block tags, got %+v", doc.BlockTags)
	}
}

func TestParseMultiline(t *testing.T) {
	doc := Parse("/**\n * Line one\n * line two.\n *\n * @param name the name\n * @configurationdoc.default 5\n */")

	wantBody := []Node{Text{Content: "Line one\nline two."}}
	if diff := cmp.Diff(wantBody, doc.Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}

	wantTags := []Node{
		Param{Name: "name", Description: []Node{Text{Content: "the name"}}},
		BlockTag{Name: "configurationdoc.default", Content: []Node{Text{Content: "5"}}},
	}
	if diff := cmp.Diff(wantTags, doc.BlockTags); diff != "" {
		t.Errorf("block tags mismatch (-want +got):\n%s", diff)
	}
}

func TestParseInlineTags(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Node
	}{
		{"code", "/** Use {@code Map<String, List<Integer>>} here. */", Code{Content: "Map<String, List<Integer>>"}},
		{"code with braces", "/** Use {@code class Foo { int x; }} here. */", Code{Content: "class Foo { int x; }"}},
		{"literal", "/** Use {@literal a<b} here. */", Literal{Content: "a<b"}},
		{"link", "/** See {@link java.util.List} here. */", Link{Reference: "java.util.List"}},
		{"link with label", "/** See {@link Foo#bar(int, long) the bar} here. */",
			Link{Reference: "Foo#bar(int, long)", Label: []Node{Text{Content: "the bar"}}}},
		{"linkplain", "/** See {@linkplain Foo} here. */", Link{Reference: "Foo", Plain: true}},
		{"value", "/** See {@value #MAX} here. */", Value{Reference: "#MAX"}},
		{"custom dotted", "/** See {@configurationdoc.default 10} here. */",
			InlineTag{Name: "configurationdoc.default", Content: []Node{Text{Content: "10"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Parse(tt.input)
			if len(doc.Body) != 3 {
				t.Fatalf("expected 3 body nodes, got %d: %+v", len(doc.Body), doc.Body)
			}
			if diff := cmp.Diff(tt.want, doc.Body[1]); diff != "" {
				t.Errorf("inline tag mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseHTMLAndEntities(t *testing.T) {
	doc := Parse("/** <p>A &amp; B</p> */")

	want := []Node{
		HTML{Raw: "<p>"},
		Text{Content: "A "},
		Entity{Raw: "&amp;"},
		Text{Content: " B"},
		HTML{Raw: "</p>"},
	}
	if diff := cmp.Diff(want, doc.Body); diff != "" {
		t.Errorf("body mismatch (-want +got):\n%s", diff)
	}
}

func TestParseBlockTags(t *testing.T) {
	doc := Parse(`/**
 * Port.
 * @deprecated use {@code server.port}
 * @since 1.2
 * @see Other
 * @hidden
 * @return nothing
 */`)

	want := []Node{
		Deprecated{Description: []Node{Text{Content: "use "}, Code{Content: "server.port"}}},
		Since{Version: []Node{Text{Content: "1.2"}}},
		See{Reference: []Node{Text{Content: "Other"}}},
		Hidden{},
		BlockTag{Name: "return", Content: []Node{Text{Content: "nothing"}}},
	}
	if diff := cmp.Diff(want, doc.BlockTags); diff != "" {
		t.Errorf("block tags mismatch (-want +got):\n%s", diff)
	}
	if !doc.HasBlockTag("hidden") || !doc.HasBlockTag("deprecated") {
		t.Error("expected hidden and deprecated block tags")
	}
	if doc.HasBlockTag("param") {
		t.Error("unexpected param block tag")
	}
}

func TestParseTagAtStart(t *testing.T) {
	doc := Parse("/** @hidden */")
	if len(doc.Body) != 0 {
		t.Errorf("expected empty body, got %+v", doc.Body)
	}
	if !doc.HasBlockTag("hidden") {
		t.Errorf("expected hidden tag, got %+v", doc.BlockTags)
	}
}

func TestParseEmailIsNotBlockTag(t *testing.T) {
	doc := Parse("/** Mail admin@example.com now. */")
	if len(doc.BlockTags) != 0 {
		t.Errorf("expected no block tags, got %+v", doc.BlockTags)
	}
	if got := PlainText(doc); got != "Mail admin@example.com now." {
		t.Errorf("PlainText = %q", got)
	}
}

func TestParamDoc(t *testing.T) {
	doc := Parse(`/**
 * Record.
 * @param <T> element type
 * @param host the host name
 * @param port the port
 */`)

	p := doc.ParamDoc("port")
	if p == nil {
		t.Fatal("expected @param port")
	}
	if got := NodesText(p.Description); got != "the port" {
		t.Errorf("port description = %q", got)
	}
	if doc.ParamDoc("T") != nil {
		t.Error("type parameters must not match ParamDoc")
	}
	if doc.ParamDoc("missing") != nil {
		t.Error("expected nil for undocumented parameter")
	}

	var nilDoc *DocComment
	if nilDoc.ParamDoc("port") != nil {
		t.Error("nil comment must return nil")
	}
}

func TestCollect(t *testing.T) {
	doc := Parse(`/**
 * Timeout, defaults to {@configurationdoc.default 30s}.
 * @param x see {@configurationdoc.default inner}
 * @configurationdoc.default block
 */`)

	var got []string
	for _, content := range doc.Collect("configurationdoc.default") {
		got = append(got, NodesText(content))
	}
	want := []string{"30s", "inner", "block"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Collect mismatch (-want +got):\n%s", diff)
	}
}

func TestPlainText(t *testing.T) {
	doc := Parse("/** Use {@code x} &amp; <b>y</b> or {@link a.b.C#run()}. */")
	if got, want := PlainText(doc), "Use x & y or run."; got != want {
		t.Errorf("PlainText = %q, want %q", got, want)
	}
}

func TestFormat(t *testing.T) {
	doc := Parse("/**\n * Use {@code x}.\n * @since 2.0\n */")
	want := "Use `x`.\n\n@since 2.0"
	if got := Format(doc); got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
	if Format(nil) != "" {
		t.Error("Format(nil) must be empty")
	}
}
