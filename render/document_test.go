package render

import (
	"context"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
	"github.com/dhamidi/confdoc/java/javadoc"
	"github.com/dhamidi/confdoc/property"
)

func record(doc string, additional ...string) *property.Record {
	r := &property.Record{Name: "P_X"}
	if doc != "" {
		r.Doc = javadoc.Parse(doc)
	}
	for _, a := range additional {
		r.AddDoc(javadoc.Parse(a))
	}
	return r
}

func TestDocumentDescription(t *testing.T) {
	r := record("/** The {@code port} to use.\n * @deprecated use other\n * @since 1.2\n */")
	r.Default, r.HasDefault = "8080", true

	tests := []struct {
		format           Format
		desc, restrictions string
	}{
		{HTML, "The <code>port</code> to use.<br>\nDeprecated: use other<br>\nSince: 1.2", "Default value: <code>8080</code>"},
		{Markdown, "The ```port``` to use.\nDeprecated: use other<br>Since: 1.2", "Default value: ```8080```"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			g := NewGenerator(NewFormatter(tt.format, false), diagnostic.NewSink(nil, nil), nil)
			d, ok := g.Document(r)
			if !ok {
				t.Fatal("record must not be hidden")
			}
			if d.Description != tt.desc {
				t.Errorf("description = %q, want %q", d.Description, tt.desc)
			}
			if d.Restrictions != tt.restrictions {
				t.Errorf("restrictions = %q, want %q", d.Restrictions, tt.restrictions)
			}
		})
	}
}

func TestDocumentMergesEachTextOnce(t *testing.T) {
	r := record("/** The port. */",
		"/** the  PORT. */",
		"/** Server settings. */",
		"/** Server\n settings. */",
	)
	g := NewGenerator(NewFormatter(HTML, false), diagnostic.NewSink(nil, nil), nil)
	d, _ := g.Document(r)
	if want := "The port.<br>\nServer settings."; d.Description != want {
		t.Errorf("description = %q, want %q", d.Description, want)
	}
}

func TestDocumentHidden(t *testing.T) {
	g := NewGenerator(NewFormatter(HTML, false), diagnostic.NewSink(nil, nil), nil)
	for name, r := range map[string]*property.Record{
		"primary":    record("/** Internal.\n * @hidden\n */"),
		"additional": record("/** Visible. */", "/** @hidden */"),
	} {
		if _, ok := g.Document(r); ok {
			t.Errorf("%s: hidden record was documented", name)
		}
	}
	out := g.DocumentAll([]*property.Record{record("/** @hidden */"), record("/** Shown. */")})
	if len(out) != 1 || out[0].Description != "Shown." {
		t.Errorf("DocumentAll = %+v", out)
	}
}

func TestDocumentInlineTags(t *testing.T) {
	r := record("/** See {@link java.time.Duration the duration} or {@literal a<b}. {@configurationdoc.default 5} */")
	g := NewGenerator(NewFormatter(HTML, false), diagnostic.NewSink(nil, nil), nil)
	d, _ := g.Document(r)
	want := "See <code>the duration (java.time.Duration)</code> or a&lt;b."
	if d.Description != want {
		t.Errorf("description = %q, want %q", d.Description, want)
	}
}

func TestDocumentSanitizesHTML(t *testing.T) {
	r := record(`/** Click <b onclick="x()">here</b><script>bad()</script>. */`)

	g := NewGenerator(NewFormatter(HTML, false), diagnostic.NewSink(nil, nil), nil)
	d, _ := g.Document(r)
	if want := "Click <b>here</b>bad()."; d.Description != want {
		t.Errorf("html description = %q, want %q", d.Description, want)
	}

	g = NewGenerator(NewFormatter(Markdown, true), diagnostic.NewSink(nil, nil), nil)
	d, _ = g.Document(r)
	if want := "Click herebad()."; d.Description != want {
		t.Errorf("markdown description = %q, want %q", d.Description, want)
	}
}

const constrainedSource = `package p;

import jakarta.validation.constraints.*;
import jakarta.validation.constraints.Size;
import javax.validation.constraints.Email;
import org.springframework.boot.context.properties.ConfigurationProperties;
import org.springframework.validation.annotation.Validated;

@Validated
@ConfigurationProperties("r")
public class R {
    static final int LIMIT = 10;

    @NotNull
    @Max(LIMIT)
    private Integer port = 8080;

    @Size.List({@Size(min = 1, max = 5), @Size(min = 2, max = 9)})
    private String code;

    @Email(message = "must be an address")
    private String mail = "";

    @DecimalMin(value = "0.5", inclusive = false)
    private double ratio;

    @Pattern(regexp = "[a-z]+")
    @Digits(integer = 3, fraction = 1)
    private String mixed;

    public void setPort(Integer v) {}
    public void setCode(String v) {}
    public void setMail(String v) {}
    public void setRatio(double v) {}
    public void setMixed(String v) {}
}
`

func TestDocumentRestrictions(t *testing.T) {
	cb := java.NewCodebase(nil)
	if f := cb.AddSource("p/R.java", []byte(constrainedSource)); len(f.Errors) != 0 {
		t.Fatalf("syntax errors: %v", f.Errors)
	}
	sink := diagnostic.NewSink(nil, cb)
	records, err := property.Collect(context.Background(), cb, sink, property.Options{Merge: true})
	if err != nil {
		t.Fatal(err)
	}
	g := NewGenerator(NewFormatter(HTML, false), sink, property.NewEvaluator(cb))
	docs := g.DocumentAll(records)

	type row struct {
		Name         string
		Required     bool
		Restrictions string
	}
	var got []row
	for _, d := range docs {
		got = append(got, row{d.Name, d.Required, d.Restrictions})
	}
	want := []row{
		{"R_PORT", true, "Default value: <code>8080</code><br>\nvalue must be present<br>\nvalue &lt;= <code>10</code>"},
		{"R_CODE", false, "<code>2</code> &lt;= value length/size &lt;= <code>5</code>"},
		{"R_MAIL", false, "valid email must be an address"},
		{"R_RATIO", false, "value &gt; <code>0.5</code>"},
		{"R_MIXED", false, "value must match regular expression <code>[a-z]+</code><br>\nmaximum of <code>3</code> digits before the decimal point and <code>1</code> digits after it"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("restrictions mismatch (-want +got):\n%s", diff)
	}

	var warnings []string
	for _, d := range sink.Diagnostics() {
		if d.Severity == diagnostic.Warning {
			warnings = append(warnings, d.Message)
		}
	}
	wantWarnings := []string{"You are using old javax validation constraint javax.validation.constraints.Email - use jakarta.validation.constraints.* package when possible"}
	if diff := cmp.Diff(wantWarnings, warnings, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("warnings mismatch (-want +got):\n%s", diff)
	}
}

func TestBoundListKeepsStrictestLimit(t *testing.T) {
	ann := func(value string, inclusive bool) *java.Annotation {
		a := &java.Annotation{Name: "Max", Values: map[string]java.Expr{
			"value": &java.Literal{Kind: java.LiteralString, Value: value},
		}}
		if !inclusive {
			a.Values["inclusive"] = &java.Literal{Kind: java.LiteralBoolean, Value: "false"}
		}
		return a
	}
	tests := []struct {
		name  string
		doc   constraintDoc
		items []*java.Annotation
		want  string
	}{
		{"smallest maximum", constraintDocs["DecimalMax"], []*java.Annotation{ann("10", true), ann("2.5", true), ann("7", true)}, "value &lt;= <code>2.5</code><br>\n"},
		{"exclusive wins a tie", constraintDocs["Max"], []*java.Annotation{ann("3", true), ann("3", false)}, "value &lt; <code>3</code><br>\n"},
		{"largest minimum", constraintDocs["Min"], []*java.Annotation{ann("1", true), ann("4", true)}, "value &gt;= <code>4</code><br>\n"},
		{"invalid numbers skipped", constraintDocs["Min"], []*java.Annotation{ann("x", true), ann("1", true)}, "value &gt;= <code>1</code><br>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFormatter(HTML, false)
			if !tt.doc.list(attributes{}, f, tt.items) {
				t.Fatal("list was not documented")
			}
			if got := f.String(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConstraintTableIsComplete(t *testing.T) {
	want := []string{
		"AssertFalse", "AssertTrue", "DecimalMax", "DecimalMin", "Digits", "Email",
		"Future", "FutureOrPresent", "Max", "Min", "Negative", "NegativeOrZero",
		"NotBlank", "NotEmpty", "NotNull", "Null", "Past", "PastOrPresent",
		"Pattern", "Positive", "PositiveOrZero", "Size",
	}
	var got []string
	for name := range constraintDocs {
		got = append(got, name)
	}
	sort.Strings(got)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("constraints mismatch (-want +got):\n%s", diff)
	}
}
