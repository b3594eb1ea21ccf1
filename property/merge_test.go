package property

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java/javadoc"
)

func doc(text string) *javadoc.DocComment {
	return &javadoc.DocComment{Body: []javadoc.Node{javadoc.Text{Content: text}}}
}

func names(records []*Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func TestMerge(t *testing.T) {
	first := &Record{Name: "A"}
	documented := &Record{Name: "A", Doc: doc("first")}
	second := &Record{Name: "A", Doc: doc("second")}
	other := &Record{Name: "B", Doc: doc("b")}

	t.Run("merging enabled", func(t *testing.T) {
		sink := diagnostic.NewSink(nil, nil)
		out := Merge([]*Record{first, other, documented, second}, true, sink)
		if diff := cmp.Diff([]string{"A", "B"}, names(out)); diff != "" {
			t.Fatalf("names mismatch (-want +got):\n%s", diff)
		}
		if out[0] != documented {
			t.Error("an undocumented record must be replaced by the first documented one")
		}
		if len(out[0].Additional) != 1 || out[0].Additional[0] != second.Doc {
			t.Errorf("additional = %v", out[0].Additional)
		}
		if len(sink.Diagnostics()) != 0 {
			t.Errorf("unexpected diagnostics %v", sink.Diagnostics())
		}
	})

	t.Run("merging disabled", func(t *testing.T) {
		a := &Record{Name: "A", Doc: doc("first")}
		b := &Record{Name: "A", Doc: doc("second")}
		sink := diagnostic.NewSink(nil, nil)
		out := Merge([]*Record{a, b}, false, sink)
		if len(out) != 1 || len(out[0].Additional) != 0 {
			t.Fatalf("out = %+v", out)
		}
		want := []string{"Skipping secondary comment for A (on element: ); comment merging is disabled"}
		if diff := cmp.Diff(want, messages(sink, diagnostic.Warning)); diff != "" {
			t.Errorf("warnings mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestMergeFlags(t *testing.T) {
	records, _ := collect(t, Options{Merge: true}, map[string]string{
		"p/F.java": `package p;

import jakarta.validation.constraints.*;
import org.springframework.boot.context.properties.ConfigurationProperties;
import org.springframework.validation.annotation.Validated;

@Validated
@ConfigurationProperties("f")
public class F {
    @NotBlank
    private String name;
    @Deprecated
    private int old;
    @Size(max = 3)
    private String code;

    public void setName(String v) {}
    public void setOld(int v) {}
    public void setCode(String v) {}
}`,
	})
	type flags struct {
		Name                 string
		Required, Deprecated bool
	}
	var got []flags
	for _, r := range records {
		got = append(got, flags{r.Name, r.Required, r.Deprecated})
	}
	want := []flags{
		{"F_NAME", true, false},
		{"F_OLD", false, true},
		{"F_CODE", false, false},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("flags mismatch (-want +got):\n%s", diff)
	}
}

func TestSort(t *testing.T) {
	build := func() []*Record {
		return []*Record{
			{Name: "Z"},
			{Name: "A", Deprecated: true},
			{Name: "M", Required: true},
		}
	}
	tests := []struct {
		name string
		s    Sorting
		want []string
	}{
		{"none", Sorting{}, []string{"Z", "A", "M"}},
		{"ascending", Sorting{Order: OrderAsc}, []string{"A", "M", "Z"}},
		{"descending", Sorting{Order: OrderDesc}, []string{"Z", "M", "A"}},
		{"required first", Sorting{Order: OrderAsc, PrependRequired: true}, []string{"M", "A", "Z"}},
		{"required first keeps order", Sorting{PrependRequired: true}, []string{"M", "Z", "A"}},
		{"deprecated last", Sorting{Order: OrderAsc, DeprecatedLast: true}, []string{"M", "Z", "A"}},
		{"all", Sorting{Order: OrderDesc, PrependRequired: true, DeprecatedLast: true}, []string{"M", "Z", "A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := build()
			Sort(records, tt.s)
			if diff := cmp.Diff(tt.want, names(records)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseOrder(t *testing.T) {
	for in, want := range map[string]Order{
		"asc": OrderAsc, "Ascending": OrderAsc, "DESC": OrderDesc,
		"descending": OrderDesc, " none ": OrderNone,
	} {
		got, err := ParseOrder(in)
		if err != nil || got != want {
			t.Errorf("ParseOrder(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseOrder("random"); err == nil {
		t.Error("expected error for unknown order")
	}
}

func TestMergeFlagsFromBindingParameter(t *testing.T) {
	records, _ := collect(t, Options{Merge: true}, map[string]string{
		"p/B.java": `package p;

import jakarta.validation.constraints.NotNull;
import org.springframework.boot.context.properties.ConfigurationProperties;
import org.springframework.boot.context.properties.bind.ConstructorBinding;
import org.springframework.validation.annotation.Validated;

@Validated
@ConfigurationProperties("b")
public class B {
    /** The host. */
    private final String host;

    @ConstructorBinding
    public B(@NotNull String host) {
        this.host = host;
    }
}`,
	})
	if len(records) != 1 {
		t.Fatalf("records = %+v", summarize(records))
	}
	r := records[0]
	if r.Name != "B_HOST" || r.Decl.Field == nil {
		t.Fatalf("record = %s %v, want the documented field B_HOST", r.Name, r.Decl)
	}
	if !r.Required {
		t.Error("@NotNull on the binding parameter must mark the property required")
	}
}
