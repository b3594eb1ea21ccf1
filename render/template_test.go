package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flosch/pongo2/v6"
)

func sampleDocs() []Documented {
	return []Documented{
		{Name: "A_B", Required: true, Default: "1", HasDefault: true, Description: "line one\nline two", Restrictions: "Default value: ```1```"},
		{Name: "OLD", Deprecated: true},
	}
}

func TestBuiltinTemplates(t *testing.T) {
	tests := []struct {
		format Format
		rows   []string
	}{
		{Markdown, []string{
			"| Environment variable | Description | Restrictions |",
			"| A_B<br>**required** | line one<br>line two | Default value: ```1``` |",
			"| ~~OLD~~<br>*deprecated* |  |  |",
		}},
		{HTML, []string{
			"<th>Environment variable</th>",
			"<td>A_B<br>\n<b>required</b></td>",
			"<td><s>OLD</s><br>\n<i>deprecated</i></td>",
		}},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			tpl, err := BuiltinTemplate(tt.format)
			if err != nil {
				t.Fatal(err)
			}
			var sb strings.Builder
			if err := tpl.Execute(&sb, NewFormatter(tt.format, false), sampleDocs()); err != nil {
				t.Fatal(err)
			}
			for _, row := range tt.rows {
				if !strings.Contains(sb.String(), row) {
					t.Errorf("output is missing %q:\n%s", row, sb.String())
				}
			}
		})
	}
}

func TestLoadTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.txt")
	body := "{% for o in options %}{{ o.Name }}={{ o.Default }};{% endfor %}[{{ format }}]"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	tpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	if err := tpl.Execute(&sb, NewFormatter(Markdown, false), sampleDocs()); err != nil {
		t.Fatal(err)
	}
	if got, want := sb.String(), "A_B=1;OLD=;[MD]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	if _, err := LoadTemplate(filepath.Join(t.TempDir(), "missing.tpl")); err == nil {
		t.Error("expected error for a missing template")
	}
}

func TestSingleLineFilter(t *testing.T) {
	out, err := filterSingleLine(pongo2.AsValue("a\r\nb\nc"), pongo2.AsValue("<br>"))
	if err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "a<br>b<br>c" {
		t.Errorf("single_line = %q", got)
	}
}
