package render

import "testing"

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{
		"html": HTML, "HTML": HTML, "md": Markdown, "Mark-Down": Markdown, " mark_down ": Markdown,
	} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("pdf"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestClean(t *testing.T) {
	f := NewFormatter(HTML, false)
	got := Clean(f, " <br>\na  b<br>\n<br>\n  c <br>\n ")
	if want := "a b<br>\nc"; got != want {
		t.Errorf("Clean = %q, want %q", got, want)
	}

	md := NewFormatter(Markdown, false)
	if got := Clean(md, "a<br><br> b\n\n<br>"); got != "a<br>b" {
		t.Errorf("markdown Clean = %q", got)
	}
}

func TestFormatters(t *testing.T) {
	tests := []struct {
		name   string
		f      Formatter
		write  func(f Formatter)
		expect string
	}{
		{"html code escapes", NewFormatter(HTML, false), func(f Formatter) { f.Code("List<String>") }, "<code>List&lt;String&gt;</code>"},
		{"html bold", NewFormatter(HTML, false), func(f Formatter) { f.Bold("x") }, "<b>x</b>"},
		{"html paragraph", NewFormatter(HTML, false), func(f Formatter) { f.Paragraph() }, "<br><br>\n"},
		{"markdown pipe", NewFormatter(Markdown, false), func(f Formatter) { f.Append("x|y") }, `x\|y`},
		{"markdown escaped pipe kept", NewFormatter(Markdown, false), func(f Formatter) { f.Append(`x\|y`) }, `x\|y`},
		{"markdown escape", NewFormatter(Markdown, false), func(f Formatter) { f.Escape("a|b*c") }, `a\|b\*c`},
		{"markdown code", NewFormatter(Markdown, false), func(f Formatter) { f.Code("a`b") }, "```a\\`b```"},
		{"markdown italic", NewFormatter(Markdown, false), func(f Formatter) { f.Italic("a*b") }, `*a\*b*`},
		{"markdown linebreak", NewFormatter(Markdown, false), func(f Formatter) { f.Newline() }, "<br>"},
		{"markdown without html", NewFormatter(Markdown, true), func(f Formatter) { f.Newline() }, " "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.write(tt.f)
			if got := tt.f.String(); got != tt.expect {
				t.Errorf("got %q, want %q", got, tt.expect)
			}
		})
	}
}

func TestEscapeUnescaped(t *testing.T) {
	tests := []struct{ in, want string }{
		{"a|b", `a\|b`},
		{`a\|b`, `a\|b`},
		{`a\\|b`, `a\\\|b`},
		{"none", "none"},
	}
	for _, tt := range tests {
		if got := escapeUnescaped(tt.in, '|'); got != tt.want {
			t.Errorf("escapeUnescaped(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
