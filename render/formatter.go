// Package render turns property records into documentation: prose from
// their comments, restrictions from defaults and validation constraints,
// and a table produced by an HTML or Markdown template.
package render

import (
	"fmt"
	"regexp"
	"strings"
)

// Format selects the output markup.
type Format string

const (
	HTML     Format = "HTML"
	Markdown Format = "MD"
)

// ParseFormat accepts HTML, MD and MARKDOWN ignoring case, spaces,
// dashes and underscores.
func ParseFormat(s string) (Format, error) {
	norm := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\t':
			return -1
		}
		return r
	}, strings.ToUpper(s))
	switch norm {
	case "HTML":
		return HTML, nil
	case "MD", "MARKDOWN":
		return Markdown, nil
	}
	return "", fmt.Errorf("unknown format %q", s)
}

// Extension is the file extension of documents in this format.
func (f Format) Extension() string {
	if f == Markdown {
		return "md"
	}
	return "html"
}

// Formatter accumulates text in one markup. Append cleans up doubled
// whitespace and escapes what the markup requires; RawAppend writes
// text unchanged.
type Formatter interface {
	Format() Format
	// Linebreak is the sequence forcing a new line inside a table cell.
	Linebreak() string
	Newline()
	Paragraph()
	Bold(text string)
	Italic(text string)
	Code(text string)
	Escape(text string)
	Append(text string)
	RawAppend(text string)
	// Empty returns a new formatter of the same kind with no content.
	Empty() Formatter
	String() string
}

// NewFormatter returns the formatter for format. noHTML keeps HTML
// line breaks out of Markdown output.
func NewFormatter(format Format, noHTML bool) Formatter {
	if format == Markdown {
		return &MarkdownFormatter{noHTML: noHTML}
	}
	return &HTMLFormatter{}
}

var (
	repeatedSpaces  = regexp.MustCompile(` {2,}`)
	repeatedBlanks  = regexp.MustCompile(`\s{2,}`)
	repeatedBreaks  = regexp.MustCompile(`(?:\s*<br>\s*){2,}`)
	trailingBreaks  = regexp.MustCompile(`(?:<br>|\s)+$`)
	leadingBreaks   = regexp.MustCompile(`^(?:<br>|\s)+`)
	htmlTextEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
)

// collapse folds runs of spaces into one, runs of other whitespace into
// a newline and runs of line breaks into a single linebreak.
func collapse(text, linebreak string) string {
	text = repeatedSpaces.ReplaceAllString(text, " ")
	text = repeatedBlanks.ReplaceAllString(text, "\n")
	return repeatedBreaks.ReplaceAllLiteralString(text, linebreak)
}

// Clean collapses text like Append does and trims line breaks and
// whitespace from both ends.
func Clean(f Formatter, text string) string {
	text = collapse(text, f.Linebreak())
	text = trailingBreaks.ReplaceAllString(text, "")
	return leadingBreaks.ReplaceAllString(text, "")
}

type buffer struct {
	sb strings.Builder
}

func (b *buffer) RawAppend(text string) { b.sb.WriteString(text) }
func (b *buffer) String() string        { return b.sb.String() }

// HTMLFormatter writes HTML fragments. Paragraphs are line breaks since
// <p> renders with unexpected spacing inside table cells on GitHub.
type HTMLFormatter struct {
	buffer
}

func (f *HTMLFormatter) Format() Format    { return HTML }
func (f *HTMLFormatter) Linebreak() string { return "<br>\n" }
func (f *HTMLFormatter) Empty() Formatter  { return &HTMLFormatter{} }
func (f *HTMLFormatter) Newline()          { f.RawAppend(f.Linebreak()) }

func (f *HTMLFormatter) Paragraph() {
	f.RawAppend("<br><br>")
	f.Append("\n")
}

func (f *HTMLFormatter) Append(text string) {
	if len(text) > 1 {
		text = collapse(text, f.Linebreak())
	}
	f.RawAppend(text)
}

func (f *HTMLFormatter) Bold(text string) {
	f.Append("<b>" + text + "</b>")
}

func (f *HTMLFormatter) Italic(text string) {
	f.Append("<i>" + text + "</i>")
}

func (f *HTMLFormatter) Code(text string) {
	f.Append("<code>")
	f.Escape(text)
	f.Append("</code>")
}

func (f *HTMLFormatter) Escape(text string) {
	f.Append(htmlTextEscaper.Replace(strings.TrimSpace(text)))
}

// MarkdownFormatter writes GitHub flavored Markdown suitable for a
// table cell: pipes are always escaped.
type MarkdownFormatter struct {
	buffer
	noHTML bool
}

func (f *MarkdownFormatter) Format() Format { return Markdown }

// Linebreak is <br>, or a space when HTML is disabled since a raw
// newline ends the table row.
func (f *MarkdownFormatter) Linebreak() string {
	if f.noHTML {
		return " "
	}
	return "<br>"
}

func (f *MarkdownFormatter) Empty() Formatter { return &MarkdownFormatter{noHTML: f.noHTML} }
func (f *MarkdownFormatter) Newline()         { f.RawAppend(f.Linebreak()) }

func (f *MarkdownFormatter) Paragraph() {
	f.Append("\n")
	f.Append("\n")
}

func (f *MarkdownFormatter) Append(text string) {
	text = escapeUnescaped(text, '|')
	if len(text) > 1 {
		text = collapse(text, f.Linebreak())
	}
	f.RawAppend(text)
}

func (f *MarkdownFormatter) Bold(text string) {
	f.Append("**" + escapeUnescaped(text, '*') + "**")
}

func (f *MarkdownFormatter) Italic(text string) {
	f.Append("*" + escapeUnescaped(text, '*') + "*")
}

func (f *MarkdownFormatter) Code(text string) {
	f.Append("```" + escapeUnescaped(text, '`') + "```")
}

const markdownSpecials = "\\`*_{}[]<>()#+-.!|"

func (f *MarkdownFormatter) Escape(text string) {
	var sb strings.Builder
	for _, r := range text {
		if strings.ContainsRune(markdownSpecials, r) {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	f.Append(sb.String())
}

// escapeUnescaped puts a backslash before every ch that is preceded by
// an even number of backslashes.
func escapeUnescaped(text string, ch rune) string {
	if !strings.ContainsRune(text, ch) {
		return text
	}
	var sb strings.Builder
	backslashes := 0
	for _, r := range text {
		if r == ch && backslashes%2 == 0 {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
		if r == '\\' {
			backslashes++
		} else {
			backslashes = 0
		}
	}
	return sb.String()
}
