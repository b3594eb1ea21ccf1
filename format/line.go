package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dhamidi/confdoc/property"
	"github.com/dhamidi/confdoc/render"
)

// LineEncoder writes one line per record:
//
//	name	default	flags	declaration	position
//
// An absent default is written as "-", flags as a comma separated list
// of required, deprecated and opaque, or "-".
type LineEncoder struct {
	w       io.Writer
	records []*property.Record
}

func NewLineEncoder(w io.Writer) *LineEncoder {
	return &LineEncoder{w: w}
}

func (e *LineEncoder) Encode(records []*property.Record) error {
	e.records = records
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *LineEncoder) MarshalText() ([]byte, error) {
	var sb strings.Builder
	for _, r := range e.records {
		def := "-"
		if r.HasDefault {
			def = quoteField(r.Default)
		}
		var decl, pos string
		if !r.Decl.IsZero() {
			decl = r.Decl.String()
			pos = r.Decl.Pos().String()
		}
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\t%s\n", r.Name, def, recordFlags(r), orDash(decl), orDash(pos))
	}
	return []byte(sb.String()), nil
}

func recordFlags(r *property.Record) string {
	var flags []string
	if r.Required {
		flags = append(flags, "required")
	}
	if r.Deprecated {
		flags = append(flags, "deprecated")
	}
	if r.Opaque {
		flags = append(flags, "opaque")
	}
	return orDash(strings.Join(flags, ","))
}

func marshalDocumentedLines(docs []render.Documented) ([]byte, error) {
	var sb strings.Builder
	for _, d := range docs {
		def := "-"
		if d.HasDefault {
			def = quoteField(d.Default)
		}
		var flags []string
		if d.Required {
			flags = append(flags, "required")
		}
		if d.Deprecated {
			flags = append(flags, "deprecated")
		}
		fmt.Fprintf(&sb, "%s\t%s\t%s\t%s\n", d.Name, def, orDash(strings.Join(flags, ",")), quoteField(d.Description))
	}
	return []byte(sb.String()), nil
}

// quoteField keeps a value on its line: tabs and newlines are escaped
// and the empty string is written as "".
func quoteField(s string) string {
	if s == "" {
		return `""`
	}
	return strings.NewReplacer("\\", `\\`, "\t", `\t`, "\n", `\n`, "\r", "").Replace(s)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
