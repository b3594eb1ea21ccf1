// Package format writes discovered properties for inspection, as JSON
// or as one tab-separated line per property.
package format

import (
	"encoding"
	"fmt"
	"io"

	"github.com/dhamidi/confdoc/property"
	"github.com/dhamidi/confdoc/render"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(records []*property.Record) error
}

// New returns the encoder named name, json or line.
func New(name string, w io.Writer) (Encoder, error) {
	switch name {
	case "json":
		return NewJSONEncoder(w), nil
	case "line":
		return NewLineEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s (expected json or line)", name)
}

// EncodeDocumented writes rendered properties in the named format.
func EncodeDocumented(name string, w io.Writer, docs []render.Documented) error {
	var (
		text []byte
		err  error
	)
	switch name {
	case "json":
		text, err = marshalDocumentedJSON(docs)
	case "line":
		text, err = marshalDocumentedLines(docs)
	default:
		return fmt.Errorf("unknown format: %s (expected json or line)", name)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(text)
	return err
}
