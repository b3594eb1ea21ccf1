package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/confdoc/java/javadoc"
	"github.com/dhamidi/confdoc/property"
	"github.com/dhamidi/confdoc/render"
)

type JSONEncoder struct {
	w       io.Writer
	records []*property.Record
}

func NewJSONEncoder(w io.Writer) *JSONEncoder {
	return &JSONEncoder{w: w}
}

func (e *JSONEncoder) Encode(records []*property.Record) error {
	e.records = records
	text, err := e.MarshalText()
	if err != nil {
		return err
	}
	_, err = e.w.Write(append(text, '\n'))
	return err
}

func (e *JSONEncoder) MarshalText() ([]byte, error) {
	out := make([]jsonRecord, 0, len(e.records))
	for _, r := range e.records {
		out = append(out, buildRecordData(r))
	}
	return json.MarshalIndent(out, "", "  ")
}

type jsonRecord struct {
	Name        string   `json:"name"`
	Default     *string  `json:"default,omitempty"`
	Required    bool     `json:"required,omitempty"`
	Deprecated  bool     `json:"deprecated,omitempty"`
	Opaque      bool     `json:"opaque,omitempty"`
	Declaration string   `json:"declaration,omitempty"`
	Type        string   `json:"type,omitempty"`
	Position    string   `json:"position,omitempty"`
	Binding     string   `json:"binding,omitempty"`
	Doc         string   `json:"doc,omitempty"`
	Additional  []string `json:"additional,omitempty"`
}

func buildRecordData(r *property.Record) jsonRecord {
	jr := jsonRecord{
		Name:       r.Name,
		Required:   r.Required,
		Deprecated: r.Deprecated,
		Opaque:     r.Opaque,
		Doc:        javadoc.PlainText(r.Doc),
	}
	if r.HasDefault {
		def := r.Default
		jr.Default = &def
	}
	if !r.Decl.IsZero() {
		jr.Declaration = r.Decl.String()
		if t := r.Decl.Type(); t != nil {
			jr.Type = t.String()
		}
		if pos := r.Decl.Pos(); pos.Line > 0 {
			jr.Position = pos.String()
		}
	}
	if r.Binding != nil {
		jr.Binding = r.Binding.Name
	}
	for _, doc := range r.Additional {
		if text := javadoc.PlainText(doc); text != "" {
			jr.Additional = append(jr.Additional, text)
		}
	}
	return jr
}

func marshalDocumentedJSON(docs []render.Documented) ([]byte, error) {
	if docs == nil {
		docs = []render.Documented{}
	}
	text, err := json.MarshalIndent(docs, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(text, '\n'), nil
}
