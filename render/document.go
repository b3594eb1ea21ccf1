package render

import (
	"strings"

	"github.com/tliron/commonlog"

	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/property"
)

var log = commonlog.GetLogger("confdoc.render")

// Documented is a property ready for a template.
type Documented struct {
	Name         string `json:"name"`
	Required     bool   `json:"required"`
	Deprecated   bool   `json:"deprecated"`
	Default      string `json:"default,omitempty"`
	HasDefault   bool   `json:"hasDefault"`
	Description  string `json:"description"`
	Restrictions string `json:"restrictions"`

	Record *property.Record `json:"-"`
}

// Generator documents property records in one format.
type Generator struct {
	format Formatter
	sink   *diagnostic.Sink
	values Evaluator
	// allowHTML keeps sanitized HTML tags found in comments.
	allowHTML bool
}

// NewGenerator returns a generator writing with formatters like f.
// values may be nil.
func NewGenerator(f Formatter, sink *diagnostic.Sink, values Evaluator) *Generator {
	allowHTML := true
	if md, ok := f.(*MarkdownFormatter); ok {
		allowHTML = !md.noHTML
	}
	return &Generator{format: f.Empty(), sink: sink, values: values, allowHTML: allowHTML}
}

func (g *Generator) Formatter() Formatter { return g.format }

// DocumentAll documents records in order, leaving out hidden ones.
func (g *Generator) DocumentAll(records []*property.Record) []Documented {
	out := make([]Documented, 0, len(records))
	for _, r := range records {
		if d, ok := g.Document(r); ok {
			out = append(out, d)
		}
	}
	return out
}

// Document renders the description and restrictions of r. ok is false
// when one of its comments carries @hidden.
func (g *Generator) Document(r *property.Record) (doc Documented, ok bool) {
	desc := g.format.Empty()
	if (describer{f: desc, allowHTML: g.allowHTML}).comment(r.Doc) {
		return Documented{}, false
	}

	if len(r.Additional) > 0 {
		if strings.TrimSpace(desc.String()) != "" {
			desc.Paragraph()
		}
		for i, extra := range r.Additional {
			add := g.format.Empty()
			if (describer{f: add, allowHTML: g.allowHTML}).comment(extra) {
				return Documented{}, false
			}
			s := add.String()
			if strings.TrimSpace(s) == "" || alreadyPresent(s, desc.String()) {
				continue
			}
			desc.Append(s)
			if i < len(r.Additional)-1 {
				desc.Paragraph()
			}
		}
	}

	restrictions := g.format.Empty()
	g.restrictions(restrictions, r)

	return Documented{
		Name:         r.Name,
		Required:     r.Required,
		Deprecated:   r.Deprecated,
		Default:      r.Default,
		HasDefault:   r.HasDefault,
		Description:  Clean(g.format, desc.String()),
		Restrictions: Clean(g.format, restrictions.String()),
		Record:       r,
	}, true
}
