package property

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dhamidi/confdoc/diagnostic"
)

var deprecatedAnnotation = "java.lang.Deprecated"

// Merge folds records sharing a name into the first one documented. A
// later record's comment is appended to it when merging is enabled and
// dropped with a warning otherwise. An undocumented record is replaced
// in place by the next record of the same name. The result keeps the
// order of first discovery and has its required and deprecated flags set
// from every declaration folded into it, binding parameters included.
func Merge(records []*Record, merge bool, sink *diagnostic.Sink) []*Record {
	index := map[string]int{}
	groups := map[string][]*Record{}
	var out []*Record
	for _, r := range records {
		groups[r.Name] = append(groups[r.Name], r)
		i, ok := index[r.Name]
		if !ok {
			index[r.Name] = len(out)
			out = append(out, r)
			continue
		}
		cur := out[i]
		if cur.Doc == nil {
			out[i] = r
			continue
		}
		if r.Doc == nil {
			continue
		}
		if merge {
			cur.AddDoc(r.Doc)
		} else {
			sink.Warn(r.Decl.subject(), "Skipping secondary comment for "+r.Name+" (on element: "+r.Decl.Name()+"); comment merging is disabled")
		}
	}
	for _, r := range out {
		r.Required, r.Deprecated = false, false
		for _, m := range groups[r.Name] {
			for _, d := range m.decls() {
				r.Required = r.Required || IsRequired(d)
				r.Deprecated = r.Deprecated || d.Annotations().Has(deprecatedAnnotation)
			}
		}
	}
	return out
}

// decls returns the declaration of r followed by its binding parameter.
func (r *Record) decls() []Decl {
	if r.Binding == nil {
		return []Decl{r.Decl}
	}
	return []Decl{r.Decl, ParamDecl(r.Binding)}
}

// Order is the name order of the rendered table.
type Order int

const (
	OrderNone Order = iota
	OrderAsc
	OrderDesc
)

func (o Order) String() string {
	switch o {
	case OrderAsc:
		return "asc"
	case OrderDesc:
		return "desc"
	}
	return "none"
}

// ParseOrder accepts asc, ascending, desc, descending and none in any
// case.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return OrderAsc, nil
	case "desc", "descending":
		return OrderDesc, nil
	case "none":
		return OrderNone, nil
	}
	return OrderNone, fmt.Errorf("unknown order %q", s)
}

// Sorting selects how Sort orders records.
type Sorting struct {
	Order           Order
	PrependRequired bool
	DeprecatedLast  bool
}

// Sort orders records in place: deprecated ones last, then required
// ones first, then by name. Criteria that are not selected do not take
// part; with none selected the order is left alone.
func Sort(records []*Record, s Sorting) {
	if s.Order == OrderNone && !s.PrependRequired && !s.DeprecatedLast {
		return
	}
	slices.SortStableFunc(records, func(a, b *Record) int {
		if s.DeprecatedLast && a.Deprecated != b.Deprecated {
			if a.Deprecated {
				return 1
			}
			return -1
		}
		if s.PrependRequired && a.Required != b.Required {
			if a.Required {
				return -1
			}
			return 1
		}
		switch s.Order {
		case OrderAsc:
			return strings.Compare(a.Name, b.Name)
		case OrderDesc:
			return strings.Compare(b.Name, a.Name)
		}
		return 0
	})
}
