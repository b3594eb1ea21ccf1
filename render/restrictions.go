package render

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dhamidi/confdoc/diagnostic"
	"github.com/dhamidi/confdoc/java"
	"github.com/dhamidi/confdoc/property"
)

// Evaluator recovers the value of an annotation element. The property
// package's evaluator folds constants; without one, literals are read
// as written and other expressions as their source.
type Evaluator interface {
	Evaluate(from *java.Class, target *java.Type, e java.Expr) (string, bool)
}

// attributes reads annotation elements as text.
type attributes struct {
	values Evaluator
	from   *java.Class
}

func (at attributes) text(a *java.Annotation, key string) (string, bool) {
	e := a.Value(key)
	if e == nil {
		return "", false
	}
	if at.values != nil {
		return at.values.Evaluate(at.from, nil, e)
	}
	if lit, ok := e.(*java.Literal); ok {
		return lit.Value, true
	}
	return e.Source(), true
}

func (at attributes) integer(a *java.Annotation, key string) (int, bool) {
	v, ok := at.text(a, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	return n, err == nil
}

func (at attributes) inclusive(a *java.Annotation) bool {
	v, ok := at.text(a, "inclusive")
	return !ok || strings.TrimSpace(v) != "false"
}

// message appends the constraint's message, if any, and reports whether
// there was one.
func (at attributes) message(f Formatter, a *java.Annotation) bool {
	msg, ok := at.text(a, "message")
	if !ok || strings.TrimSpace(msg) == "" {
		return false
	}
	f.Append(" " + msg)
	return true
}

func (at attributes) messages(f Formatter, items []*java.Annotation) {
	f.Newline()
	for _, a := range items {
		if at.message(f, a) {
			f.Newline()
		}
	}
}

// plain appends fixed text, escaping angle brackets for HTML.
func plain(f Formatter, text string) {
	if f.Format() == HTML {
		text = htmlTextEscaper.Replace(text)
	}
	f.Append(text)
}

type constraintDoc struct {
	single func(at attributes, f Formatter, a *java.Annotation) bool
	list   func(at attributes, f Formatter, items []*java.Annotation) bool
}

// fixed documents a constraint whose text does not depend on its
// elements.
func fixed(write func(f Formatter)) constraintDoc {
	return constraintDoc{
		single: func(at attributes, f Formatter, a *java.Annotation) bool {
			write(f)
			at.message(f, a)
			f.Newline()
			return true
		},
		list: func(at attributes, f Formatter, items []*java.Annotation) bool {
			write(f)
			at.messages(f, items)
			f.Newline()
			return true
		},
	}
}

func text(s string) func(Formatter) {
	return func(f Formatter) { plain(f, s) }
}

func hasToBe(value string) func(Formatter) {
	return func(f Formatter) {
		f.Append("has to be ")
		f.Code(value)
	}
}

var constraintDocs = map[string]constraintDoc{
	"AssertFalse":     fixed(hasToBe("false")),
	"AssertTrue":      fixed(hasToBe("true")),
	"Email":           fixed(text("valid email")),
	"Future":          fixed(text("time in future")),
	"FutureOrPresent": fixed(text("time in the present or in the future")),
	"Negative":        fixed(text("value < 0")),
	"NegativeOrZero":  fixed(text("value <= 0")),
	"NotBlank":        fixed(text("value must be present and contain at least one non-whitespace character")),
	"NotEmpty":        fixed(text("value must be present and not empty")),
	"NotNull":         fixed(text("value must be present")),
	"Null":            fixed(text("no value accepted, leave blank")),
	"Past":            fixed(text("time in the past")),
	"PastOrPresent":   fixed(text("time in the past or present")),
	"Positive":        fixed(text("0 < value")),
	"PositiveOrZero":  fixed(text("0 <= value")),
	"DecimalMax":      bound("value <", false),
	"Max":             bound("value <", false),
	"DecimalMin":      bound("value >", true),
	"Min":             bound("value >", true),
	"Digits":          {single: digits, list: digitsList},
	"Pattern":         {single: pattern, list: patternList},
	"Size":            {single: size, list: sizeList},
}

// bound documents Max and Min style limits. A list keeps the strictest
// limit: the smallest maximum or the largest minimum, exclusive before
// inclusive.
func bound(prefix string, lower bool) constraintDoc {
	single := func(at attributes, f Formatter, a *java.Annotation) bool {
		limit, ok := at.text(a, "value")
		if !ok {
			return false
		}
		op := prefix
		if at.inclusive(a) {
			op += "="
		}
		plain(f, op+" ")
		f.Code(limit)
		at.message(f, a)
		f.Newline()
		return true
	}
	list := func(at attributes, f Formatter, items []*java.Annotation) bool {
		var best *java.Annotation
		var bestValue *big.Rat
		bestInclusive := false
		for _, a := range items {
			v, ok := at.text(a, "value")
			if !ok {
				continue
			}
			dec, ok := new(big.Rat).SetString(strings.TrimSpace(v))
			if !ok {
				log.Errorf("invalid %s limit %q: invalid number format", a.Simple(), v)
				continue
			}
			inclusive := at.inclusive(a)
			cmp := 0
			if best != nil {
				cmp = dec.Cmp(bestValue)
			}
			stricter := (lower && cmp > 0) || (!lower && cmp < 0)
			if best == nil || stricter || (cmp == 0 && bestInclusive && !inclusive) {
				best, bestValue, bestInclusive = a, dec, inclusive
			}
		}
		if best == nil {
			return false
		}
		return single(at, f, best)
	}
	return constraintDoc{single: single, list: list}
}

func writeDigits(f Formatter, integer, fraction int) {
	f.Append("maximum of ")
	f.Code(strconv.Itoa(integer))
	f.Append(" digits before the decimal point and ")
	f.Code(strconv.Itoa(fraction))
	f.Append(" digits after it")
}

func digits(at attributes, f Formatter, a *java.Annotation) bool {
	integer, ok := at.integer(a, "integer")
	if !ok {
		return false
	}
	fraction, ok := at.integer(a, "fraction")
	if !ok {
		return false
	}
	writeDigits(f, integer, fraction)
	at.message(f, a)
	f.Newline()
	return true
}

// digitsList keeps the smallest integer and fraction counts.
func digitsList(at attributes, f Formatter, items []*java.Annotation) bool {
	integer, fraction := -1, -1
	for _, a := range items {
		if n, ok := at.integer(a, "integer"); ok && (integer < 0 || n < integer) {
			integer = n
		}
		if n, ok := at.integer(a, "fraction"); ok && (fraction < 0 || n < fraction) {
			fraction = n
		}
	}
	if integer < 0 || fraction < 0 {
		return false
	}
	writeDigits(f, integer, fraction)
	at.messages(f, items)
	f.Newline()
	return true
}

func pattern(at attributes, f Formatter, a *java.Annotation) bool {
	re, ok := at.text(a, "regexp")
	if !ok {
		return false
	}
	f.Append("value must match regular expression ")
	f.Code(re)
	at.message(f, a)
	f.Newline()
	return true
}

func patternList(at attributes, f Formatter, items []*java.Annotation) bool {
	if len(items) == 0 {
		return false
	}
	f.Append("value must match regular expressions:")
	f.Newline()
	for _, a := range items {
		re, ok := at.text(a, "regexp")
		if !ok {
			continue
		}
		f.Code(strings.TrimSpace(re))
		at.message(f, a)
		f.Newline()
	}
	f.Newline()
	return true
}

func writeSize(f Formatter, min, max int, hasMin, hasMax bool) bool {
	switch {
	case hasMin && hasMax:
		f.Code(strconv.Itoa(min))
		plain(f, " <= value length/size <= ")
		f.Code(strconv.Itoa(max))
	case hasMin:
		f.Code(strconv.Itoa(min))
		plain(f, " <= value length/size")
	case hasMax:
		plain(f, "value length/size <= ")
		f.Code(strconv.Itoa(max))
	default:
		return false
	}
	return true
}

func size(at attributes, f Formatter, a *java.Annotation) bool {
	min, hasMin := at.integer(a, "min")
	max, hasMax := at.integer(a, "max")
	if !writeSize(f, min, max, hasMin, hasMax) {
		return false
	}
	at.message(f, a)
	f.Newline()
	return true
}

// sizeList keeps the largest minimum and the smallest maximum.
func sizeList(at attributes, f Formatter, items []*java.Annotation) bool {
	var min, max int
	var hasMin, hasMax bool
	for _, a := range items {
		if n, ok := at.integer(a, "min"); ok && (!hasMin || n > min) {
			min, hasMin = n, true
		}
		if n, ok := at.integer(a, "max"); ok && (!hasMax || n < max) {
			max, hasMax = n, true
		}
	}
	if !writeSize(f, min, max, hasMin, hasMax) {
		return false
	}
	at.messages(f, items)
	f.Newline()
	return true
}

// listItems returns the constraints held by a repeatable container.
func listItems(a *java.Annotation) []*java.Annotation {
	var out []*java.Annotation
	for _, e := range java.Elements(a.Value("value")) {
		if ae, ok := e.(*java.AnnotationExpr); ok && ae.Annotation != nil {
			out = append(out, ae.Annotation)
		}
	}
	return out
}

// restrictions writes the default value and the validation constraints
// of r, one per line.
func (g *Generator) restrictions(f Formatter, r *property.Record) {
	if r.HasDefault {
		if v := r.Default; strings.TrimSpace(v) != "" && v != `""` {
			f.RawAppend("Default value: ")
			f.Code(v)
			f.Newline()
		}
	}

	at := attributes{values: g.values, from: r.Decl.Class()}
	subject := diagnostic.At(r.Decl.Pos(), r.Decl.Name())
	first := true
	for _, c := range property.Constraints(r.Decl) {
		if c.Javax {
			g.sink.Warn(subject, "You are using old javax validation constraint "+c.Source+" - use "+property.JakartaConstraints+"* package when possible")
		}
		doc, ok := constraintDocs[c.Name]
		if !ok {
			log.Debugf("no documentation for constraint %s", c.Source)
			continue
		}
		local := f.Empty()
		if c.List {
			ok = doc.list(at, local, listItems(c.Annotation))
		} else {
			ok = doc.single(at, local, c.Annotation)
		}
		if !ok {
			g.sink.Warn(subject, "Failed to document annotation constraint "+c.Name)
			continue
		}
		if !first {
			f.Newline()
		}
		first = false
		f.Append(local.String())
	}
}
