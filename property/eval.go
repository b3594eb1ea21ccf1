package property

import (
	"strconv"
	"strings"

	"github.com/dhamidi/confdoc/java"
)

// factoryMethods are static factories whose single argument is taken as
// the value they produce.
var factoryMethods = map[string]bool{
	"of":          true,
	"from":        true,
	"valueOf":     true,
	"getInstance": true,
	"newInstance": true,
}

// emptyOptional is the evaluated text meaning "no default".
const emptyOptional = "Optional.empty()"

// Evaluator folds initializer expressions into the text Java's toString
// would print for their value, without running any code. Names resolve
// through the codebase and, for compiled classes, through its classpath.
type Evaluator struct {
	cb *java.Codebase
}

func NewEvaluator(cb *java.Codebase) *Evaluator {
	return &Evaluator{cb: cb}
}

// evalScope carries the class names resolve from and the declared type
// of the property being evaluated.
type evalScope struct {
	class  *java.Class
	target *java.Type
	// targetFrom is where target was declared.
	targetFrom *java.Class
	seen       map[*java.Field]bool
}

func (s evalScope) in(c *java.Class) evalScope {
	s.class = c
	return s
}

// Evaluate returns the text of e's value as seen from class from, for a
// property declared with type target. ok is false when the expression
// yields no default.
func (ev *Evaluator) Evaluate(from *java.Class, target *java.Type, e java.Expr) (string, bool) {
	s := evalScope{class: from, target: target, targetFrom: from, seen: map[*java.Field]bool{}}
	v, ok := ev.eval(e, s)
	if !ok || v == emptyOptional {
		return "", false
	}
	return v, true
}

func (ev *Evaluator) eval(e java.Expr, s evalScope) (string, bool) {
	switch e := e.(type) {
	case nil:
		return "", false
	case *java.Literal:
		return literalText(e), true
	case *java.Identifier:
		return ev.identifier(e, s)
	case *java.MemberAccess:
		return ev.memberAccess(e, s)
	case *java.Call:
		switch {
		case e.Target != nil && factoryMethods[e.Name] && len(e.Args) == 1:
			return ev.eval(e.Args[0], s)
		case e.Target != nil && e.Name == "toString" && len(e.Args) == 0:
			return ev.eval(e.Target, s)
		}
		return e.Source(), true
	case *java.NewObject:
		return "", false
	case *java.NewArray:
		var elems []string
		for _, el := range e.Elems {
			if v, ok := ev.eval(el, s); ok {
				elems = append(elems, v)
			}
		}
		return "[" + strings.Join(elems, ", ") + "]", true
	case *java.Cast:
		return ev.eval(e.X, s)
	}
	return e.Source(), true
}

func (ev *Evaluator) identifier(e *java.Identifier, s evalScope) (string, bool) {
	if f := java.LookupField(s.class, e.Name); f != nil {
		return ev.field(f, s)
	}
	if ref, ok := ev.cb.ResolveStaticImport(s.class, e.Name); ok {
		if v, ok, found := ev.constant(ref, e.Name, s); found {
			return v, ok
		}
	}
	return e.Source(), true
}

func (ev *Evaluator) memberAccess(e *java.MemberAccess, s evalScope) (string, bool) {
	if e.Name == "toString" {
		return ev.eval(e.Target, s)
	}
	if owner, ok := java.QualifiedName(e.Target); ok {
		if ref, ok := ev.cb.ResolveType(s.class, owner); ok {
			if v, ok, found := ev.constant(ref, e.Name, s); found {
				return v, ok
			}
		}
	}
	if ev.targetIsEnum(s) {
		return e.Name, true
	}
	return e.Source(), true
}

// field evaluates a source field: enum constants print their name, other
// fields their initializer as seen from the declaring class. A field
// without initializer has no value.
func (ev *Evaluator) field(f *java.Field, s evalScope) (string, bool) {
	if f.EnumConstant {
		return f.Name, true
	}
	if f.Init == nil || s.seen[f] {
		return "", false
	}
	s.seen[f] = true
	defer delete(s.seen, f)
	return ev.eval(f.Init, s.in(f.Class))
}

// constant looks up a static member of a resolved type. found is false
// when the type does not declare it.
func (ev *Evaluator) constant(ref java.TypeRef, member string, s evalScope) (v string, ok, found bool) {
	if ref.Class != nil {
		f := ref.Class.Field(member)
		if f == nil {
			return "", false, false
		}
		v, ok = ev.field(f, s)
		return v, ok, true
	}
	v, ok = ev.cb.Classpath().StaticConstant(ref.BinaryName(), member)
	return v, ok, ok
}

func (ev *Evaluator) targetIsEnum(s evalScope) bool {
	if s.target == nil || s.target.IsPrimitive() {
		return false
	}
	ref, ok := ev.cb.ResolveType(s.targetFrom, s.target.Name)
	return ok && ref.IsEnum()
}

// literalText prints a literal the way String.valueOf prints the value
// it denotes.
func literalText(l *java.Literal) string {
	switch l.Kind {
	case java.LiteralInt:
		return intText(l.Value)
	case java.LiteralFloat:
		return floatText(l.Value)
	case java.LiteralNull:
		return "null"
	}
	return l.Value
}

func intText(lit string) string {
	s := strings.ReplaceAll(lit, "_", "")
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	long := strings.HasSuffix(s, "l") || strings.HasSuffix(s, "L")
	s = strings.TrimRight(s, "lL")

	base := 10
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		base, s = 16, s[2:]
	case strings.HasPrefix(s, "0b"), strings.HasPrefix(s, "0B"):
		base, s = 2, s[2:]
	case len(s) > 1 && s[0] == '0':
		base, s = 8, s[1:]
	}

	var v int64
	if base == 10 {
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return lit
		}
		v = int64(n)
	} else {
		// Non-decimal literals denote the two's complement bit pattern.
		n, err := strconv.ParseUint(s, base, 64)
		if err != nil {
			return lit
		}
		if long {
			v = int64(n)
		} else {
			v = int64(int32(uint32(n)))
		}
	}
	if neg {
		v = -v
	}
	return strconv.FormatInt(v, 10)
}

func floatText(lit string) string {
	s := strings.ReplaceAll(lit, "_", "")
	if s == "" {
		return lit
	}
	switch s[len(s)-1] {
	case 'f', 'F':
		f, err := strconv.ParseFloat(s[:len(s)-1], 32)
		if err != nil {
			return lit
		}
		return java.FormatConstant(float32(f))
	case 'd', 'D':
		s = s[:len(s)-1]
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return lit
	}
	return java.FormatConstant(f)
}
