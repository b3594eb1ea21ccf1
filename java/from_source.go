package java

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/dhamidi/confdoc/java/javadoc"
	"github.com/dhamidi/confdoc/java/parser"
)

// ParseFile parses a Java compilation unit into classes. Syntax errors
// are collected on the returned File; whatever parsed cleanly is still
// turned into classes.
func ParseFile(path string, source []byte) *File {
	f := &File{Path: path, lines: splitLines(source)}

	p := parser.ParseCompilationUnit(bytes.NewReader(source), parser.WithFile(path))
	cu := p.Finish()
	if cu == nil {
		return f
	}

	cu.Walk(func(n *parser.Node) bool {
		if n.IsError() {
			f.Errors = append(f.Errors, SyntaxError{Pos: posOf(n.Span.Start), Message: n.Error.Message})
		}
		return true
	})

	b := &builder{p: p, unit: unitFromNode(cu, path)}
	f.Unit = b.unit
	for _, child := range cu.Children {
		if isTypeDecl(child) {
			f.Classes = append(f.Classes, b.class(child, nil))
		}
	}
	return f
}

// ParseExpression parses a single expression, as found in an annotation
// value or initializer.
func ParseExpression(source string) (Expr, error) {
	p := parser.ParseExpression(strings.NewReader(source))
	n := p.Finish()
	if n == nil {
		return nil, &SyntaxError{Message: "empty expression"}
	}
	if n.HasError() {
		var msg string
		n.Walk(func(e *parser.Node) bool {
			if e.IsError() {
				msg = e.Error.Message
				return false
			}
			return true
		})
		return nil, &SyntaxError{Pos: posOf(n.Span.Start), Message: msg}
	}
	b := &builder{p: p, unit: &Unit{}}
	return b.expr(n), nil
}

type builder struct {
	p    *parser.Parser
	unit *Unit
}

func posOf(p parser.Position) Pos {
	return Pos{File: p.File, Line: p.Line, Column: p.Column}
}

func isTypeDecl(n *parser.Node) bool {
	switch n.Kind {
	case parser.KindClassDecl, parser.KindInterfaceDecl, parser.KindEnumDecl,
		parser.KindRecordDecl, parser.KindAnnotationDecl:
		return true
	}
	return false
}

func unitFromNode(cu *parser.Node, path string) *Unit {
	u := &Unit{File: path}
	if pkg := cu.FirstChildOfKind(parser.KindPackageDecl); pkg != nil {
		u.Package = pkg.FirstChildOfKind(parser.KindQualifiedName).TokenLiteral()
	}
	for _, imp := range cu.ChildrenOfKind(parser.KindImportDecl) {
		name := imp.FirstChildOfKind(parser.KindQualifiedName)
		if name == nil {
			continue
		}
		u.Imports = append(u.Imports, Import{
			Name:     name.TokenLiteral(),
			Static:   imp.FirstChildOfKind(parser.KindModifier) != nil,
			OnDemand: imp.FirstChildOfKind(parser.KindIdentifier) != nil,
		})
	}
	return u
}

func parseDoc(tok *parser.Token) *javadoc.DocComment {
	if tok == nil {
		return nil
	}
	return javadoc.Parse(tok.Literal)
}

var classKinds = map[parser.NodeKind]ClassKind{
	parser.KindClassDecl:      ClassKindClass,
	parser.KindInterfaceDecl:  ClassKindInterface,
	parser.KindEnumDecl:       ClassKindEnum,
	parser.KindRecordDecl:     ClassKindRecord,
	parser.KindAnnotationDecl: ClassKindAnnotation,
}

type modifiers struct {
	annotations Annotations
	static      bool
	final       bool
	public      bool
	private     bool
	abstract    bool
}

func (b *builder) modifiers(n *parser.Node) modifiers {
	var m modifiers
	if n == nil {
		return m
	}
	for _, child := range n.Children {
		switch child.Kind {
		case parser.KindAnnotation:
			m.annotations = append(m.annotations, b.annotation(child))
		case parser.KindModifier:
			switch child.TokenLiteral() {
			case "static":
				m.static = true
			case "final":
				m.final = true
			case "public":
				m.public = true
			case "private":
				m.private = true
			case "abstract":
				m.abstract = true
			}
		}
	}
	return m
}

func (b *builder) class(n *parser.Node, outer *Class) *Class {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	c := &Class{
		Name:        n.Name(),
		Kind:        classKinds[n.Kind],
		Unit:        b.unit,
		Outer:       outer,
		Annotations: mods.annotations,
		Doc:         parseDoc(n.Doc),
		Abstract:    mods.abstract,
		Pos:         b.namePos(n),
	}
	c.Static = outer != nil && (mods.static || c.Kind != ClassKindClass || outer.IsInterface())

	for _, comp := range n.ChildrenOfKind(parser.KindRecordComponent) {
		cm := b.modifiers(comp.FirstChildOfKind(parser.KindModifiers))
		c.Fields = append(c.Fields, &Field{
			Name:        comp.Name(),
			Type:        b.typ(comp.FirstChildOfKind(parser.KindType)),
			Class:       c,
			Annotations: cm.annotations,
			Final:       true,
			Component:   true,
			Pos:         b.namePos(comp),
		})
	}

	if body := n.FirstChildOfKind(parser.KindClassBody); body != nil {
		for _, member := range body.Children {
			b.member(c, member)
		}
	}

	synthesizeCanonicalConstructor(c)
	applyLombok(c)
	return c
}

func (b *builder) member(c *Class, n *parser.Node) {
	switch {
	case isTypeDecl(n):
		c.Nested = append(c.Nested, b.class(n, c))
	case n.Kind == parser.KindEnumConstant:
		mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
		c.Fields = append(c.Fields, &Field{
			Name:         n.Name(),
			Type:         &Type{Name: c.Name},
			Class:        c,
			Annotations:  mods.annotations,
			Doc:          parseDoc(n.Doc),
			Static:       true,
			Final:        true,
			Public:       true,
			EnumConstant: true,
			Pos:          b.namePos(n),
		})
	case n.Kind == parser.KindFieldDecl:
		b.fields(c, n)
	case n.Kind == parser.KindMethodDecl:
		c.Methods = append(c.Methods, b.method(c, n))
	case n.Kind == parser.KindConstructorDecl:
		c.Constructors = append(c.Constructors, b.constructor(c, n))
	}
}

func (b *builder) fields(c *Class, n *parser.Node) {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	base := b.typ(n.FirstChildOfKind(parser.KindType))
	implicit := c.IsInterface()

	for _, v := range n.ChildrenOfKind(parser.KindVariable) {
		t := base
		if dims := v.FirstChildOfKind(parser.KindArrayDims); dims != nil {
			copied := *base
			copied.Dims += len(dims.TokenLiteral()) / 2
			t = &copied
		}
		f := &Field{
			Name:        v.Name(),
			Type:        t,
			Class:       c,
			Annotations: mods.annotations,
			Doc:         parseDoc(n.Doc),
			Static:      mods.static || implicit,
			Final:       mods.final || implicit,
			Public:      mods.public || implicit,
			Pos:         b.namePos(v),
		}
		for _, child := range v.Children {
			if child.Kind != parser.KindIdentifier && child.Kind != parser.KindArrayDims {
				f.Init = b.expr(child)
			}
		}
		c.Fields = append(c.Fields, f)
	}
}

func (b *builder) method(c *Class, n *parser.Node) *Method {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	m := &Method{
		Name:        n.Name(),
		Class:       c,
		Result:      b.typ(n.FirstChildOfKind(parser.KindType)),
		Annotations: mods.annotations,
		Doc:         parseDoc(n.Doc),
		Static:      mods.static,
		Public:      mods.public || c.IsInterface(),
		Private:     mods.private,
		Pos:         b.namePos(n),
	}
	m.Params = b.params(m, n.FirstChildOfKind(parser.KindParameters))
	return m
}

func (b *builder) constructor(c *Class, n *parser.Node) *Method {
	mods := b.modifiers(n.FirstChildOfKind(parser.KindModifiers))
	m := &Method{
		Name:        c.Name,
		Class:       c,
		Annotations: mods.annotations,
		Doc:         parseDoc(n.Doc),
		Public:      mods.public,
		Private:     mods.private,
		Constructor: true,
		Pos:         b.namePos(n),
	}

	if params := n.FirstChildOfKind(parser.KindParameters); params != nil {
		m.Params = b.params(m, params)
	} else {
		m.Compact = true
		for _, comp := range c.Components() {
			m.Params = append(m.Params, &Parameter{
				Name:        comp.Name,
				Type:        comp.Type,
				Annotations: comp.Annotations,
				Method:      m,
				Pos:         comp.Pos,
			})
		}
	}

	if body := n.FirstChildOfKind(parser.KindBody); body != nil {
		for _, stmt := range body.ChildrenOfKind(parser.KindAssignStmt) {
			ids := stmt.ChildrenOfKind(parser.KindIdentifier)
			if len(ids) == 0 {
				continue
			}
			a := Assignment{
				Target: ids[0].TokenLiteral(),
				This:   stmt.FirstChildOfKind(parser.KindThis) != nil,
			}
			if len(ids) == 2 {
				a.Value = ids[1].TokenLiteral()
			}
			m.Assignments = append(m.Assignments, a)
		}
	}
	return m
}

func (b *builder) params(m *Method, n *parser.Node) []*Parameter {
	if n == nil {
		return nil
	}
	var out []*Parameter
	for _, pn := range n.ChildrenOfKind(parser.KindParameter) {
		mods := b.modifiers(pn.FirstChildOfKind(parser.KindModifiers))
		typNode := pn.FirstChildOfKind(parser.KindType)
		param := &Parameter{
			Name:        pn.Name(),
			Type:        b.typ(typNode),
			Annotations: mods.annotations,
			Method:      m,
			Pos:         b.namePos(pn),
		}
		if typNode != nil {
			dims := typNode.ChildrenOfKind(parser.KindArrayDims)
			param.Varargs = len(dims) > 0 && b.p.Text(dims[len(dims)-1]) == "..."
		}
		out = append(out, param)
	}
	return out
}

// namePos returns the position of a declaration's name, falling back to
// the start of the declaration.
func (b *builder) namePos(n *parser.Node) Pos {
	if id := n.FirstChildOfKind(parser.KindIdentifier); id != nil {
		return posOf(id.Span.Start)
	}
	return posOf(n.Span.Start)
}

func (b *builder) typ(n *parser.Node) *Type {
	if n == nil {
		return nil
	}
	t := &Type{}
	for _, child := range n.Children {
		switch child.Kind {
		case parser.KindIdentifier, parser.KindQualifiedName:
			t.Name = child.TokenLiteral()
		case parser.KindName:
			t.Name = child.TokenLiteral()
		case parser.KindFieldAccess:
			if e, ok := QualifiedName(b.expr(child)); ok {
				t.Name = e
			}
		case parser.KindTypeArguments:
			for _, arg := range child.Children {
				switch arg.Kind {
				case parser.KindType:
					t.Args = append(t.Args, b.typ(arg))
				case parser.KindWildcard:
					w := &Type{Name: "?", Wildcard: "?"}
					if bound := b.typ(arg.FirstChildOfKind(parser.KindType)); bound != nil {
						w = bound
						w.Wildcard = arg.TokenLiteral()
					}
					t.Args = append(t.Args, w)
				}
			}
		case parser.KindArrayDims:
			t.Dims += len(child.TokenLiteral()) / 2
		}
	}
	return t
}

func (b *builder) annotation(n *parser.Node) *Annotation {
	a := &Annotation{
		Name:   n.FirstChildOfKind(parser.KindQualifiedName).TokenLiteral(),
		Values: map[string]Expr{},
		Pos:    posOf(n.Span.Start),
	}
	a.Qualified = b.qualifyAnnotation(a.Name)
	for _, elem := range n.ChildrenOfKind(parser.KindAnnotationElement) {
		if len(elem.Children) < 2 {
			continue
		}
		key := elem.Children[0].TokenLiteral()
		a.Keys = append(a.Keys, key)
		a.Values[key] = b.expr(elem.Children[1])
	}
	return a
}

// qualifyAnnotation resolves the first segment of an annotation name
// through the single-type imports. Names starting with a package are
// already qualified.
func (b *builder) qualifyAnnotation(name string) string {
	head, rest, dotted := strings.Cut(name, ".")
	for _, imp := range b.unit.Imports {
		if !imp.Static && !imp.OnDemand && imp.Simple() == head {
			if dotted {
				return imp.Name + "." + rest
			}
			return imp.Name
		}
	}
	if dotted && head != "" && unicode.IsLower(rune(head[0])) {
		return name
	}
	return ""
}

func (b *builder) base(n *parser.Node) exprBase {
	return exprBase{Raw: b.p.Text(n), Pos: posOf(n.Span.Start)}
}

func (b *builder) expr(n *parser.Node) Expr {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case parser.KindLiteral:
		return b.literal(n)

	case parser.KindName:
		return &Identifier{exprBase: b.base(n), Name: n.TokenLiteral()}

	case parser.KindFieldAccess:
		if len(n.Children) < 2 {
			break
		}
		target, name := n.Children[0], n.Children[1].TokenLiteral()
		if target.Kind == parser.KindThis && target.TokenLiteral() == "this" {
			return &Identifier{exprBase: b.base(n), Name: name}
		}
		return &MemberAccess{exprBase: b.base(n), Target: b.expr(target), Name: name}

	case parser.KindCallExpr:
		return b.call(n)

	case parser.KindNewExpr:
		obj := &NewObject{exprBase: b.base(n), Type: b.typ(n.FirstChildOfKind(parser.KindType))}
		if args := n.FirstChildOfKind(parser.KindArguments); args != nil {
			obj.Args = b.exprs(args.Children)
		}
		return obj

	case parser.KindNewArrayExpr:
		arr := &NewArray{exprBase: b.base(n), Type: b.typ(n.FirstChildOfKind(parser.KindType))}
		if arr.Type != nil {
			arr.Type.Dims++
		}
		if init := n.FirstChildOfKind(parser.KindArrayInit); init != nil {
			arr.Elems = b.exprs(init.Children)
		}
		return arr

	case parser.KindArrayInit:
		return &NewArray{exprBase: b.base(n), Elems: b.exprs(n.Children)}

	case parser.KindCastExpr:
		if len(n.Children) == 2 {
			return &Cast{exprBase: b.base(n), Type: b.typ(n.Children[0]), X: b.expr(n.Children[1])}
		}

	case parser.KindParenExpr:
		if len(n.Children) == 1 {
			return b.expr(n.Children[0])
		}

	case parser.KindUnaryExpr:
		op := n.TokenLiteral()
		if len(n.Children) == 1 && (op == "-" || op == "+") {
			if lit, ok := b.expr(n.Children[0]).(*Literal); ok && (lit.Kind == LiteralInt || lit.Kind == LiteralFloat) {
				value := lit.Value
				if op == "-" {
					value = "-" + value
				}
				return &Literal{exprBase: b.base(n), Kind: lit.Kind, Value: value}
			}
		}

	case parser.KindAnnotation:
		return &AnnotationExpr{exprBase: b.base(n), Annotation: b.annotation(n)}
	}
	return &Raw{exprBase: b.base(n)}
}

func (b *builder) exprs(nodes []*parser.Node) []Expr {
	var out []Expr
	for _, n := range nodes {
		if n.IsError() {
			continue
		}
		out = append(out, b.expr(n))
	}
	return out
}

func (b *builder) call(n *parser.Node) Expr {
	if len(n.Children) < 2 {
		return &Raw{exprBase: b.base(n)}
	}
	target := n.Children[0]
	c := &Call{exprBase: b.base(n), Args: b.exprs(n.Children[1].Children)}
	switch target.Kind {
	case parser.KindName:
		c.Name = target.TokenLiteral()
	case parser.KindFieldAccess:
		if len(target.Children) < 2 {
			return &Raw{exprBase: b.base(n)}
		}
		c.Target = b.expr(target.Children[0])
		c.Name = target.Children[1].TokenLiteral()
	default:
		return &Raw{exprBase: b.base(n)}
	}
	return c
}

func (b *builder) literal(n *parser.Node) Expr {
	tok := n.Token
	lit := &Literal{exprBase: b.base(n), Value: tok.Literal}
	switch tok.Kind {
	case parser.TokenStringLiteral:
		lit.Kind = LiteralString
		lit.Value = unquote(tok.Literal)
	case parser.TokenTextBlock:
		lit.Kind = LiteralString
		lit.Value = textBlock(tok.Literal)
	case parser.TokenCharLiteral:
		lit.Kind = LiteralChar
		lit.Value = unquote(tok.Literal)
	case parser.TokenIntLiteral:
		lit.Kind = LiteralInt
	case parser.TokenFloatLiteral:
		lit.Kind = LiteralFloat
	default:
		switch tok.Literal {
		case "true", "false":
			lit.Kind = LiteralBoolean
		default:
			lit.Kind = LiteralNull
		}
	}
	return lit
}

func splitLines(source []byte) []string {
	text := strings.ReplaceAll(string(source), "\r\n", "\n")
	return strings.Split(text, "\n")
}
