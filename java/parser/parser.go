package parser

import (
	"io"
	"strings"
)

type Option func(*Parser)

func WithFile(path string) Option {
	return func(p *Parser) {
		p.file = path
	}
}

func WithComments() Option {
	return func(p *Parser) {
		p.includeComments = true
	}
}

type parseFunc func(*Parser) *Node

// Parser reads Java source into a declaration-level syntax tree. Field
// initializers and annotation values are parsed as full expressions;
// method bodies are skipped and constructor bodies are reduced to a
// list of top-level statements.
type Parser struct {
	file            string
	includeComments bool
	reader          io.Reader
	input           []byte
	tokens          []Token
	docs            map[int]*Token
	comments        []Token
	pos             int
	entry           parseFunc
}

func ParseCompilationUnit(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseCompilationUnit, opts)
}

func ParseExpression(r io.Reader, opts ...Option) *Parser {
	return newParser(r, (*Parser).parseStandaloneExpression, opts)
}

func newParser(r io.Reader, entry parseFunc, opts []Option) *Parser {
	p := &Parser{reader: r, entry: entry}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Comments() []Token {
	return p.comments
}

// Source returns the bytes read by Finish.
func (p *Parser) Source() []byte {
	return p.input
}

// Text returns the source text covered by n with runs of whitespace
// collapsed to a single space.
func (p *Parser) Text(n *Node) string {
	if n == nil {
		return ""
	}
	start, end := n.Span.Start.Offset, n.Span.End.Offset
	if start < 0 || end > len(p.input) || start >= end {
		return ""
	}
	return strings.Join(strings.Fields(string(p.input[start:end])), " ")
}

// Finish reads the whole input and parses it. It returns nil when the
// input cannot be read or is empty.
func (p *Parser) Finish() *Node {
	if p.input == nil {
		data, err := io.ReadAll(p.reader)
		if err != nil {
			return nil
		}
		p.input = data
	}
	if len(p.input) == 0 {
		return nil
	}
	p.tokenize(NewLexer(p.input, p.file))
	p.pos = 0
	return p.entry(p)
}

// tokenize drops comments from the token stream, remembering for every
// token the documentation comment directly in front of it.
func (p *Parser) tokenize(lexer *Lexer) {
	p.tokens = nil
	p.comments = nil
	p.docs = map[int]*Token{}
	var doc *Token
	for {
		tok := lexer.NextToken()
		if tok.Kind == TokenComment {
			if p.includeComments {
				p.comments = append(p.comments, tok)
			}
			if tok.IsDoc() {
				doc = &tok
			}
			continue
		}
		if doc != nil {
			p.docs[len(p.tokens)] = doc
			doc = nil
		}
		p.tokens = append(p.tokens, tok)
		if tok.Kind == TokenEOF {
			break
		}
	}
}

func (p *Parser) peek() Token {
	return p.peekN(0)
}

func (p *Parser) peekN(n int) Token {
	if p.pos+n >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(kind TokenKind) bool {
	return p.peek().Kind == kind
}

// is reports whether the current token is the keyword or operator lit.
func (p *Parser) is(lit string) bool {
	return p.peek().Is(lit)
}

func (p *Parser) isN(n int, lit string) bool {
	return p.peekN(n).Is(lit)
}

func (p *Parser) isIdent(lit string) bool {
	tok := p.peek()
	return tok.Kind == TokenIdent && tok.Literal == lit
}

func (p *Parser) expect(lit string) *Token {
	if p.is(lit) {
		tok := p.advance()
		return &tok
	}
	return nil
}

func (p *Parser) expectIdent() *Token {
	if p.check(TokenIdent) {
		tok := p.advance()
		return &tok
	}
	return nil
}

// mustProgress returns a function that checks if the parser has advanced.
// Call it at the start of a loop iteration, then call the returned function
// at the end to break if no progress was made.
func (p *Parser) mustProgress() func() bool {
	saved := p.pos
	return func() bool {
		if p.pos == saved {
			if !p.check(TokenEOF) {
				p.advance()
			}
			return false
		}
		return true
	}
}

func (p *Parser) startNode(kind NodeKind) *Node {
	return &Node{
		Kind: kind,
		Span: Span{Start: p.peek().Span.Start},
	}
}

func (p *Parser) finishNode(n *Node) *Node {
	if p.pos > 0 && p.pos <= len(p.tokens) {
		n.Span.End = p.tokens[p.pos-1].Span.End
	}
	return n
}

func (p *Parser) identNode(tok *Token) *Node {
	if tok == nil {
		return nil
	}
	return &Node{Kind: KindIdentifier, Token: tok, Span: tok.Span}
}

// errorNode records a syntax error at the current token and skips ahead
// until one of the recovery literals is reached. Loops calling it rely
// on mustProgress when the current token already is a recovery point.
func (p *Parser) errorNode(msg string, recoverTo ...string) *Node {
	tok := p.peek()
	node := &Node{
		Kind:  KindError,
		Span:  tok.Span,
		Error: &Error{Message: msg, Got: &tok},
	}
	for !p.check(TokenEOF) {
		for _, lit := range recoverTo {
			if p.is(lit) {
				return node
			}
		}
		p.advance()
	}
	return node
}

// skipBalanced skips tokens from an opening delimiter to its matching
// closing delimiter, inclusive.
func (p *Parser) skipBalanced(open, close string) {
	depth := 0
	for !p.check(TokenEOF) {
		tok := p.advance()
		switch {
		case tok.Is(open):
			depth++
		case tok.Is(close):
			depth--
			if depth <= 0 {
				return
			}
		}
	}
}

func (p *Parser) parseCompilationUnit() *Node {
	node := p.startNode(KindCompilationUnit)

	if p.is("package") || (p.is("@") && !p.isN(1, "interface") && p.annotatedPackage()) {
		node.AddChild(p.parsePackageDecl())
	}

	for p.is("import") {
		node.AddChild(p.parseImportDecl())
	}

	for !p.check(TokenEOF) {
		if p.is(";") {
			p.advance()
			continue
		}
		progress := p.mustProgress()
		node.AddChild(p.parseTypeDecl())
		if !progress() {
			break
		}
	}

	return p.finishNode(node)
}

func (p *Parser) annotatedPackage() bool {
	save := p.pos
	defer func() { p.pos = save }()
	p.parseModifiers()
	return p.is("package")
}

func (p *Parser) parsePackageDecl() *Node {
	node := p.startNode(KindPackageDecl)
	p.parseModifiers()
	p.expect("package")
	node.AddChild(p.parseQualifiedName())
	p.expect(";")
	return p.finishNode(node)
}

// parseImportDecl marks static imports with a "static" modifier child and
// on-demand imports with a trailing "*" identifier child.
func (p *Parser) parseImportDecl() *Node {
	node := p.startNode(KindImportDecl)
	p.expect("import")

	if p.is("static") {
		tok := p.advance()
		node.AddChild(&Node{Kind: KindModifier, Token: &tok, Span: tok.Span})
	}

	node.AddChild(p.parseQualifiedName())

	if p.is(".") && p.isN(1, "*") {
		p.advance()
		tok := p.advance()
		node.AddChild(p.identNode(&tok))
	}

	p.expect(";")
	return p.finishNode(node)
}

// parseQualifiedName reads a dotted name. The joined name is kept in a
// synthesized token so callers need not walk the identifier children.
func (p *Parser) parseQualifiedName() *Node {
	node := p.startNode(KindQualifiedName)
	var parts []string
	for {
		tok := p.expectIdent()
		if tok == nil {
			break
		}
		parts = append(parts, tok.Literal)
		node.AddChild(p.identNode(tok))
		if !p.is(".") || p.peekN(1).Kind != TokenIdent {
			break
		}
		p.advance()
	}
	p.finishNode(node)
	node.Token = &Token{Kind: TokenIdent, Span: node.Span, Literal: strings.Join(parts, ".")}
	return node
}

func (p *Parser) parseModifiers() *Node {
	node := p.startNode(KindModifiers)
	for {
		tok := p.peek()
		switch {
		case tok.Is("@") && !p.isN(1, "interface"):
			node.AddChild(p.parseAnnotation())
		case tok.Kind == TokenKeyword && modifierKeywords[tok.Literal]:
			if tok.Literal == "default" && p.isN(1, ":") {
				return p.finishNode(node)
			}
			p.advance()
			node.AddChild(&Node{Kind: KindModifier, Token: &tok, Span: tok.Span})
		case tok.Kind == TokenIdent && (tok.Literal == "sealed" || tok.Literal == "non") && p.isModifierWord():
			p.skipModifierWord()
		default:
			return p.finishNode(node)
		}
	}
}

// isModifierWord recognizes the contextual modifiers sealed and
// non-sealed, which only count when followed by another declaration word.
func (p *Parser) isModifierWord() bool {
	if p.isIdent("non") {
		return p.isN(1, "-") && p.peekN(2).Literal == "sealed"
	}
	next := p.peekN(1)
	return next.Kind == TokenKeyword || next.Is("@") || next.Literal == "record"
}

func (p *Parser) skipModifierWord() {
	if p.isIdent("non") {
		p.advance()
		p.advance()
	}
	p.advance()
}

func (p *Parser) parseAnnotation() *Node {
	node := p.startNode(KindAnnotation)
	p.expect("@")
	node.AddChild(p.parseQualifiedName())

	if !p.is("(") {
		return p.finishNode(node)
	}
	p.advance()

	if p.check(TokenIdent) && p.isN(1, "=") {
		for !p.is(")") && !p.check(TokenEOF) {
			progress := p.mustProgress()
			elem := p.startNode(KindAnnotationElement)
			elem.AddChild(p.identNode(p.expectIdent()))
			p.expect("=")
			elem.AddChild(p.parseElementValue())
			node.AddChild(p.finishNode(elem))
			if !p.is(",") || !progress() {
				break
			}
			p.advance()
		}
	} else if !p.is(")") {
		elem := p.startNode(KindAnnotationElement)
		elem.AddChild(&Node{Kind: KindIdentifier, Token: &Token{Kind: TokenIdent, Literal: "value"}, Span: elem.Span})
		elem.AddChild(p.parseElementValue())
		node.AddChild(p.finishNode(elem))
	}

	if p.expect(")") == nil {
		node.AddChild(p.errorNode("expected ) after annotation arguments", ")", ";"))
		p.expect(")")
	}
	return p.finishNode(node)
}

func (p *Parser) parseElementValue() *Node {
	switch {
	case p.is("@"):
		return p.parseAnnotation()
	case p.is("{"):
		node := p.startNode(KindArrayInit)
		p.advance()
		for !p.is("}") && !p.check(TokenEOF) {
			progress := p.mustProgress()
			node.AddChild(p.parseElementValue())
			if !p.is(",") || !progress() {
				break
			}
			p.advance()
		}
		p.expect("}")
		return p.finishNode(node)
	}
	return p.parseTernaryExpr()
}

func (p *Parser) parseTypeDecl() *Node {
	doc := p.docs[p.pos]
	modifiers := p.parseModifiers()
	if !p.atTypeDecl() {
		return p.errorNode("expected type declaration", "class", "interface", "enum", "@", "}")
	}
	return p.parseTypeDeclAfter(doc, modifiers)
}

func (p *Parser) atTypeDecl() bool {
	return p.is("class") || p.is("interface") || p.is("enum") ||
		(p.isIdent("record") && p.peekN(1).Kind == TokenIdent) ||
		(p.is("@") && p.isN(1, "interface"))
}

func (p *Parser) parseTypeDeclAfter(doc *Token, modifiers *Node) *Node {
	var node *Node
	switch {
	case p.is("class"):
		node = p.parseClassDecl(KindClassDecl, modifiers)
	case p.is("interface"):
		node = p.parseClassDecl(KindInterfaceDecl, modifiers)
	case p.is("enum"):
		node = p.parseClassDecl(KindEnumDecl, modifiers)
	case p.is("@"):
		p.advance()
		node = p.parseClassDecl(KindAnnotationDecl, modifiers)
	default:
		node = p.parseClassDecl(KindRecordDecl, modifiers)
	}
	node.Doc = doc
	node.Span.Start = modifiers.Span.Start
	return node
}

// parseClassDecl handles every kind of type declaration. Supertypes and
// type parameters are consumed but not kept.
func (p *Parser) parseClassDecl(kind NodeKind, modifiers *Node) *Node {
	node := p.startNode(kind)
	node.AddChild(modifiers)
	p.advance()
	node.AddChild(p.identNode(p.expectIdent()))

	if p.is("<") {
		p.parseTypeArguments()
	}
	if kind == KindRecordDecl && p.is("(") {
		p.parseRecordComponents(node)
	}
	for p.is("extends") || p.is("implements") || p.isIdent("permits") {
		p.advance()
		for {
			progress := p.mustProgress()
			p.parseType()
			if !p.is(",") || !progress() {
				break
			}
			p.advance()
		}
	}

	if kind == KindEnumDecl {
		node.AddChild(p.parseEnumBody(node.Name()))
	} else {
		node.AddChild(p.parseClassBody(node.Name()))
	}
	return p.finishNode(node)
}

func (p *Parser) parseRecordComponents(record *Node) {
	p.expect("(")
	for !p.is(")") && !p.check(TokenEOF) {
		progress := p.mustProgress()
		comp := p.startNode(KindRecordComponent)
		comp.AddChild(p.parseModifiers())
		comp.AddChild(p.parseParameterType())
		comp.AddChild(p.identNode(p.expectIdent()))
		record.AddChild(p.finishNode(comp))
		if !p.is(",") || !progress() {
			break
		}
		p.advance()
	}
	p.expect(")")
}

func (p *Parser) parseEnumBody(className string) *Node {
	node := p.startNode(KindClassBody)
	p.expect("{")

	for !p.is(";") && !p.is("}") && !p.check(TokenEOF) {
		progress := p.mustProgress()
		constant := p.startNode(KindEnumConstant)
		constant.Doc = p.docs[p.pos]
		constant.AddChild(p.parseModifiers())
		constant.AddChild(p.identNode(p.expectIdent()))
		if p.is("(") {
			constant.AddChild(p.parseArguments())
		}
		if p.is("{") {
			p.skipBalanced("{", "}")
		}
		node.AddChild(p.finishNode(constant))
		if !p.is(",") || !progress() {
			break
		}
		p.advance()
	}
	p.expect(";")

	p.parseMembers(node, className)
	p.expect("}")
	return p.finishNode(node)
}

func (p *Parser) parseClassBody(className string) *Node {
	node := p.startNode(KindClassBody)
	if p.expect("{") == nil {
		return p.errorNode("expected class body", "}")
	}
	p.parseMembers(node, className)
	p.expect("}")
	return p.finishNode(node)
}

func (p *Parser) parseMembers(body *Node, className string) {
	for !p.is("}") && !p.check(TokenEOF) {
		progress := p.mustProgress()
		body.AddChild(p.parseMember(className))
		if !progress() {
			break
		}
	}
}

func (p *Parser) parseMember(className string) *Node {
	if p.is(";") {
		p.advance()
		return nil
	}
	if p.is("{") || (p.is("static") && p.isN(1, "{")) {
		if p.is("static") {
			p.advance()
		}
		p.skipBalanced("{", "}")
		return nil
	}

	doc := p.docs[p.pos]
	modifiers := p.parseModifiers()
	if p.atTypeDecl() {
		return p.parseTypeDeclAfter(doc, modifiers)
	}
	if p.is("<") {
		p.parseTypeArguments()
	}

	var node *Node
	switch {
	case p.isIdent(className) && p.isN(1, "("):
		node = p.parseConstructor(modifiers, true)
	case p.isIdent(className) && p.isN(1, "{"):
		node = p.parseConstructor(modifiers, false)
	default:
		typ := p.parseType()
		if typ.IsError() {
			return typ
		}
		if p.check(TokenIdent) && p.isN(1, "(") {
			node = p.parseMethod(modifiers, typ)
		} else {
			node = p.parseField(modifiers, typ)
		}
	}
	node.Doc = doc
	node.Span.Start = modifiers.Span.Start
	return node
}

func (p *Parser) parseMethod(modifiers *Node, result *Node) *Node {
	node := p.startNode(KindMethodDecl)
	node.AddChild(modifiers)
	node.AddChild(result)
	node.AddChild(p.identNode(p.expectIdent()))
	node.AddChild(p.parseParameters())

	for p.is("[") {
		p.advance()
		p.expect("]")
	}
	p.skipThrows()

	switch {
	case p.is("{"):
		body := p.startNode(KindBody)
		p.skipBalanced("{", "}")
		node.AddChild(p.finishNode(body))
	case p.is("default"):
		p.advance()
		p.parseElementValue()
		p.expect(";")
	default:
		p.expect(";")
	}
	return p.finishNode(node)
}

// parseConstructor reads a constructor. Compact record constructors have
// no parameter list and therefore no Parameters child.
func (p *Parser) parseConstructor(modifiers *Node, withParams bool) *Node {
	node := p.startNode(KindConstructorDecl)
	node.AddChild(modifiers)
	node.AddChild(p.identNode(p.expectIdent()))
	if withParams {
		node.AddChild(p.parseParameters())
	}
	p.skipThrows()
	node.AddChild(p.parseConstructorBody())
	return p.finishNode(node)
}

func (p *Parser) skipThrows() {
	if !p.is("throws") {
		return
	}
	p.advance()
	for {
		progress := p.mustProgress()
		p.parseType()
		if !p.is(",") || !progress() {
			return
		}
		p.advance()
	}
}

// parseConstructorBody splits the body into its top-level statements.
// Statements of the form `this.f = p;` or `f = p;` become AssignStmt
// nodes with the field and parameter identifiers as children; anything
// else is an opaque Statement.
func (p *Parser) parseConstructorBody() *Node {
	node := p.startNode(KindBody)
	if p.expect("{") == nil {
		return p.errorNode("expected constructor body", "}", ";")
	}

	for !p.is("}") && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if stmt := p.parseAssignment(); stmt != nil {
			node.AddChild(stmt)
		} else {
			node.AddChild(p.skipStatement())
		}
		if !progress() {
			break
		}
	}

	p.expect("}")
	return p.finishNode(node)
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true,
	// '>' starts >>= and >>>=, which the lexer splits
	">": true,
}

// parseAssignment recognizes a statement that assigns to a simple name
// or to this.name, including compound operators and increments. The
// node holds a This node for qualified targets, the target identifier
// and, for a plain `target = name;`, the assigned identifier.
func (p *Parser) parseAssignment() *Node {
	offset := 0
	step := p.peekN(0)
	if step.Is("++") || step.Is("--") {
		offset = 1
	}
	qualified := p.isN(offset, "this") && p.isN(offset+1, ".")
	if qualified {
		offset += 2
	}
	target, op := p.peekN(offset), p.peekN(offset+1)
	if target.Kind != TokenIdent {
		return nil
	}
	switch {
	case step.Is("++") || step.Is("--"):
		if !op.Is(";") {
			return nil
		}
	case op.Is("++") || op.Is("--"):
		if !p.isN(offset+2, ";") {
			return nil
		}
	case op.Kind != TokenOperator || !assignOps[op.Literal]:
		return nil
	}

	node := p.startNode(KindAssignStmt)
	if step.Is("++") || step.Is("--") {
		p.advance()
	}
	if qualified {
		this := p.advance()
		node.AddChild(&Node{Kind: KindThis, Token: &this, Span: this.Span})
		p.advance()
	}
	t := p.advance()
	node.AddChild(p.identNode(&t))

	value, semi := p.peekN(1), p.peekN(2)
	if p.is("=") && value.Kind == TokenIdent && semi.Is(";") {
		p.advance()
		v := p.advance()
		node.AddChild(p.identNode(&v))
		p.advance()
		return p.finishNode(node)
	}
	// the rest of the statement, up to its semicolon
	p.skipStatement()
	return p.finishNode(node)
}

// skipStatement consumes one statement: up to a semicolon at nesting
// depth zero, or a braced block together with the else, catch and
// finally clauses that continue it.
func (p *Parser) skipStatement() *Node {
	node := p.startNode(KindStatement)
	depth := 0
	for !p.check(TokenEOF) {
		if depth == 0 && p.is("}") {
			break
		}
		tok := p.advance()
		switch {
		case tok.Is("(") || tok.Is("[") || tok.Is("{"):
			depth++
		case tok.Is(")") || tok.Is("]") || tok.Is("}"):
			depth--
			if depth == 0 && tok.Is("}") && !p.continuesStatement() {
				return p.finishNode(node)
			}
		case tok.Is(";") && depth == 0:
			return p.finishNode(node)
		}
	}
	return p.finishNode(node)
}

func (p *Parser) continuesStatement() bool {
	return p.is("else") || p.is("catch") || p.is("finally") || p.is("while") ||
		p.is(")") || p.is(";") || p.is(".") || p.is(",")
}

func (p *Parser) parseField(modifiers *Node, typ *Node) *Node {
	node := p.startNode(KindFieldDecl)
	node.AddChild(modifiers)
	node.AddChild(typ)

	for {
		progress := p.mustProgress()
		v := p.startNode(KindVariable)
		tok := p.expectIdent()
		if tok == nil {
			node.AddChild(p.errorNode("expected field name", ";", "}"))
			p.expect(";")
			return p.finishNode(node)
		}
		v.AddChild(p.identNode(tok))
		if dims := p.parseDims(); dims != nil {
			v.AddChild(dims)
		}
		if p.is("=") {
			p.advance()
			v.AddChild(p.parseVarInitializer())
		}
		node.AddChild(p.finishNode(v))
		if !p.is(",") || !progress() {
			break
		}
		p.advance()
	}

	if p.expect(";") == nil {
		node.AddChild(p.errorNode("expected ; after field declaration", ";", "}"))
		p.expect(";")
	}
	return p.finishNode(node)
}

func (p *Parser) parseVarInitializer() *Node {
	if p.is("{") {
		return p.parseArrayInitializer()
	}
	return p.parseExpression()
}

// parseStandaloneExpression parses an initializer expression that must
// span the whole input.
func (p *Parser) parseStandaloneExpression() *Node {
	node := p.parseVarInitializer()
	if !p.check(TokenEOF) {
		node.AddChild(p.errorNode("unexpected token after expression"))
	}
	return node
}

func (p *Parser) parseArrayInitializer() *Node {
	node := p.startNode(KindArrayInit)
	p.expect("{")
	for !p.is("}") && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseVarInitializer())
		if !p.is(",") || !progress() {
			break
		}
		p.advance()
	}
	p.expect("}")
	return p.finishNode(node)
}

func (p *Parser) parseParameters() *Node {
	node := p.startNode(KindParameters)
	p.expect("(")

	for !p.is(")") && !p.check(TokenEOF) {
		progress := p.mustProgress()
		param := p.startNode(KindParameter)
		param.AddChild(p.parseModifiers())
		param.AddChild(p.parseParameterType())
		if p.is("this") {
			p.advance()
		} else {
			param.AddChild(p.identNode(p.expectIdent()))
		}
		if dims := p.parseDims(); dims != nil {
			param.FirstChildOfKind(KindType).AddChild(dims)
		}
		node.AddChild(p.finishNode(param))
		if !p.is(",") || !progress() {
			break
		}
		p.advance()
	}

	p.expect(")")
	return p.finishNode(node)
}

// parseParameterType reads a parameter type; varargs become one more
// array dimension.
func (p *Parser) parseParameterType() *Node {
	typ := p.parseType()
	if p.is("...") {
		tok := p.advance()
		typ.AddChild(&Node{Kind: KindArrayDims, Token: &Token{Kind: TokenOperator, Literal: "[]", Span: tok.Span}, Span: tok.Span})
		p.finishNode(typ)
	}
	return typ
}

func (p *Parser) parseDims() *Node {
	if !p.is("[") || !p.isN(1, "]") {
		return nil
	}
	node := p.startNode(KindArrayDims)
	var sb strings.Builder
	for p.is("[") && p.isN(1, "]") {
		p.advance()
		p.advance()
		sb.WriteString("[]")
	}
	p.finishNode(node)
	node.Token = &Token{Kind: TokenOperator, Literal: sb.String(), Span: node.Span}
	return node
}

// parseType reads a type reference: a primitive keyword or a qualified
// name, optional type arguments and array dimensions. Type annotations
// are dropped.
func (p *Parser) parseType() *Node {
	node := p.startNode(KindType)
	for p.is("@") {
		p.parseAnnotation()
	}

	tok := p.peek()
	switch {
	case tok.Kind == TokenKeyword && (IsPrimitive(tok.Literal) || tok.Literal == "void"):
		p.advance()
		node.AddChild(p.identNode(&tok))
	case tok.Kind == TokenIdent:
		name := p.parseQualifiedName()
		node.AddChild(name)
		if p.is("<") {
			node.AddChild(p.parseTypeArguments())
		}
		for p.is(".") && p.peekN(1).Kind == TokenIdent {
			p.advance()
			inner := p.parseQualifiedName()
			name.Children = append(name.Children, inner.Children...)
			name.Token.Literal += "." + inner.Token.Literal
			if p.is("<") {
				if args := node.FirstChildOfKind(KindTypeArguments); args != nil {
					*args = *p.parseTypeArguments()
				} else {
					node.AddChild(p.parseTypeArguments())
				}
			}
		}
	default:
		return p.errorNode("expected type", ";", ")", ",", "}", "{")
	}

	for p.is("@") {
		p.parseAnnotation()
	}
	if dims := p.parseDims(); dims != nil {
		node.AddChild(dims)
	}
	return p.finishNode(node)
}

func (p *Parser) parseTypeArguments() *Node {
	node := p.startNode(KindTypeArguments)
	p.expect("<")

	for !p.is(">") && !p.check(TokenEOF) {
		progress := p.mustProgress()
		if p.is("?") {
			w := p.startNode(KindWildcard)
			p.advance()
			if p.is("extends") || p.is("super") {
				tok := p.advance()
				w.Token = &tok
				w.AddChild(p.parseType())
			}
			node.AddChild(p.finishNode(w))
		} else {
			arg := p.parseType()
			for p.is("extends") || p.is("&") {
				p.advance()
				p.parseType()
			}
			node.AddChild(arg)
		}
		if !p.is(",") || !progress() {
			break
		}
		p.advance()
	}

	if p.expect(">") == nil {
		tok := p.peek()
		node.AddChild(&Node{Kind: KindError, Span: tok.Span, Error: &Error{Message: "expected > after type arguments", Got: &tok}})
	}
	return p.finishNode(node)
}
