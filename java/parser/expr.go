package parser

// Binary operator precedence, higher binds tighter.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "instanceof": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var assignOperators = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true, ">>>=": true,
}

func (p *Parser) parseExpression() *Node {
	if p.isLambda() {
		return p.parseLambdaExpr()
	}

	left := p.parseTernaryExpr()

	if op, n := p.operator(); assignOperators[op] {
		node := p.startNode(KindAssignExpr)
		node.Span.Start = left.Span.Start
		node.Token = p.consumeOperator(op, n)
		node.AddChild(left)
		node.AddChild(p.parseExpression())
		return p.finishNode(node)
	}
	return left
}

// operator returns the operator at the current position and the number
// of tokens it spans. Adjacent '>' tokens are glued into shift and
// comparison operators here since the lexer never combines them.
func (p *Parser) operator() (string, int) {
	tok := p.peek()
	if tok.Kind == TokenKeyword && tok.Literal == "instanceof" {
		return tok.Literal, 1
	}
	if tok.Kind != TokenOperator {
		return "", 0
	}
	if tok.Literal != ">" {
		return tok.Literal, 1
	}
	op, n := ">", 1
	end := tok.Span.End.Offset
	for n < 3 {
		next := p.peekN(n)
		if !next.Is(">") || next.Span.Start.Offset != end {
			break
		}
		op += ">"
		end = next.Span.End.Offset
		n++
	}
	if next := p.peekN(n); next.Is("=") && next.Span.Start.Offset == end {
		op += "="
		n++
	}
	return op, n
}

func (p *Parser) consumeOperator(op string, n int) *Token {
	first := p.peek()
	for i := 0; i < n; i++ {
		p.advance()
	}
	tok := Token{Kind: TokenOperator, Literal: op, Span: first.Span}
	if n > 0 {
		tok.Span.End = p.tokens[p.pos-1].Span.End
	}
	return &tok
}

func (p *Parser) parseTernaryExpr() *Node {
	cond := p.parseBinaryExpr(1)
	if !p.is("?") {
		return cond
	}

	node := p.startNode(KindTernaryExpr)
	node.Span.Start = cond.Span.Start
	node.AddChild(cond)
	p.advance()
	node.AddChild(p.parseExpression())
	p.expect(":")
	if p.isLambda() {
		node.AddChild(p.parseLambdaExpr())
	} else {
		node.AddChild(p.parseTernaryExpr())
	}
	return p.finishNode(node)
}

func (p *Parser) parseBinaryExpr(minPrec int) *Node {
	left := p.parseUnaryExpr()

	for {
		op, n := p.operator()
		prec, ok := binaryPrecedence[op]
		if !ok || prec < minPrec {
			return left
		}

		if op == "instanceof" {
			node := p.startNode(KindInstanceofExpr)
			node.Span.Start = left.Span.Start
			p.advance()
			if p.is("final") {
				p.advance()
			}
			node.AddChild(left)
			node.AddChild(p.parseType())
			if p.check(TokenIdent) {
				p.advance()
			}
			left = p.finishNode(node)
			continue
		}

		node := p.startNode(KindBinaryExpr)
		node.Span.Start = left.Span.Start
		node.Token = p.consumeOperator(op, n)
		node.AddChild(left)
		node.AddChild(p.parseBinaryExpr(prec + 1))
		left = p.finishNode(node)
	}
}

func (p *Parser) parseUnaryExpr() *Node {
	switch {
	case p.is("+"), p.is("-"), p.is("!"), p.is("~"), p.is("++"), p.is("--"):
		node := p.startNode(KindUnaryExpr)
		tok := p.advance()
		node.Token = &tok
		node.AddChild(p.parseUnaryExpr())
		return p.finishNode(node)
	case p.is("(") && p.isCast():
		return p.parseCastExpr()
	}
	return p.parsePostfixExpr()
}

// isCast looks past a parenthesized type to decide whether the
// parentheses start a cast. The parser position is left unchanged.
func (p *Parser) isCast() bool {
	save := p.pos
	defer func() { p.pos = save }()

	p.advance()
	tok := p.peek()
	primitive := tok.Kind == TokenKeyword && IsPrimitive(tok.Literal)
	if !primitive && tok.Kind != TokenIdent {
		return false
	}
	if typ := p.parseType(); typ.HasError() {
		return false
	}
	for p.is("&") {
		p.advance()
		if typ := p.parseType(); typ.HasError() {
			return false
		}
	}
	if !p.is(")") {
		return false
	}
	p.advance()
	if primitive {
		return true
	}

	next := p.peek()
	switch next.Kind {
	case TokenIdent, TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral,
		TokenStringLiteral, TokenTextBlock:
		return true
	case TokenKeyword:
		switch next.Literal {
		case "this", "super", "new", "true", "false", "null", "switch":
			return true
		}
		return IsPrimitive(next.Literal)
	case TokenOperator:
		return next.Literal == "(" || next.Literal == "!" || next.Literal == "~"
	}
	return false
}

func (p *Parser) parseCastExpr() *Node {
	node := p.startNode(KindCastExpr)
	p.expect("(")
	node.AddChild(p.parseType())
	for p.is("&") {
		p.advance()
		p.parseType()
	}
	p.expect(")")
	if p.isLambda() {
		node.AddChild(p.parseLambdaExpr())
	} else {
		node.AddChild(p.parseUnaryExpr())
	}
	return p.finishNode(node)
}

func (p *Parser) parsePostfixExpr() *Node {
	expr := p.parsePrimaryExpr()

	for {
		progress := p.mustProgress()
		switch {
		case p.is("."):
			expr = p.parseSelector(expr)
		case p.is("[") && p.isN(1, "]"):
			expr = p.parseArrayClassLiteral(expr)
		case p.is("["):
			node := p.startNode(KindArrayAccess)
			node.Span.Start = expr.Span.Start
			p.advance()
			node.AddChild(expr)
			node.AddChild(p.parseExpression())
			p.expect("]")
			expr = p.finishNode(node)
		case p.is("(") && expr.Kind == KindName:
			expr = p.parseCall(expr)
		case p.is("::"):
			node := p.startNode(KindMethodRef)
			node.Span.Start = expr.Span.Start
			p.advance()
			node.AddChild(expr)
			if p.is("<") {
				p.parseTypeArguments()
			}
			if p.is("new") {
				tok := p.advance()
				node.AddChild(p.identNode(&tok))
			} else {
				node.AddChild(p.identNode(p.expectIdent()))
			}
			expr = p.finishNode(node)
		case p.is("++"), p.is("--"):
			node := p.startNode(KindUnaryExpr)
			node.Span.Start = expr.Span.Start
			tok := p.advance()
			node.Token = &tok
			node.AddChild(expr)
			expr = p.finishNode(node)
		default:
			return expr
		}
		if !progress() {
			return expr
		}
	}
}

func (p *Parser) parseSelector(target *Node) *Node {
	p.expect(".")

	switch {
	case p.is("new"):
		node := p.parseNewExpr()
		node.Span.Start = target.Span.Start
		return node
	case p.is("class"):
		node := p.startNode(KindClassLiteral)
		node.Span.Start = target.Span.Start
		p.advance()
		node.AddChild(target)
		return p.finishNode(node)
	case p.is("this"), p.is("super"):
		node := p.startNode(KindFieldAccess)
		node.Span.Start = target.Span.Start
		tok := p.advance()
		node.AddChild(target)
		node.AddChild(p.identNode(&tok))
		return p.finishNode(node)
	}

	if p.is("<") {
		p.parseTypeArguments()
	}

	node := p.startNode(KindFieldAccess)
	node.Span.Start = target.Span.Start
	node.AddChild(target)
	tok := p.expectIdent()
	if tok == nil {
		node.AddChild(p.errorNode("expected identifier after .", ";", ",", ")", "}"))
		return p.finishNode(node)
	}
	node.AddChild(p.identNode(tok))
	p.finishNode(node)

	if p.is("(") {
		return p.parseCall(node)
	}
	return node
}

// parseArrayClassLiteral handles String[].class; other uses of empty
// brackets in expressions are errors.
func (p *Parser) parseArrayClassLiteral(base *Node) *Node {
	typ := &Node{Kind: KindType, Span: base.Span}
	typ.AddChild(base)
	typ.AddChild(p.parseDims())
	p.finishNode(typ)
	if p.is("::") {
		return typ
	}
	node := p.startNode(KindClassLiteral)
	node.Span.Start = base.Span.Start
	if p.expect(".") == nil || p.expect("class") == nil {
		return p.errorNode("expected .class after array type", ";", ",", ")", "}")
	}
	node.AddChild(typ)
	return p.finishNode(node)
}

func (p *Parser) parseCall(target *Node) *Node {
	node := p.startNode(KindCallExpr)
	node.Span.Start = target.Span.Start
	node.AddChild(target)
	node.AddChild(p.parseArguments())
	return p.finishNode(node)
}

func (p *Parser) parseArguments() *Node {
	node := p.startNode(KindArguments)
	p.expect("(")

	for !p.is(")") && !p.check(TokenEOF) {
		progress := p.mustProgress()
		node.AddChild(p.parseExpression())
		if !p.is(",") || !progress() {
			break
		}
		p.advance()
	}

	if p.expect(")") == nil {
		node.AddChild(p.errorNode("expected ) after arguments", ")", ";"))
		p.expect(")")
	}
	return p.finishNode(node)
}

func (p *Parser) parsePrimaryExpr() *Node {
	tok := p.peek()
	switch tok.Kind {
	case TokenIntLiteral, TokenFloatLiteral, TokenCharLiteral, TokenStringLiteral, TokenTextBlock:
		p.advance()
		return &Node{Kind: KindLiteral, Token: &tok, Span: tok.Span}
	case TokenIdent:
		p.advance()
		return &Node{Kind: KindName, Token: &tok, Span: tok.Span}
	case TokenKeyword:
		switch tok.Literal {
		case "true", "false", "null":
			p.advance()
			return &Node{Kind: KindLiteral, Token: &tok, Span: tok.Span}
		case "this", "super":
			p.advance()
			node := &Node{Kind: KindThis, Token: &tok, Span: tok.Span}
			if p.is("(") {
				return p.parseCall(node)
			}
			return node
		case "new":
			return p.parseNewExpr()
		case "switch":
			node := p.startNode(KindSwitchExpr)
			p.advance()
			p.skipBalanced("(", ")")
			p.skipBalanced("{", "}")
			return p.finishNode(node)
		}
		if IsPrimitive(tok.Literal) || tok.Literal == "void" {
			node := p.startNode(KindClassLiteral)
			node.AddChild(p.parseType())
			if p.is("::") {
				return p.finishNode(node)
			}
			p.expect(".")
			p.expect("class")
			return p.finishNode(node)
		}
	case TokenOperator:
		if tok.Literal == "(" {
			node := p.startNode(KindParenExpr)
			p.advance()
			node.AddChild(p.parseExpression())
			p.expect(")")
			return p.finishNode(node)
		}
		if tok.Literal == "@" {
			return p.parseAnnotation()
		}
	}
	return p.errorNode("expected expression", ";", ",", ")", "}", "]")
}

// parseNewExpr reads an instance creation or array creation expression.
// Anonymous class bodies are skipped.
func (p *Parser) parseNewExpr() *Node {
	start := p.peek().Span.Start
	p.expect("new")
	if p.is("<") {
		p.parseTypeArguments()
	}
	for p.is("@") {
		p.parseAnnotation()
	}

	typ := p.startNode(KindType)
	if tok := p.peek(); tok.Kind == TokenKeyword && IsPrimitive(tok.Literal) {
		p.advance()
		typ.AddChild(p.identNode(&tok))
	} else {
		typ.AddChild(p.parseQualifiedName())
		if p.is("<") {
			typ.AddChild(p.parseTypeArguments())
		}
	}
	p.finishNode(typ)

	if p.is("[") {
		node := &Node{Kind: KindNewArrayExpr, Span: Span{Start: start}}
		node.AddChild(typ)
		for p.is("[") {
			p.advance()
			if !p.is("]") {
				node.AddChild(p.parseExpression())
			}
			p.expect("]")
		}
		if p.is("{") {
			node.AddChild(p.parseArrayInitializer())
		}
		return p.finishNode(node)
	}

	node := &Node{Kind: KindNewExpr, Span: Span{Start: start}}
	node.AddChild(typ)
	node.AddChild(p.parseArguments())
	if p.is("{") {
		p.skipBalanced("{", "}")
	}
	return p.finishNode(node)
}

func (p *Parser) isLambda() bool {
	if p.check(TokenIdent) && p.isN(1, "->") {
		return true
	}
	if !p.is("(") {
		return false
	}
	save := p.pos
	p.skipBalanced("(", ")")
	result := p.is("->")
	p.pos = save
	return result
}

// parseLambdaExpr skips a lambda; only its extent is recorded.
func (p *Parser) parseLambdaExpr() *Node {
	node := p.startNode(KindLambdaExpr)
	if p.is("(") {
		p.skipBalanced("(", ")")
	} else {
		p.advance()
	}
	p.expect("->")
	if p.is("{") {
		p.skipBalanced("{", "}")
	} else {
		p.parseExpression()
	}
	return p.finishNode(node)
}
