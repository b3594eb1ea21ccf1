package javadoc

import (
	"strings"
	"unicode"
)

// Parser is a recursive-descent parser for Javadoc comments.
type Parser struct {
	input []rune
	pos   int
	len   int
}

// Parse parses a Javadoc comment string and returns a DocComment AST.
// The comment delimiters and leading asterisks are optional.
func Parse(javadoc string) *DocComment {
	p := &Parser{
		input: []rune(javadoc),
	}
	p.len = len(p.input)
	return p.parseDocComment()
}

func (p *Parser) parseDocComment() *DocComment {
	p.skipCommentStart()

	doc := &DocComment{}
	doc.Body = trimNodes(p.parseContent(false))
	doc.BlockTags = p.parseBlockTags()

	return doc
}

// skipCommentStart skips the leading /** and any whitespace/asterisks.
func (p *Parser) skipCommentStart() {
	p.skipWhitespace()
	if p.match("/**") {
		p.advance(3)
	}
	p.skipLinePrefix()
	p.skipWhitespace()
	p.skipLinePrefix()
}

// skipLinePrefix skips leading whitespace and a single asterisk at the start of a line.
func (p *Parser) skipLinePrefix() {
	p.skipHorizontalWhitespace()
	for p.peek() == '*' && p.peekAt(1) != '/' {
		p.advance(1)
	}
	if p.peek() == ' ' {
		p.advance(1)
	}
}

// parseContent parses rich text content (text, HTML, inline tags).
// If inInlineTag is true, parsing stops at an unmatched '}'.
func (p *Parser) parseContent(inInlineTag bool) []Node {
	var nodes []Node
	var textBuf strings.Builder
	depth := 0

	flushText := func() {
		if textBuf.Len() > 0 {
			nodes = append(nodes, Text{Content: textBuf.String()})
			textBuf.Reset()
		}
	}

	for p.pos < p.len {
		ch := p.peek()

		if ch == '*' && p.peekAt(1) == '/' {
			break
		}
		if !inInlineTag && p.isAtBlockTag() {
			break
		}

		switch {
		case ch == '\n' || ch == '\r':
			p.advance(1)
			if ch == '\r' && p.peek() == '\n' {
				p.advance(1)
			}
			textBuf.WriteRune('\n')
			p.skipLinePrefix()

		case ch == '{' && p.peekAt(1) == '@':
			flushText()
			nodes = append(nodes, p.parseInlineTag())

		case ch == '{':
			if inInlineTag {
				depth++
			}
			textBuf.WriteRune(ch)
			p.advance(1)

		case ch == '}' && inInlineTag:
			if depth == 0 {
				flushText()
				return nodes
			}
			depth--
			textBuf.WriteRune(ch)
			p.advance(1)

		case ch == '<' && (isLetter(p.peekAt(1)) || p.peekAt(1) == '/' || p.peekAt(1) == '!'):
			flushText()
			nodes = append(nodes, HTML{Raw: p.readUntil('>')})

		case ch == '&' && p.isEntity():
			flushText()
			nodes = append(nodes, Entity{Raw: p.readUntil(';')})

		default:
			textBuf.WriteRune(ch)
			p.advance(1)
		}
	}

	flushText()
	return nodes
}

// isAtBlockTag checks if we're at the start of a block tag (@ at start of line).
func (p *Parser) isAtBlockTag() bool {
	if p.peek() != '@' {
		return false
	}
	for i := p.pos - 1; i >= 0; i-- {
		switch p.input[i] {
		case '\n', '\r':
			return true
		case ' ', '\t', '*':
			continue
		case '/':
			return true
		default:
			return false
		}
	}
	return true
}

// parseInlineTag parses an inline tag like {@code ...} or {@link ...}.
func (p *Parser) parseInlineTag() Node {
	p.advance(2)
	name := p.readTagName()
	p.skipHorizontalWhitespace()

	var node Node
	switch name {
	case "code":
		node = Code{Content: p.readBalancedContent()}
	case "literal":
		node = Literal{Content: p.readBalancedContent()}
	case "link", "linkplain":
		p.skipWhitespace()
		ref := p.readReference()
		p.skipWhitespace()
		node = Link{Reference: ref, Label: trimNodes(p.parseContent(true)), Plain: name == "linkplain"}
	case "value":
		node = Value{Reference: strings.TrimSpace(p.readBalancedContent())}
	default:
		node = InlineTag{Name: name, Content: trimNodes(p.parseContent(true))}
	}

	if p.peek() == '}' {
		p.advance(1)
	}
	return node
}

func (p *Parser) parseBlockTags() []Node {
	var tags []Node

	for p.pos < p.len {
		p.skipWhitespace()
		p.skipLinePrefix()

		if p.match("*/") || p.pos >= p.len {
			break
		}
		if p.peek() != '@' {
			p.advance(1)
			continue
		}

		p.advance(1)
		name := p.readTagName()
		if name == "" {
			continue
		}
		p.skipHorizontalWhitespace()

		switch name {
		case "param":
			tags = append(tags, p.parseParamTag())
		case "see":
			tags = append(tags, See{Reference: p.parseBlockContent()})
		case "since":
			tags = append(tags, Since{Version: p.parseBlockContent()})
		case "deprecated":
			tags = append(tags, Deprecated{Description: p.parseBlockContent()})
		case "hidden":
			p.parseBlockContent()
			tags = append(tags, Hidden{})
		default:
			tags = append(tags, BlockTag{Name: name, Content: p.parseBlockContent()})
		}
	}

	return tags
}

// parseParamTag parses a @param tag.
func (p *Parser) parseParamTag() Node {
	isTypeParam := false
	if p.peek() == '<' {
		isTypeParam = true
		p.advance(1)
	}
	name := p.readIdentifier()
	if isTypeParam && p.peek() == '>' {
		p.advance(1)
	}
	p.skipHorizontalWhitespace()
	return Param{Name: name, IsTypeParam: isTypeParam, Description: p.parseBlockContent()}
}

func (p *Parser) parseBlockContent() []Node {
	return trimNodes(p.parseContent(false))
}

// trimNodes strips leading and trailing whitespace from the outer text
// nodes of a content list, dropping nodes that become empty.
func trimNodes(nodes []Node) []Node {
	if len(nodes) == 0 {
		return nil
	}
	if t, ok := nodes[0].(Text); ok {
		t.Content = strings.TrimLeftFunc(t.Content, unicode.IsSpace)
		if t.Content == "" {
			return trimNodes(nodes[1:])
		}
		nodes[0] = t
	}
	last := len(nodes) - 1
	if t, ok := nodes[last].(Text); ok {
		t.Content = strings.TrimRightFunc(t.Content, unicode.IsSpace)
		if t.Content == "" {
			return trimNodes(nodes[:last])
		}
		nodes[last] = t
	}
	return nodes
}

func (p *Parser) peek() rune {
	return p.peekAt(0)
}

func (p *Parser) peekAt(offset int) rune {
	pos := p.pos + offset
	if pos >= p.len || pos < 0 {
		return 0
	}
	return p.input[pos]
}

func (p *Parser) advance(n int) {
	p.pos += n
	if p.pos > p.len {
		p.pos = p.len
	}
}

func (p *Parser) match(s string) bool {
	i := p.pos
	for _, ch := range s {
		if i >= p.len || p.input[i] != ch {
			return false
		}
		i++
	}
	return true
}

func (p *Parser) skipWhitespace() {
	for p.pos < p.len && unicode.IsSpace(p.peek()) {
		p.advance(1)
	}
}

func (p *Parser) skipHorizontalWhitespace() {
	for p.pos < p.len && (p.peek() == ' ' || p.peek() == '\t') {
		p.advance(1)
	}
}

// readTagName reads a tag name. Dots and dashes are allowed so that
// namespaced custom tags parse as one name.
func (p *Parser) readTagName() string {
	start := p.pos
	for p.pos < p.len {
		ch := p.peek()
		if !isIdentifierPart(ch) && ch != '.' && ch != '-' {
			break
		}
		p.advance(1)
	}
	return strings.TrimRight(string(p.input[start:p.pos]), ".-")
}

func (p *Parser) readIdentifier() string {
	start := p.pos
	for p.pos < p.len && isIdentifierPart(p.peek()) {
		p.advance(1)
	}
	return string(p.input[start:p.pos])
}

func (p *Parser) readReference() string {
	start := p.pos
	depth := 0
	for p.pos < p.len {
		ch := p.peek()
		if ch == '(' {
			depth++
		} else if ch == ')' {
			depth--
		} else if depth == 0 && (unicode.IsSpace(ch) || ch == '}') {
			break
		}
		p.advance(1)
	}
	return string(p.input[start:p.pos])
}

// readUntil reads up to and including the terminator, or to the end of
// the current line if it never appears.
func (p *Parser) readUntil(terminator rune) string {
	start := p.pos
	for p.pos < p.len {
		ch := p.peek()
		p.advance(1)
		if ch == terminator {
			break
		}
		if p.peek() == '\n' {
			break
		}
	}
	return string(p.input[start:p.pos])
}

func (p *Parser) isEntity() bool {
	for i := 1; i < 10; i++ {
		ch := p.peekAt(i)
		if ch == ';' {
			return i > 1
		}
		if !isIdentifierPart(ch) && ch != '#' {
			return false
		}
	}
	return false
}

// readBalancedContent reads the body of an inline tag up to its closing
// brace, keeping nested braces.
func (p *Parser) readBalancedContent() string {
	var sb strings.Builder
	depth := 0

	for p.pos < p.len {
		ch := p.peek()
		if ch == '*' && p.peekAt(1) == '/' {
			break
		}
		if ch == '}' {
			if depth == 0 {
				break
			}
			depth--
		}
		if ch == '{' {
			depth++
		}
		p.advance(1)
		sb.WriteRune(ch)
		if ch == '\n' {
			p.skipLinePrefix()
		}
	}

	return sb.String()
}

func isLetter(ch rune) bool {
	return unicode.IsLetter(ch)
}

func isIdentifierPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_' || ch == '$'
}
