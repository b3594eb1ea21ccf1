package parser

import (
	"unicode"
	"unicode/utf8"
)

// Lexer splits Java source into tokens. Whitespace is dropped, comments
// are returned as TokenComment so the parser can attach documentation.
type Lexer struct {
	input  []byte
	file   string
	pos    int
	line   int
	column int
}

func NewLexer(input []byte, file string) *Lexer {
	return &Lexer{
		input:  input,
		file:   file,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() Position {
	return Position{
		File:   l.file,
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	return l.peekN(0)
}

func (l *Lexer) peekN(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) advance() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	ch := l.input[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 1
	} else if ch < utf8.RuneSelf || utf8.RuneStart(ch) {
		l.column++
	}
	return ch
}

func (l *Lexer) advanceN(n int) {
	for i := 0; i < n; i++ {
		l.advance()
	}
}

func (l *Lexer) skipWhitespace() {
	for {
		switch l.peek() {
		case ' ', '\t', '\r', '\n', '\f':
			l.advance()
		default:
			return
		}
	}
}

// NextToken returns the next token, or a TokenEOF token at end of input.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Span: Span{Start: start, End: start}}
	}

	ch := l.peek()
	switch {
	case ch == '/' && l.peekN(1) == '/':
		return l.scanLineComment(start)
	case ch == '/' && l.peekN(1) == '*':
		return l.scanBlockComment(start)
	case l.isIdentStart():
		return l.scanIdentOrKeyword(start)
	case isDigit(ch), ch == '.' && isDigit(l.peekN(1)):
		return l.scanNumber(start)
	case ch == '\'':
		return l.scanQuoted(start, '\'', TokenCharLiteral)
	case ch == '"':
		if l.peekN(1) == '"' && l.peekN(2) == '"' {
			return l.scanTextBlock(start)
		}
		return l.scanQuoted(start, '"', TokenStringLiteral)
	}
	return l.scanOperator(start)
}

func (l *Lexer) scanLineComment(start Position) Token {
	for l.peek() != 0 && l.peek() != '\n' {
		l.advance()
	}
	return l.token(TokenComment, start)
}

func (l *Lexer) scanBlockComment(start Position) Token {
	l.advanceN(2)
	for l.pos < len(l.input) {
		if l.peek() == '*' && l.peekN(1) == '/' {
			l.advanceN(2)
			return l.token(TokenComment, start)
		}
		l.advance()
	}
	return l.token(TokenError, start)
}

func (l *Lexer) isIdentStart() bool {
	ch := l.peek()
	if ch < utf8.RuneSelf {
		return isJavaLetter(ch)
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return unicode.IsLetter(r)
}

func (l *Lexer) isIdentPart() bool {
	ch := l.peek()
	if ch < utf8.RuneSelf {
		return isJavaLetter(ch) || isDigit(ch)
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (l *Lexer) scanIdentOrKeyword(start Position) Token {
	for l.pos < len(l.input) && l.isIdentPart() {
		l.advance()
	}
	tok := l.token(TokenIdent, start)
	if keywords[tok.Literal] {
		tok.Kind = TokenKeyword
	}
	return tok
}

func (l *Lexer) scanNumber(start Position) Token {
	hex := l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X')
	float := false
	if hex || (l.peek() == '0' && (l.peekN(1) == 'b' || l.peekN(1) == 'B')) {
		l.advanceN(2)
	}
	for {
		ch := l.peek()
		switch {
		case isDigit(ch), ch == '_':
			l.advance()
		case hex && isHexDigit(ch):
			l.advance()
		case ch == '.' && isDigit(l.peekN(1)), ch == '.' && !hex && !float:
			float = true
			l.advance()
		case !hex && (ch == 'e' || ch == 'E'), hex && (ch == 'p' || ch == 'P'):
			float = true
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
		default:
			switch ch {
			case 'l', 'L':
				l.advance()
			case 'f', 'F', 'd', 'D':
				float = true
				l.advance()
			}
			if float {
				return l.token(TokenFloatLiteral, start)
			}
			return l.token(TokenIntLiteral, start)
		}
	}
}

func (l *Lexer) scanQuoted(start Position, quote byte, kind TokenKind) Token {
	l.advance()
	for {
		ch := l.peek()
		switch ch {
		case 0, '\n':
			return l.token(TokenError, start)
		case '\\':
			l.advanceN(2)
		case quote:
			l.advance()
			return l.token(kind, start)
		default:
			l.advance()
		}
	}
}

func (l *Lexer) scanTextBlock(start Position) Token {
	l.advanceN(3)
	for l.pos < len(l.input) {
		if l.peek() == '\\' {
			l.advanceN(2)
			continue
		}
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return l.token(TokenTextBlock, start)
		}
		l.advance()
	}
	return l.token(TokenError, start)
}

// Operators are matched longest first. A '>' is always lexed alone so
// that nested type arguments close without token splitting; the parser
// glues adjacent '>' tokens back into shift and comparison operators.
var operators = []string{
	"<<=", "...", "->", "::", "++", "--", "&&", "||", "==", "!=", "<=",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<",
	"(", ")", "{", "}", "[", "]", ";", ",", ".", "@", "=", ">", "<",
	"!", "~", "?", ":", "+", "-", "*", "/", "&", "|", "^", "%",
}

func (l *Lexer) scanOperator(start Position) Token {
	for _, op := range operators {
		if l.hasPrefix(op) {
			l.advanceN(len(op))
			return l.token(TokenOperator, start)
		}
	}
	l.advance()
	return l.token(TokenError, start)
}

func (l *Lexer) hasPrefix(s string) bool {
	if l.pos+len(s) > len(l.input) {
		return false
	}
	return string(l.input[l.pos:l.pos+len(s)]) == s
}

func (l *Lexer) token(kind TokenKind, start Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Span:    Span{Start: start, End: end},
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isJavaLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_' || ch == '$'
}
