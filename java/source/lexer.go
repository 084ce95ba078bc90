package source

import (
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/entitygen/java"
)

type Lexer struct {
	input  []byte
	pos    int
	line   int
	column int
}

func NewLexer(input []byte) *Lexer {
	return &Lexer{
		input:  input,
		line:   1,
		column: 1,
	}
}

func (l *Lexer) Position() java.Position {
	return java.Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.input) {
		return 0
	}
	return l.input[l.pos]
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
	} else {
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
		ch := l.peek()
		if ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n' || ch == '\f' {
			l.advance()
		} else {
			return
		}
	}
}

// NextToken returns the next token, skipping whitespace. Comments are
// returned as TokenComment.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	start := l.Position()

	if l.pos >= len(l.input) {
		return Token{Kind: TokenEOF, Start: start, End: start}
	}

	ch := l.peek()
	switch {
	case ch == '/' && l.peekN(1) == '/':
		l.advanceN(2)
		for l.peek() != 0 && l.peek() != '\n' {
			l.advance()
		}
		return l.token(TokenComment, start)
	case ch == '/' && l.peekN(1) == '*':
		l.advanceN(2)
		for l.peek() != 0 && !(l.peek() == '*' && l.peekN(1) == '/') {
			l.advance()
		}
		l.advanceN(2)
		return l.token(TokenComment, start)
	case l.isIdentStart():
		for l.isIdentPart() {
			l.advanceRune()
		}
		return l.token(TokenIdent, start)
	case isDigit(ch) || (ch == '.' && isDigit(l.peekN(1))):
		return l.scanNumber(start)
	case ch == '\'':
		l.scanQuoted('\'')
		return l.token(TokenCharLiteral, start)
	case ch == '"' && l.peekN(1) == '"' && l.peekN(2) == '"':
		l.scanTextBlock()
		return l.token(TokenTextBlock, start)
	case ch == '"':
		l.scanQuoted('"')
		return l.token(TokenStringLiteral, start)
	}

	l.advance()
	return l.token(TokenPunct, start)
}

func (l *Lexer) token(kind TokenKind, start java.Position) Token {
	end := l.Position()
	return Token{
		Kind:    kind,
		Start:   start,
		End:     end,
		Literal: string(l.input[start.Offset:end.Offset]),
	}
}

func (l *Lexer) advanceRune() {
	_, size := utf8.DecodeRune(l.input[l.pos:])
	if size <= 1 {
		l.advance()
		return
	}
	l.pos += size
	l.column++
}

func (l *Lexer) isIdentStart() bool {
	ch := l.peek()
	if ch < utf8.RuneSelf {
		return ch == '_' || ch == '$' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
	}
	r, _ := utf8.DecodeRune(l.input[l.pos:])
	return unicode.IsLetter(r)
}

func (l *Lexer) isIdentPart() bool {
	if l.pos >= len(l.input) {
		return false
	}
	if isDigit(l.peek()) {
		return true
	}
	return l.isIdentStart()
}

func (l *Lexer) scanNumber(start java.Position) Token {
	kind := TokenIntLiteral
	if l.peek() == '0' && (l.peekN(1) == 'x' || l.peekN(1) == 'X' || l.peekN(1) == 'b' || l.peekN(1) == 'B') {
		l.advanceN(2)
		for isHexDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
	} else {
		for isDigit(l.peek()) || l.peek() == '_' {
			l.advance()
		}
		if l.peek() == '.' && isDigit(l.peekN(1)) || l.peek() == '.' && !isIdentByte(l.peekN(1)) {
			kind = TokenFloatLiteral
			l.advance()
			for isDigit(l.peek()) || l.peek() == '_' {
				l.advance()
			}
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			kind = TokenFloatLiteral
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	switch l.peek() {
	case 'f', 'F', 'd', 'D':
		kind = TokenFloatLiteral
		l.advance()
	case 'l', 'L':
		l.advance()
	}
	return l.token(kind, start)
}

func (l *Lexer) scanQuoted(quote byte) {
	l.advance()
	for l.peek() != 0 && l.peek() != quote && l.peek() != '\n' {
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
	if l.peek() == quote {
		l.advance()
	}
}

func (l *Lexer) scanTextBlock() {
	l.advanceN(3)
	for l.peek() != 0 {
		if l.peek() == '"' && l.peekN(1) == '"' && l.peekN(2) == '"' {
			l.advanceN(3)
			return
		}
		if l.peek() == '\\' {
			l.advance()
		}
		l.advance()
	}
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func isIdentByte(ch byte) bool {
	return ch == '_' || ch == '$' || isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

// Tokenize returns all tokens of input except comments, ending with TokenEOF.
func Tokenize(input []byte) []Token {
	l := NewLexer(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Kind == TokenComment {
			continue
		}
		tokens = append(tokens, tok)
		if tok.Kind == TokenEOF {
			return tokens
		}
	}
}

// OffsetOf converts a 1-based line and column into a byte offset, clamped to
// the input.
func OffsetOf(input []byte, line, column int) int {
	l, offset := 1, 0
	for offset < len(input) && l < line {
		if input[offset] == '\n' {
			l++
		}
		offset++
	}
	offset += column - 1
	if offset < 0 {
		return 0
	}
	if offset > len(input) {
		return len(input)
	}
	return offset
}

// PositionOf converts a byte offset into a position.
func PositionOf(input []byte, offset int) java.Position {
	if offset > len(input) {
		offset = len(input)
	}
	pos := java.Position{Offset: offset, Line: 1, Column: 1}
	for i := 0; i < offset; i++ {
		if input[i] == '\n' {
			pos.Line++
			pos.Column = 1
		} else {
			pos.Column++
		}
	}
	return pos
}
