package source

import "github.com/dhamidi/entitygen/java"

type TokenKind int

const (
	TokenEOF TokenKind = iota
	TokenComment
	TokenIdent
	TokenIntLiteral
	TokenFloatLiteral
	TokenCharLiteral
	TokenStringLiteral
	TokenTextBlock
	TokenPunct
)

func (k TokenKind) String() string {
	switch k {
	case TokenEOF:
		return "EOF"
	case TokenComment:
		return "Comment"
	case TokenIdent:
		return "Ident"
	case TokenIntLiteral:
		return "IntLiteral"
	case TokenFloatLiteral:
		return "FloatLiteral"
	case TokenCharLiteral:
		return "CharLiteral"
	case TokenStringLiteral:
		return "StringLiteral"
	case TokenTextBlock:
		return "TextBlock"
	case TokenPunct:
		return "Punct"
	}
	return "Unknown"
}

// Token is a lexical unit. Keywords are reported as identifiers; every
// operator character is its own TokenPunct.
type Token struct {
	Kind    TokenKind
	Start   java.Position
	End     java.Position
	Literal string
}

func (t Token) Is(punct string) bool {
	return t.Kind == TokenPunct && t.Literal == punct
}

func (t Token) IsIdent(name string) bool {
	return t.Kind == TokenIdent && t.Literal == name
}

// Contains reports whether offset lies within the token or touches its end.
func (t Token) Contains(offset int) bool {
	return offset >= t.Start.Offset && offset <= t.End.Offset
}

var keywords = map[string]bool{
	"abstract": true, "assert": true, "boolean": true, "break": true, "byte": true,
	"case": true, "catch": true, "char": true, "class": true, "const": true,
	"continue": true, "default": true, "do": true, "double": true, "else": true,
	"enum": true, "extends": true, "final": true, "finally": true, "float": true,
	"for": true, "goto": true, "if": true, "implements": true, "import": true,
	"instanceof": true, "int": true, "interface": true, "long": true, "native": true,
	"new": true, "package": true, "private": true, "protected": true, "public": true,
	"return": true, "short": true, "static": true, "strictfp": true, "super": true,
	"switch": true, "synchronized": true, "this": true, "throw": true, "throws": true,
	"transient": true, "try": true, "void": true, "volatile": true, "while": true,
	"true": true, "false": true, "null": true,
}

func IsKeyword(s string) bool {
	return keywords[s]
}
