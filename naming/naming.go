// Package naming suggests variable names for Java expressions.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
)

// Suggester proposes an identifier for the value of expr. An empty result
// means no suggestion.
type Suggester interface {
	SuggestName(expr string) string
}

type SuggesterFunc func(expr string) string

func (f SuggesterFunc) SuggestName(expr string) string {
	return f(expr)
}

// Expression derives names from the shape of the expression text: the last
// identifier of a qualified reference, the property of a getter call, the
// class of a constructor call.
type Expression struct{}

func NewExpression() Expression {
	return Expression{}
}

func (Expression) SuggestName(expr string) string {
	expr = strings.TrimSpace(expr)
	for {
		stripped := stripWrapping(expr)
		if stripped == expr {
			break
		}
		expr = stripped
	}
	if expr == "" || isLiteral(expr) {
		return ""
	}

	if rest, ok := strings.CutPrefix(expr, "new "); ok {
		typ := strings.TrimSpace(rest)
		if i := strings.IndexAny(typ, "(<["); i >= 0 {
			typ = typ[:i]
		}
		return safe(decapitalize(lastSegment(typ)))
	}

	if strings.HasSuffix(expr, ")") {
		open := matchingOpen(expr)
		if open < 0 {
			return ""
		}
		name := lastSegment(strings.TrimSpace(expr[:open]))
		if !isIdentifier(name) {
			return ""
		}
		for _, prefix := range []string{"get", "is"} {
			if rest, ok := strings.CutPrefix(name, prefix); ok && startsUpper(rest) {
				return safe(decapitalize(rest))
			}
		}
		return safe(name)
	}

	if strings.HasSuffix(expr, "]") {
		open := strings.LastIndexByte(expr, '[')
		if open <= 0 {
			return ""
		}
		return NewExpression().SuggestName(expr[:open])
	}

	name := lastSegment(expr)
	if !isIdentifier(name) || name == "this" || name == "super" {
		return ""
	}
	if isConstant(name) {
		return safe(strcase.ToLowerCamel(name))
	}
	return safe(name)
}

// stripWrapping removes enclosing parentheses and a leading cast.
func stripWrapping(expr string) string {
	if strings.HasPrefix(expr, "(") && matchingClose(expr, 0) == len(expr)-1 {
		return strings.TrimSpace(expr[1 : len(expr)-1])
	}
	if strings.HasPrefix(expr, "(") {
		if end := matchingClose(expr, 0); end > 0 && end < len(expr)-1 {
			cast := strings.TrimSpace(expr[1:end])
			if isTypeName(cast) {
				return strings.TrimSpace(expr[end+1:])
			}
		}
	}
	return expr
}

func matchingClose(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func matchingOpen(s string) int {
	depth := 0
	for i := len(s) - 1; i >= 0; i-- {
		switch s[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func lastSegment(s string) string {
	if i := strings.LastIndexByte(s, '.'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func isLiteral(s string) bool {
	switch s {
	case "true", "false", "null":
		return true
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r == '"' || r == '\'' || unicode.IsDigit(r) || r == '-'
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func isTypeName(s string) bool {
	s = strings.TrimSuffix(s, "[]")
	if i := strings.IndexByte(s, '<'); i > 0 {
		s = s[:i]
	}
	for _, part := range strings.Split(s, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

func isConstant(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter && len(s) > 1
}

func decapitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	// URLParser stays as is, like java.beans.Introspector.decapitalize.
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(r) && unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// safe turns Java keywords into usable identifiers.
func safe(name string) string {
	if keywords[name] {
		return strcase.ToLowerCamel("a_" + name)
	}
	return name
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
}
