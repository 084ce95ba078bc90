package source

import (
	"errors"
	"strings"

	"github.com/dhamidi/entitygen/java"
)

var ErrNoCall = errors.New("no method call at position")

type Argument struct {
	Expr string
	Type string
}

// Call is a method invocation found at a caret.
type Call struct {
	// Receiver is the qualified name of the class the method is called on,
	// or empty when the receiver expression could not be typed.
	Receiver     string
	ReceiverExpr string
	Method       string
	MethodRange  java.Range
	Arguments    []Argument

	// ExpectedType is the declared type the call's result is assigned to.
	ExpectedType string

	// Enclosing is the class whose body contains the call.
	Enclosing *java.ClassModel
}

// CallAt parses src and returns the call whose method name is under the
// 1-based line and column, or whose argument list starts right there.
func CallAt(src []byte, line, column int, index *java.Index, opts ...Option) (*Call, error) {
	f, err := Parse(src, opts...)
	if err != nil && len(f.Classes) == 0 {
		return nil, err
	}
	return f.CallAt(OffsetOf(src, line, column), index)
}

func (f *File) CallAt(offset int, index *java.Index) (*Call, error) {
	if index == nil {
		index = java.NewIndex(f.Classes)
	}
	i := f.callNameAt(offset)
	if i < 0 {
		return nil, ErrNoCall
	}
	toks := f.Tokens
	c := &callContext{f: f, index: index, at: i, enclosing: f.enclosingClass(toks[i].Start.Offset)}
	c.scope = f.enclosingMethod(i)

	call := &Call{
		Method:      toks[i].Literal,
		MethodRange: java.Range{Start: toks[i].Start, End: toks[i].End},
		Enclosing:   c.enclosing,
	}

	chainStart := i
	var parts []string
	for chainStart >= 2 && toks[chainStart-1].Is(".") && toks[chainStart-2].Kind == TokenIdent {
		chainStart -= 2
		parts = append([]string{toks[chainStart].Literal}, parts...)
	}
	if chainStart >= 1 && toks[chainStart-1].Is(".") {
		// Receiver is a call or some other expression we do not type.
		return nil, ErrNoCall
	}
	if len(parts) == 0 {
		if c.enclosing != nil {
			call.Receiver = c.enclosing.Name
		}
	} else {
		call.ReceiverExpr = strings.Join(parts, ".")
		call.Receiver = c.typeOfPath(parts, chainStart).Name
	}

	for _, arg := range f.splitArguments(i + 1) {
		call.Arguments = append(call.Arguments, Argument{
			Expr: f.text(arg[0], arg[1]),
			Type: typeString(c.typeOf(arg[0], arg[1])),
		})
	}
	call.ExpectedType = typeString(c.expectedType(chainStart))
	return call, nil
}

// callNameAt finds the identifier token of a method call at offset.
func (f *File) callNameAt(offset int) int {
	toks := f.Tokens
	for i := 0; i+1 < len(toks); i++ {
		t := toks[i]
		if t.Start.Offset > offset {
			break
		}
		if t.Kind != TokenIdent || !t.Contains(offset) || !toks[i+1].Is("(") {
			continue
		}
		if IsKeyword(t.Literal) {
			return -1
		}
		if i > 0 {
			prev := toks[i-1]
			if prev.IsIdent("new") || prev.Is(">") || prev.Is("]") || prev.Is("@") {
				return -1
			}
			if prev.Kind == TokenIdent && !IsKeyword(prev.Literal) {
				return -1
			}
			if prev.Kind == TokenIdent && java.IsPrimitiveName(prev.Literal) || prev.IsIdent("void") {
				return -1
			}
		}
		return i
	}
	return -1
}

func (f *File) text(start, end int) string {
	return strings.TrimSpace(string(f.Source[f.Tokens[start].Start.Offset:f.Tokens[end].End.Offset]))
}

// splitArguments returns the inclusive token ranges of the arguments of the
// argument list opening at token open.
func (f *File) splitArguments(open int) [][2]int {
	toks := f.Tokens
	var args [][2]int
	depth := 0
	start := open + 1
	for i := open; i < len(toks) && toks[i].Kind != TokenEOF; i++ {
		t := toks[i]
		switch {
		case t.Is("(") || t.Is("[") || t.Is("{"):
			depth++
		case t.Is(")") || t.Is("]") || t.Is("}"):
			depth--
			if depth == 0 {
				if i > start {
					args = append(args, [2]int{start, i - 1})
				}
				return args
			}
		case t.Is(",") && depth == 1:
			if i > start {
				args = append(args, [2]int{start, i - 1})
			}
			start = i + 1
		}
	}
	return args
}

func (f *File) enclosingClass(offset int) *java.ClassModel {
	var best *java.ClassModel
	for _, cls := range f.Classes {
		if cls.Body.Start.Offset < offset && offset < cls.Body.End.Offset {
			if best == nil || cls.Body.Start.Offset > best.Body.Start.Offset {
				best = cls
			}
		}
	}
	return best
}

func (f *File) enclosingMethod(tok int) *methodScope {
	var best *methodScope
	for i := range f.methods {
		m := &f.methods[i]
		if m.bodyStart < tok && tok < m.bodyEnd {
			if best == nil || m.bodyStart > best.bodyStart {
				best = m
			}
		}
	}
	return best
}

type callContext struct {
	f         *File
	index     *java.Index
	at        int
	enclosing *java.ClassModel
	scope     *methodScope
}

func typeString(t java.TypeModel) string {
	if t.IsZero() {
		return ""
	}
	return t.String()
}

func (c *callContext) resolve(t java.TypeModel) java.TypeModel {
	vars := map[string]bool{}
	if c.enclosing != nil {
		vars = c.f.typeVarsOf(c.enclosing)
	}
	if c.scope != nil {
		for _, v := range c.scope.typeVars {
			vars[v] = true
		}
	}
	return c.f.resolver.resolveType(t, vars)
}

// class finds the model of a resolved type, in the index or the file.
func (c *callContext) class(t java.TypeModel) *java.ClassModel {
	if t.IsZero() || t.IsArray() || t.IsPrimitive() {
		return nil
	}
	if cls := c.index.Find(t.Name); cls != nil {
		return cls
	}
	return c.f.Class(t.Name)
}

// expectedType looks left of the call for "T v = ", "v = " or "return ".
func (c *callContext) expectedType(chainStart int) java.TypeModel {
	toks := c.f.Tokens
	k := chainStart - 1
	if k < 0 {
		return java.TypeModel{}
	}
	if toks[k].IsIdent("return") {
		if c.scope != nil {
			rt := c.scope.method().ReturnType
			if !rt.IsVoid() {
				return rt
			}
		}
		return java.TypeModel{}
	}
	if !toks[k].Is("=") || k < 1 || toks[k-1].Kind != TokenIdent {
		return java.TypeModel{}
	}
	name := k - 1
	if name >= 1 && isTypeEnd(toks[name-1]) {
		if toks[name-1].IsIdent("var") {
			return java.TypeModel{}
		}
		return c.resolve(c.f.typeBefore(name))
	}
	return c.variableType(toks[name].Literal, name)
}

func isTypeEnd(t Token) bool {
	if t.Is(">") || t.Is("]") {
		return true
	}
	if t.Kind != TokenIdent {
		return false
	}
	return !IsKeyword(t.Literal) || java.IsPrimitiveName(t.Literal)
}

// typeBefore reads the type spelled immediately before token name.
func (f *File) typeBefore(name int) java.TypeModel {
	toks := f.Tokens
	end := name - 1
	j := end
	for j >= 1 && toks[j].Is("]") && toks[j-1].Is("[") {
		j -= 2
	}
	if j >= 0 && toks[j].Is(">") {
		depth := 0
		for ; j >= 0; j-- {
			if toks[j].Is(">") {
				depth++
			} else if toks[j].Is("<") {
				depth--
				if depth == 0 {
					break
				}
			}
		}
		j--
	}
	if j < 0 || toks[j].Kind != TokenIdent {
		return java.TypeModel{}
	}
	j--
	for j >= 1 && toks[j].Is(".") && toks[j-1].Kind == TokenIdent {
		j -= 2
	}
	start := j + 1
	s := &scanner{toks: append(append([]Token(nil), toks[start:end+1]...), Token{Kind: TokenEOF}), file: f, opts: &options{}}
	return s.typeSpelling()
}

// variableType finds the declared type of name as seen from token before:
// locals and parameters of the enclosing method, then fields.
func (c *callContext) variableType(name string, before int) java.TypeModel {
	toks := c.f.Tokens
	lower := 0
	if c.scope != nil {
		lower = c.scope.bodyStart
	}
	for j := before - 1; j > lower; j-- {
		t := toks[j]
		if !t.IsIdent(name) || !isTypeEnd(toks[j-1]) {
			continue
		}
		n := toks[j+1]
		if !(n.Is("=") || n.Is(";") || n.Is(",") || n.Is(")") || n.Is(":")) {
			continue
		}
		if toks[j-1].IsIdent("var") {
			if n.Is("=") {
				end := j + 2
				for end < len(toks) && !toks[end].Is(";") && toks[end].Kind != TokenEOF {
					end++
				}
				if end > j+2 {
					return c.typeOf(j+2, end-1)
				}
			}
			return java.TypeModel{}
		}
		return c.resolve(c.f.typeBefore(j))
	}
	if c.scope != nil {
		for _, p := range c.scope.method().Parameters {
			if p.Name == name {
				return p.Type
			}
		}
	}
	return c.fieldType(c.enclosing, name)
}

func (c *callContext) fieldType(cls *java.ClassModel, name string) java.TypeModel {
	seen := map[string]bool{}
	for cls != nil && !seen[cls.Name] {
		seen[cls.Name] = true
		if f := cls.Field(name); f != nil {
			return f.Type
		}
		if cls.EnclosingClass != "" {
			if t := c.fieldType(c.f.Class(cls.EnclosingClass), name); !t.IsZero() {
				return t
			}
		}
		cls = c.index.SuperClassOf(cls)
	}
	return java.TypeModel{}
}

// typeOfPath types a dotted receiver such as "this.repo", "factory" or
// "com.example.Factory".
func (c *callContext) typeOfPath(parts []string, at int) java.TypeModel {
	var cur java.TypeModel
	rest := parts
	switch {
	case parts[0] == "this" && c.enclosing != nil:
		cur = java.TypeModel{Name: c.enclosing.Name}
		rest = parts[1:]
	default:
		if t := c.variableType(parts[0], at); !t.IsZero() {
			cur = t
			rest = parts[1:]
			break
		}
		for k := len(parts); k >= 1; k-- {
			written := strings.Join(parts[:k], ".")
			cls := c.class(c.resolve(java.TypeModel{Name: written}))
			if cls == nil {
				cls = c.index.Find(written)
			}
			if cls != nil {
				cur = java.TypeModel{Name: cls.Name}
				rest = parts[k:]
				break
			}
		}
		if cur.IsZero() {
			return java.TypeModel{}
		}
	}
	for _, field := range rest {
		cur = c.fieldType(c.class(cur), field)
		if cur.IsZero() {
			return cur
		}
	}
	return cur
}

// typeOf infers the type of the expression spanning tokens start..end.
func (c *callContext) typeOf(start, end int) java.TypeModel {
	toks := c.f.Tokens
	t := toks[start]

	if start == end {
		switch t.Kind {
		case TokenStringLiteral, TokenTextBlock:
			return java.TypeModel{Name: "java.lang.String"}
		case TokenCharLiteral:
			return java.TypeModel{Name: "char"}
		case TokenIntLiteral:
			if strings.HasSuffix(t.Literal, "l") || strings.HasSuffix(t.Literal, "L") {
				return java.TypeModel{Name: "long"}
			}
			return java.TypeModel{Name: "int"}
		case TokenFloatLiteral:
			if strings.HasSuffix(t.Literal, "f") || strings.HasSuffix(t.Literal, "F") {
				return java.TypeModel{Name: "float"}
			}
			return java.TypeModel{Name: "double"}
		case TokenIdent:
			switch t.Literal {
			case "true", "false":
				return java.TypeModel{Name: "boolean"}
			case "null":
				return java.TypeModel{}
			case "this":
				if c.enclosing != nil {
					return java.TypeModel{Name: c.enclosing.Name}
				}
				return java.TypeModel{}
			}
			return c.variableType(t.Literal, start)
		}
		return java.TypeModel{}
	}

	if t.Is("-") || t.Is("+") {
		return c.typeOf(start+1, end)
	}
	if c.hasTopLevelStringConcat(start, end) {
		return java.TypeModel{Name: "java.lang.String"}
	}
	if t.IsIdent("new") {
		return c.newExprType(start+1, end)
	}
	if t.Is("(") {
		if close := c.matching(start); close > start && close < end {
			s := &scanner{toks: append(append([]Token(nil), toks[start+1:close]...), Token{Kind: TokenEOF}), file: c.f, opts: &options{}}
			if cast := s.typeSpelling(); !cast.IsZero() && s.atEOF() {
				return c.resolve(cast)
			}
		}
		if close := c.matching(start); close == end {
			return c.typeOf(start+1, end-1)
		}
		return java.TypeModel{}
	}
	if t.Kind == TokenIdent {
		return c.chainType(start, end)
	}
	return java.TypeModel{}
}

func (c *callContext) matching(open int) int {
	toks := c.f.Tokens
	depth := 0
	for i := open; i < len(toks); i++ {
		switch {
		case toks[i].Is("("):
			depth++
		case toks[i].Is(")"):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func (c *callContext) hasTopLevelStringConcat(start, end int) bool {
	toks := c.f.Tokens
	depth := 0
	plus, str := false, false
	for i := start; i <= end; i++ {
		t := toks[i]
		switch {
		case t.Is("(") || t.Is("["):
			depth++
		case t.Is(")") || t.Is("]"):
			depth--
		case depth == 0 && t.Is("+"):
			plus = true
		case depth == 0 && (t.Kind == TokenStringLiteral || t.Kind == TokenTextBlock):
			str = true
		}
	}
	return plus && str
}

func (c *callContext) newExprType(start, end int) java.TypeModel {
	toks := c.f.Tokens
	s := &scanner{toks: append(append([]Token(nil), toks[start:end+1]...), Token{Kind: TokenEOF}), file: c.f, opts: &options{}}
	t := s.typeSpelling()
	if t.IsZero() {
		return t
	}
	for s.peek().Is("[") {
		t.ArrayDepth++
		s.skipBalanced()
	}
	return c.resolve(t)
}

// chainType types a.b.getC().d style expressions through fields and method
// return types.
func (c *callContext) chainType(start, end int) java.TypeModel {
	toks := c.f.Tokens
	type segment struct {
		name string
		call bool
		pos  int
	}
	var segs []segment
	for i := start; i <= end; {
		if toks[i].Kind != TokenIdent {
			return java.TypeModel{}
		}
		seg := segment{name: toks[i].Literal, pos: i}
		i++
		if i <= end && toks[i].Is("(") {
			close := c.matching(i)
			if close < 0 || close > end {
				return java.TypeModel{}
			}
			seg.call = true
			i = close + 1
		}
		segs = append(segs, seg)
		if i > end {
			break
		}
		if !toks[i].Is(".") {
			return java.TypeModel{}
		}
		i++
	}
	if len(segs) == 0 {
		return java.TypeModel{}
	}

	var cur java.TypeModel
	first := 0
	switch {
	case segs[0].call:
		if c.enclosing == nil {
			return java.TypeModel{}
		}
		rt, ok := c.index.MethodReturnType(c.enclosing, segs[0].name)
		if !ok {
			return java.TypeModel{}
		}
		cur, first = rt, 1
	default:
		var path []string
		for _, s := range segs {
			if s.call {
				break
			}
			path = append(path, s.name)
		}
		cur = c.typeOfPath(path, segs[0].pos)
		first = len(path)
	}

	for _, s := range segs[first:] {
		cls := c.class(cur)
		if cls == nil {
			return java.TypeModel{}
		}
		if s.call {
			rt, ok := c.index.MethodReturnType(cls, s.name)
			if !ok {
				return java.TypeModel{}
			}
			cur = rt
		} else {
			cur = c.fieldType(cls, s.name)
		}
		if cur.IsZero() {
			return cur
		}
	}
	return cur
}
