// Package source reads the declarations of Java source files into class
// models and locates method calls in them. It understands just enough of the
// grammar to see packages, imports, type declarations and their members;
// method bodies are skipped.
package source

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/entitygen/java"
)

var ErrSyntax = errors.New("syntax error")

type Option func(*options)

type options struct {
	file    string
	known   []*java.ClassModel
	markers []string
}

// WithFile records path as the source file of every scanned class.
func WithFile(path string) Option {
	return func(o *options) { o.file = path }
}

// WithKnownClasses lets star imports resolve to the given classes.
func WithKnownClasses(classes []*java.ClassModel) Option {
	return func(o *options) { o.known = classes }
}

// WithMarkers lets star imports resolve to the given annotation names.
func WithMarkers(markers ...string) Option {
	return func(o *options) { o.markers = markers }
}

// File is a scanned compilation unit.
type File struct {
	Source     []byte
	Tokens     []Token
	Package    string
	PackageEnd java.Position
	Imports    []Import
	Classes    []*java.ClassModel

	resolver   *typeResolver
	typeParams map[*java.ClassModel][]string
	methods    []methodScope
}

// methodScope tracks where a method or constructor body sits in the token
// stream. Body indices point at the braces.
type methodScope struct {
	class     *java.ClassModel
	index     int
	typeVars  []string
	bodyStart int
	bodyEnd   int
}

func (m methodScope) method() *java.MethodModel {
	return &m.class.Methods[m.index]
}

// Parse scans src. On a syntax error it returns the file with everything read
// so far together with an error wrapping ErrSyntax.
func Parse(src []byte, opts ...Option) (*File, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	f := &File{
		Source:     src,
		Tokens:     Tokenize(src),
		typeParams: make(map[*java.ClassModel][]string),
	}
	s := &scanner{toks: f.Tokens, file: f, opts: o}
	err := s.compilationUnit()

	f.resolver = newTypeResolver(f.Package, f.Imports, o.known, o.markers)
	for _, cls := range f.Classes {
		f.resolver.registerClass(cls)
	}
	for _, cls := range f.Classes {
		f.resolveClass(cls)
	}
	return f, err
}

// ClassModelsFromSource returns the classes declared in src, nested classes
// following their enclosing class.
func ClassModelsFromSource(src []byte, opts ...Option) ([]*java.ClassModel, error) {
	f, err := Parse(src, opts...)
	return f.Classes, err
}

// Class returns the class declared in the file with the given qualified name.
func (f *File) Class(name string) *java.ClassModel {
	for _, cls := range f.Classes {
		if cls.Name == name {
			return cls
		}
	}
	return nil
}

// ResolveName resolves a type name as written in this file.
func (f *File) ResolveName(name string) string {
	return f.resolver.resolve(name)
}

func (f *File) typeVarsOf(cls *java.ClassModel) map[string]bool {
	vars := map[string]bool{}
	for c := cls; c != nil; c = f.Class(c.EnclosingClass) {
		for _, v := range f.typeParams[c] {
			vars[v] = true
		}
	}
	return vars
}

func (f *File) resolveClass(cls *java.ClassModel) {
	vars := f.typeVarsOf(cls)
	r := f.resolver

	if cls.SuperClass != "" {
		cls.SuperClass = r.resolveType(java.ParseType(cls.SuperClass), vars).Name
	}
	for i, iface := range cls.Interfaces {
		cls.Interfaces[i] = r.resolveType(java.ParseType(iface), vars).Name
	}
	resolveAnnotations(r, cls.Annotations)
	for i := range cls.Fields {
		cls.Fields[i].Type = r.resolveType(cls.Fields[i].Type, vars)
		resolveAnnotations(r, cls.Fields[i].Annotations)
	}
	for i := range cls.Methods {
		methodVars := vars
		for _, scope := range f.methods {
			if scope.class == cls && scope.index == i && len(scope.typeVars) > 0 {
				methodVars = map[string]bool{}
				for v := range vars {
					methodVars[v] = true
				}
				for _, v := range scope.typeVars {
					methodVars[v] = true
				}
			}
		}
		m := &cls.Methods[i]
		m.ReturnType = r.resolveType(m.ReturnType, methodVars)
		for j := range m.Parameters {
			m.Parameters[j].Type = r.resolveType(m.Parameters[j].Type, methodVars)
			resolveAnnotations(r, m.Parameters[j].Annotations)
		}
		for j, ex := range m.Exceptions {
			m.Exceptions[j] = r.resolve(ex)
		}
		resolveAnnotations(r, m.Annotations)
	}
}

func resolveAnnotations(r *typeResolver, annotations []java.AnnotationModel) {
	for i := range annotations {
		annotations[i].Type = r.resolveAnnotation(annotations[i].Type)
	}
}

type modifiers struct {
	annotations []java.AnnotationModel
	flags       map[string]bool
}

func (m modifiers) has(flag string) bool {
	return m.flags[flag]
}

func (m modifiers) visibility(def java.Visibility) java.Visibility {
	switch {
	case m.has("public"):
		return java.VisibilityPublic
	case m.has("protected"):
		return java.VisibilityProtected
	case m.has("private"):
		return java.VisibilityPrivate
	}
	return def
}

var modifierKeywords = map[string]bool{
	"public": true, "protected": true, "private": true, "static": true,
	"final": true, "abstract": true, "transient": true, "volatile": true,
	"synchronized": true, "native": true, "strictfp": true, "default": true,
	"sealed": true,
}

type scanner struct {
	toks []Token
	pos  int
	file *File
	opts *options
}

func (s *scanner) peek() Token {
	return s.toks[s.pos]
}

func (s *scanner) peekAt(n int) Token {
	if s.pos+n >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[s.pos+n]
}

func (s *scanner) next() Token {
	t := s.toks[s.pos]
	if t.Kind != TokenEOF {
		s.pos++
	}
	return t
}

func (s *scanner) accept(punct string) bool {
	if s.peek().Is(punct) {
		s.next()
		return true
	}
	return false
}

func (s *scanner) atEOF() bool {
	return s.peek().Kind == TokenEOF
}

func (s *scanner) errorf(format string, args ...any) error {
	t := s.peek()
	return fmt.Errorf("%w at %d:%d: %s", ErrSyntax, t.Start.Line, t.Start.Column, fmt.Sprintf(format, args...))
}

func (s *scanner) compilationUnit() error {
	for !s.atEOF() {
		mods := s.modifiers()
		t := s.peek()
		switch {
		case t.IsIdent("package"):
			s.next()
			s.file.Package = s.qualifiedName()
			s.accept(";")
			s.file.PackageEnd = s.toks[s.pos-1].End
		case t.IsIdent("import"):
			s.importDecl()
		case s.atTypeDecl():
			if _, err := s.typeDecl(mods, nil); err != nil {
				return err
			}
		default:
			s.next()
		}
	}
	return nil
}

func (s *scanner) importDecl() {
	start := s.next().Start
	imp := Import{}
	if s.peek().IsIdent("static") {
		s.next()
		imp.Static = true
	}
	imp.Name = s.qualifiedName()
	if s.peek().Is(".") && s.peekAt(1).Is("*") {
		s.next()
		s.next()
		imp.Wildcard = true
	}
	s.accept(";")
	imp.Range = java.Range{Start: start, End: s.toks[s.pos-1].End}
	s.file.Imports = append(s.file.Imports, imp)
}

func (s *scanner) qualifiedName() string {
	var parts []string
	for s.peek().Kind == TokenIdent {
		parts = append(parts, s.next().Literal)
		if !(s.peek().Is(".") && s.peekAt(1).Kind == TokenIdent) {
			break
		}
		s.next()
	}
	return strings.Join(parts, ".")
}

func (s *scanner) modifiers() modifiers {
	mods := modifiers{flags: map[string]bool{}}
	for {
		t := s.peek()
		switch {
		case t.Is("@") && !s.peekAt(1).IsIdent("interface"):
			s.next()
			name := s.qualifiedName()
			if s.peek().Is("(") {
				s.skipBalanced()
			}
			mods.annotations = append(mods.annotations, java.AnnotationModel{Type: name})
		case t.Kind == TokenIdent && modifierKeywords[t.Literal] && !s.peekAt(1).Is("("):
			s.next()
			mods.flags[t.Literal] = true
		case t.IsIdent("non") && s.peekAt(1).Is("-") && s.peekAt(2).IsIdent("sealed"):
			s.next()
			s.next()
			s.next()
		default:
			return mods
		}
	}
}

func (s *scanner) atTypeDecl() bool {
	t := s.peek()
	switch {
	case t.IsIdent("class") || t.IsIdent("interface") || t.IsIdent("enum"):
		return s.peekAt(1).Kind == TokenIdent
	case t.IsIdent("record"):
		return s.peekAt(1).Kind == TokenIdent && (s.peekAt(2).Is("(") || s.peekAt(2).Is("<"))
	case t.Is("@"):
		return s.peekAt(1).IsIdent("interface")
	}
	return false
}

func (s *scanner) typeDecl(mods modifiers, outer *java.ClassModel) (*java.ClassModel, error) {
	if s.accept("@") {
		s.next()
		return s.typeBody(mods, outer, java.ClassKindAnnotation)
	}
	kind := java.ClassKind(s.next().Literal)
	return s.typeBody(mods, outer, kind)
}

func (s *scanner) typeBody(mods modifiers, outer *java.ClassModel, kind java.ClassKind) (*java.ClassModel, error) {
	name := s.next().Literal
	cls := &java.ClassModel{
		SimpleName:  name,
		Kind:        kind,
		SourceFile:  s.opts.file,
		Annotations: mods.annotations,
		IsFinal:     mods.has("final") || kind == java.ClassKindRecord || kind == java.ClassKindEnum,
		IsAbstract:  mods.has("abstract") || kind == java.ClassKindInterface || kind == java.ClassKindAnnotation,
		IsStatic:    mods.has("static"),
	}
	if outer != nil {
		cls.Name = outer.Name + "." + name
		cls.Package = outer.Package
		cls.EnclosingClass = outer.Name
		cls.Visibility = mods.visibility(defaultMemberVisibility(outer))
		if outer.Kind == java.ClassKindInterface || kind != java.ClassKindClass {
			cls.IsStatic = true
		}
	} else {
		cls.Package = s.file.Package
		cls.Name = name
		if cls.Package != "" {
			cls.Name = cls.Package + "." + name
		}
		cls.Visibility = mods.visibility(java.VisibilityPackage)
	}
	for _, imp := range s.file.Imports {
		if !imp.Static {
			cls.Imports = append(cls.Imports, importSpelling(imp))
		}
	}

	if s.peek().Is("<") {
		s.file.typeParams[cls] = s.typeParameters()
	}
	if kind == java.ClassKindRecord && s.peek().Is("(") {
		for _, p := range s.parameters() {
			cls.Fields = append(cls.Fields, java.FieldModel{
				Name:        p.Name,
				Type:        p.Type,
				Visibility:  java.VisibilityPrivate,
				IsFinal:     true,
				Annotations: p.Annotations,
			})
		}
	}

	for !s.peek().Is("{") {
		t := s.peek()
		switch {
		case s.atEOF():
			return cls, s.errorf("missing body of %s", cls.Name)
		case t.IsIdent("extends") && kind == java.ClassKindClass:
			s.next()
			cls.SuperClass = s.typeSpelling().String()
		case t.IsIdent("extends") || t.IsIdent("implements"):
			s.next()
			cls.Interfaces = append(cls.Interfaces, s.typeList()...)
		default:
			s.next()
		}
	}
	cls.Body.Start = s.next().Start
	s.file.Classes = append(s.file.Classes, cls)

	if err := s.members(cls); err != nil {
		return cls, err
	}
	return cls, nil
}

func importSpelling(imp Import) string {
	if imp.Wildcard {
		return imp.Name + ".*"
	}
	return imp.Name
}

func defaultMemberVisibility(cls *java.ClassModel) java.Visibility {
	if cls.Kind == java.ClassKindInterface || cls.Kind == java.ClassKindAnnotation {
		return java.VisibilityPublic
	}
	return java.VisibilityPackage
}

func (s *scanner) typeList() []string {
	var names []string
	for {
		t := s.typeSpelling()
		if t.IsZero() {
			return names
		}
		names = append(names, t.String())
		if !s.accept(",") {
			return names
		}
	}
}

func (s *scanner) members(cls *java.ClassModel) error {
	if cls.Kind == java.ClassKindEnum {
		s.skipEnumConstants()
	}
	for {
		t := s.peek()
		switch {
		case s.atEOF():
			return s.errorf("unterminated body of %s", cls.Name)
		case t.Is("}"):
			cls.Body.End = s.next().Start
			return nil
		case t.Is(";"):
			s.next()
			continue
		case t.Is("{"):
			s.skipBalanced()
			continue
		case t.IsIdent("static") && s.peekAt(1).Is("{"):
			s.next()
			s.skipBalanced()
			continue
		}

		mods := s.modifiers()
		if s.atTypeDecl() {
			if _, err := s.typeDecl(mods, cls); err != nil {
				return err
			}
			continue
		}
		var typeVars []string
		if s.peek().Is("<") {
			typeVars = s.typeParameters()
		}

		if s.peek().IsIdent(cls.SimpleName) && s.peekAt(1).Is("(") {
			s.next()
			m := java.MethodModel{
				Name:          "<init>",
				ReturnType:    java.TypeModel{Name: "void"},
				Visibility:    mods.visibility(defaultMemberVisibility(cls)),
				IsConstructor: true,
				Annotations:   mods.annotations,
			}
			m.Parameters = s.parameters()
			s.methodTail(cls, &m, typeVars)
			continue
		}
		// Compact record constructor.
		if cls.Kind == java.ClassKindRecord && s.peek().IsIdent(cls.SimpleName) && s.peekAt(1).Is("{") {
			s.next()
			s.skipBalanced()
			continue
		}

		if s.peek().Kind != TokenIdent {
			s.skipMember()
			continue
		}
		typ := s.typeSpelling()
		if s.peek().Kind != TokenIdent {
			s.skipMember()
			continue
		}
		name := s.next().Literal

		if s.peek().Is("(") {
			m := java.MethodModel{
				Name:        name,
				ReturnType:  typ,
				Visibility:  mods.visibility(defaultMemberVisibility(cls)),
				IsStatic:    mods.has("static"),
				IsFinal:     mods.has("final"),
				IsAbstract:  mods.has("abstract"),
				Annotations: mods.annotations,
			}
			m.Parameters = s.parameters()
			for s.peek().Is("[") && s.peekAt(1).Is("]") {
				s.next()
				s.next()
				m.ReturnType.ArrayDepth++
			}
			hasBody := s.methodTail(cls, &m, typeVars)
			if cls.Kind == java.ClassKindInterface && !hasBody && !m.IsStatic {
				cls.Methods[len(cls.Methods)-1].IsAbstract = true
			}
			continue
		}

		s.fields(cls, mods, typ, name)
	}
}

// methodTail reads throws clauses and the body of a method whose parameters
// have been consumed, and appends it to cls.
func (s *scanner) methodTail(cls *java.ClassModel, m *java.MethodModel, typeVars []string) bool {
	if s.peek().IsIdent("throws") {
		s.next()
		m.Exceptions = s.typeList()
	}
	cls.Methods = append(cls.Methods, *m)
	scope := methodScope{class: cls, index: len(cls.Methods) - 1, typeVars: typeVars, bodyStart: -1, bodyEnd: -1}

	hasBody := false
	switch {
	case s.peek().Is("{"):
		hasBody = true
		scope.bodyStart = s.pos
		s.skipBalanced()
		scope.bodyEnd = s.pos - 1
	case s.peek().IsIdent("default"):
		s.skipMember()
	default:
		s.accept(";")
	}
	s.file.methods = append(s.file.methods, scope)
	return hasBody
}

func (s *scanner) fields(cls *java.ClassModel, mods modifiers, typ java.TypeModel, name string) {
	constant := cls.Kind == java.ClassKindInterface || cls.Kind == java.ClassKindAnnotation
	for {
		f := java.FieldModel{
			Name:        name,
			Type:        typ,
			Visibility:  mods.visibility(defaultMemberVisibility(cls)),
			IsStatic:    mods.has("static") || constant,
			IsFinal:     mods.has("final") || constant,
			IsTransient: mods.has("transient"),
			Annotations: mods.annotations,
		}
		for s.peek().Is("[") && s.peekAt(1).Is("]") {
			s.next()
			s.next()
			f.Type.ArrayDepth++
		}
		if s.accept("=") {
			s.skipInitializer()
		}
		cls.Fields = append(cls.Fields, f)

		if !s.accept(",") || s.peek().Kind != TokenIdent {
			break
		}
		name = s.next().Literal
	}
	s.accept(";")
}

func (s *scanner) parameters() []java.ParameterModel {
	var params []java.ParameterModel
	if !s.accept("(") {
		return nil
	}
	for !s.atEOF() && !s.peek().Is(")") {
		start := s.pos
		mods := s.modifiers()
		p := java.ParameterModel{
			IsFinal:     mods.has("final"),
			Annotations: mods.annotations,
		}
		p.Type = s.typeSpelling()
		if s.peek().IsIdent("this") {
			s.next()
		} else if s.peek().Kind == TokenIdent {
			p.Name = s.next().Literal
			for s.peek().Is("[") && s.peekAt(1).Is("]") {
				s.next()
				s.next()
				p.Type.ArrayDepth++
			}
			p.IsVarargs = s.toks[s.pos-2].Is(".") && s.toks[s.pos-3].Is(".")
			params = append(params, p)
		}
		if !s.accept(",") && s.pos == start {
			s.next()
		}
	}
	s.accept(")")
	return params
}

// typeSpelling reads a type such as java.util.Map<String, List<Integer>>[]
// or a varargs type and returns it unresolved.
func (s *scanner) typeSpelling() java.TypeModel {
	for s.peek().Is("@") && !s.peekAt(1).IsIdent("interface") {
		s.next()
		s.qualifiedName()
		if s.peek().Is("(") {
			s.skipBalanced()
		}
	}
	if s.peek().Kind != TokenIdent {
		return java.TypeModel{}
	}
	var sb strings.Builder
	sb.WriteString(s.next().Literal)
	for {
		if s.peek().Is(".") && s.peekAt(1).Kind == TokenIdent {
			s.next()
			sb.WriteString(".")
			sb.WriteString(s.next().Literal)
			continue
		}
		if s.peek().Is("<") {
			sb.WriteString(s.angleText())
			continue
		}
		break
	}
	for s.peek().Is("[") && s.peekAt(1).Is("]") {
		s.next()
		s.next()
		sb.WriteString("[]")
	}
	if s.peek().Is(".") && s.peekAt(1).Is(".") && s.peekAt(2).Is(".") {
		s.next()
		s.next()
		s.next()
		sb.WriteString("...")
	}
	return java.ParseType(sb.String())
}

// angleText consumes a balanced <...> group and returns its normalized text.
func (s *scanner) angleText() string {
	var sb strings.Builder
	depth := 0
	var prev Token
	for !s.atEOF() {
		t := s.next()
		if wordish(prev) && wordish(t) {
			sb.WriteString(" ")
		}
		sb.WriteString(t.Literal)
		if t.Is(",") {
			sb.WriteString(" ")
		}
		prev = t
		switch {
		case t.Is("<"):
			depth++
		case t.Is(">"):
			depth--
		}
		if depth == 0 || t.Is(";") || t.Is("{") {
			break
		}
	}
	return sb.String()
}

func wordish(t Token) bool {
	return t.Kind == TokenIdent || t.Is("?")
}

func (s *scanner) typeParameters() []string {
	var names []string
	depth := 0
	expectName := true
	for !s.atEOF() {
		t := s.next()
		switch {
		case t.Is("<"):
			depth++
			expectName = depth == 1
			continue
		case t.Is(">"):
			depth--
		case t.Is(",") && depth == 1:
			expectName = true
			continue
		case t.Kind == TokenIdent && expectName && depth == 1:
			names = append(names, t.Literal)
		}
		expectName = false
		if depth == 0 {
			break
		}
	}
	return names
}

// skipBalanced consumes a bracketed group starting at the current token.
func (s *scanner) skipBalanced() {
	open := s.peek().Literal
	closer := map[string]string{"(": ")", "{": "}", "[": "]"}[open]
	depth := 0
	for !s.atEOF() {
		t := s.next()
		if t.Is(open) {
			depth++
		} else if t.Is(closer) {
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

func (s *scanner) skipEnumConstants() {
	depth := 0
	for !s.atEOF() {
		t := s.peek()
		switch {
		case t.Is("(") || t.Is("{") || t.Is("["):
			depth++
		case t.Is(")") || t.Is("]"):
			depth--
		case t.Is("}"):
			if depth == 0 {
				return
			}
			depth--
		case t.Is(";") && depth == 0:
			s.next()
			return
		}
		s.next()
	}
}

// skipInitializer stops before the ',' or ';' ending a variable initializer.
func (s *scanner) skipInitializer() {
	depth, angle := 0, 0
	var prev Token
	for !s.atEOF() {
		t := s.peek()
		switch {
		case t.Is("(") || t.Is("{") || t.Is("["):
			depth++
		case t.Is(")") || t.Is("]"):
			depth--
		case t.Is("}"):
			if depth == 0 {
				return
			}
			depth--
		case t.Is("<") && prev.Kind == TokenIdent && startsUpper(prev.Literal):
			angle++
		case t.Is(">") && angle > 0:
			angle--
		case t.Is(";") && depth == 0:
			return
		case t.Is(",") && depth == 0 && angle == 0:
			return
		}
		prev = s.next()
	}
}

func (s *scanner) skipMember() {
	depth := 0
	for !s.atEOF() {
		t := s.peek()
		switch {
		case t.Is("(") || t.Is("["):
			depth++
		case t.Is(")") || t.Is("]"):
			depth--
		case t.Is("{"):
			s.skipBalanced()
			if depth == 0 {
				return
			}
			continue
		case t.Is("}") && depth <= 0:
			return
		case t.Is(";") && depth <= 0:
			s.next()
			return
		}
		s.next()
	}
}

func startsUpper(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
