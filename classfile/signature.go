package classfile

import "strings"

// ClassSignature is the generic form of a class's supertypes.
type ClassSignature struct {
	TypeParameters []string
	SuperClass     *FieldType
	Interfaces     []FieldType
}

// ParseMethodDescriptor reads a method descriptor or generic method
// signature. Thrown types listed after '^' are ignored.
func ParseMethodDescriptor(sig string) *MethodDescriptor {
	p := &sigParser{s: sig}
	md := &MethodDescriptor{TypeParameters: p.typeParameters()}
	if !p.accept('(') {
		return nil
	}
	for !p.bad && p.peek() != ')' {
		ft := p.javaType()
		if ft == nil {
			return nil
		}
		md.Parameters = append(md.Parameters, *ft)
	}
	if !p.accept(')') {
		return nil
	}
	if !p.accept('V') {
		md.ReturnType = p.javaType()
		if md.ReturnType == nil {
			return nil
		}
	}
	if p.bad || (p.pos < len(sig) && sig[p.pos] != '^') {
		return nil
	}
	return md
}

func ParseClassSignature(sig string) *ClassSignature {
	p := &sigParser{s: sig}
	cs := &ClassSignature{TypeParameters: p.typeParameters()}
	cs.SuperClass = p.javaType()
	for !p.bad && p.pos < len(sig) {
		ft := p.javaType()
		if ft == nil {
			return nil
		}
		cs.Interfaces = append(cs.Interfaces, *ft)
	}
	if p.bad || cs.SuperClass == nil {
		return nil
	}
	return cs
}

type sigParser struct {
	s   string
	pos int
	bad bool
}

func (p *sigParser) peek() byte {
	if p.pos >= len(p.s) {
		return 0
	}
	return p.s[p.pos]
}

func (p *sigParser) accept(c byte) bool {
	if p.peek() != c || p.bad {
		return false
	}
	p.pos++
	return true
}

// until consumes up to, not including, the first of stops.
func (p *sigParser) until(stops string) string {
	start := p.pos
	for p.pos < len(p.s) && !strings.ContainsRune(stops, rune(p.s[p.pos])) {
		p.pos++
	}
	if p.pos >= len(p.s) || p.pos == start {
		p.bad = true
	}
	return p.s[start:p.pos]
}

func (p *sigParser) typeParameters() []string {
	if !p.accept('<') {
		return nil
	}
	var names []string
	for !p.bad && p.peek() != '>' {
		names = append(names, p.until(":"))
		for p.accept(':') {
			if c := p.peek(); c == 'L' || c == 'T' || c == '[' {
				p.javaType()
			}
		}
	}
	p.accept('>')
	return names
}

func (p *sigParser) javaType() *FieldType {
	ft := &FieldType{}
	for p.accept('[') {
		ft.ArrayDepth++
	}
	c := p.peek()
	switch {
	case baseTypes[c] != "":
		p.pos++
		ft.BaseType = baseTypes[c]
	case c == 'T':
		p.pos++
		ft.TypeVariable = p.until(";")
		p.accept(';')
	case c == 'L':
		p.pos++
		p.classType(ft)
	default:
		p.bad = true
	}
	if p.bad {
		return nil
	}
	return ft
}

// classType reads "pkg/Outer<A>.Inner<B>;" after the 'L'. Nested parts are
// joined with '$' as in binary names; only the innermost arguments are kept.
func (p *sigParser) classType(ft *FieldType) {
	ft.ClassName = p.until("<.;")
	for !p.bad {
		ft.TypeArguments = nil
		if p.peek() == '<' {
			ft.TypeArguments = p.typeArguments()
		}
		if !p.accept('.') {
			break
		}
		ft.ClassName += "$" + p.until("<.;")
	}
	if !p.accept(';') {
		p.bad = true
	}
}

func (p *sigParser) typeArguments() []FieldType {
	p.accept('<')
	var args []FieldType
	for !p.bad && p.peek() != '>' {
		switch p.peek() {
		case '*':
			p.pos++
			args = append(args, FieldType{ClassName: "java/lang/Object"})
			continue
		case '+', '-':
			p.pos++
		}
		if ft := p.javaType(); ft != nil {
			args = append(args, *ft)
		}
	}
	if !p.accept('>') {
		p.bad = true
	}
	return args
}
