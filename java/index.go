package java

import "strings"

// Index is a read-only lookup over a set of class models. It is safe for
// concurrent use once built; the models it holds must not be mutated.
type Index struct {
	classes  []*ClassModel
	byName   map[string]*ClassModel
	bySimple map[string][]*ClassModel
}

func NewIndex(classes []*ClassModel) *Index {
	idx := &Index{
		classes:  classes,
		byName:   make(map[string]*ClassModel, len(classes)),
		bySimple: make(map[string][]*ClassModel),
	}
	for _, cls := range classes {
		if cls == nil || cls.Name == "" {
			continue
		}
		if _, ok := idx.byName[cls.Name]; ok {
			continue
		}
		idx.byName[cls.Name] = cls
		idx.bySimple[cls.SimpleName] = append(idx.bySimple[cls.SimpleName], cls)
	}
	return idx
}

func (idx *Index) Classes() []*ClassModel {
	return idx.classes
}

func (idx *Index) Len() int {
	return len(idx.byName)
}

// Lookup resolves a qualified name exactly.
func (idx *Index) Lookup(name string) *ClassModel {
	return idx.byName[name]
}

// Find resolves a type name the way a user would write it: fully qualified,
// as a nested-class suffix ("Outer.Inner"), or as a simple name that is
// unique across the index. Generic arguments and array brackets are ignored.
func (idx *Index) Find(name string) *ClassModel {
	name = ParseType(name).Name
	if name == "" {
		return nil
	}
	if cls := idx.Lookup(name); cls != nil {
		return cls
	}
	simple := SimpleName(name)
	candidates := idx.bySimple[simple]
	if !strings.Contains(name, ".") {
		if len(candidates) == 1 {
			return candidates[0]
		}
		return nil
	}
	var match *ClassModel
	for _, cls := range candidates {
		if strings.HasSuffix(cls.Name, "."+name) {
			if match != nil {
				return nil
			}
			match = cls
		}
	}
	return match
}

// SuperClassOf resolves the declared superclass of cls, or nil when it has
// none or it is not part of the index.
func (idx *Index) SuperClassOf(cls *ClassModel) *ClassModel {
	if cls == nil || cls.SuperClass == "" {
		return nil
	}
	return idx.Find(cls.SuperClass)
}

// MethodReturnType finds the first method with the given name on cls or its
// indexed superclasses.
func (idx *Index) MethodReturnType(cls *ClassModel, methodName string) (TypeModel, bool) {
	seen := map[string]bool{}
	for cls != nil && !seen[cls.Name] {
		seen[cls.Name] = true
		for _, m := range cls.MethodsByName(methodName) {
			if !m.IsConstructor {
				return m.ReturnType, true
			}
		}
		cls = idx.SuperClassOf(cls)
	}
	return TypeModel{}, false
}
