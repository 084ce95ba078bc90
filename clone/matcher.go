package clone

import (
	"context"
	"fmt"

	"github.com/dhamidi/entitygen/java"
)

// Source is one call-site argument offered to the matcher. Name is the
// expression the generated body uses to refer to it.
type Source struct {
	Name string
	Type java.TypeModel
}

// PropertyMatch is the outcome for one target property.
type PropertyMatch struct {
	Key        string
	Setter     string
	SetterType java.TypeModel
	Matched    bool

	// Direct marks a value-type argument passed to the setter as is.
	Direct bool
	Expr   string

	// Source is the index of the supplying argument, or -1.
	Source int
	Getter string
}

type Matcher struct {
	model            CodeModel
	values           *ValueTypes
	failOnUnresolved bool
}

func NewMatcher(model CodeModel, values *ValueTypes, failOnUnresolved bool) *Matcher {
	if values == nil {
		values = NewValueTypes()
	}
	return &Matcher{model: model, values: values, failOnUnresolved: failOnUnresolved}
}

type sourceGetter struct {
	entry  Entry
	source int
}

// Match classifies every setter property of target against sources. The
// result follows the target's property order. Getters are taken from the
// first source that exposes them; direct values are consulted only when no
// getter matches.
func (m *Matcher) Match(ctx context.Context, target *java.ClassModel, sources []Source) ([]PropertyMatch, error) {
	if target == nil {
		return nil, ErrUnresolvableTarget
	}
	walker := NewWalker(ctx, m.model, m.failOnUnresolved)

	chain, err := walker.Linearize(target)
	if err != nil {
		return nil, fmt.Errorf("target %s: %w", target.Name, err)
	}
	setters := DiscoverChain(m.model, chain, Setter)

	getters := map[string]sourceGetter{}
	direct := map[string]int{}
	for i, src := range sources {
		if isUntypedObject(src.Type) {
			log.Debugf("argument %s is typed as Object and exposes no properties", src.Name)
			continue
		}
		cls := m.objectSource(src)
		if cls == nil {
			key := NormalizeKey(src.Name)
			if _, ok := direct[key]; !ok {
				direct[key] = i
			}
			continue
		}
		srcChain, err := walker.Linearize(cls)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", src.Name, err)
		}
		for _, e := range DiscoverChain(m.model, srcChain, Getter) {
			if _, ok := getters[e.Key]; !ok {
				getters[e.Key] = sourceGetter{entry: e, source: i}
			}
		}
	}

	matches := make([]PropertyMatch, 0, len(setters))
	for _, s := range setters {
		pm := PropertyMatch{Key: s.Key, Setter: s.Method, SetterType: s.Type, Source: -1}
		if g, ok := getters[s.Key]; ok {
			pm.Matched = true
			pm.Source = g.source
			pm.Getter = g.entry.Method
			pm.Expr = sources[g.source].Name + "." + g.entry.Method + "()"
		} else if i, ok := direct[s.Key]; ok {
			pm.Matched = true
			pm.Direct = true
			pm.Source = i
			pm.Expr = sources[i].Name
		}
		matches = append(matches, pm)
	}
	return matches, nil
}

// isUntypedObject reports a plain Object argument. Such an argument is an
// object without getters, never a direct value.
func isUntypedObject(t java.TypeModel) bool {
	return !t.IsArray() && isUniversalBaseName(t.Name)
}

// objectSource resolves the class whose getters src contributes, or nil when
// src is used as a direct value.
func (m *Matcher) objectSource(src Source) *java.ClassModel {
	if src.Type.IsZero() || src.Type.IsArray() || src.Type.IsPrimitive() || m.values.Contains(src.Type) {
		return nil
	}
	cls := m.model.ResolveType(src.Type.Name)
	if cls == nil {
		log.Debugf("argument %s of type %s is not a known class, using it as a value", src.Name, src.Type)
	}
	return cls
}

// Emitted applies the strictness policy: strict drops unmatched properties,
// otherwise every property is kept.
func Emitted(matches []PropertyMatch, strict bool) []PropertyMatch {
	if !strict {
		return matches
	}
	out := make([]PropertyMatch, 0, len(matches))
	for _, pm := range matches {
		if pm.Matched {
			out = append(out, pm)
		}
	}
	return out
}
