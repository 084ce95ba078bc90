package clone

import (
	"context"
	"fmt"
	"slices"

	"github.com/dhamidi/entitygen/java"
)

// Walker linearizes class hierarchies against a code model.
type Walker struct {
	model            CodeModel
	cp               checkpoint
	failOnUnresolved bool
}

func NewWalker(ctx context.Context, model CodeModel, failOnUnresolved bool) *Walker {
	return &Walker{
		model:            model,
		cp:               checkpoint{ctx: ctx, model: model},
		failOnUnresolved: failOnUnresolved,
	}
}

// Linearize returns the superclass chain of cls from its root ancestor down
// to cls itself, leaving out java.lang.Object. A nil class yields nil.
func (w *Walker) Linearize(cls *java.ClassModel) ([]*java.ClassModel, error) {
	var chain []*java.ClassModel
	seen := map[string]bool{}

	for cur := cls; cur != nil && !isUniversalBase(cur); {
		if err := w.cp.check(); err != nil {
			return nil, err
		}
		if seen[cur.Name] {
			return nil, fmt.Errorf("%w: %s inherits from itself", ErrMalformedHierarchy, cur.Name)
		}
		seen[cur.Name] = true
		chain = append(chain, cur)

		next := w.model.SuperTypeOf(cur)
		if next == nil && cur.SuperClass != "" && !isUniversalBaseName(cur.SuperClass) {
			if w.failOnUnresolved {
				return nil, fmt.Errorf("%w: superclass %s of %s is unknown", ErrMalformedHierarchy, cur.SuperClass, cur.Name)
			}
			log.Debugf("superclass %s of %s is unknown, stopping there", cur.SuperClass, cur.Name)
		}
		cur = next
	}

	slices.Reverse(chain)
	return chain, nil
}

func isUniversalBase(cls *java.ClassModel) bool {
	if cls.Name == java.ObjectClass {
		return true
	}
	return cls.SimpleName == "Object" && (cls.Package == "" || cls.Package == "java.lang")
}

func isUniversalBaseName(name string) bool {
	return name == java.ObjectClass || name == "Object"
}
