// Package clone synthesizes static factory methods that build a class
// instance by copying name-matched properties out of the call's arguments.
package clone

import (
	"context"
	"fmt"

	"github.com/dhamidi/entitygen/java"
)

// CodeModel is the read-only view of the host's types that synthesis runs
// against. Implementations must not change while a request is in flight;
// hosts that cannot guarantee this implement StaleReporter.
type CodeModel interface {
	ResolveType(name string) *java.ClassModel
	DeclaredFields(cls *java.ClassModel) []java.FieldModel
	DeclaredMethods(cls *java.ClassModel) []java.MethodModel
	SuperTypeOf(cls *java.ClassModel) *java.ClassModel
	HasAutoAccessorMarker(cls *java.ClassModel) bool
}

// StaleReporter is implemented by code models that can tell when the source
// they were built from has changed underneath them.
type StaleReporter interface {
	Stale() bool
}

// Inserter places generated method text into the receiver class. It owns
// reformatting and reference shortening.
type Inserter interface {
	InsertMethod(receiver *java.ClassModel, source string) error
}

// DefaultMarkers are the annotations that make a class rely on generated accessors.
var DefaultMarkers = []string{"lombok.Data"}

// StaticModel is a CodeModel over a fixed index of classes.
type StaticModel struct {
	index   *java.Index
	markers []string
}

func NewStaticModel(index *java.Index, markers ...string) *StaticModel {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	return &StaticModel{index: index, markers: markers}
}

func (m *StaticModel) Index() *java.Index {
	return m.index
}

func (m *StaticModel) ResolveType(name string) *java.ClassModel {
	return m.index.Find(name)
}

func (m *StaticModel) DeclaredFields(cls *java.ClassModel) []java.FieldModel {
	return cls.Fields
}

func (m *StaticModel) DeclaredMethods(cls *java.ClassModel) []java.MethodModel {
	return cls.Methods
}

func (m *StaticModel) SuperTypeOf(cls *java.ClassModel) *java.ClassModel {
	return m.index.SuperClassOf(cls)
}

func (m *StaticModel) HasAutoAccessorMarker(cls *java.ClassModel) bool {
	for _, marker := range m.markers {
		simple := java.SimpleName(marker)
		for _, a := range cls.Annotations {
			if a.Type == marker || a.Type == simple {
				return true
			}
		}
	}
	return false
}

type checkpoint struct {
	ctx   context.Context
	model CodeModel
}

func (c checkpoint) check() error {
	if c.ctx != nil {
		if err := c.ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrStaleModel, err)
		}
	}
	if s, ok := c.model.(StaleReporter); ok && s.Stale() {
		return fmt.Errorf("%w: source changed during synthesis", ErrStaleModel)
	}
	return nil
}
