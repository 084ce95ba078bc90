// Package format renders class models and generated members as text.
package format

import (
	"encoding"

	"github.com/dhamidi/entitygen/java"
)

type Encoder interface {
	encoding.TextMarshaler
	Encode(class *java.ClassModel) error
}
