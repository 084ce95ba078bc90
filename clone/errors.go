package clone

import "errors"

var (
	// ErrUnresolvableTarget reports that the receiver or the class to build
	// is not a class known to the code model.
	ErrUnresolvableTarget = errors.New("unresolvable target")

	// ErrMalformedHierarchy reports a cyclic (or, when configured, broken)
	// superclass chain.
	ErrMalformedHierarchy = errors.New("malformed hierarchy")

	// ErrStaleModel reports that the code model changed while a request was
	// being computed.
	ErrStaleModel = errors.New("stale model")

	// ErrNoExpectedType reports a call site whose result type cannot be inferred.
	ErrNoExpectedType = errors.New("no expected type")
)
