package mcpserver

import (
	"errors"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/java/codebase"
)

// callInput describes the call to a missing method, either by location or
// spelled out.
type callInput struct {
	At       string     `json:"at,omitempty"       jsonschema:"Call site as FILE:LINE:COL, FILE relative to root; replaces the fields below"`
	Receiver string     `json:"receiver,omitempty" jsonschema:"Class that receives the generated method"`
	Method   string     `json:"method,omitempty"   jsonschema:"Name of the method to generate"`
	Returns  string     `json:"returns,omitempty"  jsonschema:"Type the call's result is assigned to, e.g. com.acme.OrderDto"`
	Args     []argInput `json:"args,omitempty"     jsonschema:"Argument expressions of the call, in order"`
}

type argInput struct {
	Expr string `json:"expr"           jsonschema:"Argument expression as written at the call site"`
	Type string `json:"type,omitempty" jsonschema:"Type of the argument; java.lang.Object when omitted"`
}

var errNoMethod = errors.New("either at or method is required")

// request builds the synthesis request against snap.
func (in callInput) request(snap *codebase.Snapshot, strict bool) (clone.Request, error) {
	if in.At != "" {
		call, err := snap.CallAtLocation(in.At)
		if err != nil {
			return clone.Request{}, err
		}
		return codebase.RequestFromCall(call, clone.Intention{Strict: strict}), nil
	}
	if in.Method == "" {
		return clone.Request{}, errNoMethod
	}
	req := clone.Request{
		Receiver:     in.Receiver,
		Method:       in.Method,
		ExpectedType: in.Returns,
		Strict:       strict,
	}
	for _, a := range in.Args {
		req.Arguments = append(req.Arguments, clone.Argument{Expr: a.Expr, Type: a.Type})
	}
	return req, nil
}
