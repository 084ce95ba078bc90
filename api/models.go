package api

import (
	"errors"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/java/codebase"
)

var errNoMethod = errors.New("either at or method is required")

// MethodRequest names the call to a missing method, either by its location
// or spelled out.
type MethodRequest struct {
	At       string     `json:"at,omitempty"`
	Receiver string     `json:"receiver,omitempty"`
	Method   string     `json:"method,omitempty"`
	Returns  string     `json:"returns,omitempty"`
	Args     []Argument `json:"args,omitempty"`
	Matched  *bool      `json:"matched,omitempty"`
	Write    bool       `json:"write,omitempty"`
}

type Argument struct {
	Expr string `json:"expr"`
	Type string `json:"type,omitempty"`
}

func (m MethodRequest) toRequest(snap *codebase.Snapshot, strict bool) (clone.Request, error) {
	if m.At != "" {
		call, err := snap.CallAtLocation(m.At)
		if err != nil {
			return clone.Request{}, err
		}
		return codebase.RequestFromCall(call, clone.Intention{Strict: strict}), nil
	}
	if m.Method == "" {
		return clone.Request{}, errNoMethod
	}
	req := clone.Request{
		Receiver:     m.Receiver,
		Method:       m.Method,
		ExpectedType: m.Returns,
		Strict:       strict,
	}
	for _, a := range m.Args {
		req.Arguments = append(req.Arguments, clone.Argument{Expr: a.Expr, Type: a.Type})
	}
	return req, nil
}

type MethodResponse struct {
	ID         string `json:"id"`
	Receiver   string `json:"receiver,omitempty"`
	Target     string `json:"target"`
	Signature  string `json:"signature"`
	Method     string `json:"method"`
	Matched    int    `json:"matched"`
	Properties int    `json:"properties"`
	Written    bool   `json:"written"`
	File       string `json:"file,omitempty"`
}

func newMethodResponse(res *clone.Result, written bool) MethodResponse {
	out := MethodResponse{
		ID:         res.ID,
		Target:     res.Target.Name,
		Signature:  res.Method.Signature(),
		Method:     res.Method.String(),
		Properties: len(res.Matches),
		Written:    written,
	}
	for _, pm := range res.Matches {
		if pm.Matched {
			out.Matched++
		}
	}
	if res.Receiver != nil {
		out.Receiver = res.Receiver.Name
		if written {
			out.File = res.Receiver.SourceFile
		}
	}
	return out
}

type PropertyResponse struct {
	Key      string `json:"key"`
	Setter   string `json:"setter"`
	Type     string `json:"type"`
	Matched  bool   `json:"matched"`
	Direct   bool   `json:"direct,omitempty"`
	Expr     string `json:"expr,omitempty"`
	Getter   string `json:"getter,omitempty"`
	Argument int    `json:"argument"`
}

type MatchesResponse struct {
	ID         string             `json:"id"`
	Target     string             `json:"target"`
	Matched    int                `json:"matched"`
	Properties []PropertyResponse `json:"properties"`
}

func newMatchesResponse(res *clone.Result) MatchesResponse {
	out := MatchesResponse{
		ID:         res.ID,
		Target:     res.Target.Name,
		Properties: make([]PropertyResponse, 0, len(res.Matches)),
	}
	for _, pm := range res.Matches {
		if pm.Matched {
			out.Matched++
		}
		out.Properties = append(out.Properties, PropertyResponse{
			Key:      pm.Key,
			Setter:   pm.Setter,
			Type:     pm.SetterType.String(),
			Matched:  pm.Matched,
			Direct:   pm.Direct,
			Expr:     pm.Expr,
			Getter:   pm.Getter,
			Argument: pm.Source,
		})
	}
	return out
}
