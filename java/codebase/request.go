package codebase

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dhamidi/entitygen/clone"
	"github.com/dhamidi/entitygen/java/source"
)

// RequestFromCall turns a located call into a synthesis request.
func RequestFromCall(call *source.Call, in clone.Intention) clone.Request {
	req := clone.Request{
		Receiver:     call.Receiver,
		Method:       call.Method,
		ExpectedType: call.ExpectedType,
		Strict:       in.Strict,
	}
	for _, arg := range call.Arguments {
		req.Arguments = append(req.Arguments, clone.Argument{Expr: arg.Expr, Type: arg.Type})
	}
	return req
}

// Eligible reports whether the intentions apply to call: its receiver is a
// class of the model that declares no method of that name.
func Eligible(model clone.CodeModel, call *source.Call) bool {
	if call == nil || call.Receiver == "" || call.ExpectedType == "" {
		return false
	}
	receiver := model.ResolveType(call.Receiver)
	if receiver == nil {
		return false
	}
	for _, m := range model.DeclaredMethods(receiver) {
		if m.Name == call.Method {
			return false
		}
	}
	return true
}

// ParseLocation splits a FILE:LINE:COL call site reference.
func ParseLocation(at string) (string, int, int, error) {
	colSep := strings.LastIndexByte(at, ':')
	if colSep < 0 {
		return "", 0, 0, fmt.Errorf("location %q: want FILE:LINE:COL", at)
	}
	lineSep := strings.LastIndexByte(at[:colSep], ':')
	if lineSep <= 0 {
		return "", 0, 0, fmt.Errorf("location %q: want FILE:LINE:COL", at)
	}
	line, err := strconv.Atoi(at[lineSep+1 : colSep])
	if err != nil || line < 1 {
		return "", 0, 0, fmt.Errorf("location %q: bad line", at)
	}
	col, err := strconv.Atoi(at[colSep+1:])
	if err != nil || col < 1 {
		return "", 0, 0, fmt.Errorf("location %q: bad column", at)
	}
	return at[:lineSep], line, col, nil
}

// CallAtLocation locates the call at a FILE:LINE:COL reference. Relative
// files are taken from the codebase root.
func (s *Snapshot) CallAtLocation(at string) (*source.Call, error) {
	path, line, col, err := ParseLocation(at)
	if err != nil {
		return nil, err
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.codebase.RootDir(), filepath.FromSlash(path))
	}
	return s.CallAt(path, line, col)
}
