package clone

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/dhamidi/entitygen/java"
	"github.com/dhamidi/entitygen/naming"
)

// Argument is one argument expression at the call site. Type is the
// inferred type spelling and may be empty.
type Argument struct {
	Expr string
	Type string
}

// Request describes a call to a factory method that does not exist yet:
// Receiver.Method(Arguments...) whose result is assigned to ExpectedType.
type Request struct {
	Receiver     string
	Method       string
	ExpectedType string
	Arguments    []Argument
	Strict       bool
}

type Result struct {
	ID       string
	Receiver *java.ClassModel
	Target   *java.ClassModel
	Matches  []PropertyMatch
	Method   Method
}

type Options struct {
	Style                 Style
	ValueTypes            *ValueTypes
	FailOnUnresolvedSuper bool
}

type Engine struct {
	model CodeModel
	names naming.Suggester
	opts  Options
}

func NewEngine(model CodeModel, names naming.Suggester, opts Options) *Engine {
	if names == nil {
		names = naming.NewExpression()
	}
	if opts.ValueTypes == nil {
		opts.ValueTypes = NewValueTypes()
	}
	return &Engine{model: model, names: names, opts: opts}
}

// Generate computes the method for req without touching any source.
func (e *Engine) Generate(ctx context.Context, req Request) (*Result, error) {
	res := &Result{ID: uuid.NewString()}
	log.Infof("[%s] generating %s.%s returning %q", res.ID, req.Receiver, req.Method, req.ExpectedType)

	if req.ExpectedType == "" {
		return nil, fmt.Errorf("%s.%s: %w", req.Receiver, req.Method, ErrNoExpectedType)
	}
	cp := checkpoint{ctx: ctx, model: e.model}
	if err := cp.check(); err != nil {
		return nil, err
	}

	if req.Receiver != "" {
		res.Receiver = e.model.ResolveType(req.Receiver)
		if res.Receiver == nil {
			return nil, fmt.Errorf("receiver %s: %w", req.Receiver, ErrUnresolvableTarget)
		}
	}

	expected := java.ParseType(req.ExpectedType)
	if expected.IsPrimitive() || expected.IsArray() {
		return nil, fmt.Errorf("expected type %s: %w", req.ExpectedType, ErrUnresolvableTarget)
	}
	res.Target = e.model.ResolveType(expected.Name)
	if res.Target == nil {
		return nil, fmt.Errorf("expected type %s: %w", req.ExpectedType, ErrUnresolvableTarget)
	}

	params := e.parameters(req.Arguments)
	sources := make([]Source, len(params))
	for i, p := range params {
		sources[i] = Source{Name: p.Name, Type: p.Type}
	}

	matcher := NewMatcher(e.model, e.opts.ValueTypes, e.opts.FailOnUnresolvedSuper)
	matches, err := matcher.Match(ctx, res.Target, sources)
	if err != nil {
		return nil, err
	}
	res.Matches = matches

	returnType := java.TypeModel{Name: res.Target.Name, TypeArguments: expected.TypeArguments}
	res.Method = Synthesize(req.Method, params, returnType, Emitted(matches, req.Strict), e.opts.Style)

	if err := cp.check(); err != nil {
		return nil, err
	}
	log.Debugf("[%s] %d of %d properties matched", res.ID, countMatched(matches), len(matches))
	return res, nil
}

// Apply generates the method for req and inserts it into the receiver.
func (e *Engine) Apply(ctx context.Context, req Request, ins Inserter) (*Result, error) {
	if req.Receiver == "" {
		return nil, fmt.Errorf("no receiver for %s: %w", req.Method, ErrUnresolvableTarget)
	}
	res, err := e.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	cp := checkpoint{ctx: ctx, model: e.model}
	if err := cp.check(); err != nil {
		return nil, err
	}
	if err := ins.InsertMethod(res.Receiver, res.Method.String()); err != nil {
		return nil, fmt.Errorf("inserting %s into %s: %w", req.Method, res.Receiver.Name, err)
	}
	log.Infof("[%s] inserted %s into %s", res.ID, res.Method.Signature(), res.Receiver.Name)
	return res, nil
}

func (e *Engine) parameters(args []Argument) []Parameter {
	params := make([]Parameter, len(args))
	used := map[string]bool{}
	for i, arg := range args {
		name := e.names.SuggestName(arg.Expr)
		if name == "" {
			name = "arg" + strconv.Itoa(i)
		}
		if used[name] {
			name += strconv.Itoa(i + 1)
		}
		for used[name] {
			name += "_"
		}
		used[name] = true
		params[i] = Parameter{Name: name, Type: e.parameterType(arg.Type)}
	}
	return params
}

func (e *Engine) parameterType(spelling string) java.TypeModel {
	if spelling == "" {
		return java.TypeModel{Name: java.ObjectClass}
	}
	t := java.ParseType(spelling)
	if t.IsPrimitive() || java.IsPrimitiveName(t.Name) {
		return t
	}
	if cls := e.model.ResolveType(t.Name); cls != nil {
		t.Name = cls.Name
	}
	return t
}

func countMatched(matches []PropertyMatch) int {
	n := 0
	for _, pm := range matches {
		if pm.Matched {
			n++
		}
	}
	return n
}
