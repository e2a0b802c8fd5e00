package adaptiveexpr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/adaptiveexpr/adaptiveexpr/internal/trace"
)

// Options carries per-evaluation configuration: an optional fallback for
// null path reads, and locale/timezone hints consumed by datetime
// formatters.
type Options struct {
	// NullSubstitution, when non-nil, is invoked by WrapGetValue whenever a
	// path resolves to null, and its result is returned in place of null.
	NullSubstitution func(path string) any
	// Locale is a BCP-47-ish tag carried with the options. No builtin in
	// this package reads it; culture-aware formatting is not applied.
	Locale string
	// Timezone is carried with the options. No builtin in this package
	// reads it; the datetime builtins do not consult it.
	Timezone *time.Location
}

// Evaluator is the stateless dispatcher that owns evaluation-wide
// configuration (currently just a logger) but no mutable state beyond it;
// all evaluation state lives in the Memory/StackedMemory passed per call.
type Evaluator struct {
	logger *slog.Logger
}

// EvalOption configures an Evaluator.
type EvalOption func(*Evaluator)

// WithLogger attaches a structured logger to the Evaluator. A nil logger
// (the zero value) disables all trace output.
func WithLogger(logger *slog.Logger) EvalOption {
	return func(e *Evaluator) { e.logger = logger }
}

// NewEvaluator constructs an Evaluator with the given options applied.
func NewEvaluator(opts ...EvalOption) *Evaluator {
	e := &Evaluator{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate runs expr against state with the given options, emitting a debug
// trace span around the call.
func (e *Evaluator) Evaluate(ctx context.Context, expr Expression, state Memory, options Options) (any, error) {
	op := trace.Begin(ctx, e.logger, "adaptiveexpr.eval.expr", slog.String("expr", expr.String()))
	value, err := expr.TryEvaluate(state, options)
	op.End(err)
	return value, err
}

// Expression is one AST node: a function identifier, its ordered children,
// a statically declared return type, and a bound evaluator. Children is
// immutable after construction; ReturnType is fixed at bind time and used
// only for static validation, never recomputed from the evaluated value.
type Expression interface {
	// ExprType is the function identifier this node was bound to, e.g.
	// "add", "accessor", "element", "foreach".
	ExprType() string
	// Children returns this node's operands, in evaluation order.
	Children() []Expression
	// ReturnType is the declared result category, a ReturnType bit set.
	ReturnType() ReturnType
	// TryEvaluate produces exactly one of (value, nil) or (nil, error).
	TryEvaluate(state Memory, options Options) (any, error)
	// References returns the set of memory paths this expression (and its
	// children) may read, derived structurally from accessor/element
	// chains. Dynamic indices are reported as the residual prefix path
	// only; the dynamic suffix is not included.
	References() map[string]struct{}
	// String renders the expression back to source-like text, used for
	// error messages and trace spans.
	String() string
}

// evalFunc is the raw-shaped evaluator: it receives the node itself, plus
// state and options, and is responsible for evaluating its own children.
// Short-circuiting forms, memory access, and higher-order forms all use
// this shape.
type evalFunc func(node *baseExpression, state Memory, options Options) (any, error)

// validatorFunc performs static, bind-time argument checks, returning a
// non-nil *EvalError (kind ValidationError) if the node is malformed.
type validatorFunc func(node *baseExpression) error

// baseExpression is the concrete type backing every built node.
type baseExpression struct {
	exprType   string
	children   []Expression
	returnType ReturnType
	eval       evalFunc
	// value holds the literal for Constant nodes; eval is nil in that case.
	value    any
	isConst  bool
	rendered string
	// lambdaParam holds the bound name for a "lambda" node, e.g. the x in
	// (x) => upper(x). Empty for every other exprType.
	lambdaParam string
}

func (n *baseExpression) ExprType() string        { return n.exprType }
func (n *baseExpression) Children() []Expression   { return n.children }
func (n *baseExpression) ReturnType() ReturnType   { return n.returnType }

func (n *baseExpression) TryEvaluate(state Memory, options Options) (any, error) {
	if n.isConst {
		return n.value, nil
	}
	return n.eval(n, state, options)
}

func (n *baseExpression) References() map[string]struct{} {
	refs := make(map[string]struct{})
	n.collectReferences(refs)
	return refs
}

func (n *baseExpression) collectReferences(refs map[string]struct{}) {
	switch n.exprType {
	case "accessor", "element":
		if path, _, ok := TryAccumulatePath(n); ok {
			refs[path] = struct{}{}
			return
		}
	}
	for _, c := range n.children {
		if bc, ok := c.(*baseExpression); ok {
			bc.collectReferences(refs)
		}
	}
}

func (n *baseExpression) String() string {
	if n.rendered != "" {
		return n.rendered
	}
	if n.isConst {
		return fmt.Sprintf("%v", n.value)
	}
	parts := make([]string, len(n.children))
	for i, c := range n.children {
		parts[i] = c.String()
	}
	return n.exprType + "(" + strings.Join(parts, ", ") + ")"
}

// NewExpression builds a node bound to a registered function's raw
// evaluator, declared return type, and children. name is used only for
// ExprType/String rendering.
func NewExpression(name string, returnType ReturnType, eval evalFunc, children ...Expression) Expression {
	return &baseExpression{exprType: name, returnType: returnType, eval: eval, children: children}
}

// MakeExpression looks up name in the function registry and binds a new
// node to its registered evaluator and declared return type, running the
// registered validator immediately (bind-time validation). Returns a
// *EvalError of kind ValidationError if name is unknown or the validator
// rejects the children.
func MakeExpression(name string, children ...Expression) (Expression, error) {
	entry, ok := Lookup(name)
	if !ok {
		return nil, newErrorf(ValidationError, name, "%q is not a recognized function", name)
	}
	node := &baseExpression{exprType: name, returnType: entry.ReturnType, eval: entry.Eval, children: children}
	if entry.Validate != nil {
		if err := entry.Validate(node); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// NewLambda builds a "(param) => body" node used as the second argument to
// foreach/select/where in place of a bare iterator name. sortBy and
// sortByDescending evaluate their second argument as a property name and
// do not accept a lambda there.
func NewLambda(param string, body Expression) Expression {
	return &baseExpression{exprType: "lambda", lambdaParam: param, children: []Expression{body}, returnType: Object}
}

// NewConstant builds a literal node wrapping a fixed value. Its ReturnType
// is inferred from the Go type of value.
func NewConstant(value any) Expression {
	return &baseExpression{exprType: "constant", isConst: true, value: value, returnType: returnTypeOf(value)}
}

func returnTypeOf(v any) ReturnType {
	switch v.(type) {
	case nil:
		return Object
	case bool:
		return Boolean
	case string:
		return String
	case []any:
		return Array
	case map[string]any:
		return Object
	}
	if IsNumber(v) {
		return Number
	}
	return Object
}
