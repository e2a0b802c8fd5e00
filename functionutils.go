package adaptiveexpr

// This file implements the argument-validation and child-evaluation
// combinators shared by every builtin in the builtins_*.go files: static
// arity/type validators (run once at bind time), dynamic verifiers (run
// once per argument at call time), and the apply/applyWithError/
// applySequence family that turns a pure Go function into an evalFunc.

// ---- Validators (static, bind-time) ----

// ValidateArityAndAnyType checks that node has between minArity and
// maxArity children (maxArity < 0 means unbounded), and, if declaredTypes
// excludes Object, that every child's declared ReturnType overlaps
// declaredTypes. A mismatch is a ValidationError.
func ValidateArityAndAnyType(node *baseExpression, minArity, maxArity int, declaredTypes ReturnType) error {
	n := len(node.children)
	if n < minArity || (maxArity >= 0 && n > maxArity) {
		return newErrorf(ValidationError, node.exprType,
			"%s expects between %d and %d arguments, got %d", node.exprType, minArity, maxArity, n)
	}
	if declaredTypes&Object != 0 {
		return nil
	}
	for _, c := range node.children {
		if !c.ReturnType().Overlaps(declaredTypes) {
			return newErrorf(ValidationError, node.exprType,
				"%s: argument %s has type %s, expected %s", node.exprType, c.String(), c.ReturnType(), declaredTypes)
		}
	}
	return nil
}

// ValidateUnary requires exactly one child of the given type (Object by
// default, meaning any type).
func ValidateUnary(node *baseExpression, declaredTypes ReturnType) error {
	return ValidateArityAndAnyType(node, 1, 1, declaredTypes)
}

// ValidateBinary requires exactly two children.
func ValidateBinary(node *baseExpression, declaredTypes ReturnType) error {
	return ValidateArityAndAnyType(node, 2, 2, declaredTypes)
}

// ValidateBinaryNumber requires exactly two numeric children.
func ValidateBinaryNumber(node *baseExpression) error {
	return ValidateArityAndAnyType(node, 2, 2, Number)
}

// ValidateUnaryString requires exactly one string child.
func ValidateUnaryString(node *baseExpression) error {
	return ValidateArityAndAnyType(node, 1, 1, String)
}

// ValidateAtLeastOne requires one or more children of any type.
func ValidateAtLeastOne(node *baseExpression) error {
	return ValidateArityAndAnyType(node, 1, -1, Object)
}

// ValidateTwoOrMoreNumbers requires two or more numeric children, used by
// the variadic arithmetic family.
func ValidateTwoOrMoreNumbers(node *baseExpression) error {
	return ValidateArityAndAnyType(node, 2, -1, Number)
}

// ValidateUnaryOrBinaryNumber requires one or two numeric children, used
// by round(x, digits?).
func ValidateUnaryOrBinaryNumber(node *baseExpression) error {
	return ValidateArityAndAnyType(node, 1, 2, Number)
}

// ValidateOrder enforces a positional type signature: each entry in
// required must match the corresponding child's declared type, and any
// further children beyond len(required) must each match optional.
func ValidateOrder(node *baseExpression, optional ReturnType, required ...ReturnType) error {
	n := len(node.children)
	if n < len(required) {
		return newErrorf(ValidationError, node.exprType,
			"%s expects at least %d arguments, got %d", node.exprType, len(required), n)
	}
	for i, want := range required {
		if !node.children[i].ReturnType().Overlaps(want) {
			return newErrorf(ValidationError, node.exprType,
				"%s: argument %d has type %s, expected %s", node.exprType, i, node.children[i].ReturnType(), want)
		}
	}
	for i := len(required); i < n; i++ {
		if optional != 0 && !node.children[i].ReturnType().Overlaps(optional) {
			return newErrorf(ValidationError, node.exprType,
				"%s: argument %d has type %s, expected %s", node.exprType, i, node.children[i].ReturnType(), optional)
		}
	}
	return nil
}

// ValidateForeach requires either 2 children (iterable, lambda) or 3
// children (iterable, bound name, body). The first child must always be
// an accessor node whose sole child is an identifier (a bound path, not a
// computed one) — the iterable expression. In the 2-child form the second
// child must be a "(name) => body" lambda node.
func ValidateForeach(node *baseExpression) error {
	n := len(node.children)
	if n != 2 && n != 3 {
		return newErrorf(ValidationError, node.exprType, "%s expects 2 or 3 arguments, got %d", node.exprType, n)
	}
	first, ok := node.children[0].(*baseExpression)
	if !ok || first.exprType != "accessor" || len(first.children) != 1 {
		return newErrorf(ValidationError, node.exprType, "%s: first argument must be a simple path", node.exprType)
	}
	if n == 2 {
		second, ok := node.children[1].(*baseExpression)
		if !ok || second.exprType != "lambda" {
			return newErrorf(ValidationError, node.exprType, "%s: second argument must be a (name) => body lambda when called with 2 arguments", node.exprType)
		}
	}
	return nil
}

// ---- Verifiers (dynamic, per-argument) ----

// verifier checks one evaluated argument value, returning a non-nil error
// on rejection. Verifiers never see bool as a number.
type verifier func(v any) error

func VerifyString(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(string); !ok {
		return newErrorf(TypeErrorKind, "", "%v is not a string", v)
	}
	return nil
}

func VerifyNumber(v any) error {
	if v == nil {
		return nil
	}
	if !IsNumber(v) {
		return newErrorf(TypeErrorKind, "", "%v is not a number", v)
	}
	return nil
}

func VerifyInteger(v any) error {
	if v == nil {
		return nil
	}
	if !IsNumber(v) || !IsInteger(v) {
		return newErrorf(TypeErrorKind, "", "%v is not an integer", v)
	}
	return nil
}

func VerifyList(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.([]any); !ok {
		return newErrorf(TypeErrorKind, "", "%v is not a list", v)
	}
	return nil
}

func VerifyNumericList(v any) error {
	list, ok := v.([]any)
	if !ok {
		return newErrorf(TypeErrorKind, "", "%v is not a list", v)
	}
	for _, e := range list {
		if !IsNumber(e) {
			return newErrorf(TypeErrorKind, "", "%v is not a number", e)
		}
	}
	return nil
}

func VerifyNumericListOrNumber(v any) error {
	if IsNumber(v) {
		return nil
	}
	return VerifyNumericList(v)
}

func VerifyNotNull(v any) error {
	if v == nil {
		return newErrorf(TypeErrorKind, "", "value is null")
	}
	return nil
}

func VerifyContainer(v any) error {
	switch v.(type) {
	case []any, map[string]any, string:
		return nil
	case nil:
		return nil
	default:
		return newErrorf(TypeErrorKind, "", "%v is not a container", v)
	}
}

func VerifyNumberOrString(v any) error {
	if v == nil {
		return nil
	}
	if IsNumber(v) {
		return nil
	}
	if _, ok := v.(string); ok {
		return nil
	}
	return newErrorf(TypeErrorKind, "", "%v is neither a number nor a string", v)
}

// ---- Child evaluation ----

// EvaluateChildren evaluates node's children left to right, short-circuiting
// on the first error. If verify is non-nil it is applied to each produced
// value; a verifier failure is treated the same as an evaluation error.
func EvaluateChildren(node *baseExpression, state Memory, options Options, verify verifier) ([]any, error) {
	args := make([]any, 0, len(node.children))
	for _, c := range node.children {
		v, err := c.TryEvaluate(state, options)
		if err != nil {
			return args, err
		}
		if verify != nil {
			if verr := verify(v); verr != nil {
				return args, verr
			}
		}
		args = append(args, v)
	}
	return args, nil
}

// ---- Apply combinators ----

// pureFunc is a function over the fully evaluated argument list, returning
// either a value or panicking with an error value; Apply recovers any
// panic and coerces it to an EvaluationError.
type pureFunc func(args []any) any

// errFunc is pureFunc's error-aware sibling.
type errFunc func(args []any) (any, error)

// seqFunc folds two values at a time: seed = fn(args[0], args[1]), then
// seed = fn(seed, args[i]) for i = 2..n-1.
type seqFunc func(a, b any) any

// seqErrFunc is seqFunc's error-aware sibling.
type seqErrFunc func(a, b any) (any, error)

// Apply evaluates node's children, verifies each with verify (if given),
// and calls fn with the resulting argument list. Any panic raised inside
// fn is recovered and coerced to an EvaluationError.
func Apply(fn pureFunc, verify verifier) evalFunc {
	return func(node *baseExpression, state Memory, options Options) (result any, err error) {
		args, err := EvaluateChildren(node, state, options, verify)
		if err != nil {
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, coercePanic(node.exprType, r)
			}
		}()
		return fn(args), nil
	}
}

// ApplyWithError is Apply for functions that return their own (value,
// error) pair instead of panicking.
func ApplyWithError(fn errFunc, verify verifier) evalFunc {
	return func(node *baseExpression, state Memory, options Options) (result any, err error) {
		args, err := EvaluateChildren(node, state, options, verify)
		if err != nil {
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, coercePanic(node.exprType, r)
			}
		}()
		return fn(args)
	}
}

// ApplySequence left-folds fn over the evaluated argument list:
// fn(args[0], args[1]), then fn(that, args[2]), and so on. Used by
// variadic arithmetic so add(a,b,c,d) = ((a+b)+c)+d.
func ApplySequence(fn seqFunc, verify verifier) evalFunc {
	return func(node *baseExpression, state Memory, options Options) (result any, err error) {
		args, err := EvaluateChildren(node, state, options, verify)
		if err != nil {
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, coercePanic(node.exprType, r)
			}
		}()
		acc := fn(args[0], args[1])
		for i := 2; i < len(args); i++ {
			acc = fn(acc, args[i])
		}
		return acc, nil
	}
}

// ApplySequenceWithError is ApplySequence for fold steps that return their
// own error, terminating the fold early on the first one.
func ApplySequenceWithError(fn seqErrFunc, verify verifier) evalFunc {
	return func(node *baseExpression, state Memory, options Options) (result any, err error) {
		args, err := EvaluateChildren(node, state, options, verify)
		if err != nil {
			return nil, err
		}
		defer func() {
			if r := recover(); r != nil {
				result, err = nil, coercePanic(node.exprType, r)
			}
		}()
		acc, err := fn(args[0], args[1])
		if err != nil {
			return nil, err
		}
		for i := 2; i < len(args); i++ {
			acc, err = fn(acc, args[i])
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	}
}

func coercePanic(exprType string, r any) error {
	if e, ok := r.(error); ok {
		return newError(EvaluationError, exprType, e)
	}
	return newErrorf(EvaluationError, exprType, "%v", r)
}
