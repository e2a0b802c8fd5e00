package adaptiveexpr

import "github.com/adaptiveexpr/adaptiveexpr/internal/value"

func init() {
	registerFunction("equals", Boolean, ValidateBinary, Apply(equalsValues, nil))
	registerFunction("not", Boolean, func(n *baseExpression) error { return ValidateUnary(n, Boolean) }, Apply(notValue, nil))
	registerFunction("and", Boolean, ValidateAtLeastOne, andEval)
	registerFunction("or", Boolean, ValidateAtLeastOne, orEval)
	registerFunction("greater", Boolean, func(n *baseExpression) error { return ValidateOrder(n, 0, Number|String, Number|String) }, Apply(greaterValues, nil))
	registerFunction("greaterOrEquals", Boolean, func(n *baseExpression) error { return ValidateOrder(n, 0, Number|String, Number|String) }, Apply(greaterOrEqualsValues, nil))
	registerFunction("less", Boolean, func(n *baseExpression) error { return ValidateOrder(n, 0, Number|String, Number|String) }, Apply(lessValues, nil))
	registerFunction("lessOrEquals", Boolean, func(n *baseExpression) error { return ValidateOrder(n, 0, Number|String, Number|String) }, Apply(lessOrEqualsValues, nil))
	registerFunction("if", Object, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 3, 3, Object) }, ifEval)
	registerFunction("exists", Boolean, func(n *baseExpression) error { return ValidateUnary(n, Object) }, existsEval)
}

func equalsValues(args []any) any {
	return Equals(args[0], args[1])
}

func notValue(args []any) any {
	return !IsLogicTrue(args[0])
}

// andEval short-circuits: a failing child is treated as false rather than
// propagated, and evaluation of later children is skipped once the result
// is already known to be false.
func andEval(node *baseExpression, state Memory, options Options) (any, error) {
	for _, c := range node.children {
		v, err := c.TryEvaluate(state, options)
		if err != nil || !IsLogicTrue(v) {
			return false, nil
		}
	}
	return true, nil
}

// orEval is and's dual: a failing child is treated as false (not a match),
// and evaluation stops as soon as a truthy child is found.
func orEval(node *baseExpression, state Memory, options Options) (any, error) {
	for _, c := range node.children {
		v, err := c.TryEvaluate(state, options)
		if err == nil && IsLogicTrue(v) {
			return true, nil
		}
	}
	return false, nil
}

// ifEval evaluates only the branch selected by the condition; the other
// branch's children (and any errors they would raise) are never touched.
func ifEval(node *baseExpression, state Memory, options Options) (any, error) {
	cond, err := node.children[0].TryEvaluate(state, options)
	if err != nil {
		cond = false
	}
	if IsLogicTrue(cond) {
		return node.children[1].TryEvaluate(state, options)
	}
	return node.children[2].TryEvaluate(state, options)
}

func existsEval(node *baseExpression, state Memory, options Options) (any, error) {
	path, residual, ok := TryAccumulatePath(node.children[0].(*baseExpression))
	if !ok {
		// Not a statically reducible path: fall back to evaluating it and
		// testing the result directly for non-null.
		v, err := residual.TryEvaluate(state, options)
		if err != nil {
			return false, nil
		}
		return v != nil, nil
	}
	return WrapGetValue(state, path, options) != nil, nil
}

// compareOrdered implements greater/less and their -OrEquals variants.
// Numeric operands compare numerically. A number paired with a non-number
// is incomparable (ok=false). Any other pair is ordered by
// internal/value.ValueOrder (nil < bool < string < list); a pair it cannot
// order, such as two maps, is also reported incomparable. sortBy uses the
// same function, so it and the comparison builtins agree on ordering.
func compareOrdered(a, b any) (int, bool) {
	if IsNumber(a) && IsNumber(b) {
		af, _ := asFloat(a)
		bf, _ := asFloat(b)
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	if IsNumber(a) || IsNumber(b) {
		// Comparison of null/number mismatches never errors; treat as
		// incomparable so the comparison builtins answer false.
		return 0, false
	}
	cmp, err := value.ValueOrder(a, b)
	if err != nil {
		return 0, false
	}
	return cmp, true
}

func greaterValues(args []any) any {
	cmp, ok := compareOrdered(args[0], args[1])
	return ok && cmp > 0
}

func greaterOrEqualsValues(args []any) any {
	cmp, ok := compareOrdered(args[0], args[1])
	return ok && cmp >= 0
}

func lessValues(args []any) any {
	cmp, ok := compareOrdered(args[0], args[1])
	return ok && cmp < 0
}

func lessOrEqualsValues(args []any) any {
	cmp, ok := compareOrdered(args[0], args[1])
	return ok && cmp <= 0
}
