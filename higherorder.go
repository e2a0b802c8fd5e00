package adaptiveexpr

import "sort"

// Higher-order forms share one evaluation shape: evaluate child 0 to an
// iterable, resolve child 1 to an iterator name (either a bound identifier
// checked by ValidateForeach, or a "(name) => body" lambda node), then for
// each element push a one-variable SimpleObjectMemory frame onto a
// StackedMemory, evaluate the body, and pop the frame — strictly, on every
// exit path including an error return.

func init() {
	registerFunction("foreach", Array, ValidateForeach, foreachEval)
	registerFunction("select", Array, ValidateForeach, foreachEval)
	registerFunction("where", Array, ValidateForeach, whereEval)
	registerFunction("sortBy", Array, validateSortBy, sortByEval(false))
	registerFunction("sortByDescending", Array, validateSortBy, sortByEval(true))
	registerFunction("indicesAndValues", Array, func(n *baseExpression) error { return ValidateUnary(n, Array) }, indicesAndValuesEval)
}

func validateSortBy(n *baseExpression) error {
	return ValidateArityAndAnyType(n, 1, 2, Object)
}

// iteratorName resolves child 1 of a higher-order node to the name bound
// per element, and the body expression evaluated against it.
func iteratorName(nameNode Expression) (string, Expression) {
	if bc, ok := nameNode.(*baseExpression); ok {
		if bc.exprType == "lambda" {
			return bc.lambdaParam, bc.children[0]
		}
		if name, ok := constString(bc.children[len(bc.children)-1]); ok {
			return name, nil
		}
	}
	return "", nil
}

// iteratorBody resolves a foreach/select/where node to the element name
// bound per iteration and the body expression evaluated against it,
// covering both the 3-child bare-name form (iterable, name, body) and the
// 2-child lambda form (iterable, (name) => body).
func iteratorBody(node *baseExpression) (string, Expression) {
	name, lambdaBody := iteratorName(node.children[1])
	if len(node.children) == 2 {
		return name, lambdaBody
	}
	return name, node.children[2]
}

func foreachEval(node *baseExpression, state Memory, options Options) (any, error) {
	items, err := evalIterable(node.children[0], state, options)
	if err != nil {
		return nil, err
	}
	name, body := iteratorBody(node)

	stacked := asStacked(state)
	results := make([]any, 0, len(items))
	for _, item := range items {
		frame := NewSimpleObjectMemory(map[string]any{name: item})
		stacked.Push(frame)
		v, err := body.TryEvaluate(stacked, options)
		stacked.Pop()
		if err != nil {
			return nil, err
		}
		results = append(results, v)
	}
	return results, nil
}

func whereEval(node *baseExpression, state Memory, options Options) (any, error) {
	items, err := evalIterable(node.children[0], state, options)
	if err != nil {
		return nil, err
	}
	name, body := iteratorBody(node)

	stacked := asStacked(state)
	results := make([]any, 0, len(items))
	for _, item := range items {
		frame := NewSimpleObjectMemory(map[string]any{name: item})
		stacked.Push(frame)
		v, err := body.TryEvaluate(stacked, options)
		stacked.Pop()
		if err != nil {
			return nil, err
		}
		if IsLogicTrue(v) {
			results = append(results, item)
		}
	}
	return results, nil
}

func sortByEval(descending bool) evalFunc {
	return func(node *baseExpression, state Memory, options Options) (any, error) {
		v, err := node.children[0].TryEvaluate(state, options)
		if err != nil {
			return nil, err
		}
		items, ok := asIterable(v)
		if !ok {
			return nil, newErrorf(TypeErrorKind, node.exprType, "%v is not a list", v)
		}
		items = append([]any{}, items...)

		var property string
		if len(node.children) == 2 {
			p, err := node.children[1].TryEvaluate(state, options)
			if err != nil {
				return nil, err
			}
			property, _ = p.(string)
		}

		keyOf := func(item any) any {
			if property == "" {
				return item
			}
			return AccessProperty(item, property)
		}

		sort.SliceStable(items, func(i, j int) bool {
			ki, kj := keyOf(items[i]), keyOf(items[j])
			cmp, ok := compareOrdered(ki, kj)
			if !ok {
				// Fall back to rendering both sides as text: this is the
				// documented stable total order for otherwise-incomparable
				// values (see the Open Questions note in DESIGN.md).
				si, sj := FormatInterpolatedValue(ki), FormatInterpolatedValue(kj)
				if descending {
					return si > sj
				}
				return si < sj
			}
			if descending {
				return cmp > 0
			}
			return cmp < 0
		})
		return items, nil
	}
}

func indicesAndValuesEval(node *baseExpression, state Memory, options Options) (any, error) {
	v, err := node.children[0].TryEvaluate(state, options)
	if err != nil {
		return nil, err
	}
	list, ok := v.([]any)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "indicesAndValues", "%v is not a list", v)
	}
	out := make([]any, len(list))
	for i, e := range list {
		out[i] = map[string]any{"index": int64(i), "value": e}
	}
	return out, nil
}

// evalIterable evaluates expr and resolves the result to an iterable
// []any, treating maps as {key, value} pairs. Strings are not iterable
// here.
func evalIterable(expr Expression, state Memory, options Options) ([]any, error) {
	v, err := expr.TryEvaluate(state, options)
	if err != nil {
		return nil, err
	}
	items, ok := asIterable(v)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "", "%v is not iterable", v)
	}
	return items, nil
}

// asStacked adapts state to a *StackedMemory for push/pop frame binding,
// wrapping it fresh if the caller didn't already supply one. A nested
// higher-order call reuses the enclosing stack, so its body sees its own
// frame on top of the outer iterator's frame; each call pops what it
// pushed.
func asStacked(state Memory) *StackedMemory {
	if sm, ok := state.(*StackedMemory); ok {
		return sm
	}
	return WrapMemory(state)
}
