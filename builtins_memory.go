package adaptiveexpr

func init() {
	registerFunction("accessor", Object, validateAccessor, accessorEval)
	registerFunction("element", Object, func(n *baseExpression) error { return ValidateBinary(n, Object) }, elementEval)
	registerFunction("setPathToValue", Object, func(n *baseExpression) error { return ValidateBinary(n, Object) }, setPathToValueEval)
}

func validateAccessor(n *baseExpression) error {
	if len(n.children) < 1 || len(n.children) > 2 {
		return newErrorf(ValidationError, "accessor", "accessor expects 1 or 2 arguments, got %d", len(n.children))
	}
	return nil
}

// accessorEval implements a path read: with one child (the identifier),
// read directly from state; with two children (identifier, parent
// expression), evaluate the parent and read the property from it. Neither
// shape errors on a missing key.
func accessorEval(node *baseExpression, state Memory, options Options) (any, error) {
	name, ok := constString(node.children[len(node.children)-1])
	if !ok {
		return nil, newErrorf(ValidationError, "accessor", "accessor's name child must be a string literal")
	}
	if len(node.children) == 1 {
		return WrapGetValue(state, name, options), nil
	}
	parent, err := node.children[0].TryEvaluate(state, options)
	if err != nil {
		return nil, err
	}
	return AccessProperty(parent, name), nil
}

// elementEval evaluates both children; an integer index selects from a
// list, a string index looks up a property, anything else is a dynamic
// type error.
func elementEval(node *baseExpression, state Memory, options Options) (any, error) {
	container, err := node.children[0].TryEvaluate(state, options)
	if err != nil {
		return nil, err
	}
	index, err := node.children[1].TryEvaluate(state, options)
	if err != nil {
		return nil, err
	}
	switch idx := index.(type) {
	case string:
		return AccessProperty(container, idx), nil
	default:
		if IsNumber(idx) && IsInteger(idx) {
			i, _ := asInt64(idx)
			return AccessIndex(container, int(i))
		}
		return nil, newErrorf(TypeErrorKind, "element", "%v is not a valid index", index)
	}
}

// setPathToValueEval accumulates child 0's path, evaluates child 1, writes
// the result into state at that path (permitting a null write), and
// returns the written value.
func setPathToValueEval(node *baseExpression, state Memory, options Options) (any, error) {
	pathNode, ok := node.children[0].(*baseExpression)
	if !ok {
		return nil, newErrorf(ValidationError, "setPathToValue", "first argument must be a path expression")
	}
	path, residual, ok := TryAccumulatePath(pathNode)
	if !ok {
		return nil, newErrorf(ValidationError, "setPathToValue", "could not resolve a static path from %s", residual.String())
	}
	value, err := node.children[1].TryEvaluate(state, options)
	if err != nil {
		return nil, err
	}
	if err := state.SetValue(path, value); err != nil {
		return nil, err
	}
	return value, nil
}
