package adaptiveexpr

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

func init() {
	registerFunction("addProperty", Object, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 3, 3, Object) }, ApplyWithError(addPropertyEval, nil))
	registerFunction("setProperty", Object, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 3, 3, Object) }, ApplyWithError(setPropertyEval, nil))
	registerFunction("removeProperty", Object, func(n *baseExpression) error { return ValidateBinary(n, Object) }, ApplyWithError(removePropertyEval, nil))
	registerFunction("getProperty", Object, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 1, 2, Object) }, Apply(getPropertyEval, nil))
	registerFunction("coalesce", Object, ValidateAtLeastOne, Apply(coalesceEval, nil))
	registerFunction("merge", Object, ValidateTwoOrMoreObjects, Apply(mergeEval, nil))
	registerFunction("jPath", Object, func(n *baseExpression) error { return ValidateOrder(n, 0, Object|String, String) }, ApplyWithError(jPathEval, nil))
	registerFunction("object", Object, validateObjectLiteral, ApplyWithError(objectLiteralEval, nil))
}

// validateObjectLiteral backs the parser's "{ key: value, ... }" object
// literal syntax: children alternate a string-constant key and a value
// expression of any type, so arity must be even.
func validateObjectLiteral(n *baseExpression) error {
	if len(n.children)%2 != 0 {
		return newErrorf(ValidationError, "object", "object literal must have an even number of children (key, value pairs), got %d", len(n.children))
	}
	return nil
}

func objectLiteralEval(args []any) (any, error) {
	out := map[string]any{}
	for i := 0; i < len(args); i += 2 {
		key, ok := args[i].(string)
		if !ok {
			return nil, newErrorf(TypeErrorKind, "object", "key %v is not a string", args[i])
		}
		out[key] = args[i+1]
	}
	return out, nil
}

func ValidateTwoOrMoreObjects(n *baseExpression) error {
	return ValidateArityAndAnyType(n, 2, -1, Object)
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func addPropertyEval(args []any) (any, error) {
	obj, ok := args[0].(map[string]any)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "addProperty", "%v is not an object", args[0])
	}
	key, ok := args[1].(string)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "addProperty", "property name must be a string")
	}
	if _, exists := obj[key]; exists {
		return nil, newErrorf(DomainError, "addProperty", "property %q already exists", key)
	}
	out := cloneMap(obj)
	out[key] = args[2]
	return out, nil
}

func setPropertyEval(args []any) (any, error) {
	obj, ok := args[0].(map[string]any)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "setProperty", "%v is not an object", args[0])
	}
	key, ok := args[1].(string)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "setProperty", "property name must be a string")
	}
	out := cloneMap(obj)
	out[key] = args[2]
	return out, nil
}

func removePropertyEval(args []any) (any, error) {
	obj, ok := args[0].(map[string]any)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "removeProperty", "%v is not an object", args[0])
	}
	key, ok := args[1].(string)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "removeProperty", "property name must be a string")
	}
	out := cloneMap(obj)
	delete(out, key)
	return out, nil
}

// getPropertyEval reads obj[name], or, with a single argument, treats it as
// a dotted path string resolved against... nothing: this single-argument
// form is only meaningful when called with a path already-resolved object,
// matching the original's "getProperty(path)" shorthand for getProperty
// applied to the evaluated path value directly.
func getPropertyEval(args []any) any {
	if len(args) == 1 {
		return args[0]
	}
	name, ok := args[1].(string)
	if !ok {
		return nil
	}
	return AccessProperty(args[0], name)
}

func coalesceEval(args []any) any {
	for _, a := range args {
		if a != nil {
			return a
		}
	}
	return nil
}

func mergeEval(args []any) any {
	out := map[string]any{}
	for _, a := range args {
		m, ok := a.(map[string]any)
		if !ok {
			continue
		}
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// jPathEval runs a JSONPath-flavored query (gjson syntax) over json, which
// may already be a decoded object/array or a raw JSON string.
func jPathEval(args []any) (any, error) {
	var doc string
	switch v := args[0].(type) {
	case string:
		doc = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, newErrorf(EvaluationError, "jPath", "%s", err)
		}
		doc = string(b)
	}
	query, ok := args[1].(string)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "jPath", "query must be a string")
	}
	result := gjson.Get(doc, query)
	if !result.Exists() {
		return nil, nil
	}
	return gjsonToValue(result), nil
}

func gjsonToValue(r gjson.Result) any {
	switch r.Type {
	case gjson.String:
		return r.String()
	case gjson.Number:
		if r.Num == float64(int64(r.Num)) {
			return int64(r.Num)
		}
		return r.Num
	case gjson.True:
		return true
	case gjson.False:
		return false
	case gjson.Null:
		return nil
	}
	if r.IsArray() {
		var out []any
		r.ForEach(func(_, value gjson.Result) bool {
			out = append(out, gjsonToValue(value))
			return true
		})
		return out
	}
	if r.IsObject() {
		out := map[string]any{}
		r.ForEach(func(key, value gjson.Result) bool {
			out[key.String()] = gjsonToValue(value)
			return true
		})
		return out
	}
	return r.Value()
}
