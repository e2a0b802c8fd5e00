package adaptiveexpr

func init() {
	registerFunction("count", Number, func(n *baseExpression) error { return ValidateUnary(n, Array|String) }, Apply(countValue, VerifyContainer))
	registerFunction("contains", Boolean, func(n *baseExpression) error { return ValidateBinary(n, Object) }, Apply(containsValues, nil))
	registerFunction("empty", Boolean, func(n *baseExpression) error { return ValidateUnary(n, Object) }, Apply(emptyValue, nil))
	registerFunction("join", String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 2, 3, Object) }, ApplyWithError(joinValues, nil))
	registerFunction("first", Object, func(n *baseExpression) error { return ValidateUnary(n, Object) }, Apply(firstValue, nil))
	registerFunction("last", Object, func(n *baseExpression) error { return ValidateUnary(n, Object) }, Apply(lastValue, nil))
	registerFunction("union", Array, ValidateAtLeastOne, Apply(unionValues, VerifyList))
	registerFunction("intersection", Array, ValidateAtLeastOne, Apply(intersectionValues, VerifyList))
	registerFunction("skip", Array, func(n *baseExpression) error { return ValidateBinary(n, Object) }, Apply(skipValues, nil))
	registerFunction("take", Array, func(n *baseExpression) error { return ValidateBinary(n, Object) }, Apply(takeValues, nil))
	registerFunction("subArray", Array, func(n *baseExpression) error { return ValidateOrder(n, Number, Array, Number) }, ApplyWithError(subArrayValues, nil))
	registerFunction("flatten", Array, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 1, 2, Object) }, Apply(flattenValues, VerifyList))
	registerFunction("unique", Array, func(n *baseExpression) error { return ValidateUnary(n, Array) }, Apply(uniqueValues, VerifyList))
	registerFunction("createArray", Array, ValidateAtLeastOne, Apply(createArrayValues, nil))
}

// asIterable returns the []any view of v for the collection builtins.
// A map yields one {"key", "value"} map per entry. Strings and other
// scalar values are not iterable and yield (nil, false).
func asIterable(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case map[string]any:
		out := make([]any, 0, len(x))
		for k, val := range x {
			out = append(out, map[string]any{"key": k, "value": val})
		}
		return out, true
	}
	return nil, false
}

func countValue(args []any) any {
	switch v := args[0].(type) {
	case []any:
		return int64(len(v))
	case string:
		return int64(len([]rune(v)))
	case map[string]any:
		return int64(len(v))
	}
	return int64(0)
}

func containsValues(args []any) any {
	haystack, needle := args[0], args[1]
	switch h := haystack.(type) {
	case string:
		s, ok := needle.(string)
		return ok && stringContains(h, s)
	case []any:
		for _, e := range h {
			if Equals(e, needle) {
				return true
			}
		}
		return false
	case map[string]any:
		key, ok := needle.(string)
		if !ok {
			return false
		}
		_, ok = h[key]
		return ok
	}
	return false
}

func stringContains(s, sub string) bool {
	return len(sub) == 0 || indexOfSubstring(s, sub) >= 0
}

func indexOfSubstring(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func emptyValue(args []any) any {
	switch v := args[0].(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

func joinValues(args []any) (any, error) {
	list, ok := args[0].([]any)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "join", "%v is not a list", args[0])
	}
	sep := asStringOrEmpty(args[1])
	lastSep := sep
	if len(args) == 3 {
		lastSep = asStringOrEmpty(args[2])
	}
	strs := make([]string, len(list))
	for i, e := range list {
		strs[i] = renderJoinElement(e)
	}
	switch len(strs) {
	case 0:
		return "", nil
	case 1:
		return strs[0], nil
	default:
		out := strs[0]
		for i := 1; i < len(strs)-1; i++ {
			out += sep + strs[i]
		}
		out += lastSep + strs[len(strs)-1]
		return out, nil
	}
}

func renderJoinElement(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return FormatInterpolatedValue(v)
}

// firstValue returns the first element for lists/strings, and nil (not an
// error) for any non-iterable scalar.
func firstValue(args []any) any {
	switch v := args[0].(type) {
	case []any:
		if len(v) == 0 {
			return nil
		}
		return v[0]
	case string:
		r := []rune(v)
		if len(r) == 0 {
			return nil
		}
		return string(r[0])
	}
	return nil
}

func lastValue(args []any) any {
	switch v := args[0].(type) {
	case []any:
		if len(v) == 0 {
			return nil
		}
		return v[len(v)-1]
	case string:
		r := []rune(v)
		if len(r) == 0 {
			return nil
		}
		return string(r[len(r)-1])
	}
	return nil
}

func unionValues(args []any) any {
	seen := make([]any, 0)
	for _, arg := range args {
		list, _ := arg.([]any)
		for _, e := range list {
			if !containsEqual(seen, e) {
				seen = append(seen, e)
			}
		}
	}
	return seen
}

func intersectionValues(args []any) any {
	first, _ := args[0].([]any)
	result := make([]any, 0, len(first))
	for _, e := range first {
		if !containsEqual(result, e) {
			result = append(result, e)
		}
	}
	for _, arg := range args[1:] {
		other, _ := arg.([]any)
		filtered := make([]any, 0, len(result))
		for _, e := range result {
			if containsEqual(other, e) {
				filtered = append(filtered, e)
			}
		}
		result = filtered
	}
	return result
}

func containsEqual(list []any, v any) bool {
	for _, e := range list {
		if Equals(e, v) {
			return true
		}
	}
	return false
}

func skipValues(args []any) any {
	list, ok := args[0].([]any)
	if !ok {
		return []any{}
	}
	n, _ := asInt64(args[1])
	if n < 0 {
		n = 0
	}
	if n >= int64(len(list)) {
		return []any{}
	}
	return append([]any{}, list[n:]...)
}

func takeValues(args []any) any {
	list, ok := args[0].([]any)
	if !ok {
		return []any{}
	}
	n, _ := asInt64(args[1])
	if n < 0 {
		n = 0
	}
	if n > int64(len(list)) {
		n = int64(len(list))
	}
	return append([]any{}, list[:n]...)
}

func subArrayValues(args []any) (any, error) {
	list, ok := args[0].([]any)
	if !ok {
		return nil, newErrorf(TypeErrorKind, "subArray", "%v is not a list", args[0])
	}
	start, _ := asInt64(args[1])
	end := int64(len(list))
	if len(args) == 3 {
		end, _ = asInt64(args[2])
	}
	if start < 0 || start > int64(len(list)) || end < start || end > int64(len(list)) {
		return nil, newErrorf(ReferenceError, "subArray", "range [%d,%d) out of bounds for length %d", start, end, len(list))
	}
	return append([]any{}, list[start:end]...), nil
}

// flattenValues flattens nested lists only, never strings, to the given
// depth (default unbounded).
func flattenValues(args []any) any {
	list, _ := args[0].([]any)
	depth := -1
	if len(args) == 2 {
		d, _ := asInt64(args[1])
		depth = int(d)
	}
	return flattenTo(list, depth)
}

func flattenTo(list []any, depth int) []any {
	out := make([]any, 0, len(list))
	for _, e := range list {
		if inner, ok := e.([]any); ok && depth != 0 {
			out = append(out, flattenTo(inner, depth-1)...)
		} else {
			out = append(out, e)
		}
	}
	return out
}

func uniqueValues(args []any) any {
	list, _ := args[0].([]any)
	out := make([]any, 0, len(list))
	for _, e := range list {
		if !containsEqual(out, e) {
			out = append(out, e)
		}
	}
	return out
}

func createArrayValues(args []any) any {
	return append([]any{}, args...)
}
