package adaptiveexpr

import (
	"math"
	"math/rand/v2"
	"strconv"
)

func init() {
	registerFunction("add", Number|String, func(n *baseExpression) error { return ValidateArityAndAnyType(n, 2, -1, Number|String) }, ApplySequence(addValues, nil))
	registerFunction("sub", Number, ValidateTwoOrMoreNumbers, ApplySequence(arith(func(a, b float64) float64 { return a - b }), VerifyNumber))
	registerFunction("mul", Number, ValidateTwoOrMoreNumbers, ApplySequence(arith(func(a, b float64) float64 { return a * b }), VerifyNumber))
	registerFunction("div", Number, ValidateTwoOrMoreNumbers, ApplySequenceWithError(divValues, VerifyNumber))
	registerFunction("min", Number, ValidateTwoOrMoreNumbers, ApplySequence(arith(math.Min), VerifyNumber))
	registerFunction("max", Number, ValidateTwoOrMoreNumbers, ApplySequence(arith(math.Max), VerifyNumber))
	registerFunction("mod", Number, ValidateBinaryNumber, ApplyWithError(modValues, VerifyNumber))
	registerFunction("exp", Number, ValidateBinaryNumber, Apply(expValues, VerifyNumber))
	registerFunction("average", Number, func(n *baseExpression) error { return ValidateUnary(n, Array) }, Apply(averageValues, VerifyNumericList))
	registerFunction("sum", Number, func(n *baseExpression) error { return ValidateUnary(n, Array) }, Apply(sumValues, VerifyNumericList))
	registerFunction("range", Array, ValidateBinaryNumber, ApplyWithError(rangeValues, VerifyInteger))
	registerFunction("floor", Number, func(n *baseExpression) error { return ValidateUnary(n, Number) }, Apply(floorValue, VerifyNumber))
	registerFunction("ceiling", Number, func(n *baseExpression) error { return ValidateUnary(n, Number) }, Apply(ceilingValue, VerifyNumber))
	registerFunction("round", Number, ValidateUnaryOrBinaryNumber, ApplyWithError(roundValues, VerifyNumber))
	registerFunction("rand", Number, ValidateBinaryNumber, ApplyWithError(randValues, VerifyInteger))
	registerFunction("formatNumber", String, func(n *baseExpression) error {
		return ValidateOrder(n, String, Number, Number)
	}, ApplyWithError(formatNumberValues, nil))
}

func arith(op func(a, b float64) float64) seqFunc {
	return func(a, b any) any {
		af, _ := asFloat(a)
		bf, _ := asFloat(b)
		return normalizeNumeric(op(af, bf), a, b)
	}
}

// normalizeNumeric returns an int64 when both inputs were integral and the
// result is a whole number, matching the shared integer/float numeric
// domain's preference for the narrowest representation.
func normalizeNumeric(result float64, a, b any) any {
	if IsInteger(a) && IsInteger(b) && result == math.Trunc(result) {
		return int64(result)
	}
	return result
}

func addValues(a, b any) any {
	_, aIsStr := a.(string)
	_, bIsStr := b.(string)
	aOK := aIsStr || a == nil
	bOK := bIsStr || b == nil
	if aOK && bOK && (aIsStr || bIsStr) {
		as, _ := a.(string)
		bs, _ := b.(string)
		return as + bs
	}
	af, _ := asFloat(a)
	bf, _ := asFloat(b)
	return normalizeNumeric(af+bf, a, b)
}

func divValues(a, b any) (any, error) {
	bf, _ := asFloat(b)
	if bf == 0 {
		return nil, newErrorf(DomainError, "div", "division by zero")
	}
	af, _ := asFloat(a)
	return normalizeNumeric(af/bf, a, b), nil
}

func modValues(args []any) (any, error) {
	a, b := args[0], args[1]
	if !IsInteger(a) || !IsInteger(b) {
		return nil, newErrorf(TypeErrorKind, "mod", "mod requires integer operands")
	}
	bi, _ := asInt64(b)
	if bi == 0 {
		return nil, newErrorf(DomainError, "mod", "division by zero")
	}
	ai, _ := asInt64(a)
	return ai % bi, nil
}

func expValues(args []any) any {
	base, _ := asFloat(args[0])
	power, _ := asFloat(args[1])
	return normalizeNumeric(math.Pow(base, power), args[0], args[1])
}

func averageValues(args []any) any {
	list := args[0].([]any)
	if len(list) == 0 {
		return 0.0
	}
	var sum float64
	for _, v := range list {
		f, _ := asFloat(v)
		sum += f
	}
	return sum / float64(len(list))
}

func sumValues(args []any) any {
	list := args[0].([]any)
	var sum float64
	allInt := true
	for _, v := range list {
		f, _ := asFloat(v)
		sum += f
		if !IsInteger(v) {
			allInt = false
		}
	}
	if allInt && sum == math.Trunc(sum) {
		return int64(sum)
	}
	return sum
}

func rangeValues(args []any) (any, error) {
	start, _ := asInt64(args[0])
	count, _ := asInt64(args[1])
	if count <= 0 {
		return nil, newErrorf(DomainError, "range", "count must be positive")
	}
	out := make([]any, count)
	for i := range out {
		out[i] = start + int64(i)
	}
	return out, nil
}

func floorValue(args []any) any {
	f, _ := asFloat(args[0])
	return int64(math.Floor(f))
}

func ceilingValue(args []any) any {
	f, _ := asFloat(args[0])
	return int64(math.Ceil(f))
}

// roundValues implements round(x, digits=0) using half-away-from-zero
// rounding, not banker's rounding: 0.5 rounds to 1, -0.5 rounds to -1.
func roundValues(args []any) (any, error) {
	f, _ := asFloat(args[0])
	digits := 0
	if len(args) == 2 {
		d, ok := asInt64(args[1])
		if !ok {
			return nil, newErrorf(ValidationError, "round", "digits must be an integer")
		}
		digits = int(d)
	}
	scale := math.Pow(10, float64(digits))
	scaled := f * scale
	var rounded float64
	if scaled >= 0 {
		rounded = math.Floor(scaled + 0.5)
	} else {
		rounded = math.Ceil(scaled - 0.5)
	}
	result := rounded / scale
	if digits <= 0 {
		return int64(result), nil
	}
	return result, nil
}

func randValues(args []any) (any, error) {
	lo, _ := asInt64(args[0])
	hi, _ := asInt64(args[1])
	if lo >= hi {
		return nil, newErrorf(DomainError, "rand", "lower bound %d must be less than upper bound %d", lo, hi)
	}
	return lo + rand.Int64N(hi-lo), nil
}

func formatNumberValues(args []any) (any, error) {
	f, _ := asFloat(args[0])
	digits, _ := asInt64(args[1])
	culture := "en-US"
	if len(args) == 3 {
		if s, ok := args[2].(string); ok {
			culture = s
		}
	}
	// Only invariant (en-US-equivalent) formatting is implemented; other
	// cultures fall back to the same fixed-decimal rendering.
	_ = culture
	return strconv.FormatFloat(f, 'f', int(digits), 64), nil
}
