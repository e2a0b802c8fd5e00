package adaptiveexpr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArityAndAnyTypeArity(t *testing.T) {
	node := &baseExpression{exprType: "test", children: []Expression{NewConstant(int64(1))}}
	err := ValidateArityAndAnyType(node, 2, 3, Object)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expects between 2 and 3")
}

func TestValidateArityAndAnyTypeRejectsWrongType(t *testing.T) {
	node := &baseExpression{exprType: "test", children: []Expression{NewConstant("x")}}
	err := ValidateArityAndAnyType(node, 1, 1, Number)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected Number")
}

func TestValidateOrderPositionalAndOptional(t *testing.T) {
	node := &baseExpression{exprType: "substring", children: []Expression{
		NewConstant("s"), NewConstant(int64(1)), NewConstant(int64(2)),
	}}
	err := ValidateOrder(node, Number, String, Number)
	assert.NoError(t, err)

	bad := &baseExpression{exprType: "substring", children: []Expression{
		NewConstant(int64(1)), NewConstant(int64(1)),
	}}
	err = ValidateOrder(bad, Number, String, Number)
	assert.Error(t, err)
}

func TestValidateForeachRequiresSimplePathFirstArgument(t *testing.T) {
	path, err := MakeExpression("accessor", NewConstant("items"))
	require.NoError(t, err)
	lambda := NewLambda("x", NewConstant(true))
	node := &baseExpression{exprType: "foreach", children: []Expression{path, lambda, NewConstant(true)}}
	assert.NoError(t, ValidateForeach(node))

	computed, err := MakeExpression("concat", NewConstant("a"), NewConstant("b"))
	require.NoError(t, err)
	bad := &baseExpression{exprType: "foreach", children: []Expression{computed, lambda, NewConstant(true)}}
	assert.Error(t, ValidateForeach(bad))
}

func TestVerifiers(t *testing.T) {
	assert.NoError(t, VerifyString(nil))
	assert.NoError(t, VerifyString("x"))
	assert.Error(t, VerifyString(int64(1)))

	assert.NoError(t, VerifyNumber(int64(1)))
	assert.Error(t, VerifyNumber(true))

	assert.NoError(t, VerifyInteger(int64(1)))
	assert.Error(t, VerifyInteger(1.5))

	assert.NoError(t, VerifyList([]any{1}))
	assert.Error(t, VerifyList("not a list"))

	assert.NoError(t, VerifyNumericList([]any{int64(1), 2.5}))
	assert.Error(t, VerifyNumericList([]any{"x"}))

	assert.NoError(t, VerifyNumericListOrNumber(int64(1)))
	assert.NoError(t, VerifyNumericListOrNumber([]any{int64(1)}))

	assert.Error(t, VerifyNotNull(nil))
	assert.NoError(t, VerifyNotNull(int64(1)))

	assert.NoError(t, VerifyContainer([]any{1}))
	assert.NoError(t, VerifyContainer("s"))
	assert.Error(t, VerifyContainer(int64(1)))

	assert.NoError(t, VerifyNumberOrString(int64(1)))
	assert.NoError(t, VerifyNumberOrString("x"))
	assert.Error(t, VerifyNumberOrString(true))
}

func TestEvaluateChildrenShortCircuitsOnError(t *testing.T) {
	failing, err := MakeExpression("div", NewConstant(int64(1)), NewConstant(int64(0)))
	require.NoError(t, err)
	node := &baseExpression{exprType: "test", children: []Expression{NewConstant(int64(1)), failing}}
	_, err = EvaluateChildren(node, NewSimpleObjectMemory(nil), Options{}, nil)
	assert.Error(t, err)
}

func TestEvaluateChildrenAppliesVerifier(t *testing.T) {
	node := &baseExpression{exprType: "test", children: []Expression{NewConstant(int64(1))}}
	_, err := EvaluateChildren(node, NewSimpleObjectMemory(nil), Options{}, VerifyString)
	assert.Error(t, err)
}

func TestApplyRecoversPanicIntoEvaluationError(t *testing.T) {
	node := &baseExpression{exprType: "boom", children: []Expression{NewConstant(int64(1))}}
	eval := Apply(func(args []any) any {
		panic(errors.New("kaboom"))
	}, nil)
	_, err := eval(node, NewSimpleObjectMemory(nil), Options{})
	require.Error(t, err)
	var evalErr *EvalError
	require.ErrorAs(t, err, &evalErr)
	assert.Equal(t, EvaluationError, evalErr.Kind)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestApplySequenceFoldsLeftToRight(t *testing.T) {
	node := &baseExpression{exprType: "concatAll", children: []Expression{
		NewConstant(int64(1)), NewConstant(int64(2)), NewConstant(int64(3)),
	}}
	eval := ApplySequence(func(a, b any) any {
		af, _ := asFloat(a)
		bf, _ := asFloat(b)
		return int64(af + bf)
	}, nil)
	v, err := eval(node, NewSimpleObjectMemory(nil), Options{})
	require.NoError(t, err)
	assert.Equal(t, int64(6), v)
}

func TestApplySequenceWithErrorStopsOnFirstError(t *testing.T) {
	node := &baseExpression{exprType: "divAll", children: []Expression{
		NewConstant(int64(10)), NewConstant(int64(0)), NewConstant(int64(5)),
	}}
	calls := 0
	eval := ApplySequenceWithError(func(a, b any) (any, error) {
		calls++
		bf, _ := asFloat(b)
		if bf == 0 {
			return nil, newErrorf(DomainError, "divAll", "division by zero")
		}
		af, _ := asFloat(a)
		return af / bf, nil
	}, nil)
	_, err := eval(node, NewSimpleObjectMemory(nil), Options{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}
