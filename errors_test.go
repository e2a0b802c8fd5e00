package adaptiveexpr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindStringNames(t *testing.T) {
	assert.Equal(t, "ValidationError", ValidationError.String())
	assert.Equal(t, "TypeError", TypeErrorKind.String())
	assert.Equal(t, "UnknownError", Kind(99).String())
}

func TestEvalErrorUnwrapClassification(t *testing.T) {
	validationErr := newErrorf(ValidationError, "add", "bad arity")
	assert.ErrorIs(t, validationErr, ErrValidation)
	assert.NotErrorIs(t, validationErr, ErrEvaluation)

	evalErr := newErrorf(DomainError, "div", "division by zero")
	assert.ErrorIs(t, evalErr, ErrEvaluation)
	assert.NotErrorIs(t, evalErr, ErrValidation)
}

func TestEvalErrorMessageFormatting(t *testing.T) {
	err := newErrorf(TypeErrorKind, "concat", "%v is not a string", 5)
	assert.Equal(t, "TypeError in concat: 5 is not a string", err.Error())

	bare := &EvalError{Kind: DomainError}
	assert.Equal(t, "DomainError", bare.Error())
}

func TestNewErrorWrapsCause(t *testing.T) {
	cause := errors.New("boom")
	err := newError(EvaluationError, "foo", cause)
	assert.ErrorIs(t, err, ErrEvaluation)
	assert.Contains(t, err.Error(), "boom")
}
