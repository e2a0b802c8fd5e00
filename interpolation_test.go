package adaptiveexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInterpolatedValueScalars(t *testing.T) {
	assert.Equal(t, "None", FormatInterpolatedValue(nil))
	assert.Equal(t, "True", FormatInterpolatedValue(true))
	assert.Equal(t, "False", FormatInterpolatedValue(false))
	assert.Equal(t, "'hi'", FormatInterpolatedValue("hi"))
	assert.Equal(t, "3", FormatInterpolatedValue(int64(3)))
	assert.Equal(t, "3.5", FormatInterpolatedValue(3.5))
}

func TestFormatInterpolatedValueEscapesQuotes(t *testing.T) {
	assert.Equal(t, "'it\\'s'", FormatInterpolatedValue("it's"))
}

func TestFormatInterpolatedValueList(t *testing.T) {
	got := FormatInterpolatedValue([]any{int64(1), "a", nil})
	assert.Equal(t, "[1, 'a', None]", got)
}

func TestFormatInterpolatedValueMapSortsKeys(t *testing.T) {
	got := FormatInterpolatedValue(map[string]any{"b": int64(2), "a": int64(1)})
	assert.Equal(t, "{'a': 1, 'b': 2}", got)
}

func TestFormatInterpolatedValueNested(t *testing.T) {
	got := FormatInterpolatedValue(map[string]any{
		"user": map[string]any{"name": "Ada", "tags": []any{"x", "y"}},
	})
	assert.Equal(t, "{'user': {'name': 'Ada', 'tags': ['x', 'y']}}", got)
}
