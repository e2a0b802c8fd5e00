package adaptiveexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReturnTypeHas(t *testing.T) {
	rt := Number | String
	assert.True(t, rt.Has(Number))
	assert.True(t, rt.Has(Number|String))
	assert.False(t, rt.Has(Boolean))
}

func TestReturnTypeOverlaps(t *testing.T) {
	assert.True(t, Number.Overlaps(Number))
	assert.False(t, Number.Overlaps(String))
	assert.True(t, Object.Overlaps(String))
	assert.True(t, String.Overlaps(Object))
}

func TestReturnTypeStringRendering(t *testing.T) {
	assert.Equal(t, "None", ReturnType(0).String())
	assert.Equal(t, "Number", Number.String())
	assert.Equal(t, "Number|String", (Number | String).String())
	assert.Equal(t, "Boolean|Number|Object|String|Array", Any.String())
}
