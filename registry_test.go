package adaptiveexpr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupFindsCoreBuiltins(t *testing.T) {
	for _, name := range []string{"add", "concat", "accessor", "element", "foreach", "equals"} {
		entry, ok := Lookup(name)
		require.Truef(t, ok, "expected %q to be registered", name)
		assert.Equal(t, name, entry.Name)
		assert.NotNil(t, entry.Eval)
	}
}

func TestLookupUnknownNameMisses(t *testing.T) {
	_, ok := Lookup("definitelyNotRegistered")
	assert.False(t, ok)
}

func TestRegisterFunctionPanicsOnDuplicate(t *testing.T) {
	assert.Panics(t, func() {
		registerFunction("add", Number, nil, nil)
	})
}
