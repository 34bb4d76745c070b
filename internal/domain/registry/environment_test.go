package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentLookupOrder(t *testing.T) {
	env := NewEnvironment(map[string]float64{"x": 10}, nil)
	v, kind := env.Lookup("x")
	assert.Equal(t, FoundReal, kind)
	assert.Equal(t, 10.0, v)

	v, kind = env.Lookup("pi")
	assert.Equal(t, FoundReal, kind)
	assert.InDelta(t, 3.14159, v, 1e-4)

	_, kind = env.Lookup("i")
	assert.Equal(t, FoundImaginaryUnit, kind)

	_, kind = env.Lookup("nonexistent")
	assert.Equal(t, NotFound, kind)
}

func TestEnvironmentWithAddsBindingWithoutMutatingOriginal(t *testing.T) {
	env := NewEnvironment(map[string]float64{"x": 1}, nil)
	extended := env.With("y", 2)

	_, kind := env.Lookup("y")
	assert.Equal(t, NotFound, kind)

	v, kind := extended.Lookup("y")
	assert.Equal(t, FoundReal, kind)
	assert.Equal(t, 2.0, v)

	v, kind = extended.Lookup("x")
	assert.Equal(t, FoundReal, kind)
	assert.Equal(t, 1.0, v)
}

func TestEnvironmentUserVarShadowsConstant(t *testing.T) {
	env := NewEnvironment(map[string]float64{"pi": 3}, nil)
	v, kind := env.Lookup("pi")
	assert.Equal(t, FoundReal, kind)
	assert.Equal(t, 3.0, v)
}
