package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConstantsSeeded(t *testing.T) {
	v, ok := Constants.Lookup("pi")
	assert.True(t, ok)
	assert.InDelta(t, 3.14159, v, 1e-4)

	_, ok = Constants.Lookup("not_a_constant")
	assert.False(t, ok)
}

func TestConstantRegistrySetOverwrites(t *testing.T) {
	r := &ConstantRegistry{values: map[string]float64{}}
	r.Set("k", 1)
	v, ok := r.Lookup("k")
	assert.True(t, ok)
	assert.Equal(t, 1.0, v)

	r.Set("k", 2)
	v, ok = r.Lookup("k")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestConstantRegistryNamesIncludesSeeded(t *testing.T) {
	names := Constants.Names()
	assert.Contains(t, names, "pi")
	assert.Contains(t, names, "e")
}
