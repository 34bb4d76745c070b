package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRealAsNumeric(t *testing.T) {
	r := Real(3.5)
	v, ok := r.AsNumeric()
	assert.True(t, ok)
	assert.Equal(t, 3.5, v)
}

func TestComplexWithNegligibleImaginaryCollapsesToReal(t *testing.T) {
	r := Cplx(complex(2, 1e-12))
	v, ok := r.AsNumeric()
	assert.True(t, ok)
	assert.InDelta(t, 2.0, v, 1e-9)
}

func TestComplexWithRealImaginaryIsNotNumeric(t *testing.T) {
	r := Cplx(complex(2, 3))
	_, ok := r.AsNumeric()
	assert.False(t, ok)
}

func TestMatrixIsNotScalar(t *testing.T) {
	m, err := NewDense([][]float64{{1, 2}, {3, 4}})
	assert.NoError(t, err)
	r := Mat(m)
	assert.False(t, r.IsScalar())
	_, ok := r.AsNumeric()
	assert.False(t, ok)
}

func TestNaNIsNaN(t *testing.T) {
	assert.True(t, NaN().IsNaN())
	assert.False(t, Real(1).IsNaN())
}

func TestAsComplexPromotesReal(t *testing.T) {
	c, ok := Real(4).AsComplex()
	assert.True(t, ok)
	assert.Equal(t, complex(4, 0), c)
}
