// Package matrix_test contains unit tests for the generic Dense storage.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/coalrate/dual"
	"github.com/katalvlaran/coalrate/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense[float64](0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense[dual.Dual](5, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewFilled(-1, 2, dual.Float(1))
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestRowsCols verifies that Rows() and Cols() return correct dimension values.
func TestRowsCols(t *testing.T) {
	m, err := matrix.NewDense[dual.Float](3, 4)
	require.NoError(t, err)

	require.Equal(t, 3, m.Rows())
	require.Equal(t, 4, m.Cols())
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense[dual.Float](2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrIndexOutOfBounds, "deprecated alias still matches")

	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 4.56), matrix.ErrOutOfRange)
}

// TestSetGet validates Set() followed by At() on valid indices.
func TestSetGet(t *testing.T) {
	m, err := matrix.NewDense[dual.Dual](2, 3)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 2, dual.Variable(7.89, 0, 2)))

	val, err := m.At(1, 2)
	require.NoError(t, err)
	require.Equal(t, 7.89, val.Value())
	require.Equal(t, []float64{1, 0}, val.Grad())

	zero, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 0.0, zero.Value(), "zero Dual is the constant 0")
}

func TestRowAccess(t *testing.T) {
	m, err := matrix.NewFilled(3, 3, dual.Float(1))
	require.NoError(t, err)

	require.NoError(t, m.SetRow(1, []dual.Float{4, 5}))
	row, err := m.Row(1)
	require.NoError(t, err)
	require.Equal(t, []dual.Float{4, 5, 1}, row, "partial row write keeps the tail")

	row[0] = 100
	again, _ := m.Row(1)
	require.Equal(t, dual.Float(4), again[0], "Row returns a copy")

	require.ErrorIs(t, m.SetRow(0, make([]dual.Float, 4)), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, m.SetRow(3, nil), matrix.ErrOutOfRange)
	_, err = m.Row(-1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestCloneIsDeep(t *testing.T) {
	m, _ := matrix.NewFilled(2, 2, dual.Float(2))
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 9))

	v, _ := m.At(0, 0)
	require.Equal(t, dual.Float(2), v)
	require.Equal(t, "[2, 2]\n[2, 2]\n", m.String())
}

func TestValidators(t *testing.T) {
	var nilM *matrix.Dense[dual.Float]
	require.ErrorIs(t, matrix.ValidateNotNil(nilM), matrix.ErrNilMatrix)

	m, _ := matrix.NewDense[dual.Float](2, 3)
	require.NoError(t, matrix.ValidateAtLeast(m, 2, 3))
	require.ErrorIs(t, matrix.ValidateAtLeast(m, 3, 3), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, matrix.ValidateAtLeast(m, 1, 4), matrix.ErrDimensionMismatch)

	ms := []*matrix.Dense[dual.Float]{m, nil}
	require.NoError(t, matrix.ValidateAllAtLeast(ms, 1, 2, 2))
	require.ErrorIs(t, matrix.ValidateAllAtLeast(ms, 2, 2, 2), matrix.ErrNilMatrix)
	require.ErrorIs(t, matrix.ValidateAllAtLeast(ms, 3, 2, 2), matrix.ErrDimensionMismatch)
}

func TestToGonum(t *testing.T) {
	m, _ := matrix.NewDense[dual.Dual](2, 2)
	require.NoError(t, m.Set(0, 1, dual.Variable(3, 0, 1)))
	require.NoError(t, m.Set(1, 0, dual.Constant(-2)))

	g, err := matrix.ToGonum(m)
	require.NoError(t, err)
	r, c := g.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
	require.Equal(t, 3.0, g.At(0, 1))
	require.Equal(t, -2.0, g.At(1, 0))

	var nilM *matrix.Dense[dual.Dual]
	_, err = matrix.ToGonum(nilM)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
