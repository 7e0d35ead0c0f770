package toll

import (
	"math"
	"testing"

	"tollkit/internal/errors"
	"tollkit/internal/frame"
	"tollkit/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateDistanceMatrix_CumulativeAlongRoute(t *testing.T) {
	m, err := CalculateDistanceMatrix(testkit.Dataset3())
	require.NoError(t, err)

	keys := []string{"1001400", "1001402", "1001404", "1001406", "1001408"}
	assert.Equal(t, keys, m.RowKeys)
	assert.Equal(t, keys, m.ColKeys)

	cases := []struct {
		from, to string
		want     float64
	}{
		{"1001400", "1001402", 9.7},
		{"1001400", "1001404", 29.9},
		{"1001400", "1001408", 67.6},
		{"1001402", "1001406", 36.2},
		{"1001404", "1001408", 37.7},
	}
	for _, c := range cases {
		got, ok := m.At(c.from, c.to)
		require.True(t, ok)
		assert.InDelta(t, c.want, got, 1e-9, "%s -> %s", c.from, c.to)
	}
}

func TestCalculateDistanceMatrix_SymmetricWithZeroDiagonal(t *testing.T) {
	m, err := CalculateDistanceMatrix(testkit.Dataset3())
	require.NoError(t, err)

	for _, a := range m.RowKeys {
		d, _ := m.At(a, a)
		assert.Zero(t, d)
		for _, b := range m.ColKeys {
			ab, _ := m.At(a, b)
			ba, _ := m.At(b, a)
			assert.Equal(t, ab, ba, "%s/%s", a, b)
		}
	}
}

func TestCalculateDistanceMatrix_ShorterDuplicateWins(t *testing.T) {
	df := testkit.FromCSV("id_start,id_end,distance\n1,2,10\n2,1,4\n3,4,1\n")

	m, err := CalculateDistanceMatrix(df)
	require.NoError(t, err)

	d, _ := m.At("1", "2")
	assert.Equal(t, 4.0, d)

	unreachable, _ := m.At("1", "3")
	assert.True(t, math.IsNaN(unreachable))
}

func TestCalculateDistanceMatrix_NegativeDistance(t *testing.T) {
	_, err := CalculateDistanceMatrix(testkit.FromCSV("id_start,id_end,distance\n1,2,-3\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestUnrollDistanceMatrix_ConservesMass(t *testing.T) {
	m, err := CalculateDistanceMatrix(testkit.Dataset3())
	require.NoError(t, err)

	long := UnrollDistanceMatrix(m)

	assert.Equal(t, []string{ColIDStart, ColIDEnd, ColDistance}, long.Names())
	// 5 keys, the 5 zero diagonal cells are dropped
	assert.Equal(t, 20, long.Nrow())

	var total float64
	for _, d := range long.Col(ColDistance).Float() {
		assert.NotZero(t, d)
		total += d
	}
	assert.InDelta(t, m.Sum(), total, 1e-9)
}

func TestUnrollDistanceMatrix_ColumnMajorOrder(t *testing.T) {
	wide := testkit.FromCSV("id,a,b\na,0,2\nb,3,0\nc,4,0\n")
	m, err := frame.MatrixFromDataFrame(wide, "id")
	require.NoError(t, err)

	long := UnrollDistanceMatrix(m)

	assert.Equal(t, []string{"b", "c", "a"}, long.Col(ColIDStart).Records())
	assert.Equal(t, []string{"a", "a", "b"}, long.Col(ColIDEnd).Records())
	assert.Equal(t, []float64{3, 4, 2}, long.Col(ColDistance).Float())
}
