// Package vehicle holds the transforms over per-vehicle traffic counts
// (dataset-1) and weekly coverage intervals (dataset-2).
package vehicle

import (
	"fmt"
	"math"

	"tollkit/internal"
	"tollkit/internal/errors"
	"tollkit/internal/frame"

	"github.com/go-gota/gota/dataframe"
)

// Column names of dataset-1
const (
	ColID1   = "id_1"
	ColID2   = "id_2"
	ColRoute = "route"
	ColCar   = "car"
	ColBus   = "bus"
	ColTruck = "truck"
)

// Multiplier thresholds applied by MultiplyMatrix
const (
	multiplyCutoff = 20.0
	multiplyHigh   = 0.75
	multiplyLow    = 1.25
)

// GenerateCarMatrix pivots the car column into an id_1 by id_2 matrix. Every
// key seen as an id_2 also gets a row so the diagonal can be zeroed; pairs
// that never occur stay NaN. A pair listed twice is an INVALID_INPUT error.
func GenerateCarMatrix(df dataframe.DataFrame) (*frame.Matrix, error) {
	if err := frame.RequireColumns(df, ColID1, ColID2, ColCar); err != nil {
		return nil, errors.Wrap(err, "car matrix")
	}

	from := frame.Keys(df.Col(ColID1))
	to := frame.Keys(df.Col(ColID2))
	cars, err := frame.Floats(df, ColCar)
	if err != nil {
		return nil, errors.Wrap(err, "car matrix")
	}

	rowKeys := frame.UniqueSorted(from, to)
	colKeys := frame.UniqueSorted(to)
	m := frame.NewMatrix(rowKeys, colKeys)

	seen := make(map[[2]string]int, len(from))
	for i := range from {
		pair := [2]string{from[i], to[i]}
		if first, dup := seen[pair]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf(
				"car matrix: duplicate pair (%s, %s) at rows %d and %d", pair[0], pair[1], first, i))
		}
		seen[pair] = i
		m.Set(from[i], to[i], cars[i])
	}
	for _, k := range colKeys {
		m.Set(k, k, 0)
	}

	internal.DefaultLogger.Debug("car matrix built: %d rows x %d columns", len(rowKeys), len(colKeys))
	return m, nil
}

// MultiplyMatrix scales every value above 20 by 0.75 and every other value by
// 1.25, rounding to one decimal place with halves to even. NaN cells are
// carried through.
func MultiplyMatrix(m *frame.Matrix) *frame.Matrix {
	return m.Apply(func(v float64) float64 {
		if math.IsNaN(v) {
			return v
		}
		if v > multiplyCutoff {
			return frame.Round(v*multiplyHigh, 1)
		}
		return frame.Round(v*multiplyLow, 1)
	})
}
