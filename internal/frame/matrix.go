package frame

import (
	"math"

	"tollkit/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a wide-form table: one row per row key, one column per column
// key. Absent pairs hold NaN.
type Matrix struct {
	RowKeys []string
	ColKeys []string
	Values  *mat.Dense

	rowIndex map[string]int
	colIndex map[string]int
}

// NewMatrix allocates a NaN-filled matrix over the given keys
func NewMatrix(rowKeys, colKeys []string) *Matrix {
	m := &Matrix{
		RowKeys: append([]string(nil), rowKeys...),
		ColKeys: append([]string(nil), colKeys...),
	}
	if len(rowKeys) == 0 || len(colKeys) == 0 {
		m.Values = &mat.Dense{}
	} else {
		data := make([]float64, len(rowKeys)*len(colKeys))
		for i := range data {
			data[i] = math.NaN()
		}
		m.Values = mat.NewDense(len(rowKeys), len(colKeys), data)
	}
	m.reindex()
	return m
}

func (m *Matrix) reindex() {
	m.rowIndex = make(map[string]int, len(m.RowKeys))
	for i, k := range m.RowKeys {
		m.rowIndex[k] = i
	}
	m.colIndex = make(map[string]int, len(m.ColKeys))
	for j, k := range m.ColKeys {
		m.colIndex[k] = j
	}
}

// Dims returns the number of row and column keys
func (m *Matrix) Dims() (int, int) {
	return len(m.RowKeys), len(m.ColKeys)
}

// At returns the value at (row, col); ok is false when either key is unknown
func (m *Matrix) At(row, col string) (float64, bool) {
	i, okRow := m.rowIndex[row]
	j, okCol := m.colIndex[col]
	if !okRow || !okCol {
		return math.NaN(), false
	}
	return m.Values.At(i, j), true
}

// Set stores v at (row, col) and reports whether both keys exist
func (m *Matrix) Set(row, col string, v float64) bool {
	i, okRow := m.rowIndex[row]
	j, okCol := m.colIndex[col]
	if !okRow || !okCol {
		return false
	}
	m.Values.Set(i, j, v)
	return true
}

// Apply returns a new matrix with fn applied to every cell
func (m *Matrix) Apply(fn func(v float64) float64) *Matrix {
	out := NewMatrix(m.RowKeys, m.ColKeys)
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return out
	}
	out.Values.Apply(func(_, _ int, v float64) float64 {
		return fn(v)
	}, m.Values)
	return out
}

// Sum adds every non-NaN cell
func (m *Matrix) Sum() float64 {
	r, c := m.Dims()
	cells := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if v := m.Values.At(i, j); !math.IsNaN(v) {
				cells = append(cells, v)
			}
		}
	}
	return floats.Sum(cells)
}

// Column returns a copy of the values under column key col
func (m *Matrix) Column(col string) ([]float64, bool) {
	j, ok := m.colIndex[col]
	if !ok {
		return nil, false
	}
	return mat.Col(nil, j, m.Values), true
}

// DataFrame renders the matrix with the row keys in a leading column named
// indexName, followed by one float column per column key.
func (m *Matrix) DataFrame(indexName string) dataframe.DataFrame {
	columns := make([]series.Series, 0, len(m.ColKeys)+1)
	columns = append(columns, series.New(m.RowKeys, series.String, indexName))
	for j, key := range m.ColKeys {
		var values []float64
		if len(m.RowKeys) > 0 {
			values = mat.Col(nil, j, m.Values)
		}
		columns = append(columns, series.New(values, series.Float, key))
	}
	return dataframe.New(columns...)
}

// MatrixFromDataFrame reads a wide-form table whose row keys live in
// indexCol and whose remaining columns are numeric.
func MatrixFromDataFrame(df dataframe.DataFrame, indexCol string) (*Matrix, error) {
	if err := RequireColumns(df, indexCol); err != nil {
		return nil, err
	}

	rowKeys := Keys(df.Col(indexCol))
	var colKeys []string
	for _, name := range df.Names() {
		if name != indexCol {
			colKeys = append(colKeys, name)
		}
	}

	seen := make(map[string]bool, len(rowKeys))
	for _, k := range rowKeys {
		if seen[k] {
			return nil, errors.InvalidInput("duplicate row key " + k + " in column " + indexCol)
		}
		seen[k] = true
	}

	m := NewMatrix(rowKeys, colKeys)
	for j, col := range colKeys {
		values, err := Floats(df, col)
		if err != nil {
			return nil, errors.Wrap(err, "failed to read matrix column")
		}
		for i, v := range values {
			m.Values.Set(i, j, v)
		}
	}
	return m, nil
}
