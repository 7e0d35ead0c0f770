// Package frame holds the table helpers shared by the vehicle and toll
// transforms: column checks, key formatting and numeric extraction over gota
// data frames.
package frame

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"tollkit/internal/errors"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/floats/scalar"
)

// RequireColumns returns an INVALID_INPUT error naming every column of
// columns that df does not have.
func RequireColumns(df dataframe.DataFrame, columns ...string) error {
	if df.Err != nil {
		return errors.Wrap(errors.InvalidInput(df.Err.Error()), "invalid table")
	}

	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}

	var missing []string
	for _, col := range columns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.MissingColumns(missing...)
	}
	return nil
}

// Keys renders an id column as strings. Float ids are printed without
// trailing zeros so 1001400.0 and 1001400 name the same key.
func Keys(s series.Series) []string {
	if s.Type() == series.Float {
		values := s.Float()
		keys := make([]string, len(values))
		for i, v := range values {
			keys[i] = strconv.FormatFloat(v, 'f', -1, 64)
		}
		return keys
	}

	records := s.Records()
	keys := make([]string, len(records))
	for i, r := range records {
		keys[i] = strings.TrimSpace(r)
	}
	return keys
}

// Floats extracts a numeric column. String columns are parsed cell by cell so
// a bad value is reported with its row instead of silently turning into NaN.
func Floats(df dataframe.DataFrame, column string) ([]float64, error) {
	if err := RequireColumns(df, column); err != nil {
		return nil, err
	}

	col := df.Col(column)
	if col.Type() != series.String {
		return col.Float(), nil
	}

	records := col.Records()
	values := make([]float64, len(records))
	for i, r := range records {
		r = strings.TrimSpace(r)
		if r == "" || r == "NaN" {
			values[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(r, 64)
		if err != nil {
			return nil, errors.InvalidCell(column, i, r, err)
		}
		values[i] = v
	}
	return values, nil
}

// SortKeys sorts keys in place: numerically when every key parses as a
// number, lexically otherwise.
func SortKeys(keys []string) {
	numeric := make([]float64, len(keys))
	allNumeric := true
	for i, k := range keys {
		v, err := strconv.ParseFloat(k, 64)
		if err != nil {
			allNumeric = false
			break
		}
		numeric[i] = v
	}

	if !allNumeric {
		sort.Strings(keys)
		return
	}

	sort.Sort(numericKeys{keys: keys, values: numeric})
}

type numericKeys struct {
	keys   []string
	values []float64
}

func (n numericKeys) Len() int           { return len(n.keys) }
func (n numericKeys) Less(i, j int) bool { return n.values[i] < n.values[j] }
func (n numericKeys) Swap(i, j int) {
	n.keys[i], n.keys[j] = n.keys[j], n.keys[i]
	n.values[i], n.values[j] = n.values[j], n.values[i]
}

// UniqueSorted returns the distinct keys of every input slice, sorted with SortKeys
func UniqueSorted(sets ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, keys := range sets {
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	SortKeys(out)
	return out
}

// Round rounds v to the given number of decimal places. Exact halves go to
// the even digit, so Round(6.25, 1) is 6.2 and Round(18.75, 1) is 18.8.
func Round(v float64, places int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return scalar.RoundEven(v, places)
}
