package vehicle

import (
	"math"
	"sort"

	"tollkit/internal"
	"tollkit/internal/errors"
	"tollkit/internal/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/montanaflynn/stats"
)

// Car type categories
const (
	TypeLow    = "low"
	TypeMedium = "medium"
	TypeHigh   = "high"
)

const (
	lowCarLimit    = 15.0
	mediumCarLimit = 25.0
	busMeanFactor  = 2.0
	truckMeanFloor = 7.0
)

// TypeCounts maps a car type to the number of rows in that category
type TypeCounts map[string]int

// Keys returns the categories present, alphabetically
func (c TypeCounts) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Total is the number of rows counted
func (c TypeCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// CarType categorizes a single car value
func CarType(v float64) string {
	switch {
	case v <= lowCarLimit:
		return TypeLow
	case v <= mediumCarLimit:
		return TypeMedium
	default:
		return TypeHigh
	}
}

// GetTypeCount buckets every car value into low (<= 15), medium (<= 25) or
// high and counts each bucket. Categories with no rows are left out.
func GetTypeCount(df dataframe.DataFrame) (TypeCounts, error) {
	cars, err := frame.Floats(df, ColCar)
	if err != nil {
		return nil, errors.Wrap(err, "type count")
	}

	counts := make(TypeCounts)
	for _, v := range cars {
		counts[CarType(v)]++
	}
	return counts, nil
}

// GetBusIndexes returns the positions, ascending, of rows whose bus value is
// greater than twice the mean bus value. A column with no values has no mean,
// so nothing is selected.
func GetBusIndexes(df dataframe.DataFrame) ([]int, error) {
	buses, err := frame.Floats(df, ColBus)
	if err != nil {
		return nil, errors.Wrap(err, "bus indexes")
	}

	indexes := []int{}
	mean, err := meanOf(buses)
	if err != nil {
		internal.DefaultLogger.Debug("bus indexes: %v", err)
		return indexes, nil
	}

	threshold := busMeanFactor * mean
	for i, v := range buses {
		if v > threshold {
			indexes = append(indexes, i)
		}
	}

	internal.DefaultLogger.Debug("bus threshold %.3f matched %d of %d rows", threshold, len(indexes), len(buses))
	return indexes, nil
}

// FilterRoutes returns the routes, sorted, whose mean truck value is greater than 7
func FilterRoutes(df dataframe.DataFrame) ([]string, error) {
	if err := frame.RequireColumns(df, ColRoute, ColTruck); err != nil {
		return nil, errors.Wrap(err, "filter routes")
	}

	routes := []string{}
	if df.Nrow() == 0 {
		return routes, nil
	}

	for _, group := range df.GroupBy(ColRoute).GetGroups() {
		trucks, err := frame.Floats(group, ColTruck)
		if err != nil {
			return nil, errors.Wrap(err, "filter routes")
		}
		mean, err := meanOf(trucks)
		if err != nil {
			// a route with only missing truck values has no mean to compare
			continue
		}
		if mean > truckMeanFloor {
			routes = append(routes, frame.Keys(group.Col(ColRoute))[0])
		}
	}

	frame.SortKeys(routes)
	return routes, nil
}

// meanOf averages the non-NaN values
func meanOf(values []float64) (float64, error) {
	data := make(stats.Float64Data, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			data = append(data, v)
		}
	}
	mean, err := stats.Mean(data)
	if err != nil {
		return 0, errors.Wrap(errors.ValidationError(err.Error()), "mean of empty column")
	}
	return mean, nil
}
