package toll

import (
	"math"
	"strings"

	"tollkit/internal/errors"
	"tollkit/internal/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/montanaflynn/stats"
)

// ThresholdRatio is the relative band around the reference average
const ThresholdRatio = 0.10

// AverageDistances returns the mean distance per id_start, skipping NaN distances
func AverageDistances(df dataframe.DataFrame) (map[string]float64, error) {
	if err := frame.RequireColumns(df, ColIDStart, ColDistance); err != nil {
		return nil, err
	}

	starts := frame.Keys(df.Col(ColIDStart))
	distances, err := frame.Floats(df, ColDistance)
	if err != nil {
		return nil, err
	}

	grouped := make(map[string]stats.Float64Data)
	for i, id := range starts {
		if math.IsNaN(distances[i]) {
			continue
		}
		grouped[id] = append(grouped[id], distances[i])
	}

	averages := make(map[string]float64, len(grouped))
	for id, data := range grouped {
		mean, err := stats.Mean(data)
		if err != nil {
			return nil, errors.Wrapf(err, "average distance of %s", id)
		}
		averages[id] = mean
	}
	return averages, nil
}

// FindIDsWithinTenPercentageThreshold returns, sorted, every id_start whose
// average distance lies within 10% (inclusive) of the reference id's average
// distance. The reference id is always part of the result.
func FindIDsWithinTenPercentageThreshold(df dataframe.DataFrame, referenceID string) ([]string, error) {
	averages, err := AverageDistances(df)
	if err != nil {
		return nil, errors.Wrap(err, "ten percent threshold")
	}

	referenceID = strings.TrimSpace(referenceID)
	reference, ok := averages[referenceID]
	if !ok {
		return nil, errors.NotFound("reference id " + referenceID)
	}

	lower := reference - ThresholdRatio*math.Abs(reference)
	upper := reference + ThresholdRatio*math.Abs(reference)

	ids := []string{}
	for id, avg := range averages {
		if avg >= lower && avg <= upper {
			ids = append(ids, id)
		}
	}
	frame.SortKeys(ids)
	return ids, nil
}
