// Package toll holds the transforms over the toll-location distance dataset
// (dataset-3): building and unrolling the distance matrix, picking ids near a
// reference, and deriving per-vehicle toll rates.
package toll

import (
	"fmt"
	"math"

	"tollkit/internal"
	"tollkit/internal/errors"
	"tollkit/internal/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Column names of dataset-3 and of the unrolled long form
const (
	ColIDStart  = "id_start"
	ColIDEnd    = "id_end"
	ColDistance = "distance"
)

// CalculateDistanceMatrix builds the symmetric all-pairs distance matrix of
// the toll network described by id_start, id_end and distance. Distances
// between locations that are not direct neighbours are the sum along the
// shortest known route; locations with no route between them are NaN.
func CalculateDistanceMatrix(df dataframe.DataFrame) (*frame.Matrix, error) {
	if err := frame.RequireColumns(df, ColIDStart, ColIDEnd, ColDistance); err != nil {
		return nil, errors.Wrap(err, "distance matrix")
	}

	starts := frame.Keys(df.Col(ColIDStart))
	ends := frame.Keys(df.Col(ColIDEnd))
	distances, err := frame.Floats(df, ColDistance)
	if err != nil {
		return nil, errors.Wrap(err, "distance matrix")
	}

	keys := frame.UniqueSorted(starts, ends)
	nodeID := make(map[string]int64, len(keys))
	g := simple.NewWeightedUndirectedGraph(0, math.Inf(1))
	for i, k := range keys {
		nodeID[k] = int64(i)
		g.AddNode(simple.Node(i))
	}

	for i := range starts {
		d := distances[i]
		if math.IsNaN(d) {
			continue
		}
		if d < 0 {
			return nil, errors.InvalidInput(fmt.Sprintf("negative distance %v between %s and %s", d, starts[i], ends[i]))
		}
		u, v := nodeID[starts[i]], nodeID[ends[i]]
		if u == v {
			continue
		}
		if e := g.WeightedEdge(u, v); e != nil && e.Weight() <= d {
			continue
		}
		g.SetWeightedEdge(g.NewWeightedEdge(simple.Node(u), simple.Node(v), d))
	}

	paths, ok := path.FloydWarshall(g)
	if !ok {
		return nil, errors.ValidationError("distance network contains a negative cycle")
	}

	m := frame.NewMatrix(keys, keys)
	for i, from := range keys {
		for j, to := range keys {
			if i == j {
				m.Set(from, to, 0)
				continue
			}
			w := paths.Weight(int64(i), int64(j))
			if math.IsInf(w, 1) {
				continue
			}
			m.Set(from, to, w)
		}
	}

	internal.DefaultLogger.Debug("distance matrix built over %d locations from %d segments", len(keys), len(starts))
	return m, nil
}

// UnrollDistanceMatrix melts a wide distance matrix into id_start, id_end,
// distance rows, column by column. Zero and NaN entries are dropped.
func UnrollDistanceMatrix(m *frame.Matrix) dataframe.DataFrame {
	var (
		starts    []string
		ends      []string
		distances []float64
	)

	for _, to := range m.ColKeys {
		column, _ := m.Column(to)
		for i, from := range m.RowKeys {
			d := column[i]
			if d == 0 || math.IsNaN(d) {
				continue
			}
			starts = append(starts, from)
			ends = append(ends, to)
			distances = append(distances, d)
		}
	}

	return dataframe.New(
		series.New(starts, series.String, ColIDStart),
		series.New(ends, series.String, ColIDEnd),
		series.New(distances, series.Float, ColDistance),
	)
}
