package vehicle

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"tollkit/internal/errors"
	"tollkit/internal/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Column names of dataset-2
const (
	ColID        = "id"
	ColStartDay  = "startDay"
	ColStartTime = "startTime"
	ColEndDay    = "endDay"
	ColEndTime   = "endTime"
)

const (
	secondsPerDay  = 24 * 60 * 60
	secondsPerWeek = 7 * secondsPerDay
	clockLayout    = "15:04:05"
)

var weekdayOffsets = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

// PairCoverage is the completeness verdict for one (id, id_2) pair
type PairCoverage struct {
	ID         string
	ID2        string
	Incomplete bool
}

type span struct {
	start, end int // seconds since Monday 00:00:00, both inclusive
}

// WeekInstant converts a day name and an HH:MM:SS clock reading into
// seconds since Monday 00:00:00.
func WeekInstant(day, clock string) (int, error) {
	offset, ok := weekdayOffsets[strings.ToLower(strings.TrimSpace(day))]
	if !ok {
		return 0, errors.InvalidInput(fmt.Sprintf("unknown day name %q", day))
	}
	t, err := time.Parse(clockLayout, strings.TrimSpace(clock))
	if err != nil {
		return 0, errors.Wrap(errors.InvalidInput(err.Error()), fmt.Sprintf("malformed time %q", clock))
	}
	return offset*secondsPerDay + t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// TimeCheck reports, for every (id, id_2) pair, whether its intervals fail to
// cover the full week from Monday 00:00:00 to Sunday 23:59:59. An interval
// that ends before it starts wraps around Sunday night. Results are sorted by
// id, then id_2.
func TimeCheck(df dataframe.DataFrame) ([]PairCoverage, error) {
	if err := frame.RequireColumns(df, ColID, ColID2, ColStartDay, ColStartTime, ColEndDay, ColEndTime); err != nil {
		return nil, errors.Wrap(err, "time check")
	}

	ids := frame.Keys(df.Col(ColID))
	ids2 := frame.Keys(df.Col(ColID2))
	startDays := df.Col(ColStartDay).Records()
	startTimes := df.Col(ColStartTime).Records()
	endDays := df.Col(ColEndDay).Records()
	endTimes := df.Col(ColEndTime).Records()

	type pairKey struct{ id, id2 string }
	spans := make(map[pairKey][]span)
	var order []pairKey

	for i := range ids {
		start, err := WeekInstant(startDays[i], startTimes[i])
		if err != nil {
			return nil, errors.Wrapf(err, "time check: start of row %d", i)
		}
		end, err := WeekInstant(endDays[i], endTimes[i])
		if err != nil {
			return nil, errors.Wrapf(err, "time check: end of row %d", i)
		}

		key := pairKey{ids[i], ids2[i]}
		if _, seen := spans[key]; !seen {
			order = append(order, key)
		}
		if end < start {
			spans[key] = append(spans[key], span{start, secondsPerWeek - 1}, span{0, end})
		} else {
			spans[key] = append(spans[key], span{start, end})
		}
	}

	idRank := rankOf(frame.UniqueSorted(ids))
	id2Rank := rankOf(frame.UniqueSorted(ids2))
	sort.Slice(order, func(a, b int) bool {
		if idRank[order[a].id] != idRank[order[b].id] {
			return idRank[order[a].id] < idRank[order[b].id]
		}
		return id2Rank[order[a].id2] < id2Rank[order[b].id2]
	})

	results := make([]PairCoverage, 0, len(order))
	for _, key := range order {
		results = append(results, PairCoverage{
			ID:         key.id,
			ID2:        key.id2,
			Incomplete: !coversWeek(spans[key]),
		})
	}
	return results, nil
}

// coversWeek reports whether the union of spans leaves no second of the week uncovered
func coversWeek(spans []span) bool {
	sorted := append([]span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	next := 0
	for _, s := range sorted {
		if s.start > next {
			return false
		}
		if s.end+1 > next {
			next = s.end + 1
		}
	}
	return next >= secondsPerWeek
}

func rankOf(keys []string) map[string]int {
	rank := make(map[string]int, len(keys))
	for i, k := range keys {
		rank[k] = i
	}
	return rank
}

// CoverageFrame renders TimeCheck results as a table with id, id_2 and incomplete columns
func CoverageFrame(results []PairCoverage) dataframe.DataFrame {
	ids := make([]string, len(results))
	ids2 := make([]string, len(results))
	flags := make([]bool, len(results))
	for i, r := range results {
		ids[i], ids2[i], flags[i] = r.ID, r.ID2, r.Incomplete
	}
	return dataframe.New(
		series.New(ids, series.String, ColID),
		series.New(ids2, series.String, ColID2),
		series.New(flags, series.Bool, "incomplete"),
	)
}
