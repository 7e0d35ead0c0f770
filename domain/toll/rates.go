package toll

import (
	"tollkit/internal/errors"
	"tollkit/internal/frame"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Columns added by CalculateTimeBasedTollRates
const (
	ColStartDay  = "start_day"
	ColStartTime = "start_time"
	ColEndDay    = "end_day"
	ColEndTime   = "end_time"
)

// VehicleRate is the toll charged per unit of distance for one vehicle class
type VehicleRate struct {
	Vehicle string
	Rate    float64
}

// VehicleRates lists the vehicle classes in output column order
var VehicleRates = []VehicleRate{
	{Vehicle: "moto", Rate: 0.8},
	{Vehicle: "car", Rate: 1.2},
	{Vehicle: "rv", Rate: 1.5},
	{Vehicle: "bus", Rate: 2.2},
	{Vehicle: "truck", Rate: 3.6},
}

// TimeWindow is a span of one day sharing a discount factor
type TimeWindow struct {
	Day    string
	Start  string
	End    string
	Factor float64
}

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
var weekendDays = []string{"Saturday", "Sunday"}

// TimeWindows returns every window of the week, Monday first
func TimeWindows() []TimeWindow {
	var windows []TimeWindow
	for _, day := range weekdays {
		windows = append(windows,
			TimeWindow{Day: day, Start: "00:00:00", End: "10:00:00", Factor: 0.8},
			TimeWindow{Day: day, Start: "10:00:00", End: "18:00:00", Factor: 1.2},
			TimeWindow{Day: day, Start: "18:00:00", End: "23:59:59", Factor: 0.8},
		)
	}
	for _, day := range weekendDays {
		windows = append(windows, TimeWindow{Day: day, Start: "00:00:00", End: "23:59:59", Factor: 0.7})
	}
	return windows
}

// CalculateTollRate replaces the distance column with one toll column per
// vehicle class, each the distance times that class's rate.
func CalculateTollRate(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	distances, err := frame.Floats(df, ColDistance)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, "toll rate")
	}

	out := df.Copy()
	for _, vr := range VehicleRates {
		tolls := make([]float64, len(distances))
		for i, d := range distances {
			tolls[i] = d * vr.Rate
		}
		out = out.Mutate(series.New(tolls, series.Float, vr.Vehicle))
	}
	out = out.Drop(ColDistance)

	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.InvalidInput(out.Err.Error()), "toll rate")
	}
	return out, nil
}

// CalculateTimeBasedTollRates expands every toll row into one row per
// TimeWindow, scaling each vehicle toll by the window's factor. The day and
// time columns follow id_start and id_end; other columns keep their order.
// No rows in gives an empty table with the expanded columns.
func CalculateTimeBasedTollRates(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	required := []string{ColIDStart, ColIDEnd}
	for _, vr := range VehicleRates {
		required = append(required, vr.Vehicle)
	}
	if err := frame.RequireColumns(df, required...); err != nil {
		return dataframe.DataFrame{}, errors.Wrap(err, "time based toll rate")
	}
	order := expandedOrder(df)
	if df.Nrow() == 0 {
		return emptyExpanded(df, order), nil
	}

	windows := TimeWindows()
	n := df.Nrow() * len(windows)
	rows := make([]int, 0, n)
	startDays := make([]string, 0, n)
	startTimes := make([]string, 0, n)
	endDays := make([]string, 0, n)
	endTimes := make([]string, 0, n)
	factors := make([]float64, 0, n)

	for i := 0; i < df.Nrow(); i++ {
		for _, w := range windows {
			rows = append(rows, i)
			startDays = append(startDays, w.Day)
			startTimes = append(startTimes, w.Start)
			endDays = append(endDays, w.Day)
			endTimes = append(endTimes, w.End)
			factors = append(factors, w.Factor)
		}
	}

	out := df.Subset(rows)
	for _, vr := range VehicleRates {
		tolls, err := frame.Floats(out, vr.Vehicle)
		if err != nil {
			return dataframe.DataFrame{}, errors.Wrap(err, "time based toll rate")
		}
		for i := range tolls {
			tolls[i] *= factors[i]
		}
		out = out.Mutate(series.New(tolls, series.Float, vr.Vehicle))
	}
	out = out.
		Mutate(series.New(startDays, series.String, ColStartDay)).
		Mutate(series.New(startTimes, series.String, ColStartTime)).
		Mutate(series.New(endDays, series.String, ColEndDay)).
		Mutate(series.New(endTimes, series.String, ColEndTime))

	out = out.Select(order)

	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(errors.InvalidInput(out.Err.Error()), "time based toll rate")
	}
	return out, nil
}

// expandedOrder lists the ids, the window columns, any extra input columns
// and then the vehicle tolls
func expandedOrder(df dataframe.DataFrame) []string {
	order := []string{ColIDStart, ColIDEnd, ColStartDay, ColStartTime, ColEndDay, ColEndTime}
	vehicles := make(map[string]bool, len(VehicleRates))
	for _, vr := range VehicleRates {
		vehicles[vr.Vehicle] = true
	}
	for _, name := range df.Names() {
		if name != ColIDStart && name != ColIDEnd && !vehicles[name] {
			order = append(order, name)
		}
	}
	for _, vr := range VehicleRates {
		order = append(order, vr.Vehicle)
	}
	return order
}

func emptyExpanded(df dataframe.DataFrame, order []string) dataframe.DataFrame {
	present := make(map[string]bool, df.Ncol())
	for _, name := range df.Names() {
		present[name] = true
	}

	columns := make([]series.Series, 0, len(order))
	for _, name := range order {
		switch {
		case name == ColStartDay || name == ColStartTime || name == ColEndDay || name == ColEndTime:
			columns = append(columns, series.New([]string{}, series.String, name))
		case present[name]:
			columns = append(columns, series.New([]string{}, df.Col(name).Type(), name))
		default:
			columns = append(columns, series.New([]float64{}, series.Float, name))
		}
	}
	return dataframe.New(columns...)
}
