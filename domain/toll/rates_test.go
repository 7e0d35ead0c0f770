package toll

import (
	"testing"

	"tollkit/internal/errors"
	"tollkit/internal/frame"
	"tollkit/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateTollRate(t *testing.T) {
	df := testkit.FromCSV("id_start,id_end,distance\n1,2,10\n2,3,2.5\n")

	rates, err := CalculateTollRate(df)
	require.NoError(t, err)

	assert.Equal(t, []string{"id_start", "id_end", "moto", "car", "rv", "bus", "truck"}, rates.Names())
	want := map[string][]float64{
		"moto":  {8, 2},
		"car":   {12, 3},
		"rv":    {15, 3.75},
		"bus":   {22, 5.5},
		"truck": {36, 9},
	}
	for vehicle, values := range want {
		got := rates.Col(vehicle).Float()
		require.Len(t, got, len(values))
		for i := range values {
			assert.InDelta(t, values[i], got[i], 1e-9, "%s row %d", vehicle, i)
		}
	}

	assert.Equal(t, []string{"id_start", "id_end", "distance"}, df.Names(), "input must not change")
}

func TestCalculateTollRate_MissingDistance(t *testing.T) {
	_, err := CalculateTollRate(testkit.FromCSV("id_start,id_end\n1,2\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestTimeWindows(t *testing.T) {
	windows := TimeWindows()
	require.Len(t, windows, 17)

	assert.Equal(t, TimeWindow{Day: "Monday", Start: "00:00:00", End: "10:00:00", Factor: 0.8}, windows[0])
	assert.Equal(t, TimeWindow{Day: "Monday", Start: "10:00:00", End: "18:00:00", Factor: 1.2}, windows[1])
	assert.Equal(t, TimeWindow{Day: "Sunday", Start: "00:00:00", End: "23:59:59", Factor: 0.7}, windows[16])
}

func TestCalculateTimeBasedTollRates(t *testing.T) {
	rates, err := CalculateTollRate(testkit.FromCSV("id_start,id_end,distance\n1,2,10\n2,3,20\n"))
	require.NoError(t, err)

	expanded, err := CalculateTimeBasedTollRates(rates)
	require.NoError(t, err)

	assert.Equal(t, 2*17, expanded.Nrow())
	assert.Equal(t, []string{
		"id_start", "id_end", "start_day", "start_time", "end_day", "end_time",
		"moto", "car", "rv", "bus", "truck",
	}, expanded.Names())

	days := expanded.Col(ColStartDay).Records()
	assert.Equal(t, days, expanded.Col(ColEndDay).Records())
	assert.Equal(t, "Monday", days[0])
	assert.Equal(t, "Sunday", days[16])
	assert.Equal(t, "Monday", days[17])

	cars := expanded.Col("car").Float()
	assert.InDelta(t, 12*0.8, cars[0], 1e-9)  // Monday morning
	assert.InDelta(t, 12*1.2, cars[1], 1e-9)  // Monday daytime
	assert.InDelta(t, 12*0.7, cars[16], 1e-9) // Sunday
	assert.InDelta(t, 24*1.2, cars[18], 1e-9) // second pair, Monday daytime

	starts := expanded.Col(ColIDStart).Records()
	assert.Equal(t, "1", starts[16])
	assert.Equal(t, "2", starts[17])
}

func TestCalculateTimeBasedTollRates_KeepsExtraColumns(t *testing.T) {
	df := testkit.FromCSV("id_start,id_end,route,moto,car,rv,bus,truck\n1,2,A9,1,1,1,1,1\n")

	expanded, err := CalculateTimeBasedTollRates(df)
	require.NoError(t, err)

	assert.Equal(t, "route", expanded.Names()[6])
	assert.Equal(t, "A9", expanded.Col("route").Records()[5])
}

func TestCalculateTimeBasedTollRates_RequiresVehicleColumns(t *testing.T) {
	_, err := CalculateTimeBasedTollRates(testkit.FromCSV("id_start,id_end,distance\n1,2,3\n"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestCalculateTimeBasedTollRates_NoRows(t *testing.T) {
	rates, err := CalculateTollRate(UnrollDistanceMatrix(frame.NewMatrix(nil, nil)))
	require.NoError(t, err)
	require.Zero(t, rates.Nrow())

	expanded, err := CalculateTimeBasedTollRates(rates)
	require.NoError(t, err)
	assert.Zero(t, expanded.Nrow())
	assert.Equal(t, []string{
		"id_start", "id_end", "start_day", "start_time", "end_day", "end_time",
		"moto", "car", "rv", "bus", "truck",
	}, expanded.Names())
}
