package testkit

import (
	"strings"

	"github.com/go-gota/gota/dataframe"
)

// Dataset1CSV is a small toll-booth traffic sample in the dataset-1 layout.
// Expected results:
//   - car types: low 2, medium 2, high 2
//   - bus mean 26/6, so only row 2 (bus = 18) exceeds twice the mean
//   - mean truck per route: 11 -> 7, 12 -> 7.5, 13 -> 7
const Dataset1CSV = `id_1,id_2,route,moto,car,rv,bus,truck
801,802,11,3,10,2,1,5
801,803,11,4,20,3,2,9
802,801,12,2,30,1,18,12
802,803,12,1,15,2,3,3
803,801,13,5,26,4,0,8
803,802,13,6,25,5,2,6
`

// Dataset2CSV holds weekly coverage intervals per (id, id_2) pair.
//   - 1040000 covers the week in one interval
//   - 1040010 misses Sunday
//   - 1040020 only covers Monday morning
//   - 1040030 covers the week across two back-to-back intervals
//   - 1040040 covers the week with an interval that wraps past Sunday
const Dataset2CSV = `id,name,id_2,startDay,startTime,endDay,endTime
1040000,Montgomery,-1,Monday,00:00:00,Sunday,23:59:59
1040010,Jackson,-1,Monday,00:00:00,Wednesday,23:59:59
1040010,Jackson,-1,Thursday,00:00:00,Saturday,23:59:59
1040020,Lafayette,-1,Monday,05:00:00,Monday,10:00:00
1040030,Hamilton,-1,Monday,00:00:00,Thursday,12:00:00
1040030,Hamilton,-1,Thursday,12:00:01,Sunday,23:59:59
1040040,Madison,-1,Wednesday,00:00:00,Tuesday,23:59:59
`

// Dataset3CSV is a chain of toll locations with the distance between neighbours
const Dataset3CSV = `id_start,id_end,distance
1001400,1001402,9.7
1001402,1001404,20.2
1001404,1001406,16.0
1001406,1001408,21.7
`

// Dataset1 loads Dataset1CSV
func Dataset1() dataframe.DataFrame {
	return dataframe.ReadCSV(strings.NewReader(Dataset1CSV))
}

// Dataset2 loads Dataset2CSV with every column kept as text
func Dataset2() dataframe.DataFrame {
	return dataframe.ReadCSV(strings.NewReader(Dataset2CSV), dataframe.DetectTypes(false))
}

// Dataset3 loads Dataset3CSV
func Dataset3() dataframe.DataFrame {
	return dataframe.ReadCSV(strings.NewReader(Dataset3CSV))
}

// FromCSV loads an ad hoc CSV fixture
func FromCSV(csv string) dataframe.DataFrame {
	return dataframe.ReadCSV(strings.NewReader(csv))
}
