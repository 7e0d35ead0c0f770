package excel

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tollkit/internal/errors"
	"tollkit/internal/testkit"

	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadFrame_CSV(t *testing.T) {
	path := writeFile(t, "dataset-1.csv", testkit.Dataset1CSV)

	df, err := NewDataReader(path, DefaultReaderConfig()).ReadFrame()
	require.NoError(t, err)

	assert.Equal(t, 6, df.Nrow())
	assert.Equal(t, []string{"id_1", "id_2", "route", "moto", "car", "rv", "bus", "truck"}, df.Names())
	assert.Equal(t, []float64{10, 20, 30, 15, 26, 25}, df.Col("car").Float())
}

func TestReadFrame_UnnamedIndexColumn(t *testing.T) {
	path := writeFile(t, "matrix.csv", ",1,2\n1,0,3\n2,3,0\n")

	df, err := NewDataReader(path, DefaultReaderConfig()).ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []string{"Unnamed: 0", "1", "2"}, df.Names())
}

func TestReadFrame_TextColumns(t *testing.T) {
	path := writeFile(t, "dataset-2.csv", testkit.Dataset2CSV)

	df, err := NewDataReader(path, CoverageReaderConfig()).ReadFrame()
	require.NoError(t, err)

	assert.Equal(t, series.String, df.Col("startTime").Type())
	assert.Equal(t, "00:00:00", df.Col("startTime").Records()[0])
}

func TestReadFrame_RaggedRowsArePadded(t *testing.T) {
	path := writeFile(t, "ragged.csv", "a,b,c\n1,2\n3,4,5\n")

	df, err := NewDataReader(path, DefaultReaderConfig()).ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 2, df.Nrow())
	assert.Equal(t, 3, df.Ncol())
}

func TestReadFrame_HeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "a,b\n")

	_, err := NewDataReader(path, DefaultReaderConfig()).ReadFrame()
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
}

func TestReadFrame_MissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "nope.xlsx"), DefaultReaderConfig()).ReadFrame()
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestWriteFrame_ExcelRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset-3.xlsx")
	require.NoError(t, WriteFrame(path, testkit.Dataset3()))

	df, err := NewDataReader(path, DefaultReaderConfig()).ReadFrame()
	require.NoError(t, err)

	assert.Equal(t, []string{"id_start", "id_end", "distance"}, df.Names())
	assert.Equal(t, []string{"1001400", "1001402", "1001404", "1001406"}, df.Col("id_start").Records())
	assert.InDeltaSlice(t, []float64{9.7, 20.2, 16, 21.7}, df.Col("distance").Float(), 1e-9)
}

func TestWriteSheet_NamedSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rates.xlsx")
	require.NoError(t, WriteSheet(path, "toll-rate", testkit.Dataset3()))

	df, err := NewDataReader(path, ReaderConfig{Sheet: "toll-rate"}).ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 4, df.Nrow())
}

func TestWriteFrame_CSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteFrame(path, testkit.Dataset1()))

	df, err := NewDataReader(path, DefaultReaderConfig()).ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, testkit.Dataset1().Records(), df.Records())
}

func TestWriteTable_ExtensionIgnoresCase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "OUT.CSV")
	require.NoError(t, WriteTable(path, "ignored", testkit.Dataset1()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "id_1,id_2,route,"))

	xlsx := filepath.Join(t.TempDir(), "out.XLSX")
	require.NoError(t, WriteTable(xlsx, "rates", testkit.Dataset3()))
	df, err := NewDataReader(xlsx, ReaderConfig{Sheet: "rates"}).ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, 4, df.Nrow())
}

func TestWriteTable_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	err := WriteTable(path, DefaultSheet, testkit.Dataset1())
	require.Error(t, err)
	assert.Equal(t, errors.CodeInvalidInput, errors.GetCode(err))
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestNormalizeHeaders(t *testing.T) {
	assert.Equal(t, []string{"Unnamed: 0", "id", "Unnamed: 2"}, NormalizeHeaders([]string{"", " id ", " "}))
}
