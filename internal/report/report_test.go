package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tollkit/domain/vehicle"
	"tollkit/internal/config"
	"tollkit/internal/errors"
	"tollkit/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInputs() Inputs {
	return Inputs{
		Vehicles:    testkit.Dataset1(),
		Coverage:    testkit.Dataset2(),
		Distances:   testkit.Dataset3(),
		ReferenceID: "1001400",
	}
}

func TestBuild(t *testing.T) {
	r, err := Build(sampleInputs())
	require.NoError(t, err)

	assert.Equal(t, vehicle.TypeCounts{"low": 2, "medium": 2, "high": 2}, r.TypeCounts)
	assert.Equal(t, []int{2}, r.BusIndexes)
	assert.Equal(t, []string{"12"}, r.Routes)
	assert.Len(t, r.Coverage, 5)
	assert.Equal(t, []string{"1001400"}, r.NearReference)
	assert.Equal(t, 20, r.Unrolled.Nrow())
	assert.Equal(t, 20, r.TollRates.Nrow())
	assert.Equal(t, 20*17, r.TimeBasedRates.Nrow())

	assert.Greater(t, r.MatrixMass, 0.0)
	assert.InDelta(t, r.MatrixMass, r.UnrolledMass, 1e-9)
	assert.True(t, r.MassConserved())
}

func TestMassConserved(t *testing.T) {
	r := &Report{MatrixMass: 10, UnrolledMass: 10}
	assert.True(t, r.MassConserved())

	r.UnrolledMass = 9.5
	assert.False(t, r.MassConserved())
}

func TestBuild_UnknownReference(t *testing.T) {
	in := sampleInputs()
	in.ReferenceID = "42"

	_, err := Build(in)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestMarkdown(t *testing.T) {
	r, err := Build(sampleInputs())
	require.NoError(t, err)

	md := r.Markdown()
	assert.True(t, strings.HasPrefix(md, "# Toll dataset report\n"))
	assert.Contains(t, md, "| type | count |\n")
	assert.Contains(t, md, "| high | 2 |\n")
	assert.Contains(t, md, "| 1040010 | -1 | true |\n")
	assert.Contains(t, md, "## Ids within 10% of 1001400")
	assert.Contains(t, md, "_10 of 340 rows shown_")
	assert.Contains(t, md, "conserved: true")
}

func TestHTML(t *testing.T) {
	r, err := Build(sampleInputs())
	require.NoError(t, err)

	page := string(r.HTML())
	assert.Contains(t, page, "<title>Toll dataset report</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<h2")
}

func TestTable_Empty(t *testing.T) {
	assert.Equal(t, "_none_\n", table([]string{"a"}, nil))
	assert.Equal(t, "_none_\n", list(nil))
}

func TestLoadInputs(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"dataset-1.csv": testkit.Dataset1CSV,
		"dataset-2.csv": testkit.Dataset2CSV,
		"dataset-3.csv": testkit.Dataset3CSV,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	cfg := &config.Config{Data: config.DataConfig{
		Dataset1File: filepath.Join(dir, "dataset-1.csv"),
		Dataset2File: filepath.Join(dir, "dataset-2.csv"),
		Dataset3File: filepath.Join(dir, "dataset-3.csv"),
		ReferenceID:  "1001402",
	}}

	in, err := LoadInputs(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, 6, in.Vehicles.Nrow())
	assert.Equal(t, 7, in.Coverage.Nrow())
	assert.Equal(t, 4, in.Distances.Nrow())
	assert.Equal(t, "1001402", in.ReferenceID)

	cfg.Data.Dataset2File = filepath.Join(dir, "missing.csv")
	_, err = LoadInputs(context.Background(), cfg)
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}
