// Package report runs every vehicle and toll transform over the three
// datasets and renders the results as markdown or HTML.
package report

import (
	"context"
	"math"

	"tollkit/adapters/excel"
	"tollkit/domain/toll"
	"tollkit/domain/vehicle"
	"tollkit/internal"
	"tollkit/internal/config"
	"tollkit/internal/errors"
	"tollkit/internal/frame"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
)

// Inputs are the loaded datasets a report is built from
type Inputs struct {
	Vehicles    dataframe.DataFrame // dataset-1
	Coverage    dataframe.DataFrame // dataset-2
	Distances   dataframe.DataFrame // dataset-3
	ReferenceID string
}

// Report holds the output of every transform
type Report struct {
	ReferenceID string

	CarMatrix    *frame.Matrix
	ScaledMatrix *frame.Matrix
	TypeCounts   vehicle.TypeCounts
	BusIndexes   []int
	Routes       []string
	Coverage     []vehicle.PairCoverage

	DistanceMatrix *frame.Matrix
	Unrolled       dataframe.DataFrame
	MatrixMass     float64 // sum of the finite distance matrix cells
	UnrolledMass   float64 // sum of the unrolled distance column
	NearReference  []string
	TollRates      dataframe.DataFrame
	TimeBasedRates dataframe.DataFrame
}

// LoadInputs reads the three configured datasets in parallel
func LoadInputs(ctx context.Context, cfg *config.Config) (Inputs, error) {
	inputs := Inputs{ReferenceID: cfg.Data.ReferenceID}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		df, err := excel.NewDataReader(cfg.Data.Dataset1File, excel.DefaultReaderConfig()).ReadFrame()
		if err != nil {
			return errors.Wrap(err, "dataset-1")
		}
		inputs.Vehicles = df
		return nil
	})
	g.Go(func() error {
		df, err := excel.NewDataReader(cfg.Data.Dataset2File, excel.CoverageReaderConfig()).ReadFrame()
		if err != nil {
			return errors.Wrap(err, "dataset-2")
		}
		inputs.Coverage = df
		return nil
	})
	g.Go(func() error {
		df, err := excel.NewDataReader(cfg.Data.Dataset3File, excel.DefaultReaderConfig()).ReadFrame()
		if err != nil {
			return errors.Wrap(err, "dataset-3")
		}
		inputs.Distances = df
		return nil
	})

	if err := g.Wait(); err != nil {
		return Inputs{}, err
	}
	return inputs, nil
}

// Build runs every transform; the first failing transform aborts the report
func Build(in Inputs) (*Report, error) {
	logger := internal.DefaultLogger.WithComponent("Report")
	r := &Report{ReferenceID: in.ReferenceID}
	var err error

	if r.CarMatrix, err = vehicle.GenerateCarMatrix(in.Vehicles); err != nil {
		return nil, err
	}
	r.ScaledMatrix = vehicle.MultiplyMatrix(r.CarMatrix)
	if r.TypeCounts, err = vehicle.GetTypeCount(in.Vehicles); err != nil {
		return nil, err
	}
	if r.BusIndexes, err = vehicle.GetBusIndexes(in.Vehicles); err != nil {
		return nil, err
	}
	if r.Routes, err = vehicle.FilterRoutes(in.Vehicles); err != nil {
		return nil, err
	}
	if r.Coverage, err = vehicle.TimeCheck(in.Coverage); err != nil {
		return nil, err
	}
	logger.Info("vehicle transforms done (%d rows, %d coverage pairs)", in.Vehicles.Nrow(), len(r.Coverage))

	if r.DistanceMatrix, err = toll.CalculateDistanceMatrix(in.Distances); err != nil {
		return nil, err
	}
	r.Unrolled = toll.UnrollDistanceMatrix(r.DistanceMatrix)
	r.MatrixMass = r.DistanceMatrix.Sum()
	r.UnrolledMass = floats.Sum(r.Unrolled.Col(toll.ColDistance).Float())
	if !r.MassConserved() {
		logger.Warn("unrolled distances sum to %.3f, matrix sums to %.3f", r.UnrolledMass, r.MatrixMass)
	}
	if r.NearReference, err = toll.FindIDsWithinTenPercentageThreshold(r.Unrolled, in.ReferenceID); err != nil {
		return nil, err
	}
	if r.TollRates, err = toll.CalculateTollRate(r.Unrolled); err != nil {
		return nil, err
	}
	if r.TimeBasedRates, err = toll.CalculateTimeBasedTollRates(r.TollRates); err != nil {
		return nil, err
	}
	logger.Info("toll transforms done (%d locations, %d time-based rows)", len(r.DistanceMatrix.RowKeys), r.TimeBasedRates.Nrow())

	return r, nil
}

// MassConserved reports whether unrolling kept every non-zero distance
func (r *Report) MassConserved() bool {
	return math.Abs(r.MatrixMass-r.UnrolledMass) <= massTolerance*math.Max(1, math.Abs(r.MatrixMass))
}

const massTolerance = 1e-9
