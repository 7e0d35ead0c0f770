package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"tollkit/adapters/excel"
	"tollkit/domain/toll"
	"tollkit/domain/vehicle"
	"tollkit/internal/frame"
	"tollkit/internal/report"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/spf13/cobra"
)

func pick(flagValue, fallback string) string {
	if flagValue != "" {
		return flagValue
	}
	return fallback
}

// emitFrame writes df to --output when set, otherwise to stdout as CSV
func (s *cliState) emitFrame(cmd *cobra.Command, sheet string, df dataframe.DataFrame) error {
	if s.output == "" {
		return df.WriteCSV(cmd.OutOrStdout())
	}
	return excel.WriteTable(s.output, sheet, df)
}

func (s *cliState) emitList(cmd *cobra.Command, sheet, column string, items []string) error {
	return s.emitFrame(cmd, sheet, dataframe.New(series.New(items, series.String, column)))
}

func (s *cliState) readVehicles(input string) (dataframe.DataFrame, error) {
	return excel.NewDataReader(pick(input, s.cfg.Data.Dataset1File), excel.DefaultReaderConfig()).ReadFrame()
}

func (s *cliState) readDistances(input string) (dataframe.DataFrame, error) {
	return excel.NewDataReader(pick(input, s.cfg.Data.Dataset3File), excel.DefaultReaderConfig()).ReadFrame()
}

func (s *cliState) carMatrix(input string) (*frame.Matrix, error) {
	df, err := s.readVehicles(input)
	if err != nil {
		return nil, err
	}
	return vehicle.GenerateCarMatrix(df)
}

func (s *cliState) unrolled(input string) (dataframe.DataFrame, error) {
	df, err := s.readDistances(input)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	m, err := toll.CalculateDistanceMatrix(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return toll.UnrollDistanceMatrix(m), nil
}

func newCarMatrixCmd(s *cliState) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "car-matrix",
		Short: "Pivot dataset-1 car counts into an id_1 by id_2 matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.carMatrix(input)
			if err != nil {
				return err
			}
			return s.emitFrame(cmd, cmd.Name(), m.DataFrame(vehicle.ColID1))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-1 file (defaults to DATASET_1_FILE)")
	return cmd
}

func newMultiplyMatrixCmd(s *cliState) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "multiply-matrix",
		Short: "Scale the car matrix by 0.75 above 20 and 1.25 otherwise",
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := s.carMatrix(input)
			if err != nil {
				return err
			}
			return s.emitFrame(cmd, cmd.Name(), vehicle.MultiplyMatrix(m).DataFrame(vehicle.ColID1))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-1 file (defaults to DATASET_1_FILE)")
	return cmd
}

func newTypeCountCmd(s *cliState) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "type-count",
		Short: "Count dataset-1 rows per car type (low, medium, high)",
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := s.readVehicles(input)
			if err != nil {
				return err
			}
			counts, err := vehicle.GetTypeCount(df)
			if err != nil {
				return err
			}
			keys := counts.Keys()
			values := make([]int, len(keys))
			for i, k := range keys {
				values[i] = counts[k]
			}
			return s.emitFrame(cmd, cmd.Name(), dataframe.New(
				series.New(keys, series.String, "type"),
				series.New(values, series.Int, "count"),
			))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-1 file (defaults to DATASET_1_FILE)")
	return cmd
}

func newBusIndexesCmd(s *cliState) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "bus-indexes",
		Short: "List dataset-1 rows whose bus value exceeds twice the mean",
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := s.readVehicles(input)
			if err != nil {
				return err
			}
			indexes, err := vehicle.GetBusIndexes(df)
			if err != nil {
				return err
			}
			items := make([]string, len(indexes))
			for i, v := range indexes {
				items[i] = strconv.Itoa(v)
			}
			return s.emitList(cmd, cmd.Name(), "index", items)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-1 file (defaults to DATASET_1_FILE)")
	return cmd
}

func newFilterRoutesCmd(s *cliState) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "filter-routes",
		Short: "List routes whose mean truck value is above 7",
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := s.readVehicles(input)
			if err != nil {
				return err
			}
			routes, err := vehicle.FilterRoutes(df)
			if err != nil {
				return err
			}
			return s.emitList(cmd, cmd.Name(), vehicle.ColRoute, routes)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-1 file (defaults to DATASET_1_FILE)")
	return cmd
}

func newTimeCheckCmd(s *cliState) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "time-check",
		Short: "Flag (id, id_2) pairs whose intervals do not cover the full week",
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := excel.NewDataReader(pick(input, s.cfg.Data.Dataset2File), excel.CoverageReaderConfig()).ReadFrame()
			if err != nil {
				return err
			}
			results, err := vehicle.TimeCheck(df)
			if err != nil {
				return err
			}
			return s.emitFrame(cmd, cmd.Name(), vehicle.CoverageFrame(results))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-2 file (defaults to DATASET_2_FILE)")
	return cmd
}

func newDistanceMatrixCmd(s *cliState) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "distance-matrix",
		Short: "Build the cumulative distance matrix between toll locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			df, err := s.readDistances(input)
			if err != nil {
				return err
			}
			m, err := toll.CalculateDistanceMatrix(df)
			if err != nil {
				return err
			}
			return s.emitFrame(cmd, cmd.Name(), m.DataFrame("id"))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-3 file (defaults to DATASET_3_FILE)")
	return cmd
}

func newUnrollCmd(s *cliState) *cobra.Command {
	var input, wide, index string
	cmd := &cobra.Command{
		Use:   "unroll",
		Short: "Unroll a distance matrix into id_start, id_end, distance rows",
		Long: `Unroll a distance matrix into id_start, id_end, distance rows.

By default the matrix is computed from dataset-3. With --wide an existing
wide-form matrix file is unrolled instead; --index names its row key column.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if wide == "" {
				long, err := s.unrolled(input)
				if err != nil {
					return err
				}
				return s.emitFrame(cmd, cmd.Name(), long)
			}

			df, err := excel.NewDataReader(wide, excel.DefaultReaderConfig()).ReadFrame()
			if err != nil {
				return err
			}
			m, err := frame.MatrixFromDataFrame(df, index)
			if err != nil {
				return err
			}
			return s.emitFrame(cmd, cmd.Name(), toll.UnrollDistanceMatrix(m))
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-3 file (defaults to DATASET_3_FILE)")
	cmd.Flags().StringVar(&wide, "wide", "", "Wide-form matrix file to unroll instead of dataset-3")
	cmd.Flags().StringVar(&index, "index", "Unnamed: 0", "Row key column of the --wide matrix")
	return cmd
}

func newWithinThresholdCmd(s *cliState) *cobra.Command {
	var input, reference string
	cmd := &cobra.Command{
		Use:   "within-threshold",
		Short: "List ids whose average distance is within 10% of the reference id",
		RunE: func(cmd *cobra.Command, args []string) error {
			long, err := s.unrolled(input)
			if err != nil {
				return err
			}
			ids, err := toll.FindIDsWithinTenPercentageThreshold(long, pick(reference, s.cfg.Data.ReferenceID))
			if err != nil {
				return err
			}
			return s.emitList(cmd, cmd.Name(), toll.ColIDStart, ids)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-3 file (defaults to DATASET_3_FILE)")
	cmd.Flags().StringVar(&reference, "reference", "", "Reference id_start (defaults to REFERENCE_ID)")
	return cmd
}

func newTollRateCmd(s *cliState) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "toll-rate",
		Short: "Compute per-vehicle toll rates for every unrolled distance",
		RunE: func(cmd *cobra.Command, args []string) error {
			long, err := s.unrolled(input)
			if err != nil {
				return err
			}
			rates, err := toll.CalculateTollRate(long)
			if err != nil {
				return err
			}
			return s.emitFrame(cmd, cmd.Name(), rates)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-3 file (defaults to DATASET_3_FILE)")
	return cmd
}

func newTimeBasedTollRateCmd(s *cliState) *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "time-based-toll-rate",
		Short: "Expand toll rates over the weekly time windows",
		RunE: func(cmd *cobra.Command, args []string) error {
			long, err := s.unrolled(input)
			if err != nil {
				return err
			}
			rates, err := toll.CalculateTollRate(long)
			if err != nil {
				return err
			}
			expanded, err := toll.CalculateTimeBasedTollRates(rates)
			if err != nil {
				return err
			}
			return s.emitFrame(cmd, cmd.Name(), expanded)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "Dataset-3 file (defaults to DATASET_3_FILE)")
	return cmd
}

func newReportCmd(s *cliState) *cobra.Command {
	var asHTML, save bool
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Run every transform over the configured datasets and print a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := report.LoadInputs(cmd.Context(), s.cfg)
			if err != nil {
				return err
			}
			r, err := report.Build(inputs)
			if err != nil {
				return err
			}

			if save {
				if err := saveTables(s, r); err != nil {
					return err
				}
			}

			var body []byte
			if asHTML {
				body = r.HTML()
			} else {
				body = []byte(r.Markdown())
			}
			if s.output != "" {
				return os.WriteFile(s.output, body, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the report as HTML instead of markdown")
	cmd.Flags().BoolVar(&save, "save", false, "Also write every result table to OUTPUT_DIR in OUTPUT_FORMAT")
	return cmd
}

// saveTables writes the report's tables to the configured output directory
func saveTables(s *cliState, r *report.Report) error {
	if err := os.MkdirAll(s.cfg.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tables := []struct {
		name string
		df   dataframe.DataFrame
	}{
		{"car_matrix", r.CarMatrix.DataFrame(vehicle.ColID1)},
		{"car_matrix_scaled", r.ScaledMatrix.DataFrame(vehicle.ColID1)},
		{"time_check", vehicle.CoverageFrame(r.Coverage)},
		{"distance_matrix", r.DistanceMatrix.DataFrame("id")},
		{"unrolled_distances", r.Unrolled},
		{"toll_rates", r.TollRates},
		{"time_based_toll_rates", r.TimeBasedRates},
	}
	for _, t := range tables {
		path := filepath.Join(s.cfg.Output.Dir, t.name+"."+s.cfg.Output.Format)
		if err := excel.WriteFrame(path, t.df); err != nil {
			return err
		}
	}
	return nil
}
