package main

import (
	"fmt"
	"log"
	"os"

	"tollkit/internal"
	"tollkit/internal/config"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		internal.DefaultLogger.Error("%v", err)
		os.Exit(1)
	}
}

// cliState is shared by every subcommand once the root command has loaded configuration
type cliState struct {
	cfg    *config.Config
	output string
}

func newRootCmd() *cobra.Command {
	state := &cliState{}

	rootCmd := &cobra.Command{
		Use:           "tollkit",
		Short:         "Vehicle and toll dataset transforms",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil {
				log.Println("No .env file found, using system environment variables")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			internal.DefaultLogger.SetLevel(internal.ParseLogLevel(cfg.Logging.Level))
			state.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&state.output, "output", "o", "", "Write the result to a .csv or .xlsx file instead of stdout")

	rootCmd.AddCommand(
		newCarMatrixCmd(state),
		newMultiplyMatrixCmd(state),
		newTypeCountCmd(state),
		newBusIndexesCmd(state),
		newFilterRoutesCmd(state),
		newTimeCheckCmd(state),
		newDistanceMatrixCmd(state),
		newUnrollCmd(state),
		newWithinThresholdCmd(state),
		newTollRateCmd(state),
		newTimeBasedTollRateCmd(state),
		newReportCmd(state),
	)

	return rootCmd
}
