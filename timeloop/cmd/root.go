// Package cmd provides the command-line interface for Timeloop.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/MainEpicenter/timeloop/config"
	"github.com/MainEpicenter/timeloop/idgen"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "timeloop",
	Short: "Timeloop evaluates and searches mappings of tensor workloads.",
	Long: `Timeloop evaluates the energy, area and cycles of a workload mapped ` +
		`onto an accelerator, and searches the mapping space for the best ` +
		`mapping.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		setupLogger(verbose)
		idgen.UseSequential()

		envFile, _ := cmd.Flags().GetString("env")

		return config.LoadEnv(envFile)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false,
		"Log the progress of the search.")
	rootCmd.PersistentFlags().String("env", ".env",
		"The file to load environment defaults from.")
}

func setupLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
