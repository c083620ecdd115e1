package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MainEpicenter/timeloop/config"
	"github.com/MainEpicenter/timeloop/mapper"
	"github.com/MainEpicenter/timeloop/mapspace"
)

var modelCmd = &cobra.Command{
	Use:   "model CONFIG.yaml",
	Short: "Evaluate one mapping of a workload.",
	Long: "`model CONFIG.yaml --id IF,LP,S,DB` evaluates the mapping with " +
		"the given mapping space ID and prints the cost of every level.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idString, _ := cmd.Flags().GetString("id")
		problemIndex, _ := cmd.Flags().GetInt("problem")

		id, err := mapspace.ParseID(idString)
		if err != nil {
			return err
		}

		cfg, err := config.Load(args[0])
		if err != nil {
			return err
		}

		specs, err := cfg.Specs()
		if err != nil {
			return err
		}

		workloads, err := cfg.Workloads()
		if err != nil {
			return err
		}

		if problemIndex < 0 || problemIndex >= len(workloads) {
			return fmt.Errorf("problem %d out of range [0, %d)",
				problemIndex, len(workloads))
		}

		workload := workloads[problemIndex]

		space, err := mapspace.MakeBuilder().
			WithSpecs(specs).
			WithWorkload(workload).
			Build()
		if err != nil {
			return err
		}

		m, err := space.ConstructMapping(id)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		m.PrettyPrint(out, specs.StorageLevelNames(), workload)
		fmt.Fprintln(out)

		topology, err := mapper.Evaluate(specs, workload, m)
		if err != nil {
			return err
		}

		topology.Report(out)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(modelCmd)
	modelCmd.Flags().String("id", "0,0,0,0",
		"The mapping space ID of the mapping, as IF,LP,S,DB.")
	modelCmd.Flags().Int("problem", 0,
		"The index of the problem in the configuration.")
}
