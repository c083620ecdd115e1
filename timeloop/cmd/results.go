package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MainEpicenter/timeloop/datarecording"
	"github.com/MainEpicenter/timeloop/mapper"
)

var resultsCmd = &cobra.Command{
	Use:   "results DB.sqlite3",
	Short: "List the best mappings stored by `mapper --record`.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workload, _ := cmd.Flags().GetString("workload")
		limit, _ := cmd.Flags().GetInt("limit")

		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		reader.MapTable(mapper.BestMappingTable, mapper.BestMappingEntry{})

		params := datarecording.QueryParams{
			OrderBy: "Workload ASC, Cost ASC",
			Limit:   limit,
		}

		if workload != "" {
			params.Where = "Workload = ?"
			params.Args = []any{workload}
		}

		rows, total, err := reader.Query(
			cmd.Context(), mapper.BestMappingTable, params)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw,
			"WORKLOAD\tID\tMETRIC\tCOST\tENERGY (pJ)\tCYCLES\tAREA (um^2)\tUTIL")

		for _, row := range rows {
			e := row.(*mapper.BestMappingEntry)
			fmt.Fprintf(tw, "%s\t%s\t%s\t%g\t%.2f\t%d\t%.2f\t%.2f\n",
				e.Workload, e.MappingID, e.Metric, e.Cost,
				e.Energy, e.Cycles, e.Area, e.Utilization)
		}

		err = tw.Flush()
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d results\n", len(rows), total)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(resultsCmd)
	resultsCmd.Flags().String("workload", "", "Only list this workload.")
	resultsCmd.Flags().Int("limit", 0, "The maximum number of rows. "+
		"0 lists all.")
}
