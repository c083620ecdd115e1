package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MainEpicenter/timeloop/config"
	"github.com/MainEpicenter/timeloop/model"
)

var validateCmd = &cobra.Command{
	Use:   "validate ARCH.yaml",
	Short: "Check an architecture and print the inferred fanouts.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		arch, err := config.LoadArch(args[0])
		if err != nil {
			return err
		}

		specs, err := model.ParseSpecs(arch.Storage, arch.Arithmetic)
		if err != nil {
			return err
		}

		printSpecs(cmd.OutOrStdout(), specs)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func printSpecs(w io.Writer, specs model.Specs) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "LEVEL\tINSTANCES\tMESH\tFANOUT\tSIZE")

	a := specs.ArithmeticLevel()
	fmt.Fprintf(tw, "%s\t%d\t%dx%d\t-\t-\n",
		a.Name, a.Instances.Get(), a.MeshX.GetOr(0), a.MeshY.GetOr(0))

	for i := 0; i < specs.NumStorageLevels(); i++ {
		b := specs.StorageLevel(i)
		slot, _ := b.Slots()

		size := "unbounded"
		if s := b.Size(slot); s.IsSpecified() {
			size = fmt.Sprintf("%d", s.Get())
		}

		fmt.Fprintf(tw, "%s\t%d\t%dx%d\t%d (%dx%d)\t%s\n",
			b.Name,
			b.Instances(slot).Get(),
			b.MeshX(slot).GetOr(0), b.MeshY(slot).GetOr(0),
			b.Fanout(slot).Get(), b.FanoutX(slot).Get(), b.FanoutY(slot).Get(),
			size)
	}
}
