package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/sarchlab/scanrt/programs"
	"github.com/spf13/cobra"
)

var programsCmd = &cobra.Command{
	Use:   "programs",
	Short: "List the built-in programs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

		for _, name := range programs.Names() {
			fmt.Fprintf(w, "%s\t%s\n", name, programs.Description(name))
		}

		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(programsCmd)
}
