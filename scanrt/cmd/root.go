// Package cmd provides the command-line interface of scanrt.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scanrt",
	Short: "scanrt runs cyclic controller programs over a process image.",
	Long: `scanrt runs cyclic controller programs over a process image. ` +
		`Each cycle reads the inputs, steps every station once and commits ` +
		`the outputs. The run command drives a built-in program from an I/O ` +
		`script or an idle in-memory plant.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It exits through atexit so that recorders get flushed.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
