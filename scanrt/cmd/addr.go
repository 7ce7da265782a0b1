package cmd

import (
	"errors"
	"fmt"

	"github.com/sarchlab/scanrt/memimage"
	"github.com/sarchlab/scanrt/programs"
	"github.com/spf13/cobra"
)

var addrProgram string

var addrCmd = &cobra.Command{
	Use:   "addr [address or symbol]...",
	Short: "Check addresses and resolve program symbols",
	Long: `Check that each argument is a valid address such as I0.3, QB0 or ` +
		`M106.1 and print it in canonical form. With --program, arguments ` +
		`may also be symbols of that program.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var symbols *memimage.SymbolTable

		if addrProgram != "" {
			img, err := memimage.New(memimage.DefaultLayout)
			if err != nil {
				return err
			}

			p, err := programs.Build(addrProgram, img, nil)
			if err != nil {
				return err
			}

			symbols = p.Symbols
		}

		var errs []error

		for _, arg := range args {
			a, err := resolveAddr(arg, symbols)
			if err != nil {
				errs = append(errs, err)
				continue
			}

			kind := "bit"
			if a.IsByte() {
				kind = "byte"
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", arg, a, kind)
		}

		return errors.Join(errs...)
	},
}

func resolveAddr(arg string, symbols *memimage.SymbolTable) (memimage.Addr, error) {
	if symbols != nil {
		if a, ok := symbols.Lookup(arg); ok {
			return a, nil
		}
	}

	return memimage.ParseAddr(arg)
}

func init() {
	addrCmd.Flags().StringVarP(&addrProgram, "program", "p", "",
		"resolve symbols of this program")
	rootCmd.AddCommand(addrCmd)
}
