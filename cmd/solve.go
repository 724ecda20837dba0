/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/notargets/condreg/shrinkage"
	"github.com/notargets/condreg/types"
	"github.com/spf13/cobra"
)

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Shrink a spectrum to a set of condition number bounds",
	Long: `
Computes the maximum likelihood shrinkage of a descending spectrum for each
target condition number and prints the clamped spectra.

condreg solve -e "10,5,2,1" -t "2,4,10"`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			L []float64
		)
		ip, err := processInput(cmd)
		if err != nil {
			return
		}
		if L, err = spectrumOf(ip); err != nil {
			return
		}
		return RunSolve(os.Stdout, L, ip.Targets, direction(ip))
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	addInputFlags(SolveCmd)
	SolveCmd.Flags().StringP("targets", "t", "", "condition number bounds, comma separated")
}

func RunSolve(w io.Writer, L, targets []float64, dir types.Direction) (err error) {
	var (
		res []shrinkage.ClampResult
	)
	if len(targets) == 0 {
		return fmt.Errorf("no targets given (-t, --targets): %w", types.ErrInvalidArgument)
	}
	if res, err = shrinkage.Solve(L, targets, dir); err != nil {
		return
	}
	for _, r := range res {
		var note string
		if r.Degenerate {
			note = " (unconstrained)"
		}
		fmt.Fprintf(w, "k = %-10.6g u = %-14.8g%s\n", r.Target, r.U, note)
		fmt.Fprintf(w, "\t%.8g\n", r.Clamped)
	}
	return
}
