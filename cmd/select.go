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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/notargets/condreg/InputParameters"
	"github.com/notargets/condreg/crossval"
	"github.com/notargets/condreg/portfolio"
	"github.com/notargets/condreg/readfiles"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

const (
	DefaultGridMax    = 50.
	DefaultGridPoints = 100
)

// SelectCmd represents the select command
var SelectCmd = &cobra.Command{
	Use:   "select",
	Short: "Choose the condition number bound by cross validation",
	Long: `
Splits the rows of a CSV data file into folds and picks the condition number
bound with the best held out Gaussian likelihood. Candidates come from
--targets or from a grid between 1 and --gridMax.

condreg select -D returns.csv --gridMax 50 --gridPoints 100 --shuffle`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			X  *mat.Dense
			ks []float64
		)
		ip, err := processInput(cmd)
		if err != nil {
			return
		}
		if err = requireData(ip); err != nil {
			return
		}
		ip.Print()
		if ks, err = candidates(ip); err != nil {
			return
		}
		if X, err = readfiles.ReadCSVMatrixFile(ip.DataFile); err != nil {
			return
		}
		parallel, _ := cmd.Flags().GetInt("parallel")
		return RunSelect(cmd.Context(), os.Stdout, X, ks, selectOptions(ip, parallel))
	},
}

func init() {
	rootCmd.AddCommand(SelectCmd)
	addInputFlags(SelectCmd)
	addSelectFlags(SelectCmd)
	SelectCmd.Flags().StringP("targets", "t", "", "candidate condition number bounds, comma separated")
}

// candidates returns the explicit targets of the run, or its grid.
func candidates(ip *InputParameters.InputParameters) ([]float64, error) {
	if ip.GridPoints == 0 && len(ip.Targets) != 0 {
		return ip.Targets, nil
	}
	gridMax, gridPoints := ip.GridMax, ip.GridPoints
	if gridPoints == 0 {
		gridMax, gridPoints = DefaultGridMax, DefaultGridPoints
	}
	return portfolio.KGrid(gridMax, gridPoints)
}

func selectOptions(ip *InputParameters.InputParameters, parallel int) crossval.Options {
	return crossval.Options{
		Folds:     ip.Folds,
		Shuffle:   ip.Shuffle,
		Seed:      ip.Seed,
		Parallel:  parallel,
		Direction: direction(ip),
		Logger:    slog.Default().With("cmd", "select"),
	}
}

func RunSelect(ctx context.Context, w io.Writer, X mat.Matrix, ks []float64, opts crossval.Options) (err error) {
	var (
		sel crossval.Selection
	)
	if ctx == nil {
		ctx = context.Background()
	}
	if sel, err = crossval.SelectKmax(ctx, X, ks, opts); err != nil {
		return
	}
	fmt.Fprintf(w, "%4s %14s %16s\n", "i", "k", "-log L")
	for i, k := range ks {
		mark := ""
		if i == sel.Index {
			mark = " *"
		}
		fmt.Fprintf(w, "%4d %14.6g %16.8g%s\n", i, k, sel.NegLogL[i], mark)
	}
	fmt.Fprintf(w, "kmax = %.6g (%d folds, largest training condition number %.6g)\n",
		sel.Kmax, sel.Folds, sel.Condmax)
	return
}
