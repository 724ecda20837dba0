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

	"github.com/notargets/condreg/covariance"
	"github.com/notargets/condreg/readfiles"
	"github.com/notargets/condreg/types"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// RegularizeCmd represents the regularize command
var RegularizeCmd = &cobra.Command{
	Use:   "regularize",
	Short: "Regularize the sample covariance of a data file at a given bound",
	Long: `
Reads a CSV data file, forms its sample covariance and shrinks the spectrum
so that the condition number is at most kmax.

condreg regularize -D returns.csv -k 20`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			X *mat.Dense
		)
		ip, err := processInput(cmd)
		if err != nil {
			return
		}
		if err = requireData(ip); err != nil {
			return
		}
		kmax, _ := cmd.Flags().GetFloat64("kmax")
		if X, err = readfiles.ReadCSVMatrixFile(ip.DataFile); err != nil {
			return
		}
		return RunRegularize(os.Stdout, X, kmax, direction(ip))
	},
}

func init() {
	rootCmd.AddCommand(RegularizeCmd)
	addInputFlags(RegularizeCmd)
	RegularizeCmd.Flags().Float64P("kmax", "k", 10, "condition number bound")
}

func RunRegularize(w io.Writer, X mat.Matrix, kmax float64, dir types.Direction) (err error) {
	var (
		res covariance.Result
	)
	if res, err = covariance.RegularizeData(X, kmax, dir); err != nil {
		return
	}
	fmt.Fprintf(w, "kmax = %g, u = %.8g\n", res.Kmax, res.U)
	fmt.Fprintf(w, "eigenvalues = %.8g\n", res.Lbar)
	fmt.Fprintf(w, "S = %.6g\n", mat.Formatted(res.S, mat.Prefix("    "), mat.Squeeze()))
	return
}
