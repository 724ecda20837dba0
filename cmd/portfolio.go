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
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/notargets/condreg/covariance"
	"github.com/notargets/condreg/crossval"
	"github.com/notargets/condreg/portfolio"
	"github.com/notargets/condreg/readfiles"
	"github.com/notargets/condreg/types"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// PortfolioCmd represents the portfolio command
var PortfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Minimum variance portfolio weights from a returns file",
	Long: `
Computes global minimum variance weights from the raw second moment of a
returns file and from its cross validated regularized covariance, and the
cost of rebalancing from one to the other.

condreg portfolio -D returns.csv --relTC 0.005 --wealth 1e6`,
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
		if ks, err = candidates(ip); err != nil {
			return
		}
		if X, err = readfiles.ReadCSVMatrixFile(ip.DataFile); err != nil {
			return
		}
		parallel, _ := cmd.Flags().GetInt("parallel")
		relTC, _ := cmd.Flags().GetFloat64("relTC")
		wealth, _ := cmd.Flags().GetFloat64("wealth")
		return RunPortfolio(cmd.Context(), os.Stdout, X, ks, selectOptions(ip, parallel), relTC, wealth)
	},
}

func init() {
	rootCmd.AddCommand(PortfolioCmd)
	addInputFlags(PortfolioCmd)
	addSelectFlags(PortfolioCmd)
	PortfolioCmd.Flags().StringP("targets", "t", "", "candidate condition number bounds, comma separated")
	PortfolioCmd.Flags().Float64("relTC", 0.005, "transaction cost per unit of wealth traded")
	PortfolioCmd.Flags().Float64("wealth", 1, "wealth invested")
}

func RunPortfolio(ctx context.Context, w io.Writer, X mat.Matrix, ks []float64, opts crossval.Options,
	relTC, wealth float64) (err error) {
	var (
		S          *mat.SymDense
		res        covariance.Result
		sel        crossval.Selection
		wRaw, wReg []float64
		cost       float64
	)
	if ctx == nil {
		ctx = context.Background()
	}
	if S, err = covariance.SecondMoment(X); err != nil {
		return
	}
	// A singular sample moment (n < p) still has regularized weights
	wRaw, rawErr := portfolio.Weights(S)
	if rawErr != nil && !errors.Is(rawErr, types.ErrSingular) {
		return rawErr
	}
	if res, sel, err = crossval.SelectCondreg(ctx, X, ks, opts); err != nil {
		return
	}
	if wReg, err = portfolio.Weights(res.S); err != nil {
		return
	}
	fmt.Fprintf(w, "kmax = %.6g\n", sel.Kmax)
	if rawErr != nil {
		fmt.Fprintf(w, "sample weights unavailable: %v\n", rawErr)
	}
	fmt.Fprintf(w, "%6s %14s %14s\n", "asset", "sample", "regularized")
	for i := range wReg {
		if wRaw == nil {
			fmt.Fprintf(w, "%6d %14s %14.6f\n", i, "-", wReg[i])
			continue
		}
		fmt.Fprintf(w, "%6d %14.6f %14.6f\n", i, wRaw[i], wReg[i])
	}
	if wRaw == nil {
		fmt.Fprintln(w, "rebalancing cost = -")
		return
	}
	if cost, err = portfolio.TransactionCost(wReg, wRaw, 1, relTC, wealth); err != nil {
		return
	}
	fmt.Fprintf(w, "rebalancing cost = %.6g\n", cost)
	return
}
