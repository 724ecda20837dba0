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

// PathCmd represents the path command
var PathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the shrinkage path of a spectrum",
	Long: `
Traces the optimal eigenvalue clamp bounds (u, v) of a descending spectrum as
the condition number bound k = v/u grows from 1 to infinity and prints the
vertices of the piecewise linear path.

condreg path -e "100,50,33.3,25" --direction backward`,
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
		return RunPath(os.Stdout, L, direction(ip))
	},
}

func init() {
	rootCmd.AddCommand(PathCmd)
	addInputFlags(PathCmd)
}

func RunPath(w io.Writer, L []float64, dir types.Direction) (err error) {
	var (
		path shrinkage.Path
	)
	if path, err = shrinkage.NewPath(L, dir); err != nil {
		return
	}
	fmt.Fprintf(w, "%s path, %d vertices\n", dir, path.Len())
	fmt.Fprintf(w, "%4s %14s %14s %14s\n", "i", "U", "V", "K")
	for i := 0; i < path.Len(); i++ {
		vt := path.At(i)
		fmt.Fprintf(w, "%4d %14.8g %14.8g %14.8g\n", i, vt.U, vt.V, vt.K)
	}
	return
}
