package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/notargets/condreg/InputParameters"
	"github.com/notargets/condreg/covariance"
	"github.com/notargets/condreg/readfiles"
	"github.com/notargets/condreg/types"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/mat"
)

var exampleFile = `
########################################
Title: "Returns"
DataFile: returns.csv
Direction: backward
Targets: [2, 5, 10]
Folds: 5
GridMax: 50
GridPoints: 100
########################################
`

// addInputFlags registers the flags every subcommand reads its input from.
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("inputFile", "I", "", "YAML run file, flags given on the command line override it:"+exampleFile)
	cmd.Flags().StringP("eigenvalues", "e", "", "descending spectrum, comma or space separated")
	cmd.Flags().StringP("spectrumFile", "S", "", "file holding a descending spectrum")
	cmd.Flags().StringP("dataFile", "D", "", "CSV data file, one observation per row")
}

func addSelectFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("folds", "f", 0, "cross validation folds, 0 = min(rows, 10)")
	cmd.Flags().Bool("shuffle", false, "shuffle rows before splitting into folds")
	cmd.Flags().Uint64("seed", 1, "shuffle seed")
	cmd.Flags().Float64("gridMax", 0, "largest condition number of the cross validation grid")
	cmd.Flags().Int("gridPoints", 0, "number of points in the cross validation grid")
	cmd.Flags().IntP("parallel", "p", 0, "folds evaluated at once, 0 = number of CPUs")
}

func processInput(cmd *cobra.Command) (ip *InputParameters.InputParameters, err error) {
	var (
		flags = cmd.Flags()
		data  []byte
	)
	ip = &InputParameters.InputParameters{}
	if fname, _ := flags.GetString("inputFile"); fname != "" {
		if data, err = os.ReadFile(fname); err != nil {
			return
		}
		if err = ip.Parse(data); err != nil {
			return nil, fmt.Errorf("%s: %w", fname, err)
		}
	}
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}
	if changed("eigenvalues") {
		s, _ := flags.GetString("eigenvalues")
		if ip.Eigenvalues, err = readfiles.ReadSpectrum(strings.NewReader(s)); err != nil {
			return
		}
	}
	if changed("spectrumFile") {
		if ip.Eigenvalues, err = readSpectrumFile(flags); err != nil {
			return
		}
	}
	if changed("dataFile") {
		ip.DataFile, _ = flags.GetString("dataFile")
	}
	if changed("targets") {
		s, _ := flags.GetString("targets")
		if ip.Targets, err = readfiles.ReadSpectrum(strings.NewReader(s)); err != nil {
			return nil, fmt.Errorf("targets %q: %w", s, types.ErrInvalidArgument)
		}
	}
	if changed("folds") {
		ip.Folds, _ = flags.GetInt("folds")
	}
	if changed("shuffle") {
		ip.Shuffle, _ = flags.GetBool("shuffle")
	}
	if changed("seed") {
		ip.Seed, _ = flags.GetUint64("seed")
	}
	if changed("gridMax") {
		ip.GridMax, _ = flags.GetFloat64("gridMax")
	}
	if changed("gridPoints") {
		ip.GridPoints, _ = flags.GetInt("gridPoints")
	}
	if ip.Direction == "" || changed("direction") {
		ip.Direction = viper.GetString("direction")
	}
	err = ip.Validate()
	return
}

func readSpectrumFile(flags *pflag.FlagSet) (L []float64, err error) {
	var (
		file *os.File
	)
	fname, _ := flags.GetString("spectrumFile")
	if file, err = os.Open(fname); err != nil {
		return
	}
	defer file.Close()
	return readfiles.ReadSpectrum(file)
}

// spectrumOf returns the run's spectrum, decomposing the sample covariance
// of the data file when no eigenvalues were given.
func spectrumOf(ip *InputParameters.InputParameters) (L []float64, err error) {
	var (
		X *mat.Dense
		S *mat.SymDense
		d covariance.Decomposition
	)
	if len(ip.Eigenvalues) != 0 {
		return ip.Eigenvalues, nil
	}
	if X, err = readfiles.ReadCSVMatrixFile(ip.DataFile); err != nil {
		return
	}
	if S, err = covariance.SampleCovariance(X); err != nil {
		return
	}
	if d, err = covariance.Decompose(S); err != nil {
		return
	}
	return d.L, nil
}

func direction(ip *InputParameters.InputParameters) types.Direction {
	// Validate has already normalised the name
	dir, _ := types.NewDirection(ip.Direction)
	return dir
}

func requireData(ip *InputParameters.InputParameters) error {
	if ip.DataFile == "" {
		return fmt.Errorf("a data file is needed (-D, --dataFile): %w", types.ErrInvalidArgument)
	}
	return nil
}
