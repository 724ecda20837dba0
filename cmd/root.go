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
	"log/slog"
	"os"

	"github.com/mattn/go-isatty"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/notargets/condreg/utils"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	stopper interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "condreg",
	Short: "Condition number regularized covariance estimation",
	Long: `
Shrinks the eigenvalues of a sample covariance matrix so that its condition
number stays below a bound, choosing the shrinkage that maximises the
Gaussian likelihood. The bound can be given or chosen by cross validation.

condreg path -e "10,5,2,1"
condreg solve -e "10,5,2,1" -t "2,4"
condreg select -D returns.csv --gridMax 50 --gridPoints 100`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging(viper.GetBool("verbose"))
		if f := viper.ConfigFileUsed(); f != "" {
			slog.Debug("using config file", "file", f)
		}
		if prof, _ := cmd.Flags().GetBool("profile"); prof {
			stopper = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		slog.Debug("run finished", "mem", utils.GetMemUsage())
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := execute(); err != nil {
		os.Exit(1)
	}
}

// execute runs the command tree and flushes the profile whether or not the
// command failed; cobra skips PersistentPostRun after a RunE error.
func execute() (err error) {
	err = rootCmd.Execute()
	stopProfile()
	return
}

func stopProfile() {
	if stopper != nil {
		stopper.Stop()
		stopper = nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.condreg.yaml)")
	rootCmd.PersistentFlags().StringP("direction", "d", "forward", "path sweep direction: forward or backward")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().Bool("profile", false, "write a CPU profile of the run to the current directory")
	_ = viper.BindPFlag("direction", rootCmd.PersistentFlags().Lookup("direction"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".condreg")
	}
	viper.SetEnvPrefix("condreg")
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// setupLogging writes text logs to a terminal and JSON lines otherwise.
func setupLogging(verbose bool) {
	var (
		opts    = &slog.HandlerOptions{Level: slog.LevelInfo}
		handler slog.Handler
	)
	if verbose {
		opts.Level = slog.LevelDebug
	}
	if fd := os.Stderr.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
