// Copyright © 2024 Rak Laptudirm <rak@laptudirm.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/e3wins/pkg/config"
	"laptudirm.com/x/e3wins/pkg/oracle"
)

// Version is set at build time.
var Version = "v0.0.0"

func Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "e3wins",
		Short: "Score antichess tournaments against the 1.e3 solution",
		Long: heredoc.Doc(`e3wins measures how far the games of an antichess
			tournament followed the proof that 1.e3 wins, by replaying
			them through a solution reader, and ranks the players by
			their deepest game.`),
		Args: cobra.NoArgs,

		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			switch {
			// If --trace flag is provided, set logging level to Trace.
			case cmd.Flag("trace").Changed:
				logrus.SetLevel(logrus.TraceLevel)
			case cmd.Flag("verbose").Changed:
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	// global flags
	root.PersistentFlags().BoolP("help", "h", false, "Show Help Information")
	root.PersistentFlags().BoolP("version", "v", false, "Show e3wins' Version")
	root.PersistentFlags().BoolP("trace", "t", false, "Show Trace Information")
	root.PersistentFlags().Bool("verbose", false, "Show Debug Information, including oracle traffic")
	root.PersistentFlags().StringP("config", "c", "", "Path to the config file")

	root.SetVersionTemplate(Version + "\n")
	root.Version = Version

	// Register the various commands.
	root.AddCommand(Score())
	root.AddCommand(Query())
	root.AddCommand(Convert())

	return root
}

// loadConfig loads the config file named by --config, or the default one.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}

// startOracle launches the configured oracle process. Its standard error is
// only shown when tracing.
func startOracle(conf *config.Config) (*oracle.Process, error) {
	processConfig, err := conf.ProcessConfig()
	if err != nil {
		return nil, err
	}

	if logrus.IsLevelEnabled(logrus.TraceLevel) {
		processConfig.Stderr = os.Stderr
	}

	return oracle.Start(processConfig)
}

// oracleFlags registers the flags which override the oracle config.
func oracleFlags(cmd *cobra.Command) {
	cmd.Flags().String("oracle", "", "Solution reader executable")
	cmd.Flags().String("solution", "", "Solution file passed to the reader")
	cmd.Flags().Duration("timeout", 0, "Time to wait for each oracle response")
}

func applyOracleFlags(cmd *cobra.Command, conf *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("oracle") {
		conf.Oracle.Cmd, _ = flags.GetString("oracle")
	}

	if flags.Changed("solution") {
		conf.Oracle.Solution, _ = flags.GetString("solution")
	}

	if flags.Changed("timeout") {
		conf.Oracle.Timeout, _ = flags.GetDuration("timeout")
	}
}
