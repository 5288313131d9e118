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
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"laptudirm.com/x/e3wins/internal/util"
	"laptudirm.com/x/e3wins/pkg/config"
	"laptudirm.com/x/e3wins/pkg/lichess"
	"laptudirm.com/x/e3wins/pkg/metrics"
	"laptudirm.com/x/e3wins/pkg/score"
	"laptudirm.com/x/e3wins/pkg/tournament"
)

func Score() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score { tournament-id | --file games.ndjson }",
		Short: "Rank a tournament's players by their deepest solution game",
		Args:  cobra.MaximumNArgs(1),
		Long: heredoc.Doc(`score downloads the games of a lichess arena (or swiss,
			with --swiss) tournament and replays every game which opens
			with 1.e3 through the solution reader. A game's score is the
			number of full moves both sides played along the solution.

			Each winner is credited with their best game, and draws are
			credited to the pair "White = Black". Games whose moves can
			not be read are reported and left out.

			Games can also be read from a previously exported ndjson
			file with --file, where - means standard input.`),
		Example: heredoc.Doc(`
			$ e3wins score dPFhERel --oracle ./watkins --solution e3wins.rev4
			$ e3wins score --file games.ndjson --top 20 --format json`),

		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			applyOracleFlags(cmd, conf)
			applyScoreFlags(cmd, conf)

			if err := conf.Validate(); err != nil {
				return err
			}

			source, id, err := gameSource(cmd, args, conf)
			if err != nil {
				return err
			}

			// the oracle is released on interrupt as well
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			process, err := startOracle(conf)
			if err != nil {
				return err
			}

			defer func() {
				if err := process.Close(); err != nil {
					logrus.Warn(err)
				}
			}()

			tieBreak, _ := score.ParseTieBreak(conf.Scoring.TieBreak)

			var metricOpts []metrics.Option
			if id != "" {
				metricOpts = append(metricOpts, metrics.WithConstLabels(prometheus.Labels{"tournament": id}))
			}
			m := metrics.New(metricOpts...)

			tour := tournament.NewTournament(tournament.Config{
				StartMove: conf.Scoring.StartMove,
				TieBreak:  tieBreak,
				Cache:     conf.Oracle.Cache,
			}, process, tournament.WithMetrics(m), tournament.WithProgress(util.NewProgress()))

			body, err := source.Open(ctx)
			if err != nil {
				return err
			}
			defer body.Close()

			runErr := tour.Run(ctx, lichess.NewDecoder(body))

			if conf.Metrics.Textfile != "" {
				if err := m.WriteTextfile(conf.Metrics.Textfile); err != nil {
					logrus.Warnf("writing metrics: %v", err)
				}
			}

			if runErr != nil {
				return runErr
			}

			format, _ := score.ParseFormat(conf.Report.Format)
			order, _ := score.ParseOrder(conf.Report.Order)

			return score.Render(cmd.OutOrStdout(), tour.Leaderboard.Rank(), format, score.ReportOptions{
				Top:     conf.Report.Top,
				GameURL: conf.Report.GameURL,
				Order:   order,
				Games:   tour.Games,
			})
		},
	}

	flags := cmd.Flags()
	oracleFlags(cmd)
	flags.StringP("file", "f", "", "Read games from an ndjson file instead of lichess")
	flags.Bool("swiss", false, "The tournament is a swiss tournament")
	flags.Bool("no-cache", false, "Do not cache oracle responses")
	flags.String("start-move", "", "First move of the solution line (default e3)")
	flags.String("tie-break", "", "Which of two equally deep games to keep: first, latest or earliest")
	flags.IntP("top", "n", 0, "Number of players to report, 0 for all (default 10)")
	flags.String("format", "", "Report format: table, json or yaml")
	flags.String("order", "", "Order of equally deep players: encounter or name")
	flags.String("metrics-file", "", "Write Prometheus metrics to this textfile")

	return cmd
}

func applyScoreFlags(cmd *cobra.Command, conf *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("no-cache") {
		noCache, _ := flags.GetBool("no-cache")
		conf.Oracle.Cache = !noCache
	}

	stringFlags := map[string]*string{
		"start-move":   &conf.Scoring.StartMove,
		"tie-break":    &conf.Scoring.TieBreak,
		"format":       &conf.Report.Format,
		"order":        &conf.Report.Order,
		"metrics-file": &conf.Metrics.Textfile,
	}

	for name, value := range stringFlags {
		if flags.Changed(name) {
			*value, _ = flags.GetString(name)
		}
	}

	if flags.Changed("top") {
		conf.Report.Top, _ = flags.GetInt("top")
	}
}

// gameSource picks where the games are read from, and returns the id of
// the tournament if it is known.
func gameSource(cmd *cobra.Command, args []string, conf *config.Config) (lichess.Source, string, error) {
	file, _ := cmd.Flags().GetString("file")
	swiss, _ := cmd.Flags().GetBool("swiss")

	switch {
	case file != "" && len(args) > 0:
		return nil, "", errors.New("score: both a tournament id and --file given")

	case file != "":
		return &lichess.FileSource{Path: file}, "", nil

	case len(args) == 1:
		return &lichess.HTTPSource{
			BaseURL:    conf.Lichess.BaseURL,
			Tournament: args[0],
			Swiss:      swiss,
			UserAgent:  conf.Lichess.UserAgent,
			Timeout:    conf.Lichess.Timeout,
		}, args[0], nil

	default:
		return nil, "", errors.New("score: a tournament id or --file is required")
	}
}
