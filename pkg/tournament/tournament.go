// Copyright © 2023 Rak Laptudirm <rak@laptudirm.com>
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

// Package tournament scores every game of a tournament against the
// solution oracle and collects the results on a leaderboard.
package tournament

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"laptudirm.com/x/e3wins/pkg/lichess"
	"laptudirm.com/x/e3wins/pkg/match"
	"laptudirm.com/x/e3wins/pkg/metrics"
	"laptudirm.com/x/e3wins/pkg/oracle"
	"laptudirm.com/x/e3wins/pkg/score"
)

type Config struct {
	// StartMove is the opening move of the solution line.
	StartMove string

	TieBreak score.TieBreak

	// Cache memoizes oracle responses by prefix.
	Cache bool
}

// Progress is notified as games are processed.
type Progress interface {
	Start()
	Update(games int)
	Stop()
}

type Option func(*Tournament)

// WithMetrics records game and oracle metrics on m.
func WithMetrics(m *metrics.Manager) Option {
	return func(tour *Tournament) {
		tour.metrics = m
	}
}

func WithProgress(progress Progress) Option {
	return func(tour *Tournament) {
		tour.progress = progress
	}
}

// Tournament owns the oracle session and the leaderboard of a run. Games
// are scored one at a time, so that the oracle only ever has a single
// query outstanding.
type Tournament struct {
	Config Config

	// ID identifies the run in logs.
	ID string

	Leaderboard *score.Leaderboard

	converter *match.Converter
	scorer    *match.Scorer
	cache     *oracle.Cached

	metrics  *metrics.Manager
	progress Progress
	log      *logrus.Entry

	// Games is the number of games read, including the ones which were
	// skipped or could not be scored.
	Games       int
	Skipped     int
	Unscoreable int
}

func NewTournament(config Config, o oracle.Oracle, opts ...Option) *Tournament {
	tour := &Tournament{
		Config:      config,
		ID:          uuid.NewString(),
		Leaderboard: score.New(config.TieBreak),
		converter:   match.NewConverter(config.StartMove),
	}

	for _, opt := range opts {
		opt(tour)
	}

	// only queries which miss the cache are measured
	if tour.metrics != nil {
		o = tour.metrics.Instrument(o)
	}

	if config.Cache {
		tour.cache = oracle.NewCached(o)
		o = tour.cache
	}

	tour.scorer = match.NewScorer(o)
	tour.log = logrus.WithField("run", tour.ID)

	return tour
}

// Result is the outcome of processing a single game.
type Result struct {
	Game   *lichess.Game
	Status string // metrics.Scored, metrics.Skipped or metrics.Unscoreable

	Score score.Score

	// Improved is set if the score became its identity's best.
	Improved bool
}

// Run scores every game of the stream. It stops at the first oracle or
// data error, leaving the leaderboard with the games scored so far.
func (tour *Tournament) Run(ctx context.Context, decoder *lichess.Decoder) error {
	if tour.progress != nil {
		tour.progress.Start()
		defer tour.progress.Stop()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		game, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return err
		}

		if _, err := tour.Play(ctx, &game); err != nil {
			return err
		}

		if tour.progress != nil {
			tour.progress.Update(tour.Games)
		}
	}

	fields := logrus.Fields{
		"games":       tour.Games,
		"skipped":     tour.Skipped,
		"unscoreable": tour.Unscoreable,
		"identities":  tour.Leaderboard.Len(),
	}

	if tour.cache != nil {
		fields["cache_hits"] = tour.cache.Hits
		fields["cache_misses"] = tour.cache.Misses
	}

	tour.log.WithFields(fields).Info("tournament scored")

	return nil
}

// Play scores a single game and records it on the leaderboard.
func (tour *Tournament) Play(ctx context.Context, game *lichess.Game) (Result, error) {
	tour.Games++
	log := tour.log.WithField("game", game.ID)

	if !game.IsAntichess() {
		log.WithField("variant", game.Variant).Warn("skipping game of another variant")
		tour.Skipped++
		tour.record(metrics.Skipped)
		return Result{Game: game, Status: metrics.Skipped}, nil
	}

	moves, err := tour.converter.Convert(game)

	var notationErr *match.NotationError
	switch {
	case errors.As(err, &notationErr):
		log.WithFields(logrus.Fields{
			"ply": notationErr.Ply,
			"san": notationErr.SAN,
		}).Warnf("excluding game: %v", notationErr.Err)

		tour.Unscoreable++
		tour.record(metrics.Unscoreable)
		return Result{Game: game, Status: metrics.Unscoreable}, nil

	case err != nil:
		return Result{}, err
	}

	s, err := tour.scorer.Score(ctx, game, moves)
	if err != nil {
		return Result{}, err
	}

	identity := game.Identity()
	improved := tour.Leaderboard.Record(identity, s)

	log.WithFields(logrus.Fields{
		"result":   game.Outcome(),
		"identity": identity,
		"depth":    s.Depth,
	}).Debug("game scored")

	tour.record(metrics.Scored)
	if tour.metrics != nil {
		tour.metrics.RecordDepth(s.Depth)
		tour.metrics.SetIdentities(tour.Leaderboard.Len())
	}

	return Result{
		Game:     game,
		Status:   metrics.Scored,
		Score:    s,
		Improved: improved,
	}, nil
}

func (tour *Tournament) record(result string) {
	if tour.metrics != nil {
		tour.metrics.RecordGame(result)
	}
}
