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

package match

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"laptudirm.com/x/e3wins/pkg/antichess"
	"laptudirm.com/x/e3wins/pkg/lichess"
	"laptudirm.com/x/e3wins/pkg/oracle"
	"laptudirm.com/x/e3wins/pkg/score"
)

// QueryError is an oracle failure while scoring a game.
type QueryError struct {
	GameID string
	Prefix []string
	Err    error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("game %s: query %q: %v", e.GameID, strings.Join(e.Prefix, " "), e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// Scorer walks a game's moves along the oracle's solution.
type Scorer struct {
	oracle oracle.Oracle
}

func NewScorer(o oracle.Oracle) *Scorer {
	return &Scorer{oracle: o}
}

// Score sends every odd length prefix of the moves to the oracle and
// compares the prescribed continuation with the move actually played. The
// walk stops at the first null response, mismatch, or end of game, and the
// depth is the number of full move pairs played inside the solution:
//
//	depth = min(i, len(moves)-1) / 2
//
// where i is the even index the walk stopped at.
func (scorer *Scorer) Score(ctx context.Context, game *lichess.Game, moves []antichess.Move) (score.Score, error) {
	result := score.Score{
		GameID:    game.ID,
		CreatedAt: game.Created(),
	}

	if len(moves) == 0 {
		return result, nil
	}

	uci := UCI(moves)

	i := 0
	for ; i < len(uci); i += 2 {
		prefix := uci[:i+1]

		response, err := scorer.oracle.Query(ctx, prefix)
		if err != nil {
			return score.Score{}, &QueryError{
				GameID: game.ID,
				Prefix: append([]string(nil), prefix...),
				Err:    err,
			}
		}

		if response.Kind == oracle.NoSolution {
			break
		}

		// the game ended here, or left the prescribed line
		if i+1 >= len(uci) || !strings.EqualFold(response.Move, uci[i+1]) {
			logrus.WithFields(logrus.Fields{
				"game":     game.ID,
				"ply":      i + 2,
				"solution": response.Move,
			}).Trace("game left the solution")
			break
		}
	}

	result.Depth = min(i, len(uci)-1) / 2
	return result, nil
}
