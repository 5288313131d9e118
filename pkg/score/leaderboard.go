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

// Package score keeps the best solution depth reached by each player and
// renders the resulting leaderboard.
package score

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Score is the number of full move pairs a game followed the solution for.
type Score struct {
	Depth     int       `json:"depth" yaml:"depth"`
	GameID    string    `json:"game" yaml:"game"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// URL returns the game's address under the given site base.
func (score Score) URL(base string) string {
	return strings.TrimSuffix(base, "/") + "/" + score.GameID
}

// Entry is a leaderboard row.
type Entry struct {
	Identity string `json:"identity" yaml:"identity"`
	Score    `yaml:",inline"`
}

// TieBreak decides whether a score of equal depth replaces the recorded one.
type TieBreak int

const (
	// First keeps the first game to reach a depth.
	First TieBreak = iota
	// Latest keeps the most recently recorded game.
	Latest
	// Earliest keeps the game created first.
	Earliest
)

var tieBreakNames = [...]string{
	First:    "first",
	Latest:   "latest",
	Earliest: "earliest",
}

func (policy TieBreak) String() string {
	if policy < 0 || int(policy) >= len(tieBreakNames) {
		return "unknown"
	}

	return tieBreakNames[policy]
}

func ParseTieBreak(name string) (TieBreak, error) {
	for policy, policyName := range tieBreakNames {
		if strings.EqualFold(name, policyName) {
			return TieBreak(policy), nil
		}
	}

	return First, fmt.Errorf("score: unknown tie-break policy %q", name)
}

// better reports whether candidate replaces current under the policy.
func (policy TieBreak) better(candidate, current Score) bool {
	switch {
	case candidate.Depth > current.Depth:
		return true
	case candidate.Depth < current.Depth:
		return false
	}

	switch policy {
	case Latest:
		return true
	case Earliest:
		return !candidate.CreatedAt.IsZero() &&
			(current.CreatedAt.IsZero() || candidate.CreatedAt.Before(current.CreatedAt))
	default:
		return false
	}
}

// Leaderboard holds the best score of every identity. Scores are never
// lowered and identities are never removed.
type Leaderboard struct {
	policy TieBreak

	order  []string
	scores map[string]Score
}

func New(policy TieBreak) *Leaderboard {
	return &Leaderboard{
		policy: policy,
		scores: make(map[string]Score),
	}
}

// Record offers a score for the identity and reports whether it became the
// identity's best.
func (board *Leaderboard) Record(identity string, score Score) bool {
	current, found := board.scores[identity]
	if !found {
		board.order = append(board.order, identity)
		board.scores[identity] = score
		return true
	}

	if !board.policy.better(score, current) {
		return false
	}

	board.scores[identity] = score
	return true
}

// Best returns the recorded score of the identity.
func (board *Leaderboard) Best(identity string) (Score, bool) {
	score, found := board.scores[identity]
	return score, found
}

// Len returns the number of identities on the board.
func (board *Leaderboard) Len() int {
	return len(board.order)
}

// Rank returns every entry by descending depth. Entries of equal depth keep
// the order in which their identities were first recorded.
func (board *Leaderboard) Rank() []Entry {
	entries := make([]Entry, len(board.order))
	for i, identity := range board.order {
		entries[i] = Entry{Identity: identity, Score: board.scores[identity]}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Depth > entries[j].Depth
	})

	return entries
}
