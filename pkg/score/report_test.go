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

package score

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleEntries() []Entry {
	board := New(First)
	board.Record("player10", Score{Depth: 9, GameID: "GTDQG8lQ"})
	board.Record("Gary_JBS", Score{Depth: 13, GameID: "w8KyGNVN"})
	board.Record("player9", Score{Depth: 9, GameID: "vXv9ZjDV"})
	board.Record("A = B", Score{Depth: 0, GameID: "mel1LshW"})
	return board.Rank()
}

func TestRender_Table(t *testing.T) {
	color.NoColor = true

	var out bytes.Buffer
	require.NoError(t, Render(&out, sampleEntries(), Table, ReportOptions{Top: 3, Games: 7}))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 8)

	assert.Equal(t, "Tournament info: 4 players, 7 games", lines[0])
	assert.Contains(t, lines[2], "Top 3 solution scores")
	assert.Contains(t, lines[4], " 1. #13 - https://lichess.org/w8KyGNVN - Gary_JBS")
	assert.Contains(t, lines[5], " 2. #09 - https://lichess.org/GTDQG8lQ - player10")
	assert.Contains(t, lines[6], " 3. #09 - https://lichess.org/vXv9ZjDV - player9")

	// every row of the box has the same width
	width := len([]rune(lines[1]))
	for _, line := range lines[1:] {
		assert.Len(t, []rune(line), width, line)
	}
}

func TestRender_NameOrder(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Render(&out, sampleEntries(), JSON, ReportOptions{Order: Name}))

	var rep report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))

	var identities []string
	for _, r := range rep.Scores {
		identities = append(identities, r.Identity)
	}

	assert.Equal(t, []string{"Gary_JBS", "player9", "player10", "A = B"}, identities)
}

func TestRender_JSON(t *testing.T) {
	var out bytes.Buffer
	options := ReportOptions{Top: 1, Games: 7, GameURL: "https://lichess.dev/"}
	require.NoError(t, Render(&out, sampleEntries(), JSON, options))

	var rep report
	require.NoError(t, json.Unmarshal(out.Bytes(), &rep))

	assert.Equal(t, report{
		Players: 4,
		Games:   7,
		Scores: []row{{
			Rank:     1,
			Identity: "Gary_JBS",
			Depth:    13,
			GameID:   "w8KyGNVN",
			URL:      "https://lichess.dev/w8KyGNVN",
		}},
	}, rep)
}

func TestRender_YAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Render(&out, sampleEntries(), YAML, ReportOptions{Games: 7}))

	var rep report
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &rep))

	assert.Equal(t, 4, rep.Players)
	require.Len(t, rep.Scores, 4)
	assert.Equal(t, "A = B", rep.Scores[3].Identity)
	assert.Equal(t, 0, rep.Scores[3].Depth)
}

func TestParseFormat(t *testing.T) {
	format, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, YAML, format)

	_, err = ParseFormat("csv")
	assert.Error(t, err)

	_, err = ParseOrder("random")
	assert.Error(t, err)
}
