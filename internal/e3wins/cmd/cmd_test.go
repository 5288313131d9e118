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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command line and returns its standard output.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	// keep the user's own config and environment out of the test
	config := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(config, []byte("report:\n  top: 10\n"), 0o644))

	var out bytes.Buffer
	root := Root()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--config", config))

	err := root.Execute()
	return out.String(), err
}

// fakeOracle writes a shell script which answers every query with the
// given line.
func fakeOracle(t *testing.T, answer string) string {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake oracle needs a POSIX shell")
	}

	path := filepath.Join(t.TempDir(), "reader")
	script := "#!/bin/sh\nwhile read line; do echo " + answer + "; done\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestConvertCommand(t *testing.T) {
	out, err := run(t, "convert", "e3", "g5", "Ba6", "bxa6")
	require.NoError(t, err)
	assert.Equal(t, "e2e3 g7g5 f1a6 b7a6\n", out)
}

func TestConvertCommand_FEN(t *testing.T) {
	out, err := run(t, "convert", "--fen", "8/P7/8/8/8/8/8/8 w - - 0 1", "a8=K")
	require.NoError(t, err)
	assert.Equal(t, "a7a8k\n", out)
}

func TestConvertCommand_IllegalMove(t *testing.T) {
	_, err := run(t, "convert", "e3", "b5", "Nc3")
	assert.ErrorContains(t, err, "move 3")
}

func TestQueryCommand(t *testing.T) {
	reader := fakeOracle(t, "b7a6")

	out, err := run(t, "query", "--oracle", reader, "e2e3", "g7g5", "f1a6")
	require.NoError(t, err)
	assert.Equal(t, "b7a6\n", out)
}

func TestScoreCommand(t *testing.T) {
	reader := fakeOracle(t, "null")

	games := filepath.Join(t.TempDir(), "games.ndjson")
	require.NoError(t, os.WriteFile(games, []byte(
		`{"id":"g1","players":{"white":{"user":{"name":"A"}},"black":{"user":{"name":"B"}}},"winner":"white","moves":"e3 e6"}`+"\n"+
			`{"id":"g2","players":{"white":{"user":{"name":"C"}},"black":{"user":{"name":"D"}}},"moves":"e4 e5"}`+"\n",
	), 0o644))

	metricsFile := filepath.Join(t.TempDir(), "e3wins.prom")

	out, err := run(t, "score",
		"--file", games,
		"--oracle", reader,
		"--format", "json",
		"--metrics-file", metricsFile,
	)
	require.NoError(t, err)

	var report struct {
		Players int `json:"players"`
		Games   int `json:"games"`
		Scores  []struct {
			Identity string `json:"identity"`
			Depth    int    `json:"depth"`
		} `json:"scores"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))

	assert.Equal(t, 2, report.Players)
	assert.Equal(t, 2, report.Games)
	require.Len(t, report.Scores, 2)
	assert.Equal(t, "A", report.Scores[0].Identity)
	assert.Equal(t, "C = D", report.Scores[1].Identity)

	assert.FileExists(t, metricsFile)
}

func TestScoreCommand_NeedsSource(t *testing.T) {
	_, err := run(t, "score", "--oracle", "reader")
	assert.ErrorContains(t, err, "tournament id or --file")

	_, err = run(t, "score", "abc", "--file", "games.ndjson")
	assert.ErrorContains(t, err, "both")
}

func TestScoreCommand_InvalidFlag(t *testing.T) {
	_, err := run(t, "score", "--file", "-", "--tie-break", "random")
	assert.ErrorContains(t, err, "tie-break")
}
