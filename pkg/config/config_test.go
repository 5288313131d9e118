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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	// keep the user's own config file out of the test
	t.Cleanup(xdg.Reload)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_DIRS", t.TempDir())
	xdg.Reload()

	config, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), config)
	assert.NoError(t, config.Validate())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
oracle:
  cmd: /opt/watkins/reader
  solution: /opt/watkins/e3wins.rev4
  timeout: 10s
scoring:
  tie_break: earliest
report:
  top: 25
`)

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/watkins/reader", config.Oracle.Cmd)
	assert.Equal(t, 10*time.Second, config.Oracle.Timeout)
	assert.Equal(t, "earliest", config.Scoring.TieBreak)
	assert.Equal(t, 25, config.Report.Top)

	// untouched keys keep their defaults
	assert.Equal(t, "e3", config.Scoring.StartMove)
	assert.True(t, config.Oracle.Cache)
	assert.Equal(t, "table", config.Report.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "oracle:\n  timeout: 10s\nreport:\n  top: 25\n")

	t.Setenv("E3WINS_ORACLE__TIMEOUT", "1m")
	t.Setenv("E3WINS_ORACLE__CACHE", "false")
	t.Setenv("E3WINS_REPORT__GAME_URL", "https://lichess.dev")

	config, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, time.Minute, config.Oracle.Timeout)
	assert.False(t, config.Oracle.Cache)
	assert.Equal(t, "https://lichess.dev", config.Report.GameURL)
	assert.Equal(t, 25, config.Report.Top)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"tie break", func(c *Config) { c.Scoring.TieBreak = "random" }},
		{"format", func(c *Config) { c.Report.Format = "csv" }},
		{"order", func(c *Config) { c.Report.Order = "elo" }},
		{"timeout", func(c *Config) { c.Oracle.Timeout = -time.Second }},
		{"top", func(c *Config) { c.Report.Top = -1 }},
		{"start move", func(c *Config) { c.Scoring.StartMove = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.modify(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestProcessConfig(t *testing.T) {
	config := Default()

	_, err := config.ProcessConfig()
	assert.Error(t, err)

	config.Oracle.Cmd = "reader"
	config.Oracle.Args = []string{"-q"}
	config.Oracle.Solution = "e3wins.rev4"

	process, err := config.ProcessConfig()
	require.NoError(t, err)
	assert.Equal(t, "reader", process.Cmd)
	assert.Equal(t, []string{"-q", "e3wins.rev4"}, process.Args)
	assert.Equal(t, "watkins", process.Name)
	assert.Equal(t, 30*time.Second, process.Timeout)
}
