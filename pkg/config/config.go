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

// Package config loads the e3wins configuration. Values are layered, from
// lowest to highest precedence:
//  1. built-in defaults
//  2. the YAML config file
//  3. E3WINS_SECTION__KEY environment variables
//
// Command line flags are applied on top by the commands themselves.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"laptudirm.com/x/e3wins/pkg/lichess"
	"laptudirm.com/x/e3wins/pkg/match"
	"laptudirm.com/x/e3wins/pkg/oracle"
	"laptudirm.com/x/e3wins/pkg/score"
)

// File is the config file's path relative to the XDG config directories.
const File = "e3wins/config.yaml"

const envPrefix = "E3WINS_"

type Config struct {
	Oracle  OracleConfig  `koanf:"oracle"`
	Lichess LichessConfig `koanf:"lichess"`
	Scoring ScoringConfig `koanf:"scoring"`
	Report  ReportConfig  `koanf:"report"`
	Metrics MetricsConfig `koanf:"metrics"`
}

type OracleConfig struct {
	// Name is used to tag the oracle's protocol logs.
	Name string `koanf:"name"`

	Cmd      string        `koanf:"cmd"`
	Solution string        `koanf:"solution"`
	Args     []string      `koanf:"args"`
	Dir      string        `koanf:"dir"`
	Timeout  time.Duration `koanf:"timeout"`

	// Cache memoizes responses by prefix for the duration of a run.
	Cache bool `koanf:"cache"`
}

type LichessConfig struct {
	BaseURL   string        `koanf:"base_url"`
	UserAgent string        `koanf:"user_agent"`
	Timeout   time.Duration `koanf:"timeout"`
}

type ScoringConfig struct {
	StartMove string `koanf:"start_move"`
	TieBreak  string `koanf:"tie_break"`
}

type ReportConfig struct {
	Top     int    `koanf:"top"`
	Format  string `koanf:"format"`
	Order   string `koanf:"order"`
	GameURL string `koanf:"game_url"`
}

type MetricsConfig struct {
	// Textfile is where metrics are written after a run. Empty disables
	// the export.
	Textfile string `koanf:"textfile"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Oracle: OracleConfig{
			Name:    "watkins",
			Timeout: 30 * time.Second,
			Cache:   true,
		},
		Lichess: LichessConfig{
			BaseURL:   lichess.DefaultBaseURL,
			UserAgent: "e3wins",
			Timeout:   5 * time.Minute,
		},
		Scoring: ScoringConfig{
			StartMove: match.DefaultStartMove,
			TieBreak:  score.First.String(),
		},
		Report: ReportConfig{
			Top:     10,
			Format:  string(score.Table),
			Order:   string(score.Encounter),
			GameURL: lichess.DefaultBaseURL,
		},
	}
}

// Load builds the configuration from the defaults, the config file and the
// environment. An empty path searches the XDG config directories, where a
// missing file is not an error.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		if found, err := xdg.SearchConfigFile(File); err == nil {
			path = found
		}
	} else if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: %s does not exist", path)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}

	// E3WINS_ORACLE__TIMEOUT -> oracle.timeout
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(s), "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	config := Default()
	if err := k.UnmarshalWithConf("", config, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return config, nil
}

// Validate checks the values which can not be checked while parsing.
func (config *Config) Validate() error {
	var errs []error

	if config.Oracle.Timeout < 0 {
		errs = append(errs, errors.New("oracle.timeout must not be negative"))
	}

	if config.Lichess.Timeout < 0 {
		errs = append(errs, errors.New("lichess.timeout must not be negative"))
	}

	if config.Scoring.StartMove == "" {
		errs = append(errs, errors.New("scoring.start_move must not be empty"))
	}

	if _, err := score.ParseTieBreak(config.Scoring.TieBreak); err != nil {
		errs = append(errs, err)
	}

	if _, err := score.ParseFormat(config.Report.Format); err != nil {
		errs = append(errs, err)
	}

	if _, err := score.ParseOrder(config.Report.Order); err != nil {
		errs = append(errs, err)
	}

	if config.Report.Top < 0 {
		errs = append(errs, errors.New("report.top must not be negative"))
	}

	return errors.Join(errs...)
}

// ProcessConfig returns the oracle process description. The solution
// file, if any, is passed as the last argument.
func (config *Config) ProcessConfig() (oracle.Config, error) {
	if config.Oracle.Cmd == "" {
		return oracle.Config{}, errors.New("config: no oracle command configured (oracle.cmd or --oracle)")
	}

	args := append([]string(nil), config.Oracle.Args...)
	if config.Oracle.Solution != "" {
		args = append(args, config.Oracle.Solution)
	}

	return oracle.Config{
		Name:    config.Oracle.Name,
		Cmd:     config.Oracle.Cmd,
		Args:    args,
		Dir:     config.Oracle.Dir,
		Timeout: config.Oracle.Timeout,
	}, nil
}
