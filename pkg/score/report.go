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
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"laptudirm.com/x/e3wins/internal/util"
)

type Format string

const (
	Table Format = "table"
	JSON  Format = "json"
	YAML  Format = "yaml"
)

func ParseFormat(name string) (Format, error) {
	switch format := Format(strings.ToLower(name)); format {
	case Table, JSON, YAML:
		return format, nil
	default:
		return "", fmt.Errorf("score: unknown report format %q", name)
	}
}

// Order of entries with equal depth in a report.
type Order string

const (
	// Encounter keeps the order in which identities were first recorded.
	Encounter Order = "encounter"
	// Name orders identities naturally, so that "player9" precedes
	// "player10".
	Name Order = "name"
)

func ParseOrder(name string) (Order, error) {
	switch order := Order(strings.ToLower(name)); order {
	case Encounter, Name:
		return order, nil
	default:
		return "", fmt.Errorf("score: unknown report order %q", name)
	}
}

type ReportOptions struct {
	// Top limits the report to the best entries. Zero means no limit.
	Top int

	// GameURL is the site base that game ids are appended to.
	GameURL string

	Order Order

	// Games is the number of games the leaderboard was built from.
	Games int
}

type row struct {
	Rank     int    `json:"rank" yaml:"rank"`
	Identity string `json:"identity" yaml:"identity"`
	Depth    int    `json:"depth" yaml:"depth"`
	GameID   string `json:"game" yaml:"game"`
	URL      string `json:"url" yaml:"url"`
}

type report struct {
	Players int   `json:"players" yaml:"players"`
	Games   int   `json:"games" yaml:"games"`
	Scores  []row `json:"scores" yaml:"scores"`
}

// Render writes the ranked entries in the given format.
func Render(w io.Writer, entries []Entry, format Format, options ReportOptions) error {
	rep := report{
		Players: len(entries),
		Games:   options.Games,
		Scores:  rows(entries, options),
	}

	switch format {
	case Table, "":
		return renderTable(w, rep)

	case JSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rep)

	case YAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(rep); err != nil {
			return err
		}
		return encoder.Close()

	default:
		return fmt.Errorf("score: unknown report format %q", format)
	}
}

func rows(entries []Entry, options ReportOptions) []row {
	ranked := make([]Entry, len(entries))
	copy(ranked, entries)

	if options.Order == Name {
		sort.SliceStable(ranked, func(i, j int) bool {
			if ranked[i].Depth != ranked[j].Depth {
				return ranked[i].Depth > ranked[j].Depth
			}
			return util.AlphanumCompare(ranked[i].Identity, ranked[j].Identity)
		})
	}

	if options.Top > 0 && len(ranked) > options.Top {
		ranked = ranked[:options.Top]
	}

	base := options.GameURL
	if base == "" {
		base = "https://lichess.org"
	}

	out := make([]row, len(ranked))
	for i, entry := range ranked {
		out[i] = row{
			Rank:     i + 1,
			Identity: entry.Identity,
			Depth:    entry.Depth,
			GameID:   entry.GameID,
			URL:      entry.URL(base),
		}
	}

	return out
}

func renderTable(w io.Writer, rep report) error {
	header := color.New(color.FgYellow, color.Bold)

	lines := make([]string, len(rep.Scores))
	title := fmt.Sprintf("Top %d solution scores", len(rep.Scores))

	width := utf8.RuneCountInString(title)
	for i, r := range rep.Scores {
		lines[i] = fmt.Sprintf("%2d. #%02d - %s - %s", r.Rank, r.Depth, r.URL, r.Identity)
		width = max(width, utf8.RuneCountInString(lines[i]))
	}

	pad := func(s string) string {
		return s + strings.Repeat(" ", width-utf8.RuneCountInString(s))
	}

	rule := strings.Repeat("═", width+2)

	var b strings.Builder
	fmt.Fprintf(&b, "Tournament info: %d players, %d games\n", rep.Players, rep.Games)
	fmt.Fprintf(&b, "╔%s╗\n", rule)
	fmt.Fprintf(&b, "║ %s ║\n", header.Sprint(pad(title)))
	fmt.Fprintf(&b, "╠%s╣\n", rule)
	for _, line := range lines {
		fmt.Fprintf(&b, "║ %s ║\n", pad(line))
	}
	fmt.Fprintf(&b, "╚%s╝\n", rule)

	_, err := io.WriteString(w, b.String())
	return err
}
