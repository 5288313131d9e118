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

package lichess

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const export = `{"id":"w8KyGNVN","createdAt":1700000000000,"variant":"antichess","players":{"white":{"user":{"name":"Gary_JBS","id":"gary_jbs"}},"black":{"user":{"name":"randimatrix","id":"randimatrix"}}},"winner":"white","moves":"e3 b5 Bxb5"}

{"id":"moKQV4Is","players":{"white":{"user":{"name":"A"}},"black":{"aiLevel":3}},"moves":"e3 g5"}
`

func TestDecoder(t *testing.T) {
	decoder := NewDecoder(strings.NewReader(export))

	first, err := decoder.Next()
	require.NoError(t, err)
	assert.Equal(t, "w8KyGNVN", first.ID)
	assert.Equal(t, WhiteWins, first.Outcome())
	assert.Equal(t, "Gary_JBS", first.Identity())
	assert.Equal(t, []string{"e3", "b5", "Bxb5"}, first.SANMoves())
	assert.Equal(t, time.UnixMilli(1700000000000).UTC(), first.Created())
	assert.True(t, first.IsAntichess())

	second, err := decoder.Next()
	require.NoError(t, err)
	assert.Equal(t, Draw, second.Outcome())
	assert.Equal(t, "A = Stockfish level 3", second.Identity())
	assert.True(t, second.Created().IsZero())

	_, err = decoder.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDecoder_MalformedLine(t *testing.T) {
	decoder := NewDecoder(strings.NewReader("{\"id\":\"a\"}\n\n{not json\n"))

	_, err := decoder.Next()
	require.NoError(t, err)

	_, err = decoder.Next()

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 3, decodeErr.Line)

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestGame_Identity(t *testing.T) {
	var game Game
	require.NoError(t, json.Unmarshal([]byte(`{"players":{"white":{"user":{"name":"W"}},"black":{"user":{"name":"B"}}}}`), &game))

	tests := []struct {
		winner  string
		outcome Outcome
		want    string
	}{
		{"white", WhiteWins, "W"},
		{"black", BlackWins, "B"},
		{"", Draw, "W = B"},
	}

	for _, tt := range tests {
		game.Winner = tt.winner
		assert.Equal(t, tt.outcome, game.Outcome())
		assert.Equal(t, tt.want, game.Identity())
	}

	assert.Equal(t, "Anonymous", Player{}.Name())
	assert.Equal(t, "1/2-1/2", Draw.String())
}

func TestGame_IsAntichess(t *testing.T) {
	assert.True(t, (&Game{Variant: "Antichess"}).IsAntichess())
	assert.False(t, (&Game{Variant: "standard"}).IsAntichess())
}

func TestHTTPSource(t *testing.T) {
	var gotPath, gotAccept, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotAgent = r.Header.Get("User-Agent")
		_, _ = io.WriteString(w, export)
	}))
	defer server.Close()

	source := &HTTPSource{
		BaseURL:    server.URL + "/",
		Tournament: "dPFhERel",
		UserAgent:  "e3wins-test",
		Timeout:    time.Second,
	}

	body, err := source.Open(context.Background())
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)

	assert.Equal(t, export, string(data))
	assert.Equal(t, "/api/tournament/dPFhERel/games", gotPath)
	assert.Equal(t, "application/x-ndjson", gotAccept)
	assert.Equal(t, "e3wins-test", gotAgent)
}

func TestHTTPSource_URL(t *testing.T) {
	arena := &HTTPSource{Tournament: "abc"}
	assert.Equal(t, "https://lichess.org/api/tournament/abc/games", arena.URL())

	swiss := &HTTPSource{BaseURL: "http://localhost:8080", Tournament: "xyz", Swiss: true}
	assert.Equal(t, "http://localhost:8080/api/swiss/xyz/games", swiss.URL())
}

func TestHTTPSource_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such tournament", http.StatusNotFound)
	}))
	defer server.Close()

	source := &HTTPSource{BaseURL: server.URL, Tournament: "missing"}
	_, err := source.Open(context.Background())

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "no such tournament", httpErr.Body)
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "games.ndjson")
	require.NoError(t, os.WriteFile(path, []byte(export), 0o644))

	body, err := (&FileSource{Path: path}).Open(context.Background())
	require.NoError(t, err)
	defer body.Close()

	decoder := NewDecoder(body)
	count := 0
	for {
		_, err := decoder.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		count++
	}

	assert.Equal(t, 2, count)

	_, err = (&FileSource{Path: filepath.Join(t.TempDir(), "missing")}).Open(context.Background())
	assert.ErrorIs(t, err, os.ErrNotExist)
}
