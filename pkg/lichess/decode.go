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
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineSize bounds a single ndjson record. Long games with clock data
// easily exceed bufio's default token size.
const maxLineSize = 4 << 20

// DecodeError is a malformed ndjson record.
type DecodeError struct {
	Line int
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("lichess: line %d: %v", e.Line, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Decoder reads games from an ndjson stream, one game per line. Blank lines
// are skipped.
type Decoder struct {
	scanner *bufio.Scanner
	line    int
}

func NewDecoder(r io.Reader) *Decoder {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Decoder{scanner: scanner}
}

// Next decodes the next game. It returns io.EOF once the stream is
// exhausted.
func (decoder *Decoder) Next() (Game, error) {
	for decoder.scanner.Scan() {
		decoder.line++

		record := bytes.TrimSpace(decoder.scanner.Bytes())
		if len(record) == 0 {
			continue
		}

		var game Game
		if err := json.Unmarshal(record, &game); err != nil {
			return Game{}, &DecodeError{Line: decoder.line, Err: err}
		}

		return game, nil
	}

	if err := decoder.scanner.Err(); err != nil {
		return Game{}, &DecodeError{Line: decoder.line + 1, Err: err}
	}

	return Game{}, io.EOF
}
