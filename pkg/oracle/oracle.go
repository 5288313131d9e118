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

// Package oracle talks to a solution oracle: a process which, given the
// moves of a game so far, answers with the move prescribed by a solved
// opening tree, or with null when the position is outside of that tree.
package oracle

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Oracle answers prefix queries. The prefix always starts from the initial
// position, as the oracle keeps no state between queries.
type Oracle interface {
	Query(ctx context.Context, prefix []string) (Response, error)
}

// Func adapts an ordinary function into an Oracle.
type Func func(ctx context.Context, prefix []string) (Response, error)

func (fn Func) Query(ctx context.Context, prefix []string) (Response, error) {
	return fn(ctx, prefix)
}

// Kind is the kind of a well-formed oracle response.
type Kind int

const (
	// Move means the oracle prescribed a continuation.
	Move Kind = iota
	// NoSolution means the position has no known forced win.
	NoSolution
)

func (kind Kind) String() string {
	switch kind {
	case Move:
		return "move"
	case NoSolution:
		return "null"
	default:
		return "unknown"
	}
}

// Response is a classified oracle response line.
type Response struct {
	Kind Kind
	Move string
}

func (r Response) String() string {
	if r.Kind == Move {
		return r.Move
	}
	return r.Kind.String()
}

// ErrProtocol is matched by every *ProtocolError.
var ErrProtocol = errors.New("oracle: protocol error")

// ProtocolError is a malformed response line.
type ProtocolError struct {
	Line string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("oracle: malformed response %q", e.Line)
}

func (e *ProtocolError) Is(target error) bool {
	return target == ErrProtocol
}

// Classify parses a single response line. The literal null, in any case,
// means NoSolution, and any other token of four or five characters is a
// coordinate move. Everything else is a protocol violation.
func Classify(line string) (Response, error) {
	token := strings.TrimSpace(line)

	switch {
	case strings.EqualFold(token, "null"):
		return Response{Kind: NoSolution}, nil
	case len(token) == 4, len(token) == 5:
		return Response{Kind: Move, Move: token}, nil
	default:
		return Response{}, &ProtocolError{Line: line}
	}
}

// Cached memoizes the responses of an oracle by query prefix. Errors are
// never cached.
type Cached struct {
	oracle  Oracle
	entries map[string]Response

	Hits, Misses int
}

// NewCached wraps the given oracle with a response cache.
func NewCached(oracle Oracle) *Cached {
	return &Cached{
		oracle:  oracle,
		entries: make(map[string]Response),
	}
}

func (cache *Cached) Query(ctx context.Context, prefix []string) (Response, error) {
	key := strings.Join(prefix, " ")
	if response, found := cache.entries[key]; found {
		cache.Hits++
		return response, nil
	}

	response, err := cache.oracle.Query(ctx, prefix)
	if err != nil {
		return Response{}, err
	}

	cache.Misses++
	cache.entries[key] = response
	return response, nil
}
