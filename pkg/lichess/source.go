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
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Source provides the ndjson stream of a tournament's games.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

const DefaultBaseURL = "https://lichess.org"

// HTTPError is a non-200 response from the export endpoint.
type HTTPError struct {
	URL    string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("lichess: GET %s: status %d", e.URL, e.Status)
	}

	return fmt.Sprintf("lichess: GET %s: status %d: %s", e.URL, e.Status, e.Body)
}

// HTTPSource exports the games of an arena or swiss tournament.
type HTTPSource struct {
	BaseURL    string
	Tournament string
	Swiss      bool

	UserAgent string
	Timeout   time.Duration

	// Client defaults to http.DefaultClient.
	Client *http.Client
}

// URL returns the export endpoint of the tournament.
func (source *HTTPSource) URL() string {
	base := strings.TrimSuffix(source.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	kind := "tournament"
	if source.Swiss {
		kind = "swiss"
	}

	return fmt.Sprintf("%s/api/%s/%s/games", base, kind, url.PathEscape(source.Tournament))
}

func (source *HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	target := source.URL()

	// The timeout covers the whole download, so the context is only
	// cancelled once the body has been closed.
	cancel := context.CancelFunc(func() {})
	if source.Timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, source.Timeout)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		cancel()
		return nil, err
	}

	request.Header.Set("Accept", "application/x-ndjson")
	if source.UserAgent != "" {
		request.Header.Set("User-Agent", source.UserAgent)
	}

	client := source.Client
	if client == nil {
		client = http.DefaultClient
	}

	logrus.WithField("url", target).Debug("fetching tournament games")

	response, err := client.Do(request)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("lichess: GET %s: %w", target, err)
	}

	if response.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(response.Body, 512))
		_ = response.Body.Close()
		cancel()

		return nil, &HTTPError{
			URL:    target,
			Status: response.StatusCode,
			Body:   strings.TrimSpace(string(body)),
		}
	}

	return &cancelOnClose{ReadCloser: response.Body, cancel: cancel}, nil
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (body *cancelOnClose) Close() error {
	defer body.cancel()
	return body.ReadCloser.Close()
}

// FileSource reads a previously exported ndjson file. The path "-" means
// standard input.
type FileSource struct {
	Path string
}

func (source *FileSource) Open(context.Context) (io.ReadCloser, error) {
	if source.Path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(source.Path)
}
