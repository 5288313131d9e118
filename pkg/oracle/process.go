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

package oracle

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Config struct {
	Name string
	Cmd  string
	Args []string
	Dir  string

	// Timeout bounds the wait for a single response line. Zero means wait
	// forever.
	Timeout time.Duration

	// Stderr receives the oracle's standard error. Discarded if nil.
	Stderr io.Writer
}

var (
	ErrReadTimeout = errors.New("oracle: read i/o timeout")
	ErrClosed      = errors.New("oracle: stream closed")
)

// Client speaks the oracle's line protocol over a pair of streams. At
// most one query is ever outstanding: any failure during a query poisons
// the client, since a late response could otherwise be paired with the
// next query.
type Client struct {
	name    string
	timeout time.Duration

	writer *bufio.Writer
	lines  chan string
	done   chan struct{}

	// err is written by the reader before lines is closed.
	err error

	broken error
	closed bool
}

// NewClient starts reading responses from r and returns a Client which
// writes queries to w.
func NewClient(r io.Reader, w io.Writer, name string, timeout time.Duration) *Client {
	client := &Client{
		name:    name,
		timeout: timeout,
		writer:  bufio.NewWriter(w),
		lines:   make(chan string),
		done:    make(chan struct{}),
	}

	go client.read(bufio.NewReader(r))
	return client
}

func (client *Client) read(reader *bufio.Reader) {
	defer close(client.lines)

	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			switch {
			case line != "":
				// stream ended in the middle of a line
				client.err = &ProtocolError{Line: line}
			case errors.Is(err, io.EOF):
				client.err = ErrClosed
			default:
				client.err = err
			}
			return
		}

		logrus.Debugf("(%s)> %s", client.name, strings.TrimSpace(line))

		select {
		case client.lines <- line:
		case <-client.done:
			return
		}
	}
}

// Query sends the prefix as one space separated line and waits for the
// oracle's single line response.
func (client *Client) Query(ctx context.Context, prefix []string) (Response, error) {
	if client.broken != nil {
		return Response{}, client.broken
	}

	response, err := client.query(ctx, prefix)
	if err != nil {
		client.broken = err
	}

	return response, err
}

func (client *Client) query(ctx context.Context, prefix []string) (Response, error) {
	request := strings.Join(prefix, " ")
	logrus.Debugf("(%s)< %s", client.name, request)

	if _, err := client.writer.WriteString(request + "\n"); err != nil {
		return Response{}, fmt.Errorf("oracle: write: %w", err)
	}

	if err := client.writer.Flush(); err != nil {
		return Response{}, fmt.Errorf("oracle: write: %w", err)
	}

	var timeout <-chan time.Time
	if client.timeout > 0 {
		timer := time.NewTimer(client.timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case line, ok := <-client.lines:
		if !ok {
			return Response{}, client.err
		}

		return Classify(line)

	case <-timeout:
		return Response{}, ErrReadTimeout

	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Close stops the client. Further queries fail with ErrClosed.
func (client *Client) Close() {
	if client.closed {
		return
	}

	client.closed = true
	close(client.done)

	if client.broken == nil {
		client.broken = ErrClosed
	}
}

// closeGrace is how long an oracle gets to exit after its input is closed
// before it is killed.
const closeGrace = 2 * time.Second

// Process is an oracle running as a subprocess, queried over its standard
// input and output.
type Process struct {
	*Client

	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// Start launches the oracle process described by config.
func Start(config Config) (*Process, error) {
	cmd := exec.Command(config.Cmd, config.Args...)
	cmd.Dir = config.Dir
	cmd.Stderr = config.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("oracle: start %s: %w", config.Cmd, err)
	}

	name := config.Name
	if name == "" {
		name = "oracle"
	}

	logrus.WithFields(logrus.Fields{
		"cmd":  config.Cmd,
		"args": strings.Join(config.Args, " "),
		"pid":  cmd.Process.Pid,
	}).Debug("oracle process started")

	return &Process{
		Client: NewClient(stdout, stdin, name, config.Timeout),
		cmd:    cmd,
		stdin:  stdin,
	}, nil
}

// Close closes the oracle's input, which is its signal to exit, and kills
// it if it is still running after a grace period. Close may be called
// more than once.
func (process *Process) Close() error {
	if process.closed {
		return nil
	}

	process.Client.Close()
	_ = process.stdin.Close()

	exited := make(chan error, 1)
	go func() { exited <- process.cmd.Wait() }()

	select {
	case err := <-exited:
		if err != nil {
			return fmt.Errorf("oracle: %w", err)
		}
		return nil

	case <-time.After(closeGrace):
		logrus.Warnf("(%s) did not exit after its input was closed, killing", process.name)
		_ = process.cmd.Process.Kill()
		<-exited
		return nil
	}
}
