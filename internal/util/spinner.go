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

package util

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

const spinnerCharSet = 11

// Progress shows a ~working~ spinner with a game counter on standard
// error. It does nothing when standard error is not a terminal.
type Progress struct {
	spinner *spinner.Spinner
}

func NewProgress() *Progress {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return &Progress{}
	}

	s := spinner.New(
		spinner.CharSets[spinnerCharSet], 100*time.Millisecond,
		spinner.WithWriter(os.Stderr),
		spinner.WithColor("yellow"),
	)
	s.Suffix = " processing games"

	return &Progress{spinner: s}
}

func (progress *Progress) Start() {
	if progress.spinner != nil {
		progress.spinner.Start()
	}
}

// Update reports the number of games processed so far.
func (progress *Progress) Update(games int) {
	if progress.spinner != nil {
		progress.spinner.Lock()
		progress.spinner.Suffix = fmt.Sprintf(" processing games (%d)", games)
		progress.spinner.Unlock()
	}
}

func (progress *Progress) Stop() {
	if progress.spinner != nil {
		progress.spinner.Stop()
	}
}
