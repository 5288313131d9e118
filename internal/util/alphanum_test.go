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
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAlphanumCompare(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"player9", "player10", true},
		{"player10", "player9", false},
		{"alice", "Bob", true},
		{"a", "a1", true},
		{"a1", "a", false},
		{"x", "x", false},
		{"v1.2", "v1.10", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"<"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, AlphanumCompare(tt.a, tt.b))
		})
	}
}

func TestAlphanumCompare_Sort(t *testing.T) {
	names := []string{"L0g1cal-N0de", "dSinner", "Afiq2017", "afiq10"}
	sort.SliceStable(names, func(i, j int) bool {
		return AlphanumCompare(names[i], names[j])
	})

	assert.Equal(t, []string{"afiq10", "Afiq2017", "dSinner", "L0g1cal-N0de"}, names)
}
