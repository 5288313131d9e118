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
	"regexp"
	"strconv"
	"strings"
)

var chunkRegexp = regexp.MustCompile(`(\d+|\D+)`)

// AlphanumCompare reports whether a precedes b in natural order: runs of
// digits compare by value, everything else case-insensitively.
func AlphanumCompare(a, b string) bool {
	chunksA := chunkRegexp.FindAllString(a, -1)
	chunksB := chunkRegexp.FindAllString(b, -1)

	for i := 0; i < len(chunksA) && i < len(chunksB); i++ {
		if cmp := compareChunk(chunksA[i], chunksB[i]); cmp != 0 {
			return cmp < 0
		}
	}

	if len(chunksA) != len(chunksB) {
		return len(chunksA) < len(chunksB)
	}

	// naturally equal, fall back to a total order
	return a < b
}

func compareChunk(a, b string) int {
	numA, errA := strconv.ParseUint(a, 10, 64)
	numB, errB := strconv.ParseUint(b, 10, 64)

	if errA == nil && errB == nil {
		switch {
		case numA < numB:
			return -1
		case numA > numB:
			return +1
		default:
			return 0
		}
	}

	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
