// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package accept

import "testing"

func BenchmarkParseEncodings(b *testing.B) {
	header := "gzip;q=0.8, deflate;q=0.5, br;q=1.0, *;q=0.1"

	b.ReportAllocs()

	for b.Loop() {
		_ = ParseEncodings(header)
	}
}

func BenchmarkNegotiate(b *testing.B) {
	set := ParseEncodings("gzip;q=0.8, deflate;q=0.5, br;q=0.8, *;q=0.1")
	priority := []string{"br", "gzip", "deflate"}

	b.ReportAllocs()

	for b.Loop() {
		_ = Negotiate(set, priority)
	}
}
