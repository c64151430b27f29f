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

package codec

import (
	"io"

	"github.com/klauspost/compress/gzip"
)

// NewGzip returns the gzip codec. Levels outside
// [gzip.HuffmanOnly, gzip.BestCompression] fall back to
// gzip.DefaultCompression.
func NewGzip(level int) Codec {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	return newPooledCodec(Gzip, func() resettable {
		w, _ := gzip.NewWriterLevel(io.Discard, level) // level already validated
		return w
	})
}
