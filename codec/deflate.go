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

	"github.com/klauspost/compress/flate"
)

// NewDeflate returns the deflate codec. The wire format is a raw DEFLATE
// stream without a zlib wrapper, matching what most clients accept for the
// "deflate" coding in practice. Levels outside
// [flate.HuffmanOnly, flate.BestCompression] fall back to
// flate.DefaultCompression.
func NewDeflate(level int) Codec {
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		level = flate.DefaultCompression
	}

	return newPooledCodec(Deflate, func() resettable {
		w, _ := flate.NewWriter(io.Discard, level) // level already validated
		return w
	})
}
