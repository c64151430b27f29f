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

	"github.com/andybalholm/brotli"
)

// NewBrotli returns the br codec. The level is clamped to Brotli's valid
// range [0, 11]. Levels above 5 or so are CPU-expensive for dynamically
// generated content.
func NewBrotli(level int) Codec {
	level = max(brotli.BestSpeed, min(level, brotli.BestCompression))

	return newPooledCodec(Brotli, func() resettable {
		return brotli.NewWriterLevel(io.Discard, level)
	})
}
