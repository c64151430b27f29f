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
	"github.com/klauspost/compress/zstd"
)

// NewZstd returns the zstd codec. The level uses the zstd reference scale
// (1-22) and maps onto the library's speed/compression presets. Encoders run
// single-goroutine; concurrency comes from request parallelism, not from the
// codec, and codec state must stay sequential anyway.
func NewZstd(level int) Codec {
	encLevel := zstd.EncoderLevelFromZstd(level)

	return newPooledCodec(Zstd, func() resettable {
		w, _ := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(encLevel),
			zstd.WithEncoderConcurrency(1),
		)
		return w
	})
}
