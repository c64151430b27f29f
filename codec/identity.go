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

import "io"

// NewIdentity returns the identity codec, a pass-through used when
// negotiation selects no compression. Its writers forward bytes unmodified;
// Flush and Close are no-ops and the destination is never closed.
func NewIdentity() Codec {
	return identityCodec{}
}

type identityCodec struct{}

func (identityCodec) Token() string { return Identity }

func (identityCodec) NewWriter(dst io.Writer) Writer {
	return identityWriter{dst: dst}
}

type identityWriter struct {
	dst io.Writer
}

func (w identityWriter) Write(p []byte) (int, error) { return w.dst.Write(p) }

func (w identityWriter) Flush() error { return nil }

func (w identityWriter) Close() error { return nil }
