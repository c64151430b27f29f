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

// Package compression provides middleware for HTTP response compression.
//
// The middleware compresses response bodies with brotli, gzip, deflate or
// zstd, chosen per request by negotiating the client's Accept-Encoding
// header against a server-side priority list. Bodies stream through the
// codec chunk by chunk; nothing is buffered.
//
// # Basic Usage
//
//	import "rivaas.dev/compression"
//
//	mux := http.NewServeMux()
//	handler := compression.New()(mux)
//	http.ListenAndServe(":8080", handler)
//
// # Negotiation
//
// Accept-Encoding entries carry quality weights (q-values). The middleware
// resolves a weight for every server-supported coding (explicit entry, then
// the * wildcard, then zero), discards zero-weight codings, and picks the
// highest weight; the server priority order breaks ties. When nothing
// acceptable remains the response is served uncompressed, never rejected.
//
// A request without an Accept-Encoding header is served uncompressed. HTTP
// would permit any coding in that case; not compressing is this package's
// deliberate policy, matching what clients that omit the header tend to
// expect.
//
// # Response handling
//
// When compression applies, Content-Encoding is set, Content-Length is
// dropped (the compressed length is unknown, so framing falls back to
// chunked), and Vary: Accept-Encoding is merged. Vary is merged on
// uncompressed responses too, so caches key on the header either way.
//
// Responses that already carry a Content-Encoding, bodies below the minimum
// size, empty bodies and 204/304/206 statuses pass through untouched.
//
// # Subpackages
//
// Package accept exposes the Accept-Encoding parser and negotiator; package
// codec exposes the streaming compressors. Both are usable on their own.
package compression
