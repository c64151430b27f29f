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

package compression

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// WithPriority sets the server's coding preference order, most preferred
// first. It controls both which codings are offered and how ties in client
// quality are broken. Supported tokens: "br", "gzip", "deflate", "zstd".
// Unknown tokens are skipped with a warning.
// Default: br, gzip, deflate.
//
// Example:
//
//	compression.New(compression.WithPriority("zstd", "br", "gzip"))
func WithPriority(codings ...string) Option {
	return func(cfg *config) {
		if len(codings) > 0 {
			cfg.priority = codings
		}
	}
}

// WithGzipLevel sets the gzip compression level.
// Valid values: 0 (no compression) to 9 (best compression).
// Default: -1 (the library default, typically level 6)
//
// Example:
//
//	compression.New(compression.WithGzipLevel(gzip.BestCompression))
func WithGzipLevel(level int) Option {
	return func(cfg *config) {
		cfg.gzipLevel = level
	}
}

// WithDeflateLevel sets the deflate compression level.
// Valid values: 0 (no compression) to 9 (best compression).
// Default: -1 (the library default)
func WithDeflateLevel(level int) Option {
	return func(cfg *config) {
		cfg.deflateLevel = level
	}
}

// WithBrotliLevel sets the Brotli compression level.
// Valid values: 0 (no compression) to 11 (best compression).
// For dynamic content (JSON/text), use 4-5. Higher levels are CPU-expensive.
// Default: 4 (conservative for dynamic content)
//
// Example:
//
//	compression.New(compression.WithBrotliLevel(5))
func WithBrotliLevel(level int) Option {
	return func(cfg *config) {
		// Clamp to valid Brotli level range [0, 11]
		cfg.brotliLevel = max(0, min(level, 11))
	}
}

// WithZstdLevel sets the zstd compression level on the reference 1-22
// scale. The level maps onto the library's nearest preset.
// Default: 3
func WithZstdLevel(level int) Option {
	return func(cfg *config) {
		cfg.zstdLevel = level
	}
}

// WithMinSize sets the minimum declared response size to compress
// (in bytes). The threshold applies only when the handler set a
// Content-Length header; responses of unknown length always stream through
// the codec, since buffering them to find out would break streaming.
// A size of 0 compresses everything with a body.
// Default: 860
//
// Example:
//
//	compression.New(compression.WithMinSize(2048))
func WithMinSize(size int) Option {
	return func(cfg *config) {
		cfg.minSize = size
	}
}

// WithLogger sets the slog.Logger for error logging.
// If not provided, errors will be silently ignored.
//
// Example:
//
//	import "log/slog"
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	compression.New(compression.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithMetrics enables OpenTelemetry instrumentation using the global
// MeterProvider. Compressed responses are counted per coding along with
// source and emitted byte counters.
//
// Example:
//
//	compression.New(compression.WithMetrics())
func WithMetrics() Option {
	return func(cfg *config) {
		cfg.metricsEnabled = true
	}
}

// WithMeterProvider enables OpenTelemetry instrumentation with a specific
// MeterProvider instead of the global one.
//
// Example:
//
//	compression.New(compression.WithMeterProvider(provider))
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(cfg *config) {
		cfg.metricsEnabled = true
		cfg.meterProvider = mp
	}
}
