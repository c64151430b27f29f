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
	"net/http"
	"strconv"
	"strings"

	"rivaas.dev/compression/accept"
	"rivaas.dev/compression/codec"
)

// defaultMinSize is the smallest declared Content-Length worth compressing.
// Payloads below roughly one TCP segment tend to grow rather than shrink.
const defaultMinSize = 860

// Option defines functional options for compression middleware configuration.
type Option func(*config)

// config holds the configuration for the compression middleware.
type config struct {
	// logger is the structured logger for error logging (slog from standard library)
	logger *slog.Logger

	// priority lists supported codings, most preferred first. It is the
	// server side of negotiation and is immutable once New returns.
	priority []string

	// gzipLevel is the gzip compression level (-1 default, 0-9)
	gzipLevel int

	// deflateLevel is the deflate compression level (-1 default, 0-9)
	deflateLevel int

	// brotliLevel is the Brotli compression level (0-11)
	// For dynamic content (JSON/text), use 4-5. Higher levels are CPU-expensive.
	brotliLevel int

	// zstdLevel is the zstd compression level on the reference 1-22 scale
	zstdLevel int

	// minSize is the minimum declared response size to compress (in bytes)
	minSize int

	// metricsEnabled turns on OpenTelemetry instrumentation
	metricsEnabled bool

	// meterProvider overrides the global MeterProvider when metrics are on
	meterProvider meterProvider
}

// defaultConfig returns the default configuration for compression middleware.
func defaultConfig() *config {
	return &config{
		priority:     []string{codec.Brotli, codec.Gzip, codec.Deflate},
		gzipLevel:    -1, // gzip.DefaultCompression
		deflateLevel: -1, // flate.DefaultCompression
		brotliLevel:  4,  // conservative for dynamic content
		zstdLevel:    3,  // zstd reference default
		minSize:      defaultMinSize,
	}
}

// newCodec builds the codec for a priority token, or nil for an unknown one.
func (cfg *config) newCodec(token string) codec.Codec {
	switch token {
	case codec.Brotli:
		return codec.NewBrotli(cfg.brotliLevel)
	case codec.Gzip:
		return codec.NewGzip(cfg.gzipLevel)
	case codec.Deflate:
		return codec.NewDeflate(cfg.deflateLevel)
	case codec.Zstd:
		return codec.NewZstd(cfg.zstdLevel)
	}

	return nil
}

// New returns a net/http middleware that compresses responses using brotli,
// gzip, deflate or zstd, selected per request from the client's
// Accept-Encoding header and the configured server priority list.
//
// Behavior:
//   - Quality-value negotiation: highest client weight wins, the server
//     priority order breaks ties, q=0 excludes, * covers unlisted codings
//   - No Accept-Encoding header means no compression (server policy; a
//     missing header technically permits any coding)
//   - Vary: Accept-Encoding is merged onto every response, compressed or not
//   - Content-Length is dropped when compression applies; framing falls back
//     to chunked transfer
//   - Responses already carrying Content-Encoding pass through untouched
//   - Empty bodies, 204, 304 and 206 responses pass through untouched
//   - Responses with a declared Content-Length below the minimum size pass
//     through untouched
//   - Compressor state is pooled per coding and level
//
// Basic usage:
//
//	mux := http.NewServeMux()
//	handler := compression.New()(mux)
//	http.ListenAndServe(":8080", handler)
//
// With custom levels and zstd enabled:
//
//	compression.New(
//	    compression.WithPriority("zstd", "br", "gzip"),
//	    compression.WithBrotliLevel(5),
//	)
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	codecs := make(map[string]codec.Codec, len(cfg.priority))
	priority := make([]string, 0, len(cfg.priority))
	for _, token := range cfg.priority {
		token = strings.ToLower(token)
		if _, dup := codecs[token]; dup {
			continue
		}
		c := cfg.newCodec(token)
		if c == nil {
			if cfg.logger != nil {
				cfg.logger.Warn("unsupported coding in priority list, skipping", "coding", token)
			}
			continue
		}
		codecs[token] = c
		priority = append(priority, token)
	}

	rec := newRecorder(cfg)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Caches must re-run negotiation per client even when this
			// request ends up uncompressed.
			addVary(w.Header())

			encodings := accept.ParseEncodings(r.Header.Get("Accept-Encoding"))
			chosen := accept.Negotiate(encodings, priority)
			if chosen == accept.Identity {
				next.ServeHTTP(w, r)
				return
			}

			cw := &compressWriter{
				rw:       w,
				codec:    codecs[chosen],
				encoding: chosen,
				minSize:  cfg.minSize,
				status:   http.StatusOK,
			}

			// Deferred so codec state is released even when the handler
			// panics or the connection is aborted mid-stream.
			defer func() {
				if err := cw.Close(); err != nil && cfg.logger != nil {
					cfg.logger.Error("compression finalization failed",
						"encoding", chosen, "error", err)
				}

				if cw.compressed {
					rec.record(r.Context(), chosen, cw.bytesIn, cw.out.written)
				}
			}()

			next.ServeHTTP(cw, r)
		})
	}
}

// compressWriter wraps the response writer and substitutes the body stream
// with the negotiated codec's output.
//
// The decision to compress is deferred until the first body byte: the
// handler may still set Content-Encoding or Content-Length, declare an
// uncompressible status, or write nothing at all. Headers are therefore
// withheld from the underlying writer until the decision is made.
type compressWriter struct {
	rw       http.ResponseWriter
	codec    codec.Codec
	encoding string
	minSize  int

	enc         codec.Writer // nil until compressing
	out         countingWriter
	status      int
	bytesIn     int64
	decided     bool
	compressed  bool
	sawHeader   bool
	wroteHeader bool
}

func (cw *compressWriter) Header() http.Header {
	return cw.rw.Header()
}

// WriteHeader captures the status code. When the status or the headers
// already rule compression out, the header is committed immediately;
// otherwise commitment waits for the first body byte. Repeat calls are
// ignored, matching net/http semantics.
func (cw *compressWriter) WriteHeader(code int) {
	if cw.sawHeader {
		return
	}
	cw.sawHeader = true
	cw.status = code

	if skipStatus(code) || cw.rw.Header().Get("Content-Encoding") != "" {
		cw.decided = true
		cw.commitHeader(code)
	}
}

// Write routes body bytes through the codec once the compression decision
// has been made. A first non-empty write forces the decision.
func (cw *compressWriter) Write(p []byte) (int, error) {
	if !cw.decided {
		if len(p) == 0 {
			return 0, nil
		}
		cw.decide()
	}

	if cw.compressed {
		n, err := cw.enc.Write(p)
		cw.bytesIn += int64(n)

		return n, err
	}

	return cw.rw.Write(p)
}

// decide settles whether the body is compressed and commits headers.
func (cw *compressWriter) decide() {
	h := cw.rw.Header()

	switch {
	case skipStatus(cw.status):
	case h.Get("Content-Encoding") != "":
		// Already encoded upstream (proxying, pre-compressed artifacts).
		// Re-compressing would double-encode.
	case belowDeclaredSize(h, cw.minSize):
	default:
		// Compressed length is unknown ahead of time.
		h.Del("Content-Length")
		h.Set("Content-Encoding", cw.encoding)
		cw.out = countingWriter{w: cw.rw}
		cw.enc = cw.codec.NewWriter(&cw.out)
		cw.compressed = true
	}

	cw.decided = true
	cw.commitHeader(cw.status)
}

func (cw *compressWriter) commitHeader(code int) {
	if cw.wroteHeader {
		return
	}
	cw.rw.WriteHeader(code)
	cw.wroteHeader = true
}

// Flush lets streaming handlers push partial output. A flush before any
// write commits to compressing, since buffering for a later decision would
// defeat the point of flushing. Codec flush errors are sticky and resurface
// on the next Write or on Close.
func (cw *compressWriter) Flush() {
	if !cw.decided {
		cw.decide()
	}

	if cw.enc != nil {
		_ = cw.enc.Flush()
	}

	if f, ok := cw.rw.(http.Flusher); ok {
		f.Flush()
	}
}

// Close finalizes the response. A handler that wrote nothing produces an
// untouched, uncompressed response; otherwise the codec's trailing framing
// is written out. Runs on every exit path, including handler panics caught
// upstream and aborted connections.
//
// A status is committed here only if the handler explicitly chose one.
// When the handler never called WriteHeader, the headers stay open: on a
// normal return net/http sends 200 itself, and on a panic unwind a recovery
// handler further up can still write its own status.
func (cw *compressWriter) Close() error {
	if !cw.decided {
		cw.decided = true
		if cw.sawHeader {
			cw.commitHeader(cw.status)
		}

		return nil
	}

	if cw.enc != nil {
		return cw.enc.Close()
	}

	return nil
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (cw *compressWriter) Unwrap() http.ResponseWriter {
	return cw.rw
}

// countingWriter counts bytes reaching the transport, for instrumentation.
type countingWriter struct {
	w       http.ResponseWriter
	written int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.written += int64(n)

	return n, err
}

// skipStatus returns true if the status code should not be compressed.
func skipStatus(code int) bool {
	return code == http.StatusNoContent ||
		code == http.StatusNotModified ||
		code == http.StatusPartialContent
}

// belowDeclaredSize reports whether the handler declared a Content-Length
// under the compression threshold. Responses of unknown length stream
// through the codec regardless.
func belowDeclaredSize(h http.Header, minSize int) bool {
	if minSize <= 0 {
		return false
	}

	cl := h.Get("Content-Length")
	if cl == "" {
		return false
	}

	n, err := strconv.ParseInt(cl, 10, 64)

	return err == nil && n < int64(minSize)
}

// addVary merges Accept-Encoding into Vary without duplicating it.
func addVary(h http.Header) {
	for _, field := range h.Values("Vary") {
		for part := range strings.SplitSeq(field, ",") {
			if strings.EqualFold(strings.TrimSpace(part), "Accept-Encoding") {
				return
			}
		}
	}

	h.Add("Vary", "Accept-Encoding")
}
