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
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decompress decodes a compressed buffer with the reference reader for the
// given coding.
func decompress(t *testing.T, token string, compressed []byte) []byte {
	t.Helper()

	var r io.Reader
	switch token {
	case Gzip:
		gr, err := gzip.NewReader(bytes.NewReader(compressed))
		require.NoError(t, err)
		defer gr.Close()
		r = gr
	case Deflate:
		fr := flate.NewReader(bytes.NewReader(compressed))
		defer fr.Close()
		r = fr
	case Brotli:
		r = brotli.NewReader(bytes.NewReader(compressed))
	case Zstd:
		zr, err := zstd.NewReader(bytes.NewReader(compressed))
		require.NoError(t, err)
		defer zr.Close()
		r = zr
	default:
		t.Fatalf("no reference reader for %q", token)
	}

	data, err := io.ReadAll(r)
	require.NoError(t, err)

	return data
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	codecs := []Codec{
		NewGzip(-1),
		NewDeflate(-1),
		NewBrotli(4),
		NewZstd(3),
	}

	payloads := map[string][]byte{
		"empty":      {},
		"short":      []byte("hello"),
		"repetitive": []byte(strings.Repeat("Na", 5000) + ", Batman!"),
		"binary":     {0x00, 0xff, 0x10, 0x80, 0x00, 0x00, 0xfe, 0x01},
	}

	for _, c := range codecs {
		for name, payload := range payloads {
			t.Run(c.Token()+"/"+name, func(t *testing.T) {
				t.Parallel()

				var buf bytes.Buffer
				w := c.NewWriter(&buf)

				n, err := w.Write(payload)
				require.NoError(t, err)
				assert.Equal(t, len(payload), n)
				require.NoError(t, w.Close())

				assert.Equal(t, payload, decompress(t, c.Token(), buf.Bytes()))
			})
		}
	}
}

func TestRoundTripChunked(t *testing.T) {
	t.Parallel()

	payload := []byte(strings.Repeat("chunked payload ", 2048))

	for _, c := range []Codec{NewGzip(-1), NewDeflate(-1), NewBrotli(4), NewZstd(3)} {
		t.Run(c.Token(), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w := c.NewWriter(&buf)

			// Feed the source in small slices, as a streaming body would.
			for chunk := range chunks(payload, 777) {
				n, err := w.Write(chunk)
				require.NoError(t, err)
				require.Equal(t, len(chunk), n)
			}
			require.NoError(t, w.Close())

			assert.Equal(t, payload, decompress(t, c.Token(), buf.Bytes()))
		})
	}
}

func TestFlushEmitsDecodablePrefix(t *testing.T) {
	t.Parallel()

	c := NewGzip(-1)

	var buf bytes.Buffer
	w := c.NewWriter(&buf)

	_, err := w.Write([]byte("first chunk"))
	require.NoError(t, err)
	require.NoError(t, w.Flush())

	// The flush must have pushed a complete deflate block downstream.
	flushed := buf.Len()
	assert.Positive(t, flushed)

	gr, err := gzip.NewReader(bytes.NewReader(buf.Bytes()[:flushed]))
	require.NoError(t, err)
	prefix := make([]byte, len("first chunk"))
	_, err = io.ReadFull(gr, prefix)
	require.NoError(t, err)
	assert.Equal(t, "first chunk", string(prefix))

	_, err = w.Write([]byte(", second chunk"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, []byte("first chunk, second chunk"), decompress(t, Gzip, buf.Bytes()))
}

// Writers drawn from the pool after a Close must produce independent,
// correctly framed streams.
func TestPooledWriterReuse(t *testing.T) {
	t.Parallel()

	for _, c := range []Codec{NewGzip(-1), NewDeflate(-1), NewBrotli(4), NewZstd(3)} {
		t.Run(c.Token(), func(t *testing.T) {
			t.Parallel()

			for i, payload := range []string{"first stream", "second, reused stream"} {
				var buf bytes.Buffer
				w := c.NewWriter(&buf)

				_, err := w.Write([]byte(payload))
				require.NoError(t, err)
				require.NoError(t, w.Close())

				assert.Equal(t, []byte(payload), decompress(t, c.Token(), buf.Bytes()), "stream %d", i)
			}
		})
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewGzip(-1).NewWriter(&buf)

	_, err := w.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}

func TestIdentityPassThrough(t *testing.T) {
	t.Parallel()

	c := NewIdentity()
	assert.Equal(t, Identity, c.Token())

	var buf bytes.Buffer
	w := c.NewWriter(&buf)

	n, err := w.Write([]byte("unmodified"))
	require.NoError(t, err)
	assert.Equal(t, len("unmodified"), n)
	require.NoError(t, w.Flush())
	require.NoError(t, w.Close())

	assert.Equal(t, "unmodified", buf.String())
}

// Identity must never close its destination.
func TestIdentityDoesNotCloseDestination(t *testing.T) {
	t.Parallel()

	dst := &closeTracker{}
	w := NewIdentity().NewWriter(dst)

	_, err := w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.False(t, dst.closed)
}

type closeTracker struct {
	bytes.Buffer
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

// chunks yields fixed-size subslices of p.
func chunks(p []byte, size int) func(yield func([]byte) bool) {
	return func(yield func([]byte) bool) {
		for len(p) > 0 {
			n := min(size, len(p))
			if !yield(p[:n]) {
				return
			}
			p = p[n:]
		}
	}
}
