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

// Package codec provides streaming compressors for the content-codings the
// compression middleware can apply: identity, gzip, deflate, br and zstd.
//
// Each codec is a thin adapter over an external compression library
// (github.com/klauspost/compress for gzip/deflate/zstd,
// github.com/andybalholm/brotli for br). The codecs own writer pooling and a
// uniform streaming interface; they never buffer the payload.
package codec

import (
	"io"
	"sync"
)

// Tokens for the codings this package provides, as they appear in
// Accept-Encoding and Content-Encoding headers.
const (
	Identity = "identity"
	Gzip     = "gzip"
	Deflate  = "deflate"
	Brotli   = "br"
	Zstd     = "zstd"
)

// Writer is a streaming compressor bound to a destination. Write compresses
// incrementally, Flush pushes buffered codec state downstream mid-stream,
// and Close emits the trailing codec framing (gzip trailer, final deflate
// block, ...) and releases codec resources. Close must run on every exit
// path, including premature truncation, and never closes the destination.
type Writer interface {
	io.WriteCloser
	Flush() error
}

// Codec produces Writers for one content-coding.
type Codec interface {
	// Token returns the coding token the codec implements.
	Token() string

	// NewWriter returns a Writer compressing into dst. It does not inspect
	// data and cannot fail; resource exhaustion surfaces on Write.
	NewWriter(dst io.Writer) Writer
}

// resettable is the shape shared by all four third-party compressors.
type resettable interface {
	io.WriteCloser
	Flush() error
	Reset(dst io.Writer)
}

// pooledCodec recycles compressor state through a sync.Pool. Compressor
// allocation (window buffers, hash tables) dominates per-request cost, so
// every Writer handed out is returned to the pool on Close.
type pooledCodec struct {
	token string
	pool  sync.Pool
}

func newPooledCodec(token string, newCompressor func() resettable) *pooledCodec {
	c := &pooledCodec{token: token}
	c.pool.New = func() any {
		return newCompressor()
	}

	return c
}

func (c *pooledCodec) Token() string { return c.token }

func (c *pooledCodec) NewWriter(dst io.Writer) Writer {
	cw, ok := c.pool.Get().(resettable)
	if !ok {
		panic("codec: pool corruption - expected resettable compressor")
	}
	cw.Reset(dst)

	return &pooledWriter{compressor: cw, pool: &c.pool}
}

type pooledWriter struct {
	compressor resettable
	pool       *sync.Pool
}

func (w *pooledWriter) Write(p []byte) (int, error) {
	return w.compressor.Write(p)
}

func (w *pooledWriter) Flush() error {
	return w.compressor.Flush()
}

// Close finalizes the codec stream and returns the compressor to the pool.
// Safe to call more than once; only the first call closes.
func (w *pooledWriter) Close() error {
	if w.compressor == nil {
		return nil
	}

	err := w.compressor.Close()

	// Drop the destination reference before pooling.
	w.compressor.Reset(nil)
	w.pool.Put(w.compressor)
	w.compressor = nil

	return err
}
