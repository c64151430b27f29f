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

// Package main provides examples of using the compression middleware.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"rivaas.dev/compression"
)

func main() {
	mux := http.NewServeMux()

	// A JSON payload large enough to be worth compressing.
	mux.HandleFunc("/api/users", func(w http.ResponseWriter, r *http.Request) {
		users := make([]map[string]any, 100)
		for i := range users {
			users[i] = map[string]any{
				"id":    i,
				"name":  fmt.Sprintf("User %d", i),
				"email": fmt.Sprintf("user%d@example.com", i),
				"bio":   strings.Repeat("Lorem ipsum dolor sit amet. ", 10),
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(users)
	})

	// Streaming responses flush through the codec chunk by chunk.
	mux.HandleFunc("/stream", func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		for i := range 10 {
			fmt.Fprintf(w, "chunk %d at %s\n", i, time.Now().Format(time.RFC3339Nano))
			f.Flush()
			time.Sleep(200 * time.Millisecond)
		}
	})

	// Small responses with a declared length stay uncompressed.
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "4")
		w.Write([]byte("pong"))
	})

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	handler := compression.New(
		compression.WithPriority("zstd", "br", "gzip", "deflate"),
		compression.WithBrotliLevel(5),
		compression.WithLogger(logger),
	)(mux)

	log.Println("Server starting on http://localhost:8080")
	log.Println("Try: curl -sH 'Accept-Encoding: br' localhost:8080/api/users | brotli -d")
	log.Fatal(http.ListenAndServe(":8080", handler))
}
