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

// Package accept parses Accept-Encoding headers and negotiates a
// content-coding against a server priority list.
//
// Quality values are kept as integer thousandths (q=0.85 → 850) instead of
// floats, so comparisons are exact and allocation-free.
package accept

import "strings"

const (
	// Identity is the no-op content-coding: send bytes unmodified.
	Identity = "identity"

	// Wildcard matches any coding the client did not weight explicitly.
	Wildcard = "*"
)

// QualityMax is the weight assigned to entries without a q parameter.
const QualityMax = 1000

// Encoding is a single parsed Accept-Encoding entry: a lowercased coding
// name and its quality weight in thousandths (0..1000). A weight of 0 means
// the client explicitly refuses that coding.
type Encoding struct {
	Name    string
	Quality int
}

// Set is an ordered collection of parsed encodings, deduplicated by name
// (the last occurrence of a repeated name wins). Order carries no meaning;
// negotiation re-ranks by quality.
type Set []Encoding

// Lookup returns the quality for name and whether the client listed it
// explicitly.
func (s Set) Lookup(name string) (quality int, ok bool) {
	for _, e := range s {
		if e.Name == name {
			return e.Quality, true
		}
	}

	return 0, false
}

// ParseEncodings parses a raw Accept-Encoding header value.
//
// Grammar per segment: token[;q=weight]. Coding names are case-insensitive
// and lowercased. A segment with an unparsable or out-of-range weight is
// dropped on its own; the rest of the header still parses. An empty or
// absent header yields an empty Set.
func ParseEncodings(header string) Set {
	if header == "" {
		return nil
	}

	var set Set

	// Manual comma scan, no strings.Split allocation per segment.
	start := 0
	for i := 0; i <= len(header); i++ {
		if i == len(header) || header[i] == ',' {
			if i > start {
				if enc, ok := parseSegment(header[start:i]); ok {
					set = set.put(enc)
				}
			}
			start = i + 1
		}
	}

	return set
}

// put inserts enc, replacing an earlier entry with the same name.
func (s Set) put(enc Encoding) Set {
	for i := range s {
		if s[i].Name == enc.Name {
			s[i] = enc
			return s
		}
	}

	return append(s, enc)
}

// parseSegment parses one comma-delimited segment. The boolean is false when
// the segment is empty or carries a malformed q parameter.
func parseSegment(segment string) (Encoding, bool) {
	start, end := trimWhitespace(segment)
	if start >= end {
		return Encoding{}, false
	}

	// Split coding name from parameters.
	semicolon := -1
	for i := start; i < end; i++ {
		if segment[i] == ';' {
			semicolon = i
			break
		}
	}

	if semicolon == -1 {
		return Encoding{Name: lowerToken(segment[start:end]), Quality: QualityMax}, true
	}

	nameStart, nameEnd := trimWhitespace(segment[start:semicolon])
	if nameStart >= nameEnd {
		return Encoding{}, false
	}
	name := lowerToken(segment[start+nameStart : start+nameEnd])

	quality := QualityMax
	paramStart := semicolon + 1
	for i := paramStart; i <= end; i++ {
		if i == end || segment[i] == ';' {
			if i > paramStart {
				q, ok := parseParam(segment[paramStart:i])
				if !ok {
					return Encoding{}, false
				}
				if q >= 0 {
					quality = q
				}
			}
			paramStart = i + 1
		}
	}

	return Encoding{Name: name, Quality: quality}, true
}

// parseParam parses a single key=value parameter. It returns the quality in
// thousandths when the key is q, -1 for any other (ignored) parameter, and
// ok=false when a q value is present but malformed or out of range.
func parseParam(param string) (quality int, ok bool) {
	start, end := trimWhitespace(param)
	if start >= end {
		return -1, true
	}

	equals := -1
	for i := start; i < end; i++ {
		if param[i] == '=' {
			equals = i
			break
		}
	}
	if equals == -1 {
		return -1, true
	}

	keyStart, keyEnd := trimWhitespace(param[start:equals])
	if keyStart >= keyEnd {
		return -1, true
	}
	key := param[start+keyStart : start+keyEnd]
	if key != "q" && key != "Q" {
		return -1, true
	}

	valStart, valEnd := trimWhitespace(param[equals+1 : end])
	if valStart >= valEnd {
		return 0, false
	}
	value := param[equals+1+valStart : equals+1+valEnd]

	q := parseQuality(value)
	if q < 0 {
		return 0, false
	}

	return q, true
}

// parseQuality parses an RFC 7231 qvalue into integer thousandths.
// Returns -1 on any malformed or out-of-range input.
//
//	qvalue = ( "0" [ "." 0*3DIGIT ] ) / ( "1" [ "." 0*3("0") ] )
func parseQuality(s string) int {
	if len(s) == 0 || len(s) > 5 { // max valid: "1.000" or "0.999"
		return -1
	}

	if s[0] == '1' {
		if len(s) == 1 {
			return QualityMax
		}
		if s[1] != '.' {
			return -1
		}
		for i := 2; i < len(s); i++ {
			if s[i] != '0' {
				return -1 // anything above 1 is out of range
			}
		}
		return QualityMax
	}

	if s[0] == '0' {
		if len(s) == 1 {
			return 0
		}
		if s[1] != '.' {
			return -1
		}

		result := 0
		multiplier := 100
		for i := 2; i < len(s); i++ {
			if s[i] < '0' || s[i] > '9' {
				return -1
			}
			result += int(s[i]-'0') * multiplier
			multiplier /= 10
		}
		return result
	}

	return -1
}

// Negotiate picks the coding to apply from the client's parsed preferences
// and the server's priority list (most preferred first).
//
// For each server-supported coding the client weight resolves as: explicit
// entry, else the wildcard weight, else 0. Zero-weight candidates are
// discarded. Among the survivors the highest client weight wins; on equal
// weights the coding listed earlier in priority wins (server preference
// breaks ties, not the client's declaration order).
//
// An empty Set resolves to Identity: a client that advertises nothing is
// served uncompressed. That is a server policy choice, not an HTTP
// requirement (a missing header technically permits any coding). Negotiate
// never fails; when nothing acceptable remains it returns Identity rather
// than rejecting the request, even for pathological headers such as
// "identity;q=0, *;q=0".
func Negotiate(s Set, priority []string) string {
	if len(s) == 0 {
		return Identity
	}

	wildcard, hasWildcard := s.Lookup(Wildcard)

	chosen := Identity
	chosenQ := 0
	for _, name := range priority {
		q, explicit := s.Lookup(name)
		if !explicit {
			if !hasWildcard {
				continue
			}
			q = wildcard
		}
		if q == 0 {
			continue
		}
		if q > chosenQ {
			chosen = name
			chosenQ = q
		}
	}

	return chosen
}

// lowerToken lowercases a coding name without allocating for the common
// already-lowercase case.
func lowerToken(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			return strings.ToLower(s)
		}
	}

	return s
}

// trimWhitespace returns start and end indices of non-whitespace content.
func trimWhitespace(s string) (start, end int) {
	start = 0
	for start < len(s) && (s[start] == ' ' || s[start] == '\t') {
		start++
	}

	end = len(s)
	for end > start && (s[end-1] == ' ' || s[end-1] == '\t') {
		end--
	}

	return start, end
}
