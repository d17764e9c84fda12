/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package status

import (
	"dirpx.dev/opresult/failure"
	"google.golang.org/grpc/codes"
)

// Option configures a Policy at build time. All options are applied to an
// internal builder and then frozen into an immutable Policy.
type Option func(*builder)

// WithHTTPStatus registers an exact HTTP status for the given reason.
// Overrides take precedence over prefix rules and defaults.
func WithHTTPStatus(r failure.Reason, status int) Option {
	return func(b *builder) { b.httpOverride[r] = status }
}

// WithHTTPDefault sets or replaces the library-level default HTTP status for
// the given reason.
func WithHTTPDefault(r failure.Reason, status int) Option {
	return func(b *builder) { b.httpDefaults[r] = status }
}

// WithoutHTTPDefault removes the library-level default for the given reason,
// so it resolves to the caller's fallback unless another rule matches.
func WithoutHTTPDefault(r failure.Reason) Option {
	return func(b *builder) { delete(b.httpDefaults, r) }
}

// WithHTTPPrefix adds a longest-prefix-match rule for qualified reasons.
// A more specific prefix wins. Use "*" to match a single segment.
func WithHTTPPrefix(prefix string, status int) Option {
	return func(b *builder) { b.httpPrefixes = append(b.httpPrefixes, prefixRule{prefix, status}) }
}

// WithGRPCCode registers an exact gRPC code for the given reason.
func WithGRPCCode(r failure.Reason, c codes.Code) Option {
	return func(b *builder) { b.grpcOverride[r] = c }
}

// WithGRPCDefault sets or replaces the library-level default gRPC code for the
// given reason.
func WithGRPCDefault(r failure.Reason, c codes.Code) Option {
	return func(b *builder) { b.grpcDefaults[r] = c }
}

// WithGRPCPrefix adds a gRPC longest-prefix-match rule for qualified reasons.
func WithGRPCPrefix(prefix string, c codes.Code) Option {
	return func(b *builder) { b.grpcPrefixes = append(b.grpcPrefixes, prefixRule{prefix, int(c)}) }
}

type prefixRule struct {
	// prefix is the raw, dot-separated reason prefix (may contain "*").
	// It is normalized and validated when the trie is built.
	prefix string
	val    int
}

type builder struct {
	httpDefaults map[failure.Reason]int
	grpcDefaults map[failure.Reason]codes.Code

	httpOverride map[failure.Reason]int
	grpcOverride map[failure.Reason]codes.Code

	httpPrefixes []prefixRule
	grpcPrefixes []prefixRule
}

// newBuilder returns a builder seeded with copies of the library defaults.
func newBuilder() *builder {
	b := &builder{
		httpDefaults: make(map[failure.Reason]int, len(defaultHTTP)),
		grpcDefaults: make(map[failure.Reason]codes.Code, len(defaultGRPC)),
		httpOverride: make(map[failure.Reason]int),
		grpcOverride: make(map[failure.Reason]codes.Code),
	}
	for k, v := range defaultHTTP {
		b.httpDefaults[k] = v
	}
	for k, v := range defaultGRPC {
		b.grpcDefaults[k] = v
	}
	return b
}
