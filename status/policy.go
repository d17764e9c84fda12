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
	"fmt"
	"maps"
	"net/http"
	"strings"

	"dirpx.dev/opresult/apis"
	"dirpx.dev/opresult/failure"
	"dirpx.dev/opresult/status/internal/segmenttrie"
	"google.golang.org/grpc/codes"
)

var (
	_ apis.StatusPolicy = (*Policy)(nil)
	_ apis.Explainer    = (*Policy)(nil)
)

// maxGRPCCode is the highest canonical gRPC status code (Unauthenticated).
const maxGRPCCode = codes.Unauthenticated

// New constructs an immutable Policy snapshot.
//
// Build process overview:
//
//  1. Seed the builder with library defaults (HTTP & gRPC).
//  2. Apply user-provided options (defaults, overrides, prefix rules).
//  3. Validate reasons and status values.
//  4. Normalize prefixes and build the HTTP and gRPC tries.
//  5. Freeze everything into fresh maps owned by the Policy.
//
// Errors returned from this function indicate invalid reasons, prefixes or
// status values. Once New succeeds, lookups can no longer fail.
func New(opts ...Option) (*Policy, error) {
	b := newBuilder()
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	for _, m := range []map[failure.Reason]int{b.httpDefaults, b.httpOverride} {
		for r, v := range m {
			if err := failure.Validate(r); err != nil {
				return nil, fmt.Errorf("status: reason %q: %w", r, err)
			}
			if !validHTTP(v) {
				return nil, fmt.Errorf("status: HTTP status %d for reason %q is out of range", v, r)
			}
		}
	}
	for _, m := range []map[failure.Reason]codes.Code{b.grpcDefaults, b.grpcOverride} {
		for r, v := range m {
			if err := failure.Validate(r); err != nil {
				return nil, fmt.Errorf("status: reason %q: %w", r, err)
			}
			if v > maxGRPCCode {
				return nil, fmt.Errorf("status: gRPC code %d for reason %q is out of range", v, r)
			}
		}
	}

	httpTrie := segmenttrie.New[int]()
	for _, rule := range b.httpPrefixes {
		p, err := normalizePrefix(rule.prefix)
		if err != nil {
			return nil, fmt.Errorf("status: invalid HTTP reason-prefix %q: %w", rule.prefix, err)
		}
		if !validHTTP(rule.val) {
			return nil, fmt.Errorf("status: HTTP status %d for prefix %q is out of range", rule.val, p)
		}
		if err := httpTrie.Insert(p, rule.val); err != nil {
			return nil, fmt.Errorf("status: cannot insert HTTP prefix %q: %w", p, err)
		}
	}

	grpcTrie := segmenttrie.New[codes.Code]()
	for _, rule := range b.grpcPrefixes {
		p, err := normalizePrefix(rule.prefix)
		if err != nil {
			return nil, fmt.Errorf("status: invalid gRPC reason-prefix %q: %w", rule.prefix, err)
		}
		if rule.val < 0 || codes.Code(rule.val) > maxGRPCCode {
			return nil, fmt.Errorf("status: gRPC code %d for prefix %q is out of range", rule.val, p)
		}
		if err := grpcTrie.Insert(p, codes.Code(rule.val)); err != nil {
			return nil, fmt.Errorf("status: cannot insert gRPC prefix %q: %w", p, err)
		}
	}

	return &Policy{
		httpDefault:  maps.Clone(b.httpDefaults),
		httpOverride: maps.Clone(b.httpOverride),
		httpTrie:     httpTrie,
		grpcDefault:  maps.Clone(b.grpcDefaults),
		grpcOverride: maps.Clone(b.grpcOverride),
		grpcTrie:     grpcTrie,
	}, nil
}

// MustNew is New that panics on error. Intended for package-level policies
// built from constant options.
func MustNew(opts ...Option) *Policy {
	p, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Policy is an immutable mapping from failure reasons to transport statuses.
// It is safe for concurrent use once constructed. The zero value resolves every
// reason to the caller's fallback.
type Policy struct {
	httpDefault  map[failure.Reason]int
	httpOverride map[failure.Reason]int
	httpTrie     *segmenttrie.Trie[int]

	grpcDefault  map[failure.Reason]codes.Code
	grpcOverride map[failure.Reason]codes.Code
	grpcTrie     *segmenttrie.Trie[codes.Code]
}

// StatusCode returns the HTTP status configured for r, or fallback when no
// rule applies.
//
// Resolution order (highest to lowest):
//  1. exact override;
//  2. longest-prefix-match over the reason segments;
//  3. the nearest ancestor's override or default ("not_found.order"
//     inherits from "not_found"; at each level an override wins over the
//     library default);
//  4. fallback.
//
// A fallback that is not a positive status is replaced by 500, so the result
// is never zero.
func (p *Policy) StatusCode(r failure.Reason, fallback int) int {
	if fallback <= 0 {
		fallback = http.StatusInternalServerError
	}
	if p == nil {
		return fallback
	}
	if v, ok := p.httpOverride[r]; ok {
		return v
	}
	if v, ok := p.httpTrie.Match(string(r)); ok {
		return v
	}
	if v, _, _, ok := inherit(p.httpOverride, p.httpDefault, r); ok {
		return v
	}
	return fallback
}

// GRPCCode returns the gRPC code configured for r, or fallback when no rule
// applies. It uses the same precedence as StatusCode.
func (p *Policy) GRPCCode(r failure.Reason, fallback codes.Code) codes.Code {
	if p == nil {
		return fallback
	}
	if v, ok := p.grpcOverride[r]; ok {
		return v
	}
	if v, ok := p.grpcTrie.Match(string(r)); ok {
		return v
	}
	if v, _, _, ok := inherit(p.grpcOverride, p.grpcDefault, r); ok {
		return v
	}
	return fallback
}

// HTTPMappings returns the effective exact HTTP table (defaults merged with
// overrides). Prefix rules are not included. The returned map is a copy.
func (p *Policy) HTTPMappings() map[failure.Reason]int {
	if p == nil {
		return map[failure.Reason]int{}
	}
	out := make(map[failure.Reason]int, len(p.httpDefault)+len(p.httpOverride))
	maps.Copy(out, p.httpDefault)
	maps.Copy(out, p.httpOverride)
	return out
}

// Explain produces a textual trace of how the policy resolves r.
//
// Example output:
//
//	reason="not_found.order"
//	http: source=prefix pattern="not_found.order" -> 410
//	grpc: source=fallback
//
// source is one of override, prefix, default or fallback. For fallback the
// final value depends on the caller and is not printed.
func (p *Policy) Explain(r failure.Reason) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "reason=%q\n", r)
	_, _ = fmt.Fprintln(&b, p.explainHTTP(r))
	_, _ = fmt.Fprint(&b, p.explainGRPC(r))
	return b.String()
}

func (p *Policy) explainHTTP(r failure.Reason) string {
	if p == nil {
		return "http: source=fallback"
	}
	if v, ok := p.httpOverride[r]; ok {
		return fmt.Sprintf("http: source=override -> %d", v)
	}
	if v, ok, pat := p.httpTrie.MatchWithPattern(string(r)); ok {
		return fmt.Sprintf("http: source=prefix pattern=%q -> %d", pat, v)
	}
	if v, from, src, ok := inherit(p.httpOverride, p.httpDefault, r); ok {
		return fmt.Sprintf("http: source=%s%s -> %d", src, inherited(r, from), v)
	}
	return "http: source=fallback"
}

func (p *Policy) explainGRPC(r failure.Reason) string {
	if p == nil {
		return "grpc: source=fallback"
	}
	if v, ok := p.grpcOverride[r]; ok {
		return fmt.Sprintf("grpc: source=override -> %s(%d)", v, int(v))
	}
	if v, ok, pat := p.grpcTrie.MatchWithPattern(string(r)); ok {
		return fmt.Sprintf("grpc: source=prefix pattern=%q -> %s(%d)", pat, v, int(v))
	}
	if v, from, src, ok := inherit(p.grpcOverride, p.grpcDefault, r); ok {
		return fmt.Sprintf("grpc: source=%s%s -> %s(%d)", src, inherited(r, from), v, int(v))
	}
	return "grpc: source=fallback"
}

// inherit walks r and its ancestors, nearest first. At each level an
// override wins over the library default. It reports the matched reason and
// the tier ("override" or "default").
func inherit[T any](override, def map[failure.Reason]T, r failure.Reason) (T, failure.Reason, string, bool) {
	for {
		if v, ok := override[r]; ok {
			return v, r, "override", true
		}
		if v, ok := def[r]; ok {
			return v, r, "default", true
		}
		i := strings.LastIndexByte(string(r), '.')
		if i < 0 {
			var zero T
			return zero, failure.Empty, "", false
		}
		r = r[:i]
	}
}

func inherited(r, from failure.Reason) string {
	if r == from {
		return ""
	}
	return fmt.Sprintf(" from=%q", from)
}

// normalizePrefix brings a raw prefix into canonical form and checks every
// segment; "*" is allowed as a one-segment wildcard.
func normalizePrefix(raw string) (string, error) {
	p := failure.Normalize(raw)
	if p == "" {
		return "", fmt.Errorf("empty prefix")
	}
	allWild := true
	for _, seg := range strings.Split(p, ".") {
		if seg == segmenttrie.Wildcard {
			continue
		}
		if !segmenttrie.ValidSegment(seg) {
			return "", fmt.Errorf("invalid segment %q", seg)
		}
		allWild = false
	}
	if allWild {
		return "", fmt.Errorf("prefix cannot consist of '*' only")
	}
	return p, nil
}

func validHTTP(v int) bool {
	return v >= 100 && v <= 599
}
