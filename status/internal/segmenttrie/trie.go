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

// Package segmenttrie indexes dot-separated failure reasons for
// longest-prefix matching.
package segmenttrie

import (
	"errors"
	"strings"
)

// Wildcard matches exactly one segment.
const Wildcard = "*"

// ErrInvalidPrefix is returned when inserting a prefix that is empty, has
// empty or malformed segments, or consists only of wildcards.
var ErrInvalidPrefix = errors.New("segmenttrie: invalid prefix")

// Trie maps reason prefixes such as "not_found.order" or "conflict.*.version"
// to values. A lookup returns the value of the deepest prefix that matches the
// leading segments of the reason; at equal depth an exact segment beats the
// wildcard.
//
// A Trie is not safe for concurrent writes. Once populated it may be read
// from any number of goroutines.
type Trie[T any] struct {
	root node[T]
}

type node[T any] struct {
	children map[string]*node[T]
	set      bool
	val      T
	pattern  string
}

// New creates an empty trie.
func New[T any]() *Trie[T] {
	return &Trie[T]{}
}

// Insert associates val with prefix, replacing any previous value for the
// same prefix.
func (t *Trie[T]) Insert(prefix string, val T) error {
	if t == nil || prefix == "" {
		return ErrInvalidPrefix
	}
	segs := strings.Split(prefix, ".")
	concrete := false
	for _, s := range segs {
		if s == Wildcard {
			continue
		}
		if !ValidSegment(s) {
			return ErrInvalidPrefix
		}
		concrete = true
	}
	if !concrete {
		return ErrInvalidPrefix
	}

	cur := &t.root
	for _, s := range segs {
		if cur.children == nil {
			cur.children = make(map[string]*node[T])
		}
		next, ok := cur.children[s]
		if !ok {
			next = &node[T]{}
			cur.children[s] = next
		}
		cur = next
	}
	cur.set = true
	cur.val = val
	cur.pattern = prefix
	return nil
}

// Match returns the value of the longest prefix matching reason.
func (t *Trie[T]) Match(reason string) (T, bool) {
	v, ok, _ := t.MatchWithPattern(reason)
	return v, ok
}

// MatchWithPattern is Match that also returns the pattern of the rule that
// won, for diagnostics.
func (t *Trie[T]) MatchWithPattern(reason string) (T, bool, string) {
	var zero T
	if t == nil || reason == "" {
		return zero, false, ""
	}
	segs := strings.Split(reason, ".")
	for _, s := range segs {
		if !ValidSegment(s) {
			return zero, false, ""
		}
	}
	best, _ := t.root.lookup(segs, 0, nil, -1)
	if best == nil {
		return zero, false, ""
	}
	return best.val, true, best.pattern
}

// lookup walks segs from depth and returns the deepest node carrying a value.
// The exact branch is visited before the wildcard branch and only a strictly
// deeper hit replaces the current best, so exact wins ties.
func (n *node[T]) lookup(segs []string, depth int, best *node[T], bestDepth int) (*node[T], int) {
	if n.set && depth > bestDepth {
		best, bestDepth = n, depth
	}
	if depth == len(segs) || n.children == nil {
		return best, bestDepth
	}
	if next, ok := n.children[segs[depth]]; ok {
		best, bestDepth = next.lookup(segs, depth+1, best, bestDepth)
	}
	if next, ok := n.children[Wildcard]; ok {
		best, bestDepth = next.lookup(segs, depth+1, best, bestDepth)
	}
	return best, bestDepth
}

// ValidSegment reports whether seg matches [a-z][a-z0-9_]*.
func ValidSegment(seg string) bool {
	if seg == "" || seg[0] < 'a' || seg[0] > 'z' {
		return false
	}
	for i := 1; i < len(seg); i++ {
		c := seg[i]
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return true
}
