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

package failure

import (
	"bytes"
	"encoding"
	"errors"
	"regexp"
	"strings"
)

// Reason is the canonical, validated representation of a failure reason.
//
// It is defined as a separate type (not just string) so that other packages
// can explicitly declare which values they expect and to avoid accidental
// mixing of raw user input with normalized values.
//
// IMPORTANT: Empty reasons ("") are NOT allowed. A failed operation MUST
// carry a reason; use ServerError when nothing more specific applies.
type Reason string

// MinLength and MaxLength define the allowed length range for a canonical
// reason.
const (
	// MinLength is the minimum length for a valid reason. Ultra-short and
	// ambiguous identifiers like "x" are rejected.
	MinLength = 3

	// MaxLength is the maximum length for a valid reason, qualifiers
	// included.
	MaxLength = 128
)

const (
	// reasonFmt is the canonical regular expression for reasons.
	//
	// We accept 1 to 4 segments, dot-separated, each segment:
	//
	//   - starts with a lowercase ASCII letter [a-z]
	//   - continues with lowercase letters, digits, or underscore [a-z0-9_]*
	//
	// Examples that match:
	//
	//	"not_found"
	//	"not_found.order"
	//	"client_error.upload.mime"
	//
	// Examples that DO NOT match:
	//
	//	"NotFound"        (uppercase)
	//	"not-found"       (dash, fixed by Normalize)
	//	"not_found..x"    (empty segment)
	//	"404"             (digit first)
	reasonFmt = `^[a-z][a-z0-9_]*(\.[a-z][a-z0-9_]*){0,3}$`
)

var reasonRe = regexp.MustCompile(reasonFmt)

var (
	// ErrReasonInvalid is returned when a value cannot be parsed or validated
	// as a failure reason.
	ErrReasonInvalid = errors.New("opresult: invalid failure reason")
)

var (
	_ encoding.TextMarshaler   = (*Reason)(nil)
	_ encoding.TextUnmarshaler = (*Reason)(nil)
)

// Empty is the zero-value reason. It is never valid; Parse and Validate reject
// it.
var Empty Reason = ""

// Parse takes a user-provided string, normalizes it and validates it.
// On success it returns a canonical Reason value.
func Parse(s string) (Reason, error) {
	s = Normalize(s)
	if err := validate(s); err != nil {
		return Empty, err
	}
	return Reason(s), nil
}

// MustParse is the panic-on-error variant of Parse. It is useful for
// declaring host-specific reasons in package-level var blocks.
func MustParse(s string) Reason {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return r
}

// Normalize takes an arbitrary string and tries to bring it closer to the
// canonical reason form.
//
// Only obvious, non-lossy transformations are applied:
//
//   - trims surrounding spaces;
//   - lowercases the value;
//   - converts "/" to "." (callers sometimes build reasons like paths);
//   - replaces '-' and ' ' with '_'.
//
// It does NOT guarantee that the result is valid.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "/", ".")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

// Validate checks whether the provided Reason is in canonical form.
func Validate(r Reason) error {
	return validate(string(r))
}

// String returns the canonical string representation of the reason.
func (r Reason) String() string {
	return string(r)
}

// Root returns the first segment of a qualified reason, e.g. "not_found"
// for "not_found.order". An unqualified reason is its own root.
func (r Reason) Root() Reason {
	if i := strings.IndexByte(string(r), '.'); i >= 0 {
		return r[:i]
	}
	return r
}

// Qualify returns r refined by the given qualifier, e.g.
// NotFound.Qualify("order") == "not_found.order". The result is normalized
// but not validated; callers that accept user input should run it through
// Validate.
func (r Reason) Qualify(qualifier string) Reason {
	q := Normalize(qualifier)
	if q == "" {
		return r
	}
	return Reason(string(r) + "." + q)
}

// Is reports whether r equals parent or is one of its qualified
// refinements. Segment boundaries are respected: "not_found_x" is not a
// refinement of "not_found".
func (r Reason) Is(parent Reason) bool {
	if r == parent {
		return true
	}
	return len(r) > len(parent) &&
		strings.HasPrefix(string(r), string(parent)) &&
		r[len(parent)] == '.'
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
//
// It normalizes and validates the provided text before assigning.
func (r *Reason) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

func validate(s string) error {
	if len(s) < MinLength || len(s) > MaxLength {
		return ErrReasonInvalid
	}
	if !reasonRe.MatchString(s) {
		return ErrReasonInvalid
	}
	return nil
}
