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

package validation

import (
	"encoding"
	"errors"
	"strings"
)

// Format selects the shape of the validation payload.
type Format uint8

const (
	// GroupedByField renders errors as an object keyed by field name. It is
	// the zero value.
	GroupedByField Format = iota
	// FlatList renders errors as an ordered list of {field, message} pairs.
	FlatList
)

// ErrFormatInvalid is returned when text cannot be parsed as a Format.
var ErrFormatInvalid = errors.New("opresult: invalid error response format")

var (
	_ encoding.TextMarshaler   = GroupedByField
	_ encoding.TextUnmarshaler = (*Format)(nil)
)

// ParseFormat parses the configuration spelling of a Format. It accepts
// "grouped" (or "default", "grouped_by_field") and "flat" (or "list",
// "flat_list"), case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_") {
	case "grouped", "default", "grouped_by_field", "groupedbyfield":
		return GroupedByField, nil
	case "flat", "list", "flat_list", "flatlist":
		return FlatList, nil
	}
	return GroupedByField, ErrFormatInvalid
}

// String returns the canonical configuration spelling.
func (f Format) String() string {
	switch f {
	case GroupedByField:
		return "grouped"
	case FlatList:
		return "flat"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (f Format) MarshalText() ([]byte, error) {
	if f != GroupedByField && f != FlatList {
		return nil, ErrFormatInvalid
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Format) UnmarshalText(text []byte) error {
	v, err := ParseFormat(string(text))
	if err != nil {
		return err
	}
	*f = v
	return nil
}
