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
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is the errors member of a validation problem. It is either Grouped
// or Flat; the set is closed.
type Payload interface {
	// Format reports the shape of the payload.
	Format() Format
	// Len returns the number of entries: fields for Grouped, pairs for Flat.
	Len() int

	sealed()
}

var (
	_ Payload = Grouped(nil)
	_ Payload = Flat(nil)
)

// FieldErrors holds the messages of one field in a Grouped payload.
type FieldErrors struct {
	Field    string
	Messages []string
}

// Grouped is the GroupedByField payload. It encodes as a JSON object whose
// keys keep the slice order.
type Grouped []FieldErrors

// Format implements Payload.
func (Grouped) Format() Format { return GroupedByField }

// Len implements Payload.
func (g Grouped) Len() int { return len(g) }

func (Grouped) sealed() {}

// Map returns the payload as a plain map. Key order is lost.
func (g Grouped) Map() map[string][]string {
	m := make(map[string][]string, len(g))
	for _, fe := range g {
		m[fe.Field] = append([]string(nil), fe.Messages...)
	}
	return m
}

// MarshalJSON implements json.Marshaler.
func (g Grouped) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fe := range g {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(fe.Field)
		if err != nil {
			return nil, err
		}
		msgs := fe.Messages
		if msgs == nil {
			msgs = []string{}
		}
		v, err := json.Marshal(msgs)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping the key order of the
// document.
func (g *Grouped) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("validation: grouped payload must be a JSON object")
	}
	out := Grouped{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		field, _ := tok.(string)
		var msgs []string
		if err := dec.Decode(&msgs); err != nil {
			return fmt.Errorf("validation: field %q: %w", field, err)
		}
		if msgs == nil {
			msgs = []string{}
		}
		out = append(out, FieldErrors{Field: field, Messages: msgs})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*g = out
	return nil
}

// Error is a single validation failure in a Flat payload.
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Flat is the FlatList payload.
type Flat []Error

// Format implements Payload.
func (Flat) Format() Format { return FlatList }

// Len implements Payload.
func (f Flat) Len() int { return len(f) }

func (Flat) sealed() {}

// MarshalJSON implements json.Marshaler. An empty payload encodes as [].
func (f Flat) MarshalJSON() ([]byte, error) {
	if len(f) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal([]Error(f))
}

// Aggregate normalizes s into the payload shape selected by format.
//
// Fields without messages are skipped. Field order and message order are
// preserved. The result is never nil: an empty or nil State yields an empty
// Grouped or Flat value. Format values other than FlatList are treated as
// GroupedByField.
func Aggregate(s *State, format Format) Payload {
	switch format {
	case FlatList:
		out := Flat{}
		for _, e := range s.Entries() {
			for _, m := range e.Messages {
				out = append(out, Error{Field: e.Field, Message: m})
			}
		}
		return out
	case GroupedByField:
		return group(s)
	default:
		return group(s)
	}
}

func group(s *State) Grouped {
	out := Grouped{}
	for _, e := range s.Entries() {
		if len(e.Messages) == 0 {
			continue
		}
		out = append(out, FieldErrors{Field: e.Field, Messages: e.Messages})
	}
	return out
}
