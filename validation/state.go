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

// Entry is one field of a State with its messages in insertion order.
type Entry struct {
	Field    string
	Messages []string
}

// State is an ordered snapshot of validation failures keyed by field name.
//
// Fields keep the position of their first Add. A field may be registered
// without messages; such fields count as valid and are dropped by Aggregate.
// The zero value and a nil *State are empty and ready to use (Add on a nil
// *State is not allowed).
//
// A State is not safe for concurrent mutation. It is usually filled by a single
// request handler and then handed over read-only.
type State struct {
	entries []Entry
	index   map[string]int
}

// NewState returns an empty State.
func NewState() *State {
	return &State{}
}

// Add appends messages to field, registering the field on first use.
// It returns s to allow chaining.
func (s *State) Add(field string, messages ...string) *State {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	i, ok := s.index[field]
	if !ok {
		i = len(s.entries)
		s.index[field] = i
		s.entries = append(s.entries, Entry{Field: field})
	}
	s.entries[i].Messages = append(s.entries[i].Messages, messages...)
	return s
}

// Merge appends every entry of other to s, preserving other's order.
func (s *State) Merge(other *State) *State {
	for _, e := range other.Entries() {
		s.Add(e.Field, e.Messages...)
	}
	return s
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	return NewState().Merge(s)
}

// Entries returns a deep copy of the fields in declaration order.
func (s *State) Entries() []Entry {
	if s == nil {
		return nil
	}
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{Field: e.Field, Messages: append([]string(nil), e.Messages...)}
	}
	return out
}

// Messages returns a copy of the messages recorded for field.
func (s *State) Messages(field string) []string {
	if s == nil {
		return nil
	}
	i, ok := s.index[field]
	if !ok {
		return nil
	}
	return append([]string(nil), s.entries[i].Messages...)
}

// Len returns the number of registered fields, including fields without
// messages.
func (s *State) Len() int {
	if s == nil {
		return 0
	}
	return len(s.entries)
}

// ErrorCount returns the total number of messages across all fields.
func (s *State) ErrorCount() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, e := range s.entries {
		n += len(e.Messages)
	}
	return n
}

// Valid reports whether no field carries a message.
func (s *State) Valid() bool {
	return s.ErrorCount() == 0
}
