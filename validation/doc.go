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

// Package validation aggregates per-field validation failures into the
// payload carried by a problem response.
//
// The input is a State: an ordered snapshot of field name -> messages that
// remembers the order in which fields were declared. Aggregate turns a State
// into a Payload in one of two shapes, chosen once at configuration time:
//
//	GroupedByField: {"Email": ["Required"], "Age": ["Must be positive"]}
//	FlatList:       [{"field": "Email", "message": "Required"}, ...]
//
// Both shapes preserve field order and the order of messages within a field.
// Nothing is deduplicated or truncated, and fields without messages are left
// out. An empty State still produces an empty, non-nil payload.
//
// FromValidator and FromBindError build a State from the errors returned by
// github.com/go-playground/validator/v10 and by request decoding.
package validation
