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

package opresult

import (
	"dirpx.dev/opresult/validation"
)

// ErrorOption is a functional option for constructing an Error with E or
// Invalid. It always takes an *Error and returns a (possibly new) *Error.
type ErrorOption func(*Error) *Error

// WithDetailOption adds a single detail key/value on construction.
func WithDetailOption(k string, v any) ErrorOption {
	return func(e *Error) *Error { return e.WithDetail(k, v) }
}

// WithDetailsOption merges multiple detail key/values on construction.
func WithDetailsOption(kv map[string]any) ErrorOption {
	return func(e *Error) *Error { return e.WithDetails(kv) }
}

// WithCauseOption attaches a cause on construction.
func WithCauseOption(err error) ErrorOption {
	return func(e *Error) *Error { return e.WithCause(err) }
}

// WithMessageOption sets the message on construction. Mostly useful with
// Invalid, which takes no message.
func WithMessageOption(msg string) ErrorOption {
	return func(e *Error) *Error { return e.WithMessage(msg) }
}

// WithFieldErrorOption records messages for a field on construction.
func WithFieldErrorOption(field string, messages ...string) ErrorOption {
	return func(e *Error) *Error { return e.WithFieldError(field, messages...) }
}

// WithValidationOption attaches a validation snapshot on construction.
func WithValidationOption(state *validation.State) ErrorOption {
	return func(e *Error) *Error { return e.WithValidation(state) }
}
